package metrics

import (
	"math"

	"github.com/san-kum/partsim/internal/particle"
)

// MaxSpeed records the fastest speed any particle reached during the
// run.
type MaxSpeed struct {
	name string
	max  float64
}

func NewMaxSpeed() *MaxSpeed {
	return &MaxSpeed{
		name: "max_speed",
	}
}

func (m *MaxSpeed) Name() string { return m.name }

func (m *MaxSpeed) Observe(ps []*particle.Particle, t float64) {
	for _, p := range ps {
		m.max = math.Max(m.max, p.Velocity.Magnitude())
	}
}

func (m *MaxSpeed) Value() float64 {
	return m.max
}

func (m *MaxSpeed) Reset() {
	m.max = 0
}

// Bounds counts the fraction of frames on which every particle stayed
// inside a cube of the given half-extent around the origin.
type Bounds struct {
	name       string
	halfExtent float64
	violations int
	samples    int
}

func NewBounds(halfExtent float64) *Bounds {
	return &Bounds{
		name:       "bounds",
		halfExtent: halfExtent,
	}
}

func (b *Bounds) Name() string { return b.name }

func (b *Bounds) Observe(ps []*particle.Particle, t float64) {
	b.samples++
	for _, p := range ps {
		if math.Abs(p.Position.X) > b.halfExtent ||
			math.Abs(p.Position.Y) > b.halfExtent ||
			math.Abs(p.Position.Z) > b.halfExtent {
			b.violations++
			break
		}
	}
}

func (b *Bounds) Value() float64 {
	if b.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(b.violations)/float64(b.samples)
}

func (b *Bounds) Reset() {
	b.violations = 0
	b.samples = 0
}
