package metrics

import (
	"github.com/san-kum/partsim/internal/particle"
)

// Separation averages the distance between a fixed pair of particles
// across the run. Useful for watching spring links settle toward
// their rest length.
type Separation struct {
	name    string
	a, b    *particle.Particle
	sum     float64
	samples int
}

func NewSeparation(a, b *particle.Particle) *Separation {
	return &Separation{
		name: "separation",
		a:    a,
		b:    b,
	}
}

func (s *Separation) Name() string { return s.name }

func (s *Separation) Observe(ps []*particle.Particle, t float64) {
	if s.a == nil || s.b == nil {
		return
	}
	s.sum += s.b.Position.Sub(s.a.Position).Magnitude()
	s.samples++
}

func (s *Separation) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return s.sum / float64(s.samples)
}

func (s *Separation) Reset() {
	s.sum = 0
	s.samples = 0
}
