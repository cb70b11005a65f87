// Package particle provides the point-mass entity and its force
// generators.
//
// A Particle carries kinematic state, an inverse mass, a damping
// coefficient, a local simulation clock, and an owned registry of force
// registrations. Force laws implement the [Force] interface; the six
// built-in laws are [Gravity], [Drag], [Spring], [AnchoredSpring],
// [Bungee] and [AnchoredBungee].
//
// Position, Velocity and Acceleration are exported for the integrators
// and for presentation-layer reads; between integration steps they
// should be treated as read-only.
package particle

import (
	"math"
	"sync/atomic"

	"github.com/san-kum/partsim/internal/vec"
)

const initialForceCapacity = 8

// idCounter distinguishes particles so a two-body force can tell which
// end of its shared parameter block it is being evaluated for.
var idCounter atomic.Uint64

// Registration binds a force law to an active-time window on one
// particle. The Force value may be shared with another particle's
// registration (two-body laws register the same value on both ends).
type Registration struct {
	Force  Force
	Start  float64
	End    float64
	Active bool
}

type Particle struct {
	Position     vec.Vec3
	Velocity     vec.Vec3
	Acceleration vec.Vec3

	resultant   vec.Vec3
	inverseMass float64
	damping     float64
	clock       float64
	registry    []Registration
	id          uint64
}

// New validates and constructs a particle. Static (infinite-mass)
// particles are built with a regular mass and [Particle.SetStatic].
func New(position, velocity, acceleration vec.Vec3, mass, damping, startTime float64) (*Particle, error) {
	if mass <= 0 {
		return nil, ErrInvalidMass
	}
	if damping < 0 || damping > 1 {
		return nil, ErrInvalidDamping
	}
	if startTime < 0 {
		return nil, ErrInvalidTime
	}

	return &Particle{
		Position:     position,
		Velocity:     velocity,
		Acceleration: acceleration,
		inverseMass:  1.0 / mass,
		damping:      damping,
		clock:        startTime,
		registry:     make([]Registration, 0, initialForceCapacity),
		id:           idCounter.Add(1),
	}, nil
}

func (p *Particle) ID() uint64 { return p.id }

// Mass returns +Inf for a static particle.
func (p *Particle) Mass() float64 {
	if p.inverseMass == 0 {
		return math.Inf(1)
	}
	return 1.0 / p.inverseMass
}

func (p *Particle) SetMass(mass float64) error {
	if mass <= 0 {
		return ErrInvalidMass
	}
	p.inverseMass = 1.0 / mass
	return nil
}

// SetStatic gives the particle infinite mass. Static particles ignore
// every force and keep whatever acceleration the caller set.
func (p *Particle) SetStatic() { p.inverseMass = 0 }

func (p *Particle) IsStatic() bool { return p.inverseMass == 0 }

func (p *Particle) InverseMass() float64 { return p.inverseMass }

func (p *Particle) Damping() float64 { return p.damping }

// Clock returns the particle's local simulated time.
func (p *Particle) Clock() float64 { return p.clock }

// AdvanceClock moves the local clock forward. Only the integrators
// should call this.
func (p *Particle) AdvanceClock(dt float64) { p.clock += dt }

// AddForce appends a registration for f over the window [start, end].
// The window is compared against the particle's local clock during
// integration.
func (p *Particle) AddForce(f Force, start, end float64) error {
	if f == nil {
		return ErrInvalidParam
	}
	if !knownKind(f.Kind()) {
		return ErrInvalidForce
	}
	if start < 0 || end < 0 {
		return ErrInvalidTime
	}
	p.registry = append(p.registry, Registration{Force: f, Start: start, End: end, Active: true})
	return nil
}

// ClearForces empties the registry and zeroes the force accumulator.
// Shared force values referenced by other particles are untouched.
func (p *Particle) ClearForces() {
	p.resultant = vec.Zero()
	p.registry = p.registry[:0]
}

// Registrations returns a copy of the registry.
func (p *Particle) Registrations() []Registration {
	out := make([]Registration, len(p.registry))
	copy(out, p.registry)
	return out
}

func (p *Particle) ForceCount() int { return len(p.registry) }

// Partners lists the other end of every two-body force registered on p.
// The world driver uses this to keep spring-linked particles on one
// worker.
func (p *Particle) Partners() []*Particle {
	var out []*Particle
	for i := range p.registry {
		switch f := p.registry[i].Force.(type) {
		case *Spring:
			out = append(out, f.partner(p))
		case *Bungee:
			out = append(out, f.partner(p))
		}
	}
	return out
}

// TotalForce evaluates every active registration whose window contains
// the particle's current clock and returns the sum. It does not touch
// the accumulator.
func (p *Particle) TotalForce() vec.Vec3 {
	total := vec.Zero()
	for i := range p.registry {
		reg := &p.registry[i]
		if !reg.Active {
			continue
		}
		if p.clock >= reg.Start && p.clock <= reg.End {
			total = total.Add(reg.Force.Eval(p))
		}
	}
	return total
}

// AccumulateForces adds the currently active forces into the resultant
// accumulator. The accumulator never carries across steps: the
// integrator clears it at the end of every sub-step.
func (p *Particle) AccumulateForces() {
	p.resultant = p.resultant.Add(p.TotalForce())
}

func (p *Particle) ResultantForce() vec.Vec3 { return p.resultant }

func (p *Particle) ClearAccumulator() { p.resultant = vec.Zero() }
