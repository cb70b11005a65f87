package integrate

import (
	"math"

	"github.com/san-kum/partsim/internal/particle"
	"github.com/san-kum/partsim/internal/vec"
)

// subSteps slices every Step into equal internal steps so stiff forces
// (springs) stay stable without the caller choosing a sub-step size.
const subSteps = 100

// Euler is the sub-stepped semi-implicit Euler integrator. Per
// sub-step dt it applies
//
//	position += velocity * dt
//	acceleration = resultantForce * inverseMass
//	velocity = velocity * damping^dt + acceleration * dt
//
// with damping normalized as the fraction of velocity retained per
// second. The acceleration is rebuilt from the active forces every
// sub-step; constant ambient accelerations belong in a force (e.g. a
// Gravity with a custom coefficient), not in the acceleration field.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(p *particle.Particle, duration float64) error {
	if err := validate(p, duration); err != nil {
		return err
	}

	dt := duration / subSteps
	for i := 0; i < subSteps; i++ {
		p.Position = p.Position.AddScaled(p.Velocity, 1.0, dt)

		p.AccumulateForces()
		if !p.IsStatic() {
			p.Acceleration = p.Acceleration.AddScaled(p.ResultantForce(), 1.0, p.InverseMass())
		}

		dampingFactor := math.Pow(p.Damping(), dt)
		p.Velocity = p.Velocity.AddScaled(p.Acceleration, dampingFactor, dt)

		p.ClearAccumulator()
		p.AdvanceClock(dt)
		if !p.IsStatic() {
			// Acceleration must reflect only this sub-step's force;
			// without the reset it compounds across sub-steps.
			p.Acceleration = vec.Zero()
		}
	}

	return nil
}
