package integrate

import (
	"github.com/san-kum/partsim/internal/particle"
	"github.com/san-kum/partsim/internal/vec"
)

// RK4 is the classic fourth-order Runge-Kutta scheme applied
// independently to velocity and position: four force/velocity samples
// at the step start, two midpoints, and the step end, combined with
// weights 1/6, 2/6, 2/6, 1/6. It perturbs the particle in place while
// sampling and restores it before applying the combined update.
//
// The particle's damping coefficient is not applied by this scheme;
// model drag as an explicit force when using RK4.
type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

// velocityDelta samples the current active forces and converts them to
// a velocity increment over duration. Zero for static particles.
func velocityDelta(p *particle.Particle, duration float64) vec.Vec3 {
	if p.IsStatic() {
		return vec.Zero()
	}
	return p.TotalForce().Scale(p.InverseMass() * duration)
}

func (r *RK4) Step(p *particle.Particle, duration float64) error {
	if err := validate(p, duration); err != nil {
		return err
	}

	initPos := p.Position
	initVel := p.Velocity

	xk1 := p.Velocity.Scale(duration)
	vk1 := velocityDelta(p, duration)

	// First midpoint.
	p.AdvanceClock(duration * 0.5)
	p.Position = p.Position.AddScaled(initVel, 1.0, 0.5*duration)
	p.Velocity = initVel.AddScaled(vk1, 1.0, 0.5)

	xk2 := p.Velocity.Scale(duration)
	vk2 := velocityDelta(p, duration)

	// Second midpoint, same position and time.
	p.Velocity = initVel.AddScaled(vk2, 1.0, 0.5)

	xk3 := p.Velocity.Scale(duration)
	vk3 := velocityDelta(p, duration)

	// Step end.
	p.AdvanceClock(duration * 0.5)
	p.Position = p.Position.AddScaled(initVel, 1.0, 0.5*duration)
	p.Velocity = initVel.Add(vk3)

	xk4 := p.Velocity.Scale(duration)
	vk4 := velocityDelta(p, duration)

	const w1, w2 = 1.0 / 6.0, 2.0 / 6.0

	p.Velocity = initVel.
		AddScaled(vk1, 1.0, w1).
		AddScaled(vk2, 1.0, w2).
		AddScaled(vk3, 1.0, w2).
		AddScaled(vk4, 1.0, w1)

	p.Position = initPos.
		AddScaled(xk1, 1.0, w1).
		AddScaled(xk2, 1.0, w2).
		AddScaled(xk3, 1.0, w2).
		AddScaled(xk4, 1.0, w1)

	return nil
}
