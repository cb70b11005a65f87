// Package integrate advances particle state through time.
//
// Two schemes are provided: a sub-stepped semi-implicit Euler
// integrator (the default) and a classic fourth-order Runge-Kutta
// variant for stiffer forces or larger steps. The scheme is a whole-run
// choice made once by name, never a per-particle one.
package integrate

import (
	"errors"
	"fmt"

	"github.com/san-kum/partsim/internal/particle"
)

// ErrInvalidDuration indicates a non-positive integration duration.
var ErrInvalidDuration = errors.New("partsim: duration must be positive")

// Integrator advances one particle by a duration. Step runs to
// completion synchronously; concurrency over disjoint particles is the
// caller's concern.
type Integrator interface {
	Step(p *particle.Particle, duration float64) error
}

// New returns the integrator registered under name.
func New(name string) (Integrator, error) {
	switch name {
	case "euler", "":
		return NewEuler(), nil
	case "rk4":
		return NewRK4(), nil
	}
	return nil, fmt.Errorf("unknown integrator: %s", name)
}

func validate(p *particle.Particle, duration float64) error {
	if p == nil {
		return particle.ErrInvalidParam
	}
	if duration <= 0 {
		return ErrInvalidDuration
	}
	return nil
}
