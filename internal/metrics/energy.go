// Package metrics provides per-frame observers that reduce a particle
// set to a single number over a run.
package metrics

import (
	"math"

	"github.com/san-kum/partsim/internal/particle"
)

// KineticEnergy averages the total kinetic energy of the set across
// the frames it has seen. Static particles carry no kinetic energy.
type KineticEnergy struct {
	name    string
	sum     float64
	samples int
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{
		name: "kinetic_energy",
	}
}

func (k *KineticEnergy) Name() string { return k.name }

func (k *KineticEnergy) Observe(ps []*particle.Particle, t float64) {
	total := 0.0
	for _, p := range ps {
		if p.IsStatic() {
			continue
		}
		total += 0.5 * p.Mass() * p.Velocity.SquaredMagnitude()
	}
	k.sum += total
	k.samples++
}

func (k *KineticEnergy) Value() float64 {
	if k.samples == 0 {
		return 0
	}
	return k.sum / float64(k.samples)
}

func (k *KineticEnergy) Reset() {
	k.sum = 0
	k.samples = 0
}

// EnergyDrift tracks the worst relative excursion of the set's kinetic
// energy from its value on the first observed frame.
type EnergyDrift struct {
	name     string
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{
		name: "energy_drift",
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(ps []*particle.Particle, t float64) {
	energy := 0.0
	for _, p := range ps {
		if p.IsStatic() {
			continue
		}
		energy += 0.5 * p.Mass() * p.Velocity.SquaredMagnitude()
	}

	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	if e.initial != 0 {
		drift := math.Abs(energy-e.initial) / math.Abs(e.initial)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}
