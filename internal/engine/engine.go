// Package engine drives many particles at a fixed frame rate.
//
// The integrator itself is single-particle and synchronous; the World
// layers scheduling and parallelism on top. Two-body forces make
// spring-linked particles read each other's state, so the World groups
// linked particles into islands and always steps a whole island on one
// worker — no particle's state is read by another worker while it
// moves.
//
// # Thread Safety
//
// World methods are not safe for concurrent use with each other.
// Attaching forces or growing a particle's registry while a Step is in
// flight is a caller error.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/san-kum/partsim/internal/integrate"
	"github.com/san-kum/partsim/internal/particle"
	"github.com/san-kum/partsim/internal/vec"
)

// ErrInvalidFrameRate indicates a non-positive frame rate.
var ErrInvalidFrameRate = errors.New("partsim: frame rate must be positive")

// defaultWorkers bounds the worker fan-out when the config leaves it
// unset.
const defaultWorkers = 4

// Metric observes the particle population once per frame.
type Metric interface {
	Name() string
	Observe(ps []*particle.Particle, t float64)
	Value() float64
	Reset()
}

// Observer is notified after every completed frame.
type Observer interface {
	OnFrame(ps []*particle.Particle, frame int, t float64)
}

type Config struct {
	FrameRate float64 // frames per simulated second
	Duration  float64 // simulated seconds
	Workers   int
}

func DefaultConfig() Config {
	return Config{
		FrameRate: 60,
		Duration:  10,
		Workers:   defaultWorkers,
	}
}

// Result holds a recorded run: one entry per frame plus the initial
// state.
type Result struct {
	Times       []float64
	Positions   [][]vec.Vec3 // frame -> particle -> position
	Metrics     map[string]float64
	FramesTaken int
	Errors      []error
}

// StepError wraps an integration failure with frame context.
type StepError struct {
	Frame   int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("frame %d (t=%.4f): %v", e.Frame, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error { return e.Wrapped }

type World struct {
	particles []*particle.Particle
	integ     integrate.Integrator
	metrics   []Metric
	observers []Observer
}

func New(integ integrate.Integrator) *World {
	return &World{
		integ:     integ,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (w *World) AddMetric(m Metric)     { w.metrics = append(w.metrics, m) }
func (w *World) AddObserver(o Observer) { w.observers = append(w.observers, o) }

func (w *World) Add(p *particle.Particle) error {
	if p == nil {
		return particle.ErrInvalidParam
	}
	w.particles = append(w.particles, p)
	return nil
}

func (w *World) Particles() []*particle.Particle { return w.particles }

// Step integrates every particle by duration, fanning islands out
// across workers.
func (w *World) Step(duration float64, workers int) error {
	if duration <= 0 {
		return integrate.ErrInvalidDuration
	}
	if len(w.particles) == 0 {
		return nil
	}

	islands := w.buildIslands()
	errs := parallelIslands(islands, workers, func(island []int) error {
		for _, idx := range island {
			if err := w.integ.Step(w.particles[idx], duration); err != nil {
				return err
			}
		}
		return nil
	})

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// Run advances the world for cfg.Duration at cfg.FrameRate as fast as
// the machine allows, recording the trajectory. The context is checked
// between frames; a canceled run returns the partial result alongside
// the context error.
func (w *World) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	frames := int(cfg.Duration * cfg.FrameRate)
	frameDuration := 1.0 / cfg.FrameRate

	result := &Result{
		Times:     make([]float64, 0, frames+1),
		Positions: make([][]vec.Vec3, 0, frames+1),
		Metrics:   make(map[string]float64),
		Errors:    make([]error, 0),
	}

	for _, m := range w.metrics {
		m.Reset()
	}

	t := 0.0
	result.Times = append(result.Times, t)
	result.Positions = append(result.Positions, w.snapshotPositions())

	for frame := 0; frame < frames; frame++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if err := w.Step(frameDuration, cfg.Workers); err != nil {
			stepErr := &StepError{Frame: frame, Time: t, Wrapped: err}
			result.Errors = append(result.Errors, stepErr)
			return result, stepErr
		}

		t += frameDuration
		result.FramesTaken++
		result.Times = append(result.Times, t)
		result.Positions = append(result.Positions, w.snapshotPositions())

		for _, m := range w.metrics {
			m.Observe(w.particles, t)
		}
		for _, obs := range w.observers {
			obs.OnFrame(w.particles, frame, t)
		}
	}

	for _, m := range w.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

// RunRealtime paces frames to wall-clock time with a ticker and hands
// each completed frame to callback; returning false stops the run.
// Pacing is pure scheduling: the integration itself is identical to
// Run.
func (w *World) RunRealtime(ctx context.Context, cfg Config, callback func(frame int, t float64) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	frames := int(cfg.Duration * cfg.FrameRate)
	frameDuration := 1.0 / cfg.FrameRate

	ticker := time.NewTicker(time.Duration(float64(time.Second) / cfg.FrameRate))
	defer ticker.Stop()

	t := 0.0
	for frame := 0; frame < frames; frame++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		if err := w.Step(frameDuration, cfg.Workers); err != nil {
			return &StepError{Frame: frame, Time: t, Wrapped: err}
		}
		t += frameDuration

		if callback != nil && !callback(frame, t) {
			return nil
		}
	}

	return nil
}

func (w *World) snapshotPositions() []vec.Vec3 {
	out := make([]vec.Vec3, len(w.particles))
	for i, p := range w.particles {
		out[i] = p.Position
	}
	return out
}

func validateConfig(cfg Config) error {
	if cfg.FrameRate <= 0 {
		return ErrInvalidFrameRate
	}
	if cfg.Duration <= 0 {
		return integrate.ErrInvalidDuration
	}
	return nil
}
