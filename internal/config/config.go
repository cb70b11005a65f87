// Package config loads and saves YAML scene descriptions and turns
// them into runnable worlds.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/partsim/internal/engine"
	"github.com/san-kum/partsim/internal/integrate"
	"github.com/san-kum/partsim/internal/particle"
	"github.com/san-kum/partsim/internal/vec"
)

const (
	DefaultFrameRate = 60.0
	DefaultDuration  = 10.0
	DefaultWorkers   = 4
	DefaultMass      = 1.0
	DefaultDamping   = 0.999
)

// ErrBadForceTarget indicates a force entry referencing a particle
// index outside the scene.
var ErrBadForceTarget = errors.New("partsim: force references an unknown particle index")

type Config struct {
	Integrator string           `yaml:"integrator"`
	FrameRate  float64          `yaml:"frame_rate"`
	Duration   float64          `yaml:"duration"`
	Workers    int              `yaml:"workers"`
	Particles  []ParticleConfig `yaml:"particles"`
	Forces     []ForceConfig    `yaml:"forces"`
}

type ParticleConfig struct {
	Position     [3]float64 `yaml:"position"`
	Velocity     [3]float64 `yaml:"velocity"`
	Acceleration [3]float64 `yaml:"acceleration"`
	Mass         float64    `yaml:"mass"`
	Damping      float64    `yaml:"damping"`
	Static       bool       `yaml:"static"`
}

// ForceConfig is one force entry. Target (and Partner, for two-body
// kinds) index into the scene's particle list. A zero End means the
// force never expires.
type ForceConfig struct {
	Kind         string     `yaml:"kind"`
	Target       int        `yaml:"target"`
	Partner      int        `yaml:"partner"`
	Anchor       [3]float64 `yaml:"anchor"`
	Accel        float64    `yaml:"accel"`
	Linear       float64    `yaml:"linear"`
	Quadratic    float64    `yaml:"quadratic"`
	K            float64    `yaml:"k"`
	RestLength   float64    `yaml:"rest_length"`
	DampingCoeff float64    `yaml:"damping_coeff"`
	Start        float64    `yaml:"start"`
	End          float64    `yaml:"end"`
}

func DefaultConfig() *Config {
	return &Config{
		Integrator: "euler",
		FrameRate:  DefaultFrameRate,
		Duration:   DefaultDuration,
		Workers:    DefaultWorkers,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// EngineConfig maps the scene's run parameters onto the engine.
func (c *Config) EngineConfig() engine.Config {
	return engine.Config{
		FrameRate: c.FrameRate,
		Duration:  c.Duration,
		Workers:   c.Workers,
	}
}

// Build instantiates the scene: integrator first, then particles in
// declaration order, then force registrations.
func (c *Config) Build() (*engine.World, error) {
	integ, err := integrate.New(c.Integrator)
	if err != nil {
		return nil, err
	}

	w := engine.New(integ)

	particles := make([]*particle.Particle, 0, len(c.Particles))
	for i, pc := range c.Particles {
		mass := pc.Mass
		if mass == 0 {
			mass = DefaultMass
		}
		damping := pc.Damping
		if damping == 0 {
			damping = DefaultDamping
		}

		p, err := particle.New(
			toVec(pc.Position),
			toVec(pc.Velocity),
			toVec(pc.Acceleration),
			mass, damping, 0,
		)
		if err != nil {
			return nil, fmt.Errorf("particle %d: %w", i, err)
		}
		if pc.Static {
			p.SetStatic()
		}
		if err := w.Add(p); err != nil {
			return nil, err
		}
		particles = append(particles, p)
	}

	for i, fc := range c.Forces {
		if err := applyForce(particles, fc); err != nil {
			return nil, fmt.Errorf("force %d (%s): %w", i, fc.Kind, err)
		}
	}

	return w, nil
}

func applyForce(particles []*particle.Particle, fc ForceConfig) error {
	if fc.Target < 0 || fc.Target >= len(particles) {
		return ErrBadForceTarget
	}
	target := particles[fc.Target]

	end := fc.End
	if end == 0 {
		end = math.Inf(1)
	}

	switch fc.Kind {
	case particle.KindGravity:
		g := particle.NewGravity()
		if fc.Accel != 0 {
			g.Accel = fc.Accel
		}
		return target.AddForce(g, fc.Start, end)

	case particle.KindDrag:
		d, err := particle.NewDrag(fc.Linear, fc.Quadratic)
		if err != nil {
			return err
		}
		return target.AddForce(d, fc.Start, end)

	case particle.KindSpring:
		if fc.Partner < 0 || fc.Partner >= len(particles) {
			return ErrBadForceTarget
		}
		s, err := particle.NewSpring(target, particles[fc.Partner], fc.K, fc.RestLength, fc.DampingCoeff)
		if err != nil {
			return err
		}
		return particle.AddSpring(s, fc.Start, end)

	case particle.KindBungee:
		if fc.Partner < 0 || fc.Partner >= len(particles) {
			return ErrBadForceTarget
		}
		b, err := particle.NewBungee(target, particles[fc.Partner], fc.K, fc.RestLength, fc.DampingCoeff)
		if err != nil {
			return err
		}
		return particle.AddBungee(b, fc.Start, end)

	case particle.KindAnchoredSpring:
		s, err := particle.NewAnchoredSpring(toVec(fc.Anchor), fc.K, fc.RestLength, fc.DampingCoeff)
		if err != nil {
			return err
		}
		return target.AddForce(s, fc.Start, end)

	case particle.KindAnchoredBungee:
		b, err := particle.NewAnchoredBungee(toVec(fc.Anchor), fc.K, fc.RestLength, fc.DampingCoeff)
		if err != nil {
			return err
		}
		return target.AddForce(b, fc.Start, end)

	default:
		return particle.ErrInvalidForce
	}
}

func toVec(a [3]float64) vec.Vec3 {
	return vec.New(a[0], a[1], a[2])
}
