package config

// Presets are ready-made scenes. The ballistic entries fire a single
// projectile along +Z with a reduced constant gravity so the arc stays
// flat over a long range; the spring scenes exercise two-body links.
var Presets = map[string]*Config{
	"pistol": {
		Integrator: "euler", FrameRate: 60, Duration: 5, Workers: 1,
		Particles: []ParticleConfig{
			{Velocity: [3]float64{0, 0, 35}, Mass: 2.0, Damping: 0.99},
		},
		Forces: []ForceConfig{
			{Kind: "gravity", Target: 0, Accel: -1.0},
		},
	},
	"artillery": {
		Integrator: "euler", FrameRate: 60, Duration: 5, Workers: 1,
		Particles: []ParticleConfig{
			{Velocity: [3]float64{0, 30, 40}, Mass: 200.0, Damping: 0.99},
		},
		Forces: []ForceConfig{
			{Kind: "gravity", Target: 0, Accel: -20.0},
		},
	},
	"fireball": {
		Integrator: "euler", FrameRate: 60, Duration: 5, Workers: 1,
		Particles: []ParticleConfig{
			{Velocity: [3]float64{0, 0, 10}, Mass: 1.0, Damping: 0.9},
		},
		Forces: []ForceConfig{
			// Buoyant: the fireball climbs as it drifts downrange.
			{Kind: "gravity", Target: 0, Accel: 0.6},
		},
	},
	"laser": {
		Integrator: "euler", FrameRate: 60, Duration: 2, Workers: 1,
		Particles: []ParticleConfig{
			{Velocity: [3]float64{0, 0, 100}, Mass: 0.1, Damping: 0.99},
		},
	},
	"spring_pair": {
		Integrator: "euler", FrameRate: 100, Duration: 10, Workers: 2,
		Particles: []ParticleConfig{
			{Position: [3]float64{-2, 0, 0}, Mass: 1.0, Damping: 0.995},
			{Position: [3]float64{2, 0, 0}, Mass: 1.0, Damping: 0.995},
		},
		Forces: []ForceConfig{
			{Kind: "spring", Target: 0, Partner: 1, K: 20, RestLength: 2, DampingCoeff: 1.5},
		},
	},
	"bungee_drop": {
		Integrator: "euler", FrameRate: 100, Duration: 15, Workers: 1,
		Particles: []ParticleConfig{
			{Position: [3]float64{0, 0, 0}, Mass: 1.0, Damping: 0.995},
		},
		Forces: []ForceConfig{
			{Kind: "gravity", Target: 0, Accel: -9.81},
			{Kind: "anchored_bungee", Target: 0, Anchor: [3]float64{0, 5, 0}, K: 15, RestLength: 3, DampingCoeff: 2},
		},
	},
	"oscillator": {
		Integrator: "rk4", FrameRate: 100, Duration: 10, Workers: 1,
		Particles: []ParticleConfig{
			{Position: [3]float64{1, 0, 0}, Mass: 1.0, Damping: 1.0},
		},
		Forces: []ForceConfig{
			{Kind: "anchored_spring", Target: 0, K: 10, RestLength: 0},
		},
	},
}

func GetPreset(name string) *Config {
	return Presets[name]
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
