package particle

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/partsim/internal/vec"
)

func mustParticle(t *testing.T, pos, vel vec.Vec3, mass, damping float64) *Particle {
	t.Helper()
	p, err := New(pos, vel, vec.Zero(), mass, damping, 0)
	if err != nil {
		t.Fatalf("particle construction failed: %v", err)
	}
	return p
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name      string
		mass      float64
		damping   float64
		startTime float64
		wantErr   error
	}{
		{"zero mass", 0, 0.99, 0, ErrInvalidMass},
		{"negative mass", -1, 0.99, 0, ErrInvalidMass},
		{"damping above one", 1, 1.5, 0, ErrInvalidDamping},
		{"negative damping", 1, -0.1, 0, ErrInvalidDamping},
		{"negative start time", 1, 0.99, -1, ErrInvalidTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(vec.Zero(), vec.Zero(), vec.Zero(), tt.mass, tt.damping, tt.startTime)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if p != nil {
				t.Error("expected nil particle on error")
			}
		})
	}
}

func TestNewDefaults(t *testing.T) {
	p := mustParticle(t, vec.New(1, 2, 3), vec.Zero(), 2.0, 0.99)

	if p.Mass() != 2.0 {
		t.Errorf("mass: got %f", p.Mass())
	}
	if p.IsStatic() {
		t.Error("new particle should not be static")
	}
	if p.Clock() != 0 {
		t.Errorf("clock: got %f", p.Clock())
	}
	if p.ForceCount() != 0 {
		t.Errorf("registry should start empty, got %d", p.ForceCount())
	}
	if p.ResultantForce() != vec.Zero() {
		t.Error("accumulator should start at zero")
	}
}

func TestUniqueIDs(t *testing.T) {
	a := mustParticle(t, vec.Zero(), vec.Zero(), 1, 1)
	b := mustParticle(t, vec.Zero(), vec.Zero(), 1, 1)
	if a.ID() == b.ID() {
		t.Error("distinct particles share an ID")
	}
}

func TestMassAccessors(t *testing.T) {
	p := mustParticle(t, vec.Zero(), vec.Zero(), 4, 1)

	if err := p.SetMass(0); !errors.Is(err, ErrInvalidMass) {
		t.Errorf("SetMass(0): got %v", err)
	}
	if err := p.SetMass(8); err != nil {
		t.Fatalf("SetMass: %v", err)
	}
	if p.Mass() != 8 {
		t.Errorf("mass after SetMass: got %f", p.Mass())
	}

	p.SetStatic()
	if !p.IsStatic() {
		t.Error("SetStatic did not make the particle static")
	}
	if !math.IsInf(p.Mass(), 1) {
		t.Errorf("static mass should be +Inf, got %f", p.Mass())
	}
}

func TestAddForceValidation(t *testing.T) {
	p := mustParticle(t, vec.Zero(), vec.Zero(), 1, 1)

	if err := p.AddForce(nil, 0, 1); !errors.Is(err, ErrInvalidParam) {
		t.Errorf("nil force: got %v", err)
	}
	if err := p.AddForce(NewGravity(), -1, 1); !errors.Is(err, ErrInvalidTime) {
		t.Errorf("negative start: got %v", err)
	}
	if err := p.AddForce(NewGravity(), 0, -1); !errors.Is(err, ErrInvalidTime) {
		t.Errorf("negative end: got %v", err)
	}
	if err := p.AddForce(unknownForce{}, 0, 1); !errors.Is(err, ErrInvalidForce) {
		t.Errorf("unknown kind: got %v", err)
	}
	if p.ForceCount() != 0 {
		t.Errorf("failed registrations must not append, got %d", p.ForceCount())
	}
}

type unknownForce struct{}

func (unknownForce) Eval(*Particle) vec.Vec3 { return vec.Zero() }
func (unknownForce) Kind() string            { return "mystery" }

func TestRegistryGrowth(t *testing.T) {
	p := mustParticle(t, vec.Zero(), vec.Zero(), 1, 1)

	// Push well past the initial capacity of 8.
	for i := 0; i < 40; i++ {
		if err := p.AddGravity(); err != nil {
			t.Fatalf("AddGravity #%d: %v", i, err)
		}
	}
	if p.ForceCount() != 40 {
		t.Errorf("expected 40 registrations, got %d", p.ForceCount())
	}
}

func TestClearForces(t *testing.T) {
	p := mustParticle(t, vec.Zero(), vec.New(5, 0, 0), 1, 1)
	if err := p.AddGravity(); err != nil {
		t.Fatal(err)
	}
	p.AccumulateForces()

	p.ClearForces()
	if p.ForceCount() != 0 {
		t.Errorf("registry not emptied, got %d", p.ForceCount())
	}
	if p.ResultantForce() != vec.Zero() {
		t.Error("accumulator not zeroed")
	}
}

func TestTimeWindow(t *testing.T) {
	p := mustParticle(t, vec.Zero(), vec.Zero(), 1, 1)
	if err := p.AddForce(NewGravity(), 2, 5); err != nil {
		t.Fatal(err)
	}

	if got := p.TotalForce(); got != vec.Zero() {
		t.Errorf("force before window: got %v", got)
	}

	p.AdvanceClock(2) // clock == start, inclusive
	if got := p.TotalForce(); got.Y >= 0 {
		t.Errorf("force at window start: got %v", got)
	}

	p.AdvanceClock(4) // clock == 6, past end
	if got := p.TotalForce(); got != vec.Zero() {
		t.Errorf("force after window: got %v", got)
	}
}

func TestAccumulatorLifecycle(t *testing.T) {
	p := mustParticle(t, vec.Zero(), vec.Zero(), 2, 1)
	if err := p.AddGravity(); err != nil {
		t.Fatal(err)
	}

	p.AccumulateForces()
	want := GravityAccel * 2.0
	if got := p.ResultantForce().Y; math.Abs(got-want) > 1e-9 {
		t.Errorf("accumulated force: got %f, want %f", got, want)
	}

	// Accumulation adds; clearing resets.
	p.AccumulateForces()
	if got := p.ResultantForce().Y; math.Abs(got-2*want) > 1e-9 {
		t.Errorf("double accumulation: got %f, want %f", got, 2*want)
	}
	p.ClearAccumulator()
	if p.ResultantForce() != vec.Zero() {
		t.Error("accumulator not cleared")
	}
}

func TestPartners(t *testing.T) {
	a := mustParticle(t, vec.Zero(), vec.Zero(), 1, 1)
	b := mustParticle(t, vec.New(5, 0, 0), vec.Zero(), 1, 1)
	c := mustParticle(t, vec.New(9, 0, 0), vec.Zero(), 1, 1)

	s, err := NewSpring(a, b, 10, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := AddSpring(s, 0, math.Inf(1)); err != nil {
		t.Fatal(err)
	}
	bg, err := NewBungee(b, c, 10, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := AddBungee(bg, 0, math.Inf(1)); err != nil {
		t.Fatal(err)
	}

	if got := a.Partners(); len(got) != 1 || got[0] != b {
		t.Errorf("a partners: got %v", got)
	}
	if got := b.Partners(); len(got) != 2 {
		t.Errorf("b should have 2 partners, got %d", len(got))
	}
	if got := c.Partners(); len(got) != 1 || got[0] != b {
		t.Errorf("c partners: got %v", got)
	}
}
