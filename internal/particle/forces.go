package particle

import (
	"math"

	"github.com/san-kum/partsim/internal/vec"
)

const (
	// GravityAccel is Earth gravity along -Y.
	GravityAccel = -9.81

	// dragSpeedEpsilon is the deadzone below which drag returns zero,
	// avoiding an unstable normalize near zero speed.
	dragSpeedEpsilon = 0.01
)

// Force is a force law together with its parameters. Eval returns the
// instantaneous force (not acceleration) on p; it is total over all
// particle states. Two-body laws are shared: the same Force value is
// registered on both participants and resolves which side it is asked
// about through the particle's ID.
type Force interface {
	Eval(p *Particle) vec.Vec3
	// Kind names the law for configs and run metadata.
	Kind() string
}

const (
	KindGravity        = "gravity"
	KindDrag           = "drag"
	KindSpring         = "spring"
	KindAnchoredSpring = "anchored_spring"
	KindBungee         = "bungee"
	KindAnchoredBungee = "anchored_bungee"
)

func knownKind(kind string) bool {
	switch kind {
	case KindGravity, KindDrag, KindSpring, KindAnchoredSpring, KindBungee, KindAnchoredBungee:
		return true
	}
	return false
}

// Gravity applies (0, Accel*m, 0). Static particles feel nothing.
type Gravity struct {
	Accel float64
}

func NewGravity() *Gravity {
	return &Gravity{Accel: GravityAccel}
}

func (g *Gravity) Kind() string { return KindGravity }

func (g *Gravity) Eval(p *Particle) vec.Vec3 {
	if p.IsStatic() {
		return vec.Zero()
	}
	return vec.New(0, g.Accel*p.Mass(), 0)
}

// Drag applies -(k1*|v| + k2*|v|^2) along the velocity direction.
type Drag struct {
	Linear    float64 // k1
	Quadratic float64 // k2
}

func NewDrag(linear, quadratic float64) (*Drag, error) {
	if linear < 0 || quadratic < 0 {
		return nil, ErrInvalidDragCoeffs
	}
	return &Drag{Linear: linear, Quadratic: quadratic}, nil
}

func (d *Drag) Kind() string { return KindDrag }

func (d *Drag) Eval(p *Particle) vec.Vec3 {
	speed := p.Velocity.Magnitude()
	if speed < dragSpeedEpsilon {
		return vec.Zero()
	}
	mag := d.Linear*speed + d.Quadratic*speed*speed
	return p.Velocity.Normalize().Scale(-mag)
}

// springForce is the damped Hooke law shared by the spring and bungee
// variants: F = -k(|d| - rest) - c*(d . relVel)/|d| along d, where
// d points from the other end toward p. extensionOnly gates the bungee
// behavior: no force unless stretched past rest length.
func springForce(p *Particle, otherPos, otherVel vec.Vec3, k, rest, c float64, extensionOnly bool) vec.Vec3 {
	d := p.Position.Sub(otherPos)
	length := d.Magnitude()
	if length == 0 {
		return vec.Zero()
	}
	if extensionOnly && length-rest <= 0 {
		return vec.Zero()
	}
	relVel := p.Velocity.Sub(otherVel)
	mag := -k*(length-rest) - c*(d.Dot(relVel)/length)
	return d.Normalize().Scale(mag)
}

// Spring connects two particles. The law is antisymmetric in the
// participants, so evaluating it independently from each end against
// the same partner state yields equal-and-opposite forces; no shared
// mutable bookkeeping is needed.
type Spring struct {
	A, B         *Particle
	K            float64
	RestLength   float64
	DampingCoeff float64
}

func NewSpring(a, b *Particle, k, restLength, dampingCoeff float64) (*Spring, error) {
	if err := validateSpringParams(k, restLength, dampingCoeff); err != nil {
		return nil, err
	}
	if a == nil || b == nil {
		return nil, ErrNilSpringPartner
	}
	return &Spring{A: a, B: b, K: k, RestLength: restLength, DampingCoeff: dampingCoeff}, nil
}

func (s *Spring) Kind() string { return KindSpring }

func (s *Spring) partner(p *Particle) *Particle {
	if s.A.id == p.id {
		return s.B
	}
	return s.A
}

func (s *Spring) Eval(p *Particle) vec.Vec3 {
	other := s.partner(p)
	return springForce(p, other.Position, other.Velocity, s.K, s.RestLength, s.DampingCoeff, false)
}

// AnchoredSpring is the spring law with one end fixed at a point.
type AnchoredSpring struct {
	Anchor       vec.Vec3
	K            float64
	RestLength   float64
	DampingCoeff float64
}

func NewAnchoredSpring(anchor vec.Vec3, k, restLength, dampingCoeff float64) (*AnchoredSpring, error) {
	if err := validateSpringParams(k, restLength, dampingCoeff); err != nil {
		return nil, err
	}
	return &AnchoredSpring{Anchor: anchor, K: k, RestLength: restLength, DampingCoeff: dampingCoeff}, nil
}

func (s *AnchoredSpring) Kind() string { return KindAnchoredSpring }

func (s *AnchoredSpring) Eval(p *Particle) vec.Vec3 {
	return springForce(p, s.Anchor, vec.Zero(), s.K, s.RestLength, s.DampingCoeff, false)
}

// Bungee is a slack cord between two particles: it resists extension
// past rest length but cannot push.
type Bungee struct {
	A, B         *Particle
	K            float64
	RestLength   float64
	DampingCoeff float64
}

func NewBungee(a, b *Particle, k, restLength, dampingCoeff float64) (*Bungee, error) {
	if err := validateSpringParams(k, restLength, dampingCoeff); err != nil {
		return nil, err
	}
	if a == nil || b == nil {
		return nil, ErrNilSpringPartner
	}
	return &Bungee{A: a, B: b, K: k, RestLength: restLength, DampingCoeff: dampingCoeff}, nil
}

func (b *Bungee) Kind() string { return KindBungee }

func (b *Bungee) partner(p *Particle) *Particle {
	if b.A.id == p.id {
		return b.B
	}
	return b.A
}

func (b *Bungee) Eval(p *Particle) vec.Vec3 {
	other := b.partner(p)
	return springForce(p, other.Position, other.Velocity, b.K, b.RestLength, b.DampingCoeff, true)
}

// AnchoredBungee is the bungee law fixed to a point.
type AnchoredBungee struct {
	Anchor       vec.Vec3
	K            float64
	RestLength   float64
	DampingCoeff float64
}

func NewAnchoredBungee(anchor vec.Vec3, k, restLength, dampingCoeff float64) (*AnchoredBungee, error) {
	if err := validateSpringParams(k, restLength, dampingCoeff); err != nil {
		return nil, err
	}
	return &AnchoredBungee{Anchor: anchor, K: k, RestLength: restLength, DampingCoeff: dampingCoeff}, nil
}

func (b *AnchoredBungee) Kind() string { return KindAnchoredBungee }

func (b *AnchoredBungee) Eval(p *Particle) vec.Vec3 {
	return springForce(p, b.Anchor, vec.Zero(), b.K, b.RestLength, b.DampingCoeff, true)
}

func validateSpringParams(k, restLength, dampingCoeff float64) error {
	if k < 0 {
		return ErrInvalidSpringConstant
	}
	if restLength < 0 {
		return ErrInvalidRestLength
	}
	if dampingCoeff < 0 {
		return ErrInvalidDampingCoeff
	}
	return nil
}

// AddGravity attaches a standard gravity force, active forever.
func (p *Particle) AddGravity() error {
	return p.AddForce(NewGravity(), 0, math.Inf(1))
}

// AddDrag attaches a drag force, active forever.
func (p *Particle) AddDrag(d *Drag) error {
	if d == nil {
		return ErrInvalidParam
	}
	return p.AddForce(d, 0, math.Inf(1))
}

// AddAnchoredSpring attaches an anchored spring over [start, end].
func (p *Particle) AddAnchoredSpring(s *AnchoredSpring, start, end float64) error {
	if s == nil {
		return ErrInvalidParam
	}
	return p.AddForce(s, start, end)
}

// AddAnchoredBungee attaches an anchored bungee over [start, end].
func (p *Particle) AddAnchoredBungee(b *AnchoredBungee, start, end float64) error {
	if b == nil {
		return ErrInvalidParam
	}
	return p.AddForce(b, start, end)
}

// AddSpring registers the same spring on both of its participants.
func AddSpring(s *Spring, start, end float64) error {
	if s == nil || s.A == nil || s.B == nil {
		return ErrInvalidParam
	}
	if err := s.A.AddForce(s, start, end); err != nil {
		return err
	}
	return s.B.AddForce(s, start, end)
}

// AddBungee registers the same bungee on both of its participants.
func AddBungee(b *Bungee, start, end float64) error {
	if b == nil || b.A == nil || b.B == nil {
		return ErrInvalidParam
	}
	if err := b.A.AddForce(b, start, end); err != nil {
		return err
	}
	return b.B.AddForce(b, start, end)
}
