package particle

import "errors"

// Domain errors for particle operations. Every operation validates its
// arguments eagerly at the boundary and returns one of these; force law
// evaluation itself is total and has no error path.
var (
	// ErrInvalidParam indicates a nil or missing required argument.
	ErrInvalidParam = errors.New("partsim: invalid or missing argument")

	// ErrInvalidMass indicates a non-positive mass.
	ErrInvalidMass = errors.New("partsim: mass must be positive")

	// ErrInvalidDamping indicates a damping value outside [0, 1].
	ErrInvalidDamping = errors.New("partsim: damping must be in [0, 1]")

	// ErrInvalidTime indicates a negative time value.
	ErrInvalidTime = errors.New("partsim: time must be non-negative")

	// ErrInvalidForce indicates a nil or unrecognized force law.
	ErrInvalidForce = errors.New("partsim: unrecognized force law")

	// ErrInvalidSpringConstant indicates a negative spring constant.
	ErrInvalidSpringConstant = errors.New("partsim: spring constant must be non-negative")

	// ErrInvalidRestLength indicates a negative rest length.
	ErrInvalidRestLength = errors.New("partsim: rest length must be non-negative")

	// ErrInvalidDampingCoeff indicates a negative spring damping coefficient.
	ErrInvalidDampingCoeff = errors.New("partsim: damping coefficient must be non-negative")

	// ErrInvalidDragCoeffs indicates a negative drag coefficient.
	ErrInvalidDragCoeffs = errors.New("partsim: drag coefficients must be non-negative")

	// ErrNilSpringPartner indicates a two-body force missing a participant.
	ErrNilSpringPartner = errors.New("partsim: two-body force missing a participant")
)
