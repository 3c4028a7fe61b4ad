package heat

import "errors"

// Configuration errors returned by NewSolver. All are fatal: a solver is
// never constructed from an invalid Config.
var (
	// ErrInvalidDomain indicates a non-positive domain length.
	ErrInvalidDomain = errors.New("heat: domain lengths must be positive")

	// ErrInvalidStep indicates a non-positive spatial or time step.
	ErrInvalidStep = errors.New("heat: dx and dt must be positive")

	// ErrDomainTooSmall indicates a grid without interior cells.
	ErrDomainTooSmall = errors.New("heat: grid needs at least one interior cell (nx, ny >= 3)")

	// ErrInvalidPhysics indicates a non-positive physical constant.
	ErrInvalidPhysics = errors.New("heat: alpha, pressure, gas constant and specific heat must be positive")
)
