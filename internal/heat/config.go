package heat

import (
	"fmt"
	"math"
)

// Default thermal conductivities [W/(m*K)] used when a Config leaves the
// lambda fields zero.
const (
	DefaultLambdaAir    = 0.026
	DefaultLambdaWindow = 2.0
	DefaultLambdaWall   = 0.5
)

// stabilityFactor bounds the explicit FTCS step: dt <= 0.34*dx^2/alpha.
const stabilityFactor = 0.34

// Config holds the geometric and physical constants for a simulation run.
// All temperatures are absolute (Kelvin); callers working in Celsius convert
// at the boundary. A Config is copied into the Solver at construction and
// never mutated afterwards.
type Config struct {
	Lx float64 // domain length in x [m]
	Ly float64 // domain length in y [m]
	Dx float64 // spatial step [m]
	Dt float64 // time step [s]

	Alpha     float64 // thermal diffusivity [m^2/s]
	Pressure  float64 // ambient air pressure [Pa]
	RGas      float64 // specific gas constant of air [J/(kg*K)]
	CSpecific float64 // specific heat of air [J/(kg*K)]

	LambdaAir    float64 // thermal conductivity of air [W/(m*K)]
	LambdaWall   float64 // thermal conductivity of the walls [W/(m*K)]
	LambdaWindow float64 // thermal conductivity of the windows [W/(m*K)]

	UOutdoor       float64 // outdoor temperature [K]
	UStart         float64 // initial indoor temperature [K]
	ThermostatTemp float64 // thermostat setpoint [K]

	Power float64 // nominal radiator power [W]
}

// withDefaults returns a copy with zero conductivities replaced by the
// package defaults.
func (c Config) withDefaults() Config {
	if c.LambdaAir == 0 {
		c.LambdaAir = DefaultLambdaAir
	}
	if c.LambdaWall == 0 {
		c.LambdaWall = DefaultLambdaWall
	}
	if c.LambdaWindow == 0 {
		c.LambdaWindow = DefaultLambdaWindow
	}
	return c
}

// NX returns the number of grid columns, round(Lx/Dx).
func (c Config) NX() int { return int(math.Round(c.Lx / c.Dx)) }

// NY returns the number of grid rows, round(Ly/Dx).
func (c Config) NY() int { return int(math.Round(c.Ly / c.Dx)) }

// Validate checks the configuration and returns the first fatal problem.
// Stability is deliberately not part of validation; an unstable step size is
// constructible and reported through Stable instead.
func (c Config) Validate() error {
	if c.Lx <= 0 || c.Ly <= 0 {
		return fmt.Errorf("%w: Lx=%g Ly=%g", ErrInvalidDomain, c.Lx, c.Ly)
	}
	if c.Dx <= 0 || c.Dt <= 0 {
		return fmt.Errorf("%w: dx=%g dt=%g", ErrInvalidStep, c.Dx, c.Dt)
	}
	if c.Alpha <= 0 || c.Pressure <= 0 || c.RGas <= 0 || c.CSpecific <= 0 {
		return fmt.Errorf("%w: alpha=%g p=%g R=%g c=%g",
			ErrInvalidPhysics, c.Alpha, c.Pressure, c.RGas, c.CSpecific)
	}
	if nx, ny := c.NX(), c.NY(); nx < 3 || ny < 3 {
		return fmt.Errorf("%w: nx=%d ny=%d", ErrDomainTooSmall, nx, ny)
	}
	return nil
}

// StabilityLimit returns the largest time step for which the explicit FTCS
// scheme stays bounded, 0.34*dx^2/alpha.
func (c Config) StabilityLimit() float64 {
	return stabilityFactor * c.Dx * c.Dx / c.Alpha
}

// Stable reports whether Dt satisfies the FTCS stability bound. An unstable
// configuration still steps, it just diverges; callers should surface the
// warning before running.
func (c Config) Stable() bool {
	return c.Dt <= c.StabilityLimit()
}
