package heat

import "fmt"

// Observer is notified after every completed step. Observers that want a
// coarser cadence throttle on the step counter themselves; the run loop
// stays decoupled from reporting.
type Observer interface {
	OnStep(step int, f *Field, totalEnergy float64)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(step int, f *Field, totalEnergy float64)

func (fn ObserverFunc) OnStep(step int, f *Field, totalEnergy float64) {
	fn(step, f, totalEnergy)
}

// Solver integrates the heat equation over a single room domain. It owns
// the temperature field, the radiator and sensor masks, the window flags
// and the energy counter; nothing else writes them. All methods are
// synchronous and must be called from one goroutine.
type Solver struct {
	cfg    Config
	nx, ny int

	betaWall   float64
	betaWindow float64

	field  *Field
	change []float64 // per-step scratch, interior cells only

	radiatorMask []bool
	activeCells  int
	ratePerStep  float64 // temperature increment factor per step, per cell

	sensorMask []bool

	windowLeft  bool
	windowRight bool

	totalEnergy float64
	steps       int
	heating     bool

	observers []Observer
}

// NewSolver validates cfg, applies conductivity defaults and allocates the
// field at the uniform start temperature. The sensor region defaults to the
// whole interior.
func NewSolver(cfg Config) (*Solver, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("solver config: %w", err)
	}

	nx, ny := cfg.NX(), cfg.NY()
	s := &Solver{
		cfg:          cfg,
		nx:           nx,
		ny:           ny,
		betaWall:     cfg.LambdaWall / cfg.LambdaAir * cfg.Dx,
		betaWindow:   cfg.LambdaWindow / cfg.LambdaAir * cfg.Dx,
		field:        NewField(nx, ny, cfg.UStart),
		change:       make([]float64, nx*ny),
		radiatorMask: make([]bool, nx*ny),
		sensorMask:   make([]bool, nx*ny),
	}
	s.resetSensorToInterior()
	return s, nil
}

func (s *Solver) resetSensorToInterior() {
	for i := 1; i < s.ny-1; i++ {
		row := i * s.nx
		for j := 1; j < s.nx-1; j++ {
			s.sensorMask[row+j] = true
		}
	}
}

// Config returns the effective configuration, with defaults applied.
func (s *Solver) Config() Config { return s.cfg }

// Field returns the live temperature field.
func (s *Solver) Field() *Field { return s.field }

// TotalEnergy returns the cumulative consumed energy in Joules. It is
// non-decreasing: each step where the radiator fires adds Power*Dt.
func (s *Solver) TotalEnergy() float64 { return s.totalEnergy }

// Steps returns the number of completed steps.
func (s *Solver) Steps() int { return s.steps }

// Heating reports whether the radiator fired on the most recent step.
func (s *Solver) Heating() bool { return s.heating }

// AddObserver registers an observer invoked after every step.
func (s *Solver) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Step advances the field by one time step: diffusion from the pre-step
// snapshot, thermostat-gated heating, in-place interior update, then the
// Robin boundary sweep. The change array is fully computed before any cell
// is written, so neighbor reads never see a partially updated field.
func (s *Solver) Step() {
	u := s.field.u
	nx := s.nx
	factor := s.cfg.Alpha * s.cfg.Dt / (s.cfg.Dx * s.cfg.Dx)

	// 5-point Laplacian over interior cells.
	for i := 1; i < s.ny-1; i++ {
		row := i * nx
		for j := 1; j < nx-1; j++ {
			k := row + j
			lap := u[k-nx] + u[k+nx] + u[k-1] + u[k+1] - 4*u[k]
			s.change[k] = factor * lap
		}
	}

	// Thermostat senses the pre-update field. No hysteresis: the condition
	// is re-evaluated every step and may toggle near the setpoint.
	s.heating = false
	if s.Sense() < s.cfg.ThermostatTemp && s.activeCells > 0 {
		s.heating = true
		// The source term scales with the local pre-step temperature
		// (ideal-gas derivation), not a flat additive constant.
		for k, on := range s.radiatorMask {
			if on {
				s.change[k] += s.ratePerStep * u[k]
			}
		}
		s.totalEnergy += s.cfg.Power * s.cfg.Dt
	}

	for i := 1; i < s.ny-1; i++ {
		row := i * nx
		for j := 1; j < nx-1; j++ {
			u[row+j] += s.change[row+j]
		}
	}

	s.applyBoundary()
	s.steps++

	for _, o := range s.observers {
		o.OnStep(s.steps, s.field, s.totalEnergy)
	}
}

// Run executes exactly the given number of steps. There is no early exit
// and no cancellation inside the loop; callers wanting interruption step
// one at a time.
func (s *Solver) Run(steps int) {
	for i := 0; i < steps; i++ {
		s.Step()
	}
}
