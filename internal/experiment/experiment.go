// Package experiment composes a configured solver from a scenario
// description, runs it with metrics attached, and reports the quantities
// the CLI and server display.
package experiment

import (
	"fmt"

	"github.com/mnowicki/heatlab/internal/config"
	"github.com/mnowicki/heatlab/internal/heat"
	"github.com/mnowicki/heatlab/internal/metrics"
)

// Radiator is a heating rectangle in physical meters.
type Radiator struct {
	X, Y, Width, Height float64
}

// Scenario describes one room setup: optional domain override, window
// placement, radiators, the thermostat sensor band and, for multi-apartment
// scenarios, how energy cost is split and which column band counts as "your
// room" in the report.
type Scenario struct {
	Name        string
	Description string

	// Lx overrides the base domain width when non-zero (the building
	// scenarios stretch the room to a 12m strip of three apartments).
	Lx float64
	// PowerScale multiplies the base radiator power; zero means 1.
	PowerScale float64

	WindowLeft  bool
	WindowRight bool
	Radiators   []Radiator

	// Sensor band [SensorX0, SensorX1) in meters; both zero keeps the
	// default whole-interior region.
	SensorX0, SensorX1 float64

	// CostShare is the fraction of total energy billed to the reported
	// room: cooperation splits three ways, parasitism pays nothing,
	// single-room scenarios pay in full.
	CostShare float64

	// RoomX0, RoomX1 select the column band reported as the occupant's
	// room; both zero reports the whole domain.
	RoomX0, RoomX1 float64
}

// Result collects the end-of-run quantities.
type Result struct {
	Steps         int
	MeanTempC     float64
	RoomMeanC     float64
	ComfortStdDev float64
	EnergyKWh     float64
	CostKWh       float64
	DutyCycle     float64
	Series        []float64 // sampled domain mean [degC] over the run
	Field         *heat.Field
	Metrics       map[string]float64
}

// Experiment binds a base config and a scenario to a ready-to-run solver.
type Experiment struct {
	base    config.Config
	scn     Scenario
	solver  *heat.Solver
	metrics []metrics.Metric
}

// New builds the solver for the scenario: domain and power overrides first,
// then windows, radiators and the sensor band.
func New(base config.Config, scn Scenario) (*Experiment, error) {
	if scn.Lx > 0 {
		base.Grid.Lx = scn.Lx
	}
	if scn.PowerScale > 0 {
		base.Room.PowerW *= scn.PowerScale
	}

	solver, err := heat.NewSolver(base.ToHeat())
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", scn.Name, err)
	}

	solver.SetWindows(scn.WindowLeft, scn.WindowRight)
	for _, r := range scn.Radiators {
		solver.AddRadiator(r.X, r.Y, r.Width, r.Height)
	}
	if scn.SensorX0 != 0 || scn.SensorX1 != 0 {
		solver.SetSensorRegion(scn.SensorX0, scn.SensorX1)
	}

	e := &Experiment{
		base:   base,
		scn:    scn,
		solver: solver,
		metrics: []metrics.Metric{
			metrics.NewMeanTemperature(),
			metrics.NewComfort(),
			metrics.NewEnergyUsage(),
			metrics.NewDutyCycle(),
		},
	}
	for _, m := range e.metrics {
		solver.AddObserver(m)
	}
	return e, nil
}

// Solver exposes the underlying solver, e.g. for attaching extra observers
// before Run.
func (e *Experiment) Solver() *heat.Solver { return e.solver }

// Scenario returns the scenario being run.
func (e *Experiment) Scenario() Scenario { return e.scn }

// Run executes the step budget and assembles the result. The mean series is
// sampled at most maxSeriesLen times, evenly over the run.
func (e *Experiment) Run(steps int) *Result {
	const maxSeriesLen = 512

	every := steps / maxSeriesLen
	if every < 1 {
		every = 1
	}
	series := make([]float64, 0, steps/every+1)
	e.solver.AddObserver(heat.ObserverFunc(func(step int, f *heat.Field, _ float64) {
		if step%every == 0 {
			series = append(series, config.KtoC(f.Mean()))
		}
	}))

	for _, m := range e.metrics {
		m.Reset()
	}
	e.solver.Run(steps)

	f := e.solver.Field()
	res := &Result{
		Steps:         e.solver.Steps(),
		MeanTempC:     config.KtoC(f.Mean()),
		ComfortStdDev: f.StdDev(),
		EnergyKWh:     e.solver.TotalEnergy() / 3.6e6,
		Series:        series,
		Field:         f.Clone(),
		Metrics:       make(map[string]float64, len(e.metrics)),
	}
	for _, m := range e.metrics {
		res.Metrics[m.Name()] = m.Value()
	}
	res.DutyCycle = res.Metrics["duty_cycle"]

	res.RoomMeanC = res.MeanTempC
	if e.scn.RoomX0 != e.scn.RoomX1 {
		dx := e.base.Grid.Dx
		j0 := int(e.scn.RoomX0 / dx)
		j1 := int(e.scn.RoomX1 / dx)
		res.RoomMeanC = config.KtoC(f.MeanColumns(j0, j1))
	}

	res.CostKWh = res.EnergyKWh * e.scn.CostShare

	return res
}
