// Package metrics provides step-wise measurements over a running heat
// simulation. Every metric is also a heat.Observer, so it can be attached
// directly to a Solver.
package metrics

import "github.com/mnowicki/heatlab/internal/heat"

type Metric interface {
	Name() string
	OnStep(step int, f *heat.Field, totalEnergy float64)
	Value() float64
	Reset()
}

// MeanTemperature tracks the domain mean [K] of the most recent step.
type MeanTemperature struct {
	last  *heat.Field
	steps int
}

func NewMeanTemperature() *MeanTemperature { return &MeanTemperature{} }

func (m *MeanTemperature) Name() string { return "mean_temp" }

func (m *MeanTemperature) OnStep(step int, f *heat.Field, totalEnergy float64) {
	m.last = f
	m.steps = step
}

func (m *MeanTemperature) Value() float64 {
	if m.last == nil {
		return 0
	}
	return m.last.Mean()
}

func (m *MeanTemperature) Reset() { m.last, m.steps = nil, 0 }

// Comfort tracks the standard deviation of the field: lower means a more
// even temperature distribution.
type Comfort struct {
	last *heat.Field
}

func NewComfort() *Comfort { return &Comfort{} }

func (c *Comfort) Name() string { return "comfort_std" }

func (c *Comfort) OnStep(step int, f *heat.Field, totalEnergy float64) { c.last = f }

func (c *Comfort) Value() float64 {
	if c.last == nil {
		return 0
	}
	return c.last.StdDev()
}

func (c *Comfort) Reset() { c.last = nil }

// EnergyUsage tracks the cumulative consumed energy [J].
type EnergyUsage struct {
	total float64
}

func NewEnergyUsage() *EnergyUsage { return &EnergyUsage{} }

func (e *EnergyUsage) Name() string { return "energy_j" }

func (e *EnergyUsage) OnStep(step int, f *heat.Field, totalEnergy float64) {
	e.total = totalEnergy
}

func (e *EnergyUsage) Value() float64 { return e.total }

func (e *EnergyUsage) Reset() { e.total = 0 }

// DutyCycle tracks the fraction of steps on which the radiator fired,
// detected by energy increments between consecutive steps.
type DutyCycle struct {
	lastEnergy float64
	fired      int
	steps      int
}

func NewDutyCycle() *DutyCycle { return &DutyCycle{} }

func (d *DutyCycle) Name() string { return "duty_cycle" }

func (d *DutyCycle) OnStep(step int, f *heat.Field, totalEnergy float64) {
	if totalEnergy > d.lastEnergy {
		d.fired++
	}
	d.lastEnergy = totalEnergy
	d.steps++
}

func (d *DutyCycle) Value() float64 {
	if d.steps == 0 {
		return 0
	}
	return float64(d.fired) / float64(d.steps)
}

func (d *DutyCycle) Reset() { d.lastEnergy, d.fired, d.steps = 0, 0, 0 }
