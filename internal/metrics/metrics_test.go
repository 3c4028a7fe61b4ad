package metrics

import (
	"math"
	"testing"

	"github.com/mnowicki/heatlab/internal/heat"
)

func TestMeanTemperature(t *testing.T) {
	m := NewMeanTemperature()
	if m.Value() != 0 {
		t.Error("expected zero before any step")
	}

	f := heat.NewField(3, 3, 290)
	f.Set(1, 1, 299)
	m.OnStep(1, f, 0)

	want := (8*290.0 + 299.0) / 9.0
	if math.Abs(m.Value()-want) > 1e-12 {
		t.Errorf("expected %g, got %g", want, m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestComfort(t *testing.T) {
	c := NewComfort()
	c.OnStep(1, heat.NewField(4, 4, 293), 0)
	if c.Value() != 0 {
		t.Errorf("uniform field should have zero spread, got %g", c.Value())
	}
}

func TestEnergyUsage(t *testing.T) {
	e := NewEnergyUsage()
	f := heat.NewField(3, 3, 290)

	e.OnStep(1, f, 4.0)
	e.OnStep(2, f, 8.0)
	if e.Value() != 8.0 {
		t.Errorf("expected 8, got %g", e.Value())
	}
}

func TestDutyCycle(t *testing.T) {
	d := NewDutyCycle()
	f := heat.NewField(3, 3, 290)

	// Fires on two of four steps.
	d.OnStep(1, f, 4.0)
	d.OnStep(2, f, 4.0)
	d.OnStep(3, f, 8.0)
	d.OnStep(4, f, 8.0)

	if math.Abs(d.Value()-0.5) > 1e-12 {
		t.Errorf("expected duty cycle 0.5, got %g", d.Value())
	}
}
