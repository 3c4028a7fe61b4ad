package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Grid.Lx != 4.0 || cfg.Grid.Dx != 0.1 {
		t.Errorf("unexpected grid defaults: %+v", cfg.Grid)
	}
	if cfg.Room.PowerW <= 0 {
		t.Error("default power should be positive")
	}
	if !cfg.ToHeat().Stable() {
		t.Error("default configuration should satisfy the stability bound")
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "room.yaml")
	data := []byte("grid:\n  lx: 12.0\ndefaults:\n  temp_thermostat_c: 23\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Grid.Lx != 12.0 {
		t.Errorf("lx not overridden: %g", cfg.Grid.Lx)
	}
	if cfg.Room.ThermostatC != 23 {
		t.Errorf("thermostat not overridden: %g", cfg.Room.ThermostatC)
	}
	// Untouched sections keep defaults.
	if cfg.Physics.Pressure != DefaultPressure {
		t.Errorf("pressure default lost: %g", cfg.Physics.Pressure)
	}
}

func TestLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "room.json")
	data := []byte(`{"defaults": {"radiator_power_w": 1500}}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Room.PowerW != 1500 {
		t.Errorf("power not overridden: %g", cfg.Room.PowerW)
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "room.ini")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg.Grid.Lx != DefaultLx {
		t.Errorf("expected defaults, got %+v", cfg.Grid)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("HEATLAB_THERMOSTAT_C", "25.5")
	t.Setenv("HEATLAB_POWER_W", "not-a-number")

	cfg := Default()
	ApplyEnvOverrides(&cfg)

	if cfg.Room.ThermostatC != 25.5 {
		t.Errorf("env override ignored: %g", cfg.Room.ThermostatC)
	}
	if cfg.Room.PowerW != DefaultPowerW {
		t.Errorf("malformed env value applied: %g", cfg.Room.PowerW)
	}
}

func TestToHeatConvertsCelsius(t *testing.T) {
	cfg := Default()
	cfg.Room.OutdoorC = -20

	h := cfg.ToHeat()
	if math.Abs(h.UOutdoor-253.15) > 1e-12 {
		t.Errorf("outdoor conversion: expected 253.15, got %g", h.UOutdoor)
	}
	if math.Abs(KtoC(CtoK(21.0))-21.0) > 1e-12 {
		t.Error("CtoK/KtoC roundtrip failed")
	}
}

func TestSteps(t *testing.T) {
	cfg := Default()
	cfg.Room.SimulationHours = 1
	cfg.Grid.Dt = 0.5

	if got := cfg.Steps(); got != 7200 {
		t.Errorf("expected 7200 steps, got %d", got)
	}
}
