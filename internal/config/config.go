// Package config loads simulation parameters from yaml or json files,
// applies defaults and environment overrides, and converts user-facing
// Celsius values into the absolute-scale heat.Config the solver consumes.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mnowicki/heatlab/internal/heat"
)

const (
	DefaultLx    = 4.0
	DefaultLy    = 4.0
	DefaultDx    = 0.1
	DefaultDt    = 0.0015
	DefaultAlpha = 1.25

	DefaultPressure  = 101325.0
	DefaultRGas      = 287.05
	DefaultCSpecific = 1005.0

	DefaultOutdoorC    = -10.0
	DefaultStartC      = 10.0
	DefaultThermostatC = 21.0
	DefaultPowerW      = 2000.0
	DefaultHours       = 6.0
)

type Grid struct {
	Lx float64 `yaml:"lx" json:"lx"`
	Ly float64 `yaml:"ly" json:"ly"`
	Dx float64 `yaml:"dx" json:"dx"`
	Dt float64 `yaml:"dt" json:"dt"`
}

type Physics struct {
	Alpha     float64 `yaml:"alpha" json:"alpha"`
	Pressure  float64 `yaml:"pressure" json:"pressure"`
	RGas      float64 `yaml:"r_gas" json:"r_gas"`
	CSpecific float64 `yaml:"c_specific" json:"c_specific"`
}

type Materials struct {
	LambdaAir    float64 `yaml:"lambda_air" json:"lambda_air"`
	LambdaWall   float64 `yaml:"lambda_wall" json:"lambda_wall"`
	LambdaWindow float64 `yaml:"lambda_window" json:"lambda_window"`
}

// Room holds the user-facing knobs. Temperatures are Celsius here and only
// here; conversion to Kelvin happens in ToHeat.
type Room struct {
	OutdoorC        float64 `yaml:"temp_outdoor_c" json:"temp_outdoor_c"`
	StartC          float64 `yaml:"temp_start_c" json:"temp_start_c"`
	ThermostatC     float64 `yaml:"temp_thermostat_c" json:"temp_thermostat_c"`
	PowerW          float64 `yaml:"radiator_power_w" json:"radiator_power_w"`
	SimulationHours float64 `yaml:"simulation_hours" json:"simulation_hours"`
}

type Config struct {
	Grid      Grid      `yaml:"grid" json:"grid"`
	Physics   Physics   `yaml:"physics_constants" json:"physics_constants"`
	Materials Materials `yaml:"materials" json:"materials"`
	Room      Room      `yaml:"defaults" json:"defaults"`
}

func Default() Config {
	return Config{
		Grid: Grid{Lx: DefaultLx, Ly: DefaultLy, Dx: DefaultDx, Dt: DefaultDt},
		Physics: Physics{
			Alpha:     DefaultAlpha,
			Pressure:  DefaultPressure,
			RGas:      DefaultRGas,
			CSpecific: DefaultCSpecific,
		},
		Materials: Materials{
			LambdaAir:    heat.DefaultLambdaAir,
			LambdaWall:   heat.DefaultLambdaWall,
			LambdaWindow: heat.DefaultLambdaWindow,
		},
		Room: Room{
			OutdoorC:        DefaultOutdoorC,
			StartC:          DefaultStartC,
			ThermostatC:     DefaultThermostatC,
			PowerW:          DefaultPowerW,
			SimulationHours: DefaultHours,
		},
	}
}

// Load reads a yaml or json config file, chosen by extension, on top of the
// defaults. A missing path returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse json: %w", err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension %q", ext)
	}
	return cfg, nil
}

// Save writes the config as yaml.
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnvOverrides reads HEATLAB_* environment variables over the loaded
// values. Malformed numbers are ignored.
func ApplyEnvOverrides(cfg *Config) {
	envFloat("HEATLAB_OUTDOOR_C", &cfg.Room.OutdoorC)
	envFloat("HEATLAB_THERMOSTAT_C", &cfg.Room.ThermostatC)
	envFloat("HEATLAB_START_C", &cfg.Room.StartC)
	envFloat("HEATLAB_POWER_W", &cfg.Room.PowerW)
	envFloat("HEATLAB_HOURS", &cfg.Room.SimulationHours)
}

func envFloat(key string, dst *float64) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

// Steps returns the step count covering SimulationHours of simulated time.
func (c Config) Steps() int {
	return int(c.Room.SimulationHours * 3600 / c.Grid.Dt)
}

// ToHeat converts the file-level config into the solver's physical config,
// moving temperatures from Celsius to Kelvin.
func (c Config) ToHeat() heat.Config {
	return heat.Config{
		Lx: c.Grid.Lx, Ly: c.Grid.Ly, Dx: c.Grid.Dx, Dt: c.Grid.Dt,
		Alpha:          c.Physics.Alpha,
		Pressure:       c.Physics.Pressure,
		RGas:           c.Physics.RGas,
		CSpecific:      c.Physics.CSpecific,
		LambdaAir:      c.Materials.LambdaAir,
		LambdaWall:     c.Materials.LambdaWall,
		LambdaWindow:   c.Materials.LambdaWindow,
		UOutdoor:       CtoK(c.Room.OutdoorC),
		UStart:         CtoK(c.Room.StartC),
		ThermostatTemp: CtoK(c.Room.ThermostatC),
		Power:          c.Room.PowerW,
	}
}

// CtoK converts Celsius to Kelvin.
func CtoK(c float64) float64 { return c + 273.15 }

// KtoC converts Kelvin to Celsius.
func KtoC(k float64) float64 { return k - 273.15 }
