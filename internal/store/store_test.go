package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mnowicki/heatlab/internal/config"
	"github.com/mnowicki/heatlab/internal/experiment"
)

func sampleResult(t *testing.T) (config.Config, *experiment.Result) {
	t.Helper()
	cfg := config.Default()
	cfg.Grid.Dx = 0.2
	cfg.Grid.Dt = 0.005

	e, err := experiment.New(cfg, experiment.Scenario{
		Name:       "test",
		WindowLeft: true,
		Radiators:  []experiment.Radiator{{X: 0.2, Y: 1.5, Width: 0.2, Height: 1.0}},
		CostShare:  1,
	})
	if err != nil {
		t.Fatalf("experiment: %v", err)
	}
	return cfg, e.Run(100)
}

func TestSaveAndLoad(t *testing.T) {
	cfg, res := sampleResult(t)

	s := New(t.TempDir())
	if err := s.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	runID, err := s.Save("under-window", cfg, res)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	meta, err := s.Load(runID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if meta.Scenario != "under-window" {
		t.Errorf("scenario = %q, want under-window", meta.Scenario)
	}
	if meta.Steps != res.Steps {
		t.Errorf("steps = %d, want %d", meta.Steps, res.Steps)
	}
	if meta.EnergyKWh != res.EnergyKWh {
		t.Errorf("energy = %g, want %g", meta.EnergyKWh, res.EnergyKWh)
	}

	series, err := s.LoadSeries(runID)
	if err != nil {
		t.Fatalf("load series: %v", err)
	}
	if len(series) != len(res.Series) {
		t.Errorf("series length = %d, want %d", len(series), len(res.Series))
	}

	field, err := s.LoadField(runID)
	if err != nil {
		t.Fatalf("load field: %v", err)
	}
	if len(field) != res.Field.Ny() {
		t.Errorf("field rows = %d, want %d", len(field), res.Field.Ny())
	}
	if len(field[0]) != res.Field.Nx() {
		t.Errorf("field cols = %d, want %d", len(field[0]), res.Field.Nx())
	}
}

func TestListSkipsJunk(t *testing.T) {
	cfg, res := sampleResult(t)

	dir := t.TempDir()
	s := New(dir)
	if _, err := s.Save("a", cfg, res); err != nil {
		t.Fatalf("save: %v", err)
	}

	// runs without metadata are ignored
	if err := os.MkdirAll(filepath.Join(dir, "broken"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "stray.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	runs, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
}

func TestListMissingDir(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "nope"))
	runs, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestExportJSON(t *testing.T) {
	_, res := sampleResult(t)

	path := filepath.Join(t.TempDir(), "run.json")
	if err := ExportJSON(path, "under-window", res); err != nil {
		t.Fatalf("export: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var out ExportData
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Scenario != "under-window" {
		t.Errorf("scenario = %q", out.Scenario)
	}
	if out.Steps != res.Steps {
		t.Errorf("steps = %d, want %d", out.Steps, res.Steps)
	}
	if len(out.Series) != len(res.Series) {
		t.Errorf("series length = %d, want %d", len(out.Series), len(res.Series))
	}
}

func TestExportCSV(t *testing.T) {
	_, res := sampleResult(t)

	path := filepath.Join(t.TempDir(), "run.csv")
	if err := ExportCSV(path, res); err != nil {
		t.Fatalf("export: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Error("empty csv")
	}
}
