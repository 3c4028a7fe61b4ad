// Package store persists finished runs to disk as one directory per run:
// metadata.json with the headline numbers, series.csv with the sampled mean
// temperature, and field.csv with the final temperature field. Stored runs
// can be listed and reloaded for plotting without re-simulating.
package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/mnowicki/heatlab/internal/config"
	"github.com/mnowicki/heatlab/internal/experiment"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Scenario  string             `json:"scenario"`
	Timestamp time.Time          `json:"timestamp"`
	Lx        float64            `json:"lx"`
	Ly        float64            `json:"ly"`
	Dx        float64            `json:"dx"`
	Dt        float64            `json:"dt"`
	Steps     int                `json:"steps"`
	MeanTempC float64            `json:"mean_temp_c"`
	EnergyKWh float64            `json:"energy_kwh"`
	CostKWh   float64            `json:"cost_kwh"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes one run directory and returns its ID. Directory names embed
// the scenario and a unix timestamp so repeated runs sort chronologically.
func (s *Store) Save(scenario string, cfg config.Config, result *experiment.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", scenario, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Scenario:  scenario,
		Timestamp: time.Now(),
		Lx:        cfg.Grid.Lx,
		Ly:        cfg.Grid.Ly,
		Dx:        cfg.Grid.Dx,
		Dt:        cfg.Grid.Dt,
		Steps:     result.Steps,
		MeanTempC: result.MeanTempC,
		EnergyKWh: result.EnergyKWh,
		CostKWh:   result.CostKWh,
		Metrics:   result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if err := writeSeries(filepath.Join(runDir, "series.csv"), result.Series); err != nil {
		return "", err
	}
	if result.Field != nil {
		if err := writeField(filepath.Join(runDir, "field.csv"), result); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func writeSeries(path string, series []float64) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if err := w.Write([]string{"sample", "mean_c"}); err != nil {
		return err
	}
	for i, v := range series {
		row := []string{strconv.Itoa(i), strconv.FormatFloat(v, 'f', 6, 64)}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// writeField dumps the final field as one CSV row per grid row, in degrees
// Celsius, row 0 at the bottom of the domain.
func writeField(path string, result *experiment.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	nx, ny := result.Field.Nx(), result.Field.Ny()
	row := make([]string, nx)
	for i := 0; i < ny; i++ {
		for j := 0; j < nx; j++ {
			row[j] = strconv.FormatFloat(config.KtoC(result.Field.At(i, j)), 'f', 4, 64)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// List returns metadata for every stored run, oldest first. Directories
// without a readable metadata.json are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadSeries reads back the sampled mean temperature of a stored run.
func (s *Store) LoadSeries(runID string) ([]float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "series.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []float64{}, nil
	}

	series := make([]float64, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 2 {
			continue
		}
		v, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			continue
		}
		series = append(series, v)
	}
	return series, nil
}

// LoadField reads back the final field of a stored run as rows of degC
// values.
func (s *Store) LoadField(runID string) ([][]float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "field.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	rows := make([][]float64, 0, len(records))
	for _, record := range records {
		row := make([]float64, 0, len(record))
		for _, cell := range record {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				continue
			}
			row = append(row, v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
