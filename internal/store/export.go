package store

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"strconv"

	"github.com/mnowicki/heatlab/internal/experiment"
)

type ExportData struct {
	Scenario  string             `json:"scenario"`
	Steps     int                `json:"steps"`
	MeanTempC float64            `json:"mean_temp_c"`
	RoomMeanC float64            `json:"room_mean_c"`
	Comfort   float64            `json:"comfort_std_dev"`
	EnergyKWh float64            `json:"energy_kwh"`
	CostKWh   float64            `json:"cost_kwh"`
	DutyCycle float64            `json:"duty_cycle"`
	Series    []float64          `json:"series"`
	Metrics   map[string]float64 `json:"metrics"`
}

func buildExport(scenario string, result *experiment.Result) ExportData {
	return ExportData{
		Scenario:  scenario,
		Steps:     result.Steps,
		MeanTempC: result.MeanTempC,
		RoomMeanC: result.RoomMeanC,
		Comfort:   result.ComfortStdDev,
		EnergyKWh: result.EnergyKWh,
		CostKWh:   result.CostKWh,
		DutyCycle: result.DutyCycle,
		Series:    result.Series,
		Metrics:   result.Metrics,
	}
}

func ExportJSON(path string, scenario string, result *experiment.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return writeJSON(file, scenario, result)
}

func ExportJSONStdout(scenario string, result *experiment.Result) error {
	return writeJSON(os.Stdout, scenario, result)
}

func writeJSON(w io.Writer, scenario string, result *experiment.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildExport(scenario, result))
}

// ExportCSV writes the sampled mean-temperature series. Headline metrics
// belong in the JSON export, not here.
func ExportCSV(path string, result *experiment.Result) error {
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
	for i, v := range result.Series {
		if err := w.Write([]string{strconv.Itoa(i), strconv.FormatFloat(v, 'f', 6, 64)}); err != nil {
			return err
		}
	}
	return nil
}
