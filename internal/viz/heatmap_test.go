package viz

import (
	"strings"
	"testing"

	"github.com/mnowicki/heatlab/internal/heat"
)

func gradientField(t *testing.T, nx, ny int) *heat.Field {
	t.Helper()
	f := heat.NewField(nx, ny, 0)
	for i := 0; i < ny; i++ {
		for j := 0; j < nx; j++ {
			f.Set(i, j, float64(j))
		}
	}
	return f
}

func TestDownsampleDims(t *testing.T) {
	f := gradientField(t, 40, 30)

	cells := Downsample(f, 10, 6)
	if len(cells) != 6 {
		t.Fatalf("rows = %d, want 6", len(cells))
	}
	if len(cells[0]) != 10 {
		t.Fatalf("cols = %d, want 10", len(cells[0]))
	}

	// averaging a horizontal gradient keeps it monotone
	row := cells[0]
	for c := 1; c < len(row); c++ {
		if row[c] <= row[c-1] {
			t.Errorf("gradient lost at col %d: %g <= %g", c, row[c], row[c-1])
		}
	}
}

func TestDownsampleClampsToGrid(t *testing.T) {
	f := gradientField(t, 4, 4)
	cells := Downsample(f, 100, 100)
	if len(cells) != 4 || len(cells[0]) != 4 {
		t.Errorf("got %dx%d, want 4x4", len(cells), len(cells[0]))
	}
}

func TestDownsampleFlipsVertically(t *testing.T) {
	f := heat.NewField(4, 4, 0)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			f.Set(i, j, float64(i))
		}
	}
	cells := Downsample(f, 4, 4)
	if cells[0][0] != 3 {
		t.Errorf("top output row = %g, want highest grid row 3", cells[0][0])
	}
	if cells[3][0] != 0 {
		t.Errorf("bottom output row = %g, want grid row 0", cells[3][0])
	}
}

func TestHeatmapShape(t *testing.T) {
	f := gradientField(t, 40, 30)
	out := Heatmap(f, 20, 10)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 10 {
		t.Errorf("heatmap lines = %d, want 10", len(lines))
	}
	if !strings.Contains(out, "▀") {
		t.Error("heatmap missing half-block cells")
	}
}

func TestHeatmapUniformField(t *testing.T) {
	f := heat.NewField(10, 10, 293.15)
	// must not divide by zero when min == max
	out := Heatmap(f, 5, 5)
	if out == "" {
		t.Error("empty heatmap for uniform field")
	}
}

func TestSparkline(t *testing.T) {
	s := Sparkline([]float64{0, 1, 2, 3, 4, 5, 6, 7}, 8)
	if got := len([]rune(s)); got != 8 {
		t.Errorf("sparkline width = %d, want 8", got)
	}
	runes := []rune(s)
	if runes[0] != '▁' || runes[7] != '█' {
		t.Errorf("sparkline endpoints = %c %c", runes[0], runes[7])
	}

	if Sparkline(nil, 5) != "─────" {
		t.Error("empty series should render a flat line")
	}
}

func TestSeriesPlot(t *testing.T) {
	if got := SeriesPlot([]float64{1}, 20, 5, "x"); !strings.Contains(got, "not enough") {
		t.Errorf("short series plot = %q", got)
	}
	out := SeriesPlot([]float64{10, 11, 12, 13, 14}, 20, 5, "mean °C")
	if !strings.Contains(out, "mean °C") {
		t.Error("caption missing from plot")
	}
}
