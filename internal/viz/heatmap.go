// Package viz renders temperature fields and time series for the terminal.
// The heatmap packs two grid rows per text row using the upper half block,
// colored on a blue-to-red hue ramp.
package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/crazy3lf/colorconv"

	"github.com/mnowicki/heatlab/internal/heat"
)

const (
	// hue endpoints on the HSV wheel: 240 is blue, 0 is red
	coldHue = 240.0
	hotHue  = 0.0
)

// Downsample reduces a field to cols x rows by averaging each cell's
// footprint. Row 0 of the output is the top of the domain so the result
// prints in the usual screen orientation.
func Downsample(f *heat.Field, cols, rows int) [][]float64 {
	nx, ny := f.Nx(), f.Ny()
	if cols > nx {
		cols = nx
	}
	if rows > ny {
		rows = ny
	}

	out := make([][]float64, rows)
	for r := 0; r < rows; r++ {
		out[r] = make([]float64, cols)
		// flip vertically: output row 0 is the highest grid row
		i0 := (rows - 1 - r) * ny / rows
		i1 := (rows - r) * ny / rows
		for c := 0; c < cols; c++ {
			j0 := c * nx / cols
			j1 := (c + 1) * nx / cols
			sum, n := 0.0, 0
			for i := i0; i < i1; i++ {
				for j := j0; j < j1; j++ {
					sum += f.At(i, j)
					n++
				}
			}
			if n > 0 {
				out[r][c] = sum / float64(n)
			}
		}
	}
	return out
}

// tempColor maps a normalized temperature in [0,1] to a terminal color.
func tempColor(norm float64) lipgloss.Color {
	if norm < 0 {
		norm = 0
	}
	if norm > 1 {
		norm = 1
	}
	hue := coldHue + norm*(hotHue-coldHue)
	r, g, b, err := colorconv.HSVToRGB(hue, 0.9, 0.95)
	if err != nil {
		return lipgloss.Color("#ffffff")
	}
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r, g, b))
}

// Heatmap renders the field as colored half blocks, cols wide and rows text
// lines tall. Each text line carries two sample rows: foreground paints the
// top one, background the bottom. Colors normalize to the field's own
// min/max so the structure stays visible at any absolute temperature.
func Heatmap(f *heat.Field, cols, rows int) string {
	lo, hi := f.MinMax()
	return HeatmapScaled(f, cols, rows, lo, hi)
}

// HeatmapScaled renders with a fixed color scale, for frames of an animation
// where the palette must not jump between ticks.
func HeatmapScaled(f *heat.Field, cols, rows int, lo, hi float64) string {
	rng := hi - lo
	if rng <= 0 {
		rng = 1
	}

	cells := Downsample(f, cols, rows*2)
	var b strings.Builder
	for r := 0; r < len(cells); r += 2 {
		for c := range cells[r] {
			top := (cells[r][c] - lo) / rng
			bot := top
			if r+1 < len(cells) {
				bot = (cells[r+1][c] - lo) / rng
			}
			style := lipgloss.NewStyle().
				Foreground(tempColor(top)).
				Background(tempColor(bot))
			b.WriteString(style.Render("▀"))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// ColorBar prints the scale under a heatmap, lo and hi in degrees Celsius.
func ColorBar(loC, hiC float64, width int) string {
	if width < 8 {
		width = 8
	}
	var b strings.Builder
	for i := 0; i < width; i++ {
		norm := float64(i) / float64(width-1)
		b.WriteString(lipgloss.NewStyle().Foreground(tempColor(norm)).Render("█"))
	}
	return fmt.Sprintf("%.1f°C %s %.1f°C", loC, b.String(), hiC)
}
