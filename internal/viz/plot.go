package viz

import (
	"strings"

	"github.com/guptarohit/asciigraph"
)

// SeriesPlot draws the mean-temperature series as an ASCII line chart.
func SeriesPlot(series []float64, width, height int, caption string) string {
	if len(series) < 2 {
		return "(not enough samples to plot)"
	}
	return asciigraph.Plot(series,
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.Caption(caption),
	)
}

// Sparkline compresses a series into a single line of block characters,
// for the stats panel where a full chart does not fit.
func Sparkline(values []float64, width int) string {
	if width < 1 {
		width = 1
	}
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	step := len(values) / width
	if step < 1 {
		step = 1
	}

	var b strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		norm := (values[i*step] - lo) / rng
		idx := int(norm * float64(len(chars)-1))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(chars) {
			idx = len(chars) - 1
		}
		b.WriteRune(chars[idx])
	}
	return b.String()
}
