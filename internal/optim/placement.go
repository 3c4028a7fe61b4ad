// Package optim answers the placement question: where along the window
// wall should the radiator sit? It sweeps the x position across the room
// and scores each run by comfort (field standard deviation) and mean
// temperature.
package optim

import (
	"fmt"
	"sync"

	"github.com/mnowicki/heatlab/internal/config"
	"github.com/mnowicki/heatlab/internal/experiment"
)

// PlacementSweep describes the swept radiator geometry. The x position
// runs from margin to Lx-Width-margin in Samples evenly spaced points.
type PlacementSweep struct {
	Samples int
	Width   float64
	Height  float64
	Y       float64
	Margin  float64
}

// Point is the outcome of one placement.
type Point struct {
	X         float64
	MeanTempC float64
	Comfort   float64
	EnergyKWh float64
}

// DefaultSweep mirrors the study setup: a 0.2x1.0m radiator at mid-height,
// ten sample positions.
func DefaultSweep() PlacementSweep {
	return PlacementSweep{Samples: 10, Width: 0.2, Height: 1.0, Y: 1.5, Margin: 0.1}
}

// Run executes one simulation per sample position, each on its own solver
// instance so runs stay independent and deterministic. Scoring favors the
// lowest comfort value (most even distribution); Best breaks ties toward
// the window.
func (p PlacementSweep) Run(base config.Config, steps int) ([]Point, Point, error) {
	if p.Samples < 2 {
		return nil, Point{}, fmt.Errorf("placement sweep needs at least 2 samples, got %d", p.Samples)
	}
	lo := p.Margin
	hi := base.Grid.Lx - p.Width - p.Margin
	if hi <= lo {
		return nil, Point{}, fmt.Errorf("domain too narrow for radiator width %g", p.Width)
	}

	points := make([]Point, p.Samples)
	errs := make([]error, p.Samples)

	var wg sync.WaitGroup
	for i := 0; i < p.Samples; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			x := lo + (hi-lo)*float64(idx)/float64(p.Samples-1)
			scn := experiment.Scenario{
				Name:       fmt.Sprintf("placement-%.2f", x),
				WindowLeft: true,
				Radiators:  []experiment.Radiator{{X: x, Y: p.Y, Width: p.Width, Height: p.Height}},
				CostShare:  1,
			}
			e, err := experiment.New(base, scn)
			if err != nil {
				errs[idx] = err
				return
			}
			res := e.Run(steps)
			points[idx] = Point{
				X:         x,
				MeanTempC: res.MeanTempC,
				Comfort:   res.ComfortStdDev,
				EnergyKWh: res.EnergyKWh,
			}
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, Point{}, err
		}
	}

	best := points[0]
	for _, pt := range points[1:] {
		if pt.Comfort < best.Comfort {
			best = pt
		}
	}
	return points, best, nil
}
