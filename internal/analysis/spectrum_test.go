package analysis

import (
	"math"
	"testing"
)

func TestFFTImpulse(t *testing.T) {
	// impulse transforms to a flat spectrum
	data := make([]float64, 8)
	data[0] = 1
	fft := FFT(data)
	for i, c := range fft {
		if math.Abs(real(c)-1) > 1e-12 || math.Abs(imag(c)) > 1e-12 {
			t.Errorf("bin %d = %v, want 1+0i", i, c)
		}
	}
}

func TestPowerSpectrumRemovesDC(t *testing.T) {
	// constant series has no spectral content once the mean is gone
	series := make([]float64, 16)
	for i := range series {
		series[i] = 21.0
	}
	ps := PowerSpectrum(series)
	for i, v := range ps {
		if v > 1e-9 {
			t.Errorf("bin %d = %g, want 0", i, v)
		}
	}
}

func TestDominantPeriodSine(t *testing.T) {
	// 8 full cycles over 256 samples: period 32
	n := 256
	series := make([]float64, n)
	for i := range series {
		series[i] = 20 + 0.5*math.Sin(2*math.Pi*8*float64(i)/float64(n))
	}

	period, ps := DominantPeriod(series)
	if len(ps) != n/2 {
		t.Fatalf("spectrum length = %d, want %d", len(ps), n/2)
	}
	if math.Abs(period-32) > 1 {
		t.Errorf("period = %g, want ~32", period)
	}
}

func TestDominantPeriodFlat(t *testing.T) {
	series := []float64{5, 5, 5, 5, 5, 5, 5, 5}
	period, _ := DominantPeriod(series)
	if period != 0 {
		t.Errorf("period = %g, want 0 for flat series", period)
	}
}

func TestDominantPeriodShortSeries(t *testing.T) {
	if p, _ := DominantPeriod(nil); p != 0 {
		t.Errorf("period = %g for empty series", p)
	}
	if p, _ := DominantPeriod([]float64{1}); p != 0 {
		t.Errorf("period = %g for single sample", p)
	}
}
