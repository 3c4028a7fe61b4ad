// Package analysis extracts the thermostat cycling rhythm from a recorded
// mean-temperature series. Once the room reaches the setpoint the radiator
// toggles periodically; the dominant spectral peak gives that period.
package analysis

import (
	"math"
	"math/cmplx"
)

// FFT computes the discrete Fourier transform by radix-2 decimation.
// The input length must be a power of two; use padded input from
// PowerSpectrum for arbitrary lengths.
func FFT(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		result := make([]complex128, n)
		for i := range data {
			result[i] = complex(data[i], 0)
		}
		return result
	}

	if n%2 != 0 {
		panic("fft requires power of 2 length")
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)
	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := FFT(even)
	fodd := FFT(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}
	return result
}

// PowerSpectrum returns spectral magnitudes of the series with its mean
// removed, zero-padded to the next power of two. Removing the mean matters
// here: a room series sits around 20 degC and the DC bin would otherwise
// swamp the cycling peak.
func PowerSpectrum(series []float64) []float64 {
	if len(series) == 0 {
		return nil
	}

	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(len(series))

	n := 1
	for n < len(series) {
		n *= 2
	}
	padded := make([]float64, n)
	for i, v := range series {
		padded[i] = v - mean
	}

	fft := FFT(padded)
	ps := make([]float64, len(fft)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(fft[i])
	}
	return ps
}

// DominantPeriod finds the strongest oscillation in the series and returns
// its period in the series' own sample units, plus the spectrum used. A zero
// period means no oscillation stood out (flat or monotone series).
func DominantPeriod(series []float64) (float64, []float64) {
	ps := PowerSpectrum(series)
	if len(ps) < 2 {
		return 0, ps
	}

	maxPower, maxIdx := 0.0, 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > maxPower {
			maxPower = ps[i]
			maxIdx = i
		}
	}
	if maxIdx == 0 || maxPower == 0 {
		return 0, ps
	}

	// bin k corresponds to k cycles over the padded window of 2*len(ps)
	// samples
	period := float64(2*len(ps)) / float64(maxIdx)
	return period, ps
}
