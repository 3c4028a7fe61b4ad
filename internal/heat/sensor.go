package heat

import "math"

// SetSensorRegion restricts the thermostat sensor to the column band
// [x0, x1), given in meters. The previous mask is discarded; the new mask
// covers every interior row of the band, with boundary rows and columns
// excluded. A band outside the domain leaves the mask empty, which makes
// Sense fall back to the global mean.
func (s *Solver) SetSensorRegion(x0, x1 float64) {
	for k := range s.sensorMask {
		s.sensorMask[k] = false
	}

	j0 := int(math.Round(x0 / s.cfg.Dx))
	j1 := int(math.Round(x1 / s.cfg.Dx))
	j0 = max(j0, 1)
	j1 = min(j1, s.nx-1)

	for i := 1; i < s.ny-1; i++ {
		row := i * s.nx
		for j := j0; j < j1; j++ {
			s.sensorMask[row+j] = true
		}
	}
}

// Sense returns the control temperature: the mean of the field over the
// sensor region, or the mean of the entire field when the region selects
// no cells. It never fails.
func (s *Solver) Sense() float64 {
	mean, n := s.field.MeanMasked(s.sensorMask)
	if n == 0 {
		return s.field.Mean()
	}
	return mean
}

// Setpoint returns the thermostat setpoint in Kelvin.
func (s *Solver) Setpoint() float64 { return s.cfg.ThermostatTemp }
