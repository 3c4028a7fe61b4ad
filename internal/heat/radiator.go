package heat

import "math"

// AddRadiator unions an axis-aligned rectangle, given in physical meters,
// into the radiator mask. Coordinates convert to grid indices by rounding;
// the rectangle is clamped to the field and intersected with the interior,
// so boundary rows and columns never become heating cells. The per-step
// heating rate is re-derived from the cumulative mask, spreading the
// nominal power uniformly over all active cells; overlapping rectangles do
// not double-count.
func (s *Solver) AddRadiator(x, y, width, height float64) {
	dx := s.cfg.Dx
	ix0 := int(math.Round(x / dx))
	iy0 := int(math.Round(y / dx))
	ix1 := int(math.Round((x + width) / dx))
	iy1 := int(math.Round((y + height) / dx))

	ix0 = max(ix0, 1)
	iy0 = max(iy0, 1)
	ix1 = min(ix1, s.nx-1)
	iy1 = min(iy1, s.ny-1)

	for i := iy0; i < iy1; i++ {
		row := i * s.nx
		for j := ix0; j < ix1; j++ {
			s.radiatorMask[row+j] = true
		}
	}
	s.deriveHeatingRate()
}

// ClearRadiators removes every heating region and zeroes the derived rate.
func (s *Solver) ClearRadiators() {
	for k := range s.radiatorMask {
		s.radiatorMask[k] = false
	}
	s.activeCells = 0
	s.ratePerStep = 0
}

// deriveHeatingRate recomputes the active cell count and the per-step
// temperature factor from the whole mask. The factor follows the ideal-gas
// relation dT = (P_cell * R * dt) / (p * dx^2 * c); with zero active cells
// the rate is zero and no heat is ever injected.
func (s *Solver) deriveHeatingRate() {
	n := 0
	for _, on := range s.radiatorMask {
		if on {
			n++
		}
	}
	s.activeCells = n
	if n == 0 {
		s.ratePerStep = 0
		return
	}
	powerPerCell := s.cfg.Power / float64(n)
	area := s.cfg.Dx * s.cfg.Dx
	s.ratePerStep = powerPerCell * s.cfg.RGas * s.cfg.Dt /
		(s.cfg.Pressure * area * s.cfg.CSpecific)
}

// ActiveCells returns the number of interior cells covered by radiators.
func (s *Solver) ActiveCells() int { return s.activeCells }

// HeatingRate returns the per-step temperature factor applied at each
// active cell while the thermostat calls for heat.
func (s *Solver) HeatingRate() float64 { return s.ratePerStep }

// RadiatorAt reports whether the cell at row i, column j is a heating cell.
func (s *Solver) RadiatorAt(i, j int) bool {
	if i < 0 || i >= s.ny || j < 0 || j >= s.nx {
		return false
	}
	return s.radiatorMask[i*s.nx+j]
}
