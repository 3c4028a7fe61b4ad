package heat

// SetWindows marks the left (x=0) and right (x=Lx) walls as carrying a
// window over the vertically centered half of their height. Windows use
// the window conductance in the boundary sweep; the rest of the edge keeps
// wall conductance. Top and bottom walls never carry windows.
func (s *Solver) SetWindows(left, right bool) {
	s.windowLeft = left
	s.windowRight = right
}

// Windows returns the window flags for the left and right walls.
func (s *Solver) Windows() (left, right bool) {
	return s.windowLeft, s.windowRight
}

// WindowSpan returns the row range [y0, y1) covered by a window on the
// left or right wall: the centered half of the domain height.
func (s *Solver) WindowSpan() (y0, y1 int) {
	size := s.ny / 2
	y0 = (s.ny - size) / 2
	return y0, y0 + size
}

// applyBoundary overwrites the four outer edges with the closed-form Robin
// substitution
//
//	edge = (adjacent interior + beta*uOutdoor) / (1 + beta)
//
// reading the interior values already updated by the diffusion step. The
// order is fixed: left column, right column, bottom row, top row, then
// window re-computation of the left/right sub-spans with the window beta.
func (s *Solver) applyBoundary() {
	u := s.field.u
	nx, ny := s.nx, s.ny
	uo := s.cfg.UOutdoor
	bw := s.betaWall

	for i := 0; i < ny; i++ {
		row := i * nx
		u[row] = (u[row+1] + bw*uo) / (1 + bw)
		u[row+nx-1] = (u[row+nx-2] + bw*uo) / (1 + bw)
	}
	bottom := (ny - 1) * nx
	for j := 0; j < nx; j++ {
		u[bottom+j] = (u[bottom-nx+j] + bw*uo) / (1 + bw)
		u[j] = (u[nx+j] + bw*uo) / (1 + bw)
	}

	if !s.windowLeft && !s.windowRight {
		return
	}
	y0, y1 := s.WindowSpan()
	bwin := s.betaWindow
	for i := y0; i < y1; i++ {
		row := i * nx
		if s.windowLeft {
			u[row] = (u[row+1] + bwin*uo) / (1 + bwin)
		}
		if s.windowRight {
			u[row+nx-1] = (u[row+nx-2] + bwin*uo) / (1 + bwin)
		}
	}
}
