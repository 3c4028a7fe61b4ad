package heat

import "math"

// Field is a dense row-major ny x nx temperature grid. Row index is y,
// column index is x. The solver mutates it in place every step; callers
// holding the live field must not assume immutability between steps.
type Field struct {
	nx, ny int
	u      []float64
}

// NewField allocates an ny x nx field filled with a uniform value.
func NewField(nx, ny int, fill float64) *Field {
	u := make([]float64, nx*ny)
	for i := range u {
		u[i] = fill
	}
	return &Field{nx: nx, ny: ny, u: u}
}

// FieldFromValues wraps an existing row-major slice. The slice length must
// equal nx*ny; it is not copied.
func FieldFromValues(nx, ny int, u []float64) *Field {
	if len(u) != nx*ny {
		return nil
	}
	return &Field{nx: nx, ny: ny, u: u}
}

func (f *Field) Nx() int { return f.nx }
func (f *Field) Ny() int { return f.ny }

// At returns the temperature at row i (y), column j (x).
func (f *Field) At(i, j int) float64 { return f.u[i*f.nx+j] }

// Set writes the temperature at row i, column j.
func (f *Field) Set(i, j int, v float64) { f.u[i*f.nx+j] = v }

// Values returns the live backing slice, row-major.
func (f *Field) Values() []float64 { return f.u }

// Clone returns a deep copy, useful for snapshotting results.
func (f *Field) Clone() *Field {
	u := make([]float64, len(f.u))
	copy(u, f.u)
	return &Field{nx: f.nx, ny: f.ny, u: u}
}

// Mean returns the mean temperature over the whole grid.
func (f *Field) Mean() float64 {
	sum := 0.0
	for _, v := range f.u {
		sum += v
	}
	return sum / float64(len(f.u))
}

// MeanMasked returns the mean over cells where mask is true and the number
// of selected cells. A zero count yields a zero mean.
func (f *Field) MeanMasked(mask []bool) (float64, int) {
	sum, n := 0.0, 0
	for k, on := range mask {
		if on {
			sum += f.u[k]
			n++
		}
	}
	if n == 0 {
		return 0, 0
	}
	return sum / float64(n), n
}

// MeanColumns returns the mean over the column band [j0, j1), all rows.
// Used for per-apartment reporting on multi-room domains.
func (f *Field) MeanColumns(j0, j1 int) float64 {
	j0 = max(j0, 0)
	j1 = min(j1, f.nx)
	if j1 <= j0 {
		return f.Mean()
	}
	sum, n := 0.0, 0
	for i := 0; i < f.ny; i++ {
		row := i * f.nx
		for j := j0; j < j1; j++ {
			sum += f.u[row+j]
			n++
		}
	}
	return sum / float64(n)
}

// StdDev returns the population standard deviation of the grid, the comfort
// measure: lower means a more even temperature distribution.
func (f *Field) StdDev() float64 {
	mean := f.Mean()
	sum := 0.0
	for _, v := range f.u {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(f.u)))
}

// MinMax returns the extreme temperatures on the grid.
func (f *Field) MinMax() (lo, hi float64) {
	lo, hi = f.u[0], f.u[0]
	for _, v := range f.u[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
