package fluid

import "math"

// Snapshot is a deep copy of a grid's fields taken between ticks. It is
// safe to hand to renderers while the engine keeps stepping.
type Snapshot struct {
	Nx, Ny int
	Dx, Dy float64

	U, V  []float64
	P     []float64
	T     []float64
	Solid []bool
}

// Snapshot copies the current field state. The solid mask is shared, not
// copied, since it never changes during a run.
func (g *Grid) Snapshot() *Snapshot {
	s := &Snapshot{
		Nx: g.Nx, Ny: g.Ny,
		Dx: g.Dx, Dy: g.Dy,
		U:     append([]float64(nil), g.U...),
		V:     append([]float64(nil), g.V...),
		P:     append([]float64(nil), g.P...),
		Solid: g.Solid,
	}
	if g.T != nil {
		s.T = append([]float64(nil), g.T...)
	}
	return s
}

// At returns the velocity at cell (i, j).
func (s *Snapshot) At(i, j int) (u, v float64) {
	idx := i*s.Ny + j
	return s.U[idx], s.V[idx]
}

// Speed computes |v| at every cell.
func (s *Snapshot) Speed() []float64 {
	out := make([]float64, len(s.U))
	for idx, u := range s.U {
		out[idx] = math.Hypot(u, s.V[idx])
	}
	return out
}

// Vorticity computes the curl dv/dx - du/dy at interior fluid cells with
// central differences. Solid and edge cells get zero.
func (s *Snapshot) Vorticity() []float64 {
	out := make([]float64, len(s.U))
	n := s.Ny
	for i := 1; i < s.Nx-1; i++ {
		for j := 1; j < s.Ny-1; j++ {
			idx := i*n + j
			if s.Solid[idx] {
				continue
			}
			dvdx := (s.V[(i+1)*n+j] - s.V[(i-1)*n+j]) / (2 * s.Dx)
			dudy := (s.U[i*n+j+1] - s.U[i*n+j-1]) / (2 * s.Dy)
			out[idx] = dvdx - dudy
		}
	}
	return out
}
