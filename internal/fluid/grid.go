package fluid

import "math"

// Grid holds the cell-centered fields of the simulation domain. U and V
// are the velocity components, P the pressure and T an optional passive
// tracer (nil when disabled). Solid marks obstacle cells and is immutable
// for the lifetime of a run.
type Grid struct {
	Nx, Ny int
	Dx, Dy float64

	U, V  []float64
	P     []float64
	T     []float64
	Solid []bool
}

// NewGrid allocates a grid of nx by ny cells with spacing dx, dy. The
// solid mask may be nil (all fluid); otherwise it must have nx*ny entries
// and is referenced, not copied. When tracer is true a tracer field is
// allocated alongside velocity and pressure.
func NewGrid(nx, ny int, dx, dy float64, solid []bool, tracer bool) *Grid {
	n := nx * ny
	if solid == nil {
		solid = make([]bool, n)
	}
	g := &Grid{
		Nx: nx, Ny: ny,
		Dx: dx, Dy: dy,
		U:     make([]float64, n),
		V:     make([]float64, n),
		P:     make([]float64, n),
		Solid: solid,
	}
	if tracer {
		g.T = make([]float64, n)
	}
	return g
}

// Idx maps cell coordinates to the flat slice index.
func (g *Grid) Idx(i, j int) int { return i*g.Ny + j }

// IsSolid reports whether cell (i, j) is obstacle interior. Out-of-range
// coordinates count as solid so stencils can probe neighbors freely.
func (g *Grid) IsSolid(i, j int) bool {
	if i < 0 || i >= g.Nx || j < 0 || j >= g.Ny {
		return true
	}
	return g.Solid[i*g.Ny+j]
}

// MaxSpeed returns the largest velocity magnitude over fluid cells.
func (g *Grid) MaxSpeed() float64 {
	maxSq := 0.0
	for idx, u := range g.U {
		if g.Solid[idx] {
			continue
		}
		v := g.V[idx]
		if sq := u*u + v*v; sq > maxSq {
			maxSq = sq
		}
	}
	return math.Sqrt(maxSq)
}

// IsValid reports whether every field value is finite.
func (g *Grid) IsValid() bool {
	for idx := range g.U {
		if !finite(g.U[idx]) || !finite(g.V[idx]) || !finite(g.P[idx]) {
			return false
		}
	}
	if g.T != nil {
		for _, t := range g.T {
			if !finite(t) {
				return false
			}
		}
	}
	return true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
