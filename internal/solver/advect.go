package solver

import "github.com/san-kum/flowsim/internal/fluid"

// Advect transports velocity and, when present, the tracer with a
// semi-Lagrangian backward trace: each cell samples the old field at
// pos - vel*dt with bilinear interpolation. Unconditionally stable in dt
// at the cost of numerical diffusion. The same traced position is reused
// for U, V and T so the fields stay consistent.
func (s *Solver) Advect(dt float64) {
	g := s.g
	n := g.Ny

	copy(s.u1, g.U)
	copy(s.v1, g.V)
	if g.T != nil {
		copy(s.t1, g.T)
	}

	fluid.ParallelFor(g.Nx, parallelMinChunk, func(start, end int) {
		for i := start; i < end; i++ {
			x := (float64(i) + 0.5) * g.Dx
			for j := 0; j < g.Ny; j++ {
				idx := i*n + j
				if g.Solid[idx] {
					continue
				}
				y := (float64(j) + 0.5) * g.Dy

				sx := x - dt*g.U[idx]
				sy := y - dt*g.V[idx]

				s.u1[idx] = sample(g, g.U, sx, sy)
				s.v1[idx] = sample(g, g.V, sx, sy)
				if g.T != nil {
					s.t1[idx] = sample(g, g.T, sx, sy)
				}
			}
		}
	})

	copy(g.U, s.u1)
	copy(g.V, s.v1)
	if g.T != nil {
		copy(g.T, s.t1)
	}
}

// sample bilinearly interpolates a cell-centered field at physical
// position (x, y), clamped to the domain.
func sample(g *fluid.Grid, field []float64, x, y float64) float64 {
	// Fractional cell coordinates; cell centers sit at i+0.5.
	fx := x/g.Dx - 0.5
	fy := y/g.Dy - 0.5

	fx = clamp(fx, 0, float64(g.Nx-1))
	fy = clamp(fy, 0, float64(g.Ny-1))

	i0 := int(fx)
	j0 := int(fy)
	i1 := i0 + 1
	j1 := j0 + 1
	if i1 > g.Nx-1 {
		i1 = g.Nx - 1
	}
	if j1 > g.Ny-1 {
		j1 = g.Ny - 1
	}

	tx := fx - float64(i0)
	ty := fy - float64(j0)

	n := g.Ny
	return (1-tx)*(1-ty)*field[i0*n+j0] +
		tx*(1-ty)*field[i1*n+j0] +
		tx*ty*field[i1*n+j1] +
		(1-tx)*ty*field[i0*n+j1]
}

func clamp(v, lo, hi float64) float64 {
	// The negated comparison collapses NaN trace positions to the lower
	// edge instead of producing an unusable array index; the post-tick
	// validity scan still rejects the corrupted field.
	if !(v > lo) {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
