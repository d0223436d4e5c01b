package solver

import "github.com/san-kum/flowsim/internal/fluid"

// Diffuse applies viscous diffusion with a fixed number of Jacobi sweeps
// on the implicit equation (I - nu*dt*L)u' = u, stable for any dt. The
// sweep count trades accuracy of the diffusion solve against cost, not
// correctness. Solid neighbors fall back to the center value, which makes
// the stencil zero-flux at obstacle walls.
func (s *Solver) Diffuse(dt float64) {
	nu := s.opts.Viscosity
	if nu <= 0 || s.opts.DiffusionSweeps <= 0 {
		return
	}

	g := s.g
	n := g.Ny
	ax := nu * dt / (g.Dx * g.Dx)
	ay := nu * dt / (g.Dy * g.Dy)
	denom := 1 + 2*ax + 2*ay

	// u0, v0 hold the right-hand side; u1, v1 ping-pong with the grid.
	copy(s.u0, g.U)
	copy(s.v0, g.V)
	u0, v0 := s.u0, s.v0

	for sweep := 0; sweep < s.opts.DiffusionSweeps; sweep++ {
		fluid.ParallelFor(g.Nx, parallelMinChunk, func(start, end int) {
			for i := start; i < end; i++ {
				for j := 0; j < g.Ny; j++ {
					idx := i*n + j
					if g.Solid[idx] {
						continue
					}
					uc, vc := g.U[idx], g.V[idx]

					uW, vW := neighbor(g, i-1, j, uc, vc)
					uE, vE := neighbor(g, i+1, j, uc, vc)
					uS, vS := neighbor(g, i, j-1, uc, vc)
					uN, vN := neighbor(g, i, j+1, uc, vc)

					s.u1[idx] = (u0[idx] + ax*(uW+uE) + ay*(uS+uN)) / denom
					s.v1[idx] = (v0[idx] + ax*(vW+vE) + ay*(vS+vN)) / denom
				}
			}
		})
		copyFluid(g, g.U, s.u1)
		copyFluid(g, g.V, s.v1)
	}
}

// neighbor returns the velocity at (i, j), or the center value when the
// cell is solid or outside the domain.
func neighbor(g *fluid.Grid, i, j int, uc, vc float64) (float64, float64) {
	if g.IsSolid(i, j) {
		return uc, vc
	}
	idx := i*g.Ny + j
	return g.U[idx], g.V[idx]
}

func copyFluid(g *fluid.Grid, dst, src []float64) {
	for idx := range dst {
		if !g.Solid[idx] {
			dst[idx] = src[idx]
		}
	}
}
