package solver

import "math"

// EnforceBoundaries rewrites the cells the interior stages cannot be
// trusted with: obstacle cells get the no-slip or free-slip condition,
// the upstream edge gets the inflow velocity and the remaining edges get
// zero-gradient outflow (with the wall-normal component zeroed on the
// lateral edges). Must run after every field-mutating stage, since
// advection, diffusion and projection all perturb obstacle-adjacent and
// edge cells.
func (s *Solver) EnforceBoundaries() {
	s.enforceSolid()
	s.enforceEdges()
}

func (s *Solver) enforceSolid() {
	g := s.g
	n := g.Ny
	for i := 0; i < g.Nx; i++ {
		for j := 0; j < g.Ny; j++ {
			idx := i*n + j
			if !g.Solid[idx] {
				continue
			}
			if s.opts.Slip == NoSlip {
				g.U[idx] = 0
				g.V[idx] = 0
				continue
			}
			s.freeSlip(i, j, idx)
		}
	}
}

// freeSlip removes the wall-normal velocity component, keeping the
// tangential part. The wall normal is estimated from the occupancy mask
// gradient; fully interior solid cells have no open neighbor and get
// zero velocity.
func (s *Solver) freeSlip(i, j, idx int) {
	g := s.g
	nx, ny := 0.0, 0.0
	if !g.IsSolid(i+1, j) {
		nx++
	}
	if !g.IsSolid(i-1, j) {
		nx--
	}
	if !g.IsSolid(i, j+1) {
		ny++
	}
	if !g.IsSolid(i, j-1) {
		ny--
	}
	mag := math.Hypot(nx, ny)
	if mag == 0 {
		g.U[idx] = 0
		g.V[idx] = 0
		return
	}
	nx /= mag
	ny /= mag
	dot := g.U[idx]*nx + g.V[idx]*ny
	g.U[idx] -= dot * nx
	g.V[idx] -= dot * ny
}

func (s *Solver) enforceEdges() {
	g := s.g
	n := g.Ny

	// Upstream (left) edge: Dirichlet inflow.
	for j := 0; j < g.Ny; j++ {
		if g.Solid[j] {
			continue
		}
		g.U[j] = s.opts.InflowU
		g.V[j] = s.opts.InflowV
	}

	// Downstream (right) edge: zero-gradient outflow.
	for j := 0; j < g.Ny; j++ {
		idx := (g.Nx-1)*n + j
		if g.Solid[idx] {
			continue
		}
		g.U[idx] = g.U[(g.Nx-2)*n+j]
		g.V[idx] = g.V[(g.Nx-2)*n+j]
		if g.T != nil {
			g.T[idx] = g.T[(g.Nx-2)*n+j]
		}
	}

	// Lateral edges: zero-gradient tangential; the normal component is
	// zeroed for slip walls or copied for open boundaries.
	for i := 0; i < g.Nx; i++ {
		bot := i * n
		top := i*n + g.Ny - 1
		if !g.Solid[bot] {
			g.U[bot] = g.U[bot+1]
			if s.opts.Lateral == LateralOpen {
				g.V[bot] = g.V[bot+1]
			} else {
				g.V[bot] = 0
			}
		}
		if !g.Solid[top] {
			g.U[top] = g.U[top-1]
			if s.opts.Lateral == LateralOpen {
				g.V[top] = g.V[top-1]
			} else {
				g.V[top] = 0
			}
		}
	}
}
