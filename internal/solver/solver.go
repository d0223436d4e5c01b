// Package solver implements the per-tick stages of the incompressible
// Navier-Stokes solve: semi-Lagrangian advection, implicit Jacobi
// diffusion, boundary enforcement and Chorin pressure projection.
//
// Stages mutate the grid in place and must run in the fixed order
// advect, diffuse, enforce, project, enforce; projection assumes the
// post-diffusion velocity and boundary enforcement assumes the
// post-projection velocity.
package solver

import (
	"fmt"

	"github.com/san-kum/flowsim/internal/fluid"
)

// Scheme selects the relaxation method for the pressure Poisson solve.
type Scheme int

const (
	GaussSeidel Scheme = iota
	Jacobi
)

func ParseScheme(s string) (Scheme, error) {
	switch s {
	case "gauss-seidel", "":
		return GaussSeidel, nil
	case "jacobi":
		return Jacobi, nil
	}
	return 0, fmt.Errorf("%w: unknown relaxation scheme %q", fluid.ErrParameterBounds, s)
}

// SlipMode selects the velocity condition written into obstacle cells.
type SlipMode int

const (
	NoSlip SlipMode = iota
	FreeSlip
)

func ParseSlipMode(s string) (SlipMode, error) {
	switch s {
	case "no-slip", "":
		return NoSlip, nil
	case "free-slip":
		return FreeSlip, nil
	}
	return 0, fmt.Errorf("%w: unknown slip mode %q", fluid.ErrParameterBounds, s)
}

// LateralMode selects the condition on the top and bottom domain edges.
type LateralMode int

const (
	LateralSlip LateralMode = iota
	LateralOpen
)

func ParseLateralMode(s string) (LateralMode, error) {
	switch s {
	case "slip", "":
		return LateralSlip, nil
	case "open":
		return LateralOpen, nil
	}
	return 0, fmt.Errorf("%w: unknown lateral mode %q", fluid.ErrParameterBounds, s)
}

// Options are the immutable numerical parameters of a run.
type Options struct {
	Viscosity       float64
	DiffusionSweeps int
	ProjectionIters int
	ProjectionTol   float64
	Scheme          Scheme
	Slip            SlipMode
	Lateral         LateralMode

	// InflowU, InflowV is the velocity written onto the upstream edge.
	InflowU, InflowV float64
}

// Solver owns the scratch buffers for one grid so no stage allocates per
// tick. It is bound to a single grid for its lifetime.
type Solver struct {
	g    *fluid.Grid
	opts Options

	u1, v1, t1 []float64 // write buffers for read-old/write-new stages
	u0, v0     []float64 // right-hand sides for the implicit diffusion solve
	p1         []float64 // Jacobi pressure buffer
	rhs        []float64 // divergence / dt
}

// New creates a solver bound to g.
func New(g *fluid.Grid, opts Options) *Solver {
	n := g.Nx * g.Ny
	s := &Solver{
		g:    g,
		opts: opts,
		u1:   make([]float64, n),
		v1:   make([]float64, n),
		u0:   make([]float64, n),
		v0:   make([]float64, n),
		p1:   make([]float64, n),
		rhs:  make([]float64, n),
	}
	if g.T != nil {
		s.t1 = make([]float64, n)
	}
	return s
}

// Options returns the solver's numerical parameters.
func (s *Solver) Options() Options { return s.opts }

const parallelMinChunk = 8
