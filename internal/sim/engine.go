// Package sim orchestrates the per-tick solver pipeline behind a small
// state machine the driver steps explicitly. One Advance call is one
// tick; cancellation is simply not calling Advance again, which leaves
// the last-computed field state intact and readable.
package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/flowsim/internal/config"
	"github.com/san-kum/flowsim/internal/fluid"
	"github.com/san-kum/flowsim/internal/geom"
	"github.com/san-kum/flowsim/internal/solver"
)

// Engine owns the grid and drives the advect, diffuse, enforce, project,
// enforce pipeline. It is not thread-safe; the driver must not overlap
// calls, and renderers read through Snapshot between ticks.
type Engine struct {
	cfg    *config.Config
	grid   *fluid.Grid
	solver *solver.Solver

	phase   Phase
	time    float64
	step    int
	failure error

	tracerIdx  int
	tracerRate float64

	metrics   []Metric
	observers []Observer
}

// New validates the configuration, rasterizes the obstacle mask and
// returns a Ready engine. Geometry problems surface immediately as
// fluid.ErrInvalidGeometry.
func New(cfg *config.Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	shape, err := cfg.BuildShape()
	if err != nil {
		return nil, err
	}

	dx := cfg.Width / float64(cfg.Nx)
	dy := cfg.Height / float64(cfg.Ny)

	mask, err := geom.BuildMask(cfg.Nx, cfg.Ny, dx, dy, shape)
	if err != nil {
		return nil, err
	}

	g := fluid.NewGrid(cfg.Nx, cfg.Ny, dx, dy, mask, cfg.Tracer.Enabled)

	e := &Engine{
		cfg:    cfg,
		grid:   g,
		solver: solver.New(g, cfg.SolverOptions()),
		phase:  Ready,
	}

	if cfg.Tracer.Enabled {
		ti := int(cfg.Tracer.X / dx)
		tj := int(cfg.Tracer.Y / dy)
		ti = clampInt(ti, 0, cfg.Nx-1)
		tj = clampInt(tj, 0, cfg.Ny-1)
		e.tracerIdx = g.Idx(ti, tj)
		e.tracerRate = cfg.Tracer.Rate
	}

	// Impulsive start: fluid cells begin at the free-stream velocity so
	// the first ticks already carry flow past the obstacle.
	u, v := cfg.InflowVelocity()
	for idx := range g.U {
		if !g.Solid[idx] {
			g.U[idx] = u
			g.V[idx] = v
		}
	}
	e.solver.EnforceBoundaries()

	return e, nil
}

func (e *Engine) AddMetric(m Metric)     { e.metrics = append(e.metrics, m) }
func (e *Engine) AddObserver(o Observer) { e.observers = append(e.observers, o) }

// Phase returns the current lifecycle state.
func (e *Engine) Phase() Phase { return e.phase }

// Time returns the elapsed simulation time.
func (e *Engine) Time() float64 { return e.time }

// StepCount returns the number of completed ticks.
func (e *Engine) StepCount() int { return e.step }

// Err returns the fatal condition after Terminated, nil otherwise.
func (e *Engine) Err() error { return e.failure }

// Start moves a Ready engine to Running.
func (e *Engine) Start() error {
	switch e.phase {
	case Ready:
		e.phase = Running
		return nil
	case Terminated:
		return fluid.ErrTerminated
	}
	return fmt.Errorf("fluid: cannot start from phase %s", e.phase)
}

// Pause suspends a Running engine.
func (e *Engine) Pause() error {
	if e.phase != Running {
		return fluid.ErrNotRunning
	}
	e.phase = Paused
	return nil
}

// Resume continues a Paused engine.
func (e *Engine) Resume() error {
	if e.phase != Paused {
		return fmt.Errorf("fluid: cannot resume from phase %s", e.phase)
	}
	e.phase = Running
	return nil
}

// Stop terminates the run. The field state stays readable.
func (e *Engine) Stop() {
	e.phase = Terminated
}

// Snapshot returns a deep copy of the current fields. Only call between
// ticks.
func (e *Engine) Snapshot() *fluid.Snapshot { return e.grid.Snapshot() }

// Advance executes one tick: validate dt against the stability bound
// (clamping downward rather than failing), run the stage pipeline, then
// scan for NaN/Inf. A detected divergence is fatal: the result reports
// Diverged once and every later call returns an error, since the
// underlying state is corrupted and retrying cannot help.
func (e *Engine) Advance() (StepResult, error) {
	switch e.phase {
	case Running:
	case Terminated:
		err := fluid.ErrTerminated
		if e.failure != nil {
			err = e.failure
		}
		return StepResult{Time: e.time, Step: e.step, Diverged: e.failure != nil},
			&fluid.StepError{Step: e.step, Time: e.time, Wrapped: err}
	default:
		return StepResult{Time: e.time, Step: e.step}, fluid.ErrNotRunning
	}

	dt, dtMax, clamped := e.stableDt()

	e.injectTracer(dt)
	e.solver.Advect(dt)
	e.solver.Diffuse(dt)
	e.solver.EnforceBoundaries()
	proj := e.solver.Project(dt)
	e.solver.EnforceBoundaries()

	if !e.grid.IsValid() {
		e.phase = Terminated
		e.failure = &fluid.StepError{Step: e.step, Time: e.time, Wrapped: fluid.ErrDiverged}
		return StepResult{Time: e.time, Step: e.step, Dt: dt, DtMax: dtMax, Diverged: true}, nil
	}

	e.time += dt
	e.step++

	res := StepResult{
		Time:        e.time,
		Step:        e.step,
		Dt:          dt,
		DtMax:       dtMax,
		Clamped:     clamped,
		Residual:    proj.Residual,
		SolverIters: proj.Iters,
		Converged:   proj.Converged,
	}

	for _, m := range e.metrics {
		m.Observe(e.grid, e.time)
	}
	for _, o := range e.observers {
		o.OnStep(e.grid, res)
	}

	return res, nil
}

// stableDt applies the CFL-style bound dt <= C*h / max(|v|, nu/h). The
// configured dt is clamped downward, never rejected, to keep the
// interactive loop alive.
func (e *Engine) stableDt() (dt, bound float64, clamped bool) {
	dt = e.cfg.Dt
	h := math.Min(e.grid.Dx, e.grid.Dy)
	denom := math.Max(e.grid.MaxSpeed(), e.cfg.Viscosity/h)
	if denom < 1e-12 {
		return dt, math.Inf(1), false
	}
	bound = e.cfg.Courant * h / denom
	if dt > bound {
		return bound, bound, true
	}
	return dt, bound, false
}

func (e *Engine) injectTracer(dt float64) {
	if e.grid.T == nil || e.tracerRate == 0 {
		return
	}
	if !e.grid.Solid[e.tracerIdx] {
		e.grid.T[e.tracerIdx] += e.tracerRate * dt
	}
}

// Run advances until n ticks have completed, the context is canceled or
// the engine terminates. Used by the headless CLI driver; interactive
// drivers call Advance directly.
func (e *Engine) Run(ctx context.Context, n int) ([]StepResult, error) {
	if e.phase == Ready {
		if err := e.Start(); err != nil {
			return nil, err
		}
	}

	results := make([]StepResult, 0, n)
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return results, ctx.Err()
		default:
		}

		res, err := e.Advance()
		if err != nil {
			return results, err
		}
		results = append(results, res)
		if res.Diverged {
			break
		}
	}
	return results, nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
