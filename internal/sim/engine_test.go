package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/flowsim/internal/config"
	"github.com/san-kum/flowsim/internal/fluid"
	"github.com/san-kum/flowsim/internal/solver"
)

// uniformConfig is an empty inviscid channel: the exact steady state is
// the free stream, which makes every deviation a solver bug.
func uniformConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Nx = 32
	cfg.Ny = 32
	cfg.Width = 1
	cfg.Height = 1
	cfg.Viscosity = 0
	return cfg
}

func TestLifecycleTransitions(t *testing.T) {
	e, err := New(uniformConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if e.Phase() != Ready {
		t.Fatalf("fresh engine phase = %s, want ready", e.Phase())
	}

	if _, err := e.Advance(); !errors.Is(err, fluid.ErrNotRunning) {
		t.Errorf("Advance before Start: %v, want ErrNotRunning", err)
	}
	if err := e.Resume(); err == nil {
		t.Error("Resume from ready should fail")
	}

	if err := e.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := e.Start(); err == nil {
		t.Error("Start while running should fail")
	}
	if err := e.Pause(); err != nil {
		t.Fatalf("Pause: %v", err)
	}
	if _, err := e.Advance(); !errors.Is(err, fluid.ErrNotRunning) {
		t.Errorf("Advance while paused: %v, want ErrNotRunning", err)
	}
	if err := e.Pause(); !errors.Is(err, fluid.ErrNotRunning) {
		t.Errorf("Pause while paused: %v, want ErrNotRunning", err)
	}
	if err := e.Resume(); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if _, err := e.Advance(); err != nil {
		t.Fatalf("Advance while running: %v", err)
	}

	e.Stop()
	if e.Phase() != Terminated {
		t.Fatalf("phase after Stop = %s, want terminated", e.Phase())
	}
	if err := e.Start(); !errors.Is(err, fluid.ErrTerminated) {
		t.Errorf("Start after Stop: %v, want ErrTerminated", err)
	}
	_, err = e.Advance()
	if !errors.Is(err, fluid.ErrTerminated) {
		t.Errorf("Advance after Stop: %v, want ErrTerminated", err)
	}
	var se *fluid.StepError
	if !errors.As(err, &se) {
		t.Errorf("Advance after Stop should return a StepError, got %T", err)
	}
	// Field state stays readable after termination.
	if e.Snapshot() == nil {
		t.Error("Snapshot after Stop returned nil")
	}
}

func TestUniformFlowIsSteadyState(t *testing.T) {
	e, err := New(uniformConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	results, err := e.Run(context.Background(), 10)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 10 {
		t.Fatalf("got %d results, want 10", len(results))
	}
	for k := 1; k < len(results); k++ {
		if results[k].Time <= results[k-1].Time {
			t.Fatalf("time not monotonic at step %d", k)
		}
	}

	snap := e.Snapshot()
	for idx := range snap.U {
		if math.Abs(snap.U[idx]-1) > 1e-9 || math.Abs(snap.V[idx]) > 1e-9 {
			t.Fatalf("free stream drifted at %d: (%v, %v)", idx, snap.U[idx], snap.V[idx])
		}
	}
	if div := solver.MaxDivergence(e.grid); div > 1e-9 {
		t.Errorf("uniform flow divergence %v, want ~0", div)
	}
}

func TestAdvanceClampsTimestep(t *testing.T) {
	cfg := uniformConfig()
	cfg.Dt = 10 // far past the stability bound at unit inflow

	e, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := e.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	res, err := e.Advance()
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if !res.Clamped {
		t.Error("oversized dt should report Clamped")
	}
	if res.Dt > res.DtMax {
		t.Errorf("clamped dt %v exceeds bound %v", res.Dt, res.DtMax)
	}
	if res.Dt >= cfg.Dt {
		t.Errorf("dt %v was not reduced below the configured %v", res.Dt, cfg.Dt)
	}
	if res.Diverged {
		t.Error("a clamped step must not diverge")
	}
}

func TestDivergenceIsStickyFatal(t *testing.T) {
	e, err := New(uniformConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := e.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := e.Advance(); err != nil {
		t.Fatalf("first Advance: %v", err)
	}

	// Corrupt the state the way a genuine blow-up would.
	e.grid.U[e.grid.Idx(10, 10)] = math.NaN()

	res, err := e.Advance()
	if err != nil {
		t.Fatalf("the detecting step reports through the result, got error %v", err)
	}
	if !res.Diverged {
		t.Fatal("NaN in the field should set Diverged")
	}
	if e.Phase() != Terminated {
		t.Fatalf("phase after divergence = %s, want terminated", e.Phase())
	}

	// Every later call is an error; the run cannot be resumed.
	res, err = e.Advance()
	if !errors.Is(err, fluid.ErrDiverged) {
		t.Errorf("Advance after divergence: %v, want ErrDiverged", err)
	}
	if !res.Diverged {
		t.Error("post-divergence results should keep reporting Diverged")
	}
	if !errors.Is(e.Err(), fluid.ErrDiverged) {
		t.Errorf("Err() = %v, want ErrDiverged", e.Err())
	}
	if err := e.Start(); !errors.Is(err, fluid.ErrTerminated) {
		t.Errorf("Start after divergence: %v, want ErrTerminated", err)
	}
}

func TestRunHonorsContext(t *testing.T) {
	e, err := New(uniformConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := e.Run(ctx, 100)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run on canceled context: %v, want context.Canceled", err)
	}
	if len(results) != 0 {
		t.Errorf("canceled run produced %d results, want 0", len(results))
	}
}

func TestTracerInjection(t *testing.T) {
	cfg := uniformConfig()
	cfg.Tracer = config.TracerConfig{Enabled: true, X: 0.25, Y: 0.5, Rate: 5}

	e, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := e.Run(context.Background(), 3); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var total float64
	for _, c := range e.Snapshot().T {
		if c < 0 {
			t.Fatal("tracer concentration went negative")
		}
		total += c
	}
	if total <= 0 {
		t.Error("tracer source injected nothing")
	}
}

type stepCounter struct{ n int }

func (c *stepCounter) OnStep(*fluid.Grid, StepResult) { c.n++ }

func TestObserversSeeCompletedTicksOnly(t *testing.T) {
	e, err := New(uniformConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	var c stepCounter
	e.AddObserver(&c)

	if _, err := e.Run(context.Background(), 4); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if c.n != 4 {
		t.Fatalf("observer saw %d ticks, want 4", c.n)
	}

	// A diverged tick never reaches observers.
	e.grid.V[0] = math.Inf(1)
	if res, err := e.Advance(); err != nil || !res.Diverged {
		t.Fatalf("corrupted tick: res=%+v err=%v", res, err)
	}
	if c.n != 4 {
		t.Errorf("observer saw the diverged tick: %d calls", c.n)
	}
}

func TestRejectsInvalidConfig(t *testing.T) {
	cfg := uniformConfig()
	cfg.Dt = -1
	if _, err := New(cfg); !errors.Is(err, fluid.ErrParameterBounds) {
		t.Errorf("negative dt: %v, want ErrParameterBounds", err)
	}

	cfg = uniformConfig()
	cfg.Obstacle = config.ObstacleConfig{Shape: "circle", CX: 0.5, CY: 0.5, R: 5}
	if _, err := New(cfg); !errors.Is(err, fluid.ErrInvalidGeometry) {
		t.Errorf("oversized circle: %v, want ErrInvalidGeometry", err)
	}
}
