package sim

import "github.com/san-kum/flowsim/internal/fluid"

// Phase is the engine lifecycle state. Construction is the transition out
// of the implicit uninitialized state: a successful New returns a Ready
// engine, a failed one returns no engine at all.
type Phase int

const (
	Ready Phase = iota
	Running
	Paused
	Terminated
)

func (p Phase) String() string {
	switch p {
	case Ready:
		return "ready"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Terminated:
		return "terminated"
	}
	return "unknown"
}

// StepResult carries the per-tick diagnostics exposed to the driver. A
// clamped dt and a pressure solve stopped at the iteration cap are
// recoverable conditions reported here, not errors.
type StepResult struct {
	Time  float64
	Step  int
	Dt    float64
	DtMax float64

	Clamped     bool
	Residual    float64
	SolverIters int
	Converged   bool
	Diverged    bool
}

// Metric accumulates a scalar diagnostic over the run.
type Metric interface {
	Name() string
	Observe(g *fluid.Grid, t float64)
	Value() float64
	Reset()
}

// Observer is notified after every completed tick.
type Observer interface {
	OnStep(g *fluid.Grid, res StepResult)
}
