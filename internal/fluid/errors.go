package fluid

import (
	"errors"
	"fmt"
)

// Domain errors for engine operations.
var (
	// ErrInvalidGeometry indicates an obstacle shape that is degenerate
	// or exceeds the domain bounds.
	ErrInvalidGeometry = errors.New("fluid: invalid obstacle geometry")

	// ErrDiverged indicates NaN or Inf was detected in a field. The state
	// is corrupted and the run cannot continue.
	ErrDiverged = errors.New("fluid: numerical divergence (NaN or Inf detected)")

	// ErrTerminated indicates the engine has already stopped, either
	// explicitly or after a fatal numerical failure.
	ErrTerminated = errors.New("fluid: engine terminated")

	// ErrNotRunning indicates Advance was called outside the Running phase.
	ErrNotRunning = errors.New("fluid: engine not running")

	// ErrParameterBounds indicates a configuration value outside its valid range.
	ErrParameterBounds = errors.New("fluid: parameter out of valid bounds")
)

// StepError wraps an error with the tick at which it occurred.
type StepError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4g): %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
