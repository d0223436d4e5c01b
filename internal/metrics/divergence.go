package metrics

import (
	"github.com/san-kum/flowsim/internal/fluid"
	"github.com/san-kum/flowsim/internal/solver"
)

// MaxDivergence tracks the worst post-projection divergence seen over the
// run, the primary solver-quality diagnostic.
type MaxDivergence struct {
	name string
	max  float64
}

func NewMaxDivergence() *MaxDivergence {
	return &MaxDivergence{name: "max_divergence"}
}

func (m *MaxDivergence) Name() string { return m.name }

func (m *MaxDivergence) Observe(g *fluid.Grid, t float64) {
	if d := solver.MaxDivergence(g); d > m.max {
		m.max = d
	}
}

func (m *MaxDivergence) Value() float64 { return m.max }

func (m *MaxDivergence) Reset() { m.max = 0 }
