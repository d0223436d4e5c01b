package metrics

import (
	"math"

	"github.com/san-kum/flowsim/internal/fluid"
)

// WakeDeficit reports 1 - |v_probe| / v_inflow at a probe cell placed in
// the expected wake of an obstacle. Positive values mean the wake has
// formed; near zero means the probe still sees free-stream flow.
type WakeDeficit struct {
	name        string
	probeI      int
	probeJ      int
	inflowSpeed float64
	last        float64
}

func NewWakeDeficit(probeI, probeJ int, inflowSpeed float64) *WakeDeficit {
	return &WakeDeficit{
		name:        "wake_deficit",
		probeI:      probeI,
		probeJ:      probeJ,
		inflowSpeed: inflowSpeed,
	}
}

func (w *WakeDeficit) Name() string { return w.name }

func (w *WakeDeficit) Observe(g *fluid.Grid, t float64) {
	if w.inflowSpeed == 0 {
		return
	}
	idx := g.Idx(w.probeI, w.probeJ)
	if g.Solid[idx] {
		return
	}
	w.last = 1 - math.Hypot(g.U[idx], g.V[idx])/w.inflowSpeed
}

func (w *WakeDeficit) Value() float64 { return w.last }

func (w *WakeDeficit) Reset() { w.last = 0 }
