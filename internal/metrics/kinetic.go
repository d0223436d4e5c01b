package metrics

import "github.com/san-kum/flowsim/internal/fluid"

// KineticEnergy averages the total kinetic energy per observation,
// 0.5*|v|^2 summed over fluid cells times the cell area.
type KineticEnergy struct {
	name    string
	total   float64
	samples int
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (k *KineticEnergy) Name() string { return k.name }

func (k *KineticEnergy) Observe(g *fluid.Grid, t float64) {
	area := g.Dx * g.Dy
	sum := 0.0
	for idx, u := range g.U {
		if g.Solid[idx] {
			continue
		}
		v := g.V[idx]
		sum += 0.5 * (u*u + v*v) * area
	}
	k.total += sum
	k.samples++
}

func (k *KineticEnergy) Value() float64 {
	if k.samples == 0 {
		return 0
	}
	return k.total / float64(k.samples)
}

func (k *KineticEnergy) Reset() {
	k.total = 0
	k.samples = 0
}
