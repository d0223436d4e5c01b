// Package viz renders field snapshots and solver diagnostics as terminal
// output: asciigraph line plots for scalar histories and a character-ramp
// raster for 2D fields.
package viz

import (
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/flowsim/internal/fluid"
)

const plotHeight = 12

// ResidualPlot renders the pressure-solve residual history.
func ResidualPlot(history []float64) string {
	if len(history) < 2 {
		return ""
	}
	return asciigraph.Plot(history,
		asciigraph.Height(plotHeight),
		asciigraph.Caption("pressure residual per tick"))
}

// CenterlineProfile plots |v| along the horizontal centerline, which
// makes wakes visible as a dip behind the obstacle.
func CenterlineProfile(snap *fluid.Snapshot) string {
	speed := snap.Speed()
	j := snap.Ny / 2
	line := make([]float64, snap.Nx)
	for i := 0; i < snap.Nx; i++ {
		line[i] = speed[i*snap.Ny+j]
	}
	return asciigraph.Plot(line,
		asciigraph.Height(plotHeight),
		asciigraph.Caption("|v| along centerline (inflow -> outflow)"))
}

// density ramp from empty to full, obstacle cells render as '#'.
var ramp = []rune(" .:-=+*%@")

// RenderField rasterizes a scalar field to rows x cols characters by
// averaging cells into character bins. Grid x maps to columns, grid y to
// rows with row 0 at the top.
func RenderField(snap *fluid.Snapshot, values []float64, cols, rows int) string {
	if cols > snap.Nx {
		cols = snap.Nx
	}
	if rows > snap.Ny {
		rows = snap.Ny
	}

	maxVal := 0.0
	for idx, v := range values {
		if !snap.Solid[idx] && v > maxVal {
			maxVal = v
		}
	}

	var b strings.Builder
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			i0, i1 := c*snap.Nx/cols, (c+1)*snap.Nx/cols
			j0, j1 := (rows-1-r)*snap.Ny/rows, (rows-r)*snap.Ny/rows

			sum, count, solid := 0.0, 0, 0
			for i := i0; i < i1; i++ {
				for j := j0; j < j1; j++ {
					idx := i*snap.Ny + j
					if snap.Solid[idx] {
						solid++
						continue
					}
					sum += values[idx]
					count++
				}
			}

			switch {
			case count == 0:
				b.WriteRune('#')
			case solid > count:
				b.WriteRune('#')
			default:
				b.WriteRune(shade(sum/float64(count), maxVal))
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func shade(v, maxVal float64) rune {
	if maxVal <= 0 {
		return ramp[0]
	}
	k := int(v / maxVal * float64(len(ramp)-1))
	if k < 0 {
		k = 0
	}
	if k >= len(ramp) {
		k = len(ramp) - 1
	}
	return ramp[k]
}
