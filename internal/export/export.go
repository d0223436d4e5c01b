// Package export writes field snapshots and run metadata to disk for
// offline analysis; the engine itself keeps no persisted state.
package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"strconv"
	"time"

	"github.com/san-kum/flowsim/internal/fluid"
	"github.com/san-kum/flowsim/internal/sim"
)

// RunMetadata summarizes a finished run.
type RunMetadata struct {
	Timestamp   time.Time          `json:"timestamp"`
	Nx          int                `json:"nx"`
	Ny          int                `json:"ny"`
	Steps       int                `json:"steps"`
	SimTime     float64            `json:"sim_time"`
	Residual    float64            `json:"final_residual"`
	SolverIters int                `json:"final_solver_iters"`
	Clamped     bool               `json:"dt_clamped"`
	Metrics     map[string]float64 `json:"metrics"`
}

// WriteRunJSON writes run metadata as indented JSON.
func WriteRunJSON(path string, last sim.StepResult, snap *fluid.Snapshot, metrics map[string]float64) error {
	meta := RunMetadata{
		Timestamp:   time.Now(),
		Nx:          snap.Nx,
		Ny:          snap.Ny,
		Steps:       last.Step,
		SimTime:     last.Time,
		Residual:    last.Residual,
		SolverIters: last.SolverIters,
		Clamped:     last.Clamped,
		Metrics:     metrics,
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(meta)
}

// WriteFieldCSV dumps the snapshot one row per cell: i, j, x, y, u, v, p,
// tracer, solid.
func WriteFieldCSV(path string, snap *fluid.Snapshot) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	header := []string{"i", "j", "x", "y", "u", "v", "p", "tracer", "solid"}
	if err := w.Write(header); err != nil {
		return err
	}

	for i := 0; i < snap.Nx; i++ {
		for j := 0; j < snap.Ny; j++ {
			idx := i*snap.Ny + j
			tracer := 0.0
			if snap.T != nil {
				tracer = snap.T[idx]
			}
			row := []string{
				strconv.Itoa(i),
				strconv.Itoa(j),
				fmtFloat((float64(i) + 0.5) * snap.Dx),
				fmtFloat((float64(j) + 0.5) * snap.Dy),
				fmtFloat(snap.U[idx]),
				fmtFloat(snap.V[idx]),
				fmtFloat(snap.P[idx]),
				fmtFloat(tracer),
				strconv.FormatBool(snap.Solid[idx]),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	return nil
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 8, 64)
}
