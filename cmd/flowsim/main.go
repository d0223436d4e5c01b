package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/flowsim/internal/config"
	"github.com/san-kum/flowsim/internal/export"
	"github.com/san-kum/flowsim/internal/metrics"
	"github.com/san-kum/flowsim/internal/sim"
	"github.com/san-kum/flowsim/internal/tui"
	"github.com/san-kum/flowsim/internal/viz"
)

var (
	configFile string
	preset     string
	scenario   string

	nx, ny      int
	width       float64
	height      float64
	dt          float64
	viscosity   float64
	inflow      float64
	angle       float64
	courant     float64
	shape       string
	cx, cy, r   float64
	iters       int
	tol         float64
	steps       int
	frameRate   int
	csvPath     string
	jsonPath    string
	showProfile bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "flowsim",
		Short: "interactive 2D incompressible flow lab",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and report diagnostics",
		RunE:  runHeadless,
	}
	addConfigFlags(runCmd)
	runCmd.Flags().IntVar(&steps, "steps", 500, "number of ticks")
	runCmd.Flags().StringVar(&csvPath, "csv", "", "write final field snapshot to CSV")
	runCmd.Flags().StringVar(&jsonPath, "json", "", "write run metadata to JSON")
	runCmd.Flags().BoolVar(&showProfile, "profile", false, "plot centerline velocity profile")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with live terminal visualization",
		RunE:  runLive,
	}
	addConfigFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	presetsCmd := &cobra.Command{
		Use:   "presets [scenario]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "measure tick throughput",
		RunE:  runBench,
	}
	addConfigFlags(benchCmd)
	benchCmd.Flags().IntVar(&steps, "steps", 200, "number of ticks to time")

	rootCmd.AddCommand(runCmd, liveCmd, presetsCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&scenario, "scenario", "cylinder", "preset scenario")
	cmd.Flags().StringVar(&preset, "preset", "", "preset name within the scenario")
	cmd.Flags().IntVar(&nx, "nx", 0, "grid cells in x")
	cmd.Flags().IntVar(&ny, "ny", 0, "grid cells in y")
	cmd.Flags().Float64Var(&width, "width", 0, "domain width")
	cmd.Flags().Float64Var(&height, "height", 0, "domain height")
	cmd.Flags().Float64Var(&dt, "dt", 0, "timestep")
	cmd.Flags().Float64Var(&viscosity, "viscosity", -1, "kinematic viscosity")
	cmd.Flags().Float64Var(&inflow, "inflow", 0, "inflow speed")
	cmd.Flags().Float64Var(&angle, "angle", 0, "inflow angle in degrees")
	cmd.Flags().Float64Var(&courant, "courant", 0, "courant constant")
	cmd.Flags().StringVar(&shape, "shape", "", "obstacle shape (none|circle|rectangle|ellipse)")
	cmd.Flags().Float64Var(&cx, "cx", 0, "obstacle center x")
	cmd.Flags().Float64Var(&cy, "cy", 0, "obstacle center y")
	cmd.Flags().Float64Var(&r, "radius", 0, "obstacle radius")
	cmd.Flags().IntVar(&iters, "iters", 0, "pressure iteration cap")
	cmd.Flags().Float64Var(&tol, "tol", 0, "pressure tolerance")
}

// resolveConfig layers preset, config file and explicit flags, later
// sources winning.
func resolveConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(scenario, preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %s/%s (available: %v)",
				scenario, preset, config.ListPresets(scenario))
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if nx > 0 {
		cfg.Nx = nx
	}
	if ny > 0 {
		cfg.Ny = ny
	}
	if width > 0 {
		cfg.Width = width
	}
	if height > 0 {
		cfg.Height = height
	}
	if dt > 0 {
		cfg.Dt = dt
	}
	if viscosity >= 0 {
		cfg.Viscosity = viscosity
	}
	if inflow > 0 {
		cfg.InflowSpeed = inflow
	}
	if angle != 0 {
		cfg.InflowAngle = angle
	}
	if courant > 0 {
		cfg.Courant = courant
	}
	if shape != "" {
		cfg.Obstacle.Shape = shape
	}
	if cx > 0 {
		cfg.Obstacle.CX = cx
	}
	if cy > 0 {
		cfg.Obstacle.CY = cy
	}
	if r > 0 {
		cfg.Obstacle.R = r
	}
	if iters > 0 {
		cfg.Pressure.Iters = iters
	}
	if tol > 0 {
		cfg.Pressure.Tol = tol
	}

	return cfg, nil
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}

	engine, err := sim.New(cfg)
	if err != nil {
		return err
	}

	maxDiv := metrics.NewMaxDivergence()
	kinetic := metrics.NewKineticEnergy()
	engine.AddMetric(maxDiv)
	engine.AddMetric(kinetic)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	results, err := engine.Run(ctx, steps)
	elapsed := time.Since(start)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return fmt.Errorf("no ticks completed")
	}

	last := results[len(results)-1]
	if last.Diverged {
		fmt.Println("FATAL: simulation diverged (NaN/Inf in fields)")
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "ticks\t%d\n", last.Step)
	fmt.Fprintf(w, "sim time\t%.4f\n", last.Time)
	fmt.Fprintf(w, "wall time\t%s\n", elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "residual\t%.3e\n", last.Residual)
	fmt.Fprintf(w, "solver iters\t%d\n", last.SolverIters)
	fmt.Fprintf(w, "dt clamped\t%v\n", last.Clamped)
	fmt.Fprintf(w, "max divergence\t%.3e\n", maxDiv.Value())
	fmt.Fprintf(w, "kinetic energy\t%.4f\n", kinetic.Value())
	w.Flush()

	residuals := make([]float64, len(results))
	for i, res := range results {
		residuals[i] = res.Residual
	}
	if plot := viz.ResidualPlot(residuals); plot != "" {
		fmt.Println()
		fmt.Println(plot)
	}

	snap := engine.Snapshot()
	if showProfile {
		fmt.Println()
		fmt.Println(viz.CenterlineProfile(snap))
	}

	if csvPath != "" {
		if err := export.WriteFieldCSV(csvPath, snap); err != nil {
			return err
		}
		fmt.Printf("field written to %s\n", csvPath)
	}
	if jsonPath != "" {
		vals := map[string]float64{
			maxDiv.Name():  maxDiv.Value(),
			kinetic.Name(): kinetic.Value(),
		}
		if err := export.WriteRunJSON(jsonPath, last, snap, vals); err != nil {
			return err
		}
		fmt.Printf("metadata written to %s\n", jsonPath)
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}
	engine, err := sim.New(cfg)
	if err != nil {
		return err
	}
	return tui.Run(engine, frameRate)
}

func listPresets(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		names := config.ListPresets(args[0])
		if len(names) == 0 {
			fmt.Printf("no presets for scenario: %s\n", args[0])
			return nil
		}
		fmt.Printf("presets for %s:\n", args[0])
		for _, name := range names {
			fmt.Printf("  %s\n", name)
		}
		return nil
	}
	for scen := range config.Presets {
		fmt.Println(scen)
		for _, name := range config.ListPresets(scen) {
			fmt.Printf("  %s\n", name)
		}
	}
	return nil
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}
	engine, err := sim.New(cfg)
	if err != nil {
		return err
	}

	start := time.Now()
	results, err := engine.Run(context.Background(), steps)
	elapsed := time.Since(start)
	if err != nil {
		return err
	}

	perTick := elapsed / time.Duration(len(results))
	fmt.Printf("%dx%d grid: %d ticks in %s (%s/tick, %.1f ticks/s)\n",
		cfg.Nx, cfg.Ny, len(results), elapsed.Round(time.Millisecond),
		perTick.Round(time.Microsecond), float64(time.Second)/float64(perTick))
	return nil
}
