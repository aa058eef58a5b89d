package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"golang.org/x/exp/constraints"

	"github.com/san-kum/springsim/internal/analysis"
	"github.com/san-kum/springsim/internal/config"
	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/experiment"
	"github.com/san-kum/springsim/internal/export"
	"github.com/san-kum/springsim/internal/field"
	"github.com/san-kum/springsim/internal/optim"
	"github.com/san-kum/springsim/internal/physics"
	"github.com/san-kum/springsim/internal/sim"
	"github.com/san-kum/springsim/internal/spring"
	"github.com/san-kum/springsim/internal/storage"
	"github.com/san-kum/springsim/internal/viz"
)

func printCoefficients(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	w, z, step := cfg.Spring.AngularFrequency, cfg.Spring.DampingRatio, cfg.Dt

	var regime spring.Regime
	var pp, pv, vp, vv float64
	switch cfg.Precision {
	case "float32":
		regime = spring.Classify(float32(w), float32(z))
		a, b, c, d := spring.New(float32(step), float32(w), float32(z)).Matrix()
		pp, pv, vp, vv = float64(a), float64(b), float64(c), float64(d)
	default:
		regime = spring.Classify(w, z)
		pp, pv, vp, vv = spring.New(step, w, z).Matrix()
	}

	fmt.Printf("omega=%g zeta=%g dt=%g (%s)\n", w, z, step, cfg.Precision)
	fmt.Printf("regime: %s\n\n", regime)

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\tPOS\tVEL")
	fmt.Fprintf(tw, "pos\t%.10g\t%.10g\n", pp, pv)
	fmt.Fprintf(tw, "vel\t%.10g\t%.10g\n", vp, vv)
	return tw.Flush()
}

func runDemo(cmd *cobra.Command, args []string) error {
	cfg := config.GetPreset("demo")
	coeffs := spring.New(cfg.Dt, cfg.Spring.AngularFrequency, cfg.Spring.DampingRatio)
	target := cfg.Target.Value

	fmt.Printf("dt=%g omega=%g zeta=%g target=%g (%s)\n\n", cfg.Dt, cfg.Spring.AngularFrequency,
		cfg.Spring.DampingRatio, target, spring.Classify(cfg.Spring.AngularFrequency, cfg.Spring.DampingRatio))

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "STEP\tPOSITION\tVELOCITY\t")

	x, v := cfg.InitState.Pos, cfg.InitState.Vel
	steps := dynamo.Config{Dt: cfg.Dt, Duration: cfg.Duration}.Steps()
	for i := 1; i <= steps; i++ {
		coeffs.Update(&x, &v, target)
		fmt.Fprintf(tw, "%d\t%.6f\t%.6f\t\n", i, x, v)
	}
	return tw.Flush()
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	expCfg := experimentConfig(cfg)
	exp := experiment.New(expCfg)
	if err := exp.Setup(experiment.NewRegistry()); err != nil {
		return err
	}
	if m := precisionMetric(cfg); m != nil {
		exp.Simulator().AddMetric(m)
	} else if cfg.Precision == "float32" {
		fmt.Fprintf(os.Stderr, "note: float32_drift needs the analytic integrator, skipping it for %s\n", cfg.Integrator)
	}

	fmt.Printf("running %s spring (omega=%g zeta=%g) with %s...\n", expCfg.Regime(), expCfg.AngularFrequency, expCfg.DampingRatio, expCfg.Integrator)
	start := time.Now()

	result, err := exp.Run(context.Background())
	if err != nil {
		return err
	}

	elapsed := time.Since(start)
	log.Printf("simulated %d steps in %v", result.StepsTaken, elapsed)
	for _, e := range result.Errors {
		fmt.Fprintf(os.Stderr, "warning: %v\n", e)
	}

	runID, err := st.Save(storage.RunMetadata{
		AngularFrequency: expCfg.AngularFrequency,
		DampingRatio:     expCfg.DampingRatio,
		Regime:           expCfg.Regime().String(),
		Dt:               expCfg.Dt,
		Duration:         expCfg.Duration,
		Integrator:       expCfg.Integrator,
		Target:           expCfg.Target,
		Metrics:          result.Metrics,
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", len(result.States))
	fmt.Println("\nmetrics:")
	for _, name := range sortedMetricNames(result.Metrics) {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}

	return nil
}

func sortedMetricNames(m map[string]float64) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tREGIME\tOMEGA\tZETA\tTIME\tDURATION\tDT\tINTEG\tTARGET")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%.2f\t%s\t%.2fs\t%.4fs\t%s\t%s\n",
			run.ID,
			run.Regime,
			run.AngularFrequency,
			run.DampingRatio,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Integrator,
			run.Target,
		)
	}

	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, *storage.Trace, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	tr, err := st.LoadTrace(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(tr.Times) == 0 {
		return nil, nil, fmt.Errorf("run %s has no data", runID)
	}
	return meta, tr, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, tr, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("\n%s spring, omega=%.2f zeta=%.2f, %s over %.1fs\n\n",
		meta.Regime, meta.AngularFrequency, meta.DampingRatio, meta.Integrator, meta.Duration)

	graph := asciigraph.PlotMany([][]float64{tr.Targets, tr.Positions},
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.SeriesColors(asciigraph.Red, asciigraph.Cyan),
		asciigraph.Caption("target (red) / position (cyan)"),
	)
	fmt.Println(graph)
	fmt.Println()

	graph = asciigraph.Plot(tr.Velocities,
		asciigraph.Height(6),
		asciigraph.Width(80),
		asciigraph.Caption("velocity"),
	)
	fmt.Println(graph)

	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, tr, err := loadRun(args[0])
	if err != nil {
		return err
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write([]string{"time", "position", "velocity", "target"}); err != nil {
		return err
	}
	for i := range tr.Times {
		row := []string{
			strconv.FormatFloat(tr.Times[i], 'f', 6, 64),
			strconv.FormatFloat(tr.Positions[i], 'g', -1, 64),
			strconv.FormatFloat(tr.Velocities[i], 'g', -1, 64),
			strconv.FormatFloat(tr.Targets[i], 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, tr, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSONStdout(meta, tr)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	_, tr, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if svgPhase {
		return export.PhaseSVG(os.Stdout, tr, svgWidth, svgHeight)
	}
	return export.TraceSVG(os.Stdout, tr, svgWidth, svgHeight)
}

// tuneSpring keeps omega fixed and searches zeta for the shortest settling
// time among runs that stay under the overshoot limit.
func tuneSpring(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if gridPoints <= 0 || zetaMax < zetaMin {
		return fmt.Errorf("invalid grid: %d points over [%g, %g]", gridPoints, zetaMin, zetaMax)
	}

	registry := experiment.NewRegistry()
	build := func(p map[string]float64) (*experiment.Experiment, error) {
		expCfg := experimentConfig(cfg)
		expCfg.DampingRatio = p["zeta"]
		exp := experiment.New(expCfg)
		return exp, exp.Setup(registry)
	}

	g := optim.NewGridSearch([]string{"zeta"}, [][]float64{optim.Linspace(zetaMin, zetaMax, gridPoints)})
	start := time.Now()
	results, err := g.Search(context.Background(), build, optim.SettleWithin(overshoot))
	if err != nil {
		return err
	}
	log.Printf("evaluated %d candidates in %v", len(results), time.Since(start))

	if len(results) == 0 || math.IsInf(results[0].Score, 1) {
		return fmt.Errorf("no damping ratio in [%g, %g] stays under %.1f%% overshoot", zetaMin, zetaMax, overshoot*100)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ZETA	REGIME	SETTLING")
	for _, c := range results[:min(5, len(results))] {
		if math.IsInf(c.Score, 1) {
			break
		}
		z := c.Params["zeta"]
		fmt.Fprintf(w, "%.3f\t%s\t%.3fs\n", z, spring.Classify(cfg.Spring.AngularFrequency, z), c.Score)
	}
	return w.Flush()
}

// compareIntegrators runs the same configuration through each integrator
// concurrently and reports the largest position gap to the closed-form run.
func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	names := args
	if len(names) == 0 {
		names = registry.ListIntegrators()
	}
	runs := append([]string{"analytic"}, names...)

	expCfg := experimentConfig(cfg)
	exps := make([]*experiment.Experiment, len(runs))
	for i, name := range runs {
		c := expCfg
		c.Integrator = name
		exps[i] = experiment.New(c)
		if err := exps[i].Setup(registry); err != nil {
			return err
		}
	}

	sweep := sim.NewSweep(len(runs), func(i int) *sim.Simulator { return exps[i].Simulator() })
	start := time.Now()
	results, err := sweep.Run(context.Background(), dynamo.State(expCfg.InitState), dynamo.Config{
		Dt:            expCfg.Dt,
		Duration:      expCfg.Duration,
		ValidateState: true,
	})
	if err != nil {
		return err
	}
	log.Printf("%d runs in %v", len(runs), time.Since(start))

	reference := results[0].States

	fmt.Printf("comparing integrators for a %s spring (omega=%g zeta=%g dt=%.4f duration=%.1fs)\n\n",
		expCfg.Regime(), expCfg.AngularFrequency, expCfg.DampingRatio, expCfg.Dt, expCfg.Duration)
	fmt.Printf("%-10s  %-12s  %-12s  %-12s  %-12s\n", "integrator", "final_pos", "max_gap", "tracking", "energy_gain")
	fmt.Println(strings.Repeat("-", 66))

	for i, name := range names {
		result := results[i+1]
		if len(result.Errors) > 0 {
			fmt.Printf("%-10s  error: %v\n", name, result.Errors[0])
			continue
		}

		gap := 0.0
		for j := 0; j < min(len(result.States), len(reference)); j++ {
			gap = max(gap, math.Abs(result.States[j][0]-reference[j][0]))
		}

		final := result.States[len(result.States)-1][0]
		fmt.Printf("%-10s  %12.6f  %12.2e  %12.6f  %12.2e\n",
			name, final, gap, result.Metrics["tracking_rms"], result.Metrics["energy_gain"])
	}

	return nil
}

// analyzeRun looks for the ringing frequency of a run. Under-damped springs
// ring at omega*sqrt(1-zeta^2)/(2*pi).
func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, tr, err := loadRun(args[0])
	if err != nil {
		return err
	}

	deviation := make([]float64, len(tr.Positions))
	for i := range deviation {
		deviation[i] = tr.Positions[i] - tr.Targets[i]
	}

	ps, binHz := analysis.Spectrum(deviation, meta.Dt)
	dominant := analysis.DominantFrequency(deviation, meta.Dt)

	fmt.Printf("run:       %s\n", meta.ID)
	fmt.Printf("regime:    %s\n", meta.Regime)
	fmt.Printf("samples:   %d\n", len(deviation))
	fmt.Printf("bin width: %.4f Hz\n", binHz)
	fmt.Printf("dominant:  %.4f Hz\n", dominant)

	if spring.Classify(meta.AngularFrequency, meta.DampingRatio) == spring.UnderDamped {
		z := max(meta.DampingRatio, 0)
		expected := meta.AngularFrequency * math.Sqrt(1-z*z) / (2 * math.Pi)
		fmt.Printf("expected:  %.4f Hz (error %.4f Hz)\n", expected, math.Abs(dominant-expected))
	} else {
		fmt.Println("expected:  no ringing")
	}

	if len(ps) > 1 {
		limit := min(len(ps), 128)
		fmt.Println()
		fmt.Println(asciigraph.Plot(ps[:limit],
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum of position - target"),
		))
	}

	return nil
}

func benchField(cmd *cobra.Command, args []string) error {
	if benchSize <= 0 || benchSteps <= 0 {
		return fmt.Errorf("springs and steps must be positive")
	}

	fmt.Printf("stepping %d springs x %d steps (omega=%g zeta=%g dt=%g)\n\n", benchSize, benchSteps, omega, zeta, dt)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRECISION\tTOTAL\tNS/SPRING-STEP\tSETTLED")

	report := func(name string, elapsed time.Duration, settled bool) {
		perStep := float64(elapsed.Nanoseconds()) / float64(benchSize*benchSteps)
		fmt.Fprintf(w, "%s\t%v\t%.3f\t%v\n", name, elapsed.Round(time.Microsecond), perStep, settled)
	}

	elapsed, settled := benchmarkField[float32](benchSize, benchSteps)
	report("float32", elapsed, settled)
	elapsed, settled = benchmarkField[float64](benchSize, benchSteps)
	report("float64", elapsed, settled)

	return w.Flush()
}

func benchmarkField[F constraints.Float](n, steps int) (time.Duration, bool) {
	f := field.New(spring.New(F(dt), F(omega), F(zeta)), n)
	start := time.Now()
	for i := 0; i < steps; i++ {
		f.Step(1)
	}
	elapsed := time.Since(start)
	log.Printf("%T field: %d springs, %d steps in %v", F(0), n, steps, elapsed)
	return elapsed, f.Settled(1, F(1e-3))
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tREGIME\tOSC\tOMEGA\tZETA\tTARGET\tINIT")

	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		regime := spring.Classify(p.Spring.AngularFrequency, p.Spring.DampingRatio)
		osc := "no"
		if regime.Oscillates() {
			osc = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%.2f\t%s(%g)\t(%g, %g)\n",
			name,
			regime,
			osc,
			p.Spring.AngularFrequency,
			p.Spring.DampingRatio,
			p.Target.Profile,
			p.Target.Value,
			p.InitState.Pos,
			p.InitState.Vel,
		)
	}

	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if frameRate <= 0 {
		return fmt.Errorf("fps must be positive, got %d", frameRate)
	}
	if !cmd.Flags().Changed("dt") && configFile == "" {
		cfg.Dt = spring.FPS(frameRate)
	}

	integ, err := experiment.NewRegistry().GetIntegrator(cfg.Integrator)
	if err != nil {
		return err
	}

	dyn := physics.NewDampedSpring(cfg.Spring.AngularFrequency, cfg.Spring.DampingRatio)
	m := viz.NewModel(dyn, integ, cfg.GetInitState(), cfg.Target.Value, cfg.Dt, frameRate)
	log.Printf("live: dt=%g fps=%d integrator=%s", cfg.Dt, frameRate, cfg.Integrator)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
