package main

import (
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/springsim/internal/experiment"
)

var (
	dataDir    string
	verbose    bool
	omega      float64
	zeta       float64
	dt         float64
	duration   float64
	pos        float64
	vel        float64
	integrator string
	precision  string
	profile    string
	goal       float64
	amplitude  float64
	period     float64
	stepAt     float64
	configFile string
	preset     string
	frameRate  int
	benchSize  int
	benchSteps int
	svgWidth   int
	svgHeight  int
	svgPhase   bool
	zetaMin    float64
	zetaMax    float64
	gridPoints int
	overshoot  float64
)

// main registers the springsim commands and runs the root command, exiting
// with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:          "springsim",
		Short:        "closed-form damped spring lab",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.SetPrefix("springsim: ")
			log.SetFlags(log.Ltime | log.Lmicroseconds)
			if verbose {
				log.SetOutput(os.Stderr)
			} else {
				log.SetOutput(io.Discard)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".springsim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log diagnostics to stderr")

	coeffsCmd := &cobra.Command{
		Use:   "coeffs",
		Short: "derive and print spring coefficients",
		RunE:  printCoefficients,
	}
	addSpringFlags(coeffsCmd)
	coeffsCmd.Flags().StringVar(&precision, "precision", "float64", "float32 or float64")

	demoCmd := &cobra.Command{
		Use:   "demo",
		Short: "step a stiff over-damped spring toward 100",
		RunE:  runDemo,
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run simulation and save it",
		RunE:  runSimulation,
	}
	addSpringFlags(runCmd)
	addRunFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot position and target of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write run states to stdout as csv",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "write run metadata and states to stdout as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "write a run plot to stdout as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 400, "image height")
	exportSVGCmd.Flags().BoolVar(&svgPhase, "phase", false, "plot velocity against position")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "search damping ratios for the fastest settle",
		RunE:  tuneSpring,
	}
	addSpringFlags(tuneCmd)
	addRunFlags(tuneCmd)
	tuneCmd.Flags().Float64Var(&zetaMin, "zeta-min", 0.1, "smallest damping ratio")
	tuneCmd.Flags().Float64Var(&zetaMax, "zeta-max", 2.0, "largest damping ratio")
	tuneCmd.Flags().IntVar(&gridPoints, "points", 20, "grid points")
	tuneCmd.Flags().Float64Var(&overshoot, "max-overshoot", 0.05, "reject runs overshooting more than this fraction")

	compareCmd := &cobra.Command{
		Use:   "compare [integrator...]",
		Short: "compare numerical integrators against the closed form",
		RunE:  compareIntegrators,
	}
	addSpringFlags(compareCmd)
	addRunFlags(compareCmd)

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark field stepping in float32 and float64",
		RunE:  benchField,
	}
	addSpringFlags(benchCmd)
	benchCmd.Flags().IntVar(&benchSize, "springs", 100000, "springs per field")
	benchCmd.Flags().IntVar(&benchSteps, "steps", 200, "steps per measurement")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets",
		RunE:  listPresets,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive spring in the terminal",
		RunE:  runLive,
	}
	addSpringFlags(liveCmd)
	addRunFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 60, "frames per second")

	rootCmd.AddCommand(coeffsCmd, demoCmd, runCmd, listCmd, plotCmd, exportCSVCmd,
		exportJSONCmd, exportSVGCmd, compareCmd, tuneCmd, analyzeCmd, benchCmd, presetsCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSpringFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&omega, "omega", 6.0, "angular frequency (rad/s)")
	cmd.Flags().Float64Var(&zeta, "zeta", 0.5, "damping ratio")
	cmd.Flags().Float64Var(&dt, "dt", 1.0/60, "timestep")
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&duration, "time", 5.0, "duration")
	cmd.Flags().Float64Var(&pos, "pos", 0.0, "initial position")
	cmd.Flags().Float64Var(&vel, "vel", 0.0, "initial velocity")
	registry := experiment.NewRegistry()
	cmd.Flags().StringVar(&integrator, "integrator", "analytic",
		"integrator ("+strings.Join(registry.ListIntegrators(), ", ")+")")
	cmd.Flags().StringVar(&profile, "profile", "constant",
		"target profile ("+strings.Join(registry.ListTargets(), ", ")+")")
	cmd.Flags().Float64Var(&goal, "target", 1.0, "target value (offset for sine and square)")
	cmd.Flags().Float64Var(&amplitude, "amplitude", 1.0, "target amplitude")
	cmd.Flags().Float64Var(&period, "period", 2.0, "target period")
	cmd.Flags().Float64Var(&stepAt, "at", 0.0, "step time")
	cmd.Flags().StringVar(&precision, "precision", "float64", "float32 or float64")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}
