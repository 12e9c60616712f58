package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/san-kum/qwell/internal/integrators"
	"github.com/san-kum/qwell/internal/physics"
)

var (
	dataDir  string
	logLevel string

	configFile string
	preset     string

	domainMin  float64
	domainMax  float64
	potential  string
	tilt       float64
	slope      float64
	target     float64
	bracketLo  float64
	bracketHi  float64
	integrator string
	method     string
	absTol     float64
	relTol     float64
	maxIter    int

	save    bool
	runName string
	noPlot  bool
	phase   bool

	scanLo    float64
	scanHi    float64
	scanCells int
	brackets  []string

	outFile   string
	svgWidth  int
	svgHeight int
	svgStroke string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "qwell",
		Short:         "bound states of 1D quantum wells by the shooting method",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".qwell", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug|info|warn|error)")

	solveCmd := &cobra.Command{
		Use:   "solve",
		Short: "find the eigenstate inside one energy bracket",
		Args:  cobra.NoArgs,
		RunE:  runSolve,
	}
	addProblemFlags(solveCmd)
	solveCmd.Flags().Float64Var(&bracketLo, "lo", 0, "bracket lower energy")
	solveCmd.Flags().Float64Var(&bracketHi, "hi", 10, "bracket upper energy")
	solveCmd.Flags().BoolVar(&save, "save", false, "store the result under --data")
	solveCmd.Flags().StringVar(&runName, "name", "", "run name (defaults to the preset or potential)")
	solveCmd.Flags().BoolVar(&noPlot, "no-plot", false, "skip the wavefunction plot")
	solveCmd.Flags().BoolVar(&phase, "phase", false, "also draw the (ψ, ψ') phase portrait")

	levelsCmd := &cobra.Command{
		Use:   "levels",
		Short: "scan for brackets and solve every level concurrently",
		Args:  cobra.NoArgs,
		RunE:  runLevels,
	}
	addProblemFlags(levelsCmd)
	levelsCmd.Flags().Float64Var(&scanLo, "from", 0.5, "lowest energy to scan")
	levelsCmd.Flags().Float64Var(&scanHi, "to", 100, "highest energy to scan")
	levelsCmd.Flags().IntVar(&scanCells, "cells", 200, "number of scan cells")
	levelsCmd.Flags().StringArrayVar(&brackets, "bracket", nil, "explicit bracket lo:hi (repeatable, skips the scan)")
	levelsCmd.Flags().BoolVar(&save, "save", false, "store every level under --data")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:     "show [run_id]",
		Aliases: []string{"plot"},
		Short:   "report and plot a stored run",
		Args:    cobra.ExactArgs(1),
		RunE:    showRun,
	}
	showCmd.Flags().BoolVar(&phase, "phase", false, "also draw the (ψ, ψ') phase portrait")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a run's trajectory as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run with its trajectory as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render a run's wavefunction as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default <run_id>.svg)")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 400, "image height")
	exportSVGCmd.Flags().StringVar(&svgStroke, "stroke", "", "path color")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	rootCmd.AddCommand(solveCmd, levelsCmd, listCmd, showCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, presetsCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func addProblemFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Float64Var(&domainMin, "min", 0, "left wall position")
	cmd.Flags().Float64Var(&domainMax, "max", 1, "right wall position")
	cmd.Flags().StringVar(&potential, "potential", physics.InfiniteWellName, fmt.Sprintf("potential %v", physics.ListPotentials()))
	cmd.Flags().Float64Var(&tilt, "tilt", 0, "field strength of the linear potential")
	cmd.Flags().Float64Var(&slope, "slope", 1, "initial derivative ψ'(min)")
	cmd.Flags().Float64Var(&target, "target", 0, "required ψ(max)")
	cmd.Flags().StringVar(&integrator, "integrator", integrators.DormandPrinceName, fmt.Sprintf("integrator %v", integrators.List()))
	cmd.Flags().StringVar(&method, "method", "brent", "root finder (brent|bisect)")
	cmd.Flags().Float64Var(&absTol, "atol", 0, "integrator absolute tolerance (0 keeps the default)")
	cmd.Flags().Float64Var(&relTol, "rtol", 0, "integrator relative tolerance (0 keeps the default)")
	cmd.Flags().IntVar(&maxIter, "max-iter", 0, "root finder iteration budget (0 keeps the default)")
}

func newLogger() (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})), nil
}
