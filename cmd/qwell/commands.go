package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/qwell/internal/analysis"
	"github.com/san-kum/qwell/internal/config"
	"github.com/san-kum/qwell/internal/export"
	"github.com/san-kum/qwell/internal/physics"
	"github.com/san-kum/qwell/internal/scan"
	"github.com/san-kum/qwell/internal/solver"
	"github.com/san-kum/qwell/internal/storage"
	"github.com/san-kum/qwell/internal/viz"
)

// resolveConfig layers defaults, preset, config file and explicitly set
// flags, in that order. The returned name labels stored runs.
func resolveConfig(cmd *cobra.Command) (*config.Config, string, error) {
	cfg := config.DefaultConfig()
	name := ""

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
		name = preset
	}

	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("min") {
		cfg.Domain.Min = domainMin
	}
	if flags.Changed("max") {
		cfg.Domain.Max = domainMax
	}
	if flags.Changed("potential") {
		cfg.Potential = config.PotentialConfig{Name: potential}
	}
	if flags.Changed("tilt") {
		if cfg.Potential.Params == nil {
			cfg.Potential.Params = map[string]float64{}
		}
		cfg.Potential.Params["slope"] = tilt
	}
	if flags.Changed("slope") {
		cfg.Slope = slope
	}
	if flags.Changed("target") {
		cfg.Target = target
	}
	if flags.Changed("lo") {
		cfg.Bracket.Lo = bracketLo
	}
	if flags.Changed("hi") {
		cfg.Bracket.Hi = bracketHi
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("method") {
		cfg.Root.Method = method
	}
	if flags.Changed("atol") {
		cfg.Tolerances.Abs = absTol
	}
	if flags.Changed("rtol") {
		cfg.Tolerances.Rel = relTol
	}
	if flags.Changed("max-iter") {
		cfg.Root.MaxIter = maxIter
	}

	if runName != "" {
		name = runName
	}
	if name == "" {
		name = cfg.Potential.Name
	}
	if name == "" {
		name = physics.InfiniteWellName
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, name, nil
}

func runSolve(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}

	sc, err := cfg.Solver()
	if err != nil {
		return err
	}
	s, err := solver.New(sc, solver.WithLogger(logger))
	if err != nil {
		return err
	}

	state, err := s.Compute(cmd.Context(), cfg.Bracket)
	if err != nil {
		return err
	}

	fmt.Println(viz.Report(state, cfg.Domain.Width()))
	if !noPlot {
		fmt.Println(viz.Plot(state.Trajectory, fmt.Sprintf("ψ(x) normalized, E=%.10g", state.Energy)))
	}
	if phase {
		fmt.Println(viz.Phase(state.Trajectory, 60, 20))
	}

	if save {
		runID, err := saveRun(cfg, name, state)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	return state.Err()
}

func runLevels(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}
	sc, err := cfg.Solver()
	if err != nil {
		return err
	}

	var brs []solver.Bracket
	if len(brackets) > 0 {
		for _, raw := range brackets {
			b, err := parseBracket(raw)
			if err != nil {
				return err
			}
			brs = append(brs, b)
		}
	} else {
		s, err := solver.New(sc)
		if err != nil {
			return err
		}
		logger.Info("scanning", "from", scanLo, "to", scanHi, "cells", scanCells)
		brs, err = scan.Brackets(cmd.Context(), s.Shooter().Residual, scanLo, scanHi, scanCells)
		if err != nil {
			return err
		}
		if len(brs) == 0 {
			return fmt.Errorf("no residual sign change in [%g, %g]", scanLo, scanHi)
		}
	}

	states, err := solver.SolveAll(cmd.Context(), sc, brs, solver.WithLogger(logger))
	if err != nil {
		return err
	}

	width := cfg.Domain.Width()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tBRACKET\tENERGY\tNEAREST E_n\tREL.ERR\tNODES\tCALLS\tSTATUS")
	for i, st := range states {
		n, en := analysis.NearestLevel(st.Energy, width)
		status := "ok"
		if !st.Converged {
			status = "not converged"
		}
		fmt.Fprintf(w, "%d\t%s\t%.12f\t%d: %.12f\t%.2e\t%d\t%d\t%s\n",
			i+1,
			st.Bracket,
			st.Energy,
			n, en,
			analysis.RelativeError(st.Energy, width),
			analysis.Nodes(st.Trajectory.Psis()),
			st.FunctionCalls,
			status,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if save {
		for i, st := range states {
			runID, err := saveRun(cfg, fmt.Sprintf("%s_n%d", name, i+1), st)
			if err != nil {
				return err
			}
			fmt.Printf("run id: %s\n", runID)
		}
	}
	return nil
}

// parseBracket reads "lo:hi".
func parseBracket(raw string) (solver.Bracket, error) {
	loStr, hiStr, ok := strings.Cut(raw, ":")
	if !ok {
		return solver.Bracket{}, fmt.Errorf("bracket %q: want lo:hi", raw)
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(loStr), 64)
	if err != nil {
		return solver.Bracket{}, fmt.Errorf("bracket %q: %w", raw, err)
	}
	hi, err := strconv.ParseFloat(strings.TrimSpace(hiStr), 64)
	if err != nil {
		return solver.Bracket{}, fmt.Errorf("bracket %q: %w", raw, err)
	}
	return solver.Bracket{Lo: lo, Hi: hi}, nil
}

func saveRun(cfg *config.Config, name string, state *solver.Eigenstate) (string, error) {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return "", err
	}
	run := storage.NewRun(name, state)
	run.Potential = cfg.Potential.Name
	run.Params = cfg.Potential.Params
	run.Domain = cfg.Domain
	run.Integrator = cfg.Integrator
	run.Method = cfg.Root.Method
	return st.Save(run)
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
	fmt.Fprintln(w, "ID\tTIME\tPOTENTIAL\tBRACKET\tENERGY\tINTEG\tCONVERGED")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.10g\t%s\t%t\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Potential,
			run.Bracket,
			run.Energy,
			run.Integrator,
			run.Converged,
		)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	run, err := st.LoadFull(args[0])
	if err != nil {
		return err
	}
	if len(run.Trajectory) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", run.ID)
	fmt.Printf("potential: %s %v\n", run.Potential, run.Params)
	fmt.Printf("samples: %d\n\n", len(run.Trajectory))

	fmt.Println(viz.Report(run.Eigenstate(), run.Domain.Width()))
	fmt.Println(viz.Plot(run.Trajectory, fmt.Sprintf("ψ(x) normalized, E=%.10g", run.Energy)))
	if phase {
		fmt.Println(viz.Phase(run.Trajectory, 60, 20))
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	traj, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	return writeOutput(outFile, func(w io.Writer) error {
		return storage.WriteTrajectoryCSV(w, traj)
	})
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	run, err := st.LoadFull(args[0])
	if err != nil {
		return err
	}
	return writeOutput(outFile, func(w io.Writer) error {
		return storage.ExportJSON(w, run)
	})
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	traj, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	svg := export.WavefunctionSVG(traj.Xs(), analysis.Normalize(traj.Psis()), svgWidth, svgHeight, svgStroke)
	if svg == "" {
		return fmt.Errorf("run %s: not enough samples to draw", runID)
	}

	path := outFile
	if path == "" {
		path = runID + ".svg"
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tPOTENTIAL\tDOMAIN\tBRACKET")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		pot := p.Potential.Name
		if len(p.Potential.Params) > 0 {
			pot = fmt.Sprintf("%s %v", pot, p.Potential.Params)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", name, pot, p.Domain, p.Bracket)
	}
	return w.Flush()
}

// writeOutput sends write to stdout, or to path when one is given.
func writeOutput(path string, write func(io.Writer) error) error {
	if path == "" {
		return write(os.Stdout)
	}
	return storage.WriteFile(path, write)
}
