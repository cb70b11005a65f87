package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/partsim/internal/analysis"
	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/engine"
	"github.com/san-kum/partsim/internal/metrics"
	"github.com/san-kum/partsim/internal/storage"
	"github.com/san-kum/partsim/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	integrator string
	frameRate  float64
	duration   float64
	workers    int
	axis       string
	particleID int
	outFile    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "partsim",
		Short: "particle physics simulation lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".partsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "run a scene and store the trajectory",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScene,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "scene file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use a preset scene")
	runCmd.Flags().StringVar(&integrator, "integrator", "", "override integrator")
	runCmd.Flags().Float64Var(&frameRate, "fps", 0, "override frame rate")
	runCmd.Flags().Float64Var(&duration, "time", 0, "override duration")
	runCmd.Flags().IntVar(&workers, "workers", 0, "override worker count")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&axis, "axis", "y", "coordinate to plot (x, y, z)")
	plotCmd.Flags().IntVar(&particleID, "particle", 0, "particle index")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [scene]",
		Short: "run a scene and export the full trajectory as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVar(&configFile, "config", "", "scene file path (yaml)")
	exportJSONCmd.Flags().StringVar(&preset, "preset", "", "use a preset scene")
	exportJSONCmd.Flags().StringVar(&outFile, "out", "", "output path (default stdout)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a stored trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&axis, "axis", "y", "coordinate to analyze (x, y, z)")
	analyzeCmd.Flags().IntVar(&particleID, "particle", 0, "particle index")

	benchCmd := &cobra.Command{
		Use:   "bench [scene]",
		Short: "benchmark a scene across integrators and frame rates",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchScene,
	}
	benchCmd.Flags().StringVar(&preset, "preset", "", "use a preset scene")

	liveCmd := &cobra.Command{
		Use:   "live [scene]",
		Short: "run a scene with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&configFile, "config", "", "scene file path (yaml)")
	liveCmd.Flags().StringVar(&preset, "preset", "", "use a preset scene")
	liveCmd.Flags().Float64Var(&frameRate, "fps", 0, "override frame rate")
	liveCmd.Flags().Float64Var(&duration, "time", 0, "override duration")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset scenes",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := config.ListPresets()
			sort.Strings(names)
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, exportJSONCmd, analyzeCmd, benchCmd, liveCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveScene picks the scene config by, in priority order, --config,
// --preset, then the positional name as a preset.
func resolveScene(args []string) (string, *config.Config, error) {
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return "", nil, fmt.Errorf("failed to load config: %w", err)
		}
		return configFile, cfg, nil
	}

	name := preset
	if name == "" && len(args) > 0 {
		name = args[0]
	}
	if name == "" {
		return "", nil, fmt.Errorf("no scene given: pass a preset name or --config")
	}

	cfg := config.GetPreset(name)
	if cfg == nil {
		return "", nil, fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
	}

	// Copy so flag overrides never touch the preset table.
	copied := *cfg
	return name, &copied, nil
}

func applyOverrides(cfg *config.Config) {
	if integrator != "" {
		cfg.Integrator = integrator
	}
	if frameRate > 0 {
		cfg.FrameRate = frameRate
	}
	if duration > 0 {
		cfg.Duration = duration
	}
	if workers > 0 {
		cfg.Workers = workers
	}
}

func runScene(cmd *cobra.Command, args []string) error {
	scene, cfg, err := resolveScene(args)
	if err != nil {
		return err
	}
	applyOverrides(cfg)

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	w, err := cfg.Build()
	if err != nil {
		return err
	}

	w.AddMetric(metrics.NewKineticEnergy())
	w.AddMetric(metrics.NewMaxSpeed())

	fmt.Printf("running %s...\n", scene)
	start := time.Now()

	result, err := w.Run(context.Background(), cfg.EngineConfig())
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(scene, cfg.Integrator, cfg.EngineConfig(), result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d\n", result.FramesTaken)
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	return nil
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
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tDURATION\tFPS\tINTEG\tPARTICLES")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.0f\t%s\t%d\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.FrameRate,
			run.Integrator,
			run.Particles,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	frames, _, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	fmt.Printf("samples: %d\n\n", len(frames))

	result := &engine.Result{Positions: frames, FramesTaken: len(frames) - 1}
	chart := viz.PlotTrajectory(result, particleID, viz.ParseAxis(axis), 10)
	if chart == "" {
		return fmt.Errorf("particle %d has no data on axis %s", particleID, axis)
	}
	fmt.Println(chart)

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	scene, cfg, err := resolveScene(args)
	if err != nil {
		return err
	}

	w, err := cfg.Build()
	if err != nil {
		return err
	}

	result, err := w.Run(context.Background(), cfg.EngineConfig())
	if err != nil {
		return err
	}

	return storage.ExportJSON(outFile, scene, cfg.Integrator, cfg.EngineConfig(), result)
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	frames, _, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("scene: %s\n\n", meta.Scene)

	result := &engine.Result{Positions: frames}
	chart := viz.PlotSpectrum(result, particleID, viz.ParseAxis(axis), 15)
	if chart == "" {
		return fmt.Errorf("trajectory too short for analysis")
	}
	fmt.Println(chart)
	fmt.Println()

	series := analysis.Component(frames, particleID, viz.ParseAxis(axis))
	freq := analysis.DominantFrequency(series, meta.FrameRate)
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}

	return nil
}

func benchScene(cmd *cobra.Command, args []string) error {
	scene, cfg, err := resolveScene(args)
	if err != nil {
		return err
	}

	integrators := []string{"euler", "rk4"}
	frameRates := []float64{30, 60, 120}

	fmt.Printf("benchmarking %s\n\n", scene)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEG\tFPS\tFRAMES\tTIME\tFRAMES/SEC")

	for _, integName := range integrators {
		for _, fps := range frameRates {
			bench := *cfg
			bench.Integrator = integName
			bench.FrameRate = fps

			world, err := bench.Build()
			if err != nil {
				return err
			}

			start := time.Now()
			result, err := world.Run(context.Background(), bench.EngineConfig())
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			fmt.Fprintf(w, "%s\t%.0f\t%d\t%v\t%.0f\n",
				integName, fps, result.FramesTaken, elapsed,
				float64(result.FramesTaken)/elapsed.Seconds())
		}
	}

	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	scene, cfg, err := resolveScene(args)
	if err != nil {
		return err
	}
	applyOverrides(cfg)

	world, err := cfg.Build()
	if err != nil {
		return err
	}

	m := viz.NewModel(world, cfg.EngineConfig(), scene)
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
