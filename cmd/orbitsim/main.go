package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/orbitsim/internal/body"
	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/metrics"
	"github.com/san-kum/orbitsim/internal/orbit"
	"github.com/san-kum/orbitsim/internal/storage"
	"github.com/san-kum/orbitsim/internal/viz"
)

var (
	dataDir    string
	logLevel   string
	configFile string
	preset     string

	seed        int64
	numBodies   int
	frames      int
	frameDelta  time.Duration
	sampleEvery int
	gravity     string
	centralMass float64
	warpIndex   int

	numRuns int

	posFlag string
	velFlag string

	theme       string
	trailLength int
	frameRate   int

	outFile string
	addr    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "orbitsim",
		Short: "central-body orbit simulator",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(logLevel)
		},
		RunE: runLive,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".orbitsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	addEngineFlags(rootCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and store it",
		RunE:  runSimulation,
	}
	addEngineFlags(runCmd)
	runCmd.Flags().IntVar(&frames, "frames", 3600, "frames to simulate")
	runCmd.Flags().DurationVar(&frameDelta, "delta", 16*time.Millisecond, "wall time per frame")
	runCmd.Flags().IntVar(&sampleEvery, "sample", 10, "record tracks every n frames")

	surveyCmd := &cobra.Command{
		Use:   "survey",
		Short: "run many seeds in parallel and compare outcomes",
		RunE:  runSurvey,
	}
	addEngineFlags(surveyCmd)
	surveyCmd.Flags().IntVar(&numRuns, "runs", 8, "number of runs")
	surveyCmd.Flags().IntVar(&frames, "frames", 600, "frames per run")
	surveyCmd.Flags().DurationVar(&frameDelta, "delta", 16*time.Millisecond, "wall time per frame")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot orbital distance per body",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run tracks to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and tracks to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	predictCmd := &cobra.Command{
		Use:   "predict",
		Short: "predict the orbit for a position and velocity",
		RunE:  predictOrbit,
	}
	predictCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	predictCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	predictCmd.Flags().StringVar(&posFlag, "pos", "180,0,0", "position x,y,z")
	predictCmd.Flags().StringVar(&velFlag, "vel", "0,0,52.7", "velocity x,y,z")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the simulation with a live terminal view",
		RunE:  runLive,
	}
	addEngineFlags(liveCmd)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "stream frames over websocket and export metrics",
		RunE:  runServe,
	}
	addEngineFlags(serveCmd)
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("presets:")
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write a config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}
	initCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	rootCmd.AddCommand(runCmd, surveyCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, predictCmd, liveCmd, serveCmd, presetsCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addEngineFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	f.IntVar(&numBodies, "bodies", 3, "bodies to spawn at start")
	f.StringVar(&gravity, "gravity", config.GravityCentral, "gravity model (central, nbody)")
	f.Float64Var(&centralMass, "central-mass", config.DefaultCentralMass, "central body mass")
	f.IntVar(&warpIndex, "warp", config.DefaultWarpIndex, "initial warp table index")
	f.StringVar(&theme, "theme", viz.ThemeDeepSpace.Name, "live view theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	f.IntVar(&trailLength, "trail", 60, "trail length in frames (live)")
	f.IntVar(&frameRate, "fps", 30, "frame rate (live, serve)")
}

func setupLogging(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("log level %q: %w", level, err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
	return nil
}

// loadConfig layers preset, config file and explicitly set flags, in that
// order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("gravity") {
		cfg.Gravity = gravity
	}
	if flags.Changed("central-mass") {
		cfg.CentralMass = centralMass
	}
	if flags.Changed("warp") {
		cfg.Warp.Index = warpIndex
	}
	if flags.Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newEngine(cmd *cobra.Command, opts ...dynamo.Option) (*dynamo.Engine, *config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	store, err := config.NewStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	opts = append([]dynamo.Option{dynamo.WithLogger(slog.Default())}, opts...)
	eng, err := dynamo.New(store, rand.New(rand.NewSource(cfg.Seed)), opts...)
	if err != nil {
		return nil, nil, err
	}
	eng.Seed(numBodies)
	return eng, cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	rec := storage.NewRecorder(sampleEvery)
	eng, cfg, err := newEngine(cmd,
		dynamo.WithObserver(rec),
		dynamo.WithMetric(metrics.NewEnergy()),
		dynamo.WithMetric(metrics.NewEnergyDrift()),
		dynamo.WithMetric(metrics.NewRadiusBand()),
		dynamo.WithMetric(metrics.NewRemovalsFor(body.Crash)),
		dynamo.WithMetric(metrics.NewRemovalsFor(body.Despawn)),
	)
	if err != nil {
		return err
	}
	spawned := eng.Registry().Len()

	fmt.Printf("running %d bodies for %d frames...\n", spawned, frames)
	start := time.Now()

	if err := eng.Run(cmd.Context(), frames, frameDelta, nil); err != nil {
		return err
	}
	elapsed := time.Since(start)

	name := preset
	if name == "" {
		name = "default"
	}
	meta := &storage.RunMetadata{
		Preset:     name,
		Seed:       cfg.Seed,
		Bodies:     spawned,
		Frames:     rec.Frames(),
		FrameDelta: frameDelta.Seconds(),
		SimTime:    eng.SimTime(),
		Gravity:    cfg.Gravity,
		Warp:       eng.WarpLabel(),
		Survivors:  eng.Registry().Len(),
		Metrics:    eng.Metrics(),
	}
	runID, err := st.Save(meta, rec)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("sim time: %.0fs\n", eng.SimTime())
	fmt.Printf("survivors: %d/%d\n", meta.Survivors, spawned)
	fmt.Println("\nmetrics:")
	for name, val := range meta.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}
	return nil
}

func runSurvey(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ens := dynamo.NewEnsemble(cfg, numRuns, cfg.Seed)
	ens.Bodies = numBodies
	ens.Frames = frames
	ens.Delta = frameDelta

	start := time.Now()
	stats, err := ens.Run(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Printf("%d runs in %v\n\n", len(stats), time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tSIM TIME\tSPAWNED\tSURVIVED\tCRASH\tDESPAWN\tDRIFT")
	for _, s := range stats {
		fmt.Fprintf(w, "%d\t%.0fs\t%d\t%d\t%d\t%d\t%.2e\n",
			s.Seed, s.SimTime, s.Spawned, s.Survivors,
			s.Removals[body.Crash], s.Removals[body.Despawn], s.EnergyDrift)
	}
	return w.Flush()
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
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tFRAMES\tSIM TIME\tGRAVITY\tSURVIVED")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.0fs\t%s\t%d/%d\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.SimTime,
			run.Gravity,
			run.Survivors,
			run.Bodies,
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
	tracks, err := st.LoadTracks(runID)
	if err != nil {
		return err
	}
	if len(tracks) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d\n\n", len(tracks))

	const maxPlots = 6
	var order []body.ID
	series := make(map[body.ID][]float64)
	names := make(map[body.ID]string)
	for _, t := range tracks {
		if _, ok := series[t.ID]; !ok {
			order = append(order, t.ID)
			names[t.ID] = t.Name
		}
		series[t.ID] = append(series[t.ID], r3.Norm(r3.Vec{X: t.Pos[0], Y: t.Pos[1], Z: t.Pos[2]}))
	}

	for i, id := range order {
		if i == maxPlots {
			fmt.Printf("(%d more bodies not shown)\n", len(order)-maxPlots)
			break
		}
		data := series[id]
		if len(data) < 2 {
			continue
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("%s distance", names[id])),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	if len(meta.Removals) > 0 {
		fmt.Println("removals:")
		for _, rm := range meta.Removals {
			fmt.Printf("  %s %s at %.1f\n", rm.Name, rm.Reason, rm.Distance)
		}
	}
	return nil
}

func output() (*os.File, func() error, error) {
	if outFile == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(outFile)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	tracks, err := st.LoadTracks(args[0])
	if err != nil {
		return err
	}
	out, closeFn, err := output()
	if err != nil {
		return err
	}
	if err := storage.WriteCSV(out, tracks); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	tracks, err := st.LoadTracks(args[0])
	if err != nil {
		return err
	}
	out, closeFn, err := output()
	if err != nil {
		return err
	}
	if err := storage.WriteJSON(out, meta, tracks); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func parseVec(s string) (r3.Vec, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return r3.Vec{}, fmt.Errorf("vector %q: want x,y,z", s)
	}
	var v [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return r3.Vec{}, fmt.Errorf("vector %q: %w", s, err)
		}
		v[i] = f
	}
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}, nil
}

func predictOrbit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	pos, err := parseVec(posFlag)
	if err != nil {
		return err
	}
	vel, err := parseVec(velFlag)
	if err != nil {
		return err
	}

	el := orbit.FromConfig(cfg).Predict(pos, vel)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "kind\t%s\n", el.Kind)
	fmt.Fprintf(w, "eccentricity\t%.6f\n", el.Eccentricity)
	if el.Kind == orbit.Bound {
		fmt.Fprintf(w, "semi-major axis\t%.3f\n", el.SemiMajorAxis)
		fmt.Fprintf(w, "periapsis\t%.3f\n", el.Periapsis)
		fmt.Fprintf(w, "apoapsis\t%.3f\n", el.Apoapsis)
		fmt.Fprintf(w, "period\t%.3fs\n", el.Period)
		fmt.Fprintf(w, "true anomaly\t%.4f rad\n", el.TrueAnomaly)
		fmt.Fprintf(w, "t-pe\t%.3fs\n", el.TimeToPeriapsis)
		fmt.Fprintf(w, "t-ap\t%.3fs\n", el.TimeToApoapsis)
	}
	points := 0
	for _, arc := range el.Arcs {
		points += len(arc)
	}
	fmt.Fprintf(w, "arcs\t%d (%d points)\n", len(el.Arcs), points)
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	// The live view owns the terminal; keep logs out of it unless asked.
	if !cmd.Flags().Changed("log-level") {
		slog.SetDefault(slog.New(slog.DiscardHandler))
	}
	eng, _, err := newEngine(cmd)
	if err != nil {
		return err
	}
	return viz.Run(eng, viz.Options{Theme: theme, TrailLength: trailLength, FPS: frameRate})
}

func ctxOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
