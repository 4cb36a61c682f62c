package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/mclab/internal/config"
	"github.com/san-kum/mclab/internal/mc"
	"github.com/san-kum/mclab/internal/metrics"
	"github.com/san-kum/mclab/internal/storage"
	"github.com/san-kum/mclab/internal/viz"
)

var (
	dataDir      string
	particles    int
	density      float64
	epsilon      float64
	sigma        float64
	cutoff       float64
	boltzmann    float64
	temperature  float64
	maxDisp      float64
	seed         int64
	steps        int64
	sampleEvery  int64
	warmup       int64
	configFile   string
	preset       string
	movesPerTick int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mclab",
		Short: "2d lennard-jones metropolis monte carlo lab",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default to the live view when no command is given.
			return runLive(cmd, args)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".mclab", "data directory")

	addSystemFlags := func(cmd *cobra.Command) {
		cmd.Flags().IntVar(&particles, "particles", config.DefaultParticles, "number of particles")
		cmd.Flags().Float64Var(&density, "density", config.DefaultDensity, "number density")
		cmd.Flags().Float64Var(&epsilon, "epsilon", config.DefaultEpsilon, "lj epsilon")
		cmd.Flags().Float64Var(&sigma, "sigma", config.DefaultSigma, "lj sigma")
		cmd.Flags().Float64Var(&cutoff, "cutoff", config.DefaultCutoff, "cutoff (multiple of sigma)")
		cmd.Flags().Float64Var(&boltzmann, "kb", config.DefaultBoltzmann, "boltzmann constant")
		cmd.Flags().Float64Var(&temperature, "temp", config.DefaultTemperature, "target temperature")
		cmd.Flags().Float64Var(&maxDisp, "max-disp", config.DefaultMaxDisp, "maximum trial displacement")
		cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
		cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
		cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a sampling batch and store the trace",
		RunE:  runSampling,
	}
	addSystemFlags(runCmd)
	runCmd.Flags().Int64Var(&steps, "steps", config.DefaultSteps, "number of trial moves")
	runCmd.Flags().Int64Var(&sampleEvery, "sample-every", config.DefaultSampleEvery, "trace sampling interval")
	runCmd.Flags().Int64Var(&warmup, "warmup", config.DefaultWarmup, "steps discarded by tail metrics")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive live view",
		RunE:  runLive,
	}
	addSystemFlags(liveCmd)
	liveCmd.Flags().IntVar(&movesPerTick, "moves-per-tick", 64, "trial moves per frame")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run's energy trace",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run trace to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Printf("%-10s N=%d rho=%.2f T=%.2f\n", name, cfg.Particles, cfg.Density, cfg.Temperature)
			}
			return nil
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark sampling throughput",
		RunE:  benchSampling,
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, presetsCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// resolveConfig layers the configuration sources: defaults, then preset,
// then the config file, then explicitly set CLI flags.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		*cfg = *p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("particles") {
		cfg.Particles = particles
	}
	if flags.Changed("density") {
		cfg.Density = density
	}
	if flags.Changed("epsilon") {
		cfg.Epsilon = epsilon
	}
	if flags.Changed("sigma") {
		cfg.Sigma = sigma
	}
	if flags.Changed("cutoff") {
		cfg.Cutoff = cutoff
	}
	if flags.Changed("kb") {
		cfg.Boltzmann = boltzmann
	}
	if flags.Changed("temp") {
		cfg.Temperature = temperature
	}
	if flags.Changed("max-disp") {
		cfg.MaxDisplacement = maxDisp
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("sample-every") {
		cfg.SampleEvery = sampleEvery
	}
	if flags.Changed("warmup") {
		cfg.Warmup = warmup
	}
	if cfg.Seed == 0 || flags.Changed("seed") {
		cfg.Seed = seed
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runSampling(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	sampler, err := mc.New(cfg.Params(), rand.New(rand.NewSource(cfg.Seed)))
	if err != nil {
		return err
	}

	ms := []metrics.Metric{
		metrics.NewAcceptance(),
		metrics.NewMeanEnergy(cfg.Warmup),
		metrics.NewHeatCapacity(cfg.Warmup, cfg.Boltzmann, cfg.Temperature),
	}

	fmt.Printf("sampling %d particles at rho=%.3f T=%.3f...\n", cfg.Particles, cfg.Density, cfg.Temperature)
	start := time.Now()

	ctx := context.Background()
	samples := make([]storage.Sample, 0, cfg.Steps/cfg.SampleEvery+1)
	for done := int64(0); done < cfg.Steps; {
		chunk := cfg.SampleEvery
		if done+chunk > cfg.Steps {
			chunk = cfg.Steps - done
		}
		if err := sampler.Run(ctx, chunk); err != nil {
			return err
		}
		done += chunk

		snap := sampler.Snapshot()
		for _, m := range ms {
			m.Observe(snap, done)
		}
		samples = append(samples, storage.Sample{
			Step:       done,
			Energy:     snap.PotentialEnergy,
			EnergyPerN: snap.EnergyPerParticle(),
			Acceptance: snap.AcceptanceRatio(),
		})
	}

	elapsed := time.Since(start)

	vals := make(map[string]float64, len(ms))
	for _, m := range ms {
		vals[m.Name()] = m.Value()
	}

	runID, err := st.Save(storage.RunMetadata{
		Particles:   cfg.Particles,
		Density:     cfg.Density,
		Temperature: cfg.Temperature,
		Seed:        cfg.Seed,
		Steps:       cfg.Steps,
		Metrics:     vals,
	}, samples)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v (%.0f moves/sec)\n", elapsed, float64(cfg.Steps)/elapsed.Seconds())
	fmt.Printf("run id: %s\n", runID)
	fmt.Println("\nmetrics:")
	for name, val := range vals {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	sampler, err := mc.New(cfg.Params(), rand.New(rand.NewSource(cfg.Seed)))
	if err != nil {
		return err
	}

	if movesPerTick < 1 {
		movesPerTick = 64
	}
	m := viz.NewModel(sampler, movesPerTick)

	p := tea.NewProgram(m)
	final, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(viz.Model); ok && fm.Err() != nil {
		return fm.Err()
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
	fmt.Fprintln(w, "ID\tTIME\tN\tDENSITY\tTEMP\tSTEPS\tSEED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.3f\t%.3f\t%d\t%d\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Particles,
			run.Density,
			run.Temperature,
			run.Steps,
			run.Seed,
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

	trace, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}
	if len(trace) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("N=%d rho=%.3f T=%.3f\n", meta.Particles, meta.Density, meta.Temperature)
	fmt.Printf("samples: %d\n\n", len(trace))

	energies := make([]float64, len(trace))
	acceptances := make([]float64, len(trace))
	for i, s := range trace {
		energies[i] = s.EnergyPerN
		acceptances[i] = s.Acceptance
	}

	fmt.Println(asciigraph.Plot(energies,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("potential energy per particle"),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(acceptances,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("acceptance ratio"),
	))

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	trace, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}

	return storage.ExportJSON(os.Stdout, meta, trace)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	trace, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}
	if len(trace) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write([]string{"step", "energy", "energy_per_particle", "acceptance"}); err != nil {
		return err
	}
	for _, s := range trace {
		row := []string{
			strconv.FormatInt(s.Step, 10),
			strconv.FormatFloat(s.Energy, 'f', 6, 64),
			strconv.FormatFloat(s.EnergyPerN, 'f', 6, 64),
			strconv.FormatFloat(s.Acceptance, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func benchSampling(cmd *cobra.Command, args []string) error {
	sizes := []int{36, 100, 400}
	moveCounts := []int64{10000, 50000}

	fmt.Println("benchmarking metropolis sampling")
	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "N\tMOVES\tTIME\tMOVES/SEC")

	for _, n := range sizes {
		for _, moves := range moveCounts {
			p := mc.DefaultParams()
			p.N = n

			sampler, err := mc.New(p, rand.New(rand.NewSource(42)))
			if err != nil {
				return err
			}

			start := time.Now()
			if err := sampler.Run(context.Background(), moves); err != nil {
				return err
			}
			elapsed := time.Since(start)

			fmt.Fprintf(w, "%d\t%d\t%v\t%.0f\n",
				n, moves, elapsed, float64(moves)/elapsed.Seconds())
		}
	}

	return w.Flush()
}
