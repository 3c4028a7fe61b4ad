package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mnowicki/heatlab/internal/analysis"
	"github.com/mnowicki/heatlab/internal/config"
	"github.com/mnowicki/heatlab/internal/experiment"
	"github.com/mnowicki/heatlab/internal/optim"
	"github.com/mnowicki/heatlab/internal/server"
	"github.com/mnowicki/heatlab/internal/store"
	"github.com/mnowicki/heatlab/internal/telemetry"
	"github.com/mnowicki/heatlab/internal/tui"
	"github.com/mnowicki/heatlab/internal/viz"
)

var (
	dataDir    string
	configFile string
	logLevel   string

	hours    float64
	dx       float64
	dt       float64
	power    float64
	setpoint float64
	outdoor  float64
	startC   float64
	lx       float64

	noSave     bool
	mqttBroker string
	mqttRunID  string

	// placement sweep
	samples     int
	sweepSteps  int
	radWidth    float64
	radHeight   float64
	radY        float64
	sweepMargin float64

	addr string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "heatlab",
		Short: "room heating simulation lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".heatlab", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml or json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a heating scenario",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	addPhysicsFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not persist the run")
	runCmd.Flags().StringVar(&mqttBroker, "mqtt-broker", "", "publish snapshots to this MQTT broker")
	runCmd.Flags().StringVar(&mqttRunID, "mqtt-id", "", "MQTT run id (defaults to scenario name)")

	liveCmd := &cobra.Command{
		Use:   "live [scenario]",
		Short: "watch a scenario in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addPhysicsFlags(liveCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep radiator placement along the window wall",
		RunE:  runSweep,
	}
	addPhysicsFlags(sweepCmd)
	sweepCmd.Flags().IntVar(&samples, "samples", 10, "number of positions")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 0, "steps per position (default: full duration)")
	sweepCmd.Flags().Float64Var(&radWidth, "width", 0.2, "radiator width [m]")
	sweepCmd.Flags().Float64Var(&radHeight, "height", 1.0, "radiator height [m]")
	sweepCmd.Flags().Float64Var(&radY, "y", 1.5, "radiator y position [m]")
	sweepCmd.Flags().Float64Var(&sweepMargin, "margin", 0.1, "wall clearance [m]")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "stream simulations over websocket",
		RunE:  runServe,
	}
	addPhysicsFlags(serveCmd)
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list scenario presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			for _, name := range experiment.Names() {
				scn, _ := experiment.Get(name)
				fmt.Fprintf(w, "%s\t%s\n", name, scn.Description)
			}
			return w.Flush()
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSONRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "thermostat cycling analysis of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a stored run's series as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSVRun,
	}

	rootCmd.AddCommand(runCmd, liveCmd, sweepCmd, serveCmd, presetsCmd, listCmd, plotCmd, analyzeCmd, exportJSONCmd, exportCSVCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addPhysicsFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&hours, "hours", 6.0, "simulated duration [h]")
	cmd.Flags().Float64Var(&dx, "dx", 0.1, "grid spacing [m]")
	cmd.Flags().Float64Var(&dt, "dt", 0.0015, "timestep [s]")
	cmd.Flags().Float64Var(&power, "power", 2000, "radiator power [W]")
	cmd.Flags().Float64Var(&setpoint, "setpoint", 21, "thermostat setpoint [degC]")
	cmd.Flags().Float64Var(&outdoor, "outdoor", -10, "outdoor temperature [degC]")
	cmd.Flags().Float64Var(&startC, "start", 10, "initial indoor temperature [degC]")
	cmd.Flags().Float64Var(&lx, "lx", 4.0, "room width [m]")
}

// buildConfig resolves settings in precedence order: flags beat the config
// file, the config file beats built-in defaults. Environment overrides apply
// last so deployments can pin values.
func buildConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("hours") {
		cfg.Room.SimulationHours = hours
	}
	if cmd.Flags().Changed("dx") {
		cfg.Grid.Dx = dx
	}
	if cmd.Flags().Changed("dt") {
		cfg.Grid.Dt = dt
	}
	if cmd.Flags().Changed("power") {
		cfg.Room.PowerW = power
	}
	if cmd.Flags().Changed("setpoint") {
		cfg.Room.ThermostatC = setpoint
	}
	if cmd.Flags().Changed("outdoor") {
		cfg.Room.OutdoorC = outdoor
	}
	if cmd.Flags().Changed("start") {
		cfg.Room.StartC = startC
	}
	if cmd.Flags().Changed("lx") {
		cfg.Grid.Lx = lx
	}

	config.ApplyEnvOverrides(&cfg)

	hc := cfg.ToHeat()
	if !hc.Stable() {
		fmt.Fprintf(os.Stderr, "warning: dt=%.4g exceeds the stability limit %.4g, expect divergence\n",
			hc.Dt, hc.StabilityLimit())
	}
	return cfg, nil
}

func resolveScenario(args []string) (experiment.Scenario, error) {
	name := "under-window"
	if len(args) > 0 {
		name = args[0]
	}
	scn, ok := experiment.Get(name)
	if !ok {
		return experiment.Scenario{}, fmt.Errorf("unknown scenario: %s (available: %v)", name, experiment.Names())
	}
	return scn, nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	scn, err := resolveScenario(args)
	if err != nil {
		return err
	}

	exp, err := experiment.New(cfg, scn)
	if err != nil {
		return err
	}

	if mqttBroker != "" {
		runID := mqttRunID
		if runID == "" {
			runID = scn.Name
		}
		pub, err := telemetry.New(exp.Solver(), telemetry.Config{
			RunID:     runID,
			BrokerURL: mqttBroker,
		})
		if err != nil {
			return err
		}
		if err := pub.Connect(); err != nil {
			return err
		}
		defer pub.Close()
		exp.Solver().AddObserver(pub)
	}

	steps := cfg.Steps()
	fmt.Printf("running %s for %.1f simulated hours (%d steps)...\n", scn.Name, cfg.Room.SimulationHours, steps)
	start := time.Now()

	result := exp.Run(steps)
	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n", elapsed)

	if !noSave {
		st := store.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(scn.Name, cfg, result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "mean temperature\t%.2f °C\n", result.MeanTempC)
	if scn.RoomX0 != scn.RoomX1 {
		fmt.Fprintf(w, "room mean\t%.2f °C\n", result.RoomMeanC)
	}
	fmt.Fprintf(w, "comfort (std dev)\t%.3f\n", result.ComfortStdDev)
	fmt.Fprintf(w, "energy used\t%.3f kWh\n", result.EnergyKWh)
	fmt.Fprintf(w, "energy billed\t%.3f kWh\n", result.CostKWh)
	fmt.Fprintf(w, "radiator duty cycle\t%.1f %%\n", result.DutyCycle*100)
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(viz.SeriesPlot(result.Series, 80, 10, "mean temperature [°C]"))
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	scn, err := resolveScenario(args)
	if err != nil {
		return err
	}

	m, err := tui.NewModel(cfg, scn)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	steps := sweepSteps
	if steps <= 0 {
		steps = cfg.Steps()
	}

	sweep := optim.PlacementSweep{
		Samples: samples,
		Width:   radWidth,
		Height:  radHeight,
		Y:       radY,
		Margin:  sweepMargin,
	}

	fmt.Printf("sweeping %d radiator positions, %d steps each...\n\n", samples, steps)
	points, best, err := sweep.Run(cfg, steps)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "X [m]\tMEAN [°C]\tCOMFORT\tENERGY [kWh]")
	for _, pt := range points {
		marker := ""
		if pt == best {
			marker = "  <- best"
		}
		fmt.Fprintf(w, "%.2f\t%.2f\t%.3f\t%.3f%s\n", pt.X, pt.MeanTempC, pt.Comfort, pt.EnergyKWh, marker)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	comfort := make([]float64, len(points))
	for i, pt := range points {
		comfort[i] = pt.Comfort
	}
	fmt.Println()
	fmt.Println(viz.SeriesPlot(comfort, 60, 8, "comfort vs position (lower is better)"))
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	log := logrus.New()
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("bad log level: %w", err)
	}
	log.SetLevel(level)

	return server.New(addr, cfg, log).Serve()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tSTEPS\tMEAN [°C]\tENERGY [kWh]")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2f\t%.3f\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			run.MeanTempC,
			run.EnergyKWh,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(series) < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", len(series))
	fmt.Println(viz.SeriesPlot(series, 80, 10, "mean temperature [°C]"))
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(series) < 4 {
		return fmt.Errorf("no data to analyze")
	}

	fmt.Printf("cycling analysis: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n\n", meta.Scenario)

	period, ps := analysis.DominantPeriod(series)

	plotData := ps
	if len(plotData) > len(ps)/4 {
		plotData = ps[:len(ps)/4]
	}
	fmt.Println(viz.SeriesPlot(plotData, 80, 12, "power spectrum (mean temperature)"))
	fmt.Println()

	if period == 0 {
		fmt.Println("no dominant oscillation (room still warming up?)")
		return nil
	}

	// one series sample covers steps/len(series) solver steps
	sampleDt := meta.Dt * float64(meta.Steps) / float64(len(series))
	periodS := period * sampleDt
	fmt.Printf("dominant cycling period: %.1f s (%.2f min) of simulated time\n", periodS, periodS/60)
	return nil
}

func exportJSONRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	out := store.ExportData{
		Scenario:  meta.Scenario,
		Steps:     meta.Steps,
		MeanTempC: meta.MeanTempC,
		EnergyKWh: meta.EnergyKWh,
		CostKWh:   meta.CostKWh,
		Series:    series,
		Metrics:   meta.Metrics,
	}
	if v, ok := meta.Metrics["comfort_std"]; ok {
		out.Comfort = v
	}
	if v, ok := meta.Metrics["duty_cycle"]; ok {
		out.DutyCycle = v
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func exportCSVRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(series) == 0 {
		return fmt.Errorf("no data to export")
	}

	fmt.Println("sample,mean_c")
	for i, v := range series {
		fmt.Printf("%d,%.6f\n", i, v)
	}
	return nil
}
