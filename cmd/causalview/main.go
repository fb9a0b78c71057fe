package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/npratt/causalview/internal/config"
	"github.com/npratt/causalview/internal/controller"
	"github.com/npratt/causalview/internal/graph"
	"github.com/npratt/causalview/internal/layout"
	"github.com/npratt/causalview/internal/metrics"
	"github.com/npratt/causalview/internal/render"
	"github.com/npratt/causalview/internal/shutdown"
	"github.com/npratt/causalview/internal/theme"
	"github.com/npratt/causalview/internal/tui"
)

var version = "dev"

// errNoTerminal is returned by view when stdout is not a terminal.
var errNoTerminal = errors.New("view needs a terminal; use inspect or layout for headless output")

// graphPath picks the data file: the positional argument, else the config.
func graphPath(cfg *config.Config, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.Graph.File
}

func main() {
	logLevel := &slog.LevelVar{}
	sessionID := newSessionID()
	logger := newLogger(os.Stderr, logLevel, sessionID)

	viper.SetEnvPrefix("CAUSALVIEW")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	// loadConfig applies --verbose, binds the command's override flags and
	// layers the config sources.
	loadConfig := func(cmd *cobra.Command) (*config.Config, error) {
		if err := config.BindFlags(viper.GetViper(), cmd.Flags()); err != nil {
			return nil, err
		}
		if viper.GetBool(FlagVerbose) {
			logLevel.Set(slog.LevelDebug)
			logger.Debug("verbose logging enabled")
		}
		cfg, err := config.LoadConfig(viper.GetViper())
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		return cfg, nil
	}

	rootCmd := &cobra.Command{
		Use:   "causalview",
		Short: "Interactive causal graph viewer",
		Long: `causalview draws a weighted causal graph as a force-directed layout in the
terminal. A threshold hides weak links, focusing a node keeps only its links
and highlights everything connected to it, and search highlights matching
node ids.`,
		SilenceUsage: true,
	}

	// Persistent flags available to all commands
	rootCmd.PersistentFlags().Bool(FlagVerbose, false, "Enable verbose (debug) logging")
	rootCmd.PersistentFlags().String(FlagConfig, "", "Config file path (default: .causalview/config.yaml)")
	rootCmd.PersistentFlags().String(FlagLogDir, ".", "Directory for the TUI debug log")

	// Bind all flags to viper
	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		_ = viper.BindPFlag(f.Name, f)
	})

	// Version command
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("causalview %s\n", version)
		},
	}

	// View command
	viewCmd := &cobra.Command{
		Use:   "view [file]",
		Short: "Open the interactive viewer",
		Long: `Open the interactive viewer on a graph data file (.json, .yaml, .yml, or
snappy-compressed .sz). Without a file argument the configured graph.file is
used.

Logs go to causalview-debug.log in --log-dir while the viewer runs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return errNoTerminal
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			// Redirect logging to a file before anything draws.
			tuiLog, err := SetupTUILogger(viper.GetString(FlagLogDir), logLevel, cfg.LogRotation, sessionID)
			if err != nil {
				return fmt.Errorf("set up log file: %w", err)
			}
			defer func() { _ = tuiLog.Close() }()
			log := tuiLog.Logger
			slog.SetDefault(log)

			path := graphPath(cfg, args)
			store, err := graph.LoadFile(path, log)
			if err != nil {
				return err
			}

			reg := metrics.NewRegistry()
			reg.RecordDropped(len(store.Diagnostics()))

			sim := layout.NewSimulation(cfg.Layout.Forces(), cfg.Layout.Seed)
			scene := render.NewScene(sim, render.WithMetrics(reg), render.WithLogger(log))

			themeOpts := []theme.Option{theme.WithLogger(log)}
			if cfg.Theme.Default != "" {
				t, err := theme.Parse(cfg.Theme.Default)
				if err != nil {
					return err
				}
				themeOpts = append(themeOpts, theme.WithDefault(t))
			}
			themes := theme.NewManager(&theme.FileStore{Path: cfg.Theme.PreferenceFile}, themeOpts...)

			ctrl := controller.New(cfg, store, scene, sim, themes, log, controller.WithMetrics(reg))
			if tr := ctrl.Init(); tr.Err != nil {
				return fmt.Errorf("initial view: %w", tr.Err)
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			metricsDone := make(chan struct{})
			go func() {
				defer close(metricsDone)
				if err := metrics.Serve(ctx, cfg.Metrics.Addr, reg, log); err != nil {
					log.Error("metrics endpoint failed", "error", err)
				}
			}()

			log.Info("causalview starting",
				"version", version,
				"file", path,
				"threshold", cfg.Graph.DefaultThreshold,
				"theme", ctrl.Session().Theme)

			app := tui.New(cfg, store, ctrl, scene, sim,
				tui.WithLogger(log),
				tui.WithOnQuit(func() { log.Info("quit requested") }),
			)
			runErr := app.Run(ctx)

			cancel()
			<-metricsDone
			return runErr
		},
	}
	viewCmd.Flags().Float64(FlagThreshold, 0, "Initial threshold (default: graph.default_threshold)")
	viewCmd.Flags().String(FlagMetricsAddr, "", "Serve prometheus metrics on this address (e.g. :9090)")
	viewCmd.Flags().Bool(FlagNoMouse, false, "Disable mouse zoom and drag")
	viewCmd.Flags().String(FlagTheme, "", "Theme when none is saved (light/dark)")

	// Inspect command
	inspectCmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Print the filtered graph without opening the viewer",
		Long: `Load a graph data file, apply a threshold and optional focus node, and print
the visible links, the focus node's cluster, and any links dropped at load.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			threshold := cfg.Graph.DefaultThreshold
			focus, _ := cmd.Flags().GetString(FlagFocus)

			path := graphPath(cfg, args)
			store, err := graph.LoadFile(path, logger)
			if err != nil {
				return err
			}

			report, err := buildReport(path, store, threshold, strings.TrimSpace(focus))
			if err != nil {
				return err
			}

			if asJSON, _ := cmd.Flags().GetBool(FlagJSON); asJSON {
				return writeReportJSON(cmd.OutOrStdout(), report)
			}
			writeReportText(cmd.OutOrStdout(), report)
			return nil
		},
	}
	inspectCmd.Flags().Float64(FlagThreshold, 0, "Threshold (default: graph.default_threshold)")
	inspectCmd.Flags().String(FlagFocus, "", "Focus node id")
	inspectCmd.Flags().Bool(FlagJSON, false, "Output the report as JSON")

	// Layout command
	layoutCmd := &cobra.Command{
		Use:   "layout [file]",
		Short: "Run the force layout headlessly and write node positions",
		Long: `Simulate the filtered graph until the layout settles and write the node
positions as JSON. SIGINT or SIGTERM stops the simulation early and still
writes the positions reached so far.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			threshold := cfg.Graph.DefaultThreshold
			focus, _ := cmd.Flags().GetString(FlagFocus)
			steps, _ := cmd.Flags().GetInt(FlagSteps)
			if steps <= 0 {
				steps = 10 * cfg.Layout.SettleSteps
			}

			path := graphPath(cfg, args)
			store, err := graph.LoadFile(path, logger)
			if err != nil {
				return err
			}

			var res *LayoutResult
			err = shutdown.RunWithGracefulShutdown(
				cmd.Context(),
				logger,
				5*time.Second,
				func(runCtx context.Context) error {
					var err error
					res, err = runLayout(runCtx, cfg, store, threshold, strings.TrimSpace(focus), steps)
					return err
				},
				nil,
			)
			if err != nil {
				return err
			}
			if res == nil {
				return errors.New("layout did not stop in time")
			}
			logger.Info("layout finished",
				"steps", res.Steps,
				"alpha", res.Alpha,
				"settled", res.Settled,
				"interrupted", res.Interrupted)

			out, _ := cmd.Flags().GetString(FlagOut)
			if out == "" || out == "-" {
				return writeLayoutJSON(cmd.OutOrStdout(), res)
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			if err := writeLayoutJSON(f, res); err != nil {
				_ = f.Close()
				return fmt.Errorf("write %s: %w", out, err)
			}
			return f.Close()
		},
	}
	layoutCmd.Flags().Float64(FlagThreshold, 0, "Threshold (default: graph.default_threshold)")
	layoutCmd.Flags().String(FlagFocus, "", "Focus node id")
	layoutCmd.Flags().String(FlagOut, "-", "Output file (- for stdout)")
	layoutCmd.Flags().Int(FlagSteps, 0, "Maximum simulation steps (default: 10x layout.settle_steps)")

	// Register all commands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(layoutCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}
