// ABOUTME: Root Cobra command for workoutlog CLI.
// ABOUTME: Loads configuration, wires a session, and runs the interactive prompt.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harperreed/workoutlog/internal/app"
	"github.com/harperreed/workoutlog/internal/config"
	"github.com/harperreed/workoutlog/internal/geo"
	"github.com/harperreed/workoutlog/internal/observability"
)

var (
	flagAt     string
	flagZoom   int
	flagConfig string
)

var rootCmd = &cobra.Command{
	Use:   "workoutlog",
	Short: "Log running and cycling workouts on a map",
	Long: `Workoutlog records running and cycling workouts at places you pick on a map.

HOW IT WORKS:

  On start the map is centered on your position (--at or the "position"
  config key). Without a position the map stays unavailable.

  Click the map, fill in the form, and submit. Each workout gets a marker
  with a popup and a row in the workout list.

QUICK START:

  $ workoutlog --at 51.5074,-0.1278
  > click 51.51 -0.10
  > distance 5.2
  > duration 24
  > cadence 178
  > submit
  > list

  Switch to cycling with "kind cycling"; the cadence field is replaced by
  elevation gain.

MCP INTEGRATION:

  Run 'workoutlog mcp' to drive a session from Claude Desktop or other
  MCP-compatible AI assistants.

DATA:

  Workouts live in memory for the length of the session. Use
  'export json|yaml|markdown' at the prompt to keep a copy.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		sess, logger, err := newSession(cfg, out)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return runInteractive(ctx, sess, cmd.InOrStdin(), out)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagAt, "at", "", "current position as lat,lng (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagZoom, "zoom", 0, "map zoom level (default 13)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default $XDG_CONFIG_HOME/workoutlog/config.json)")
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := flagConfig
	if path == "" {
		path = config.GetConfigPath()
	}
	cfg, err := config.LoadFile(config.ExpandPath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("at") {
		cfg.Position = flagAt
	}
	if cmd.Flags().Changed("zoom") {
		if flagZoom <= 0 {
			return nil, fmt.Errorf("invalid zoom %d: must be positive", flagZoom)
		}
		cfg.Zoom = flagZoom
	}
	if cfg.NoColor {
		color.NoColor = true
	}
	return cfg, nil
}

// newSession builds a session from configuration. Rendered output goes to out.
func newSession(cfg *config.Config, out io.Writer) (*app.Session, *zap.SugaredLogger, error) {
	logger, err := observability.NewLogger(cfg.GetLogLevel())
	if err != nil {
		return nil, nil, err
	}

	locator, err := geo.NewLocator(cfg.Position)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid position: %w", err)
	}

	delay, err := cfg.GetRestoreDelay()
	if err != nil {
		return nil, nil, err
	}

	sess, err := app.New(app.Options{
		Out:          out,
		Locator:      locator,
		Zoom:         cfg.GetZoom(),
		RestoreDelay: delay,
		Logger:       logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}
	return sess, logger, nil
}

// runInteractive starts the session loop, waits for geolocation, and reads
// commands from in until quit, EOF, or ctx is done.
func runInteractive(ctx context.Context, sess *app.Session, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ready := make(chan error, 1)
	loopErr := make(chan error, 1)
	go func() { loopErr <- sess.Run(ctx, func(err error) { ready <- err }) }()

	// A geolocation failure is alerted by the session; the prompt still runs.
	select {
	case <-ready:
	case err := <-loopErr:
		return err
	case <-ctx.Done():
		return nil
	}

	r := newREPL(sess, out)
	err := r.run(ctx, in)

	cancel()
	<-loopErr
	return err
}
