// ABOUTME: CLI command for starting MCP server.
// ABOUTME: Runs a fresh session behind a stdio MCP server for Claude integration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harperreed/workoutlog/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

MCP allows AI assistants like Claude to click the map, fill in the form, and
log workouts in a session. The server communicates via stdin/stdout; map and
list output goes to stderr.

CLAUDE DESKTOP CONFIGURATION:

  Add this to your Claude Desktop config (claude_desktop_config.json):

  {
    "mcpServers": {
      "workoutlog": {
        "command": "workoutlog",
        "args": ["mcp", "--at", "51.5074,-0.1278"]
      }
    }
  }

  On macOS, the config is at:
    ~/Library/Application Support/Claude/claude_desktop_config.json

AVAILABLE TOOLS:

  click_map        Click the map and open the form
  select_kind      Switch between running and cycling
  fill_form        Set form fields
  submit_workout   Log the workout at the clicked location
  log_workout      Click, fill, and submit in one step
  list_workouts    List logged workouts
  focus_workout    Move the map to a workout
  session_stats    Session counters

AVAILABLE RESOURCES:

  workoutlog://session    Map, form, and workout state
  workoutlog://workouts   Logged workout rows`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		// stdout carries MCP frames.
		sess, logger, err := newSession(cfg, os.Stderr)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		server, err := mcp.NewServer(sess, version)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		go func() {
			if err := sess.Run(ctx, func(err error) {
				if err != nil {
					logger.Warnw("map unavailable", "error", err)
				}
			}); err != nil && ctx.Err() == nil {
				logger.Errorw("session loop stopped", "error", err)
			}
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
