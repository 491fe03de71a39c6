// ABOUTME: CLI commands for viewing and changing workoutlog configuration.
// ABOUTME: Writes the XDG JSON config file read at startup.
package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/workoutlog/internal/config"
	"github.com/harperreed/workoutlog/internal/geo"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change configuration",
	Long: `Show or change workoutlog configuration.

KEYS:

  position            your position as lat,lng (empty disables the map)
  zoom                map zoom level (default 13)
  form_restore_delay  how long the form stays away after a submit (default 1s)
  log_level           debug, info, warn, or error (default warn)
  no_color            true to disable colored output

Environment variables WORKOUTLOG_<KEY> override the file.

EXAMPLES:

  workoutlog config show
  workoutlog config set position 51.5074,-0.1278
  workoutlog config set zoom 15`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration key",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := flagConfig
		if path == "" {
			path = config.GetConfigPath()
		}
		// Only the file's own keys are rewritten; env overrides stay out of it.
		cfg, err := config.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if err := setConfigKey(cfg, args[0], args[1]); err != nil {
			return err
		}
		if err := cfg.SaveFile(path); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Set %s = %s\n", args[0], args[1])
		return nil
	},
}

// setConfigKey validates value and stores it under key.
func setConfigKey(cfg *config.Config, key, value string) error {
	switch key {
	case "position":
		if value != "" {
			if _, err := geo.ParseCoordinates(value); err != nil {
				return err
			}
		}
		cfg.Position = value
	case "zoom":
		zoom, err := strconv.Atoi(value)
		if err != nil || zoom <= 0 {
			return fmt.Errorf("invalid zoom %q: must be a positive integer", value)
		}
		cfg.Zoom = zoom
	case "form_restore_delay":
		prev := cfg.FormRestoreDelay
		cfg.FormRestoreDelay = value
		if _, err := cfg.GetRestoreDelay(); err != nil {
			cfg.FormRestoreDelay = prev
			return err
		}
	case "log_level":
		switch value {
		case "debug", "info", "warn", "error":
		default:
			return fmt.Errorf("invalid log_level %q: want debug, info, warn, or error", value)
		}
		cfg.LogLevel = value
	case "no_color":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid no_color %q: want true or false", value)
		}
		cfg.NoColor = b
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
