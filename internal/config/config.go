// ABOUTME: workoutlog configuration: start position, map zoom, form timing, logging.
// ABOUTME: Read from an XDG JSON file through viper with WORKOUTLOG_* env overrides.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultZoom         = 13
	defaultRestoreDelay = time.Second
	defaultLogLevel     = "warn"
)

// Config stores workoutlog configuration.
type Config struct {
	// Position is the "lat,lng" reported as the current location.
	// Empty means geolocation is unavailable and the map stays disabled.
	Position string `json:"position,omitempty" mapstructure:"position"`

	// Zoom is the map zoom level used on load and when focusing a workout.
	Zoom int `json:"zoom,omitempty" mapstructure:"zoom"`

	// FormRestoreDelay is how long the form stays out of layout after a submit.
	FormRestoreDelay string `json:"form_restore_delay,omitempty" mapstructure:"form_restore_delay"`

	// LogLevel is the diagnostic log level: debug, info, warn, or error.
	LogLevel string `json:"log_level,omitempty" mapstructure:"log_level"`

	// NoColor disables colored terminal output.
	NoColor bool `json:"no_color,omitempty" mapstructure:"no_color"`
}

// GetZoom returns the configured zoom, defaulting to 13.
func (c *Config) GetZoom() int {
	if c.Zoom <= 0 {
		return defaultZoom
	}
	return c.Zoom
}

// GetRestoreDelay parses FormRestoreDelay, defaulting to one second.
func (c *Config) GetRestoreDelay() (time.Duration, error) {
	if c.FormRestoreDelay == "" {
		return defaultRestoreDelay, nil
	}
	d, err := time.ParseDuration(c.FormRestoreDelay)
	if err != nil {
		return 0, fmt.Errorf("invalid form_restore_delay %q: %w", c.FormRestoreDelay, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("form_restore_delay must be positive, got %s", d)
	}
	return d, nil
}

// GetLogLevel returns the configured log level, defaulting to warn.
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return defaultLogLevel
	}
	return strings.ToLower(c.LogLevel)
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "workoutlog", "config.json")
}

// Load reads config from the default path.
func Load() (*Config, error) {
	return LoadFile(GetConfigPath())
}

// LoadFile reads config from path. A missing file yields defaults.
// WORKOUTLOG_POSITION, WORKOUTLOG_ZOOM, etc. override file values.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(ExpandPath(path))
	v.SetConfigType("json")
	v.SetEnvPrefix("workoutlog")
	v.AutomaticEnv()

	v.SetDefault("position", "")
	v.SetDefault("zoom", defaultZoom)
	v.SetDefault("form_restore_delay", defaultRestoreDelay.String())
	v.SetDefault("log_level", defaultLogLevel)
	v.SetDefault("no_color", false)

	if err := v.ReadInConfig(); err != nil && !isNotExist(err) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// ReadFile decodes only what is stored at path, without defaults or
// environment overrides. A missing file yields an empty Config.
func ReadFile(path string) (*Config, error) {
	var cfg Config
	data, err := os.ReadFile(ExpandPath(path))
	if errors.Is(err, fs.ErrNotExist) {
		return &cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	return &cfg, nil
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

// Save writes config to the default path.
func (c *Config) Save() error {
	return c.SaveFile(GetConfigPath())
}

// SaveFile writes config as JSON to path.
func (c *Config) SaveFile(path string) error {
	path = ExpandPath(path)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
