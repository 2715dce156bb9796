package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Config represents the application configuration
type Config struct {
	Strava  StravaConfig  `json:"strava"`
	Athlete AthleteConfig `json:"athlete"`
	Plan    PlanConfig    `json:"plan"`
	Log     LogConfig     `json:"log"`
	Daemon  DaemonConfig  `json:"daemon"`
}

// StravaConfig holds Strava API credentials
type StravaConfig struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// AthleteConfig holds athlete-specific settings
type AthleteConfig struct {
	ManualFTP int `json:"manual_ftp"` // watts; 0 means estimate from rides
}

// PlanConfig holds the fallbacks used when the athlete has no weekly plan
type PlanConfig struct {
	DefaultSessions int `json:"default_sessions"`
	DefaultMinutes  int `json:"default_minutes"`
	DefaultStress   int `json:"default_stress"`
	LookbackDays    int `json:"lookback_days"`
}

// LogConfig controls logrus output
type LogConfig struct {
	Level    string `json:"level"`
	File     string `json:"file"`
	JSON     bool   `json:"json"`
	ToStdout bool   `json:"to_stdout"`
}

// DaemonConfig controls background sync mode
type DaemonConfig struct {
	SyncSchedule string `json:"sync_schedule"`
	MetricsAddr  string `json:"metrics_addr"`
}

// ErrNoConfig is returned when the config file doesn't exist
var ErrNoConfig = errors.New("config file not found")

// Environment variables that override file values
const (
	EnvHome         = "RIDECOACH_HOME"
	EnvClientID     = "STRAVA_CLIENT_ID"
	EnvClientSecret = "STRAVA_CLIENT_SECRET"
	EnvLogLevel     = "RIDECOACH_LOG_LEVEL"
)

const (
	placeholderClientID     = "YOUR_CLIENT_ID"
	placeholderClientSecret = "YOUR_CLIENT_SECRET"
)

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Plan: PlanConfig{
			DefaultSessions: 4,
			DefaultMinutes:  360,
			DefaultStress:   300,
			LookbackDays:    90,
		},
		Log: LogConfig{
			Level: "info",
		},
		Daemon: DaemonConfig{
			SyncSchedule: "@every 1h",
			MetricsAddr:  ":9464",
		},
	}
}

// Load reads the configuration from the config directory
func Load() (*Config, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return nil, err
	}
	return LoadFrom(dir)
}

// LoadFrom reads config.json from dir, applies defaults, then applies
// overrides from dir/.env and the process environment.
func LoadFrom(dir string) (*Config, error) {
	data, err := os.ReadFile(filepath.Join(dir, "config.json"))
	if os.IsNotExist(err) {
		return nil, ErrNoConfig
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	cfg.applyDefaults()

	if cfg.Log.File == "" {
		cfg.Log.File = filepath.Join(dir, "ridecoach.log")
	}

	// Real environment variables win over the .env file.
	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	cfg.applyEnv()

	return &cfg, nil
}

// applyDefaults fills zero values left by a sparse config file
func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.Plan.DefaultSessions == 0 {
		c.Plan.DefaultSessions = d.Plan.DefaultSessions
	}
	if c.Plan.DefaultMinutes == 0 {
		c.Plan.DefaultMinutes = d.Plan.DefaultMinutes
	}
	if c.Plan.DefaultStress == 0 {
		c.Plan.DefaultStress = d.Plan.DefaultStress
	}
	if c.Plan.LookbackDays == 0 {
		c.Plan.LookbackDays = d.Plan.LookbackDays
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Daemon.MetricsAddr == "" {
		c.Daemon.MetricsAddr = d.Daemon.MetricsAddr
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvClientID); v != "" {
		c.Strava.ClientID = v
	}
	if v := os.Getenv(EnvClientSecret); v != "" {
		c.Strava.ClientSecret = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
}

// Save writes the configuration to dir/config.json
func Save(dir string, cfg *Config) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "config.json"), data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// CreateExample writes an example config file to dir if none exists.
// It returns the path of the config file.
func CreateExample(dir string) (string, error) {
	path := filepath.Join(dir, "config.json")
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	example := DefaultConfig()
	example.Strava = StravaConfig{
		ClientID:     placeholderClientID,
		ClientSecret: placeholderClientSecret,
	}
	return path, Save(dir, &example)
}

// Validate checks if the config has required fields
func (c *Config) Validate() error {
	if c.Strava.ClientID == "" || c.Strava.ClientID == placeholderClientID {
		return errors.New("strava.client_id is required - get it from https://www.strava.com/settings/api")
	}
	if c.Strava.ClientSecret == "" || c.Strava.ClientSecret == placeholderClientSecret {
		return errors.New("strava.client_secret is required - get it from https://www.strava.com/settings/api")
	}
	if c.Athlete.ManualFTP < 0 {
		return fmt.Errorf("athlete.manual_ftp must not be negative, got %d", c.Athlete.ManualFTP)
	}
	if c.Plan.DefaultSessions <= 0 {
		return fmt.Errorf("plan.default_sessions must be positive, got %d", c.Plan.DefaultSessions)
	}
	if _, err := logrus.ParseLevel(strings.ToLower(c.Log.Level)); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if strings.TrimSpace(c.Daemon.SyncSchedule) == "" {
		return errors.New("daemon.sync_schedule must not be empty")
	}
	if _, err := cron.ParseStandard(c.Daemon.SyncSchedule); err != nil {
		return fmt.Errorf("daemon.sync_schedule: %w", err)
	}
	return nil
}

// GetConfigDir returns the path to the config directory.
// RIDECOACH_HOME overrides the default ~/.ridecoach.
func GetConfigDir() (string, error) {
	if dir := os.Getenv(EnvHome); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".ridecoach"), nil
}
