// Package config is responsible for setting the program config from
// the config file and command-line arguments.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/pterm/pterm"
)

type (
	// Config holds all configuration settings.
	Config struct {
		Monitor       MonitorConfig
		Focus         FocusConfig
		Apps          AppsConfig
		Domains       DomainsConfig
		Notifications NotificationConfig
		Settings      SettingsConfig
	}

	// MonitorConfig holds the sampling cadence settings.
	MonitorConfig struct {
		// SampleInterval is the pause between foreground-window samples.
		SampleInterval time.Duration
		// FlushInterval is the length of a flush window and the minimum
		// granularity of a committed session.
		FlushInterval time.Duration
		// IdleThreshold is how long the watcher waits without detecting
		// a foreground process before switching to idle automatically.
		IdleThreshold time.Duration
	}

	// FocusConfig holds the thresholds a session must meet to count as
	// a focus session.
	FocusConfig struct {
		MinDuration        time.Duration
		MinForegroundRatio float64
	}

	// AppsConfig maps lowercased executable names to display names for
	// each application class.
	AppsConfig struct {
		Primary   map[string]string
		Secondary map[string]string
		Browsers  map[string]string
	}

	// DomainsConfig holds the substring lists used to categorize
	// browser window titles.
	DomainsConfig struct {
		Work    []string
		Leisure []string
	}

	// NotificationConfig holds desktop feedback settings.
	NotificationConfig struct {
		Enabled bool
	}

	// SettingsConfig holds miscellaneous settings.
	SettingsConfig struct {
		// SessionCmd is an optional command executed after each
		// committed session.
		SessionCmd string
	}

	// Option is a function that modifies Config.
	Option func(*Config) error
)

const Version = "v0.3.1"

var (
	configDir      = "vigil"
	configFileName = "config.yml"
	dbFileName     = "vigil.db"
	logFileName    = "vigil.log"
	dbFilePath     string
	configFilePath string
	logFilePath    string
)

func Dir() string {
	return configDir
}

func DBFilePath() string {
	return dbFilePath
}

func LogFilePath() string {
	return logFilePath
}

func ConfigFilePath() string {
	return configFilePath
}

func InitializePaths() {
	vigilEnv := strings.TrimSpace(os.Getenv("VIGIL_ENV"))
	if vigilEnv != "" {
		configFileName = fmt.Sprintf("config_%s.yml", vigilEnv)
		dbFileName = fmt.Sprintf("vigil_%s.db", vigilEnv)
		logFileName = fmt.Sprintf("vigil_%s.log", vigilEnv)
	}

	var err error

	relPath := filepath.Join(configDir, configFileName)

	configFilePath, err = xdg.ConfigFile(relPath)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	dataDir, err := xdg.DataFile(configDir)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	dbFilePath = filepath.Join(dataDir, dbFileName)

	logFilePath = filepath.Join(dataDir, "log", logFileName)
}

// New creates a new Config with default values and applies options.
func New(opts ...Option) (*Config, error) {
	cfg := &Config{}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("config option error: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	return cfg, nil
}
