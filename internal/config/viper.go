package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// viperKeys defines the mapping between config keys and their Viper
// counterparts.
const (
	keySampleInterval     = "monitor.sample_interval"
	keyFlushInterval      = "monitor.flush_interval"
	keyIdleThreshold      = "monitor.idle_threshold"
	keyFocusMinDuration   = "focus.min_duration"
	keyFocusMinForeground = "focus.min_foreground_ratio"
	keyPrimaryApps        = "apps.primary"
	keySecondaryApps      = "apps.secondary"
	keyBrowserApps        = "apps.browsers"
	keyWorkDomains        = "domains.work"
	keyLeisureDomains     = "domains.leisure"
	keyNotifyEnabled      = "notifications.enabled"
	keySessionCmd         = "settings.session_cmd"
)

// WithViperConfig returns an Option that loads configuration from Viper,
// writing a default config file first if none exists yet.
func WithViperConfig(configPath string) Option {
	return func(c *Config) error {
		v := viper.New()

		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")

		setViperDefaults(v)

		err := v.ReadInConfig()
		if err == nil {
			return loadViperConfig(v, c)
		}

		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("reading config file failed: %w", err)
		}

		if err := v.WriteConfig(); err != nil {
			return fmt.Errorf("writing default config failed: %w", err)
		}

		return loadViperConfig(v, c)
	}
}

// setViperDefaults configures Viper with the stock categorization tables
// and monitoring cadence.
func setViperDefaults(v *viper.Viper) {
	v.SetDefault(keySampleInterval, "1s")
	v.SetDefault(keyFlushInterval, "60s")
	v.SetDefault(keyIdleThreshold, "5m")
	v.SetDefault(keyFocusMinDuration, "10m")
	v.SetDefault(keyFocusMinForeground, 0.8)
	v.SetDefault(keyPrimaryApps, map[string]string{
		"code.exe":   "VSCode",
		"cursor.exe": "Cursor",
		"chrome.exe": "Chrome",
	})
	v.SetDefault(keySecondaryApps, map[string]string{
		"telegram.exe": "Telegram",
		"spotify.exe":  "Spotify",
	})
	v.SetDefault(keyBrowserApps, map[string]string{
		"firefox.exe": "Firefox",
		"msedge.exe":  "Edge",
		"brave.exe":   "Brave",
	})
	v.SetDefault(keyWorkDomains, []string{
		"github.com",
		"stackoverflow.com",
		"dev.to",
		"medium.com",
		"docs.python.org",
		"developer.mozilla.org",
		"aws.amazon.com",
		"cloud.google.com",
		"vercel.com",
		"netlify.com",
		"railway.app",
		"render.com",
		"localhost",
		"127.0.0.1",
	})
	v.SetDefault(keyLeisureDomains, []string{
		"youtube.com",
		"netflix.com",
		"reddit.com",
		"twitter.com",
		"facebook.com",
		"instagram.com",
		"tiktok.com",
		"twitch.tv",
	})
	v.SetDefault(keyNotifyEnabled, true)
	v.SetDefault(keySessionCmd, "")
}

// loadViperConfig loads configuration from Viper into the Config struct.
func loadViperConfig(v *viper.Viper, c *Config) error {
	durations := map[string]*time.Duration{
		keySampleInterval:   &c.Monitor.SampleInterval,
		keyFlushInterval:    &c.Monitor.FlushInterval,
		keyIdleThreshold:    &c.Monitor.IdleThreshold,
		keyFocusMinDuration: &c.Focus.MinDuration,
	}

	for key, dst := range durations {
		dur, err := parseDuration(v.GetString(key))
		if err != nil {
			return fmt.Errorf("invalid duration for %s: %w", key, err)
		}

		*dst = dur
	}

	c.Focus.MinForegroundRatio = v.GetFloat64(keyFocusMinForeground)
	c.Apps.Primary = v.GetStringMapString(keyPrimaryApps)
	c.Apps.Secondary = v.GetStringMapString(keySecondaryApps)
	c.Apps.Browsers = v.GetStringMapString(keyBrowserApps)
	c.Domains.Work = v.GetStringSlice(keyWorkDomains)
	c.Domains.Leisure = v.GetStringSlice(keyLeisureDomains)
	c.Notifications.Enabled = v.GetBool(keyNotifyEnabled)
	c.Settings.SessionCmd = v.GetString(keySessionCmd)

	return nil
}

// parseDuration parses duration strings, treating bare numbers as
// seconds.
func parseDuration(s string) (time.Duration, error) {
	dur, err := time.ParseDuration(s)
	if err == nil {
		return dur, nil
	}

	secs, err := time.ParseDuration(s + "s")
	if err != nil {
		return 0, fmt.Errorf("invalid duration format: %s", s)
	}

	return secs, nil
}
