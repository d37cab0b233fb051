// Package config loads timetrack settings from defaults, an optional YAML
// file, an optional .env file and TIMETRACK_* environment variables, in that
// order of increasing precedence. CLI flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/roach88/timetrack/internal/calendar"
)

// Environment variables read by Load.
const (
	EnvDataDir   = "TIMETRACK_DATA_DIR"
	EnvStoreName = "TIMETRACK_STORE"
	EnvLocale    = "TIMETRACK_LOCALE"
	EnvTimezone  = "TIMETRACK_TZ"
	EnvLogLevel  = "TIMETRACK_LOG_LEVEL"
)

// Config holds the settings of one timetrack installation.
type Config struct {
	// DataDir holds the store databases.
	DataDir string `yaml:"data_dir"`

	// StoreName names the store; the database file is <DataDir>/<StoreName>.db.
	StoreName string `yaml:"store_name"`

	// Locale is a BCP 47 tag deciding the first day of the week.
	Locale string `yaml:"locale"`

	// Timezone is an IANA zone name, or "Local".
	Timezone string `yaml:"timezone"`

	// LogLevel is a zerolog level name (debug, info, warn, error, disabled).
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in settings.
func Default() Config {
	dir := ".timetrack"
	if home, err := os.UserHomeDir(); err == nil {
		dir = filepath.Join(home, ".timetrack")
	}
	return Config{
		DataDir:   dir,
		StoreName: "timetrack",
		Locale:    "en-US",
		Timezone:  "Local",
		LogLevel:  "warn",
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty), the .env file at envFile (skipped when empty or missing)
// and the environment. The result is validated.
func Load(path, envFile string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if envFile != "" {
		// godotenv.Load never overrides variables already set
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}
	cfg.applyEnv(os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	for key, field := range map[string]*string{
		EnvDataDir:   &c.DataDir,
		EnvStoreName: &c.StoreName,
		EnvLocale:    &c.Locale,
		EnvTimezone:  &c.Timezone,
		EnvLogLevel:  &c.LogLevel,
	} {
		if v, ok := lookup(key); ok && v != "" {
			*field = v
		}
	}
}

// Validate rejects settings that cannot be used.
func (c Config) Validate() error {
	if c.StoreName == "" {
		return errors.New("config: store_name is required")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := calendar.WeekStartForLocale(c.Locale); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := c.Level(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// StorePath returns the database file of the configured store.
func (c Config) StorePath() string {
	return filepath.Join(c.DataDir, c.StoreName+".db")
}

// Location resolves Timezone. Empty and "Local" mean time.Local.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Calendar builds the calendar for Locale and Timezone.
func (c Config) Calendar() (*calendar.Calendar, error) {
	loc, err := c.Location()
	if err != nil {
		return nil, err
	}
	return calendar.ForLocale(c.Locale, loc)
}

// Level parses LogLevel. Empty means warn.
func (c Config) Level() (zerolog.Level, error) {
	if c.LogLevel == "" {
		return zerolog.WarnLevel, nil
	}
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}
