// Package config resolves neoscope settings from defaults, an optional YAML
// file, NEOSCOPE_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "NEOSCOPE"

// Keys, shared by flags, environment variables and the config file.
const (
	KeyNEOFile     = "neofile"
	KeyCADFile     = "cadfile"
	KeyLogLevel    = "log-level"
	KeyLogFormat   = "log-format"
	KeyMetricsFile = "metrics-file"
)

// Config holds resolved settings.
type Config struct {
	NEOFile     string `mapstructure:"neofile"`
	CADFile     string `mapstructure:"cadfile"`
	LogLevel    string `mapstructure:"log-level"`
	LogFormat   string `mapstructure:"log-format"`
	MetricsFile string `mapstructure:"metrics-file"`
}

// Defaults returns the built-in settings.
func Defaults() Config {
	return Config{
		NEOFile:   "data/neos.csv",
		CADFile:   "data/cad.json",
		LogLevel:  "warn",
		LogFormat: "text",
	}
}

// RegisterFlags adds the persistent settings flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Defaults()
	fs.String(KeyNEOFile, d.NEOFile, "path to the NEO catalog CSV file")
	fs.String(KeyCADFile, d.CADFile, "path to the close approach JSON file")
	fs.String(KeyLogLevel, d.LogLevel, "log level: debug, info, warn or error")
	fs.String(KeyLogFormat, d.LogFormat, "log format: text or json")
	fs.String(KeyMetricsFile, d.MetricsFile, "write Prometheus metrics to this file on exit")
	fs.String("config", "", "path to a YAML config file")
}

// Load resolves settings. fs may be nil; only flags the user changed
// override lower layers.
func Load(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	d := Defaults()
	v.SetDefault(KeyNEOFile, d.NEOFile)
	v.SetDefault(KeyCADFile, d.CADFile)
	v.SetDefault(KeyLogLevel, d.LogLevel)
	v.SetDefault(KeyLogFormat, d.LogFormat)
	v.SetDefault(KeyMetricsFile, d.MetricsFile)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return Config{}, fmt.Errorf("binding flags: %w", err)
		}
		if f := fs.Lookup("config"); f != nil && f.Value.String() != "" {
			v.SetConfigFile(f.Value.String())
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("reading config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enumerated settings.
func (c Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid %s %q: must be text or json", KeyLogFormat, c.LogFormat)
	}
	if c.NEOFile == "" || c.CADFile == "" {
		return fmt.Errorf("%s and %s must not be empty", KeyNEOFile, KeyCADFile)
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", KeyLogLevel, c.LogLevel, err)
	}
	return level, nil
}

// NewLogger builds the process logger writing to w.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := c.Level()
	if err != nil {
		level = slog.LevelWarn
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
