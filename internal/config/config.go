package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/dshills/lintgate/internal/gitctx"
)

// Sentinel validation errors.
var (
	ErrInvalidJobs      = errors.New("jobs must be zero or positive")
	ErrInvalidTimeout   = errors.New("timeout must be zero or positive")
	ErrInvalidSize      = errors.New("invalid max report size")
	ErrInvalidColor     = errors.New("color must be auto, always or never")
	ErrInvalidLogLevel  = errors.New("invalid log level")
	ErrInvalidLogFormat = errors.New("log format must be text or json")
	ErrConflictingScope = errors.New("git_diff, staged and baseline are mutually exclusive")
	ErrUnknownKey       = errors.New("unknown config key")
)

// FileName is the config file looked up in the working directory.
const FileName = ".lintgate.yaml"

// EnvPrefix prefixes every environment variable.
const EnvPrefix = "LINTGATE"

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config is the effective lintgate configuration.
type Config struct {
	Format        string        `mapstructure:"format" yaml:"format"`
	Out           string        `mapstructure:"out" yaml:"out"`
	Paths         []string      `mapstructure:"paths" yaml:"paths"`
	Ignore        []string      `mapstructure:"ignore" yaml:"ignore"`
	Tools         []string      `mapstructure:"tools" yaml:"tools"`
	BinPath       string        `mapstructure:"bin_path" yaml:"bin_path"`
	Jobs          int           `mapstructure:"jobs" yaml:"jobs"`
	Timeout       time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxReportSize string        `mapstructure:"max_report_size" yaml:"max_report_size"`
	GitDiff       string        `mapstructure:"git_diff" yaml:"git_diff"`
	Staged        bool          `mapstructure:"staged" yaml:"staged"`
	Baseline      string        `mapstructure:"baseline" yaml:"baseline"`
	Color         string        `mapstructure:"color" yaml:"color"`
	MetricsFile   string        `mapstructure:"metrics_file" yaml:"metrics_file"`
	Log           LogConfig     `mapstructure:"log" yaml:"log"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// MaxReportBytes returns MaxReportSize in bytes. Zero means unlimited.
func (c *Config) MaxReportBytes() int64 {
	n, err := parseSize(c.MaxReportSize)
	if err != nil {
		return 0
	}
	return n
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Format:        "text",
		Paths:         []string{"."},
		Ignore:        []string{"vendor", "tests", "features", "spec"},
		Tools:         []string{"phpcs", "phpcpd", "phpmd"},
		Timeout:       10 * time.Minute,
		MaxReportSize: "64MiB",
		Color:         ColorAuto,
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// flagKeys maps CLI flag names to config keys.
var flagKeys = map[string]string{
	"format":          "format",
	"out":             "out",
	"ignore":          "ignore",
	"tools":           "tools",
	"bin-path":        "bin_path",
	"jobs":            "jobs",
	"timeout":         "timeout",
	"max-report-size": "max_report_size",
	"git-diff":        "git_diff",
	"staged":          "staged",
	"baseline":        "baseline",
	"color":           "color",
	"metrics-file":    "metrics_file",
	"log-level":       "log.level",
	"log-format":      "log.format",
}

// Keys returns every config key, sorted.
func Keys() []string {
	keys := []string{"paths"}
	for _, k := range flagKeys {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Load builds the effective config by merging defaults, the config file,
// LINTGATE_* environment variables and the changed flags in flags. An empty
// configPath looks for .lintgate.yaml in the working directory and tolerates
// its absence. flags may be nil.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := newViper()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(strings.TrimSuffix(FileName, ".yaml"))
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(err, &notFoundErr) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("format", d.Format)
	v.SetDefault("out", d.Out)
	v.SetDefault("paths", d.Paths)
	v.SetDefault("ignore", d.Ignore)
	v.SetDefault("tools", d.Tools)
	v.SetDefault("bin_path", d.BinPath)
	v.SetDefault("jobs", d.Jobs)
	v.SetDefault("timeout", d.Timeout.String())
	v.SetDefault("max_report_size", d.MaxReportSize)
	v.SetDefault("git_diff", d.GitDiff)
	v.SetDefault("staged", d.Staged)
	v.SetDefault("baseline", d.Baseline)
	v.SetDefault("color", d.Color)
	v.SetDefault("metrics_file", d.MetricsFile)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Paths = splitList(cfg.Paths)
	cfg.Ignore = splitList(cfg.Ignore)
	cfg.Tools = splitList(cfg.Tools)
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the values Load cannot type-check.
func Validate(cfg *Config) error {
	if cfg.Jobs < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidJobs, cfg.Jobs)
	}
	if cfg.Timeout < 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTimeout, cfg.Timeout)
	}
	if _, err := parseSize(cfg.MaxReportSize); err != nil {
		return err
	}
	switch cfg.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidColor, cfg.Color)
	}
	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, cfg.Log.Level)
	}
	switch strings.ToLower(cfg.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, cfg.Log.Format)
	}
	if cfg.GitDiff != "" {
		if _, err := gitctx.ParseRange(cfg.GitDiff); err != nil {
			return err
		}
	}
	scopes := 0
	for _, set := range []bool{cfg.GitDiff != "", cfg.Staged, cfg.Baseline != ""} {
		if set {
			scopes++
		}
	}
	if scopes > 1 {
		return ErrConflictingScope
	}
	return nil
}

func parseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrInvalidSize, s, err)
	}
	return int64(n), nil
}

// splitList flattens comma-separated entries and drops empty ones.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
