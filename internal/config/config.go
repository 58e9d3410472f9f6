package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config is the resolved statebind configuration.
type Config struct {
	// Title is shown in the terminal header line.
	Title string `toml:"title" yaml:"title" env:"STATEBIND_TITLE"`

	// State seeds the store's initial state.
	State StateConfig `toml:"state" yaml:"state"`

	// ReducerScript is an optional Lua reducer replacing the built-in one.
	ReducerScript string `toml:"reducer_script" yaml:"reducer_script" env:"STATEBIND_REDUCER_SCRIPT"`

	// Watch reloads the config file on change and resets the state.
	Watch bool `toml:"watch" yaml:"watch" env:"STATEBIND_WATCH"`

	// Log configures structured logging.
	Log LogConfig `toml:"log" yaml:"log"`
}

// StateConfig holds the initial values of the demo state.
type StateConfig struct {
	Text       string `toml:"text" yaml:"text" env:"STATEBIND_TEXT"`
	BottomText string `toml:"bottom_text" yaml:"bottom_text" env:"STATEBIND_BOTTOM_TEXT"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `toml:"level" yaml:"level" env:"STATEBIND_LOG_LEVEL"`
	Format string `toml:"format" yaml:"format" env:"STATEBIND_LOG_FORMAT"`
	File   string `toml:"file" yaml:"file" env:"STATEBIND_LOG_FILE"`
}

// Valid log settings.
var (
	LogLevels  = []string{"debug", "info", "warn", "error"}
	LogFormats = []string{"text", "json"}
)

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		Title: "statebind",
		State: StateConfig{
			Text:       "hello world",
			BottomText: "click bottom",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load resolves defaults, the file at path (if path is not empty) and the
// environment, then validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv applies STATEBIND_* environment overrides to target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// decodeFile decodes a TOML or YAML file on top of cfg.
func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return fmt.Errorf("reading config file %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			perr := &ParseError{Path: path, Err: err}
			var derr *toml.DecodeError
			if errors.As(err, &derr) {
				perr.Line, perr.Column = derr.Position()
			}
			return perr
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return &ParseError{Path: path, Err: err}
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return nil
}

// Validate checks setting values.
func (c Config) Validate() error {
	if !slices.Contains(LogLevels, c.Log.Level) {
		return fmt.Errorf("%w: log level %q (must be one of %s)",
			ErrValidationFailed, c.Log.Level, strings.Join(LogLevels, ", "))
	}
	if !slices.Contains(LogFormats, c.Log.Format) {
		return fmt.Errorf("%w: log format %q (must be one of %s)",
			ErrValidationFailed, c.Log.Format, strings.Join(LogFormats, ", "))
	}
	return nil
}
