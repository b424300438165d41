// Package config contains all knobs and defaults used to configure the asyncseq command line tool.
package config

import (
	"errors"
	"fmt"
	"runtime"
	"slices"
)

const (
	DefaultLogFormat           = "text"
	DefaultLogLevel            = "info"
	DefaultKeyField            = -1
	DefaultDelimiter           = "\t"
	DefaultComparer            = "exact"
	DefaultOutput              = "text"
	DefaultSkipEmptyKeys       = false
	DefaultMaxConcurrentInputs = 4
)

var (
	logFormats = []string{"text", "json"}
	logLevels  = []string{"none", "debug", "info", "warn", "error", "panic", "fatal"}
	comparers  = []string{"exact", "fold"}
	outputs    = []string{"text", "json", "yaml"}
)

// LogConfig defines asyncseq configurations for logging.
type LogConfig struct {
	// Format is the log format to use in the log output (e.g. 'text' or 'json')
	Format string

	// Level is the log level to use in the log output (e.g. 'none', 'debug', or 'info')
	Level string
}

// GroupConfig defines how input lines are turned into keyed elements.
type GroupConfig struct {
	// KeyField is the zero based index of the field used as the key. A negative value
	// uses the whole line.
	KeyField int

	// Delimiter separates the fields of a line.
	Delimiter string

	// Comparer selects key equality: 'exact' or 'fold' (case-insensitive).
	Comparer string

	// SkipEmptyKeys drops lines whose key is empty or missing instead of grouping them.
	SkipEmptyKeys bool

	// MaxConcurrentInputs bounds the number of input files grouped at the same time.
	MaxConcurrentInputs int
}

type Config struct {
	Log    LogConfig
	Group  GroupConfig
	Output string
}

func (cfg *Config) Verify() error {
	if !slices.Contains(logFormats, cfg.Log.Format) {
		return fmt.Errorf("config 'log.format' must be one of %q", logFormats)
	}

	if !slices.Contains(logLevels, cfg.Log.Level) {
		return fmt.Errorf("config 'log.level' must be one of %q", logLevels)
	}

	if !slices.Contains(comparers, cfg.Group.Comparer) {
		return fmt.Errorf("config 'group.comparer' must be one of %q", comparers)
	}

	if !slices.Contains(outputs, cfg.Output) {
		return fmt.Errorf("config 'output' must be one of %q", outputs)
	}

	if cfg.Group.KeyField >= 0 && cfg.Group.Delimiter == "" {
		return errors.New("config 'group.delimiter' must be set when 'group.keyField' selects a field")
	}

	if cfg.Group.MaxConcurrentInputs <= 0 {
		return fmt.Errorf("config 'group.maxConcurrentInputs' (%d) must be a positive integer", cfg.Group.MaxConcurrentInputs)
	}

	return nil
}

// DefaultConfig is the asyncseq default configuration.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Format: DefaultLogFormat,
			Level:  DefaultLogLevel,
		},
		Group: GroupConfig{
			KeyField:            DefaultKeyField,
			Delimiter:           DefaultDelimiter,
			Comparer:            DefaultComparer,
			SkipEmptyKeys:       DefaultSkipEmptyKeys,
			MaxConcurrentInputs: min(DefaultMaxConcurrentInputs, runtime.GOMAXPROCS(0)),
		},
		Output: DefaultOutput,
	}
}

// MustDefaultConfig returns the default configuration and panics if it does not verify.
func MustDefaultConfig() *Config {
	config := DefaultConfig()

	if err := config.Verify(); err != nil {
		panic(err)
	}

	return config
}
