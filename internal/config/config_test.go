package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVerifyConfig(t *testing.T) {
	t.Run("default_config_is_valid", func(t *testing.T) {
		require.NotPanics(t, func() {
			MustDefaultConfig()
		})
	})

	t.Run("unknown_log_format", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Log.Format = "xml"

		err := cfg.Verify()
		require.EqualError(t, err, `config 'log.format' must be one of ["text" "json"]`)
	})

	t.Run("unknown_log_level", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Log.Level = "trace"

		err := cfg.Verify()
		require.ErrorContains(t, err, "config 'log.level' must be one of")
	})

	t.Run("unknown_comparer", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Group.Comparer = "ordinal"

		err := cfg.Verify()
		require.EqualError(t, err, `config 'group.comparer' must be one of ["exact" "fold"]`)
	})

	t.Run("unknown_output", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Output = "xml"

		err := cfg.Verify()
		require.EqualError(t, err, `config 'output' must be one of ["text" "json" "yaml"]`)
	})

	t.Run("key_field_requires_delimiter", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Group.KeyField = 1
		cfg.Group.Delimiter = ""

		err := cfg.Verify()
		require.EqualError(t, err, "config 'group.delimiter' must be set when 'group.keyField' selects a field")
	})

	t.Run("whole_line_key_needs_no_delimiter", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Group.Delimiter = ""

		require.NoError(t, cfg.Verify())
	})

	t.Run("non_positive_concurrency", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Group.MaxConcurrentInputs = 0

		err := cfg.Verify()
		require.EqualError(t, err, "config 'group.maxConcurrentInputs' (0) must be a positive integer")
	})
}
