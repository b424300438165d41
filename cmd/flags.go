package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/openfga/asyncseq/internal/config"
)

// mustBindPFlag attempts to bind a specific key to a pflag (as used by cobra) and panics
// if the binding fails with a non-nil error.
func mustBindPFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic("failed to bind pflag: " + err.Error())
	}
}

func mustBindEnv(input ...string) {
	if err := viper.BindEnv(input...); err != nil {
		panic("failed to bind env key: " + err.Error())
	}
}

// bindGroupFlags binds the cobra cmd flags of the group command to the equivalent config
// value being managed by viper.
func bindGroupFlags(command *cobra.Command) {
	defaultConfig := config.DefaultConfig()
	flags := command.Flags()

	flags.Int("key-field", defaultConfig.Group.KeyField, "the zero based index of the field holding the key; a negative value keys by the whole line")
	mustBindPFlag("group.keyField", flags.Lookup("key-field"))
	mustBindEnv("group.keyField", "ASYNCSEQ_GROUP_KEY_FIELD", "ASYNCSEQ_GROUP_KEYFIELD")

	flags.String("delimiter", defaultConfig.Group.Delimiter, "the string separating the fields of a line")
	mustBindPFlag("group.delimiter", flags.Lookup("delimiter"))
	mustBindEnv("group.delimiter", "ASYNCSEQ_GROUP_DELIMITER")

	flags.String("comparer", defaultConfig.Group.Comparer, "how keys are compared: 'exact' or 'fold' (case-insensitive)")
	mustBindPFlag("group.comparer", flags.Lookup("comparer"))
	mustBindEnv("group.comparer", "ASYNCSEQ_GROUP_COMPARER")

	flags.Bool("skip-empty-keys", defaultConfig.Group.SkipEmptyKeys, "drop lines whose key is empty or missing")
	mustBindPFlag("group.skipEmptyKeys", flags.Lookup("skip-empty-keys"))
	mustBindEnv("group.skipEmptyKeys", "ASYNCSEQ_GROUP_SKIP_EMPTY_KEYS", "ASYNCSEQ_GROUP_SKIPEMPTYKEYS")

	flags.Int("max-concurrent-inputs", defaultConfig.Group.MaxConcurrentInputs, "the maximum number of inputs grouped at the same time")
	mustBindPFlag("group.maxConcurrentInputs", flags.Lookup("max-concurrent-inputs"))
	mustBindEnv("group.maxConcurrentInputs", "ASYNCSEQ_GROUP_MAX_CONCURRENT_INPUTS", "ASYNCSEQ_GROUP_MAXCONCURRENTINPUTS")

	flags.String("output", defaultConfig.Output, "the output format: 'text', 'json' or 'yaml'")
	mustBindPFlag("output", flags.Lookup("output"))
	mustBindEnv("output", "ASYNCSEQ_OUTPUT")
}
