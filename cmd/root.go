// Package cmd contains all the commands included in the binary file.
package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/openfga/asyncseq/internal/config"
)

// NewRootCommand enables all children commands to read flags from CLI flags, environment variables prefixed with ASYNCSEQ, or config.yaml (in that order).
func NewRootCommand() *cobra.Command {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("ASYNCSEQ")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	configPaths := []string{"/etc/asyncseq", "$HOME/.asyncseq", "."}
	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	cmd := &cobra.Command{
		Use:   "asyncseq",
		Short: "Group and splice line oriented streams",
		Long: `Group and splice line oriented streams.

asyncseq reads its inputs lazily: lines are grouped by key in the order the keys first appear,
and lines can be spliced before or after a stream without buffering it.`,
		SilenceUsage: true,
	}

	defaultConfig := config.DefaultConfig()
	flags := cmd.PersistentFlags()

	flags.String("log-format", defaultConfig.Log.Format, "the log format to output logs in")
	mustBindPFlag("log.format", flags.Lookup("log-format"))
	mustBindEnv("log.format", "ASYNCSEQ_LOG_FORMAT")

	flags.String("log-level", defaultConfig.Log.Level, "the log level to use")
	mustBindPFlag("log.level", flags.Lookup("log-level"))
	mustBindEnv("log.level", "ASYNCSEQ_LOG_LEVEL")

	return cmd
}
