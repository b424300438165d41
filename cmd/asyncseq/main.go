package main

import (
	"os"

	"github.com/openfga/asyncseq/cmd"
)

func main() {
	rootCmd := cmd.NewRootCommand()

	rootCmd.AddCommand(cmd.NewGroupCommand())
	rootCmd.AddCommand(cmd.NewSpliceCommand())
	rootCmd.AddCommand(cmd.NewVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
