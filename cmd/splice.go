package cmd

import (
	"bufio"
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/openfga/asyncseq/pkg/query"
	"github.com/openfga/asyncseq/pkg/sequence"
)

// NewSpliceCommand returns the command streaming its input with extra lines before and after it.
func NewSpliceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "splice [file]",
		Short: "Stream lines with extra lines prepended and appended",
		Long: `Stream lines with extra lines prepended and appended.

The input (stdin when no file is given, or "-") is streamed without being buffered. Prepended and
appended lines are written in the order the flags are given.`,
		RunE: splice,
		Args: cobra.MaximumNArgs(1),
	}

	flags := cmd.Flags()
	flags.StringArray("prepend", nil, "a line to write before the input; may be repeated")
	flags.StringArray("append", nil, "a line to write after the input; may be repeated")

	return cmd
}

func splice(cmd *cobra.Command, args []string) error {
	_, log, err := setup()
	if err != nil {
		return err
	}
	defer func() {
		_ = log.Sync()
	}()

	prepends, err := cmd.Flags().GetStringArray("prepend")
	if err != nil {
		return err
	}
	appends, err := cmd.Flags().GetStringArray("append")
	if err != nil {
		return err
	}

	name := stdinName
	if len(args) == 1 {
		name = args[0]
	}

	src, err := openInput(cmd, name)
	if err != nil {
		return err
	}

	var lines sequence.Sequence[string] = sequence.Once(src)
	for _, line := range slices.Backward(prepends) {
		lines = query.Prepend(lines, line)
	}
	for _, line := range appends {
		lines = query.Append(lines, line)
	}

	ctx := cmd.Context()
	w := bufio.NewWriter(cmd.OutOrStdout())

	var written int
	for line, err := range sequence.All(ctx, lines.Iterator()) {
		if err != nil {
			return fmt.Errorf("splicing %s: %w", name, err)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
		written++
	}

	log.DebugWithContext(ctx, "spliced input",
		zap.String("input", name),
		zap.Int("prepended", len(prepends)),
		zap.Int("appended", len(appends)),
		zap.Int("written", written),
	)

	return w.Flush()
}
