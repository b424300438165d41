package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"sigs.k8s.io/yaml"

	"github.com/openfga/asyncseq/internal/concurrency"
	"github.com/openfga/asyncseq/internal/config"
	"github.com/openfga/asyncseq/pkg/logger"
	"github.com/openfga/asyncseq/pkg/lookup"
)

// NewGroupCommand returns the command grouping the lines of its inputs by key.
func NewGroupCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group [files...]",
		Short: "Group lines by key in first-seen order",
		Long: `Group lines by key in first-seen order.

Each input (stdin when no file is given, or "-") is grouped on its own. Groups are printed in the
order their key first appears, and lines keep their input order within a group.`,
		RunE: group,
	}

	bindGroupFlags(cmd)

	return cmd
}

type groupOutput struct {
	Key      string   `json:"key"`
	Elements []string `json:"elements"`
}

type inputGroups struct {
	Input  string        `json:"input"`
	Groups []groupOutput `json:"groups"`
}

func group(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() {
		_ = log.Sync()
	}()

	inputs := args
	if len(inputs) == 0 {
		inputs = []string{stdinName}
	}

	opts := []lookup.BuildOption{lookup.WithLogger(log)}
	switch cfg.Group.Comparer {
	case "fold":
		opts = append(opts, lookup.WithComparer(lookup.FoldComparer()))
	default:
		opts = append(opts, lookup.WithComparer(lookup.StringComparer()))
	}

	keyFn := keySelector(cfg.Group)

	results, err := concurrency.MapOrdered(cmd.Context(), cfg.Group.MaxConcurrentInputs, inputs, func(ctx context.Context, name string) (inputGroups, error) {
		return groupInput(ctx, cmd, log, name, keyFn, cfg.Group.SkipEmptyKeys, opts)
	})
	if err != nil {
		return err
	}

	return writeGroups(cmd.OutOrStdout(), cfg.Output, results)
}

func groupInput(
	ctx context.Context,
	cmd *cobra.Command,
	log logger.Logger,
	name string,
	keyFn func(string) string,
	skipEmptyKeys bool,
	opts []lookup.BuildOption,
) (inputGroups, error) {
	src, err := openInput(cmd, name)
	if err != nil {
		return inputGroups{}, fmt.Errorf("grouping %s: %w", name, err)
	}

	l, err := lookup.Build(ctx, src, keyFn, opts...)
	if err != nil {
		return inputGroups{}, fmt.Errorf("grouping %s: %w", name, err)
	}

	log.DebugWithContext(ctx, "grouped input", zap.String("input", name), zap.Int("groups", l.Count()))

	result := inputGroups{Input: name, Groups: make([]groupOutput, 0, l.Count())}
	for key, g := range l.All() {
		if skipEmptyKeys && key == "" {
			continue
		}
		result.Groups = append(result.Groups, groupOutput{Key: key, Elements: g.Slice()})
	}
	return result, nil
}

// keySelector returns the function extracting the key of a line. Lines without the
// configured field get the empty key.
func keySelector(cfg config.GroupConfig) func(string) string {
	if cfg.KeyField < 0 {
		return func(line string) string {
			return line
		}
	}

	return func(line string) string {
		fields := strings.Split(line, cfg.Delimiter)
		if cfg.KeyField >= len(fields) {
			return ""
		}
		return fields[cfg.KeyField]
	}
}

func writeGroups(w io.Writer, format string, results []inputGroups) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		for _, result := range results {
			if err := enc.Encode(result); err != nil {
				return err
			}
		}
		return nil
	case "yaml":
		out, err := yaml.Marshal(results)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	}

	var sb strings.Builder
	for i, result := range results {
		if len(results) > 1 {
			if i > 0 {
				sb.WriteString("\n")
			}
			fmt.Fprintf(&sb, "==> %s <==\n", result.Input)
		}
		for _, g := range result.Groups {
			fmt.Fprintf(&sb, "%s (%d)\n", g.Key, len(g.Elements))
			for _, element := range g.Elements {
				fmt.Fprintf(&sb, "  %s\n", element)
			}
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
