// Package tag implements the tempo tag subcommands.
package tag

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/tempo/internal/cli"
)

// TagCmd returns the tag parent command
func TagCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Manage tags",
		Long:  "Tags are plain names shared by repeat tasks and matters, listed most recently used first.",
	}

	cmd.AddCommand(ListCmd())
	cmd.AddCommand(CreateCmd())
	cmd.AddCommand(DeleteCmd())
	cmd.AddCommand(TouchCmd())

	return cmd
}

// CreateCmd returns the tag create subcommand
func CreateCmd() *cobra.Command {
	return namesCmd("create", "Create tags", "Create tags that do not exist yet.", "created",
		func(ctx context.Context, c *cli.CLI, names []string) error {
			return c.App.Tags.Create(ctx, names)
		})
}

// DeleteCmd returns the tag delete subcommand
func DeleteCmd() *cobra.Command {
	return namesCmd("delete", "Delete tags", "Delete tags. Repeat tasks keep their tag text.", "deleted",
		func(ctx context.Context, c *cli.CLI, names []string) error {
			return c.App.Tags.Delete(ctx, names)
		})
}

// TouchCmd returns the tag touch subcommand
func TouchCmd() *cobra.Command {
	return namesCmd("touch", "Mark tags as just used", "Set the last used time of tags to now, moving them to the top of the list.", "touched",
		func(ctx context.Context, c *cli.CLI, names []string) error {
			return c.App.Tags.UpdateLastUsedAt(ctx, names)
		})
}

// namesCmd builds a subcommand that applies op to the tag names given as
// arguments. Arguments may themselves be comma-separated lists.
func namesCmd(use, short, long, done string, op func(context.Context, *cli.CLI, []string) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use + " <name>[,<name>...] ...",
		Short: short,
		Long:  long,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			formatter := cli.NewFormatter(cmd)

			names := cli.SplitTags(strings.Join(args, ","))
			if len(names) == 0 {
				return formatter.Fail(cli.ExitValidation, "NO_TAG_NAMES",
					errors.New("no tag names given"),
					fmt.Sprintf("Usage: tempo tag %s work,health", use))
			}

			cliInstance, err := cli.GetCLIFromContext(ctx)
			if err != nil {
				return formatter.Fail(cli.ExitError, "INITIALIZATION_ERROR", err, "")
			}
			defer func() {
				if err := cliInstance.Close(); err != nil {
					slog.Error("error closing CLI", "error", err)
				}
			}()

			if err := op(ctx, cliInstance, names); err != nil {
				return formatter.Fail(cli.ExitCode(err), strings.ToUpper(use)+"_ERROR", err, "")
			}

			if formatter.Quiet {
				return nil
			}
			if formatter.JSON {
				return formatter.Success(map[string]interface{}{"names": names})
			}
			fmt.Fprintf(formatter.Out, "✓ %d tag(s) %s: %s\n", len(names), done, strings.Join(names, ", "))
			return nil
		},
	}

	cli.AddOutputFlags(cmd.Flags())
	return cmd
}
