package tag

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/tempo/internal/cli"
	"github.com/thenoetrevino/tempo/internal/cli/styles"
)

// ListCmd returns the tag list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tags, most recently used first",
		Args:  cobra.NoArgs,
		RunE:  runList,
	}

	cli.AddOutputFlags(cmd.Flags())

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)

	cliInstance, err := cli.GetCLIFromContext(ctx)
	if err != nil {
		return formatter.Fail(cli.ExitError, "INITIALIZATION_ERROR", err, "")
	}
	defer func() {
		if err := cliInstance.Close(); err != nil {
			slog.Error("error closing CLI", "error", err)
		}
	}()

	if err := cliInstance.App.Tags.FetchAll(ctx); err != nil {
		return formatter.Fail(cli.ExitCode(err), "FETCH_ERROR", err, "")
	}
	tags := cliInstance.App.Tags.Tags()

	if formatter.Quiet {
		for _, name := range cliInstance.App.Tags.Names() {
			fmt.Fprintln(formatter.Out, name)
		}
		return nil
	}
	if formatter.JSON {
		return formatter.Success(tags)
	}

	if len(tags) == 0 {
		fmt.Fprintln(formatter.Out, "No tags found")
		return nil
	}

	tbl := styles.NewTable("TAG", "LAST USED")
	for _, t := range tags {
		lastUsed := styles.Subtle.Sprint(t.LastUsedAt)
		if ts, ok := t.LastUsed(); ok {
			lastUsed = ts.Local().Format("2006-01-02 15:04")
		}
		tbl.AddRow(t.Name, lastUsed)
	}
	fmt.Fprintln(formatter.Out, tbl)
	return nil
}
