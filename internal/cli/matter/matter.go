// Package matter implements the tempo matter subcommands.
package matter

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/tempo/internal/cli"
	"github.com/thenoetrevino/tempo/internal/cli/styles"
	"github.com/thenoetrevino/tempo/internal/models"
)

// MatterCmd returns the matter parent command
func MatterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "matter",
		Short: "Browse calendar matters",
		Long:  "Matters are single calendar entries, including those materialized from repeat tasks.",
	}

	cmd.AddCommand(ListCmd())
	cmd.AddCommand(RangeCmd())

	return cmd
}

var typeNames = map[models.MatterType]string{
	models.MatterNormal:     "normal",
	models.MatterRepeatTask: "repeat",
	models.MatterTodo:       "todo",
	models.MatterCalendar:   "calendar",
}

// list fetches matters with fetch and prints them in the formatter's mode
func list(cmd *cobra.Command, fetch func(*cli.CLI) ([]models.Matter, error)) error {
	formatter := cli.NewFormatter(cmd)

	cliInstance, err := cli.GetCLIFromContext(cmd.Context())
	if err != nil {
		return formatter.Fail(cli.ExitError, "INITIALIZATION_ERROR", err, "")
	}
	defer func() {
		if err := cliInstance.Close(); err != nil {
			slog.Error("error closing CLI", "error", err)
		}
	}()

	matters, err := fetch(cliInstance)
	if err != nil {
		return formatter.Fail(cli.ExitCode(err), "FETCH_ERROR", err, "")
	}

	if formatter.Quiet {
		for _, m := range matters {
			fmt.Fprintln(formatter.Out, m.ID)
		}
		return nil
	}
	if formatter.JSON {
		return formatter.Success(matters)
	}

	printTable(formatter.Out, matters)
	return nil
}

func printTable(w io.Writer, matters []models.Matter) {
	if len(matters) == 0 {
		fmt.Fprintln(w, "No matters found")
		return
	}

	tbl := styles.NewTable("START", "END", "TITLE", "TYPE", "PRIORITY", "TAGS")
	for _, m := range matters {
		tbl.AddRow(
			m.StartTime.Local().Format("2006-01-02 15:04"),
			m.EndTime.Local().Format("15:04"),
			m.Title,
			typeNames[m.Type],
			styles.Priority(m.Priority),
			styles.Tags(m.Tags),
		)
	}
	fmt.Fprintln(w, tbl)
}
