package matter

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/tempo/internal/cli"
	"github.com/thenoetrevino/tempo/internal/models"
)

// RangeCmd returns the matter range subcommand
func RangeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "range",
		Short: "List matters starting within a time range",
		Long: `List matters whose start time falls in [start, end).

Examples:
  tempo matter range --start=2024-05-01 --end=2024-05-08
  tempo matter range --start="2024-05-01 09:00" --end="2024-05-01 17:00"`,
		Args: cobra.NoArgs,
		RunE: runRange,
	}

	cmd.Flags().String("start", "", "Range start (required)")
	cmd.Flags().String("end", "", "Range end, exclusive (required)")
	cli.AddOutputFlags(cmd.Flags())

	return cmd
}

func runRange(cmd *cobra.Command, args []string) error {
	formatter := cli.NewFormatter(cmd)

	startStr, _ := cmd.Flags().GetString("start")
	endStr, _ := cmd.Flags().GetString("end")
	if startStr == "" || endStr == "" {
		return formatter.Fail(cli.ExitUsage, "MISSING_RANGE",
			errors.New("both --start and --end are required"),
			"Usage: tempo matter range --start=2024-05-01 --end=2024-05-08")
	}

	start, err := cli.ParseTime(startStr)
	if err != nil {
		return formatter.Fail(cli.ExitValidation, "INVALID_START", err, "")
	}
	end, err := cli.ParseTime(endStr)
	if err != nil {
		return formatter.Fail(cli.ExitValidation, "INVALID_END", err, "")
	}
	if !end.After(start) {
		return formatter.Fail(cli.ExitValidation, "INVALID_RANGE", errors.New("end must be after start"), "")
	}

	return list(cmd, func(c *cli.CLI) ([]models.Matter, error) {
		q, err := c.Matters()
		if err != nil {
			return nil, err
		}
		return q.ListMattersByRange(cmd.Context(), start, end)
	})
}
