package matter

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/tempo/internal/cli"
	"github.com/thenoetrevino/tempo/internal/models"
)

// ListCmd returns the matter list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List matters",
		Long:  "List every matter, or only those starting on one day with --today or --day.",
		Args:  cobra.NoArgs,
		RunE:  runList,
	}

	cmd.Flags().Bool("today", false, "Only matters starting today")
	cmd.Flags().String("day", "", "Only matters starting on this day (YYYY-MM-DD)")
	cli.AddOutputFlags(cmd.Flags())

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	today, _ := cmd.Flags().GetBool("today")
	day, _ := cmd.Flags().GetString("day")

	if !today && day == "" {
		return list(cmd, func(c *cli.CLI) ([]models.Matter, error) {
			q, err := c.Matters()
			if err != nil {
				return nil, err
			}
			return q.ListMatters(cmd.Context())
		})
	}

	ref := time.Now()
	if day != "" {
		t, err := cli.ParseTime(day)
		if err != nil {
			return cli.NewFormatter(cmd).Fail(cli.ExitValidation, "INVALID_DAY", err, "")
		}
		ref = t
	}
	start, end := cli.DayBounds(ref)

	return list(cmd, func(c *cli.CLI) ([]models.Matter, error) {
		q, err := c.Matters()
		if err != nil {
			return nil, err
		}
		return q.ListMattersByRange(cmd.Context(), start, end)
	})
}
