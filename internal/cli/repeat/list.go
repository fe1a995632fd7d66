package repeat

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/tempo/internal/cli"
	"github.com/thenoetrevino/tempo/internal/cli/styles"
	"github.com/thenoetrevino/tempo/internal/models"
)

// ListCmd returns the repeat list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List repeat tasks",
		Long:  "List repeat tasks, newest first.",
		Args:  cobra.NoArgs,
		RunE:  runList,
	}

	cmd.Flags().Bool("active", false, "Only show active repeat tasks")
	cmd.Flags().String("tag", "", "Only show repeat tasks carrying this tag")
	cli.AddOutputFlags(cmd.Flags())

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)

	activeOnly, _ := cmd.Flags().GetBool("active")
	tagFilter, _ := cmd.Flags().GetString("tag")

	cliInstance, release, err := open(cmd, formatter)
	if err != nil {
		return err
	}
	defer release()

	if err := cliInstance.App.RepeatTasks.FetchAll(ctx); err != nil {
		return formatter.Fail(cli.ExitCode(err), "FETCH_ERROR", err, "")
	}
	tasks := filter(cliInstance.App.RepeatTasks.Tasks(), activeOnly, strings.TrimSpace(tagFilter))

	if formatter.Quiet {
		for _, t := range tasks {
			fmt.Fprintln(formatter.Out, t.ID)
		}
		return nil
	}

	if formatter.JSON {
		return formatter.Success(tasks)
	}

	if len(tasks) == 0 {
		fmt.Fprintln(formatter.Out, "No repeat tasks found")
		return nil
	}

	tbl := styles.NewTable("ID", "TITLE", "REPEAT", "PRIORITY", "STATUS", "TAGS")
	for _, t := range tasks {
		tbl.AddRow(t.ID, t.Title, t.RepeatTime, styles.Priority(t.Priority), styles.Status(t.Status), styles.Tags(t.Tags))
	}
	fmt.Fprintln(formatter.Out, tbl)
	fmt.Fprintf(formatter.Out, "\n%d repeat task(s)\n", len(tasks))
	return nil
}

func filter(tasks []models.RepeatTask, activeOnly bool, tag string) []models.RepeatTask {
	out := make([]models.RepeatTask, 0, len(tasks))
	for _, t := range tasks {
		if activeOnly && t.Status != models.RepeatTaskActive {
			continue
		}
		if tag != "" && !hasTag(t.Tags, tag) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func hasTag(tags, name string) bool {
	for _, t := range cli.SplitTags(tags) {
		if strings.EqualFold(t, name) {
			return true
		}
	}
	return false
}
