package repeat

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/tempo/internal/cli"
	"github.com/thenoetrevino/tempo/internal/models"
)

// MaterializeCmd returns the repeat materialize subcommand
func MaterializeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "materialize [id]",
		Short: "Put a repeat task on today's calendar",
		Long: `Create today's matter from a repeat task.

With --all, every active repeat task scheduled for today's weekday is materialized.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runMaterialize,
	}

	cmd.Flags().String("id", "", "Repeat task ID (can also be provided as positional argument)")
	cmd.Flags().Bool("all", false, "Materialize every active repeat task due today")
	cli.AddOutputFlags(cmd.Flags())

	return cmd
}

func runMaterialize(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)

	id := cli.IDArg(cmd, args)
	all, _ := cmd.Flags().GetBool("all")
	if (id == "") == !all {
		return formatter.Fail(cli.ExitUsage, "INVALID_ARGUMENTS",
			errors.New("give either a repeat task ID or --all"),
			"Usage: tempo repeat materialize <id> or tempo repeat materialize --all")
	}

	cliInstance, release, err := open(cmd, formatter)
	if err != nil {
		return err
	}
	defer release()

	var tasks []models.RepeatTask
	if all {
		if err := cliInstance.App.RepeatTasks.FetchAll(ctx); err != nil {
			return formatter.Fail(cli.ExitCode(err), "FETCH_ERROR", err, "")
		}
		tasks = dueOn(cliInstance.App.RepeatTasks.Tasks(), time.Now().Weekday())
	} else {
		task, err := lookup(ctx, cliInstance, id)
		if err != nil {
			return lookupFailed(formatter, id, err)
		}
		tasks = []models.RepeatTask{task}
	}

	matters := make([]models.Matter, 0, len(tasks))
	var failed []string
	for _, task := range tasks {
		matter, ok := cliInstance.App.RepeatTasks.CreateMatter(ctx, task)
		if !ok {
			failed = append(failed, task.ID)
			continue
		}
		matters = append(matters, matter)
	}

	if !all && len(failed) > 0 {
		return formatter.Fail(cli.ExitDataErr, "MATERIALIZE_ERROR",
			fmt.Errorf("could not create a matter for repeat task %s", id),
			"Check its repeat time with: tempo repeat show "+id)
	}

	if formatter.Quiet {
		for _, m := range matters {
			fmt.Fprintln(formatter.Out, m.ID)
		}
		return nil
	}
	if formatter.JSON {
		return formatter.Success(map[string]interface{}{
			"matters": matters,
			"failed":  failed,
		})
	}

	for _, m := range matters {
		fmt.Fprintf(formatter.Out, "✓ %s  %s-%s\n", m.Title,
			m.StartTime.Local().Format("15:04"), m.EndTime.Local().Format("15:04"))
	}
	for _, taskID := range failed {
		fmt.Fprintf(formatter.Err, "⚠ skipped repeat task %s (see log)\n", taskID)
	}
	if len(matters) == 0 && len(failed) == 0 {
		fmt.Fprintln(formatter.Out, "No repeat tasks due today")
	}
	return nil
}

// dueOn keeps active tasks whose weekday spec covers day. Tasks with a
// malformed repeat time are kept so CreateMatter reports them.
func dueOn(tasks []models.RepeatTask, day time.Weekday) []models.RepeatTask {
	var due []models.RepeatTask
	for _, t := range tasks {
		if t.Status != models.RepeatTaskActive {
			continue
		}
		rt, err := models.ParseRepeatTime(t.RepeatTime)
		if err == nil && !rt.OnWeekday(day) {
			continue
		}
		due = append(due, t)
	}
	return due
}
