package repeat

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/tempo/internal/cli"
)

// StatusCmd returns the repeat status subcommand
func StatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status <id> <active|inactive>",
		Short: "Pause or resume a repeat task",
		Long:  "Set a repeat task active or inactive. Inactive tasks are skipped by 'tempo repeat materialize --all'.",
		Args:  cobra.ExactArgs(2),
		RunE:  runStatus,
	}

	cli.AddOutputFlags(cmd.Flags())

	return cmd
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)

	id := args[0]
	status, err := cli.ParseStatus(args[1])
	if err != nil {
		return formatter.Fail(cli.ExitValidation, "INVALID_STATUS", err, "")
	}

	cliInstance, release, err := open(cmd, formatter)
	if err != nil {
		return err
	}
	defer release()

	task, err := lookup(ctx, cliInstance, id)
	if err != nil {
		return lookupFailed(formatter, id, err)
	}

	if task.Status != status {
		task.Status = status
		if task, err = cliInstance.App.RepeatTasks.Update(ctx, task); err != nil {
			return formatter.Fail(cli.ExitCode(err), "UPDATE_ERROR", fmt.Errorf("failed to set status: %w", err), "")
		}
	}

	if formatter.Human() {
		formatter.Printf("✓ Repeat task %s is %s\n", task.ID, task.Status)
		return nil
	}
	return formatter.Success(&task)
}
