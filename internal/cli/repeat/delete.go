package repeat

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/tempo/internal/cli"
)

// DeleteCmd returns the repeat delete subcommand
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a repeat task",
		Long:  "Delete a repeat task by ID (requires confirmation unless --force or --quiet). Matters already created from it are kept.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runDelete,
	}

	cmd.Flags().String("id", "", "Repeat task ID (can also be provided as positional argument)")
	cmd.Flags().Bool("force", false, "Skip confirmation")
	cli.AddOutputFlags(cmd.Flags())

	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)

	id := cli.IDArg(cmd, args)
	if id == "" {
		return missingID(formatter, "tempo repeat delete <id>")
	}
	force, _ := cmd.Flags().GetBool("force")

	cliInstance, release, err := open(cmd, formatter)
	if err != nil {
		return err
	}
	defer release()

	task, err := lookup(ctx, cliInstance, id)
	if err != nil {
		return lookupFailed(formatter, id, err)
	}

	// Ask for confirmation unless force or quiet mode
	if !force && !formatter.Quiet {
		prompt := fmt.Sprintf("Delete repeat task '%s'?", task.Title)
		if !cli.Confirm(cmd.InOrStdin(), formatter.Out, prompt) {
			fmt.Fprintln(formatter.Out, "Cancelled")
			return nil
		}
	}

	if err := cliInstance.App.RepeatTasks.Delete(ctx, id); err != nil {
		return formatter.Fail(cli.ExitCode(err), "DELETE_ERROR", err, "")
	}

	if formatter.Quiet {
		return nil
	}
	if formatter.JSON {
		return formatter.Success(map[string]string{"id": id})
	}

	fmt.Fprintf(formatter.Out, "✓ Repeat task %s deleted successfully\n", id)
	return nil
}
