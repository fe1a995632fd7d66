package repeat

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/tempo/internal/cli"
	"github.com/thenoetrevino/tempo/internal/models"
)

// UpdateCmd returns the repeat update subcommand
func UpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Update a repeat task",
		Long:  "Update fields of a repeat task. Only the flags given are changed.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runUpdate,
	}

	cmd.Flags().String("id", "", "Repeat task ID (can also be provided as positional argument)")
	cmd.Flags().String("title", "", "New title")
	cmd.Flags().String("repeat", "", "New repeat time as DAYS|HH:MM|HH:MM")
	cmd.Flags().String("description", "", "New description (markdown)")
	cmd.Flags().String("tags", "", "New comma-separated tags (empty clears)")
	cmd.Flags().String("priority", "", "New priority: low, medium, high")
	cli.AddOutputFlags(cmd.Flags())

	return cmd
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)
	flags := cmd.Flags()

	id := cli.IDArg(cmd, args)
	if id == "" {
		return missingID(formatter, "tempo repeat update <id> --title=...")
	}

	changed := false
	for _, name := range []string{"title", "repeat", "description", "tags", "priority"} {
		changed = changed || flags.Changed(name)
	}
	if !changed {
		return formatter.Fail(cli.ExitUsage, "NO_CHANGES",
			errors.New("nothing to update"),
			"Pass at least one of --title, --repeat, --description, --tags, --priority")
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

	if flags.Changed("title") {
		title, _ := flags.GetString("title")
		if task.Title = strings.TrimSpace(title); task.Title == "" {
			return formatter.Fail(cli.ExitValidation, "INVALID_TITLE", errors.New("title cannot be empty"), "")
		}
	}
	if flags.Changed("repeat") {
		repeatTime, _ := flags.GetString("repeat")
		if _, err := models.ParseRepeatTime(repeatTime); err != nil {
			return formatter.Fail(cli.ExitDataErr, "INVALID_REPEAT_TIME", err, repeatUsage)
		}
		task.RepeatTime = strings.TrimSpace(repeatTime)
	}
	if flags.Changed("description") {
		task.Description, _ = flags.GetString("description")
	}
	if flags.Changed("tags") {
		tags, _ := flags.GetString("tags")
		task.Tags = strings.Join(cli.SplitTags(tags), ",")
	}
	if flags.Changed("priority") {
		priorityStr, _ := flags.GetString("priority")
		if task.Priority, err = cli.ParsePriority(priorityStr); err != nil {
			return formatter.Fail(cli.ExitValidation, "INVALID_PRIORITY", err, "")
		}
	}

	updated, err := cliInstance.App.RepeatTasks.Update(ctx, task)
	if err != nil {
		return formatter.Fail(cli.ExitCode(err), "UPDATE_ERROR", err, "")
	}
	if flags.Changed("tags") {
		useTags(ctx, cliInstance, updated.Tags)
	}

	if formatter.Human() {
		formatter.Printf("✓ Repeat task %s updated\n", updated.ID)
		return nil
	}
	return formatter.Success(&updated)
}
