package repeat

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/tempo/internal/cli"
	"github.com/thenoetrevino/tempo/internal/models"
)

const repeatUsage = `Repeat format is "DAYS|HH:MM|HH:MM", e.g. "MON,WED|08:00|10:00"`

// CreateCmd returns the repeat create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a repeat task",
		Long: `Create a repeat task.

Examples:
  tempo repeat create --title="Standup" --repeat="MON,TUE,WED,THU,FRI|09:30|09:45"
  tempo repeat create --title="Gym" --repeat="SAT|10:00|11:30" --priority=low --tags=health`,
		Args: cobra.NoArgs,
		RunE: runCreate,
	}

	cmd.Flags().String("title", "", "Repeat task title (required)")
	cmd.Flags().String("repeat", "", "Repeat time as DAYS|HH:MM|HH:MM (required)")
	cmd.Flags().String("description", "", "Description (markdown)")
	cmd.Flags().String("tags", "", "Comma-separated tags")
	cmd.Flags().String("priority", "medium", "Priority: low, medium, high")
	cmd.Flags().Bool("inactive", false, "Create the repeat task paused")
	cli.AddOutputFlags(cmd.Flags())

	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)

	title, _ := cmd.Flags().GetString("title")
	repeatTime, _ := cmd.Flags().GetString("repeat")
	description, _ := cmd.Flags().GetString("description")
	tags, _ := cmd.Flags().GetString("tags")
	priorityStr, _ := cmd.Flags().GetString("priority")
	inactive, _ := cmd.Flags().GetBool("inactive")

	title = strings.TrimSpace(title)
	if title == "" {
		return formatter.Fail(cli.ExitUsage, "MISSING_TITLE", errors.New("title is required"), `Usage: tempo repeat create --title="..." --repeat="..."`)
	}
	if _, err := models.ParseRepeatTime(repeatTime); err != nil {
		return formatter.Fail(cli.ExitDataErr, "INVALID_REPEAT_TIME", err, repeatUsage)
	}
	priority, err := cli.ParsePriority(priorityStr)
	if err != nil {
		return formatter.Fail(cli.ExitValidation, "INVALID_PRIORITY", err, "")
	}

	status := models.RepeatTaskActive
	if inactive {
		status = models.RepeatTaskInactive
	}

	cliInstance, release, err := open(cmd, formatter)
	if err != nil {
		return err
	}
	defer release()

	task, err := cliInstance.App.RepeatTasks.Create(ctx, models.RepeatTask{
		Title:       title,
		Description: description,
		Tags:        strings.Join(cli.SplitTags(tags), ","),
		RepeatTime:  strings.TrimSpace(repeatTime),
		Priority:    priority,
		Status:      status,
	})
	if err != nil {
		return formatter.Fail(cli.ExitCode(err), "CREATE_ERROR", err, "")
	}
	useTags(ctx, cliInstance, task.Tags)

	if formatter.Human() {
		formatter.Printf("✓ Repeat task created: %s\n", task.ID)
		formatter.Printf("  %s (%s)\n", task.Title, task.RepeatTime)
		return nil
	}
	return formatter.Success(&task)
}
