package repeat

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/tempo/internal/cli"
	"github.com/thenoetrevino/tempo/internal/cli/styles"
	"github.com/thenoetrevino/tempo/internal/models"
)

// ShowCmd returns the repeat show subcommand
func ShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show repeat task details",
		Long:  "Display all details of a repeat task. The description is rendered as markdown.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runShow,
	}

	cmd.Flags().String("id", "", "Repeat task ID (can also be provided as positional argument)")
	cli.AddOutputFlags(cmd.Flags())

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)

	id := cli.IDArg(cmd, args)
	if id == "" {
		return missingID(formatter, "tempo repeat show <id>")
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

	if !formatter.Human() {
		return formatter.Success(&task)
	}

	card, err := renderCard(task)
	if err != nil {
		return formatter.Fail(cli.ExitError, "RENDER_ERROR", err, "Use --json for unformatted output")
	}
	fmt.Fprintln(formatter.Out, card)
	return nil
}

func renderCard(task models.RepeatTask) (string, error) {
	lines := []string{
		styles.TitleStyle.Render(task.Title),
		"",
		styles.Field("ID", task.ID),
		styles.Field("Repeat", task.RepeatTime),
		styles.Field("Priority", styles.Priority(task.Priority)),
		styles.Field("Status", styles.Status(task.Status)),
	}
	if tags := styles.Tags(task.Tags); tags != "" {
		lines = append(lines, styles.Field("Tags", tags))
	}
	lines = append(lines,
		styles.Field("Created", task.CreatedAt.Local().Format("2006-01-02 15:04")),
		styles.Field("Updated", task.UpdatedAt.Local().Format("2006-01-02 15:04")),
	)

	description, err := styles.Markdown(task.Description)
	if err != nil {
		return "", err
	}
	if description != "" {
		lines = append(lines, "", description)
	}

	return styles.RenderCard(strings.Join(lines, "\n")), nil
}
