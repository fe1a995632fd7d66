// Package repeat implements the tempo repeat subcommands.
package repeat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/tempo/internal/cli"
	"github.com/thenoetrevino/tempo/internal/database"
	"github.com/thenoetrevino/tempo/internal/models"
)

// RepeatCmd returns the repeat parent command
func RepeatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "repeat",
		Aliases: []string{"rt"},
		Short:   "Manage repeat tasks",
		Long:    "Create, inspect and schedule repeat tasks. A repeat task turns into a matter on today's calendar with 'tempo repeat materialize'.",
	}

	cmd.AddCommand(ListCmd())
	cmd.AddCommand(ShowCmd())
	cmd.AddCommand(CreateCmd())
	cmd.AddCommand(UpdateCmd())
	cmd.AddCommand(DeleteCmd())
	cmd.AddCommand(StatusCmd())
	cmd.AddCommand(MaterializeCmd())

	return cmd
}

// open returns the CLI for cmd; release must be deferred by the caller
func open(cmd *cobra.Command, formatter *cli.OutputFormatter) (*cli.CLI, func(), error) {
	cliInstance, err := cli.GetCLIFromContext(cmd.Context())
	if err != nil {
		return nil, nil, formatter.Fail(cli.ExitError, "INITIALIZATION_ERROR", err, "")
	}
	release := func() {
		if err := cliInstance.Close(); err != nil {
			slog.Error("error closing CLI", "error", err)
		}
	}
	return cliInstance, release, nil
}

// lookup refreshes the task list and returns the task with id
func lookup(ctx context.Context, cliInstance *cli.CLI, id string) (models.RepeatTask, error) {
	if err := cliInstance.App.RepeatTasks.FetchAll(ctx); err != nil {
		return models.RepeatTask{}, err
	}
	task, ok := cliInstance.App.RepeatTasks.Get(id)
	if !ok {
		return models.RepeatTask{}, fmt.Errorf("repeat task %s %w", id, database.ErrNotFound)
	}
	return task, nil
}

// lookupFailed reports a failed lookup with the matching exit code
func lookupFailed(formatter *cli.OutputFormatter, id string, err error) error {
	if errors.Is(err, database.ErrNotFound) {
		return formatter.Fail(cli.ExitNotFound, "REPEAT_TASK_NOT_FOUND", err, "List repeat tasks with: tempo repeat list")
	}
	return formatter.Fail(cli.ExitCode(err), "FETCH_ERROR", fmt.Errorf("failed to load repeat task %s: %w", id, err), "")
}

// missingID reports a command run without an ID
func missingID(formatter *cli.OutputFormatter, usage string) error {
	return formatter.Fail(cli.ExitUsage, "MISSING_ID", errors.New("repeat task ID is required"), "Usage: "+usage)
}

// useTags records that the given tags were used, creating unknown ones
func useTags(ctx context.Context, cliInstance *cli.CLI, tags string) {
	names := cli.SplitTags(tags)
	if len(names) == 0 {
		return
	}
	if err := cliInstance.App.Tags.Create(ctx, names); err != nil {
		slog.Warn("failed to create tags", "tags", names, "error", err)
		return
	}
	if err := cliInstance.App.Tags.UpdateLastUsedAt(ctx, names); err != nil {
		slog.Warn("failed to touch tags", "tags", names, "error", err)
	}
}
