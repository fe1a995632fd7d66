package matter

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/tempo/internal/cli"
	"github.com/thenoetrevino/tempo/internal/models"
	"github.com/thenoetrevino/tempo/internal/testutil"
)

func seedMatter(t *testing.T, c *cli.CLI, title string, start time.Time) models.Matter {
	t.Helper()

	m, err := c.App.Storage().CreateMatter(context.Background(), models.Matter{
		Title:     title,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Priority:  models.PriorityHigh,
		Type:      models.MatterRepeatTask,
		Tags:      "work",
	})
	require.NoError(t, err)
	return m
}

func TestMatterList(t *testing.T) {
	c := testutil.NewCLI(t)

	t.Run("empty", func(t *testing.T) {
		out, _, err := testutil.ExecuteCLICommand(t, c, ListCmd())
		require.NoError(t, err)
		assert.Contains(t, out, "No matters found")
	})

	first := seedMatter(t, c, "Planning", time.Date(2024, 5, 1, 9, 0, 0, 0, time.Local))
	second := seedMatter(t, c, "Review", time.Date(2024, 5, 2, 10, 0, 0, 0, time.Local))
	now := seedMatter(t, c, "Now", time.Now())

	t.Run("all, human", func(t *testing.T) {
		out, _, err := testutil.ExecuteCLICommand(t, c, ListCmd())
		require.NoError(t, err)
		assert.Contains(t, out, "Planning")
		assert.Contains(t, out, "2024-05-01 09:00")
		assert.Contains(t, out, "repeat")
		assert.Contains(t, out, "#work")
	})

	t.Run("one day", func(t *testing.T) {
		out, _, err := testutil.ExecuteCLICommand(t, c, ListCmd(), "--day", "2024-05-02", "--quiet")
		require.NoError(t, err)
		assert.Equal(t, second.ID+"\n", out)
	})

	t.Run("today", func(t *testing.T) {
		out, _, err := testutil.ExecuteCLICommand(t, c, ListCmd(), "--today", "--json")
		require.NoError(t, err)
		data := testutil.ParseJSON(t, out)["data"].([]interface{})
		require.Len(t, data, 1)
		assert.Equal(t, now.ID, data[0].(map[string]interface{})["id"])
	})

	t.Run("all, quiet", func(t *testing.T) {
		out, _, err := testutil.ExecuteCLICommand(t, c, ListCmd(), "--quiet")
		require.NoError(t, err)
		ids := strings.Fields(out)
		assert.ElementsMatch(t, []string{first.ID, second.ID, now.ID}, ids)
	})

	t.Run("bad day", func(t *testing.T) {
		_, _, err := testutil.ExecuteCLICommand(t, c, ListCmd(), "--day", "May 2nd")
		require.Error(t, err)
		assert.Equal(t, cli.ExitValidation, cli.ExitCode(err))
	})
}

func TestMatterRange(t *testing.T) {
	c := testutil.NewCLI(t)

	early := seedMatter(t, c, "Early", time.Date(2024, 5, 1, 9, 0, 0, 0, time.Local))
	seedMatter(t, c, "Late", time.Date(2024, 5, 1, 17, 0, 0, 0, time.Local))

	t.Run("end is exclusive", func(t *testing.T) {
		out, _, err := testutil.ExecuteCLICommand(t, c, RangeCmd(),
			"--start", "2024-05-01 09:00", "--end", "2024-05-01 17:00", "--quiet")
		require.NoError(t, err)
		assert.Equal(t, early.ID+"\n", out)
	})

	t.Run("whole days", func(t *testing.T) {
		out, _, err := testutil.ExecuteCLICommand(t, c, RangeCmd(),
			"--start", "2024-05-01", "--end", "2024-05-02", "--json")
		require.NoError(t, err)
		data := testutil.ParseJSON(t, out)["data"].([]interface{})
		assert.Len(t, data, 2)
	})

	tests := []struct {
		name     string
		args     []string
		exitCode int
	}{
		{"missing end", []string{"--start", "2024-05-01"}, cli.ExitUsage},
		{"bad start", []string{"--start", "yesterday", "--end", "2024-05-01"}, cli.ExitValidation},
		{"end before start", []string{"--start", "2024-05-02", "--end", "2024-05-01"}, cli.ExitValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := testutil.ExecuteCLICommand(t, c, RangeCmd(), tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.exitCode, cli.ExitCode(err))
		})
	}
}
