package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/tempo/internal/app"
	"github.com/thenoetrevino/tempo/internal/cli"
	"github.com/thenoetrevino/tempo/internal/config"
	"github.com/thenoetrevino/tempo/internal/kv"
	"github.com/thenoetrevino/tempo/internal/logging"
)

// NewCLI returns a CLI over an in-memory database, with its data directory
// (kv store, socket path) in a temp dir
func NewCLI(t *testing.T) *cli.CLI {
	t.Helper()

	application, err := app.New(context.Background(), NewStore(t), app.WithLogger(logging.Discard()))
	require.NoError(t, err, "failed to create test app")

	cfg := config.Default()
	cfg.DataDir = t.TempDir()

	return &cli.CLI{
		App:    application,
		Config: cfg,
		KV:     kv.Open(cfg.KVDir()),
	}
}

// ExecuteCLICommand runs cmd with args against c and returns what it wrote
// to stdout and stderr
func ExecuteCLICommand(t *testing.T, c *cli.CLI, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	return ExecuteCLICommandWithInput(t, c, cmd, "", args...)
}

// ExecuteCLICommandWithInput is ExecuteCLICommand with stdin set to input
func ExecuteCLICommandWithInput(t *testing.T, c *cli.CLI, cmd *cobra.Command, input string, args ...string) (string, string, error) {
	t.Helper()

	if c == nil {
		t.Fatal("cli cannot be nil - NewCLI must be called first")
	}

	var stdout, stderr bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(input))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	// Disable usage output on error for cleaner test output
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.ExecuteContext(cli.WithCLI(context.Background(), c))
	return stdout.String(), stderr.String(), err
}

// ParseJSON parses JSON output from CLI commands
func ParseJSON(t *testing.T, output string) map[string]interface{} {
	t.Helper()

	var result map[string]interface{}
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("Failed to parse JSON output: %v\nOutput: %s", err, output)
	}
	return result
}
