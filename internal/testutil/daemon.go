package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/thenoetrevino/tempo/internal/daemon"
	"github.com/thenoetrevino/tempo/internal/events"
)

// GetTestSocketPath returns a socket path inside a per-test temp directory
func GetTestSocketPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "test-tempo.sock")
}

// SetupTestDaemon starts a daemon on a temporary socket and waits until it
// accepts connections. Shutdown is registered with t.Cleanup.
func SetupTestDaemon(t *testing.T) (*daemon.Server, string) {
	t.Helper()

	socketPath := GetTestSocketPath(t)

	server, err := daemon.NewServer(socketPath)
	if err != nil {
		t.Fatalf("Failed to create test daemon: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		cancel()
		if err := server.Shutdown(); err != nil {
			t.Logf("Warning: daemon shutdown error during cleanup: %v", err)
		}
	})

	go func() {
		if err := server.Start(ctx); err != nil {
			t.Logf("Server error: %v", err)
		}
	}()

	if !WaitForCondition(t, func() bool {
		_, err := os.Stat(socketPath)
		return err == nil
	}, 2*time.Second, "daemon socket") {
		t.Fatal("Timeout waiting for daemon socket to be created")
	}
	time.Sleep(10 * time.Millisecond)

	return server, socketPath
}

// SetupTestClient connects an event client to socketPath and subscribes it
// to channels (none means all). Cleanup is automatic via t.Cleanup().
func SetupTestClient(t *testing.T, socketPath string, channels ...string) *events.Client {
	t.Helper()

	client, err := events.NewClient(socketPath)
	if err != nil {
		t.Fatalf("Failed to create test client: %v", err)
	}
	t.Cleanup(func() {
		if err := client.Close(); err != nil {
			t.Logf("Warning: client close error during cleanup: %v", err)
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Connect(ctx); err != nil {
		t.Fatalf("Failed to connect test client: %v", err)
	}
	if len(channels) > 0 {
		if err := client.Subscribe(channels...); err != nil {
			t.Fatalf("Failed to subscribe test client: %v", err)
		}
	}

	return client
}

// WaitForEvent waits for an event on a channel with timeout
func WaitForEvent(t *testing.T, ch <-chan events.Event, timeout time.Duration) events.Event {
	t.Helper()

	select {
	case event, ok := <-ch:
		if !ok {
			t.Fatal("Event channel closed unexpectedly")
		}
		return event
	case <-time.After(timeout):
		t.Fatalf("Timeout waiting for event after %v", timeout)
		return events.Event{}
	}
}

// WaitForCondition polls condition until it holds or timeout passes
func WaitForCondition(t *testing.T, condition func() bool, timeout time.Duration, description string) bool {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}

	t.Logf("Timeout waiting for condition: %s", description)
	return false
}
