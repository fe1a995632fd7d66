package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/thenoetrevino/tempo/internal/events"
)

// QueryStatus asks a running daemon for its metrics
func QueryStatus(ctx context.Context, socketPath string) (MetricsSnapshot, error) {
	var snap MetricsSnapshot

	conn, err := (&net.Dialer{}).DialContext(ctx, "unix", socketPath)
	if err != nil {
		return snap, events.ClassifyDaemonError(err)
	}
	defer func() { _ = conn.Close() }()

	deadline := time.Now().Add(5 * time.Second)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return snap, fmt.Errorf("failed to set deadline: %w", err)
	}

	// subscribe to nothing first so no events interleave with the reply
	enc := json.NewEncoder(conn)
	if err := enc.Encode(events.Message{
		Version:   events.ProtocolVersion,
		Type:      "subscribe",
		Subscribe: &events.SubscribeMessage{Channels: []string{""}},
	}); err != nil {
		return snap, fmt.Errorf("failed to send subscribe: %w", err)
	}
	if err := enc.Encode(events.Message{Version: events.ProtocolVersion, Type: "status"}); err != nil {
		return snap, fmt.Errorf("failed to request status: %w", err)
	}

	dec := json.NewDecoder(conn)
	for {
		var msg events.Message
		if err := dec.Decode(&msg); err != nil {
			return snap, fmt.Errorf("failed to read status: %w", err)
		}
		if msg.Type != "status" {
			continue
		}
		if err := json.Unmarshal(msg.Status, &snap); err != nil {
			return snap, fmt.Errorf("failed to decode status: %w", err)
		}
		return snap, nil
	}
}
