package events

import "context"

// EventPublisher defines the interface for sending and receiving events.
// This interface allows for loose coupling and easier testing by depending
// on behavior rather than concrete implementation.
type EventPublisher interface {
	// Connect establishes a connection to the daemon socket
	Connect(ctx context.Context) error

	// SendEvent sends an event to the daemon. Database changes are batched.
	SendEvent(event Event) error

	// Listen starts listening for events from the daemon
	Listen(ctx context.Context) (<-chan Event, error)

	// Subscribe replaces the set of channels this client receives
	Subscribe(channels ...string) error

	// Close closes the connection to the daemon and stops all goroutines
	Close() error
}

// Compile-time verification that *Client implements EventPublisher
var _ EventPublisher = (*Client)(nil)
