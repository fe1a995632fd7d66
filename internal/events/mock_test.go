package events_test

import (
	"context"
	"sync"

	"github.com/thenoetrevino/tempo/internal/events"
)

// MockEventPublisher is a mock implementation of events.EventPublisher for testing.
// It records all published events and lets tests push events to listeners.
type MockEventPublisher struct {
	mu sync.Mutex

	SentEvents []events.Event

	CloseCalled   bool
	ConnectCalled bool
	ListenCalls   int

	SubscriptionHistory [][]string

	incoming chan events.Event
}

// NewMockEventPublisher creates a new mock event publisher.
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{
		SentEvents: []events.Event{},
		incoming:   make(chan events.Event, 10),
	}
}

// Connect is a no-op for the mock.
func (m *MockEventPublisher) Connect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ConnectCalled = true
	return nil
}

// SendEvent records the event for later verification.
func (m *MockEventPublisher) SendEvent(event events.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SentEvents = append(m.SentEvents, event)
	return nil
}

// Listen returns the channel fed by Push.
func (m *MockEventPublisher) Listen(ctx context.Context) (<-chan events.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListenCalls++
	return m.incoming, nil
}

// Subscribe records the requested channels.
func (m *MockEventPublisher) Subscribe(channels ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SubscriptionHistory = append(m.SubscriptionHistory, channels)
	return nil
}

// Close marks the publisher as closed.
func (m *MockEventPublisher) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCalled = true
	return nil
}

// Push delivers an event to whoever is listening.
func (m *MockEventPublisher) Push(ev events.Event) {
	m.incoming <- ev
}

// EventCount returns the total number of events sent.
func (m *MockEventPublisher) EventCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SentEvents)
}

// LastSubscription returns the most recent channel set.
func (m *MockEventPublisher) LastSubscription() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.SubscriptionHistory) == 0 {
		return nil
	}
	return m.SubscriptionHistory[len(m.SubscriptionHistory)-1]
}

// Compile-time interface verification
var _ events.EventPublisher = (*MockEventPublisher)(nil)
