package events

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Handler receives the raw JSON payload of an event
type Handler func(payload []byte)

// Bus fans events out to per-channel handlers.
// With a nil client it only dispatches events published in-process.
type Bus struct {
	client EventPublisher
	logger *slog.Logger

	mu        sync.Mutex
	handlers  map[string][]Handler
	listening bool
}

// NewBus creates a bus reading from client, which may be nil
func NewBus(client EventPublisher, logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		client:   client,
		logger:   logger,
		handlers: make(map[string][]Handler),
	}
}

// Listen registers handler for events on channel.
// The first call starts reading from the client until ctx is done.
func (b *Bus) Listen(ctx context.Context, channel string, handler func(payload []byte)) error {
	b.mu.Lock()
	b.handlers[channel] = append(b.handlers[channel], handler)
	channels := b.channelsLocked()
	start := !b.listening && b.client != nil
	if start {
		b.listening = true
	}
	b.mu.Unlock()

	if b.client == nil {
		return nil
	}

	if err := b.client.Subscribe(channels...); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", channel, err)
	}

	if !start {
		return nil
	}

	events, err := b.client.Listen(ctx)
	if err != nil {
		b.mu.Lock()
		b.listening = false
		b.mu.Unlock()
		return fmt.Errorf("failed to listen for events: %w", err)
	}

	go b.run(events)
	return nil
}

func (b *Bus) run(events <-chan Event) {
	for ev := range events {
		b.Dispatch(ev)
	}

	b.mu.Lock()
	b.listening = false
	b.mu.Unlock()
	b.logger.Debug("event stream closed")
}

// Dispatch delivers ev to the handlers registered for its channel
// and reports how many handlers ran
func (b *Bus) Dispatch(ev Event) int {
	b.mu.Lock()
	handlers := append([]Handler(nil), b.handlers[ev.Channel]...)
	b.mu.Unlock()

	for _, h := range handlers {
		h(ev.Payload)
	}

	if len(handlers) == 0 {
		b.logger.Debug("no handler for event", "channel", ev.Channel, "type", ev.Type)
	}
	return len(handlers)
}

// Publish sends payload on channel through the daemon, or dispatches it
// in-process when the bus has no client
func (b *Bus) Publish(channel string, payload interface{}) error {
	if b.client != nil {
		return Publish(b.client, channel, payload)
	}

	ev, err := NewEvent(EventNotification, channel, payload)
	if err != nil {
		return err
	}
	b.Dispatch(ev)
	return nil
}

// channelsLocked must be called with b.mu held
func (b *Bus) channelsLocked() []string {
	channels := make([]string, 0, len(b.handlers))
	for c := range b.handlers {
		channels = append(channels, c)
	}
	sort.Strings(channels)
	return channels
}
