package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Client is a connection to the tempo daemon.
// It handles event sending, receiving, batching, reconnection, and subscriptions.
type Client struct {
	socketPath string
	conn       net.Conn
	encoder    *json.Encoder
	decoder    *json.Decoder
	mu         sync.Mutex

	// Batching of database change events
	eventQueue chan Event
	debounce   time.Duration
	closed     bool

	// Reconnection configuration
	maxRetries int
	baseDelay  time.Duration

	// Subscription state, resent on every (re)connect
	channels []string

	lastSequence int64

	ctx    context.Context
	cancel context.CancelFunc

	batcherDone chan struct{}
}

// NewClient creates a new event client but does not connect.
// The socket path should be the full path to the Unix domain socket.
// Database change events are batched over TEMPO_EVENT_DEBOUNCE_MS (default 100ms).
func NewClient(socketPath string) (*Client, error) {
	if socketPath == "" {
		return nil, fmt.Errorf("socket path is empty")
	}

	debounceMs := 100
	if envVal := os.Getenv("TEMPO_EVENT_DEBOUNCE_MS"); envVal != "" {
		if parsed, err := strconv.Atoi(envVal); err == nil && parsed > 0 {
			debounceMs = parsed
		}
	}

	ctx, cancel := context.WithCancel(context.Background())

	c := &Client{
		socketPath:  socketPath,
		eventQueue:  make(chan Event, 100),
		debounce:    time.Duration(debounceMs) * time.Millisecond,
		maxRetries:  5,
		baseDelay:   1 * time.Second,
		ctx:         ctx,
		cancel:      cancel,
		batcherDone: make(chan struct{}),
	}
	go c.startBatcher()
	return c, nil
}

// Connect establishes a connection to the daemon socket
// and sends the current subscription.
func (c *Client) Connect(ctx context.Context) error {
	if c == nil {
		return ErrNilClient
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	dialer := net.Dialer{}
	conn, err := dialer.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return fmt.Errorf("failed to dial daemon socket: %w", ClassifyDaemonError(err))
	}

	c.conn = conn
	c.encoder = json.NewEncoder(conn)
	c.decoder = json.NewDecoder(conn)
	c.lastSequence = 0

	if err := c.encoder.Encode(c.subscribeMessage()); err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			slog.Warn("error closing connection", "error", closeErr)
		}
		c.conn = nil
		return fmt.Errorf("failed to send subscription: %w", err)
	}

	return nil
}

// SendEvent sends an event to the daemon.
// Database change events are queued and coalesced within the debounce window;
// every other event is written immediately so ordering is preserved.
func (c *Client) SendEvent(event Event) error {
	if c == nil {
		return ErrNilClient
	}

	if event.Type != EventDatabaseChanged {
		if event.Timestamp.IsZero() {
			event.Timestamp = time.Now()
		}
		return c.writeMessage(Message{Type: "event", Event: &event})
	}

	// held so Close cannot close the queue mid-send
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrNotConnected
	}

	select {
	case c.eventQueue <- event:
		return nil
	default:
		return ErrQueueFull
	}
}

// startBatcher batches database change events from the queue.
// It sends a single event every debounce duration if any events are pending.
// If changes to several entities are batched together, the sent event has an empty entity.
func (c *Client) startBatcher() {
	defer close(c.batcherDone)

	ticker := time.NewTicker(c.debounce)
	defer ticker.Stop()

	var pending bool
	var change Change
	var hasMultiple bool

	track := func(ev Event) {
		var next Change
		if err := json.Unmarshal(ev.Payload, &next); err != nil {
			hasMultiple = true
			return
		}
		if !pending {
			pending = true
			change = next
			hasMultiple = false
			return
		}
		if next != change {
			hasMultiple = true
		}
	}

	flushPending := func() {
		if !pending {
			return
		}
		batch := change
		if hasMultiple {
			batch = Change{}
		}
		ev := NewChangeEvent(batch.Entity, batch.ID)
		if err := c.writeMessage(Message{Type: "event", Event: &ev}); err != nil {
			if !isConnectionError(err) && !errors.Is(err, ErrNotConnected) {
				slog.Warn("failed to send batched event", "error", err)
			}
		}
		pending = false
	}

	for {
		select {
		case <-c.ctx.Done():
			flushPending()
			return

		case event, ok := <-c.eventQueue:
			if !ok {
				flushPending()
				return
			}
			track(event)

			// Drain anything else queued during this batch window
		drainLoop:
			for {
				select {
				case evt, ok := <-c.eventQueue:
					if !ok {
						break drainLoop
					}
					track(evt)
				default:
					break drainLoop
				}
			}

		case <-ticker.C:
			flushPending()
		}
	}
}

// writeMessage encodes msg on the daemon socket
func (c *Client) writeMessage(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return ErrNotConnected
	}

	// A short write deadline detects dead connections
	if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
		return fmt.Errorf("connection error: %w", err)
	}

	msg.Version = ProtocolVersion
	return c.encoder.Encode(msg)
}

// Listen starts listening for events from the daemon.
// It returns a channel that receives events and handles reconnection automatically.
// The channel is closed when ctx is done or reconnection fails.
func (c *Client) Listen(ctx context.Context) (<-chan Event, error) {
	if c == nil {
		ch := make(chan Event)
		close(ch)
		return ch, ErrNilClient
	}

	eventChan := make(chan Event, 10)
	go c.listenLoop(ctx, eventChan)
	return eventChan, nil
}

func (c *Client) listenLoop(ctx context.Context, eventChan chan Event) {
	defer close(eventChan)

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.ctx.Done():
			return
		default:
		}

		err := c.readEvents(ctx, eventChan)
		if err == nil || ctx.Err() != nil || c.ctx.Err() != nil {
			return
		}

		slog.Warn("connection to daemon lost, reconnecting", "error", err)
		if !c.reconnect(ctx) {
			slog.Error("failed to reconnect to daemon, giving up", "attempts", c.maxRetries)
			return
		}
		slog.Info("reconnected to daemon")
	}
}

// readEvents reads messages from the socket and sends events to eventChan
func (c *Client) readEvents(ctx context.Context, eventChan chan Event) error {
	for {
		var msg Message

		c.mu.Lock()
		if c.conn == nil {
			c.mu.Unlock()
			return ErrNotConnected
		}
		// Pings arrive every 30s, so 60s of silence means the connection is gone
		if err := c.conn.SetReadDeadline(time.Now().Add(60 * time.Second)); err != nil {
			c.mu.Unlock()
			return fmt.Errorf("failed to set read deadline: %w", err)
		}
		decoder := c.decoder
		c.mu.Unlock()

		if err := decoder.Decode(&msg); err != nil {
			return fmt.Errorf("failed to decode message: %w", err)
		}

		if msg.Version != 0 && msg.Version != ProtocolVersion {
			slog.Warn("protocol version mismatch", "got", msg.Version, "want", ProtocolVersion)
		}

		switch msg.Type {
		case "event":
			if msg.Event == nil {
				continue
			}
			// Drop duplicates and replays
			c.mu.Lock()
			fresh := msg.Event.SequenceID > c.lastSequence
			if fresh {
				c.lastSequence = msg.Event.SequenceID
			}
			c.mu.Unlock()

			if fresh {
				select {
				case eventChan <- *msg.Event:
				case <-ctx.Done():
					return nil
				}
			}

		case "ping":
			if err := c.writeMessage(Message{Type: "pong"}); err != nil {
				// Broken pipe during disconnection is expected
				if !isConnectionError(err) {
					slog.Warn("failed to send pong", "error", err)
				}
			}
		}
	}
}

// isConnectionError checks if an error is a network connection error
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, net.ErrClosed) {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "broken pipe") ||
		strings.Contains(errStr, "connection reset")
}

// reconnect attempts to reconnect to the daemon with exponential backoff.
// It tries up to maxRetries times, doubling the delay each time.
func (c *Client) reconnect(ctx context.Context) bool {
	delay := c.baseDelay

	for i := 0; i < c.maxRetries; i++ {
		select {
		case <-ctx.Done():
			return false
		case <-c.ctx.Done():
			return false
		case <-time.After(delay):
			c.mu.Lock()
			if c.conn != nil {
				if err := c.conn.Close(); err != nil && !isConnectionError(err) {
					slog.Warn("error closing connection during reconnect", "error", err)
				}
				c.conn = nil
			}
			c.mu.Unlock()

			if err := c.Connect(ctx); err == nil {
				slog.Info("reconnected to daemon", "attempt", i+1, "max_retries", c.maxRetries)
				return true
			}

			slog.Debug("reconnection attempt failed", "attempt", i+1, "max_retries", c.maxRetries, "retry_in", delay)
			delay *= 2 // 1s, 2s, 4s, 8s, 16s
		}
	}

	return false
}

// Subscribe replaces the set of channels this client receives.
// No channels means every channel.
func (c *Client) Subscribe(channels ...string) error {
	if c == nil {
		return ErrNilClient
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.channels = append([]string(nil), channels...)

	if c.conn == nil {
		return ErrNotConnected
	}
	return c.encoder.Encode(c.subscribeMessage())
}

// subscribeMessage must be called with c.mu held
func (c *Client) subscribeMessage() Message {
	return Message{
		Version:   ProtocolVersion,
		Type:      "subscribe",
		Subscribe: &SubscribeMessage{Channels: append([]string(nil), c.channels...)},
	}
}

// Close closes the connection to the daemon and stops all goroutines.
// Pending database change events are flushed first.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	close(c.eventQueue)
	c.mu.Unlock()

	// batcher flushes and exits once the queue is closed
	<-c.batcherDone
	c.cancel()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		err := c.conn.Close()
		c.conn = nil
		return err
	}
	return nil
}
