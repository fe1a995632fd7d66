// Package daemon relays tempo events between local processes over a Unix
// socket. Each event is delivered to the subscribers of its channel.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/thenoetrevino/tempo/internal/events"
)

// subscriber is one connected process
type subscriber struct {
	conn  net.Conn
	queue chan events.Message

	mu       sync.Mutex
	channels []string
	lastSeen time.Time
	closed   bool
}

func (sub *subscriber) wants(channel string) bool {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	return events.Subscribed(sub.channels, channel)
}

func (sub *subscriber) silentFor(now time.Time) time.Duration {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	return now.Sub(sub.lastSeen)
}

func (sub *subscriber) seen() {
	sub.mu.Lock()
	sub.lastSeen = time.Now()
	sub.mu.Unlock()
}

// send queues msg without blocking. It reports false when the queue is
// full or the subscriber is gone.
func (sub *subscriber) send(msg events.Message) bool {
	sub.mu.Lock()
	defer sub.mu.Unlock()

	if sub.closed {
		return false
	}
	select {
	case sub.queue <- msg:
		return true
	default:
		return false
	}
}

// close drops the connection and ends its writer
func (sub *subscriber) close() error {
	sub.mu.Lock()
	if !sub.closed {
		sub.closed = true
		close(sub.queue)
	}
	sub.mu.Unlock()

	return sub.conn.Close()
}

// Server is the tempo event daemon
type Server struct {
	socketPath string
	listener   net.Listener
	logger     *slog.Logger
	metrics    *Metrics

	mu          sync.RWMutex
	subscribers map[*subscriber]struct{}

	relay        chan events.Event
	sequence     atomic.Int64
	queueSize    int
	pingInterval time.Duration
	staleAfter   time.Duration

	ctx          context.Context
	cancel       context.CancelFunc
	shutdownOnce sync.Once
}

// NewServer listens on socketPath. A leftover socket file is removed unless
// a daemon still answers on it.
func NewServer(socketPath string, opts ...Option) (*Server, error) {
	if dir := filepath.Dir(socketPath); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create socket directory: %w", err)
		}
	}

	if err := clearSocket(socketPath); err != nil {
		return nil, err
	}

	listener, err := (&net.ListenConfig{}).Listen(context.Background(), "unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create socket listener: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		socketPath:   socketPath,
		listener:     listener,
		logger:       slog.Default(),
		metrics:      NewMetrics(),
		subscribers:  make(map[*subscriber]struct{}),
		relay:        make(chan events.Event, envInt("TEMPO_DAEMON_BROADCAST_BUFFER", defaultRelayQueue)),
		queueSize:    envInt("TEMPO_DAEMON_CLIENT_BUFFER", defaultClientQueue),
		pingInterval: defaultPingInterval,
		staleAfter:   defaultStaleAfter,
		ctx:          ctx,
		cancel:       cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func clearSocket(socketPath string) error {
	if _, err := os.Stat(socketPath); err != nil {
		return nil
	}

	conn, err := net.DialTimeout("unix", socketPath, 200*time.Millisecond)
	if err == nil {
		_ = conn.Close()
		return fmt.Errorf("%w: %s", ErrSocketInUse, socketPath)
	}

	if err := os.Remove(socketPath); err != nil {
		return fmt.Errorf("failed to remove stale socket: %w", err)
	}
	return nil
}

// Start serves until ctx is cancelled or Shutdown is called, then shuts down
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("daemon listening", "socket_path", s.socketPath)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-s.ctx.Done():
			cancel()
		case <-runCtx.Done():
		}
	}()

	acceptErr := make(chan error, 1)
	go func() { acceptErr <- s.accept() }()
	go s.fanOut(runCtx)
	go s.heartbeat(runCtx)

	select {
	case <-runCtx.Done():
	case err := <-acceptErr:
		if err != nil {
			s.logger.Error("accept failed", "error", err)
		}
	}

	return s.Shutdown()
}

// accept registers connections until the listener is closed
func (s *Server) accept() error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || s.ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}

		sub := &subscriber{
			conn:     conn,
			queue:    make(chan events.Message, s.queueSize),
			lastSeen: time.Now(),
		}

		s.mu.Lock()
		s.subscribers[sub] = struct{}{}
		count := len(s.subscribers)
		s.mu.Unlock()
		s.metrics.SetConnectedClients(int32(count))

		s.logger.Debug("subscriber connected", "subscribers", count)

		go s.read(sub)
		go s.write(sub)
	}
}

// fanOut stamps queued events and hands them to matching subscribers
func (s *Server) fanOut(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-s.relay:
			ev.SequenceID = s.sequence.Add(1)
			if ev.Timestamp.IsZero() {
				ev.Timestamp = time.Now()
			}
			s.metrics.IncBroadcasts(ev.Channel)

			msg := events.Message{Version: events.ProtocolVersion, Type: "event", Event: &ev}
			for _, sub := range s.snapshot() {
				if !sub.wants(ev.Channel) {
					continue
				}
				if !s.deliver(sub, msg) {
					s.metrics.IncEventsDropped()
					s.logger.Warn("subscriber queue full, event dropped", "channel", ev.Channel)
				}
			}
		}
	}
}

// read handles messages from one subscriber until it disconnects
func (s *Server) read(sub *subscriber) {
	defer s.drop(sub)

	dec := json.NewDecoder(sub.conn)
	for {
		var msg events.Message
		if err := dec.Decode(&msg); err != nil {
			return
		}
		if msg.Version != 0 && msg.Version != events.ProtocolVersion {
			s.logger.Warn("protocol version mismatch", "got", msg.Version, "want", events.ProtocolVersion)
		}

		switch msg.Type {
		case "event":
			if msg.Event == nil {
				continue
			}
			s.metrics.IncEventsReceived()
			if err := s.Broadcast(*msg.Event); err != nil {
				s.logger.Warn("event not relayed", "channel", msg.Event.Channel, "error", err)
			}
		case "subscribe":
			if msg.Subscribe == nil {
				continue
			}
			sub.mu.Lock()
			sub.channels = msg.Subscribe.Channels
			sub.mu.Unlock()
			s.logger.Debug("subscriber channels", "channels", msg.Subscribe.Channels)
		case "pong":
			sub.seen()
		case "status":
			s.reportStatus(sub)
		}
	}
}

func (s *Server) reportStatus(sub *subscriber) {
	raw, err := json.Marshal(s.metrics.GetSnapshot())
	if err != nil {
		s.logger.Error("failed to encode status", "error", err)
		return
	}
	s.deliver(sub, events.Message{Version: events.ProtocolVersion, Type: "status", Status: raw})
}

// write drains a subscriber's queue onto its connection
func (s *Server) write(sub *subscriber) {
	enc := json.NewEncoder(sub.conn)
	for msg := range sub.queue {
		if err := enc.Encode(msg); err != nil {
			return
		}
	}
}

// heartbeat pings subscribers and drops the ones that stopped answering
func (s *Server) heartbeat(ctx context.Context) {
	ping := time.NewTicker(s.pingInterval)
	defer ping.Stop()
	reap := time.NewTicker(s.staleAfter / 3 * 2)
	defer reap.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ping.C:
			msg := events.Message{Version: events.ProtocolVersion, Type: "ping"}
			for _, sub := range s.snapshot() {
				if !s.deliver(sub, msg) {
					s.logger.Warn("ping not queued, subscriber queue full")
				}
			}

		case now := <-reap.C:
			for _, sub := range s.snapshot() {
				if sub.silentFor(now) > s.staleAfter {
					s.logger.Info("dropping stale subscriber")
					s.metrics.IncStaleClients()
					s.drop(sub)
				}
			}
		}
	}
}

// Metrics exposes the daemon's counters
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Broadcast queues event for delivery without blocking
func (s *Server) Broadcast(event events.Event) error {
	select {
	case s.relay <- event:
		return nil
	default:
		return ErrBroadcastFull
	}
}

// Shutdown stops the server, disconnects every subscriber and removes the
// socket file. Calling it again is a no-op.
func (s *Server) Shutdown() error {
	s.shutdownOnce.Do(func() {
		s.logger.Info("daemon shutting down")
		s.cancel()

		if err := s.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			s.logger.Warn("failed to close listener", "error", err)
		}

		s.mu.Lock()
		for sub := range s.subscribers {
			_ = sub.close()
		}
		s.subscribers = make(map[*subscriber]struct{})
		s.mu.Unlock()
		s.metrics.SetConnectedClients(0)

		if err := os.Remove(s.socketPath); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("failed to remove socket file", "error", err)
		}
	})
	return nil
}

func (s *Server) snapshot() []*subscriber {
	s.mu.RLock()
	defer s.mu.RUnlock()

	subs := make([]*subscriber, 0, len(s.subscribers))
	for sub := range s.subscribers {
		subs = append(subs, sub)
	}
	return subs
}

// drop unregisters sub and closes its connection
func (s *Server) drop(sub *subscriber) {
	s.mu.Lock()
	delete(s.subscribers, sub)
	count := len(s.subscribers)
	s.mu.Unlock()

	_ = sub.close()
	s.metrics.SetConnectedClients(int32(count))
}

// deliver queues msg for sub, reporting false when its queue is full
func (s *Server) deliver(sub *subscriber, msg events.Message) bool {
	if !sub.send(msg) {
		return false
	}
	s.metrics.IncEventsSent()
	return true
}
