package daemon

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics tracks daemon statistics. Counters are atomic; per-channel
// counts sit behind a mutex.
type Metrics struct {
	EventsSent       atomic.Int64
	EventsReceived   atomic.Int64
	EventsDropped    atomic.Int64
	Broadcasts       atomic.Int64
	StaleClients     atomic.Int64
	ConnectedClients atomic.Int32
	StartTime        time.Time

	mu         sync.Mutex
	perChannel map[string]int64
}

// NewMetrics creates a new Metrics instance
func NewMetrics() *Metrics {
	return &Metrics{
		StartTime:  time.Now(),
		perChannel: make(map[string]int64),
	}
}

func (m *Metrics) IncEventsSent()     { m.EventsSent.Add(1) }
func (m *Metrics) IncEventsReceived() { m.EventsReceived.Add(1) }
func (m *Metrics) IncEventsDropped()  { m.EventsDropped.Add(1) }
func (m *Metrics) IncStaleClients()   { m.StaleClients.Add(1) }

// IncBroadcasts counts one broadcast on channel
func (m *Metrics) IncBroadcasts(channel string) {
	m.Broadcasts.Add(1)

	m.mu.Lock()
	m.perChannel[channel]++
	m.mu.Unlock()
}

// SetConnectedClients sets the current connected clients count
func (m *Metrics) SetConnectedClients(count int32) {
	m.ConnectedClients.Store(count)
}

// MetricsSnapshot represents a point-in-time snapshot of metrics
type MetricsSnapshot struct {
	EventsSent       int64            `json:"events_sent"`
	EventsReceived   int64            `json:"events_received"`
	EventsDropped    int64            `json:"events_dropped"`
	Broadcasts       int64            `json:"broadcasts"`
	StaleClients     int64            `json:"stale_clients"`
	ConnectedClients int32            `json:"connected_clients"`
	PerChannel       map[string]int64 `json:"per_channel"`
	StartTime        time.Time        `json:"start_time"`
	Uptime           string           `json:"uptime"`
}

// GetSnapshot returns a copy of the current metrics
func (m *Metrics) GetSnapshot() MetricsSnapshot {
	m.mu.Lock()
	perChannel := make(map[string]int64, len(m.perChannel))
	for k, v := range m.perChannel {
		perChannel[k] = v
	}
	m.mu.Unlock()

	return MetricsSnapshot{
		EventsSent:       m.EventsSent.Load(),
		EventsReceived:   m.EventsReceived.Load(),
		EventsDropped:    m.EventsDropped.Load(),
		Broadcasts:       m.Broadcasts.Load(),
		StaleClients:     m.StaleClients.Load(),
		ConnectedClients: m.ConnectedClients.Load(),
		PerChannel:       perChannel,
		StartTime:        m.StartTime,
		Uptime:           time.Since(m.StartTime).Round(time.Second).String(),
	}
}
