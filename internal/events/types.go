package events

import (
	"encoding/json"
	"fmt"
	"time"
)

// ProtocolVersion is bumped whenever the wire format changes
const ProtocolVersion = 1

// EventType indicates what kind of event occurred
type EventType string

const (
	EventDatabaseChanged EventType = "db_changed"
	EventNotification    EventType = "notification"
	EventPing            EventType = "ping"
	EventPong            EventType = "pong"
)

// Well-known channels
const (
	ChannelDatabase           = "db://changed"
	ChannelToggleTimeProgress = "notification://toggle-time-progress"
)

// Entities reported in database change payloads
const (
	EntityRepeatTask = "repeat_task"
	EntityMatter     = "matter"
	EntityTag        = "tag"
)

// Event is a message delivered on a named channel
type Event struct {
	Type       EventType       `json:"type"`
	Channel    string          `json:"channel"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
	SequenceID int64           `json:"sequence_id"` // assigned by the daemon, monotonically increasing
}

// Change is the payload of a database change event.
// An empty Entity means several kinds of records changed at once.
type Change struct {
	Entity string `json:"entity"`
	ID     string `json:"id,omitempty"`
}

// SubscribeMessage is sent by clients to choose which channels they receive
type SubscribeMessage struct {
	Channels []string `json:"channels,omitempty"` // empty = all channels
}

// Message wraps events and control messages for the wire protocol
type Message struct {
	Version   int               `json:"version"`
	Type      string            `json:"type"` // "event", "subscribe", "ping", "pong", "status"
	Event     *Event            `json:"event,omitempty"`
	Subscribe *SubscribeMessage `json:"subscribe,omitempty"`
	Status    json.RawMessage   `json:"status,omitempty"`
}

// NewEvent builds an event with its payload encoded as JSON
func NewEvent(typ EventType, channel string, payload interface{}) (Event, error) {
	ev := Event{Type: typ, Channel: channel, Timestamp: time.Now()}
	if payload == nil {
		return ev, nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("failed to encode payload for %s: %w", channel, err)
	}
	ev.Payload = raw
	return ev, nil
}

// NewChangeEvent builds a database change event for one record
func NewChangeEvent(entity, id string) Event {
	raw, _ := json.Marshal(Change{Entity: entity, ID: id})
	return Event{
		Type:      EventDatabaseChanged,
		Channel:   ChannelDatabase,
		Payload:   raw,
		Timestamp: time.Now(),
	}
}

// DecodePayload unmarshals the event payload into v
func (e Event) DecodePayload(v interface{}) error {
	if len(e.Payload) == 0 {
		return fmt.Errorf("event on %s has no payload", e.Channel)
	}
	return json.Unmarshal(e.Payload, v)
}

// Subscribed reports whether a subscription to channels includes channel.
// An empty subscription matches every channel.
func Subscribed(channels []string, channel string) bool {
	if len(channels) == 0 {
		return true
	}
	for _, c := range channels {
		if c == channel {
			return true
		}
	}
	return false
}
