package models

import "time"

// MatterType discriminates where a matter came from
type MatterType int

const (
	MatterNormal     MatterType = 0
	MatterRepeatTask MatterType = 1
	MatterTodo       MatterType = 2
	MatterCalendar   MatterType = 3
)

// Matter is a single scheduled calendar entry.
// Reserved1 carries the UI color label and Reserved2 the originating repeat task ID
// when Type is MatterRepeatTask.
type Matter struct {
	ID          string     `json:"id"`
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	Tags        string     `json:"tags"`
	StartTime   time.Time  `json:"start_time" validate:"required"`
	EndTime     time.Time  `json:"end_time" validate:"required,gtefield=StartTime"`
	Priority    Priority   `json:"priority"`
	Type        MatterType `json:"type_"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Reserved1   string     `json:"reserved_1,omitempty"`
	Reserved2   string     `json:"reserved_2,omitempty"`
	Reserved3   string     `json:"reserved_3,omitempty"`
	Reserved4   string     `json:"reserved_4,omitempty"`
	Reserved5   string     `json:"reserved_5,omitempty"`
}

// GetID returns the matter ID
func (m *Matter) GetID() string {
	return m.ID
}

// Color returns the UI color label
func (m *Matter) Color() string {
	return m.Reserved1
}

// SourceTaskID returns the repeat task this matter was derived from, if any
func (m *Matter) SourceTaskID() string {
	if m.Type != MatterRepeatTask {
		return ""
	}
	return m.Reserved2
}
