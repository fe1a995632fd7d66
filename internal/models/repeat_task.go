package models

import (
	"fmt"
	"strings"
	"time"
)

// RepeatTaskStatus toggles whether a repeat task is still producing matters
type RepeatTaskStatus int

const (
	RepeatTaskInactive RepeatTaskStatus = 0
	RepeatTaskActive   RepeatTaskStatus = 1
)

// String returns "active" or "inactive"
func (s RepeatTaskStatus) String() string {
	if s == RepeatTaskActive {
		return "active"
	}
	return "inactive"
}

// ParseRepeatTaskStatus accepts 0/1 or inactive/active
func ParseRepeatTaskStatus(s string) (RepeatTaskStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "active":
		return RepeatTaskActive, true
	case "0", "inactive":
		return RepeatTaskInactive, true
	}
	return RepeatTaskInactive, false
}

// RepeatTask is a recurring task definition.
// RepeatTime has the form "weekday-spec|HH:MM|HH:MM", e.g. "MON,WED|08:00|10:00".
type RepeatTask struct {
	ID          string           `json:"id"`
	Title       string           `json:"title" validate:"required,max=200"`
	Description string           `json:"description"`
	Tags        string           `json:"tags"`
	RepeatTime  string           `json:"repeat_time" validate:"required"`
	Priority    Priority         `json:"priority" validate:"min=0,max=2"`
	Status      RepeatTaskStatus `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// GetID returns the task ID (used by quiet CLI output)
func (t *RepeatTask) GetID() string {
	return t.ID
}

// RepeatTime is the parsed form of RepeatTask.RepeatTime
type RepeatTime struct {
	Weekdays string
	Start    Clock
	End      Clock
}

// Clock is a wall-clock time of day
type Clock struct {
	Hour   int
	Minute int
}

// On returns the instant at this clock time on the calendar day of ref, in ref's location
func (c Clock) On(ref time.Time) time.Time {
	y, m, d := ref.Date()
	return time.Date(y, m, d, c.Hour, c.Minute, 0, 0, ref.Location())
}

// String formats the clock as HH:MM
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// OnWeekday reports whether the weekday spec covers d. Tokens are
// comma-separated three-letter day names; an empty spec or "*" means daily.
func (r RepeatTime) OnWeekday(d time.Weekday) bool {
	spec := strings.TrimSpace(r.Weekdays)
	if spec == "" || spec == "*" {
		return true
	}

	want := strings.ToUpper(d.String()[:3])
	for _, tok := range strings.Split(spec, ",") {
		if strings.ToUpper(strings.TrimSpace(tok)) == want {
			return true
		}
	}
	return false
}

// ParseRepeatTime splits a repeat_time string into its three parts.
// It fails unless there are exactly three pipe-delimited components.
func ParseRepeatTime(s string) (RepeatTime, error) {
	parts := strings.Split(s, "|")
	if len(parts) != 3 {
		return RepeatTime{}, fmt.Errorf("%w: %q has %d parts, want 3", ErrInvalidRepeatTime, s, len(parts))
	}

	start, err := ParseClock(parts[1])
	if err != nil {
		return RepeatTime{}, err
	}
	end, err := ParseClock(parts[2])
	if err != nil {
		return RepeatTime{}, err
	}

	return RepeatTime{Weekdays: parts[0], Start: start, End: end}, nil
}

// ParseClock parses "HH:MM"
func ParseClock(s string) (Clock, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return Clock{}, fmt.Errorf("%w: clock %q", ErrInvalidRepeatTime, s)
	}
	return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
}
