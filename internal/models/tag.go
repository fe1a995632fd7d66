package models

import "time"

// Tag is a free-form label shared by repeat tasks and matters.
// LastUsedAt is kept as the raw string returned by the store so that
// malformed values can be tolerated when sorting.
type Tag struct {
	Name       string `json:"name"`
	LastUsedAt string `json:"last_used_at"`
}

// LastUsed parses LastUsedAt. ok is false when the value is not a valid timestamp.
func (t Tag) LastUsed() (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02T15:04:05"} {
		if ts, err := time.Parse(layout, t.LastUsedAt); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
