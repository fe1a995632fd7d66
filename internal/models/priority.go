package models

import "strings"

// Priority represents the urgency of a repeat task or matter
type Priority int

// Priority levels, matching the integer values persisted by the store
const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
)

// String returns the lowercase name of the priority
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	default:
		return "unknown"
	}
}

// Color maps a priority to the calendar color label shown by the UI.
// Unknown priorities fall back to the medium color.
func (p Priority) Color() string {
	switch p {
	case PriorityLow:
		return ColorGreen
	case PriorityHigh:
		return ColorRed
	default:
		return ColorBlue
	}
}

// ParsePriority maps a priority name or digit to its Priority
func ParsePriority(s string) (Priority, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "0":
		return PriorityLow, true
	case "medium", "1", "":
		return PriorityMedium, true
	case "high", "2":
		return PriorityHigh, true
	}
	return PriorityMedium, false
}

// Calendar color labels stored in Matter.Reserved1
const (
	ColorGreen = "green"
	ColorBlue  = "blue"
	ColorRed   = "red"
)
