package internal

import "strings"

// Priority indicates how important a Task is.
type Priority int8

const (
	PriorityLow Priority = iota + 1
	PriorityMedium
	PriorityHigh
)

// Priorities returns every supported Priority, lowest first.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// ParsePriority converts the wire representation ("LOW", "medium", ...) into a Priority.
func ParsePriority(s string) (Priority, error) {
	switch normalize(s) {
	case "LOW":
		return PriorityLow, nil
	case "MEDIUM":
		return PriorityMedium, nil
	case "HIGH":
		return PriorityHigh, nil
	}

	return Priority(0), NewErrorf(ErrorCodeInvalidArgument, "unknown priority %q", s)
}

// String returns the wire representation.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "LOW"
	case PriorityMedium:
		return "MEDIUM"
	case PriorityHigh:
		return "HIGH"
	}

	return "INVALID"
}

// Label returns the human readable name used when rendering summaries.
func (p Priority) Label() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	}

	return "Unknown"
}

// Validate returns an InvalidArgument error for values outside the known priorities.
func (p Priority) Validate() error {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return nil
	}

	return NewErrorf(ErrorCodeInvalidArgument, "unknown priority value")
}

func normalize(s string) string {
	return strings.NewReplacer("-", "_", " ", "_").Replace(strings.ToUpper(strings.TrimSpace(s)))
}
