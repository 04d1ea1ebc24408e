package internal

// Status indicates where a Task is in its workflow. Any status may be set to any other status.
type Status int8

const (
	StatusTodo Status = iota + 1
	StatusInProgress
	StatusDone
)

// Statuses returns every supported Status in workflow order.
func Statuses() []Status {
	return []Status{StatusTodo, StatusInProgress, StatusDone}
}

// ParseStatus converts the wire representation ("TODO", "in_progress", ...) into a Status.
func ParseStatus(s string) (Status, error) {
	switch normalize(s) {
	case "TODO":
		return StatusTodo, nil
	case "IN_PROGRESS", "INPROGRESS":
		return StatusInProgress, nil
	case "DONE":
		return StatusDone, nil
	}

	return Status(0), NewErrorf(ErrorCodeInvalidArgument, "unknown status %q", s)
}

// String returns the wire representation.
func (s Status) String() string {
	switch s {
	case StatusTodo:
		return "TODO"
	case StatusInProgress:
		return "IN_PROGRESS"
	case StatusDone:
		return "DONE"
	}

	return "INVALID"
}

// Validate returns an InvalidArgument error for values outside the known statuses.
func (s Status) Validate() error {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return nil
	}

	return NewErrorf(ErrorCodeInvalidArgument, "unknown status value")
}
