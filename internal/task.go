package internal

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const completedMarker = " ✓"

// Kind identifies the variant of a Task.
type Kind uint8

const (
	KindGeneral Kind = iota + 1
	KindPersonal
	KindWork
)

func (k Kind) String() string {
	switch k {
	case KindGeneral:
		return "general"
	case KindPersonal:
		return "personal"
	case KindWork:
		return "work"
	}

	return "unknown"
}

// Details is the variant specific part of a Task, it determines the extra fields a Task carries and how its
// summary line is rendered.
type Details interface {
	Kind() Kind
	Summary(b Base) string
	Validate() error
}

// Base holds the fields shared by every Task variant.
type Base struct {
	ID          string
	Name        string
	Description string
	Priority    Priority
	Status      Status
	Assignee    string
	Completed   bool
}

// Validate checks the fields shared by every variant.
func (b Base) Validate() error {
	if err := validation.ValidateStruct(&b,
		validation.Field(&b.ID, validation.Required),
		validation.Field(&b.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&b.Priority, validation.Required),
		validation.Field(&b.Status, validation.Required),
	); err != nil {
		return WrapErrorf(err, ErrorCodeInvalidArgument, "invalid values")
	}

	return nil
}

// Task is an activity that needs to be completed, D selects the variant.
type Task[D Details] struct {
	Base
	Details D
}

func (t *Task[D]) MarkComplete() {
	t.Completed = true
}

func (t *Task[D]) MarkIncomplete() {
	t.Completed = false
}

func (t Task[D]) IsCompleted() bool {
	return t.Completed
}

// Kind returns the variant of the task.
func (t Task[D]) Kind() Kind {
	return t.Details.Kind()
}

// Summary renders a one line human readable description of the task.
func (t Task[D]) Summary() string {
	return t.Details.Summary(t.Base)
}

// Validate checks both the shared fields and the variant details.
func (t Task[D]) Validate() error {
	if err := t.Base.Validate(); err != nil {
		return err
	}

	if err := t.Details.Validate(); err != nil {
		return WrapErrorf(err, ErrorCodeInvalidArgument, "invalid %s details", t.Details.Kind())
	}

	return nil
}

// CreateParams defines the arguments used for creating Task records.
type CreateParams[D Details] struct {
	Name        string
	Description string
	Priority    Priority
	Assignee    string
	Details     D
}

// Validate checks the user supplied fields, the ID and status are assigned later.
func (c CreateParams[D]) Validate() error {
	if err := validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&c.Priority, validation.Required),
		validation.Field(&c.Assignee, validation.Length(0, 255)),
	); err != nil {
		return WrapErrorf(err, ErrorCodeInvalidArgument, "invalid values")
	}

	if err := c.Details.Validate(); err != nil {
		return WrapErrorf(err, ErrorCodeInvalidArgument, "invalid %s details", c.Details.Kind())
	}

	return nil
}

// General is the single-shape variant: no extra fields, the status and assignee are part of the summary.
type General struct{}

func (General) Kind() Kind { return KindGeneral }

// Summary renders "ID Name (Label Priority) [STATUS]", followed by the assignee when set.
func (General) Summary(b Base) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s %s (%s Priority) [%s]", b.ID, b.Name, b.Priority.Label(), b.Status)

	if b.Assignee != "" {
		sb.WriteString(" -> ")
		sb.WriteString(b.Assignee)
	}

	if b.Completed {
		sb.WriteString(completedMarker)
	}

	return sb.String()
}

func (General) Validate() error { return nil }

// Personal is a task done somewhere in particular.
type Personal struct {
	Location string
}

func (Personal) Kind() Kind { return KindPersonal }

// Summary renders "Name @ Location (Label Priority)".
func (p Personal) Summary(b Base) string {
	return fmt.Sprintf("%s @ %s (%s Priority)%s", b.Name, p.Location, b.Priority.Label(), marker(b))
}

func (p Personal) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Location, validation.Length(0, 255)),
	)
}

// Work is a task that belongs to a project.
type Work struct {
	Project string
}

func (Work) Kind() Kind { return KindWork }

// Summary renders "[Project] Name (Label Priority)".
func (w Work) Summary(b Base) string {
	return fmt.Sprintf("[%s] %s (%s Priority)%s", w.Project, b.Name, b.Priority.Label(), marker(b))
}

func (w Work) Validate() error {
	return validation.ValidateStruct(&w,
		validation.Field(&w.Project, validation.Length(0, 255)),
	)
}

func marker(b Base) string {
	if b.Completed {
		return completedMarker
	}

	return ""
}
