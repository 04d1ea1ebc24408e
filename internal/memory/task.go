package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/sanLimbu/task-manager/internal"
)

// Task is an insertion ordered, in-memory store holding the Task records of one variant. It is safe for
// concurrent use; every value going in or out is a copy, callers never hold the stored record.
type Task[D internal.Details] struct {
	mu    sync.RWMutex
	tasks []internal.Task[D]
	kind  internal.Kind
}

// NewTask instantiates the Task repository.
func NewTask[D internal.Details]() *Task[D] {
	var zero D

	return &Task[D]{
		tasks: make([]internal.Task[D], 0),
		kind:  zero.Kind(),
	}
}

// Add appends a new record, its ID must not be in use already.
func (t *Task[D]) Add(ctx context.Context, task internal.Task[D]) error {
	defer newOTELSpan(ctx, "Task.Add", t.kind).End()

	if task.ID == "" {
		return errRequiredID()
	}

	if err := task.Validate(); err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeInvalidArgument, "task.Validate")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.indexOf(task.ID) >= 0 {
		return internal.NewErrorf(internal.ErrorCodeAlreadyExists, "task %q already exists", task.ID)
	}

	t.tasks = append(t.tasks, task)

	return nil
}

// Find returns the record with the given id.
func (t *Task[D]) Find(ctx context.Context, id string) (internal.Task[D], error) {
	defer newOTELSpan(ctx, "Task.Find", t.kind).End()

	if id == "" {
		return internal.Task[D]{}, errRequiredID()
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	i := t.indexOf(id)
	if i < 0 {
		return internal.Task[D]{}, errNotFound(id)
	}

	return t.tasks[i], nil
}

// List returns every record in insertion order.
func (t *Task[D]) List(ctx context.Context) []internal.Task[D] {
	defer newOTELSpan(ctx, "Task.List", t.kind).End()

	return t.filter(func(internal.Task[D]) bool { return true })
}

// ByStatus returns the records with the given status, values that are not a known Status match nothing.
func (t *Task[D]) ByStatus(ctx context.Context, status internal.Status) []internal.Task[D] {
	defer newOTELSpan(ctx, "Task.ByStatus", t.kind).End()

	return t.filter(func(task internal.Task[D]) bool { return task.Status == status })
}

// ByPriority returns the records with the given priority, values that are not a known Priority match nothing.
func (t *Task[D]) ByPriority(ctx context.Context, priority internal.Priority) []internal.Task[D] {
	defer newOTELSpan(ctx, "Task.ByPriority", t.kind).End()

	return t.filter(func(task internal.Task[D]) bool { return task.Priority == priority })
}

// ByAssignee returns the records assigned to assignee.
func (t *Task[D]) ByAssignee(ctx context.Context, assignee string) []internal.Task[D] {
	defer newOTELSpan(ctx, "Task.ByAssignee", t.kind).End()

	return t.filter(func(task internal.Task[D]) bool { return task.Assignee == assignee })
}

// Search returns the records whose name contains query, ignoring case. An empty query matches everything.
func (t *Task[D]) Search(ctx context.Context, query string) []internal.Task[D] {
	defer newOTELSpan(ctx, "Task.Search", t.kind).End()

	query = strings.ToLower(query)

	return t.filter(func(task internal.Task[D]) bool {
		return strings.Contains(strings.ToLower(task.Name), query)
	})
}

// UpdateStatus rejects unknown statuses before looking up id.
func (t *Task[D]) UpdateStatus(ctx context.Context, id string, status internal.Status) error {
	defer newOTELSpan(ctx, "Task.UpdateStatus", t.kind).End()

	if err := status.Validate(); err != nil {
		return err
	}

	return t.update(id, func(task *internal.Task[D]) { task.Status = status })
}

// UpdatePriority rejects unknown priorities before looking up id.
func (t *Task[D]) UpdatePriority(ctx context.Context, id string, priority internal.Priority) error {
	defer newOTELSpan(ctx, "Task.UpdatePriority", t.kind).End()

	if err := priority.Validate(); err != nil {
		return err
	}

	return t.update(id, func(task *internal.Task[D]) { task.Priority = priority })
}

func (t *Task[D]) Assign(ctx context.Context, id string, assignee string) error {
	defer newOTELSpan(ctx, "Task.Assign", t.kind).End()

	return t.update(id, func(task *internal.Task[D]) { task.Assignee = assignee })
}

func (t *Task[D]) MarkComplete(ctx context.Context, id string) error {
	defer newOTELSpan(ctx, "Task.MarkComplete", t.kind).End()

	return t.update(id, func(task *internal.Task[D]) { task.MarkComplete() })
}

func (t *Task[D]) MarkIncomplete(ctx context.Context, id string) error {
	defer newOTELSpan(ctx, "Task.MarkIncomplete", t.kind).End()

	return t.update(id, func(task *internal.Task[D]) { task.MarkIncomplete() })
}

// Delete removes the record with the given id.
func (t *Task[D]) Delete(ctx context.Context, id string) error {
	defer newOTELSpan(ctx, "Task.Delete", t.kind).End()

	if id == "" {
		return errRequiredID()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.indexOf(id)
	if i < 0 {
		return errNotFound(id)
	}

	t.tasks = append(t.tasks[:i], t.tasks[i+1:]...)

	return nil
}

// Count returns the number of stored records.
func (t *Task[D]) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.tasks)
}

func (t *Task[D]) update(id string, fn func(task *internal.Task[D])) error {
	if id == "" {
		return errRequiredID()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.indexOf(id)
	if i < 0 {
		return errNotFound(id)
	}

	fn(&t.tasks[i])

	return nil
}

func (t *Task[D]) filter(match func(task internal.Task[D]) bool) []internal.Task[D] {
	t.mu.RLock()
	defer t.mu.RUnlock()

	res := make([]internal.Task[D], 0, len(t.tasks))

	for _, task := range t.tasks {
		if match(task) {
			res = append(res, task)
		}
	}

	return res
}

// indexOf must be called with t.mu held.
func (t *Task[D]) indexOf(id string) int {
	for i := range t.tasks {
		if t.tasks[i].ID == id {
			return i
		}
	}

	return -1
}
