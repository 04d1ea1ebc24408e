package service

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"

	"github.com/sanLimbu/task-manager/internal"
	"github.com/sanLimbu/task-manager/internal/idgen"
)

const otelName = "github.com/sanLimbu/task-manager/internal/service"

// TaskRepository defines the datastore handling Task records of one variant.
type TaskRepository[D internal.Details] interface {
	Add(ctx context.Context, task internal.Task[D]) error
	Find(ctx context.Context, id string) (internal.Task[D], error)
	List(ctx context.Context) []internal.Task[D]
	ByStatus(ctx context.Context, status internal.Status) []internal.Task[D]
	ByPriority(ctx context.Context, priority internal.Priority) []internal.Task[D]
	ByAssignee(ctx context.Context, assignee string) []internal.Task[D]
	Search(ctx context.Context, query string) []internal.Task[D]
	UpdateStatus(ctx context.Context, id string, status internal.Status) error
	UpdatePriority(ctx context.Context, id string, priority internal.Priority) error
	Assign(ctx context.Context, id string, assignee string) error
	MarkComplete(ctx context.Context, id string) error
	MarkIncomplete(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Count() int
}

// TaskMessageBrokerRepository defines the destination of Task events.
type TaskMessageBrokerRepository[D internal.Details] interface {
	Created(ctx context.Context, task internal.Task[D]) error
	Deleted(ctx context.Context, id string) error
	Updated(ctx context.Context, task internal.Task[D]) error
}

// Task defines the application service in charge of interacting with Tasks.
type Task[D internal.Details] struct {
	logger    *zap.Logger
	repo      TaskRepository[D]
	ids       idgen.Generator
	msgBroker TaskMessageBrokerRepository[D]
	kind      attribute.KeyValue
	created   metric.Int64Counter
	updated   metric.Int64Counter
	deleted   metric.Int64Counter
}

// NewTask instantiates the Task service. ids is shared by every service that should draw from the same
// numbering.
func NewTask[D internal.Details](logger *zap.Logger, repo TaskRepository[D], ids idgen.Generator, msgBroker TaskMessageBrokerRepository[D]) *Task[D] {
	var details D

	t := &Task[D]{
		logger:    logger,
		repo:      repo,
		ids:       ids,
		msgBroker: msgBroker,
		kind:      attribute.String("task.kind", details.Kind().String()),
	}

	t.registerMetrics()

	return t
}

func (t *Task[D]) registerMetrics() {
	meter := otel.Meter(otelName)

	counter := func(name, desc string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc))
		if err != nil {
			t.logger.Warn("meter.Int64Counter", zap.String("name", name), zap.Error(err))
			return noop.Int64Counter{}
		}

		return c
	}

	t.created = counter("tasks.created", "Number of tasks created")
	t.updated = counter("tasks.updated", "Number of task updates applied")
	t.deleted = counter("tasks.deleted", "Number of tasks deleted")

	if _, err := meter.Int64ObservableGauge("tasks.stored",
		metric.WithDescription("Number of tasks currently stored"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			o.Observe(int64(t.repo.Count()), metric.WithAttributes(t.kind))
			return nil
		}),
	); err != nil {
		t.logger.Warn("meter.Int64ObservableGauge", zap.Error(err))
	}
}

// Create stores a new record, the ID is assigned only after the params are known to be valid.
func (t *Task[D]) Create(ctx context.Context, params internal.CreateParams[D]) (internal.Task[D], error) {
	ctx, span := otel.Tracer(otelName).Start(ctx, "Task.Create")
	defer span.End()

	params.Name = strings.TrimSpace(params.Name)

	if err := params.Validate(); err != nil {
		return internal.Task[D]{}, fmt.Errorf("params.Validate: %w", err)
	}

	task := internal.Task[D]{
		Base: internal.Base{
			ID:          t.ids.Next(),
			Name:        params.Name,
			Description: params.Description,
			Priority:    params.Priority,
			Status:      internal.StatusTodo,
			Assignee:    params.Assignee,
		},
		Details: params.Details,
	}

	if err := t.repo.Add(ctx, task); err != nil {
		return internal.Task[D]{}, fmt.Errorf("repo add: %w", err)
	}

	t.created.Add(ctx, 1, metric.WithAttributes(t.kind))
	t.logger.Info("task created", zap.String("id", task.ID), zap.Stringer("priority", task.Priority))

	if err := t.msgBroker.Created(ctx, task); err != nil {
		t.logger.Warn("msgBroker.Created", zap.String("id", task.ID), zap.Error(err))
	}

	return task, nil
}

// Task gets an existing Task from the datastore.
func (t *Task[D]) Task(ctx context.Context, id string) (internal.Task[D], error) {
	ctx, span := otel.Tracer(otelName).Start(ctx, "Task.Task")
	defer span.End()

	task, err := t.repo.Find(ctx, id)
	if err != nil {
		return internal.Task[D]{}, fmt.Errorf("repo find: %w", err)
	}

	return task, nil
}

// All returns every Task in insertion order.
func (t *Task[D]) All(ctx context.Context) []internal.Task[D] {
	ctx, span := otel.Tracer(otelName).Start(ctx, "Task.All")
	defer span.End()

	return t.repo.List(ctx)
}

// Search returns the Tasks whose name contains query.
func (t *Task[D]) Search(ctx context.Context, query string) []internal.Task[D] {
	ctx, span := otel.Tracer(otelName).Start(ctx, "Task.Search")
	defer span.End()

	return t.repo.Search(ctx, query)
}

// ByStatus returns the tasks in the given status.
func (t *Task[D]) ByStatus(ctx context.Context, status internal.Status) []internal.Task[D] {
	ctx, span := otel.Tracer(otelName).Start(ctx, "Task.ByStatus")
	defer span.End()

	return t.repo.ByStatus(ctx, status)
}

// ByPriority returns the tasks with the given priority.
func (t *Task[D]) ByPriority(ctx context.Context, priority internal.Priority) []internal.Task[D] {
	ctx, span := otel.Tracer(otelName).Start(ctx, "Task.ByPriority")
	defer span.End()

	return t.repo.ByPriority(ctx, priority)
}

// ByAssignee returns the tasks assigned to assignee.
func (t *Task[D]) ByAssignee(ctx context.Context, assignee string) []internal.Task[D] {
	ctx, span := otel.Tracer(otelName).Start(ctx, "Task.ByAssignee")
	defer span.End()

	return t.repo.ByAssignee(ctx, assignee)
}

// UpdateStatus changes the status and publishes the updated task.
func (t *Task[D]) UpdateStatus(ctx context.Context, id string, status internal.Status) error {
	ctx, span := otel.Tracer(otelName).Start(ctx, "Task.UpdateStatus")
	defer span.End()

	if err := t.repo.UpdateStatus(ctx, id, status); err != nil {
		return fmt.Errorf("repo update status: %w", err)
	}

	t.afterUpdate(ctx, id, "status")

	return nil
}

// UpdatePriority changes the priority and publishes the updated task.
func (t *Task[D]) UpdatePriority(ctx context.Context, id string, priority internal.Priority) error {
	ctx, span := otel.Tracer(otelName).Start(ctx, "Task.UpdatePriority")
	defer span.End()

	if err := t.repo.UpdatePriority(ctx, id, priority); err != nil {
		return fmt.Errorf("repo update priority: %w", err)
	}

	t.afterUpdate(ctx, id, "priority")

	return nil
}

// Assign sets the assignee, surrounding whitespace is trimmed.
func (t *Task[D]) Assign(ctx context.Context, id string, assignee string) error {
	ctx, span := otel.Tracer(otelName).Start(ctx, "Task.Assign")
	defer span.End()

	if err := t.repo.Assign(ctx, id, strings.TrimSpace(assignee)); err != nil {
		return fmt.Errorf("repo assign: %w", err)
	}

	t.afterUpdate(ctx, id, "assignee")

	return nil
}

// Complete sets or clears the completion flag.
func (t *Task[D]) Complete(ctx context.Context, id string, done bool) error {
	ctx, span := otel.Tracer(otelName).Start(ctx, "Task.Complete")
	defer span.End()

	mark := t.repo.MarkIncomplete
	if done {
		mark = t.repo.MarkComplete
	}

	if err := mark(ctx, id); err != nil {
		return fmt.Errorf("repo mark: %w", err)
	}

	t.afterUpdate(ctx, id, "completed")

	return nil
}

// Delete removes an existing Task from the datastore.
func (t *Task[D]) Delete(ctx context.Context, id string) error {
	ctx, span := otel.Tracer(otelName).Start(ctx, "Task.Delete")
	defer span.End()

	if err := t.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("repo delete: %w", err)
	}

	t.deleted.Add(ctx, 1, metric.WithAttributes(t.kind))
	t.logger.Info("task deleted", zap.String("id", id))

	if err := t.msgBroker.Deleted(ctx, id); err != nil {
		t.logger.Warn("msgBroker.Deleted", zap.String("id", id), zap.Error(err))
	}

	return nil
}

// Count returns the number of stored Tasks.
func (t *Task[D]) Count() int {
	return t.repo.Count()
}

func (t *Task[D]) afterUpdate(ctx context.Context, id, field string) {
	t.updated.Add(ctx, 1, metric.WithAttributes(t.kind, attribute.String("field", field)))
	t.logger.Info("task updated", zap.String("id", id), zap.String("field", field))

	task, err := t.repo.Find(ctx, id)
	if err != nil {
		return
	}

	if err := t.msgBroker.Updated(ctx, task); err != nil {
		t.logger.Warn("msgBroker.Updated", zap.String("id", id), zap.Error(err))
	}
}
