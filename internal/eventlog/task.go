// Package eventlog publishes Task events as structured log entries.
package eventlog

import (
	"bytes"
	"context"
	"encoding/json"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/sanLimbu/task-manager/internal"
)

const otelName = "github.com/sanLimbu/task-manager/internal/eventlog"

// Task represents the repository used for publishing Task records.
type Task[D internal.Details] struct {
	logger *zap.Logger
	topic  string
}

type event[D internal.Details] struct {
	Type  string     `json:"type"`
	Value payload[D] `json:"value"`
}

type payload[D internal.Details] struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Priority    string `json:"priority,omitempty"`
	Status      string `json:"status,omitempty"`
	Assignee    string `json:"assignee,omitempty"`
	Completed   bool   `json:"completed"`
	Details     *D     `json:"details,omitempty"`
}

// NewTask instantiates the Task repository
func NewTask[D internal.Details](logger *zap.Logger, topic string) *Task[D] {
	return &Task[D]{
		logger: logger,
		topic:  topic,
	}
}

// Created publishes a message indicating a task was created.
func (t *Task[D]) Created(ctx context.Context, task internal.Task[D]) error {
	return t.publish(ctx, "Task.Created", "tasks.event.created", newPayload(task))
}

// Deleted publishes a message indicating a task was deleted.
func (t *Task[D]) Deleted(ctx context.Context, id string) error {
	var details D

	return t.publish(ctx, "Task.Deleted", "tasks.event.deleted", payload[D]{ID: id, Kind: details.Kind().String()})
}

// Updated publishes a message indicating a task was updated.
func (t *Task[D]) Updated(ctx context.Context, task internal.Task[D]) error {
	return t.publish(ctx, "Task.Updated", "tasks.event.updated", newPayload(task))
}

func (t *Task[D]) publish(ctx context.Context, spanName, msgType string, value payload[D]) error {
	_, span := otel.Tracer(otelName).Start(ctx, spanName)
	defer span.End()

	span.SetAttributes(
		attribute.String("messaging.system", "eventlog"),
		attribute.String("messaging.destination", t.topic),
	)

	var b bytes.Buffer

	evt := event[D]{
		Type:  msgType,
		Value: value,
	}

	if err := json.NewEncoder(&b).Encode(evt); err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "json.Encode")
	}

	t.logger.Info("task event",
		zap.String("topic", t.topic),
		zap.String("type", msgType),
		zap.String("task_id", value.ID),
		zap.ByteString("payload", bytes.TrimSpace(b.Bytes())),
	)

	return nil
}

func newPayload[D internal.Details](task internal.Task[D]) payload[D] {
	details := task.Details

	return payload[D]{
		ID:          task.ID,
		Kind:        task.Kind().String(),
		Name:        task.Name,
		Description: task.Description,
		Priority:    task.Priority.String(),
		Status:      task.Status.String(),
		Assignee:    task.Assignee,
		Completed:   task.Completed,
		Details:     &details,
	}
}
