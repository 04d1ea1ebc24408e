// Package memory implements the in-process Task store. Records live only as long as the process does.
package memory

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/sanLimbu/task-manager/internal"
)

const otelName = "github.com/sanLimbu/task-manager/internal/memory"

func newOTELSpan(ctx context.Context, name string, kind internal.Kind) trace.Span {
	_, span := otel.Tracer(otelName).Start(ctx, name)

	span.SetAttributes(
		attribute.String("db.system", "memory"),
		attribute.String("task.kind", kind.String()),
	)

	return span
}

func errRequiredID() error {
	return internal.NewErrorf(internal.ErrorCodeInvalidArgument, "id is required")
}

func errNotFound(id string) error {
	return internal.NewErrorf(internal.ErrorCodeNotFound, "task %q not found", id)
}
