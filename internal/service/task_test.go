package service_test

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sanLimbu/task-manager/internal"
	"github.com/sanLimbu/task-manager/internal/eventlog"
	"github.com/sanLimbu/task-manager/internal/idgen"
	"github.com/sanLimbu/task-manager/internal/memory"
	"github.com/sanLimbu/task-manager/internal/service"
)

type failingBroker[D internal.Details] struct{}

func (failingBroker[D]) Created(context.Context, internal.Task[D]) error { return errors.New("down") }
func (failingBroker[D]) Deleted(context.Context, string) error           { return errors.New("down") }
func (failingBroker[D]) Updated(context.Context, internal.Task[D]) error { return errors.New("down") }

func setupGeneral(t *testing.T, ids idgen.Generator) *service.Task[internal.General] {
	t.Helper()

	logger := zaptest.NewLogger(t)

	return service.NewTask[internal.General](logger,
		memory.NewTask[internal.General](),
		ids,
		eventlog.NewTask[internal.General](logger, "tasks"))
}

func createGeneral(t *testing.T, svc *service.Task[internal.General], name string, p internal.Priority, assignee string) internal.Task[internal.General] {
	t.Helper()

	task, err := svc.Create(context.Background(), internal.CreateParams[internal.General]{
		Name:     name,
		Priority: p,
		Assignee: assignee,
	})
	require.NoError(t, err)

	return task
}

func TestTask_Create(t *testing.T) {
	svc := setupGeneral(t, idgen.NewSequence("TASK"))
	ctx := context.Background()

	task := createGeneral(t, svc, "  Write spec ", internal.PriorityLow, "Jane")

	assert.Equal(t, "TASK-1", task.ID)
	assert.Equal(t, "Write spec", task.Name)
	assert.Equal(t, internal.StatusTodo, task.Status)
	assert.False(t, task.IsCompleted())

	found, err := svc.Task(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task, found)
}

func TestTask_CreateInvalid(t *testing.T) {
	seq := idgen.NewSequence("TASK")
	svc := setupGeneral(t, seq)

	tests := []struct {
		name   string
		params internal.CreateParams[internal.General]
	}{
		{name: "blank name", params: internal.CreateParams[internal.General]{Name: "   ", Priority: internal.PriorityLow}},
		{name: "missing priority", params: internal.CreateParams[internal.General]{Name: "Write spec"}},
		{name: "unknown priority", params: internal.CreateParams[internal.General]{Name: "Write spec", Priority: 12}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.params)

			var ierr *internal.Error
			require.True(t, errors.As(err, &ierr))
			assert.Equal(t, internal.ErrorCodeInvalidArgument, ierr.Code())
		})
	}

	assert.Equal(t, 0, svc.Count())
	assert.Equal(t, "TASK-1", seq.Next(), "rejected creations must not consume ids")
}

func TestTask_IDsSharedAcrossServices(t *testing.T) {
	seq := idgen.NewSequence("TASK")
	logger := zap.NewNop()
	ctx := context.Background()

	personal := service.NewTask[internal.Personal](logger, memory.NewTask[internal.Personal](), seq, eventlog.NewTask[internal.Personal](logger, "tasks"))
	work := service.NewTask[internal.Work](logger, memory.NewTask[internal.Work](), seq, eventlog.NewTask[internal.Work](logger, "tasks"))

	pattern := regexp.MustCompile(`^TASK-(\d+)$`)
	last := 0

	for i := 0; i < 6; i++ {
		var (
			id  string
			err error
		)

		if i%2 == 0 {
			var task internal.Task[internal.Personal]
			task, err = personal.Create(ctx, internal.CreateParams[internal.Personal]{
				Name:     fmt.Sprintf("personal %d", i),
				Priority: internal.PriorityMedium,
				Details:  internal.Personal{Location: "Home"},
			})
			id = task.ID
		} else {
			var task internal.Task[internal.Work]
			task, err = work.Create(ctx, internal.CreateParams[internal.Work]{
				Name:     fmt.Sprintf("work %d", i),
				Priority: internal.PriorityHigh,
				Details:  internal.Work{Project: "Apollo"},
			})
			id = task.ID
		}

		require.NoError(t, err)

		m := pattern.FindStringSubmatch(id)
		require.Len(t, m, 2, "unexpected id %q", id)

		n, _ := strconv.Atoi(m[1])
		assert.Greater(t, n, last)
		last = n
	}

	assert.Equal(t, 3, personal.Count())
	assert.Equal(t, 3, work.Count())
}

func TestTask_Scenario(t *testing.T) {
	svc := setupGeneral(t, idgen.NewSequence("TASK"))
	ctx := context.Background()

	task := createGeneral(t, svc, "Write spec", internal.PriorityLow, "Jane")

	all := svc.All(ctx)
	require.Len(t, all, 1)
	assert.Equal(t, internal.StatusTodo, all[0].Status)

	require.NoError(t, svc.UpdateStatus(ctx, task.ID, internal.StatusInProgress))

	inProgress := svc.ByStatus(ctx, internal.StatusInProgress)
	require.Len(t, inProgress, 1)
	assert.Equal(t, task.ID, inProgress[0].ID)

	require.NoError(t, svc.Assign(ctx, task.ID, "Bob"))

	bob := svc.ByAssignee(ctx, "Bob")
	require.Len(t, bob, 1)
	assert.Equal(t, task.ID, bob[0].ID)
	assert.Empty(t, svc.ByAssignee(ctx, "Jane"))

	require.NoError(t, svc.UpdatePriority(ctx, task.ID, internal.PriorityHigh))
	assert.Len(t, svc.ByPriority(ctx, internal.PriorityHigh), 1)

	require.NoError(t, svc.Complete(ctx, task.ID, true))
	found, err := svc.Task(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, found.IsCompleted())

	assert.Len(t, svc.Search(ctx, "SPEC"), 1)

	require.NoError(t, svc.Delete(ctx, task.ID))
	assert.Equal(t, 0, svc.Count())

	_, err = svc.Task(ctx, task.ID)
	var ierr *internal.Error
	require.True(t, errors.As(err, &ierr))
	assert.Equal(t, internal.ErrorCodeNotFound, ierr.Code())
}

func TestTask_UnknownIDLeavesStoreUnchanged(t *testing.T) {
	svc := setupGeneral(t, idgen.NewSequence("TASK"))
	ctx := context.Background()

	createGeneral(t, svc, "Write spec", internal.PriorityLow, "Jane")
	before := svc.All(ctx)

	for _, err := range []error{
		svc.UpdateStatus(ctx, "TASK-99", internal.StatusDone),
		svc.UpdatePriority(ctx, "TASK-99", internal.PriorityHigh),
		svc.Assign(ctx, "TASK-99", "Bob"),
		svc.Complete(ctx, "TASK-99", true),
		svc.Delete(ctx, "TASK-99"),
	} {
		var ierr *internal.Error
		require.True(t, errors.As(err, &ierr))
		assert.Equal(t, internal.ErrorCodeNotFound, ierr.Code())
	}

	assert.Equal(t, before, svc.All(ctx))
}

func TestTask_EventsPublished(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)
	ctx := context.Background()

	svc := service.NewTask[internal.General](logger, memory.NewTask[internal.General](), idgen.NewSequence("TASK"), eventlog.NewTask[internal.General](logger, "tasks"))

	task := createGeneral(t, svc, "Write spec", internal.PriorityLow, "Jane")
	require.NoError(t, svc.UpdateStatus(ctx, task.ID, internal.StatusDone))
	require.NoError(t, svc.Delete(ctx, task.ID))

	var types []string
	for _, e := range logs.FilterMessage("task event").All() {
		types = append(types, e.ContextMap()["type"].(string))
	}

	assert.Equal(t, []string{"tasks.event.created", "tasks.event.updated", "tasks.event.deleted"}, types)
}

func TestTask_BrokerFailuresAreIgnored(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	ctx := context.Background()

	svc := service.NewTask[internal.General](zap.New(core), memory.NewTask[internal.General](), idgen.NewSequence("TASK"), failingBroker[internal.General]{})

	task := createGeneral(t, svc, "Write spec", internal.PriorityLow, "")
	require.NoError(t, svc.Assign(ctx, task.ID, "Bob"))
	require.NoError(t, svc.Delete(ctx, task.ID))

	assert.Equal(t, 1, logs.FilterMessage("msgBroker.Created").Len())
	assert.Equal(t, 1, logs.FilterMessage("msgBroker.Updated").Len())
	assert.Equal(t, 1, logs.FilterMessage("msgBroker.Deleted").Len())
}

func TestTask_Spans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	svc := setupGeneral(t, idgen.NewSequence("TASK"))
	ctx := context.Background()

	task := createGeneral(t, svc, "Write spec", internal.PriorityLow, "")
	require.NoError(t, svc.UpdateStatus(ctx, task.ID, internal.StatusDone))

	spans := map[string]bool{}
	for _, s := range recorder.Ended() {
		spans[s.Name()] = true
	}

	assert.True(t, spans["Task.Create"])
	assert.True(t, spans["Task.UpdateStatus"])
	assert.True(t, spans["Task.Add"], "repository spans are children of the service spans")
}
