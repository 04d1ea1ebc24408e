package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/sanLimbu/task-manager/internal"
	"github.com/sanLimbu/task-manager/internal/eventlog"
	"github.com/sanLimbu/task-manager/internal/idgen"
	"github.com/sanLimbu/task-manager/internal/memory"
	"github.com/sanLimbu/task-manager/internal/service"
)

func main() {
	logger, err := zap.NewDevelopment(zap.IncreaseLevel(zap.WarnLevel))
	if err != nil {
		log.Fatalf("Couldn't instantiate logger: %s", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(context.Background(), os.Stdout, logger); err != nil {
		log.Fatalf("Couldn't run: %s", err)
	}
}

func run(ctx context.Context, w io.Writer, logger *zap.Logger) error {
	ids := idgen.NewSequence("TASK")

	personal := service.NewTask[internal.Personal](logger,
		memory.NewTask[internal.Personal](),
		ids,
		eventlog.NewTask[internal.Personal](logger, "tasks.personal"))

	work := service.NewTask[internal.Work](logger,
		memory.NewTask[internal.Work](),
		ids,
		eventlog.NewTask[internal.Work](logger, "tasks.work"))

	errand, err := personal.Create(ctx, internal.CreateParams[internal.Personal]{
		Name:        "Task 1",
		Description: "Description 1",
		Priority:    internal.PriorityHigh,
		Details:     internal.Personal{Location: "Location 1"},
	})
	if err != nil {
		return fmt.Errorf("personal.Create: %w", err)
	}

	if _, err := work.Create(ctx, internal.CreateParams[internal.Work]{
		Name:        "Task 2",
		Description: "Description 2",
		Priority:    internal.PriorityMedium,
		Details:     internal.Work{Project: "Project 1"},
	}); err != nil {
		return fmt.Errorf("work.Create: %w", err)
	}

	if _, err := personal.Create(ctx, internal.CreateParams[internal.Personal]{
		Name:        "Task 3",
		Description: "Description 3",
		Priority:    internal.PriorityMedium,
		Details:     internal.Personal{Location: "Location 3"},
	}); err != nil {
		return fmt.Errorf("personal.Create: %w", err)
	}

	if err := personal.Complete(ctx, errand.ID, true); err != nil {
		return fmt.Errorf("personal.Complete: %w", err)
	}

	fmt.Fprintln(w, "=== Personal Tasks ===")
	printSummaries(w, personal.All(ctx))

	fmt.Fprintln(w, "\n=== Work Tasks ===")
	printSummaries(w, work.All(ctx))

	fmt.Fprintln(w, "\n=== High Priority Personal Tasks ===")
	printSummaries(w, personal.ByPriority(ctx, internal.PriorityHigh))

	return nil
}

func printSummaries[D internal.Details](w io.Writer, tasks []internal.Task[D]) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks found.")
		return
	}

	for _, task := range tasks {
		fmt.Fprintln(w, task.Summary())
	}
}
