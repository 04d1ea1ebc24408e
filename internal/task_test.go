package internal_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanLimbu/task-manager/internal"
)

func TestParsePriority(t *testing.T) {
	tests := []struct {
		input    string
		expected internal.Priority
		wantErr  bool
	}{
		{input: "LOW", expected: internal.PriorityLow},
		{input: "medium", expected: internal.PriorityMedium},
		{input: " High ", expected: internal.PriorityHigh},
		{input: "urgent", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p, err := internal.ParsePriority(tt.input)
			if tt.wantErr {
				var ierr *internal.Error
				require.True(t, errors.As(err, &ierr))
				assert.Equal(t, internal.ErrorCodeInvalidArgument, ierr.Code())
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, p)
			assert.NoError(t, p.Validate())
		})
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range internal.Statuses() {
		parsed, err := internal.ParseStatus(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	s, err := internal.ParseStatus("in-progress")
	require.NoError(t, err)
	assert.Equal(t, internal.StatusInProgress, s)

	_, err = internal.ParseStatus("BLOCKED")
	assert.Error(t, err)

	assert.Error(t, internal.Status(0).Validate())
	assert.Error(t, internal.Priority(42).Validate())
	assert.Equal(t, "INVALID", internal.Status(9).String())
}

func TestTask_Summary(t *testing.T) {
	t.Run("personal", func(t *testing.T) {
		task := internal.Task[internal.Personal]{
			Base:    internal.Base{ID: "TASK-1", Name: "Task 1", Priority: internal.PriorityHigh, Status: internal.StatusTodo},
			Details: internal.Personal{Location: "Location 1"},
		}

		assert.Equal(t, "Task 1 @ Location 1 (High Priority)", task.Summary())

		task.MarkComplete()
		assert.True(t, task.IsCompleted())
		assert.Equal(t, "Task 1 @ Location 1 (High Priority) ✓", task.Summary())

		task.MarkIncomplete()
		assert.False(t, task.IsCompleted())
	})

	t.Run("work", func(t *testing.T) {
		task := internal.Task[internal.Work]{
			Base:    internal.Base{ID: "TASK-2", Name: "Task 2", Priority: internal.PriorityMedium, Status: internal.StatusTodo},
			Details: internal.Work{Project: "Project 1"},
		}

		assert.Equal(t, "[Project 1] Task 2 (Medium Priority)", task.Summary())
		assert.Equal(t, internal.KindWork, task.Kind())

		task.MarkComplete()
		assert.Equal(t, "[Project 1] Task 2 (Medium Priority) ✓", task.Summary())
	})

	t.Run("general", func(t *testing.T) {
		task := internal.Task[internal.General]{
			Base: internal.Base{ID: "TASK-3", Name: "Write spec", Priority: internal.PriorityLow, Status: internal.StatusInProgress, Assignee: "Jane"},
		}

		assert.Equal(t, "TASK-3 Write spec (Low Priority) [IN_PROGRESS] -> Jane", task.Summary())

		task.Assignee = ""
		task.MarkComplete()
		assert.Equal(t, "TASK-3 Write spec (Low Priority) [IN_PROGRESS] ✓", task.Summary())
	})
}

func TestTask_Validate(t *testing.T) {
	valid := internal.Base{ID: "TASK-1", Name: "Write spec", Priority: internal.PriorityLow, Status: internal.StatusTodo}

	tests := []struct {
		name   string
		mutate func(b *internal.Base)
	}{
		{name: "missing id", mutate: func(b *internal.Base) { b.ID = "" }},
		{name: "missing name", mutate: func(b *internal.Base) { b.Name = "" }},
		{name: "missing priority", mutate: func(b *internal.Base) { b.Priority = 0 }},
		{name: "unknown priority", mutate: func(b *internal.Base) { b.Priority = 7 }},
		{name: "unknown status", mutate: func(b *internal.Base) { b.Status = 7 }},
	}

	require.NoError(t, internal.Task[internal.General]{Base: valid}.Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := valid
			tt.mutate(&b)

			err := internal.Task[internal.General]{Base: b}.Validate()

			var ierr *internal.Error
			require.True(t, errors.As(err, &ierr))
			assert.Equal(t, internal.ErrorCodeInvalidArgument, ierr.Code())
		})
	}
}

func TestCreateParams_Validate(t *testing.T) {
	params := internal.CreateParams[internal.Work]{
		Name:     "Ship it",
		Priority: internal.PriorityHigh,
		Details:  internal.Work{Project: "Apollo"},
	}
	require.NoError(t, params.Validate())

	params.Name = ""
	assert.Error(t, params.Validate())

	params.Name = "Ship it"
	params.Priority = 0
	assert.Error(t, params.Validate())
}
