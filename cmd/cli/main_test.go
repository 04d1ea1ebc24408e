package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/sanLimbu/task-manager/internal"
)

func TestRun(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, run(context.Background(), &buf, zaptest.NewLogger(t)))

	assert.Equal(t, `=== Personal Tasks ===
Task 1 @ Location 1 (High Priority) ✓
Task 3 @ Location 3 (Medium Priority)

=== Work Tasks ===
[Project 1] Task 2 (Medium Priority)

=== High Priority Personal Tasks ===
Task 1 @ Location 1 (High Priority) ✓
`, buf.String())
}

func TestPrintSummaries_Empty(t *testing.T) {
	var buf bytes.Buffer

	printSummaries[internal.Work](&buf, nil)

	assert.Equal(t, "No tasks found.\n", buf.String())
}
