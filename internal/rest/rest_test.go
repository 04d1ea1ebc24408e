package rest

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sanLimbu/task-manager/internal"
)

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		known  bool
	}{
		{"not found", internal.NewErrorf(internal.ErrorCodeNotFound, "missing"), http.StatusNotFound, true},
		{"invalid argument", internal.NewErrorf(internal.ErrorCodeInvalidArgument, "bad"), http.StatusBadRequest, true},
		{"already exists", internal.NewErrorf(internal.ErrorCodeAlreadyExists, "dup"), http.StatusConflict, true},
		{"unknown code", internal.NewErrorf(internal.ErrorCodeUnknown, "boom"), http.StatusInternalServerError, true},
		{"wrapped", fmt.Errorf("repo: %w", internal.NewErrorf(internal.ErrorCodeNotFound, "missing")), http.StatusNotFound, true},
		{"foreign error", errors.New("boom"), http.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, known := statusFromError(tt.err)

			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.known, known)
		})
	}
}
