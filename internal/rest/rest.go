package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.opentelemetry.io/otel/trace"

	"github.com/sanLimbu/task-manager/internal"
)

// ErrorResponse represents a response containing an error message.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse represents a response acknowledging an operation.
type MessageResponse struct {
	Message string `json:"message"`
}

func renderErrorResponse(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	status, known := statusFromError(err)
	if !known {
		msg = "internal error"
	}

	if err != nil {
		trace.SpanFromContext(ctx).RecordError(err)
	}

	renderResponse(w, ErrorResponse{Error: msg}, status)
}

// statusFromError maps the code of an internal.Error to its HTTP status, known is false for any other error.
func statusFromError(err error) (status int, known bool) {
	var ierr *internal.Error
	if !errors.As(err, &ierr) {
		return http.StatusInternalServerError, false
	}

	switch ierr.Code() {
	case internal.ErrorCodeNotFound:
		return http.StatusNotFound, true
	case internal.ErrorCodeInvalidArgument:
		return http.StatusBadRequest, true
	case internal.ErrorCodeAlreadyExists:
		return http.StatusConflict, true
	}

	return http.StatusInternalServerError, true
}

func renderResponse(w http.ResponseWriter, res interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")

	content, err := json.Marshal(res)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)

	_, _ = w.Write(content)
}

func isNotFound(err error) bool {
	var ierr *internal.Error

	return errors.As(err, &ierr) && ierr.Code() == internal.ErrorCodeNotFound
}
