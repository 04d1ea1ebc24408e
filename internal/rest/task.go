package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/sanLimbu/task-manager/internal"
)

type generalTask = internal.Task[internal.General]

// TaskService defines the application service the handlers depend on.
type TaskService interface {
	Create(ctx context.Context, params internal.CreateParams[internal.General]) (generalTask, error)
	Task(ctx context.Context, id string) (generalTask, error)
	All(ctx context.Context) []generalTask
	Search(ctx context.Context, query string) []generalTask
	ByStatus(ctx context.Context, status internal.Status) []generalTask
	ByPriority(ctx context.Context, priority internal.Priority) []generalTask
	ByAssignee(ctx context.Context, assignee string) []generalTask
	UpdateStatus(ctx context.Context, id string, status internal.Status) error
	UpdatePriority(ctx context.Context, id string, priority internal.Priority) error
	Assign(ctx context.Context, id string, assignee string) error
	Complete(ctx context.Context, id string, done bool) error
	Delete(ctx context.Context, id string) error
}

// TaskHandler serves the Task routes.
type TaskHandler struct {
	svc TaskService
}

func NewTaskHandler(svc TaskService) *TaskHandler {
	return &TaskHandler{
		svc: svc,
	}
}

// Register connects the handlers to the router.
func (t *TaskHandler) Register(r chi.Router) {
	r.Get("/tasks", t.list)
	r.Post("/tasks", t.create)

	r.Get("/tasks/status/{status}", t.byStatus)
	r.Get("/tasks/priority/{priority}", t.byPriority)
	r.Get("/tasks/assignee/{assignee}", t.byAssignee)

	r.Get("/tasks/{id}", t.task)
	r.Delete("/tasks/{id}", t.delete)
	r.Put("/tasks/{id}/status", t.updateStatus)
	r.Put("/tasks/{id}/priority", t.updatePriority)
	r.Put("/tasks/{id}/assign", t.assign)
	r.Put("/tasks/{id}/complete", t.complete(true))
	r.Put("/tasks/{id}/incomplete", t.complete(false))
}

// Task is an activity that needs to be completed.
type Task struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
	Assignee    string `json:"assignee"`
	Completed   bool   `json:"completed"`
}

// NewTask converts a domain task into its JSON representation.
func NewTask(task generalTask) Task {
	return Task{
		ID:          task.ID,
		Name:        task.Name,
		Description: task.Description,
		Priority:    task.Priority.String(),
		Status:      task.Status.String(),
		Assignee:    task.Assignee,
		Completed:   task.Completed,
	}
}

func newTasks(tasks []generalTask) []Task {
	res := make([]Task, len(tasks))
	for i, task := range tasks {
		res[i] = NewTask(task)
	}

	return res
}

// CreateTasksRequest defines the request used for creating tasks.
type CreateTasksRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Assignee    string `json:"assignee"`
}

// CreateTasksResponse defines the response returned back after creating tasks.
type CreateTasksResponse struct {
	Message string `json:"message"`
	Task    Task   `json:"task"`
}

// UpdateStatusRequest defines the request used for changing the status of a task.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdatePriorityRequest defines the request used for changing the priority of a task.
type UpdatePriorityRequest struct {
	Priority string `json:"priority"`
}

// AssignTaskRequest defines the request used for reassigning a task.
type AssignTaskRequest struct {
	Assignee string `json:"assignee"`
}

func (t *TaskHandler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateTasksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderErrorResponse(r.Context(), w, "invalid request", internal.WrapErrorf(err, internal.ErrorCodeInvalidArgument, "json decoder"))
		return
	}
	defer r.Body.Close()

	priority, err := internal.ParsePriority(req.Priority)
	if err != nil {
		renderErrorResponse(r.Context(), w, "invalid priority", err)
		return
	}

	task, err := t.svc.Create(r.Context(), internal.CreateParams[internal.General]{
		Name:        req.Name,
		Description: req.Description,
		Priority:    priority,
		Assignee:    req.Assignee,
	})
	if err != nil {
		renderErrorResponse(r.Context(), w, "invalid request", err)
		return
	}

	renderResponse(w,
		&CreateTasksResponse{
			Message: "Task created successfully",
			Task:    NewTask(task),
		},
		http.StatusCreated)
}

func (t *TaskHandler) task(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParam(w, r, "id")
	if !ok {
		return
	}

	task, err := t.svc.Task(r.Context(), id)
	if err != nil {
		renderErrorResponse(r.Context(), w, "Task not found", err)
		return
	}

	renderResponse(w, NewTask(task), http.StatusOK)
}

func (t *TaskHandler) list(w http.ResponseWriter, r *http.Request) {
	if q := r.URL.Query().Get("q"); q != "" {
		renderResponse(w, newTasks(t.svc.Search(r.Context(), q)), http.StatusOK)
		return
	}

	renderResponse(w, newTasks(t.svc.All(r.Context())), http.StatusOK)
}

func (t *TaskHandler) byStatus(w http.ResponseWriter, r *http.Request) {
	val, ok := urlParam(w, r, "status")
	if !ok {
		return
	}

	// Unknown values select nothing instead of failing.
	status, _ := internal.ParseStatus(val)

	renderResponse(w, newTasks(t.svc.ByStatus(r.Context(), status)), http.StatusOK)
}

func (t *TaskHandler) byPriority(w http.ResponseWriter, r *http.Request) {
	val, ok := urlParam(w, r, "priority")
	if !ok {
		return
	}

	priority, _ := internal.ParsePriority(val)

	renderResponse(w, newTasks(t.svc.ByPriority(r.Context(), priority)), http.StatusOK)
}

func (t *TaskHandler) byAssignee(w http.ResponseWriter, r *http.Request) {
	assignee, ok := urlParam(w, r, "assignee")
	if !ok {
		return
	}

	renderResponse(w, newTasks(t.svc.ByAssignee(r.Context(), assignee)), http.StatusOK)
}

func (t *TaskHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParam(w, r, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderErrorResponse(r.Context(), w, "invalid request", internal.WrapErrorf(err, internal.ErrorCodeInvalidArgument, "json decoder"))
		return
	}
	defer r.Body.Close()

	status, err := internal.ParseStatus(req.Status)
	if err != nil {
		renderErrorResponse(r.Context(), w, "invalid status", err)
		return
	}

	t.acknowledge(w, r, "Task status updated successfully", t.svc.UpdateStatus(r.Context(), id, status))
}

func (t *TaskHandler) updatePriority(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParam(w, r, "id")
	if !ok {
		return
	}

	var req UpdatePriorityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderErrorResponse(r.Context(), w, "invalid request", internal.WrapErrorf(err, internal.ErrorCodeInvalidArgument, "json decoder"))
		return
	}
	defer r.Body.Close()

	priority, err := internal.ParsePriority(req.Priority)
	if err != nil {
		renderErrorResponse(r.Context(), w, "invalid priority", err)
		return
	}

	t.acknowledge(w, r, "Task priority updated successfully", t.svc.UpdatePriority(r.Context(), id, priority))
}

func (t *TaskHandler) assign(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParam(w, r, "id")
	if !ok {
		return
	}

	var req AssignTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderErrorResponse(r.Context(), w, "invalid request", internal.WrapErrorf(err, internal.ErrorCodeInvalidArgument, "json decoder"))
		return
	}
	defer r.Body.Close()

	t.acknowledge(w, r, "Task assigned successfully", t.svc.Assign(r.Context(), id, req.Assignee))
}

func (t *TaskHandler) complete(done bool) http.HandlerFunc {
	msg := "Task marked as incomplete"
	if done {
		msg = "Task marked as complete"
	}

	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlParam(w, r, "id")
		if !ok {
			return
		}

		t.acknowledge(w, r, msg, t.svc.Complete(r.Context(), id, done))
	}
}

func (t *TaskHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParam(w, r, "id")
	if !ok {
		return
	}

	t.acknowledge(w, r, "Task deleted successfully", t.svc.Delete(r.Context(), id))
}

// acknowledge replies with msg. Mutations on unknown ids are accepted silently, only lookups report them.
func (t *TaskHandler) acknowledge(w http.ResponseWriter, r *http.Request, msg string, err error) {
	if err != nil && !isNotFound(err) {
		renderErrorResponse(r.Context(), w, "update failed", err)
		return
	}

	renderResponse(w, &MessageResponse{Message: msg}, http.StatusOK)
}

// urlParam returns the decoded path parameter. chi routes on RawPath when it is set, leaving its segments escaped.
func urlParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	val := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return val, true
	}

	val, err := url.PathUnescape(val)
	if err != nil {
		renderErrorResponse(r.Context(), w, "invalid "+name,
			internal.WrapErrorf(err, internal.ErrorCodeInvalidArgument, "url.PathUnescape"))
		return "", false
	}

	return val, true
}
