package rest

import (
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/ghodss/yaml"
	"github.com/go-chi/chi/v5"
)

// NewOpenAPI3 instantiates the OpenAPI specification for this service.
func NewOpenAPI3() openapi3.T {
	swagger := openapi3.T{
		OpenAPI: "3.0.0",
		Info: &openapi3.Info{
			Title:       "Task Manager API",
			Description: "REST API used for managing in-memory tasks.",
			Version:     "0.0.0",
		},
		Servers: openapi3.Servers{
			&openapi3.Server{
				Description: "Local development",
				URL:         "http://127.0.0.1:3000",
			},
		},
	}

	priority := func() *openapi3.Schema {
		return openapi3.NewStringSchema().WithEnum("LOW", "MEDIUM", "HIGH")
	}

	status := func() *openapi3.Schema {
		return openapi3.NewStringSchema().WithEnum("TODO", "IN_PROGRESS", "DONE")
	}

	task := openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewStringSchema()).
		WithProperty("name", openapi3.NewStringSchema()).
		WithProperty("description", openapi3.NewStringSchema()).
		WithProperty("priority", priority()).
		WithProperty("status", status()).
		WithProperty("assignee", openapi3.NewStringSchema()).
		WithProperty("completed", openapi3.NewBoolSchema())

	jsonResponse := func(desc string, schema *openapi3.Schema) *openapi3.ResponseRef {
		return &openapi3.ResponseRef{
			Value: openapi3.NewResponse().
				WithDescription(desc).
				WithContent(openapi3.NewContentWithJSONSchema(schema)),
		}
	}

	tasksResponse := jsonResponse("Tasks in insertion order.", openapi3.NewArraySchema().WithItems(task))

	messageResponse := jsonResponse("Operation acknowledged, unknown ids are ignored.",
		openapi3.NewObjectSchema().WithProperty("message", openapi3.NewStringSchema()))

	errorResponse := jsonResponse("Response when errors happen.",
		openapi3.NewObjectSchema().WithProperty("error", openapi3.NewStringSchema()))

	body := func(desc string, schema *openapi3.Schema) *openapi3.RequestBodyRef {
		return &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().
				WithDescription(desc).
				WithRequired(true).
				WithJSONSchema(schema),
		}
	}

	pathParam := func(name string, schema *openapi3.Schema) openapi3.Parameters {
		return openapi3.Parameters{
			{Value: openapi3.NewPathParameter(name).WithSchema(schema)},
		}
	}

	mutation := func(id, desc string, req *openapi3.RequestBodyRef) *openapi3.Operation {
		return &openapi3.Operation{
			OperationID: id,
			Description: desc,
			Parameters:  pathParam("id", openapi3.NewStringSchema()),
			RequestBody: req,
			Responses: openapi3.Responses{
				"200": messageResponse,
				"400": errorResponse,
			},
		}
	}

	filter := func(id, param string, schema *openapi3.Schema) *openapi3.PathItem {
		return &openapi3.PathItem{
			Get: &openapi3.Operation{
				OperationID: id,
				Parameters:  pathParam(param, schema),
				Responses: openapi3.Responses{
					"200": tasksResponse,
				},
			},
		}
	}

	createTask := openapi3.NewObjectSchema().
		WithProperty("name", openapi3.NewStringSchema().WithMinLength(1)).
		WithProperty("description", openapi3.NewStringSchema()).
		WithProperty("priority", priority()).
		WithProperty("assignee", openapi3.NewStringSchema())
	createTask.Required = []string{"name", "priority"}

	swagger.Paths = openapi3.Paths{
		"/tasks": &openapi3.PathItem{
			Get: &openapi3.Operation{
				OperationID: "ListTasks",
				Parameters: openapi3.Parameters{
					{Value: openapi3.NewQueryParameter("q").
						WithDescription("Case-insensitive search on the task name.").
						WithSchema(openapi3.NewStringSchema())},
				},
				Responses: openapi3.Responses{
					"200": tasksResponse,
				},
			},
			Post: &openapi3.Operation{
				OperationID: "CreateTask",
				RequestBody: body("Request used for creating a task.", createTask),
				Responses: openapi3.Responses{
					"201": jsonResponse("Response returned back after creating tasks.",
						openapi3.NewObjectSchema().
							WithProperty("message", openapi3.NewStringSchema()).
							WithProperty("task", task)),
					"400": errorResponse,
				},
			},
		},
		"/tasks/{id}": &openapi3.PathItem{
			Get: &openapi3.Operation{
				OperationID: "ReadTask",
				Parameters:  pathParam("id", openapi3.NewStringSchema()),
				Responses: openapi3.Responses{
					"200": jsonResponse("Task found.", task),
					"404": errorResponse,
				},
			},
			Delete: mutation("DeleteTask", "Removes the task.", nil),
		},
		"/tasks/{id}/status": &openapi3.PathItem{
			Put: mutation("UpdateTaskStatus", "Changes the status.",
				body("New status.", openapi3.NewObjectSchema().WithProperty("status", status()))),
		},
		"/tasks/{id}/priority": &openapi3.PathItem{
			Put: mutation("UpdateTaskPriority", "Changes the priority.",
				body("New priority.", openapi3.NewObjectSchema().WithProperty("priority", priority()))),
		},
		"/tasks/{id}/assign": &openapi3.PathItem{
			Put: mutation("AssignTask", "Reassigns the task.",
				body("New assignee.", openapi3.NewObjectSchema().WithProperty("assignee", openapi3.NewStringSchema()))),
		},
		"/tasks/{id}/complete": &openapi3.PathItem{
			Put: mutation("CompleteTask", "Marks the task as completed.", nil),
		},
		"/tasks/{id}/incomplete": &openapi3.PathItem{
			Put: mutation("ReopenTask", "Clears the completion flag.", nil),
		},
		"/tasks/status/{status}":     filter("ListTasksByStatus", "status", status()),
		"/tasks/priority/{priority}": filter("ListTasksByPriority", "priority", priority()),
		"/tasks/assignee/{assignee}": filter("ListTasksByAssignee", "assignee", openapi3.NewStringSchema()),
	}

	return swagger
}

// RegisterOpenAPI serves the OpenAPI document as JSON and YAML.
func RegisterOpenAPI(r chi.Router) {
	swagger := NewOpenAPI3()

	r.Get("/openapi3.json", func(w http.ResponseWriter, r *http.Request) {
		renderResponse(w, &swagger, http.StatusOK)
	})

	r.Get("/openapi3.yaml", func(w http.ResponseWriter, r *http.Request) {
		data, err := yaml.Marshal(&swagger)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/x-yaml")
		w.WriteHeader(http.StatusOK)

		_, _ = w.Write(data)
	})
}
