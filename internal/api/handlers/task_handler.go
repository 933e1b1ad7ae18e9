package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/task-manager-be/internal/api/response"
	"github.com/isdelr/task-manager-be/internal/apperr"
	"github.com/isdelr/task-manager-be/internal/services"
	"github.com/isdelr/task-manager-be/internal/validation"
	"github.com/rs/zerolog/log"
)

// TaskHandler handles HTTP requests related to tasks.
type TaskHandler struct {
	service services.TaskServiceProvider
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(service services.TaskServiceProvider) *TaskHandler {
	return &TaskHandler{service: service}
}

// GetAll lists the caller's tasks.
func (h *TaskHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	q := r.URL.Query()
	filter, errs := validation.ValidateTaskFilter(q.Get("status"), q.Get("priority"), q.Get("sort"))
	if len(errs) > 0 {
		response.Error(w, r, apperr.Validation(errs))
		return
	}

	tasks, err := h.service.List(r.Context(), user, filter)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.List(w, len(tasks), map[string]any{"tasks": tasks})
}

// GetAllAdmin lists tasks of every user with their owners. The route is
// guarded by the admin role.
func (h *TaskHandler) GetAllAdmin(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter, errs := validation.ValidateTaskFilter(q.Get("status"), q.Get("priority"), q.Get("sort"))
	if len(errs) > 0 {
		response.Error(w, r, apperr.Validation(errs))
		return
	}
	filter.OwnerID = q.Get("owner")

	tasks, err := h.service.ListAll(r.Context(), filter)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.List(w, len(tasks), map[string]any{"tasks": tasks})
}

// Get returns a single task by its ID.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	task, err := h.service.Get(r.Context(), user, chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "", map[string]any{"task": task})
}

// Create handles the request to create a new task.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	var payload validation.TaskInput
	if err := decodeJSON(r, &payload); err != nil {
		response.Error(w, r, err)
		return
	}

	task, err := h.service.Create(r.Context(), user, payload)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	log.Info().Str("task_id", task.ID).Str("user_id", user.ID).Msg("Task created")
	response.OK(w, http.StatusCreated, "Task created successfully", map[string]any{"task": task})
}

// Update handles the request to update an existing task.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	var payload validation.TaskInput
	if err := decodeJSON(r, &payload); err != nil {
		response.Error(w, r, err)
		return
	}

	task, err := h.service.Update(r.Context(), user, chi.URLParam(r, "id"), payload)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "Task updated successfully", map[string]any{"task": task})
}

// Delete handles the request to delete a task.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), user, id); err != nil {
		response.Error(w, r, err)
		return
	}

	log.Info().Str("task_id", id).Str("user_id", user.ID).Msg("Task deleted")
	response.OK(w, http.StatusOK, "Task deleted successfully", nil)
}
