package http

import (
	"log/slog"
	"net/http"

	"github.com/avelasko/todoapp/internal/service"
	apperrors "github.com/avelasko/todoapp/pkg/errors"
	"github.com/avelasko/todoapp/pkg/httputil"
	"github.com/avelasko/todoapp/pkg/middleware"
	"github.com/avelasko/todoapp/pkg/validator"
)

// TodoHandler serves the authenticated user's todo operations.
type TodoHandler struct {
	todos  *service.TodoService
	logger *slog.Logger
}

// NewTodoHandler builds the todo handler.
func NewTodoHandler(todos *service.TodoService, l *slog.Logger) *TodoHandler {
	return &TodoHandler{todos: todos, logger: l}
}

type todoRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=100"`
	Description string `json:"description" validate:"required,min=3,max=500"`
	Priority    int    `json:"priority" validate:"required,min=1,max=5"`
}

func (h *TodoHandler) identity(w http.ResponseWriter, r *http.Request) (middleware.Identity, bool) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, h.logger, apperrors.Unauthorized("invalid authentication credentials"))
	}
	return identity, ok
}

// List handles GET /todos/.
func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	todos, err := h.todos.List(r.Context(), identity.UserID)
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, todos)
}

// Create handles POST /todos/.
func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	var req todoRequest
	if err := readJSON(w, r, &req); err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}

	todo, err := h.todos.Create(r.Context(), identity.UserID, service.TodoInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
	})
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, todo)
}

// Get handles GET /todos/{todoID}.
func (h *TodoHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	id, err := pathID(r, "todoID")
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}

	todo, err := h.todos.Get(r.Context(), identity.UserID, id)
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, todo)
}

// Update handles PUT /todos/{todoID}.
func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	id, err := pathID(r, "todoID")
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}

	var req todoRequest
	if err := readJSON(w, r, &req); err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}

	if _, err := h.todos.Update(r.Context(), identity.UserID, id, service.TodoInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
	}); err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Complete handles PUT /todos/{todoID}/complete.
func (h *TodoHandler) Complete(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	id, err := pathID(r, "todoID")
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}

	if _, err := h.todos.Complete(r.Context(), identity.UserID, id); err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /todos/{todoID}.
func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	id, err := pathID(r, "todoID")
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}

	if err := h.todos.Delete(r.Context(), identity.UserID, id); err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
