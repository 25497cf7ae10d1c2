package http

import (
	"log/slog"
	"net/http"

	"github.com/avelasko/todoapp/internal/service"
	"github.com/avelasko/todoapp/pkg/httputil"
	"github.com/avelasko/todoapp/pkg/pagination"
)

// AdminHandler serves the administrative todo operations. The router mounts
// it behind a role check.
type AdminHandler struct {
	todos  *service.TodoService
	logger *slog.Logger
}

// NewAdminHandler builds the admin handler.
func NewAdminHandler(todos *service.TodoService, l *slog.Logger) *AdminHandler {
	return &AdminHandler{todos: todos, logger: l}
}

// ListTodos handles GET /admin/todos with paging across all owners.
func (h *AdminHandler) ListTodos(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	todos, total, err := h.todos.ListAll(r.Context(), params)
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.PaginatedResponse{
		Items:      todos,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: params.TotalPages(total),
	})
}

// DeleteTodo handles DELETE /admin/todos/{todoID} regardless of owner.
func (h *AdminHandler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "todoID")
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}

	if err := h.todos.DeleteAny(r.Context(), id); err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
