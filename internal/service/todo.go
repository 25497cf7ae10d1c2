package service

import (
	"context"
	"log/slog"

	"github.com/avelasko/todoapp/internal/domain"
	"github.com/avelasko/todoapp/internal/event"
	"github.com/avelasko/todoapp/internal/repository"
	"github.com/avelasko/todoapp/pkg/errors"
	"github.com/avelasko/todoapp/pkg/pagination"
)

// TodoService handles owner-scoped todo management plus the administrative
// cross-owner operations.
type TodoService struct {
	todos  repository.TodoRepository
	events event.Publisher
	logger *slog.Logger
}

// NewTodoService wires a todo service.
func NewTodoService(todos repository.TodoRepository, events event.Publisher, l *slog.Logger) *TodoService {
	return &TodoService{todos: todos, events: events, logger: l}
}

// TodoInput carries the mutable fields of a todo.
type TodoInput struct {
	Title       string
	Description string
	Priority    int
}

func validateTodoInput(input TodoInput) error {
	if input.Priority < domain.MinPriority || input.Priority > domain.MaxPriority {
		return errors.Validation("priority must be between 1 and 5")
	}
	return nil
}

// Create adds a new incomplete todo owned by the user.
func (s *TodoService) Create(ctx context.Context, ownerID int64, input TodoInput) (*domain.Todo, error) {
	if err := validateTodoInput(input); err != nil {
		return nil, err
	}

	todo := &domain.Todo{
		OwnerID:     ownerID,
		Title:       input.Title,
		Description: input.Description,
		Priority:    input.Priority,
		Complete:    false,
	}

	if err := s.todos.Create(ctx, todo); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "todo created",
		slog.Int64("todo_id", todo.ID),
		slog.Int64("owner_id", ownerID),
	)
	s.events.TodoCreated(ctx, todo)

	return todo, nil
}

// List returns all todos owned by the user.
func (s *TodoService) List(ctx context.Context, ownerID int64) ([]domain.Todo, error) {
	return s.todos.ListByOwner(ctx, ownerID)
}

// Get returns a single todo owned by the user.
func (s *TodoService) Get(ctx context.Context, ownerID, id int64) (*domain.Todo, error) {
	return s.todos.GetByID(ctx, ownerID, id)
}

// Update replaces the mutable fields of a todo owned by the user.
func (s *TodoService) Update(ctx context.Context, ownerID, id int64, input TodoInput) (*domain.Todo, error) {
	if err := validateTodoInput(input); err != nil {
		return nil, err
	}

	todo, err := s.todos.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	todo.Title = input.Title
	todo.Description = input.Description
	todo.Priority = input.Priority

	if err := s.todos.Update(ctx, todo); err != nil {
		return nil, err
	}
	return todo, nil
}

// Complete marks a todo as done. Completing an already complete todo is a
// no-op that still succeeds.
func (s *TodoService) Complete(ctx context.Context, ownerID, id int64) (*domain.Todo, error) {
	todo, err := s.todos.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if todo.Complete {
		return todo, nil
	}

	todo.Complete = true
	if err := s.todos.Update(ctx, todo); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "todo completed",
		slog.Int64("todo_id", todo.ID),
		slog.Int64("owner_id", ownerID),
	)
	s.events.TodoCompleted(ctx, todo)

	return todo, nil
}

// Delete removes a todo owned by the user.
func (s *TodoService) Delete(ctx context.Context, ownerID, id int64) error {
	return s.todos.Delete(ctx, ownerID, id)
}

// ListAll returns a page of todos across all owners. Callers are expected
// to hold the admin role; the HTTP layer enforces it.
func (s *TodoService) ListAll(ctx context.Context, params pagination.Params) ([]domain.Todo, int64, error) {
	return s.todos.ListAll(ctx, params.PageSize, params.Offset())
}

// DeleteAny removes a todo regardless of owner.
func (s *TodoService) DeleteAny(ctx context.Context, id int64) error {
	if err := s.todos.DeleteAny(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "todo deleted by admin", slog.Int64("todo_id", id))
	return nil
}
