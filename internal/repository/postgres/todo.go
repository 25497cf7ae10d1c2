package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/avelasko/todoapp/internal/domain"
	"github.com/avelasko/todoapp/pkg/database"
	apperrors "github.com/avelasko/todoapp/pkg/errors"
)

// TodoRepository is the PostgreSQL-backed todo store.
type TodoRepository struct {
	db     database.DBTX
	logger *slog.Logger
}

// NewTodoRepository builds a todo repository over the given pool.
func NewTodoRepository(db database.DBTX, l *slog.Logger) *TodoRepository {
	return &TodoRepository{db: db, logger: l}
}

const todoColumns = `id, owner_id, title, description, priority, complete, created_at, updated_at`

func scanTodo(row pgx.Row) (*domain.Todo, error) {
	var t domain.Todo
	err := row.Scan(
		&t.ID, &t.OwnerID, &t.Title, &t.Description,
		&t.Priority, &t.Complete, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TodoRepository) collect(ctx context.Context, op, query string, args ...any) ([]domain.Todo, error) {
	var todos []domain.Todo
	err := database.TraceQuery(ctx, r.logger, op, func(ctx context.Context) error {
		rows, queryErr := r.db.Query(ctx, query, args...)
		if queryErr != nil {
			return queryErr
		}
		defer rows.Close()

		todos = make([]domain.Todo, 0)
		for rows.Next() {
			todo, scanErr := scanTodo(rows)
			if scanErr != nil {
				return scanErr
			}
			todos = append(todos, *todo)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return todos, nil
}

// Create inserts a todo and fills in the generated id and timestamps.
func (r *TodoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	query := `
		INSERT INTO todos (owner_id, title, description, priority, complete)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := database.TraceQuery(ctx, r.logger, "todos.create", func(ctx context.Context) error {
		return r.db.QueryRow(ctx, query,
			todo.OwnerID, todo.Title, todo.Description, todo.Priority, todo.Complete,
		).Scan(&todo.ID, &todo.CreatedAt, &todo.UpdatedAt)
	})
	if err != nil {
		return fmt.Errorf("insert todo: %w", err)
	}
	return nil
}

// GetByID fetches a todo scoped to its owner. A todo belonging to another
// user reads as not found.
func (r *TodoRepository) GetByID(ctx context.Context, ownerID, id int64) (*domain.Todo, error) {
	query := fmt.Sprintf(`SELECT %s FROM todos WHERE id = $1 AND owner_id = $2`, todoColumns)

	var todo *domain.Todo
	err := database.TraceQuery(ctx, r.logger, "todos.get_by_id", func(ctx context.Context) error {
		var scanErr error
		todo, scanErr = scanTodo(r.db.QueryRow(ctx, query, id, ownerID))
		return scanErr
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("todo", id)
		}
		return nil, fmt.Errorf("select todo: %w", err)
	}
	return todo, nil
}

// ListByOwner returns all todos owned by the user, newest first.
func (r *TodoRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Todo, error) {
	query := fmt.Sprintf(`SELECT %s FROM todos WHERE owner_id = $1 ORDER BY id DESC`, todoColumns)
	return r.collect(ctx, "todos.list_by_owner", query, ownerID)
}

// Update replaces the mutable fields of a todo, scoped to its owner.
func (r *TodoRepository) Update(ctx context.Context, todo *domain.Todo) error {
	query := `
		UPDATE todos
		SET title = $1, description = $2, priority = $3, complete = $4, updated_at = now()
		WHERE id = $5 AND owner_id = $6`

	return r.exec(ctx, "todos.update", query, todo.ID,
		todo.Title, todo.Description, todo.Priority, todo.Complete,
		todo.ID, todo.OwnerID,
	)
}

// Delete removes a todo scoped to its owner.
func (r *TodoRepository) Delete(ctx context.Context, ownerID, id int64) error {
	return r.exec(ctx, "todos.delete",
		`DELETE FROM todos WHERE id = $1 AND owner_id = $2`, id, id, ownerID)
}

// ListAll returns a page of todos across all owners plus the total count.
func (r *TodoRepository) ListAll(ctx context.Context, limit, offset int) ([]domain.Todo, int64, error) {
	var total int64
	err := database.TraceQuery(ctx, r.logger, "todos.count", func(ctx context.Context) error {
		return r.db.QueryRow(ctx, `SELECT COUNT(*) FROM todos`).Scan(&total)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("count todos: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM todos ORDER BY id LIMIT $1 OFFSET $2`, todoColumns)
	todos, err := r.collect(ctx, "todos.list_all", query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return todos, total, nil
}

// DeleteAny removes a todo regardless of owner.
func (r *TodoRepository) DeleteAny(ctx context.Context, id int64) error {
	return r.exec(ctx, "todos.delete_any",
		`DELETE FROM todos WHERE id = $1`, id, id)
}

// exec runs a write and maps zero affected rows to not found.
func (r *TodoRepository) exec(ctx context.Context, op, query string, id int64, args ...any) error {
	var affected int64
	err := database.TraceQuery(ctx, r.logger, op, func(ctx context.Context) error {
		tag, execErr := r.db.Exec(ctx, query, args...)
		if execErr != nil {
			return execErr
		}
		affected = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return apperrors.NotFound("todo", id)
	}
	return nil
}
