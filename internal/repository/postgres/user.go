// Package postgres implements the repository interfaces on PostgreSQL via
// pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/avelasko/todoapp/internal/domain"
	"github.com/avelasko/todoapp/pkg/database"
	apperrors "github.com/avelasko/todoapp/pkg/errors"
)

// UserRepository is the PostgreSQL-backed user store.
type UserRepository struct {
	db     database.DBTX
	logger *slog.Logger
}

// NewUserRepository builds a user repository over the given pool.
func NewUserRepository(db database.DBTX, l *slog.Logger) *UserRepository {
	return &UserRepository{db: db, logger: l}
}

const userColumns = `id, username, email, first_name, last_name, hashed_password, role, is_active, COALESCE(phone_number, ''), created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName,
		&u.HashedPassword, &u.Role, &u.IsActive, &u.PhoneNumber,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user and fills in the generated id and timestamps.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (username, email, first_name, last_name, hashed_password, role, is_active, phone_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''))
		RETURNING id, created_at, updated_at`

	err := database.TraceQuery(ctx, r.logger, "users.create", func(ctx context.Context) error {
		return r.db.QueryRow(ctx, query,
			user.Username, user.Email, user.FirstName, user.LastName,
			user.HashedPassword, user.Role, user.IsActive, user.PhoneNumber,
		).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	})
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("user", "username", user.Username)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID fetches a user by primary key.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)

	var user *domain.User
	err := database.TraceQuery(ctx, r.logger, "users.get_by_id", func(ctx context.Context) error {
		var scanErr error
		user, scanErr = scanUser(r.db.QueryRow(ctx, query, id))
		return scanErr
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("user", id)
		}
		return nil, fmt.Errorf("select user by id: %w", err)
	}
	return user, nil
}

// GetByUsername fetches a user by username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE username = $1`, userColumns)

	var user *domain.User
	err := database.TraceQuery(ctx, r.logger, "users.get_by_username", func(ctx context.Context) error {
		var scanErr error
		user, scanErr = scanUser(r.db.QueryRow(ctx, query, username))
		return scanErr
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("user", username)
		}
		return nil, fmt.Errorf("select user by username: %w", err)
	}
	return user, nil
}

// UpdatePassword replaces the stored password hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, hashedPassword string) error {
	query := `UPDATE users SET hashed_password = $1, updated_at = now() WHERE id = $2`

	return r.exec(ctx, "users.update_password", query, id, hashedPassword, id)
}

// UpdatePhoneNumber replaces the stored phone number.
func (r *UserRepository) UpdatePhoneNumber(ctx context.Context, id int64, phoneNumber string) error {
	query := `UPDATE users SET phone_number = NULLIF($1, ''), updated_at = now() WHERE id = $2`

	return r.exec(ctx, "users.update_phone_number", query, id, phoneNumber, id)
}

// exec runs a single-row UPDATE and maps zero affected rows to not found.
func (r *UserRepository) exec(ctx context.Context, op, query string, id int64, args ...any) error {
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
		return apperrors.NotFound("user", id)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
