package postgres

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelasko/todoapp/internal/domain"
	"github.com/avelasko/todoapp/pkg/database"
	apperrors "github.com/avelasko/todoapp/pkg/errors"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func userRows(u domain.User) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "username", "email", "first_name", "last_name",
		"hashed_password", "role", "is_active", "phone_number",
		"created_at", "updated_at",
	}).AddRow(
		u.ID, u.Username, u.Email, u.FirstName, u.LastName,
		u.HashedPassword, u.Role, u.IsActive, u.PhoneNumber,
		u.CreatedAt, u.UpdatedAt,
	)
}

func fixtureUser() domain.User {
	now := time.Now().UTC()
	return domain.User{
		ID:             1,
		Username:       "MatthewTest",
		Email:          "matt@gmail.com",
		FirstName:      "Matthew",
		LastName:       "Alexander",
		HashedPassword: "$2a$04$hash",
		Role:           "admin",
		IsActive:       true,
		PhoneNumber:    "+1-555-123-4567",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestUserRepository_Create(t *testing.T) {
	mock := database.NewMockPool(t)
	repo := NewUserRepository(mock, discardLogger())

	now := time.Now().UTC()
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("MatthewTest", "matt@gmail.com", "Matthew", "Alexander",
			"$2a$04$hash", "admin", true, "+1-555-123-4567").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(1), now, now))

	user := fixtureUser()
	user.ID = 0
	require.NoError(t, repo.Create(context.Background(), &user))
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, now, user.CreatedAt)
}

func TestUserRepository_Create_DuplicateUsername(t *testing.T) {
	mock := database.NewMockPool(t)
	repo := NewUserRepository(mock, discardLogger())

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("MatthewTest", "matt@gmail.com", "Matthew", "Alexander",
			"$2a$04$hash", "admin", true, "+1-555-123-4567").
		WillReturnError(errors.New(`ERROR: duplicate key value violates unique constraint "users_username_key" (SQLSTATE 23505)`))

	user := fixtureUser()
	err := repo.Create(context.Background(), &user)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "ALREADY_EXISTS", appErr.Code)
}

func TestUserRepository_GetByUsername(t *testing.T) {
	mock := database.NewMockPool(t)
	repo := NewUserRepository(mock, discardLogger())

	want := fixtureUser()
	mock.ExpectQuery(`SELECT (.+) FROM users WHERE username`).
		WithArgs("MatthewTest").
		WillReturnRows(userRows(want))

	got, err := repo.GetByUsername(context.Background(), "MatthewTest")
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Email, got.Email)
	assert.Equal(t, want.PhoneNumber, got.PhoneNumber)
}

func TestUserRepository_GetByUsername_NotFound(t *testing.T) {
	mock := database.NewMockPool(t)
	repo := NewUserRepository(mock, discardLogger())

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE username`).
		WithArgs("nobody").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByUsername(context.Background(), "nobody")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	mock := database.NewMockPool(t)
	repo := NewUserRepository(mock, discardLogger())

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE id`).
		WithArgs(int64(99)).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 99)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUserRepository_GetByID_WrappedNoRows(t *testing.T) {
	mock := database.NewMockPool(t)
	repo := NewUserRepository(mock, discardLogger())

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE id`).
		WithArgs(int64(99)).
		WillReturnError(fmt.Errorf("scan row: %w", pgx.ErrNoRows))

	_, err := repo.GetByID(context.Background(), 99)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUserRepository_UpdatePassword(t *testing.T) {
	mock := database.NewMockPool(t)
	repo := NewUserRepository(mock, discardLogger())

	mock.ExpectExec(`UPDATE users SET hashed_password`).
		WithArgs("$2a$04$newhash", int64(1)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.UpdatePassword(context.Background(), 1, "$2a$04$newhash"))
}

func TestUserRepository_UpdatePhoneNumber_NotFound(t *testing.T) {
	mock := database.NewMockPool(t)
	repo := NewUserRepository(mock, discardLogger())

	mock.ExpectExec(`UPDATE users SET phone_number`).
		WithArgs("+1-555-000-0000", int64(99)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdatePhoneNumber(context.Background(), 99, "+1-555-000-0000")
	assert.True(t, apperrors.IsNotFound(err))
}
