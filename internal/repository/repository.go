// Package repository defines the persistence interfaces the service layer
// depends on.
package repository

import (
	"context"

	"github.com/avelasko/todoapp/internal/domain"
)

// UserRepository persists user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdatePassword(ctx context.Context, id int64, hashedPassword string) error
	UpdatePhoneNumber(ctx context.Context, id int64, phoneNumber string) error
}

// TodoRepository persists todo items.
type TodoRepository interface {
	Create(ctx context.Context, todo *domain.Todo) error
	GetByID(ctx context.Context, ownerID, id int64) (*domain.Todo, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Todo, error)
	Update(ctx context.Context, todo *domain.Todo) error
	Delete(ctx context.Context, ownerID, id int64) error
	ListAll(ctx context.Context, limit, offset int) ([]domain.Todo, int64, error)
	DeleteAny(ctx context.Context, id int64) error
}
