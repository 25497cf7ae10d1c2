package http

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/avelasko/todoapp/internal/auth"
	"github.com/avelasko/todoapp/internal/domain"
	"github.com/avelasko/todoapp/internal/event"
	"github.com/avelasko/todoapp/internal/service"
	"github.com/avelasko/todoapp/pkg/errors"
	"github.com/avelasko/todoapp/pkg/health"
	"github.com/avelasko/todoapp/pkg/middleware"
)

// memUserRepo is an in-memory UserRepository for handler tests.
type memUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{nextID: 1, users: make(map[int64]*domain.User)}
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return errors.AlreadyExists("user", "username", user.Username)
		}
	}
	user.ID = r.nextID
	r.nextID++
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("user", id)
	}
	clone := *u
	return &clone, nil
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, errors.NotFound("user", username)
}

func (r *memUserRepo) UpdatePassword(_ context.Context, id int64, hashedPassword string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return errors.NotFound("user", id)
	}
	u.HashedPassword = hashedPassword
	return nil
}

func (r *memUserRepo) UpdatePhoneNumber(_ context.Context, id int64, phoneNumber string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return errors.NotFound("user", id)
	}
	u.PhoneNumber = phoneNumber
	return nil
}

// memTodoRepo is an in-memory TodoRepository for handler tests.
type memTodoRepo struct {
	mu     sync.Mutex
	nextID int64
	todos  map[int64]*domain.Todo
}

func newMemTodoRepo() *memTodoRepo {
	return &memTodoRepo{nextID: 1, todos: make(map[int64]*domain.Todo)}
}

func (r *memTodoRepo) Create(_ context.Context, todo *domain.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	todo.ID = r.nextID
	r.nextID++
	todo.CreatedAt = time.Now().UTC()
	todo.UpdatedAt = todo.CreatedAt
	clone := *todo
	r.todos[todo.ID] = &clone
	return nil
}

func (r *memTodoRepo) GetByID(_ context.Context, ownerID, id int64) (*domain.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	td, ok := r.todos[id]
	if !ok || td.OwnerID != ownerID {
		return nil, errors.NotFound("todo", id)
	}
	clone := *td
	return &clone, nil
}

func (r *memTodoRepo) ListByOwner(_ context.Context, ownerID int64) ([]domain.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Todo, 0)
	for _, td := range r.todos {
		if td.OwnerID == ownerID {
			out = append(out, *td)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *memTodoRepo) Update(_ context.Context, todo *domain.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	td, ok := r.todos[todo.ID]
	if !ok || td.OwnerID != todo.OwnerID {
		return errors.NotFound("todo", todo.ID)
	}
	clone := *todo
	r.todos[todo.ID] = &clone
	return nil
}

func (r *memTodoRepo) Delete(_ context.Context, ownerID, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	td, ok := r.todos[id]
	if !ok || td.OwnerID != ownerID {
		return errors.NotFound("todo", id)
	}
	delete(r.todos, id)
	return nil
}

func (r *memTodoRepo) ListAll(_ context.Context, limit, offset int) ([]domain.Todo, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]domain.Todo, 0, len(r.todos))
	for _, td := range r.todos {
		all = append(all, *td)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	total := int64(len(all))
	if offset >= len(all) {
		return []domain.Todo{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *memTodoRepo) DeleteAny(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.todos[id]; !ok {
		return errors.NotFound("todo", id)
	}
	delete(r.todos, id)
	return nil
}

// testServer wires the full router over in-memory repositories.
func testServer(t *testing.T) *httptest.Server {
	t.Helper()

	l := slog.New(slog.NewJSONHandler(io.Discard, nil))
	tokens := auth.NewTokenManager([]byte("router-test-secret-at-least-32-chars"))
	publisher := event.NoopPublisher{}

	userSvc := service.NewUserService(newMemUserRepo(), tokens, publisher, l)
	todoSvc := service.NewTodoService(newMemTodoRepo(), publisher, l)

	healthHandler := health.NewHandler(time.Second)

	router := NewRouter(RouterConfig{
		Auth:   NewAuthHandler(userSvc, l),
		User:   NewUserHandler(userSvc, l),
		Todo:   NewTodoHandler(todoSvc, l),
		Admin:  NewAdminHandler(todoSvc, l),
		Health: healthHandler,
		TokenValidator: func(token string) (*middleware.Identity, error) {
			claims, err := tokens.Validate(token)
			if err != nil {
				return nil, err
			}
			return &middleware.Identity{
				UserID:   claims.UserID,
				Username: claims.Subject,
				Role:     claims.Role,
			}, nil
		},
		CORS:   middleware.CORSConfig{Environment: "development"},
		Logger: l,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}
