// Package event publishes domain events to Kafka. Events are best-effort:
// a publish failure is logged and never fails the request that caused it.
package event

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/avelasko/todoapp/internal/domain"
	"github.com/avelasko/todoapp/pkg/kafka"
)

const source = "todoapp"

// Kafka topics, one per event type.
const (
	TopicUserRegistered = "todoapp.user.registered"
	TopicTodoCreated    = "todoapp.todo.created"
	TopicTodoCompleted  = "todoapp.todo.completed"
)

// Publisher is the interface the service layer publishes through.
type Publisher interface {
	UserRegistered(ctx context.Context, user *domain.User)
	TodoCreated(ctx context.Context, todo *domain.Todo)
	TodoCompleted(ctx context.Context, todo *domain.Todo)
}

type eventProducer interface {
	Publish(ctx context.Context, topic, key string, event kafka.Event) error
}

// Producer publishes domain events through the Kafka producer.
type Producer struct {
	producer eventProducer
	logger   *slog.Logger
}

// NewProducer builds a domain event publisher.
func NewProducer(p eventProducer, l *slog.Logger) *Producer {
	return &Producer{producer: p, logger: l}
}

// UserRegisteredPayload is the payload of TopicUserRegistered events.
type UserRegisteredPayload struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// TodoPayload is the payload of todo lifecycle events.
type TodoPayload struct {
	TodoID   int64  `json:"todo_id"`
	OwnerID  int64  `json:"owner_id"`
	Title    string `json:"title"`
	Priority int    `json:"priority"`
}

// UserRegistered publishes an account creation event.
func (p *Producer) UserRegistered(ctx context.Context, user *domain.User) {
	payload := UserRegisteredPayload{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}
	p.publish(ctx, TopicUserRegistered, strconv.FormatInt(user.ID, 10), payload)
}

// TodoCreated publishes a todo creation event.
func (p *Producer) TodoCreated(ctx context.Context, todo *domain.Todo) {
	p.publish(ctx, TopicTodoCreated, strconv.FormatInt(todo.OwnerID, 10), todoPayload(todo))
}

// TodoCompleted publishes a todo completion event.
func (p *Producer) TodoCompleted(ctx context.Context, todo *domain.Todo) {
	p.publish(ctx, TopicTodoCompleted, strconv.FormatInt(todo.OwnerID, 10), todoPayload(todo))
}

func todoPayload(todo *domain.Todo) TodoPayload {
	return TodoPayload{
		TodoID:   todo.ID,
		OwnerID:  todo.OwnerID,
		Title:    todo.Title,
		Priority: todo.Priority,
	}
}

func (p *Producer) publish(ctx context.Context, topic, key string, payload any) {
	evt := kafka.NewEvent(topic, source, payload)
	if err := p.producer.Publish(ctx, topic, key, evt); err != nil {
		p.logger.WarnContext(ctx, "event publish failed",
			slog.String("topic", topic),
			slog.String("error", err.Error()),
		)
	}
}

// NoopPublisher discards events. It stands in when Kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) UserRegistered(context.Context, *domain.User) {}
func (NoopPublisher) TodoCreated(context.Context, *domain.Todo)   {}
func (NoopPublisher) TodoCompleted(context.Context, *domain.Todo) {}
