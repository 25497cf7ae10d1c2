package domain

import "time"

// Priority bounds for todo items.
const (
	MinPriority = 1
	MaxPriority = 5
)

// Todo is a single todo item owned by one user.
type Todo struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Priority    int       `json:"priority"`
	Complete    bool      `json:"complete"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
