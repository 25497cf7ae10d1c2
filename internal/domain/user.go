// Package domain holds the core entities and their validation rules.
package domain

import (
	"regexp"
	"strings"
	"time"
)

// Role values commonly assigned to accounts. Role is free-form text; these
// are the values the application itself gives meaning to.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is an account holder. The password hash never serializes.
type User struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	HashedPassword string    `json:"-"`
	Role           string    `json:"role"`
	IsActive       bool      `json:"is_active"`
	PhoneNumber    string    `json:"phone_number"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// phonePattern accepts an optional leading + followed by 10 to 15 digits,
// spaces, hyphens, or parentheses.
var phonePattern = regexp.MustCompile(`^\+?[\d\s\-\(\)]{10,15}$`)

// ValidPhoneNumber reports whether raw is an acceptable phone number. The
// pattern is checked against the raw input before any normalization.
func ValidPhoneNumber(raw string) bool {
	return phonePattern.MatchString(raw)
}

// NormalizePhoneNumber trims surrounding whitespace for storage.
func NormalizePhoneNumber(raw string) string {
	return strings.TrimSpace(raw)
}
