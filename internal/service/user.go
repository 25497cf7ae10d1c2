// Package service implements the application business logic on top of the
// repository and event layers.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/avelasko/todoapp/internal/domain"
	"github.com/avelasko/todoapp/internal/event"
	"github.com/avelasko/todoapp/internal/repository"
	"github.com/avelasko/todoapp/pkg/errors"
)

const bcryptCost = 12

// tokenGenerator issues access tokens for authenticated users.
type tokenGenerator interface {
	Generate(username string, userID int64, role string) (string, error)
}

// UserService handles registration, authentication, and profile management.
type UserService struct {
	users  repository.UserRepository
	tokens tokenGenerator
	events event.Publisher
	logger *slog.Logger
}

// NewUserService wires a user service.
func NewUserService(users repository.UserRepository, tokens tokenGenerator, events event.Publisher, l *slog.Logger) *UserService {
	return &UserService{users: users, tokens: tokens, events: events, logger: l}
}

// RegisterInput carries the fields of a registration request.
type RegisterInput struct {
	Username    string
	Email       string
	FirstName   string
	LastName    string
	Password    string
	Role        string
	PhoneNumber string
}

// Register creates a new active account. The password is hashed with bcrypt
// and never stored in clear. A phone number, when supplied, must match the
// accepted format before the account is created.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}

	phone := ""
	if input.PhoneNumber != "" {
		if !domain.ValidPhoneNumber(input.PhoneNumber) {
			return nil, errors.Validation("Invalid phone number format")
		}
		phone = domain.NormalizePhoneNumber(input.PhoneNumber)
	}

	role := input.Role
	if role == "" {
		role = domain.RoleUser
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:       input.Username,
		Email:          input.Email,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		HashedPassword: string(hash),
		Role:           role,
		IsActive:       true,
		PhoneNumber:    phone,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.Int64("user_id", user.ID),
		slog.String("username", user.Username),
	)
	s.events.UserRegistered(ctx, user)

	return user, nil
}

// Authenticate checks the credentials and issues an access token. Both an
// unknown username and a wrong password resolve to the same opaque error.
// The password hash is only compared when the username exists.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.IsNotFound(err) {
			return "", errors.Unauthorized("Failed Authentication")
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return "", errors.Unauthorized("Failed Authentication")
	}

	token, err := s.tokens.Generate(user.Username, user.ID, user.Role)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	s.logger.InfoContext(ctx, "user authenticated", slog.Int64("user_id", user.ID))
	return token, nil
}

// GetProfile returns the account of the authenticated user.
func (s *UserService) GetProfile(ctx context.Context, userID int64) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

// ChangePassword verifies the current password before storing a new hash.
// A wrong current password reads as an authorization failure, not a
// validation one.
func (s *UserService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(currentPassword)); err != nil {
		return errors.Unauthorized("Error on password change.")
	}

	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "password changed", slog.Int64("user_id", userID))
	return nil
}

// ChangePhoneNumber updates the phone number of the authenticated user. The
// bearer token alone authorizes the change.
func (s *UserService) ChangePhoneNumber(ctx context.Context, userID int64, phoneNumber string) error {
	if !domain.ValidPhoneNumber(phoneNumber) {
		return errors.Validation("Invalid phone number format")
	}

	if err := s.users.UpdatePhoneNumber(ctx, userID, domain.NormalizePhoneNumber(phoneNumber)); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "phone number changed", slog.Int64("user_id", userID))
	return nil
}

// validatePassword enforces the minimum password length.
func validatePassword(password string) error {
	if len(password) < 8 {
		return errors.Validation("password must be at least 8 characters")
	}
	return nil
}
