package http

import (
	"log/slog"
	"net/http"

	"github.com/avelasko/todoapp/internal/service"
	apperrors "github.com/avelasko/todoapp/pkg/errors"
	"github.com/avelasko/todoapp/pkg/httputil"
	"github.com/avelasko/todoapp/pkg/validator"
)

// AuthHandler serves registration and token issuance.
type AuthHandler struct {
	users  *service.UserService
	logger *slog.Logger
}

// NewAuthHandler builds the auth handler.
func NewAuthHandler(users *service.UserService, l *slog.Logger) *AuthHandler {
	return &AuthHandler{users: users, logger: l}
}

type registerRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=50"`
	Email       string `json:"email" validate:"required,email"`
	FirstName   string `json:"first_name" validate:"required,max=100"`
	LastName    string `json:"last_name" validate:"required,max=100"`
	Password    string `json:"password" validate:"required,min=8"`
	Role        string `json:"role" validate:"omitempty,max=50"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,phone"`
}

// Register handles POST /auth/. A successful registration returns 201 with
// an empty body.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := readJSON(w, r, &req); err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}

	_, err := h.users.Register(r.Context(), service.RegisterInput{
		Username:    req.Username,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Password:    req.Password,
		Role:        req.Role,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Token handles POST /auth/token. Credentials arrive form-encoded, in the
// OAuth2 password grant shape.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httputil.WriteError(w, h.logger, apperrors.InvalidInput("invalid form body"))
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		httputil.WriteError(w, h.logger, apperrors.Validation("username and password are required"))
		return
	}

	token, err := h.users.Authenticate(r.Context(), username, password)
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}
