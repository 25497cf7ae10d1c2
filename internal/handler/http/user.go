package http

import (
	"log/slog"
	"net/http"

	"github.com/avelasko/todoapp/internal/domain"
	"github.com/avelasko/todoapp/internal/service"
	apperrors "github.com/avelasko/todoapp/pkg/errors"
	"github.com/avelasko/todoapp/pkg/httputil"
	"github.com/avelasko/todoapp/pkg/middleware"
	"github.com/avelasko/todoapp/pkg/validator"
)

func init() {
	// The phone tag reuses the domain format rule so DTO validation and
	// service-level checks cannot drift apart.
	_ = validator.Register("phone", domain.ValidPhoneNumber)
}

// UserHandler serves the authenticated user's profile operations.
type UserHandler struct {
	users  *service.UserService
	logger *slog.Logger
}

// NewUserHandler builds the user handler.
func NewUserHandler(users *service.UserService, l *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: l}
}

type profileResponse struct {
	UserID      int64  `json:"user_id"`
	Username    string `json:"username"`
	UserRole    string `json:"user_role"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
}

// Profile handles GET /user/.
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, h.logger, apperrors.Unauthorized("invalid authentication credentials"))
		return
	}

	user, err := h.users.GetProfile(r.Context(), identity.UserID)
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, profileResponse{
		UserID:      user.ID,
		Username:    user.Username,
		UserRole:    user.Role,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		PhoneNumber: user.PhoneNumber,
	})
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// ChangePassword handles PUT /user/password. Success is 204; a wrong current
// password is 401.
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, h.logger, apperrors.Unauthorized("invalid authentication credentials"))
		return
	}

	var req changePasswordRequest
	if err := readJSON(w, r, &req); err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}

	if err := h.users.ChangePassword(r.Context(), identity.UserID, req.OldPassword, req.NewPassword); err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type changePhoneRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,phone"`
}

// ChangePhoneNumber handles PUT /user/phone_number. The bearer token alone
// authorizes the change; no password re-entry is required.
func (h *UserHandler) ChangePhoneNumber(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, h.logger, apperrors.Unauthorized("invalid authentication credentials"))
		return
	}

	var req changePhoneRequest
	if err := readJSON(w, r, &req); err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}

	if err := h.users.ChangePhoneNumber(r.Context(), identity.UserID, req.PhoneNumber); err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
