package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuth_MissingHeader(t *testing.T) {
	validator := func(token string) (*Identity, error) {
		t.Fatal("validator should not be called")
		return nil, nil
	}

	handler := Auth(validator)(okHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/user/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	errObj, ok := body["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "UNAUTHORIZED", errObj["code"])
}

func TestAuth_MalformedHeader(t *testing.T) {
	validator := func(token string) (*Identity, error) {
		t.Fatal("validator should not be called")
		return nil, nil
	}

	handler := Auth(validator)(okHandler(t))

	for _, header := range []string{"Basic abc123", "Bearer", "bearer-token"} {
		req := httptest.NewRequest(http.MethodGet, "/user/", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
		assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	validator := func(token string) (*Identity, error) {
		return nil, errors.New("signature mismatch")
	}

	handler := Auth(validator)(okHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/user/", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
}

func TestAuth_ValidToken(t *testing.T) {
	validator := func(token string) (*Identity, error) {
		assert.Equal(t, "good-token", token)
		return &Identity{UserID: 42, Username: "matthew", Role: "admin"}, nil
	}

	var got Identity
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFromContext(r.Context())
		require.True(t, ok)
		got = id
		w.WriteHeader(http.StatusOK)
	})

	handler := Auth(validator)(inner)

	req := httptest.NewRequest(http.MethodGet, "/user/", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), got.UserID)
	assert.Equal(t, "matthew", got.Username)
	assert.Equal(t, "admin", got.Role)
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		allowed  []string
		wantCode int
	}{
		{"admin allowed", "admin", []string{"admin"}, http.StatusOK},
		{"user forbidden", "user", []string{"admin"}, http.StatusForbidden},
		{"one of several", "user", []string{"admin", "user"}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := RequireRole(tt.allowed...)(okHandler(t))

			req := httptest.NewRequest(http.MethodGet, "/admin/todos", nil)
			req = req.WithContext(WithIdentity(req.Context(), Identity{UserID: 1, Username: "u", Role: tt.role}))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestRequireRole_NoIdentity(t *testing.T) {
	handler := RequireRole("admin")(okHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/admin/todos", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
