package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/accounts-api/internal/api/shared"
	"github.com/phrazzld/accounts-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubJWTService answers ValidateToken from a fixed table.
type stubJWTService struct {
	auth.JWTService
	claims map[string]*auth.Claims
	errs   map[string]error
}

func (s *stubJWTService) ValidateToken(ctx context.Context, token string) (*auth.Claims, error) {
	if err, ok := s.errs[token]; ok {
		return nil, err
	}
	if c, ok := s.claims[token]; ok {
		return c, nil
	}
	return nil, auth.ErrInvalidToken
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	jwt := &stubJWTService{
		claims: map[string]*auth.Claims{"good": {UserID: userID}},
		errs: map[string]error{
			"expired": auth.ErrExpiredToken,
			"refresh": auth.ErrWrongTokenType,
			"broken":  errors.New("keyfunc exploded"),
		},
	}
	m := NewAuthMiddleware(jwt)

	var seen uuid.UUID
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := GetUserID(r)
		require.True(t, ok)
		seen = id
		w.WriteHeader(http.StatusTeapot)
	})
	h := m.Authenticate(next)

	tests := []struct {
		name   string
		header string
		status int
		msg    string
	}{
		{"valid", "Bearer good", http.StatusTeapot, ""},
		{"lowercase scheme", "bearer good", http.StatusTeapot, ""},
		{"missing", "", http.StatusUnauthorized, MsgCredentialsMissing},
		{"wrong scheme", "Basic good", http.StatusUnauthorized, MsgTokenInvalid},
		{"no token", "Bearer", http.StatusUnauthorized, MsgTokenInvalid},
		{"expired", "Bearer expired", http.StatusUnauthorized, MsgTokenExpired},
		{"refresh token", "Bearer refresh", http.StatusUnauthorized, MsgTokenInvalid},
		{"unknown", "Bearer other", http.StatusUnauthorized, MsgTokenInvalid},
		{"internal", "Bearer broken", http.StatusInternalServerError, "Authentication error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/user", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.msg == "" {
				assert.Equal(t, userID, seen)
				return
			}
			var body shared.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, []string{tt.msg}, body.Errors["detail"])
		})
	}
}

func TestGetUserIDMissing(t *testing.T) {
	t.Parallel()

	_, ok := GetUserID(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, ok)
}
