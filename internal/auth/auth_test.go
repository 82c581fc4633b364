package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studentfin/internal/core"
)

const testSecret = "test-secret-that-is-long-enough-for-hs256"

func TestIssuer_RoundTrip(t *testing.T) {
	iss := NewIssuer(testSecret, time.Hour)
	token, err := iss.Issue("user-1")
	require.NoError(t, err)

	id, err := iss.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id)
}

func TestIssuer_Rejects(t *testing.T) {
	iss := NewIssuer(testSecret, time.Hour)

	expired := NewIssuer(testSecret, time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := expired.Issue("user-1")
	require.NoError(t, err)

	other, err := NewIssuer("another-secret-another-secret-1234", time.Hour).Issue("user-1")
	require.NoError(t, err)

	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-1",
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not.a.token"},
		{"expired", old},
		{"wrong secret", other},
		{"missing user id", noUser},
		{"missing expiry", noExp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := iss.Parse(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)
	assert.True(t, CheckPassword(hash, "password123"))
	assert.False(t, CheckPassword(hash, "password124"))
}

type fakeUsers map[string]*core.User

func (f fakeUsers) GetUser(_ context.Context, id string) (*core.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, core.ErrNotFound
}

func TestMiddleware(t *testing.T) {
	iss := NewIssuer(testSecret, time.Hour)
	users := fakeUsers{"user-1": {ID: "user-1", Name: "John Doe"}}

	good, err := iss.Issue("user-1")
	require.NoError(t, err)
	ghost, err := iss.Issue("user-2")
	require.NoError(t, err)

	var gotErr error
	onError := func(w http.ResponseWriter, _ *http.Request, err error) {
		gotErr = err
		w.WriteHeader(http.StatusUnauthorized)
	}
	var gotUser *core.User
	handler := Middleware(iss, users, onError)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name    string
		header  string
		status  int
		message string
	}{
		{"no header", "", http.StatusUnauthorized, "Not authorized, no token"},
		{"not bearer", "Basic abc", http.StatusUnauthorized, "Not authorized, no token"},
		{"bad token", "Bearer abc", http.StatusUnauthorized, "Not authorized, token failed"},
		{"unknown user", "Bearer " + ghost, http.StatusUnauthorized, "User not found"},
		{"valid", "Bearer " + good, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotErr, gotUser = nil, nil
			req := httptest.NewRequest(http.MethodGet, "/api/expenses", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.message != "" {
				require.Error(t, gotErr)
				assert.True(t, errors.Is(gotErr, core.ErrUnauthorized))
				assert.Equal(t, tt.message, core.Message(gotErr))
				assert.Nil(t, gotUser)
				return
			}
			require.NotNil(t, gotUser)
			assert.Equal(t, "user-1", gotUser.ID)
		})
	}
}
