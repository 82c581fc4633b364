package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"studentfin/internal/core"
)

type ctxKey string

const userKey ctxKey = "auth_user"

// UserLookup resolves the user a token was issued for.
type UserLookup interface {
	GetUser(ctx context.Context, id string) (*core.User, error)
}

// Middleware rejects requests without a valid bearer token and stores the
// resolved user in the request context. onError writes the rejection.
func Middleware(issuer *Issuer, users UserLookup, onError func(http.ResponseWriter, *http.Request, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if !strings.HasPrefix(h, "Bearer ") || strings.TrimSpace(strings.TrimPrefix(h, "Bearer ")) == "" {
				onError(w, r, core.Unauthorized("Not authorized, no token"))
				return
			}

			userID, err := issuer.Parse(strings.TrimSpace(strings.TrimPrefix(h, "Bearer ")))
			if err != nil {
				slog.DebugContext(r.Context(), "Token rejected", "error", err)
				onError(w, r, core.Unauthorized("Not authorized, token failed"))
				return
			}

			user, err := users.GetUser(r.Context(), userID)
			if errors.Is(err, core.ErrNotFound) {
				onError(w, r, core.Unauthorized("User not found"))
				return
			}
			if err != nil {
				onError(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func WithUser(ctx context.Context, u *core.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFromContext returns the authenticated user, or nil.
func UserFromContext(ctx context.Context) *core.User {
	u, _ := ctx.Value(userKey).(*core.User)
	return u
}
