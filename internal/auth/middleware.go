package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/pyjuan91/Limira/internal/apperr"
	"github.com/pyjuan91/Limira/internal/authz"
	"github.com/pyjuan91/Limira/internal/models"
	"github.com/pyjuan91/Limira/internal/store"
)

// UserLookup resolves the subject of a verified token.
type UserLookup interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type Middleware struct {
	tokens *TokenIssuer
	users  UserLookup
}

func NewMiddleware(tokens *TokenIssuer, users UserLookup) *Middleware {
	return &Middleware{tokens: tokens, users: users}
}

// Authenticate requires a valid access token and puts its user in the
// request context.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := extractBearerToken(r)
		if tokenStr == "" {
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		claims, err := m.tokens.Parse(tokenStr, TypeAccess)
		if err != nil {
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeError(w, apperr.Status(err), apperr.Message(err))
			return
		}

		userID, _ := claims.UserID()
		user, err := m.users.GetUser(r.Context(), userID)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				slog.Error("load authenticated user", "user_id", userID, "error", err)
			}
			writeError(w, http.StatusUnauthorized, "User not found")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// RequireRoles rejects callers whose role is not listed. It must run after
// Authenticate.
func RequireRoles(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := CallerFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "Not authenticated")
				return
			}
			if err := authz.RequireRole(caller, roles...); err != nil {
				writeError(w, apperr.Status(err), apperr.Message(err))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func extractBearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
