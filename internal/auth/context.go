package auth

import (
	"context"

	"github.com/pyjuan91/Limira/internal/authz"
	"github.com/pyjuan91/Limira/internal/models"
)

type ctxKey string

const userKey ctxKey = "user"

func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

func UserFromContext(ctx context.Context) *models.User {
	u, _ := ctx.Value(userKey).(*models.User)
	return u
}

// CallerFromContext reports the authenticated caller, if any.
func CallerFromContext(ctx context.Context) (authz.Caller, bool) {
	u := UserFromContext(ctx)
	if u == nil {
		return authz.Caller{}, false
	}
	return authz.CallerOf(u), true
}
