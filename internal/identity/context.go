package identity

import "context"

type ctxKey string

const userKey ctxKey = "mediconnect.user"

// WithUser stores the authenticated user in context.
func WithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext extracts the authenticated user if present.
func UserFromContext(ctx context.Context) (*User, bool) {
	val := ctx.Value(userKey)
	if val == nil {
		return nil, false
	}
	user, ok := val.(User)
	if !ok || user.ID == "" {
		return nil, false
	}
	return &user, true
}
