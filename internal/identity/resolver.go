package identity

import (
	"context"

	"github.com/google/uuid"

	pkgerrors "github.com/stridewear/storefront-backend/pkg/errors"
)

// Owner is the durable key a cart hangs off: an authenticated user id or an
// anonymous session key, never both.
type Owner struct {
	UserID     *uuid.UUID
	SessionKey *string
}

// UserOwner builds an owner for an authenticated buyer.
func UserOwner(id uuid.UUID) Owner {
	return Owner{UserID: &id}
}

// SessionOwner builds an owner for an anonymous browser session.
func SessionOwner(key string) Owner {
	return Owner{SessionKey: &key}
}

// IsUser reports whether the owner is an authenticated buyer.
func (o Owner) IsUser() bool {
	return o.UserID != nil
}

// Valid reports whether exactly one identity is set.
func (o Owner) Valid() bool {
	return (o.UserID != nil) != (o.SessionKey != nil)
}

type contextKey string

const (
	ctxUserID     contextKey = "user_id"
	ctxSessionKey contextKey = "session_key"
)

// WithUserID injects the authenticated user id into the context.
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, ctxUserID, userID)
}

// WithSessionKey injects the anonymous session key into the context.
func WithSessionKey(ctx context.Context, sessionKey string) context.Context {
	return context.WithValue(ctx, ctxSessionKey, sessionKey)
}

// UserIDFromContext returns the authenticated user id, if any.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	if ctx == nil {
		return uuid.Nil, false
	}
	if v, ok := ctx.Value(ctxUserID).(uuid.UUID); ok && v != uuid.Nil {
		return v, true
	}
	return uuid.Nil, false
}

// SessionKeyFromContext returns the anonymous session key, if any.
func SessionKeyFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	if v, ok := ctx.Value(ctxSessionKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// Resolve produces the owner key for the current request. Authentication
// wins over the browser session, so a logged-in buyer always lands on their
// user cart even while their old guest session is still alive (the guest
// cart is intentionally left behind, not merged). Session creation happens
// in the session middleware before any handler runs, so a request without
// either identity means the middleware chain is miswired.
func Resolve(ctx context.Context) (Owner, error) {
	if userID, ok := UserIDFromContext(ctx); ok {
		return UserOwner(userID), nil
	}
	if sessionKey, ok := SessionKeyFromContext(ctx); ok {
		return SessionOwner(sessionKey), nil
	}
	return Owner{}, pkgerrors.New(pkgerrors.CodeInternal, "request has no resolved owner identity")
}
