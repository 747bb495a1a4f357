package middleware

import (
	"context"
	"net/http"

	"github.com/stridewear/storefront-backend/api/responses"
	"github.com/stridewear/storefront-backend/internal/identity"
	"github.com/stridewear/storefront-backend/pkg/config"
	pkgerrors "github.com/stridewear/storefront-backend/pkg/errors"
	"github.com/stridewear/storefront-backend/pkg/logger"
)

// SessionIssuer is the surface the session middleware needs from the manager.
type SessionIssuer interface {
	Start(ctx context.Context) (string, error)
	Validate(ctx context.Context, key string) (bool, error)
}

// Session guarantees every request carries a live browser session before any
// handler runs. A missing or expired cookie gets a fresh session and a
// Set-Cookie on the way out, so the first page view can already hold a cart.
func Session(manager SessionIssuer, cfg config.SessionConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			key := ""
			if cookie, err := r.Cookie(cfg.CookieName); err == nil {
				key = cookie.Value
			}

			if key != "" {
				live, err := manager.Validate(ctx, key)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session"))
					return
				}
				if !live {
					key = ""
				}
			}

			if key == "" {
				fresh, err := manager.Start(ctx)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "start session"))
					return
				}
				key = fresh
				http.SetCookie(w, &http.Cookie{
					Name:     cfg.CookieName,
					Value:    key,
					Path:     "/",
					MaxAge:   int(cfg.TTL().Seconds()),
					HttpOnly: true,
					Secure:   cfg.CookieSecure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx = identity.WithSessionKey(ctx, key)
			if logg != nil {
				ctx = logg.WithSessionKey(ctx, key)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
