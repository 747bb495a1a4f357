package middleware

import (
	"net/http"
	"strings"

	"github.com/stridewear/storefront-backend/api/responses"
	"github.com/stridewear/storefront-backend/internal/identity"
	pkgauth "github.com/stridewear/storefront-backend/pkg/auth"
	"github.com/stridewear/storefront-backend/pkg/config"
	pkgerrors "github.com/stridewear/storefront-backend/pkg/errors"
	"github.com/stridewear/storefront-backend/pkg/logger"
)

// OptionalAuth verifies a bearer token when one is presented and seeds the
// request with the buyer's identity. Requests without credentials pass
// through anonymously; a presented but invalid token is rejected so a buyer
// never silently shops on the guest cart while believing they are signed in.
func OptionalAuth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgauth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			ctx := identity.WithUserID(r.Context(), claims.UserID)
			if logg != nil {
				ctx = logg.WithUserID(ctx, claims.UserID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser gates routes that only make sense for a signed-in buyer, such
// as the order history listing.
func RequireUser(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := identity.UserIDFromContext(r.Context()); !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
