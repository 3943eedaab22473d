package middleware

import (
	"net/http"

	"github.com/angelmondragon/packfinderz-loyalty/api/responses"
	"github.com/angelmondragon/packfinderz-loyalty/api/validators"
	pkgAuth "github.com/angelmondragon/packfinderz-loyalty/pkg/auth"
	"github.com/angelmondragon/packfinderz-loyalty/pkg/config"
	pkgerrors "github.com/angelmondragon/packfinderz-loyalty/pkg/errors"
	"github.com/angelmondragon/packfinderz-loyalty/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the customer it was issued to.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := validators.BearerToken(r.Header.Get("Authorization"))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			ctx := WithCustomerID(r.Context(), claims.CustomerID)
			if logg != nil {
				ctx = logg.WithCustomerID(ctx, claims.CustomerID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
