package middleware

import (
	"context"
	"innkeep/pkg/auth"
	apperrors "innkeep/pkg/errors"
	httputil "innkeep/pkg/http"
	"innkeep/pkg/logger"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
)

const OwnerIDKey contextKey = "owner_id"

// OwnerFromContext returns the authenticated owner id placed by RequireAuth.
func OwnerFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(OwnerIDKey).(string)
	return id, ok && id != ""
}

// RequireAuth wraps a route with bearer-token verification. Handlers behind
// it can rely on OwnerFromContext returning a valid owner id.
func RequireAuth(secret string, log *logger.Logger) func(httprouter.Handle) httprouter.Handle {
	return func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				_ = httputil.WriteError(w, apperrors.Unauthorized("Missing bearer token"))
				return
			}

			claims, err := auth.ParseAccessToken(secret, strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				log.Warn("Rejected access token",
					"path", r.URL.Path,
					"method", r.Method,
					"error", err,
				)
				_ = httputil.WriteError(w, apperrors.Unauthorized("Invalid or expired token"))
				return
			}

			ctx := context.WithValue(r.Context(), OwnerIDKey, claims.OwnerID)
			next(w, r.WithContext(ctx), ps)
		}
	}
}
