package admin

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/georgemunganga/pharmahub-backend/internal/platform/apperr"
	"github.com/georgemunganga/pharmahub-backend/internal/platform/httpx"
)

// RequireSession verifies the admin cookie on every request and stores the
// acting admin on the request context. Anonymous requests get a 401.
func RequireSession(service Service, cookieName string, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(cookieName)
			if err != nil {
				httpx.WriteError(w, r, log, apperr.Unauthorized("authentication required"))
				return
			}

			a, err := service.Authenticate(r.Context(), c.Value)
			if err != nil {
				httpx.WriteError(w, r, log, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithAdmin(r.Context(), a)))
		})
	}
}
