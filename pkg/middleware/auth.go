package middleware

import (
	"net/http"

	"cinema-checkout/internal/data/entity"
	"cinema-checkout/pkg/utils"

	"go.uber.org/zap"
)

const HeaderSessionID = "X-Session-Id"

// SessionStore resolves a kiosk credential to its session.
type SessionStore interface {
	Get(credential string) (entity.UserContext, bool)
}

// AuthSession rejects requests without a known X-Session-Id.
func AuthSession(store SessionStore, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			credential := r.Header.Get(HeaderSessionID)
			if credential == "" {
				utils.ResponseUnauthorized(w, "Missing session", loginRedirect())
				return
			}

			uc, ok := store.Get(credential)
			if !ok {
				logger.Warn("Unknown or expired session", zap.String("path", r.URL.Path))
				utils.ResponseUnauthorized(w, "Invalid or expired session", loginRedirect())
				return
			}

			next.ServeHTTP(w, r.WithContext(utils.SetUserContext(r.Context(), uc)))
		})
	}
}

// OptionalSession resolves the session when one is presented and leaves the
// request anonymous otherwise. Handlers decide what anonymous access means.
func OptionalSession(store SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if credential := r.Header.Get(HeaderSessionID); credential != "" {
				if uc, ok := store.Get(credential); ok {
					r = r.WithContext(utils.SetUserContext(r.Context(), uc))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Admin lets through only sessions whose role claim is admin.
func Admin(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uc := utils.GetUserContext(r.Context())
			if !uc.Authenticated() {
				utils.ResponseUnauthorized(w, "Authentication required", loginRedirect())
				return
			}

			if !uc.IsAdmin() {
				var userID string
				if uc.User != nil {
					userID = uc.User.ID
				}
				logger.Warn("Admin check: non-admin access attempt",
					zap.String("user_id", userID),
					zap.String("path", r.URL.Path))
				utils.ResponseForbidden(w, "Admin access required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func loginRedirect() map[string]string {
	return map[string]string{"redirect": "/login"}
}
