package wire

import (
	"cinema-checkout/internal/adaptor"
	"cinema-checkout/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler, sessions middleware.SessionStore, log *zap.Logger) {
	// ==================== PUBLIC ROUTES ====================
	// Login keeps an anonymous caller's city if one was chosen
	r.With(middleware.OptionalSession(sessions)).Post("/api/login", authHandler.Login)
	r.With(middleware.OptionalSession(sessions)).Get("/api/session", authHandler.Session)

	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(sessions, log))

		r.Post("/api/logout", authHandler.Logout)
		r.Put("/api/city", authHandler.SelectCity)
	})
}
