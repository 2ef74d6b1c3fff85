package wire

import (
	"cinema-checkout/internal/adaptor"
	"cinema-checkout/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireCatalog(r chi.Router, catalogHandler *adaptor.CatalogHandler, sessions middleware.SessionStore, log *zap.Logger) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/cities", catalogHandler.GetCities)
	r.Get("/api/movies", catalogHandler.GetMovies)
	r.Get("/api/payment-methods", catalogHandler.GetPaymentMethods)
	r.With(middleware.OptionalSession(sessions)).Get("/api/shows", catalogHandler.GetShows)
	r.With(middleware.OptionalSession(sessions)).Get("/api/cinemas", catalogHandler.GetCinemas)

	// ==================== PROTECTED ROUTES ====================
	r.With(middleware.AuthSession(sessions, log)).Get("/api/bookings", catalogHandler.GetBookings)

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.AuthSession(sessions, log))
		r.Use(middleware.Admin(log))

		r.Get("/attempts", catalogHandler.GetAttempts)
	})
}
