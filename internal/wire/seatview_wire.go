package wire

import (
	"cinema-checkout/internal/adaptor"
	"cinema-checkout/pkg/middleware"

	"github.com/go-chi/chi/v5"
)

// wireSeatView registers the per-show workflow. Sessions are resolved but not
// required here so an anonymous caller gets a login redirect naming this show.
func wireSeatView(r chi.Router, seatHandler *adaptor.SeatViewHandler, sessions middleware.SessionStore) {
	r.Route("/api/shows/{showId}", func(r chi.Router) {
		r.Use(middleware.OptionalSession(sessions))

		r.Post("/seats", seatHandler.Open)
		r.Get("/seats", seatHandler.Get)
		r.Delete("/seats", seatHandler.Close)
		r.Post("/seats/{seatId}/toggle", seatHandler.Toggle)

		r.Post("/checkout", seatHandler.Checkout)
		r.Post("/reset", seatHandler.Reset)
		r.Get("/ticket", seatHandler.Ticket)
	})
}
