package adaptor

import (
	"net/http"

	"cinema-checkout/internal/data/entity"
	"cinema-checkout/internal/dto/request"
	"cinema-checkout/internal/usecase"
	"cinema-checkout/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type SeatViewHandler struct {
	service usecase.SeatViewService
	log     *zap.Logger
}

func NewSeatViewHandler(service usecase.SeatViewService, log *zap.Logger) *SeatViewHandler {
	return &SeatViewHandler{
		service: service,
		log:     log.With(zap.String("handler", "seatview")),
	}
}

// fail reports err; an anonymous user is told to log in and come back to this show.
func (h *SeatViewHandler) fail(w http.ResponseWriter, r *http.Request, err error, operation string, data any) {
	if entity.KindOf(err) == entity.ErrUnauthenticated {
		data = map[string]string{
			"redirect": "/login",
			"from":     "/seats/" + chi.URLParam(r, "showId"),
		}
	}
	handleServiceError(w, h.log, err, operation, data)
}

// Open handles POST /api/shows/{showId}/seats
func (h *SeatViewHandler) Open(w http.ResponseWriter, r *http.Request) {
	showID := chi.URLParam(r, "showId")

	view, err := h.service.Open(r.Context(), utils.GetUserContext(r.Context()), showID)
	if err != nil {
		h.fail(w, r, err, "open seat view", nil)
		return
	}

	utils.ResponseCreated(w, "Seat view opened", view)
}

// Get handles GET /api/shows/{showId}/seats
func (h *SeatViewHandler) Get(w http.ResponseWriter, r *http.Request) {
	showID := chi.URLParam(r, "showId")

	view, err := h.service.View(r.Context(), utils.GetUserContext(r.Context()), showID)
	if err != nil {
		h.fail(w, r, err, "get seat view", nil)
		return
	}

	utils.ResponseSuccess(w, "success", view)
}

// Toggle handles POST /api/shows/{showId}/seats/{seatId}/toggle
func (h *SeatViewHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	showID := chi.URLParam(r, "showId")
	seatID := chi.URLParam(r, "seatId")

	view, err := h.service.Toggle(r.Context(), utils.GetUserContext(r.Context()), showID, seatID)
	if err != nil {
		h.fail(w, r, err, "toggle seat", nil)
		return
	}

	utils.ResponseSuccess(w, "success", view)
}

// Close handles DELETE /api/shows/{showId}/seats
func (h *SeatViewHandler) Close(w http.ResponseWriter, r *http.Request) {
	showID := chi.URLParam(r, "showId")

	if err := h.service.Close(r.Context(), utils.GetUserContext(r.Context()), showID); err != nil {
		h.fail(w, r, err, "close seat view", nil)
		return
	}

	utils.ResponseSuccess(w, "Seat view closed", nil)
}

// Checkout handles POST /api/shows/{showId}/checkout
func (h *SeatViewHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	showID := chi.URLParam(r, "showId")

	var req request.CheckoutRequest
	if err := decodeBody(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.service.Checkout(r.Context(), utils.GetUserContext(r.Context()), showID, &req)
	if err != nil {
		var data any
		if result != nil {
			data = result
		}
		h.fail(w, r, err, "checkout", data)
		return
	}

	utils.ResponseSuccess(w, "Booking confirmed", result)
}

// Reset handles POST /api/shows/{showId}/reset
func (h *SeatViewHandler) Reset(w http.ResponseWriter, r *http.Request) {
	showID := chi.URLParam(r, "showId")

	view, err := h.service.Reset(r.Context(), utils.GetUserContext(r.Context()), showID)
	if err != nil {
		h.fail(w, r, err, "reset checkout", nil)
		return
	}

	utils.ResponseSuccess(w, "success", view)
}

// Ticket handles GET /api/shows/{showId}/ticket?format=txt|png|pdf
func (h *SeatViewHandler) Ticket(w http.ResponseWriter, r *http.Request) {
	showID := chi.URLParam(r, "showId")

	export, err := h.service.Ticket(r.Context(), utils.GetUserContext(r.Context()), showID, r.URL.Query().Get("format"))
	if err != nil {
		h.fail(w, r, err, "export ticket", nil)
		return
	}

	utils.ResponseFile(w, export.ContentType, export.FileName, export.Body)
}
