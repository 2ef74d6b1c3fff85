package adaptor

import (
	"net/http"

	"cinema-checkout/internal/usecase"
	"cinema-checkout/pkg/utils"

	"go.uber.org/zap"
)

type CatalogHandler struct {
	service usecase.CatalogService
	log     *zap.Logger
}

func NewCatalogHandler(service usecase.CatalogService, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		log:     log.With(zap.String("handler", "catalog")),
	}
}

// GetShows handles GET /api/shows; query parameters are passed to the backend as-is
func (h *CatalogHandler) GetShows(w http.ResponseWriter, r *http.Request) {
	shows, err := h.service.ListShows(r.Context(), utils.GetUserContext(r.Context()), r.URL.Query())
	if err != nil {
		handleServiceError(w, h.log, err, "list shows", nil)
		return
	}

	utils.ResponseSuccess(w, "success", shows)
}

// GetCities handles GET /api/cities
func (h *CatalogHandler) GetCities(w http.ResponseWriter, r *http.Request) {
	cities, err := h.service.ListCities(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "list cities", nil)
		return
	}

	utils.ResponseSuccess(w, "success", cities)
}

// GetMovies handles GET /api/movies
func (h *CatalogHandler) GetMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := h.service.ListMovies(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "list movies", nil)
		return
	}

	utils.ResponseSuccess(w, "success", movies)
}

// GetCinemas handles GET /api/cinemas?cityName=; without cityName the session's city is used
func (h *CatalogHandler) GetCinemas(w http.ResponseWriter, r *http.Request) {
	cinemas, err := h.service.ListCinemas(r.Context(), utils.GetUserContext(r.Context()), r.URL.Query().Get("cityName"))
	if err != nil {
		handleServiceError(w, h.log, err, "list cinemas", nil)
		return
	}

	utils.ResponseSuccess(w, "success", cinemas)
}

// GetPaymentMethods handles GET /api/payment-methods
func (h *CatalogHandler) GetPaymentMethods(w http.ResponseWriter, r *http.Request) {
	utils.ResponseSuccess(w, "success", utils.PaymentMethods)
}

// GetBookings handles GET /api/bookings (protected)
func (h *CatalogHandler) GetBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.service.ListBookings(r.Context(), utils.GetUserContext(r.Context()))
	if err != nil {
		handleServiceError(w, h.log, err, "list bookings", nil)
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// ==================== ADMIN METHODS ====================

// GetAttempts handles GET /api/admin/attempts?show_id=&limit= (admin only)
func (h *CatalogHandler) GetAttempts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit := utils.ParseInt(query.Get("limit"), 50)

	records, err := h.service.ListAttempts(r.Context(), query.Get("show_id"), limit)
	if err != nil {
		handleServiceError(w, h.log, err, "list attempts", nil)
		return
	}

	utils.ResponseSuccess(w, "success", records)
}
