package repository

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"cinema-checkout/internal/data/entity"
	"cinema-checkout/pkg/apiclient"
	"cinema-checkout/pkg/database"

	"go.uber.org/zap"
)

// Repository groups the backend gateways and the attempt journal.
type Repository struct {
	Seat    SeatRepository
	Show    ShowRepository
	Movie   MovieRepository
	Booking BookingRepository
	Auth    AuthRepository
	City    CityRepository
	Journal JournalRepository
}

// NewRepository wires gateways on client. db may be nil, in which case
// attempts are not journaled.
func NewRepository(client *apiclient.Client, db database.PgxIface, log *zap.Logger) *Repository {
	journal := NewNoopJournalRepository()
	if db != nil {
		journal = NewJournalRepository(db, log)
	}

	return &Repository{
		Seat:    NewSeatRepository(client, log),
		Show:    NewShowRepository(client, log),
		Movie:   NewMovieRepository(client, log),
		Booking: NewBookingRepository(client, log),
		Auth:    NewAuthRepository(client, log),
		City:    NewCityRepository(client, log),
		Journal: journal,
	}
}

// classify turns client failures into booking error kinds. Transport
// failures become NETWORK_FAILURE and 401 becomes UNAUTHENTICATED.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, apiclient.ErrTransport) {
		return entity.NewBookingError(entity.ErrNetworkFailure, "", fmt.Errorf("%s: %w", op, err))
	}

	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) {
		if apiErr.Status == http.StatusUnauthorized {
			return entity.NewBookingError(entity.ErrUnauthenticated, apiErr.Message, fmt.Errorf("%s: %w", op, err))
		}
		return entity.NewBookingError(entity.ErrBackend, apiErr.Message, fmt.Errorf("%s: %w", op, err))
	}

	return fmt.Errorf("%s: %w", op, err)
}

// businessFailure reports whether err is a 4xx (other than 401) answer whose
// body still carries the endpoint's {success:false,error} shape.
func businessFailure(err error) bool {
	var apiErr *apiclient.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status >= 400 && apiErr.Status < 500 && apiErr.Status != http.StatusUnauthorized
}

// lockRefused narrows businessFailure for /book/lock: only a 409, or a 4xx
// whose reason says the seats are unavailable, means the seats are taken.
// Other 4xx answers are request problems and surface as BACKEND.
func lockRefused(err error, reason string) bool {
	if !businessFailure(err) {
		return false
	}
	var apiErr *apiclient.Error
	errors.As(err, &apiErr)
	if apiErr.Status == http.StatusConflict {
		return true
	}
	text := strings.ToLower(reason + " " + apiErr.Message)
	return strings.Contains(text, "unavailable") || strings.Contains(text, "no longer available")
}

func backendMessage(err error) string {
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}
