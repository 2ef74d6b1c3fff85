package usecase

import (
	"context"
	"net/url"

	"cinema-checkout/internal/data/entity"
	"cinema-checkout/internal/data/repository"
	"cinema-checkout/pkg/utils"

	"go.uber.org/zap"
)

// CatalogService passes read-only listings through from the backend.
type CatalogService interface {
	ListShows(ctx context.Context, uc entity.UserContext, filter url.Values) ([]entity.Show, error)
	ListCities(ctx context.Context) ([]entity.City, error)
	ListMovies(ctx context.Context) ([]entity.Movie, error)
	ListCinemas(ctx context.Context, uc entity.UserContext, city string) ([]entity.Cinema, error)
	ListBookings(ctx context.Context, uc entity.UserContext) ([]entity.BookingSummary, error)
	ListAttempts(ctx context.Context, showID string, limit int) ([]*entity.AttemptRecord, error)
}

type catalogService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCatalogService(repo *repository.Repository, log *zap.Logger) CatalogService {
	return &catalogService{
		repo: repo,
		log:  log.With(zap.String("service", "catalog")),
	}
}

// ListShows narrows to the session's city unless the filter names cityName,
// even as an empty value.
func (s *catalogService) ListShows(ctx context.Context, uc entity.UserContext, filter url.Values) ([]entity.Show, error) {
	if uc.Authenticated() {
		ctx = utils.SetCredentialContext(ctx, uc.Credential)
	}
	if uc.City != "" && !filter.Has("cityName") {
		scoped := url.Values{}
		for k, v := range filter {
			scoped[k] = v
		}
		scoped.Set("cityName", uc.City)
		filter = scoped
	}

	shows, err := s.repo.Show.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if shows == nil {
		shows = []entity.Show{}
	}
	return shows, nil
}

func (s *catalogService) ListCities(ctx context.Context) ([]entity.City, error) {
	cities, err := s.repo.City.List(ctx)
	if err != nil {
		return nil, err
	}
	if cities == nil {
		cities = []entity.City{}
	}
	return cities, nil
}

func (s *catalogService) ListMovies(ctx context.Context) ([]entity.Movie, error) {
	movies, err := s.repo.Movie.List(ctx)
	if err != nil {
		return nil, err
	}
	if movies == nil {
		movies = []entity.Movie{}
	}
	return movies, nil
}

// ListCinemas lists the cinemas in city, falling back to the session's city.
func (s *catalogService) ListCinemas(ctx context.Context, uc entity.UserContext, city string) ([]entity.Cinema, error) {
	if city == "" {
		city = uc.City
	}
	cinemas, err := s.repo.Movie.ListCinemas(ctx, city)
	if err != nil {
		return nil, err
	}
	if cinemas == nil {
		cinemas = []entity.Cinema{}
	}
	return cinemas, nil
}

func (s *catalogService) ListBookings(ctx context.Context, uc entity.UserContext) ([]entity.BookingSummary, error) {
	if !uc.Authenticated() {
		return nil, entity.NewBookingError(entity.ErrUnauthenticated, "", nil)
	}

	bookings, err := s.repo.Booking.ListForUser(utils.SetCredentialContext(ctx, uc.Credential))
	if err != nil {
		return nil, err
	}
	if bookings == nil {
		bookings = []entity.BookingSummary{}
	}
	return bookings, nil
}

// ListAttempts reads the checkout journal for one show, newest first.
func (s *catalogService) ListAttempts(ctx context.Context, showID string, limit int) ([]*entity.AttemptRecord, error) {
	if showID == "" {
		return nil, entity.NewBookingError(entity.ErrValidation, "show_id is required", nil)
	}
	records, err := s.repo.Journal.ListByShow(ctx, showID, limit)
	if err != nil {
		s.log.Error("Failed to list attempts", zap.String("show_id", showID), zap.Error(err))
		return nil, err
	}
	if records == nil {
		records = []*entity.AttemptRecord{}
	}
	return records, nil
}
