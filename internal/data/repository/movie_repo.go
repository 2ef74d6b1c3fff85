package repository

import (
	"context"
	"net/url"

	"cinema-checkout/internal/data/entity"
	"cinema-checkout/pkg/apiclient"

	"go.uber.org/zap"
)

// MovieRepository reads the movie and cinema listings used for browsing.
type MovieRepository interface {
	List(ctx context.Context) ([]entity.Movie, error)
	ListCinemas(ctx context.Context, city string) ([]entity.Cinema, error)
}

type movieRepository struct {
	client *apiclient.Client
	log    *zap.Logger
}

func NewMovieRepository(client *apiclient.Client, log *zap.Logger) MovieRepository {
	return &movieRepository{
		client: client,
		log:    log.With(zap.String("repository", "movie")),
	}
}

func (r *movieRepository) List(ctx context.Context) ([]entity.Movie, error) {
	var movies []entity.Movie
	if err := r.client.Get(ctx, "/movies", nil, &movies); err != nil {
		r.log.Warn("Failed to list movies", zap.Error(err))
		return nil, classify("list movies", err)
	}
	return movies, nil
}

// ListCinemas asks for the cinemas in city; an empty city lists all of them.
func (r *movieRepository) ListCinemas(ctx context.Context, city string) ([]entity.Cinema, error) {
	var query url.Values
	if city != "" {
		query = url.Values{"cityName": {city}}
	}

	var cinemas []entity.Cinema
	if err := r.client.Get(ctx, "/cinemas", query, &cinemas); err != nil {
		r.log.Warn("Failed to list cinemas", zap.String("city", city), zap.Error(err))
		return nil, classify("list cinemas", err)
	}
	return cinemas, nil
}
