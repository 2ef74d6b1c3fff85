package repository

import (
	"context"
	"net/url"

	"cinema-checkout/internal/data/entity"
	"cinema-checkout/pkg/apiclient"

	"go.uber.org/zap"
)

type ShowRepository interface {
	List(ctx context.Context, filter url.Values) ([]entity.Show, error)
	FindByID(ctx context.Context, showID string) (*entity.Show, error)
}

type showRepository struct {
	client *apiclient.Client
	log    *zap.Logger
}

func NewShowRepository(client *apiclient.Client, log *zap.Logger) ShowRepository {
	return &showRepository{
		client: client,
		log:    log.With(zap.String("repository", "show")),
	}
}

func (r *showRepository) List(ctx context.Context, filter url.Values) ([]entity.Show, error) {
	var shows []entity.Show
	if err := r.client.Get(ctx, "/shows", filter, &shows); err != nil {
		r.log.Warn("Failed to list shows", zap.Any("filter", filter), zap.Error(err))
		return nil, classify("list shows", err)
	}
	return shows, nil
}

// FindByID scans the unfiltered show list; the backend has no single-show
// endpoint. Returns nil when the id is unknown.
func (r *showRepository) FindByID(ctx context.Context, showID string) (*entity.Show, error) {
	shows, err := r.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	for i := range shows {
		if shows[i].ID == showID {
			return &shows[i], nil
		}
	}
	return nil, nil
}
