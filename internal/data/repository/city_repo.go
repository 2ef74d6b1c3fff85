package repository

import (
	"context"

	"cinema-checkout/internal/data/entity"
	"cinema-checkout/pkg/apiclient"

	"go.uber.org/zap"
)

type CityRepository interface {
	List(ctx context.Context) ([]entity.City, error)
}

type cityRepository struct {
	client *apiclient.Client
	log    *zap.Logger
}

func NewCityRepository(client *apiclient.Client, log *zap.Logger) CityRepository {
	return &cityRepository{
		client: client,
		log:    log.With(zap.String("repository", "city")),
	}
}

func (r *cityRepository) List(ctx context.Context) ([]entity.City, error) {
	var cities []entity.City
	if err := r.client.Get(ctx, "/cities", nil, &cities); err != nil {
		r.log.Warn("Failed to list cities", zap.Error(err))
		return nil, classify("list cities", err)
	}
	return cities, nil
}
