package repository

import (
	"context"
	"net/url"
	"time"

	"cinema-checkout/internal/data/entity"
	"cinema-checkout/internal/dto/response"
	"cinema-checkout/pkg/apiclient"

	"go.uber.org/zap"
)

type SeatRepository interface {
	FindByShow(ctx context.Context, showID string) (*entity.SeatMap, error)
}

type seatRepository struct {
	client *apiclient.Client
	log    *zap.Logger
}

func NewSeatRepository(client *apiclient.Client, log *zap.Logger) SeatRepository {
	return &seatRepository{
		client: client,
		log:    log.With(zap.String("repository", "seat")),
	}
}

func (r *seatRepository) FindByShow(ctx context.Context, showID string) (*entity.SeatMap, error) {
	var resp response.SeatsResponse
	err := r.client.Get(ctx, "/seats", url.Values{"showId": {showID}}, &resp)
	if err != nil {
		r.log.Warn("Failed to fetch seats", zap.String("show_id", showID), zap.Error(err))
		return nil, classify("fetch seats for show "+showID, err)
	}

	return &entity.SeatMap{
		ShowID:    showID,
		Seats:     resp.Seats,
		FetchedAt: time.Now(),
	}, nil
}
