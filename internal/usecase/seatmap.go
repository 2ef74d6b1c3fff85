package usecase

import (
	"context"
	"sync"
	"time"

	"cinema-checkout/internal/data/entity"
	"cinema-checkout/internal/data/repository"

	"go.uber.org/zap"
)

// SeatMapCache holds the latest seat snapshot for one show.
type SeatMapCache struct {
	showID string
	repo   repository.SeatRepository
	log    *zap.Logger

	mu      sync.RWMutex
	current *entity.SeatMap
}

func NewSeatMapCache(showID string, repo repository.SeatRepository, log *zap.Logger) *SeatMapCache {
	return &SeatMapCache{
		showID: showID,
		repo:   repo,
		log:    log.With(zap.String("service", "seatmap"), zap.String("show_id", showID)),
	}
}

// Fetch loads a fresh snapshot and replaces the cached one wholesale. On
// failure the previous snapshot is kept.
func (c *SeatMapCache) Fetch(ctx context.Context) (*entity.SeatMap, error) {
	snapshot, err := c.repo.FindByShow(ctx, c.showID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.current = snapshot
	c.mu.Unlock()

	return snapshot, nil
}

// Snapshot returns the last fetched map, or nil before the first Fetch.
func (c *SeatMapCache) Snapshot() *entity.SeatMap {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Watch refetches every interval and emits each new snapshot. The channel
// is closed once ctx is done.
func (c *SeatMapCache) Watch(ctx context.Context, interval time.Duration) <-chan *entity.SeatMap {
	out := make(chan *entity.SeatMap, 1)

	go func() {
		defer close(out)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			snapshot, err := c.Fetch(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				c.log.Warn("Seat refresh failed, keeping previous snapshot", zap.Error(err))
				continue
			}

			select {
			case out <- snapshot:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
