package usecase

import (
	"testing"

	"cinema-checkout/internal/data/entity"

	"github.com/stretchr/testify/assert"
)

func TestPricingEngine_PriceOf(t *testing.T) {
	tests := []struct {
		name     string
		seatType entity.SeatType
		expected float64
	}{
		{"Recliner", entity.SeatTypeRecliner, 120},
		{"Premium", entity.SeatTypePremium, 80},
		{"Regular", entity.SeatTypeRegular, 60},
		{"Unknown", entity.SeatType("BALCONY"), 0},
	}

	pricing := NewPricingEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, pricing.PriceOf(tt.seatType))
		})
	}
}

func TestPricingEngine_Total(t *testing.T) {
	pricing := NewPricingEngine()

	t.Run("two recliners", func(t *testing.T) {
		seats := []entity.Seat{
			seat("A1", 1, 1, entity.SeatTypeRecliner, entity.SeatStatusAvailable),
			seat("A2", 1, 2, entity.SeatTypeRecliner, entity.SeatStatusAvailable),
		}
		assert.Equal(t, 240.0, pricing.Total(seats))
	})

	t.Run("mixed types", func(t *testing.T) {
		seats := []entity.Seat{
			seat("A1", 1, 1, entity.SeatTypeRecliner, entity.SeatStatusAvailable),
			seat("C1", 3, 1, entity.SeatTypePremium, entity.SeatStatusAvailable),
			seat("F1", 6, 1, entity.SeatTypeRegular, entity.SeatStatusAvailable),
		}
		assert.Equal(t, 260.0, pricing.Total(seats))
	})

	t.Run("backend price is ignored", func(t *testing.T) {
		s := seat("A1", 1, 1, entity.SeatTypeRecliner, entity.SeatStatusAvailable)
		s.Price = 999
		assert.Equal(t, 120.0, pricing.Total([]entity.Seat{s}))
	})

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, 0.0, pricing.Total(nil))
	})
}
