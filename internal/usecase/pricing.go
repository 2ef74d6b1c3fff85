package usecase

import (
	"cinema-checkout/internal/data/entity"
)

// seatPrices is the client-side price list used for the pre-lock estimate.
var seatPrices = map[entity.SeatType]float64{
	entity.SeatTypeRecliner: 120,
	entity.SeatTypePremium:  80,
	entity.SeatTypeRegular:  60,
}

type PricingEngine interface {
	PriceOf(seatType entity.SeatType) float64
	Total(seats []entity.Seat) float64
}

type pricingEngine struct{}

func NewPricingEngine() PricingEngine {
	return pricingEngine{}
}

// PriceOf returns 0 for a type it does not know.
func (pricingEngine) PriceOf(seatType entity.SeatType) float64 {
	return seatPrices[seatType]
}

// Total sums by seat type. The backend's per-seat price is ignored; the
// authoritative amount comes from confirm.
func (p pricingEngine) Total(seats []entity.Seat) float64 {
	var total float64
	for _, s := range seats {
		total += p.PriceOf(s.Type)
	}
	return total
}
