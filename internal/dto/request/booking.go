package request

import (
	"encoding/json"
	"fmt"
)

// ==================== BACKEND CALLS ====================

type LockRequest struct {
	ShowID  string   `json:"showId" validate:"required"`
	SeatIDs []string `json:"seatIds" validate:"required,min=1,unique,dive,required"`
}

type ConfirmRequest struct {
	ShowID        string   `json:"showId" validate:"required"`
	SeatIDs       []string `json:"seatIds" validate:"required,min=1,unique,dive,required"`
	PaymentMethod string   `json:"paymentMethod" validate:"required,payment_method"`
}

type ReleaseRequest struct {
	ShowID  string   `json:"showId" validate:"required"`
	SeatIDs []string `json:"seatIds" validate:"required,min=1,unique,dive,required"`
}

// SeatActionBody is the body of /book/lock, /book/confirm and /book/release.
// The backend expects seatIds as a JSON array encoded into a string.
type SeatActionBody struct {
	ShowID        string `json:"showId"`
	SeatIDs       string `json:"seatIds"`
	PaymentMethod string `json:"paymentMethod,omitempty"`
}

func NewSeatActionBody(showID string, seatIDs []string, paymentMethod string) (SeatActionBody, error) {
	encoded, err := json.Marshal(seatIDs)
	if err != nil {
		return SeatActionBody{}, fmt.Errorf("encode seat ids: %w", err)
	}
	return SeatActionBody{
		ShowID:        showID,
		SeatIDs:       string(encoded),
		PaymentMethod: paymentMethod,
	}, nil
}

// DecodeSeatIDs unpacks the string-encoded seat id array.
func (b SeatActionBody) DecodeSeatIDs() ([]string, error) {
	var ids []string
	if err := json.Unmarshal([]byte(b.SeatIDs), &ids); err != nil {
		return nil, fmt.Errorf("decode seat ids %q: %w", b.SeatIDs, err)
	}
	return ids, nil
}

// ==================== KIOSK API ====================

type CheckoutRequest struct {
	PaymentMethod string `json:"payment_method" validate:"omitempty,payment_method"`
}
