package response

import (
	"cinema-checkout/internal/data/entity"
)

// ==================== BACKEND PAYLOADS ====================

type SeatsResponse struct {
	ShowID string        `json:"showId,omitempty"`
	Seats  []entity.Seat `json:"seats"`
}

type LockResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type ConfirmResponse struct {
	Success       bool    `json:"success"`
	BookingID     string  `json:"bookingId,omitempty"`
	TransactionID string  `json:"transactionId,omitempty"`
	Amount        float64 `json:"amount,omitempty"`
	Error         string  `json:"error,omitempty"`
}

type ReleaseResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// ==================== KIOSK PAYLOADS ====================

type SeatViewResponse struct {
	ShowID         string          `json:"show_id"`
	Show           *entity.Show    `json:"show,omitempty"`
	State          string          `json:"state"`
	Seats          []entity.Seat   `json:"seats"`
	Selected       []string        `json:"selected"`
	EstimatedTotal float64         `json:"estimated_total"`
	FetchedAt      string          `json:"fetched_at,omitempty"`
	LastError      *ErrorView      `json:"last_error,omitempty"`
	Receipt        *entity.Receipt `json:"receipt,omitempty"`
}

type ErrorView struct {
	Kind    entity.ErrorKind `json:"kind"`
	Message string           `json:"message"`
}

type CheckoutResponse struct {
	State   string          `json:"state"`
	Receipt *entity.Receipt `json:"receipt,omitempty"`
	Error   *ErrorView      `json:"error,omitempty"`
}

func ErrorToView(err error) *ErrorView {
	if err == nil {
		return nil
	}
	kind := entity.KindOf(err)
	if kind == "" {
		kind = entity.ErrBackend
	}
	return &ErrorView{Kind: kind, Message: entity.ReasonOf(err)}
}
