package entity

import (
	"time"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
)

// Booking is settled by the backend's confirm response and never changed afterwards.
type Booking struct {
	BookingID     string        `json:"booking_id"`
	TransactionID string        `json:"transaction_id"`
	Amount        float64       `json:"amount"`
	ShowID        string        `json:"show_id"`
	Seats         []Seat        `json:"seats"`
	PaymentMethod string        `json:"payment_method"`
	Status        BookingStatus `json:"status"`
	ConfirmedAt   time.Time     `json:"confirmed_at"`
}

// BookingSummary is one row of the user's booking history as the backend lists it.
type BookingSummary struct {
	ID         string    `json:"id"`
	MovieTitle string    `json:"movieTitle"`
	ShowTime   time.Time `json:"showTime"`
	Cinema     string    `json:"cinema"`
	City       string    `json:"city"`
	Seats      int       `json:"seats"`
	Status     string    `json:"status"`
	Amount     float64   `json:"amount"`
}

// Receipt is a display/export projection of a confirmed booking.
type Receipt struct {
	BookingID      string    `json:"booking_id"`
	TransactionID  string    `json:"transaction_id"`
	MovieTitle     string    `json:"movie_title"`
	ShowTime       time.Time `json:"show_time"`
	ScreenID       string    `json:"screen_id"`
	Seats          []Seat    `json:"seats"`
	SeatLabels     []string  `json:"seat_labels"`
	TicketCount    int       `json:"ticket_count"`
	PaymentMethod  string    `json:"payment_method"`
	Amount         float64   `json:"amount"`
	EstimatedTotal float64   `json:"estimated_total"`
	Currency       string    `json:"currency"`
	ScanPayload    string    `json:"scan_payload"`
}
