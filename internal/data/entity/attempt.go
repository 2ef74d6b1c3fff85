package entity

import (
	"github.com/google/uuid"
)

// AttemptRecord is the journal row written when a checkout attempt ends.
type AttemptRecord struct {
	BaseSimple
	AttemptID     uuid.UUID `db:"attempt_id"`
	UserID        string    `db:"user_id"`
	ShowID        string    `db:"show_id"`
	SeatIDs       []string  `db:"seat_ids"`
	State         string    `db:"state"`
	ErrorKind     string    `db:"error_kind"`
	Reason        string    `db:"reason"`
	BookingID     *string   `db:"booking_id"`
	TransactionID *string   `db:"transaction_id"`
	Amount        float64   `db:"amount"`
}
