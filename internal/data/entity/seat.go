package entity

import (
	"fmt"
	"time"
)

type SeatType string

const (
	SeatTypeRecliner SeatType = "RECLINER"
	SeatTypePremium  SeatType = "PREMIUM"
	SeatTypeRegular  SeatType = "REGULAR"
)

type SeatStatus string

const (
	SeatStatusAvailable SeatStatus = "AVAILABLE"
	SeatStatusLocked    SeatStatus = "LOCKED"
	SeatStatusBooked    SeatStatus = "BOOKED"
)

// Seat is a read-only copy of one backend seat as of a snapshot.
type Seat struct {
	ID     string     `json:"id"`
	Row    int        `json:"row"`
	Col    int        `json:"col"`
	Type   SeatType   `json:"type"`
	Status SeatStatus `json:"status"`
	Price  float64    `json:"price"`
}

func (s Seat) Available() bool {
	return s.Status == SeatStatusAvailable
}

// Label renders the seat the way tickets print it, e.g. R3C7.
func (s Seat) Label() string {
	return fmt.Sprintf("R%dC%d", s.Row, s.Col)
}

// SeatMap is a complete snapshot of seat statuses for a show.
// A newer snapshot replaces an older one wholesale.
type SeatMap struct {
	ShowID    string    `json:"show_id"`
	Seats     []Seat    `json:"seats"`
	FetchedAt time.Time `json:"fetched_at"`
}

func (m *SeatMap) Find(seatID string) (Seat, bool) {
	if m == nil {
		return Seat{}, false
	}
	for _, s := range m.Seats {
		if s.ID == seatID {
			return s, true
		}
	}
	return Seat{}, false
}

// AvailableSeats indexes the seats that were AVAILABLE in this snapshot by id.
func (m *SeatMap) AvailableSeats() map[string]Seat {
	seats := make(map[string]Seat)
	if m == nil {
		return seats
	}
	for _, s := range m.Seats {
		if s.Available() {
			seats[s.ID] = s
		}
	}
	return seats
}
