package usecase

import (
	"cinema-checkout/internal/data/entity"
)

// Selection is the set of seats the user intends to book, kept in the order
// they were picked. It is not safe for concurrent use; the seat view guards it.
type Selection struct {
	order []string
	seats map[string]entity.Seat
}

func NewSelection() *Selection {
	return &Selection{seats: make(map[string]entity.Seat)}
}

// Toggle adds or removes seatID. It is a no-op, returning false, when the
// seat is unknown to snapshot or not AVAILABLE there.
func (s *Selection) Toggle(snapshot *entity.SeatMap, seatID string) bool {
	seat, ok := snapshot.Find(seatID)
	if !ok || !seat.Available() {
		return false
	}

	if s.Contains(seatID) {
		s.remove(seatID)
		return true
	}

	s.seats[seatID] = seat
	s.order = append(s.order, seatID)
	return true
}

func (s *Selection) Contains(seatID string) bool {
	_, ok := s.seats[seatID]
	return ok
}

// Prune drops every selected seat that is not AVAILABLE in snapshot and
// refreshes the rest from it. It returns the ids it dropped.
func (s *Selection) Prune(snapshot *entity.SeatMap) []string {
	available := snapshot.AvailableSeats()

	var dropped []string
	for _, id := range append([]string(nil), s.order...) {
		seat, ok := available[id]
		if !ok {
			s.remove(id)
			dropped = append(dropped, id)
			continue
		}
		s.seats[id] = seat
	}
	return dropped
}

func (s *Selection) IDs() []string {
	return append([]string(nil), s.order...)
}

func (s *Selection) Seats() []entity.Seat {
	out := make([]entity.Seat, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.seats[id])
	}
	return out
}

func (s *Selection) Len() int {
	return len(s.order)
}

func (s *Selection) Clear() {
	s.order = nil
	s.seats = make(map[string]entity.Seat)
}

func (s *Selection) remove(seatID string) {
	delete(s.seats, seatID)
	for i, id := range s.order {
		if id == seatID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}
