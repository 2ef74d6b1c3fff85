// Package backendsim is an in-memory booking backend speaking the same HTTP
// contract as the real one. It backs local runs and tests.
package backendsim

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"cinema-checkout/internal/data/entity"
	"cinema-checkout/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

const (
	ReasonSeatsUnavailable = "Seats no longer available"
	ReasonSeatsExpired     = "SEATS_EXPIRED"
	ReasonPaymentDeclined  = "PAYMENT_DECLINED"
)

var seatPrices = map[entity.SeatType]float64{
	entity.SeatTypeRecliner: 120,
	entity.SeatTypePremium:  80,
	entity.SeatTypeRegular:  60,
}

// seatTypeForRow follows the auditorium legend: rows 1-2 recliner,
// 3-5 premium, the rest regular.
func seatTypeForRow(row int) entity.SeatType {
	switch {
	case row <= 2:
		return entity.SeatTypeRecliner
	case row <= 5:
		return entity.SeatTypePremium
	default:
		return entity.SeatTypeRegular
	}
}

// SeatID names a seat by row letter and column, e.g. A1.
func SeatID(row, col int) string {
	return fmt.Sprintf("%c%d", 'A'+rune(row-1), col)
}

type seatState struct {
	seat      entity.Seat
	holder    string
	expiresAt time.Time
}

type account struct {
	user entity.User
	hash []byte
}

type venue struct {
	cinema string
	city   string
}

type booking struct {
	userID  string
	summary entity.BookingSummary
}

// Store is the simulator's state. All methods are safe for concurrent use.
type Store struct {
	lockTTL time.Duration
	decline []string
	now     func() time.Time

	mu       sync.Mutex
	cities   []entity.City
	movies   []entity.Movie
	cinemas  []entity.Cinema
	shows    []entity.Show
	venues   map[string]venue
	seats    map[string]map[string]*seatState
	accounts map[string]*account
	sessions map[string]string
	bookings []booking
	seq      int
}

func newStore(opts Options) (*Store, error) {
	s := &Store{
		lockTTL:  opts.LockTTL,
		decline:  opts.DeclineMethods,
		now:      opts.Now,
		cities:   opts.Cities,
		movies:   opts.Movies,
		cinemas:  opts.Cinemas,
		venues:   make(map[string]venue),
		seats:    make(map[string]map[string]*seatState),
		accounts: make(map[string]*account),
		sessions: make(map[string]string),
	}

	for _, seed := range opts.Shows {
		s.shows = append(s.shows, seed.Show)
		s.venues[seed.Show.ID] = venue{cinema: seed.Cinema, city: seed.City}
		grid := make(map[string]*seatState)
		for row := 1; row <= seed.Rows; row++ {
			for col := 1; col <= seed.Cols; col++ {
				t := seatTypeForRow(row)
				id := SeatID(row, col)
				grid[id] = &seatState{seat: entity.Seat{
					ID:     id,
					Row:    row,
					Col:    col,
					Type:   t,
					Status: entity.SeatStatusAvailable,
					Price:  seatPrices[t],
				}}
			}
		}
		s.seats[seed.Show.ID] = grid
	}

	for _, u := range opts.Users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), opts.BcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password for %s: %w", u.Username, err)
		}
		s.accounts[u.Username] = &account{user: u.User(), hash: hash}
	}

	return s, nil
}

// ==================== AUTH ====================

// Login checks the password and opens a session.
func (s *Store) Login(username, password string) (string, *entity.User, bool) {
	s.mu.Lock()
	acc, ok := s.accounts[username]
	s.mu.Unlock()
	if !ok {
		return "", nil, false
	}

	if err := bcrypt.CompareHashAndPassword(acc.hash, []byte(password)); err != nil {
		return "", nil, false
	}

	sessionID := utils.GenerateUUIDString()
	s.mu.Lock()
	s.sessions[sessionID] = username
	s.mu.Unlock()

	user := acc.user
	return sessionID, &user, true
}

func (s *Store) Logout(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// UserFor resolves a session id to its user.
func (s *Store) UserFor(sessionID string) (*entity.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	username, ok := s.sessions[sessionID]
	if !ok {
		return nil, false
	}
	user := s.accounts[username].user
	return &user, true
}

// ==================== CATALOG ====================

func (s *Store) Cities() []entity.City {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.City(nil), s.cities...)
}

func (s *Store) Movies() []entity.Movie {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.Movie{}, s.movies...)
}

// Cinemas returns the cinemas in city, or all of them when city is empty.
func (s *Store) Cinemas(city string) []entity.Cinema {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]entity.Cinema, 0, len(s.cinemas))
	for _, c := range s.cinemas {
		if city != "" && !strings.EqualFold(c.City, city) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Shows returns shows matching every non-empty filter value.
func (s *Store) Shows(movieID, city string) []entity.Show {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]entity.Show, 0, len(s.shows))
	for _, show := range s.shows {
		if movieID != "" && show.MovieID != movieID {
			continue
		}
		if city != "" && !strings.EqualFold(s.venues[show.ID].city, city) {
			continue
		}
		out = append(out, show)
	}
	return out
}

// Seats returns the current seat map of a show, ordered by row then column.
func (s *Store) Seats(showID string) ([]entity.Seat, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	grid, ok := s.seats[showID]
	if !ok {
		return nil, false
	}

	now := s.now()
	out := make([]entity.Seat, 0, len(grid))
	for _, st := range grid {
		seat := st.seat
		seat.Status = st.statusAt(now)
		out = append(out, seat)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out, true
}

func (st *seatState) statusAt(now time.Time) entity.SeatStatus {
	if st.seat.Status == entity.SeatStatusLocked && !now.Before(st.expiresAt) {
		return entity.SeatStatusAvailable
	}
	return st.seat.Status
}

// ==================== BOOKING ====================

// Lock holds every seat for holder or none of them. Seats the holder
// already has are re-held with a fresh expiry.
func (s *Store) Lock(holder, showID string, seatIDs []string) (bool, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	grid, ok := s.seats[showID]
	if !ok {
		return false, "Show not found"
	}

	now := s.now()
	var taken []string
	for _, id := range seatIDs {
		st, ok := grid[id]
		if !ok {
			taken = append(taken, id)
			continue
		}
		switch st.statusAt(now) {
		case entity.SeatStatusAvailable:
		case entity.SeatStatusLocked:
			if st.holder != holder {
				taken = append(taken, id)
			}
		default:
			taken = append(taken, id)
		}
	}
	if len(taken) > 0 {
		return false, fmt.Sprintf("%s: %s", ReasonSeatsUnavailable, strings.Join(taken, ", "))
	}

	for _, id := range seatIDs {
		st := grid[id]
		st.seat.Status = entity.SeatStatusLocked
		st.holder = holder
		st.expiresAt = now.Add(s.lockTTL)
	}
	return true, ""
}

// Confirm books seats held by holder. It fails with SEATS_EXPIRED unless
// holder still has every seat, and with PAYMENT_DECLINED for declined
// methods, leaving the hold in place for the client to release.
func (s *Store) Confirm(holder, showID string, seatIDs []string, method string) (*entity.Booking, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	grid, ok := s.seats[showID]
	if !ok {
		return nil, "Show not found"
	}

	now := s.now()
	for _, id := range seatIDs {
		st, ok := grid[id]
		if !ok || st.statusAt(now) != entity.SeatStatusLocked || st.holder != holder {
			return nil, ReasonSeatsExpired
		}
	}

	if utils.ContainsFold(s.decline, method) {
		return nil, ReasonPaymentDeclined
	}

	var amount float64
	seats := make([]entity.Seat, 0, len(seatIDs))
	for _, id := range seatIDs {
		st := grid[id]
		st.seat.Status = entity.SeatStatusBooked
		st.holder = ""
		amount += st.seat.Price
		seats = append(seats, st.seat)
	}

	s.seq++
	b := &entity.Booking{
		BookingID:     fmt.Sprintf("B%d", 100+s.seq),
		TransactionID: utils.GenerateTransactionID(),
		Amount:        amount,
		ShowID:        showID,
		Seats:         seats,
		PaymentMethod: method,
		Status:        entity.BookingStatusConfirmed,
		ConfirmedAt:   now,
	}

	show := s.findShow(showID)
	username := s.sessions[holder]
	var userID string
	if acc, ok := s.accounts[username]; ok {
		userID = acc.user.ID
	}
	s.bookings = append(s.bookings, booking{
		userID: userID,
		summary: entity.BookingSummary{
			ID:         b.BookingID,
			MovieTitle: show.MovieTitle,
			ShowTime:   show.StartTime,
			Cinema:     s.venues[showID].cinema,
			City:       s.venues[showID].city,
			Seats:      len(seats),
			Status:     string(entity.BookingStatusConfirmed),
			Amount:     amount,
		},
	})

	return b, ""
}

// Release frees seats still held by holder. Seats held by someone else or
// already free are left alone, so repeating a release is harmless.
func (s *Store) Release(holder, showID string, seatIDs []string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	grid, ok := s.seats[showID]
	if !ok {
		return 0
	}

	released := 0
	for _, id := range seatIDs {
		st, ok := grid[id]
		if !ok || st.seat.Status != entity.SeatStatusLocked || st.holder != holder {
			continue
		}
		st.seat.Status = entity.SeatStatusAvailable
		st.holder = ""
		released++
	}
	return released
}

// Bookings lists the bookings made by userID, oldest first.
func (s *Store) Bookings(userID string) []entity.BookingSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []entity.BookingSummary{}
	for _, b := range s.bookings {
		if b.userID == userID {
			out = append(out, b.summary)
		}
	}
	return out
}

func (s *Store) findShow(showID string) entity.Show {
	for _, show := range s.shows {
		if show.ID == showID {
			return show
		}
	}
	return entity.Show{}
}
