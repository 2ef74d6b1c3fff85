package backendsim

import (
	"encoding/json"
	"net/http"
	"time"

	"cinema-checkout/internal/dto/request"
	"cinema-checkout/internal/dto/response"
	"cinema-checkout/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Server exposes a Store over the backend HTTP contract.
type Server struct {
	store *Store
	log   *zap.Logger
}

// New builds a simulator from opts. Zero values fall back to DefaultOptions.
func New(opts Options, log *zap.Logger) (*Server, error) {
	defaults := DefaultOptions()
	if opts.LockTTL <= 0 {
		opts.LockTTL = defaults.LockTTL
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = defaults.BcryptCost
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Cities == nil {
		opts.Cities = defaults.Cities
	}
	if opts.Movies == nil {
		opts.Movies = defaults.Movies
	}
	if opts.Cinemas == nil {
		opts.Cinemas = defaults.Cinemas
	}
	if opts.Shows == nil {
		opts.Shows = defaults.Shows
	}
	if opts.Users == nil {
		opts.Users = defaults.Users
	}

	store, err := newStore(opts)
	if err != nil {
		return nil, err
	}

	return &Server{
		store: store,
		log:   log.With(zap.String("service", "backendsim")),
	}, nil
}

func (s *Server) Store() *Store {
	return s.store
}

// Router serves the contract under /api.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recover(s.log))

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", s.login)
		r.Post("/auth/logout", s.logout)
		r.Get("/auth/session", s.session)

		r.Get("/cities", s.cities)
		r.Get("/movies", s.movies)
		r.Get("/cinemas", s.cinemas)
		r.Get("/shows", s.shows)
		r.Get("/seats", s.seats)

		r.Group(func(r chi.Router) {
			r.Use(s.requireSession)

			r.Get("/bookings", s.bookings)
			r.Post("/book/lock", s.lock)
			r.Post("/book/confirm", s.confirm)
			r.Post("/book/release", s.release)
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "error": msg})
}

func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := s.store.UserFor(r.Header.Get(middleware.HeaderSessionID)); !ok {
			writeError(w, http.StatusUnauthorized, "Please login first")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ==================== AUTH ====================

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sessionID, user, ok := s.store.Login(body.Username, body.Password)
	if !ok {
		s.log.Info("Login rejected", zap.String("username", body.Username))
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	writeJSON(w, http.StatusOK, response.LoginResponse{Success: true, SessionID: sessionID, User: user})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	s.store.Logout(r.Header.Get(middleware.HeaderSessionID))
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) {
	user, ok := s.store.UserFor(r.Header.Get(middleware.HeaderSessionID))
	if !ok {
		writeJSON(w, http.StatusOK, response.SessionResponse{Valid: false})
		return
	}
	writeJSON(w, http.StatusOK, response.SessionResponse{Valid: true, User: user})
}

// ==================== CATALOG ====================

func (s *Server) cities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Cities())
}

func (s *Server) movies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Movies())
}

func (s *Server) cinemas(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Cinemas(r.URL.Query().Get("cityName")))
}

func (s *Server) shows(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, s.store.Shows(q.Get("movieId"), q.Get("cityName")))
}

func (s *Server) seats(w http.ResponseWriter, r *http.Request) {
	showID := r.URL.Query().Get("showId")
	seats, ok := s.store.Seats(showID)
	if !ok {
		writeError(w, http.StatusNotFound, "Show not found")
		return
	}
	writeJSON(w, http.StatusOK, response.SeatsResponse{ShowID: showID, Seats: seats})
}

func (s *Server) bookings(w http.ResponseWriter, r *http.Request) {
	user, _ := s.store.UserFor(r.Header.Get(middleware.HeaderSessionID))
	writeJSON(w, http.StatusOK, s.store.Bookings(user.ID))
}

// ==================== BOOKING ====================

func decodeSeatAction(r *http.Request) (request.SeatActionBody, []string, error) {
	var body request.SeatActionBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return body, nil, err
	}
	ids, err := body.DecodeSeatIDs()
	return body, ids, err
}

func (s *Server) lock(w http.ResponseWriter, r *http.Request) {
	body, ids, err := decodeSeatAction(r)
	if err != nil || body.ShowID == "" || len(ids) == 0 {
		writeError(w, http.StatusBadRequest, "showId and seatIds are required")
		return
	}

	holder := r.Header.Get(middleware.HeaderSessionID)
	ok, reason := s.store.Lock(holder, body.ShowID, ids)
	if !ok {
		s.log.Info("Lock refused", zap.String("show_id", body.ShowID), zap.Strings("seat_ids", ids), zap.String("reason", reason))
		writeJSON(w, http.StatusOK, response.LockResponse{Success: false, Error: reason})
		return
	}

	writeJSON(w, http.StatusOK, response.LockResponse{Success: true})
}

func (s *Server) confirm(w http.ResponseWriter, r *http.Request) {
	body, ids, err := decodeSeatAction(r)
	if err != nil || body.ShowID == "" || len(ids) == 0 {
		writeError(w, http.StatusBadRequest, "showId and seatIds are required")
		return
	}

	holder := r.Header.Get(middleware.HeaderSessionID)
	b, reason := s.store.Confirm(holder, body.ShowID, ids, body.PaymentMethod)
	if b == nil {
		s.log.Info("Confirm refused", zap.String("show_id", body.ShowID), zap.Strings("seat_ids", ids), zap.String("reason", reason))
		writeJSON(w, http.StatusOK, response.ConfirmResponse{Success: false, Error: reason})
		return
	}

	s.log.Info("Booking confirmed", zap.String("booking_id", b.BookingID), zap.Float64("amount", b.Amount))
	writeJSON(w, http.StatusOK, response.ConfirmResponse{
		Success:       true,
		BookingID:     b.BookingID,
		TransactionID: b.TransactionID,
		Amount:        b.Amount,
	})
}

func (s *Server) release(w http.ResponseWriter, r *http.Request) {
	body, ids, err := decodeSeatAction(r)
	if err != nil || body.ShowID == "" {
		writeError(w, http.StatusBadRequest, "showId and seatIds are required")
		return
	}

	released := s.store.Release(r.Header.Get(middleware.HeaderSessionID), body.ShowID, ids)
	s.log.Debug("Seats released", zap.String("show_id", body.ShowID), zap.Int("released", released))
	writeJSON(w, http.StatusOK, response.ReleaseResponse{Success: true})
}
