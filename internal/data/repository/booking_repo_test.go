package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cinema-checkout/internal/backendsim"
	"cinema-checkout/internal/data/entity"
	"cinema-checkout/internal/dto/request"
	"cinema-checkout/pkg/apiclient"
	"cinema-checkout/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newSimRepository(t *testing.T) (*backendsim.Server, *Repository) {
	t.Helper()

	sim, err := backendsim.New(backendsim.Options{BcryptCost: bcrypt.MinCost}, zap.NewNop())
	require.NoError(t, err)
	srv := httptest.NewServer(sim.Router())
	t.Cleanup(srv.Close)

	client := apiclient.New(srv.URL+"/api", 2*time.Second, zap.NewNop())
	return sim, NewRepository(client, nil, zap.NewNop())
}

func loggedIn(t *testing.T, repo *Repository) context.Context {
	t.Helper()
	resp, err := repo.Auth.Login(context.Background(), "demo", "demo123")
	require.NoError(t, err)
	require.True(t, resp.Success)
	return utils.SetCredentialContext(context.Background(), resp.SessionID)
}

func TestBookingRepository_AgainstSimulator(t *testing.T) {
	_, repo := newSimRepository(t)
	ctx := loggedIn(t, repo)

	lock, err := repo.Booking.Lock(ctx, &request.LockRequest{ShowID: "s1", SeatIDs: []string{"A1", "A2"}})
	require.NoError(t, err)
	assert.True(t, lock.Success)

	snapshot, err := repo.Seat.FindByShow(ctx, "s1")
	require.NoError(t, err)
	seat, ok := snapshot.Find("A1")
	require.True(t, ok)
	assert.Equal(t, entity.SeatStatusLocked, seat.Status)

	confirm, err := repo.Booking.Confirm(ctx, &request.ConfirmRequest{
		ShowID:        "s1",
		SeatIDs:       []string{"A1", "A2"},
		PaymentMethod: "UPI",
	})
	require.NoError(t, err)
	assert.True(t, confirm.Success)
	assert.Equal(t, "B101", confirm.BookingID)
	assert.Equal(t, 240.0, confirm.Amount)

	bookings, err := repo.Booking.ListForUser(ctx)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, "B101", bookings[0].ID)
}

func TestBookingRepository_Refusals(t *testing.T) {
	sim, repo := newSimRepository(t)
	ctx := loggedIn(t, repo)

	ok, _ := sim.Store().Lock("someone-else", "s1", []string{"B1"})
	require.True(t, ok)

	lock, err := repo.Booking.Lock(ctx, &request.LockRequest{ShowID: "s1", SeatIDs: []string{"B1"}})
	require.NoError(t, err)
	assert.False(t, lock.Success)
	assert.Contains(t, lock.Error, backendsim.ReasonSeatsUnavailable)

	confirm, err := repo.Booking.Confirm(ctx, &request.ConfirmRequest{ShowID: "s1", SeatIDs: []string{"B1"}, PaymentMethod: "UPI"})
	require.NoError(t, err)
	assert.False(t, confirm.Success)
	assert.Equal(t, backendsim.ReasonSeatsExpired, confirm.Error)

	release, err := repo.Booking.Release(ctx, &request.ReleaseRequest{ShowID: "s1", SeatIDs: []string{"B1"}})
	require.NoError(t, err)
	assert.True(t, release.Success)
}

func TestBookingRepository_RequiresSession(t *testing.T) {
	_, repo := newSimRepository(t)

	_, err := repo.Booking.Lock(context.Background(), &request.LockRequest{ShowID: "s1", SeatIDs: []string{"A1"}})

	require.Error(t, err)
	assert.Equal(t, entity.ErrUnauthenticated, entity.KindOf(err))
	assert.Equal(t, "Please login first", entity.ReasonOf(err))
}

func TestBookingRepository_ErrorClassification(t *testing.T) {
	tests := []struct {
		name           string
		status         int
		body           string
		expectedKind   entity.ErrorKind
		expectedReason string
		businessOK     bool
	}{
		{"Conflict with body", http.StatusConflict, `{"success":false,"error":"Seats no longer available"}`, "", "Seats no longer available", true},
		{"Conflict without reason", http.StatusConflict, `{"success":false}`, "", "", true},
		{"Unprocessable seats unavailable", http.StatusUnprocessableEntity, `{"success":false,"error":"SEATS_UNAVAILABLE"}`, "", "SEATS_UNAVAILABLE", true},
		{"Malformed show id", http.StatusBadRequest, `{"success":false,"error":"Invalid show id"}`, entity.ErrBackend, "Invalid show id", false},
		{"Show not found", http.StatusNotFound, `{"error":"Show not found"}`, entity.ErrBackend, "Show not found", false},
		{"Server error", http.StatusInternalServerError, `{"error":"db down"}`, entity.ErrBackend, "db down", false},
		{"Bad gateway", http.StatusBadGateway, ``, entity.ErrBackend, "Something went wrong", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seatIDs string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				var body request.SeatActionBody
				_ = json.NewDecoder(r.Body).Decode(&body)
				seatIDs = body.SeatIDs
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			repo := NewBookingRepository(apiclient.New(srv.URL, time.Second, zap.NewNop()), zap.NewNop())
			resp, err := repo.Lock(context.Background(), &request.LockRequest{ShowID: "s1", SeatIDs: []string{"A1", "A2"}})

			assert.Equal(t, `["A1","A2"]`, seatIDs)
			if tt.businessOK {
				require.NoError(t, err)
				assert.False(t, resp.Success)
				assert.Equal(t, tt.expectedReason, resp.Error)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.expectedKind, entity.KindOf(err))
			assert.Equal(t, tt.expectedReason, entity.ReasonOf(err))
		})
	}
}

func TestBookingRepository_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	repo := NewBookingRepository(apiclient.New(addr, time.Second, zap.NewNop()), zap.NewNop())
	_, err := repo.Release(context.Background(), &request.ReleaseRequest{ShowID: "s1", SeatIDs: []string{"A1"}})

	require.Error(t, err)
	assert.Equal(t, entity.ErrNetworkFailure, entity.KindOf(err))
	assert.ErrorIs(t, err, apiclient.ErrTransport)
}

func TestShowRepository_FindByID(t *testing.T) {
	_, repo := newSimRepository(t)

	show, err := repo.Show.FindByID(context.Background(), "s3")
	require.NoError(t, err)
	require.NotNil(t, show)
	assert.Equal(t, "Inception", show.MovieTitle)

	show, err = repo.Show.FindByID(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, show)
}

func TestAuthRepository_Session(t *testing.T) {
	_, repo := newSimRepository(t)

	resp, err := repo.Auth.Session(context.Background())
	require.NoError(t, err)
	assert.False(t, resp.Valid)

	ctx := loggedIn(t, repo)
	resp, err = repo.Auth.Session(ctx)
	require.NoError(t, err)
	assert.True(t, resp.Valid)
	require.NotNil(t, resp.User)
	assert.Equal(t, "demo", resp.User.Username)

	require.NoError(t, repo.Auth.Logout(ctx))
	resp, err = repo.Auth.Session(ctx)
	require.NoError(t, err)
	assert.False(t, resp.Valid)
}
