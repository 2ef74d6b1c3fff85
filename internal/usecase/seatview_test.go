package usecase

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"cinema-checkout/internal/backendsim"
	"cinema-checkout/internal/data/entity"
	"cinema-checkout/internal/data/repository"
	"cinema-checkout/internal/dto/request"
	"cinema-checkout/pkg/apiclient"
	"cinema-checkout/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// newSimService runs the services against an in-process backend simulator.
func newSimService(t *testing.T, opts backendsim.Options) (*backendsim.Server, *Service) {
	t.Helper()
	return newSimServiceWith(t, opts, nil, nil)
}

// newSimServiceWith lets a test adjust the config and swap repositories
// before the services are built.
func newSimServiceWith(t *testing.T, opts backendsim.Options, configure func(*utils.Config), wrap func(*repository.Repository)) (*backendsim.Server, *Service) {
	t.Helper()

	opts.BcryptCost = bcrypt.MinCost
	sim, err := backendsim.New(opts, zap.NewNop())
	require.NoError(t, err)

	srv := httptest.NewServer(sim.Router())
	t.Cleanup(srv.Close)

	config := &utils.Config{
		Backend: utils.BackendConfig{BaseURL: srv.URL + "/api", Timeout: 2 * time.Second},
		Checkout: utils.CheckoutConfig{
			RefreshInterval: time.Hour,
			ReleaseTimeout:  time.Second,
			Currency:        "₹",
		},
	}
	if configure != nil {
		configure(config)
	}
	client := apiclient.New(config.Backend.BaseURL, config.Backend.Timeout, zap.NewNop())
	repo := repository.NewRepository(client, nil, zap.NewNop())
	if wrap != nil {
		wrap(repo)
	}
	service := NewService(repo, config, zap.NewNop())
	t.Cleanup(service.SeatView.Shutdown)

	return sim, service
}

func loginDemo(t *testing.T, service *Service) entity.UserContext {
	t.Helper()

	resp, err := service.Session.Login(context.Background(), entity.UserContext{}, &request.LoginRequest{
		Username: "demo",
		Password: "demo123",
	})
	require.NoError(t, err)

	uc, ok := service.Session.Get(resp.SessionID)
	require.True(t, ok)
	return uc
}

func seatStatus(t *testing.T, sim *backendsim.Server, showID, seatID string) entity.SeatStatus {
	t.Helper()

	seats, ok := sim.Store().Seats(showID)
	require.True(t, ok)
	for _, s := range seats {
		if s.ID == seatID {
			return s.Status
		}
	}
	t.Fatalf("seat %s not found", seatID)
	return ""
}

func TestSeatView_OpenRequiresLogin(t *testing.T) {
	_, service := newSimService(t, backendsim.Options{})

	_, err := service.SeatView.Open(context.Background(), entity.UserContext{}, "s1")

	require.Error(t, err)
	assert.Equal(t, entity.ErrUnauthenticated, entity.KindOf(err))
}

func TestSeatView_CheckoutHappyPath(t *testing.T) {
	sim, service := newSimService(t, backendsim.Options{})
	uc := loginDemo(t, service)
	ctx := context.Background()

	view, err := service.SeatView.Open(ctx, uc, "s1")
	require.NoError(t, err)
	assert.Len(t, view.Seats, 80)
	assert.Equal(t, string(StateSelecting), view.State)
	require.NotNil(t, view.Show)
	assert.Equal(t, "Interstellar", view.Show.MovieTitle)

	_, err = service.SeatView.Toggle(ctx, uc, "s1", "A1")
	require.NoError(t, err)
	view, err = service.SeatView.Toggle(ctx, uc, "s1", "A2")
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "A2"}, view.Selected)
	assert.Equal(t, 240.0, view.EstimatedTotal)

	resp, err := service.SeatView.Checkout(ctx, uc, "s1", &request.CheckoutRequest{PaymentMethod: "UPI"})
	require.NoError(t, err)
	assert.Equal(t, string(StateConfirmed), resp.State)
	require.NotNil(t, resp.Receipt)
	assert.Equal(t, "B101", resp.Receipt.BookingID)
	assert.Equal(t, 240.0, resp.Receipt.Amount)
	assert.Equal(t, "Interstellar", resp.Receipt.MovieTitle)
	assert.Equal(t, entity.SeatStatusBooked, seatStatus(t, sim, "s1", "A1"))

	view, err = service.SeatView.View(ctx, uc, "s1")
	require.NoError(t, err)
	assert.Equal(t, string(StateConfirmed), view.State)
	assert.Empty(t, view.Selected)
	assert.Zero(t, view.EstimatedTotal)
	require.NotNil(t, view.Receipt)
	assert.Equal(t, []string{"R1C1", "R1C2"}, view.Receipt.SeatLabels)

	ticket, err := service.SeatView.Ticket(ctx, uc, "s1", "")
	require.NoError(t, err)
	assert.Equal(t, "ticket_B101.txt", ticket.FileName)
	assert.Contains(t, string(ticket.Body), "Booking ID: B101\n")

	_, err = service.SeatView.Ticket(ctx, uc, "s1", "docx")
	assert.Equal(t, entity.ErrValidation, entity.KindOf(err))

	_, err = service.SeatView.Toggle(ctx, uc, "s1", "A3")
	assert.Equal(t, entity.ErrValidation, entity.KindOf(err))

	view, err = service.SeatView.Reset(ctx, uc, "s1")
	require.NoError(t, err)
	assert.Equal(t, string(StateSelecting), view.State)
	assert.Empty(t, view.Selected)
	assert.Nil(t, view.Receipt)

	view, err = service.SeatView.Toggle(ctx, uc, "s1", "A1")
	require.NoError(t, err)
	assert.Empty(t, view.Selected)
}

func TestSeatView_LockContentionPrunesSelection(t *testing.T) {
	sim, service := newSimService(t, backendsim.Options{})
	uc := loginDemo(t, service)
	ctx := context.Background()

	_, err := service.SeatView.Open(ctx, uc, "s1")
	require.NoError(t, err)
	_, err = service.SeatView.Toggle(ctx, uc, "s1", "A3")
	require.NoError(t, err)
	_, err = service.SeatView.Toggle(ctx, uc, "s1", "A4")
	require.NoError(t, err)

	ok, _ := sim.Store().Lock("another-session", "s1", []string{"A3"})
	require.True(t, ok)

	resp, err := service.SeatView.Checkout(ctx, uc, "s1", &request.CheckoutRequest{})
	require.Error(t, err)
	assert.Equal(t, entity.ErrSeatUnavailable, entity.KindOf(err))
	assert.Equal(t, string(StateSelecting), resp.State)
	require.NotNil(t, resp.Error)
	assert.Equal(t, entity.ErrSeatUnavailable, resp.Error.Kind)

	view, err := service.SeatView.View(ctx, uc, "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"A4"}, view.Selected)
	assert.Equal(t, entity.SeatStatusAvailable, seatStatus(t, sim, "s1", "A4"))
	require.NotNil(t, view.LastError)
	assert.Equal(t, entity.ErrSeatUnavailable, view.LastError.Kind)
}

func TestSeatView_DeclinedPaymentReleasesSeats(t *testing.T) {
	sim, service := newSimService(t, backendsim.Options{DeclineMethods: []string{"Wallet"}})
	uc := loginDemo(t, service)
	ctx := context.Background()

	_, err := service.SeatView.Open(ctx, uc, "s1")
	require.NoError(t, err)
	_, err = service.SeatView.Toggle(ctx, uc, "s1", "A1")
	require.NoError(t, err)

	resp, err := service.SeatView.Checkout(ctx, uc, "s1", &request.CheckoutRequest{PaymentMethod: "Wallet"})

	require.Error(t, err)
	assert.Equal(t, entity.ErrPaymentDeclined, entity.KindOf(err))
	assert.Equal(t, string(StateSelecting), resp.State)
	assert.Equal(t, entity.SeatStatusAvailable, seatStatus(t, sim, "s1", "A1"))

	view, err := service.SeatView.View(ctx, uc, "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"A1"}, view.Selected)
}

func TestSeatView_CheckoutRejectsUnknownMethod(t *testing.T) {
	_, service := newSimService(t, backendsim.Options{})
	uc := loginDemo(t, service)
	ctx := context.Background()

	_, err := service.SeatView.Open(ctx, uc, "s1")
	require.NoError(t, err)

	_, err = service.SeatView.Checkout(ctx, uc, "s1", &request.CheckoutRequest{PaymentMethod: "Cash"})
	assert.Equal(t, entity.ErrValidation, entity.KindOf(err))
}

func TestSeatView_LogoutClosesViews(t *testing.T) {
	_, service := newSimService(t, backendsim.Options{})
	uc := loginDemo(t, service)
	ctx := context.Background()

	_, err := service.SeatView.Open(ctx, uc, "s1")
	require.NoError(t, err)

	require.NoError(t, service.Session.Logout(ctx, uc))

	_, ok := service.Session.Get(uc.Credential)
	assert.False(t, ok)
	_, err = service.SeatView.View(ctx, uc, "s1")
	assert.Equal(t, entity.ErrValidation, entity.KindOf(err))
}
