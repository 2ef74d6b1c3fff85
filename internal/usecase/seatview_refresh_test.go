package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"cinema-checkout/internal/backendsim"
	"cinema-checkout/internal/data/entity"
	"cinema-checkout/internal/data/repository"
	"cinema-checkout/internal/dto/request"
	"cinema-checkout/internal/dto/response"
	"cinema-checkout/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// recordingSeatRepo counts the seat map fetches that reach the backend.
type recordingSeatRepo struct {
	inner repository.SeatRepository

	mu    sync.Mutex
	calls int
}

func (r *recordingSeatRepo) FindByShow(ctx context.Context, showID string) (*entity.SeatMap, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	return r.inner.FindByShow(ctx, showID)
}

func (r *recordingSeatRepo) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

type seatRepoFunc func(ctx context.Context, showID string) (*entity.SeatMap, error)

func (f seatRepoFunc) FindByShow(ctx context.Context, showID string) (*entity.SeatMap, error) {
	return f(ctx, showID)
}

func newRefreshingService(t *testing.T, interval, paymentDelay time.Duration) (*backendsim.Server, *Service, *recordingSeatRepo) {
	t.Helper()

	seats := &recordingSeatRepo{}
	sim, service := newSimServiceWith(t, backendsim.Options{},
		func(config *utils.Config) {
			config.Checkout.RefreshInterval = interval
			config.Checkout.PaymentDelay = paymentDelay
		},
		func(repo *repository.Repository) {
			seats.inner = repo.Seat
			repo.Seat = seats
		},
	)
	return sim, service, seats
}

func viewSeatStatus(view *response.SeatViewResponse, seatID string) entity.SeatStatus {
	for _, s := range view.Seats {
		if s.ID == seatID {
			return s.Status
		}
	}
	return ""
}

func TestSeatView_RefreshPrunesTakenSeats(t *testing.T) {
	sim, service, _ := newRefreshingService(t, 20*time.Millisecond, 0)
	uc := loginDemo(t, service)
	ctx := context.Background()

	_, err := service.SeatView.Open(ctx, uc, "s1")
	require.NoError(t, err)
	_, err = service.SeatView.Toggle(ctx, uc, "s1", "A3")
	require.NoError(t, err)
	view, err := service.SeatView.Toggle(ctx, uc, "s1", "A4")
	require.NoError(t, err)
	require.Equal(t, []string{"A3", "A4"}, view.Selected)

	ok, _ := sim.Store().Lock("another-session", "s1", []string{"A3"})
	require.True(t, ok)

	assert.Eventually(t, func() bool {
		view, err := service.SeatView.View(ctx, uc, "s1")
		return err == nil && len(view.Selected) == 1 && view.Selected[0] == "A4"
	}, 2*time.Second, 10*time.Millisecond)

	view, err = service.SeatView.View(ctx, uc, "s1")
	require.NoError(t, err)
	assert.Equal(t, entity.SeatStatusLocked, viewSeatStatus(view, "A3"))
	assert.Equal(t, 120.0, view.EstimatedTotal)
	assert.Equal(t, string(StateSelecting), view.State)
}

func TestSeatView_CloseStopsRefresh(t *testing.T) {
	_, service, seats := newRefreshingService(t, 10*time.Millisecond, 0)
	uc := loginDemo(t, service)
	ctx := context.Background()

	_, err := service.SeatView.Open(ctx, uc, "s1")
	require.NoError(t, err)

	require.Eventually(t, func() bool { return seats.Calls() >= 3 }, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, service.SeatView.Close(ctx, uc, "s1"))
	stopped := seats.Calls()

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, stopped, seats.Calls())

	_, err = service.SeatView.View(ctx, uc, "s1")
	assert.Equal(t, entity.ErrValidation, entity.KindOf(err))
}

func TestSeatView_RefreshHeldBackDuringAttempt(t *testing.T) {
	_, service, seats := newRefreshingService(t, 10*time.Millisecond, time.Second)
	uc := loginDemo(t, service)
	ctx := context.Background()

	_, err := service.SeatView.Open(ctx, uc, "s1")
	require.NoError(t, err)
	_, err = service.SeatView.Toggle(ctx, uc, "s1", "A1")
	require.NoError(t, err)

	done := make(chan *response.CheckoutResponse, 1)
	go func() {
		resp, _ := service.SeatView.Checkout(ctx, uc, "s1", &request.CheckoutRequest{PaymentMethod: "UPI"})
		done <- resp
	}()

	require.Eventually(t, func() bool {
		view, err := service.SeatView.View(ctx, uc, "s1")
		return err == nil && view.State == string(StatePaying)
	}, 2*time.Second, 5*time.Millisecond)

	// A1 is now LOCKED by this session on the backend; refreshes keep running.
	before := seats.Calls()
	require.Eventually(t, func() bool { return seats.Calls() >= before+2 }, 500*time.Millisecond, 5*time.Millisecond)

	view, err := service.SeatView.View(ctx, uc, "s1")
	require.NoError(t, err)
	require.Equal(t, string(StatePaying), view.State)
	assert.Equal(t, []string{"A1"}, view.Selected)
	assert.Equal(t, entity.SeatStatusAvailable, viewSeatStatus(view, "A1"))

	var resp *response.CheckoutResponse
	select {
	case resp = <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("checkout did not finish")
	}
	require.NotNil(t, resp)
	assert.Equal(t, string(StateConfirmed), resp.State)

	assert.Eventually(t, func() bool {
		view, err := service.SeatView.View(ctx, uc, "s1")
		return err == nil && viewSeatStatus(view, "A1") == entity.SeatStatusBooked
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSeatView_ResyncFallsBackToLatestSnapshot(t *testing.T) {
	latest := testSeatMap(
		seat("A3", 1, 3, entity.SeatTypeRecliner, entity.SeatStatusLocked),
		seat("A4", 1, 4, entity.SeatTypeRecliner, entity.SeatStatusAvailable),
	)
	visible := testSeatMap(
		seat("A3", 1, 3, entity.SeatTypeRecliner, entity.SeatStatusAvailable),
		seat("A4", 1, 4, entity.SeatTypeRecliner, entity.SeatStatusAvailable),
	)

	backendDown := false
	cache := NewSeatMapCache("s1", seatRepoFunc(func(ctx context.Context, showID string) (*entity.SeatMap, error) {
		if backendDown {
			return nil, errors.New("backend down")
		}
		return latest, nil
	}), zap.NewNop())

	// Fetched by the refresh loop while an attempt held it back.
	_, err := cache.Fetch(context.Background())
	require.NoError(t, err)

	selection := NewSelection()
	require.True(t, selection.Toggle(visible, "A3"))
	require.True(t, selection.Toggle(visible, "A4"))

	v := &seatView{
		showID:    "s1",
		cache:     cache,
		checkout:  NewCheckout(CheckoutDeps{}, zap.NewNop()),
		snapshot:  visible,
		selection: selection,
	}
	s := &seatViewService{
		config: &utils.Config{Backend: utils.BackendConfig{Timeout: time.Second}},
		log:    zap.NewNop(),
	}

	backendDown = true
	s.resync(context.Background(), v)

	assert.Same(t, latest, v.snapshot)
	assert.Equal(t, []string{"A4"}, selection.IDs())
}
