package usecase

import (
	"context"
	"sync"

	"cinema-checkout/internal/data/entity"
	"cinema-checkout/internal/dto/request"
	"cinema-checkout/internal/dto/response"
)

type releaseCall struct {
	showID  string
	seatIDs []string
	ctxErr  error
}

type fakeBookingRepo struct {
	mu sync.Mutex

	lockResp    *response.LockResponse
	lockErr     error
	confirmResp *response.ConfirmResponse
	confirmErr  error
	releaseErr  error

	lockCalls    [][]string
	confirmCalls [][]string
	releases     []releaseCall
}

func (f *fakeBookingRepo) Lock(ctx context.Context, req *request.LockRequest) (*response.LockResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lockCalls = append(f.lockCalls, append([]string(nil), req.SeatIDs...))
	if f.lockErr != nil {
		return nil, f.lockErr
	}
	if f.lockResp != nil {
		return f.lockResp, nil
	}
	return &response.LockResponse{Success: true}, nil
}

func (f *fakeBookingRepo) Confirm(ctx context.Context, req *request.ConfirmRequest) (*response.ConfirmResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmCalls = append(f.confirmCalls, append([]string(nil), req.SeatIDs...))
	if f.confirmErr != nil {
		return nil, f.confirmErr
	}
	return f.confirmResp, nil
}

func (f *fakeBookingRepo) Release(ctx context.Context, req *request.ReleaseRequest) (*response.ReleaseResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.releases = append(f.releases, releaseCall{
		showID:  req.ShowID,
		seatIDs: append([]string(nil), req.SeatIDs...),
		ctxErr:  ctx.Err(),
	})
	if f.releaseErr != nil {
		return nil, f.releaseErr
	}
	return &response.ReleaseResponse{Success: true}, nil
}

func (f *fakeBookingRepo) ListForUser(ctx context.Context) ([]entity.BookingSummary, error) {
	return nil, nil
}

type fakeJournal struct {
	mu      sync.Mutex
	records []*entity.AttemptRecord
}

func (f *fakeJournal) Record(ctx context.Context, record *entity.AttemptRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, record)
	return nil
}

func (f *fakeJournal) ListByShow(ctx context.Context, showID string, limit int) ([]*entity.AttemptRecord, error) {
	return nil, nil
}

func (f *fakeJournal) last() *entity.AttemptRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.records) == 0 {
		return nil
	}
	return f.records[len(f.records)-1]
}

// funcPayment lets a test decide what Charge does.
type funcPayment func(ctx context.Context, req PaymentRequest) error

func (f funcPayment) Charge(ctx context.Context, req PaymentRequest) error {
	return f(ctx, req)
}

func approve(context.Context, PaymentRequest) error { return nil }

func seat(id string, row, col int, t entity.SeatType, status entity.SeatStatus) entity.Seat {
	return entity.Seat{ID: id, Row: row, Col: col, Type: t, Status: status, Price: seatPrices[t]}
}
