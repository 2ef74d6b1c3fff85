package repository

import (
	"context"

	"cinema-checkout/internal/data/entity"
	"cinema-checkout/internal/dto/request"
	"cinema-checkout/internal/dto/response"
	"cinema-checkout/pkg/apiclient"

	"go.uber.org/zap"
)

// BookingRepository carries the lock/confirm/release protocol. A refusal by
// the backend comes back as a response with Success=false and a nil error;
// errors are reserved for transport, auth and server failures.
type BookingRepository interface {
	Lock(ctx context.Context, req *request.LockRequest) (*response.LockResponse, error)
	Confirm(ctx context.Context, req *request.ConfirmRequest) (*response.ConfirmResponse, error)
	Release(ctx context.Context, req *request.ReleaseRequest) (*response.ReleaseResponse, error)
	ListForUser(ctx context.Context) ([]entity.BookingSummary, error)
}

type bookingRepository struct {
	client *apiclient.Client
	log    *zap.Logger
}

func NewBookingRepository(client *apiclient.Client, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		client: client,
		log:    log.With(zap.String("repository", "booking")),
	}
}

func (r *bookingRepository) Lock(ctx context.Context, req *request.LockRequest) (*response.LockResponse, error) {
	body, err := request.NewSeatActionBody(req.ShowID, req.SeatIDs, "")
	if err != nil {
		return nil, err
	}

	var resp response.LockResponse
	if err := r.client.Post(ctx, "/book/lock", body, &resp); err != nil {
		if lockRefused(err, resp.Error) {
			resp.Success = false
			if resp.Error == "" {
				resp.Error = backendMessage(err)
			}
			return &resp, nil
		}
		r.log.Warn("Lock call failed",
			zap.String("show_id", req.ShowID),
			zap.Strings("seat_ids", req.SeatIDs),
			zap.Error(err),
		)
		return nil, classify("lock seats", err)
	}
	return &resp, nil
}

func (r *bookingRepository) Confirm(ctx context.Context, req *request.ConfirmRequest) (*response.ConfirmResponse, error) {
	body, err := request.NewSeatActionBody(req.ShowID, req.SeatIDs, req.PaymentMethod)
	if err != nil {
		return nil, err
	}

	var resp response.ConfirmResponse
	if err := r.client.Post(ctx, "/book/confirm", body, &resp); err != nil {
		if businessFailure(err) {
			resp.Success = false
			if resp.Error == "" {
				resp.Error = backendMessage(err)
			}
			return &resp, nil
		}
		r.log.Warn("Confirm call failed",
			zap.String("show_id", req.ShowID),
			zap.Strings("seat_ids", req.SeatIDs),
			zap.Error(err),
		)
		return nil, classify("confirm booking", err)
	}
	return &resp, nil
}

func (r *bookingRepository) Release(ctx context.Context, req *request.ReleaseRequest) (*response.ReleaseResponse, error) {
	body, err := request.NewSeatActionBody(req.ShowID, req.SeatIDs, "")
	if err != nil {
		return nil, err
	}

	var resp response.ReleaseResponse
	if err := r.client.Post(ctx, "/book/release", body, &resp); err != nil {
		if businessFailure(err) {
			resp.Success = false
			if resp.Error == "" {
				resp.Error = backendMessage(err)
			}
			return &resp, nil
		}
		return nil, classify("release seats", err)
	}
	return &resp, nil
}

func (r *bookingRepository) ListForUser(ctx context.Context) ([]entity.BookingSummary, error) {
	var bookings []entity.BookingSummary
	if err := r.client.Get(ctx, "/bookings", nil, &bookings); err != nil {
		r.log.Warn("Failed to list bookings", zap.Error(err))
		return nil, classify("list bookings", err)
	}
	return bookings, nil
}
