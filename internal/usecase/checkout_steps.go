package usecase

import (
	"context"
	"strings"
	"time"

	"cinema-checkout/internal/data/entity"
	"cinema-checkout/internal/data/repository"
	"cinema-checkout/internal/dto/request"
	"cinema-checkout/internal/dto/response"
	"cinema-checkout/pkg/utils"

	"go.uber.org/zap"
)

const (
	reasonPaymentDeclined = "PAYMENT_DECLINED"
	reasonSeatsExpired    = "SEATS_EXPIRED"
)

// ==================== LOCK ====================

type lockCoordinator struct {
	repo repository.BookingRepository
	log  *zap.Logger
}

func newLockCoordinator(repo repository.BookingRepository, log *zap.Logger) *lockCoordinator {
	return &lockCoordinator{repo: repo, log: log.With(zap.String("step", "lock"))}
}

// Lock asks the backend to hold seatIDs. Only an explicit success counts.
func (l *lockCoordinator) Lock(ctx context.Context, showID string, seatIDs []string) error {
	req := &request.LockRequest{ShowID: showID, SeatIDs: seatIDs}
	if err := validate(req); err != nil {
		return err
	}

	resp, err := l.repo.Lock(ctx, req)
	if err != nil {
		return err
	}
	if !resp.Success {
		l.log.Info("Lock refused",
			zap.String("show_id", showID),
			zap.Strings("seat_ids", seatIDs),
			zap.String("reason", resp.Error),
		)
		return entity.NewBookingError(entity.ErrSeatUnavailable, resp.Error, nil)
	}
	return nil
}

// ==================== CONFIRM ====================

type bookingConfirmer struct {
	repo repository.BookingRepository
	log  *zap.Logger
}

func newBookingConfirmer(repo repository.BookingRepository, log *zap.Logger) *bookingConfirmer {
	return &bookingConfirmer{repo: repo, log: log.With(zap.String("step", "confirm"))}
}

// Confirm converts the held seats into a booking.
func (b *bookingConfirmer) Confirm(ctx context.Context, showID string, seatIDs []string, method string) (*response.ConfirmResponse, error) {
	req := &request.ConfirmRequest{ShowID: showID, SeatIDs: seatIDs, PaymentMethod: method}
	if err := validate(req); err != nil {
		return nil, err
	}

	resp, err := b.repo.Confirm(ctx, req)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		b.log.Info("Confirm refused",
			zap.String("show_id", showID),
			zap.Strings("seat_ids", seatIDs),
			zap.String("reason", resp.Error),
		)
		return nil, confirmFailure(resp.Error)
	}
	if resp.BookingID == "" {
		return nil, entity.NewBookingError(entity.ErrBackend, "Confirm returned no booking id", nil)
	}
	return resp, nil
}

// confirmFailure maps a confirm refusal reason to its error kind. An empty
// reason is reported as a failed payment.
func confirmFailure(reason string) error {
	switch {
	case reason == "", strings.EqualFold(reason, reasonPaymentDeclined):
		return entity.NewBookingError(entity.ErrPaymentDeclined, reason, nil)
	case strings.EqualFold(reason, reasonSeatsExpired):
		return entity.NewBookingError(entity.ErrSeatUnavailable, reason, nil)
	default:
		return entity.NewBookingError(entity.ErrBackend, reason, nil)
	}
}

// ==================== RELEASE ====================

type compensationHandler struct {
	repo    repository.BookingRepository
	timeout time.Duration
	log     *zap.Logger
}

func newCompensationHandler(repo repository.BookingRepository, timeout time.Duration, log *zap.Logger) *compensationHandler {
	return &compensationHandler{repo: repo, timeout: timeout, log: log.With(zap.String("step", "release"))}
}

// Release returns held seats to the pool. It runs even if ctx was cancelled,
// never retries, and only logs failures.
func (c *compensationHandler) Release(ctx context.Context, showID string, seatIDs []string) {
	releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()

	req := &request.ReleaseRequest{ShowID: showID, SeatIDs: seatIDs}
	resp, err := c.repo.Release(releaseCtx, req)
	if err != nil {
		c.log.Warn("Release failed",
			zap.String("show_id", showID),
			zap.Strings("seat_ids", seatIDs),
			zap.String("kind", string(entity.KindOf(err))),
			zap.Error(err),
		)
		return
	}
	if !resp.Success {
		c.log.Warn("Release refused",
			zap.String("show_id", showID),
			zap.Strings("seat_ids", seatIDs),
			zap.String("reason", resp.Error),
		)
		return
	}

	c.log.Info("Seats released", zap.String("show_id", showID), zap.Strings("seat_ids", seatIDs))
}

// validate runs struct validation and reports failures as VALIDATION.
func validate(req any) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return entity.NewBookingError(entity.ErrValidation, utils.FormatValidationErrors(errs), nil)
	}
	return nil
}
