package usecase

import (
	"context"
	"time"

	"cinema-checkout/internal/data/entity"
	"cinema-checkout/pkg/utils"

	"go.uber.org/zap"
)

const DefaultPaymentMethod = "UPI"

type PaymentRequest struct {
	ShowID  string
	SeatIDs []string
	Method  string
	Amount  float64
}

// PaymentProcessor charges the user while seats are held.
type PaymentProcessor interface {
	Charge(ctx context.Context, req PaymentRequest) error
}

type simulatedPayment struct {
	delay   time.Duration
	decline []string
	log     *zap.Logger
}

// NewSimulatedPayment waits delay and then approves, except for methods in
// declineMethods.
func NewSimulatedPayment(delay time.Duration, declineMethods []string, log *zap.Logger) PaymentProcessor {
	return &simulatedPayment{
		delay:   delay,
		decline: declineMethods,
		log:     log.With(zap.String("service", "payment")),
	}
}

func (p *simulatedPayment) Charge(ctx context.Context, req PaymentRequest) error {
	timer := time.NewTimer(p.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return entity.NewBookingError(entity.ErrPaymentDeclined, "Payment interrupted", ctx.Err())
	case <-timer.C:
	}

	if utils.ContainsFold(p.decline, req.Method) {
		p.log.Info("Payment declined",
			zap.String("show_id", req.ShowID),
			zap.String("method", req.Method),
			zap.Float64("amount", req.Amount),
		)
		return entity.NewBookingError(entity.ErrPaymentDeclined, "", nil)
	}

	p.log.Debug("Payment approved",
		zap.String("show_id", req.ShowID),
		zap.String("method", req.Method),
		zap.Float64("amount", req.Amount),
	)
	return nil
}
