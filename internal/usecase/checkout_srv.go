package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cinema-checkout/internal/data/entity"
	"cinema-checkout/internal/data/repository"
	"cinema-checkout/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CheckoutState string

const (
	StateSelecting  CheckoutState = "SELECTING"
	StateLocking    CheckoutState = "LOCKING"
	StatePaying     CheckoutState = "PAYING"
	StateConfirming CheckoutState = "CONFIRMING"
	StateConfirmed  CheckoutState = "CONFIRMED"
	StateReleasing  CheckoutState = "RELEASING"
)

// transitions lists every legal move of a booking attempt.
var transitions = map[CheckoutState][]CheckoutState{
	StateSelecting:  {StateLocking},
	StateLocking:    {StatePaying, StateSelecting},
	StatePaying:     {StateConfirming, StateReleasing},
	StateConfirming: {StateConfirmed, StateReleasing},
	StateReleasing:  {StateSelecting},
	StateConfirmed:  {},
}

func canTransition(from, to CheckoutState) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CheckoutInput is what one attempt needs from the seat view.
type CheckoutInput struct {
	User          entity.UserContext
	ShowID        string
	Show          *entity.Show
	Seats         []entity.Seat
	PaymentMethod string
}

// CheckoutDeps are the collaborators shared by every attempt.
type CheckoutDeps struct {
	Booking        repository.BookingRepository
	Journal        repository.JournalRepository
	Payment        PaymentProcessor
	Pricing        PricingEngine
	Tickets        TicketFormatter
	ReleaseTimeout time.Duration
}

// Checkout drives one seat view's booking attempts through
// SELECTING -> LOCKING -> PAYING -> CONFIRMING -> CONFIRMED, releasing held
// seats on any failure after a successful lock. Only one attempt may be in
// flight at a time.
type Checkout struct {
	lock    *lockCoordinator
	confirm *bookingConfirmer
	release *compensationHandler
	payment PaymentProcessor
	pricing PricingEngine
	tickets TicketFormatter
	journal repository.JournalRepository
	log     *zap.Logger

	mu        sync.Mutex
	state     CheckoutState
	attemptID uuid.UUID
	receipt   *entity.Receipt
	lastErr   error
}

func NewCheckout(deps CheckoutDeps, log *zap.Logger) *Checkout {
	log = log.With(zap.String("service", "checkout"))
	return &Checkout{
		lock:    newLockCoordinator(deps.Booking, log),
		confirm: newBookingConfirmer(deps.Booking, log),
		release: newCompensationHandler(deps.Booking, deps.ReleaseTimeout, log),
		payment: deps.Payment,
		pricing: deps.Pricing,
		tickets: deps.Tickets,
		journal: deps.Journal,
		log:     log,
		state:   StateSelecting,
	}
}

func (c *Checkout) State() CheckoutState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Receipt is set once the attempt reaches CONFIRMED.
func (c *Checkout) Receipt() *entity.Receipt {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.receipt
}

// LastError is the error surfaced by the most recent failed attempt.
func (c *Checkout) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Proceed runs one attempt to completion. On failure the state is back at
// SELECTING and the returned error carries its kind.
func (c *Checkout) Proceed(ctx context.Context, in CheckoutInput) (*entity.Receipt, error) {
	if in.PaymentMethod == "" {
		in.PaymentMethod = DefaultPaymentMethod
	}
	seatIDs := make([]string, len(in.Seats))
	for i, s := range in.Seats {
		seatIDs[i] = s.ID
	}

	if err := c.begin(seatIDs); err != nil {
		return nil, err
	}

	log := c.log.With(
		zap.String("attempt_id", c.currentAttempt().String()),
		zap.String("show_id", in.ShowID),
		zap.Strings("seat_ids", seatIDs),
	)

	// LOCKING
	if err := c.lock.Lock(ctx, in.ShowID, seatIDs); err != nil {
		log.Info("Lock failed", zap.Error(err))
		return nil, c.fail(ctx, in, seatIDs, err, false)
	}
	if err := c.transition(StatePaying); err != nil {
		return nil, err
	}

	// PAYING
	estimate := c.pricing.Total(in.Seats)
	err := c.payment.Charge(ctx, PaymentRequest{
		ShowID:  in.ShowID,
		SeatIDs: seatIDs,
		Method:  in.PaymentMethod,
		Amount:  estimate,
	})
	if err != nil {
		log.Info("Payment failed", zap.Error(err))
		return nil, c.fail(ctx, in, seatIDs, err, true)
	}
	if err := c.transition(StateConfirming); err != nil {
		return nil, err
	}

	// CONFIRMING
	resp, err := c.confirm.Confirm(ctx, in.ShowID, seatIDs, in.PaymentMethod)
	if err != nil {
		log.Info("Confirm failed", zap.Error(err))
		return nil, c.fail(ctx, in, seatIDs, err, true)
	}

	booking := &entity.Booking{
		BookingID:     resp.BookingID,
		TransactionID: resp.TransactionID,
		Amount:        resp.Amount,
		ShowID:        in.ShowID,
		Seats:         append([]entity.Seat(nil), in.Seats...),
		PaymentMethod: in.PaymentMethod,
		Status:        entity.BookingStatusConfirmed,
		ConfirmedAt:   time.Now(),
	}
	receipt := c.tickets.BuildReceipt(booking, in.Show, in.Seats, in.PaymentMethod)

	c.mu.Lock()
	c.receipt = receipt
	c.lastErr = nil
	c.mu.Unlock()

	if err := c.transition(StateConfirmed); err != nil {
		return nil, err
	}

	log.Info("Booking confirmed",
		zap.String("booking_id", booking.BookingID),
		zap.String("transaction_id", booking.TransactionID),
		zap.Float64("amount", booking.Amount),
		zap.Float64("estimate", estimate),
	)
	c.record(ctx, in, seatIDs, StateConfirmed, nil, booking)

	return receipt, nil
}

// Reset starts a fresh attempt after a confirmed booking.
func (c *Checkout) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StateConfirmed, StateSelecting:
	default:
		return entity.NewBookingError(entity.ErrValidation, "checkout already in progress", nil)
	}

	c.state = StateSelecting
	c.receipt = nil
	c.lastErr = nil
	return nil
}

// begin claims the attempt: SELECTING -> LOCKING, rejecting a second
// concurrent Proceed and an empty selection.
func (c *Checkout) begin(seatIDs []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StateSelecting:
	case StateConfirmed:
		return entity.NewBookingError(entity.ErrValidation, "booking already confirmed", nil)
	default:
		return entity.NewBookingError(entity.ErrValidation, "checkout already in progress", nil)
	}

	if len(seatIDs) == 0 {
		return entity.NewBookingError(entity.ErrValidation, "select at least one seat", nil)
	}

	c.attemptID = utils.GenerateUUID()
	c.lastErr = nil
	return c.transitionLocked(StateLocking)
}

// fail routes a failed attempt back to SELECTING, releasing the seats when
// the lock had been granted.
func (c *Checkout) fail(ctx context.Context, in CheckoutInput, seatIDs []string, cause error, locked bool) error {
	if locked {
		if err := c.transition(StateReleasing); err != nil {
			return err
		}
		c.release.Release(ctx, in.ShowID, seatIDs)
	}

	c.mu.Lock()
	c.lastErr = cause
	err := c.transitionLocked(StateSelecting)
	c.mu.Unlock()
	if err != nil {
		return err
	}

	c.record(ctx, in, seatIDs, StateSelecting, cause, nil)
	return cause
}

func (c *Checkout) transition(to CheckoutState) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transitionLocked(to)
}

func (c *Checkout) transitionLocked(to CheckoutState) error {
	if !canTransition(c.state, to) {
		c.log.Error("Illegal checkout transition",
			zap.String("from", string(c.state)),
			zap.String("to", string(to)),
		)
		return fmt.Errorf("illegal checkout transition %s -> %s", c.state, to)
	}
	c.log.Debug("Checkout transition",
		zap.String("from", string(c.state)),
		zap.String("to", string(to)),
	)
	c.state = to
	return nil
}

func (c *Checkout) currentAttempt() uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attemptID
}

// record journals how the attempt ended. Journal errors never fail the attempt.
func (c *Checkout) record(ctx context.Context, in CheckoutInput, seatIDs []string, state CheckoutState, cause error, booking *entity.Booking) {
	rec := &entity.AttemptRecord{
		BaseSimple: entity.BaseSimple{
			ID:        utils.GenerateUUID(),
			CreatedAt: time.Now(),
		},
		AttemptID: c.currentAttempt(),
		ShowID:    in.ShowID,
		SeatIDs:   seatIDs,
		State:     string(state),
	}
	if in.User.User != nil {
		rec.UserID = in.User.User.ID
	}
	if cause != nil {
		rec.ErrorKind = string(entity.KindOf(cause))
		rec.Reason = entity.ReasonOf(cause)
	}
	if booking != nil {
		rec.BookingID = &booking.BookingID
		rec.TransactionID = &booking.TransactionID
		rec.Amount = booking.Amount
	}

	journalCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	if err := c.journal.Record(journalCtx, rec); err != nil {
		c.log.Warn("Failed to journal checkout attempt", zap.Error(err))
	}
}
