package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"cinema-checkout/internal/data/entity"
	"cinema-checkout/internal/data/repository"
	"cinema-checkout/internal/dto/request"
	"cinema-checkout/internal/dto/response"
	"cinema-checkout/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	TicketFormatText = "txt"
	TicketFormatPNG  = "png"
	TicketFormatPDF  = "pdf"
)

// TicketExport is a rendered ticket ready to be sent as a download.
type TicketExport struct {
	ContentType string
	FileName    string
	Body        []byte
}

// SeatViewService keeps one live seat view per (session, show): the
// refreshed seat map, the user's selection and the checkout attempt.
type SeatViewService interface {
	Open(ctx context.Context, uc entity.UserContext, showID string) (*response.SeatViewResponse, error)
	View(ctx context.Context, uc entity.UserContext, showID string) (*response.SeatViewResponse, error)
	Toggle(ctx context.Context, uc entity.UserContext, showID, seatID string) (*response.SeatViewResponse, error)
	Close(ctx context.Context, uc entity.UserContext, showID string) error
	Checkout(ctx context.Context, uc entity.UserContext, showID string, req *request.CheckoutRequest) (*response.CheckoutResponse, error)
	Reset(ctx context.Context, uc entity.UserContext, showID string) (*response.SeatViewResponse, error)
	Ticket(ctx context.Context, uc entity.UserContext, showID, format string) (*TicketExport, error)
	CloseAll(credential string)
	Shutdown()
}

type seatView struct {
	showID   string
	show     *entity.Show
	cache    *SeatMapCache
	checkout *Checkout
	cancel   context.CancelFunc
	done     chan struct{}

	mu        sync.Mutex
	snapshot  *entity.SeatMap
	selection *Selection
}

// apply makes snapshot visible after pruning the selection against it.
// While an attempt is in flight snapshots are held back; the attempt's own
// refetch catches up when it ends.
func (v *seatView) apply(snapshot *entity.SeatMap) []string {
	switch v.checkout.State() {
	case StateSelecting, StateConfirmed:
	default:
		return nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.snapshot = snapshot
	return v.selection.Prune(snapshot)
}

type seatViewService struct {
	repo   *repository.Repository
	config *utils.Config
	deps   CheckoutDeps
	log    *zap.Logger

	baseCtx    context.Context
	baseCancel context.CancelFunc

	mu    sync.Mutex
	views map[string]*seatView
}

func NewSeatViewService(repo *repository.Repository, config *utils.Config, payment PaymentProcessor, log *zap.Logger) SeatViewService {
	pricing := NewPricingEngine()
	baseCtx, baseCancel := context.WithCancel(context.Background())

	return &seatViewService{
		repo:   repo,
		config: config,
		deps: CheckoutDeps{
			Booking:        repo.Booking,
			Journal:        repo.Journal,
			Payment:        payment,
			Pricing:        pricing,
			Tickets:        NewTicketFormatter(pricing, config.Checkout.Currency),
			ReleaseTimeout: config.Checkout.ReleaseTimeout,
		},
		log:        log.With(zap.String("service", "seatview")),
		baseCtx:    baseCtx,
		baseCancel: baseCancel,
		views:      make(map[string]*seatView),
	}
}

func viewKey(credential, showID string) string {
	return credential + "|" + showID
}

func requireLogin(uc entity.UserContext) error {
	if !uc.Authenticated() {
		return entity.NewBookingError(entity.ErrUnauthenticated, "", nil)
	}
	return nil
}

// Open loads the seat map and show details in parallel and starts the
// periodic refresh. Opening an already open view returns it unchanged.
func (s *seatViewService) Open(ctx context.Context, uc entity.UserContext, showID string) (*response.SeatViewResponse, error) {
	if err := requireLogin(uc); err != nil {
		return nil, err
	}
	if v := s.lookup(uc, showID); v != nil {
		return s.render(v), nil
	}

	ctx = utils.SetCredentialContext(ctx, uc.Credential)
	cache := NewSeatMapCache(showID, s.repo.Seat, s.log)

	var (
		snapshot *entity.SeatMap
		show     *entity.Show
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snapshot, err = cache.Fetch(gctx)
		return err
	})
	g.Go(func() error {
		found, err := s.repo.Show.FindByID(gctx, showID)
		if err != nil {
			// Show details only decorate the view and receipt.
			s.log.Warn("Show lookup failed", zap.String("show_id", showID), zap.Error(err))
			return nil
		}
		show = found
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	watchCtx, cancel := context.WithCancel(utils.SetCredentialContext(s.baseCtx, uc.Credential))
	v := &seatView{
		showID:    showID,
		show:      show,
		cache:     cache,
		checkout:  NewCheckout(s.deps, s.log),
		cancel:    cancel,
		done:      make(chan struct{}),
		snapshot:  snapshot,
		selection: NewSelection(),
	}

	s.mu.Lock()
	if existing, ok := s.views[viewKey(uc.Credential, showID)]; ok {
		s.mu.Unlock()
		cancel()
		return s.render(existing), nil
	}
	s.views[viewKey(uc.Credential, showID)] = v
	s.mu.Unlock()

	go s.refresh(watchCtx, v)

	s.log.Info("Seat view opened",
		zap.String("show_id", showID),
		zap.Int("seats", len(snapshot.Seats)),
	)
	return s.render(v), nil
}

func (s *seatViewService) refresh(ctx context.Context, v *seatView) {
	defer close(v.done)
	for snapshot := range v.cache.Watch(ctx, s.config.Checkout.RefreshInterval) {
		if dropped := v.apply(snapshot); len(dropped) > 0 {
			s.log.Info("Selection pruned on refresh",
				zap.String("show_id", v.showID),
				zap.Strings("seat_ids", dropped),
			)
		}
	}
}

func (s *seatViewService) View(ctx context.Context, uc entity.UserContext, showID string) (*response.SeatViewResponse, error) {
	v, err := s.get(uc, showID)
	if err != nil {
		return nil, err
	}
	return s.render(v), nil
}

// Toggle flips seatID in the selection. Seats that are not AVAILABLE in the
// visible snapshot are ignored.
func (s *seatViewService) Toggle(ctx context.Context, uc entity.UserContext, showID, seatID string) (*response.SeatViewResponse, error) {
	v, err := s.get(uc, showID)
	if err != nil {
		return nil, err
	}

	if v.checkout.State() != StateSelecting {
		return nil, entity.NewBookingError(entity.ErrValidation, "selection is locked while checkout runs", nil)
	}

	v.mu.Lock()
	changed := v.selection.Toggle(v.snapshot, seatID)
	v.mu.Unlock()

	if !changed {
		s.log.Debug("Toggle ignored", zap.String("show_id", showID), zap.String("seat_id", seatID))
	}
	return s.render(v), nil
}

func (s *seatViewService) Close(ctx context.Context, uc entity.UserContext, showID string) error {
	if err := requireLogin(uc); err != nil {
		return err
	}

	s.mu.Lock()
	v, ok := s.views[viewKey(uc.Credential, showID)]
	delete(s.views, viewKey(uc.Credential, showID))
	s.mu.Unlock()

	if !ok {
		return nil
	}
	s.stop(v)
	s.log.Info("Seat view closed", zap.String("show_id", showID))
	return nil
}

// Checkout runs lock -> payment -> confirm for the current selection. On
// success the selection is cleared; after a failure the seat map is
// refetched once and the selection pruned.
func (s *seatViewService) Checkout(ctx context.Context, uc entity.UserContext, showID string, req *request.CheckoutRequest) (*response.CheckoutResponse, error) {
	v, err := s.get(uc, showID)
	if err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return &response.CheckoutResponse{State: string(v.checkout.State()), Error: response.ErrorToView(err)}, err
	}

	v.mu.Lock()
	in := CheckoutInput{
		User:          uc,
		ShowID:        showID,
		Show:          v.show,
		Seats:         v.selection.Seats(),
		PaymentMethod: req.PaymentMethod,
	}
	v.mu.Unlock()

	ctx = utils.SetCredentialContext(ctx, uc.Credential)
	receipt, err := v.checkout.Proceed(ctx, in)
	if err != nil {
		if entity.KindOf(err) != entity.ErrValidation {
			s.resync(ctx, v)
		}
		return &response.CheckoutResponse{
			State: string(v.checkout.State()),
			Error: response.ErrorToView(err),
		}, err
	}

	// The receipt carries its own copy of the booked seats.
	v.mu.Lock()
	v.selection.Clear()
	v.mu.Unlock()

	return &response.CheckoutResponse{
		State:   string(v.checkout.State()),
		Receipt: receipt,
	}, nil
}

// resync refetches the seat map once after a failed attempt. If that fetch
// fails, the latest snapshot the cache holds is applied instead.
func (s *seatViewService) resync(ctx context.Context, v *seatView) {
	fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.Backend.Timeout)
	defer cancel()

	snapshot, err := v.cache.Fetch(fetchCtx)
	if err != nil {
		s.log.Warn("Seat resync after failed checkout", zap.String("show_id", v.showID), zap.Error(err))
		// Snapshots the refresh loop fetched during the attempt were held back.
		if snapshot = v.cache.Snapshot(); snapshot == nil {
			return
		}
	}
	if dropped := v.apply(snapshot); len(dropped) > 0 {
		s.log.Info("Selection pruned after failed checkout",
			zap.String("show_id", v.showID),
			zap.Strings("seat_ids", dropped),
		)
	}
}

// Reset begins a new attempt with an empty selection.
func (s *seatViewService) Reset(ctx context.Context, uc entity.UserContext, showID string) (*response.SeatViewResponse, error) {
	v, err := s.get(uc, showID)
	if err != nil {
		return nil, err
	}
	if err := v.checkout.Reset(); err != nil {
		return nil, err
	}

	v.mu.Lock()
	v.selection.Clear()
	v.mu.Unlock()

	s.resync(utils.SetCredentialContext(ctx, uc.Credential), v)
	return s.render(v), nil
}

func (s *seatViewService) Ticket(ctx context.Context, uc entity.UserContext, showID, format string) (*TicketExport, error) {
	v, err := s.get(uc, showID)
	if err != nil {
		return nil, err
	}

	receipt := v.checkout.Receipt()
	if receipt == nil {
		return nil, entity.NewBookingError(entity.ErrValidation, "no confirmed booking for this show", nil)
	}

	tickets := s.deps.Tickets
	switch format {
	case "", TicketFormatText:
		return &TicketExport{
			ContentType: "text/plain; charset=utf-8",
			FileName:    tickets.ExportFileName(receipt, TicketFormatText),
			Body:        []byte(tickets.BuildExportText(receipt)),
		}, nil
	case TicketFormatPNG:
		png, err := tickets.RenderScanCode(receipt.ScanPayload, ScanCodeSize)
		if err != nil {
			return nil, err
		}
		return &TicketExport{
			ContentType: "image/png",
			FileName:    tickets.ExportFileName(receipt, TicketFormatPNG),
			Body:        png,
		}, nil
	case TicketFormatPDF:
		pdf, err := tickets.BuildTicketPDF(receipt)
		if err != nil {
			return nil, err
		}
		return &TicketExport{
			ContentType: "application/pdf",
			FileName:    tickets.ExportFileName(receipt, TicketFormatPDF),
			Body:        pdf,
		}, nil
	default:
		return nil, entity.NewBookingError(entity.ErrValidation, "format must be one of: txt, png, pdf", nil)
	}
}

// CloseAll stops every view opened under credential, e.g. on logout.
func (s *seatViewService) CloseAll(credential string) {
	s.mu.Lock()
	var closing []*seatView
	for key, v := range s.views {
		if strings.HasPrefix(key, credential+"|") {
			closing = append(closing, v)
			delete(s.views, key)
		}
	}
	s.mu.Unlock()

	for _, v := range closing {
		s.stop(v)
	}
}

// Shutdown stops all refresh tasks.
func (s *seatViewService) Shutdown() {
	s.baseCancel()

	s.mu.Lock()
	views := s.views
	s.views = make(map[string]*seatView)
	s.mu.Unlock()

	for _, v := range views {
		s.stop(v)
	}
}

func (s *seatViewService) stop(v *seatView) {
	v.cancel()
	select {
	case <-v.done:
	case <-time.After(s.config.Backend.Timeout + time.Second):
		s.log.Warn("Seat refresh did not stop in time", zap.String("show_id", v.showID))
	}

	v.mu.Lock()
	v.selection.Clear()
	v.mu.Unlock()
}

func (s *seatViewService) lookup(uc entity.UserContext, showID string) *seatView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.views[viewKey(uc.Credential, showID)]
}

func (s *seatViewService) get(uc entity.UserContext, showID string) (*seatView, error) {
	if err := requireLogin(uc); err != nil {
		return nil, err
	}
	v := s.lookup(uc, showID)
	if v == nil {
		return nil, entity.NewBookingError(entity.ErrValidation, "seat view is not open for this show", nil)
	}
	return v, nil
}

func (s *seatViewService) render(v *seatView) *response.SeatViewResponse {
	v.mu.Lock()
	defer v.mu.Unlock()

	resp := &response.SeatViewResponse{
		ShowID:    v.showID,
		Show:      v.show,
		State:     string(v.checkout.State()),
		Selected:  []string{},
		LastError: response.ErrorToView(v.checkout.LastError()),
		Receipt:   v.checkout.Receipt(),
	}
	if v.selection.Len() > 0 {
		resp.Selected = v.selection.IDs()
		resp.EstimatedTotal = s.deps.Pricing.Total(v.selection.Seats())
	}
	if v.snapshot != nil {
		resp.Seats = v.snapshot.Seats
		resp.FetchedAt = v.snapshot.FetchedAt.Format(time.RFC3339)
	}
	return resp
}
