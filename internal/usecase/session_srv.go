package usecase

import (
	"context"
	"sync"

	"cinema-checkout/internal/data/entity"
	"cinema-checkout/internal/data/repository"
	"cinema-checkout/internal/dto/request"
	"cinema-checkout/internal/dto/response"
	"cinema-checkout/pkg/utils"

	"go.uber.org/zap"
)

const DefaultCity = "Coimbatore"

// SessionService keeps the kiosk's UserContext per credential. The
// credential is the backend session id returned at login.
type SessionService interface {
	Login(ctx context.Context, current entity.UserContext, req *request.LoginRequest) (*response.AuthResponse, error)
	Logout(ctx context.Context, uc entity.UserContext) error
	Current(ctx context.Context, uc entity.UserContext) (*response.SessionView, error)
	SelectCity(ctx context.Context, uc entity.UserContext, req *request.CityRequest) (*response.SessionView, error)
	Get(credential string) (entity.UserContext, bool)
}

type sessionService struct {
	repo  *repository.Repository
	views SeatViewService
	log   *zap.Logger

	mu       sync.RWMutex
	sessions map[string]entity.UserContext
}

func NewSessionService(repo *repository.Repository, views SeatViewService, log *zap.Logger) SessionService {
	return &sessionService{
		repo:     repo,
		views:    views,
		log:      log.With(zap.String("service", "session")),
		sessions: make(map[string]entity.UserContext),
	}
}

func (s *sessionService) Get(credential string) (entity.UserContext, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	uc, ok := s.sessions[credential]
	return uc, ok
}

func (s *sessionService) put(uc entity.UserContext) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[uc.Credential] = uc
}

func (s *sessionService) drop(credential string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, credential)
}

// Login authenticates against the backend. From is echoed as Next so the
// caller can resume where it was sent to log in.
func (s *sessionService) Login(ctx context.Context, current entity.UserContext, req *request.LoginRequest) (*response.AuthResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	resp, err := s.repo.Auth.Login(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}
	if !resp.Success || resp.SessionID == "" || resp.User == nil {
		s.log.Info("Login refused", zap.String("username", req.Username), zap.String("reason", resp.Error))
		reason := resp.Error
		if reason == "" {
			reason = "Invalid credentials"
		}
		return nil, entity.NewBookingError(entity.ErrUnauthenticated, reason, nil)
	}

	if current.City == "" {
		current = current.WithCity(DefaultCity)
	}
	uc := current.WithLogin(resp.SessionID, *resp.User)
	s.put(uc)

	s.log.Info("User logged in",
		zap.String("user_id", uc.User.ID),
		zap.String("role", string(uc.User.Role)),
	)

	return &response.AuthResponse{
		SessionID: uc.Credential,
		User:      uc.User,
		IsAdmin:   uc.IsAdmin(),
		City:      uc.City,
		Next:      req.From,
	}, nil
}

// Logout closes the user's seat views and forgets the session even if the
// backend call fails.
func (s *sessionService) Logout(ctx context.Context, uc entity.UserContext) error {
	if !uc.Authenticated() {
		return nil
	}

	s.views.CloseAll(uc.Credential)
	s.drop(uc.Credential)

	if err := s.repo.Auth.Logout(utils.SetCredentialContext(ctx, uc.Credential)); err != nil {
		s.log.Warn("Backend logout failed", zap.Error(err))
	}
	return nil
}

// Current revalidates the session with the backend and refreshes the role
// claim from its answer.
func (s *sessionService) Current(ctx context.Context, uc entity.UserContext) (*response.SessionView, error) {
	if !uc.Authenticated() {
		view := response.SessionToView(uc)
		return &view, nil
	}

	resp, err := s.repo.Auth.Session(utils.SetCredentialContext(ctx, uc.Credential))
	if err != nil {
		if entity.KindOf(err) == entity.ErrUnauthenticated {
			s.views.CloseAll(uc.Credential)
			s.drop(uc.Credential)
		}
		return nil, err
	}
	if !resp.Valid {
		s.views.CloseAll(uc.Credential)
		s.drop(uc.Credential)
		return nil, entity.NewBookingError(entity.ErrUnauthenticated, "Session expired", nil)
	}

	if resp.User != nil {
		uc = uc.WithLogin(uc.Credential, *resp.User)
		s.put(uc)
	}

	view := response.SessionToView(uc)
	return &view, nil
}

func (s *sessionService) SelectCity(ctx context.Context, uc entity.UserContext, req *request.CityRequest) (*response.SessionView, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if !uc.Authenticated() {
		return nil, entity.NewBookingError(entity.ErrUnauthenticated, "", nil)
	}

	uc = uc.WithCity(req.City)
	s.put(uc)

	view := response.SessionToView(uc)
	return &view, nil
}
