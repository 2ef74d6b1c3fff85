package repository

import (
	"context"

	"cinema-checkout/internal/dto/response"
	"cinema-checkout/pkg/apiclient"

	"go.uber.org/zap"
)

// AuthRepository fronts the backend's session endpoints. The credential for
// Logout and Session travels in ctx.
type AuthRepository interface {
	Login(ctx context.Context, username, password string) (*response.LoginResponse, error)
	Logout(ctx context.Context) error
	Session(ctx context.Context) (*response.SessionResponse, error)
}

type authRepository struct {
	client *apiclient.Client
	log    *zap.Logger
}

func NewAuthRepository(client *apiclient.Client, log *zap.Logger) AuthRepository {
	return &authRepository{
		client: client,
		log:    log.With(zap.String("repository", "auth")),
	}
}

type loginBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *authRepository) Login(ctx context.Context, username, password string) (*response.LoginResponse, error) {
	var resp response.LoginResponse
	err := r.client.Post(ctx, "/auth/login", loginBody{Username: username, Password: password}, &resp)
	if err != nil {
		if businessFailure(err) {
			if resp.Error == "" {
				resp.Error = backendMessage(err)
			}
			resp.Success = false
			return &resp, nil
		}
		r.log.Warn("Login call failed", zap.String("username", username), zap.Error(err))
		return nil, classify("login "+username, err)
	}
	return &resp, nil
}

func (r *authRepository) Logout(ctx context.Context) error {
	if err := r.client.Post(ctx, "/auth/logout", nil, nil); err != nil {
		return classify("logout", err)
	}
	return nil
}

func (r *authRepository) Session(ctx context.Context) (*response.SessionResponse, error) {
	var resp response.SessionResponse
	if err := r.client.Get(ctx, "/auth/session", nil, &resp); err != nil {
		return nil, classify("check session", err)
	}
	return &resp, nil
}
