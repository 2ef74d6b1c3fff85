package response

import (
	"cinema-checkout/internal/data/entity"
)

// ==================== BACKEND PAYLOADS ====================

type LoginResponse struct {
	Success   bool         `json:"success"`
	SessionID string       `json:"sessionId,omitempty"`
	User      *entity.User `json:"user,omitempty"`
	Error     string       `json:"error,omitempty"`
}

type SessionResponse struct {
	Valid bool         `json:"valid"`
	User  *entity.User `json:"user,omitempty"`
}

// ==================== KIOSK PAYLOADS ====================

type AuthResponse struct {
	SessionID string       `json:"session_id"`
	User      *entity.User `json:"user"`
	IsAdmin   bool         `json:"is_admin"`
	City      string       `json:"city"`
	Next      string       `json:"next,omitempty"`
}

type SessionView struct {
	Authenticated bool         `json:"authenticated"`
	User          *entity.User `json:"user,omitempty"`
	IsAdmin       bool         `json:"is_admin"`
	City          string       `json:"city"`
}

func SessionToView(uc entity.UserContext) SessionView {
	return SessionView{
		Authenticated: uc.Authenticated(),
		User:          uc.User,
		IsAdmin:       uc.IsAdmin(),
		City:          uc.City,
	}
}
