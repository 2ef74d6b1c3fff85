package adaptor

import (
	"net/http"

	"cinema-checkout/internal/dto/request"
	"cinema-checkout/internal/usecase"
	"cinema-checkout/pkg/utils"

	"go.uber.org/zap"
)

type AuthHandler struct {
	service usecase.SessionService
	log     *zap.Logger
}

func NewAuthHandler(service usecase.SessionService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     log.With(zap.String("handler", "auth")),
	}
}

// Login handles POST /api/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := decodeBody(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	auth, err := h.service.Login(r.Context(), utils.GetUserContext(r.Context()), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "login", nil)
		return
	}

	utils.ResponseSuccess(w, "Login successful", auth)
}

// Logout handles POST /api/logout (protected)
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context(), utils.GetUserContext(r.Context())); err != nil {
		handleServiceError(w, h.log, err, "logout", nil)
		return
	}

	utils.ResponseSuccess(w, "Logout successful", nil)
}

// Session handles GET /api/session
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Current(r.Context(), utils.GetUserContext(r.Context()))
	if err != nil {
		handleServiceError(w, h.log, err, "check session", nil)
		return
	}

	utils.ResponseSuccess(w, "success", view)
}

// SelectCity handles PUT /api/city (protected)
func (h *AuthHandler) SelectCity(w http.ResponseWriter, r *http.Request) {
	var req request.CityRequest
	if err := decodeBody(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	view, err := h.service.SelectCity(r.Context(), utils.GetUserContext(r.Context()), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "select city", nil)
		return
	}

	utils.ResponseSuccess(w, "City updated", view)
}
