package adaptor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"cinema-checkout/internal/data/entity"
	"cinema-checkout/internal/usecase"
	"cinema-checkout/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth     *AuthHandler
	SeatView *SeatViewHandler
	Catalog  *CatalogHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(service.Session, log),
		SeatView: NewSeatViewHandler(service.SeatView, log),
		Catalog:  NewCatalogHandler(service.Catalog, log),
	}
}

// decodeBody decodes a JSON body into dst. An empty body leaves dst untouched.
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// handleServiceError maps an error kind to its HTTP status. data, when set,
// is sent alongside the message (e.g. the checkout state after a failure).
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string, data any) {
	kind := entity.KindOf(err)
	msg := entity.ReasonOf(err)

	switch kind {
	case entity.ErrValidation:
		log.Warn(operation+" validation failed", zap.Error(err), zap.String("operation", operation))
		utils.ResponseJSON(w, http.StatusBadRequest, false, msg, data, nil)

	case entity.ErrUnauthenticated:
		log.Warn(operation+" failed - unauthenticated", zap.String("operation", operation))
		if data == nil {
			data = map[string]string{"redirect": "/login"}
		}
		utils.ResponseUnauthorized(w, msg, data)

	case entity.ErrSeatUnavailable:
		log.Warn(operation+" failed - seats unavailable", zap.Error(err), zap.String("operation", operation))
		utils.ResponseConflict(w, msg, data)

	case entity.ErrPaymentDeclined:
		log.Warn(operation+" failed - payment declined", zap.Error(err), zap.String("operation", operation))
		utils.ResponsePaymentRequired(w, msg, data)

	case entity.ErrNetworkFailure, entity.ErrBackend:
		log.Error(operation+" failed - backend", zap.Error(err), zap.String("kind", string(kind)), zap.String("operation", operation))
		utils.ResponseBadGateway(w, msg, data)

	default:
		log.Error(operation+" failed",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
