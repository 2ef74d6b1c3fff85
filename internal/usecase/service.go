package usecase

import (
	"cinema-checkout/internal/data/repository"
	"cinema-checkout/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Session  SessionService
	SeatView SeatViewService
	Catalog  CatalogService
}

func NewService(repo *repository.Repository, config *utils.Config, log *zap.Logger) *Service {
	payment := NewSimulatedPayment(config.Checkout.PaymentDelay, config.Checkout.DeclineMethods, log)
	seatViews := NewSeatViewService(repo, config, payment, log)

	return &Service{
		Session:  NewSessionService(repo, seatViews, log),
		SeatView: seatViews,
		Catalog:  NewCatalogService(repo, log),
	}
}
