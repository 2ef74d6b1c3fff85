package wire

import (
	"net/http"

	"cinema-checkout/internal/adaptor"
	"cinema-checkout/internal/data/repository"
	"cinema-checkout/internal/usecase"
	"cinema-checkout/pkg/middleware"
	"cinema-checkout/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the router and the services that need stopping.
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Shutdown stops the background seat refresh tasks.
func (a *App) Shutdown() {
	a.Service.SeatView.Shutdown()
}

func Wiring(repo *repository.Repository, config *utils.Config, logger *zap.Logger) *App {
	service := usecase.NewService(repo, config, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, service, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

func setupRouter(handler *adaptor.Handler, service *usecase.Service, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	sessions := service.Session
	wireAuth(r, handler.Auth, sessions, logger)
	wireCatalog(r, handler.Catalog, sessions, logger)
	wireSeatView(r, handler.SeatView, sessions)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseNotFound(w, "Route not found")
	})

	return r
}
