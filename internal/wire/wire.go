package wire

import (
	"net/http"

	"heart-predict/internal/adaptor"
	"heart-predict/internal/data/repository"
	"heart-predict/internal/usecase"
	"heart-predict/pkg/metrics"
	"heart-predict/pkg/middleware"
	"heart-predict/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the assembled HTTP stack.
type App struct {
	Router *chi.Mux
}

// Wiring builds services, handlers and routes.
func Wiring(
	repo *repository.Repository,
	config *utils.Config,
	predictor usecase.Predictor,
	m *metrics.Metrics,
	logger *zap.Logger,
) *App {
	service := usecase.NewService(repo, config, predictor, m, logger)
	handler := adaptor.NewHandler(service, logger)

	return &App{
		Router: setupRouter(handler, repo, config, m, logger),
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	config *utils.Config,
	m *metrics.Metrics,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())
	r.Use(middleware.Metrics(m))

	auth := middleware.AuthSession(repo.Session, []byte(config.App.SecretKey), logger)

	wireAuth(r, handler.Auth, auth)
	wireUser(r, handler.User, auth, repo, logger)
	wirePrediction(r, handler.Prediction, auth)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())

	return r
}
