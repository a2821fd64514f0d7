package usecase

import (
	"heart-predict/internal/data/repository"
	"heart-predict/pkg/metrics"
	"heart-predict/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth       AuthService
	User       UserService
	Prediction PredictionService
}

func NewService(
	repo *repository.Repository,
	config *utils.Config,
	predictor Predictor,
	m *metrics.Metrics,
	log *zap.Logger,
) *Service {
	return &Service{
		Auth:       NewAuthService(repo, config, log),
		User:       NewUserService(repo, log),
		Prediction: NewPredictionService(repo, predictor, config.Model, m, log),
	}
}
