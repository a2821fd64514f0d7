package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"heart-predict/internal/data/entity"
	"heart-predict/internal/data/repository"
	"heart-predict/internal/dto/request"
	"heart-predict/internal/dto/response"
	"heart-predict/internal/predictor"
	"heart-predict/pkg/metrics"
	"heart-predict/pkg/utils"

	"go.uber.org/zap"
)

// Predictor estimates the probability of heart disease for validated metrics.
type Predictor interface {
	Predict(ctx context.Context, metrics entity.HealthMetrics) (float64, error)
}

type PredictionService interface {
	CreatePrediction(ctx context.Context, userID int64, req *request.HealthMetricsRequest) (*response.PredictionResponse, error)
	GetPrediction(ctx context.Context, userID, predictionID int64) (*response.PredictionResponse, error)
	GetUserPredictions(ctx context.Context, userID int64, req *request.PaginatedRequest) (*response.PaginatedResponse[response.PredictionResponse], error)
	DeletePrediction(ctx context.Context, userID, predictionID int64) error
}

type predictionService struct {
	repo      *repository.Repository
	predictor Predictor
	threshold float64
	metrics   *metrics.Metrics
	log       *zap.Logger
}

func NewPredictionService(
	repo *repository.Repository,
	predictor Predictor,
	config utils.ModelConfig,
	m *metrics.Metrics,
	log *zap.Logger,
) PredictionService {
	return &predictionService{
		repo:      repo,
		predictor: predictor,
		threshold: config.DecisionThreshold,
		metrics:   m,
		log:       log.With(zap.String("service", "prediction")),
	}
}

// CreatePrediction validates the input, scores it and stores the result.
// Nothing is scored or stored when any field is rejected.
func (s *predictionService) CreatePrediction(ctx context.Context, userID int64, req *request.HealthMetricsRequest) (*response.PredictionResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Prediction input validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	healthMetrics := req.ToMetrics()

	start := time.Now()
	probability, err := s.predictor.Predict(ctx, healthMetrics)
	s.metrics.InferenceLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, predictor.ErrUnavailable) {
			s.log.Error("Model unavailable", zap.Error(err))
			return nil, fmt.Errorf("model unavailable")
		}
		s.log.Error("Inference failed", zap.Error(err), zap.Int64("user_id", userID))
		return nil, fmt.Errorf("inference failed")
	}

	prediction, err := entity.NewPrediction(userID, healthMetrics, probability, s.threshold, time.Now().UTC())
	if err != nil {
		s.log.Error("Model returned an invalid probability", zap.Error(err), zap.Float64("probability", probability))
		return nil, fmt.Errorf("inference failed")
	}

	if err := s.repo.Prediction.Create(ctx, prediction); err != nil {
		s.log.Error("Failed to store prediction", zap.Error(err), zap.Int64("user_id", userID))
		return nil, fmt.Errorf("failed to store prediction")
	}

	s.metrics.Predictions.WithLabelValues(string(prediction.Label)).Inc()

	s.log.Info("Prediction created",
		zap.Int64("prediction_id", prediction.ID),
		zap.Int64("user_id", userID),
		zap.Float64("probability", prediction.Probability),
		zap.String("prediction", string(prediction.Label)),
	)

	resp := response.PredictionToResponse(prediction)
	return &resp, nil
}

// GetPrediction hides predictions of other users behind "not found".
func (s *predictionService) GetPrediction(ctx context.Context, userID, predictionID int64) (*response.PredictionResponse, error) {
	prediction, err := s.repo.Prediction.FindByID(ctx, predictionID)
	if err != nil {
		s.log.Error("Failed to get prediction", zap.Error(err), zap.Int64("prediction_id", predictionID))
		return nil, fmt.Errorf("failed to get prediction")
	}
	if prediction == nil || prediction.UserID != userID {
		return nil, fmt.Errorf("prediction %d not found", predictionID)
	}

	resp := response.PredictionToResponse(prediction)
	return &resp, nil
}

func (s *predictionService) GetUserPredictions(ctx context.Context, userID int64, req *request.PaginatedRequest) (*response.PaginatedResponse[response.PredictionResponse], error) {
	limit := req.Limit()
	offset := req.Offset()

	predictions, err := s.repo.Prediction.FindByUserID(ctx, userID, limit, offset)
	if err != nil {
		s.log.Error("Failed to list predictions", zap.Error(err), zap.Int64("user_id", userID))
		return nil, fmt.Errorf("failed to get predictions")
	}

	total, err := s.repo.Prediction.CountByUserID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to count predictions", zap.Error(err), zap.Int64("user_id", userID))
		return nil, fmt.Errorf("failed to count predictions")
	}

	items := make([]response.PredictionResponse, len(predictions))
	for i, p := range predictions {
		items[i] = response.PredictionToResponse(p)
	}

	return response.NewPaginatedResponse(items, req.Page, limit, total), nil
}

func (s *predictionService) DeletePrediction(ctx context.Context, userID, predictionID int64) error {
	if err := s.repo.Prediction.Delete(ctx, predictionID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("prediction %d not found", predictionID)
		}
		s.log.Error("Failed to delete prediction",
			zap.Error(err),
			zap.Int64("prediction_id", predictionID),
			zap.Int64("user_id", userID),
		)
		return fmt.Errorf("failed to delete prediction")
	}

	s.log.Info("Prediction deleted", zap.Int64("prediction_id", predictionID), zap.Int64("user_id", userID))
	return nil
}
