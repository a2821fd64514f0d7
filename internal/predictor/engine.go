package predictor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"heart-predict/internal/data/entity"
	"heart-predict/pkg/utils"

	"go.uber.org/zap"
)

// ErrUnavailable is returned while the model artifacts cannot be loaded.
var ErrUnavailable = errors.New("model unavailable")

// Engine scales the health metrics and scores them with the configured model.
// Artifacts are loaded on first use; a failed load is retried on the next call.
type Engine struct {
	config utils.ModelConfig
	log    *zap.Logger

	mu     sync.Mutex
	scaler *Scaler
	model  Model
}

func NewEngine(config utils.ModelConfig, log *zap.Logger) *Engine {
	return &Engine{
		config: config,
		log:    log.With(zap.String("component", "predictor")),
	}
}

// NewEngineWith builds an engine around already loaded artifacts.
func NewEngineWith(scaler *Scaler, model Model, log *zap.Logger) *Engine {
	return &Engine{
		log:    log.With(zap.String("component", "predictor")),
		scaler: scaler,
		model:  model,
	}
}

func (e *Engine) Predict(ctx context.Context, metrics entity.HealthMetrics) (float64, error) {
	scaler, model, err := e.load()
	if err != nil {
		return 0, err
	}

	features, err := scaler.Transform(metrics.Features())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	probability, err := model.Predict(ctx, features)
	if err != nil {
		return 0, fmt.Errorf("inference: %w", err)
	}

	return probability, nil
}

func (e *Engine) load() (*Scaler, Model, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.scaler != nil && e.model != nil {
		return e.scaler, e.model, nil
	}

	scaler, err := LoadScaler(e.config.ScalerPath)
	if err != nil {
		e.log.Error("Failed to load scaler", zap.Error(err), zap.String("path", e.config.ScalerPath))
		return nil, nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(scaler.Mean) != entity.FeatureCount {
		return nil, nil, fmt.Errorf("%w: scaler has %d columns, want %d", ErrUnavailable, len(scaler.Mean), entity.FeatureCount)
	}

	var model Model
	if e.config.InferenceURL != "" {
		timeout := time.Duration(e.config.TimeoutSeconds) * time.Second
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		model = NewRemoteModel(e.config.InferenceURL, timeout)
		e.log.Info("Using remote model server", zap.String("url", e.config.InferenceURL))
	} else {
		linear, err := LoadLinearModel(e.config.ModelPath)
		if err != nil {
			e.log.Error("Failed to load model", zap.Error(err), zap.String("path", e.config.ModelPath))
			return nil, nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		model = linear
		e.log.Info("Loaded local model", zap.String("path", e.config.ModelPath))
	}

	e.scaler, e.model = scaler, model
	return scaler, model, nil
}
