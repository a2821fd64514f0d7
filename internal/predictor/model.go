package predictor

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// Model turns a scaled feature vector into a probability.
type Model interface {
	Predict(ctx context.Context, features []float64) (float64, error)
}

// LinearModel is a logistic head exported as JSON weights.
type LinearModel struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
}

func LoadLinearModel(path string) (*LinearModel, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model %s: %w", path, err)
	}

	var m LinearModel
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode model %s: %w", path, err)
	}
	if len(m.Weights) == 0 {
		return nil, fmt.Errorf("model %s has no weights", path)
	}

	return &m, nil
}

func (m *LinearModel) Predict(_ context.Context, features []float64) (float64, error) {
	if len(features) != len(m.Weights) {
		return 0, fmt.Errorf("model expects %d features, got %d", len(m.Weights), len(features))
	}

	z := m.Bias
	for i, x := range features {
		z += m.Weights[i] * x
	}
	return sigmoid(z), nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
