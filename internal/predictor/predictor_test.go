package predictor

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"heart-predict/internal/data/entity"
	"heart-predict/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeJSON(t *testing.T, dir, name string, v any) string {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, raw, 0o600))
	return path
}

func ones(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1
	}
	return out
}

func sampleMetrics() entity.HealthMetrics {
	return entity.HealthMetrics{
		Age: 45, Sex: 1, CP: 3, Trestbps: 120, Chol: 210, FBS: 0,
		RestECG: 0, Thalach: 145, Exang: 0, Oldpeak: 1.5, Slope: 2,
	}
}

func TestScaler_Transform(t *testing.T) {
	s := &Scaler{Mean: []float64{10, 0}, Scale: []float64{2, 0.5}}

	out, err := s.Transform([]float64{14, 1})
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 2}, out)

	_, err = s.Transform([]float64{1})
	assert.Error(t, err)
}

func TestLoadScaler(t *testing.T) {
	dir := t.TempDir()

	good := writeJSON(t, dir, "good.json", Scaler{Mean: []float64{1, 2}, Scale: []float64{1, 1}})
	s, err := LoadScaler(good)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, s.Mean)

	zero := writeJSON(t, dir, "zero.json", Scaler{Mean: []float64{1}, Scale: []float64{0}})
	_, err = LoadScaler(zero)
	assert.ErrorContains(t, err, "zero")

	mismatch := writeJSON(t, dir, "mismatch.json", Scaler{Mean: []float64{1, 2}, Scale: []float64{1}})
	_, err = LoadScaler(mismatch)
	assert.Error(t, err)

	_, err = LoadScaler(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestLinearModel_Predict(t *testing.T) {
	m := &LinearModel{Weights: []float64{1, -1}, Bias: 0}

	p, err := m.Predict(context.Background(), []float64{2, 2})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, p, 1e-9)

	p, err = m.Predict(context.Background(), []float64{3, 0})
	require.NoError(t, err)
	assert.InDelta(t, 1/(1+math.Exp(-3)), p, 1e-9)

	_, err = m.Predict(context.Background(), []float64{1})
	assert.Error(t, err)
}

func TestRemoteModel_Predict(t *testing.T) {
	var got predictRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"predictions": [[0.25, 0.75]]}`))
	}))
	defer srv.Close()

	m := NewRemoteModel(srv.URL, time.Second)
	p, err := m.Predict(context.Background(), []float64{0.1, 0.2})
	require.NoError(t, err)

	assert.Equal(t, 0.75, p)
	assert.Equal(t, [][]float64{{0.1, 0.2}}, got.Instances)
}

func TestRemoteModel_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": "bad input"}`))
	}))
	defer srv.Close()

	_, err := NewRemoteModel(srv.URL, time.Second).Predict(context.Background(), []float64{1})
	assert.ErrorContains(t, err, "bad input")
}

func TestRemoteModel_EmptyPredictions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"predictions": []}`))
	}))
	defer srv.Close()

	_, err := NewRemoteModel(srv.URL, time.Second).Predict(context.Background(), []float64{1})
	assert.Error(t, err)
}

func TestEngine_LoadsArtifactsLazily(t *testing.T) {
	dir := t.TempDir()
	cfg := utils.ModelConfig{
		ScalerPath: writeJSON(t, dir, "scaler.json", Scaler{Mean: make([]float64, entity.FeatureCount), Scale: ones(entity.FeatureCount)}),
		ModelPath:  writeJSON(t, dir, "model.json", LinearModel{Weights: make([]float64, entity.FeatureCount), Bias: 2}),
	}

	engine := NewEngine(cfg, zap.NewNop())
	p, err := engine.Predict(context.Background(), sampleMetrics())
	require.NoError(t, err)
	assert.InDelta(t, 1/(1+math.Exp(-2)), p, 1e-9)
}

func TestEngine_MissingArtifacts(t *testing.T) {
	dir := t.TempDir()
	cfg := utils.ModelConfig{
		ScalerPath: filepath.Join(dir, "scaler.json"),
		ModelPath:  filepath.Join(dir, "model.json"),
	}

	engine := NewEngine(cfg, zap.NewNop())
	_, err := engine.Predict(context.Background(), sampleMetrics())
	assert.ErrorIs(t, err, ErrUnavailable)

	// A later call picks the artifacts up once they exist.
	writeJSON(t, dir, "scaler.json", Scaler{Mean: make([]float64, entity.FeatureCount), Scale: ones(entity.FeatureCount)})
	writeJSON(t, dir, "model.json", LinearModel{Weights: make([]float64, entity.FeatureCount)})

	p, err := engine.Predict(context.Background(), sampleMetrics())
	require.NoError(t, err)
	assert.InDelta(t, 0.5, p, 1e-9)
}

func TestEngine_ScalerWidthMismatch(t *testing.T) {
	dir := t.TempDir()
	cfg := utils.ModelConfig{
		ScalerPath: writeJSON(t, dir, "scaler.json", Scaler{Mean: []float64{0}, Scale: []float64{1}}),
		ModelPath:  writeJSON(t, dir, "model.json", LinearModel{Weights: ones(entity.FeatureCount)}),
	}

	_, err := NewEngine(cfg, zap.NewNop()).Predict(context.Background(), sampleMetrics())
	assert.ErrorIs(t, err, ErrUnavailable)
}

type stubModel struct{ p float64 }

func (s stubModel) Predict(context.Context, []float64) (float64, error) { return s.p, nil }

func TestEngine_With(t *testing.T) {
	scaler := &Scaler{Mean: make([]float64, entity.FeatureCount), Scale: ones(entity.FeatureCount)}
	engine := NewEngineWith(scaler, stubModel{p: 0.9}, zap.NewNop())

	p, err := engine.Predict(context.Background(), sampleMetrics())
	require.NoError(t, err)
	assert.Equal(t, 0.9, p)
}
