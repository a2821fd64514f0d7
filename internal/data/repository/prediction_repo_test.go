package repository

import (
	"context"
	"testing"
	"time"

	"heart-predict/internal/data/entity"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var predictionRowColumns = []string{
	"id", "user_id", "age", "sex", "cp", "trestbps", "chol", "fbs", "restecg",
	"thalach", "exang", "oldpeak", "slope", "probability", "prediction", "created_at",
}

func sampleMetrics() entity.HealthMetrics {
	return entity.HealthMetrics{
		Age: 45, Sex: 1, CP: 3, Trestbps: 120, Chol: 210, FBS: 0,
		RestECG: 0, Thalach: 145, Exang: 0, Oldpeak: 1.5, Slope: 2,
	}
}

func TestPredictionRepository_Create(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPredictionRepository(mock, zap.NewNop())

	now := time.Now()
	p, err := entity.NewPrediction(9, sampleMetrics(), 0.75, 0.5, now)
	require.NoError(t, err)

	mock.ExpectQuery("INSERT INTO predictions").
		WithArgs(int64(9), 45, 1, 3, 120, 210, 0, 0, 145, 0, 1.5, 2, 0.75, entity.LabelPositive, now).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(21)))

	require.NoError(t, repo.Create(context.Background(), p))
	assert.Equal(t, int64(21), p.ID)
}

func TestPredictionRepository_FindByUserID(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPredictionRepository(mock, zap.NewNop())

	now := time.Now()
	mock.ExpectQuery("FROM predictions").
		WithArgs(int64(9), 10, 0).
		WillReturnRows(pgxmock.NewRows(predictionRowColumns).
			AddRow(int64(2), int64(9), 45, 1, 3, 120, 210, 0, 0, 145, 0, 1.5, 2, 0.75, entity.LabelPositive, now).
			AddRow(int64(1), int64(9), 60, 0, 1, 140, 300, 1, 2, 100, 1, 3.0, 1, 0.2, entity.LabelNegative, now.Add(-time.Hour)))

	predictions, err := repo.FindByUserID(context.Background(), 9, 10, 0)
	require.NoError(t, err)
	require.Len(t, predictions, 2)

	assert.Equal(t, int64(2), predictions[0].ID)
	assert.Equal(t, sampleMetrics(), predictions[0].HealthMetrics)
	assert.Equal(t, entity.LabelNegative, predictions[1].Label)
}

func TestPredictionRepository_FindByIDMissing(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPredictionRepository(mock, zap.NewNop())

	mock.ExpectQuery("FROM predictions").
		WithArgs(int64(404)).
		WillReturnRows(pgxmock.NewRows(predictionRowColumns))

	p, err := repo.FindByID(context.Background(), 404)
	assert.NoError(t, err)
	assert.Nil(t, p)
}

func TestPredictionRepository_Delete(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPredictionRepository(mock, zap.NewNop())

	mock.ExpectExec("DELETE FROM predictions").
		WithArgs(int64(2), int64(9)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec("DELETE FROM predictions").
		WithArgs(int64(2), int64(10)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.NoError(t, repo.Delete(context.Background(), 2, 9))
	assert.ErrorIs(t, repo.Delete(context.Background(), 2, 10), ErrNotFound)
}
