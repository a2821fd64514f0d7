package adaptor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"heart-predict/internal/data/entity"
	"heart-predict/internal/dto/request"
	"heart-predict/internal/dto/response"
	"heart-predict/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubPredictionService struct {
	calls   int
	userID  int64
	err     error
	deleted int64
}

func (s *stubPredictionService) CreatePrediction(_ context.Context, userID int64, req *request.HealthMetricsRequest) (*response.PredictionResponse, error) {
	s.calls++
	s.userID = userID
	if s.err != nil {
		return nil, s.err
	}
	p, err := entity.NewPrediction(userID, req.ToMetrics(), 0.75, 0.5, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	p.ID = 1
	resp := response.PredictionToResponse(p)
	return &resp, nil
}

func (s *stubPredictionService) GetPrediction(_ context.Context, userID, predictionID int64) (*response.PredictionResponse, error) {
	if predictionID != 1 {
		return nil, errors.New("prediction 2 not found")
	}
	return &response.PredictionResponse{ID: predictionID, UserID: userID}, nil
}

func (s *stubPredictionService) GetUserPredictions(_ context.Context, userID int64, req *request.PaginatedRequest) (*response.PaginatedResponse[response.PredictionResponse], error) {
	items := []response.PredictionResponse{{ID: 1, UserID: userID}}
	return response.NewPaginatedResponse(items, req.Page, req.Limit(), 1), nil
}

func (s *stubPredictionService) DeletePrediction(_ context.Context, _, predictionID int64) error {
	s.deleted = predictionID
	return s.err
}

const validBody = `{"age":45,"sex":1,"cp":3,"trestbps":120,"chol":210,"fbs":0,"restecg":0,"thalach":145,"exang":0,"oldpeak":1.5,"slope":2}`

func newPredictionRouter(svc *stubPredictionService) http.Handler {
	h := NewPredictionHandler(svc, zap.NewNop())

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("X-Test-User") != "" {
				r = r.WithContext(utils.SetUserContext(r.Context(), 7, "user"))
			}
			next.ServeHTTP(w, r)
		})
	})
	r.Post("/api/predictions", h.CreatePrediction)
	r.Get("/api/predictions", h.GetUserPredictions)
	r.Get("/api/predictions/{id}", h.GetPrediction)
	r.Delete("/api/predictions/{id}", h.DeletePrediction)
	return r
}

func do(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, utils.Response) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Test-User", "7")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp utils.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestCreatePrediction_Created(t *testing.T) {
	svc := &stubPredictionService{}
	rec, resp := do(t, newPredictionRouter(svc), http.MethodPost, "/api/predictions", validBody)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, resp.Status)
	assert.Equal(t, int64(7), svc.userID)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "POSITIVE", data["prediction"])
	assert.Equal(t, 0.75, data["probability"])
	assert.Equal(t, float64(45), data["age"])
	assert.NotEmpty(t, data["created_at"])
}

func TestCreatePrediction_ValidationReportsAllFields(t *testing.T) {
	svc := &stubPredictionService{}
	body := `{"age":15,"sex":1,"cp":3,"trestbps":310,"chol":210,"fbs":0,"restecg":0,"thalach":145,"exang":0,"oldpeak":1.5,"slope":2}`

	rec, resp := do(t, newPredictionRouter(svc), http.MethodPost, "/api/predictions", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, resp.Status)
	errs, ok := resp.Errors.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Should be between 18 and 100", errs["age"])
	assert.Equal(t, "Should be between 50 and 300", errs["trestbps"])
	assert.Zero(t, svc.calls)
}

func TestCreatePrediction_BadBodies(t *testing.T) {
	tests := map[string]string{
		"malformed":     `{"age":`,
		"unknown field": `{"age":45,"ca":1}`,
		"fractional":    `{"age":45.5}`,
		"string value":  `{"age":"45"}`,
		"trailing data": validBody + `garbage`,
		"two objects":   validBody + validBody,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			svc := &stubPredictionService{}
			rec, _ := do(t, newPredictionRouter(svc), http.MethodPost, "/api/predictions", body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Zero(t, svc.calls)
		})
	}
}

func TestCreatePrediction_ServiceErrors(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{errors.New("model unavailable"), http.StatusServiceUnavailable},
		{errors.New("inference failed"), http.StatusInternalServerError},
		{errors.New("failed to store prediction"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec, _ := do(t, newPredictionRouter(&stubPredictionService{err: tt.err}), http.MethodPost, "/api/predictions", validBody)
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestCreatePrediction_RequiresUser(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/predictions", strings.NewReader(validBody))
	rec := httptest.NewRecorder()

	newPredictionRouter(&stubPredictionService{}).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetPrediction(t *testing.T) {
	router := newPredictionRouter(&stubPredictionService{})

	rec, _ := do(t, router, http.MethodGet, "/api/predictions/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, router, http.MethodGet, "/api/predictions/2", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(t, router, http.MethodGet, "/api/predictions/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetUserPredictions(t *testing.T) {
	rec, resp := do(t, newPredictionRouter(&stubPredictionService{}), http.MethodGet, "/api/predictions?page=1&per_page=5", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	pagination, ok := data["pagination"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(5), pagination["per_page"])
}

func TestDeletePrediction(t *testing.T) {
	svc := &stubPredictionService{}
	rec, _ := do(t, newPredictionRouter(svc), http.MethodDelete, "/api/predictions/1", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), svc.deleted)

	svc.err = errors.New("prediction 1 not found")
	rec, _ = do(t, newPredictionRouter(svc), http.MethodDelete, "/api/predictions/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
