package adaptor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"heart-predict/internal/dto/request"
	"heart-predict/internal/usecase"
	"heart-predict/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxPredictionBody bounds the request body; the input is eleven numbers.
const maxPredictionBody = 4 << 10

type PredictionHandler struct {
	service usecase.PredictionService
	log     *zap.Logger
}

func NewPredictionHandler(service usecase.PredictionService, log *zap.Logger) *PredictionHandler {
	return &PredictionHandler{
		service: service,
		log:     log.With(zap.String("handler", "prediction")),
	}
}

// CreatePrediction handles POST /api/predictions (protected)
func (h *PredictionHandler) CreatePrediction(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.HealthMetricsRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPredictionBody))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", map[string]string{"body": err.Error()})
		return
	}
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		utils.ResponseBadRequest(w, "Invalid request body", map[string]string{"body": "unexpected data after JSON object"})
		return
	}

	// Every failing field is reported here as a map; the service repeats the
	// check for callers that bypass this handler.
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	prediction, err := h.service.CreatePrediction(r.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(w, err, "create prediction")
		return
	}

	utils.ResponseCreated(w, "Prediction created", prediction)
}

// GetUserPredictions handles GET /api/predictions (protected)
func (h *PredictionHandler) GetUserPredictions(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	predictions, err := h.service.GetUserPredictions(r.Context(), userID, req)
	if err != nil {
		h.handleServiceError(w, err, "get user predictions")
		return
	}

	utils.ResponseSuccess(w, "success", predictions)
}

// GetPrediction handles GET /api/predictions/{id} (protected, owner only)
func (h *PredictionHandler) GetPrediction(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	predictionID, ok := utils.ParseID(chi.URLParam(r, "id"))
	if !ok {
		utils.ResponseBadRequest(w, "Invalid prediction ID", nil)
		return
	}

	prediction, err := h.service.GetPrediction(r.Context(), userID, predictionID)
	if err != nil {
		h.handleServiceError(w, err, "get prediction")
		return
	}

	utils.ResponseSuccess(w, "success", prediction)
}

// DeletePrediction handles DELETE /api/predictions/{id} (protected, owner only)
func (h *PredictionHandler) DeletePrediction(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	predictionID, ok := utils.ParseID(chi.URLParam(r, "id"))
	if !ok {
		utils.ResponseBadRequest(w, "Invalid prediction ID", nil)
		return
	}

	if err := h.service.DeletePrediction(r.Context(), userID, predictionID); err != nil {
		h.handleServiceError(w, err, "delete prediction")
		return
	}

	utils.ResponseSuccess(w, "Prediction deleted", nil)
}

func (h *PredictionHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	errMsg := err.Error()

	switch {
	case strings.Contains(errMsg, "not found"):
		h.log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, errMsg)

	case strings.Contains(errMsg, "validation failed"):
		h.log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, errMsg, nil)

	case strings.Contains(errMsg, "model unavailable"):
		h.log.Error(operation+" failed - model unavailable", zap.Error(err))
		utils.ResponseServiceUnavailable(w, "Prediction model is unavailable")

	default:
		h.log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
