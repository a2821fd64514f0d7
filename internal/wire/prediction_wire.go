package wire

import (
	"net/http"

	"heart-predict/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wirePrediction(r chi.Router, predictionHandler *adaptor.PredictionHandler, auth func(http.Handler) http.Handler) {
	// All prediction routes are scoped to the authenticated user
	r.Group(func(r chi.Router) {
		r.Use(auth)

		r.Post("/api/predictions", predictionHandler.CreatePrediction)
		r.Get("/api/predictions", predictionHandler.GetUserPredictions)
		r.Get("/api/predictions/{id}", predictionHandler.GetPrediction)
		r.Delete("/api/predictions/{id}", predictionHandler.DeletePrediction)
	})
}
