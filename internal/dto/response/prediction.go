package response

import (
	"time"

	"heart-predict/internal/data/entity"
)

type PredictionResponse struct {
	ID     int64 `json:"id"`
	UserID int64 `json:"user_id"`

	Age      int     `json:"age"`
	Sex      int     `json:"sex"`
	CP       int     `json:"cp"`
	Trestbps int     `json:"trestbps"`
	Chol     int     `json:"chol"`
	FBS      int     `json:"fbs"`
	RestECG  int     `json:"restecg"`
	Thalach  int     `json:"thalach"`
	Exang    int     `json:"exang"`
	Oldpeak  float64 `json:"oldpeak"`
	Slope    int     `json:"slope"`

	Probability float64                `json:"probability"`
	Prediction  entity.PredictionLabel `json:"prediction"`
	CreatedAt   time.Time              `json:"created_at"`
}

func PredictionToResponse(p *entity.Prediction) PredictionResponse {
	return PredictionResponse{
		ID:          p.ID,
		UserID:      p.UserID,
		Age:         p.Age,
		Sex:         p.Sex,
		CP:          p.CP,
		Trestbps:    p.Trestbps,
		Chol:        p.Chol,
		FBS:         p.FBS,
		RestECG:     p.RestECG,
		Thalach:     p.Thalach,
		Exang:       p.Exang,
		Oldpeak:     p.Oldpeak,
		Slope:       p.Slope,
		Probability: p.Probability,
		Prediction:  p.Label,
		CreatedAt:   p.CreatedAt,
	}
}
