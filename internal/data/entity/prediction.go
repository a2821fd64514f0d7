package entity

import (
	"fmt"
	"math"
	"time"
)

type PredictionLabel string

const (
	LabelPositive PredictionLabel = "POSITIVE"
	LabelNegative PredictionLabel = "NEGATIVE"
)

// HealthMetrics is a validated set of model input features.
type HealthMetrics struct {
	Age      int     `db:"age"`
	Sex      int     `db:"sex"`
	CP       int     `db:"cp"`
	Trestbps int     `db:"trestbps"`
	Chol     int     `db:"chol"`
	FBS      int     `db:"fbs"`
	RestECG  int     `db:"restecg"`
	Thalach  int     `db:"thalach"`
	Exang    int     `db:"exang"`
	Oldpeak  float64 `db:"oldpeak"`
	Slope    int     `db:"slope"`
}

// FeatureCount is the width of the model input vector.
const FeatureCount = 11

// Features returns the model input vector in training column order.
func (m HealthMetrics) Features() []float64 {
	return []float64{
		float64(m.Age),
		float64(m.Sex),
		float64(m.CP),
		float64(m.Trestbps),
		float64(m.Chol),
		float64(m.FBS),
		float64(m.RestECG),
		float64(m.Thalach),
		float64(m.Exang),
		m.Oldpeak,
		float64(m.Slope),
	}
}

// Prediction is an immutable inference result owned by a user.
type Prediction struct {
	BaseSimple
	UserID int64 `db:"user_id"`
	HealthMetrics
	Probability float64         `db:"probability"`
	Label       PredictionLabel `db:"prediction"`
}

// Label maps a probability to POSITIVE when it exceeds threshold.
func Label(probability, threshold float64) PredictionLabel {
	if probability > threshold {
		return LabelPositive
	}
	return LabelNegative
}

// NewPrediction shapes an inference result. The metrics are copied verbatim.
func NewPrediction(userID int64, metrics HealthMetrics, probability, threshold float64, now time.Time) (*Prediction, error) {
	if math.IsNaN(probability) || probability < 0 || probability > 1 {
		return nil, fmt.Errorf("probability %v out of range [0,1]", probability)
	}

	return &Prediction{
		BaseSimple: BaseSimple{
			CreatedAt: now,
		},
		UserID:        userID,
		HealthMetrics: metrics,
		Probability:   probability,
		Label:         Label(probability, threshold),
	}, nil
}
