package request

import "heart-predict/internal/data/entity"

// HealthMetricsRequest is the raw prediction input. Fields are pointers so a
// missing value is told apart from a legitimate zero.
type HealthMetricsRequest struct {
	Age      *int     `json:"age" validate:"required,min=0,max=120,plausible=18-100"`
	Sex      *int     `json:"sex" validate:"required,min=0,max=1"`
	CP       *int     `json:"cp" validate:"required,min=0,max=4"`
	Trestbps *int     `json:"trestbps" validate:"required,min=0,plausible=50-300"`
	Chol     *int     `json:"chol" validate:"required,min=0,plausible=50-700"`
	FBS      *int     `json:"fbs" validate:"required,min=0,max=1"`
	RestECG  *int     `json:"restecg" validate:"required,min=0,max=2"`
	Thalach  *int     `json:"thalach" validate:"required,min=0,plausible=50-300"`
	Exang    *int     `json:"exang" validate:"required,min=0,max=1"`
	Oldpeak  *float64 `json:"oldpeak" validate:"required,min=0"`
	Slope    *int     `json:"slope" validate:"required,min=0,max=3"`
}

// ToMetrics converts a request that already passed validation.
func (r *HealthMetricsRequest) ToMetrics() entity.HealthMetrics {
	return entity.HealthMetrics{
		Age:      *r.Age,
		Sex:      *r.Sex,
		CP:       *r.CP,
		Trestbps: *r.Trestbps,
		Chol:     *r.Chol,
		FBS:      *r.FBS,
		RestECG:  *r.RestECG,
		Thalach:  *r.Thalach,
		Exang:    *r.Exang,
		Oldpeak:  *r.Oldpeak,
		Slope:    *r.Slope,
	}
}
