package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sampleInput struct {
	Email  string   `json:"email" validate:"required,email"`
	Name   string   `json:"name,omitempty" validate:"min=3"`
	Weight *float64 `json:"weight" validate:"required,plausible=1.5-9"`
	Role   string   `json:"role" validate:"omitempty,oneof=user admin"`
}

func TestValidateStruct_UsesJSONNames(t *testing.T) {
	weight := 12.0
	errs := ValidateStruct(sampleInput{Email: "bad", Name: "ab", Weight: &weight, Role: "root"})

	assert.Equal(t, map[string]string{
		"email":  "Invalid email format",
		"name":   "Minimum length is 3",
		"weight": "Should be between 1.5 and 9",
		"role":   "Must be one of: user, admin",
	}, errs)
}

func TestValidateStruct_Valid(t *testing.T) {
	weight := 1.5
	assert.Nil(t, ValidateStruct(sampleInput{Email: "a@b.co", Name: "abc", Weight: &weight}))
}

func TestFormatValidationErrors_Sorted(t *testing.T) {
	got := FormatValidationErrors(map[string]string{
		"trestbps": "Should be between 50 and 300",
		"age":      "Should be between 18 and 100",
	})
	assert.Equal(t, "age: Should be between 18 and 100; trestbps: Should be between 50 and 300", got)
}
