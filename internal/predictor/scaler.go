package predictor

import (
	"encoding/json"
	"fmt"
	"os"
)

// Scaler standardizes raw features: (x - mean) / scale, column by column.
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// LoadScaler reads scaler parameters exported as JSON.
func LoadScaler(path string) (*Scaler, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scaler %s: %w", path, err)
	}

	var s Scaler
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode scaler %s: %w", path, err)
	}
	if err := s.check(); err != nil {
		return nil, fmt.Errorf("scaler %s: %w", path, err)
	}

	return &s, nil
}

func (s *Scaler) check() error {
	if len(s.Mean) == 0 || len(s.Mean) != len(s.Scale) {
		return fmt.Errorf("mean has %d columns, scale has %d", len(s.Mean), len(s.Scale))
	}
	for i, v := range s.Scale {
		if v == 0 {
			return fmt.Errorf("scale of column %d is zero", i)
		}
	}
	return nil
}

func (s *Scaler) Transform(features []float64) ([]float64, error) {
	if len(features) != len(s.Mean) {
		return nil, fmt.Errorf("scaler expects %d features, got %d", len(s.Mean), len(features))
	}

	out := make([]float64, len(features))
	for i, x := range features {
		out[i] = (x - s.Mean[i]) / s.Scale[i]
	}
	return out, nil
}
