package predictor

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// RemoteModel calls a model server speaking the TensorFlow Serving REST
// predict API: {"instances": [[...]]} -> {"predictions": [[p]]}.
type RemoteModel struct {
	client *resty.Client
	url    string
}

type predictRequest struct {
	Instances [][]float64 `json:"instances"`
}

type predictResponse struct {
	Predictions [][]float64 `json:"predictions"`
}

type predictError struct {
	Error string `json:"error"`
}

func NewRemoteModel(url string, timeout time.Duration) *RemoteModel {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &RemoteModel{client: client, url: url}
}

func (m *RemoteModel) Predict(ctx context.Context, features []float64) (float64, error) {
	var out predictResponse
	var apiErr predictError

	resp, err := m.client.R().
		SetContext(ctx).
		SetBody(predictRequest{Instances: [][]float64{features}}).
		SetResult(&out).
		SetError(&apiErr).
		Post(m.url)
	if err != nil {
		return 0, fmt.Errorf("call model server: %w", err)
	}
	if resp.IsError() {
		return 0, fmt.Errorf("model server returned %d: %s", resp.StatusCode(), apiErr.Error)
	}

	if len(out.Predictions) != 1 || len(out.Predictions[0]) == 0 {
		return 0, fmt.Errorf("model server returned %d predictions", len(out.Predictions))
	}

	// Single sigmoid output, or a two-class softmax whose last column is the positive class.
	row := out.Predictions[0]
	return row[len(row)-1], nil
}
