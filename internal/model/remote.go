package model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// RemoteClassifier obtains class probabilities from an external model-serving endpoint.
// Requests are rate limited and bounded by the client timeout.
type RemoteClassifier struct {
	url     string        // base address of the model service
	client  *http.Client  // HTTP client with request timeout
	limiter *rate.Limiter // outbound request budget
}

type remoteRequest struct {
	Features [][]float64 `json:"features"`
}

type remoteResponse struct {
	Probabilities [][]float64 `json:"probabilities"`
}

// PredictProba posts the vector to {url}/predict_proba as {"features": [[...]]} and
// expects {"probabilities": [[...]]} back.
//
// Network errors, non-200 statuses and malformed bodies are returned as errors.
func (rc *RemoteClassifier) PredictProba(ctx context.Context, features []float64) ([]float64, error) {
	if err := rc.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	requestBody, err := json.Marshal(remoteRequest{Features: [][]float64{features}})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rc.url+"/predict_proba", bytes.NewReader(requestBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := rc.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("model service response error code=%d status=%s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var result remoteResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, err
	}
	if len(result.Probabilities) == 0 {
		return nil, fmt.Errorf("model service returned no probabilities")
	}

	return result.Probabilities[0], nil
}

// NewRemoteClassifier creates a client for the model service at url.
// A non-positive ratePerSecond disables rate limiting.
func NewRemoteClassifier(url string, timeout time.Duration, ratePerSecond float64, burst int) *RemoteClassifier {
	limit := rate.Inf
	if ratePerSecond > 0 {
		limit = rate.Limit(ratePerSecond)
	}
	if burst < 1 {
		burst = 1
	}

	return &RemoteClassifier{
		url:     strings.TrimRight(url, "/"),
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(limit, burst),
	}
}
