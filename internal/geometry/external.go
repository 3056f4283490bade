package geometry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// ExternalResult is a higher-confidence {volume, dimensions} result supplied
// by a professional conversion/analysis service. It is accepted as-is by the
// pipeline, ahead of every local estimation tier.
type ExternalResult struct {
	VolumeCm3 float64 `json:"volume_cm3"`
	LengthMm  float64 `json:"length_mm"`
	WidthMm   float64 `json:"width_mm"`
	HeightMm  float64 `json:"height_mm"`
	Tier      Tier    `json:"accuracy_tier,omitempty"`
}

// ExternalAnalyzer is the optional high-accuracy collaborator. Any error it
// returns is absorbed: the pipeline logs it and runs its own cascade.
type ExternalAnalyzer interface {
	Analyze(ctx context.Context, filename string, data []byte) (*ExternalResult, error)
}

// HTTPAnalyzer calls an external analysis service over HTTP.
type HTTPAnalyzer struct {
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

// NewHTTPAnalyzer returns an analyzer posting files to baseURL/analyze.
func NewHTTPAnalyzer(baseURL string, log *zap.Logger) *HTTPAnalyzer {
	if log == nil {
		log = zap.NewNop()
	}
	return &HTTPAnalyzer{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
		log:     log,
	}
}

// Analyze posts the raw file and decodes the service's estimate. Every
// transport or protocol failure is wrapped in ErrExternalUnavailable.
func (a *HTTPAnalyzer) Analyze(ctx context.Context, filename string, data []byte) (*ExternalResult, error) {
	endpoint := a.baseURL + "/analyze?filename=" + url.QueryEscape(filename)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("build analyze request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call external analyzer: %w: %v", ErrExternalUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("external analyzer returned %d: %w", resp.StatusCode, ErrExternalUnavailable)
	}

	var result ExternalResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode external analyzer response: %w: %v", ErrExternalUnavailable, err)
	}
	if result.VolumeCm3 <= 0 || result.LengthMm <= 0 || result.WidthMm <= 0 || result.HeightMm <= 0 {
		return nil, fmt.Errorf("external analyzer returned non-positive geometry: %w", ErrExternalUnavailable)
	}

	a.log.Debug("external analysis accepted",
		zap.String("filename", filename),
		zap.Float64("volume_cm3", result.VolumeCm3))
	return &result, nil
}
