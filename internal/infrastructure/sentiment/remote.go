package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"MediaMonitor/internal/ports"
)

// RemoteScorer delegates scoring to an external inference service, for
// deployments that want a heavier model than the built-in lexicon. The
// service must return a compound polarity in [-1, 1].
type RemoteScorer struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

var _ ports.SentimentScorer = (*RemoteScorer)(nil)

// NewRemoteScorer creates a reusable HTTP client against the inference URL.
func NewRemoteScorer(endpoint, apiKey string) *RemoteScorer {
	return &RemoteScorer{
		endpoint: endpoint,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: 15 * time.Second},
	}
}

// Score posts the text and reads back the compound polarity.
func (c *RemoteScorer) Score(ctx context.Context, text string) (float64, error) {
	payload := map[string]any{"text": text}

	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %s", resp.Status)
	}

	var out struct {
		Compound float64 `json:"compound"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}

	if out.Compound < -1 || out.Compound > 1 {
		return 0, fmt.Errorf("compound score %v out of range", out.Compound)
	}
	return out.Compound, nil
}
