package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/citybeat-nyc/headline-harvester/internal/domain"
	"github.com/citybeat-nyc/headline-harvester/internal/logger"
)

const (
	sentimentMaxRetries     = 3
	sentimentInitialBackoff = 500 * time.Millisecond
)

// SentimentService scores text against a hosted three-class sentiment model
// over HTTP. The service returns the transformers-pipeline shape: one entry
// per class with a label and a probability.
type SentimentService struct {
	endpoint string
	model    string
	client   *http.Client
	log      logger.Logger
}

// NewSentimentService builds the HTTP sentiment client. A non-positive
// timeout defaults to 30s.
func NewSentimentService(endpoint, model string, timeout time.Duration, log logger.Logger) *SentimentService {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &SentimentService{
		endpoint: endpoint,
		model:    model,
		client:   &http.Client{Timeout: timeout},
		log:      log,
	}
}

type sentimentRequest struct {
	Text  string `json:"text"`
	Model string `json:"model"`
}

type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Score returns the per-class probabilities for text.
func (s *SentimentService) Score(ctx context.Context, text string) (domain.SentimentScores, error) {
	payload, err := json.Marshal(sentimentRequest{Text: text, Model: s.model})
	if err != nil {
		return domain.SentimentScores{}, fmt.Errorf("marshal sentiment request: %w", err)
	}

	body, err := s.postWithRetry(ctx, payload)
	if err != nil {
		return domain.SentimentScores{}, err
	}

	var entries []labelScore
	if err := json.Unmarshal(body, &entries); err != nil {
		return domain.SentimentScores{}, fmt.Errorf("decode sentiment response: %w", err)
	}

	var scores domain.SentimentScores
	for _, e := range entries {
		switch strings.ToLower(e.Label) {
		case "negative":
			scores.Negative = e.Score
		case "neutral":
			scores.Neutral = e.Score
		case "positive":
			scores.Positive = e.Score
		}
	}
	return scores, nil
}

// postWithRetry retries on transport errors and 5xx responses with doubling
// backoff. Client errors are returned immediately.
func (s *SentimentService) postWithRetry(ctx context.Context, payload []byte) ([]byte, error) {
	backoff := sentimentInitialBackoff
	var lastErr error

	for attempt := 1; attempt <= sentimentMaxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("build sentiment request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.client.Do(req)
		if err == nil && resp.StatusCode < 500 {
			defer resp.Body.Close()
			body, readErr := io.ReadAll(resp.Body)
			if readErr != nil {
				return nil, fmt.Errorf("read sentiment response: %w", readErr)
			}
			if resp.StatusCode != http.StatusOK {
				return nil, fmt.Errorf("sentiment service returned status %d body: %s",
					resp.StatusCode, snippet(string(body)))
			}
			return body, nil
		}

		if resp != nil {
			resp.Body.Close()
			lastErr = fmt.Errorf("sentiment service returned status %d", resp.StatusCode)
		} else {
			lastErr = err
		}

		s.log.WarnObj("sentiment request failed, will retry", "sentiment_retry", map[string]any{
			"attempt": attempt,
			"error":   lastErr.Error(),
		})

		if attempt == sentimentMaxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	return nil, fmt.Errorf("sentiment request failed after %d attempts: %w", sentimentMaxRetries, lastErr)
}
