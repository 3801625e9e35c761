package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/satisfyhq/satisfy/internal/config"
)

// ErrUnreachable marks transport-level failures: connection refused, DNS,
// timeout. The pipeline surfaces these distinctly from non-2xx replies.
var ErrUnreachable = errors.New("generation service unreachable")

// StatusError is returned when the generation service answers with a
// non-success status.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("generation service returned status %d", e.StatusCode)
}

// TextGenerator is the single call the recommendation pipeline makes against
// the outside world. Implemented by OllamaClient; stubbed in tests.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Model() string
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Format  string          `json:"format"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type generateResponse struct {
	Response string `json:"response"`
}

type OllamaClient struct {
	baseURL    string
	model      string
	opts       generateOptions
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewOllamaClient(cfg *config.AIConfig, logger *logrus.Logger) *OllamaClient {
	return &OllamaClient{
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		opts: generateOptions{
			Temperature: cfg.Temperature,
			NumPredict:  cfg.NumPredict,
		},
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

func (c *OllamaClient) Model() string {
	return c.model
}

// Generate performs one synchronous, non-streaming completion call. A single
// failed attempt is terminal; no retry.
func (c *OllamaClient) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:   c.model,
		Prompt:  prompt,
		Stream:  false,
		Format:  "json",
		Options: c.opts,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return "", &StatusError{StatusCode: resp.StatusCode}
	}

	var envelope generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return "", fmt.Errorf("failed to decode generate response: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"model":           c.model,
		"response_length": len(envelope.Response),
	}).Debug("Generation call completed")

	return envelope.Response, nil
}
