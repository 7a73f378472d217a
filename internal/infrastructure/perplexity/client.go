package perplexity

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/recoai/backend/internal/domain"
	"github.com/recoai/backend/internal/logging"
	"github.com/recoai/backend/internal/metrics"
)

const (
	DefaultBaseURL         = "https://api.perplexity.ai"
	DefaultReasoningModel  = "sonar"
	DefaultExtractionModel = "sonar-pro"

	breakerName = "perplexity-api"
)

// Config holds Perplexity client settings
type Config struct {
	APIKey          string
	BaseURL         string
	ReasoningModel  string
	ExtractionModel string
	Timeout         time.Duration
	// RequestsPerMinute caps outgoing completions; 0 means 60
	RequestsPerMinute int
}

// Client talks to the Perplexity chat completions API
type Client struct {
	httpClient      *http.Client
	apiKey          string
	baseURL         string
	reasoningModel  string
	extractionModel string
	rateLimiter     *rate.Limiter
	breaker         *gobreaker.CircuitBreaker[string]
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// NewClient creates a new Perplexity API client
func NewClient(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	reasoningModel := cfg.ReasoningModel
	if reasoningModel == "" {
		reasoningModel = DefaultReasoningModel
	}
	extractionModel := cfg.ExtractionModel
	if extractionModel == "" {
		extractionModel = DefaultExtractionModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 60
	}

	return &Client{
		httpClient:      &http.Client{Timeout: timeout},
		apiKey:          cfg.APIKey,
		baseURL:         baseURL,
		reasoningModel:  reasoningModel,
		extractionModel: extractionModel,
		rateLimiter:     rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 10),
		breaker:         newBreaker(),
	}
}

// newBreaker opens after 5 consecutive failures and probes again after 30s
func newBreaker() *gobreaker.CircuitBreaker[string] {
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	return gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// complete sends one chat completion and returns the trimmed message content
func (c *Client) complete(ctx context.Context, req chatRequest) (string, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
	}

	content, err := c.breaker.Execute(func() (string, error) {
		return c.doRequest(ctx, req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", fmt.Errorf("%w: %v", domain.ErrAIUnavailable, err)
		}
		return "", err
	}
	return content, nil
}

// doRequest executes the HTTP POST with proper headers and error handling
func (c *Client) doRequest(ctx context.Context, payload chatRequest) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrAIUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", domain.ErrAIUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d, body: %s", domain.ErrAIUnavailable, resp.StatusCode, truncate(string(respBody), 200))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", domain.ErrAIUnavailable, err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: response has no choices", domain.ErrAIUnavailable)
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

// Explain asks the reasoning model for free-form recommendations for prompt
func (c *Client) Explain(ctx context.Context, prompt string) (string, error) {
	text, err := c.complete(ctx, chatRequest{
		Model: c.reasoningModel,
		Messages: []chatMessage{
			{
				Role:    "system",
				Content: "You are a professional product analyst. Provide structured, human-friendly recommendations with concise reasoning and optional tables if relevant.",
			},
			{
				Role:    "user",
				Content: fmt.Sprintf("Recommend the best products for: %q. Give 5 structured results with name, price, and reasoning.", prompt),
			},
		},
		Temperature: 0.4,
		MaxTokens:   500,
	})
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", fmt.Errorf("%w: empty completion", domain.ErrAIUnavailable)
	}

	logging.Debug().Str("preview", truncate(text, 150)).Msg("AI reasoning received")
	return text, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
