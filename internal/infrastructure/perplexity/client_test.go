package perplexity

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recoai/backend/internal/domain"
)

func completionBody(content string) string {
	b, _ := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})
	return string(b)
}

func newTestClient(serverURL string) *Client {
	return NewClient(Config{
		APIKey:            "test-key",
		BaseURL:           serverURL,
		RequestsPerMinute: 6000,
	})
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(Config{APIKey: "k"})
	assert.Equal(t, DefaultBaseURL, c.baseURL)
	assert.Equal(t, DefaultReasoningModel, c.reasoningModel)
	assert.Equal(t, DefaultExtractionModel, c.extractionModel)
	assert.NotNil(t, c.rateLimiter)
	assert.NotNil(t, c.breaker)
}

func TestExtractNames(t *testing.T) {
	t.Run("sends extraction request and parses names", func(t *testing.T) {
		var got chatRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/chat/completions", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

			body, _ := io.ReadAll(r.Body)
			require.NoError(t, json.Unmarshal(body, &got))

			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, completionBody("```json\n[\"Sony WH-1000XM5\", \"JBL Tune 760NC\"]\n```"))
		}))
		defer server.Close()

		names := newTestClient(server.URL).ExtractNames(context.Background(), "noise cancelling headphones", []string{"Sony WH-1000XM4"})

		assert.Equal(t, []string{"Sony WH-1000XM5", "JBL Tune 760NC"}, names)
		assert.Equal(t, DefaultExtractionModel, got.Model)
		assert.Equal(t, 0.3, got.Temperature)
		assert.Equal(t, 400, got.MaxTokens)
		require.Len(t, got.Messages, 2)
		assert.Contains(t, got.Messages[1].Content, "noise cancelling headphones")
		assert.Contains(t, got.Messages[1].Content, `["Sony WH-1000XM4"]`)
	})

	t.Run("server error yields empty slice", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"error":"bad key"}`)
		}))
		defer server.Close()

		names := newTestClient(server.URL).ExtractNames(context.Background(), "laptops", nil)
		assert.NotNil(t, names)
		assert.Empty(t, names)
	})

	t.Run("malformed body yields empty slice", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, "not json")
		}))
		defer server.Close()

		assert.Empty(t, newTestClient(server.URL).ExtractNames(context.Background(), "laptops", nil))
	})

	t.Run("unreachable server yields empty slice", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := server.URL
		server.Close()

		assert.Empty(t, newTestClient(url).ExtractNames(context.Background(), "laptops", nil))
	})
}

func TestBuildExtractionPrompt_BoundsGrounding(t *testing.T) {
	names := make([]string, 40)
	for i := range names {
		names[i] = "item"
	}
	prompt := buildExtractionPrompt("q", names)

	assert.Equal(t, maxGroundingNames, strings.Count(prompt, `"item"`))
	assert.Contains(t, buildExtractionPrompt("q", nil), "[]")
}

func TestExplain(t *testing.T) {
	t.Run("returns trimmed reasoning text", func(t *testing.T) {
		var got chatRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(body, &got)
			_, _ = io.WriteString(w, completionBody("  1. Pixel 9 - great camera  \n"))
		}))
		defer server.Close()

		text, err := newTestClient(server.URL).Explain(context.Background(), "best phone camera")
		require.NoError(t, err)
		assert.Equal(t, "1. Pixel 9 - great camera", text)
		assert.Equal(t, DefaultReasoningModel, got.Model)
		assert.Equal(t, 500, got.MaxTokens)
	})

	t.Run("empty completion is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, completionBody("   "))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).Explain(context.Background(), "x")
		assert.ErrorIs(t, err, domain.ErrAIUnavailable)
	})

	t.Run("no choices is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"choices":[]}`)
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).Explain(context.Background(), "x")
		assert.ErrorIs(t, err, domain.ErrAIUnavailable)
	})
}

func TestCircuitBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	for i := 0; i < 8; i++ {
		_, err := c.Explain(context.Background(), "x")
		assert.ErrorIs(t, err, domain.ErrAIUnavailable)
	}

	// the breaker trips after 5 failures; later calls never reach the server
	assert.Equal(t, int32(5), atomic.LoadInt32(&calls))
}
