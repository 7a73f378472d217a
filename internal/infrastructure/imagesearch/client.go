package imagesearch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/recoai/backend/internal/domain"
	"github.com/recoai/backend/internal/logging"
	"github.com/recoai/backend/internal/metrics"
)

const (
	DefaultUnsplashBaseURL = "https://api.unsplash.com"
	DefaultPexelsBaseURL   = "https://api.pexels.com"
)

// Config holds image provider credentials and endpoints
type Config struct {
	UnsplashKey     string
	UnsplashBaseURL string
	PexelsKey       string
	PexelsBaseURL   string
	Timeout         time.Duration
	// RequestsPerSecond caps outgoing searches across providers; 0 means 10
	RequestsPerSecond float64
}

// Client looks up product images on Unsplash with Pexels as a fallback
type Client struct {
	httpClient      *http.Client
	unsplashKey     string
	unsplashBaseURL string
	pexelsKey       string
	pexelsBaseURL   string
	rateLimiter     *rate.Limiter
}

type unsplashSearchResponse struct {
	Results []struct {
		URLs struct {
			Small string `json:"small"`
		} `json:"urls"`
	} `json:"results"`
}

type pexelsSearchResponse struct {
	Photos []struct {
		Src struct {
			Medium string `json:"medium"`
		} `json:"src"`
	} `json:"photos"`
}

// NewClient creates a new image search client
func NewClient(cfg Config) *Client {
	unsplashBaseURL := strings.TrimRight(cfg.UnsplashBaseURL, "/")
	if unsplashBaseURL == "" {
		unsplashBaseURL = DefaultUnsplashBaseURL
	}
	pexelsBaseURL := strings.TrimRight(cfg.PexelsBaseURL, "/")
	if pexelsBaseURL == "" {
		pexelsBaseURL = DefaultPexelsBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 10
	}

	return &Client{
		httpClient:      &http.Client{Timeout: timeout},
		unsplashKey:     cfg.UnsplashKey,
		unsplashBaseURL: unsplashBaseURL,
		pexelsKey:       cfg.PexelsKey,
		pexelsBaseURL:   pexelsBaseURL,
		rateLimiter:     rate.NewLimiter(rate.Limit(rps), 32),
	}
}

// FindImage returns an image URL for productName. It walks the Unsplash
// queries from BuildQueries, then tries Pexels when a key is configured.
// Provider errors are logged and skipped; domain.ErrImageNotFound is returned
// when nothing matched.
func (c *Client) FindImage(ctx context.Context, productName string) (string, error) {
	if strings.TrimSpace(productName) == "" {
		return "", domain.ErrImageNotFound
	}

	category := DetectCategory(productName)

	for _, q := range BuildQueries(productName, category) {
		imageURL, err := c.searchUnsplash(ctx, q)
		if err != nil {
			metrics.ExternalCallFailures.WithLabelValues("unsplash").Inc()
			logging.Ctx(ctx).Debug().Err(err).Str("query", q).Msg("unsplash search failed")
			continue
		}
		if imageURL != "" {
			return imageURL, nil
		}
	}

	if c.pexelsKey != "" {
		imageURL, err := c.searchPexels(ctx, productName+" "+category)
		if err != nil {
			metrics.ExternalCallFailures.WithLabelValues("pexels").Inc()
			logging.Ctx(ctx).Debug().Err(err).Str("product", productName).Msg("pexels search failed")
		} else if imageURL != "" {
			return imageURL, nil
		}
	}

	return "", domain.ErrImageNotFound
}

func (c *Client) searchUnsplash(ctx context.Context, query string) (string, error) {
	params := url.Values{}
	params.Add("query", query)
	params.Add("per_page", "1")
	params.Add("orientation", "landscape")

	var resp unsplashSearchResponse
	err := c.getJSON(ctx, fmt.Sprintf("%s/search/photos?%s", c.unsplashBaseURL, params.Encode()), "Client-ID "+c.unsplashKey, &resp)
	if err != nil {
		return "", err
	}
	if len(resp.Results) == 0 {
		return "", nil
	}
	return resp.Results[0].URLs.Small, nil
}

func (c *Client) searchPexels(ctx context.Context, query string) (string, error) {
	params := url.Values{}
	params.Add("query", query)
	params.Add("per_page", "1")

	var resp pexelsSearchResponse
	err := c.getJSON(ctx, fmt.Sprintf("%s/v1/search?%s", c.pexelsBaseURL, params.Encode()), c.pexelsKey, &resp)
	if err != nil {
		return "", err
	}
	if len(resp.Photos) == 0 {
		return "", nil
	}
	return resp.Photos[0].Src.Medium, nil
}

// getJSON executes a GET with the given Authorization header and decodes the body into out
func (c *Client) getJSON(ctx context.Context, reqURL, authorization string, out interface{}) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", authorization)
	req.Header.Set("Accept-Version", "v1")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
