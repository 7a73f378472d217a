package imagesearch

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recoai/backend/internal/domain"
)

// fakeProviders serves both the Unsplash and Pexels search endpoints
type fakeProviders struct {
	mu             sync.Mutex
	unsplashHits   map[string]string // query -> image url
	unsplashStatus int
	pexelsURL      string
	queries        []string
	pexelsCalled   bool
	authHeaders    []string
}

func (f *fakeProviders) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.authHeaders = append(f.authHeaders, r.Header.Get("Authorization"))

		switch r.URL.Path {
		case "/search/photos":
			q := r.URL.Query().Get("query")
			f.queries = append(f.queries, q)
			assert.Equal(t, "1", r.URL.Query().Get("per_page"))
			if f.unsplashStatus != 0 {
				w.WriteHeader(f.unsplashStatus)
				return
			}
			if u, ok := f.unsplashHits[q]; ok {
				_, _ = io.WriteString(w, `{"results":[{"urls":{"small":"`+u+`"}}]}`)
				return
			}
			_, _ = io.WriteString(w, `{"results":[]}`)
		case "/v1/search":
			f.pexelsCalled = true
			if f.pexelsURL == "" {
				_, _ = io.WriteString(w, `{"photos":[]}`)
				return
			}
			_, _ = io.WriteString(w, `{"photos":[{"src":{"medium":"`+f.pexelsURL+`"}}]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func newTestImageClient(serverURL, pexelsKey string) *Client {
	return NewClient(Config{
		UnsplashKey:       "unsplash-key",
		UnsplashBaseURL:   serverURL,
		PexelsKey:         pexelsKey,
		PexelsBaseURL:     serverURL,
		RequestsPerSecond: 1000,
	})
}

func TestFindImage(t *testing.T) {
	ctx := context.Background()

	t.Run("first unsplash query hit wins", func(t *testing.T) {
		f := &fakeProviders{unsplashHits: map[string]string{"Apple smartwatch": "https://img/apple.jpg"}}
		server := httptest.NewServer(f.handler(t))
		defer server.Close()

		got, err := newTestImageClient(server.URL, "").FindImage(ctx, "Apple Watch Series 9")
		require.NoError(t, err)
		assert.Equal(t, "https://img/apple.jpg", got)
		assert.Equal(t, []string{"Apple smartwatch"}, f.queries)
		assert.Equal(t, "Client-ID unsplash-key", f.authHeaders[0])
	})

	t.Run("falls through to category query", func(t *testing.T) {
		f := &fakeProviders{unsplashHits: map[string]string{"earbuds": "https://img/earbuds.jpg"}}
		server := httptest.NewServer(f.handler(t))
		defer server.Close()

		got, err := newTestImageClient(server.URL, "").FindImage(ctx, "Samsung Galaxy Buds2 Pro")
		require.NoError(t, err)
		assert.Equal(t, "https://img/earbuds.jpg", got)
		assert.Equal(t, []string{"Samsung earbuds", "Samsung Galaxy Buds2 Pro earbuds", "earbuds"}, f.queries)
	})

	t.Run("pexels fallback when configured", func(t *testing.T) {
		f := &fakeProviders{unsplashStatus: http.StatusForbidden, pexelsURL: "https://img/pexels.jpg"}
		server := httptest.NewServer(f.handler(t))
		defer server.Close()

		got, err := newTestImageClient(server.URL, "pexels-key").FindImage(ctx, "Kindle Paperwhite")
		require.NoError(t, err)
		assert.Equal(t, "https://img/pexels.jpg", got)
		assert.Contains(t, f.authHeaders, "pexels-key")
	})

	t.Run("pexels skipped without key", func(t *testing.T) {
		f := &fakeProviders{pexelsURL: "https://img/pexels.jpg"}
		server := httptest.NewServer(f.handler(t))
		defer server.Close()

		_, err := newTestImageClient(server.URL, "").FindImage(ctx, "Kindle Paperwhite")
		assert.ErrorIs(t, err, domain.ErrImageNotFound)
		assert.False(t, f.pexelsCalled)
	})

	t.Run("blank name", func(t *testing.T) {
		_, err := NewClient(Config{}).FindImage(ctx, "   ")
		assert.ErrorIs(t, err, domain.ErrImageNotFound)
	})
}
