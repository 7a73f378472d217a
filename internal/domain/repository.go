package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// ProductRepository reads and writes the product catalog
type ProductRepository interface {
	ListCatalog(ctx context.Context) ([]CatalogItem, error)
	List(ctx context.Context) ([]Product, error)
	Create(ctx context.Context, product *Product) error
}

// HistoryRepository persists generated recommendations
type HistoryRepository interface {
	Create(ctx context.Context, record *RecommendationRecord) error
	FindByUser(ctx context.Context, userID string, limit int) ([]RecommendationRecord, error)
	FindByID(ctx context.Context, id, userID string) (*RecommendationRecord, error)
}

// UserRepository persists accounts
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
}

// NameExtractor asks the AI service for product names matching a query.
// It never fails: any error yields an empty slice.
type NameExtractor interface {
	ExtractNames(ctx context.Context, query string, knownNames []string) []string
}

// ReasoningClient returns free-form AI recommendation text for a prompt
type ReasoningClient interface {
	Explain(ctx context.Context, prompt string) (string, error)
}

// ImageFinder resolves a product name to an image URL
type ImageFinder interface {
	FindImage(ctx context.Context, productName string) (string, error)
}

// TokenManager issues and validates session tokens
type TokenManager interface {
	Generate(userID string) (string, error)
	Validate(token string) (string, error)
}
