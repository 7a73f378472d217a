package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/recoai/backend/internal/domain"
)

// MockCacheRepository is a mock implementation of domain.CacheRepository
type MockCacheRepository struct {
	mu       sync.Mutex
	data     map[string]interface{}
	ttls     map[string]time.Duration
	getError error
	setError error
	setCalls int
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{
		data: make(map[string]interface{}),
		ttls: make(map[string]time.Duration),
	}
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) (interface{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getError != nil {
		return nil, m.getError
	}
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCalls++
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok, nil
}

// MockProductRepository is a mock implementation of domain.ProductRepository
type MockProductRepository struct {
	catalog   []domain.CatalogItem
	products  []domain.Product
	listError error
	created   []*domain.Product
	calls     int
}

func (m *MockProductRepository) ListCatalog(ctx context.Context) ([]domain.CatalogItem, error) {
	m.calls++
	if m.listError != nil {
		return nil, m.listError
	}
	return m.catalog, nil
}

func (m *MockProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	return m.products, nil
}

func (m *MockProductRepository) Create(ctx context.Context, p *domain.Product) error {
	p.ID = "prod-1"
	m.created = append(m.created, p)
	return nil
}

// MockHistoryRepository is a mock implementation of domain.HistoryRepository
type MockHistoryRepository struct {
	records     []*domain.RecommendationRecord
	createError error
	byID        *domain.RecommendationRecord
	findError   error
	lastLimit   int
}

func (m *MockHistoryRepository) Create(ctx context.Context, rec *domain.RecommendationRecord) error {
	if m.createError != nil {
		return m.createError
	}
	m.records = append(m.records, rec)
	return nil
}

func (m *MockHistoryRepository) FindByUser(ctx context.Context, userID string, limit int) ([]domain.RecommendationRecord, error) {
	m.lastLimit = limit
	var out []domain.RecommendationRecord
	for _, r := range m.records {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *MockHistoryRepository) FindByID(ctx context.Context, id, userID string) (*domain.RecommendationRecord, error) {
	if m.findError != nil {
		return nil, m.findError
	}
	if m.byID == nil {
		return nil, domain.ErrNotFound
	}
	return m.byID, nil
}

// MockExtractor is a mock implementation of domain.NameExtractor
type MockExtractor struct {
	names []string
	calls int
}

func (m *MockExtractor) ExtractNames(ctx context.Context, query string, knownNames []string) []string {
	m.calls++
	return m.names
}

// MockReasoningClient is a mock implementation of domain.ReasoningClient
type MockReasoningClient struct {
	text  string
	err   error
	calls int
}

func (m *MockReasoningClient) Explain(ctx context.Context, prompt string) (string, error) {
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	return m.text, nil
}

// MockImageFinder is a mock implementation of domain.ImageFinder.
// Names listed in failFor return an error.
type MockImageFinder struct {
	mu      sync.Mutex
	failFor map[string]bool
	calls   int
}

func (m *MockImageFinder) FindImage(ctx context.Context, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.failFor[name] {
		return "", domain.ErrImageNotFound
	}
	return "https://img.example/" + name, nil
}

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	byEmail map[string]*domain.User
	byID    map[string]*domain.User
	findErr error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		byEmail: make(map[string]*domain.User),
		byID:    make(map[string]*domain.User),
	}
}

func (m *MockUserRepository) Create(ctx context.Context, u *domain.User) error {
	if _, ok := m.byEmail[u.Email]; ok {
		return domain.ErrEmailTaken
	}
	u.ID = "user-" + u.Email
	m.byEmail[u.Email] = u
	m.byID[u.ID] = u
	return nil
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	if u, ok := m.byEmail[email]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := m.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

// MockTokenManager issues "token:<id>" strings
type MockTokenManager struct{}

func (MockTokenManager) Generate(userID string) (string, error) {
	return "token:" + userID, nil
}

func (MockTokenManager) Validate(token string) (string, error) {
	const prefix = "token:"
	if len(token) <= len(prefix) || token[:len(prefix)] != prefix {
		return "", domain.ErrUnauthorized
	}
	return token[len(prefix):], nil
}
