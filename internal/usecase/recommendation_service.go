package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/recoai/backend/internal/domain"
	"github.com/recoai/backend/internal/logging"
	"github.com/recoai/backend/internal/metrics"
)

const (
	recommendKeyPrefix = "recommend:"
	reasoningKeyPrefix = "ai:"

	// DefaultFallbackImage is used when no image provider has a hit
	DefaultFallbackImage = "https://cdn-icons-png.flaticon.com/512/4712/4712109.png"

	reasoningUnavailable = "AI reasoning unavailable right now."
	aiTextOutputName     = "AI Text Output"

	aiPlaceholderPrice       = "—"
	aiPlaceholderCategory    = "AI Suggested"
	aiPlaceholderDescription = "AI-suggested product (not in DB)"
)

// RecommendationServiceConfig holds tuning for the recommendation pipeline
type RecommendationServiceConfig struct {
	HybridTTL     time.Duration
	AIOnlyTTL     time.Duration
	ReasoningTTL  time.Duration
	FallbackImage string

	// MatchThreshold is the exclusive lower bound a catalog item's best score must exceed
	MatchThreshold float64
	// MinMatches triggers fallback fill when fewer items matched
	MinMatches int
	// MaxCatalogResults caps catalog entries in the response and the fallback fill target
	MaxCatalogResults int
	MaxAISuggestions  int
	HistoryLimit      int
}

func (c RecommendationServiceConfig) withDefaults() RecommendationServiceConfig {
	if c.HybridTTL <= 0 {
		c.HybridTTL = 30 * time.Minute
	}
	if c.AIOnlyTTL <= 0 {
		c.AIOnlyTTL = time.Hour
	}
	if c.ReasoningTTL <= 0 {
		c.ReasoningTTL = time.Hour
	}
	if c.FallbackImage == "" {
		c.FallbackImage = DefaultFallbackImage
	}
	if c.MatchThreshold <= 0 {
		c.MatchThreshold = 0.4
	}
	if c.MinMatches <= 0 {
		c.MinMatches = 3
	}
	if c.MaxCatalogResults <= 0 {
		c.MaxCatalogResults = 5
	}
	if c.MaxAISuggestions <= 0 {
		c.MaxAISuggestions = 3
	}
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = 20
	}
	return c
}

// RecommendationService produces hybrid and ai-only recommendations and
// serves the caller's history.
type RecommendationService struct {
	cache     domain.CacheRepository
	products  domain.ProductRepository
	history   domain.HistoryRepository
	extractor domain.NameExtractor
	reasoning domain.ReasoningClient
	images    domain.ImageFinder
	cfg       RecommendationServiceConfig
	now       func() time.Time
}

// NewRecommendationService creates a recommendation service with dependencies
func NewRecommendationService(
	cache domain.CacheRepository,
	products domain.ProductRepository,
	history domain.HistoryRepository,
	extractor domain.NameExtractor,
	reasoning domain.ReasoningClient,
	images domain.ImageFinder,
	cfg RecommendationServiceConfig,
) *RecommendationService {
	return &RecommendationService{
		cache:     cache,
		products:  products,
		history:   history,
		extractor: extractor,
		reasoning: reasoning,
		images:    images,
		cfg:       cfg.withDefaults(),
		now:       time.Now,
	}
}

// Recommend runs the pipeline for userID.
// Flow: validate -> cache check -> (hybrid | ai-only) -> cache -> persist.
// A cache hit returns without any side effect.
func (s *RecommendationService) Recommend(
	ctx context.Context,
	userID string,
	req *domain.RecommendRequest,
) (*domain.RecommendationResponse, error) {
	if req == nil || strings.TrimSpace(req.Query) == "" {
		return nil, fmt.Errorf("%w: missing query", domain.ErrInvalidRequest)
	}
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}

	mode := req.Mode
	if mode == "" {
		mode = domain.ModeHybrid
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: unknown mode %q", domain.ErrInvalidRequest, mode)
	}

	query := strings.TrimSpace(req.Query)
	log := logging.Ctx(ctx).With().Str("mode", string(mode)).Str("query", query).Logger()

	cacheKey := recommendKeyPrefix + string(mode) + ":" + query
	if cached, ok := s.cachedResponse(ctx, cacheKey); ok {
		metrics.RecommendationsTotal.WithLabelValues(string(mode), "cache_hit").Inc()
		log.Debug().Msg("recommendation served from cache")
		return cached, nil
	}

	start := s.now()
	var (
		resp *domain.RecommendationResponse
		err  error
	)
	switch mode {
	case domain.ModeAIOnly:
		resp, err = s.recommendAIOnly(ctx, userID, query, cacheKey)
	default:
		resp, err = s.recommendHybrid(ctx, userID, query, cacheKey)
	}
	metrics.RecommendationDuration.WithLabelValues(string(mode)).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.RecommendationsTotal.WithLabelValues(string(mode), "error").Inc()
		log.Error().Err(err).Msg("recommendation failed")
		return nil, err
	}

	metrics.RecommendationsTotal.WithLabelValues(string(mode), "generated").Inc()
	log.Info().Int("results", len(resp.Recommendations)).Msg("recommendation generated")
	return resp, nil
}

func (s *RecommendationService) recommendAIOnly(ctx context.Context, userID, query, cacheKey string) (*domain.RecommendationResponse, error) {
	text := s.reasoningText(ctx, query)

	resp := &domain.RecommendationResponse{
		Type:            domain.ModeAIOnly,
		Recommendations: []domain.Recommendation{{Explanation: text}},
	}
	s.store(ctx, cacheKey, resp, s.cfg.AIOnlyTTL)

	err := s.persist(ctx, userID, query, []domain.ResultEntry{{Name: aiTextOutputName, Description: text}})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// reasoningText returns cached or fresh AI text for prompt. Failures yield a
// fixed message which is not cached.
func (s *RecommendationService) reasoningText(ctx context.Context, prompt string) string {
	key := reasoningKeyPrefix + prompt
	if value, err := s.cache.Get(ctx, key); err == nil {
		var text string
		if decodeCached(value, &text) == nil && text != "" {
			metrics.CacheLookups.WithLabelValues(reasoningKeyPrefix, "hit").Inc()
			return text
		}
	}
	metrics.CacheLookups.WithLabelValues(reasoningKeyPrefix, "miss").Inc()

	text, err := s.reasoning.Explain(ctx, prompt)
	if err != nil || text == "" {
		logging.Ctx(ctx).Warn().Err(err).Msg("AI reasoning failed")
		return reasoningUnavailable
	}

	s.store(ctx, key, text, s.cfg.ReasoningTTL)
	return text
}

type scoredItem struct {
	item  domain.CatalogItem
	score float64
}

func (s *RecommendationService) recommendHybrid(ctx context.Context, userID, query, cacheKey string) (*domain.RecommendationResponse, error) {
	var (
		catalog []domain.CatalogItem
		aiNames []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := s.products.ListCatalog(gctx)
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		catalog = items
		return nil
	})
	g.Go(func() error {
		aiNames = s.extractor.ExtractNames(gctx, query, nil)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	matched := s.matchCatalog(catalog, aiNames)

	recs := make([]domain.Recommendation, 0, len(matched)+s.cfg.MaxAISuggestions)
	for _, it := range matched {
		recs = append(recs, domain.Recommendation{
			ID:       it.ID,
			Name:     it.Name,
			Price:    domain.NumericPrice(it.Price),
			Category: it.Category,
			Origin:   domain.OriginCatalog,
		})
	}
	recs = append(recs, s.aiPlaceholders(aiNames, matched)...)

	s.enrichImages(ctx, recs)

	resp := &domain.RecommendationResponse{Type: domain.ModeHybrid, Recommendations: recs}
	s.store(ctx, cacheKey, resp, s.cfg.HybridTTL)

	results := make([]domain.ResultEntry, 0, len(recs))
	for _, r := range recs {
		results = append(results, domain.ResultEntry{Name: r.Name, Price: r.Price, Category: r.Category})
	}
	if err := s.persist(ctx, userID, query, results); err != nil {
		return nil, err
	}
	return resp, nil
}

// matchCatalog accepts items scoring above the threshold against any AI name,
// tops the list up with the best-scoring remaining items when it is short,
// and caps it at MaxCatalogResults.
func (s *RecommendationService) matchCatalog(catalog []domain.CatalogItem, aiNames []string) []domain.CatalogItem {
	aiTokens := make([][]string, 0, len(aiNames))
	for _, name := range aiNames {
		aiTokens = append(aiTokens, Tokenize(name))
	}

	scored := make([]scoredItem, 0, len(catalog))
	for _, it := range catalog {
		scored = append(scored, scoredItem{item: it, score: MaxScore(Tokenize(it.Name), aiTokens)})
	}

	var matched []domain.CatalogItem
	included := make(map[int]bool)
	for i, sc := range scored {
		if sc.score > s.cfg.MatchThreshold {
			matched = append(matched, sc.item)
			included[i] = true
		}
	}

	if len(matched) < s.cfg.MinMatches {
		order := make([]int, len(scored))
		for i := range order {
			order[i] = i
		}
		// ties keep catalog order
		sort.SliceStable(order, func(a, b int) bool {
			return scored[order[a]].score > scored[order[b]].score
		})
		for _, i := range order {
			if len(matched) >= s.cfg.MaxCatalogResults {
				break
			}
			if !included[i] {
				matched = append(matched, scored[i].item)
				included[i] = true
			}
		}
	}

	if len(matched) > s.cfg.MaxCatalogResults {
		matched = matched[:s.cfg.MaxCatalogResults]
	}
	return matched
}

// aiPlaceholders turns AI names not already present in the catalog results
// (case-insensitive) into placeholder entries.
func (s *RecommendationService) aiPlaceholders(aiNames []string, included []domain.CatalogItem) []domain.Recommendation {
	seen := make(map[string]bool, len(included))
	for _, it := range included {
		seen[strings.ToLower(it.Name)] = true
	}

	var out []domain.Recommendation
	for _, name := range aiNames {
		if len(out) >= s.cfg.MaxAISuggestions {
			break
		}
		if seen[strings.ToLower(name)] {
			continue
		}
		out = append(out, domain.Recommendation{
			ID:          fmt.Sprintf("ai-%d", len(out)),
			Name:        name,
			Price:       domain.LabelPrice(aiPlaceholderPrice),
			Category:    aiPlaceholderCategory,
			Description: aiPlaceholderDescription,
			Origin:      domain.OriginAISuggested,
		})
	}
	return out
}

// enrichImages resolves every image concurrently; each failure falls back
// independently and never fails the request.
func (s *RecommendationService) enrichImages(ctx context.Context, recs []domain.Recommendation) {
	var g errgroup.Group
	for i := range recs {
		i := i
		g.Go(func() error {
			url, err := s.images.FindImage(ctx, recs[i].Name)
			if err != nil || url == "" {
				url = s.cfg.FallbackImage
			}
			recs[i].Image = url
			return nil
		})
	}
	_ = g.Wait()
}

func (s *RecommendationService) persist(ctx context.Context, userID, query string, results []domain.ResultEntry) error {
	record := &domain.RecommendationRecord{
		UserID:    userID,
		Query:     query,
		Results:   results,
		CreatedAt: s.now().UTC(),
	}
	if err := s.history.Create(ctx, record); err != nil {
		return fmt.Errorf("save recommendation: %w", err)
	}
	return nil
}

// History returns the caller's most recent records, newest first
func (s *RecommendationService) History(ctx context.Context, userID string) ([]domain.RecommendationRecord, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	return s.history.FindByUser(ctx, userID, s.cfg.HistoryLimit)
}

// GetRecord returns one of the caller's records in normalized form
func (s *RecommendationService) GetRecord(ctx context.Context, id, userID string) (*domain.NormalizedRecord, error) {
	if id == "" || id == "undefined" {
		return nil, fmt.Errorf("%w: invalid recommendation id", domain.ErrInvalidRequest)
	}
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}

	rec, err := s.history.FindByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	normalized := NormalizeRecord(rec)
	return &normalized, nil
}

func (s *RecommendationService) cachedResponse(ctx context.Context, key string) (*domain.RecommendationResponse, bool) {
	value, err := s.cache.Get(ctx, key)
	if err != nil {
		metrics.CacheLookups.WithLabelValues(recommendKeyPrefix, "miss").Inc()
		return nil, false
	}

	var resp domain.RecommendationResponse
	if err := decodeCached(value, &resp); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("discarding undecodable cache entry")
		metrics.CacheLookups.WithLabelValues(recommendKeyPrefix, "miss").Inc()
		return nil, false
	}
	metrics.CacheLookups.WithLabelValues(recommendKeyPrefix, "hit").Inc()
	return &resp, true
}

// store caches value; a cache failure is logged, not returned
func (s *RecommendationService) store(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if err := s.cache.Set(ctx, key, value, ttl); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

// decodeCached copies a cached value into out. The in-memory cache hands back
// the stored value itself, redis hands back raw JSON.
func decodeCached(value interface{}, out interface{}) error {
	switch v := value.(type) {
	case *domain.RecommendationResponse:
		if dst, ok := out.(*domain.RecommendationResponse); ok {
			*dst = *v
			return nil
		}
	case string:
		if dst, ok := out.(*string); ok {
			*dst = v
			return nil
		}
	case json.RawMessage:
		return json.Unmarshal(v, out)
	case []byte:
		return json.Unmarshal(v, out)
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
