package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/recoai/backend/config"
	httpDelivery "github.com/recoai/backend/internal/delivery/http"
	"github.com/recoai/backend/internal/domain"
	"github.com/recoai/backend/internal/infrastructure/cache"
	"github.com/recoai/backend/internal/infrastructure/imagesearch"
	"github.com/recoai/backend/internal/infrastructure/mongodb"
	"github.com/recoai/backend/internal/infrastructure/perplexity"
	"github.com/recoai/backend/internal/infrastructure/token"
	"github.com/recoai/backend/internal/logging"
	"github.com/recoai/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Str("cache", cfg.Cache.Type).
		Msg("Starting RecoAI backend")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize infrastructure dependencies
	cacheRepo, closeCache, err := newCache(ctx, cfg.Cache)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize cache")
	}
	defer closeCache()

	connector := mongodb.NewConnector(mongodb.Config{
		URI:            cfg.Mongo.URI,
		Database:       cfg.Mongo.Database,
		ConnectTimeout: cfg.Mongo.ConnectTimeout,
		WaitTimeout:    cfg.Mongo.WaitTimeout,
	})
	productRepo := mongodb.NewProductRepository(connector)
	historyRepo := mongodb.NewHistoryRepository(connector)
	userRepo := mongodb.NewUserRepository(connector)

	// A failed first connect is not fatal: DB-backed routes retry on demand
	if connector.HasURI() {
		if err := connector.Connect(ctx); err != nil {
			logging.Warn().Err(err).Msg("Initial MongoDB connection failed; will retry on request")
		} else if err := userRepo.EnsureIndexes(ctx); err != nil {
			logging.Warn().Err(err).Msg("Failed to ensure user indexes")
		}
	} else {
		logging.Warn().Msg("RECO_MONGO_URI not set; database routes will answer 503")
	}

	if cfg.Perplexity.APIKey == "" {
		logging.Warn().Msg("Perplexity API key not configured; AI calls will fail and fall back")
	}
	aiClient := perplexity.NewClient(perplexity.Config{
		APIKey:            cfg.Perplexity.APIKey,
		BaseURL:           cfg.Perplexity.BaseURL,
		ReasoningModel:    cfg.Perplexity.ReasoningModel,
		ExtractionModel:   cfg.Perplexity.ExtractionModel,
		Timeout:           cfg.Perplexity.Timeout,
		RequestsPerMinute: cfg.RateLimit.Perplexity,
	})

	imageClient := imagesearch.NewClient(imagesearch.Config{
		UnsplashKey:     cfg.Images.UnsplashKey,
		UnsplashBaseURL: cfg.Images.UnsplashBaseURL,
		PexelsKey:       cfg.Images.PexelsKey,
		PexelsBaseURL:   cfg.Images.PexelsBaseURL,
	})

	tokens, err := token.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize token manager")
	}

	// Initialize usecase layer
	recommendationService := usecase.NewRecommendationService(
		cacheRepo,
		productRepo,
		historyRepo,
		aiClient,
		aiClient,
		imageClient,
		usecase.RecommendationServiceConfig{
			HybridTTL:     cfg.Cache.HybridTTL,
			AIOnlyTTL:     cfg.Cache.AIOnlyTTL,
			ReasoningTTL:  cfg.Cache.ReasoningTTL,
			FallbackImage: cfg.Images.FallbackURL,
		},
	)
	authService := usecase.NewAuthService(userRepo, tokens, 0)
	productService := usecase.NewProductService(productRepo)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(httpDelivery.Services{
		Recommendations: recommendationService,
		Auth:            authService,
		Products:        productService,
		Database:        connector,
		HasJWTSecret:    cfg.Auth.JWTSecret != "",
	})

	router := httpDelivery.SetupRouter(cfg, handler)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info().Str("addr", srv.Addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	logging.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("Server shutdown failed")
	}
	if err := connector.Disconnect(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("MongoDB disconnect failed")
	}
}

// newCache builds the configured cache backend and its close function
func newCache(ctx context.Context, cfg config.CacheConfig) (domain.CacheRepository, func(), error) {
	if cfg.Type == "redis" {
		redisCache, err := cache.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		logging.Info().Msg("Using Redis cache")
		return redisCache, func() {
			if err := redisCache.Close(); err != nil {
				logging.Warn().Err(err).Msg("Redis close failed")
			}
		}, nil
	}

	logging.Info().Msg("Using in-memory cache")
	return cache.NewMemoryCache(), func() {}, nil
}
