package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Mongo      MongoConfig
	Perplexity PerplexityConfig
	Images     ImagesConfig
	Auth       AuthConfig
	Cache      CacheConfig
	RateLimit  RateLimitConfig
	Log        LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Environment     string        `mapstructure:"environment"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// MongoConfig holds document store configuration
type MongoConfig struct {
	URI            string        `mapstructure:"uri"`
	Database       string        `mapstructure:"database"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	WaitTimeout    time.Duration `mapstructure:"wait_timeout"`
}

// PerplexityConfig holds AI completion API configuration
type PerplexityConfig struct {
	APIKey          string        `mapstructure:"api_key"`
	BaseURL         string        `mapstructure:"base_url"`
	ReasoningModel  string        `mapstructure:"reasoning_model"`
	ExtractionModel string        `mapstructure:"extraction_model"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

// ImagesConfig holds image search configuration
type ImagesConfig struct {
	UnsplashKey     string `mapstructure:"unsplash_key"`
	UnsplashBaseURL string `mapstructure:"unsplash_base_url"`
	PexelsKey       string `mapstructure:"pexels_key"`
	PexelsBaseURL   string `mapstructure:"pexels_base_url"`
	FallbackURL     string `mapstructure:"fallback_url"`
}

// AuthConfig holds token settings
type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type         string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL     string        `mapstructure:"redis_url"`
	HybridTTL    time.Duration `mapstructure:"hybrid_ttl"`
	AIOnlyTTL    time.Duration `mapstructure:"ai_only_ttl"`
	ReasoningTTL time.Duration `mapstructure:"reasoning_ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP      int `mapstructure:"per_ip"`     // requests per minute per client IP
	Perplexity int `mapstructure:"perplexity"` // requests per minute to the AI API
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// Load loads configuration from a .env file, environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/recoai/")

	// RECO_MONGO_URI -> mongo.uri
	v.SetEnvPrefix("RECO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults also register every key so AutomaticEnv can bind it on Unmarshal
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads ./.env when present. Variables already set in the
// environment are left untouched.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(".env")
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "5000")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173", "http://localhost:3000"})
	v.SetDefault("server.shutdown_timeout", "10s")

	// Mongo defaults
	v.SetDefault("mongo.uri", "")
	v.SetDefault("mongo.database", "recoai")
	v.SetDefault("mongo.connect_timeout", "10s")
	v.SetDefault("mongo.wait_timeout", "5s")

	// Perplexity defaults
	v.SetDefault("perplexity.api_key", "")
	v.SetDefault("perplexity.base_url", "https://api.perplexity.ai")
	v.SetDefault("perplexity.reasoning_model", "sonar")
	v.SetDefault("perplexity.extraction_model", "sonar-pro")
	v.SetDefault("perplexity.timeout", "30s")

	// Image search defaults
	v.SetDefault("images.unsplash_key", "")
	v.SetDefault("images.unsplash_base_url", "https://api.unsplash.com")
	v.SetDefault("images.pexels_key", "")
	v.SetDefault("images.pexels_base_url", "https://api.pexels.com")
	v.SetDefault("images.fallback_url", "https://cdn-icons-png.flaticon.com/512/4712/4712109.png")

	// Auth defaults
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", "168h") // 7 days

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.hybrid_ttl", "30m")
	v.SetDefault("cache.ai_only_ttl", "1h")
	v.SetDefault("cache.reasoning_ttl", "1h")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
	v.SetDefault("ratelimit.perplexity", 60)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required (set RECO_AUTH_JWT_SECRET)")
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	if config.Log.Format != "" && config.Log.Format != "json" && config.Log.Format != "console" {
		return fmt.Errorf("log format must be 'json' or 'console', got: %s", config.Log.Format)
	}

	return nil
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
