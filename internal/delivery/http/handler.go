package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/recoai/backend/internal/domain"
	"github.com/recoai/backend/internal/logging"
)

// RecommendationUsecase generates recommendations and serves history
type RecommendationUsecase interface {
	Recommend(ctx context.Context, userID string, req *domain.RecommendRequest) (*domain.RecommendationResponse, error)
	History(ctx context.Context, userID string) ([]domain.RecommendationRecord, error)
	GetRecord(ctx context.Context, id, userID string) (*domain.NormalizedRecord, error)
}

// AuthUsecase registers users, logs them in and resolves tokens
type AuthUsecase interface {
	Register(ctx context.Context, req *domain.RegisterRequest) error
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error)
	Authenticate(ctx context.Context, token string) (*domain.Identity, error)
}

// ProductUsecase manages the catalog
type ProductUsecase interface {
	List(ctx context.Context) ([]domain.Product, error)
	Create(ctx context.Context, req *domain.CreateProductRequest) (*domain.Product, error)
}

// DatabaseConnector is the lazily connecting document store handle
type DatabaseConnector interface {
	Connect(ctx context.Context) error
	HasURI() bool
	Status() string
}

// Services bundles the handler dependencies
type Services struct {
	Recommendations RecommendationUsecase
	Auth            AuthUsecase
	Products        ProductUsecase
	Database        DatabaseConnector
	HasJWTSecret    bool
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	recommendations RecommendationUsecase
	auth            AuthUsecase
	products        ProductUsecase
	db              DatabaseConnector
	hasJWTSecret    bool
	now             func() time.Time
}

// NewHandler creates a new HTTP handler
func NewHandler(s Services) *Handler {
	return &Handler{
		recommendations: s.Recommendations,
		auth:            s.Auth,
		products:        s.Products,
		db:              s.Database,
		hasJWTSecret:    s.HasJWTSecret,
		now:             time.Now,
	}
}

// Root reports that the API is up
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":   "RecoAI backend is running",
		"database":  h.db.Status(),
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}

// HealthCheck returns the health status of the API; 503 while the database is not connected
func (h *Handler) HealthCheck(c *gin.Context) {
	dbStatus := h.db.Status()

	status, code := "ok", http.StatusOK
	if dbStatus != "connected" {
		status, code = "degraded", http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":       status,
		"database":     dbStatus,
		"hasMongoURI":  h.db.HasURI(),
		"hasJWTSecret": h.hasJWTSecret,
		"timestamp":    h.now().UTC().Format(time.RFC3339),
	})
}

// Register handles account creation
func (h *Handler) Register(c *gin.Context) {
	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "All fields are required"})
		return
	}

	if err := h.auth.Register(c.Request.Context(), &req); err != nil {
		respondError(c, err, "Registration failed",
			errMessage{domain.ErrInvalidRequest, "All fields are required"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User registered"})
}

// Login handles credential checks and token issuance
func (h *Handler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email and password are required"})
		return
	}

	resp, err := h.auth.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Login failed",
			errMessage{domain.ErrInvalidRequest, "Email and password are required"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListProducts returns the catalog
func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.products.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch products")
		return
	}
	c.JSON(http.StatusOK, products)
}

// CreateProduct adds a catalog entry
func (h *Handler) CreateProduct(c *gin.Context) {
	var req domain.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid product", "error": err.Error()})
		return
	}

	product, err := h.products.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to create product",
			errMessage{domain.ErrInvalidRequest, "Invalid product"})
		return
	}
	c.JSON(http.StatusCreated, product)
}

// Recommend handles recommendation generation
func (h *Handler) Recommend(c *gin.Context) {
	var req domain.RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing query"})
		return
	}

	resp, err := h.recommendations.Recommend(c.Request.Context(), userIDFrom(c), &req)
	if err != nil {
		respondError(c, err, "Recommendation failed",
			errMessage{domain.ErrInvalidRequest, "Missing query"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// History returns the caller's recent recommendations
func (h *Handler) History(c *gin.Context) {
	history, err := h.recommendations.History(c.Request.Context(), userIDFrom(c))
	if err != nil {
		respondError(c, err, "Failed to fetch history")
		return
	}
	if history == nil {
		history = []domain.RecommendationRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}

// GetRecommendation returns one normalized record of the caller
func (h *Handler) GetRecommendation(c *gin.Context) {
	rec, err := h.recommendations.GetRecord(c.Request.Context(), c.Param("id"), userIDFrom(c))
	if err != nil {
		respondError(c, err, "Failed to load recommendation",
			errMessage{domain.ErrInvalidRequest, "Invalid recommendation ID"},
			errMessage{domain.ErrNotFound, "Recommendation not found"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

// NotFound is the fallback for unknown routes
func (h *Handler) NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"message": "Route not found"})
}

type errMessage struct {
	target  error
	message string
}

// respondError maps domain errors to status codes. Overrides replace the
// default client message for specific errors; unmapped errors are 500s
// carrying failMsg and the underlying error text.
func respondError(c *gin.Context, err error, failMsg string, overrides ...errMessage) {
	status, message := statusFor(err)

	for _, o := range overrides {
		if errors.Is(err, o.target) {
			message = o.message
			break
		}
	}

	switch status {
	case http.StatusInternalServerError:
		logging.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.FullPath()).Msg(failMsg)
		c.JSON(status, gin.H{"message": failMsg, "error": err.Error()})
	case http.StatusServiceUnavailable:
		c.JSON(status, gin.H{"message": message, "error": err.Error()})
	default:
		c.JSON(status, gin.H{"message": message})
	}
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest, "Invalid request"
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusBadRequest, "Email already registered"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, "Too many requests"
	case errors.Is(err, domain.ErrDatabaseUnavailable):
		return http.StatusServiceUnavailable, "Database unavailable"
	default:
		return http.StatusInternalServerError, ""
	}
}
