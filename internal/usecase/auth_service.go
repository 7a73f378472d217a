package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/recoai/backend/internal/domain"
	"github.com/recoai/backend/internal/logging"
)

// AuthService registers users, logs them in and resolves bearer tokens
type AuthService struct {
	users      domain.UserRepository
	tokens     domain.TokenManager
	bcryptCost int
}

// NewAuthService creates an auth service. A zero cost uses bcrypt.DefaultCost.
func NewAuthService(users domain.UserRepository, tokens domain.TokenManager, bcryptCost int) *AuthService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{users: users, tokens: tokens, bcryptCost: bcryptCost}
}

// Register creates an account with a hashed password
func (s *AuthService) Register(ctx context.Context, req *domain.RegisterRequest) error {
	if req == nil {
		return fmt.Errorf("%w: all fields are required", domain.ErrInvalidRequest)
	}
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	if name == "" || email == "" || req.Password == "" {
		return fmt.Errorf("%w: all fields are required", domain.ErrInvalidRequest)
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	if existing != nil {
		return domain.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{Name: name, Email: email, PasswordHash: string(hash)}
	if err := s.users.Create(ctx, user); err != nil {
		return err
	}

	logging.Ctx(ctx).Info().Str("user_id", user.ID).Msg("user registered")
	return nil
}

// Login checks credentials and issues a token
func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	if req == nil || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrInvalidRequest)
	}

	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, err
	}

	return &domain.LoginResponse{
		Token: token,
		User:  domain.PublicUser{ID: user.ID, Name: user.Name, Email: user.Email},
	}, nil
}

// Authenticate resolves a bearer token to the calling user.
// Bad tokens yield ErrUnauthorized, deleted users ErrNotFound.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.Identity, error) {
	if token == "" {
		return nil, domain.ErrUnauthorized
	}

	userID, err := s.tokens.Validate(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &domain.Identity{UserID: user.ID, Email: user.Email}, nil
}
