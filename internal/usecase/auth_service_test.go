package usecase

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/recoai/backend/internal/domain"
)

func newAuthFixture() (*AuthService, *MockUserRepository) {
	users := NewMockUserRepository()
	return NewAuthService(users, MockTokenManager{}, bcrypt.MinCost), users
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("hashes the password", func(t *testing.T) {
		svc, users := newAuthFixture()

		err := svc.Register(ctx, &domain.RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "hunter2"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		u := users.byEmail["ada@example.com"]
		if u == nil {
			t.Fatal("user not stored")
		}
		if u.PasswordHash == "hunter2" {
			t.Error("password stored in clear text")
		}
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("hunter2")) != nil {
			t.Error("stored hash does not match password")
		}
	})

	t.Run("requires all fields", func(t *testing.T) {
		svc, _ := newAuthFixture()
		for _, req := range []*domain.RegisterRequest{
			nil,
			{Email: "a@b.c", Password: "x"},
			{Name: "A", Password: "x"},
			{Name: "A", Email: "a@b.c"},
		} {
			if err := svc.Register(ctx, req); !errors.Is(err, domain.ErrInvalidRequest) {
				t.Errorf("Register(%+v) error = %v, want ErrInvalidRequest", req, err)
			}
		}
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		svc, _ := newAuthFixture()
		req := &domain.RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "x"}
		if err := svc.Register(ctx, req); err != nil {
			t.Fatal(err)
		}
		if err := svc.Register(ctx, req); !errors.Is(err, domain.ErrEmailTaken) {
			t.Errorf("error = %v, want ErrEmailTaken", err)
		}
	})

	t.Run("propagates lookup failures", func(t *testing.T) {
		svc, users := newAuthFixture()
		users.findErr = domain.ErrDatabaseUnavailable
		err := svc.Register(ctx, &domain.RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "x"})
		if !errors.Is(err, domain.ErrDatabaseUnavailable) {
			t.Errorf("error = %v, want ErrDatabaseUnavailable", err)
		}
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthFixture()
	if err := svc.Register(ctx, &domain.RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "hunter2"}); err != nil {
		t.Fatal(err)
	}

	resp, err := svc.Login(ctx, &domain.LoginRequest{Email: "ada@example.com", Password: "hunter2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Token != "token:user-ada@example.com" {
		t.Errorf("Token = %q", resp.Token)
	}
	if resp.User.Name != "Ada" || resp.User.Email != "ada@example.com" || resp.User.ID == "" {
		t.Errorf("User = %+v", resp.User)
	}

	if _, err := svc.Login(ctx, &domain.LoginRequest{Email: "ada@example.com", Password: "wrong"}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v", err)
	}
	if _, err := svc.Login(ctx, &domain.LoginRequest{Email: "bob@example.com", Password: "hunter2"}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("unknown email error = %v", err)
	}
	if _, err := svc.Login(ctx, &domain.LoginRequest{Email: "ada@example.com"}); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("missing password error = %v", err)
	}
}

func TestAuthService_Authenticate(t *testing.T) {
	ctx := context.Background()
	svc, users := newAuthFixture()
	if err := svc.Register(ctx, &domain.RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "x"}); err != nil {
		t.Fatal(err)
	}

	id, err := svc.Authenticate(ctx, "token:user-ada@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.UserID != "user-ada@example.com" || id.Email != "ada@example.com" {
		t.Errorf("Identity = %+v", id)
	}

	if _, err := svc.Authenticate(ctx, ""); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("empty token error = %v", err)
	}
	if _, err := svc.Authenticate(ctx, "garbage"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("bad token error = %v", err)
	}

	delete(users.byID, "user-ada@example.com")
	if _, err := svc.Authenticate(ctx, "token:user-ada@example.com"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("deleted user error = %v, want ErrNotFound", err)
	}
}
