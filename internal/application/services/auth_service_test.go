package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ntandostore/core/internal/domain/entities"
	"github.com/ntandostore/core/internal/infrastructure/config"
	"github.com/ntandostore/core/internal/infrastructure/logger"
	"github.com/ntandostore/core/internal/ports"
)

var testJWTConfig = config.JWTConfig{
	Secret:    "test-secret",
	ExpiresIn: time.Hour,
	Issuer:    "ntandostore-test",
}

func newTestAuth(t *testing.T) *AuthService {
	t.Helper()
	svc, err := NewAuthService(config.AdminConfig{Username: "admin", Password: "hunter2"}, testJWTConfig, logger.NewNop())
	if err != nil {
		t.Fatalf("new auth service: %v", err)
	}
	return svc
}

func TestLoginIssuesValidToken(t *testing.T) {
	svc := newTestAuth(t)

	resp, err := svc.Login(context.Background(), ports.LoginRequest{Username: "admin", Password: "hunter2"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.User.Role != "admin" || resp.User.Username != "admin" {
		t.Fatalf("unexpected user %+v", resp.User)
	}

	claims, err := svc.ValidateToken(resp.Token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.Username != "admin" {
		t.Fatalf("expected admin claims, got %+v", claims)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newTestAuth(t)

	tests := []struct {
		name string
		req  ports.LoginRequest
	}{
		{name: "wrong password", req: ports.LoginRequest{Username: "admin", Password: "nope"}},
		{name: "wrong username", req: ports.LoginRequest{Username: "root", Password: "hunter2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tt.req)
			if !errors.Is(err, entities.ErrInvalidCredentials) {
				t.Fatalf("expected invalid credentials, got %v", err)
			}
		})
	}
}

func TestValidateTokenRejectsExpiredAndForeignTokens(t *testing.T) {
	svc := newTestAuth(t)

	resp, err := svc.Login(context.Background(), ports.LoginRequest{Username: "admin", Password: "hunter2"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := svc.ValidateToken(resp.Token); !errors.Is(err, entities.ErrUnauthorized) {
		t.Fatalf("expected expired token to be rejected, got %v", err)
	}

	other, err := NewAuthService(config.AdminConfig{Username: "admin", Password: "hunter2"}, config.JWTConfig{Secret: "other", ExpiresIn: time.Hour}, logger.NewNop())
	if err != nil {
		t.Fatalf("new auth service: %v", err)
	}
	foreign, err := other.Login(context.Background(), ports.LoginRequest{Username: "admin", Password: "hunter2"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	svc.now = time.Now
	if _, err := svc.ValidateToken(foreign.Token); !errors.Is(err, entities.ErrUnauthorized) {
		t.Fatalf("expected token signed with another secret to be rejected, got %v", err)
	}
}

func TestNewAuthServiceAcceptsPrecomputedHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	svc, err := NewAuthService(config.AdminConfig{Username: "owner", PasswordHash: string(hash)}, testJWTConfig, logger.NewNop())
	if err != nil {
		t.Fatalf("new auth service: %v", err)
	}
	if _, err := svc.Login(context.Background(), ports.LoginRequest{Username: "owner", Password: "s3cret"}); err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, err := NewAuthService(config.AdminConfig{Username: "owner", PasswordHash: "plain"}, testJWTConfig, logger.NewNop()); err == nil {
		t.Fatal("expected malformed hash to be rejected")
	}
	if _, err := NewAuthService(config.AdminConfig{Username: "owner"}, testJWTConfig, logger.NewNop()); err == nil {
		t.Fatal("expected missing credentials to be rejected")
	}
}
