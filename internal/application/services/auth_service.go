package services

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/ntandostore/core/internal/domain/entities"
	"github.com/ntandostore/core/internal/infrastructure/config"
	"github.com/ntandostore/core/internal/infrastructure/logger"
	"github.com/ntandostore/core/internal/ports"
)

const adminRole = "admin"

// Claims represents the JWT claims
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService authenticates the single admin account
type AuthService struct {
	username     string
	passwordHash []byte
	jwtConfig    config.JWTConfig
	now          func() time.Time
	logger       *logger.Logger
}

// NewAuthService creates a new auth service. When only a plaintext password
// is configured it is hashed once here and never kept.
func NewAuthService(adminConfig config.AdminConfig, jwtConfig config.JWTConfig, appLogger *logger.Logger) (*AuthService, error) {
	hash := []byte(adminConfig.PasswordHash)
	if len(hash) == 0 {
		if adminConfig.Password == "" {
			return nil, fmt.Errorf("admin password or password hash is required")
		}
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(adminConfig.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash admin password: %w", err)
		}
	} else if _, err := bcrypt.Cost(hash); err != nil {
		return nil, fmt.Errorf("invalid admin password hash: %w", err)
	}

	return &AuthService{
		username:     adminConfig.Username,
		passwordHash: hash,
		jwtConfig:    jwtConfig,
		now:          time.Now,
		logger:       appLogger.WithComponent("auth"),
	}, nil
}

// HashPassword returns a bcrypt hash suitable for admin.password_hash
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Login checks the admin credential and issues a token
func (s *AuthService) Login(ctx context.Context, req ports.LoginRequest) (*ports.AuthResponse, error) {
	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.username)) == 1
	// The hash is always compared so a wrong username costs the same as a wrong password.
	passErr := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(req.Password))
	if !userOK || passErr != nil {
		s.logger.Warnw("Admin login failed", "username", req.Username)
		return nil, entities.ErrInvalidCredentials
	}

	token, expiresAt, err := s.generateToken()
	if err != nil {
		return nil, err
	}

	s.logger.Infow("Admin logged in", "username", s.username)

	return &ports.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      ports.AdminUser{Username: s.username, Role: adminRole},
	}, nil
}

// ValidateToken validates a JWT token and returns claims
func (s *AuthService) ValidateToken(tokenString string) (*ports.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtConfig.Secret), nil
	}, jwt.WithTimeFunc(s.now))

	if err != nil {
		return nil, fmt.Errorf("%w: invalid token: %v", entities.ErrUnauthorized, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Role != adminRole {
		return nil, fmt.Errorf("%w: invalid token claims", entities.ErrUnauthorized)
	}

	return &ports.Claims{
		Username: claims.Username,
		Role:     claims.Role,
	}, nil
}

func (s *AuthService) generateToken() (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.jwtConfig.ExpiresIn)

	claims := &Claims{
		Username: s.username,
		Role:     adminRole,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.jwtConfig.Issuer,
			Subject:   s.username,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtConfig.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, expiresAt, nil
}
