package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/viewtube/account-service/internal/core/domain"
	"github.com/viewtube/account-service/internal/core/ports"
)

const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
)

type accessClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type refreshClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenConfig carries the signing secrets and lifetimes for the token pair.
// Access and refresh tokens are signed with separate secrets.
type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// TokenService issues HS256-signed access and refresh tokens. Refresh tokens
// are persisted on the user record so a later issuance supersedes any
// earlier one (single active session per user).
type TokenService struct {
	users ports.UserRepository
	cfg   TokenConfig
}

func NewTokenService(users ports.UserRepository, cfg TokenConfig) *TokenService {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = defaultAccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = defaultRefreshTTL
	}
	return &TokenService{users: users, cfg: cfg}
}

func (s *TokenService) AccessTokenTTL() time.Duration  { return s.cfg.AccessTTL }
func (s *TokenService) RefreshTokenTTL() time.Duration { return s.cfg.RefreshTTL }

// IssueAccessToken produces a short-lived stateless token. Nothing is
// persisted.
func (s *TokenService) IssueAccessToken(userID, username string) (string, error) {
	now := time.Now()
	claims := accessClaims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.AccessSecret))
}

// IssueRefreshToken signs a refresh token and stores it on the user record.
func (s *TokenService) IssueRefreshToken(ctx context.Context, userID string) (string, error) {
	now := time.Now()
	claims := refreshClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.RefreshTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.RefreshSecret))
	if err != nil {
		return "", fmt.Errorf("sign refresh token: %w", err)
	}
	if err := s.users.SetRefreshToken(ctx, userID, token); err != nil {
		return "", fmt.Errorf("persist refresh token: %w", err)
	}
	return token, nil
}

// VerifyRefreshToken decodes the token and checks signature and expiry.
// The stored-token equality check is the caller's responsibility.
func (s *TokenService) VerifyRefreshToken(token string) (string, error) {
	claims := &refreshClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.cfg.RefreshSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", domain.ErrTokenExpired
		}
		return "", domain.ErrTokenInvalid
	}
	if !parsed.Valid || claims.UserID == "" {
		return "", domain.ErrTokenInvalid
	}
	return claims.UserID, nil
}
