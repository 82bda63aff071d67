package ports

import (
	"context"
	"time"
)

// TokenService issues and verifies the signed access/refresh token pair.
type TokenService interface {
	// IssueAccessToken produces a short-lived stateless token carrying the
	// user identity.
	IssueAccessToken(userID, username string) (string, error)
	// IssueRefreshToken produces a long-lived token and persists it on the
	// user record, superseding any previously issued refresh token.
	IssueRefreshToken(ctx context.Context, userID string) (string, error)
	// VerifyRefreshToken checks signature and expiry and returns the encoded
	// user id. Fails with domain.ErrTokenExpired or domain.ErrTokenInvalid.
	// Callers must additionally compare the token against the value stored
	// on the user record.
	VerifyRefreshToken(token string) (string, error)

	AccessTokenTTL() time.Duration
	RefreshTokenTTL() time.Duration
}
