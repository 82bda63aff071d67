package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/viewtube/account-service/internal/core/domain"
	"github.com/viewtube/account-service/internal/core/ports"
)

// AuthService implements the session lifecycle against the credential store
// and token service.
type AuthService struct {
	users  ports.UserRepository
	tokens ports.TokenService
	log    zerolog.Logger
}

func NewAuthService(users ports.UserRepository, tokens ports.TokenService, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, log: log}
}

// Register validates the input, checks uniqueness, hashes the password and
// persists the new user. The created record is re-fetched to confirm
// persistence before it is returned.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	for _, f := range []struct{ name, value string }{
		{"fullname", in.FullName},
		{"email", in.Email},
		{"username", in.Username},
		{"password", in.Password},
	} {
		if err := domain.ValidateNotEmpty(f.name, f.value); err != nil {
			return nil, err
		}
	}
	if err := domain.ValidateUsername(in.Username); err != nil {
		return nil, err
	}
	if err := domain.ValidateEmail(in.Email); err != nil {
		return nil, err
	}
	if err := domain.ValidatePassword(in.Password); err != nil {
		return nil, err
	}

	username := domain.NormalizeUsername(in.Username)

	existing, err := s.users.FindByUsernameOrEmail(ctx, username, in.Email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("uniqueness check: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrUserExists
	}

	if in.Avatar == "" {
		return nil, domain.NewValidationError("avatar is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Username:     username,
		Email:        in.Email,
		FullName:     in.FullName,
		PasswordHash: string(hash),
		Avatar:       in.Avatar,
		CoverImage:   in.CoverImage,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	// Confirm persistence; a miss here is a post-write invariant failure.
	fetched, err := s.users.FindByID(ctx, created.ID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("created user missing on re-fetch: %w", domain.ErrInternal)
		}
		return nil, err
	}

	s.log.Info().Str("user_id", fetched.ID).Str("username", fetched.Username).Msg("user registered")
	return fetched, nil
}

// Login matches the credentials and issues a fresh token pair. Issuing the
// refresh token persists it, superseding any earlier session.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.AuthResult, error) {
	if in.Username == "" && in.Email == "" {
		return nil, domain.NewValidationError("username or email is required")
	}

	user, err := s.users.FindByUsernameOrEmail(ctx, domain.NormalizeUsername(in.Username), in.Email)
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		s.log.Debug().Str("user_id", user.ID).Msg("password mismatch on login")
		return nil, domain.ErrInvalidCredentials
	}

	access, err := s.tokens.IssueAccessToken(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.tokens.IssueRefreshToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	return &ports.AuthResult{User: user, AccessToken: access, RefreshToken: refresh}, nil
}

// Logout clears the stored refresh token, invalidating the session.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if err := s.users.SetRefreshToken(ctx, userID, ""); err != nil {
		return fmt.Errorf("clear refresh token: %w", err)
	}
	s.log.Info().Str("user_id", userID).Msg("user logged out")
	return nil
}

// Refresh verifies the presented token, confirms it equals the stored one
// and rotates the pair. All failure causes collapse to ErrInvalidCredentials
// so the response does not leak which check failed.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*ports.AuthResult, error) {
	if refreshToken == "" {
		return nil, domain.ErrInvalidCredentials
	}

	userID, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		s.log.Debug().Err(err).Msg("refresh token verification failed")
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	// A cryptographically valid token may have been superseded by a later
	// login or cleared by logout.
	if user.RefreshToken == "" || user.RefreshToken != refreshToken {
		s.log.Debug().Str("user_id", user.ID).Msg("stale refresh token presented")
		return nil, domain.ErrInvalidCredentials
	}

	access, err := s.tokens.IssueAccessToken(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.tokens.IssueRefreshToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &ports.AuthResult{User: user, AccessToken: access, RefreshToken: refresh}, nil
}

// ChangePassword verifies the old password and persists a hash of the new
// one. Other fields are not revalidated and tokens are not rotated.
func (s *AuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if err := domain.ValidatePassword(newPassword); err != nil {
		return err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)) != nil {
		return domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.SetPassword(ctx, userID, string(hash)); err != nil {
		return fmt.Errorf("set password: %w", err)
	}

	s.log.Info().Str("user_id", userID).Msg("password changed")
	return nil
}

// CurrentUser returns the caller's own record.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}
