package ports

import (
	"context"

	"github.com/viewtube/account-service/internal/core/domain"
)

// RegisterInput carries validated-at-the-edge registration fields. Avatar
// and CoverImage are media URLs already persisted by the upload layer.
type RegisterInput struct {
	Username   string
	Email      string
	FullName   string
	Password   string
	Avatar     string
	CoverImage string
}

// LoginInput requires at least one of Username or Email.
type LoginInput struct {
	Username string
	Email    string
	Password string
}

// AuthResult is the outcome of a successful login or refresh.
type AuthResult struct {
	User         *domain.User
	AccessToken  string
	RefreshToken string
}

// AuthService orchestrates the session lifecycle: registration, login,
// logout, token refresh and password change.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, in LoginInput) (*AuthResult, error)
	// Logout clears the stored refresh token; the caller identity comes from
	// the verified access token.
	Logout(ctx context.Context, userID string) error
	// Refresh exchanges a refresh token for a new access/refresh pair. Any
	// verification failure is reported as domain.ErrInvalidCredentials.
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
	CurrentUser(ctx context.Context, userID string) (*domain.User, error)
}

// UpdateAccountInput is a partial profile update; nil fields are skipped.
type UpdateAccountInput struct {
	Username *string
	Email    *string
	FullName *string
}

// ProfileService covers profile mutation and the aggregation reads.
type ProfileService interface {
	UpdateAccount(ctx context.Context, userID string, in UpdateAccountInput) (*domain.User, error)
	// UpdateAvatar swaps the avatar URL and schedules removal of the
	// replaced object.
	UpdateAvatar(ctx context.Context, userID, avatarURL string) (*domain.User, error)
	UpdateCoverImage(ctx context.Context, userID, coverURL string) (*domain.User, error)
	ChannelProfile(ctx context.Context, username, viewerID string) (*domain.ChannelProfile, error)
	WatchHistory(ctx context.Context, userID string) ([]domain.WatchVideo, error)
}
