package ports

import (
	"context"

	"github.com/viewtube/account-service/internal/core/domain"
)

// UpdateUserFields carries a partial user update. Nil pointers leave the
// corresponding field untouched.
type UpdateUserFields struct {
	Username   *string
	Email      *string
	FullName   *string
	Avatar     *string
	CoverImage *string
}

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	// Create inserts a new user. A uniqueness violation on username or
	// email surfaces as domain.ErrUserExists.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByUsernameOrEmail matches on either field; empty arguments are
	// ignored. Used for registration uniqueness checks and login lookup.
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error)
	SetPassword(ctx context.Context, id, passwordHash string) error
	// SetRefreshToken persists the given refresh token on the user record.
	// An empty token clears the stored value.
	SetRefreshToken(ctx context.Context, id, token string) error
	// UpdateFields applies a partial update and returns the updated record.
	UpdateFields(ctx context.Context, id string, fields UpdateUserFields) (*domain.User, error)
}

// ProfileRepository executes the read-only aggregation queries joining the
// users collection against subscriptions and videos.
type ProfileRepository interface {
	// ChannelProfile resolves a channel by normalized username and computes
	// subscription counts plus whether viewerID is among the subscribers.
	ChannelProfile(ctx context.Context, username, viewerID string) (*domain.ChannelProfile, error)
	// WatchHistory returns the caller's watched videos, each enriched with
	// its owner, in the order of the stored watch-history list.
	WatchHistory(ctx context.Context, userID string) ([]domain.WatchVideo, error)
}
