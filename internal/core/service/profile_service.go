package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/viewtube/account-service/internal/core/domain"
	"github.com/viewtube/account-service/internal/core/ports"
)

// MediaCleanup abstracts the background queue that removes replaced media
// objects from storage.
type MediaCleanup interface {
	Enqueue(removal ports.MediaRemoval)
}

// ProfileService covers profile mutation and the aggregation reads.
type ProfileService struct {
	users    ports.UserRepository
	profiles ports.ProfileRepository
	cleanup  MediaCleanup
	log      zerolog.Logger
}

func NewProfileService(users ports.UserRepository, profiles ports.ProfileRepository, cleanup MediaCleanup, log zerolog.Logger) *ProfileService {
	return &ProfileService{users: users, profiles: profiles, cleanup: cleanup, log: log}
}

// UpdateAccount applies a partial update to username/email/fullname after
// validating the fields that are present.
func (s *ProfileService) UpdateAccount(ctx context.Context, userID string, in ports.UpdateAccountInput) (*domain.User, error) {
	fields := ports.UpdateUserFields{FullName: in.FullName}

	if in.Username != nil {
		if err := domain.ValidateUsername(*in.Username); err != nil {
			return nil, err
		}
		normalized := domain.NormalizeUsername(*in.Username)
		fields.Username = &normalized
	}
	if in.Email != nil {
		if err := domain.ValidateEmail(*in.Email); err != nil {
			return nil, err
		}
		fields.Email = in.Email
	}
	if in.FullName != nil {
		if err := domain.ValidateNotEmpty("fullname", *in.FullName); err != nil {
			return nil, err
		}
	}
	if fields.Username == nil && fields.Email == nil && fields.FullName == nil {
		return nil, domain.NewValidationError("no fields to update")
	}

	updated, err := s.users.UpdateFields(ctx, userID, fields)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", userID).Msg("account updated")
	return updated, nil
}

// UpdateAvatar swaps the avatar URL; the replaced object is deleted in the
// background.
func (s *ProfileService) UpdateAvatar(ctx context.Context, userID, avatarURL string) (*domain.User, error) {
	return s.updateMedia(ctx, userID, avatarURL, "avatar")
}

// UpdateCoverImage swaps the cover image URL; the cover is optional, so an
// absent previous value is fine.
func (s *ProfileService) UpdateCoverImage(ctx context.Context, userID, coverURL string) (*domain.User, error) {
	return s.updateMedia(ctx, userID, coverURL, "cover_image")
}

func (s *ProfileService) updateMedia(ctx context.Context, userID, url, kind string) (*domain.User, error) {
	if url == "" {
		return nil, domain.NewValidationError("%s file is required", kind)
	}

	current, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	fields := ports.UpdateUserFields{}
	previous := ""
	switch kind {
	case "avatar":
		fields.Avatar = &url
		previous = current.Avatar
	default:
		fields.CoverImage = &url
		previous = current.CoverImage
	}

	updated, err := s.users.UpdateFields(ctx, userID, fields)
	if err != nil {
		return nil, err
	}

	if previous != "" && previous != url {
		s.cleanup.Enqueue(ports.MediaRemoval{UserID: userID, URL: previous})
	}

	s.log.Info().Str("user_id", userID).Str("kind", kind).Msg("media updated")
	return updated, nil
}

// ChannelProfile runs the channel aggregation for a username, relative to
// the requesting viewer.
func (s *ProfileService) ChannelProfile(ctx context.Context, username, viewerID string) (*domain.ChannelProfile, error) {
	if err := domain.ValidateNotEmpty("username", username); err != nil {
		return nil, err
	}
	profile, err := s.profiles.ChannelProfile(ctx, domain.NormalizeUsername(username), viewerID)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// WatchHistory returns the caller's ordered, owner-enriched watch history.
func (s *ProfileService) WatchHistory(ctx context.Context, userID string) ([]domain.WatchVideo, error) {
	history, err := s.profiles.WatchHistory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("watch history: %w", err)
	}
	return history, nil
}
