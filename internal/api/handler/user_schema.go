package handler

import (
	"time"

	"github.com/viewtube/account-service/internal/core/domain"
)

// errorResponse is the standard failure envelope returned on all 4xx/5xx
// responses (rendered by the central error handler).
type errorResponse struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors"`
}

// --- Request types ---

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=7"`
}

type updateAccountRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email" validate:"omitempty,email"`
	FullName *string `json:"fullname"`
}

// --- Response types ---
// Response-only types owned by the transport layer. The projection here is
// the whitelist contract: password hash and refresh token have no field to
// leak through.

type userResponse struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FullName   string    `json:"fullname"`
	Avatar     string    `json:"avatar"`
	CoverImage string    `json:"cover_image,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type authResponse struct {
	User         userResponse `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

type channelProfileResponse struct {
	ID                        string `json:"id"`
	Username                  string `json:"username"`
	Email                     string `json:"email"`
	FullName                  string `json:"fullname"`
	Avatar                    string `json:"avatar"`
	CoverImage                string `json:"cover_image,omitempty"`
	SubscribersCount          int64  `json:"subscribers_count"`
	ChannelsSubscribedToCount int64  `json:"channels_subscribed_to_count"`
	IsSubscribed              bool   `json:"is_subscribed"`
}

type videoOwnerResponse struct {
	Username string `json:"username"`
	FullName string `json:"fullname"`
	Avatar   string `json:"avatar"`
}

type watchVideoResponse struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	VideoFile   string             `json:"video_file"`
	Thumbnail   string             `json:"thumbnail"`
	Duration    float64            `json:"duration"`
	Views       int64              `json:"views"`
	Owner       videoOwnerResponse `json:"owner"`
	CreatedAt   time.Time          `json:"created_at"`
}

// --- Mappers ---

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FullName:   u.FullName,
		Avatar:     u.Avatar,
		CoverImage: u.CoverImage,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func toChannelProfileResponse(p *domain.ChannelProfile) channelProfileResponse {
	return channelProfileResponse{
		ID:                        p.ID,
		Username:                  p.Username,
		Email:                     p.Email,
		FullName:                  p.FullName,
		Avatar:                    p.Avatar,
		CoverImage:                p.CoverImage,
		SubscribersCount:          p.SubscribersCount,
		ChannelsSubscribedToCount: p.ChannelsSubscribedToCount,
		IsSubscribed:              p.IsSubscribed,
	}
}

func toWatchHistoryResponse(history []domain.WatchVideo) []watchVideoResponse {
	out := make([]watchVideoResponse, 0, len(history))
	for _, v := range history {
		out = append(out, watchVideoResponse{
			ID:          v.ID,
			Title:       v.Title,
			Description: v.Description,
			VideoFile:   v.VideoFile,
			Thumbnail:   v.Thumbnail,
			Duration:    v.Duration,
			Views:       v.Views,
			Owner: videoOwnerResponse{
				Username: v.Owner.Username,
				FullName: v.Owner.FullName,
				Avatar:   v.Owner.Avatar,
			},
			CreatedAt: v.CreatedAt,
		})
	}
	return out
}
