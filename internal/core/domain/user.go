package domain

import "time"

// User is the persisted account record. PasswordHash and RefreshToken are
// internal fields and must never appear in an API response.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FullName     string    `json:"fullname"`
	PasswordHash string    `json:"-"`
	Avatar       string    `json:"avatar"`
	CoverImage   string    `json:"cover_image,omitempty"`
	RefreshToken string    `json:"-"`
	WatchHistory []string  `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ChannelProfile is the read model produced by the channel aggregation:
// a user viewed as a subscribable channel, with subscription cardinalities
// relative to the requesting viewer.
type ChannelProfile struct {
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

// VideoOwner is the minimal public shape of a video's owner embedded in
// watch-history results.
type VideoOwner struct {
	Username string `json:"username"`
	FullName string `json:"fullname"`
	Avatar   string `json:"avatar"`
}

// WatchVideo is a single watch-history entry: a video enriched with its owner.
type WatchVideo struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	VideoFile   string     `json:"video_file"`
	Thumbnail   string     `json:"thumbnail"`
	Duration    float64    `json:"duration"`
	Views       int64      `json:"views"`
	Owner       VideoOwner `json:"owner"`
	CreatedAt   time.Time  `json:"created_at"`
}
