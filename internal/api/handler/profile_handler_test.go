package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/viewtube/account-service/internal/core/domain"
	"github.com/viewtube/account-service/internal/core/ports"
)

type stubProfileService struct {
	updateAccountFn  func(ctx context.Context, userID string, in ports.UpdateAccountInput) (*domain.User, error)
	updateAvatarFn   func(ctx context.Context, userID, avatarURL string) (*domain.User, error)
	updateCoverFn    func(ctx context.Context, userID, coverURL string) (*domain.User, error)
	channelProfileFn func(ctx context.Context, username, viewerID string) (*domain.ChannelProfile, error)
	watchHistoryFn   func(ctx context.Context, userID string) ([]domain.WatchVideo, error)
}

func (s *stubProfileService) UpdateAccount(ctx context.Context, userID string, in ports.UpdateAccountInput) (*domain.User, error) {
	return s.updateAccountFn(ctx, userID, in)
}

func (s *stubProfileService) UpdateAvatar(ctx context.Context, userID, avatarURL string) (*domain.User, error) {
	return s.updateAvatarFn(ctx, userID, avatarURL)
}

func (s *stubProfileService) UpdateCoverImage(ctx context.Context, userID, coverURL string) (*domain.User, error) {
	return s.updateCoverFn(ctx, userID, coverURL)
}

func (s *stubProfileService) ChannelProfile(ctx context.Context, username, viewerID string) (*domain.ChannelProfile, error) {
	return s.channelProfileFn(ctx, username, viewerID)
}

func (s *stubProfileService) WatchHistory(ctx context.Context, userID string) ([]domain.WatchVideo, error) {
	return s.watchHistoryFn(ctx, userID)
}

func TestProfileHandler_UpdateAccount(t *testing.T) {
	svc := &stubProfileService{
		updateAccountFn: func(_ context.Context, userID string, in ports.UpdateAccountInput) (*domain.User, error) {
			if userID != "user-1" {
				t.Fatalf("unexpected user id: %q", userID)
			}
			if in.FullName == nil || *in.FullName != "Alice Updated" {
				t.Fatalf("fullname not forwarded: %+v", in)
			}
			if in.Username != nil {
				t.Fatalf("absent field should stay nil: %+v", in)
			}
			return &domain.User{ID: userID, Username: "alice", FullName: *in.FullName}, nil
		},
	}
	h := NewProfileHandler(svc)

	body := strings.NewReader(`{"fullname":"Alice Updated"}`)
	c, rec := newTestContext(t, http.MethodPatch, "/api/v1/users/update-account", body, echo.MIMEApplicationJSON)
	c.Set("user_id", "user-1")

	if err := h.UpdateAccount(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	resp := decodeEnvelope(t, rec)
	data, ok := resp["data"].(map[string]any)
	if !ok || data["fullname"] != "Alice Updated" {
		t.Fatalf("unexpected data: %+v", resp["data"])
	}
}

func TestProfileHandler_UpdateAccount_BadEmail(t *testing.T) {
	h := NewProfileHandler(&stubProfileService{})

	body := strings.NewReader(`{"email":"not-an-email"}`)
	c, _ := newTestContext(t, http.MethodPatch, "/api/v1/users/update-account", body, echo.MIMEApplicationJSON)
	c.Set("user_id", "user-1")

	err := h.UpdateAccount(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("got %v, want 400", err)
	}
}

func TestProfileHandler_ChannelProfile(t *testing.T) {
	svc := &stubProfileService{
		channelProfileFn: func(_ context.Context, username, viewerID string) (*domain.ChannelProfile, error) {
			if username != "bob" || viewerID != "user-1" {
				t.Fatalf("unexpected args: %q %q", username, viewerID)
			}
			return &domain.ChannelProfile{
				Username:                  "bob",
				SubscribersCount:          12,
				ChannelsSubscribedToCount: 3,
				IsSubscribed:              true,
			}, nil
		},
	}
	h := NewProfileHandler(svc)

	c, rec := newTestContext(t, http.MethodGet, "/api/v1/users/c/bob", nil, "")
	c.SetParamNames("username")
	c.SetParamValues("bob")
	c.Set("user_id", "user-1")

	if err := h.ChannelProfile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	resp := decodeEnvelope(t, rec)
	data, ok := resp["data"].(map[string]any)
	if !ok {
		t.Fatalf("missing data: %+v", resp)
	}
	if data["subscribers_count"] != float64(12) || data["is_subscribed"] != true {
		t.Fatalf("unexpected profile: %+v", data)
	}
}

func TestProfileHandler_ChannelProfile_NotFound(t *testing.T) {
	svc := &stubProfileService{
		channelProfileFn: func(context.Context, string, string) (*domain.ChannelProfile, error) {
			return nil, domain.ErrChannelNotFound
		},
	}
	h := NewProfileHandler(svc)

	c, _ := newTestContext(t, http.MethodGet, "/api/v1/users/c/ghost", nil, "")
	c.SetParamNames("username")
	c.SetParamValues("ghost")
	c.Set("user_id", "user-1")

	if err := h.ChannelProfile(c); !errors.Is(err, domain.ErrChannelNotFound) {
		t.Fatalf("got %v, want ErrChannelNotFound", err)
	}
}

func TestProfileHandler_WatchHistory(t *testing.T) {
	svc := &stubProfileService{
		watchHistoryFn: func(_ context.Context, userID string) ([]domain.WatchVideo, error) {
			if userID != "user-1" {
				t.Fatalf("unexpected user id: %q", userID)
			}
			return []domain.WatchVideo{
				{ID: "v1", Title: "first", Owner: domain.VideoOwner{Username: "bob"}},
				{ID: "v2", Title: "second", Owner: domain.VideoOwner{Username: "carol"}},
			}, nil
		},
	}
	h := NewProfileHandler(svc)

	c, rec := newTestContext(t, http.MethodGet, "/api/v1/users/history", nil, "")
	c.Set("user_id", "user-1")

	if err := h.WatchHistory(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	resp := decodeEnvelope(t, rec)
	data, ok := resp["data"].([]any)
	if !ok || len(data) != 2 {
		t.Fatalf("unexpected data: %+v", resp["data"])
	}
	first, ok := data[0].(map[string]any)
	if !ok || first["id"] != "v1" {
		t.Fatalf("history order lost: %+v", data)
	}
	owner, ok := first["owner"].(map[string]any)
	if !ok || owner["username"] != "bob" {
		t.Fatalf("owner not embedded: %+v", first)
	}
}

func TestProfileHandler_WatchHistory_Empty(t *testing.T) {
	svc := &stubProfileService{
		watchHistoryFn: func(context.Context, string) ([]domain.WatchVideo, error) {
			return []domain.WatchVideo{}, nil
		},
	}
	h := NewProfileHandler(svc)

	c, rec := newTestContext(t, http.MethodGet, "/api/v1/users/history", nil, "")
	c.Set("user_id", "user-1")

	if err := h.WatchHistory(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	resp := decodeEnvelope(t, rec)
	data, ok := resp["data"].([]any)
	if !ok || len(data) != 0 {
		t.Fatalf("expected empty array, got %+v", resp["data"])
	}
}

func TestProfileHandler_Unauthenticated(t *testing.T) {
	h := NewProfileHandler(&stubProfileService{})

	c, _ := newTestContext(t, http.MethodGet, "/api/v1/users/history", nil, "")
	err := h.WatchHistory(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("got %v, want 401", err)
	}
}
