package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/viewtube/account-service/internal/core/domain"
	"github.com/viewtube/account-service/internal/core/ports"
	"github.com/viewtube/account-service/internal/infrastructure/config"
)

type stubAuthService struct {
	registerFn       func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	loginFn          func(ctx context.Context, in ports.LoginInput) (*ports.AuthResult, error)
	logoutFn         func(ctx context.Context, userID string) error
	refreshFn        func(ctx context.Context, refreshToken string) (*ports.AuthResult, error)
	changePasswordFn func(ctx context.Context, userID, oldPassword, newPassword string) error
	currentUserFn    func(ctx context.Context, userID string) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.AuthResult, error) {
	return s.loginFn(ctx, in)
}

func (s *stubAuthService) Logout(ctx context.Context, userID string) error {
	return s.logoutFn(ctx, userID)
}

func (s *stubAuthService) Refresh(ctx context.Context, refreshToken string) (*ports.AuthResult, error) {
	return s.refreshFn(ctx, refreshToken)
}

func (s *stubAuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	return s.changePasswordFn(ctx, userID, oldPassword, newPassword)
}

func (s *stubAuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.currentUserFn(ctx, userID)
}

type stubMediaStore struct {
	uploads  []string
	removals []string
	err      error
}

func (s *stubMediaStore) Upload(_ context.Context, key, _ string, body io.Reader) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if _, err := io.ReadAll(body); err != nil {
		return "", err
	}
	s.uploads = append(s.uploads, key)
	return "https://cdn.example.com/" + key, nil
}

func (s *stubMediaStore) Remove(_ context.Context, url string) error {
	s.removals = append(s.removals, url)
	return s.err
}

func testCookieHelper() *CookieHelper {
	return NewCookieHelper(config.CookieConfig{
		Path:     "/",
		Secure:   true,
		SameSite: "lax",
	}, 15*time.Minute, 168*time.Hour)
}

func newTestContext(t *testing.T, method, target string, body io.Reader, contentType string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	return resp
}

func multipartBody(t *testing.T, fields map[string]string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			t.Fatalf("write field %s: %v", name, err)
		}
	}
	for name, filename := range files {
		fw, err := w.CreateFormFile(name, filename)
		if err != nil {
			t.Fatalf("create file %s: %v", name, err)
		}
		if _, err := fw.Write([]byte("fake image bytes")); err != nil {
			t.Fatalf("write file %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return buf, w.FormDataContentType()
}

func TestUserHandler_Register_Success(t *testing.T) {
	store := &stubMediaStore{}
	auth := &stubAuthService{
		registerFn: func(_ context.Context, in ports.RegisterInput) (*domain.User, error) {
			if in.Username != "alice" || in.Email != "alice@example.com" {
				t.Fatalf("unexpected input: %+v", in)
			}
			if !strings.HasPrefix(in.Avatar, "https://cdn.example.com/avatars/") {
				t.Fatalf("avatar not uploaded before register: %q", in.Avatar)
			}
			if in.CoverImage != "" {
				t.Fatalf("unexpected cover image: %q", in.CoverImage)
			}
			return &domain.User{ID: "user-1", Username: in.Username, Email: in.Email, Avatar: in.Avatar}, nil
		},
	}
	h := NewUserHandler(auth, store, testCookieHelper())

	body, contentType := multipartBody(t,
		map[string]string{
			"username": "alice",
			"email":    "alice@example.com",
			"fullname": "Alice Doe",
			"password": "s3cret99",
		},
		map[string]string{"avatar": "face.png"},
	)
	c, rec := newTestContext(t, http.MethodPost, "/api/v1/users/register", body, contentType)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	resp := decodeEnvelope(t, rec)
	if resp["success"] != true || resp["statusCode"] != float64(http.StatusCreated) {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
	data, ok := resp["data"].(map[string]any)
	if !ok || data["username"] != "alice" {
		t.Fatalf("unexpected data: %+v", resp["data"])
	}
	if len(store.uploads) != 1 {
		t.Fatalf("expected one upload, got %d", len(store.uploads))
	}
}

func TestUserHandler_Register_ServiceError(t *testing.T) {
	auth := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}
	h := NewUserHandler(auth, &stubMediaStore{}, testCookieHelper())

	body, contentType := multipartBody(t, map[string]string{"username": "bob"}, map[string]string{"avatar": "b.png"})
	c, _ := newTestContext(t, http.MethodPost, "/api/v1/users/register", body, contentType)

	if err := h.Register(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("got %v, want ErrUserExists", err)
	}
}

func TestUserHandler_Login_SetsCookies(t *testing.T) {
	user := &domain.User{ID: "user-1", Username: "alice", Email: "alice@example.com"}
	auth := &stubAuthService{
		loginFn: func(_ context.Context, in ports.LoginInput) (*ports.AuthResult, error) {
			if in.Username != "alice" || in.Password != "s3cret99" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &ports.AuthResult{User: user, AccessToken: "access-abc", RefreshToken: "refresh-xyz"}, nil
		},
	}
	h := NewUserHandler(auth, &stubMediaStore{}, testCookieHelper())

	body := strings.NewReader(`{"username":"alice","password":"s3cret99"}`)
	c, rec := newTestContext(t, http.MethodPost, "/api/v1/users/login", body, echo.MIMEApplicationJSON)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	resp := decodeEnvelope(t, rec)
	data, ok := resp["data"].(map[string]any)
	if !ok {
		t.Fatalf("missing data: %+v", resp)
	}
	if data["access_token"] != "access-abc" || data["refresh_token"] != "refresh-xyz" {
		t.Fatalf("tokens missing from body: %+v", data)
	}

	cookies := rec.Result().Cookies()
	byName := map[string]*http.Cookie{}
	for _, ck := range cookies {
		byName[ck.Name] = ck
	}
	access, ok := byName[AccessTokenCookie]
	if !ok || access.Value != "access-abc" {
		t.Fatalf("access cookie missing or wrong: %+v", cookies)
	}
	refresh, ok := byName[RefreshTokenCookie]
	if !ok || refresh.Value != "refresh-xyz" {
		t.Fatalf("refresh cookie missing or wrong: %+v", cookies)
	}
	for _, ck := range []*http.Cookie{access, refresh} {
		if !ck.HttpOnly || !ck.Secure {
			t.Fatalf("cookie %s must be http-only and secure: %+v", ck.Name, ck)
		}
	}
	if access.MaxAge != int((15 * time.Minute).Seconds()) {
		t.Fatalf("access cookie max-age = %d", access.MaxAge)
	}
}

func TestUserHandler_Login_InvalidPayload(t *testing.T) {
	h := NewUserHandler(&stubAuthService{}, &stubMediaStore{}, testCookieHelper())

	c, _ := newTestContext(t, http.MethodPost, "/api/v1/users/login", strings.NewReader(`{"username":"alice"}`), echo.MIMEApplicationJSON)
	err := h.Login(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("missing password: got %v, want 400", err)
	}
}

func TestUserHandler_Login_BadCredentials(t *testing.T) {
	auth := &stubAuthService{
		loginFn: func(context.Context, ports.LoginInput) (*ports.AuthResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	h := NewUserHandler(auth, &stubMediaStore{}, testCookieHelper())

	body := strings.NewReader(`{"username":"alice","password":"wrongpass"}`)
	c, _ := newTestContext(t, http.MethodPost, "/api/v1/users/login", body, echo.MIMEApplicationJSON)

	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("got %v, want ErrInvalidCredentials", err)
	}
}

func TestUserHandler_Logout_ClearsCookies(t *testing.T) {
	loggedOut := ""
	auth := &stubAuthService{
		logoutFn: func(_ context.Context, userID string) error {
			loggedOut = userID
			return nil
		},
	}
	h := NewUserHandler(auth, &stubMediaStore{}, testCookieHelper())

	c, rec := newTestContext(t, http.MethodPost, "/api/v1/users/logout", nil, "")
	c.Set("user_id", "user-1")

	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if loggedOut != "user-1" {
		t.Fatalf("logout called with %q", loggedOut)
	}

	for _, ck := range rec.Result().Cookies() {
		if ck.MaxAge != -1 || ck.Value != "" {
			t.Fatalf("cookie %s not cleared: %+v", ck.Name, ck)
		}
	}
}

func TestUserHandler_Logout_Unauthenticated(t *testing.T) {
	h := NewUserHandler(&stubAuthService{}, &stubMediaStore{}, testCookieHelper())

	c, _ := newTestContext(t, http.MethodPost, "/api/v1/users/logout", nil, "")
	err := h.Logout(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("got %v, want 401", err)
	}
}

func TestUserHandler_Refresh_FromCookie(t *testing.T) {
	auth := &stubAuthService{
		refreshFn: func(_ context.Context, token string) (*ports.AuthResult, error) {
			if token != "refresh-old" {
				t.Fatalf("unexpected token: %q", token)
			}
			return &ports.AuthResult{
				User:         &domain.User{ID: "user-1", Username: "alice"},
				AccessToken:  "access-new",
				RefreshToken: "refresh-new",
			}, nil
		},
	}
	h := NewUserHandler(auth, &stubMediaStore{}, testCookieHelper())

	c, rec := newTestContext(t, http.MethodPost, "/api/v1/users/refresh-token", nil, "")
	c.Request().AddCookie(&http.Cookie{Name: RefreshTokenCookie, Value: "refresh-old"})

	if err := h.Refresh(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rotated := false
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == RefreshTokenCookie && ck.Value == "refresh-new" {
			rotated = true
		}
	}
	if !rotated {
		t.Fatalf("refresh cookie not rotated")
	}
}

func TestUserHandler_Refresh_FromBody(t *testing.T) {
	auth := &stubAuthService{
		refreshFn: func(_ context.Context, token string) (*ports.AuthResult, error) {
			if token != "refresh-body" {
				t.Fatalf("unexpected token: %q", token)
			}
			return &ports.AuthResult{
				User:         &domain.User{ID: "user-1", Username: "alice"},
				AccessToken:  "a",
				RefreshToken: "r",
			}, nil
		},
	}
	h := NewUserHandler(auth, &stubMediaStore{}, testCookieHelper())

	body := strings.NewReader(`{"refresh_token":"refresh-body"}`)
	c, rec := newTestContext(t, http.MethodPost, "/api/v1/users/refresh-token", body, echo.MIMEApplicationJSON)

	if err := h.Refresh(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_Refresh_MissingToken(t *testing.T) {
	h := NewUserHandler(&stubAuthService{}, &stubMediaStore{}, testCookieHelper())

	c, _ := newTestContext(t, http.MethodPost, "/api/v1/users/refresh-token", nil, "")
	if err := h.Refresh(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("got %v, want ErrInvalidCredentials", err)
	}
}

func TestUserHandler_ChangePassword(t *testing.T) {
	var gotOld, gotNew string
	auth := &stubAuthService{
		changePasswordFn: func(_ context.Context, userID, oldPassword, newPassword string) error {
			if userID != "user-1" {
				t.Fatalf("unexpected user id: %q", userID)
			}
			gotOld, gotNew = oldPassword, newPassword
			return nil
		},
	}
	h := NewUserHandler(auth, &stubMediaStore{}, testCookieHelper())

	body := strings.NewReader(`{"old_password":"oldpass99","new_password":"newpass99"}`)
	c, rec := newTestContext(t, http.MethodPost, "/api/v1/users/change-password", body, echo.MIMEApplicationJSON)
	c.Set("user_id", "user-1")

	if err := h.ChangePassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotOld != "oldpass99" || gotNew != "newpass99" {
		t.Fatalf("passwords not forwarded: %q %q", gotOld, gotNew)
	}
}

func TestUserHandler_ChangePassword_ShortNewPassword(t *testing.T) {
	h := NewUserHandler(&stubAuthService{}, &stubMediaStore{}, testCookieHelper())

	body := strings.NewReader(`{"old_password":"oldpass99","new_password":"short"}`)
	c, _ := newTestContext(t, http.MethodPost, "/api/v1/users/change-password", body, echo.MIMEApplicationJSON)
	c.Set("user_id", "user-1")

	err := h.ChangePassword(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("got %v, want 400", err)
	}
}

func TestUserHandler_CurrentUser(t *testing.T) {
	auth := &stubAuthService{
		currentUserFn: func(_ context.Context, userID string) (*domain.User, error) {
			if userID != "user-1" {
				return nil, fmt.Errorf("unexpected id %q: %w", userID, domain.ErrUserNotFound)
			}
			return &domain.User{ID: "user-1", Username: "alice"}, nil
		},
	}
	h := NewUserHandler(auth, &stubMediaStore{}, testCookieHelper())

	c, rec := newTestContext(t, http.MethodGet, "/api/v1/users/current-user", nil, "")
	c.Set("user_id", "user-1")

	if err := h.CurrentUser(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decodeEnvelope(t, rec)
	data, ok := resp["data"].(map[string]any)
	if !ok || data["username"] != "alice" {
		t.Fatalf("unexpected data: %+v", resp["data"])
	}
}
