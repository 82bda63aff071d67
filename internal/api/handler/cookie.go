package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/viewtube/account-service/internal/infrastructure/config"
)

const (
	// Cookie names
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
)

// CookieHelper applies the shared cookie policy to both auth cookies.
// Auth cookies are always http-only.
type CookieHelper struct {
	domain     string
	path       string
	secure     bool
	sameSite   http.SameSite
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewCookieHelper creates a cookie helper from the shared policy and the
// token lifetimes (used as cookie max-age).
func NewCookieHelper(cfg config.CookieConfig, accessTTL, refreshTTL time.Duration) *CookieHelper {
	return &CookieHelper{
		domain:     cfg.Domain,
		path:       cfg.Path,
		secure:     cfg.Secure,
		sameSite:   parseSameSite(cfg.SameSite),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// SetAuthCookies sets both access and refresh token cookies.
func (h *CookieHelper) SetAuthCookies(c echo.Context, accessToken, refreshToken string) {
	h.setCookie(c, AccessTokenCookie, accessToken, int(h.accessTTL.Seconds()))
	h.setCookie(c, RefreshTokenCookie, refreshToken, int(h.refreshTTL.Seconds()))
}

// ClearAuthCookies removes both authentication cookies.
func (h *CookieHelper) ClearAuthCookies(c echo.Context) {
	h.setCookie(c, AccessTokenCookie, "", -1)
	h.setCookie(c, RefreshTokenCookie, "", -1)
}

// RefreshToken retrieves the refresh token cookie, or "" when absent.
func (h *CookieHelper) RefreshToken(c echo.Context) string {
	cookie, err := c.Cookie(RefreshTokenCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (h *CookieHelper) setCookie(c echo.Context, name, value string, maxAge int) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    value,
		MaxAge:   maxAge,
		Path:     h.path,
		Domain:   h.domain,
		Secure:   h.secure,
		SameSite: h.sameSite,
		HttpOnly: true,
	})
}

func parseSameSite(s string) http.SameSite {
	switch strings.ToLower(s) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
