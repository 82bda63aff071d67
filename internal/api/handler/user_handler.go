package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/viewtube/account-service/internal/api/metrics"
	"github.com/viewtube/account-service/internal/core/domain"
	"github.com/viewtube/account-service/internal/core/ports"
)

// UserHandler handles registration and the session lifecycle endpoints.
type UserHandler struct {
	auth    ports.AuthService
	store   ports.MediaStore
	cookies *CookieHelper
}

func NewUserHandler(auth ports.AuthService, store ports.MediaStore, cookies *CookieHelper) *UserHandler {
	return &UserHandler{auth: auth, store: store, cookies: cookies}
}

// Register creates a new user account from a multipart form.
//
// @Summary      Register a new user
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Param        username   formData  string  true   "Username"
// @Param        email      formData  string  true   "Email address"
// @Param        fullname   formData  string  true   "Full name"
// @Param        password   formData  string  true   "Password (min 7 characters)"
// @Param        avatar     formData  file    true   "Avatar image"
// @Param        coverImage formData  file    false  "Cover image"
// @Success      201   {object}  apiResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /users/register [post]
func (h *UserHandler) Register(c echo.Context) error {
	avatar, err := uploadFormFile(c, h.store, "avatar", "avatars")
	if err != nil {
		return err
	}
	coverImage, err := uploadFormFile(c, h.store, "coverImage", "covers")
	if err != nil {
		return err
	}

	user, err := h.auth.Register(c.Request().Context(), ports.RegisterInput{
		Username:   c.FormValue("username"),
		Email:      c.FormValue("email"),
		FullName:   c.FormValue("fullname"),
		Password:   c.FormValue("password"),
		Avatar:     avatar,
		CoverImage: coverImage,
	})
	if err != nil {
		return err
	}

	metrics.RegistrationsTotal.Inc()
	return respond(c, http.StatusCreated, toUserResponse(user), "user registered")
}

// Login authenticates a user and issues the token pair.
//
// @Summary      Login with username or email
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  apiResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /users/login [post]
func (h *UserHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.auth.Login(c.Request().Context(), ports.LoginInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return err
	}

	h.cookies.SetAuthCookies(c, result.AccessToken, result.RefreshToken)
	metrics.LoginsTotal.WithLabelValues("ok").Inc()

	return respond(c, http.StatusOK, authResponse{
		User:         toUserResponse(result.User),
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	}, "user logged in")
}

// Logout clears the stored refresh token and both auth cookies.
//
// @Summary      Logout
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  apiResponse
// @Failure      401  {object}  errorResponse
// @Router       /users/logout [post]
func (h *UserHandler) Logout(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.auth.Logout(c.Request().Context(), userID); err != nil {
		return err
	}

	h.cookies.ClearAuthCookies(c)
	return respond(c, http.StatusOK, nil, "user logged out")
}

// Refresh exchanges a refresh token (cookie or body) for a new pair.
//
// @Summary      Refresh the access/refresh token pair
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  false  "Refresh token when not sent as cookie"
// @Success      200   {object}  apiResponse
// @Failure      401   {object}  errorResponse
// @Router       /users/refresh-token [post]
func (h *UserHandler) Refresh(c echo.Context) error {
	token := h.cookies.RefreshToken(c)
	if token == "" {
		var req refreshRequest
		if err := c.Bind(&req); err == nil {
			token = req.RefreshToken
		}
	}
	if token == "" {
		return domain.ErrInvalidCredentials
	}

	result, err := h.auth.Refresh(c.Request().Context(), token)
	if err != nil {
		metrics.TokenRefreshesTotal.WithLabelValues("error").Inc()
		return err
	}

	h.cookies.SetAuthCookies(c, result.AccessToken, result.RefreshToken)
	metrics.TokenRefreshesTotal.WithLabelValues("ok").Inc()

	return respond(c, http.StatusOK, authResponse{
		User:         toUserResponse(result.User),
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	}, "tokens refreshed")
}

// ChangePassword verifies the old password and sets a new one.
//
// @Summary      Change the caller's password
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Old and new password"
// @Success      200   {object}  apiResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /users/change-password [post]
func (h *UserHandler) ChangePassword(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.auth.ChangePassword(c.Request().Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	return respond(c, http.StatusOK, nil, "password changed")
}

// CurrentUser returns the caller's own record.
//
// @Summary      Get the current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  apiResponse
// @Failure      401  {object}  errorResponse
// @Router       /users/current-user [get]
func (h *UserHandler) CurrentUser(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	user, err := h.auth.CurrentUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, toUserResponse(user), "current user")
}
