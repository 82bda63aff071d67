package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/viewtube/account-service/internal/core/ports"
)

// ProfileHandler handles account updates and the aggregation reads.
type ProfileHandler struct {
	profiles ports.ProfileService
}

func NewProfileHandler(profiles ports.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// UpdateAccount applies a partial update to username/email/fullname.
//
// @Summary      Update account details
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateAccountRequest  true  "Fields to update"
// @Success      200   {object}  apiResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /users/update-account [patch]
func (h *ProfileHandler) UpdateAccount(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req updateAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.profiles.UpdateAccount(c.Request().Context(), userID, ports.UpdateAccountInput{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, toUserResponse(user), "account updated")
}

// ChannelProfile returns a channel's public profile with subscription counts.
//
// @Summary      Get a channel profile by username
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string  true  "Channel username"
// @Success      200       {object}  apiResponse
// @Failure      401       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Router       /users/c/{username} [get]
func (h *ProfileHandler) ChannelProfile(c echo.Context) error {
	viewerID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	profile, err := h.profiles.ChannelProfile(c.Request().Context(), c.Param("username"), viewerID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, toChannelProfileResponse(profile), "channel profile")
}

// WatchHistory returns the caller's watched videos in watch order.
//
// @Summary      Get the caller's watch history
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  apiResponse
// @Failure      401  {object}  errorResponse
// @Router       /users/history [get]
func (h *ProfileHandler) WatchHistory(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	history, err := h.profiles.WatchHistory(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, toWatchHistoryResponse(history), "watch history")
}
