package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/viewtube/account-service/internal/api/metrics"
	"github.com/viewtube/account-service/internal/core/domain"
	"github.com/viewtube/account-service/internal/core/ports"
)

// MediaHandler handles avatar and cover-image replacement.
type MediaHandler struct {
	profiles ports.ProfileService
	store    ports.MediaStore
}

func NewMediaHandler(profiles ports.ProfileService, store ports.MediaStore) *MediaHandler {
	return &MediaHandler{profiles: profiles, store: store}
}

// UpdateAvatar replaces the caller's avatar.
//
// @Summary      Update the caller's avatar
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        avatar  formData  file  true  "New avatar image"
// @Success      200     {object}  apiResponse
// @Failure      400     {object}  errorResponse
// @Failure      401     {object}  errorResponse
// @Router       /users/avatar [patch]
func (h *MediaHandler) UpdateAvatar(c echo.Context) error {
	return h.update(c, "avatar", "avatars", h.profiles.UpdateAvatar)
}

// UpdateCoverImage replaces the caller's cover image.
//
// @Summary      Update the caller's cover image
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        coverImage  formData  file  true  "New cover image"
// @Success      200         {object}  apiResponse
// @Failure      400         {object}  errorResponse
// @Failure      401         {object}  errorResponse
// @Router       /users/cover-image [patch]
func (h *MediaHandler) UpdateCoverImage(c echo.Context) error {
	return h.update(c, "coverImage", "covers", h.profiles.UpdateCoverImage)
}

func (h *MediaHandler) update(c echo.Context, field, prefix string, apply func(ctx context.Context, userID, url string) (*domain.User, error)) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	url, err := uploadFormFile(c, h.store, field, prefix)
	if err != nil {
		return err
	}
	if url == "" {
		return domain.NewValidationError("%s file is required", field)
	}

	user, err := apply(c.Request().Context(), userID, url)
	if err != nil {
		return err
	}

	metrics.MediaUploadsTotal.WithLabelValues(field).Inc()
	return respond(c, http.StatusOK, toUserResponse(user), field+" updated")
}
