package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/viewtube/account-service/internal/core/ports"
	"github.com/viewtube/account-service/internal/infrastructure/storage"
)

// uploadFormFile streams a multipart file field to the media store and
// returns the stored object URL. An absent field returns ("", nil);
// required-ness is the caller's decision.
func uploadFormFile(c echo.Context, store ports.MediaStore, field, prefix string) (string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", nil
		}
		return "", echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("read %s upload: %v", field, err))
	}

	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open %s upload: %w", field, err)
	}
	defer f.Close()

	url, err := store.Upload(
		c.Request().Context(),
		storage.ObjectKey(prefix, fh.Filename),
		fh.Header.Get("Content-Type"),
		f,
	)
	if err != nil {
		return "", fmt.Errorf("store %s upload: %w", field, err)
	}
	return url, nil
}
