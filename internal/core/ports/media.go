package ports

import (
	"context"
	"io"
)

// MediaStore abstracts the object store holding avatar and cover images.
type MediaStore interface {
	// Upload streams an object under key and returns its public URL.
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
	// Remove deletes the object a previously returned URL points at.
	Remove(ctx context.Context, url string) error
}

// MediaRemoval is a background deletion of a replaced media object.
type MediaRemoval struct {
	UserID string
	URL    string
}
