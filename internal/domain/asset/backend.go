package asset

import (
	"context"
	"io"
)

// Backend persists asset bytes under slash-separated keys of the form
// "<subfolder>/<name>". Delete of a missing key is not an error.
type Backend interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, dir string) ([]string, error)
	URL(key string) string
}
