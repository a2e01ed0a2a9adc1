package asset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GCSBackend stores assets as objects "<prefix>/<key>" in one bucket.
type GCSBackend struct {
	client *gcs.Client
	bucket string
	prefix string
}

func NewGCSBackend(ctx context.Context, bucket, prefix, credentialsFile string) (*GCSBackend, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	c, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &GCSBackend{client: c, bucket: bucket, prefix: strings.Trim(prefix, "/")}, nil
}

func (b *GCSBackend) Close() error { return b.client.Close() }

func (b *GCSBackend) Put(ctx context.Context, key string, r io.Reader, contentType string) error {
	// Cancelling the writer's context aborts the upload instead of
	// finalizing a truncated object.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := b.client.Bucket(b.bucket).Object(b.object(key)).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, r); err != nil {
		cancel()
		_ = w.Close()
		return fmt.Errorf("failed to upload object: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize object: %w", err)
	}
	return nil
}

func (b *GCSBackend) Delete(ctx context.Context, key string) error {
	err := b.client.Bucket(b.bucket).Object(b.object(key)).Delete(ctx)
	if err == nil || errors.Is(err, gcs.ErrObjectNotExist) {
		return nil
	}
	return err
}

func (b *GCSBackend) List(ctx context.Context, dir string) ([]string, error) {
	prefix := b.object(dir) + "/"
	it := b.client.Bucket(b.bucket).Objects(ctx, &gcs.Query{Prefix: prefix, Delimiter: "/"})

	var names []string
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		if attrs.Name == "" {
			continue // synthetic directory entry
		}
		names = append(names, strings.TrimPrefix(attrs.Name, prefix))
	}
	return names, nil
}

func (b *GCSBackend) URL(key string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", b.bucket, b.object(key))
}

func (b *GCSBackend) object(key string) string {
	if b.prefix == "" {
		return key
	}
	return path.Join(b.prefix, key)
}
