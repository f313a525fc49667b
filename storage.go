package nanobanana

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"strings"

	"github.com/mhpenta/nanobanana/imgutil"
)

// Storage persists generated images.
// Implementations can wrap the local filesystem or a cloud bucket (S3, GCS, etc.).
type Storage interface {
	// SaveFile saves image data under path and returns where it was written.
	// The contentType is the MIME type of data (e.g., "image/png").
	SaveFile(ctx context.Context, data []byte, path string, contentType string) (string, error)
}

// StorageFunc adapts a function to the Storage interface.
type StorageFunc func(ctx context.Context, data []byte, path string, contentType string) (string, error)

// SaveFile calls f.
func (f StorageFunc) SaveFile(ctx context.Context, data []byte, path string, contentType string) (string, error) {
	return f(ctx, data, path, contentType)
}

// FileStorage writes images to the local filesystem.
// Writes are whole-file and not atomic.
type FileStorage struct{}

// SaveFile writes data to the local path.
func (FileStorage) SaveFile(_ context.Context, data []byte, path string, _ string) (string, error) {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// Router dispatches to a Storage by the scheme of the path ("s3://bucket/key").
// Paths without a scheme go to Default.
type Router struct {
	Default Storage
	Schemes map[string]Storage
}

// SaveFile saves data with the backend selected for path.
func (r *Router) SaveFile(ctx context.Context, data []byte, path string, contentType string) (string, error) {
	backend := r.Default
	if scheme, _, ok := strings.Cut(path, "://"); ok {
		backend = r.Schemes[strings.ToLower(scheme)]
		if backend == nil {
			return "", fmt.Errorf("%w for scheme %q", ErrStorageNotConfigured, scheme)
		}
	}
	if backend == nil {
		return "", ErrStorageNotConfigured
	}
	return backend.SaveFile(ctx, data, path, contentType)
}

// SaveImage saves img at dest. As with most image tools, the output format
// follows the extension of dest: a PNG result saved as out.jpg is re-encoded
// to JPEG, and vice versa. Bytes that cannot be converted are written as-is.
func SaveImage(ctx context.Context, storage Storage, img GeneratedImage, dest string) (string, error) {
	if storage == nil {
		return "", ErrStorageNotConfigured
	}
	if len(img.Data) == 0 {
		return "", ErrEmptyImageData
	}

	data, contentType := img.Data, img.MIMEType
	if target, ok := MIMETypeFromPath(dest); ok && target != img.MIMEType {
		if imgutil.CanEncode(target) {
			converted, err := imgutil.Transcode(img.Data, target)
			if err != nil {
				slog.WarnContext(ctx, "could not convert image, writing original bytes",
					"from", img.MIMEType, "to", target, "path", dest, "error", err)
			} else {
				data, contentType = converted, target
			}
		} else {
			slog.WarnContext(ctx, "output extension does not match image format",
				"format", img.MIMEType, "path", dest)
		}
	}

	return storage.SaveFile(ctx, data, dest, contentType)
}

// MIMETypeFromPath returns the image MIME type implied by the extension of p.
func MIMETypeFromPath(p string) (string, bool) {
	switch strings.ToLower(path.Ext(p)) {
	case ".png":
		return "image/png", true
	case ".jpg", ".jpeg":
		return "image/jpeg", true
	case ".webp":
		return "image/webp", true
	case ".gif":
		return "image/gif", true
	case ".heic":
		return "image/heic", true
	case ".heif":
		return "image/heif", true
	default:
		return "", false
	}
}
