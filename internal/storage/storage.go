package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

var (
	ErrObjectNotFound = errors.New("media object not found")
	ErrInvalidKey     = errors.New("invalid media key")
)

const (
	BackendLocal = "local"
	BackendS3    = "s3"
)

// Object is an opened media file. Callers must close Body.
type Object struct {
	Body io.ReadCloser
	Size int64
}

// MediaStorage keeps purchasable product files out of public reach.
// Keys are slash separated relative paths.
type MediaStorage interface {
	Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, key string) (*Object, error)
	Backend() string
}

// CleanKey normalizes a key and rejects anything that could escape the root.
func CleanKey(key string) (string, error) {
	if key == "" || strings.ContainsRune(key, 0) || strings.Contains(key, `\`) {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean("/" + key)
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "" || cleaned == "." {
		return "", ErrInvalidKey
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." {
			return "", ErrInvalidKey
		}
	}
	return cleaned, nil
}

// ValidateFileSize validates the file size
func ValidateFileSize(size int64, maxSize int64) error {
	if maxSize > 0 && size > maxSize {
		return fmt.Errorf("file size exceeds maximum allowed size of %d bytes", maxSize)
	}
	return nil
}
