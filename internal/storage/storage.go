package storage

import (
	"context"
	"errors"
	"io"
)

// ErrObjectNotFound is returned when no object is stored under a key.
var ErrObjectNotFound = errors.New("object not found")

// Object is a stored binary opened for reading. Callers must close Body.
type Object struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// Storage keeps uploaded product images keyed by generated filename.
type Storage interface {
	Save(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	Open(ctx context.Context, key string) (*Object, error)
}
