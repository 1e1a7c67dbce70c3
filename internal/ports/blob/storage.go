package blob

import (
	"context"
	"errors"
	"io"
)

var ErrNotFound = errors.New("blob not found")

// Storage guarda imágenes y devuelve una key recuperable.
// El core solo guarda la referencia; nunca toca los bytes.
type Storage interface {
	Put(ctx context.Context, filename, contentType string, r io.Reader) (key string, err error)
	Open(ctx context.Context, key string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, key string) error
}
