package docstore

import (
	"context"
	"errors"
)

var (
	ErrNotFound        = errors.New("document not found")
	ErrInvalidKey      = errors.New("collection and id must not be empty")
	ErrInvalidDocument = errors.New("document is not valid JSON")
)

// Store reads and writes JSON documents keyed by collection and id.
type Store interface {
	Get(ctx context.Context, collection, id string) ([]byte, error)
	Set(ctx context.Context, collection, id string, data []byte) error
	Delete(ctx context.Context, collection, id string) error
}

func checkKey(collection, id string) error {
	if collection == "" || id == "" {
		return ErrInvalidKey
	}
	return nil
}
