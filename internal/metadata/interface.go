package metadata

import (
	"context"
)

// Repository is a flat key/value table. Keys are built with Key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	List(ctx context.Context, prefix string) (map[string][]byte, error)
}
