package metadata

import (
	"context"
)

// Repository is a small key/value table for cross-restart client state,
// such as the persisted sync summary. Get returns (nil, nil) for a missing
// key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
