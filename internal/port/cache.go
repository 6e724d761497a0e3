package port

import (
	"context"
	"time"
)

// Cache is a best-effort text cache. A miss is reported as ok == false with a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Put(ctx context.Context, key, value string, ttl time.Duration) error
}
