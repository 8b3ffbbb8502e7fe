package cache

import (
	"context"
	"time"
)

// Keys shared by the stats readers and the writers that invalidate them.
const (
	KeyStorageStats = "stats:storage"
	KeyScoreSummary = "stats:scores"
)

type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}
