package cache

import (
	"context"
	"time"
)

// NullCache backs renders run without --cache: every Get misses and
// writes are dropped, so a default invocation keeps no state between runs.
// The pipeline recognises it and skips hashing the input altogether.
type NullCache struct{}

func NewNullCache() Cache { return &NullCache{} }

func (*NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (*NullCache) Delete(context.Context, string) error { return nil }

func (*NullCache) Close() error { return nil }

var _ Cache = (*NullCache)(nil)
