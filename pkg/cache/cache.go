// Package cache stores rendered chart artifacts between invocations.
//
// Caching is opt-in. A key is derived from everything that determines the
// output bytes (the input table contents, the canonical chart specification
// and the backend name), so a hit can be written out unchanged. Renders
// that depend on an unseeded random draw are never cached.
//
// Two implementations are provided: [FileCache] keeps entries as files
// under a directory, and [NullCache] stores nothing.
package cache

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

// Cache stores opaque byte values under string keys.
type Cache interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A non-positive ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases resources.
	Close() error
}

// DefaultTTL is how long rendered artifacts stay valid.
const DefaultTTL = 7 * 24 * time.Hour

// EnvDir overrides the cache directory.
const EnvDir = "BENCHVIZ_CACHE_DIR"

// DefaultDir returns the cache directory: $BENCHVIZ_CACHE_DIR if set,
// otherwise benchviz under the user cache directory ($XDG_CACHE_HOME on
// Linux).
func DefaultDir() (string, error) {
	if dir := os.Getenv(EnvDir); dir != "" {
		return dir, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "benchviz"), nil
}

// ArtifactKey returns the key of a rendered chart.
func ArtifactKey(inputHash string, spec []byte, backend string) string {
	return hashKey("artifact", inputHash, string(spec), backend)
}
