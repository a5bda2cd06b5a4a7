package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// BytesCache is a minimal cache API storing raw bytes with TTL.
// A ttl of zero stores the value without expiry.
type BytesCache interface {
	GetBytes(ctx context.Context, key string) (b []byte, ok bool, err error)
	SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Key joins a namespace and its parts with ':'.
func Key(prefix string, parts ...string) string {
	if len(parts) == 0 {
		return prefix
	}
	return prefix + ":" + strings.Join(parts, ":")
}

// GetJSON decodes the cached value at key into dest.
// A value that no longer decodes is reported as a miss.
func GetJSON(ctx context.Context, c BytesCache, key string, dest interface{}) (bool, error) {
	b, ok, err := c.GetBytes(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(b, dest); err != nil {
		return false, nil
	}
	return true, nil
}

// SetJSON encodes v and stores it at key.
func SetJSON(ctx context.Context, c BytesCache, key string, v interface{}, ttl time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode cache value: %w", err)
	}
	return c.SetBytes(ctx, key, b, ttl)
}
