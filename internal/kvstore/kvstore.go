// Package kvstore provides the key-value persistence the wallet session and
// the feedback flow keep their local state in.
package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
)

// Store is a string-keyed blob store. A single Get or Set is atomic;
// nothing stronger is promised.
type Store interface {
	// Get returns the stored value and whether the key existed.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// GetJSON decodes the value under key into dst. It reports false when the
// key is absent, leaving dst untouched.
func GetJSON(ctx context.Context, s Store, key string, dst any) (bool, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, raw)
}
