// Package kv is the persistence collaborator behind every storefront engine:
// a flat string-keyed store of JSON documents.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Keys of the persisted collections.
const (
	KeyCart         = "cart"
	KeyWishlist     = "wishlist"
	KeyReviews      = "reviews"
	KeyOrders       = "orders"
	KeyUserBehavior = "userBehavior"
	KeyUserCurrency = "userCurrency"
	KeyUserRegion   = "userRegion"
	KeyUserFlag     = "userFlag"
)

var (
	ErrNotFound = errors.New("kv: key not found")
	ErrCorrupt  = errors.New("kv: corrupt value")
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
)

type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

// LoadJSON decodes the value at key into v. It returns ErrNotFound when the
// key is absent and wraps ErrCorrupt when the stored bytes are not valid JSON
// for v.
func LoadJSON(ctx context.Context, s Store, key string, v any) error {
	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("kv: get %q: %w", key, err)
	}
	if !ok {
		return ErrNotFound
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrCorrupt, key, err)
	}
	return nil
}

func SaveJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("kv: encode %q: %w", key, err)
	}
	if err := s.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("kv: set %q: %w", key, err)
	}
	return nil
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
