// Package kv is the snapshot port: each actor's state slice is stored as one
// JSON document under its own key.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Skotchmaster/foodhub/pkg/logging"
)

var ErrNotFound = errors.New("kv: key not found")

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Load decodes the snapshot at key. A missing key yields def(); so does a corrupt
// document, which is dropped so the next Save starts clean.
func Load[T any](ctx context.Context, s Store, key string, def func() T) (T, error) {
	raw, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return def(), nil
	}
	if err != nil {
		return def(), fmt.Errorf("kv get %s: %w", key, err)
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		logging.FromContext(ctx).Warn("snapshot_discarded", "key", key, "reason", "corrupt json", "error", err)
		if delErr := s.Delete(ctx, key); delErr != nil {
			logging.FromContext(ctx).Warn("snapshot_discard_failed", "key", key, "error", delErr)
		}
		return def(), nil
	}
	return v, nil
}

func Save[T any](ctx context.Context, s Store, key string, v T, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("kv encode %s: %w", key, err)
	}
	if err := s.Set(ctx, key, raw, ttl); err != nil {
		return fmt.Errorf("kv set %s: %w", key, err)
	}
	return nil
}

func CartKey(userID string) string          { return "cart:" + userID }
func AddressesKey(userID string) string     { return "addresses:" + userID }
func CourierKey(courierID string) string    { return "courier:profile:" + courierID }
func NotificationsKey(courierID string) string {
	return "courier:notifications:" + courierID
}
func EarningsKey(courierID string) string { return "courier:earnings:" + courierID }
