package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/ifctree/pkg/observability"
)

// GetJSON decodes the entry under key into v. Undecodable entries are
// deleted and reported as a miss. keyType labels the cache hooks.
func GetJSON(ctx context.Context, c Cache, keyType, key string, v any) (bool, error) {
	data, ok, err := c.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if !ok {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		_ = c.Delete(ctx, key)
		observability.Cache().OnCacheMiss(ctx, keyType)
		return false, nil
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return true, nil
}

// SetJSON stores v encoded as JSON under key.
func SetJSON(ctx context.Context, c Cache, keyType, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := c.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
	return nil
}
