// Package lookup caches slow-changing upstream reference data.
package lookup

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/ironbridge-erp/ironbridge-erp/internal/workspace"
)

const warehousesKey = "lookup:warehouses"

// WarehouseSource fetches warehouses from the upstream ERP.
type WarehouseSource interface {
	Warehouses(ctx context.Context) ([]workspace.Warehouse, error)
}

// Warehouses serves the warehouse list from Redis, falling back to the
// upstream source. Summaries are never cached here: only lookup data
// whose staleness is harmless.
type Warehouses struct {
	source WarehouseSource
	client *redis.Client
	ttl    time.Duration
	group  singleflight.Group
}

// NewWarehouses builds the cached lookup. A nil client disables caching.
func NewWarehouses(source WarehouseSource, client *redis.Client, ttl time.Duration) *Warehouses {
	return &Warehouses{source: source, client: client, ttl: ttl}
}

// List returns the warehouses, loading through the cache. Concurrent
// cache misses collapse into a single upstream call.
func (w *Warehouses) List(ctx context.Context) ([]workspace.Warehouse, error) {
	if w.client != nil {
		payload, err := w.client.Get(ctx, warehousesKey).Bytes()
		if err == nil {
			var cached []workspace.Warehouse
			if json.Unmarshal(payload, &cached) == nil {
				return cached, nil
			}
		}
	}
	value, err, _ := w.group.Do(warehousesKey, func() (interface{}, error) {
		items, err := w.source.Warehouses(ctx)
		if err != nil {
			return nil, err
		}
		if w.client != nil {
			if raw, err := json.Marshal(items); err == nil {
				_ = w.client.Set(ctx, warehousesKey, raw, w.ttl).Err()
			}
		}
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return value.([]workspace.Warehouse), nil
}

// Invalidate drops the cached list so the next read reloads upstream.
func (w *Warehouses) Invalidate(ctx context.Context) error {
	if w.client == nil {
		return nil
	}
	return w.client.Del(ctx, warehousesKey).Err()
}
