// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package achievements

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/marshaler"
	"github.com/eko/gocache/lib/v4/store"
	ristretto_store "github.com/eko/gocache/store/ristretto/v4"

	"github.com/danielhkuo/voxpop/models"
)

const (
	catalogCacheKey = "achievement-catalog"
	catalogTTL      = 10 * time.Minute
)

// Catalog serves the achievement catalog from an in-process cache
type Catalog struct {
	db     *sql.DB
	client *ristretto.Cache
	cache  *marshaler.Marshaler
}

// NewCatalog creates the cache. Close releases its goroutines.
func NewCatalog(db *sql.DB) (*Catalog, error) {
	client, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1000,
		MaxCost:     1 << 20,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog cache: %w", err)
	}

	cacheManager := cache.New[any](ristretto_store.NewRistretto(client))
	return &Catalog{
		db:     db,
		client: client,
		cache:  marshaler.New(cacheManager),
	}, nil
}

// List returns the catalog, reading the database on a cache miss
func (c *Catalog) List(ctx context.Context) ([]models.Achievement, error) {
	if cached, err := c.cache.Get(ctx, catalogCacheKey, new([]models.Achievement)); err == nil {
		if list, ok := cached.(*[]models.Achievement); ok && len(*list) > 0 {
			return *list, nil
		}
	}

	list, err := listCatalog(ctx, c.db)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, catalogCacheKey, list, store.WithExpiration(catalogTTL)); err != nil {
		slog.Warn("failed to cache catalog", "error", err)
	}
	return list, nil
}

// Invalidate drops the cached catalog
func (c *Catalog) Invalidate(ctx context.Context) error {
	return c.cache.Delete(ctx, catalogCacheKey)
}

func (c *Catalog) Close() {
	c.client.Close()
}
