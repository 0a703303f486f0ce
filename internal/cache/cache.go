package cache

import (
	"context"
	"errors"

	"storefront/internal/models"
)

// ProductCache is a read-through cache in front of the catalog store.
// Misses and cache failures both fall back to the repository.
type ProductCache interface {
	Get(ctx context.Context, id string) (*models.Product, error)
	Set(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
}

// ErrCacheMiss is returned when the requested product is not cached.
var ErrCacheMiss = errors.New("cache miss")
