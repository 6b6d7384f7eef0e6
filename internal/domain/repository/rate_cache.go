package repository

import "context"

// RateCache is a read-through cache for the rate table
type RateCache interface {
	// TryLoad decodes a fresh cached value into dst. Any failure means "refetch".
	TryLoad(ctx context.Context, dst interface{}) error

	// Store replaces the cached value
	Store(ctx context.Context, data interface{}) error
}
