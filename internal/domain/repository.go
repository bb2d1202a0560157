package domain

import (
	"context"
	"time"
)

// ProductCache defines the interface for caching looked-up products
type ProductCache interface {
	Get(ctx context.Context, key string) (*Product, error)
	Set(ctx context.Context, key string, product *Product, ttl time.Duration) error
}

// BarcodeProvider looks a product up by its numeric barcode.
// Implementations return ErrProductNotFound when they have no match.
type BarcodeProvider interface {
	Name() string
	LookupBarcode(ctx context.Context, barcode string) (*Product, error)
}

// NameProvider searches for a food by free text and returns the first hit.
type NameProvider interface {
	Name() string
	SearchByName(ctx context.Context, name string) (*Product, error)
}
