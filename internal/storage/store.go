package storage

import (
	"context"
	"errors"
)

// Logical collection names persisted by the application.
const (
	KeyProducts       = "products"
	KeyCart           = "cart"
	KeyCoupons        = "coupons"
	KeySelectedCoupon = "selected_coupon"
)

// ErrNotFound is returned by Load when nothing has been stored under the name.
var ErrNotFound = errors.New("blob not found")

// BlobStore persists opaque values under logical names.
type BlobStore interface {
	Load(ctx context.Context, name string) ([]byte, error)
	Save(ctx context.Context, name string, value []byte) error
	// SaveMany writes every entry or none of them.
	SaveMany(ctx context.Context, values map[string][]byte) error
	Delete(ctx context.Context, name string) error
}
