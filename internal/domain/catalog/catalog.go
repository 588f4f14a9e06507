// Package catalog provides read-only access to the product collection.
package catalog

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist. It is a
// normal outcome for callers rendering a "not found" view, not a failure.
var ErrNotFound = errors.New("product not found")

// CorruptError indicates the stored catalog payload failed to parse.
// Callers recover by falling back to an empty catalog or reseeding.
type CorruptError struct {
	Key string
	Err error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("catalog payload under key %q is corrupt: %v", e.Key, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }

// Product represents a catalog item. Products are seeded once at first run
// and never mutated or deleted within a session.
type Product struct {
	ID          int64
	Title       string
	Price       decimal.Decimal
	Category    string
	ImageRef    string
	Rating      float64
	Description string
}

// Repository defines read operations over the product catalog.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
}
