package catalog

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/xenking/shopnow/internal/store"
)

var _ Repository = (*StoreRepository)(nil)

// StoreRepository implements Repository over the persistent key-value store.
// It is read-only apart from the one-time Seed and the Reseed recovery path.
type StoreRepository struct {
	kv  store.KV
	key string
}

// NewStoreRepository returns a StoreRepository reading the catalog from the
// given store key.
func NewStoreRepository(kv store.KV, key string) *StoreRepository {
	return &StoreRepository{kv: kv, key: key}
}

// List returns the full catalog in storage insertion order. A missing key is
// an empty catalog; a malformed payload is a *CorruptError.
func (r *StoreRepository) List(ctx context.Context) ([]Product, error) {
	data, err := r.kv.Get(ctx, r.key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "load catalog")
	}

	products, err := Decode(data)
	if err != nil {
		return nil, &CorruptError{Key: r.key, Err: err}
	}
	return products, nil
}

// GetByID returns the product with the given id, or ErrNotFound.
func (r *StoreRepository) GetByID(ctx context.Context, id int64) (*Product, error) {
	products, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, ErrNotFound
}

// Seed writes products under the catalog key only when it is absent, so an
// already-seeded catalog is never overwritten.
func (r *StoreRepository) Seed(ctx context.Context, products []Product) error {
	_, err := r.kv.Get(ctx, r.key)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return errors.Wrap(err, "check catalog key")
	}
	return r.Reseed(ctx, products)
}

// Reseed unconditionally replaces the stored catalog. Used to recover from a
// corrupt payload and by the seeding tool's force mode.
func (r *StoreRepository) Reseed(ctx context.Context, products []Product) error {
	if err := r.kv.Set(ctx, r.key, Encode(products)); err != nil {
		return errors.Wrap(err, "write catalog")
	}
	return nil
}
