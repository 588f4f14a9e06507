package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/shopnow/internal/store"
)

const testKey = "shopnow_products"

func testProducts() []Product {
	return []Product{
		{
			ID:          1,
			Title:       "Wireless Headphones",
			Price:       decimal.RequireFromString("59.99"),
			Category:    "Audio",
			ImageRef:    "https://example.com/1.jpg",
			Rating:      4.4,
			Description: "Comfortable over-ear with noise damping.",
		},
		{
			ID:          2,
			Title:       "Smart Watch Series X",
			Price:       decimal.RequireFromString("129.99"),
			Category:    "Wearables",
			ImageRef:    "https://example.com/2.jpg",
			Rating:      4.7,
			Description: "Fitness, notifications & long battery.",
		},
	}
}

func TestStoreRepository_ListEmptyStore(t *testing.T) {
	repo := NewStoreRepository(store.NewMemStore(), testKey)

	products, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestStoreRepository_SeedAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewStoreRepository(store.NewMemStore(), testKey)

	require.NoError(t, repo.Seed(ctx, testProducts()))

	products, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, int64(1), products[0].ID)
	assert.Equal(t, "Wireless Headphones", products[0].Title)
	assert.True(t, decimal.RequireFromString("59.99").Equal(products[0].Price))
	assert.Equal(t, "Wearables", products[1].Category)
	assert.InDelta(t, 4.7, products[1].Rating, 0.001)
}

func TestStoreRepository_SeedDoesNotOverwrite(t *testing.T) {
	ctx := context.Background()
	repo := NewStoreRepository(store.NewMemStore(), testKey)

	require.NoError(t, repo.Seed(ctx, testProducts()))
	require.NoError(t, repo.Seed(ctx, testProducts()[:1]))

	products, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestStoreRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	repo := NewStoreRepository(store.NewMemStore(), testKey)
	require.NoError(t, repo.Seed(ctx, testProducts()))

	p, err := repo.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Smart Watch Series X", p.Title)

	_, err = repo.GetByID(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreRepository_CorruptPayload(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemStore()
	require.NoError(t, kv.Set(ctx, testKey, []byte(`{not json`)))

	repo := NewStoreRepository(kv, testKey)

	_, err := repo.List(ctx)
	var corrupt *CorruptError
	require.ErrorAs(t, err, &corrupt)
	assert.Equal(t, testKey, corrupt.Key)

	// Reseed recovers.
	require.NoError(t, repo.Reseed(ctx, testProducts()))
	products, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestStoreRepository_ReadsOriginalWireFormat(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemStore()
	payload := `[{"id":3,"title":"RGB Gaming Mouse","price":29.99,"category":"Gaming","img":"x.jpg","rating":4.1,"desc":"High precision sensor."}]`
	require.NoError(t, kv.Set(ctx, testKey, []byte(payload)))

	repo := NewStoreRepository(kv, testKey)
	p, err := repo.GetByID(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "RGB Gaming Mouse", p.Title)
	assert.True(t, decimal.RequireFromString("29.99").Equal(p.Price))
}

func TestDefaultSeed(t *testing.T) {
	products, err := DefaultSeed()
	require.NoError(t, err)
	require.Len(t, products, 8)

	seen := make(map[int64]bool, len(products))
	for _, p := range products {
		assert.Positive(t, p.ID)
		assert.False(t, seen[p.ID], "duplicate id %d", p.ID)
		seen[p.ID] = true
		assert.NotEmpty(t, p.Title)
		assert.False(t, p.Price.IsNegative())
		assert.GreaterOrEqual(t, p.Rating, 0.0)
		assert.LessOrEqual(t, p.Rating, 5.0)
	}
	assert.Equal(t, "Wireless Headphones", products[0].Title)
}
