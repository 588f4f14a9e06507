package query

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/shopnow/internal/domain/catalog"
)

func product(id int64, title, price, category string, rating float64) catalog.Product {
	return catalog.Product{
		ID:          id,
		Title:       title,
		Price:       decimal.RequireFromString(price),
		Category:    category,
		Rating:      rating,
		Description: title + " description",
	}
}

func testCatalog() []catalog.Product {
	return []catalog.Product{
		product(1, "Wireless Headphones", "59.99", "Audio", 4.4),
		product(2, "Smart Watch Series X", "129.99", "Wearables", 4.7),
		product(3, "RGB Gaming Mouse", "29.99", "Gaming", 4.1),
	}
}

func ids(list []catalog.Product) []int64 {
	out := make([]int64, len(list))
	for i, p := range list {
		out[i] = p.ID
	}
	return out
}

func TestDeriveView_RecommendedOrdersByRatingDescending(t *testing.T) {
	e := New()

	list, err := e.DeriveView(testCatalog(), Filters{Sort: SortRecommended})
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 1, 3}, ids(list))
}

func TestDeriveView_DefaultsToRecommended(t *testing.T) {
	e := New()

	list, err := e.DeriveView(testCatalog(), Filters{})
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 1, 3}, ids(list))

	unknown, err := e.DeriveView(testCatalog(), Filters{Sort: "nonsense"})
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 1, 3}, ids(unknown))
}

func TestDeriveView_PriceOrdering(t *testing.T) {
	e := New()

	asc, err := e.DeriveView(testCatalog(), Filters{Sort: SortPriceAscending})
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 1, 2}, ids(asc))

	desc, err := e.DeriveView(testCatalog(), Filters{Sort: SortPriceDescending})
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 1, 3}, ids(desc))
}

func TestDeriveView_SortIsStable(t *testing.T) {
	e := New()
	cat := []catalog.Product{
		product(1, "A", "10.00", "X", 4.0),
		product(2, "B", "10.00", "X", 4.0),
		product(3, "C", "10.00", "X", 4.0),
	}

	list, err := e.DeriveView(cat, Filters{Sort: SortPriceAscending})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids(list))
}

func TestDeriveView_SearchIsCaseInsensitive(t *testing.T) {
	e := New()

	list, err := e.DeriveView(testCatalog(), Filters{SearchText: "wireless"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Wireless Headphones", list[0].Title)
}

func TestDeriveView_SearchMatchesDescription(t *testing.T) {
	e := New()
	cat := []catalog.Product{
		product(1, "Headphones", "59.99", "Audio", 4.4),
	}
	cat[0].Description = "Comfortable over-ear with noise damping."

	list, err := e.DeriveView(cat, Filters{SearchText: "NOISE"})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestDeriveView_EmptySearchMatchesEverything(t *testing.T) {
	e := New()

	list, err := e.DeriveView(testCatalog(), Filters{SearchText: "   "})
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestDeriveView_CategoryFilter(t *testing.T) {
	e := New()

	list, err := e.DeriveView(testCatalog(), Filters{Category: "Audio"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Wireless Headphones", list[0].Title)

	all, err := e.DeriveView(testCatalog(), Filters{Category: CategoryAll})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestDeriveView_SearchThenCategory(t *testing.T) {
	e := New()
	cat := []catalog.Product{
		product(1, "Wireless Headphones", "59.99", "Audio", 4.4),
		product(2, "Wireless Speaker", "39.99", "Audio", 4.2),
		product(3, "Wireless Mouse", "19.99", "Gaming", 4.0),
	}

	list, err := e.DeriveView(cat, Filters{SearchText: "wireless", Category: "Audio", Sort: SortPriceAscending})
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 1}, ids(list))
}

func TestDeriveView_ExprFilter(t *testing.T) {
	e := New()

	list, err := e.DeriveView(testCatalog(), Filters{Expr: "price < 100 && rating >= 4.4"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Wireless Headphones", list[0].Title)
}

func TestDeriveView_ExprCompileError(t *testing.T) {
	e := New()

	_, err := e.DeriveView(testCatalog(), Filters{Expr: "price <"})
	require.Error(t, err)
}

func TestDeriveView_ExprProgramsAreCached(t *testing.T) {
	e := New()

	_, err := e.DeriveView(testCatalog(), Filters{Expr: "rating > 4"})
	require.NoError(t, err)
	_, err = e.DeriveView(testCatalog(), Filters{Expr: "rating > 4"})
	require.NoError(t, err)

	e.mu.Lock()
	defer e.mu.Unlock()
	assert.Len(t, e.programs, 1)
}

func TestDeriveView_DoesNotMutateInput(t *testing.T) {
	e := New()
	cat := testCatalog()

	_, err := e.DeriveView(cat, Filters{Sort: SortPriceAscending})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids(cat))
}

func TestDistinctCategories(t *testing.T) {
	cat := []catalog.Product{
		product(1, "A", "1.00", "Audio", 4.0),
		product(2, "B", "2.00", "Gaming", 4.0),
		product(3, "C", "3.00", "Audio", 4.0),
		product(4, "D", "4.00", "Home", 4.0),
	}

	assert.Equal(t, []string{"Audio", "Gaming", "Home"}, DistinctCategories(cat))
	assert.Nil(t, DistinctCategories(nil))
}
