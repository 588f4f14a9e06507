// Package query derives the filtered and sorted listing view of the catalog.
// Everything here is a pure derivation over a catalog snapshot; nothing is
// cached between calls except compiled filter expressions.
package query

import (
	"sort"
	"strings"
	"sync"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
	"github.com/go-faster/errors"

	"github.com/xenking/shopnow/internal/domain/catalog"
)

// SortOrder selects how the derived view is ordered.
type SortOrder string

const (
	// SortRecommended orders by rating, highest first. This is the default.
	SortRecommended SortOrder = "recommended"
	// SortPriceAscending orders by price, lowest first.
	SortPriceAscending SortOrder = "price-ascending"
	// SortPriceDescending orders by price, highest first.
	SortPriceDescending SortOrder = "price-descending"
)

// CategoryAll is the sentinel disabling the category filter.
const CategoryAll = "all"

// Filters holds the listing controls. The zero value matches everything in
// recommended order.
type Filters struct {
	// SearchText matches case-insensitively against title or description.
	SearchText string
	// Category filters by exact category; empty or CategoryAll disables.
	Category string
	// Sort selects the ordering; unknown values fall back to recommended.
	Sort SortOrder
	// Expr is an optional boolean expression evaluated per product with
	// {id, title, price, category, rating} in scope, e.g. "price < 50".
	Expr string
}

// Engine derives catalog views. It carries only a cache of compiled filter
// expressions and is safe for concurrent use.
type Engine struct {
	mu       sync.Mutex
	programs map[string]*exprvm.Program
}

// New returns an Engine with an empty program cache.
func New() *Engine {
	return &Engine{programs: make(map[string]*exprvm.Program)}
}

// DeriveView applies the filters in order (search text, category,
// expression) and then sorts. Sorting is stable: ties keep the catalog's
// prior relative order. The input slice is never mutated.
func (e *Engine) DeriveView(products []catalog.Product, f Filters) ([]catalog.Product, error) {
	list := make([]catalog.Product, 0, len(products))

	if q := strings.ToLower(strings.TrimSpace(f.SearchText)); q != "" {
		for _, p := range products {
			if strings.Contains(strings.ToLower(p.Title), q) ||
				strings.Contains(strings.ToLower(p.Description), q) {
				list = append(list, p)
			}
		}
	} else {
		list = append(list, products...)
	}

	if f.Category != "" && f.Category != CategoryAll {
		filtered := list[:0]
		for _, p := range list {
			if p.Category == f.Category {
				filtered = append(filtered, p)
			}
		}
		list = filtered
	}

	if f.Expr != "" {
		filtered, err := e.applyExpr(list, f.Expr)
		if err != nil {
			return nil, err
		}
		list = filtered
	}

	sortProducts(list, f.Sort)
	return list, nil
}

// DistinctCategories returns the catalog's categories in first-occurrence
// order, for populating filter controls. Computed fresh each call.
func DistinctCategories(products []catalog.Product) []string {
	seen := make(map[string]bool, len(products))
	var out []string
	for _, p := range products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out
}

func (e *Engine) applyExpr(list []catalog.Product, src string) ([]catalog.Product, error) {
	program, err := e.compile(src)
	if err != nil {
		return nil, err
	}

	filtered := list[:0]
	for _, p := range list {
		out, err := exprlang.Run(program, exprEnv(p))
		if err != nil {
			return nil, errors.Wrapf(err, "evaluate filter %q", src)
		}
		if keep, ok := out.(bool); ok && keep {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

func (e *Engine) compile(src string) (*exprvm.Program, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if program, ok := e.programs[src]; ok {
		return program, nil
	}

	program, err := exprlang.Compile(src,
		exprlang.AsBool(),
		exprlang.AllowUndefinedVariables(),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "compile filter %q", src)
	}
	e.programs[src] = program
	return program, nil
}

func exprEnv(p catalog.Product) map[string]any {
	return map[string]any{
		"id":       p.ID,
		"title":    p.Title,
		"price":    p.Price.InexactFloat64(),
		"category": p.Category,
		"rating":   p.Rating,
	}
}

func sortProducts(list []catalog.Product, order SortOrder) {
	switch order {
	case SortPriceAscending:
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Price.LessThan(list[j].Price)
		})
	case SortPriceDescending:
		sort.SliceStable(list, func(i, j int) bool {
			return list[j].Price.LessThan(list[i].Price)
		})
	default:
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Rating > list[j].Rating
		})
	}
}
