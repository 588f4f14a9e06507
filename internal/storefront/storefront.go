// Package storefront maps user interactions onto the domain services and the
// external collaborators (rendering surface, notifier, navigator). It owns
// the translation of domain errors into user-visible notices: nothing below
// it talks to the user, nothing above it talks to the domain.
package storefront

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/shopnow/internal/domain/cart"
	"github.com/xenking/shopnow/internal/domain/catalog"
	"github.com/xenking/shopnow/internal/domain/query"
	"github.com/xenking/shopnow/internal/view"
)

// Navigator is the routing collaborator: the storefront emits navigation
// requests and reads nothing back.
type Navigator interface {
	GoToProduct(ctx context.Context, id int64) error
	GoToCart(ctx context.Context) error
}

// Storefront wires one user session. All cart reads and writes funnel
// through the ledger; the storefront never touches the store directly.
type Storefront struct {
	catalog  catalog.Repository
	ledger   *cart.Ledger
	queries  *query.Engine
	views    *view.Reconciler
	notifier view.Notifier
	nav      Navigator
}

// New constructs a Storefront and subscribes the view reconciler to the
// ledger, so every successful mutation re-renders all mounted regions.
func New(
	products catalog.Repository,
	ledger *cart.Ledger,
	queries *query.Engine,
	views *view.Reconciler,
	notifier view.Notifier,
	nav Navigator,
) *Storefront {
	s := &Storefront{
		catalog:  products,
		ledger:   ledger,
		queries:  queries,
		views:    views,
		notifier: notifier,
		nav:      nav,
	}
	ledger.Subscribe(views.Apply)
	return s
}

// Startup performs the initial render of all mounted regions from the
// persisted cart.
func (s *Storefront) Startup(ctx context.Context) {
	s.views.Apply(ctx, s.ledger.Get(ctx))
}

// listCatalog loads the catalog for listing operations. A corrupt payload
// degrades to an empty catalog with a notice; startup reseeding owns the
// recovery, a mid-session listing must never become a fatal error.
func (s *Storefront) listCatalog(ctx context.Context) ([]catalog.Product, error) {
	products, err := s.catalog.List(ctx)
	if err != nil {
		var corrupt *catalog.CorruptError
		if errors.As(err, &corrupt) {
			zctx.From(ctx).Warn("Catalog payload corrupt, listing empty",
				zap.String("key", corrupt.Key), zap.Error(corrupt.Err))
			s.notifier.Notify(ctx, view.NewToast("Catalog unavailable"))
			return nil, nil
		}
		return nil, errors.Wrap(err, "list catalog")
	}
	return products, nil
}

// Browse returns the filtered, sorted listing view. A malformed filter
// expression is surfaced as a notice and ignored rather than failing the
// whole listing.
func (s *Storefront) Browse(ctx context.Context, f query.Filters) ([]catalog.Product, error) {
	products, err := s.listCatalog(ctx)
	if err != nil {
		return nil, err
	}

	list, err := s.queries.DeriveView(products, f)
	if err != nil {
		zctx.From(ctx).Warn("Filter expression rejected",
			zap.String("expr", f.Expr), zap.Error(err))
		s.notifier.Notify(ctx, view.NewToast("Invalid filter expression"))
		f.Expr = ""
		return s.queries.DeriveView(products, f)
	}
	return list, nil
}

// Categories returns the distinct catalog categories for filter controls.
func (s *Storefront) Categories(ctx context.Context) ([]string, error) {
	products, err := s.listCatalog(ctx)
	if err != nil {
		return nil, err
	}
	return query.DistinctCategories(products), nil
}

// ViewProduct returns the product for a detail view. catalog.ErrNotFound is
// passed through untouched: the caller renders a "not found" view.
func (s *Storefront) ViewProduct(ctx context.Context, id int64) (*catalog.Product, error) {
	return s.catalog.GetByID(ctx, id)
}

// OpenProduct validates id and emits a navigation request to its detail
// page. An unknown id becomes a notice, not an error.
func (s *Storefront) OpenProduct(ctx context.Context, id int64) error {
	if _, err := s.catalog.GetByID(ctx, id); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			s.notifier.Notify(ctx, view.NewToast("Product not found"))
			return nil
		}
		return errors.Wrapf(err, "resolve product %d", id)
	}
	return s.nav.GoToProduct(ctx, id)
}

// AddToCart adds qty units of the product. Non-positive quantities clamp to
// the input minimum of 1. An unknown product id leaves the cart untouched
// and surfaces a notice.
func (s *Storefront) AddToCart(ctx context.Context, id int64, qty int) error {
	if qty < 1 {
		qty = 1
	}

	line, err := s.ledger.Add(ctx, id, qty)
	if err != nil {
		var nf *cart.ProductNotFoundError
		if errors.As(err, &nf) {
			s.notifier.Notify(ctx, view.NewToast("Product not found"))
			return nil
		}
		return errors.Wrapf(err, "add product %d", id)
	}

	s.notifier.Notify(ctx, view.NewToast(fmt.Sprintf("%s added to cart", line.Title)))
	return nil
}

// IncrementLine raises the line's quantity by one.
func (s *Storefront) IncrementLine(ctx context.Context, id int64) error {
	return s.ledger.ChangeQuantity(ctx, id, 1)
}

// DecrementLine lowers the line's quantity by one; the last unit removes the
// line entirely.
func (s *Storefront) DecrementLine(ctx context.Context, id int64) error {
	return s.ledger.ChangeQuantity(ctx, id, -1)
}

// RemoveLine removes the line unconditionally; absent ids are a no-op.
func (s *Storefront) RemoveLine(ctx context.Context, id int64) error {
	return s.ledger.Remove(ctx, id)
}

// ClearCart empties the cart.
func (s *Storefront) ClearCart(ctx context.Context) error {
	return s.ledger.Clear(ctx)
}

// OpenCart emits navigation to the cart page, mounts its regions, and
// renders them from the current snapshot.
func (s *Storefront) OpenCart(ctx context.Context) error {
	if err := s.nav.GoToCart(ctx); err != nil {
		return errors.Wrap(err, "navigate to cart")
	}
	s.views.Mount(view.RegionCartPage, view.RegionSummary)
	s.views.Apply(ctx, s.ledger.Get(ctx))
	return nil
}

// CloseCart unmounts the cart page regions when navigating away.
func (s *Storefront) CloseCart() {
	s.views.Unmount(view.RegionCartPage, view.RegionSummary)
}

// Cart returns the current cart snapshot for read-only consumers.
func (s *Storefront) Cart(ctx context.Context) cart.Cart {
	return s.ledger.Get(ctx)
}
