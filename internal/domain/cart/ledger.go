package cart

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/shopnow/internal/domain/catalog"
	"github.com/xenking/shopnow/internal/store"
)

// Ledger owns the canonical cart in the persistent store. All cart reads and
// writes funnel through it; rendering code only ever sees snapshots.
//
// Every successful mutation persists the cart first and then invokes the
// registered subscribers with the new snapshot, so a subscriber that re-reads
// the store observes its own trigger (read-after-write within one
// interaction).
type Ledger struct {
	kv      store.KV
	key     string
	catalog catalog.Repository
	subs    []func(context.Context, Cart)
}

// NewLedger returns a Ledger persisting the cart under the given store key
// and resolving products through the catalog repository.
func NewLedger(kv store.KV, key string, products catalog.Repository) *Ledger {
	return &Ledger{kv: kv, key: key, catalog: products}
}

// Subscribe registers fn to run after every successful mutation. Intended to
// be called once per subscriber at startup; not safe for concurrent use with
// mutations.
func (l *Ledger) Subscribe(fn func(context.Context, Cart)) {
	l.subs = append(l.subs, fn)
}

// Get returns the current persisted cart. A missing or unparsable payload
// degrades to an empty cart: cart data is not safety-critical, and the worst
// case must be an empty cart rather than an error.
func (l *Ledger) Get(ctx context.Context) Cart {
	data, err := l.kv.Get(ctx, l.key)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			zctx.From(ctx).Warn("Cart read failed, starting empty",
				zap.String("key", l.key), zap.Error(err))
		}
		return Cart{}
	}

	lines, err := Decode(data)
	if err != nil {
		zctx.From(ctx).Warn("Cart payload corrupt, starting empty",
			zap.String("key", l.key), zap.Error(err))
		return Cart{}
	}
	return Cart{Lines: lines}
}

// Add resolves productID in the catalog and adds qty units to the cart.
// An existing line increments its quantity; otherwise a new line with a
// snapshot of the product is appended. Returns the line as it ended up in the
// cart, so callers report the add without resolving the product again.
// Returns *ProductNotFoundError without touching the store when the id is
// unknown.
func (l *Ledger) Add(ctx context.Context, productID int64, qty int) (Line, error) {
	if qty <= 0 {
		return Line{}, ErrInvalidQuantity
	}

	p, err := l.catalog.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return Line{}, &ProductNotFoundError{ProductID: productID}
		}
		return Line{}, errors.Wrapf(err, "resolve product %d", productID)
	}

	c := l.Get(ctx)
	var added Line
	if line := findLine(c.Lines, productID); line != nil {
		line.Quantity += qty
		added = *line
	} else {
		added = Line{
			ProductID: p.ID,
			Title:     p.Title,
			Price:     p.Price,
			ImageRef:  p.ImageRef,
			Quantity:  qty,
		}
		c.Lines = append(c.Lines, added)
	}

	if err := l.commit(ctx, c); err != nil {
		return Line{}, err
	}
	return added, nil
}

// ChangeQuantity adjusts the line for productID by delta. A missing line is
// a no-op. A resulting quantity <= 0 removes the line entirely; the cart
// never holds a zero-quantity line.
func (l *Ledger) ChangeQuantity(ctx context.Context, productID int64, delta int) error {
	c := l.Get(ctx)
	line := findLine(c.Lines, productID)
	if line == nil {
		return nil
	}

	line.Quantity += delta
	if line.Quantity <= 0 {
		c.Lines = dropLine(c.Lines, productID)
	}

	return l.commit(ctx, c)
}

// Remove deletes the line for productID. Removing an absent id is a no-op,
// not an error.
func (l *Ledger) Remove(ctx context.Context, productID int64) error {
	c := l.Get(ctx)
	c.Lines = dropLine(c.Lines, productID)
	return l.commit(ctx, c)
}

// Clear empties the cart.
func (l *Ledger) Clear(ctx context.Context) error {
	return l.commit(ctx, Cart{})
}

// commit persists the cart and then signals CartChanged. Persistence
// strictly precedes notification.
func (l *Ledger) commit(ctx context.Context, c Cart) error {
	if err := l.kv.Set(ctx, l.key, Encode(c.Lines)); err != nil {
		return errors.Wrap(err, "persist cart")
	}
	for _, fn := range l.subs {
		fn(ctx, c.clone())
	}
	return nil
}

func findLine(lines []Line, productID int64) *Line {
	for i := range lines {
		if lines[i].ProductID == productID {
			return &lines[i]
		}
	}
	return nil
}

func dropLine(lines []Line, productID int64) []Line {
	out := lines[:0]
	for _, l := range lines {
		if l.ProductID != productID {
			out = append(out, l)
		}
	}
	return out
}
