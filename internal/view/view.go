// Package view turns cart snapshots into render-ready view models and keeps
// every mounted surface consistent with the ledger. Markup generation itself
// lives behind the Surface interface; this package only decides what each
// region shows.
package view

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/xenking/shopnow/internal/domain/cart"
)

// MiniCartLimit is how many lines the mini-cart dropdown shows before
// collapsing the rest into a "+N more" count.
const MiniCartLimit = 4

// EmptyCartMessage is the literal empty state shown by cart surfaces.
const EmptyCartMessage = "Your cart is empty"

// ShippingNote is the deferred-shipping line in the order summary.
const ShippingNote = "Calculated at checkout"

// FormatPrice renders a decimal amount for display with exactly two decimal
// places. This is the only place rounding happens.
func FormatPrice(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// BadgeView is the cart-count badge.
type BadgeView struct {
	Count int
}

// LineView is one rendered cart line.
type LineView struct {
	ProductID int64
	Title     string
	ImageRef  string
	Quantity  int
	UnitPrice string
	LineTotal string
}

// MiniCartView is the dropdown summary: at most MiniCartLimit lines plus a
// running subtotal.
type MiniCartView struct {
	Empty    bool
	Message  string
	Lines    []LineView
	More     int
	Subtotal string
}

// CartPageView is the full cart page listing.
type CartPageView struct {
	Empty   bool
	Message string
	Lines   []LineView
}

// SummaryView is the order summary panel. Shipping is not computed here.
type SummaryView struct {
	Subtotal     string
	ShippingNote string
}

// Surface is the external templating collaborator: it receives a view model
// for a named region and owns all markup generation.
type Surface interface {
	RenderBadge(ctx context.Context, v BadgeView) error
	RenderMiniCart(ctx context.Context, v MiniCartView) error
	RenderCartPage(ctx context.Context, v CartPageView) error
	RenderSummary(ctx context.Context, v SummaryView) error
}

// BuildBadge derives the badge view.
func BuildBadge(c cart.Cart) BadgeView {
	return BadgeView{Count: c.TotalItems()}
}

// BuildMiniCart derives the dropdown view from a cart snapshot.
func BuildMiniCart(c cart.Cart) MiniCartView {
	if c.Empty() {
		return MiniCartView{Empty: true, Message: EmptyCartMessage}
	}

	shown := c.Lines
	more := 0
	if len(shown) > MiniCartLimit {
		more = len(shown) - MiniCartLimit
		shown = shown[:MiniCartLimit]
	}

	return MiniCartView{
		Lines:    buildLines(shown),
		More:     more,
		Subtotal: FormatPrice(c.Subtotal()),
	}
}

// BuildCartPage derives the full cart page view.
func BuildCartPage(c cart.Cart) CartPageView {
	if c.Empty() {
		return CartPageView{Empty: true, Message: EmptyCartMessage}
	}
	return CartPageView{Lines: buildLines(c.Lines)}
}

// BuildSummary derives the order summary view.
func BuildSummary(c cart.Cart) SummaryView {
	return SummaryView{
		Subtotal:     FormatPrice(c.Subtotal()),
		ShippingNote: ShippingNote,
	}
}

func buildLines(lines []cart.Line) []LineView {
	out := make([]LineView, len(lines))
	for i, l := range lines {
		out[i] = LineView{
			ProductID: l.ProductID,
			Title:     l.Title,
			ImageRef:  l.ImageRef,
			Quantity:  l.Quantity,
			UnitPrice: FormatPrice(l.Price),
			LineTotal: FormatPrice(l.Total()),
		}
	}
	return out
}
