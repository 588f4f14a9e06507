// Package console drives a storefront session over a line-based terminal.
// The UI type plays the external collaborator roles (rendering surface,
// notifier, navigator); Session turns input lines into dispatched actions.
package console

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/xenking/shopnow/internal/view"
)

// UI renders view models as plain text. Writes are serialized so renders
// triggered from subscriber callbacks never interleave.
type UI struct {
	mu  sync.Mutex
	out io.Writer
}

// NewUI returns a UI writing to out.
func NewUI(out io.Writer) *UI {
	return &UI{out: out}
}

func (u *UI) printf(format string, args ...any) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	_, err := fmt.Fprintf(u.out, format, args...)
	return err
}

// RenderBadge implements view.Surface.
func (u *UI) RenderBadge(_ context.Context, v view.BadgeView) error {
	return u.printf("cart [%d]\n", v.Count)
}

// RenderMiniCart implements view.Surface.
func (u *UI) RenderMiniCart(_ context.Context, v view.MiniCartView) error {
	if v.Empty {
		return u.printf("mini-cart: %s\n", v.Message)
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	if _, err := fmt.Fprintln(u.out, "mini-cart:"); err != nil {
		return err
	}
	for _, l := range v.Lines {
		if _, err := fmt.Fprintf(u.out, "  %s x%d %s\n", l.Title, l.Quantity, l.LineTotal); err != nil {
			return err
		}
	}
	if v.More > 0 {
		if _, err := fmt.Fprintf(u.out, "  +%d more\n", v.More); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(u.out, "  subtotal %s\n", v.Subtotal)
	return err
}

// RenderCartPage implements view.Surface.
func (u *UI) RenderCartPage(_ context.Context, v view.CartPageView) error {
	if v.Empty {
		return u.printf("cart page: %s\n", v.Message)
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	if _, err := fmt.Fprintln(u.out, "cart page:"); err != nil {
		return err
	}
	for _, l := range v.Lines {
		if _, err := fmt.Fprintf(u.out, "  #%d %s  %s x%d = %s\n",
			l.ProductID, l.Title, l.UnitPrice, l.Quantity, l.LineTotal); err != nil {
			return err
		}
	}
	return nil
}

// RenderSummary implements view.Surface.
func (u *UI) RenderSummary(_ context.Context, v view.SummaryView) error {
	return u.printf("summary: subtotal %s, shipping: %s\n", v.Subtotal, v.ShippingNote)
}

// Notify implements view.Notifier. Console toasts are just lines; the
// lifetime is meaningless without a screen to expire them from.
func (u *UI) Notify(_ context.Context, toast view.Toast) {
	_ = u.printf("* %s\n", toast.Text)
}

// GoToProduct implements storefront.Navigator.
func (u *UI) GoToProduct(_ context.Context, id int64) error {
	return u.printf("-> product/%d\n", id)
}

// GoToCart implements storefront.Navigator.
func (u *UI) GoToCart(_ context.Context) error {
	return u.printf("-> cart\n")
}
