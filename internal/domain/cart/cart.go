// Package cart owns the shopping cart state machine: mutations, totals, and
// the CartChanged notification contract.
package cart

import (
	"fmt"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrInvalidQuantity is returned when an add is attempted with a
// non-positive quantity. Input boundaries clamp to a minimum of 1, so this
// normally never fires.
var ErrInvalidQuantity = errors.New("quantity must be greater than 0")

// ProductNotFoundError indicates an add referenced a product id absent from
// the catalog. The cart is left untouched.
type ProductNotFoundError struct {
	ProductID int64
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", e.ProductID)
}

// Line is one product entry in the cart. Title, Price, and ImageRef are a
// snapshot of the product taken at add time; later catalog changes do not
// affect existing lines. Quantity is always >= 1: a line that would drop to
// zero is removed instead.
type Line struct {
	ProductID int64
	Title     string
	Price     decimal.Decimal
	ImageRef  string
	Quantity  int
}

// Total returns Price x Quantity for this line.
func (l Line) Total() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is an insertion-ordered sequence of lines with at most one line per
// product id.
type Cart struct {
	Lines []Line
}

// Empty reports whether the cart has no lines.
func (c Cart) Empty() bool { return len(c.Lines) == 0 }

// Subtotal returns the sum of price x quantity over all lines. No rounding
// is applied; display formatting owns that.
func (c Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range c.Lines {
		sum = sum.Add(l.Total())
	}
	return sum
}

// TotalItems returns the sum of quantities across lines, as shown on the
// cart badge.
func (c Cart) TotalItems() int {
	total := 0
	for _, l := range c.Lines {
		total += l.Quantity
	}
	return total
}

// clone returns a deep copy so subscribers never observe later mutations.
func (c Cart) clone() Cart {
	lines := make([]Line, len(c.Lines))
	copy(lines, c.Lines)
	return Cart{Lines: lines}
}
