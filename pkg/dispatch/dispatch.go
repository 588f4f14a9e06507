// Package dispatch runs user interactions through a middleware chain, giving
// every action a name, an ID, a logger, and a trace span before the domain
// code sees the context.
package dispatch

import (
	"context"

	"github.com/go-faster/errors"
)

// Action is a single named unit of user interaction.
type Action func(ctx context.Context) error

// Middleware wraps an Action with cross-cutting behavior.
type Middleware func(next Action) Action

// nameKey is the context key for the action name.
type nameKey struct{}

// NameFromContext extracts the action name from the context. It returns an
// empty string outside a dispatch.
func NameFromContext(ctx context.Context) string {
	if name, ok := ctx.Value(nameKey{}).(string); ok {
		return name
	}
	return ""
}

// Dispatcher applies a fixed middleware chain to every dispatched action.
type Dispatcher struct {
	chain []Middleware
}

// New returns a Dispatcher. Middlewares run in the order given: the first one
// is the outermost wrapper.
func New(chain ...Middleware) *Dispatcher {
	return &Dispatcher{chain: chain}
}

// Dispatch stores name in the context and runs act through the chain.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, act Action) error {
	if name == "" {
		return errors.New("empty action name")
	}
	ctx = context.WithValue(ctx, nameKey{}, name)

	wrapped := act
	for i := len(d.chain) - 1; i >= 0; i-- {
		wrapped = d.chain[i](wrapped)
	}
	return wrapped(ctx)
}
