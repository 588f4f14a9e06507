package dispatch

import (
	"context"

	"github.com/google/uuid"
)

// actionIDKey is the context key for the action ID value.
type actionIDKey struct{}

// ActionIDFromContext extracts the action ID from the context.
// It returns an empty string if no action ID is present.
func ActionIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(actionIDKey{}).(string); ok {
		return id
	}
	return ""
}

// ActionID returns a middleware that tags every action with a fresh UUID v4,
// stored in the context (retrieve with ActionIDFromContext). The ID ties log
// lines and spans of one interaction together.
func ActionID() Middleware {
	return func(next Action) Action {
		return func(ctx context.Context) error {
			ctx = context.WithValue(ctx, actionIDKey{}, uuid.New().String())
			return next(ctx)
		}
	}
}
