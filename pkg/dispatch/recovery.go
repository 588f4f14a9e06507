package dispatch

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// Recovery returns a middleware that recovers from panics, logs them with a
// stack trace, and converts them into an error so one broken action cannot
// take the session down.
func Recovery() Middleware {
	return func(next Action) Action {
		return func(ctx context.Context) (err error) {
			defer func() {
				if rec := recover(); rec != nil {
					zctx.From(ctx).Error("panic recovered",
						zap.String("action", NameFromContext(ctx)),
						zap.Any("panic", rec),
						zap.Stack("stack"),
					)
					err = errors.Errorf("action panic: %v", rec)
				}
			}()
			return next(ctx)
		}
	}
}
