package dispatch

import (
	"context"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/xenking/shopnow/pkg/dispatch"

// Instrument returns a middleware that opens a span per action and counts
// dispatches by action name and outcome.
func Instrument(tp trace.TracerProvider, mp metric.MeterProvider) (Middleware, error) {
	tracer := tp.Tracer(instrumentationName)
	meter := mp.Meter(instrumentationName)

	actions, err := meter.Int64Counter("storefront.actions",
		metric.WithDescription("Dispatched storefront actions"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create actions counter")
	}

	return func(next Action) Action {
		return func(ctx context.Context) error {
			name := NameFromContext(ctx)
			ctx, span := tracer.Start(ctx, name,
				trace.WithSpanKind(trace.SpanKindInternal),
			)
			defer span.End()

			err := next(ctx)

			status := "ok"
			if err != nil {
				status = "error"
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			}
			actions.Add(ctx, 1,
				metric.WithAttributes(
					attribute.String("action", name),
					attribute.String("status", status),
				),
			)
			return err
		}
	}, nil
}
