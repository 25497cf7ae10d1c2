package database

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const slowQueryThreshold = 200 * time.Millisecond

// TraceQuery wraps a database operation in an OpenTelemetry span and logs
// queries that exceed the slow query threshold.
func TraceQuery(ctx context.Context, l *slog.Logger, operation string, fn func(ctx context.Context) error) error {
	tracer := otel.Tracer("todoapp/database")
	ctx, span := tracer.Start(ctx, operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("db.system", "postgresql")),
	)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)

	if elapsed > slowQueryThreshold {
		l.WarnContext(ctx, "slow query",
			slog.String("operation", operation),
			slog.Duration("duration", elapsed),
		)
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
