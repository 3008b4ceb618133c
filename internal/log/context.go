// SPDX-License-Identifier: MIT

// Package log provides structured logging utilities.
package log

import (
	"context"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

type ctxKey string

const requestIDKey ctxKey = "request_id"

// ContextWithRequestID stores the provided request ID in the context.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the request ID from context if present.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// WithContext enriches the supplied logger with correlation fields from context.
func WithContext(ctx context.Context, logger zerolog.Logger) zerolog.Logger {
	if ctx == nil {
		return logger
	}
	rid := RequestIDFromContext(ctx)
	sc := trace.SpanContextFromContext(ctx)
	if rid == "" && !sc.IsValid() {
		return logger
	}
	builder := logger.With()
	if rid != "" {
		builder = builder.Str(FieldRequestID, rid)
	}
	if sc.IsValid() {
		builder = builder.
			Str("trace_id", sc.TraceID().String()).
			Str("span_id", sc.SpanID().String())
	}
	return builder.Logger()
}

// WithTraceContext returns the base logger enriched with the trace and span IDs
// of the span carried by ctx, if any.
func WithTraceContext(ctx context.Context) zerolog.Logger {
	return WithContext(ctx, Base())
}

// WithComponentFromContext returns a logger that is annotated with the component
// name and enriched with correlation fields from ctx.
func WithComponentFromContext(ctx context.Context, component string) zerolog.Logger {
	return WithContext(ctx, WithComponent(component))
}
