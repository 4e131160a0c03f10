package client

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const spanName = "curl.dispatch"

// startSpan opens the span covering one dispatch.
func (c *Client) startSpan(ctx context.Context, method, finalURL string) (context.Context, trace.Span) {
	ctx, span := c.tracer.Start(ctx, spanName, trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("http.url", finalURL),
	)

	return ctx, span
}

// injectTrace writes the span context into the outgoing headers using
// the global propagator. The default propagator writes nothing.
func injectTrace(ctx context.Context, h http.Header) {
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(h))
}

func endSpan(span trace.Span, conn *Conn, err error) {
	if conn != nil {
		if code, ok := conn.status(); ok {
			span.SetAttributes(attribute.Int("http.status_code", code))
		}
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
