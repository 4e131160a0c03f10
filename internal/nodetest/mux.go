package nodetest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"slices"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Handler is a http.Handler that returns an error.
type Handler func(ctx context.Context, w http.ResponseWriter, r *http.Request) error

// Middleware defines a signature to chain Handler together.
type Middleware func(handler Handler) Handler

type ctxKey int

const traceKey ctxKey = 1

// TraceID returns the ID the node assigned to the request in ctx.
func TraceID(ctx context.Context) string {
	v, ok := ctx.Value(traceKey).(string)
	if !ok {
		return uuid.Nil.String()
	}
	return v
}

// routes owns the ServeMux and the stack wrapped around every handler.
type routes struct {
	mux    *http.ServeMux
	mw     []Middleware
	logger *slog.Logger
	tracer trace.Tracer
	record func(r *http.Request, traceID string, body []byte)
}

func (rt *routes) handle(method, path string, handler Handler, mw ...Middleware) {
	handler = wrap(mw, handler)
	handler = wrap(rt.mw, handler)

	h := func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		ctx, span := rt.tracer.Start(ctx, "nodetest.handler")
		span.SetAttributes(attribute.String("path", r.RequestURI))
		defer span.End()

		traceID := span.SpanContext().TraceID().String()
		if !span.SpanContext().TraceID().IsValid() {
			traceID = uuid.New().String()
		}

		body, err := readBody(r)
		if err != nil {
			rt.logger.Error("nodetest", "read body", err)
		}
		rt.record(r, traceID, body)

		r = r.WithContext(context.WithValue(ctx, traceKey, traceID))

		if err := handler(r.Context(), w, r); err != nil {
			rt.logger.Error("nodetest", "handle", err)
		}
	}

	rt.mux.HandleFunc(fmt.Sprintf("%s %s", method, path), h)
}

// wrap middleware around the handler and execute in order given.
func wrap(mw []Middleware, handler Handler) Handler {
	for _, mwFn := range slices.Backward(mw) {
		if mwFn != nil {
			handler = mwFn(handler)
		}
	}

	return handler
}
