package nodetest

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Recorded is a request as the node received it.
type Recorded struct {
	Method   string
	Path     string
	RawQuery string
	Header   http.Header
	Body     []byte
	TraceID  string
}

// Node is a fake node listening on 127.0.0.1.
type Node struct {
	srv    *httptest.Server
	routes *routes

	mu       sync.Mutex
	requests []Recorded
}

// Option configures a Node.
type Option func(*options)

type options struct {
	logger *slog.Logger
	tracer trace.Tracer
	mw     []Middleware
}

// WithLogger sets the logger used for handler errors.
func WithLogger(log *slog.Logger) Option {
	return func(opts *options) {
		opts.logger = log
	}
}

// WithTracer sets the tracer used for server spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(opts *options) {
		opts.tracer = tracer
	}
}

// WithMiddleware appends middleware run around every route, after the
// default error and panic handling.
func WithMiddleware(mw ...Middleware) Option {
	return func(opts *options) {
		opts.mw = append(opts.mw, mw...)
	}
}

// New starts a Node which is shut down when the test ends.
func New(t testing.TB, optFns ...Option) *Node {
	t.Helper()

	var opts options
	for _, opt := range optFns {
		opt(&opts)
	}
	if opts.logger == nil {
		opts.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.tracer == nil {
		opts.tracer = noop.NewTracerProvider().Tracer("nodetest")
	}

	n := &Node{}
	n.routes = &routes{
		mux:    http.NewServeMux(),
		mw:     append([]Middleware{Errors(opts.logger), Panics()}, opts.mw...),
		logger: opts.logger,
		tracer: opts.tracer,
		record: n.record,
	}

	n.srv = httptest.NewServer(n.routes.mux)
	t.Cleanup(n.srv.Close)

	return n
}

// HTTPPort returns the port the node listens on.
func (n *Node) HTTPPort() int {
	u, err := url.Parse(n.srv.URL)
	if err != nil {
		return 0
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		return 0
	}
	return port
}

// URL returns the node's base URL.
func (n *Node) URL() string { return n.srv.URL }

// Handle registers a handler for method and path.
func (n *Node) Handle(method, path string, fn Handler, mw ...Middleware) {
	n.routes.handle(method, path, fn, mw...)
}

// HandleRaw registers a standard http.Handler.
func (n *Node) HandleRaw(method, path string, h http.Handler) {
	n.routes.handle(method, path, adapt(h))
}

// Get registers a handler for GET requests at the given path.
func (n *Node) Get(path string, fn Handler, mw ...Middleware) {
	n.Handle(http.MethodGet, path, fn, mw...)
}

// Post registers a handler for POST requests at the given path.
func (n *Node) Post(path string, fn Handler, mw ...Middleware) {
	n.Handle(http.MethodPost, path, fn, mw...)
}

// Put registers a handler for PUT requests at the given path.
func (n *Node) Put(path string, fn Handler, mw ...Middleware) {
	n.Handle(http.MethodPut, path, fn, mw...)
}

// Delete registers a handler for DELETE requests at the given path.
func (n *Node) Delete(path string, fn Handler, mw ...Middleware) {
	n.Handle(http.MethodDelete, path, fn, mw...)
}

// Requests returns every request received so far, oldest first.
func (n *Node) Requests() []Recorded {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]Recorded, len(n.requests))
	copy(out, n.requests)
	return out
}

// Last returns the most recent request.
func (n *Node) Last() (Recorded, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if len(n.requests) == 0 {
		return Recorded{}, false
	}
	return n.requests[len(n.requests)-1], true
}

func (n *Node) record(r *http.Request, traceID string, body []byte) {
	rec := Recorded{
		Method:   r.Method,
		Path:     r.URL.Path,
		RawQuery: r.URL.RawQuery,
		Header:   r.Header.Clone(),
		Body:     body,
		TraceID:  traceID,
	}

	n.mu.Lock()
	n.requests = append(n.requests, rec)
	n.mu.Unlock()
}

// readBody drains the request body and replaces it so handlers can read it again.
func readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}

	b, err := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(b))
	return b, err
}

// adapt converts a standard http.Handler into a Handler.
func adapt(h http.Handler) Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		h.ServeHTTP(w, r)
		return nil
	}
}
