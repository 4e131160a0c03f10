package client

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/adamwoolhether/curl/client/materialize"
	"github.com/adamwoolhether/curl/client/throttle"
)

const tracerName = "github.com/adamwoolhether/curl/client"

// Client carries the transport and defaults shared by the requests it
// creates. It sets its own *http.Client and *http.Transport, which can
// be customized via optional funcs.
type Client struct {
	c      *http.Client
	logger *slog.Logger
	tracer trace.Tracer

	pool     Executor
	encoding string
	proxy    *url.URL
	matOpts  []materialize.Option

	// proxyAware reports whether the transport honours per-request proxies.
	proxyAware bool
}

// Build creates a Client.
func Build(optFns ...Option) (*Client, error) {
	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying client option: %w", err)
		}
	}

	client := &Client{
		c:        &http.Client{},
		logger:   slog.Default(),
		tracer:   otel.Tracer(tracerName),
		pool:     opts.pool,
		encoding: DefaultEncoding,
		proxy:    opts.proxy,
		matOpts:  opts.matOpts,
	}

	if opts.client != nil {
		cpy := *opts.client
		client.c = &cpy
	}

	if opts.logger != nil {
		client.logger = opts.logger
	}

	if opts.tracer != nil {
		client.tracer = opts.tracer
	}

	if opts.encoding != "" {
		client.encoding = opts.encoding
	}

	if opts.timeout != nil {
		client.c.Timeout = *opts.timeout
	}

	if opts.noFollowRedirects {
		client.c.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	var transport http.RoundTripper
	switch {
	case opts.rt != nil:
		transport = opts.rt
	case opts.client != nil && opts.client.Transport != nil:
		transport = opts.client.Transport
	default:
		transport = http.DefaultTransport
	}
	if base, ok := transport.(*http.Transport); ok {
		transport = proxyTransport(base, opts.proxy)
		client.proxyAware = true
	} else if opts.proxy != nil {
		return nil, fmt.Errorf("configuring proxy: %w", ErrProxyUnsupported)
	}
	if opts.userAgent != "" {
		transport = userAgent{value: opts.userAgent, base: transport}
	}
	if opts.throttle != nil {
		rt, err := throttle.NewRoundTripper(opts.throttle.RPS, opts.throttle.Burst, func() *slog.Logger { return client.logger }, transport)
		if err != nil {
			return nil, fmt.Errorf("configuring throttle: %w", err)
		}
		transport = rt
	}
	client.c.Transport = transport

	return client, nil
}

var defaultClient = sync.OnceValue(func() *Client {
	c, err := Build()
	if err != nil {
		panic(fmt.Sprintf("building default client: %v", err))
	}
	return c
})

// Default returns the client used by the package-level constructors.
func Default() *Client { return defaultClient() }

// NewRequest creates a Request for an absolute URL.
func (c *Client) NewRequest(method, rawURL string) *Request {
	return newRequest(c, method, rawURL)
}

// NodeRequest creates a Request for path on a node listening on localhost.
func (c *Client) NodeRequest(method string, node Node, path string) *Request {
	if node == nil {
		return newRequest(c, method, "").fail("node request", fmt.Errorf("node must not be nil"))
	}
	return newRequest(c, method, nodeURL(node, path))
}

// Logger returns the client's logger.
func (c *Client) Logger() *slog.Logger { return c.logger }
