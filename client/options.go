package client

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/adamwoolhether/curl/client/materialize"
	"github.com/adamwoolhether/curl/client/throttle"
)

// Option is a functional option for configuring a [Client] via [Build].
type Option func(*options) error
type options struct {
	client            *http.Client
	rt                http.RoundTripper
	timeout           *time.Duration
	userAgent         string
	throttle          *throttle.Config
	noFollowRedirects bool
	logger            *slog.Logger
	tracer            trace.Tracer
	proxy             *url.URL
	pool              Executor
	encoding          string
	matOpts           []materialize.Option
}

// WithClient replaces the default [http.Client] used by the [Client].
// The client is copied; its transport is cloned when it is an *http.Transport.
func WithClient(hc *http.Client) Option {
	return func(c *options) error {
		if hc == nil {
			return errors.New("client must not be nil")
		}
		c.client = hc
		return nil
	}
}

// WithTransport sets a custom [http.RoundTripper] as the base transport.
// Only an *http.Transport can route requests through a proxy.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *options) error {
		if rt == nil {
			return errors.New("transport must not be nil")
		}
		c.rt = rt
		return nil
	}
}

// WithTimeout sets the overall request timeout on the underlying [http.Client].
func WithTimeout(d time.Duration) Option {
	return func(c *options) error {
		if d < 0 {
			return errors.New("timeout must not be negative")
		}
		c.timeout = &d
		return nil
	}
}

// WithUserAgent adds a persistent User-Agent header to all outgoing requests.
func WithUserAgent(header string) Option {
	return func(c *options) error {
		c.userAgent = header
		return nil
	}
}

// WithThrottle enables token-bucket rate limiting with the given requests per second and burst capacity.
func WithThrottle(rps, burst int) Option {
	return func(c *options) error {
		cfg := throttle.Config{RPS: rps, Burst: burst}
		if err := cfg.Validate(); err != nil {
			return err
		}
		c.throttle = &cfg
		return nil
	}
}

// WithNoFollowRedirects prevents the [Client] from following HTTP redirects.
func WithNoFollowRedirects() Option {
	return func(c *options) error {
		c.noFollowRedirects = true
		return nil
	}
}

// WithLogger injects a custom [slog.Logger] into the [Client].
func WithLogger(logger *slog.Logger) Option {
	return func(c *options) error {
		c.logger = logger
		return nil
	}
}

// WithTracer sets the tracer dispatch spans are started with. The
// default is the global tracer provider's.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *options) error {
		if tracer == nil {
			return errors.New("tracer must not be nil")
		}
		c.tracer = tracer
		return nil
	}
}

// WithProxy routes every request through u unless the request sets its own.
func WithProxy(u *url.URL) Option {
	return func(c *options) error {
		if err := checkProxy(u); err != nil {
			return err
		}
		c.proxy = u
		return nil
	}
}

// WithPool makes new requests dispatch asynchronously on e.
func WithPool(e Executor) Option {
	return func(c *options) error {
		if e == nil {
			return errors.New("pool must not be nil")
		}
		c.pool = e
		return nil
	}
}

// WithEncoding sets the default charset of new requests.
func WithEncoding(name string) Option {
	return func(c *options) error {
		if _, err := lookupEncoding(name); err != nil {
			return err
		}
		c.encoding = name
		return nil
	}
}

// WithMaterializeOptions sets how responses are spooled to disk.
func WithMaterializeOptions(opts ...MaterializeOption) Option {
	return func(c *options) error {
		c.matOpts = append(c.matOpts, opts...)
		return nil
	}
}

// userAgent is an http.RoundTripper, enabling the persistent User-Agent header.
type userAgent struct {
	value string
	base  http.RoundTripper
}

func (ua userAgent) RoundTrip(r *http.Request) (*http.Response, error) {
	cpy := r.Clone(r.Context())
	cpy.Header.Set("User-Agent", ua.value)
	return ua.base.RoundTrip(cpy)
}
