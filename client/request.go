package client

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// ConnectFunc is a hook given full control over a pending connection.
// It runs after the headers are applied; when installed, no default body
// is written.
type ConnectFunc func(r *Request, conn *Conn) error

// HeaderField is one request header in insertion order.
type HeaderField struct {
	Key   string
	Value string
}

// setup is the tagged alternative between writing a literal body and
// handing the connection to a hook.
type setup interface {
	apply(r *Request, conn *Conn) error
}

type bodySetup struct {
	text string
}

func (s bodySetup) apply(r *Request, conn *Conn) error {
	if err := conn.SetDoOutput(true); err != nil {
		return err
	}
	w, err := conn.Writer()
	if err != nil {
		return err
	}

	b, err := encodeText(r.encoding, s.text)
	if err != nil {
		return err
	}
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("writing body: %w", err)
	}

	return nil
}

type hookSetup struct {
	fn ConnectFunc
}

func (s hookSetup) apply(r *Request, conn *Conn) error {
	return s.fn(r, conn)
}

// Request describes a single HTTP exchange, built with chained calls:
//
//	resp, err := client.NewRequest(http.MethodGet, "http://localhost:9200/_search").
//		Param("q", "title:go").
//		Header("Accept", "application/json").
//		Execute(ctx)
//
// Misuse of the builder is recorded and reported by [Request.Err] and by
// every dispatch method, which then dispatches nothing. The stored URL
// is never modified: query parameters are appended when the final URL
// is computed, so a Request can be dispatched repeatedly.
type Request struct {
	client   *Client
	method   string
	url      string
	proxy    *url.URL
	encoding string
	params   []string
	headers  []HeaderField
	setup    setup
	pool     Executor
	err      error
}

// NewRequest creates a Request on the default client.
func NewRequest(method, rawURL string) *Request {
	return defaultClient().NewRequest(method, rawURL)
}

// NewNodeRequest creates a Request on the default client addressing
// path on the given node.
func NewNodeRequest(method string, node Node, path string) *Request {
	return defaultClient().NodeRequest(method, node, path)
}

func newRequest(c *Client, method, rawURL string) *Request {
	return &Request{
		client:   c,
		method:   method,
		url:      rawURL,
		proxy:    c.proxy,
		encoding: c.encoding,
		pool:     c.pool,
	}
}

// fail records the first builder misuse.
func (r *Request) fail(op string, err error) *Request {
	if r.err == nil {
		r.err = &ConfigError{Op: op, Err: err}
	}
	return r
}

// Err returns the first builder misuse, if any.
func (r *Request) Err() error { return r.err }

// Method returns the HTTP method.
func (r *Request) Method() string { return r.method }

// URL returns the URL the request was built with, without parameters.
func (r *Request) URL() string { return r.url }

// Encoding returns the charset used for parameters, body and response content.
func (r *Request) Encoding() string { return r.encoding }

// ProxyURL returns the proxy the request is routed through, or nil.
func (r *Request) ProxyURL() *url.URL { return r.proxy }

// Params returns the encoded key=value query fragments in insertion order.
func (r *Request) Params() []string { return slices.Clone(r.params) }

// Headers returns the queued headers in insertion order.
func (r *Request) Headers() []HeaderField { return slices.Clone(r.headers) }

// BodyText returns the literal body, if one is set.
func (r *Request) BodyText() (string, bool) {
	b, ok := r.setup.(bodySetup)
	return b.text, ok
}

// FinalURL returns the URL with all query fragments appended: the first
// after '?' (or '&' if the URL already has a query), the rest after '&'.
func (r *Request) FinalURL() string {
	if len(r.params) == 0 {
		return r.url
	}

	var b strings.Builder
	b.WriteString(r.url)

	sep := byte('?')
	if strings.IndexByte(r.url, '?') != -1 {
		sep = '&'
	}
	for _, p := range r.params {
		b.WriteByte(sep)
		b.WriteString(p)
		sep = '&'
	}

	return b.String()
}

// SetMethod replaces the HTTP method.
func (r *Request) SetMethod(method string) *Request {
	r.method = method
	return r
}

// SetEncoding replaces the charset. It must be called before any Param.
func (r *Request) SetEncoding(name string) *Request {
	if len(r.params) > 0 {
		return r.fail("set encoding", errors.New("must be called before any parameter is added"))
	}
	r.encoding = name
	return r
}

// Param form-encodes key and value with the current charset and queues
// them as a query fragment.
func (r *Request) Param(key, value string) *Request {
	k, err := encodeQuery(r.encoding, key)
	if err != nil {
		return r.fail("param", err)
	}
	v, err := encodeQuery(r.encoding, value)
	if err != nil {
		return r.fail("param", err)
	}

	r.params = append(r.params, k+"="+v)
	return r
}

// ParamPtr is Param for optional values: a nil value adds nothing.
func (r *Request) ParamPtr(key string, value *string) *Request {
	if value == nil {
		return r
	}
	return r.Param(key, *value)
}

// Header queues a request header. Duplicates are kept in order.
func (r *Request) Header(key, value string) *Request {
	r.headers = append(r.headers, HeaderField{Key: key, Value: value})
	return r
}

// Body sets a literal request body, written with the current charset.
// Content-Type is left to the caller. Body replaces any OnConnect hook.
func (r *Request) Body(text string) *Request {
	r.setup = bodySetup{text: text}
	return r
}

// OnConnect installs a hook run on the pending connection right after
// the headers are applied. The hook replaces any Body: it alone decides
// what, if anything, is written.
func (r *Request) OnConnect(fn ConnectFunc) *Request {
	if fn == nil {
		return r.fail("on connect", errors.New("hook must not be nil"))
	}
	r.setup = hookSetup{fn: fn}
	return r
}

// Proxy routes the request through u. Supported schemes are http,
// https, socks5 and socks5h.
func (r *Request) Proxy(u *url.URL) *Request {
	if err := checkProxy(u); err != nil {
		return r.fail("proxy", err)
	}
	r.proxy = u
	return r
}

// Pool selects asynchronous dispatch on the given executor. A nil
// executor selects inline dispatch.
func (r *Request) Pool(e Executor) *Request {
	r.pool = e
	return r
}

// snapshot copies the description handed to a dispatch, so later
// builder calls cannot affect it.
func (r *Request) snapshot() *Request {
	cpy := *r
	cpy.params = slices.Clone(r.params)
	cpy.headers = slices.Clone(r.headers)
	return &cpy
}

// validate reports builder misuse and an invalid description.
func (r *Request) validate() error {
	if r.err != nil {
		return r.err
	}

	d := description{Method: r.method, URL: r.url, Encoding: r.encoding}
	if err := check(d); err != nil {
		return &ConfigError{Op: "validate", Err: err}
	}

	return nil
}
