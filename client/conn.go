package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
)

// Conn is the live connection handed to hooks and continuations.
//
// Until the response is first inspected it is a pending request: the
// method, headers and output can still be changed. Calling [Conn.StatusCode]
// or [Conn.Body] performs the round trip; the response is cached for the
// rest of the dispatch.
type Conn struct {
	hc     *http.Client
	req    *http.Request
	logger *slog.Logger

	doOutput bool
	output   bytes.Buffer

	sent      bool
	resp      *http.Response
	err       error
	bodyTaken bool
	closed    bool
}

// openConn prepares a pending request for rawURL. Every dispatch uses a
// connection of its own which is torn down once the response is released.
func openConn(ctx context.Context, hc *http.Client, method, rawURL string, logger *slog.Logger) (*Conn, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("instantiating request: %w", err)
	}
	req.Close = true

	return &Conn{hc: hc, req: req, logger: logger}, nil
}

// URL returns the URL the connection targets.
func (c *Conn) URL() *url.URL { return c.req.URL }

// Method returns the pending request's method.
func (c *Conn) Method() string { return c.req.Method }

// SetMethod replaces the pending request's method.
func (c *Conn) SetMethod(method string) error {
	if c.sent {
		return ErrAlreadyConnected
	}
	c.req.Method = method
	return nil
}

// Header returns the pending request's headers.
func (c *Conn) Header() http.Header { return c.req.Header }

// Request exposes the pending request for adjustments the Conn methods
// don't cover, such as cookies or basic auth. Changes after the round
// trip have no effect.
func (c *Conn) Request() *http.Request { return c.req }

// Logger returns the logger scoped to this dispatch.
func (c *Conn) Logger() *slog.Logger { return c.logger }

// SetDoOutput enables or disables sending a request body.
func (c *Conn) SetDoOutput(enabled bool) error {
	if c.sent {
		return ErrAlreadyConnected
	}
	c.doOutput = enabled
	return nil
}

// Writer returns the request body writer. Output mode must be enabled
// first; the body is sent when the response is first inspected.
func (c *Conn) Writer() (io.Writer, error) {
	if !c.doOutput {
		return nil, ErrOutputDisabled
	}
	if c.sent {
		return nil, ErrAlreadyConnected
	}
	return &c.output, nil
}

// connect performs the round trip once.
func (c *Conn) connect() error {
	if c.sent {
		return c.err
	}
	c.sent = true

	if c.doOutput {
		body := c.output.Bytes()
		c.req.ContentLength = int64(len(body))
		c.req.Body = io.NopCloser(bytes.NewReader(body))
		c.req.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(body)), nil
		}
	}

	c.resp, c.err = c.hc.Do(c.req)
	if c.err != nil {
		c.err = fmt.Errorf("exec http do: %w", c.err)
	}

	return c.err
}

// status reports the status code without triggering the round trip.
func (c *Conn) status() (int, bool) {
	if c.resp == nil {
		return 0, false
	}
	return c.resp.StatusCode, true
}

// StatusCode performs the round trip if needed and returns the response status.
func (c *Conn) StatusCode() (int, error) {
	if err := c.connect(); err != nil {
		return 0, err
	}
	return c.resp.StatusCode, nil
}

// ResponseHeader returns the response headers, or nil before the round trip.
func (c *Conn) ResponseHeader() http.Header {
	if c.resp == nil {
		return nil
	}
	return c.resp.Header
}

// ContentLength returns the response's declared length, -1 if unknown.
func (c *Conn) ContentLength() int64 {
	if c.resp == nil {
		return -1
	}
	return c.resp.ContentLength
}

// Body returns the response body. Error statuses (>= 400) are refused
// with a *StatusError; their body stays available through ErrorBody.
// A response without a body yields an empty reader.
func (c *Conn) Body() (io.ReadCloser, error) {
	if err := c.connect(); err != nil {
		return nil, err
	}
	if c.resp.StatusCode >= http.StatusBadRequest {
		return nil, &StatusError{StatusCode: c.resp.StatusCode, Status: c.resp.Status}
	}
	if c.bodyTaken {
		return nil, ErrStreamConsumed
	}
	c.bodyTaken = true

	if c.resp.Body == nil {
		return http.NoBody, nil
	}
	return c.resp.Body, nil
}

// ErrorBody returns the body of an error response, or nil when the
// connection never got a response, the status is not an error, or the
// stream was already handed out.
func (c *Conn) ErrorBody() io.ReadCloser {
	if c.resp == nil || c.resp.StatusCode < http.StatusBadRequest || c.bodyTaken {
		return nil
	}
	c.bodyTaken = true

	if c.resp.Body == nil {
		return nil
	}
	return c.resp.Body
}

// Close releases the response and the connection carrying it.
func (c *Conn) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	if c.resp == nil || c.resp.Body == nil {
		return nil
	}
	if err := c.resp.Body.Close(); err != nil {
		return fmt.Errorf("closing response body: %w", err)
	}
	return nil
}
