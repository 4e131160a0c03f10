package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/adamwoolhether/curl/client/materialize"
)

// Executor runs dispatch tasks asynchronously. The pool package holds
// the bundled implementation; a Request never shuts its executor down.
type Executor interface {
	Submit(task func()) error
}

// Connect dispatches the request and hands the live connection to
// onConnection. Failures from opening the connection through
// onConnection returning, panics included, are delivered to onError as
// a *TransportError. Exactly one of the two continuations completes per
// dispatch; the connection is closed afterwards either way.
//
// With a pool set the dispatch is submitted and Connect returns at once.
// Otherwise it runs inline. The returned error is only ever a
// configuration error, in which case nothing was dispatched.
func (r *Request) Connect(ctx context.Context, onConnection func(*Conn) error, onError func(error)) error {
	if err := r.validate(); err != nil {
		return err
	}
	if onConnection == nil || onError == nil {
		return &ConfigError{Op: "connect", Err: errors.New("continuations must not be nil")}
	}

	d := r.snapshot()
	task := func() { d.dispatch(ctx, onConnection, onError) }

	if d.pool == nil {
		task()
		return nil
	}

	if err := d.pool.Submit(task); err != nil {
		onError(&TransportError{URL: d.FinalURL(), Err: fmt.Errorf("submitting dispatch: %w", err)})
	}

	return nil
}

// ExecuteAsync dispatches the request and materializes the response into
// a temp file, handing the populated [Response] to onResponse. The
// caller owns the response and should Close it.
func (r *Request) ExecuteAsync(ctx context.Context, onResponse func(*Response), onError func(error)) error {
	if onResponse == nil {
		return &ConfigError{Op: "execute", Err: errors.New("response continuation must not be nil")}
	}

	encoding := r.encoding
	matOpts := r.client.matOpts

	return r.Connect(ctx, func(conn *Conn) error {
		resp := &Response{}
		if err := materialize.Handle(conn, resp, encoding, conn.Logger(), matOpts...); err != nil {
			return err
		}

		onResponse(resp)
		return nil
	}, onError)
}

// Execute dispatches the request inline, ignoring any pool, and returns
// the materialized response. Configuration errors are returned as is;
// every other failure is returned as a *FatalError.
//
// A response whose content came from the error stream is returned with
// a nil error: check [Response.ContentErr] or [Response.Outcome].
func (r *Request) Execute(ctx context.Context) (*Response, error) {
	var (
		resp    *Response
		failure error
	)

	err := r.snapshot().Pool(nil).ExecuteAsync(ctx,
		func(res *Response) { resp = res },
		func(err error) { failure = err },
	)
	if err != nil {
		return nil, err
	}

	if failure != nil {
		return nil, &FatalError{Err: failure}
	}

	return resp, nil
}

// dispatch runs one unit of work: open, set up, hand over, close.
func (r *Request) dispatch(ctx context.Context, onConnection func(*Conn) error, onError func(error)) {
	finalURL := r.FinalURL()
	logger := r.client.logger.With("dispatch_id", uuid.NewString(), "method", r.method, "url", finalURL)

	ctx, span := r.client.startSpan(ctx, r.method, finalURL)

	logger.Debug("dispatch started")

	conn, err := r.run(ctx, finalURL, logger, onConnection)
	if err != nil {
		err = &TransportError{URL: finalURL, Err: err}
		logger.Debug("dispatch failed", "error", err)
		onError(err)
	}

	if conn != nil {
		if cerr := conn.Close(); cerr != nil {
			logger.Error("failed to release connection", "error", cerr)
		}
	}

	endSpan(span, conn, err)

	if err == nil {
		logger.Debug("dispatch finished")
	}
}

func (r *Request) run(ctx context.Context, finalURL string, logger *slog.Logger, onConnection func(*Conn) error) (conn *Conn, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, rec)
		}
	}()

	if r.proxy != nil {
		if !r.client.proxyAware {
			return nil, ErrProxyUnsupported
		}
		ctx = withProxy(ctx, r.proxy)
	}

	conn, err = openConn(ctx, r.client.c, r.method, finalURL, logger)
	if err != nil {
		return nil, err
	}

	for _, h := range r.headers {
		conn.Header().Add(h.Key, h.Value)
	}
	injectTrace(ctx, conn.Header())

	if r.setup != nil {
		if err := r.setup.apply(r, conn); err != nil {
			return conn, err
		}
	}

	if err := onConnection(conn); err != nil {
		return conn, err
	}

	return conn, nil
}
