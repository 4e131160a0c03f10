package client

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is matched by every builder misuse, raised before dispatch.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrInvalidEncoding is joined with [ErrInvalidConfig] for unknown charsets.
	ErrInvalidEncoding = errors.New("invalid encoding")
	// ErrTransport is matched by every [TransportError].
	ErrTransport = errors.New("transport failure")
	// ErrFatal is matched by every [FatalError] returned from [Request.Execute].
	ErrFatal = errors.New("failed to process a request")
	// ErrHTTPStatus is wrapped by [StatusError].
	ErrHTTPStatus = errors.New("http error status")
	// ErrOutputDisabled is returned by [Conn.Writer] before output mode is enabled.
	ErrOutputDisabled = errors.New("output is not enabled on the connection")
	// ErrAlreadyConnected is returned when a pending request is changed after the round trip.
	ErrAlreadyConnected = errors.New("connection already established")
	// ErrStreamConsumed is returned when a response stream is requested twice.
	ErrStreamConsumed = errors.New("response stream already consumed")
	// ErrProxyUnsupported is returned when a proxy is set but the transport cannot route through it.
	ErrProxyUnsupported = errors.New("transport does not support proxies")
	// ErrPanic wraps a panic recovered from a hook or continuation.
	ErrPanic = errors.New("dispatch panicked")
	// ErrNoContent is returned by [Response] accessors when no content file was captured.
	ErrNoContent = errors.New("response has no content")
)

// ConfigError reports a builder misuse for the named operation.
type ConfigError struct {
	Op  string
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrInvalidConfig, e.Op, e.Err)
}

func (e *ConfigError) Unwrap() []error {
	return []error{ErrInvalidConfig, e.Err}
}

// TransportError wraps any failure between opening the connection and
// the success continuation returning.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("failed to access to %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() []error {
	return []error{ErrTransport, e.Err}
}

// FatalError is returned by the synchronous [Request.Execute] for any
// error that reached the error continuation.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%v: %v", ErrFatal, e.Err)
}

func (e *FatalError) Unwrap() []error {
	return []error{ErrFatal, e.Err}
}

// StatusError is returned by [Conn.Body] when the server answered with
// an error status. The body is then only available through [Conn.ErrorBody].
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%v: %s", ErrHTTPStatus, e.Status)
}

func (e *StatusError) Unwrap() error {
	return ErrHTTPStatus
}
