package materialize

import (
	"errors"
	"io"
)

const (
	// TempPattern names every temp file created by Handle.
	TempPattern = "curl-*.tmp"

	// DefaultBufferSize is the chunk size used to drain a stream.
	DefaultBufferSize = 4 << 10 // 4KB
)

var (
	// ErrResponseAccess is matched by every [AccessError].
	ErrResponseAccess = errors.New("failed to access the response")
	// ErrNoStream indicates a connection offered neither an input nor an error stream.
	ErrNoStream = errors.New("no response stream")
)

// Source is the live connection being drained.
type Source interface {
	StatusCode() (int, error)
	Body() (io.ReadCloser, error)
	ErrorBody() io.ReadCloser
}

// Sink accumulates the outcome of a single dispatch.
type Sink interface {
	SetEncoding(encoding string)
	SetHTTPStatusCode(code int)
	SetContentFile(path string)
	SetContentErr(err error)
}

// AccessError is returned when the response could not be read and
// no error stream was available to fall back on.
type AccessError struct {
	Err error
}

func (e *AccessError) Error() string {
	return ErrResponseAccess.Error() + ": " + e.Err.Error()
}

func (e *AccessError) Unwrap() []error {
	return []error{ErrResponseAccess, e.Err}
}

// contentLengther is implemented by sources that know the body size.
type contentLengther interface {
	ContentLength() int64
}
