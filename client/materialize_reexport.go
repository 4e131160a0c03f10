package client

import "github.com/adamwoolhether/curl/client/materialize"

// MaterializeOption configures how a response is spooled to disk.
type MaterializeOption = materialize.Option

var (
	// ErrResponseAccess is matched when neither the body nor an error
	// stream could be read.
	ErrResponseAccess = materialize.ErrResponseAccess

	// ErrNoStream indicates the connection offered no stream at all.
	ErrNoStream = materialize.ErrNoStream
)

// AccessError is the error delivered when the response could not be read.
type AccessError = materialize.AccessError

// WithTempDir sets the directory content files are created in.
func WithTempDir(dir string) MaterializeOption { return materialize.WithTempDir(dir) }

// WithProgress enables periodic progress logging while a body is spooled.
func WithProgress() MaterializeOption { return materialize.WithProgress() }

// WithBufferSize overrides the chunk size used to drain a response.
func WithBufferSize(n int) MaterializeOption { return materialize.WithBufferSize(n) }
