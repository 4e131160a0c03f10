package materialize

import "errors"

// Option defines optional settings for materializing a response.
//
// WithTempDir sets the directory temp files are created in; the
// default is [os.TempDir].
//
// WithProgress enables periodic progress logging via the logger
// supplied to Handle.
//
// WithBufferSize overrides the chunk size used to drain streams.
type Option func(*options) error

type options struct {
	dir      string
	progress bool
	bufSize  int
}

func WithTempDir(dir string) Option {
	return func(opts *options) error {
		if dir == "" {
			return errors.New("temp dir must not be empty")
		}

		opts.dir = dir
		return nil
	}
}

func WithProgress() Option {
	return func(opts *options) error {
		opts.progress = true
		return nil
	}
}

func WithBufferSize(n int) Option {
	return func(opts *options) error {
		if n <= 0 {
			return errors.New("buffer size must be greater than zero")
		}

		opts.bufSize = n
		return nil
	}
}
