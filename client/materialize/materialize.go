package materialize

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"
)

// Handle drains src into a temp file and records the outcome on sink.
//
// When reading the status code or the body fails, the error is kept as
// the sink's content error and the connection's error stream, if any,
// is spooled into a new temp file. The sink then carries both the
// original error and the fallback content. Without an error stream the
// original failure is returned as an *AccessError.
func Handle(src Source, sink Sink, encoding string, logger *slog.Logger, optFns ...Option) error {
	opts := options{bufSize: DefaultBufferSize}
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return fmt.Errorf("applying option: %w", err)
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	s := spooler{opts: opts, logger: logger, sink: sink}
	if cl, ok := src.(contentLengther); ok {
		s.total = cl.ContentLength()
	} else {
		s.total = -1
	}

	err := s.primary(src, encoding)
	if err == nil {
		return nil
	}

	errBody := src.ErrorBody()
	if errBody == nil {
		return &AccessError{Err: err}
	}

	if fbErr := s.spool(func() (io.ReadCloser, error) { return errBody, nil }); fbErr != nil {
		logger.Error("spooling error stream", "error", fbErr)
	}

	// The fallback content, if any, stays recorded next to the original failure.
	sink.SetContentErr(err)

	return nil
}

type spooler struct {
	opts   options
	logger *slog.Logger
	sink   Sink
	total  int64
}

func (s *spooler) primary(src Source, encoding string) error {
	s.sink.SetEncoding(encoding)

	code, err := src.StatusCode()
	if err != nil {
		return fmt.Errorf("reading status code: %w", err)
	}
	s.sink.SetHTTPStatusCode(code)

	return s.spool(func() (io.ReadCloser, error) {
		body, err := src.Body()
		if err != nil {
			return nil, err
		}
		if body != nil {
			return body, nil
		}
		if errBody := src.ErrorBody(); errBody != nil {
			return errBody, nil
		}

		return nil, ErrNoStream
	})
}

// spool copies the stream returned by open into a new temp file and
// records its path on the sink. On any error the temp file is removed
// and the error is recorded as the sink's content error.
func (s *spooler) spool(open func() (io.ReadCloser, error)) (err error) {
	file, err := os.CreateTemp(s.opts.dir, TempPattern)
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	var successful bool
	defer func() {
		if cerr := file.Close(); cerr != nil && !errors.Is(cerr, os.ErrClosed) {
			s.logger.Error("defer closing temp file", "error", cerr)
		}
		if !successful {
			if rerr := os.Remove(file.Name()); rerr != nil {
				s.logger.Error("failed to remove temp file", "error", rerr)
			}
			s.sink.SetContentErr(err)
		}
	}()

	body, err := open()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := body.Close(); cerr != nil {
			s.logger.Debug("closing response stream", "error", cerr)
		}
	}()

	var writer io.Writer = file
	if s.opts.progress {
		writer = &progressWriter{
			w:       writer,
			logger:  s.logger,
			total:   s.total,
			started: time.Now(),
		}
	}

	if _, err = copyChunked(writer, body, s.opts.bufSize); err != nil {
		return fmt.Errorf("copying response body: %w", err)
	}

	if err = file.Sync(); err != nil {
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err = file.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	s.sink.SetContentFile(file.Name())
	successful = true

	return nil
}

// copyChunked copies src to dst through a fixed-size buffer until EOF.
// Unlike io.Copy it never delegates to ReaderFrom or WriterTo.
func copyChunked(dst io.Writer, src io.Reader, size int) (int64, error) {
	buf := make([]byte, size)

	var written int64
	for {
		n, rerr := src.Read(buf)
		if n > 0 {
			wn, werr := dst.Write(buf[:n])
			written += int64(wn)
			if werr != nil {
				return written, werr
			}
			if wn != n {
				return written, io.ErrShortWrite
			}
		}
		if rerr == io.EOF {
			return written, nil
		}
		if rerr != nil {
			return written, rerr
		}
	}
}
