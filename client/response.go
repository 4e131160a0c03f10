package client

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/tidwall/gjson"
)

// Outcome classifies what a dispatch left in its [Response].
type Outcome int

const (
	// OutcomeEmpty means nothing was recorded.
	OutcomeEmpty Outcome = iota
	// OutcomeOK means the body was captured without error.
	OutcomeOK
	// OutcomeDegraded means the body could not be read but the error
	// stream was captured instead; both the content and the error are set.
	OutcomeDegraded
	// OutcomeFailed means an error was recorded and no content captured.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeEmpty:
		return "empty"
	case OutcomeOK:
		return "ok"
	case OutcomeDegraded:
		return "degraded"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Response holds the result of one materialized dispatch. Its content
// lives in a temp file owned by the holder; Close removes it.
type Response struct {
	encoding    string
	statusCode  int
	contentFile string
	contentErr  error
	closed      bool
}

func (r *Response) SetEncoding(encoding string) { r.encoding = encoding }
func (r *Response) SetHTTPStatusCode(code int)  { r.statusCode = code }
func (r *Response) SetContentFile(path string)  { r.contentFile = path }
func (r *Response) SetContentErr(err error)     { r.contentErr = err }

// Encoding returns the charset the content is decoded with.
func (r *Response) Encoding() string { return r.encoding }

// StatusCode returns the HTTP status, 0 if none was received.
func (r *Response) StatusCode() int { return r.statusCode }

// ContentFile returns the temp file holding the content, if any.
func (r *Response) ContentFile() string { return r.contentFile }

// ContentErr returns the error recorded while reading the response. It
// can be set alongside a content file when the error stream was used.
func (r *Response) ContentErr() error { return r.contentErr }

// Outcome classifies the response.
func (r *Response) Outcome() Outcome {
	switch {
	case r.contentFile != "" && r.contentErr == nil:
		return OutcomeOK
	case r.contentFile != "":
		return OutcomeDegraded
	case r.contentErr != nil:
		return OutcomeFailed
	default:
		return OutcomeEmpty
	}
}

// Open opens the content file for reading.
func (r *Response) Open() (io.ReadCloser, error) {
	if r.contentFile == "" || r.closed {
		return nil, ErrNoContent
	}

	f, err := os.Open(r.contentFile)
	if err != nil {
		return nil, fmt.Errorf("opening content: %w", err)
	}

	return f, nil
}

// Bytes returns the raw content.
func (r *Response) Bytes() ([]byte, error) {
	if r.contentFile == "" || r.closed {
		return nil, ErrNoContent
	}

	b, err := os.ReadFile(r.contentFile)
	if err != nil {
		return nil, fmt.Errorf("reading content: %w", err)
	}

	return b, nil
}

// Content returns the content decoded from the response charset.
func (r *Response) Content() (string, error) {
	b, err := r.Bytes()
	if err != nil {
		return "", err
	}

	return decodeText(r.encoding, b)
}

// JSON looks up path in the content, which must be valid JSON. See
// github.com/tidwall/gjson for the path syntax; an empty path returns
// the whole document.
func (r *Response) JSON(path string) (gjson.Result, error) {
	s, err := r.Content()
	if err != nil {
		return gjson.Result{}, err
	}

	if !gjson.Valid(s) {
		return gjson.Result{}, errors.New("content is not valid JSON")
	}

	if path == "" {
		return gjson.Parse(s), nil
	}

	return gjson.Get(s, path), nil
}

// Close removes the content file. Further content accessors return
// [ErrNoContent].
func (r *Response) Close() error {
	if r.closed || r.contentFile == "" {
		r.closed = true
		return nil
	}
	r.closed = true

	if err := os.Remove(r.contentFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing content file: %w", err)
	}

	return nil
}
