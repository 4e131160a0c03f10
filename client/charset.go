package client

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// DefaultEncoding is the charset used for parameters, bodies and
// response content unless overridden.
const DefaultEncoding = "UTF-8"

// lookupEncoding resolves a charset name such as "UTF-8", "ISO-8859-1"
// or "Shift_JIS" using the IANA registry first and the WHATWG labels second.
func lookupEncoding(name string) (encoding.Encoding, error) {
	if strings.EqualFold(name, DefaultEncoding) {
		return unicode.UTF8, nil
	}

	if enc, err := ianaindex.IANA.Encoding(name); err == nil && enc != nil {
		return enc, nil
	}
	if enc, err := htmlindex.Get(name); err == nil {
		return enc, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrInvalidEncoding, name)
}

// encodeQuery form-encodes s after transcoding it to the named charset.
func encodeQuery(charset, s string) (string, error) {
	enc, err := lookupEncoding(charset)
	if err != nil {
		return "", err
	}

	b, err := enc.NewEncoder().String(s)
	if err != nil {
		return "", fmt.Errorf("%w: %q cannot represent %q: %w", ErrInvalidEncoding, charset, s, err)
	}

	return url.QueryEscape(b), nil
}

// encodeText transcodes s from UTF-8 to the named charset.
func encodeText(charset, s string) ([]byte, error) {
	enc, err := lookupEncoding(charset)
	if err != nil {
		return nil, err
	}

	b, err := enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("encoding body as %s: %w", charset, err)
	}

	return b, nil
}

// decodeText transcodes b from the named charset to UTF-8.
func decodeText(charset string, b []byte) (string, error) {
	enc, err := lookupEncoding(charset)
	if err != nil {
		return "", err
	}

	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("decoding content as %s: %w", charset, err)
	}

	return string(out), nil
}
