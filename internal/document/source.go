// Package document reads the served JSON document from disk.
//
// The document is treated as an opaque JSON value. Nothing is cached: every
// Load opens, reads and decodes the file again.
package document

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"unicode/utf8"
)

// Reason labels used for load error metrics.
const (
	ReasonNotFound   = "not_found"
	ReasonUnreadable = "unreadable"
	ReasonInvalid    = "invalid"
	ReasonCanceled   = "canceled"
	ReasonUnknown    = "unknown"
)

// Source reads a JSON document from a fixed path.
type Source struct {
	path string
}

// NewSource returns a Source for the file at path. Relative paths are
// resolved against the process working directory at read time.
func NewSource(path string) *Source {
	return &Source{path: path}
}

// Path returns the configured document path.
func (s *Source) Path() string {
	return s.path
}

// ReadRaw returns the current file content.
func (s *Source) ReadRaw(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("read document %q: %w", s.path, err)
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, s.path)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, s.path, err)
	}

	return raw, nil
}

// Load reads and decodes the document.
func (s *Source) Load(ctx context.Context) (any, error) {
	raw, err := s.ReadRaw(ctx)
	if err != nil {
		return nil, err
	}

	v, err := Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}

	return v, nil
}

// Stat reports whether the document exists and is a regular readable file.
func (s *Source) Stat() error {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, s.path)
		}
		return fmt.Errorf("%w: %s: %v", ErrUnreadable, s.path, err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnreadable, s.path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrUnreadable, s.path)
	}

	return nil
}

// Decode parses raw as exactly one JSON value. Numbers are kept as
// json.Number so their textual precision survives re-encoding.
func Decode(raw []byte) (any, error) {
	// encoding/json would substitute U+FFFD for invalid bytes.
	if !utf8.Valid(raw) {
		return nil, fmt.Errorf("%w: invalid UTF-8", ErrInvalid)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalid)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: extra data after offset %d", ErrInvalid, dec.InputOffset())
	}

	return v, nil
}

// Encode serializes v as JSON followed by a newline. HTML characters are not
// escaped.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return buf.Bytes(), nil
}

// Reason maps a Load or ReadRaw error to a metric label.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return ReasonNotFound
	case errors.Is(err, ErrUnreadable):
		return ReasonUnreadable
	case errors.Is(err, ErrInvalid):
		return ReasonInvalid
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ReasonCanceled
	default:
		return ReasonUnknown
	}
}
