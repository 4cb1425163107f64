// Package watcher detects changes of the served document on disk.
//
// It only reports: the request path never reads from the watcher, so the
// document is still loaded fresh on every request.
package watcher

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/sentoz/schema-server/internal/document"
	"github.com/sentoz/schema-server/internal/metrics"
)

// Status describes the document as seen by one check.
type Status struct {
	Path    string
	Present bool
	Valid   bool
	Size    int
	// Reason is the document.Reason label of Err.
	Reason string
	Err    error
}

// Watcher compares the document content against the previous check.
type Watcher struct {
	source   *document.Source
	metrics  *metrics.Metrics
	onChange func(context.Context, Status)

	mu         sync.Mutex
	lastSig    [sha256.Size]byte
	hasLastSig bool
	// readFailure is the reason of the last read error, empty after a
	// successful read.
	readFailure string
}

// New creates a watcher for source. onChange may be nil.
func New(source *document.Source, m *metrics.Metrics, onChange func(context.Context, Status)) (*Watcher, error) {
	if source == nil {
		return nil, fmt.Errorf("watcher: document source is required")
	}

	return &Watcher{
		source:   source,
		metrics:  m,
		onChange: onChange,
	}, nil
}

// Check reads the document and reports whether its state changed since the
// previous call. The first call always reports a change.
func (w *Watcher) Check(ctx context.Context) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	raw, err := w.source.ReadRaw(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return false
		}
		reason := document.Reason(err)
		if reason == w.readFailure {
			return false
		}
		w.readFailure = reason
		w.hasLastSig = false
		w.report(ctx, Status{Path: w.source.Path(), Reason: reason, Err: err})
		return true
	}

	sig := sha256.Sum256(raw)
	if w.readFailure == "" && w.hasLastSig && sig == w.lastSig {
		return false
	}

	w.readFailure = ""
	w.lastSig = sig
	w.hasLastSig = true

	status := Status{Path: w.source.Path(), Present: true, Size: len(raw)}
	if _, err := document.Decode(raw); err != nil {
		status.Err = err
		status.Reason = document.Reason(err)
	} else {
		status.Valid = true
	}

	w.report(ctx, status)
	return true
}

func (w *Watcher) report(ctx context.Context, st Status) {
	w.metrics.IncDocumentChanges()
	w.metrics.SetDocumentState(st.Valid, st.Size)

	switch {
	case !st.Present:
		log.Warn().Err(st.Err).Str("document_path", st.Path).Str("reason", st.Reason).Msg("Document is not available")
	case !st.Valid:
		log.Warn().Err(st.Err).Str("document_path", st.Path).Int("size", st.Size).Msg("Document changed and is not valid JSON")
	default:
		log.Info().Str("document_path", st.Path).Int("size", st.Size).Msg("Document changed")
	}

	if w.onChange != nil {
		w.onChange(ctx, st)
	}
}
