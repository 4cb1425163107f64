package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sentoz/schema-server/internal/document"
	"github.com/sentoz/schema-server/internal/metrics"
)

func TestWatcherReportsOnlyChanges(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cigarmaestro.json")
	write := func(content string) {
		t.Helper()
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("write document: %v", err)
		}
	}

	var got []Status
	w, err := New(document.NewSource(path), metrics.New(), func(_ context.Context, st Status) {
		got = append(got, st)
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx := context.Background()
	steps := []struct {
		name        string
		prepare     func()
		wantChanged bool
		wantPresent bool
		wantValid   bool
		wantReason  string
	}{
		{name: "missing at start", prepare: func() {}, wantChanged: true, wantReason: document.ReasonNotFound},
		{name: "still missing", prepare: func() {}, wantChanged: false},
		{name: "created", prepare: func() { write(`{"flavor": "maduro"}`) }, wantChanged: true, wantPresent: true, wantValid: true},
		{name: "unchanged", prepare: func() {}, wantChanged: false},
		{name: "same content rewritten", prepare: func() { write(`{"flavor": "maduro"}`) }, wantChanged: false},
		{name: "broken", prepare: func() { write(`{"flavor": `) }, wantChanged: true, wantPresent: true, wantValid: false, wantReason: document.ReasonInvalid},
		{name: "fixed", prepare: func() { write(`[]`) }, wantChanged: true, wantPresent: true, wantValid: true},
		{name: "deleted", prepare: func() { _ = os.Remove(path) }, wantChanged: true, wantReason: document.ReasonNotFound},
		{name: "recreated with same content", prepare: func() { write(`[]`) }, wantChanged: true, wantPresent: true, wantValid: true},
	}

	for _, step := range steps {
		step.prepare()
		before := len(got)

		if changed := w.Check(ctx); changed != step.wantChanged {
			t.Fatalf("%s: Check() = %v, want %v", step.name, changed, step.wantChanged)
		}
		if !step.wantChanged {
			if len(got) != before {
				t.Fatalf("%s: onChange called without a change", step.name)
			}
			continue
		}

		st := got[len(got)-1]
		if st.Present != step.wantPresent || st.Valid != step.wantValid || st.Reason != step.wantReason {
			t.Fatalf("%s: status = %+v, want present=%v valid=%v reason=%q",
				step.name, st, step.wantPresent, step.wantValid, step.wantReason)
		}
	}
}

func TestWatcherReportsReadFailureKindChanges(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cigarmaestro.json")

	var got []string
	w, err := New(document.NewSource(path), nil, func(_ context.Context, st Status) {
		got = append(got, st.Reason)
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx := context.Background()
	steps := []struct {
		name        string
		prepare     func()
		wantChanged bool
	}{
		{name: "missing", prepare: func() {}, wantChanged: true},
		// A directory in place of the file cannot be read, even as root.
		{name: "unreadable", prepare: func() {
			if err := os.Mkdir(path, 0o700); err != nil {
				t.Fatalf("mkdir: %v", err)
			}
		}, wantChanged: true},
		{name: "still unreadable", prepare: func() {}, wantChanged: false},
		{name: "missing again", prepare: func() {
			if err := os.Remove(path); err != nil {
				t.Fatalf("remove: %v", err)
			}
		}, wantChanged: true},
	}

	for _, step := range steps {
		step.prepare()
		if changed := w.Check(ctx); changed != step.wantChanged {
			t.Fatalf("%s: Check() = %v, want %v", step.name, changed, step.wantChanged)
		}
	}

	want := []string{document.ReasonNotFound, document.ReasonUnreadable, document.ReasonNotFound}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("reported reasons mismatch (-want +got):\n%s", diff)
	}
}

func TestNewRequiresSource(t *testing.T) {
	t.Parallel()

	if _, err := New(nil, nil, nil); err == nil {
		t.Fatal("New(nil) error = nil, want error")
	}
}
