package tracing

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func TestNewDisabled(t *testing.T) {
	t.Parallel()

	for _, exporter := range []string{"", ExporterNone} {
		tr, err := New(context.Background(), Config{ServiceName: "schema-server", Exporter: exporter})
		if err != nil {
			t.Fatalf("New(%q) error = %v", exporter, err)
		}
		if tr.Enabled() {
			t.Fatalf("New(%q) Enabled() = true, want false", exporter)
		}
		if err := tr.Shutdown(context.Background()); err != nil {
			t.Fatalf("Shutdown() error = %v", err)
		}
	}
}

func TestNewUnknownExporter(t *testing.T) {
	t.Parallel()

	if _, err := New(context.Background(), Config{Exporter: "zipkin"}); err == nil {
		t.Fatal("New() error = nil, want unknown exporter error")
	}
}

func TestMiddlewarePassthroughWhenDisabled(t *testing.T) {
	t.Parallel()

	tr, err := New(context.Background(), Config{Exporter: ExporterNone})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	var sawSpan bool
	h := Middleware(tr)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawSpan = trace.SpanContextFromContext(r.Context()).IsValid()
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/schema", nil))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if sawSpan {
		t.Fatal("disabled middleware should not create spans")
	}
}

// Not parallel: New installs the global tracer provider.
func TestMiddlewareExportsServerSpan(t *testing.T) {
	var out bytes.Buffer
	tr, err := New(context.Background(), Config{
		ServiceName: "schema-server",
		Exporter:    ExporterStdout,
		SampleRate:  1,
		Writer:      &out,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if !tr.Enabled() {
		t.Fatal("Enabled() = false, want true")
	}

	var sawSpan bool
	h := Middleware(tr)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawSpan = trace.SpanContextFromContext(r.Context()).IsValid()
		w.WriteHeader(http.StatusInternalServerError)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/schema", nil))

	if err := tr.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	if !sawSpan {
		t.Fatal("handler did not receive a span context")
	}
	if !strings.Contains(out.String(), `"Name":"GET /schema"`) {
		t.Fatalf("exported spans do not contain server span:\n%s", out.String())
	}
}

func TestStatusWriterSupportsResponseController(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	rw := &statusWriter{ResponseWriter: rec, status: http.StatusOK}

	if err := http.NewResponseController(rw).Flush(); err != nil {
		t.Fatalf("Flush() through statusWriter error = %v", err)
	}
	if !rec.Flushed {
		t.Fatal("underlying recorder was not flushed")
	}
}
