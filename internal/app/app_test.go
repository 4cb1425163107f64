package app

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/sentoz/schema-server/internal/config"
)

func TestAppServesDocumentUntilCanceled(t *testing.T) {
	t.Parallel()

	docPath := filepath.Join(t.TempDir(), "cigarmaestro.json")
	if err := os.WriteFile(docPath, []byte(`{"flavor": "maduro", "strength": 7}`), 0o600); err != nil {
		t.Fatalf("write document: %v", err)
	}

	cfg, err := config.Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	cfg.Listen = "127.0.0.1:0"
	cfg.MetricsPort = 0
	cfg.DocumentPath = docPath
	cfg.Watch.Enabled = true
	cfg.Watch.Interval = config.Duration{Duration: 50 * time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := New(ctx, cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	resp, err := http.Get("http://" + a.SchemaAddr() + "/schema")
	if err != nil {
		t.Fatalf("GET /schema: %v", err)
	}
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		t.Fatalf("read body: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var got any
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	want := map[string]any{"flavor": "maduro", "strength": float64(7)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("body mismatch (-want +got):\n%s", diff)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := a.Shutdown(shutdownCtx); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
}

func TestNewFailsOnBoundAddress(t *testing.T) {
	t.Parallel()

	cfg, err := config.Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	cfg.Listen = "127.0.0.1:0"
	cfg.MetricsPort = 0

	first, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = first.Shutdown(context.Background()) })

	second := *cfg
	second.Listen = first.SchemaAddr()
	if _, err := New(context.Background(), &second); err == nil {
		t.Fatal("New() on a bound address error = nil, want error")
	}
}

func TestNewRejectsUnmatchableRoute(t *testing.T) {
	t.Parallel()

	cfg, err := config.Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	cfg.Listen = "127.0.0.1:0"
	cfg.MetricsPort = 0
	cfg.Route = "/{bad"

	if _, err := New(context.Background(), cfg); err == nil {
		t.Fatal("New() with route /{bad error = nil, want error")
	}
}
