package vars

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestParseBuildTime(t *testing.T) {
	t.Parallel()

	fallback := time.Unix(0, 0).UTC()

	tests := []struct {
		name string
		raw  string
		want time.Time
	}{
		{name: "empty", raw: "", want: fallback},
		{name: "garbage", raw: "yesterday", want: fallback},
		{name: "utc", raw: "2026-03-01T10:00:00Z", want: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)},
		{name: "offset normalized", raw: "2026-03-01T13:00:00+03:00", want: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := parseBuildTime(tt.raw, fallback); !got.Equal(tt.want) {
				t.Fatalf("parseBuildTime(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestPrint(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	Print(&buf)

	out := buf.String()
	if !strings.HasPrefix(out, Name+" "+Version+"\n") {
		t.Fatalf("Print() first line mismatch:\n%s", out)
	}
	for _, want := range []string{"commit: " + Commit, "source: " + URL} {
		if !strings.Contains(out, want) {
			t.Errorf("Print() output missing %q:\n%s", want, out)
		}
	}
}

func TestInfo(t *testing.T) {
	t.Parallel()

	info := Info()
	if info.Service != Name {
		t.Errorf("Service = %q, want %q", info.Service, Name)
	}
	if info.Version != Version || info.Commit != Commit || info.URL != URL {
		t.Errorf("Info() = %+v does not match package vars", info)
	}
}
