// Package vars holds schema-server build metadata. The variables below are
// overridden with -ldflags "-X" at release time.
package vars

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Name identifies the service in build info, logs and trace resources.
const Name = "schema-server"

var (
	// Version of the release, "dev" for local builds.
	Version = "dev"
	// Commit the binary was built from.
	Commit = "unknown"
	// URL of the source repository.
	URL = "https://github.com/sentoz/schema-server"

	// BuildTime is derived from _buildTime; the Unix epoch means "not set".
	BuildTime = time.Unix(0, 0).UTC()

	// _buildTime is set by the linker as an RFC3339 string.
	_buildTime string
)

func init() {
	BuildTime = parseBuildTime(_buildTime, BuildTime)
}

func parseBuildTime(raw string, fallback time.Time) time.Time {
	if raw == "" {
		return fallback
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return fallback
	}
	return t.UTC()
}

// BuildInfo is the build metadata exposed on the operations listener.
type BuildInfo struct {
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	Commit    string    `json:"commit"`
	BuildTime time.Time `json:"build_time,omitempty"`
	URL       string    `json:"url,omitempty"`
}

// Info snapshots the current build metadata.
func Info() BuildInfo {
	return BuildInfo{
		Service:   Name,
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		URL:       URL,
	}
}

// Print writes the metadata shown by --version.
func Print(w io.Writer) {
	info := Info()
	_, _ = fmt.Fprintf(w, "%s %s\n", info.Service, info.Version)
	_, _ = fmt.Fprintf(w, "  binary: %s\n", os.Args[0])
	_, _ = fmt.Fprintf(w, "  commit: %s\n", info.Commit)
	_, _ = fmt.Fprintf(w, "  built:  %s\n", info.BuildTime.Format(time.RFC3339))
	_, _ = fmt.Fprintf(w, "  source: %s\n", info.URL)
}
