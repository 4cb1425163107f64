package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"

	"github.com/sentoz/schema-server/internal/config"
)

const defaultOut = "static/schemas/config.json"

func main() {
	var (
		outFile    string
		modulePath string
		check      bool
	)
	flag.StringVar(&outFile, "out", defaultOut, "output file path, - for stdout")
	flag.StringVar(&modulePath, "module", "github.com/sentoz/schema-server", "go module path (for extracting comments)")
	flag.BoolVar(&check, "check", false, "compare the generated schema with -out and exit 1 if it is stale")
	flag.Parse()

	data, err := generate(modulePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	switch {
	case check:
		current, err := os.ReadFile(outFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: read %s: %v\n", outFile, err)
			os.Exit(1)
		}
		if !bytes.Equal(current, data) {
			fmt.Fprintf(os.Stderr, "%s is stale, run schema-gen\n", outFile)
			os.Exit(1)
		}
	case outFile == "-":
		_, _ = os.Stdout.Write(data)
	default:
		if err := writeFile(outFile, data); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Config schema written to: %s\n", outFile)
	}
}

func generate(modulePath string) ([]byte, error) {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            false,
	}

	// Field comments become schema descriptions
	if err := r.AddGoComments(modulePath, "internal/config", jsonschema.WithFullComment()); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to add Go comments: %v\n", err)
	}

	schema := r.Reflect(new(config.Config))

	// santhosh-tekuri/jsonschema/v6 rejects the 2020-12 metaschema emitted by default.
	schema.Version = "http://json-schema.org/draft-07/schema#"
	schema.Title = "Schema Server Configuration"
	schema.Description = "Configuration schema for schema-server"

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(schema); err != nil {
		return nil, fmt.Errorf("encode schema: %w", err)
	}

	return buf.Bytes(), nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // schema file is public
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
