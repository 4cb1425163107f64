package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/creasty/defaults"
	"github.com/rs/zerolog/log"
	jschema "github.com/santhosh-tekuri/jsonschema/v6"
	jamle "github.com/woozymasta/jamle"

	"github.com/sentoz/schema-server/static"
)

const schemaURL = "embedded://config-schema"

var (
	schemaOnce sync.Once
	schema     *jschema.Schema
	schemaErr  error
)

// getSchema lazily compiles the embedded JSON schema and returns it.
func getSchema() (*jschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = compileEmbeddedSchema(static.ConfigSchema, schemaURL)
	})

	return schema, schemaErr
}

func compileEmbeddedSchema(raw []byte, url string) (*jschema.Schema, error) {
	if len(raw) == 0 {
		return nil, ErrSchemaLoad
	}

	compiler := jschema.NewCompiler()

	// AddResource expects a decoded JSON value, not raw bytes.
	var schemaDoc interface{}
	if err := json.Unmarshal(raw, &schemaDoc); err != nil {
		return nil, fmt.Errorf("%w: unmarshal schema: %v", ErrSchemaLoad, err)
	}

	if err := compiler.AddResource(url, schemaDoc); err != nil {
		return nil, fmt.Errorf("%w: add resource: %v", ErrSchemaLoad, err)
	}

	compiled, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("%w: compile: %v", ErrSchemaLoad, err)
	}

	return compiled, nil
}

// Default returns the configuration with all defaults applied.
func Default() (*Config, error) {
	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		return nil, fmt.Errorf("%w: apply defaults: %v", ErrInvalidConfig, err)
	}
	return &cfg, nil
}

// Load reads, parses and validates configuration from the given path.
// The path must point to a YAML or JSON file. Environment variables inside
// the configuration are expanded by jamle. An empty path yields the
// defaults, validated the same way.
func Load(_ context.Context, path string) (*Config, error) {
	if path == "" {
		cfg, err := Default()
		if err != nil {
			return nil, err
		}
		if err := Validate(cfg); err != nil {
			return nil, err
		}
		log.Debug().Msg("No configuration file given, using defaults")
		return cfg, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("stat config %q: %w", path, err)
	}

	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory, expected file", ErrInvalidConfig, path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}

	var cfg Config
	if err := jamle.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidConfig, err)
	}

	// Apply default values for fields that weren't set in the config.
	if err := defaults.Set(&cfg); err != nil {
		return nil, fmt.Errorf("%w: apply defaults: %v", ErrInvalidConfig, err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	log.Info().
		Str("config_path", path).
		Str("listen", cfg.Listen).
		Str("route", cfg.Route).
		Str("document_path", cfg.DocumentPath).
		Msg("Configuration loaded and validated")

	return &cfg, nil
}

// Validate checks configuration against the embedded JSON schema and
// returns a wrapped ErrSchemaValidation on failure.
func Validate(cfg *Config) error {
	compiled, err := getSchema()
	if err != nil {
		return err
	}

	// Validate needs a decoded JSON value (map/slice), not the struct itself.
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("%w: marshal for validation: %v", ErrInvalidConfig, err)
	}

	var cfgDoc interface{}
	if err := json.Unmarshal(data, &cfgDoc); err != nil {
		return fmt.Errorf("%w: unmarshal for validation: %v", ErrInvalidConfig, err)
	}

	if err := compiled.Validate(cfgDoc); err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaValidation, err)
	}

	return nil
}
