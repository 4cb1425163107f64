package config

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/invopop/jsonschema"
)

// Duration is a custom duration type that can be unmarshaled from strings
// like "5s", "1h", "30m", etc.
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements yaml.Unmarshaler interface.
// This method works with any YAML parser that supports the standard interface.
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	return d.UnmarshalText([]byte(s))
}

// MarshalYAML implements yaml.Marshaler interface.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// UnmarshalJSON implements json.Unmarshaler interface.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// MarshalJSON implements json.Marshaler interface.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalText implements encoding.TextUnmarshaler. It is also what
// creasty/defaults uses to apply `default` tags.
func (d *Duration) UnmarshalText(text []byte) error {
	dur, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration format: %w", err)
	}

	d.Duration = dur
	return nil
}

// JSONSchema returns the JSON schema for Duration type.
func (Duration) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Title: "Human readable duration",
		Type:  "string",
		Description: "Go duration string built from <number><unit> tokens, " +
			"for example 30s or 1m30s. Accepted units: ns, us, ms, s, m, h.",
		Pattern:  `^(?:\d+(?:\.\d+)?(?:ns|us|µs|ms|s|m|h))+$`,
		Examples: []any{"5s", "30s", "1m30s", "500ms"},
	}
}

// Std returns the standard time.Duration value.
func (d Duration) Std() time.Duration {
	return d.Duration
}
