package config

// Config represents the main application configuration.
type Config struct {
	// Listen is the address of the public listener serving the document route.
	Listen string `yaml:"listen,omitempty" json:"listen,omitempty" default:"0.0.0.0:5000" jsonschema:"default=0.0.0.0:5000,example=0.0.0.0:5000"`

	// Route is the HTTP path the document is served on. It is matched exactly:
	// literal segments only, no trailing slash and no "." or ".." segments.
	Route string `yaml:"route,omitempty" json:"route,omitempty" default:"/schema" jsonschema:"default=/schema,pattern=^(/([A-Za-z0-9_~-]|[.][A-Za-z0-9_~-]|[.][.][A-Za-z0-9._~-])[A-Za-z0-9._~-]*)+$"`

	// DocumentPath is the JSON file served on Route.
	// Relative paths are resolved against the working directory on every request.
	DocumentPath string `yaml:"document_path,omitempty" json:"document_path,omitempty" default:"cigarmaestro.json" jsonschema:"minLength=1,default=cigarmaestro.json"`

	// ReadHeaderTimeout limits how long the public listener waits for request headers.
	ReadHeaderTimeout Duration `yaml:"read_header_timeout,omitempty" json:"read_header_timeout,omitempty" default:"5s" jsonschema:"example=5s"`

	// ShutdownTimeout defines the timeout for graceful shutdown.
	ShutdownTimeout Duration `yaml:"shutdown_timeout,omitempty" json:"shutdown_timeout,omitempty" default:"30s" jsonschema:"example=30s"`

	// MetricsEnabled exposes Prometheus metrics on the operations listener.
	MetricsEnabled bool `yaml:"metrics_enabled,omitempty" json:"metrics_enabled,omitempty" default:"false" jsonschema:"default=false"`

	// MetricsPort defines the port of the operations listener (metrics, health, build info).
	MetricsPort int `yaml:"metrics_port,omitempty" json:"metrics_port,omitempty" default:"9090" jsonschema:"default=9090,minimum=1,maximum=65535"`

	// Watch configures the background document watcher.
	Watch Watch `yaml:"watch,omitempty" json:"watch,omitempty"`

	// Tracing configures OpenTelemetry tracing.
	Tracing Tracing `yaml:"tracing,omitempty" json:"tracing,omitempty"`
}

// Watch configures periodic checks of the document on disk.
type Watch struct {
	// Enabled turns the watcher on.
	Enabled bool `yaml:"enabled,omitempty" json:"enabled,omitempty" default:"false" jsonschema:"default=false"`

	// Interval defines how often the document is checked.
	Interval Duration `yaml:"interval,omitempty" json:"interval,omitempty" default:"30s" jsonschema:"example=30s"`
}

// Tracing configures the OpenTelemetry span exporter.
type Tracing struct {
	// Exporter selects the span exporter (none, stdout, otlp-http, otlp-grpc).
	Exporter string `yaml:"exporter,omitempty" json:"exporter,omitempty" default:"none" jsonschema:"enum=none,enum=stdout,enum=otlp-http,enum=otlp-grpc,default=none"`

	// Endpoint is the OTLP collector endpoint (host:port).
	Endpoint string `yaml:"endpoint,omitempty" json:"endpoint,omitempty" jsonschema:"example=localhost:4318"`

	// Insecure disables TLS for OTLP exporters.
	Insecure bool `yaml:"insecure,omitempty" json:"insecure,omitempty"`

	// SampleRate is the fraction of traces sampled.
	SampleRate float64 `yaml:"sample_rate,omitempty" json:"sample_rate,omitempty" default:"1" jsonschema:"exclusiveMinimum=0,maximum=1,default=1"`
}
