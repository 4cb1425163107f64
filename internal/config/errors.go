package config

import "errors"

// Sentinel errors returned by Load and Validate. Callers match them with
// errors.Is; the wrapped error carries the detail.
var (
	// ErrConfigNotFound means the --config path does not exist.
	ErrConfigNotFound = errors.New("schema-server config: file not found")
	// ErrInvalidConfig means the path or its content could not be turned into a Config.
	ErrInvalidConfig = errors.New("schema-server config: malformed")
	// ErrSchemaLoad means the embedded config schema did not compile.
	ErrSchemaLoad = errors.New("schema-server config: embedded schema unusable")
	// ErrSchemaValidation means the decoded settings violate the config schema.
	ErrSchemaValidation = errors.New("schema-server config: rejected by schema")
)
