// Package enginerror defines the error taxonomy of the aggregation engine.
// Configuration errors are fatal: they mean the bucket table and the record
// schema disagree and the whole run must stop. Everything recoverable is
// surfaced as a models.Warning instead of an error.
package enginerror

import "fmt"

// ConfigError reports a disagreement between configuration (column mapping,
// amount columns) and the data actually loaded. It aborts the run.
type ConfigError struct {
	Component string
	Field     string
	Reason    string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: configuration error for field '%s': %s",
		e.Component, e.Field, e.Reason)
}

// ParseError reports a value that could not be parsed where parsing is
// mandatory (amount cells, rule table cells).
type ParseError struct {
	Component string
	Field     string
	Value     string
	Err       error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Component, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// LoadError reports an input file that could not be read or did not conform
// to the expected tabular layout.
type LoadError struct {
	FilePath string
	Reason   string
	Err      error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to load %s: %s: %v", e.FilePath, e.Reason, e.Err)
	}
	return fmt.Sprintf("failed to load %s: %s", e.FilePath, e.Reason)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
