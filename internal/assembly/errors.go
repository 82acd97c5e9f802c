package assembly

import "fmt"

// ConfigurationError reports an invalid setting detected before any data is read.
type ConfigurationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// RowError represents an assembly report row that is too short to hold the
// authority columns.
type RowError struct {
	Line   int
	Fields int
}

func (e *RowError) Error() string {
	return fmt.Sprintf("assembly report error at line %d: expected at least %d columns, found %d",
		e.Line, reportColumns, e.Fields)
}
