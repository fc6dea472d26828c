package dao

import "fmt"

// ConfigurationError signals an inconsistency between the configuration and
// the data the component actually has: a mapped table missing on disk, a
// primary-key column that is not part of the schema, and so on.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string { return e.Msg }

func configErrorf(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Msg: fmt.Sprintf(format, args...)}
}

// SchemaValidationError signals that a table-schema document or a data type
// failed structural validation.
type SchemaValidationError struct {
	Msg string
}

func (e *SchemaValidationError) Error() string { return e.Msg }

// SchemaErrorf builds a SchemaValidationError. Exported so the tableschema
// package can raise the same error kind.
func SchemaErrorf(format string, args ...any) *SchemaValidationError {
	return &SchemaValidationError{Msg: fmt.Sprintf(format, args...)}
}

// ManifestParseReason distinguishes the ways reading a manifest can fail.
type ManifestParseReason string

const (
	ManifestMissing   ManifestParseReason = "missing"
	ManifestEmpty     ManifestParseReason = "empty"
	ManifestMalformed ManifestParseReason = "malformed"
	ManifestInvalid   ManifestParseReason = "invalid"
)

// ManifestParseError signals that a manifest file is missing, unreadable or
// structurally invalid.
type ManifestParseError struct {
	Path   string
	Reason ManifestParseReason
	Err    error
}

func (e *ManifestParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("manifest %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("manifest %s: %s", e.Path, e.Reason)
}

func (e *ManifestParseError) Unwrap() error { return e.Err }

// DuplicateColumnError is returned when a column is added under a name the
// table already has.
type DuplicateColumnError struct {
	Column string
}

func (e *DuplicateColumnError) Error() string {
	return fmt.Sprintf("column %q already exists", e.Column)
}

// ColumnNotFoundError is returned when an operation references a column the
// table does not have.
type ColumnNotFoundError struct {
	Column string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column %q not found", e.Column)
}
