// Package dao holds the data model shared between a component and its host:
// table and file definitions, per-backend column types, and the sidecar
// manifest files through which the two sides exchange schema information.
package dao

// BackendBase is the sentinel backend key for the backend-agnostic type of a
// column. Every column carries at least a base entry; named backends
// (e.g. "snowflake", "bigquery") are optional refinements.
const BackendBase = "base"

// Base data types understood by every storage backend.
const (
	TypeString    = "STRING"
	TypeInteger   = "INTEGER"
	TypeNumeric   = "NUMERIC"
	TypeFloat     = "FLOAT"
	TypeBoolean   = "BOOLEAN"
	TypeDate      = "DATE"
	TypeTimestamp = "TIMESTAMP"
	TypeObject    = "OBJECT"
)

var baseTypes = []string{
	TypeString,
	TypeInteger,
	TypeNumeric,
	TypeFloat,
	TypeBoolean,
	TypeDate,
	TypeTimestamp,
	TypeObject,
}

// SupportedBaseTypes returns the base type names in their canonical order.
func SupportedBaseTypes() []string {
	out := make([]string, len(baseTypes))
	copy(out, baseTypes)
	return out
}

// IsBaseType reports whether dtype is a recognized base data type.
func IsBaseType(dtype string) bool {
	for _, t := range baseTypes {
		if t == dtype {
			return true
		}
	}
	return false
}

// DataType describes how a single backend stores a column. For the base
// backend Dtype must be one of the supported base types; for named backends
// it is an opaque, backend-defined type name.
type DataType struct {
	Dtype    string
	Length   string
	Nullable *bool
	Default  *string
}

// ValidateDataType checks a type descriptor against the given backend.
// Base types are validated against the fixed registry; named backend type
// systems are not enumerable here, so only non-emptiness is required.
func ValidateDataType(backend string, dt DataType) error {
	if dt.Dtype == "" {
		return SchemaErrorf("backend %q: data type name must not be empty", backend)
	}
	if backend == BackendBase && !IsBaseType(dt.Dtype) {
		return SchemaErrorf("%q is not a supported base type, expected one of %v",
			dt.Dtype, SupportedBaseTypes())
	}
	return nil
}

// BaseType wraps a single type descriptor into a data-type map keyed by the
// base backend.
func BaseType(dt DataType) map[string]DataType {
	return map[string]DataType{BackendBase: dt}
}

// Shorthand constructors for base-keyed type maps. Length is meaningful for
// STRING (character limit) and NUMERIC ("precision,scale").

func StringType(length string) map[string]DataType {
	return BaseType(DataType{Dtype: TypeString, Length: length})
}

func IntegerType() map[string]DataType { return BaseType(DataType{Dtype: TypeInteger}) }

func NumericType(length string) map[string]DataType {
	return BaseType(DataType{Dtype: TypeNumeric, Length: length})
}

func FloatType() map[string]DataType { return BaseType(DataType{Dtype: TypeFloat}) }

func BooleanType() map[string]DataType { return BaseType(DataType{Dtype: TypeBoolean}) }

func DateType() map[string]DataType { return BaseType(DataType{Dtype: TypeDate}) }

func TimestampType() map[string]DataType { return BaseType(DataType{Dtype: TypeTimestamp}) }

// Ptr returns a pointer to v. Convenience for the tri-state DataType fields.
func Ptr[T any](v T) *T { return &v }
