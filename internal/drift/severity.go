package drift

// Centralized severity rules for schema changes.
// Rules:
// - BLOCK for changes that lose data or break loads
// - WARN for risky but reversible changes
// - INFO for safe changes

const (
	SeverityInfo  = "INFO"
	SeverityWarn  = "WARN"
	SeverityBlock = "BLOCK"
)

// Change kinds supported:
// "column_added", "column_removed", "type_changed", "length_changed",
// "nullable_to_notnull", "primary_key_changed"
func SeverityForChange(kind string) string {
	switch kind {
	case "column_removed", "nullable_to_notnull", "primary_key_changed":
		return SeverityBlock
	case "type_changed", "length_changed":
		return SeverityWarn
	case "column_added":
		return SeverityInfo
	default:
		return SeverityInfo
	}
}

// MessageForChange returns a concise message for the given change kind.
func MessageForChange(kind, from, to string) string {
	switch kind {
	case "column_added":
		return "present in manifest but not declared in schema"
	case "column_removed":
		return "declared in schema but missing from manifest"
	case "type_changed":
		return "base type " + from + " -> " + to
	case "length_changed":
		return "length " + from + " -> " + to
	case "nullable_to_notnull":
		return "nullable -> NOT NULL"
	case "primary_key_changed":
		return "primary key (" + from + ") -> (" + to + ")"
	default:
		return ""
	}
}
