// Package tableschema loads declarative table-schema documents and validates
// them against the base type registry before they are projected into table
// definitions.
package tableschema

import (
	"strings"

	"github.com/alexanderjulianmartinez/compkit/pkg/dao"
)

// FieldSchema defines the name and type specification of a single field.
type FieldSchema struct {
	Name        string  `json:"name" yaml:"name"`
	BaseType    string  `json:"base_type,omitempty" yaml:"base_type,omitempty"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Nullable    bool    `json:"nullable,omitempty" yaml:"nullable,omitempty"`
	Length      string  `json:"length,omitempty" yaml:"length,omitempty"`
	Default     *string `json:"default,omitempty" yaml:"default,omitempty"`
}

// TableSchema describes a table's fields and metadata independently of any
// concrete dataset on disk.
type TableSchema struct {
	Name         string        `json:"name" yaml:"name"`
	Description  string        `json:"description,omitempty" yaml:"description,omitempty"`
	ParentTables []string      `json:"parent_tables,omitempty" yaml:"parent_tables,omitempty"`
	PrimaryKeys  []string      `json:"primary_keys,omitempty" yaml:"primary_keys,omitempty"`
	Fields       []FieldSchema `json:"fields" yaml:"fields"`
}

// FieldNames returns the ordered field names.
func (s *TableSchema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// CSVName returns the filename of the dataset described by this schema.
func (s *TableSchema) CSVName() string {
	return s.Name + ".csv"
}

// AddField appends a field to the schema.
func (s *TableSchema) AddField(f FieldSchema) {
	s.Fields = append(s.Fields, f)
}

// Validate checks the structural invariants of the document: a table name,
// named fields, registered base types and primary keys that reference
// declared fields. Base type names are case-insensitive in documents.
func (s *TableSchema) Validate() error {
	if s.Name == "" {
		return dao.SchemaErrorf("table schema requires a name")
	}
	if len(s.Fields) == 0 {
		return dao.SchemaErrorf("table schema %q has no fields", s.Name)
	}
	byName := make(map[string]bool, len(s.Fields))
	for i, f := range s.Fields {
		if f.Name == "" {
			return dao.SchemaErrorf("table schema %q: field %d has no name", s.Name, i)
		}
		if byName[f.Name] {
			return dao.SchemaErrorf("table schema %q: duplicate field %q", s.Name, f.Name)
		}
		byName[f.Name] = true
		if f.BaseType != "" && !dao.IsBaseType(strings.ToUpper(f.BaseType)) {
			return dao.SchemaErrorf("table schema %q: field %q has unsupported base type %q, expected one of %v",
				s.Name, f.Name, f.BaseType, dao.SupportedBaseTypes())
		}
	}
	for _, pk := range s.PrimaryKeys {
		if !byName[pk] {
			return dao.SchemaErrorf("table schema %q: primary key %q is not a declared field", s.Name, pk)
		}
	}
	return nil
}

// NormalizedBaseType returns the field's base type in canonical upper case,
// defaulting to STRING when unset.
func (f FieldSchema) NormalizedBaseType() string {
	if f.BaseType == "" {
		return dao.TypeString
	}
	return strings.ToUpper(f.BaseType)
}
