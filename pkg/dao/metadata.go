package dao

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Metadata keys defined by the host contract.
const (
	MetaKeyBaseType      = "KBC.datatype.basetype"
	MetaKeySourceType    = "KBC.datatype.type"
	MetaKeyTypeNullable  = "KBC.datatype.nullable"
	MetaKeyTypeLength    = "KBC.datatype.length"
	MetaKeyTypeDefault   = "KBC.datatype.default"
	MetaKeyDescription   = "KBC.description"
	MetaKeyCreatedBy     = "KBC.createdBy.component.id"
	MetaKeyLastUpdatedBy = "KBC.lastUpdatedBy.component.id"
)

// backendMetaKey builds the column-metadata key carrying a named backend's
// type attribute, e.g. "KBC.datatype.snowflake.type". Base-backend attributes
// use the standard keys above.
func backendMetaKey(backend, attr string) string {
	return "KBC.datatype." + backend + "." + attr
}

// parseBackendMetaKey is the inverse of backendMetaKey. It returns ok=false
// for the standard base keys and for keys outside the KBC.datatype namespace.
func parseBackendMetaKey(key string) (backend, attr string, ok bool) {
	const prefix = "KBC.datatype."
	if !strings.HasPrefix(key, prefix) {
		return "", "", false
	}
	rest := strings.TrimPrefix(key, prefix)
	parts := strings.SplitN(rest, ".", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// MetadataKV is one key-value metadata pair as serialized in manifests.
type MetadataKV struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// TableMetadata is an ordered set of table-level metadata pairs. Setting an
// existing key updates it in place, so repeated writes keep a stable order.
type TableMetadata struct {
	entries []MetadataKV
}

// NewTableMetadata builds table metadata preloaded from existing manifest
// entries, keeping their order.
func NewTableMetadata(entries []MetadataKV) *TableMetadata {
	tm := &TableMetadata{}
	for _, e := range entries {
		tm.Set(e.Key, e.Value)
	}
	return tm
}

// Set adds or updates a metadata pair.
func (m *TableMetadata) Set(key string, value any) {
	for i := range m.entries {
		if m.entries[i].Key == key {
			m.entries[i].Value = value
			return
		}
	}
	m.entries = append(m.entries, MetadataKV{Key: key, Value: value})
}

// Get returns the value stored under key.
func (m *TableMetadata) Get(key string) (any, bool) {
	for _, e := range m.entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// SetDescription stores the table description under the host's key.
func (m *TableMetadata) SetDescription(description string) {
	m.Set(MetaKeyDescription, description)
}

// Description returns the table description, if any.
func (m *TableMetadata) Description() string {
	if v, ok := m.Get(MetaKeyDescription); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// ForManifest returns the pairs in insertion order, ready for the manifest's
// metadata block.
func (m *TableMetadata) ForManifest() []MetadataKV {
	if m == nil || len(m.entries) == 0 {
		return nil
	}
	out := make([]MetadataKV, len(m.entries))
	copy(out, m.entries)
	return out
}

// ManifestMetadata renders the column's typing and description as the flat
// metadata list embedded in a manifest's column_metadata block. Base type
// attributes use the standard keys; named backends use namespaced keys so the
// projection stays invertible for every backend entry.
func (c ColumnDefinition) ManifestMetadata() []MetadataKV {
	var out []MetadataKV

	base := c.DataTypes[BackendBase]
	if base.Dtype != "" {
		out = append(out, MetadataKV{Key: MetaKeyBaseType, Value: base.Dtype})
		out = append(out, MetadataKV{Key: MetaKeyTypeNullable, Value: c.Nullable})
		if base.Length != "" {
			out = append(out, MetadataKV{Key: MetaKeyTypeLength, Value: base.Length})
		}
		if base.Default != nil {
			out = append(out, MetadataKV{Key: MetaKeyTypeDefault, Value: *base.Default})
		}
	}

	backends := make([]string, 0, len(c.DataTypes))
	for backend := range c.DataTypes {
		if backend != BackendBase {
			backends = append(backends, backend)
		}
	}
	sort.Strings(backends)
	for _, backend := range backends {
		dt := c.DataTypes[backend]
		out = append(out, MetadataKV{Key: backendMetaKey(backend, "type"), Value: dt.Dtype})
		if dt.Length != "" {
			out = append(out, MetadataKV{Key: backendMetaKey(backend, "length"), Value: dt.Length})
		}
		if dt.Nullable != nil {
			out = append(out, MetadataKV{Key: backendMetaKey(backend, "nullable"), Value: *dt.Nullable})
		}
		if dt.Default != nil {
			out = append(out, MetadataKV{Key: backendMetaKey(backend, "default"), Value: *dt.Default})
		}
	}

	if c.Description != "" {
		out = append(out, MetadataKV{Key: MetaKeyDescription, Value: c.Description})
	}

	keys := make([]string, 0, len(c.Metadata))
	for k := range c.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, MetadataKV{Key: k, Value: c.Metadata[k]})
	}
	return out
}

// columnFromManifestMetadata rebuilds a column from its flat metadata list.
// Unrecognized keys are kept as free-form column metadata.
func columnFromManifestMetadata(name string, entries []MetadataKV, primaryKey bool) ColumnDefinition {
	col := NewColumn(name)
	col.PrimaryKey = primaryKey
	base := col.DataTypes[BackendBase]

	for _, e := range entries {
		switch e.Key {
		case MetaKeyBaseType:
			base.Dtype = asString(e.Value)
		case MetaKeyTypeNullable:
			col.Nullable = asBool(e.Value)
		case MetaKeyTypeLength:
			base.Length = asString(e.Value)
		case MetaKeyTypeDefault:
			v := asString(e.Value)
			base.Default = &v
		case MetaKeyDescription:
			col.Description = asString(e.Value)
		default:
			if backend, attr, ok := parseBackendMetaKey(e.Key); ok {
				dt := col.DataTypes[backend]
				switch attr {
				case "type":
					dt.Dtype = asString(e.Value)
				case "length":
					dt.Length = asString(e.Value)
				case "nullable":
					dt.Nullable = Ptr(asBool(e.Value))
				case "default":
					v := asString(e.Value)
					dt.Default = &v
				}
				col.DataTypes[backend] = dt
				continue
			}
			if col.Metadata == nil {
				col.Metadata = map[string]string{}
			}
			col.Metadata[e.Key] = asString(e.Value)
		}
	}

	col.DataTypes[BackendBase] = base
	return col
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	default:
		return fmt.Sprint(s)
	}
}

func asBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		parsed, err := strconv.ParseBool(b)
		return err == nil && parsed
	default:
		return false
	}
}
