package dao

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ManifestSuffix is appended to a data file's name to form its sidecar
// manifest path.
const ManifestSuffix = ".manifest"

// Manifest is the flat on-disk JSON shape the host defines for table
// manifests. Field order here fixes the key order of the serialized file, so
// repeated writes of an unchanged definition are byte-identical.
type Manifest struct {
	// Input-side attributes, set by the host.
	ID             string `json:"id,omitempty"`
	URI            string `json:"uri,omitempty"`
	Name           string `json:"name,omitempty"`
	Created        string `json:"created,omitempty"`
	LastChangeDate string `json:"last_change_date,omitempty"`
	LastImportDate string `json:"last_import_date,omitempty"`
	RowsCount      int64  `json:"rows_count,omitempty"`
	DataSizeBytes  int64  `json:"data_size_bytes,omitempty"`
	IsAlias        bool   `json:"is_alias,omitempty"`

	// Output-side attributes, set by the component.
	Destination         string                  `json:"destination,omitempty"`
	Columns             []string                `json:"columns,omitempty"`
	PrimaryKey          []string                `json:"primary_key,omitempty"`
	Incremental         bool                    `json:"incremental,omitempty"`
	WriteAlways         bool                    `json:"write_always,omitempty"`
	Delimiter           string                  `json:"delimiter,omitempty"`
	Enclosure           string                  `json:"enclosure,omitempty"`
	Metadata            []MetadataKV            `json:"metadata,omitempty"`
	ColumnMetadata      map[string][]MetadataKV `json:"column_metadata,omitempty"`
	DeleteWhereColumn   string                  `json:"delete_where_column,omitempty"`
	DeleteWhereOperator string                  `json:"delete_where_operator,omitempty"`
	DeleteWhereValues   []string                `json:"delete_where_values,omitempty"`

	// Structured column block used by newer hosts. Accepted on read and
	// mapped onto the same column definitions as the flat shape.
	Schema []ManifestColumn `json:"schema,omitempty"`
}

// ManifestColumn is one column entry of the structured schema block.
type ManifestColumn struct {
	Name        string                      `json:"name"`
	DataType    map[string]ManifestDataType `json:"data_type,omitempty"`
	Nullable    bool                        `json:"nullable,omitempty"`
	PrimaryKey  bool                        `json:"primary_key,omitempty"`
	Description string                      `json:"description,omitempty"`
	Metadata    map[string]string           `json:"metadata,omitempty"`
}

// ManifestDataType is one backend's type entry in the structured block.
type ManifestDataType struct {
	Type     string  `json:"type"`
	Length   string  `json:"length,omitempty"`
	Nullable *bool   `json:"nullable,omitempty"`
	Default  *string `json:"default,omitempty"`
}

// ManifestDictionary projects the definition into the manifest shape. The
// projection is deterministic: columns and primary key follow column order,
// metadata follows insertion order, backend type entries are sorted.
func (t *TableDefinition) ManifestDictionary() *Manifest {
	m := &Manifest{
		Destination:         t.Destination,
		Columns:             t.ColumnNames(),
		PrimaryKey:          t.PrimaryKey(),
		Incremental:         t.Incremental,
		WriteAlways:         t.WriteAlways,
		Delimiter:           t.Delimiter,
		Enclosure:           t.Enclosure,
		Metadata:            t.Metadata.ForManifest(),
		ColumnMetadata:      t.columnMetadataBlock(),
		DeleteWhereColumn:   t.deleteWhereColumn(),
		DeleteWhereOperator: t.deleteWhereOperator(),
		DeleteWhereValues:   t.deleteWhereValues(),
	}
	if t.Input != nil {
		m.ID = t.Input.ID
		m.URI = t.Input.URI
		m.Name = t.name
		m.Created = t.Input.Created
		m.LastChangeDate = t.Input.LastChangeDate
		m.LastImportDate = t.Input.LastImportDate
		m.RowsCount = t.Input.RowsCount
		m.DataSizeBytes = t.Input.DataSizeBytes
		m.IsAlias = t.Input.IsAlias
	}
	return m
}

func (t *TableDefinition) columnMetadataBlock() map[string][]MetadataKV {
	block := make(map[string][]MetadataKV, len(t.columns))
	for _, c := range t.columns {
		if meta := c.ManifestMetadata(); len(meta) > 0 {
			block[c.Name] = meta
		}
	}
	if len(block) == 0 {
		return nil
	}
	return block
}

func (t *TableDefinition) deleteWhereColumn() string {
	if t.DeleteWhere == nil {
		return ""
	}
	return t.DeleteWhere.Column
}

func (t *TableDefinition) deleteWhereOperator() string {
	if t.DeleteWhere == nil {
		return ""
	}
	return t.DeleteWhere.Operator
}

func (t *TableDefinition) deleteWhereValues() []string {
	if t.DeleteWhere == nil {
		return nil
	}
	return t.DeleteWhere.Values
}

// ReadManifest parses a manifest file. A missing or empty file is reported
// distinctly from malformed JSON; neither is silently defaulted.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &ManifestParseError{Path: path, Reason: ManifestMissing, Err: err}
		}
		return nil, &ManifestParseError{Path: path, Reason: ManifestInvalid, Err: err}
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, &ManifestParseError{Path: path, Reason: ManifestEmpty}
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, &ManifestParseError{Path: path, Reason: ManifestMalformed, Err: err}
	}
	return &m, nil
}

// WriteManifest serializes the definition's manifest dictionary next to its
// data file, at "<full_path>.manifest". I/O errors propagate unmodified.
func (t *TableDefinition) WriteManifest() error {
	if t.FullPath == "" {
		return configErrorf("table %q has no full path, cannot place manifest", t.name)
	}
	return writeManifestFile(t.FullPath+ManifestSuffix, t.ManifestDictionary())
}

func writeManifestFile(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("serialize manifest %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// TableDefinitionFromManifest reconstructs a table definition from a manifest
// path. The manifest may be absent when the data file exists (a manifest-less
// input); the data file may be absent when the manifest exists (an orphaned
// manifest). Both missing is an error.
func TableDefinitionFromManifest(manifestPath string) (*TableDefinition, error) {
	var manifest *Manifest
	haveManifest := false
	if _, err := os.Stat(manifestPath); err == nil {
		manifest, err = ReadManifest(manifestPath)
		if err != nil {
			return nil, err
		}
		haveManifest = true
	} else {
		manifest = &Manifest{}
	}

	dataPath := strings.TrimSuffix(manifestPath, ManifestSuffix)
	info, statErr := os.Stat(dataPath)
	isSliced := false
	fullPath := ""
	name := filepath.Base(dataPath)

	switch {
	case statErr == nil && info.IsDir():
		if !haveManifest {
			return nil, &ManifestParseError{Path: manifestPath, Reason: ManifestMissing,
				Err: fmt.Errorf("matching path %s is a folder without a manifest", dataPath)}
		}
		isSliced = true
		fullPath = dataPath
	case statErr == nil:
		fullPath = dataPath
	case !haveManifest:
		return nil, &ManifestParseError{Path: manifestPath, Reason: ManifestMissing,
			Err: fmt.Errorf("neither the manifest nor the data file %s exists", dataPath)}
	}

	return tableDefinitionFromParsedManifest(name, fullPath, isSliced, manifest)
}

func tableDefinitionFromParsedManifest(name, fullPath string, isSliced bool, m *Manifest) (*TableDefinition, error) {
	stage := StageOut
	if m.ID != "" {
		stage = StageIn
	}

	td, err := NewTableDefinition(name,
		WithStage(stage),
		WithFullPath(fullPath),
		WithSliced(isSliced),
		WithDestination(m.Destination),
		WithIncremental(m.Incremental),
		WithWriteAlways(m.WriteAlways),
	)
	if err != nil {
		return nil, err
	}
	if m.Delimiter != "" {
		td.Delimiter = m.Delimiter
	}
	if m.Enclosure != "" {
		td.Enclosure = m.Enclosure
	}
	td.Metadata = NewTableMetadata(m.Metadata)
	if m.DeleteWhereColumn != "" {
		dw := &DeleteWhere{Column: m.DeleteWhereColumn, Operator: m.DeleteWhereOperator, Values: m.DeleteWhereValues}
		if err := dw.validate(); err != nil {
			return nil, err
		}
		td.DeleteWhere = dw
	}
	if stage == StageIn {
		td.Input = &InputTableAttributes{
			ID:             m.ID,
			URI:            m.URI,
			Created:        m.Created,
			LastChangeDate: m.LastChangeDate,
			LastImportDate: m.LastImportDate,
			RowsCount:      m.RowsCount,
			DataSizeBytes:  m.DataSizeBytes,
			IsAlias:        m.IsAlias,
		}
	}

	cols, err := columnsFromManifest(m)
	if err != nil {
		return nil, err
	}
	if err := td.AddColumns(cols...); err != nil {
		return nil, err
	}
	if len(cols) == 0 && len(m.PrimaryKey) > 0 {
		td.legacyPrimaryKey = append([]string(nil), m.PrimaryKey...)
	}
	return td, nil
}

// columnsFromManifest rebuilds ordered column definitions, preferring the
// structured schema block, then the column-metadata block, then the flat
// columns list with default typing.
func columnsFromManifest(m *Manifest) ([]ColumnDefinition, error) {
	if len(m.Schema) > 0 {
		cols := make([]ColumnDefinition, 0, len(m.Schema))
		for _, mc := range m.Schema {
			types := make(map[string]DataType, len(mc.DataType))
			for backend, dt := range mc.DataType {
				types[backend] = DataType{
					Dtype:    dt.Type,
					Length:   dt.Length,
					Nullable: dt.Nullable,
					Default:  dt.Default,
				}
			}
			col, err := NewColumnWithTypes(mc.Name, types)
			if err != nil {
				return nil, err
			}
			col.Nullable = mc.Nullable
			col.PrimaryKey = mc.PrimaryKey
			col.Description = mc.Description
			col.Metadata = mc.Metadata
			cols = append(cols, col)
		}
		return cols, nil
	}

	primary := make(map[string]bool, len(m.PrimaryKey))
	for _, name := range m.PrimaryKey {
		primary[name] = true
	}
	cols := make([]ColumnDefinition, 0, len(m.Columns))
	for _, name := range m.Columns {
		if meta, ok := m.ColumnMetadata[name]; ok {
			cols = append(cols, columnFromManifestMetadata(name, meta, primary[name]))
			continue
		}
		col := NewColumn(name)
		col.PrimaryKey = primary[name]
		cols = append(cols, col)
	}
	return cols, nil
}
