package dao

import (
	"time"
)

// Storage stages a definition can belong to.
const (
	StageIn  = "in"
	StageOut = "out"
)

// timeFormat is the timestamp layout used by the host in input manifests.
const timeFormat = "2006-01-02T15:04:05Z0700"

// DeleteWhere describes rows to delete from the destination table before an
// incremental load.
type DeleteWhere struct {
	Column   string
	Operator string // "eq" or "ne", defaults to "eq"
	Values   []string
}

func (d *DeleteWhere) validate() error {
	if d.Column == "" || len(d.Values) == 0 {
		return configErrorf("delete-where requires a column and at least one value")
	}
	if d.Operator == "" {
		d.Operator = "eq"
	}
	if d.Operator != "eq" && d.Operator != "ne" {
		return configErrorf("delete-where operator must be \"eq\" or \"ne\", got %q", d.Operator)
	}
	return nil
}

// InputTableAttributes carries the read-only fields the host adds to input
// table manifests.
type InputTableAttributes struct {
	ID             string
	URI            string
	Created        string
	LastChangeDate string
	LastImportDate string
	RowsCount      int64
	DataSizeBytes  int64
	IsAlias        bool
}

// CreatedAt parses the host creation timestamp.
func (a *InputTableAttributes) CreatedAt() (time.Time, bool) {
	if a == nil || a.Created == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(timeFormat, a.Created)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// TableDefinition is the canonical in-memory representation of one tabular
// dataset on disk: its columns, storage options and filesystem location.
// The durable artifact is the manifest file produced from it; the definition
// itself lives only for one component run.
//
// Column order is significant. It determines row-tuple order and survives
// every transformation, including the manifest round trip.
type TableDefinition struct {
	FullPath    string
	IsSliced    bool
	Destination string
	Incremental bool
	WriteAlways bool
	Delimiter   string
	Enclosure   string
	Stage       string
	Metadata    *TableMetadata
	DeleteWhere *DeleteWhere
	Input       *InputTableAttributes

	name    string
	columns []ColumnDefinition

	// legacyPrimaryKey preserves a manifest primary key that referenced no
	// declared columns (headered CSV manifests from older hosts).
	legacyPrimaryKey []string
}

type tableBuilder struct {
	td         *TableDefinition
	primaryKey []string
	err        error
}

// TableOption configures a TableDefinition under construction.
type TableOption func(*tableBuilder)

// WithDestination sets the fully-qualified remote table id.
func WithDestination(destination string) TableOption {
	return func(b *tableBuilder) { b.td.Destination = destination }
}

// WithColumnNames appends default STRING columns for each name.
func WithColumnNames(names ...string) TableOption {
	return func(b *tableBuilder) {
		if b.err == nil {
			b.err = b.td.AddColumnNames(names...)
		}
	}
}

// WithColumns appends fully specified columns.
func WithColumns(cols ...ColumnDefinition) TableOption {
	return func(b *tableBuilder) {
		if b.err == nil {
			b.err = b.td.AddColumns(cols...)
		}
	}
}

// WithPrimaryKey marks the named columns as the primary key. Applied after
// all column options, so order of options does not matter.
func WithPrimaryKey(names ...string) TableOption {
	return func(b *tableBuilder) { b.primaryKey = append(b.primaryKey, names...) }
}

// WithIncremental marks the output for incremental (merge) loading.
func WithIncremental(incremental bool) TableOption {
	return func(b *tableBuilder) { b.td.Incremental = incremental }
}

// WithWriteAlways keeps the table even when the job fails.
func WithWriteAlways(writeAlways bool) TableOption {
	return func(b *tableBuilder) { b.td.WriteAlways = writeAlways }
}

// WithDelimiter overrides the CSV delimiter (default comma).
func WithDelimiter(delimiter string) TableOption {
	return func(b *tableBuilder) { b.td.Delimiter = delimiter }
}

// WithEnclosure overrides the CSV enclosure (default double quote).
func WithEnclosure(enclosure string) TableOption {
	return func(b *tableBuilder) { b.td.Enclosure = enclosure }
}

// WithDescription sets the table description metadata.
func WithDescription(description string) TableOption {
	return func(b *tableBuilder) { b.td.Metadata.SetDescription(description) }
}

// WithDeleteWhere configures pre-load row deletion for incremental loads.
func WithDeleteWhere(column, operator string, values ...string) TableOption {
	return func(b *tableBuilder) {
		dw := &DeleteWhere{Column: column, Operator: operator, Values: values}
		if b.err == nil {
			b.err = dw.validate()
		}
		b.td.DeleteWhere = dw
	}
}

// WithStage sets the storage stage, "in" or "out".
func WithStage(stage string) TableOption {
	return func(b *tableBuilder) {
		if stage != StageIn && stage != StageOut {
			b.err = configErrorf("invalid stage %q, supported values are %q and %q", stage, StageIn, StageOut)
			return
		}
		b.td.Stage = stage
	}
}

// WithFullPath sets the filesystem location of the table data.
func WithFullPath(path string) TableOption {
	return func(b *tableBuilder) { b.td.FullPath = path }
}

// WithSliced marks the full path as a sliced-table folder.
func WithSliced(sliced bool) TableOption {
	return func(b *tableBuilder) { b.td.IsSliced = sliced }
}

// NewTableDefinition builds a table definition. It either returns a fully
// valid definition or an error; no partially constructed value escapes.
func NewTableDefinition(name string, opts ...TableOption) (*TableDefinition, error) {
	if name == "" {
		return nil, configErrorf("table name must not be empty")
	}
	td := &TableDefinition{
		name:      name,
		Delimiter: ",",
		Enclosure: `"`,
		Stage:     StageOut,
		Metadata:  &TableMetadata{},
	}
	b := &tableBuilder{td: td}
	for _, opt := range opts {
		opt(b)
		if b.err != nil {
			return nil, b.err
		}
	}
	if len(b.primaryKey) > 0 {
		if err := td.SetPrimaryKey(b.primaryKey...); err != nil {
			return nil, err
		}
	}
	return td, nil
}

// Name returns the table's filename on disk.
func (t *TableDefinition) Name() string { return t.name }

// Columns returns a copy of the ordered column definitions.
func (t *TableDefinition) Columns() []ColumnDefinition {
	out := make([]ColumnDefinition, len(t.columns))
	copy(out, t.columns)
	return out
}

// ColumnNames returns the ordered projection of column names.
func (t *TableDefinition) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Column returns the definition of the named column.
func (t *TableDefinition) Column(name string) (ColumnDefinition, bool) {
	for _, c := range t.columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnDefinition{}, false
}

// AddColumnNames appends default STRING columns.
func (t *TableDefinition) AddColumnNames(names ...string) error {
	cols := make([]ColumnDefinition, len(names))
	for i, name := range names {
		cols[i] = NewColumn(name)
	}
	return t.AddColumns(cols...)
}

// AddColumns appends columns, rejecting duplicates against existing columns
// and within the arguments. On error the table is left unchanged.
func (t *TableDefinition) AddColumns(cols ...ColumnDefinition) error {
	seen := make(map[string]bool, len(t.columns)+len(cols))
	for _, c := range t.columns {
		seen[c.Name] = true
	}
	staged := make([]ColumnDefinition, 0, len(cols))
	for _, c := range cols {
		if err := c.validate(); err != nil {
			return err
		}
		if seen[c.Name] {
			return &DuplicateColumnError{Column: c.Name}
		}
		seen[c.Name] = true
		staged = append(staged, c.withDefaults())
	}
	t.columns = append(t.columns, staged...)
	return nil
}

// UpdateColumn replaces the named column in place, preserving its position.
func (t *TableDefinition) UpdateColumn(name string, col ColumnDefinition) error {
	if col.Name == "" {
		col.Name = name
	}
	if err := col.validate(); err != nil {
		return err
	}
	for i := range t.columns {
		if t.columns[i].Name == name {
			if col.Name != name {
				if _, exists := t.Column(col.Name); exists {
					return &DuplicateColumnError{Column: col.Name}
				}
			}
			t.columns[i] = col.withDefaults()
			return nil
		}
	}
	return &ColumnNotFoundError{Column: name}
}

// DeleteColumn removes the named column.
func (t *TableDefinition) DeleteColumn(name string) error {
	for i := range t.columns {
		if t.columns[i].Name == name {
			t.columns = append(t.columns[:i], t.columns[i+1:]...)
			return nil
		}
	}
	return &ColumnNotFoundError{Column: name}
}

// SetPrimaryKey re-derives every column's primary-key flag from the given
// names. The manifest always emits the key in column order, never in the
// order the names were passed here.
func (t *TableDefinition) SetPrimaryKey(names ...string) error {
	byName := make(map[string]int, len(t.columns))
	for i, c := range t.columns {
		byName[c.Name] = i
	}
	for _, name := range names {
		if _, ok := byName[name]; !ok {
			return configErrorf("primary key column %q not found in schema, specify all columns first", name)
		}
	}
	requested := make(map[string]bool, len(names))
	for _, name := range names {
		requested[name] = true
	}
	for i := range t.columns {
		t.columns[i].PrimaryKey = requested[t.columns[i].Name]
	}
	return nil
}

// PrimaryKey returns the primary-key column names in column order.
func (t *TableDefinition) PrimaryKey() []string {
	if len(t.columns) == 0 && len(t.legacyPrimaryKey) > 0 {
		pk := make([]string, len(t.legacyPrimaryKey))
		copy(pk, t.legacyPrimaryKey)
		return pk
	}
	var pk []string
	for _, c := range t.columns {
		if c.PrimaryKey {
			pk = append(pk, c.Name)
		}
	}
	return pk
}

// Description returns the table description metadata.
func (t *TableDefinition) Description() string { return t.Metadata.Description() }

// SetDescription updates the table description metadata.
func (t *TableDefinition) SetDescription(description string) {
	t.Metadata.SetDescription(description)
}

// HasHeader reports whether the CSV file carries a header row. Sliced tables
// and output tables with declared columns are headless.
func (t *TableDefinition) HasHeader() bool {
	if t.IsSliced {
		return false
	}
	if len(t.columns) > 0 && t.Stage != StageIn {
		return false
	}
	return true
}
