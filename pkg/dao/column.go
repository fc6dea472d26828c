package dao

import "fmt"

// ColumnDefinition describes one column of a table: its name, nullability,
// primary-key membership and the per-backend data types. The map always holds
// at least the base entry.
type ColumnDefinition struct {
	Name        string
	DataTypes   map[string]DataType
	Nullable    bool
	PrimaryKey  bool
	Description string
	Metadata    map[string]string
}

// NewColumn builds a column with the default base STRING type.
func NewColumn(name string) ColumnDefinition {
	return ColumnDefinition{
		Name:      name,
		DataTypes: BaseType(DataType{Dtype: TypeString}),
		Nullable:  true,
	}
}

// NewColumnWithTypes builds a column from an explicit backend-to-type map.
// A missing base entry is defaulted to STRING; a present one must name a
// registered base type.
func NewColumnWithTypes(name string, types map[string]DataType) (ColumnDefinition, error) {
	col := ColumnDefinition{Name: name, Nullable: true, DataTypes: map[string]DataType{}}
	for backend, dt := range types {
		if err := ValidateDataType(backend, dt); err != nil {
			return ColumnDefinition{}, err
		}
		col.DataTypes[backend] = dt
	}
	if _, ok := col.DataTypes[BackendBase]; !ok {
		col.DataTypes[BackendBase] = DataType{Dtype: TypeString}
	}
	return col, nil
}

// TypeFor returns the type descriptor for the given backend, falling back to
// the base entry when the backend has no entry of its own. The fallback is a
// single hop: no other named backend is ever consulted.
func (c ColumnDefinition) TypeFor(backend string) DataType {
	if dt, ok := c.DataTypes[backend]; ok {
		return dt
	}
	return c.DataTypes[BackendBase]
}

// AddDataType registers a type for a backend that has none yet.
func (c *ColumnDefinition) AddDataType(backend string, dt DataType) error {
	if c.DataTypes == nil {
		c.DataTypes = map[string]DataType{}
	}
	if _, ok := c.DataTypes[backend]; ok {
		return fmt.Errorf("data type for backend %q already exists, use UpdateDataType", backend)
	}
	if err := ValidateDataType(backend, dt); err != nil {
		return err
	}
	c.DataTypes[backend] = dt
	return nil
}

// UpdateDataType replaces the type of a backend that already has one.
func (c *ColumnDefinition) UpdateDataType(backend string, dt DataType) error {
	if _, ok := c.DataTypes[backend]; !ok {
		return fmt.Errorf("data type for backend %q does not exist, use AddDataType", backend)
	}
	if err := ValidateDataType(backend, dt); err != nil {
		return err
	}
	c.DataTypes[backend] = dt
	return nil
}

// validate checks the column invariants that must hold before it is attached
// to a table.
func (c ColumnDefinition) validate() error {
	if c.Name == "" {
		return SchemaErrorf("column name must not be empty")
	}
	if len(c.DataTypes) == 0 {
		return nil // defaulted on attach
	}
	for backend, dt := range c.DataTypes {
		if err := ValidateDataType(backend, dt); err != nil {
			return err
		}
	}
	return nil
}

// withDefaults returns a copy with the base type entry guaranteed.
func (c ColumnDefinition) withDefaults() ColumnDefinition {
	if c.DataTypes == nil {
		c.DataTypes = map[string]DataType{}
	}
	if _, ok := c.DataTypes[BackendBase]; !ok {
		types := make(map[string]DataType, len(c.DataTypes)+1)
		for k, v := range c.DataTypes {
			types[k] = v
		}
		types[BackendBase] = DataType{Dtype: TypeString}
		c.DataTypes = types
	}
	return c
}
