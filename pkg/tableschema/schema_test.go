package tableschema

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderjulianmartinez/compkit/pkg/dao"
)

const ordersJSON = `{
	"name": "orders",
	"description": "extracted orders",
	"primary_keys": ["id"],
	"fields": [
		{"name": "id", "base_type": "integer"},
		{"name": "customer", "base_type": "STRING", "length": "255"},
		{"name": "amount", "base_type": "NUMERIC", "length": "12,2", "nullable": true},
		{"name": "note"}
	]
}`

const ordersYAML = `name: orders
primary_keys:
  - id
fields:
  - name: id
    base_type: INTEGER
  - name: customer
    base_type: string
    length: "255"
`

func TestParse(t *testing.T) {
	s, err := Parse([]byte(ordersJSON))
	require.NoError(t, err)

	assert.Equal(t, "orders", s.Name)
	assert.Equal(t, "orders.csv", s.CSVName())
	assert.Equal(t, []string{"id", "customer", "amount", "note"}, s.FieldNames())
	assert.Equal(t, []string{"id"}, s.PrimaryKeys)

	// lower-case type names normalize to the registry form
	assert.Equal(t, dao.TypeInteger, s.Fields[0].NormalizedBaseType())
	assert.Equal(t, dao.TypeString, s.Fields[3].NormalizedBaseType(), "untyped field defaults to STRING")
}

func TestParseYAML(t *testing.T) {
	s, err := ParseYAML([]byte(ordersYAML))
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "customer"}, s.FieldNames())
	assert.Equal(t, "255", s.Fields[1].Length)
}

func TestLoad_FormatByExtension(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "orders.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(ordersJSON), 0o644))
	yamlPath := filepath.Join(dir, "orders.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(ordersYAML), 0o644))

	fromJSON, err := Load(jsonPath)
	require.NoError(t, err)
	fromYAML, err := Load(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "orders", fromJSON.Name)
	assert.Equal(t, "orders", fromYAML.Name)

	_, err = Load(filepath.Join(dir, "absent.json"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	schemaErr := func(t *testing.T, err error) {
		t.Helper()
		var serr *dao.SchemaValidationError
		require.True(t, errors.As(err, &serr), "expected schema validation error, got %v", err)
	}

	t.Run("missing_name", func(t *testing.T) {
		s := &TableSchema{Fields: []FieldSchema{{Name: "a"}}}
		schemaErr(t, s.Validate())
	})

	t.Run("no_fields", func(t *testing.T) {
		s := &TableSchema{Name: "t"}
		schemaErr(t, s.Validate())
	})

	t.Run("duplicate_field", func(t *testing.T) {
		s := &TableSchema{Name: "t", Fields: []FieldSchema{{Name: "a"}, {Name: "a"}}}
		schemaErr(t, s.Validate())
	})

	t.Run("unknown_base_type", func(t *testing.T) {
		s := &TableSchema{Name: "t", Fields: []FieldSchema{{Name: "a", BaseType: "VARCHAR"}}}
		schemaErr(t, s.Validate())
	})

	t.Run("primary_key_not_declared", func(t *testing.T) {
		s := &TableSchema{Name: "t", PrimaryKeys: []string{"b"}, Fields: []FieldSchema{{Name: "a"}}}
		schemaErr(t, s.Validate())
	})

	t.Run("case_insensitive_base_type", func(t *testing.T) {
		s := &TableSchema{Name: "t", Fields: []FieldSchema{{Name: "a", BaseType: "timestamp"}}}
		assert.NoError(t, s.Validate())
	})
}

func TestParse_MalformedDocuments(t *testing.T) {
	var serr *dao.SchemaValidationError

	_, err := Parse([]byte(`{"name":`))
	require.True(t, errors.As(err, &serr))

	_, err = ParseYAML([]byte("name: [unclosed"))
	require.True(t, errors.As(err, &serr))
}

func TestAddField(t *testing.T) {
	s := &TableSchema{Name: "t"}
	s.AddField(FieldSchema{Name: "a", BaseType: dao.TypeInteger})
	s.AddField(FieldSchema{Name: "b"})
	require.NoError(t, s.Validate())
	assert.Equal(t, []string{"a", "b"}, s.FieldNames())
}
