package dao

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDataType_BaseRegistry(t *testing.T) {
	for _, dtype := range SupportedBaseTypes() {
		assert.NoError(t, ValidateDataType(BackendBase, DataType{Dtype: dtype}))
	}

	err := ValidateDataType(BackendBase, DataType{Dtype: "NOT_A_TYPE"})
	require.Error(t, err)
	var schemaErr *SchemaValidationError
	assert.True(t, errors.As(err, &schemaErr))
}

func TestValidateDataType_NamedBackendIsOpaque(t *testing.T) {
	// the same unknown name is fine under a named backend
	assert.NoError(t, ValidateDataType("snowflake", DataType{Dtype: "NOT_A_TYPE"}))
	assert.NoError(t, ValidateDataType("bigquery", DataType{Dtype: "GEOGRAPHY"}))

	err := ValidateDataType("snowflake", DataType{})
	var schemaErr *SchemaValidationError
	assert.True(t, errors.As(err, &schemaErr), "empty type name must fail for any backend")
}

func TestTypeShorthands(t *testing.T) {
	cases := map[string]struct {
		types map[string]DataType
		dtype string
	}{
		"string":    {StringType("255"), TypeString},
		"integer":   {IntegerType(), TypeInteger},
		"numeric":   {NumericType("12,2"), TypeNumeric},
		"float":     {FloatType(), TypeFloat},
		"boolean":   {BooleanType(), TypeBoolean},
		"date":      {DateType(), TypeDate},
		"timestamp": {TimestampType(), TypeTimestamp},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			require.Len(t, tc.types, 1)
			assert.Equal(t, tc.dtype, tc.types[BackendBase].Dtype)
		})
	}
	assert.Equal(t, "12,2", NumericType("12,2")[BackendBase].Length)
}

func TestNewColumnWithTypes(t *testing.T) {
	t.Run("defaults_missing_base_entry", func(t *testing.T) {
		col, err := NewColumnWithTypes("city", map[string]DataType{
			"snowflake": {Dtype: "VARCHAR", Length: "255"},
		})
		require.NoError(t, err)
		assert.Equal(t, TypeString, col.DataTypes[BackendBase].Dtype)
		assert.Equal(t, "VARCHAR", col.DataTypes["snowflake"].Dtype)
	})

	t.Run("rejects_unknown_base_type", func(t *testing.T) {
		_, err := NewColumnWithTypes("city", map[string]DataType{
			BackendBase: {Dtype: "NOT_A_TYPE"},
		})
		var schemaErr *SchemaValidationError
		require.True(t, errors.As(err, &schemaErr))
	})
}

func TestTypeFor_SingleHopFallback(t *testing.T) {
	col, err := NewColumnWithTypes("amount", map[string]DataType{
		BackendBase: {Dtype: TypeNumeric, Length: "12,2"},
		"snowflake": {Dtype: "NUMBER", Length: "38,2"},
	})
	require.NoError(t, err)

	assert.Equal(t, "NUMBER", col.TypeFor("snowflake").Dtype)
	// an unknown backend falls back to base, never to another named backend
	assert.Equal(t, TypeNumeric, col.TypeFor("bigquery").Dtype)
	assert.Equal(t, "12,2", col.TypeFor("bigquery").Length)
}

func TestAddUpdateDataType(t *testing.T) {
	col := NewColumn("id")

	require.NoError(t, col.AddDataType("snowflake", DataType{Dtype: "NUMBER"}))
	assert.Error(t, col.AddDataType("snowflake", DataType{Dtype: "NUMBER"}),
		"adding an existing backend must fail")

	require.NoError(t, col.UpdateDataType("snowflake", DataType{Dtype: "VARCHAR"}))
	assert.Error(t, col.UpdateDataType("bigquery", DataType{Dtype: "STRING"}),
		"updating an absent backend must fail")
}
