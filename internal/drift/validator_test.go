package drift

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderjulianmartinez/compkit/pkg/dao"
	"github.com/alexanderjulianmartinez/compkit/pkg/tableschema"
)

func ordersSchema() *tableschema.TableSchema {
	return &tableschema.TableSchema{
		Name:        "orders",
		PrimaryKeys: []string{"id"},
		Fields: []tableschema.FieldSchema{
			{Name: "id", BaseType: "INTEGER"},
			{Name: "customer", BaseType: "STRING", Length: "255", Nullable: true},
			{Name: "amount", BaseType: "NUMERIC"},
		},
	}
}

func tableFor(t *testing.T, opts ...dao.TableOption) *dao.TableDefinition {
	t.Helper()
	td, err := dao.NewTableDefinition("orders.csv", opts...)
	require.NoError(t, err)
	return td
}

func typedColumn(t *testing.T, name, baseType, length string) dao.ColumnDefinition {
	t.Helper()
	col, err := dao.NewColumnWithTypes(name, dao.BaseType(dao.DataType{Dtype: baseType, Length: length}))
	require.NoError(t, err)
	return col
}

func TestValidate_MatchingSchemaIsClean(t *testing.T) {
	td := tableFor(t,
		dao.WithColumns(
			typedColumn(t, "id", dao.TypeInteger, ""),
			typedColumn(t, "customer", dao.TypeString, "255"),
			typedColumn(t, "amount", dao.TypeNumeric, ""),
		),
		dao.WithPrimaryKey("id"),
	)

	report := Validate(ordersSchema(), td)
	assert.Empty(t, report.Issues)
	assert.False(t, report.HasBlocking())
}

func TestValidate_MissingColumnBlocks(t *testing.T) {
	td := tableFor(t,
		dao.WithColumns(
			typedColumn(t, "id", dao.TypeInteger, ""),
			typedColumn(t, "customer", dao.TypeString, "255"),
		),
		dao.WithPrimaryKey("id"),
	)

	report := Validate(ordersSchema(), td)
	require.True(t, report.HasBlocking())

	var kinds []string
	for _, issue := range report.Issues {
		kinds = append(kinds, issue.Kind)
	}
	assert.Contains(t, kinds, "column_removed")
}

func TestValidate_ExtraColumnIsInfoOnly(t *testing.T) {
	td := tableFor(t,
		dao.WithColumns(
			typedColumn(t, "id", dao.TypeInteger, ""),
			typedColumn(t, "customer", dao.TypeString, "255"),
			typedColumn(t, "amount", dao.TypeNumeric, ""),
			typedColumn(t, "comment", dao.TypeString, ""),
		),
		dao.WithPrimaryKey("id"),
	)

	report := Validate(ordersSchema(), td)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, "column_added", report.Issues[0].Kind)
	assert.Equal(t, SeverityInfo, report.Issues[0].Severity)
	assert.False(t, report.HasBlocking())
}

func TestValidate_TypeAndLengthChangesWarn(t *testing.T) {
	// schema says id INTEGER and customer length 255
	td := tableFor(t,
		dao.WithColumns(
			typedColumn(t, "id", dao.TypeString, ""),
			typedColumn(t, "customer", dao.TypeString, ""),
			typedColumn(t, "amount", dao.TypeNumeric, ""),
		),
		dao.WithPrimaryKey("id"),
	)

	report := Validate(ordersSchema(), td)
	assert.False(t, report.HasBlocking())

	bySeverity := map[string]int{}
	for _, issue := range report.Issues {
		bySeverity[issue.Severity]++
	}
	assert.Equal(t, 2, bySeverity[SeverityWarn])
}

func TestValidate_NullableToNotNullBlocks(t *testing.T) {
	customer := typedColumn(t, "customer", dao.TypeString, "255")
	customer.Nullable = false

	td := tableFor(t,
		dao.WithColumns(
			typedColumn(t, "id", dao.TypeInteger, ""),
			customer,
			typedColumn(t, "amount", dao.TypeNumeric, ""),
		),
		dao.WithPrimaryKey("id"),
	)

	report := Validate(ordersSchema(), td)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, "nullable_to_notnull", report.Issues[0].Kind)
	assert.True(t, report.HasBlocking())
}

func TestValidate_PrimaryKeyChangeBlocks(t *testing.T) {
	td := tableFor(t,
		dao.WithColumns(
			typedColumn(t, "id", dao.TypeInteger, ""),
			typedColumn(t, "customer", dao.TypeString, "255"),
			typedColumn(t, "amount", dao.TypeNumeric, ""),
		),
		dao.WithPrimaryKey("id", "customer"),
	)

	report := Validate(ordersSchema(), td)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, "primary_key_changed", report.Issues[0].Kind)
	assert.True(t, report.HasBlocking())
}
