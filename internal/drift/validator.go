// Package drift compares a declarative table schema against the definition
// reconstructed from a manifest and reports the differences. It answers the
// question "can the data currently on disk still be loaded into the table this
// schema declares" before the host attempts the import.
package drift

import (
	"strings"

	"github.com/alexanderjulianmartinez/compkit/pkg/dao"
	"github.com/alexanderjulianmartinez/compkit/pkg/tableschema"
)

// Issue is one detected difference between the schema and the manifest.
type Issue struct {
	Column   string
	Kind     string
	Severity string
	Message  string
}

// Report collects the issues of one comparison.
type Report struct {
	Table  string
	Issues []Issue
}

// HasBlocking reports whether any issue would break the load.
func (r *Report) HasBlocking() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityBlock {
			return true
		}
	}
	return false
}

func (r *Report) add(column, kind, from, to string) {
	r.Issues = append(r.Issues, Issue{
		Column:   column,
		Kind:     kind,
		Severity: SeverityForChange(kind),
		Message:  MessageForChange(kind, from, to),
	})
}

// Validate compares the declared schema (the desired shape) with a table
// definition rebuilt from a manifest (the actual shape on disk).
func Validate(schema *tableschema.TableSchema, def *dao.TableDefinition) *Report {
	report := &Report{Table: schema.Name}

	actual := map[string]dao.ColumnDefinition{}
	for _, col := range def.Columns() {
		actual[col.Name] = col
	}
	declared := map[string]bool{}

	for _, field := range schema.Fields {
		declared[field.Name] = true
		col, ok := actual[field.Name]
		if !ok {
			report.add(field.Name, "column_removed", "", "")
			continue
		}
		want := field.NormalizedBaseType()
		got := col.TypeFor(dao.BackendBase)
		if got.Dtype != want {
			report.add(field.Name, "type_changed", want, got.Dtype)
		}
		if field.Length != "" && got.Length != field.Length {
			report.add(field.Name, "length_changed", field.Length, got.Length)
		}
		if field.Nullable && !col.Nullable {
			report.add(field.Name, "nullable_to_notnull", "", "")
		}
	}

	for _, name := range def.ColumnNames() {
		if !declared[name] {
			report.add(name, "column_added", "", "")
		}
	}

	wantPK := strings.Join(schema.PrimaryKeys, ", ")
	gotPK := strings.Join(def.PrimaryKey(), ", ")
	if wantPK != gotPK {
		report.add("", "primary_key_changed", wantPK, gotPK)
	}

	return report
}
