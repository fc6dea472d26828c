package mysql

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/alexanderjulianmartinez/compkit/pkg/dao"
)

// baseTypeFor maps a MySQL data type name to the portable base type registry.
func baseTypeFor(mysqlType string) string {
	switch strings.ToLower(mysqlType) {
	case "tinyint", "smallint", "mediumint", "int", "bigint", "year":
		return dao.TypeInteger
	case "decimal", "numeric":
		return dao.TypeNumeric
	case "float", "double":
		return dao.TypeFloat
	case "bit", "bool", "boolean":
		return dao.TypeBoolean
	case "date":
		return dao.TypeDate
	case "datetime", "timestamp", "time":
		return dao.TypeTimestamp
	case "json":
		return dao.TypeObject
	default:
		// char, varchar, text, blob, enum, set and everything else
		return dao.TypeString
	}
}

// lengthFor renders the base-type length attribute: "precision,scale" for
// decimals, the character limit for string types, nothing otherwise.
func lengthFor(mysqlType string, charLen, precision, scale sql.NullInt64) string {
	switch strings.ToLower(mysqlType) {
	case "decimal", "numeric":
		if precision.Valid && scale.Valid {
			return fmt.Sprintf("%d,%d", precision.Int64, scale.Int64)
		}
	case "char", "varchar":
		if charLen.Valid {
			return fmt.Sprintf("%d", charLen.Int64)
		}
	}
	return ""
}
