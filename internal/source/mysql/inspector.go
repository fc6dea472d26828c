// Package mysql infers declarative table schemas from a live MySQL database
// by reading information_schema.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/alexanderjulianmartinez/compkit/pkg/tableschema"
)

// Inspector reads table shapes from one MySQL database.
type Inspector struct {
	db       *sql.DB
	database string
	timeout  time.Duration
}

// NewInspector opens and pings a connection to the given database.
func NewInspector(ctx context.Context, dsn, database string) (*Inspector, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("mysql ping failed: %w", err)
	}

	return &Inspector{
		db:       db,
		database: database,
		timeout:  5 * time.Second,
	}, nil
}

// Close releases the underlying connection pool.
func (i *Inspector) Close() error { return i.db.Close() }

// TableNames lists the base tables of the database.
func (i *Inspector) TableNames(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	rows, err := i.db.QueryContext(ctx, `
		SELECT TABLE_NAME
		FROM INFORMATION_SCHEMA.TABLES
		WHERE TABLE_SCHEMA = ? AND TABLE_TYPE = 'BASE TABLE'
		ORDER BY TABLE_NAME
	`, i.database)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// TableSchema builds a declarative schema for one table: fields in ordinal
// order with base types mapped from the MySQL column types, plus the primary
// key.
func (i *Inspector) TableSchema(ctx context.Context, tableName string) (*tableschema.TableSchema, error) {
	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	rows, err := i.db.QueryContext(ctx, `
		SELECT COLUMN_NAME, DATA_TYPE, IS_NULLABLE,
		       CHARACTER_MAXIMUM_LENGTH, NUMERIC_PRECISION, NUMERIC_SCALE, COLUMN_DEFAULT
		FROM INFORMATION_SCHEMA.COLUMNS
		WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ?
		ORDER BY ORDINAL_POSITION
	`, i.database, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schema := &tableschema.TableSchema{Name: tableName}
	for rows.Next() {
		var (
			name, dataType, nullable  string
			charLen, precision, scale sql.NullInt64
			columnDefault             sql.NullString
		)
		if err := rows.Scan(&name, &dataType, &nullable, &charLen, &precision, &scale, &columnDefault); err != nil {
			return nil, err
		}
		field := tableschema.FieldSchema{
			Name:     name,
			BaseType: baseTypeFor(dataType),
			Nullable: nullable == "YES",
			Length:   lengthFor(dataType, charLen, precision, scale),
		}
		if columnDefault.Valid {
			field.Default = &columnDefault.String
		}
		schema.AddField(field)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(schema.Fields) == 0 {
		return nil, fmt.Errorf("table %s not found in database %s", tableName, i.database)
	}

	pk, err := i.primaryKey(ctx, tableName)
	if err != nil {
		return nil, err
	}
	schema.PrimaryKeys = pk
	return schema, nil
}

func (i *Inspector) primaryKey(ctx context.Context, tableName string) ([]string, error) {
	rows, err := i.db.QueryContext(ctx, `
		SELECT COLUMN_NAME
		FROM INFORMATION_SCHEMA.KEY_COLUMN_USAGE
		WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ? AND CONSTRAINT_NAME = 'PRIMARY'
		ORDER BY ORDINAL_POSITION
	`, i.database, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pk []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		pk = append(pk, name)
	}
	return pk, rows.Err()
}
