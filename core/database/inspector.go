package database

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ErrTableNotFound indicates the inspected table has no columns, i.e. does not exist.
var ErrTableNotFound = errors.New("database: table not found")

// ColumnInfo describes one column, normalized across drivers. Names and types are
// lowercase.
type ColumnInfo struct {
	Field      string
	Type       string
	Nullable   bool
	PrimaryKey bool
	Default    *string // nil when the column has no default
}

// mysqlColumn is one row of SHOW COLUMNS.
type mysqlColumn struct {
	Field   string
	Type    string
	Null    string
	Key     string
	Default *string
	Extra   string
}

// sqliteColumn is one row of PRAGMA table_info.
type sqliteColumn struct {
	Cid       int
	Name      string
	Type      string
	Notnull   int
	DfltValue *string
	Pk        int
}

// GetTableColumns retrieves the column definitions for a given table. It returns
// ErrTableNotFound when the table does not exist.
func GetTableColumns(db *gorm.DB, tableName string) ([]ColumnInfo, error) {
	var (
		columns []ColumnInfo
		err     error
	)
	switch db.Dialector.Name() {
	case "sqlite":
		columns, err = sqliteColumns(db, tableName)
	default:
		columns, err = mysqlColumns(db, tableName)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("%s: %w", tableName, ErrTableNotFound)
	}
	return columns, nil
}

func sqliteColumns(db *gorm.DB, tableName string) ([]ColumnInfo, error) {
	var rows []sqliteColumn
	if err := db.Raw(fmt.Sprintf("PRAGMA table_info('%s')", tableName)).Scan(&rows).Error; err != nil {
		return nil, err
	}
	columns := make([]ColumnInfo, 0, len(rows))
	for _, col := range rows {
		columns = append(columns, ColumnInfo{
			Field:      strings.ToLower(col.Name),
			Type:       strings.ToLower(col.Type),
			Nullable:   col.Notnull == 0,
			PrimaryKey: col.Pk > 0,
			Default:    col.DfltValue,
		})
	}
	return columns, nil
}

// Raw SHOW COLUMNS keeps MySQL's exact type strings.
func mysqlColumns(db *gorm.DB, tableName string) ([]ColumnInfo, error) {
	var rows []mysqlColumn
	if err := db.Raw(fmt.Sprintf("SHOW COLUMNS FROM `%s`", tableName)).Scan(&rows).Error; err != nil {
		return nil, err
	}
	columns := make([]ColumnInfo, 0, len(rows))
	for _, col := range rows {
		columns = append(columns, ColumnInfo{
			Field:      strings.ToLower(col.Field),
			Type:       strings.ToLower(col.Type),
			Nullable:   col.Null == "YES",
			PrimaryKey: col.Key == "PRI",
			Default:    col.Default,
		})
	}
	return columns, nil
}
