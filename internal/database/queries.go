package database

import (
	"fmt"

	"github.com/kaz/mysql-mcp-server/internal/sqlguard"
)

// Catalog statements. Values are always bound, never interpolated.
const (
	ShowTablesQuery = "SHOW TABLES"

	ListViewsQuery = "SELECT TABLE_NAME FROM INFORMATION_SCHEMA.VIEWS WHERE TABLE_SCHEMA = ?"

	ViewDefinitionQuery = "SELECT VIEW_DEFINITION FROM INFORMATION_SCHEMA.VIEWS WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ?"

	DatabaseSizeQuery = "SELECT ROUND(SUM(data_length + index_length) / 1024 / 1024, 2) AS size_mb " +
		"FROM information_schema.TABLES WHERE table_schema = ? GROUP BY table_schema"

	CountBaseTablesQuery = "SELECT COUNT(*) FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_SCHEMA = ? AND TABLE_TYPE = 'BASE TABLE'"

	CountViewsQuery = "SELECT COUNT(*) FROM INFORMATION_SCHEMA.VIEWS WHERE TABLE_SCHEMA = ?"

	CharsetQuery = "SELECT DEFAULT_CHARACTER_SET_NAME, DEFAULT_COLLATION_NAME FROM INFORMATION_SCHEMA.SCHEMATA WHERE SCHEMA_NAME = ?"
)

// SampleRowLimit is the number of rows fetched for a table or view dump
const SampleRowLimit = 100

// DescribeQuery and SampleRowsQuery are the only places an identifier is
// written into statement text. Both refuse names that fail
// sqlguard.IsValidIdentifier.

func DescribeQuery(table string) (string, error) {
	if !sqlguard.IsValidIdentifier(table) {
		return "", fmt.Errorf("invalid table name: %q", table)
	}
	return "DESCRIBE " + table, nil
}

func SampleRowsQuery(name string) (string, error) {
	if !sqlguard.IsValidIdentifier(name) {
		return "", fmt.Errorf("invalid table or view name: %q", name)
	}
	return fmt.Sprintf("SELECT * FROM %s LIMIT %d", name, SampleRowLimit), nil
}
