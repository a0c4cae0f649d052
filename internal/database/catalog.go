package database

import (
	"context"
	"fmt"
)

// Column is one row of DESCRIBE output
type Column struct {
	Field   string
	Type    string
	Null    string
	Key     string
	Default *string
	Extra   string
}

// ListTables returns every table name in the session's database
func ListTables(ctx context.Context, s Session) ([]string, error) {
	rs, err := s.Query(ctx, ShowTablesQuery)
	if err != nil {
		return nil, fmt.Errorf("error retrieving table list: %w", err)
	}
	return firstColumn(rs), nil
}

// ListViews returns every view name in database
func ListViews(ctx context.Context, s Session, database string) ([]string, error) {
	rs, err := s.Query(ctx, ListViewsQuery, database)
	if err != nil {
		return nil, fmt.Errorf("error retrieving view list: %w", err)
	}
	return firstColumn(rs), nil
}

// DescribeTable returns the column layout of table. An unknown table yields
// either a driver error or no columns, depending on the server.
func DescribeTable(ctx context.Context, s Session, table string) ([]Column, error) {
	q, err := DescribeQuery(table)
	if err != nil {
		return nil, err
	}

	rs, err := s.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("error retrieving table details: %w", err)
	}

	columns := make([]Column, 0, len(rs.Rows))
	for i := range rs.Rows {
		col := Column{
			Field: text(rs.Value(i, "Field")),
			Type:  text(rs.Value(i, "Type")),
			Null:  text(rs.Value(i, "Null")),
			Key:   text(rs.Value(i, "Key")),
			Extra: text(rs.Value(i, "Extra")),
		}
		if v := rs.Value(i, "Default"); v != nil {
			def := text(v)
			col.Default = &def
		}
		columns = append(columns, col)
	}
	return columns, nil
}

// ViewDefinition returns the defining query of a view. ok is false when the
// view does not exist or its definition is not visible to the user.
func ViewDefinition(ctx context.Context, s Session, database, view string) (definition string, ok bool, err error) {
	rs, err := s.Query(ctx, ViewDefinitionQuery, database, view)
	if err != nil {
		return "", false, fmt.Errorf("error retrieving view definition: %w", err)
	}
	if len(rs.Rows) == 0 || len(rs.Rows[0]) == 0 || rs.Rows[0][0] == nil {
		return "", false, nil
	}
	definition = text(rs.Rows[0][0])
	return definition, definition != "", nil
}

// SampleRows fetches up to SampleRowLimit rows of a table or view
func SampleRows(ctx context.Context, s Session, name string) (*ResultSet, error) {
	q, err := SampleRowsQuery(name)
	if err != nil {
		return nil, err
	}

	rs, err := s.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("error retrieving rows of %s: %w", name, err)
	}
	return rs, nil
}

func firstColumn(rs *ResultSet) []string {
	names := make([]string, 0, len(rs.Rows))
	for _, row := range rs.Rows {
		if len(row) > 0 {
			names = append(names, text(row[0]))
		}
	}
	return names
}

func text(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	default:
		return fmt.Sprint(val)
	}
}
