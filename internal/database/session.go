package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Row holds the values of one result row in column order
type Row []any

// ResultSet is a fully fetched query result
type ResultSet struct {
	Columns []string
	Rows    []Row
}

// Value returns the value at row i of the named column, or nil when the
// column is absent.
func (r *ResultSet) Value(i int, column string) any {
	for j, c := range r.Columns {
		if c == column {
			return r.Rows[i][j]
		}
	}
	return nil
}

// Session is a single connection scoped to one request. Callers must Close
// it on every exit path.
type Session interface {
	Query(ctx context.Context, query string, args ...any) (*ResultSet, error)
	Close() error
}

// sqlSession pins one *sql.Conn out of a dedicated *sql.DB
type sqlSession struct {
	db   *sql.DB
	conn *sql.Conn
}

func (s *sqlSession) Query(ctx context.Context, query string, args ...any) (*ResultSet, error) {
	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRows(rows)
}

func (s *sqlSession) Close() error {
	connErr := s.conn.Close()
	if err := s.db.Close(); err != nil {
		return err
	}
	return connErr
}

func scanRows(rows *sql.Rows) (*ResultSet, error) {
	// Get column names
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("error getting column information: %w", err)
	}

	result := &ResultSet{Columns: columns}

	// Buffer for scanning row data
	values := make([]any, len(columns))
	valuePtrs := make([]any, len(columns))
	for i := range columns {
		valuePtrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("data scan error: %w", err)
		}

		row := make(Row, len(columns))
		for i, val := range values {
			// Convert byte array to string
			if b, ok := val.([]byte); ok {
				row[i] = string(b)
			} else {
				row[i] = val
			}
		}
		result.Rows = append(result.Rows, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during query execution: %w", err)
	}

	return result, nil
}
