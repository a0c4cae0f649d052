package database

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoRows is returned by the statistics helpers when the server answered
// with an empty result
var ErrNoRows = errors.New("no rows returned")

// DatabaseSize returns the data plus index length of database in megabytes,
// rounded to two decimals by the server
func DatabaseSize(ctx context.Context, s Session, database string) (string, error) {
	return scalar(ctx, s, DatabaseSizeQuery, database)
}

// CountBaseTables returns the number of base tables in database
func CountBaseTables(ctx context.Context, s Session, database string) (string, error) {
	return scalar(ctx, s, CountBaseTablesQuery, database)
}

// CountViews returns the number of views in database
func CountViews(ctx context.Context, s Session, database string) (string, error) {
	return scalar(ctx, s, CountViewsQuery, database)
}

// Charset returns the default character set and collation of database
func Charset(ctx context.Context, s Session, database string) (charset, collation string, err error) {
	rs, err := s.Query(ctx, CharsetQuery, database)
	if err != nil {
		return "", "", err
	}
	if len(rs.Rows) == 0 || len(rs.Rows[0]) < 2 {
		return "", "", ErrNoRows
	}
	return text(rs.Rows[0][0]), text(rs.Rows[0][1]), nil
}

func scalar(ctx context.Context, s Session, query string, args ...any) (string, error) {
	rs, err := s.Query(ctx, query, args...)
	if err != nil {
		return "", err
	}
	if len(rs.Rows) == 0 || len(rs.Rows[0]) == 0 {
		return "", ErrNoRows
	}
	if rs.Rows[0][0] == nil {
		return "", fmt.Errorf("%w: NULL value", ErrNoRows)
	}
	return text(rs.Rows[0][0]), nil
}
