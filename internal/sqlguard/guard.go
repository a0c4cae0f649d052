// Package sqlguard holds the checks applied to caller-supplied SQL before it
// reaches the database: identifier validation and the read-only query guard.
package sqlguard

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/percona/go-mysql/query"
)

// DefaultRowLimit is appended to queries that do not specify a LIMIT
const DefaultRowLimit = 1000

var (
	ErrNotString  = errors.New("SQL query must be a string")
	ErrNotSelect  = errors.New("only SELECT queries are allowed")
	selectPattern = regexp.MustCompile(`(?i)^SELECT\s`)
)

// GuardedQuery is a statement that passed Guard
type GuardedQuery struct {
	SQL        string
	LimitAdded bool
}

// Guard accepts a SELECT statement and caps its result size.
//
// The check is a prefix test only. Anything after the leading SELECT,
// including a chained statement, is passed through as written.
func Guard(raw any) (GuardedQuery, error) {
	sql, ok := raw.(string)
	if !ok {
		return GuardedQuery{}, ErrNotString
	}

	sql = strings.TrimSpace(sql)
	if !selectPattern.MatchString(sql) {
		return GuardedQuery{}, ErrNotSelect
	}

	// Any LIMIT token counts, even one inside a string literal
	if strings.Contains(strings.ToUpper(sql), "LIMIT") {
		return GuardedQuery{SQL: sql}, nil
	}

	return GuardedQuery{
		SQL:        sql + " LIMIT " + strconv.Itoa(DefaultRowLimit),
		LimitAdded: true,
	}, nil
}

// Fingerprint normalizes a statement for logging so that queries differing
// only in literal values group together.
func Fingerprint(sql string) string {
	if strings.TrimSpace(sql) == "" {
		return ""
	}
	return query.Fingerprint(sql)
}
