// Package format renders query results and catalog data as bounded markdown
// tables.
package format

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/kaz/mysql-mcp-server/internal/database"
)

const (
	// QueryCellLimit is the longest string cell shown in query output
	QueryCellLimit = 100
	// DumpCellLimit is the longest string cell shown in table and view dumps
	DumpCellLimit = 50
	// MaxDisplayRows caps the rows printed for a query result
	MaxDisplayRows = 100
	// MaxListedTables caps the entries printed by the table list
	MaxListedTables = 1000
)

const ellipsis = "..."

// Truncate shortens s to limit runes, ending with an ellipsis
func Truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-len(ellipsis)]) + ellipsis
}

// Cell renders a single value. Only strings are truncated.
func Cell(v any, limit int) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case string:
		return Truncate(val, limit)
	case []byte:
		return Truncate(string(val), limit)
	case bool:
		if val {
			return "1"
		}
		return "0"
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	default:
		return fmt.Sprint(val)
	}
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("| ")
	b.WriteString(strings.Join(cells, " | "))
	b.WriteString(" |\n")
}

// headerUnderline sizes each separator to its header in runes
func headerUnderline(headers []string) []string {
	dashes := make([]string, len(headers))
	for i, h := range headers {
		dashes[i] = strings.Repeat("-", utf8.RuneCountInString(h))
	}
	return dashes
}

func fixedUnderline(headers []string) []string {
	dashes := make([]string, len(headers))
	for i := range headers {
		dashes[i] = "------"
	}
	return dashes
}

func renderRow(row database.Row, limit int) []string {
	cells := make([]string, len(row))
	for i, v := range row {
		cells[i] = Cell(v, limit)
	}
	return cells
}
