package format

import (
	"fmt"
	"strings"

	"github.com/kaz/mysql-mcp-server/internal/database"
)

// NoResults is returned for a query that produced no rows
const NoResults = "Query executed successfully, but returned no results."

// QueryResult renders the output of read_query. At most MaxDisplayRows rows
// are printed; the footer always gives the number of rows fetched.
func QueryResult(rs *database.ResultSet, limitAdded bool) string {
	if rs == nil || len(rs.Rows) == 0 {
		return NoResults
	}

	var b strings.Builder
	b.WriteString("Query results")
	if limitAdded {
		b.WriteString(" (LIMIT 1000 added automatically)")
	}
	b.WriteString(":\n\n")

	writeRow(&b, rs.Columns)
	writeRow(&b, headerUnderline(rs.Columns))

	shown := 0
	for _, row := range rs.Rows {
		if shown >= MaxDisplayRows {
			break
		}
		writeRow(&b, renderRow(row, QueryCellLimit))
		shown++
	}

	total := len(rs.Rows)
	fmt.Fprintf(&b, "\nTotal rows returned: %d", total)
	if shown < total {
		fmt.Fprintf(&b, ", showing first %d only", shown)
	}

	return b.String()
}

// TableList renders the output of list_tables
func TableList(tables []string) string {
	var b strings.Builder
	if len(tables) > MaxListedTables {
		tables = tables[:MaxListedTables]
		fmt.Fprintf(&b, "Database tables (showing first %d only):\n\n", MaxListedTables)
	} else {
		b.WriteString("Database tables:\n\n")
	}

	b.WriteString("| # | Table |\n")
	b.WriteString("|------|------|\n")
	for i, table := range tables {
		fmt.Fprintf(&b, "| %d | %s |\n", i+1, table)
	}
	return b.String()
}

// TableDescription renders the output of describe-table
func TableDescription(table string, columns []database.Column) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Structure of table '%s':\n\n", table)
	writeStructure(&b, columns)
	return b.String()
}

func writeStructure(b *strings.Builder, columns []database.Column) {
	b.WriteString("| Field | Type | Null | Key | Default | Extra |\n")
	b.WriteString("|------|------|----------|-----|--------|------|\n")
	for _, c := range columns {
		def := "NULL"
		if c.Default != nil {
			def = *c.Default
		}
		writeRow(b, []string{c.Field, c.Type, c.Null, c.Key, def, c.Extra})
	}
}
