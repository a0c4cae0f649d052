package format

import (
	"fmt"
	"strings"

	"github.com/kaz/mysql-mcp-server/internal/database"
)

// Unavailable replaces a statistic that could not be retrieved
const Unavailable = "unavailable"

// Info is the content of the database summary resource. Any field may be
// Unavailable.
type Info struct {
	Database  string
	Host      string
	Port      int
	SizeMB    string
	Tables    string
	Views     string
	Charset   string
	Collation string
}

// TableDocument renders a table resource: structure followed by sample rows
func TableDocument(table string, columns []database.Column, rs *database.ResultSet) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Table '%s' details\n\n", table)

	b.WriteString("## Structure\n\n")
	writeStructure(&b, columns)

	fmt.Fprintf(&b, "\n## Data (first %d rows)\n\n", database.SampleRowLimit)
	writeDump(&b, rs, "The table contains no data.\n")
	return b.String()
}

// ViewDocument renders a view resource: definition followed by sample rows
func ViewDocument(view, definition string, rs *database.ResultSet) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# View '%s' details\n\n", view)

	b.WriteString("## Definition\n\n")
	b.WriteString("```sql\n")
	b.WriteString(definition)
	b.WriteString("\n```\n\n")

	fmt.Fprintf(&b, "## Data (first %d rows)\n\n", database.SampleRowLimit)
	writeDump(&b, rs, "The view contains no data.\n")
	return b.String()
}

// writeDump prints every fetched row; the fetch itself is capped
func writeDump(b *strings.Builder, rs *database.ResultSet, empty string) {
	if rs == nil || len(rs.Rows) == 0 {
		b.WriteString(empty)
		return
	}

	writeRow(b, rs.Columns)
	writeRow(b, fixedUnderline(rs.Columns))
	for _, row := range rs.Rows {
		writeRow(b, renderRow(row, DumpCellLimit))
	}
}

// DatabaseInfo renders the database summary resource
func DatabaseInfo(info Info) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Database '%s' overview\n\n", info.Database)
	b.WriteString("## Basic information\n\n")
	b.WriteString("| Item | Value |\n")
	b.WriteString("|------|------|\n")
	writeRow(&b, []string{"Database name", info.Database})
	size := info.SizeMB
	if size != Unavailable {
		size += " MB"
	}
	writeRow(&b, []string{"Database size", size})
	writeRow(&b, []string{"Tables", info.Tables})
	writeRow(&b, []string{"Views", info.Views})
	writeRow(&b, []string{"Default character set", info.Charset})
	writeRow(&b, []string{"Default collation", info.Collation})
	writeRow(&b, []string{"Host", info.Host})
	writeRow(&b, []string{"Port", fmt.Sprint(info.Port)})
	return b.String()
}
