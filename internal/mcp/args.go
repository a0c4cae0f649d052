package mcp

import (
	"github.com/kaz/mysql-mcp-server/internal/sqlguard"
)

// Tool names
const (
	ToolListTables    = "list_tables"
	ToolDescribeTable = "describe-table"
	ToolReadQuery     = "read_query"
)

// toolArgs is the validated argument set of one tool call
type toolArgs interface {
	toolName() string
}

type ListTablesArgs struct{}

type DescribeTableArgs struct {
	TableName string
}

type ReadQueryArgs struct {
	Query sqlguard.GuardedQuery
}

func (ListTablesArgs) toolName() string    { return ToolListTables }
func (DescribeTableArgs) toolName() string { return ToolDescribeTable }
func (ReadQueryArgs) toolName() string     { return ToolReadQuery }

// parseToolArgs validates arguments for the named tool. Extra keys are
// ignored; missing or malformed required ones are rejected.
func parseToolArgs(name string, arguments map[string]any) (toolArgs, error) {
	switch name {
	case ToolListTables:
		return ListTablesArgs{}, nil

	case ToolDescribeTable:
		raw, ok := arguments["table_name"]
		if !ok || raw == nil {
			return nil, invalidArgument("table_name", "", "missing required argument: table_name")
		}
		tableName, ok := raw.(string)
		if !ok || !sqlguard.IsValidIdentifier(tableName) {
			return nil, invalidArgument("table_name", printable(raw), "invalid table name")
		}
		return DescribeTableArgs{TableName: tableName}, nil

	case ToolReadQuery:
		raw, ok := arguments["sql"]
		if !ok || raw == nil {
			return nil, invalidArgument("sql", "", "missing required argument: sql")
		}
		q, err := sqlguard.Guard(raw)
		if err != nil {
			return nil, invalidArgument("sql", printable(raw), "%v", err)
		}
		return ReadQueryArgs{Query: q}, nil

	default:
		return nil, invalidArgument("tool", name, "unknown tool: %s", name)
	}
}
