package mcp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/kaz/mysql-mcp-server/internal/config"
	"github.com/kaz/mysql-mcp-server/internal/database"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"
)

type fakeSession struct {
	queries []string
	closed  bool
	respond func(query string, args []any) (*database.ResultSet, error)
}

func (s *fakeSession) Query(ctx context.Context, query string, args ...any) (*database.ResultSet, error) {
	s.queries = append(s.queries, query)
	if s.respond == nil {
		return &database.ResultSet{}, nil
	}
	return s.respond(query, args)
}

func (s *fakeSession) Close() error {
	s.closed = true
	return nil
}

type fakeAcquirer struct {
	session  *fakeSession
	err      error
	acquired int
}

func (a *fakeAcquirer) Acquire(ctx context.Context) (database.Session, error) {
	a.acquired++
	if a.err != nil {
		return nil, a.err
	}
	return a.session, nil
}

var testConfig = config.ConnectionConfig{
	Host:     "localhost",
	Port:     3306,
	Username: "root",
	Database: "shop",
}

func newTestHandler(respond func(query string, args []any) (*database.ResultSet, error)) (*Handler, *fakeAcquirer) {
	a := &fakeAcquirer{session: &fakeSession{respond: respond}}
	return NewHandler(a, testConfig, zerolog.Nop()), a
}

func singleColumn(column string, values ...string) *database.ResultSet {
	rs := &database.ResultSet{Columns: []string{column}}
	for _, v := range values {
		rs.Rows = append(rs.Rows, database.Row{v})
	}
	return rs
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) != 1 {
		t.Fatalf("Expected one content block, got %d", len(result.Content))
	}
	content, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("Expected text content, got %T", result.Content[0])
	}
	return content.Text
}

func TestCallTool_ListTables(t *testing.T) {
	h, a := newTestHandler(func(query string, args []any) (*database.ResultSet, error) {
		return singleColumn("Tables_in_shop", "users", "orders"), nil
	})

	result, err := h.CallTool(context.Background(), ToolListTables, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatal("Expected success")
	}

	text := resultText(t, result)
	for _, want := range []string{"| 1 | users |", "| 2 | orders |"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in:\n%s", want, text)
		}
	}
	if !a.session.closed {
		t.Error("Expected session to be closed")
	}
}

func TestCallTool_InvalidArgumentsSkipDatabase(t *testing.T) {
	tests := []struct {
		name      string
		tool      string
		arguments map[string]any
	}{
		{"injected table name", ToolDescribeTable, map[string]any{"table_name": "1; DROP TABLE users"}},
		{"missing table name", ToolDescribeTable, map[string]any{}},
		{"non-string table name", ToolDescribeTable, map[string]any{"table_name": 42}},
		{"update statement", ToolReadQuery, map[string]any{"sql": "UPDATE users SET name = 'x'"}},
		{"missing sql", ToolReadQuery, nil},
		{"non-string sql", ToolReadQuery, map[string]any{"sql": []any{"SELECT 1"}}},
		{"unknown tool", "drop_table", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, a := newTestHandler(nil)

			result, err := h.CallTool(context.Background(), tt.tool, tt.arguments)
			if result != nil {
				t.Errorf("Expected no result, got %+v", result)
			}
			if !IsInvalidArgument(err) {
				t.Fatalf("Expected invalid argument error, got %v", err)
			}
			if a.acquired != 0 {
				t.Errorf("Expected no connection, got %d", a.acquired)
			}
		})
	}
}

func TestCallTool_DescribeTable(t *testing.T) {
	h, a := newTestHandler(func(query string, args []any) (*database.ResultSet, error) {
		return &database.ResultSet{
			Columns: []string{"Field", "Type", "Null", "Key", "Default", "Extra"},
			Rows: []database.Row{
				{"id", "int", "NO", "PRI", nil, "auto_increment"},
			},
		}, nil
	})

	result, err := h.CallTool(context.Background(), ToolDescribeTable, map[string]any{"table_name": "users"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	text := resultText(t, result)
	if !strings.Contains(text, "| id | int | NO | PRI | NULL | auto_increment |") {
		t.Errorf("Unexpected description:\n%s", text)
	}
	if got := a.session.queries; len(got) != 1 || got[0] != "DESCRIBE users" {
		t.Errorf("Unexpected queries %v", got)
	}
}

func TestCallTool_DescribeTableNoColumns(t *testing.T) {
	h, _ := newTestHandler(func(query string, args []any) (*database.ResultSet, error) {
		return &database.ResultSet{Columns: []string{"Field"}}, nil
	})

	result, err := h.CallTool(context.Background(), ToolDescribeTable, map[string]any{"table_name": "ghosts"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("Expected error result")
	}
	if text := resultText(t, result); !strings.Contains(text, "ghosts") {
		t.Errorf("Expected table name in %q", text)
	}
}

func TestCallTool_ReadQuery(t *testing.T) {
	h, a := newTestHandler(func(query string, args []any) (*database.ResultSet, error) {
		rs := &database.ResultSet{Columns: []string{"id"}}
		for i := 0; i < 150; i++ {
			rs.Rows = append(rs.Rows, database.Row{int64(i)})
		}
		return rs, nil
	})

	result, err := h.CallTool(context.Background(), ToolReadQuery, map[string]any{"sql": "select id from orders"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if got := a.session.queries; len(got) != 1 || got[0] != "select id from orders LIMIT 1000" {
		t.Errorf("Unexpected queries %v", got)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "LIMIT 1000 added automatically") {
		t.Error("Expected limit note")
	}
	if !strings.Contains(text, "Total rows returned: 150, showing first 100") {
		t.Errorf("Unexpected footer in:\n%s", text)
	}
	if strings.Contains(text, "| 100 |") {
		t.Error("Expected row 101 to be hidden")
	}
}

func TestCallTool_ExecutionFailures(t *testing.T) {
	t.Run("query error", func(t *testing.T) {
		h, a := newTestHandler(func(query string, args []any) (*database.ResultSet, error) {
			return nil, errors.New("Unknown column 'nope'")
		})

		result, err := h.CallTool(context.Background(), ToolReadQuery, map[string]any{"sql": "SELECT nope FROM users LIMIT 1"})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		text := resultText(t, result)
		if !result.IsError || !strings.HasPrefix(text, "Execution failed: ") {
			t.Errorf("Unexpected result %q", text)
		}
		if !a.session.closed {
			t.Error("Expected session to be closed")
		}
	})

	t.Run("connection error", func(t *testing.T) {
		a := &fakeAcquirer{err: &database.ConnectionError{Message: "connection refused"}}
		h := NewHandler(a, testConfig, zerolog.Nop())

		result, err := h.CallTool(context.Background(), ToolListTables, nil)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !result.IsError || !strings.Contains(resultText(t, result), "connection refused") {
			t.Errorf("Unexpected result %+v", result)
		}
	})
}

func TestListResources(t *testing.T) {
	h, _ := newTestHandler(func(query string, args []any) (*database.ResultSet, error) {
		switch query {
		case database.ShowTablesQuery:
			return singleColumn("Tables_in_shop", "users", "orders"), nil
		case database.ListViewsQuery:
			return singleColumn("TABLE_NAME", "active_users"), nil
		}
		return nil, fmt.Errorf("unexpected query %q", query)
	})

	result, err := h.ListResources(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := []string{
		"mysql://shop/table/users",
		"mysql://shop/table/orders",
		"mysql://shop/view/active_users",
		"mysql://shop/info",
	}
	if len(result.Resources) != len(want) {
		t.Fatalf("Expected %d resources, got %d", len(want), len(result.Resources))
	}
	for i, uri := range want {
		if result.Resources[i].URI != uri {
			t.Errorf("Resource %d: expected %s, got %s", i, uri, result.Resources[i].URI)
		}
	}
}

func TestListResources_ViewsBestEffort(t *testing.T) {
	h, _ := newTestHandler(func(query string, args []any) (*database.ResultSet, error) {
		if query == database.ShowTablesQuery {
			return singleColumn("Tables_in_shop"), nil
		}
		return nil, errors.New("access denied")
	})

	result, err := h.ListResources(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(result.Resources) != 1 || result.Resources[0].URI != "mysql://shop/info" {
		t.Errorf("Expected only the info resource, got %+v", result.Resources)
	}
}

func TestListResources_TablesFailure(t *testing.T) {
	h, a := newTestHandler(func(query string, args []any) (*database.ResultSet, error) {
		return nil, errors.New("gone away")
	})

	if _, err := h.ListResources(context.Background()); err == nil || IsInvalidArgument(err) {
		t.Errorf("Expected execution error, got %v", err)
	}
	if !a.session.closed {
		t.Error("Expected session to be closed")
	}
}

func TestReadResource_InvalidURISkipsDatabase(t *testing.T) {
	for _, uri := range []string{
		"mysql://otherdb/table/users",
		"postgres://shop/table/users",
		"mysql://shop/procedure/p",
		"mysql://shop/table/users;drop",
		"mysql://shop/view/",
	} {
		t.Run(uri, func(t *testing.T) {
			h, a := newTestHandler(nil)

			_, err := h.ReadResource(context.Background(), uri)
			if !IsInvalidArgument(err) {
				t.Fatalf("Expected invalid argument error, got %v", err)
			}
			if a.acquired != 0 {
				t.Error("Expected no connection")
			}
		})
	}
}

func TestReadResource_Table(t *testing.T) {
	h, a := newTestHandler(func(query string, args []any) (*database.ResultSet, error) {
		switch query {
		case "DESCRIBE users":
			return &database.ResultSet{
				Columns: []string{"Field", "Type", "Null", "Key", "Default", "Extra"},
				Rows:    []database.Row{{"id", "int", "NO", "PRI", nil, ""}},
			}, nil
		case "SELECT * FROM users LIMIT 100":
			return &database.ResultSet{Columns: []string{"id"}, Rows: []database.Row{{int64(7)}}}, nil
		}
		return nil, fmt.Errorf("unexpected query %q", query)
	})

	result, err := h.ReadResource(context.Background(), "mysql://shop/table/users")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(a.session.queries) != 2 {
		t.Errorf("Unexpected queries %v", a.session.queries)
	}

	content := result.Contents[0].(mcp.TextResourceContents)
	if content.URI != "mysql://shop/table/users" || content.MIMEType != "text/plain" {
		t.Errorf("Unexpected content metadata %+v", content)
	}
	if !strings.Contains(content.Text, "| 7 |") {
		t.Errorf("Expected sample row in:\n%s", content.Text)
	}
}

func TestReadResource_MissingView(t *testing.T) {
	h, a := newTestHandler(func(query string, args []any) (*database.ResultSet, error) {
		return &database.ResultSet{Columns: []string{"VIEW_DEFINITION"}}, nil
	})

	_, err := h.ReadResource(context.Background(), "mysql://shop/view/ghost")
	if err == nil || IsInvalidArgument(err) {
		t.Fatalf("Expected execution error, got %v", err)
	}
	if !strings.Contains(err.Error(), "ghost") {
		t.Errorf("Expected view name in %q", err)
	}
	if len(a.session.queries) != 1 {
		t.Errorf("Expected no data query after missing definition, got %v", a.session.queries)
	}
}

func TestReadResource_InfoPartialFailure(t *testing.T) {
	h, _ := newTestHandler(func(query string, args []any) (*database.ResultSet, error) {
		switch query {
		case database.DatabaseSizeQuery:
			return nil, errors.New("denied")
		case database.CountBaseTablesQuery:
			return &database.ResultSet{Columns: []string{"COUNT(*)"}, Rows: []database.Row{{int64(12)}}}, nil
		case database.CountViewsQuery:
			return &database.ResultSet{Columns: []string{"COUNT(*)"}, Rows: []database.Row{{int64(2)}}}, nil
		case database.CharsetQuery:
			return nil, errors.New("denied")
		}
		return nil, fmt.Errorf("unexpected query %q", query)
	})

	result, err := h.ReadResource(context.Background(), "mysql://shop/info")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	text := result.Contents[0].(mcp.TextResourceContents).Text
	for _, want := range []string{
		"| Database size | unavailable |",
		"| Tables | 12 |",
		"| Views | 2 |",
		"| Default character set | unavailable |",
		"| Host | localhost |",
		"| Port | 3306 |",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in:\n%s", want, text)
		}
	}
}

func TestListResourceTemplates(t *testing.T) {
	h, a := newTestHandler(nil)

	result, err := h.ListResourceTemplates(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(result.ResourceTemplates) != 3 {
		t.Errorf("Expected 3 templates, got %d", len(result.ResourceTemplates))
	}
	if a.acquired != 0 {
		t.Error("Expected no database access")
	}
}

func TestCallTool_LogsUnencodableArguments(t *testing.T) {
	var buf bytes.Buffer
	a := &fakeAcquirer{session: &fakeSession{respond: func(query string, args []any) (*database.ResultSet, error) {
		return singleColumn("Tables_in_shop", "users"), nil
	}}}
	h := NewHandler(a, testConfig, zerolog.New(&buf))

	if _, err := h.CallTool(context.Background(), ToolListTables, map[string]any{"extra": make(chan int)}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), `"arguments"`) {
		t.Errorf("Expected arguments in log output:\n%s", buf.String())
	}
}

func TestExecutionFailed(t *testing.T) {
	result := executionFailed(errors.New("boom"))
	if !result.IsError {
		t.Error("Expected IsError")
	}
	if text := resultText(t, result); text != "Execution failed: boom" {
		t.Errorf("Unexpected text %q", text)
	}
}
