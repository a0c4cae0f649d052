package mcp

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/kaz/mysql-mcp-server/internal/database"
	"github.com/kaz/mysql-mcp-server/internal/format"
	"github.com/kaz/mysql-mcp-server/internal/sqlguard"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"
)

// Tools returns the definitions advertised by tools/list
func Tools() []mcp.Tool {
	return []mcp.Tool{
		mcp.NewTool(ToolListTables,
			mcp.WithDescription("Lists all tables in the database"),
		),
		mcp.NewTool(ToolDescribeTable,
			mcp.WithDescription("Describes the structure of the specified table"),
			mcp.WithString("table_name",
				mcp.Required(),
				mcp.Description("Table name"),
			),
		),
		mcp.NewTool(ToolReadQuery,
			mcp.WithDescription("Executes a read-only SQL query and returns the results"),
			mcp.WithString("sql",
				mcp.Required(),
				mcp.Description("The SELECT statement to execute"),
			),
		),
	}
}

// CallTool runs a tool. A returned error is always an *InvalidArgumentError;
// database failures come back as a result with IsError set.
func (h *Handler) CallTool(ctx context.Context, name string, arguments map[string]any) (*mcp.CallToolResult, error) {
	logger := h.requestLogger("tools/call").With().Str("tool", name).Logger()

	// Record the request for debugging
	event := logger.Info()
	if raw, err := json.Marshal(arguments); err == nil {
		event = event.RawJSON("arguments", raw)
	} else {
		event = event.Interface("arguments", arguments)
	}
	event.Msg("Processing tool call")

	args, err := parseToolArgs(name, arguments)
	if err != nil {
		logInvalidArgument(logger, err)
		return nil, err
	}

	var text string
	switch a := args.(type) {
	case ListTablesArgs:
		text, err = h.listTables(ctx, logger)
	case DescribeTableArgs:
		text, err = h.describeTable(ctx, logger, a)
	case ReadQueryArgs:
		text, err = h.readQuery(ctx, logger, a)
	default:
		return nil, invalidArgument("tool", name, "unknown tool: %s", name)
	}

	if err != nil {
		logger.Error().Err(err).Msg("Tool execution failed")
		return executionFailed(err), nil
	}

	return mcp.NewToolResultText(text), nil
}

func executionFailed(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent("Execution failed: " + err.Error())},
		IsError: true,
	}
}

// handleToolCall adapts CallTool to the mcp-go handler signature
func (h *Handler) handleToolCall(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.CallTool(ctx, request.Params.Name, request.Params.Arguments)
}

func (h *Handler) listTables(ctx context.Context, logger zerolog.Logger) (string, error) {
	session, err := h.acquire(ctx, logger)
	if err != nil {
		return "", err
	}
	defer h.release(session, logger)

	tables, err := database.ListTables(ctx, session)
	if err != nil {
		return "", err
	}

	logger.Debug().Int("count", len(tables)).Msg("Retrieved table list")
	return format.TableList(tables), nil
}

func (h *Handler) describeTable(ctx context.Context, logger zerolog.Logger, args DescribeTableArgs) (string, error) {
	logger = logger.With().Str("table", args.TableName).Logger()

	session, err := h.acquire(ctx, logger)
	if err != nil {
		return "", err
	}
	defer h.release(session, logger)

	columns, err := database.DescribeTable(ctx, session, args.TableName)
	if err != nil {
		logger.Error().Err(err).Msg("describe-table failed")
		return "", err
	}
	if len(columns) == 0 {
		return "", fmt.Errorf("table '%s' does not exist or has no columns", args.TableName)
	}

	return format.TableDescription(args.TableName, columns), nil
}

func (h *Handler) readQuery(ctx context.Context, logger zerolog.Logger, args ReadQueryArgs) (string, error) {
	logger = logger.With().
		Str("sql", args.Query.SQL).
		Str("fingerprint", sqlguard.Fingerprint(args.Query.SQL)).
		Logger()

	session, err := h.acquire(ctx, logger)
	if err != nil {
		return "", err
	}
	defer h.release(session, logger)

	rs, err := session.Query(ctx, args.Query.SQL)
	if err != nil {
		logger.Error().Err(err).Msg("read_query failed")
		return "", fmt.Errorf("query execution error: %w", err)
	}

	logger.Debug().Int("rows", len(rs.Rows)).Bool("limit_added", args.Query.LimitAdded).Msg("Query executed")
	return format.QueryResult(rs, args.Query.LimitAdded), nil
}

func logInvalidArgument(logger zerolog.Logger, err error) {
	event := logger.Error().Err(err)
	if e, ok := err.(*InvalidArgumentError); ok && e.Field != "" {
		event = event.Str(e.Field, e.Value)
		if e.Field == "sql" {
			event = event.Str("fingerprint", sqlguard.Fingerprint(e.Value))
		}
	}
	event.Msg("Argument validation failed")
}
