package mcp

import (
	"github.com/kaz/mysql-mcp-server/internal/libmcp"
	"github.com/rs/zerolog"
)

const (
	ServerName    = "mysql-mcp-server"
	ServerVersion = "1.0.0"
)

// SetupMCP builds the MCP server for h. Tools are registered with the core
// so that tools/list advertises their schemas; calls are answered by h.
func SetupMCP(h *Handler, logger zerolog.Logger) *libmcp.Server {
	logger.Debug().Str("database", h.cfg.Database).Msg("Setting up MCP server")

	s := libmcp.NewServer(ServerName, ServerVersion, h, logger)
	for _, tool := range Tools() {
		s.AddTool(tool, h.handleToolCall)
	}

	return s
}
