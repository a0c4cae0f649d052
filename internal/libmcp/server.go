// Package libmcp is the stdio transport. It reads newline-delimited
// JSON-RPC messages, answers tools/call and resources/* through a Router,
// and hands everything else to the mcp-go server.
package libmcp

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
)

// Router serves the requests the transport does not delegate
type Router interface {
	CallTool(ctx context.Context, name string, arguments map[string]any) (*mcp.CallToolResult, error)
	ListResources(ctx context.Context) (*mcp.ListResourcesResult, error)
	ReadResource(ctx context.Context, uri string) (*mcp.ReadResourceResult, error)
	ListResourceTemplates(ctx context.Context) (*mcp.ListResourceTemplatesResult, error)
}

// Server couples the mcp-go core with a Router
type Server struct {
	core   *server.MCPServer
	router Router
	logger zerolog.Logger
}

// NewServer creates a server advertising resources and logging
func NewServer(name, version string, router Router, logger zerolog.Logger) *Server {
	core := server.NewMCPServer(
		name,
		version,
		server.WithResourceCapabilities(false, true),
		server.WithLogging(),
	)

	return &Server{
		core:   core,
		router: router,
		logger: logger,
	}
}

// AddTool registers a tool with the core so that tools/list advertises it
func (s *Server) AddTool(tool mcp.Tool, handler server.ToolHandlerFunc) {
	s.core.AddTool(tool, handler)
}

// Serve processes messages from in until EOF or ctx is cancelled. Reads
// happen on their own goroutine so that cancellation is seen while the
// input is idle.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	writer := bufio.NewWriter(out)
	lines := readLines(ctx, in)

	s.logger.Info().Msg("Serving MCP over stdio")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Context cancelled, shutting down")
			return ctx.Err()

		case r := <-lines:
			if len(r.line) > 0 {
				if err := s.respond(ctx, writer, r.line); err != nil {
					return err
				}
			}
			if r.err != nil {
				if errors.Is(r.err, io.EOF) {
					s.logger.Info().Msg("Input closed, shutting down")
					return nil
				}
				return fmt.Errorf("failed to read input: %w", r.err)
			}
		}
	}
}

type readResult struct {
	line []byte
	err  error
}

// readLines delivers each line of in, then the terminating read error.
// The goroutine exits after that error or once ctx is done.
func readLines(ctx context.Context, in io.Reader) <-chan readResult {
	lines := make(chan readResult)
	go func() {
		reader := bufio.NewReader(in)
		for {
			line, err := reader.ReadBytes('\n')
			select {
			case lines <- readResult{line: line, err: err}:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()
	return lines
}

func (s *Server) respond(ctx context.Context, w *bufio.Writer, line []byte) error {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return nil
	}

	response := s.HandleMessage(ctx, line)
	if response == nil {
		return nil
	}

	data, err := json.Marshal(response)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to marshal response")
		return nil
	}

	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return w.Flush()
}
