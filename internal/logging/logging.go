// Package logging builds the zerolog logger used by the server. Standard
// output carries the protocol, so logs go to a file or to stderr.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// DefaultPath is where logs are written unless configured otherwise
const DefaultPath = "runtime/server_log.txt"

// Stderr selects standard error instead of a log file
const Stderr = "-"

// New returns a logger writing to path at the given level. The returned
// closer releases the log file and is a no-op for stderr.
func New(path, level string) (zerolog.Logger, io.Closer, error) {
	var (
		out    io.Writer = os.Stderr
		closer io.Closer = nopCloser{}
	)

	if path != Stderr {
		if path == "" {
			path = DefaultPath
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return zerolog.Nop(), nil, err
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return zerolog.Nop(), nil, err
		}
		out, closer = f, f
	}

	logger := zerolog.New(out).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Str("service", "mysql-mcp-server").
		Logger()

	return logger, closer, nil
}

// ParseLevel maps a level name to a zerolog level, defaulting to info
func ParseLevel(level string) zerolog.Level {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "warning" {
		level = zerolog.WarnLevel.String()
	}
	l, err := zerolog.ParseLevel(level)
	if err != nil || l == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return l
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
