package mcp

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/kaz/mysql-mcp-server/internal/config"
	"github.com/kaz/mysql-mcp-server/internal/database"
	"github.com/rs/zerolog"
)

// Acquirer hands out one database session per request
type Acquirer interface {
	Acquire(ctx context.Context) (database.Session, error)
}

// Handler serves tool calls and resource requests. It holds no per-request
// state; every call acquires and releases its own session.
type Handler struct {
	db     Acquirer
	cfg    config.ConnectionConfig
	logger zerolog.Logger
}

// NewHandler returns a Handler for the database described by cfg
func NewHandler(db Acquirer, cfg config.ConnectionConfig, logger zerolog.Logger) *Handler {
	return &Handler{db: db, cfg: cfg, logger: logger}
}

func (h *Handler) requestLogger(operation string) zerolog.Logger {
	return h.logger.With().
		Str("request_id", uuid.NewString()).
		Str("operation", operation).
		Logger()
}

func (h *Handler) acquire(ctx context.Context, logger zerolog.Logger) (database.Session, error) {
	session, err := h.db.Acquire(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to acquire database connection")
		return nil, &ExecutionError{Message: "database connection failed", Err: err}
	}
	return session, nil
}

func (h *Handler) release(session database.Session, logger zerolog.Logger) {
	if err := session.Close(); err != nil {
		logger.Warn().Err(err).Msg("Failed to close database connection")
	}
}

func printable(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
