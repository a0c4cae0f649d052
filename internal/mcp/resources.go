package mcp

import (
	"context"
	"fmt"

	"github.com/kaz/mysql-mcp-server/internal/database"
	"github.com/kaz/mysql-mcp-server/internal/format"
	"github.com/kaz/mysql-mcp-server/internal/resource"
	"github.com/kaz/mysql-mcp-server/internal/sqlguard"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"
)

// ListResources enumerates every table and view plus the summary resource.
// Views are best effort; a failure listing tables is returned.
func (h *Handler) ListResources(ctx context.Context) (*mcp.ListResourcesResult, error) {
	logger := h.requestLogger("resources/list")

	session, err := h.acquire(ctx, logger)
	if err != nil {
		return nil, err
	}
	defer h.release(session, logger)

	tables, err := database.ListTables(ctx, session)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list tables")
		return nil, &ExecutionError{Message: "failed to list resources", Err: err}
	}

	result := &mcp.ListResourcesResult{Resources: []mcp.Resource{}}
	for _, table := range tables {
		result.Resources = append(result.Resources, resource.Table(h.cfg.Database, table))
	}

	views, err := database.ListViews(ctx, session, h.cfg.Database)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to list views, omitting them")
	}
	for _, view := range views {
		result.Resources = append(result.Resources, resource.View(h.cfg.Database, view))
	}

	result.Resources = append(result.Resources, resource.Info(h.cfg.Database))

	logger.Debug().Int("tables", len(tables)).Int("views", len(views)).Msg("Listed resources")
	return result, nil
}

// ReadResource returns the document addressed by uri. The URI is checked
// before a connection is opened.
func (h *Handler) ReadResource(ctx context.Context, uri string) (*mcp.ReadResourceResult, error) {
	logger := h.requestLogger("resources/read").With().Str("uri", uri).Logger()
	logger.Info().Msg("Processing resource read")

	u, err := resource.Parse(uri, h.cfg.Database)
	if err != nil {
		logger.Error().Err(err).Msg("Invalid resource URI")
		return nil, invalidArgument("uri", uri, "%v", err)
	}
	if u.Type != resource.TypeInfo && !sqlguard.IsValidIdentifier(u.Name) {
		logger.Error().Str("name", u.Name).Msg("Invalid object name in resource URI")
		return nil, invalidArgument("uri", uri, "invalid %s name", u.Type)
	}

	session, err := h.acquire(ctx, logger)
	if err != nil {
		return nil, err
	}
	defer h.release(session, logger)

	var text string
	switch u.Type {
	case resource.TypeTable:
		text, err = h.readTable(ctx, session, u.Name)
	case resource.TypeView:
		text, err = h.readView(ctx, session, u.Name)
	case resource.TypeInfo:
		text = h.readInfo(ctx, session, logger)
	}
	if err != nil {
		logger.Error().Err(err).Msg("Resource read failed")
		return nil, err
	}

	return &mcp.ReadResourceResult{
		Contents: []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      uri,
				MIMEType: resource.MIMEText,
				Text:     text,
			},
		},
	}, nil
}

// ListResourceTemplates returns the static templates. It never touches the
// database.
func (h *Handler) ListResourceTemplates(ctx context.Context) (*mcp.ListResourceTemplatesResult, error) {
	return &mcp.ListResourceTemplatesResult{
		ResourceTemplates: resource.Templates(h.cfg.Database),
	}, nil
}

func (h *Handler) readTable(ctx context.Context, session database.Session, table string) (string, error) {
	columns, err := database.DescribeTable(ctx, session, table)
	if err != nil {
		return "", &ExecutionError{Message: fmt.Sprintf("failed to describe table '%s'", table), Err: err}
	}

	rs, err := database.SampleRows(ctx, session, table)
	if err != nil {
		return "", &ExecutionError{Message: fmt.Sprintf("failed to read table '%s'", table), Err: err}
	}

	return format.TableDocument(table, columns, rs), nil
}

func (h *Handler) readView(ctx context.Context, session database.Session, view string) (string, error) {
	definition, ok, err := database.ViewDefinition(ctx, session, h.cfg.Database, view)
	if err != nil {
		return "", &ExecutionError{Message: fmt.Sprintf("failed to read view definition '%s'", view), Err: err}
	}
	if !ok {
		return "", &ExecutionError{Message: fmt.Sprintf("view '%s' does not exist", view)}
	}

	rs, err := database.SampleRows(ctx, session, view)
	if err != nil {
		return "", &ExecutionError{Message: fmt.Sprintf("failed to read view '%s'", view), Err: err}
	}

	return format.ViewDocument(view, definition, rs), nil
}

// readInfo gathers each statistic independently; one failing query does not
// hide the others.
func (h *Handler) readInfo(ctx context.Context, session database.Session, logger zerolog.Logger) string {
	info := format.Info{
		Database: h.cfg.Database,
		Host:     h.cfg.Host,
		Port:     h.cfg.Port,
	}

	info.SizeMB = h.statistic(logger, "size", func() (string, error) {
		return database.DatabaseSize(ctx, session, h.cfg.Database)
	})
	info.Tables = h.statistic(logger, "tables", func() (string, error) {
		return database.CountBaseTables(ctx, session, h.cfg.Database)
	})
	info.Views = h.statistic(logger, "views", func() (string, error) {
		return database.CountViews(ctx, session, h.cfg.Database)
	})

	charset, collation, err := database.Charset(ctx, session, h.cfg.Database)
	if err != nil {
		logger.Warn().Err(err).Str("statistic", "charset").Msg("Statistic unavailable")
		charset, collation = format.Unavailable, format.Unavailable
	}
	info.Charset, info.Collation = charset, collation

	return format.DatabaseInfo(info)
}

func (h *Handler) statistic(logger zerolog.Logger, name string, fetch func() (string, error)) string {
	v, err := fetch()
	if err != nil {
		logger.Warn().Err(err).Str("statistic", name).Msg("Statistic unavailable")
		return format.Unavailable
	}
	return v
}
