package resource

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// Listing MIME types. Resource reads are always served as text/plain.
const (
	MIMETable = "application/x.mysql-table"
	MIMEView  = "application/x.mysql-view"
	MIMEText  = "text/plain"
)

// Templates returns the URI shapes clients may read. The list is static and
// does not touch the database.
func Templates(database string) []mcp.ResourceTemplate {
	return []mcp.ResourceTemplate{
		mcp.NewResourceTemplate(
			prefix+database+"/table/{tableName}",
			"Table structure and data",
			mcp.WithTemplateDescription("Structure and sample rows of a table in the database"),
			mcp.WithTemplateMIMEType(MIMEText),
		),
		mcp.NewResourceTemplate(
			prefix+database+"/view/{viewName}",
			"View definition and data",
			mcp.WithTemplateDescription("Definition and sample rows of a view in the database"),
			mcp.WithTemplateMIMEType(MIMEText),
		),
		mcp.NewResourceTemplate(
			prefix+database+"/query/{sql}",
			"SQL query result",
			mcp.WithTemplateDescription("Result of a custom read-only query (SELECT statements only)"),
			mcp.WithTemplateMIMEType(MIMEText),
		),
	}
}

// Table returns the listing entry for a table
func Table(database, name string) mcp.Resource {
	return mcp.NewResource(
		Construct(database, TypeTable, name),
		name,
		mcp.WithResourceDescription("Database table: "+name),
		mcp.WithMIMEType(MIMETable),
	)
}

// View returns the listing entry for a view
func View(database, name string) mcp.Resource {
	return mcp.NewResource(
		Construct(database, TypeView, name),
		name,
		mcp.WithResourceDescription("Database view: "+name),
		mcp.WithMIMEType(MIMEView),
	)
}

// Info returns the listing entry for the database summary
func Info(database string) mcp.Resource {
	return mcp.NewResource(
		Construct(database, TypeInfo, ""),
		"Database information",
		mcp.WithResourceDescription("Overview of the current database"),
		mcp.WithMIMEType(MIMEText),
	)
}
