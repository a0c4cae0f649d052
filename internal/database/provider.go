// Package database opens request-scoped MySQL sessions and holds every
// statement the server sends.
package database

import (
	"context"
	"database/sql"
	"net"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/kaz/mysql-mcp-server/internal/config"
)

// DefaultConnectTimeout bounds the dial of a new connection
const DefaultConnectTimeout = 10 * time.Second

// Provider opens one connection per request. Nothing is pooled or reused.
type Provider struct {
	cfg     config.ConnectionConfig
	timeout time.Duration
}

// NewProvider returns a Provider for cfg. A zero timeout selects
// DefaultConnectTimeout.
func NewProvider(cfg config.ConnectionConfig, timeout time.Duration) *Provider {
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}
	return &Provider{cfg: cfg, timeout: timeout}
}

// Config returns the settings the provider connects with
func (p *Provider) Config() config.ConnectionConfig {
	return p.cfg
}

// DSN returns the driver data source name for the configured database
func (p *Provider) DSN() string {
	c := mysql.NewConfig()
	c.User = p.cfg.Username
	c.Passwd = p.cfg.Password
	c.Net = "tcp"
	c.Addr = net.JoinHostPort(p.cfg.Host, strconv.Itoa(p.cfg.Port))
	c.DBName = p.cfg.Database
	c.Timeout = p.timeout
	c.Params = map[string]string{"charset": "utf8mb4"}
	return c.FormatDSN()
}

// Acquire opens and pings a new connection
func (p *Provider) Acquire(ctx context.Context) (Session, error) {
	if p.cfg.Username == "" || p.cfg.Database == "" {
		return nil, &ConnectionError{Message: "incomplete connection settings: username and database are required"}
	}

	db, err := sql.Open("mysql", p.DSN())
	if err != nil {
		return nil, &ConnectionError{Message: "database connection failed", Err: err}
	}
	db.SetMaxOpenConns(1)

	conn, err := db.Conn(ctx)
	if err != nil {
		db.Close()
		return nil, &ConnectionError{Message: "database connection failed", Err: err}
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		db.Close()
		return nil, &ConnectionError{Message: "database connection failed", Err: err}
	}

	return &sqlSession{db: db, conn: conn}, nil
}
