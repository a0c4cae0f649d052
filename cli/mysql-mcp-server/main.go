package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kaz/mysql-mcp-server/internal/config"
	"github.com/kaz/mysql-mcp-server/internal/database"
	"github.com/kaz/mysql-mcp-server/internal/logging"
	"github.com/kaz/mysql-mcp-server/internal/mcp"
	"github.com/spf13/cobra"
)

type options struct {
	host     string
	port     int
	username string
	password string
	database string

	configFile     string
	logFile        string
	logLevel       string
	connectTimeout time.Duration
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "mysql-mcp-server",
		Short:         "MCP server exposing a MySQL database over stdio",
		Long:          "Serves the tables, views and summary of one MySQL database to MCP clients on stdin/stdout.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return start(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.host, "host", config.DefaultHost, "MySQL host")
	flags.IntVar(&opts.port, "port", config.DefaultPort, "MySQL port")
	flags.StringVarP(&opts.username, "username", "u", config.DefaultUsername, "MySQL username")
	flags.StringVarP(&opts.password, "password", "p", config.DefaultPassword, "MySQL password")
	flags.StringVarP(&opts.database, "database", "d", config.DefaultDatabase, "MySQL database name")
	flags.StringVar(&opts.configFile, "config", "", "YAML file with connection settings")
	flags.StringVar(&opts.logFile, "log-file", logging.DefaultPath, `log file path, "-" for stderr`)
	flags.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flags.DurationVar(&opts.connectTimeout, "connect-timeout", database.DefaultConnectTimeout, "timeout for establishing a connection")

	return cmd
}

// flagSettings returns only the flags given on the command line so that
// unset ones fall through to the config file
func flagSettings(cmd *cobra.Command, opts *options) config.Settings {
	var s config.Settings
	flags := cmd.Flags()
	if flags.Changed("host") {
		s.Host = opts.host
	}
	if flags.Changed("port") {
		s.Port = strconv.Itoa(opts.port)
	}
	if flags.Changed("username") {
		s.Username = opts.username
	}
	if flags.Changed("password") {
		s.Password = opts.password
	}
	if flags.Changed("database") {
		s.Database = opts.database
	}
	return s
}

func start(cmd *cobra.Command, opts *options) error {
	logger, closer, err := logging.New(opts.logFile, opts.logLevel)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer closer.Close()

	// .env never overrides variables that are already set
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn().Err(err).Msg("Failed to load .env file")
	}

	var file config.Settings
	if opts.configFile != "" {
		file, err = config.LoadFile(opts.configFile)
		if err != nil {
			logger.Error().Err(err).Str("path", opts.configFile).Msg("Failed to load config file")
			return err
		}
	}

	cfg, err := config.Resolve(os.Getenv, flagSettings(cmd, opts), file)
	if err != nil {
		logger.Error().Err(err).Msg("Invalid connection settings")
		return err
	}

	logger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("username", cfg.Username).
		Str("database", cfg.Database).
		Msg("Starting MySQL MCP server")

	provider := database.NewProvider(cfg, opts.connectTimeout)
	handler := mcp.NewHandler(provider, provider.Config(), logger)
	server := mcp.SetupMCP(handler, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Serve(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("Server stopped with error")
		return err
	}

	logger.Info().Msg("Server stopped")
	return nil
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
