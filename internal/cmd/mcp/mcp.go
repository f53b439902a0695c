// Package mcp parses MCP command configuration and serves persona tools on
// stdio.
package mcp

import (
	"context"
	"flag"
	"fmt"

	entrypoint "github.com/louisbranch/agenda/internal/platform/cmd"
	corepersonas "github.com/louisbranch/agenda/internal/services/agenda/personas"
	"github.com/louisbranch/agenda/internal/services/agenda/storage/sqlite"
	mcpservice "github.com/louisbranch/agenda/internal/services/mcp/service"
)

// Config holds MCP command configuration.
type Config struct {
	DBPath string `env:"AGENDA_DB_PATH" envDefault:"data/agenda.db"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "SQLite database path")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the MCP stdio server.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceMCP, func(ctx context.Context) error {
		server, closeStore, err := newServer(cfg)
		if err != nil {
			return err
		}
		defer closeStore()
		return server.Serve(ctx)
	})
}

func newServer(cfg Config) (*mcpservice.Server, func(), error) {
	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open persona store: %w", err)
	}
	server, err := mcpservice.New(corepersonas.NewService(store))
	if err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("init MCP server: %w", err)
	}
	return server, func() { _ = store.Close() }, nil
}
