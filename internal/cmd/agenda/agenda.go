// Package agenda parses agenda command configuration and runs the web and
// health servers.
package agenda

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	entrypoint "github.com/louisbranch/agenda/internal/platform/cmd"
	platformgrpc "github.com/louisbranch/agenda/internal/platform/grpc"
	"github.com/louisbranch/agenda/internal/platform/timeouts"
	corepersonas "github.com/louisbranch/agenda/internal/services/agenda/personas"
	"github.com/louisbranch/agenda/internal/services/agenda/storage/sqlite"
	"github.com/louisbranch/agenda/internal/services/web"
	"github.com/louisbranch/agenda/internal/services/web/platform/flash"
	"github.com/louisbranch/agenda/internal/services/web/platform/requestmeta"
	"golang.org/x/sync/errgroup"
)

// Config holds agenda command configuration.
type Config struct {
	HTTPAddr            string        `env:"AGENDA_HTTP_ADDR" envDefault:"localhost:8080"`
	HealthAddr          string        `env:"AGENDA_HEALTH_ADDR" envDefault:"localhost:8081"`
	DBPath              string        `env:"AGENDA_DB_PATH" envDefault:"data/agenda.db"`
	FlashKey            string        `env:"AGENDA_FLASH_KEY"`
	FlashTTL            time.Duration `env:"AGENDA_FLASH_TTL" envDefault:"5m"`
	TrustForwardedProto bool          `env:"AGENDA_TRUST_FORWARDED_PROTO" envDefault:"false"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.HealthAddr, "health-addr", cfg.HealthAddr, "gRPC health listen address")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "SQLite database path")
	fs.StringVar(&cfg.FlashKey, "flash-key", cfg.FlashKey, "Hex-encoded flash signing key (random per process when empty)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the agenda runtime.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceAgenda, func(ctx context.Context) error {
		return run(ctx, cfg)
	})
}

func run(ctx context.Context, cfg Config) error {
	policy := requestmeta.SchemePolicy{TrustForwardedProto: cfg.TrustForwardedProto}
	key, err := decodeFlashKey(cfg.FlashKey)
	if err != nil {
		return err
	}
	if key == nil {
		log.Printf("AGENDA_FLASH_KEY is not set; flash messages use a per-process key")
	}
	codec, err := flash.NewCodec(key, flash.WithTTL(cfg.FlashTTL), flash.WithSchemePolicy(policy))
	if err != nil {
		return fmt.Errorf("init flash codec: %w", err)
	}

	var personas *corepersonas.Service
	store, err := openStore(cfg.DBPath)
	if err != nil {
		log.Printf("storage unavailable, serving in degraded mode: %v", err)
	} else {
		defer func() {
			if err := store.Close(); err != nil {
				log.Printf("close store: %v", err)
			}
		}()
		personas = corepersonas.NewService(store)
	}

	healthServer, err := platformgrpc.NewHealthServer(cfg.HealthAddr, entrypoint.ServiceAgenda)
	if err != nil {
		return fmt.Errorf("init health server: %w", err)
	}
	server, err := web.NewServer(ctx, web.Config{
		HTTPAddr:     cfg.HTTPAddr,
		Personas:     personas,
		Flash:        codec,
		SchemePolicy: policy,
	})
	if err != nil {
		healthServer.Close()
		return fmt.Errorf("init web server: %w", err)
	}
	defer server.Close()

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return healthServer.Serve(groupCtx)
	})
	group.Go(func() error {
		healthServer.Monitor(groupCtx, timeouts.HealthProbe, personas.Ping)
		return nil
	})
	group.Go(func() error {
		log.Printf("web server listening at %s", server.Addr())
		if err := server.ListenAndServe(groupCtx); err != nil {
			return fmt.Errorf("serve web: %w", err)
		}
		return nil
	})
	return group.Wait()
}

// openStore creates the database directory when needed and opens the store.
func openStore(path string) (*sqlite.Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("database path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	return sqlite.Open(path)
}

// decodeFlashKey parses a hex key. An empty value returns nil.
func decodeFlashKey(raw string) ([]byte, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("decode flash key: %w", err)
	}
	return key, nil
}
