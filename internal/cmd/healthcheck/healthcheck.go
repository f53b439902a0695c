// Package healthcheck probes the agenda gRPC health endpoint, for use as a
// container healthcheck.
package healthcheck

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	entrypoint "github.com/louisbranch/agenda/internal/platform/cmd"
	platformgrpc "github.com/louisbranch/agenda/internal/platform/grpc"
	"github.com/louisbranch/agenda/internal/platform/timeouts"
)

// Config holds healthcheck command configuration.
type Config struct {
	Addr    string        `env:"AGENDA_HEALTH_ADDR" envDefault:"localhost:8081"`
	Service string        `env:"AGENDA_HEALTH_SERVICE" envDefault:"agenda"`
	Timeout time.Duration `env:"AGENDA_HEALTH_TIMEOUT" envDefault:"3s"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "gRPC health address")
	fs.StringVar(&cfg.Service, "service", cfg.Service, "health service name (empty for overall status)")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "probe timeout")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run probes the health endpoint once and fails unless it reports SERVING.
func Run(ctx context.Context, cfg Config) error {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = timeouts.GRPCDial
	}
	if err := platformgrpc.Probe(ctx, cfg.Addr, cfg.Service, timeout, log.Printf); err != nil {
		return fmt.Errorf("%s probe: %w", entrypoint.ServiceHealthcheck, err)
	}
	return nil
}
