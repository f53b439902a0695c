// Package main probes the agenda gRPC health endpoint for container healthchecks.
package main

import (
	"context"
	"flag"
	"os"

	healthcheckcmd "github.com/louisbranch/agenda/internal/cmd/healthcheck"
	"github.com/louisbranch/agenda/internal/platform/config"
)

func main() {
	cfg, err := healthcheckcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	if err := healthcheckcmd.Run(context.Background(), cfg); err != nil {
		config.Exitf("%v", err)
	}
}
