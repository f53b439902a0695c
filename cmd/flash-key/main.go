package main

import (
	"flag"
	"os"

	"github.com/louisbranch/agenda/internal/platform/config"
	"github.com/louisbranch/agenda/internal/tools/flashkey"
)

func main() {
	cfg, err := flashkey.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	if err := flashkey.Run(cfg, os.Stdout, nil); err != nil {
		config.Exitf("generate key: %v", err)
	}
}
