// Package main renders translator-friendly i18n status artifacts.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	i18ncatalog "github.com/louisbranch/agenda/internal/platform/i18n/catalog"
	"github.com/louisbranch/agenda/internal/platform/config"
	"github.com/louisbranch/agenda/internal/tools/i18nstatus"
)

func main() {
	var markdownOut string
	var jsonOut string
	var check bool

	flag.StringVar(&markdownOut, "out", "docs/i18n-status.md", "markdown output path")
	flag.StringVar(&jsonOut, "json-out", "docs/i18n-status.json", "json output path")
	flag.BoolVar(&check, "check", false, "exit non-zero when any locale misses keys")
	flag.Parse()

	bundle, err := i18ncatalog.LoadEmbedded()
	if err != nil {
		config.Exitf("load i18n catalogs: %v", err)
	}
	rep, err := i18nstatus.Build(bundle)
	if err != nil {
		config.Exitf("build report: %v", err)
	}

	var js, md bytes.Buffer
	if err := i18nstatus.WriteJSON(&js, rep); err != nil {
		config.Exitf("render json report: %v", err)
	}
	if err := i18nstatus.WriteMarkdown(&md, rep); err != nil {
		config.Exitf("render markdown report: %v", err)
	}
	if err := writeFile(jsonOut, js.Bytes()); err != nil {
		config.Exitf("write json report: %v", err)
	}
	if err := writeFile(markdownOut, md.Bytes()); err != nil {
		config.Exitf("write markdown report: %v", err)
	}
	fmt.Printf("wrote %s and %s\n", markdownOut, jsonOut)

	if check && !rep.Complete() {
		config.Exitf("translations are incomplete")
	}
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
