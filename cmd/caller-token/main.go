// Package main signs a caller token for local development.
package main

import (
	"flag"
	"os"

	"github.com/louisbranch/provenance/internal/platform/config"
	"github.com/louisbranch/provenance/internal/tools/callergrant"
)

func main() {
	cfg, err := callergrant.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	if err := callergrant.Run(cfg, os.Stdout, nil); err != nil {
		config.Exitf("sign caller token: %v", err)
	}
}
