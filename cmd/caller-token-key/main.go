// Package main provides a one-shot utility for caller-token key generation.
package main

import (
	"os"

	"github.com/louisbranch/provenance/internal/platform/config"
	"github.com/louisbranch/provenance/internal/tools/callerkey"
)

func main() {
	if err := callerkey.Run(os.Stdout, nil); err != nil {
		config.Exitf("generate caller token key: %v", err)
	}
}
