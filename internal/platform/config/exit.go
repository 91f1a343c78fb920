package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

var (
	exitOutput io.Writer = os.Stderr
	exitFunc             = os.Exit
)

// Exitf writes a formatted error message prefixed with the program name to
// stderr and exits with code 1.
func Exitf(format string, args ...any) {
	program := filepath.Base(os.Args[0])
	fmt.Fprintf(exitOutput, program+": "+format+"\n", args...)
	exitFunc(1)
}
