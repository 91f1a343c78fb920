package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExitfWritesPrefixedMessageAndExitsWithCode1(t *testing.T) {
	var out bytes.Buffer
	var code int
	exitOutput = &out
	exitFunc = func(c int) { code = c }
	t.Cleanup(func() {
		exitOutput = os.Stderr
		exitFunc = os.Exit
	})

	Exitf("fatal: %s", "something broke")

	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	want := filepath.Base(os.Args[0]) + ": fatal: something broke"
	if got := strings.TrimSpace(out.String()); got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}
