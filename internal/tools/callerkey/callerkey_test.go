package callerkey

import (
	"bytes"
	"strings"
	"testing"

	"github.com/louisbranch/provenance/internal/services/provenance/callertoken"
)

func TestRunRequiresOutput(t *testing.T) {
	if err := Run(nil, bytes.NewReader([]byte{1})); err == nil {
		t.Fatal("expected error when output is nil")
	}
}

func TestRunWritesDecodableKeys(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := Run(buf, bytes.NewReader(bytes.Repeat([]byte{1}, 64))); err != nil {
		t.Fatalf("run: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	private, ok := strings.CutPrefix(lines[0], "export PROVENANCE_CALLER_TOKEN_PRIVATE_KEY=")
	if !ok {
		t.Fatalf("unexpected private key line: %q", lines[0])
	}
	public, ok := strings.CutPrefix(lines[1], "export PROVENANCE_CALLER_TOKEN_PUBLIC_KEY=")
	if !ok {
		t.Fatalf("unexpected public key line: %q", lines[1])
	}
	privateKey, err := callertoken.DecodePrivateKey(private)
	if err != nil {
		t.Fatalf("decode private key: %v", err)
	}
	publicKey, err := callertoken.DecodePublicKey(public)
	if err != nil {
		t.Fatalf("decode public key: %v", err)
	}
	if !publicKey.Equal(privateKey.Public()) {
		t.Fatal("public key does not match private key")
	}
}
