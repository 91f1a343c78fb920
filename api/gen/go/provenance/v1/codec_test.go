package provenancev1

import (
	"testing"

	"google.golang.org/grpc/encoding"
)

func TestCodecRegistered(t *testing.T) {
	c := encoding.GetCodec(CodecName)
	if c == nil {
		t.Fatalf("codec %q is not registered", CodecName)
	}
	data, err := c.Marshal(&BuyAssetRequest{AssetId: 7, Payment: 1 << 60})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got BuyAssetRequest
	if err := c.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.AssetId != 7 || got.Payment != 1<<60 {
		t.Fatalf("round trip = %+v", got)
	}
}

func TestServiceDescCoversServer(t *testing.T) {
	if len(ProvenanceService_ServiceDesc.Methods) != 21 {
		t.Fatalf("methods = %d, want 21", len(ProvenanceService_ServiceDesc.Methods))
	}
	seen := map[string]bool{}
	for _, m := range ProvenanceService_ServiceDesc.Methods {
		if seen[m.MethodName] {
			t.Fatalf("duplicate method %s", m.MethodName)
		}
		seen[m.MethodName] = true
	}
}
