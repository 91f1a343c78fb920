package provenancev1

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"google.golang.org/grpc/encoding"
)

// CodecName is the gRPC content subtype carrying provenance messages.
const CodecName = "cbor"

type codec struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

func newCodec() codec {
	enc, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("provenancev1: cbor enc mode: %v", err))
	}
	dec, err := cbor.DecOptions{}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("provenancev1: cbor dec mode: %v", err))
	}
	return codec{enc: enc, dec: dec}
}

func (c codec) Marshal(v any) ([]byte, error) {
	return c.enc.Marshal(v)
}

func (c codec) Unmarshal(data []byte, v any) error {
	return c.dec.Unmarshal(data, v)
}

func (codec) Name() string {
	return CodecName
}

func init() {
	encoding.RegisterCodec(newCodec())
}
