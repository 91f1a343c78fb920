// Package provenancev1 is the wire contract of the provenance.v1 gRPC
// service. Messages travel with the CBOR codec registered by this package;
// clients select it through CallContentSubtype(CodecName).
package provenancev1
