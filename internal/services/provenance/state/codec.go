package state

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Records are stored as deterministic CBOR so equal values always produce
// identical bytes on every backend.
var (
	encMode = mustEncMode()
	decMode = mustDecMode()
)

func mustEncMode() cbor.EncMode {
	mode, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("state: build cbor encoder: %v", err))
	}
	return mode
}

func mustDecMode() cbor.DecMode {
	mode, err := cbor.DecOptions{DupMapKey: cbor.DupMapKeyEnforcedAPF}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("state: build cbor decoder: %v", err))
	}
	return mode
}

// Marshal encodes v as deterministic CBOR.
func Marshal(v any) ([]byte, error) {
	data, err := encMode.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return data, nil
}

// Unmarshal decodes CBOR produced by Marshal into v.
func Unmarshal(data []byte, v any) error {
	if err := decMode.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	return nil
}

// GetRecord reads and decodes the record at key. A missing key returns the
// zero value and false.
func GetRecord[T any](r Reader, key string) (T, bool, error) {
	var record T
	data, ok, err := r.Get(key)
	if err != nil || !ok {
		return record, false, err
	}
	if err := Unmarshal(data, &record); err != nil {
		return record, false, fmt.Errorf("%s: %w", key, err)
	}
	return record, true, nil
}

// PutRecord encodes record and stages it at key.
func PutRecord(t Txn, key string, record any) error {
	data, err := Marshal(record)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return t.Put(key, data)
}

// ScanRecords decodes every record under prefix starting at start and passes
// it to fn until fn returns false.
func ScanRecords[T any](r Reader, prefix, start string, fn func(key string, record T) (bool, error)) error {
	return r.Scan(prefix, start, func(key string, value []byte) (bool, error) {
		var record T
		if err := Unmarshal(value, &record); err != nil {
			return false, fmt.Errorf("%s: %w", key, err)
		}
		return fn(key, record)
	})
}
