// Package pb is a hand-rolled stand-in for the service's generated
// Protocol-Buffers messages (SPEC_FULL.md §1b): the .proto files are an
// external schema out of this module's scope, but the wire bytes still
// have to round-trip, so each message type here implements its own thin
// Marshal/Unmarshal built directly on protowire — the same low-level
// package generated protobuf code itself builds on, minus the codegen
// step.
package pb

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// appendString/appendBytes/appendVarint/appendMessage append one
// length-delimited or varint field, skipping the call entirely when the
// value is the type's zero value — matching proto3 "omit default"
// semantics (spec.md §9's optional-field rule: absent is "field
// omitted", never "field present with zero value").
func appendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

func appendBytes(b []byte, num protowire.Number, v []byte) []byte {
	if len(v) == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func appendVarint(b []byte, num protowire.Number, v int64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(v))
}

func appendBool(b []byte, num protowire.Number, v bool) []byte {
	if !v {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, 1)
}

// appendOptionalVarint always emits the field, even when v is 0 — used
// for the handful of fields (e.g. MaxVersions) where 0 and "absent" are
// different things; callers pass a *bool/has-flag to decide whether to
// call this at all.
func appendOptionalVarint(b []byte, num protowire.Number, v int64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(v))
}

func appendMessage(b []byte, num protowire.Number, v []byte) []byte {
	if v == nil {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

// ErrTruncated is returned by Unmarshal when the input ends mid-field.
var ErrTruncated = fmt.Errorf("pb: truncated message")

// fieldFunc is called once per top-level field while walking a message;
// implementations switch on num and consume v according to the wire
// type they expect for that field number.
type fieldFunc func(num protowire.Number, typ protowire.Type, v []byte) error

// walk decodes b field-by-field, calling fn for each one. Unknown field
// numbers are passed through to fn so callers can still ignore them.
func walk(b []byte, fn fieldFunc) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return ErrTruncated
		}
		b = b[n:]

		var val []byte
		switch typ {
		case protowire.VarintType:
			x, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return ErrTruncated
			}
			val = protowire.AppendVarint(nil, x)
			b = b[n:]
		case protowire.BytesType:
			x, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return ErrTruncated
			}
			val = x
			b = b[n:]
		case protowire.Fixed32Type:
			_, n := protowire.ConsumeFixed32(b)
			if n < 0 {
				return ErrTruncated
			}
			b = b[n:]
			continue
		case protowire.Fixed64Type:
			_, n := protowire.ConsumeFixed64(b)
			if n < 0 {
				return ErrTruncated
			}
			b = b[n:]
			continue
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return ErrTruncated
			}
			b = b[n:]
			continue
		}
		if err := fn(num, typ, val); err != nil {
			return err
		}
	}
	return nil
}

func asVarint(v []byte) int64 {
	x, _ := protowire.ConsumeVarint(v)
	return int64(x)
}

func asString(v []byte) string { return string(v) }
