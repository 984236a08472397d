package plainbuffer

import "github.com/tablestore-go/tablestore/crc8"

// cellChecksum computes the one-byte checksum for a single cell,
// following the exact field order mandated by the PlainBuffer grammar:
//
//  1. the cell's name bytes (raw)
//  2. the value's type byte
//  3. the value's payload bytes (integer: 8 LE bytes; string/blob: 4 LE
//     length bytes then content; boolean: one byte; double: 8 LE bytes
//     of its bit pattern; sentinels: nothing)
//  4. if present, the timestamp's 8 LE bytes
//  5. if present, the CELL_TYPE byte
//
// Steps 4 and 5 are swapped relative to their order on the wire: on the
// wire CELL_TYPE precedes TS, but the CRC is fed TS before CELL_TYPE.
// This is a deliberate quirk of the server's contract (see spec.md §9's
// Open Question) and must not be "corrected".
func cellChecksum(c Cell) byte {
	crc := cellChecksumPrefix(c)
	if c.HasTS {
		crc = crc8.U64(crc, c.Timestamp)
	}
	if c.Op != OpNone {
		crc = crc8.Byte(crc, cellTypeByte(c.Op))
	}
	return crc
}

// cellChecksumPrefix folds just the name and value — the part of the
// checksum feed order that is unaffected by the CELL_TYPE/TS quirk.
func cellChecksumPrefix(c Cell) byte {
	var crc byte
	crc = crc8.Bytes(crc, []byte(c.Name))
	crc = checksumValue(crc, c.Value)
	return crc
}

func checksumValue(crc byte, v AttrValue) byte {
	crc = crc8.Byte(crc, attrTypeByte(v.Kind))
	switch v.Kind {
	case AttrInteger:
		crc = crc8.U64(crc, uint64(v.Int))
	case AttrString:
		crc = crc8.U32(crc, uint32(len(v.Str)))
		crc = crc8.Bytes(crc, []byte(v.Str))
	case AttrBinary:
		crc = crc8.U32(crc, uint32(len(v.Bin)))
		crc = crc8.Bytes(crc, v.Bin)
	case AttrBoolean:
		var b byte
		if v.Bool {
			b = 1
		}
		crc = crc8.Byte(crc, b)
	case AttrDouble:
		crc = crc8.U64(crc, doubleBits(v.Dbl))
	}
	return crc
}

// checksumPKValue folds a primary-key value's type byte and payload into
// crc, the same shape as checksumValue but over the PK value kinds
// (including the payload-less sentinels).
func checksumPKValue(crc byte, v PKValue) byte {
	crc = crc8.Byte(crc, pkTypeByte(v.Kind))
	switch v.Kind {
	case PKInteger:
		crc = crc8.U64(crc, uint64(v.Int))
	case PKString:
		crc = crc8.U32(crc, uint32(len(v.Str)))
		crc = crc8.Bytes(crc, []byte(v.Str))
	case PKBinary:
		crc = crc8.U32(crc, uint32(len(v.Bin)))
		crc = crc8.Bytes(crc, v.Bin)
	}
	return crc
}

// rowChecksum folds the per-cell checksums (primary key first, then
// attributes, in the order they appear) and one trailing byte marking
// whether a row-delete marker is present.
func rowChecksum(pkChecksums, attrChecksums []byte, hasDeleteMarker bool) byte {
	var crc byte
	for _, c := range pkChecksums {
		crc = crc8.Byte(crc, c)
	}
	for _, c := range attrChecksums {
		crc = crc8.Byte(crc, c)
	}
	var marker byte
	if hasDeleteMarker {
		marker = 1
	}
	crc = crc8.Byte(crc, marker)
	return crc
}

func cellTypeByte(op CellOp) byte {
	switch op {
	case OpDeleteAll:
		return cellTypeDeleteAllVersions
	case OpDeleteOne:
		return cellTypeDeleteOneVersion
	default:
		return 0
	}
}
