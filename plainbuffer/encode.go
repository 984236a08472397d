package plainbuffer

import (
	"bytes"
	"encoding/binary"

	"github.com/tablestore-go/tablestore/crc8"
)

// EncodeStandalonePK encodes a primary-key value in "standalone" form:
// a bare type byte followed by its payload, with no tag and no length
// prefix. This is the form used when embedding a single PK value in a
// non-row PB field (e.g. a range-scan boundary or a filter's comparison
// value).
func EncodeStandalonePK(v PKValue) []byte {
	buf := RowBufferPool.Get()
	defer RowBufferPool.Put(buf)
	buf.Reset()
	appendStandalonePK(buf, v)
	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out
}

// EncodeStandaloneAttr is the standalone-form encoder for attribute
// values, used for filter leaf comparison values.
func EncodeStandaloneAttr(v AttrValue) []byte {
	buf := RowBufferPool.Get()
	defer RowBufferPool.Put(buf)
	buf.Reset()
	appendStandaloneAttr(buf, v)
	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out
}

func appendStandalonePK(buf *bytes.Buffer, v PKValue) {
	buf.WriteByte(pkTypeByte(v.Kind))
	switch v.Kind {
	case PKInteger:
		writeU64(buf, uint64(v.Int))
	case PKString:
		writeU32(buf, uint32(len(v.Str)))
		buf.WriteString(v.Str)
	case PKBinary:
		writeU32(buf, uint32(len(v.Bin)))
		buf.Write(v.Bin)
	}
}

func appendStandaloneAttr(buf *bytes.Buffer, v AttrValue) {
	buf.WriteByte(attrTypeByte(v.Kind))
	switch v.Kind {
	case AttrInteger:
		writeU64(buf, uint64(v.Int))
	case AttrString:
		writeU32(buf, uint32(len(v.Str)))
		buf.WriteString(v.Str)
	case AttrBinary:
		writeU32(buf, uint32(len(v.Bin)))
		buf.Write(v.Bin)
	case AttrBoolean:
		if v.Bool {
			buf.WriteByte(1)
		} else {
			buf.WriteByte(0)
		}
	case AttrDouble:
		writeU64(buf, doubleBits(v.Dbl))
	}
}

// EncodeRow encodes a full row payload: header, primary key, attribute
// data (if any), a delete marker (if Row.DeleteRow), and the row
// checksum. The result always has exactly RowSize(r) bytes.
func EncodeRow(r Row) []byte {
	out := make([]byte, 0, RowSize(r))
	buf := bytes.NewBuffer(out)
	buf.Write(header[:])

	buf.WriteByte(tagRowPK)
	pkChecksums := make([]byte, len(r.PK.Columns))
	for i, col := range r.PK.Columns {
		pkChecksums[i] = appendPKCell(buf, col)
	}

	attrChecksums := make([]byte, len(r.Attributes))
	if len(r.Attributes) > 0 {
		buf.WriteByte(tagRowData)
		for i, c := range r.Attributes {
			attrChecksums[i] = appendCell(buf, c)
		}
	}

	if r.DeleteRow {
		buf.WriteByte(tagDeleteRowMarker)
	}

	buf.WriteByte(tagRowChecksum)
	buf.WriteByte(rowChecksum(pkChecksums, attrChecksums, r.DeleteRow))

	return buf.Bytes()
}

// appendPKCell writes one primary-key column as a CELL (name + standalone-
// shaped value, no CELL_TYPE, no timestamp) and returns its checksum.
func appendPKCell(buf *bytes.Buffer, col PrimaryKeyColumn) byte {
	buf.WriteByte(tagCell)
	appendCellName(buf, col.Name)

	buf.WriteByte(tagCellValue)
	valBuf := RowBufferPool.Get()
	defer RowBufferPool.Put(valBuf)
	valBuf.Reset()
	appendStandalonePK(valBuf, col.Value)
	writeU32(buf, uint32(valBuf.Len()))
	buf.Write(valBuf.Bytes())

	var crc byte
	crc = crc8.Bytes(crc, []byte(col.Name))
	crc = checksumPKValue(crc, col.Value)

	buf.WriteByte(tagCellChecksum)
	buf.WriteByte(crc)
	return crc
}

// appendCell writes one attribute cell — name, value, optional
// CELL_TYPE, optional timestamp, checksum — and returns its checksum.
// CELL_TYPE is written before TS on the wire; the checksum folds TS
// before CELL_TYPE. See cellChecksum for why.
func appendCell(buf *bytes.Buffer, c Cell) byte {
	buf.WriteByte(tagCell)
	appendCellName(buf, c.Name)

	buf.WriteByte(tagCellValue)
	valBuf := RowBufferPool.Get()
	defer RowBufferPool.Put(valBuf)
	valBuf.Reset()
	appendStandaloneAttr(valBuf, c.Value)
	writeU32(buf, uint32(valBuf.Len()))
	buf.Write(valBuf.Bytes())

	if c.Op != OpNone {
		buf.WriteByte(tagCellType)
		buf.WriteByte(cellTypeByte(c.Op))
	}

	if c.HasTS {
		buf.WriteByte(tagCellTimestamp)
		writeU64(buf, c.Timestamp)
	}

	crc := cellChecksum(c)
	buf.WriteByte(tagCellChecksum)
	buf.WriteByte(crc)
	return crc
}

func appendCellName(buf *bytes.Buffer, name string) {
	buf.WriteByte(tagCellName)
	writeU32(buf, uint32(len(name)))
	buf.WriteString(name)
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	buf.Write(tmp[:])
}

func writeU64(buf *bytes.Buffer, v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	buf.Write(tmp[:])
}
