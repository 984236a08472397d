package plainbuffer

import (
	"encoding/binary"
	"io"

	"github.com/tablestore-go/tablestore/crc8"
)

// reader is a forward-only cursor over a PlainBuffer byte slice.
type reader struct {
	buf []byte
	pos int
}

func (r *reader) empty() bool { return r.pos >= len(r.buf) }

func (r *reader) peekByte() (byte, bool) {
	if r.empty() {
		return 0, false
	}
	return r.buf[r.pos], true
}

func (r *reader) readByte() (byte, error) {
	if r.empty() {
		return 0, io.ErrUnexpectedEOF
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

func (r *reader) readU32() (uint32, error) {
	if r.pos+4 > len(r.buf) {
		return 0, io.ErrUnexpectedEOF
	}
	v := binary.LittleEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *reader) readU64() (uint64, error) {
	if r.pos+8 > len(r.buf) {
		return 0, io.ErrUnexpectedEOF
	}
	v := binary.LittleEndian.Uint64(r.buf[r.pos:])
	r.pos += 8
	return v, nil
}

func (r *reader) readN(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.buf) {
		return nil, io.ErrUnexpectedEOF
	}
	out := make([]byte, n)
	copy(out, r.buf[r.pos:r.pos+n])
	r.pos += n
	return out, nil
}

// Decode decodes a single row payload: a 4-byte header followed by one
// row. It rejects any payload whose header isn't exactly 75 00 00 00,
// and returns *CorruptedRowError if any cell or row checksum fails to
// verify.
func Decode(data []byte) (Row, error) {
	r := &reader{buf: data}
	if err := readHeader(r); err != nil {
		return Row{}, err
	}
	row, err := decodeRowBody(r)
	if err != nil {
		return Row{}, err
	}
	if !r.empty() {
		return Row{}, formatErrorf("trailing %d byte(s) after row", len(r.buf)-r.pos)
	}
	return row, nil
}

// DecodeStream decodes a get-range-style response: a single leading
// header followed by zero or more rows concatenated directly (each
// ending in its own row checksum, with no per-row header). Decoding
// stops cleanly at end-of-input.
func DecodeStream(data []byte) ([]Row, error) {
	r := &reader{buf: data}
	if len(data) == 0 {
		return nil, nil
	}
	if err := readHeader(r); err != nil {
		return nil, err
	}
	var rows []Row
	for !r.empty() {
		row, err := decodeRowBody(r)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func readHeader(r *reader) error {
	got, err := r.readN(4)
	if err != nil {
		return formatErrorf("truncated header: %v", err)
	}
	for i := range header {
		if got[i] != header[i] {
			return formatErrorf("bad header %x, want %x", got, header)
		}
	}
	return nil
}

// decodeRowBody decodes PK [DATA] [DELETE_MARKER] ROW_CHECKSUM, i.e.
// everything after the header.
func decodeRowBody(r *reader) (Row, error) {
	tag, err := r.readByte()
	if err != nil {
		return Row{}, formatErrorf("truncated row: missing TAG_ROW_PK")
	}
	if tag != tagRowPK {
		return Row{}, formatErrorf("expected TAG_ROW_PK (%#x), got %#x", tagRowPK, tag)
	}

	var row Row
	var pkChecksums []byte
	for {
		b, ok := r.peekByte()
		if !ok || b != tagCell {
			break
		}
		col, crc, err := decodePKCell(r)
		if err != nil {
			return Row{}, err
		}
		row.PK.Columns = append(row.PK.Columns, col)
		pkChecksums = append(pkChecksums, crc)
	}

	var attrChecksums []byte
	if b, ok := r.peekByte(); ok && b == tagRowData {
		r.pos++ // consume TAG_ROW_DATA
		for {
			b, ok := r.peekByte()
			if !ok || b != tagCell {
				break
			}
			cell, crc, err := decodeCell(r)
			if err != nil {
				return Row{}, err
			}
			row.Attributes = append(row.Attributes, cell)
			attrChecksums = append(attrChecksums, crc)
		}
	}

	if b, ok := r.peekByte(); ok && b == tagDeleteRowMarker {
		r.pos++
		row.DeleteRow = true
	}

	tag, err = r.readByte()
	if err != nil || tag != tagRowChecksum {
		return Row{}, formatErrorf("expected TAG_ROW_CHECKSUM (%#x), got %#x (err=%v)", tagRowChecksum, tag, err)
	}
	want, err := r.readByte()
	if err != nil {
		return Row{}, formatErrorf("truncated row checksum")
	}
	got := rowChecksum(pkChecksums, attrChecksums, row.DeleteRow)
	if got != want {
		return Row{}, &CorruptedRowError{Where: "row", Want: want, Got: got}
	}
	return row, nil
}

// decodePKCell decodes one primary-key CELL (no CELL_TYPE, no TS) and
// returns the column plus its stored+verified checksum.
func decodePKCell(r *reader) (PrimaryKeyColumn, byte, error) {
	if tag, err := r.readByte(); err != nil || tag != tagCell {
		return PrimaryKeyColumn{}, 0, formatErrorf("expected TAG_CELL, got %#x (err=%v)", tag, err)
	}
	name, err := decodeCellName(r)
	if err != nil {
		return PrimaryKeyColumn{}, 0, err
	}

	tag, err := r.readByte()
	if err != nil || tag != tagCellValue {
		return PrimaryKeyColumn{}, 0, formatErrorf("expected TAG_CELL_VALUE, got %#x (err=%v)", tag, err)
	}
	length, err := r.readU32()
	if err != nil {
		return PrimaryKeyColumn{}, 0, formatErrorf("truncated cell value length")
	}
	payload, err := r.readN(int(length))
	if err != nil {
		return PrimaryKeyColumn{}, 0, formatErrorf("truncated cell value payload")
	}
	value, err := decodeStandalonePK(payload)
	if err != nil {
		return PrimaryKeyColumn{}, 0, err
	}

	tag, err = r.readByte()
	if err != nil || tag != tagCellChecksum {
		return PrimaryKeyColumn{}, 0, formatErrorf("expected TAG_CELL_CHECKSUM, got %#x (err=%v)", tag, err)
	}
	want, err := r.readByte()
	if err != nil {
		return PrimaryKeyColumn{}, 0, formatErrorf("truncated cell checksum")
	}

	var got byte
	got = crc8.Bytes(got, []byte(name))
	got = checksumPKValue(got, value)
	if got != want {
		return PrimaryKeyColumn{}, 0, &CorruptedRowError{Where: "cell", Want: want, Got: got}
	}
	return PrimaryKeyColumn{Name: name, Value: value}, got, nil
}

// decodeCell decodes one attribute CELL (name, value, optional
// CELL_TYPE, optional TS, checksum) and returns the cell plus its
// stored+verified checksum.
func decodeCell(r *reader) (Cell, byte, error) {
	if tag, err := r.readByte(); err != nil || tag != tagCell {
		return Cell{}, 0, formatErrorf("expected TAG_CELL, got %#x (err=%v)", tag, err)
	}
	name, err := decodeCellName(r)
	if err != nil {
		return Cell{}, 0, err
	}

	tag, err := r.readByte()
	if err != nil || tag != tagCellValue {
		return Cell{}, 0, formatErrorf("expected TAG_CELL_VALUE, got %#x (err=%v)", tag, err)
	}
	length, err := r.readU32()
	if err != nil {
		return Cell{}, 0, formatErrorf("truncated cell value length")
	}
	payload, err := r.readN(int(length))
	if err != nil {
		return Cell{}, 0, formatErrorf("truncated cell value payload")
	}
	value, err := decodeStandaloneAttr(payload)
	if err != nil {
		return Cell{}, 0, err
	}

	c := Cell{Name: name, Value: value}

	if b, ok := r.peekByte(); ok && b == tagCellType {
		r.pos++
		opByte, err := r.readByte()
		if err != nil {
			return Cell{}, 0, formatErrorf("truncated cell type")
		}
		switch opByte {
		case cellTypeDeleteAllVersions:
			c.Op = OpDeleteAll
		case cellTypeDeleteOneVersion:
			c.Op = OpDeleteOne
		default:
			return Cell{}, 0, formatErrorf("unknown CELL_TYPE byte %#x", opByte)
		}
	}

	if b, ok := r.peekByte(); ok && b == tagCellTimestamp {
		r.pos++
		ts, err := r.readU64()
		if err != nil {
			return Cell{}, 0, formatErrorf("truncated cell timestamp")
		}
		c.HasTS = true
		c.Timestamp = ts
	}

	tag, err = r.readByte()
	if err != nil || tag != tagCellChecksum {
		return Cell{}, 0, formatErrorf("expected TAG_CELL_CHECKSUM, got %#x (err=%v)", tag, err)
	}
	want, err := r.readByte()
	if err != nil {
		return Cell{}, 0, formatErrorf("truncated cell checksum")
	}

	got := cellChecksum(c)
	if got != want {
		return Cell{}, 0, &CorruptedRowError{Where: "cell", Want: want, Got: got}
	}
	return c, got, nil
}

func decodeCellName(r *reader) (string, error) {
	tag, err := r.readByte()
	if err != nil || tag != tagCellName {
		return "", formatErrorf("expected TAG_CELL_NAME, got %#x (err=%v)", tag, err)
	}
	length, err := r.readU32()
	if err != nil {
		return "", formatErrorf("truncated cell name length")
	}
	nameBytes, err := r.readN(int(length))
	if err != nil {
		return "", formatErrorf("truncated cell name")
	}
	return string(nameBytes), nil
}

// DecodeStandalonePK decodes a bare type-byte-prefixed, unlength-prefixed
// primary-key value, as produced by EncodeStandalonePK.
func DecodeStandalonePK(data []byte) (PKValue, error) {
	return decodeStandalonePK(data)
}

func decodeStandalonePK(data []byte) (PKValue, error) {
	if len(data) == 0 {
		return PKValue{}, formatErrorf("empty standalone primary-key value")
	}
	kind, err := pkKindFromTypeByte(data[0])
	if err != nil {
		return PKValue{}, &FormatError{Msg: err.Error()}
	}
	rest := data[1:]
	switch kind {
	case PKInteger:
		if len(rest) != 8 {
			return PKValue{}, formatErrorf("integer primary-key value has %d bytes, want 8", len(rest))
		}
		return PKInt(int64(binary.LittleEndian.Uint64(rest))), nil
	case PKString:
		s, err := decodeLenPrefixed(rest)
		if err != nil {
			return PKValue{}, err
		}
		return PKStr(string(s)), nil
	case PKBinary:
		b, err := decodeLenPrefixed(rest)
		if err != nil {
			return PKValue{}, err
		}
		return PKBin(b), nil
	case PKInfMin:
		return PKMinSentinel(), nil
	case PKInfMax:
		return PKMaxSentinel(), nil
	case PKAutoIncrement:
		return PKAutoIncr(), nil
	}
	return PKValue{}, formatErrorf("unreachable primary-key kind %v", kind)
}

// DecodeStandaloneAttr decodes a bare type-byte-prefixed attribute
// value, as produced by EncodeStandaloneAttr.
func DecodeStandaloneAttr(data []byte) (AttrValue, error) {
	return decodeStandaloneAttr(data)
}

func decodeStandaloneAttr(data []byte) (AttrValue, error) {
	if len(data) == 0 {
		return AttrValue{}, formatErrorf("empty standalone attribute value")
	}
	kind, err := attrKindFromTypeByte(data[0])
	if err != nil {
		return AttrValue{}, &FormatError{Msg: err.Error()}
	}
	rest := data[1:]
	switch kind {
	case AttrInteger:
		if len(rest) != 8 {
			return AttrValue{}, formatErrorf("integer attribute value has %d bytes, want 8", len(rest))
		}
		return AttrInt(int64(binary.LittleEndian.Uint64(rest))), nil
	case AttrString:
		s, err := decodeLenPrefixed(rest)
		if err != nil {
			return AttrValue{}, err
		}
		return AttrStr(string(s)), nil
	case AttrBinary:
		b, err := decodeLenPrefixed(rest)
		if err != nil {
			return AttrValue{}, err
		}
		return AttrBin(b), nil
	case AttrBoolean:
		if len(rest) != 1 {
			return AttrValue{}, formatErrorf("boolean attribute value has %d bytes, want 1", len(rest))
		}
		return AttrBool(rest[0] != 0), nil
	case AttrDouble:
		if len(rest) != 8 {
			return AttrValue{}, formatErrorf("double attribute value has %d bytes, want 8", len(rest))
		}
		return AttrDouble(doubleFromBits(binary.LittleEndian.Uint64(rest))), nil
	}
	return AttrValue{}, formatErrorf("unreachable attribute kind %v", kind)
}

func decodeLenPrefixed(data []byte) ([]byte, error) {
	if len(data) < 4 {
		return nil, formatErrorf("truncated length-prefixed payload")
	}
	n := binary.LittleEndian.Uint32(data[:4])
	if uint32(len(data)-4) != n {
		return nil, formatErrorf("length-prefixed payload declares %d bytes, has %d", n, len(data)-4)
	}
	out := make([]byte, n)
	copy(out, data[4:])
	return out, nil
}
