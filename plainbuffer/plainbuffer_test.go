package plainbuffer

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/tablestore-go/tablestore/crc8"
)

// Scenario 1 (spec.md §8): encode a primary key of one integer column
// pk=42 and check every byte, including the two CRC-8-ATM outputs.
func TestEncodeRow_ConcreteScenario_SingleIntPK(t *testing.T) {
	row := Row{PK: PrimaryKey{Columns: []PrimaryKeyColumn{
		{Name: "pk", Value: PKInt(42)},
	}}}

	got := EncodeRow(row)
	want := []byte{
		0x75, 0x00, 0x00, 0x00, // header
		0x01,                   // TAG_ROW_PK
		0x03,                   // TAG_CELL
		0x04, 0x02, 0x00, 0x00, 0x00, 'p', 'k', // TAG_CELL_NAME, len=2, "pk"
		0x05, 0x09, 0x00, 0x00, 0x00, // TAG_CELL_VALUE, len=9
		0x00, 0x2A, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // INTEGER, 42 LE
		0x0A, 0x8f, // TAG_CELL_CHECKSUM, cell crc
		0x09, 0x75, // TAG_ROW_CHECKSUM, row crc
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("EncodeRow(pk=42) =\n%x\nwant\n%x", got, want)
	}
	if len(got) != RowSize(row) {
		t.Fatalf("RowSize(row) = %d, want %d", RowSize(row), len(got))
	}
}

// Scenario 2 (spec.md §8): decode an inf-max primary-key value from a
// single-byte standalone variant.
func TestDecodeStandalonePK_InfMax(t *testing.T) {
	v, err := DecodeStandalonePK([]byte{0x0A})
	if err != nil {
		t.Fatalf("DecodeStandalonePK: %v", err)
	}
	if v.Kind != PKInfMax {
		t.Fatalf("got kind %v, want PKInfMax", v.Kind)
	}
}

func TestRoundTrip_SingleRow(t *testing.T) {
	rows := []Row{
		{PK: PrimaryKey{Columns: []PrimaryKeyColumn{{Name: "id", Value: PKInt(1)}}}},
		{
			PK: PrimaryKey{Columns: []PrimaryKeyColumn{
				{Name: "id", Value: PKStr("abc")},
				{Name: "shard", Value: PKBin([]byte{1, 2, 3})},
			}},
			Attributes: []Cell{
				{Name: "a", Value: AttrInt(7), HasTS: true, Timestamp: 123456},
				{Name: "b", Value: AttrStr("hello")},
				{Name: "c", Value: AttrBool(true)},
				{Name: "d", Value: AttrDouble(3.5)},
				{Name: "e", Value: AttrBin([]byte{0xde, 0xad})},
			},
		},
		{
			PK:         PrimaryKey{Columns: []PrimaryKeyColumn{{Name: "id", Value: PKInt(2)}}},
			Attributes: []Cell{{Name: "x", Value: AttrInt(1), Op: OpDeleteAll}},
			DeleteRow:  true,
		},
	}
	for i, r := range rows {
		enc := EncodeRow(r)
		if len(enc) != RowSize(r) {
			t.Fatalf("row %d: RowSize = %d, EncodeRow produced %d bytes", i, RowSize(r), len(enc))
		}
		got, err := Decode(enc)
		if err != nil {
			t.Fatalf("row %d: Decode: %v", i, err)
		}
		assertRowEqual(t, i, r, got)
	}
}

func TestRoundTrip_Standalone(t *testing.T) {
	pkValues := []PKValue{
		PKInt(-1), PKInt(0), PKInt(1 << 40),
		PKStr(""), PKStr("hello"),
		PKBin(nil), PKBin([]byte{1, 2, 3}),
		PKMinSentinel(), PKMaxSentinel(), PKAutoIncr(),
	}
	for _, v := range pkValues {
		got, err := DecodeStandalonePK(EncodeStandalonePK(v))
		if err != nil {
			t.Fatalf("DecodeStandalonePK(EncodeStandalonePK(%v)): %v", v, err)
		}
		if !got.Equal(v) {
			t.Fatalf("round trip mismatch: %+v != %+v", got, v)
		}
	}

	attrValues := []AttrValue{
		AttrInt(-1), AttrInt(0),
		AttrStr(""), AttrStr("hello"),
		AttrBin(nil), AttrBin([]byte{9, 8, 7}),
		AttrBool(true), AttrBool(false),
		AttrDouble(0), AttrDouble(-3.25),
	}
	for _, v := range attrValues {
		got, err := DecodeStandaloneAttr(EncodeStandaloneAttr(v))
		if err != nil {
			t.Fatalf("DecodeStandaloneAttr(EncodeStandaloneAttr(%v)): %v", v, err)
		}
		if !got.Equal(v) {
			t.Fatalf("round trip mismatch: %+v != %+v", got, v)
		}
	}
}

// Property: for every well-formed row generated at random,
// decode(encode(row)) == row and len(encode(row)) == RowSize(row).
func TestProperty_RandomRowRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		row := randomRow(rnd)
		enc := EncodeRow(row)
		if len(enc) != RowSize(row) {
			t.Fatalf("iteration %d: RowSize mismatch: %d != %d", i, RowSize(row), len(enc))
		}
		got, err := Decode(enc)
		if err != nil {
			t.Fatalf("iteration %d: Decode: %v", i, err)
		}
		assertRowEqual(t, i, row, got)
	}
}

// Property: flipping any bit in encode(row) outside a zero-length region
// causes Decode to return a *CorruptedRowError.
func TestProperty_ChecksumSensitivity(t *testing.T) {
	row := Row{
		PK: PrimaryKey{Columns: []PrimaryKeyColumn{
			{Name: "id", Value: PKInt(99)},
			{Name: "shard", Value: PKStr("abc")},
		}},
		Attributes: []Cell{
			{Name: "a", Value: AttrInt(7), HasTS: true, Timestamp: 42, Op: OpDeleteOne},
			{Name: "b", Value: AttrStr("xyz")},
		},
	}
	enc := EncodeRow(row)

	// This fixture has no zero-length strings/blobs, so every byte in
	// the encoding is part of some non-empty region; there is nothing
	// to exclude.
	flips, checked := 0, 0
	for i := range enc {
		checked++
		mutated := append([]byte(nil), enc...)
		mutated[i] ^= 0x01
		_, err := Decode(mutated)
		if err == nil {
			// No position is exempt: every single-bit flip of this
			// fixture must be rejected by Decode, so a clean decode
			// here is a genuine spec violation.
			t.Fatalf("byte %d: flipping produced no error (mutated=%x)", i, mutated)
		}
		if _, ok := err.(*CorruptedRowError); ok {
			flips++
		}
	}
	if flips == 0 {
		t.Fatalf("expected at least one bit flip to surface a *CorruptedRowError, got none out of %d checked", checked)
	}
}

// Property: for an update cell carrying both CELL_TYPE and a timestamp,
// the wire order is CELL_TYPE-before-TS while the CRC feed order is
// TS-before-CELL_TYPE.
func TestProperty_CellTypeTimestampOrderingQuirk(t *testing.T) {
	cell := Cell{Name: "c", Value: AttrInt(1), HasTS: true, Timestamp: 0x0102030405060708, Op: OpDeleteOne}
	row := Row{
		PK:         PrimaryKey{Columns: []PrimaryKeyColumn{{Name: "id", Value: PKInt(1)}}},
		Attributes: []Cell{cell},
	}
	enc := EncodeRow(row)

	// Locate the CELL_TYPE and TAG_CELL_TIMESTAMP tag bytes within the
	// encoded attribute cell and confirm CELL_TYPE appears first.
	typeIdx := bytes.IndexByte(enc, tagCellType)
	tsIdx := bytes.IndexByte(enc, tagCellTimestamp)
	if typeIdx < 0 || tsIdx < 0 {
		t.Fatalf("expected both TAG_CELL_TYPE and TAG_CELL_TIMESTAMP in encoded row")
	}
	if !(typeIdx < tsIdx) {
		t.Fatalf("wire order: want TAG_CELL_TYPE (%d) before TAG_CELL_TIMESTAMP (%d)", typeIdx, tsIdx)
	}

	// The CRC feed order is the reverse: compute it both ways and show
	// only the TS-before-CELL_TYPE order reproduces the checksum stored
	// by EncodeRow.
	nameCRC := cellChecksumPrefix(cell)
	tsBeforeType := nameCRC
	tsBeforeType = crc8.U64(tsBeforeType, cell.Timestamp)
	tsBeforeType = crc8.Byte(tsBeforeType, cellTypeByte(cell.Op))

	typeBeforeTS := nameCRC
	typeBeforeTS = crc8.Byte(typeBeforeTS, cellTypeByte(cell.Op))
	typeBeforeTS = crc8.U64(typeBeforeTS, cell.Timestamp)

	stored := cellChecksum(cell)
	if stored != tsBeforeType {
		t.Fatalf("stored checksum %#x should equal TS-before-CELL_TYPE fold %#x", stored, tsBeforeType)
	}
	if stored == typeBeforeTS {
		t.Fatalf("ambiguous fixture: TS-before-CELL_TYPE and CELL_TYPE-before-TS folds coincide")
	}
}

func assertRowEqual(t *testing.T, i int, want, got Row) {
	t.Helper()
	if len(want.PK.Columns) != len(got.PK.Columns) {
		t.Fatalf("row %d: pk column count %d != %d", i, len(want.PK.Columns), len(got.PK.Columns))
	}
	for j := range want.PK.Columns {
		w, g := want.PK.Columns[j], got.PK.Columns[j]
		if w.Name != g.Name || !w.Value.Equal(g.Value) {
			t.Fatalf("row %d: pk column %d mismatch: %+v != %+v", i, j, w, g)
		}
	}
	if len(want.Attributes) != len(got.Attributes) {
		t.Fatalf("row %d: attribute count %d != %d", i, len(want.Attributes), len(got.Attributes))
	}
	for j := range want.Attributes {
		w, g := want.Attributes[j], got.Attributes[j]
		if w.Name != g.Name || !w.Value.Equal(g.Value) || w.HasTS != g.HasTS || w.Timestamp != g.Timestamp || w.Op != g.Op {
			t.Fatalf("row %d: attribute %d mismatch: %+v != %+v", i, j, w, g)
		}
	}
	if want.DeleteRow != got.DeleteRow {
		t.Fatalf("row %d: DeleteRow %v != %v", i, want.DeleteRow, got.DeleteRow)
	}
}

func randomRow(rnd *rand.Rand) Row {
	numPK := 1 + rnd.Intn(3)
	var pk PrimaryKey
	for i := 0; i < numPK; i++ {
		pk.Columns = append(pk.Columns, PrimaryKeyColumn{
			Name:  randomName(rnd, i),
			Value: randomPKValue(rnd),
		})
	}
	numAttrs := rnd.Intn(5)
	var attrs []Cell
	for i := 0; i < numAttrs; i++ {
		c := Cell{Name: randomName(rnd, 100+i), Value: randomAttrValue(rnd)}
		if rnd.Intn(2) == 0 {
			c.HasTS = true
			c.Timestamp = rnd.Uint64()
		}
		switch rnd.Intn(3) {
		case 1:
			c.Op = OpDeleteAll
		case 2:
			c.Op = OpDeleteOne
		}
		attrs = append(attrs, c)
	}
	return Row{PK: pk, Attributes: attrs, DeleteRow: rnd.Intn(4) == 0}
}

func randomName(rnd *rand.Rand, salt int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	n := 1 + rnd.Intn(6)
	b := make([]byte, n)
	for i := range b {
		b[i] = letters[rnd.Intn(len(letters))]
	}
	return string(b)
}

func randomPKValue(rnd *rand.Rand) PKValue {
	switch rnd.Intn(3) {
	case 0:
		return PKInt(rnd.Int63())
	case 1:
		return PKStr(randomName(rnd, rnd.Int()))
	default:
		buf := make([]byte, rnd.Intn(10))
		rnd.Read(buf)
		return PKBin(buf)
	}
}

func randomAttrValue(rnd *rand.Rand) AttrValue {
	switch rnd.Intn(5) {
	case 0:
		return AttrInt(rnd.Int63())
	case 1:
		return AttrStr(randomName(rnd, rnd.Int()))
	case 2:
		buf := make([]byte, rnd.Intn(10))
		rnd.Read(buf)
		return AttrBin(buf)
	case 3:
		return AttrBool(rnd.Intn(2) == 0)
	default:
		return AttrDouble(rnd.NormFloat64())
	}
}
