// Package plainbuffer implements the PlainBuffer row encoding: a
// self-describing, checksummed, variant-typed binary format used for
// every row payload exchanged with the table store.
//
// Bit-exact agreement between encoder and decoder is mandatory — a
// single flipped bit silently corrupts a row — so this package has no
// lenient or "best effort" decode path. Every decode either returns an
// exact row or an error: a *CorruptedRowError or a *FormatError.
package plainbuffer

import "fmt"

// PKKind is the tag of a primary-key value.
type PKKind uint8

const (
	PKInteger PKKind = iota
	PKString
	PKBinary
	PKInfMin
	PKInfMax
	PKAutoIncrement
)

func (k PKKind) String() string {
	switch k {
	case PKInteger:
		return "Integer"
	case PKString:
		return "String"
	case PKBinary:
		return "Binary"
	case PKInfMin:
		return "InfMin"
	case PKInfMax:
		return "InfMax"
	case PKAutoIncrement:
		return "AutoIncrement"
	default:
		return fmt.Sprintf("PKKind(%d)", uint8(k))
	}
}

// PKValue is a tagged union over the six primary-key value kinds. Only
// the field matching Kind is meaningful; the sentinel kinds (InfMin,
// InfMax, AutoIncrement) carry no payload.
type PKValue struct {
	Kind PKKind
	Int  int64
	Str  string
	Bin  []byte
}

func PKInt(v int64) PKValue    { return PKValue{Kind: PKInteger, Int: v} }
func PKStr(v string) PKValue   { return PKValue{Kind: PKString, Str: v} }
func PKBin(v []byte) PKValue   { return PKValue{Kind: PKBinary, Bin: v} }
func PKMinSentinel() PKValue   { return PKValue{Kind: PKInfMin} }
func PKMaxSentinel() PKValue   { return PKValue{Kind: PKInfMax} }
func PKAutoIncr() PKValue      { return PKValue{Kind: PKAutoIncrement} }

// Equal reports whether v and o carry the same kind and payload.
func (v PKValue) Equal(o PKValue) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case PKInteger:
		return v.Int == o.Int
	case PKString:
		return v.Str == o.Str
	case PKBinary:
		return bytesEqual(v.Bin, o.Bin)
	default:
		return true // sentinels carry no payload
	}
}

// AttrKind is the tag of an attribute (cell) value.
type AttrKind uint8

const (
	AttrInteger AttrKind = iota
	AttrString
	AttrBinary
	AttrBoolean
	AttrDouble
)

func (k AttrKind) String() string {
	switch k {
	case AttrInteger:
		return "Integer"
	case AttrString:
		return "String"
	case AttrBinary:
		return "Binary"
	case AttrBoolean:
		return "Boolean"
	case AttrDouble:
		return "Double"
	default:
		return fmt.Sprintf("AttrKind(%d)", uint8(k))
	}
}

// AttrValue is a tagged union over the five attribute-value kinds.
// Unlike PKValue, it has no sentinel kinds.
type AttrValue struct {
	Kind AttrKind
	Int  int64
	Str  string
	Bin  []byte
	Bool bool
	Dbl  float64
}

func AttrInt(v int64) AttrValue    { return AttrValue{Kind: AttrInteger, Int: v} }
func AttrStr(v string) AttrValue   { return AttrValue{Kind: AttrString, Str: v} }
func AttrBin(v []byte) AttrValue   { return AttrValue{Kind: AttrBinary, Bin: v} }
func AttrBool(v bool) AttrValue    { return AttrValue{Kind: AttrBoolean, Bool: v} }
func AttrDouble(v float64) AttrValue { return AttrValue{Kind: AttrDouble, Dbl: v} }

func (v AttrValue) Equal(o AttrValue) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case AttrInteger:
		return v.Int == o.Int
	case AttrString:
		return v.Str == o.Str
	case AttrBinary:
		return bytesEqual(v.Bin, o.Bin)
	case AttrBoolean:
		return v.Bool == o.Bool
	case AttrDouble:
		return v.Dbl == o.Dbl
	}
	return false
}

// CellOp tags the update semantics of a cell in an update-row request.
type CellOp uint8

const (
	// OpNone means "this is an ordinary cell carrying a value" (used by
	// put-row and the primary key; it writes no CELL_TYPE byte).
	OpNone CellOp = iota
	// OpDeleteAll removes all versions of the named column.
	OpDeleteAll
	// OpDeleteOne removes the single cell version at Cell.Timestamp.
	OpDeleteOne
)

const (
	cellTypeDeleteAllVersions = 0x01
	cellTypeDeleteOneVersion  = 0x03
)

// Cell is a single (name, value, optional timestamp) triple, optionally
// tagged with an update operation for update-row requests.
type Cell struct {
	Name      string
	Value     AttrValue
	HasTS     bool
	Timestamp uint64 // milliseconds
	Op        CellOp
}

// PrimaryKeyColumn is one (name, value) pair in a primary key.
type PrimaryKeyColumn struct {
	Name  string
	Value PKValue
}

// PrimaryKey is the ordered tuple of columns identifying a row. Order
// must match the schema's declared order.
type PrimaryKey struct {
	Columns []PrimaryKeyColumn
}

// Row is a primary key plus an ordered sequence of attribute cells, with
// an optional row-level delete marker (used by delete-row requests).
type Row struct {
	PK         PrimaryKey
	Attributes []Cell
	DeleteRow  bool
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
