package tablestore

import (
	"github.com/tablestore-go/tablestore/plainbuffer"
	"github.com/tablestore-go/tablestore/protocol"
)

// Row-level types are the PlainBuffer types directly: a row payload is
// exactly what travels to and from the server, so there is no separate
// "domain" representation to keep in sync with the codec.
type (
	Row              = plainbuffer.Row
	PrimaryKey       = plainbuffer.PrimaryKey
	PrimaryKeyColumn = plainbuffer.PrimaryKeyColumn
	PKValue          = plainbuffer.PKValue
	Cell             = plainbuffer.Cell
	AttrValue        = plainbuffer.AttrValue
	RowUpdateOp      = plainbuffer.CellOp
)

// Row-update operation tags (spec.md §3 "Row-update operation").
const (
	OpPut       = plainbuffer.OpNone
	OpDelete    = plainbuffer.OpDeleteOne
	OpDeleteAll = plainbuffer.OpDeleteAll
)

// Primary-key and attribute value constructors, re-exported from
// plainbuffer for callers who only need the tablestore package.
func PKInt(v int64) PKValue  { return plainbuffer.PKInt(v) }
func PKStr(v string) PKValue { return plainbuffer.PKStr(v) }
func PKBin(v []byte) PKValue { return plainbuffer.PKBin(v) }
func PKMin() PKValue         { return plainbuffer.PKMinSentinel() }
func PKMax() PKValue         { return plainbuffer.PKMaxSentinel() }
func PKAuto() PKValue        { return plainbuffer.PKAutoIncr() }

func AttrInt(v int64) AttrValue      { return plainbuffer.AttrInt(v) }
func AttrStr(v string) AttrValue     { return plainbuffer.AttrStr(v) }
func AttrBin(v []byte) AttrValue     { return plainbuffer.AttrBin(v) }
func AttrBool(v bool) AttrValue      { return plainbuffer.AttrBool(v) }
func AttrDouble(v float64) AttrValue { return plainbuffer.AttrDouble(v) }

// Table-metadata and query-option types live in package protocol (which
// also needs them to translate to and from PB) and are re-exported here
// so callers never need to import protocol directly.
type (
	BloomFilterType  = protocol.BloomFilterType
	TableOptions     = protocol.TableOptions
	PKColumnType     = protocol.PKColumnType
	PKSchemaColumn   = protocol.PKSchemaColumn
	TableMeta        = protocol.TableMeta
	ConsumedCapacity = protocol.ConsumedCapacity
	TimeRange        = protocol.TimeRange
	Direction        = protocol.Direction
	ReturnType       = protocol.ReturnType
	RowExistence     = protocol.RowExistence
	Condition        = protocol.Condition
)

const (
	BloomFilterNone = protocol.BloomFilterNone
	BloomFilterCell = protocol.BloomFilterCell
	BloomFilterRow  = protocol.BloomFilterRow

	PKColumnInteger = protocol.PKColumnInteger
	PKColumnString  = protocol.PKColumnString
	PKColumnBinary  = protocol.PKColumnBinary

	Forward  = protocol.Forward
	Backward = protocol.Backward

	ReturnNone = protocol.ReturnNone
	ReturnPK   = protocol.ReturnPK

	IgnoreExistence = protocol.IgnoreExistence
	ExpectExist     = protocol.ExpectExist
	ExpectNotExist  = protocol.ExpectNotExist
)
