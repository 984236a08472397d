// Package protocol maps in-memory request/response objects to and from
// the external PB wire messages (spec.md §4.3), embedding PlainBuffer
// row payloads and filter trees along the way. It owns the richer
// domain types that ride on both sides of that boundary — TableMeta,
// Filter, ConsumedCapacity and friends — so that package tablestore can
// re-export them as aliases (mirroring how it already aliases the
// PlainBuffer row types) without creating an import cycle back into
// tablestore itself.
package protocol

import (
	"fmt"
	"time"

	"github.com/tablestore-go/tablestore/plainbuffer"
)

// BloomFilterType controls the table option of the same name.
type BloomFilterType int

const (
	BloomFilterNone BloomFilterType = iota
	BloomFilterCell
	BloomFilterRow
)

// TableOptions are the per-table tunables from spec.md §3.
type TableOptions struct {
	TimeToLive              time.Duration // 0 or negative means "unlimited"
	MaxVersions             int32
	BloomFilterType         BloomFilterType
	BlockSize               int32
	MaxOutOfOrderDeviation  time.Duration
	ReservedReadThroughput  int32
	ReservedWriteThroughput int32
}

// PKColumnType is the declared type of one primary-key schema column.
type PKColumnType int

const (
	PKColumnInteger PKColumnType = iota
	PKColumnString
	PKColumnBinary
)

// PKSchemaColumn is one column of a table's declared primary-key schema.
type PKSchemaColumn struct {
	Name          string
	Type          PKColumnType
	AutoIncrement bool
}

// TableMeta describes a table: its name, primary-key schema (in
// declared order), and options.
type TableMeta struct {
	TableName string
	Schema    []PKSchemaColumn
	Options   TableOptions
}

// ConsumedCapacity is the read/write capacity units consumed by a
// request, reported back by the server. Read and Write are both
// optional: a request that didn't touch that side leaves it at 0 with
// its corresponding Has flag false.
type ConsumedCapacity struct {
	HasRead  bool
	Read     int64
	HasWrite bool
	Write    int64
}

// Merge folds o into cc: present sides add; absent sides are left
// untouched unless o supplies them (spec.md §4.3 "Consumed-capacity
// merge").
func (cc *ConsumedCapacity) Merge(o ConsumedCapacity) {
	if o.HasRead {
		cc.HasRead = true
		cc.Read += o.Read
	}
	if o.HasWrite {
		cc.HasWrite = true
		cc.Write += o.Write
	}
}

// TimeRange selects a [Start, End) millisecond window for a read. Per
// spec.md §4.3, if Start+1 == End the wire form collapses to a single
// "specific time" field; ToPB handles this, callers just supply the
// window.
type TimeRange struct {
	Start, End int64 // milliseconds
}

// Direction controls the scan order of a range query.
type Direction int

const (
	Forward Direction = iota
	Backward
)

// ReturnType controls what a write echoes back.
type ReturnType int

const (
	ReturnNone ReturnType = iota
	ReturnPK
)

// RowExistence is the write-precondition enum carried by Condition.
type RowExistence int

const (
	IgnoreExistence RowExistence = iota
	ExpectExist
	ExpectNotExist
)

// Condition is a write precondition: row existence plus an optional
// filter tree evaluated against the row's current state.
type Condition struct {
	RowExistence RowExistence
	Filter       Filter // nil means "no column filter"
}

// Comparator is the leaf comparison operator of a SingleColumnCondition.
type Comparator int

const (
	CmpEqual Comparator = iota
	CmpNotEqual
	CmpLess
	CmpLessEqual
	CmpGreater
	CmpGreaterEqual
)

// LogicOp is the combinator of a CompositeColumnCondition.
type LogicOp int

const (
	LogicNot LogicOp = iota
	LogicAnd
	LogicOr
)

// Filter is a tagged union over SingleColumnCondition and
// CompositeColumnCondition — siblings of the same enum, not an
// inheritance hierarchy (spec.md §9).
type Filter interface {
	isFilter()
}

// SingleColumnCondition is a filter-tree leaf.
type SingleColumnCondition struct {
	Column            string
	Comparator        Comparator
	Value             plainbuffer.AttrValue
	PassIfMissing     bool
	LatestVersionOnly bool
}

func (SingleColumnCondition) isFilter() {}

// CompositeColumnCondition is a filter-tree inner node. NOT must carry
// exactly one child; AND/OR must carry at least one. ValidateFilter
// enforces this.
type CompositeColumnCondition struct {
	Op       LogicOp
	Children []Filter
}

func (CompositeColumnCondition) isFilter() {}

// ValidateFilter checks the structural invariants of a filter tree.
func ValidateFilter(f Filter) error {
	if f == nil {
		return nil
	}
	switch v := f.(type) {
	case SingleColumnCondition:
		if v.Column == "" {
			return fmt.Errorf("filter: single-column condition has an empty column name")
		}
		return nil
	case CompositeColumnCondition:
		switch v.Op {
		case LogicNot:
			if len(v.Children) != 1 {
				return fmt.Errorf("filter: NOT must have exactly one child, got %d", len(v.Children))
			}
		case LogicAnd, LogicOr:
			if len(v.Children) < 1 {
				return fmt.Errorf("filter: AND/OR must have at least one child")
			}
		default:
			return fmt.Errorf("filter: unknown composite op %v", v.Op)
		}
		for _, c := range v.Children {
			if err := ValidateFilter(c); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("filter: unknown filter node type %T", f)
	}
}
