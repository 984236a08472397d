package tablestore

import "github.com/tablestore-go/tablestore/protocol"

// Filter types live in package protocol (which also needs them to
// translate filter trees to PB) and are re-exported here so callers
// never need to import protocol directly.
type (
	Comparator                = protocol.Comparator
	LogicOp                   = protocol.LogicOp
	Filter                    = protocol.Filter
	SingleColumnCondition     = protocol.SingleColumnCondition
	CompositeColumnCondition  = protocol.CompositeColumnCondition
)

const (
	CmpEqual        = protocol.CmpEqual
	CmpNotEqual     = protocol.CmpNotEqual
	CmpLess         = protocol.CmpLess
	CmpLessEqual    = protocol.CmpLessEqual
	CmpGreater      = protocol.CmpGreater
	CmpGreaterEqual = protocol.CmpGreaterEqual

	LogicNot = protocol.LogicNot
	LogicAnd = protocol.LogicAnd
	LogicOr  = protocol.LogicOr
)

func validateFilter(f Filter) error { return protocol.ValidateFilter(f) }
