package protocol

import (
	"fmt"

	"github.com/tablestore-go/tablestore/plainbuffer"
	"github.com/tablestore-go/tablestore/protocol/pb"
)

// encodeFilter walks a Filter tree into its marshalled pb.Filter form
// (spec.md §4.3's "nested message whose leaves hold the comparator enum
// and a PlainBuffer-encoded standalone value"; passIfMissing is
// inverted to filter_if_missing on the wire).
func encodeFilter(f Filter) []byte {
	if f == nil {
		return nil
	}
	switch v := f.(type) {
	case SingleColumnCondition:
		pf := &pb.Filter{
			FilterType:      1,
			ColumnName:      v.Column,
			Comparator:      int64(v.Comparator),
			ColumnValue:     plainbuffer.EncodeStandaloneAttr(v.Value),
			FilterIfMissing: !v.PassIfMissing,
			LatestVersion:   v.LatestVersionOnly,
		}
		return pf.Marshal()
	case CompositeColumnCondition:
		pf := &pb.Filter{FilterType: 2, LogicOp: int64(v.Op)}
		for _, c := range v.Children {
			pf.Children = append(pf.Children, encodeFilter(c))
		}
		return pf.Marshal()
	default:
		return nil
	}
}

func decodeFilter(b []byte) (Filter, error) {
	if len(b) == 0 {
		return nil, nil
	}
	pf := &pb.Filter{}
	if err := pf.Unmarshal(b); err != nil {
		return nil, err
	}
	switch pf.FilterType {
	case 1:
		val, err := plainbuffer.DecodeStandaloneAttr(pf.ColumnValue)
		if err != nil {
			return nil, fmt.Errorf("protocol: decoding filter column value: %w", err)
		}
		return SingleColumnCondition{
			Column:            pf.ColumnName,
			Comparator:        Comparator(pf.Comparator),
			Value:             val,
			PassIfMissing:     !pf.FilterIfMissing,
			LatestVersionOnly: pf.LatestVersion,
		}, nil
	case 2:
		c := CompositeColumnCondition{Op: LogicOp(pf.LogicOp)}
		for _, childBytes := range pf.Children {
			child, err := decodeFilter(childBytes)
			if err != nil {
				return nil, err
			}
			c.Children = append(c.Children, child)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("protocol: unknown filter type %d", pf.FilterType)
	}
}

func encodeCondition(c Condition) *pb.Condition {
	return &pb.Condition{
		RowExistence: int64(c.RowExistence),
		ColumnFilter: encodeFilter(c.Filter),
	}
}

func decodeCondition(pc *pb.Condition) (Condition, error) {
	if pc == nil {
		return Condition{}, nil
	}
	f, err := decodeFilter(pc.ColumnFilter)
	if err != nil {
		return Condition{}, err
	}
	return Condition{RowExistence: RowExistence(pc.RowExistence), Filter: f}, nil
}

// encodeTimeRange collapses Start+1==End into the specific_time wire
// form (SPEC_FULL.md §3b).
func encodeTimeRange(tr *TimeRange) *pb.TimeRange {
	if tr == nil {
		return nil
	}
	if tr.Start+1 == tr.End {
		return &pb.TimeRange{SpecificTime: tr.Start, HasSpecific: true}
	}
	return &pb.TimeRange{Start: tr.Start, End: tr.End}
}

func decodeTimeRange(pt *pb.TimeRange) *TimeRange {
	if pt == nil {
		return nil
	}
	if pt.HasSpecific {
		return &TimeRange{Start: pt.SpecificTime, End: pt.SpecificTime + 1}
	}
	return &TimeRange{Start: pt.Start, End: pt.End}
}

func decodeConsumedCapacity(pc *pb.ConsumedCapacity) ConsumedCapacity {
	if pc == nil {
		return ConsumedCapacity{}
	}
	// The wire message omits zero fields, so a zero side is an absent one.
	return ConsumedCapacity{HasRead: pc.Read != 0, Read: pc.Read, HasWrite: pc.Write != 0, Write: pc.Write}
}
