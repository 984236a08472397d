package protocol

import (
	"github.com/tablestore-go/tablestore/plainbuffer"
	"github.com/tablestore-go/tablestore/protocol/pb"
)

// EncodeGetRangeRequest builds the wire bytes for one get-range call
// (one page; the iterator in package tablestore drives repeated calls
// using the returned next-start primary key).
func EncodeGetRangeRequest(tableName string, dir Direction, startPK, endPK plainbuffer.PrimaryKey, limit int32, opts RowQueryOptions) []byte {
	req := &pb.GetRangeRequest{
		TableName:        tableName,
		Direction:        int64(dir),
		InclusiveStartPK: encodePrimaryKey(startPK),
		ExclusiveEndPK:   encodePrimaryKey(endPK),
		Limit:            int64(limit),
		ColumnsToGet:     opts.ColumnsToGet,
		ColumnFilter:     encodeFilter(opts.Filter),
	}
	if opts.HasMaxVersions {
		req.MaxVersions = int64(opts.MaxVersions)
		req.HasMaxVersions = true
	}
	req.TimeRange = encodeTimeRange(opts.TimeRange)
	return req.Marshal()
}

// GetRangeResult is one page of a range scan: the rows returned plus
// the primary key to resume from (empty PK.Columns means the scan is
// exhausted).
type GetRangeResult struct {
	Rows        []plainbuffer.Row
	NextStartPK plainbuffer.PrimaryKey
	HasNext     bool
	Consumed    ConsumedCapacity
}

// DecodeGetRangeResponse parses one get-range response page.
func DecodeGetRangeResponse(b []byte) (GetRangeResult, error) {
	r := &pb.GetRangeResponse{}
	if err := r.Unmarshal(b); err != nil {
		return GetRangeResult{}, err
	}
	var rows []plainbuffer.Row
	if len(r.Rows) > 0 {
		decoded, err := plainbuffer.DecodeStream(r.Rows)
		if err != nil {
			return GetRangeResult{}, err
		}
		rows = decoded
	}
	result := GetRangeResult{Rows: rows, Consumed: decodeConsumedCapacity(r.Consumed)}
	if len(r.NextStartPK) > 0 {
		pk, err := decodePrimaryKey(r.NextStartPK)
		if err != nil {
			return GetRangeResult{}, err
		}
		result.NextStartPK = pk
		result.HasNext = true
	}
	return result, nil
}
