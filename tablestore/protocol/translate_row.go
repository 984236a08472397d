package protocol

import (
	"github.com/tablestore-go/tablestore/plainbuffer"
	"github.com/tablestore-go/tablestore/protocol/pb"
)

// RowQueryOptions bundles the shared read-side knobs (column projection,
// max-versions, time-range, filter) used by get-row, get-range and
// batch-get-row (SPEC_FULL.md §3b).
type RowQueryOptions struct {
	ColumnsToGet []string
	MaxVersions  int32
	HasMaxVersions bool
	TimeRange    *TimeRange
	Filter       Filter
}

// EncodePutRowRequest builds the wire bytes for put-row.
func EncodePutRowRequest(tableName string, row plainbuffer.Row, cond Condition) []byte {
	return (&pb.PutRowRequest{
		TableName: tableName,
		Row:       plainbuffer.EncodeRow(row),
		Condition: encodeCondition(cond),
	}).Marshal()
}

// DecodeRowResponse parses the common row-level response shape: an
// optional echoed row (e.g. a server-assigned auto-increment PK) plus
// consumed capacity. Used by put-row, update-row and delete-row.
func DecodeRowResponse(b []byte) (*plainbuffer.Row, ConsumedCapacity, error) {
	r := &pb.RowResponse{}
	if err := r.Unmarshal(b); err != nil {
		return nil, ConsumedCapacity{}, err
	}
	cc := decodeConsumedCapacity(r.Consumed)
	if len(r.Row) == 0 {
		return nil, cc, nil
	}
	row, err := plainbuffer.Decode(r.Row)
	if err != nil {
		return nil, cc, err
	}
	return &row, cc, nil
}

// EncodeGetRowRequest builds the wire bytes for get-row.
func EncodeGetRowRequest(tableName string, pk plainbuffer.PrimaryKey, opts RowQueryOptions) []byte {
	req := &pb.GetRowRequest{
		TableName:    tableName,
		PrimaryKey:   encodePrimaryKey(pk),
		ColumnsToGet: opts.ColumnsToGet,
		ColumnFilter: encodeFilter(opts.Filter),
	}
	if opts.HasMaxVersions {
		req.MaxVersions = int64(opts.MaxVersions)
		req.HasMaxVersions = true
	}
	req.TimeRange = encodeTimeRange(opts.TimeRange)
	return req.Marshal()
}

// DecodeGetRowResponse parses the get-row response: a nil row means "no
// such row" (not an error — spec.md's get-row returns an empty result
// for a missing row, it doesn't fail).
func DecodeGetRowResponse(b []byte) (*plainbuffer.Row, ConsumedCapacity, error) {
	return DecodeRowResponse(b)
}

// EncodeUpdateRowRequest builds the wire bytes for update-row. row's
// cells each carry their own CellOp (put/delete-one/delete-all).
func EncodeUpdateRowRequest(tableName string, row plainbuffer.Row, cond Condition) []byte {
	return (&pb.UpdateRowRequest{
		TableName: tableName,
		Row:       plainbuffer.EncodeRow(row),
		Condition: encodeCondition(cond),
	}).Marshal()
}

// EncodeDeleteRowRequest builds the wire bytes for delete-row.
func EncodeDeleteRowRequest(tableName string, pk plainbuffer.PrimaryKey, cond Condition) []byte {
	return (&pb.DeleteRowRequest{
		TableName:  tableName,
		PrimaryKey: encodePrimaryKey(pk),
		Condition:  encodeCondition(cond),
	}).Marshal()
}

// encodePrimaryKey encodes a whole PrimaryKey as a PlainBuffer row with
// no attribute cells — the wire form the server expects everywhere a
// bare primary key travels outside a full row body (get-row,
// get-range bounds, batch-get-row criteria, delete-row).
func encodePrimaryKey(pk plainbuffer.PrimaryKey) []byte {
	return plainbuffer.EncodeRow(plainbuffer.Row{PK: pk})
}

// decodePrimaryKey is the inverse of encodePrimaryKey, used to parse the
// next-start primary key returned by get-range.
func decodePrimaryKey(b []byte) (plainbuffer.PrimaryKey, error) {
	if len(b) == 0 {
		return plainbuffer.PrimaryKey{}, nil
	}
	row, err := plainbuffer.Decode(b)
	if err != nil {
		return plainbuffer.PrimaryKey{}, err
	}
	return row.PK, nil
}
