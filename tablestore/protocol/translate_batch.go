package protocol

import (
	"github.com/tablestore-go/tablestore/plainbuffer"
	"github.com/tablestore-go/tablestore/protocol/pb"
)

// BatchGetRowQuery is one table's worth of a batch-get-row request:
// many primary keys sharing one projection/version/time-range/filter
// setting (spec.md §4.3 "batch-get-row indexing").
type BatchGetRowQuery struct {
	TableName   string
	PrimaryKeys []plainbuffer.PrimaryKey
	Options     RowQueryOptions
}

// BatchGetRowResultRow is one row of a batch-get-row response, still
// carrying its originating index so callers can reattach user data in
// original order.
type BatchGetRowResultRow struct {
	TableName string
	Index     int // position within that table's PrimaryKeys list
	OK        bool
	ErrorCode string
	ErrorMsg  string
	Row       *plainbuffer.Row
	Consumed  ConsumedCapacity
}

// EncodeBatchGetRowRequest builds the wire bytes for batch-get-row, one
// criterion per query in the given order. Only the bytes are returned;
// DecodeBatchGetRowResponse recovers each response row's (table,
// position) by counting rows per table in wire order (spec.md §4.3).
func EncodeBatchGetRowRequest(queries []BatchGetRowQuery) []byte {
	req := &pb.BatchGetRowRequest{}
	for _, q := range queries {
		c := &pb.MultiPointQueryCriterion{
			TableName:    q.TableName,
			ColumnsToGet: q.Options.ColumnsToGet,
			ColumnFilter: encodeFilter(q.Options.Filter),
		}
		for _, pk := range q.PrimaryKeys {
			c.PrimaryKeys = append(c.PrimaryKeys, encodePrimaryKey(pk))
		}
		if q.Options.HasMaxVersions {
			c.MaxVersions = int64(q.Options.MaxVersions)
			c.HasMaxVersions = true
		}
		c.TimeRange = encodeTimeRange(q.Options.TimeRange)
		req.Criteria = append(req.Criteria, c)
	}
	return req.Marshal()
}

// DecodeBatchGetRowResponse parses a batch-get-row response. Rows are
// returned in wire order (grouped by table); Index numbers each row
// within its table group in response order (the server echoes rows in
// the same order the request listed their primary keys).
func DecodeBatchGetRowResponse(b []byte) ([]BatchGetRowResultRow, error) {
	r := &pb.BatchGetRowResponse{}
	if err := r.Unmarshal(b); err != nil {
		return nil, err
	}
	tableCounters := map[string]int{}
	out := make([]BatchGetRowResultRow, 0, len(r.Rows))
	for _, row := range r.Rows {
		idx := tableCounters[row.TableName]
		tableCounters[row.TableName] = idx + 1

		result := BatchGetRowResultRow{
			TableName: row.TableName,
			Index:     idx,
			OK:        row.IsOK,
			ErrorCode: row.ErrorCode,
			ErrorMsg:  row.ErrorMsg,
			Consumed:  decodeConsumedCapacity(row.Consumed),
		}
		if row.IsOK && len(row.Row) > 0 {
			decoded, err := plainbuffer.Decode(row.Row)
			if err != nil {
				return nil, err
			}
			result.Row = &decoded
		}
		out = append(out, result)
	}
	return out, nil
}

// Change kinds for a batch-write-row sub-request.
type ChangeKind int

const (
	ChangePut ChangeKind = iota + 1
	ChangeUpdate
	ChangeDelete
)

// BatchWriteRowChange is one row-level change within a batch-write-row
// request.
type BatchWriteRowChange struct {
	TableName string
	Kind      ChangeKind
	Row       plainbuffer.Row // full row for Put/Update, PK-only for Delete
	Condition Condition
}

// Index records, per table, which positions in the original
// put/update/delete lists landed at which position in the wire request
// (spec.md §4.3 "batch-write-row indexing": `map<tableName →
// {putIdx[], updateIdx[], deleteIdx[]}>`).
type Index struct {
	PutIdx    []int
	UpdateIdx []int
	DeleteIdx []int
}

// BuildIndex groups a flat list of changes (as supplied by the caller,
// in put/update/delete list order per table) into the per-table Index
// structure, and returns the wire-ordered change list alongside it:
// the wire groups by table, then lists puts, then updates, then
// deletes, in original within-list order.
func BuildIndex(changes []BatchWriteRowChange) (ordered []BatchWriteRowChange, indexByTable map[string]*Index) {
	byTable := map[string][]BatchWriteRowChange{}
	var tableOrder []string
	for _, c := range changes {
		if _, seen := byTable[c.TableName]; !seen {
			tableOrder = append(tableOrder, c.TableName)
		}
		byTable[c.TableName] = append(byTable[c.TableName], c)
	}

	indexByTable = map[string]*Index{}
	for _, tableName := range tableOrder {
		table := byTable[tableName]
		idx := &Index{}
		var puts, updates, deletes []BatchWriteRowChange
		for _, c := range table {
			switch c.Kind {
			case ChangePut:
				idx.PutIdx = append(idx.PutIdx, len(puts))
				puts = append(puts, c)
			case ChangeUpdate:
				idx.UpdateIdx = append(idx.UpdateIdx, len(updates))
				updates = append(updates, c)
			case ChangeDelete:
				idx.DeleteIdx = append(idx.DeleteIdx, len(deletes))
				deletes = append(deletes, c)
			}
		}
		indexByTable[tableName] = idx
		ordered = append(ordered, puts...)
		ordered = append(ordered, updates...)
		ordered = append(ordered, deletes...)
	}
	return ordered, indexByTable
}

// EncodeBatchWriteRowRequest builds the wire bytes for batch-write-row
// from changes already grouped by table (see BuildIndex).
func EncodeBatchWriteRowRequest(changes []BatchWriteRowChange) []byte {
	tables := map[string]*pb.TableInBatchWriteRowRequest{}
	var tableOrder []string
	for _, c := range changes {
		t, ok := tables[c.TableName]
		if !ok {
			t = &pb.TableInBatchWriteRowRequest{TableName: c.TableName}
			tables[c.TableName] = t
			tableOrder = append(tableOrder, c.TableName)
		}
		var rowBytes []byte
		if c.Kind == ChangeDelete {
			rowBytes = encodePrimaryKey(c.Row.PK)
		} else {
			rowBytes = plainbuffer.EncodeRow(c.Row)
		}
		t.Rows = append(t.Rows, &pb.RowInBatchWriteRowRequest{
			Type:      int64(c.Kind),
			Row:       rowBytes,
			Condition: encodeCondition(c.Condition),
		})
	}
	req := &pb.BatchWriteRowRequest{}
	for _, name := range tableOrder {
		req.Tables = append(req.Tables, tables[name])
	}
	return req.Marshal()
}

// BatchWriteRowResultRow is one row-level result of a batch-write-row
// response, annotated with its originating table/kind/position so a
// retry can find exactly the failed sub-operations.
type BatchWriteRowResultRow struct {
	TableName string
	Kind      ChangeKind
	Position  int // index within the original per-kind list for this table
	OK        bool
	ErrorCode string
	ErrorMsg  string
	Consumed  ConsumedCapacity
	EchoedRow []byte // raw PlainBuffer bytes the server echoed back, if any
}

// DecodeBatchWriteRowResponse parses a batch-write-row response,
// reattaching each wire-order row back to its (table, kind, position)
// using the Index built when the request was encoded.
func DecodeBatchWriteRowResponse(b []byte, indexByTable map[string]*Index) ([]BatchWriteRowResultRow, error) {
	r := &pb.BatchWriteRowResponse{}
	if err := r.Unmarshal(b); err != nil {
		return nil, err
	}
	var out []BatchWriteRowResultRow
	for _, table := range r.Tables {
		idx := indexByTable[table.TableName]
		putN, updateN, deleteN := 0, 0, 0
		if idx != nil {
			putN, updateN, deleteN = len(idx.PutIdx), len(idx.UpdateIdx), len(idx.DeleteIdx)
		}
		for i, row := range table.Rows {
			kind, pos := classifyBatchWritePosition(i, putN, updateN, deleteN)
			out = append(out, BatchWriteRowResultRow{
				TableName: table.TableName,
				Kind:      kind,
				Position:  pos,
				OK:        row.IsOK,
				ErrorCode: row.ErrorCode,
				ErrorMsg:  row.ErrorMsg,
				Consumed:  decodeConsumedCapacity(row.Consumed),
				EchoedRow: row.Row,
			})
		}
	}
	return out, nil
}

// classifyBatchWritePosition maps a flattened wire-order position back
// to (kind, position-within-kind), mirroring the put-then-update-then-
// delete ordering EncodeBatchWriteRowRequest/BuildIndex produce.
func classifyBatchWritePosition(wireIdx, putN, updateN, _ int) (ChangeKind, int) {
	switch {
	case wireIdx < putN:
		return ChangePut, wireIdx
	case wireIdx < putN+updateN:
		return ChangeUpdate, wireIdx - putN
	default:
		return ChangeDelete, wireIdx - putN - updateN
	}
}
