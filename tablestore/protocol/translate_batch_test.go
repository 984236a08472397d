package protocol

import (
	"testing"

	"github.com/tablestore-go/tablestore/plainbuffer"
	"github.com/tablestore-go/tablestore/protocol/pb"
)

func TestBuildIndex_GroupsByTableAndKindPreservingPositions(t *testing.T) {
	row := func(id int64) plainbuffer.Row {
		return plainbuffer.Row{PK: plainbuffer.PrimaryKey{Columns: []plainbuffer.PrimaryKeyColumn{{Name: "id", Value: plainbuffer.PKInt(id)}}}}
	}
	changes := []BatchWriteRowChange{
		{TableName: "a", Kind: ChangePut, Row: row(1)},
		{TableName: "b", Kind: ChangeDelete, Row: row(2)},
		{TableName: "a", Kind: ChangeUpdate, Row: row(3)},
		{TableName: "a", Kind: ChangePut, Row: row(4)},
	}
	ordered, idx := BuildIndex(changes)

	if len(ordered) != 4 {
		t.Fatalf("ordered length = %d, want 4", len(ordered))
	}
	a := idx["a"]
	if a == nil {
		t.Fatalf("missing index for table a")
	}
	if len(a.PutIdx) != 2 || a.PutIdx[0] != 0 || a.PutIdx[1] != 1 {
		t.Fatalf("table a PutIdx = %v, want [0 1]", a.PutIdx)
	}
	if len(a.UpdateIdx) != 1 || a.UpdateIdx[0] != 0 {
		t.Fatalf("table a UpdateIdx = %v, want [0]", a.UpdateIdx)
	}
	b := idx["b"]
	if b == nil || len(b.DeleteIdx) != 1 {
		t.Fatalf("table b DeleteIdx missing or wrong: %+v", b)
	}
}

func TestBatchWriteRow_EncodeDecodeRoundTrip(t *testing.T) {
	row1 := plainbuffer.Row{PK: plainbuffer.PrimaryKey{Columns: []plainbuffer.PrimaryKeyColumn{{Name: "id", Value: plainbuffer.PKInt(1)}}}}
	row2 := plainbuffer.Row{PK: plainbuffer.PrimaryKey{Columns: []plainbuffer.PrimaryKeyColumn{{Name: "id", Value: plainbuffer.PKInt(2)}}}}
	row3 := plainbuffer.Row{PK: plainbuffer.PrimaryKey{Columns: []plainbuffer.PrimaryKeyColumn{{Name: "id", Value: plainbuffer.PKInt(3)}}}}

	changes := []BatchWriteRowChange{
		{TableName: "t", Kind: ChangePut, Row: row1},
		{TableName: "t", Kind: ChangePut, Row: row2},
		{TableName: "t", Kind: ChangePut, Row: row3},
	}
	ordered, idx := BuildIndex(changes)
	reqBytes := EncodeBatchWriteRowRequest(ordered)

	req := &pb.BatchWriteRowRequest{}
	if err := req.Unmarshal(reqBytes); err != nil {
		t.Fatalf("Unmarshal request: %v", err)
	}
	if len(req.Tables) != 1 || len(req.Tables[0].Rows) != 3 {
		t.Fatalf("unexpected request shape: %+v", req)
	}

	// Concrete scenario 5 (spec.md §8): per-row results {ok, throttled, ok}.
	respBytes := (&pb.BatchWriteRowResponse{Tables: []*pb.TableInBatchWriteRowResponse{
		{TableName: "t", Rows: []*pb.RowInBatchWriteRowResponse{
			{IsOK: true},
			{IsOK: false, ErrorCode: "OTSServerBusy", ErrorMsg: "throttled"},
			{IsOK: true},
		}},
	}}).Marshal()

	results, err := DecodeBatchWriteRowResponse(respBytes, idx)
	if err != nil {
		t.Fatalf("DecodeBatchWriteRowResponse: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("results length = %d, want 3", len(results))
	}
	if results[0].OK != true || results[1].OK != false || results[2].OK != true {
		t.Fatalf("OK flags mismatch: %+v", results)
	}
	if results[1].ErrorCode != "OTSServerBusy" {
		t.Fatalf("ErrorCode = %q", results[1].ErrorCode)
	}
	if results[1].Position != 1 || results[1].Kind != ChangePut {
		t.Fatalf("failed row not attributable back to its original position: %+v", results[1])
	}
}

func TestBatchGetRow_DecodeAssignsPerTablePositions(t *testing.T) {
	resp := (&pb.BatchGetRowResponse{Rows: []*pb.RowInBatchGetRowResponse{
		{TableName: "t1", IsOK: true},
		{TableName: "t1", IsOK: true},
		{TableName: "t2", IsOK: false, ErrorCode: "OTSRowOperationConflict"},
	}}).Marshal()

	results, err := DecodeBatchGetRowResponse(resp)
	if err != nil {
		t.Fatalf("DecodeBatchGetRowResponse: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("results length = %d, want 3", len(results))
	}
	if results[0].Index != 0 || results[1].Index != 1 {
		t.Fatalf("t1 indices wrong: %d, %d", results[0].Index, results[1].Index)
	}
	if results[2].Index != 0 {
		t.Fatalf("t2 index should restart at 0, got %d", results[2].Index)
	}
}
