package tablestore

import (
	"context"
	"testing"

	"github.com/tablestore-go/tablestore/plainbuffer"
	"github.com/tablestore-go/tablestore/protocol/pb"
)

func pkOf(v string) PrimaryKey {
	return PrimaryKey{Columns: []PrimaryKeyColumn{{Name: "pk", Value: PKStr(v)}}}
}

// Concrete scenario 5 (spec.md §8): a 3-row batch-write-row {ok,
// throttled, ok} retries carrying exactly the throttled row, and the
// final result set reassembles all three in original order.
func TestClient_BatchWriteRow_RetryResubmitsOnlyFailedRow(t *testing.T) {
	changes := []BatchWriteRowChange{
		{TableName: "t1", Kind: ChangePut, Row: Row{PK: pkOf("r1")}, Condition: Condition{RowExistence: IgnoreExistence}},
		{TableName: "t1", Kind: ChangePut, Row: Row{PK: pkOf("r2")}, Condition: Condition{RowExistence: IgnoreExistence}},
		{TableName: "t1", Kind: ChangePut, Row: Row{PK: pkOf("r3")}, Condition: Condition{RowExistence: IgnoreExistence}},
	}

	firstResp := (&pb.BatchWriteRowResponse{Tables: []*pb.TableInBatchWriteRowResponse{{
		TableName: "t1",
		Rows: []*pb.RowInBatchWriteRowResponse{
			{IsOK: true},
			{IsOK: false, ErrorCode: "OTSRowOperationConflict"},
			{IsOK: true},
		},
	}}}).Marshal()
	secondResp := (&pb.BatchWriteRowResponse{Tables: []*pb.TableInBatchWriteRowResponse{{
		TableName: "t1",
		Rows:      []*pb.RowInBatchWriteRowResponse{{IsOK: true}},
	}}}).Marshal()

	ft := &fakeTransport{responses: []*httpResponse{
		okResponse(firstResp),
		okResponse(secondResp),
	}}
	c := testClient(t, ft)

	results, err := c.BatchWriteRow(context.Background(), changes)
	if err != nil {
		t.Fatalf("BatchWriteRow: %v", err)
	}
	if len(ft.calls) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(ft.calls))
	}

	retryReq := &pb.BatchWriteRowRequest{}
	if err := retryReq.Unmarshal(ft.calls[1].Body); err != nil {
		t.Fatalf("unmarshal retry body: %v", err)
	}
	if len(retryReq.Tables) != 1 || len(retryReq.Tables[0].Rows) != 1 {
		t.Fatalf("retry should carry exactly one row, got %+v", retryReq.Tables)
	}
	retriedPK, err := plainbuffer.Decode(append([]byte(nil), retryReq.Tables[0].Rows[0].Row...))
	if err != nil {
		t.Fatalf("decode retried row: %v", err)
	}
	if retriedPK.PK.Columns[0].Value.Str != "r2" {
		t.Fatalf("retry resubmitted the wrong row: %+v", retriedPK.PK)
	}

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, want := range []bool{true, true, true} {
		if results[i].OK != want {
			t.Fatalf("result[%d].OK = %v, want %v", i, results[i].OK, want)
		}
	}
}

func TestClient_BatchGetRow_RetryMergesPartialFailure(t *testing.T) {
	queries := []BatchGetRowQuery{{
		TableName:   "t1",
		PrimaryKeys: []PrimaryKey{pkOf("r1"), pkOf("r2")},
	}}

	row1 := Row{PK: pkOf("r1"), Attributes: []Cell{{Name: "v", Value: AttrInt(1)}}}
	row2 := Row{PK: pkOf("r2"), Attributes: []Cell{{Name: "v", Value: AttrInt(2)}}}

	firstResp := (&pb.BatchGetRowResponse{Rows: []*pb.RowInBatchGetRowResponse{
		{TableName: "t1", IsOK: true, Row: plainbuffer.EncodeRow(row1)},
		{TableName: "t1", IsOK: false, ErrorCode: "OTSServerBusy"},
	}}).Marshal()
	secondResp := (&pb.BatchGetRowResponse{Rows: []*pb.RowInBatchGetRowResponse{
		{TableName: "t1", IsOK: true, Row: plainbuffer.EncodeRow(row2)},
	}}).Marshal()

	ft := &fakeTransport{responses: []*httpResponse{
		okResponse(firstResp),
		okResponse(secondResp),
	}}
	c := testClient(t, ft)

	results, err := c.BatchGetRow(context.Background(), queries)
	if err != nil {
		t.Fatalf("BatchGetRow: %v", err)
	}
	if len(ft.calls) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(ft.calls))
	}

	retryReq := &pb.BatchGetRowRequest{}
	if err := retryReq.Unmarshal(ft.calls[1].Body); err != nil {
		t.Fatalf("unmarshal retry body: %v", err)
	}
	if len(retryReq.Criteria) != 1 || len(retryReq.Criteria[0].PrimaryKeys) != 1 {
		t.Fatalf("retry should carry exactly one primary key, got %+v", retryReq.Criteria)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Row == nil || results[0].Row.Attributes[0].Value.Int != 1 {
		t.Fatalf("result[0] = %+v", results[0])
	}
	if results[1].Row == nil || results[1].Row.Attributes[0].Value.Int != 2 {
		t.Fatalf("result[1] = %+v", results[1])
	}
}
