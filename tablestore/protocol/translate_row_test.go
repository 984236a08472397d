package protocol

import (
	"testing"

	"github.com/tablestore-go/tablestore/plainbuffer"
	"github.com/tablestore-go/tablestore/protocol/pb"
)

func samplePK() plainbuffer.PrimaryKey {
	return plainbuffer.PrimaryKey{Columns: []plainbuffer.PrimaryKeyColumn{
		{Name: "id", Value: plainbuffer.PKInt(42)},
	}}
}

func TestEncodePutRowRequest_EmbedsPlainBufferRow(t *testing.T) {
	row := plainbuffer.Row{
		PK: samplePK(),
		Attributes: []plainbuffer.Cell{
			{Name: "name", Value: plainbuffer.AttrStr("alice")},
		},
	}
	b := EncodePutRowRequest("users", row, Condition{RowExistence: ExpectNotExist})

	req := &pb.PutRowRequest{}
	if err := req.Unmarshal(b); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if req.TableName != "users" {
		t.Fatalf("TableName = %q", req.TableName)
	}
	decoded, err := plainbuffer.Decode(req.Row)
	if err != nil {
		t.Fatalf("decoding embedded row: %v", err)
	}
	if !decoded.PK.Columns[0].Value.Equal(plainbuffer.PKInt(42)) {
		t.Fatalf("embedded row PK mismatch: %+v", decoded.PK)
	}
	if req.Condition == nil || req.Condition.RowExistence != int64(ExpectNotExist) {
		t.Fatalf("condition not translated: %+v", req.Condition)
	}
}

func TestDecodeRowResponse_MissingRowIsNilNotError(t *testing.T) {
	b := (&pb.RowResponse{Consumed: &pb.ConsumedCapacity{Read: 1}}).Marshal()
	row, cc, err := DecodeRowResponse(b)
	if err != nil {
		t.Fatalf("DecodeRowResponse: %v", err)
	}
	if row != nil {
		t.Fatalf("expected nil row for a missing-row response, got %+v", row)
	}
	if !cc.HasRead || cc.Read != 1 {
		t.Fatalf("consumed capacity not decoded: %+v", cc)
	}
}

func TestEncodeGetRowRequest_ProjectionAndFilter(t *testing.T) {
	opts := RowQueryOptions{
		ColumnsToGet: []string{"name", "age"},
		Filter: SingleColumnCondition{
			Column:     "age",
			Comparator: CmpGreaterEqual,
			Value:      plainbuffer.AttrInt(18),
		},
	}
	b := EncodeGetRowRequest("users", samplePK(), opts)

	req := &pb.GetRowRequest{}
	if err := req.Unmarshal(b); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(req.ColumnsToGet) != 2 {
		t.Fatalf("ColumnsToGet = %v", req.ColumnsToGet)
	}
	f, err := decodeFilter(req.ColumnFilter)
	if err != nil {
		t.Fatalf("decodeFilter: %v", err)
	}
	leaf, ok := f.(SingleColumnCondition)
	if !ok {
		t.Fatalf("expected SingleColumnCondition, got %T", f)
	}
	if leaf.Column != "age" || leaf.Comparator != CmpGreaterEqual {
		t.Fatalf("filter round-trip mismatch: %+v", leaf)
	}
}

func TestTimeRange_CollapsesToSpecificTime(t *testing.T) {
	tr := &TimeRange{Start: 1000, End: 1001}
	pt := encodeTimeRange(tr)
	if !pt.HasSpecific || pt.SpecificTime != 1000 {
		t.Fatalf("expected collapse to specific_time=1000, got %+v", pt)
	}
	back := decodeTimeRange(pt)
	if back.Start != 1000 || back.End != 1001 {
		t.Fatalf("round trip mismatch: %+v", back)
	}
}

func TestTimeRange_OrdinaryWindowNotCollapsed(t *testing.T) {
	tr := &TimeRange{Start: 1000, End: 2000}
	pt := encodeTimeRange(tr)
	if pt.HasSpecific {
		t.Fatalf("a genuine window should not collapse to specific_time")
	}
	if pt.Start != 1000 || pt.End != 2000 {
		t.Fatalf("window fields mismatch: %+v", pt)
	}
}
