package protocol

import (
	"testing"
	"time"

	"github.com/tablestore-go/tablestore/protocol/pb"
)

func TestTableMeta_RoundTrip(t *testing.T) {
	meta := TableMeta{
		TableName: "orders",
		Schema: []PKSchemaColumn{
			{Name: "shard", Type: PKColumnInteger},
			{Name: "id", Type: PKColumnString, AutoIncrement: false},
		},
		Options: TableOptions{
			TimeToLive:  24 * time.Hour,
			MaxVersions: 3,
		},
	}

	reqBytes := EncodeCreateTableRequest(meta)
	if len(reqBytes) == 0 {
		t.Fatalf("expected non-empty encoded request")
	}

	// DescribeTableResponse carries the same TableMeta shape; exercise
	// the decode path directly against a hand-assembled response.
	resp := (&pb.DescribeTableResponse{TableMeta: toPBTableMeta(meta)}).Marshal()
	got, err := DecodeDescribeTableResponse(resp)
	if err != nil {
		t.Fatalf("DecodeDescribeTableResponse: %v", err)
	}
	if got.TableName != meta.TableName {
		t.Fatalf("TableName = %q, want %q", got.TableName, meta.TableName)
	}
	if len(got.Schema) != len(meta.Schema) {
		t.Fatalf("Schema length = %d, want %d", len(got.Schema), len(meta.Schema))
	}
	for i := range meta.Schema {
		if got.Schema[i] != meta.Schema[i] {
			t.Fatalf("Schema[%d] = %+v, want %+v", i, got.Schema[i], meta.Schema[i])
		}
	}
	if got.Options.MaxVersions != meta.Options.MaxVersions {
		t.Fatalf("MaxVersions = %d, want %d", got.Options.MaxVersions, meta.Options.MaxVersions)
	}
	if got.Options.TimeToLive != meta.Options.TimeToLive {
		t.Fatalf("TimeToLive = %v, want %v", got.Options.TimeToLive, meta.Options.TimeToLive)
	}
}
