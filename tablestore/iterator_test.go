package tablestore

import (
	"context"
	"testing"

	"github.com/tablestore-go/tablestore/protocol"
)

// Concrete scenario 6 (spec.md §8): pages (rows=[r1,r2], next=C), then
// (rows=[], next=D), then (rows=[r3], next=absent) must yield r1, r2,
// r3 in order with the empty intermediate page transparently skipped,
// and Valid() false once the scan is exhausted.
func TestRangeIterator_SkipsEmptyIntermediatePage(t *testing.T) {
	r1 := Row{PK: pkOf("r1")}
	r2 := Row{PK: pkOf("r2")}
	r3 := Row{PK: pkOf("r3")}
	pkC := pkOf("c-marker")
	pkD := pkOf("d-marker")

	pages := []protocol.GetRangeResult{
		{Rows: []Row{r1, r2}, NextStartPK: pkC, HasNext: true},
		{Rows: nil, NextStartPK: pkD, HasNext: true},
		{Rows: []Row{r3}, HasNext: false},
	}
	call := 0
	fetch := func(_ context.Context, _ PrimaryKey) (protocol.GetRangeResult, error) {
		p := pages[call]
		call++
		return p, nil
	}

	it := newRangeIterator(context.Background(), fetch, pkOf("start"), 0)
	defer it.Close()

	ctx := context.Background()
	var got []string
	for {
		if err := it.MoveNext(ctx); err != nil {
			t.Fatalf("MoveNext: %v", err)
		}
		if !it.Valid() {
			break
		}
		got = append(got, it.Get().PK.Columns[0].Value.Str)
	}

	if len(got) != 3 || got[0] != "r1" || got[1] != "r2" || got[2] != "r3" {
		t.Fatalf("rows = %v, want [r1 r2 r3]", got)
	}
	if it.Valid() {
		t.Fatalf("expected Valid() == false once the scan is exhausted")
	}
	if call != 3 {
		t.Fatalf("expected 3 fetches, got %d", call)
	}
}

func TestRangeIterator_SurfacesFetchError(t *testing.T) {
	boom := &ClientError{Message: "boom"}
	fetch := func(_ context.Context, _ PrimaryKey) (protocol.GetRangeResult, error) {
		return protocol.GetRangeResult{}, boom
	}
	it := newRangeIterator(context.Background(), fetch, pkOf("start"), 0)
	defer it.Close()

	err := it.MoveNext(context.Background())
	if err == nil {
		t.Fatalf("expected the fetch error to surface once the buffer is empty")
	}
}
