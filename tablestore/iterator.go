package tablestore

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/tablestore-go/tablestore/protocol"
)

// pageFetcher issues one get-range request starting at startPK and
// returns the decoded page. Supplied by Client.GetRange so the iterator
// itself never touches the pipeline directly.
type pageFetcher func(ctx context.Context, startPK PrimaryKey) (protocol.GetRangeResult, error)

// RangeIterator streams a range scan as a lazy sequence with read-ahead
// (spec.md §4.6, C6). Construct with Client.GetRange; it starts "before
// the first element" — the first MoveNext merely makes the first
// buffered row current.
//
// The reader side (MoveNext/Valid/Get) is single-threaded by contract;
// the read-ahead goroutine runs independently and only ever touches mu-
// guarded state.
type RangeIterator struct {
	fetch     pageFetcher
	watermark int

	mu          sync.Mutex
	buf         []Row
	started     bool
	nextStartPK PrimaryKey
	hasMore     bool
	err         error
	closed      bool

	outstanding int32 // atomic: 0 or 1, at most one in-flight fetch
	arrived     chan struct{}

	g        *errgroup.Group
	fetchCtx context.Context
}

func newRangeIterator(ctx context.Context, fetch pageFetcher, startPK PrimaryKey, watermark int) *RangeIterator {
	if watermark < 0 {
		watermark = 0
	}
	it := &RangeIterator{
		fetch:       fetch,
		watermark:   watermark,
		nextStartPK: startPK,
		hasMore:     true,
		arrived:     make(chan struct{}, 1),
		g:           &errgroup.Group{},
		fetchCtx:    ctx,
	}
	it.mu.Lock()
	it.maybeFetchLocked()
	it.mu.Unlock()
	return it
}

// maybeFetchLocked starts a read-ahead fetch if the buffer is at or
// below the watermark, the scan isn't exhausted, and no fetch is
// already outstanding (additional triggers while one is in flight are
// coalesced into a no-op, per spec.md §4.6). Must be called with mu
// held; the spawned goroutine re-acquires mu itself once its fetch
// returns.
func (it *RangeIterator) maybeFetchLocked() {
	if it.closed || !it.hasMore || len(it.buf) > it.watermark {
		return
	}
	if !atomic.CompareAndSwapInt32(&it.outstanding, 0, 1) {
		return
	}
	startPK := it.nextStartPK
	it.g.Go(func() error {
		result, err := it.fetch(it.fetchCtx, startPK)

		it.mu.Lock()
		if err != nil {
			it.err = err
			it.hasMore = false
		} else {
			it.buf = append(it.buf, result.Rows...)
			it.nextStartPK = result.NextStartPK
			it.hasMore = result.HasNext
		}
		it.mu.Unlock()

		atomic.StoreInt32(&it.outstanding, 0)
		select {
		case it.arrived <- struct{}{}:
		default:
		}
		return nil
	})
}

// MoveNext advances past the current row, blocking until a row is
// buffered, the scan is exhausted, or ctx is done. On the very first
// call it merely makes the first buffered row current rather than
// discarding one (the iterator starts before the first element). Any
// error a read-ahead fetch encountered is surfaced here, once the
// already-buffered rows have been drained.
func (it *RangeIterator) MoveNext(ctx context.Context) error {
	it.mu.Lock()
	if it.started {
		if len(it.buf) > 0 {
			it.buf = it.buf[1:]
		}
	} else {
		it.started = true
	}
	it.maybeFetchLocked()

	for len(it.buf) == 0 && it.hasMore && it.err == nil {
		it.mu.Unlock()
		select {
		case <-it.arrived:
		case <-ctx.Done():
			return ctx.Err()
		}
		it.mu.Lock()
		it.maybeFetchLocked()
	}

	err := it.err
	empty := len(it.buf) == 0
	it.mu.Unlock()

	if empty && err != nil {
		return err
	}
	return nil
}

// Valid reports whether Get currently returns a real row. It is false
// only once the scan is exhausted and the buffer has been fully
// drained (spec.md §4.6).
func (it *RangeIterator) Valid() bool {
	it.mu.Lock()
	defer it.mu.Unlock()
	return len(it.buf) > 0
}

// Get returns the current row. Call only when Valid reports true.
func (it *RangeIterator) Get() Row {
	it.mu.Lock()
	defer it.mu.Unlock()
	if len(it.buf) == 0 {
		return Row{}
	}
	return it.buf[0]
}

// Close disposes the iterator. It waits for any outstanding read-ahead
// request to finish before returning, so a late response never fires
// into a disposed iterator (spec.md §4.6 "Cancellation"); the request
// itself is not cancelled at the transport — it is left to complete
// and its result is simply discarded.
func (it *RangeIterator) Close() error {
	it.mu.Lock()
	it.closed = true
	it.mu.Unlock()
	return it.g.Wait()
}
