package tablestore

import (
	"context"

	"github.com/tablestore-go/tablestore/plainbuffer"
	"github.com/tablestore-go/tablestore/protocol"
)

// Batch types are re-exported from protocol so callers never need to
// import it directly (mirrors the types.go/filter.go aliasing pattern).
type (
	BatchGetRowQuery    = protocol.BatchGetRowQuery
	BatchGetRowResult   = protocol.BatchGetRowResultRow
	BatchWriteRowChange = protocol.BatchWriteRowChange
	BatchWriteRowResult = protocol.BatchWriteRowResultRow
	ChangeKind          = protocol.ChangeKind
	RowQueryOptions     = protocol.RowQueryOptions
)

const (
	ChangePut    = protocol.ChangePut
	ChangeUpdate = protocol.ChangeUpdate
	ChangeDelete = protocol.ChangeDelete
)

// batchGetState tracks, across retry attempts, which (table, original
// index) pairs still need an answer. One query per table is assumed
// (spec.md §4.3's "criterion covers one table" — DecodeBatchGetRowResponse
// counts response rows per table name, which only disambiguates
// correctly when a table appears in at most one criterion).
type batchGetState struct {
	original []protocol.BatchGetRowQuery
	final    map[string]map[int]protocol.BatchGetRowResultRow // table -> original index -> result

	pending []protocol.BatchGetRowQuery
	origIdx map[string][]int // table -> original index, parallel to pending's PrimaryKeys order
}

func newBatchGetState(queries []protocol.BatchGetRowQuery) *batchGetState {
	s := &batchGetState{
		original: queries,
		final:    map[string]map[int]protocol.BatchGetRowResultRow{},
		pending:  queries,
		origIdx:  map[string][]int{},
	}
	for _, q := range queries {
		idxs := make([]int, len(q.PrimaryKeys))
		for i := range idxs {
			idxs[i] = i
		}
		s.origIdx[q.TableName] = idxs
		s.final[q.TableName] = map[int]protocol.BatchGetRowResultRow{}
	}
	return s
}

// absorb folds a decoded response into the final map, keeping only the
// rows that still failed as the next attempt's pending queries.
func (s *batchGetState) absorb(respBody []byte) error {
	if len(respBody) == 0 {
		return nil
	}
	rows, err := protocol.DecodeBatchGetRowResponse(respBody)
	if err != nil {
		return err
	}

	byTable := make(map[string]protocol.BatchGetRowQuery, len(s.pending))
	for _, q := range s.pending {
		byTable[q.TableName] = q
	}

	failedPKs := map[string][]plainbuffer.PrimaryKey{}
	nextOrigIdx := map[string][]int{}
	var tableOrder []string
	for _, r := range rows {
		origIdx := s.origIdx[r.TableName][r.Index]
		if s.final[r.TableName] == nil {
			s.final[r.TableName] = map[int]protocol.BatchGetRowResultRow{}
		}
		s.final[r.TableName][origIdx] = r
		if !r.OK {
			if _, seen := failedPKs[r.TableName]; !seen {
				tableOrder = append(tableOrder, r.TableName)
			}
			q := byTable[r.TableName]
			failedPKs[r.TableName] = append(failedPKs[r.TableName], q.PrimaryKeys[r.Index])
			nextOrigIdx[r.TableName] = append(nextOrigIdx[r.TableName], origIdx)
		}
	}

	var nextPending []protocol.BatchGetRowQuery
	for _, table := range tableOrder {
		nextPending = append(nextPending, protocol.BatchGetRowQuery{
			TableName:   table,
			PrimaryKeys: failedPKs[table],
			Options:     byTable[table].Options,
		})
	}
	s.pending = nextPending
	s.origIdx = nextOrigIdx
	return nil
}

func (s *batchGetState) results() []protocol.BatchGetRowResultRow {
	var out []protocol.BatchGetRowResultRow
	for _, q := range s.original {
		m := s.final[q.TableName]
		for i := range q.PrimaryKeys {
			if r, ok := m[i]; ok {
				out = append(out, r)
			}
		}
	}
	return out
}

// BatchGetRow reads many rows across one or more tables in a single
// round trip, merging on retry so that only the sub-rows a prior
// attempt failed to read are resubmitted (spec.md §4.4 "Batch
// handling" / §8 concrete scenario 5).
func (c *Client) BatchGetRow(ctx context.Context, queries []protocol.BatchGetRowQuery) ([]protocol.BatchGetRowResultRow, error) {
	state := newBatchGetState(queries)

	rebuild := func(_ int, prevRespBody []byte) ([]byte, error) {
		if err := state.absorb(prevRespBody); err != nil {
			return nil, err
		}
		return protocol.EncodeBatchGetRowRequest(state.pending), nil
	}
	synthesize := func(respBody []byte) error {
		rows, err := protocol.DecodeBatchGetRowResponse(respBody)
		if err != nil {
			return err
		}
		for _, r := range rows {
			if !r.OK {
				return &ServerError{Code: r.ErrorCode, Message: r.ErrorMsg}
			}
		}
		return nil
	}

	respBody, invokeErr := c.pipeline.invoke(ctx, ActionBatchGetRow, rebuild, synthesize)
	if absorbErr := state.absorb(respBody); absorbErr != nil && invokeErr == nil {
		invokeErr = absorbErr
	}
	return state.results(), invokeErr
}

// batchWriteState tracks, across retry attempts, which original
// changes still need (re)submission. Position bookkeeping rides on
// protocol.Index/BuildIndex exactly as spec.md §4.3 describes.
type batchWriteState struct {
	original []protocol.BatchWriteRowChange
	final    map[int]protocol.BatchWriteRowResultRow // original index -> result

	pending        []protocol.BatchWriteRowChange
	pendingOrigIdx []int // parallel to pending: original index of each entry

	bucket       map[string]map[protocol.ChangeKind][]int // table -> kind -> original indices, in per-kind order
	indexByTable map[string]*protocol.Index
}

func newBatchWriteState(changes []protocol.BatchWriteRowChange) *batchWriteState {
	origIdx := make([]int, len(changes))
	for i := range origIdx {
		origIdx[i] = i
	}
	return &batchWriteState{
		original:       changes,
		final:          map[int]protocol.BatchWriteRowResultRow{},
		pending:        changes,
		pendingOrigIdx: origIdx,
	}
}

// bucketOrigIndices groups pending's original indices by (table, kind),
// in per-kind order — the same grouping BuildIndex performs internally,
// so DecodeBatchWriteRowResponse's (TableName, Kind, Position) result
// can be mapped straight back to an original index.
func bucketOrigIndices(pending []protocol.BatchWriteRowChange, pendingOrigIdx []int) map[string]map[protocol.ChangeKind][]int {
	out := map[string]map[protocol.ChangeKind][]int{}
	for i, c := range pending {
		t, ok := out[c.TableName]
		if !ok {
			t = map[protocol.ChangeKind][]int{}
			out[c.TableName] = t
		}
		t[c.Kind] = append(t[c.Kind], pendingOrigIdx[i])
	}
	return out
}

func (s *batchWriteState) absorb(respBody []byte) error {
	if len(respBody) == 0 || s.indexByTable == nil {
		return nil
	}
	rows, err := protocol.DecodeBatchWriteRowResponse(respBody, s.indexByTable)
	if err != nil {
		return err
	}

	var nextPending []protocol.BatchWriteRowChange
	var nextOrigIdx []int
	for _, r := range rows {
		table := s.bucket[r.TableName]
		if table == nil {
			continue
		}
		positions := table[r.Kind]
		if r.Position < 0 || r.Position >= len(positions) {
			continue
		}
		origIdx := positions[r.Position]
		s.final[origIdx] = r
		if !r.OK {
			nextPending = append(nextPending, s.original[origIdx])
			nextOrigIdx = append(nextOrigIdx, origIdx)
		}
	}
	s.pending = nextPending
	s.pendingOrigIdx = nextOrigIdx
	return nil
}

func (s *batchWriteState) results() []protocol.BatchWriteRowResultRow {
	out := make([]protocol.BatchWriteRowResultRow, 0, len(s.original))
	for i := range s.original {
		if r, ok := s.final[i]; ok {
			out = append(out, r)
		}
	}
	return out
}

// BatchWriteRow writes (puts/updates/deletes) many rows across one or
// more tables in a single round trip, merging on retry so that only the
// rows a prior attempt failed are resubmitted (spec.md §4.3
// "batch-write-row indexing", §8 concrete scenario 5: a 3-row batch
// `{ok, throttled, ok}` retries with exactly row 2 resubmitted).
func (c *Client) BatchWriteRow(ctx context.Context, changes []protocol.BatchWriteRowChange) ([]protocol.BatchWriteRowResultRow, error) {
	state := newBatchWriteState(changes)

	rebuild := func(_ int, prevRespBody []byte) ([]byte, error) {
		if err := state.absorb(prevRespBody); err != nil {
			return nil, err
		}
		ordered, indexByTable := protocol.BuildIndex(state.pending)
		state.bucket = bucketOrigIndices(state.pending, state.pendingOrigIdx)
		state.indexByTable = indexByTable
		return protocol.EncodeBatchWriteRowRequest(ordered), nil
	}
	synthesize := func(respBody []byte) error {
		rows, err := protocol.DecodeBatchWriteRowResponse(respBody, state.indexByTable)
		if err != nil {
			return err
		}
		for _, r := range rows {
			if !r.OK {
				return &ServerError{Code: r.ErrorCode, Message: r.ErrorMsg}
			}
		}
		return nil
	}

	respBody, invokeErr := c.pipeline.invoke(ctx, ActionBatchWriteRow, rebuild, synthesize)
	if absorbErr := state.absorb(respBody); absorbErr != nil && invokeErr == nil {
		invokeErr = absorbErr
	}
	return state.results(), invokeErr
}
