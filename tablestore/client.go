package tablestore

import (
	"context"
	"io"
	"log"

	"github.com/tablestore-go/tablestore/protocol"
)

// defaultReadAheadWatermark is the range-iterator buffer level (spec.md
// §4.6) at or below which another page is prefetched.
const defaultReadAheadWatermark = 32

// Client is the synchronous entry point to every operation (spec.md
// §2, §5). Safe for concurrent use by multiple goroutines: each call
// acquires its own connection from the shared pool and proceeds
// independently; the only shared mutable state is that pool.
type Client struct {
	cfg      Config
	creds    Credentials
	endpoint Endpoint
	pipeline *pipeline

	// Logger receives plain diagnostic lines; defaults to log.Default()
	// (SPEC_FULL.md §6a — no pluggable logging backend, just the
	// teacher's own ambient use of the standard logger).
	Logger *log.Logger
}

// New builds a Client against endpoint using creds, applying opts to
// the default Config (spec.md §6).
func New(endpoint string, creds Credentials, opts ...Option) (*Client, error) {
	ep, err := ParseEndpoint(endpoint)
	if err != nil {
		return nil, err
	}
	cfg := NewConfig(opts...)
	tr := newHTTPTransport(cfg.RequestTimeout)
	p := newPipeline(cfg, creds, ep, tr)
	return &Client{
		cfg:      cfg,
		creds:    creds,
		endpoint: ep,
		pipeline: p,
		Logger:   p.logger,
	}, nil
}

// SetLogger replaces the logger used for retry/diagnostic output; pass
// nil to discard it entirely (log.New(io.Discard, "", 0)).
func (c *Client) SetLogger(logger *log.Logger) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	c.Logger = logger
	c.pipeline.logger = logger
}

// ListTable returns the names of every table in the instance.
func (c *Client) ListTable(ctx context.Context) ([]string, error) {
	respBody, err := c.pipeline.invoke(ctx, ActionListTable, constantBody(protocol.EncodeListTableRequest()), nil)
	if err != nil {
		return nil, err
	}
	return protocol.DecodeListTableResponse(respBody)
}

// ListTableAsync is the asynchronous form of ListTable.
func (c *Client) ListTableAsync(ctx context.Context, cb func([]string, error)) <-chan Result[[]string] {
	return runAsync(func() ([]string, error) { return c.ListTable(ctx) }, cb)
}

// CreateTable creates a table from the given metadata.
func (c *Client) CreateTable(ctx context.Context, meta TableMeta) error {
	if len(meta.Schema) == 0 {
		return newClientError("", "table %q: primary-key schema must not be empty", meta.TableName)
	}
	_, err := c.pipeline.invoke(ctx, ActionCreateTable, constantBody(protocol.EncodeCreateTableRequest(meta)), nil)
	return err
}

// DescribeTable returns the current metadata of tableName.
func (c *Client) DescribeTable(ctx context.Context, tableName string) (TableMeta, error) {
	respBody, err := c.pipeline.invoke(ctx, ActionDescribeTable, constantBody(protocol.EncodeDescribeTableRequest(tableName)), nil)
	if err != nil {
		return TableMeta{}, err
	}
	return protocol.DecodeDescribeTableResponse(respBody)
}

// DescribeTableAsync is the asynchronous form of DescribeTable.
func (c *Client) DescribeTableAsync(ctx context.Context, tableName string, cb func(TableMeta, error)) <-chan Result[TableMeta] {
	return runAsync(func() (TableMeta, error) { return c.DescribeTable(ctx, tableName) }, cb)
}

// UpdateTable applies opts to tableName and returns the options the
// server actually applied.
func (c *Client) UpdateTable(ctx context.Context, tableName string, opts TableOptions) (TableOptions, error) {
	respBody, err := c.pipeline.invoke(ctx, ActionUpdateTable, constantBody(protocol.EncodeUpdateTableRequest(tableName, opts)), nil)
	if err != nil {
		return TableOptions{}, err
	}
	return protocol.DecodeUpdateTableResponse(respBody)
}

// DeleteTable deletes tableName.
func (c *Client) DeleteTable(ctx context.Context, tableName string) error {
	_, err := c.pipeline.invoke(ctx, ActionDeleteTable, constantBody(protocol.EncodeDeleteTableRequest(tableName)), nil)
	return err
}

// PutRow writes row under cond, returning the capacity it consumed.
func (c *Client) PutRow(ctx context.Context, tableName string, row Row, cond Condition) (ConsumedCapacity, error) {
	if err := validateRow(row); err != nil {
		return ConsumedCapacity{}, newClientError("", "put-row: %v", err)
	}
	if err := validateFilter(cond.Filter); err != nil {
		return ConsumedCapacity{}, newClientError("", "put-row: %v", err)
	}
	respBody, err := c.pipeline.invoke(ctx, ActionPutRow, constantBody(protocol.EncodePutRowRequest(tableName, row, cond)), nil)
	if err != nil {
		return ConsumedCapacity{}, err
	}
	_, cc, decErr := protocol.DecodeRowResponse(respBody)
	if decErr != nil {
		return ConsumedCapacity{}, newClientError("", "decoding put-row response: %v", decErr)
	}
	return cc, nil
}

// PutRowAsync is the asynchronous form of PutRow.
func (c *Client) PutRowAsync(ctx context.Context, tableName string, row Row, cond Condition, cb func(ConsumedCapacity, error)) <-chan Result[ConsumedCapacity] {
	return runAsync(func() (ConsumedCapacity, error) { return c.PutRow(ctx, tableName, row, cond) }, cb)
}

// GetRowOutcome bundles GetRow's two non-error return values so the
// async form can deliver them as a single Result.
type GetRowOutcome struct {
	Row      *Row
	Consumed ConsumedCapacity
}

// GetRow reads one row by primary key. A nil Row (with no error) means
// no such row exists — spec.md's get-row returns an empty result for a
// missing row rather than failing.
func (c *Client) GetRow(ctx context.Context, tableName string, pk PrimaryKey, opts RowQueryOptions) (*Row, ConsumedCapacity, error) {
	if err := validatePrimaryKey(pk); err != nil {
		return nil, ConsumedCapacity{}, newClientError("", "get-row: %v", err)
	}
	if err := validateFilter(opts.Filter); err != nil {
		return nil, ConsumedCapacity{}, newClientError("", "get-row: %v", err)
	}
	respBody, err := c.pipeline.invoke(ctx, ActionGetRow, constantBody(protocol.EncodeGetRowRequest(tableName, pk, opts)), nil)
	if err != nil {
		return nil, ConsumedCapacity{}, err
	}
	row, cc, decErr := protocol.DecodeGetRowResponse(respBody)
	if decErr != nil {
		return nil, ConsumedCapacity{}, newClientError("", "decoding get-row response: %v", decErr)
	}
	return row, cc, nil
}

// GetRowAsync is the asynchronous form of GetRow.
func (c *Client) GetRowAsync(ctx context.Context, tableName string, pk PrimaryKey, opts RowQueryOptions, cb func(GetRowOutcome, error)) <-chan Result[GetRowOutcome] {
	return runAsync(func() (GetRowOutcome, error) {
		row, cc, err := c.GetRow(ctx, tableName, pk, opts)
		return GetRowOutcome{Row: row, Consumed: cc}, err
	}, cb)
}

// UpdateRow applies row's per-cell update operations under cond.
func (c *Client) UpdateRow(ctx context.Context, tableName string, row Row, cond Condition) (ConsumedCapacity, error) {
	if err := validateRow(row); err != nil {
		return ConsumedCapacity{}, newClientError("", "update-row: %v", err)
	}
	if err := validateFilter(cond.Filter); err != nil {
		return ConsumedCapacity{}, newClientError("", "update-row: %v", err)
	}
	respBody, err := c.pipeline.invoke(ctx, ActionUpdateRow, constantBody(protocol.EncodeUpdateRowRequest(tableName, row, cond)), nil)
	if err != nil {
		return ConsumedCapacity{}, err
	}
	_, cc, decErr := protocol.DecodeRowResponse(respBody)
	if decErr != nil {
		return ConsumedCapacity{}, newClientError("", "decoding update-row response: %v", decErr)
	}
	return cc, nil
}

// UpdateRowAsync is the asynchronous form of UpdateRow.
func (c *Client) UpdateRowAsync(ctx context.Context, tableName string, row Row, cond Condition, cb func(ConsumedCapacity, error)) <-chan Result[ConsumedCapacity] {
	return runAsync(func() (ConsumedCapacity, error) { return c.UpdateRow(ctx, tableName, row, cond) }, cb)
}

// DeleteRow deletes the row at pk under cond.
func (c *Client) DeleteRow(ctx context.Context, tableName string, pk PrimaryKey, cond Condition) (ConsumedCapacity, error) {
	if err := validatePrimaryKey(pk); err != nil {
		return ConsumedCapacity{}, newClientError("", "delete-row: %v", err)
	}
	if err := validateFilter(cond.Filter); err != nil {
		return ConsumedCapacity{}, newClientError("", "delete-row: %v", err)
	}
	respBody, err := c.pipeline.invoke(ctx, ActionDeleteRow, constantBody(protocol.EncodeDeleteRowRequest(tableName, pk, cond)), nil)
	if err != nil {
		return ConsumedCapacity{}, err
	}
	_, cc, decErr := protocol.DecodeRowResponse(respBody)
	if decErr != nil {
		return ConsumedCapacity{}, newClientError("", "decoding delete-row response: %v", decErr)
	}
	return cc, nil
}

// DeleteRowAsync is the asynchronous form of DeleteRow.
func (c *Client) DeleteRowAsync(ctx context.Context, tableName string, pk PrimaryKey, cond Condition, cb func(ConsumedCapacity, error)) <-chan Result[ConsumedCapacity] {
	return runAsync(func() (ConsumedCapacity, error) { return c.DeleteRow(ctx, tableName, pk, cond) }, cb)
}

// GetRange starts a range scan over [startPK, endPK) in dir, returning
// a RangeIterator that pages through the results with read-ahead
// (spec.md §4.6). limit caps the number of rows per underlying page; 0
// means "server default".
func (c *Client) GetRange(ctx context.Context, tableName string, dir Direction, startPK, endPK PrimaryKey, limit int32, opts RowQueryOptions) (*RangeIterator, error) {
	if err := validateRangeBound(startPK); err != nil {
		return nil, newClientError("", "get-range: start %v", err)
	}
	if err := validateRangeBound(endPK); err != nil {
		return nil, newClientError("", "get-range: end %v", err)
	}
	if err := validateFilter(opts.Filter); err != nil {
		return nil, newClientError("", "get-range: %v", err)
	}

	fetch := func(fctx context.Context, from PrimaryKey) (protocol.GetRangeResult, error) {
		body := protocol.EncodeGetRangeRequest(tableName, dir, from, endPK, limit, opts)
		respBody, err := c.pipeline.invoke(fctx, ActionGetRange, constantBody(body), nil)
		if err != nil {
			return protocol.GetRangeResult{}, err
		}
		return protocol.DecodeGetRangeResponse(respBody)
	}
	return newRangeIterator(ctx, fetch, startPK, defaultReadAheadWatermark), nil
}

// BatchGetRowAsync is the asynchronous form of BatchGetRow.
func (c *Client) BatchGetRowAsync(ctx context.Context, queries []BatchGetRowQuery, cb func([]BatchGetRowResult, error)) <-chan Result[[]BatchGetRowResult] {
	return runAsync(func() ([]BatchGetRowResult, error) { return c.BatchGetRow(ctx, queries) }, cb)
}

// BatchWriteRowAsync is the asynchronous form of BatchWriteRow.
func (c *Client) BatchWriteRowAsync(ctx context.Context, changes []BatchWriteRowChange, cb func([]BatchWriteRowResult, error)) <-chan Result[[]BatchWriteRowResult] {
	return runAsync(func() ([]BatchWriteRowResult, error) { return c.BatchWriteRow(ctx, changes) }, cb)
}

// ComputeSplitsBySize returns split-point primary keys for tableName,
// sized so each split covers roughly splitSizeUnitBytes (SPEC_FULL.md
// §3b).
func (c *Client) ComputeSplitsBySize(ctx context.Context, tableName string, splitSizeUnitBytes int64) (protocol.ComputeSplitsResult, error) {
	respBody, err := c.pipeline.invoke(ctx, ActionComputeSplitsBySize, constantBody(protocol.EncodeComputeSplitsBySizeRequest(tableName, splitSizeUnitBytes)), nil)
	if err != nil {
		return protocol.ComputeSplitsResult{}, err
	}
	return protocol.DecodeComputeSplitsBySizeResponse(respBody)
}

// ComputeSplitsBySizeAsync is the asynchronous form of ComputeSplitsBySize.
func (c *Client) ComputeSplitsBySizeAsync(ctx context.Context, tableName string, splitSizeUnitBytes int64, cb func(protocol.ComputeSplitsResult, error)) <-chan Result[protocol.ComputeSplitsResult] {
	return runAsync(func() (protocol.ComputeSplitsResult, error) {
		return c.ComputeSplitsBySize(ctx, tableName, splitSizeUnitBytes)
	}, cb)
}
