package pb

import "google.golang.org/protobuf/encoding/protowire"

// Error is the server's protobuf error envelope, returned in the body
// of a non-2xx response (spec.md §7).
type Error struct {
	Code    string
	Message string
}

func (e *Error) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, e.Code)
	b = appendString(b, 2, e.Message)
	return b
}

func (e *Error) Unmarshal(b []byte) error {
	return walk(b, func(num protowire.Number, _ protowire.Type, v []byte) error {
		switch num {
		case 1:
			e.Code = asString(v)
		case 2:
			e.Message = asString(v)
		}
		return nil
	})
}

// ConsumedCapacity mirrors the CapacityUnit{read,write} pair attached
// to most row-level responses (SPEC_FULL.md §3b).
type ConsumedCapacity struct {
	Read  int64
	Write int64
}

func (c *ConsumedCapacity) Marshal() []byte {
	var b []byte
	b = appendVarint(b, 1, c.Read)
	b = appendVarint(b, 2, c.Write)
	return b
}

func (c *ConsumedCapacity) Unmarshal(b []byte) error {
	return walk(b, func(num protowire.Number, _ protowire.Type, v []byte) error {
		switch num {
		case 1:
			c.Read = asVarint(v)
		case 2:
			c.Write = asVarint(v)
		}
		return nil
	})
}

// TimeRange is either [Start,End) or a single SpecificTime (spec.md
// §3b / SPEC_FULL §3b's "start+1==end collapses to specific_time").
type TimeRange struct {
	Start        int64
	End          int64
	SpecificTime int64
	HasSpecific  bool
}

func (t *TimeRange) Marshal() []byte {
	var b []byte
	if t.HasSpecific {
		b = appendOptionalVarint(b, 3, t.SpecificTime)
		return b
	}
	b = appendVarint(b, 1, t.Start)
	b = appendVarint(b, 2, t.End)
	return b
}

func (t *TimeRange) Unmarshal(b []byte) error {
	return walk(b, func(num protowire.Number, _ protowire.Type, v []byte) error {
		switch num {
		case 1:
			t.Start = asVarint(v)
		case 2:
			t.End = asVarint(v)
		case 3:
			t.SpecificTime = asVarint(v)
			t.HasSpecific = true
		}
		return nil
	})
}

// Filter is the recursive filter-tree message (spec.md §4.3's "nested
// message whose leaves hold the comparator enum and a PlainBuffer-
// encoded standalone value").
type Filter struct {
	// FilterType: 1 = single-column leaf, 2 = composite inner node.
	FilterType int64

	// Leaf fields.
	ColumnName      string
	Comparator      int64
	ColumnValue     []byte // PlainBuffer standalone-encoded AttrValue
	FilterIfMissing bool
	LatestVersion   bool

	// Composite fields.
	LogicOp  int64
	Children [][]byte // each a marshalled Filter
}

func (f *Filter) Marshal() []byte {
	var b []byte
	b = appendVarint(b, 1, f.FilterType)
	if f.FilterType == 1 {
		b = appendString(b, 2, f.ColumnName)
		b = appendVarint(b, 3, f.Comparator)
		b = appendBytes(b, 4, f.ColumnValue)
		b = appendBool(b, 5, f.FilterIfMissing)
		b = appendBool(b, 6, f.LatestVersion)
		return b
	}
	b = appendVarint(b, 7, f.LogicOp)
	for _, c := range f.Children {
		b = appendMessage(b, 8, c)
	}
	return b
}

func (f *Filter) Unmarshal(b []byte) error {
	return walk(b, func(num protowire.Number, _ protowire.Type, v []byte) error {
		switch num {
		case 1:
			f.FilterType = asVarint(v)
		case 2:
			f.ColumnName = asString(v)
		case 3:
			f.Comparator = asVarint(v)
		case 4:
			f.ColumnValue = append([]byte(nil), v...)
		case 5:
			f.FilterIfMissing = asVarint(v) != 0
		case 6:
			f.LatestVersion = asVarint(v) != 0
		case 7:
			f.LogicOp = asVarint(v)
		case 8:
			f.Children = append(f.Children, append([]byte(nil), v...))
		}
		return nil
	})
}

// Condition carries the row-existence precondition for a write
// (IGNORE | EXPECT_EXIST | EXPECT_NOT_EXIST) plus an optional Filter.
type Condition struct {
	RowExistence int64
	ColumnFilter []byte // marshalled Filter, or nil
}

func (c *Condition) Marshal() []byte {
	var b []byte
	b = appendVarint(b, 1, c.RowExistence)
	b = appendMessage(b, 2, c.ColumnFilter)
	return b
}

func (c *Condition) Unmarshal(b []byte) error {
	return walk(b, func(num protowire.Number, _ protowire.Type, v []byte) error {
		switch num {
		case 1:
			c.RowExistence = asVarint(v)
		case 2:
			c.ColumnFilter = append([]byte(nil), v...)
		}
		return nil
	})
}

// PKColumnSchema is one column of a table's primary-key schema.
type PKColumnSchema struct {
	Name string
	Type int64 // PKType enum: INTEGER | STRING | BINARY
	// Option: 0 = none, 1 = AUTO_INCREMENT.
	Option int64
}

func (s *PKColumnSchema) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, s.Name)
	b = appendVarint(b, 2, s.Type)
	b = appendVarint(b, 3, s.Option)
	return b
}

func (s *PKColumnSchema) Unmarshal(b []byte) error {
	return walk(b, func(num protowire.Number, _ protowire.Type, v []byte) error {
		switch num {
		case 1:
			s.Name = asString(v)
		case 2:
			s.Type = asVarint(v)
		case 3:
			s.Option = asVarint(v)
		}
		return nil
	})
}

// TableOptions mirrors spec.md §3's table-level settings (TTL, max
// versions, bloom-filter mode, block size, reserved throughput).
type TableOptions struct {
	TimeToLiveSeconds       int64
	MaxVersions             int64
	DeviationCellVerSec     int64
	BloomFilterType         int64
	BlockSize               int64
	ReservedReadThroughput  int64
	ReservedWriteThroughput int64
}

func (o *TableOptions) Marshal() []byte {
	var b []byte
	b = appendVarint(b, 1, o.TimeToLiveSeconds)
	b = appendVarint(b, 2, o.MaxVersions)
	b = appendVarint(b, 3, o.DeviationCellVerSec)
	b = appendVarint(b, 4, o.BloomFilterType)
	b = appendVarint(b, 5, o.BlockSize)
	b = appendVarint(b, 6, o.ReservedReadThroughput)
	b = appendVarint(b, 7, o.ReservedWriteThroughput)
	return b
}

func (o *TableOptions) Unmarshal(b []byte) error {
	return walk(b, func(num protowire.Number, _ protowire.Type, v []byte) error {
		switch num {
		case 1:
			o.TimeToLiveSeconds = asVarint(v)
		case 2:
			o.MaxVersions = asVarint(v)
		case 3:
			o.DeviationCellVerSec = asVarint(v)
		case 4:
			o.BloomFilterType = asVarint(v)
		case 5:
			o.BlockSize = asVarint(v)
		case 6:
			o.ReservedReadThroughput = asVarint(v)
		case 7:
			o.ReservedWriteThroughput = asVarint(v)
		}
		return nil
	})
}

// TableMeta is a table's name, primary-key schema, and options.
type TableMeta struct {
	TableName string
	PKSchema  []*PKColumnSchema
	Options   *TableOptions
}

func (m *TableMeta) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, m.TableName)
	for _, c := range m.PKSchema {
		b = appendMessage(b, 2, c.Marshal())
	}
	if m.Options != nil {
		b = appendMessage(b, 3, m.Options.Marshal())
	}
	return b
}

func (m *TableMeta) Unmarshal(b []byte) error {
	return walk(b, func(num protowire.Number, _ protowire.Type, v []byte) error {
		switch num {
		case 1:
			m.TableName = asString(v)
		case 2:
			s := &PKColumnSchema{}
			if err := s.Unmarshal(v); err != nil {
				return err
			}
			m.PKSchema = append(m.PKSchema, s)
		case 3:
			o := &TableOptions{}
			if err := o.Unmarshal(v); err != nil {
				return err
			}
			m.Options = o
		}
		return nil
	})
}

// ---- Table lifecycle ----

type CreateTableRequest struct {
	TableMeta *TableMeta
}

func (r *CreateTableRequest) Marshal() []byte {
	var b []byte
	if r.TableMeta != nil {
		b = appendMessage(b, 1, r.TableMeta.Marshal())
	}
	return b
}

func (r *CreateTableRequest) Unmarshal(b []byte) error {
	return walk(b, func(num protowire.Number, _ protowire.Type, v []byte) error {
		if num == 1 {
			r.TableMeta = &TableMeta{}
			return r.TableMeta.Unmarshal(v)
		}
		return nil
	})
}

type ListTableResponse struct {
	TableNames []string
}

func (r *ListTableResponse) Marshal() []byte {
	var b []byte
	for _, n := range r.TableNames {
		b = appendString(b, 1, n)
	}
	return b
}

func (r *ListTableResponse) Unmarshal(b []byte) error {
	return walk(b, func(num protowire.Number, _ protowire.Type, v []byte) error {
		if num == 1 {
			r.TableNames = append(r.TableNames, asString(v))
		}
		return nil
	})
}

type DescribeTableRequest struct{ TableName string }

func (r *DescribeTableRequest) Marshal() []byte { return appendString(nil, 1, r.TableName) }
func (r *DescribeTableRequest) Unmarshal(b []byte) error {
	return walk(b, func(num protowire.Number, _ protowire.Type, v []byte) error {
		if num == 1 {
			r.TableName = asString(v)
		}
		return nil
	})
}

type DescribeTableResponse struct{ TableMeta *TableMeta }

func (r *DescribeTableResponse) Marshal() []byte {
	if r.TableMeta == nil {
		return nil
	}
	return appendMessage(nil, 1, r.TableMeta.Marshal())
}
func (r *DescribeTableResponse) Unmarshal(b []byte) error {
	return walk(b, func(num protowire.Number, _ protowire.Type, v []byte) error {
		if num == 1 {
			r.TableMeta = &TableMeta{}
			return r.TableMeta.Unmarshal(v)
		}
		return nil
	})
}

type UpdateTableRequest struct {
	TableName string
	Options   *TableOptions
}

func (r *UpdateTableRequest) Marshal() []byte {
	b := appendString(nil, 1, r.TableName)
	if r.Options != nil {
		b = appendMessage(b, 2, r.Options.Marshal())
	}
	return b
}
func (r *UpdateTableRequest) Unmarshal(b []byte) error {
	return walk(b, func(num protowire.Number, _ protowire.Type, v []byte) error {
		switch num {
		case 1:
			r.TableName = asString(v)
		case 2:
			r.Options = &TableOptions{}
			return r.Options.Unmarshal(v)
		}
		return nil
	})
}

type UpdateTableResponse struct{ Options *TableOptions }

func (r *UpdateTableResponse) Marshal() []byte {
	if r.Options == nil {
		return nil
	}
	return appendMessage(nil, 1, r.Options.Marshal())
}
func (r *UpdateTableResponse) Unmarshal(b []byte) error {
	return walk(b, func(num protowire.Number, _ protowire.Type, v []byte) error {
		if num == 1 {
			r.Options = &TableOptions{}
			return r.Options.Unmarshal(v)
		}
		return nil
	})
}

type DeleteTableRequest struct{ TableName string }

func (r *DeleteTableRequest) Marshal() []byte { return appendString(nil, 1, r.TableName) }
func (r *DeleteTableRequest) Unmarshal(b []byte) error {
	return walk(b, func(num protowire.Number, _ protowire.Type, v []byte) error {
		if num == 1 {
			r.TableName = asString(v)
		}
		return nil
	})
}

// ---- Single row ----

type PutRowRequest struct {
	TableName string
	Row       []byte // PlainBuffer-encoded row
	Condition *Condition
}

func (r *PutRowRequest) Marshal() []byte {
	b := appendString(nil, 1, r.TableName)
	b = appendBytes(b, 2, r.Row)
	if r.Condition != nil {
		b = appendMessage(b, 3, r.Condition.Marshal())
	}
	return b
}
func (r *PutRowRequest) Unmarshal(b []byte) error {
	return walk(b, func(num protowire.Number, _ protowire.Type, v []byte) error {
		switch num {
		case 1:
			r.TableName = asString(v)
		case 2:
			r.Row = append([]byte(nil), v...)
		case 3:
			r.Condition = &Condition{}
			return r.Condition.Unmarshal(v)
		}
		return nil
	})
}

type RowResponse struct {
	Row              []byte // PlainBuffer-encoded row, or empty
	Consumed         *ConsumedCapacity
}

func (r *RowResponse) Marshal() []byte {
	var b []byte
	b = appendBytes(b, 1, r.Row)
	if r.Consumed != nil {
		b = appendMessage(b, 2, r.Consumed.Marshal())
	}
	return b
}
func (r *RowResponse) Unmarshal(b []byte) error {
	return walk(b, func(num protowire.Number, _ protowire.Type, v []byte) error {
		switch num {
		case 1:
			r.Row = append([]byte(nil), v...)
		case 2:
			r.Consumed = &ConsumedCapacity{}
			return r.Consumed.Unmarshal(v)
		}
		return nil
	})
}

type GetRowRequest struct {
	TableName     string
	PrimaryKey    []byte // PlainBuffer row holding only the PK
	ColumnsToGet  []string
	MaxVersions   int64
	HasMaxVersions bool
	TimeRange     *TimeRange
	ColumnFilter  []byte // marshalled Filter, or nil
}

func (r *GetRowRequest) Marshal() []byte {
	b := appendString(nil, 1, r.TableName)
	b = appendBytes(b, 2, r.PrimaryKey)
	for _, c := range r.ColumnsToGet {
		b = appendString(b, 3, c)
	}
	if r.HasMaxVersions {
		b = appendOptionalVarint(b, 4, r.MaxVersions)
	}
	if r.TimeRange != nil {
		b = appendMessage(b, 5, r.TimeRange.Marshal())
	}
	b = appendMessage(b, 6, r.ColumnFilter)
	return b
}
func (r *GetRowRequest) Unmarshal(b []byte) error {
	return walk(b, func(num protowire.Number, _ protowire.Type, v []byte) error {
		switch num {
		case 1:
			r.TableName = asString(v)
		case 2:
			r.PrimaryKey = append([]byte(nil), v...)
		case 3:
			r.ColumnsToGet = append(r.ColumnsToGet, asString(v))
		case 4:
			r.MaxVersions = asVarint(v)
			r.HasMaxVersions = true
		case 5:
			r.TimeRange = &TimeRange{}
			return r.TimeRange.Unmarshal(v)
		case 6:
			r.ColumnFilter = append([]byte(nil), v...)
		}
		return nil
	})
}

type UpdateRowRequest struct {
	TableName string
	Row       []byte // PlainBuffer-encoded row-update op
	Condition *Condition
}

func (r *UpdateRowRequest) Marshal() []byte {
	b := appendString(nil, 1, r.TableName)
	b = appendBytes(b, 2, r.Row)
	if r.Condition != nil {
		b = appendMessage(b, 3, r.Condition.Marshal())
	}
	return b
}
func (r *UpdateRowRequest) Unmarshal(b []byte) error {
	return walk(b, func(num protowire.Number, _ protowire.Type, v []byte) error {
		switch num {
		case 1:
			r.TableName = asString(v)
		case 2:
			r.Row = append([]byte(nil), v...)
		case 3:
			r.Condition = &Condition{}
			return r.Condition.Unmarshal(v)
		}
		return nil
	})
}

type DeleteRowRequest struct {
	TableName  string
	PrimaryKey []byte
	Condition  *Condition
}

func (r *DeleteRowRequest) Marshal() []byte {
	b := appendString(nil, 1, r.TableName)
	b = appendBytes(b, 2, r.PrimaryKey)
	if r.Condition != nil {
		b = appendMessage(b, 3, r.Condition.Marshal())
	}
	return b
}
func (r *DeleteRowRequest) Unmarshal(b []byte) error {
	return walk(b, func(num protowire.Number, _ protowire.Type, v []byte) error {
		switch num {
		case 1:
			r.TableName = asString(v)
		case 2:
			r.PrimaryKey = append([]byte(nil), v...)
		case 3:
			r.Condition = &Condition{}
			return r.Condition.Unmarshal(v)
		}
		return nil
	})
}

// ---- Range scan ----

type GetRangeRequest struct {
	TableName    string
	Direction    int64 // 0 = FORWARD, 1 = BACKWARD
	InclusiveStartPK []byte
	ExclusiveEndPK   []byte
	Limit        int64
	ColumnsToGet []string
	MaxVersions  int64
	HasMaxVersions bool
	TimeRange    *TimeRange
	ColumnFilter []byte
}

func (r *GetRangeRequest) Marshal() []byte {
	b := appendString(nil, 1, r.TableName)
	b = appendVarint(b, 2, r.Direction)
	b = appendBytes(b, 3, r.InclusiveStartPK)
	b = appendBytes(b, 4, r.ExclusiveEndPK)
	b = appendVarint(b, 5, r.Limit)
	for _, c := range r.ColumnsToGet {
		b = appendString(b, 6, c)
	}
	if r.HasMaxVersions {
		b = appendOptionalVarint(b, 7, r.MaxVersions)
	}
	if r.TimeRange != nil {
		b = appendMessage(b, 8, r.TimeRange.Marshal())
	}
	b = appendMessage(b, 9, r.ColumnFilter)
	return b
}
func (r *GetRangeRequest) Unmarshal(b []byte) error {
	return walk(b, func(num protowire.Number, _ protowire.Type, v []byte) error {
		switch num {
		case 1:
			r.TableName = asString(v)
		case 2:
			r.Direction = asVarint(v)
		case 3:
			r.InclusiveStartPK = append([]byte(nil), v...)
		case 4:
			r.ExclusiveEndPK = append([]byte(nil), v...)
		case 5:
			r.Limit = asVarint(v)
		case 6:
			r.ColumnsToGet = append(r.ColumnsToGet, asString(v))
		case 7:
			r.MaxVersions = asVarint(v)
			r.HasMaxVersions = true
		case 8:
			r.TimeRange = &TimeRange{}
			return r.TimeRange.Unmarshal(v)
		case 9:
			r.ColumnFilter = append([]byte(nil), v...)
		}
		return nil
	})
}

type GetRangeResponse struct {
	Rows         []byte // concatenated PlainBuffer rows (stream-decodable)
	NextStartPK  []byte // PlainBuffer PK-only row, empty when scan is exhausted
	Consumed     *ConsumedCapacity
}

func (r *GetRangeResponse) Marshal() []byte {
	b := appendBytes(nil, 1, r.Rows)
	b = appendBytes(b, 2, r.NextStartPK)
	if r.Consumed != nil {
		b = appendMessage(b, 3, r.Consumed.Marshal())
	}
	return b
}
func (r *GetRangeResponse) Unmarshal(b []byte) error {
	return walk(b, func(num protowire.Number, _ protowire.Type, v []byte) error {
		switch num {
		case 1:
			r.Rows = append([]byte(nil), v...)
		case 2:
			r.NextStartPK = append([]byte(nil), v...)
		case 3:
			r.Consumed = &ConsumedCapacity{}
			return r.Consumed.Unmarshal(v)
		}
		return nil
	})
}

// ---- Batch get row ----

// MultiPointQueryCriterion is one table's worth of a batch-get-row
// request: many primary keys plus shared projection/version/time-range
// settings (spec.md §4.3's "batch-get-row indexing").
type MultiPointQueryCriterion struct {
	TableName      string
	PrimaryKeys    [][]byte // each a PlainBuffer PK-only row
	ColumnsToGet   []string
	MaxVersions    int64
	HasMaxVersions bool
	TimeRange      *TimeRange
	ColumnFilter   []byte
}

func (c *MultiPointQueryCriterion) Marshal() []byte {
	b := appendString(nil, 1, c.TableName)
	for _, pk := range c.PrimaryKeys {
		b = appendBytes(b, 2, pk)
	}
	for _, col := range c.ColumnsToGet {
		b = appendString(b, 3, col)
	}
	if c.HasMaxVersions {
		b = appendOptionalVarint(b, 4, c.MaxVersions)
	}
	if c.TimeRange != nil {
		b = appendMessage(b, 5, c.TimeRange.Marshal())
	}
	b = appendMessage(b, 6, c.ColumnFilter)
	return b
}

func (c *MultiPointQueryCriterion) Unmarshal(b []byte) error {
	return walk(b, func(num protowire.Number, _ protowire.Type, v []byte) error {
		switch num {
		case 1:
			c.TableName = asString(v)
		case 2:
			c.PrimaryKeys = append(c.PrimaryKeys, append([]byte(nil), v...))
		case 3:
			c.ColumnsToGet = append(c.ColumnsToGet, asString(v))
		case 4:
			c.MaxVersions = asVarint(v)
			c.HasMaxVersions = true
		case 5:
			c.TimeRange = &TimeRange{}
			return c.TimeRange.Unmarshal(v)
		case 6:
			c.ColumnFilter = append([]byte(nil), v...)
		}
		return nil
	})
}

type BatchGetRowRequest struct {
	Criteria []*MultiPointQueryCriterion
}

func (r *BatchGetRowRequest) Marshal() []byte {
	var b []byte
	for _, c := range r.Criteria {
		b = appendMessage(b, 1, c.Marshal())
	}
	return b
}
func (r *BatchGetRowRequest) Unmarshal(b []byte) error {
	return walk(b, func(num protowire.Number, _ protowire.Type, v []byte) error {
		if num == 1 {
			c := &MultiPointQueryCriterion{}
			if err := c.Unmarshal(v); err != nil {
				return err
			}
			r.Criteria = append(r.Criteria, c)
		}
		return nil
	})
}

// RowInBatchGetRowResponse is one result row, still tagged with the
// table it belongs to since the wire groups results by table, not in
// request order.
type RowInBatchGetRowResponse struct {
	TableName string
	IsOK      bool
	ErrorCode string
	ErrorMsg  string
	Row       []byte
	Consumed  *ConsumedCapacity
}

func (r *RowInBatchGetRowResponse) Marshal() []byte {
	b := appendString(nil, 1, r.TableName)
	b = appendBool(b, 2, r.IsOK)
	b = appendString(b, 3, r.ErrorCode)
	b = appendString(b, 4, r.ErrorMsg)
	b = appendBytes(b, 5, r.Row)
	if r.Consumed != nil {
		b = appendMessage(b, 6, r.Consumed.Marshal())
	}
	return b
}
func (r *RowInBatchGetRowResponse) Unmarshal(b []byte) error {
	return walk(b, func(num protowire.Number, _ protowire.Type, v []byte) error {
		switch num {
		case 1:
			r.TableName = asString(v)
		case 2:
			r.IsOK = asVarint(v) != 0
		case 3:
			r.ErrorCode = asString(v)
		case 4:
			r.ErrorMsg = asString(v)
		case 5:
			r.Row = append([]byte(nil), v...)
		case 6:
			r.Consumed = &ConsumedCapacity{}
			return r.Consumed.Unmarshal(v)
		}
		return nil
	})
}

type BatchGetRowResponse struct {
	Rows []*RowInBatchGetRowResponse
}

func (r *BatchGetRowResponse) Marshal() []byte {
	var b []byte
	for _, row := range r.Rows {
		b = appendMessage(b, 1, row.Marshal())
	}
	return b
}
func (r *BatchGetRowResponse) Unmarshal(b []byte) error {
	return walk(b, func(num protowire.Number, _ protowire.Type, v []byte) error {
		if num == 1 {
			row := &RowInBatchGetRowResponse{}
			if err := row.Unmarshal(v); err != nil {
				return err
			}
			r.Rows = append(r.Rows, row)
		}
		return nil
	})
}

// ---- Batch write row ----

// RowInBatchWriteRowRequest is one row-level change inside a
// batch-write-row request, tagged by change type (spec.md §4.3's
// "heterogeneous list of per-row changes tagged PUT | UPDATE | DELETE").
type RowInBatchWriteRowRequest struct {
	Type      int64 // 1=PUT, 2=UPDATE, 3=DELETE
	Row       []byte
	Condition *Condition
}

func (r *RowInBatchWriteRowRequest) Marshal() []byte {
	b := appendVarint(nil, 1, r.Type)
	b = appendBytes(b, 2, r.Row)
	if r.Condition != nil {
		b = appendMessage(b, 3, r.Condition.Marshal())
	}
	return b
}
func (r *RowInBatchWriteRowRequest) Unmarshal(b []byte) error {
	return walk(b, func(num protowire.Number, _ protowire.Type, v []byte) error {
		switch num {
		case 1:
			r.Type = asVarint(v)
		case 2:
			r.Row = append([]byte(nil), v...)
		case 3:
			r.Condition = &Condition{}
			return r.Condition.Unmarshal(v)
		}
		return nil
	})
}

type TableInBatchWriteRowRequest struct {
	TableName string
	Rows      []*RowInBatchWriteRowRequest
}

func (t *TableInBatchWriteRowRequest) Marshal() []byte {
	b := appendString(nil, 1, t.TableName)
	for _, row := range t.Rows {
		b = appendMessage(b, 2, row.Marshal())
	}
	return b
}
func (t *TableInBatchWriteRowRequest) Unmarshal(b []byte) error {
	return walk(b, func(num protowire.Number, _ protowire.Type, v []byte) error {
		switch num {
		case 1:
			t.TableName = asString(v)
		case 2:
			row := &RowInBatchWriteRowRequest{}
			if err := row.Unmarshal(v); err != nil {
				return err
			}
			t.Rows = append(t.Rows, row)
		}
		return nil
	})
}

type BatchWriteRowRequest struct {
	Tables []*TableInBatchWriteRowRequest
}

func (r *BatchWriteRowRequest) Marshal() []byte {
	var b []byte
	for _, t := range r.Tables {
		b = appendMessage(b, 1, t.Marshal())
	}
	return b
}
func (r *BatchWriteRowRequest) Unmarshal(b []byte) error {
	return walk(b, func(num protowire.Number, _ protowire.Type, v []byte) error {
		if num == 1 {
			t := &TableInBatchWriteRowRequest{}
			if err := t.Unmarshal(v); err != nil {
				return err
			}
			r.Tables = append(r.Tables, t)
		}
		return nil
	})
}

type RowInBatchWriteRowResponse struct {
	IsOK      bool
	ErrorCode string
	ErrorMsg  string
	Consumed  *ConsumedCapacity
	Row       []byte // server-returned row data (e.g. auto-incr PK), may be empty
}

func (r *RowInBatchWriteRowResponse) Marshal() []byte {
	b := appendBool(nil, 1, r.IsOK)
	b = appendString(b, 2, r.ErrorCode)
	b = appendString(b, 3, r.ErrorMsg)
	if r.Consumed != nil {
		b = appendMessage(b, 4, r.Consumed.Marshal())
	}
	b = appendBytes(b, 5, r.Row)
	return b
}
func (r *RowInBatchWriteRowResponse) Unmarshal(b []byte) error {
	return walk(b, func(num protowire.Number, _ protowire.Type, v []byte) error {
		switch num {
		case 1:
			r.IsOK = asVarint(v) != 0
		case 2:
			r.ErrorCode = asString(v)
		case 3:
			r.ErrorMsg = asString(v)
		case 4:
			r.Consumed = &ConsumedCapacity{}
			return r.Consumed.Unmarshal(v)
		case 5:
			r.Row = append([]byte(nil), v...)
		}
		return nil
	})
}

type TableInBatchWriteRowResponse struct {
	TableName string
	Rows      []*RowInBatchWriteRowResponse
}

func (t *TableInBatchWriteRowResponse) Marshal() []byte {
	b := appendString(nil, 1, t.TableName)
	for _, row := range t.Rows {
		b = appendMessage(b, 2, row.Marshal())
	}
	return b
}
func (t *TableInBatchWriteRowResponse) Unmarshal(b []byte) error {
	return walk(b, func(num protowire.Number, _ protowire.Type, v []byte) error {
		switch num {
		case 1:
			t.TableName = asString(v)
		case 2:
			row := &RowInBatchWriteRowResponse{}
			if err := row.Unmarshal(v); err != nil {
				return err
			}
			t.Rows = append(t.Rows, row)
		}
		return nil
	})
}

type BatchWriteRowResponse struct {
	Tables []*TableInBatchWriteRowResponse
}

func (r *BatchWriteRowResponse) Marshal() []byte {
	var b []byte
	for _, t := range r.Tables {
		b = appendMessage(b, 1, t.Marshal())
	}
	return b
}
func (r *BatchWriteRowResponse) Unmarshal(b []byte) error {
	return walk(b, func(num protowire.Number, _ protowire.Type, v []byte) error {
		if num == 1 {
			t := &TableInBatchWriteRowResponse{}
			if err := t.Unmarshal(v); err != nil {
				return err
			}
			r.Tables = append(r.Tables, t)
		}
		return nil
	})
}

// ---- Compute splits by size ----

type ComputeSplitsBySizeRequest struct {
	TableName     string
	SplitSizeUnit int64
}

func (r *ComputeSplitsBySizeRequest) Marshal() []byte {
	b := appendString(nil, 1, r.TableName)
	b = appendVarint(b, 2, r.SplitSizeUnit)
	return b
}
func (r *ComputeSplitsBySizeRequest) Unmarshal(b []byte) error {
	return walk(b, func(num protowire.Number, _ protowire.Type, v []byte) error {
		switch num {
		case 1:
			r.TableName = asString(v)
		case 2:
			r.SplitSizeUnit = asVarint(v)
		}
		return nil
	})
}

// Split is one split point: the lower-bound primary key and a location
// hint (server-internal, opaque to this client beyond "carry it").
type Split struct {
	LowerBound []byte // PlainBuffer PK-only row
	Location   string
}

func (s *Split) Marshal() []byte {
	b := appendBytes(nil, 1, s.LowerBound)
	b = appendString(b, 2, s.Location)
	return b
}
func (s *Split) Unmarshal(b []byte) error {
	return walk(b, func(num protowire.Number, _ protowire.Type, v []byte) error {
		switch num {
		case 1:
			s.LowerBound = append([]byte(nil), v...)
		case 2:
			s.Location = asString(v)
		}
		return nil
	})
}

type ComputeSplitsBySizeResponse struct {
	Schema []*PKColumnSchema
	Splits []*Split
	Consumed *ConsumedCapacity
}

func (r *ComputeSplitsBySizeResponse) Marshal() []byte {
	var b []byte
	for _, s := range r.Schema {
		b = appendMessage(b, 1, s.Marshal())
	}
	for _, s := range r.Splits {
		b = appendMessage(b, 2, s.Marshal())
	}
	if r.Consumed != nil {
		b = appendMessage(b, 3, r.Consumed.Marshal())
	}
	return b
}
func (r *ComputeSplitsBySizeResponse) Unmarshal(b []byte) error {
	return walk(b, func(num protowire.Number, _ protowire.Type, v []byte) error {
		switch num {
		case 1:
			s := &PKColumnSchema{}
			if err := s.Unmarshal(v); err != nil {
				return err
			}
			r.Schema = append(r.Schema, s)
		case 2:
			s := &Split{}
			if err := s.Unmarshal(v); err != nil {
				return err
			}
			r.Splits = append(r.Splits, s)
		case 3:
			r.Consumed = &ConsumedCapacity{}
			return r.Consumed.Unmarshal(v)
		}
		return nil
	})
}
