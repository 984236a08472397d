package protocol

import (
	"github.com/tablestore-go/tablestore/plainbuffer"
	"github.com/tablestore-go/tablestore/protocol/pb"
)

// SplitPoint is one split boundary returned by compute-splits-by-size:
// the lower-bound primary key of that split plus a server-internal
// location hint (SPEC_FULL.md §3b).
type SplitPoint struct {
	LowerBound plainbuffer.PrimaryKey
	Location   string
}

// ComputeSplitsResult bundles the schema (so callers can interpret the
// split lower-bound columns without a separate describe-table call) and
// the split list.
type ComputeSplitsResult struct {
	Schema   []PKSchemaColumn
	Splits   []SplitPoint
	Consumed ConsumedCapacity
}

// EncodeComputeSplitsBySizeRequest builds the wire bytes for
// compute-splits-by-size.
func EncodeComputeSplitsBySizeRequest(tableName string, splitSizeUnitBytes int64) []byte {
	return (&pb.ComputeSplitsBySizeRequest{TableName: tableName, SplitSizeUnit: splitSizeUnitBytes}).Marshal()
}

// DecodeComputeSplitsBySizeResponse parses the compute-splits-by-size
// response.
func DecodeComputeSplitsBySizeResponse(b []byte) (ComputeSplitsResult, error) {
	r := &pb.ComputeSplitsBySizeResponse{}
	if err := r.Unmarshal(b); err != nil {
		return ComputeSplitsResult{}, err
	}
	result := ComputeSplitsResult{Consumed: decodeConsumedCapacity(r.Consumed)}
	for _, s := range r.Schema {
		result.Schema = append(result.Schema, PKSchemaColumn{
			Name: s.Name, Type: PKColumnType(s.Type), AutoIncrement: s.Option == 1,
		})
	}
	for _, s := range r.Splits {
		pk, err := decodePrimaryKey(s.LowerBound)
		if err != nil {
			return ComputeSplitsResult{}, err
		}
		result.Splits = append(result.Splits, SplitPoint{LowerBound: pk, Location: s.Location})
	}
	return result, nil
}
