package protocol

import "github.com/tablestore-go/tablestore/protocol/pb"

func toPBTableMeta(m TableMeta) *pb.TableMeta {
	pm := &pb.TableMeta{TableName: m.TableName, Options: toPBTableOptions(m.Options)}
	for _, c := range m.Schema {
		option := int64(0)
		if c.AutoIncrement {
			option = 1
		}
		pm.PKSchema = append(pm.PKSchema, &pb.PKColumnSchema{
			Name: c.Name, Type: int64(c.Type), Option: option,
		})
	}
	return pm
}

func fromPBTableMeta(pm *pb.TableMeta) TableMeta {
	if pm == nil {
		return TableMeta{}
	}
	m := TableMeta{TableName: pm.TableName, Options: fromPBTableOptions(pm.Options)}
	for _, c := range pm.PKSchema {
		m.Schema = append(m.Schema, PKSchemaColumn{
			Name: c.Name, Type: PKColumnType(c.Type), AutoIncrement: c.Option == 1,
		})
	}
	return m
}

func toPBTableOptions(o TableOptions) *pb.TableOptions {
	return &pb.TableOptions{
		TimeToLiveSeconds:       int64(o.TimeToLive.Seconds()),
		MaxVersions:             int64(o.MaxVersions),
		DeviationCellVerSec:     int64(o.MaxOutOfOrderDeviation.Seconds()),
		BloomFilterType:         int64(o.BloomFilterType),
		BlockSize:               int64(o.BlockSize),
		ReservedReadThroughput:  int64(o.ReservedReadThroughput),
		ReservedWriteThroughput: int64(o.ReservedWriteThroughput),
	}
}

func fromPBTableOptions(po *pb.TableOptions) TableOptions {
	if po == nil {
		return TableOptions{}
	}
	return TableOptions{
		TimeToLive:              secondsToDuration(po.TimeToLiveSeconds),
		MaxVersions:             int32(po.MaxVersions),
		MaxOutOfOrderDeviation:  secondsToDuration(po.DeviationCellVerSec),
		BloomFilterType:         BloomFilterType(po.BloomFilterType),
		BlockSize:               int32(po.BlockSize),
		ReservedReadThroughput:  int32(po.ReservedReadThroughput),
		ReservedWriteThroughput: int32(po.ReservedWriteThroughput),
	}
}

// EncodeCreateTableRequest builds the wire bytes for create-table.
func EncodeCreateTableRequest(meta TableMeta) []byte {
	return (&pb.CreateTableRequest{TableMeta: toPBTableMeta(meta)}).Marshal()
}

// EncodeListTableRequest builds the wire bytes for list-table (the
// request carries no fields).
func EncodeListTableRequest() []byte { return nil }

// DecodeListTableResponse parses the list-table response.
func DecodeListTableResponse(b []byte) ([]string, error) {
	r := &pb.ListTableResponse{}
	if err := r.Unmarshal(b); err != nil {
		return nil, err
	}
	return r.TableNames, nil
}

// EncodeDescribeTableRequest builds the wire bytes for describe-table.
func EncodeDescribeTableRequest(tableName string) []byte {
	return (&pb.DescribeTableRequest{TableName: tableName}).Marshal()
}

// DecodeDescribeTableResponse parses the describe-table response.
func DecodeDescribeTableResponse(b []byte) (TableMeta, error) {
	r := &pb.DescribeTableResponse{}
	if err := r.Unmarshal(b); err != nil {
		return TableMeta{}, err
	}
	return fromPBTableMeta(r.TableMeta), nil
}

// EncodeUpdateTableRequest builds the wire bytes for update-table.
func EncodeUpdateTableRequest(tableName string, opts TableOptions) []byte {
	return (&pb.UpdateTableRequest{TableName: tableName, Options: toPBTableOptions(opts)}).Marshal()
}

// DecodeUpdateTableResponse parses the update-table response (the
// options the server actually applied).
func DecodeUpdateTableResponse(b []byte) (TableOptions, error) {
	r := &pb.UpdateTableResponse{}
	if err := r.Unmarshal(b); err != nil {
		return TableOptions{}, err
	}
	return fromPBTableOptions(r.Options), nil
}

// EncodeDeleteTableRequest builds the wire bytes for delete-table.
func EncodeDeleteTableRequest(tableName string) []byte {
	return (&pb.DeleteTableRequest{TableName: tableName}).Marshal()
}
