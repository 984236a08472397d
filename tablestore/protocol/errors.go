package protocol

import "github.com/tablestore-go/tablestore/protocol/pb"

// DecodeError parses a non-2xx response body as a protobuf Error
// message (spec.md §4.5.f / §7). Returns the code and message; an
// empty code means the body wasn't a well-formed Error message and the
// caller should fall back to the raw transport error text.
func DecodeError(b []byte) (code, message string) {
	e := &pb.Error{}
	if err := e.Unmarshal(b); err != nil {
		return "", ""
	}
	return e.Code, e.Message
}
