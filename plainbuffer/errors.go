package plainbuffer

import "fmt"

// CorruptedRowError is returned by Decode/DecodeStream when a recomputed
// checksum — cell or row — disagrees with the one stored in the payload.
type CorruptedRowError struct {
	// Where names the checksum that failed: "cell" or "row".
	Where string
	// Want and Got are the stored and recomputed checksum bytes.
	Want, Got byte
}

func (e *CorruptedRowError) Error() string {
	return fmt.Sprintf("plainbuffer: corrupted row: %s checksum mismatch, want %#x got %#x", e.Where, e.Want, e.Got)
}

// FormatError is returned when a payload's structure (header, tag
// ordering, length prefixes) does not match the PlainBuffer grammar.
type FormatError struct {
	Msg string
}

func (e *FormatError) Error() string { return "plainbuffer: " + e.Msg }

func formatErrorf(format string, args ...interface{}) *FormatError {
	return &FormatError{Msg: fmt.Sprintf(format, args...)}
}
