package plainbuffer

// Tag bytes and sentinel values from the PlainBuffer grammar.
const (
	tagRowPK           = 0x01
	tagRowData         = 0x02
	tagCell            = 0x03
	tagCellName        = 0x04
	tagCellValue       = 0x05
	tagCellType        = 0x06
	tagCellTimestamp   = 0x07
	tagDeleteRowMarker = 0x08
	tagRowChecksum     = 0x09
	tagCellChecksum    = 0x0A

	variantInteger  = 0x00
	variantDouble   = 0x01
	variantBoolean  = 0x02
	variantString   = 0x03
	variantBlob     = 0x07
	variantInfMin   = 0x09
	variantInfMax   = 0x0A
	variantAutoIncr = 0x0B
)

// header is the fixed 4-byte little-endian row/stream header.
var header = [4]byte{0x75, 0x00, 0x00, 0x00}

const headerValue uint32 = 0x00000075
