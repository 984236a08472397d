package plainbuffer

import (
	"fmt"
	"math"
)

func attrTypeByte(k AttrKind) byte {
	switch k {
	case AttrInteger:
		return variantInteger
	case AttrDouble:
		return variantDouble
	case AttrBoolean:
		return variantBoolean
	case AttrString:
		return variantString
	case AttrBinary:
		return variantBlob
	default:
		panic(fmt.Sprintf("plainbuffer: unknown attribute kind %v", k))
	}
}

func attrKindFromTypeByte(b byte) (AttrKind, error) {
	switch b {
	case variantInteger:
		return AttrInteger, nil
	case variantDouble:
		return AttrDouble, nil
	case variantBoolean:
		return AttrBoolean, nil
	case variantString:
		return AttrString, nil
	case variantBlob:
		return AttrBinary, nil
	default:
		return 0, fmt.Errorf("plainbuffer: unknown attribute variant type byte %#x", b)
	}
}

func pkTypeByte(k PKKind) byte {
	switch k {
	case PKInteger:
		return variantInteger
	case PKString:
		return variantString
	case PKBinary:
		return variantBlob
	case PKInfMin:
		return variantInfMin
	case PKInfMax:
		return variantInfMax
	case PKAutoIncrement:
		return variantAutoIncr
	default:
		panic(fmt.Sprintf("plainbuffer: unknown primary-key kind %v", k))
	}
}

func pkKindFromTypeByte(b byte) (PKKind, error) {
	switch b {
	case variantInteger:
		return PKInteger, nil
	case variantString:
		return PKString, nil
	case variantBlob:
		return PKBinary, nil
	case variantInfMin:
		return PKInfMin, nil
	case variantInfMax:
		return PKInfMax, nil
	case variantAutoIncr:
		return PKAutoIncrement, nil
	default:
		return 0, fmt.Errorf("plainbuffer: unknown primary-key variant type byte %#x", b)
	}
}

func doubleBits(f float64) uint64    { return math.Float64bits(f) }
func doubleFromBits(b uint64) float64 { return math.Float64frombits(b) }
