package alloc

import (
	"math/bits"

	"github.com/weberc2/blockfs/pkg/math"
)

const bitsPerByte = 8

// Bitmap is a fixed-capacity first-fit slot allocator. Bits are numbered from
// the most significant bit of the first byte.
type Bitmap struct {
	bytes []byte
	size  uint64
}

func New(size uint64) Bitmap {
	return Bitmap{
		bytes: make([]byte, math.DivRoundUp(size, bitsPerByte)),
		size:  size,
	}
}

func (bm Bitmap) Alloc() (uint64, bool) {
	i, bit, ok := bytesFirstZero(bm.bytes)
	if !ok {
		return 0, false
	}
	value := uint64(i*bitsPerByte) + uint64(bit)
	if value >= bm.size {
		// the padding bits of the last byte are never handed out
		return 0, false
	}
	bm.bytes[i] = byteSetHigh(bm.bytes[i], bit)
	return value, true
}

func (bm Bitmap) Free(value uint64) {
	if value >= bm.size {
		return
	}
	b := &bm.bytes[value/bitsPerByte]
	*b = byteSetLow(*b, uint8(value%bitsPerByte))
}

func (bm Bitmap) Reserve(value uint64) {
	if value >= bm.size {
		return
	}
	b := &bm.bytes[value/bitsPerByte]
	*b = byteSetHigh(*b, uint8(value%bitsPerByte))
}

func (bm Bitmap) IsSet(value uint64) bool {
	if value >= bm.size {
		return false
	}
	return !byteIsZero(bm.bytes[value/bitsPerByte], uint8(value%bitsPerByte))
}

// Used counts the set bits.
func (bm Bitmap) Used() uint64 {
	var n int
	for _, byt := range bm.bytes {
		n += bits.OnesCount8(byt)
	}
	return uint64(n)
}

func (bm Bitmap) Len() uint64 { return bm.size }

func bytesFirstZero(bytes []byte) (int, uint8, bool) {
	for i, byt := range bytes {
		if bit := byteFirstZero(byt); bit != 0xff {
			return i, bit, true
		}
	}
	return 0, 0, false
}

func byteIsZero(byt byte, bit uint8) bool {
	return byt&(0b1000_0000>>bit) == 0
}

func byteSetHigh(byt byte, bit uint8) byte {
	return byt | (0b1000_0000 >> bit)
}

func byteSetLow(byt byte, bit uint8) byte {
	return byt & ^(0b1000_0000 >> bit)
}

func byteFirstZero(byt byte) uint8 {
	for bit := uint8(0); bit < 8; bit++ {
		if byteIsZero(byt, bit) {
			return bit
		}
	}
	return 0xFF
}
