package encode

import (
	"fmt"

	. "github.com/weberc2/blockfs/pkg/types"
)

// Magic is "blockfs\x00" read as a little-endian uint64.
const Magic uint64 = 0x0073_666b_636f_6c62

func EncodeHeader(volumeID *[16]byte, g *Geometry, b *[HeaderSize]byte) {
	p := b[:]
	putU64(p, headerMagicStart, Magic)
	copy(p[headerVolumeIDStart:headerVolumeIDEnd], volumeID[:])
	putU32(p, headerBlockSizeStart, uint32(g.BlockSize))
	putU32(p, headerBlocksStart, g.Blocks)
	putU32(p, headerMaxRecordsStart, g.MaxRecords)
	putU32(p, headerMaxDirectoriesStart, g.MaxDirectories)
	putU32(p, headerMaxChildrenStart, g.MaxChildren)
	putU64(p, headerMaxFileSizeStart, uint64(g.MaxFileSize))
}

func DecodeHeader(volumeID *[16]byte, g *Geometry, b *[HeaderSize]byte) error {
	p := b[:]
	if magic := getU64(p, headerMagicStart); magic != Magic {
		return fmt.Errorf(
			"decoding header: wanted magic `%#x`; found `%#x`: %w",
			Magic,
			magic,
			CorruptMetadataErr,
		)
	}

	// decode into a temporary so `g` is untouched on error
	tmp := Geometry{
		BlockSize:      Byte(getU32(p, headerBlockSizeStart)),
		Blocks:         getU32(p, headerBlocksStart),
		MaxRecords:     getU32(p, headerMaxRecordsStart),
		MaxDirectories: getU32(p, headerMaxDirectoriesStart),
		MaxChildren:    getU32(p, headerMaxChildrenStart),
		MaxFileSize:    Byte(getU64(p, headerMaxFileSizeStart)),
	}
	if err := ValidateGeometry(&tmp); err != nil {
		return fmt.Errorf("decoding header: %w: %w", CorruptMetadataErr, err)
	}

	copy(volumeID[:], p[headerVolumeIDStart:headerVolumeIDEnd])
	*g = tmp
	return nil
}

const (
	headerMagicStart = 0
	headerMagicSize  = 8
	headerMagicEnd   = headerMagicStart + headerMagicSize

	headerVolumeIDStart = headerMagicEnd
	headerVolumeIDSize  = 16
	headerVolumeIDEnd   = headerVolumeIDStart + headerVolumeIDSize

	headerBlockSizeStart = headerVolumeIDEnd
	headerBlockSizeSize  = 4
	headerBlockSizeEnd   = headerBlockSizeStart + headerBlockSizeSize

	headerBlocksStart = headerBlockSizeEnd
	headerBlocksSize  = 4
	headerBlocksEnd   = headerBlocksStart + headerBlocksSize

	headerMaxRecordsStart = headerBlocksEnd
	headerMaxRecordsSize  = 4
	headerMaxRecordsEnd   = headerMaxRecordsStart + headerMaxRecordsSize

	headerMaxDirectoriesStart = headerMaxRecordsEnd
	headerMaxDirectoriesSize  = 4
	headerMaxDirectoriesEnd   = headerMaxDirectoriesStart + headerMaxDirectoriesSize

	headerMaxChildrenStart = headerMaxDirectoriesEnd
	headerMaxChildrenSize  = 4
	headerMaxChildrenEnd   = headerMaxChildrenStart + headerMaxChildrenSize

	headerMaxFileSizeStart = headerMaxChildrenEnd
	headerMaxFileSizeSize  = 8
	headerMaxFileSizeEnd   = headerMaxFileSizeStart + headerMaxFileSizeSize

	HeaderSize Byte = headerMaxFileSizeEnd
)
