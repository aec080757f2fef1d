package filesystem

import (
	"time"

	. "github.com/weberc2/blockfs/pkg/types"
)

type Params struct {
	ArenaSize      Byte
	BlockSize      Byte
	MaxRecords     uint32
	MaxDirectories uint32
	MaxChildren    uint32
	MaxFileSize    Byte

	// Persist keeps the metadata region of the arena current after every
	// mutation. Without it the metadata only lives in memory until Image()
	// is called.
	Persist bool

	// VolumeID identifies the volume in its header. A random one is
	// generated when it is zero.
	VolumeID [16]byte

	// Clock stamps created and modified times. Defaults to time.Now.
	Clock func() time.Time
}

func DefaultParams() Params {
	return Params{
		ArenaSize:      1 << 20,
		BlockSize:      512,
		MaxRecords:     128,
		MaxDirectories: 32,
		MaxChildren:    64,
		MaxFileSize:    10 * 512,
		Persist:        true,
	}
}

func (p *Params) geometry() Geometry {
	return Geometry{
		BlockSize:      p.BlockSize,
		MaxRecords:     p.MaxRecords,
		MaxDirectories: p.MaxDirectories,
		MaxChildren:    p.MaxChildren,
		MaxFileSize:    p.MaxFileSize,
	}
}

func (p *Params) clock() func() time.Time {
	if p.Clock == nil {
		return time.Now
	}
	return p.Clock
}
