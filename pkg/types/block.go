package types

type Byte int64

// Block indexes the data region of the arena.
type Block uint32

const (
	// BlockNil terminates a chain. A file with no content has BlockNil as
	// its head.
	BlockNil  Block = 0xFFFF_FFFF
	BlockFree Block = 0xFFFF_FFFE

	ChainEntrySize Byte = 4
)

func (b Block) Valid() bool { return b != BlockNil && b != BlockFree }
