package encode

import (
	"fmt"

	. "github.com/weberc2/blockfs/pkg/types"
)

const (
	ArenaTooSmallErr   ConstError = "arena too small"
	InvalidGeometryErr ConstError = "invalid geometry"
)

// Layout holds the offsets of the metadata region's tables, all relative to
// the start of the arena.
type Layout struct {
	ChainOffset   Byte
	RecordsOffset Byte
	SetsOffset    Byte
	SetSize       Byte
	Size          Byte
}

func NewLayout(g *Geometry) Layout {
	chain := HeaderSize
	records := chain + Byte(g.Blocks)*ChainEntrySize
	sets := records + Byte(g.MaxRecords)*RecordSize
	setSize := ChildSetSize(g.MaxChildren)
	return Layout{
		ChainOffset:   chain,
		RecordsOffset: records,
		SetsOffset:    sets,
		SetSize:       setSize,
		Size:          sets + Byte(g.MaxDirectories)*setSize,
	}
}

// DeriveGeometry fills in `g.Blocks` from the arena size: every block costs
// its data plus one chain table entry, and the rest of the metadata region is
// fixed by the other knobs.
func DeriveGeometry(arenaSize Byte, g *Geometry) error {
	tmp := *g
	tmp.Blocks = 0
	fixed := NewLayout(&tmp).Size
	if tmp.BlockSize <= 0 {
		return fmt.Errorf(
			"deriving geometry: block size `%d`: %w",
			tmp.BlockSize,
			InvalidGeometryErr,
		)
	}
	if arenaSize <= fixed {
		return fmt.Errorf(
			"deriving geometry: arena of `%d` bytes cannot hold `%d` bytes "+
				"of metadata: %w",
			arenaSize,
			fixed,
			ArenaTooSmallErr,
		)
	}
	blocks := (arenaSize - fixed) / (tmp.BlockSize + ChainEntrySize)
	if blocks < 1 {
		return fmt.Errorf(
			"deriving geometry: arena of `%d` bytes has no room for a "+
				"`%d`-byte block: %w",
			arenaSize,
			tmp.BlockSize,
			ArenaTooSmallErr,
		)
	}
	if blocks >= Byte(BlockFree) {
		blocks = Byte(BlockFree) - 1
	}
	tmp.Blocks = uint32(blocks)
	if err := ValidateGeometry(&tmp); err != nil {
		return fmt.Errorf("deriving geometry: %w", err)
	}
	*g = tmp
	return nil
}

func ValidateGeometry(g *Geometry) error {
	if field, problem := func() (string, string) {
		if g.BlockSize <= 0 || g.BlockSize > 1<<20 {
			return "block size", "must be in (0, 1MiB]"
		}
		if g.Blocks == 0 || g.Blocks >= uint32(BlockFree) {
			return "blocks", "must be positive and below the chain markers"
		}
		if g.MaxRecords == 0 {
			return "max records", "must be positive"
		}
		if g.MaxDirectories == 0 {
			return "max directories", "must be positive (the root needs one)"
		}
		if g.MaxChildren == 0 {
			return "max children", "must be positive"
		}
		if g.MaxFileSize < 0 {
			return "max file size", "must not be negative"
		}
		return "", ""
	}(); field != "" {
		return fmt.Errorf("%s %s: %w", field, problem, InvalidGeometryErr)
	}
	return nil
}
