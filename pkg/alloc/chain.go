package alloc

import (
	"fmt"

	. "github.com/weberc2/blockfs/pkg/types"
)

const OutOfBlocksErr ConstError = "out of free blocks"

// ChainAllocator tracks, per block, whether it is free, the last block of a
// chain, or the predecessor of another block in the same chain.
type ChainAllocator struct {
	next []Block
	free uint32
}

func NewChainAllocator(blocks uint32) *ChainAllocator {
	next := make([]Block, blocks)
	for i := range next {
		next[i] = BlockFree
	}
	return &ChainAllocator{next: next, free: blocks}
}

// Alloc returns the lowest-numbered free block as a one-block chain.
func (ca *ChainAllocator) Alloc() (Block, error) {
	for i, next := range ca.next {
		if next == BlockFree {
			ca.next[i] = BlockNil
			ca.free--
			return Block(i), nil
		}
	}
	return BlockNil, OutOfBlocksErr
}

// Link appends `next` to the chain ending at `prev`.
func (ca *ChainAllocator) Link(prev, next Block) {
	ca.next[prev] = next
}

func (ca *ChainAllocator) Next(b Block) Block {
	if !ca.inRange(b) {
		return BlockNil
	}
	return ca.next[b]
}

func (ca *ChainAllocator) IsFree(b Block) bool {
	return ca.inRange(b) && ca.next[b] == BlockFree
}

// Chain lists the blocks reachable from `head` in order.
func (ca *ChainAllocator) Chain(head Block) []Block {
	var out []Block
	for b := head; ca.inRange(b) && ca.next[b] != BlockFree; b = ca.next[b] {
		if len(out) == len(ca.next) {
			// a longer walk can only be a cycle
			break
		}
		out = append(out, b)
	}
	return out
}

// FreeChain releases every block of the chain starting at `head` and returns
// how many blocks were released. Terminal markers and free blocks are no-ops.
func (ca *ChainAllocator) FreeChain(head Block) int {
	var n int
	for b := head; ca.inRange(b) && ca.next[b] != BlockFree; {
		next := ca.next[b]
		ca.next[b] = BlockFree
		ca.free++
		n++
		b = next
	}
	return n
}

func (ca *ChainAllocator) FreeCount() uint32 { return ca.free }

func (ca *ChainAllocator) Len() uint32 { return uint32(len(ca.next)) }

func (ca *ChainAllocator) Entries() []Block {
	out := make([]Block, len(ca.next))
	copy(out, ca.next)
	return out
}

// Load replaces the table with `entries`, which must have one entry per
// block.
func (ca *ChainAllocator) Load(entries []Block) error {
	if len(entries) != len(ca.next) {
		return fmt.Errorf(
			"loading chain table: wanted `%d` entries; found `%d`: %w",
			len(ca.next),
			len(entries),
			CorruptMetadataErr,
		)
	}
	var free uint32
	for i, next := range entries {
		if next != BlockFree && next != BlockNil && !ca.inRange(next) {
			return fmt.Errorf(
				"loading chain table: block `%d` points outside the data "+
					"region (`%d`): %w",
				i,
				next,
				CorruptMetadataErr,
			)
		}
		if next == BlockFree {
			free++
		}
	}
	copy(ca.next, entries)
	ca.free = free
	return nil
}

func (ca *ChainAllocator) inRange(b Block) bool {
	return b.Valid() && uint64(b) < uint64(len(ca.next))
}
