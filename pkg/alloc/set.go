package alloc

import . "github.com/weberc2/blockfs/pkg/types"

// SetAllocator hands out child-set slots. Slot 0 is reserved for the root
// directory at construction.
type SetAllocator struct {
	Allocator
}

func NewSetAllocator(maxDirectories uint32) SetAllocator {
	sa := SetAllocator{New(uint64(maxDirectories))}
	sa.Reserve(SetRoot)
	return sa
}

func (sa SetAllocator) Alloc() (SetID, bool) {
	if set, ok := sa.Allocator.Alloc(); ok {
		return SetID(set), true
	}
	return SetRoot, false
}

func (sa SetAllocator) Free(set SetID) {
	if set == SetRoot {
		return
	}
	sa.Allocator.Free(uint64(set))
}

func (sa SetAllocator) Reserve(set SetID) {
	sa.Allocator.Reserve(uint64(set))
}

func (sa SetAllocator) IsSet(set SetID) bool {
	return sa.Allocator.IsSet(uint64(set))
}
