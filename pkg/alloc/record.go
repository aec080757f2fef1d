package alloc

import . "github.com/weberc2/blockfs/pkg/types"

// RecordAllocator hands out record IDs. ID 0 is the root sentinel, so slot
// `n` is record `n+1`.
type RecordAllocator struct {
	Allocator
}

func NewRecordAllocator(maxRecords uint32) RecordAllocator {
	return RecordAllocator{New(uint64(maxRecords))}
}

func (ra RecordAllocator) Alloc() (RecordID, bool) {
	if id, ok := ra.Allocator.Alloc(); ok {
		return RecordID(id + 1), true
	}
	return RecordRoot, false
}

func (ra RecordAllocator) Free(id RecordID) {
	ra.Allocator.Free(uint64(id) - 1)
}

func (ra RecordAllocator) Reserve(id RecordID) {
	ra.Allocator.Reserve(uint64(id) - 1)
}

func (ra RecordAllocator) IsSet(id RecordID) bool {
	if id == RecordRoot {
		return false
	}
	return ra.Allocator.IsSet(uint64(id) - 1)
}
