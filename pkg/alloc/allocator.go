package alloc

type Allocator interface {
	Alloc() (uint64, bool)
	Reserve(uint64)
	Free(uint64)
	IsSet(uint64) bool
	Used() uint64
	Len() uint64
}

var _ Allocator = Bitmap{}
