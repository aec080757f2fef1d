package alloc

import (
	"testing"

	. "github.com/weberc2/blockfs/pkg/types"
)

func TestBitmap(t *testing.T) {
	bm := New(10)
	for i := uint64(0); i < 10; i++ {
		found, ok := bm.Alloc()
		if !ok {
			t.Fatalf("Alloc() #%d: unexpected exhaustion", i)
		}
		if found != i {
			t.Fatalf("Alloc() #%d: wanted `%d`; found `%d`", i, i, found)
		}
	}

	// the remaining six bits of the second byte are padding
	if found, ok := bm.Alloc(); ok {
		t.Fatalf("Alloc(): wanted exhaustion; found `%d`", found)
	}

	bm.Free(3)
	if bm.IsSet(3) {
		t.Fatal("IsSet(3): wanted `false` after Free(3)")
	}
	if found, ok := bm.Alloc(); !ok || found != 3 {
		t.Fatalf("Alloc(): wanted `3`; found `%d` (ok=%t)", found, ok)
	}
	if used := bm.Used(); used != 10 {
		t.Fatalf("Used(): wanted `10`; found `%d`", used)
	}
	if n := bm.Len(); n != 10 {
		t.Fatalf("Len(): wanted `10`; found `%d`", n)
	}
}

func TestRecordAllocator(t *testing.T) {
	ra := NewRecordAllocator(2)
	first, ok := ra.Alloc()
	if !ok || first != 1 {
		t.Fatalf("Alloc(): wanted `1`; found `%d` (ok=%t)", first, ok)
	}
	second, ok := ra.Alloc()
	if !ok || second != 2 {
		t.Fatalf("Alloc(): wanted `2`; found `%d` (ok=%t)", second, ok)
	}
	if id, ok := ra.Alloc(); ok {
		t.Fatalf("Alloc(): wanted exhaustion; found `%d`", id)
	}
	if ra.IsSet(RecordRoot) {
		t.Fatal("IsSet(RecordRoot): the root sentinel is never a slot")
	}
	ra.Free(first)
	if id, ok := ra.Alloc(); !ok || id != first {
		t.Fatalf("Alloc(): wanted reuse of `%d`; found `%d`", first, id)
	}
}

func TestSetAllocator(t *testing.T) {
	sa := NewSetAllocator(3)
	if !sa.IsSet(SetRoot) {
		t.Fatal("IsSet(SetRoot): wanted the root set to be reserved")
	}
	set, ok := sa.Alloc()
	if !ok || set != 1 {
		t.Fatalf("Alloc(): wanted `1`; found `%d` (ok=%t)", set, ok)
	}
	sa.Free(SetRoot)
	if !sa.IsSet(SetRoot) {
		t.Fatal("Free(SetRoot): the root set must never be released")
	}
}
