package encode

import (
	"fmt"

	. "github.com/weberc2/blockfs/pkg/types"
)

func ChildSetSize(maxChildren uint32) Byte {
	return childSetIDsStart + Byte(maxChildren)*recordIDSize
}

// EncodeChildSet writes `set` into a child-set slot of
// `ChildSetSize(maxChildren)` bytes. A nil set encodes an unused slot.
func EncodeChildSet(set []RecordID, maxChildren uint32, b []byte) error {
	for i := range b {
		b[i] = 0
	}
	if set == nil {
		return nil
	}
	if uint32(len(set)) > maxChildren {
		return fmt.Errorf(
			"encoding child set: `%d` children exceed capacity `%d`: %w",
			len(set),
			maxChildren,
			DirectoryFullErr,
		)
	}
	putU8(b, childSetUsedStart, 1)
	putU32(b, childSetCountStart, uint32(len(set)))
	for i, id := range set {
		putU32(b, childSetIDsStart+Byte(i)*recordIDSize, uint32(id))
	}
	return nil
}

// DecodeChildSet reads a child-set slot; an unused slot decodes to nil and a
// used, empty one to an empty non-nil slice.
func DecodeChildSet(maxChildren uint32, b []byte) ([]RecordID, error) {
	if getU8(b, childSetUsedStart) == 0 {
		return nil, nil
	}
	count := getU32(b, childSetCountStart)
	if count > maxChildren {
		return nil, fmt.Errorf(
			"decoding child set: count `%d` exceeds capacity `%d`: %w",
			count,
			maxChildren,
			CorruptMetadataErr,
		)
	}
	set := make([]RecordID, count)
	for i := range set {
		set[i] = RecordID(getU32(b, childSetIDsStart+Byte(i)*recordIDSize))
	}
	return set, nil
}

const (
	recordIDSize Byte = 4

	childSetUsedStart = 0
	childSetUsedSize  = 1
	childSetUsedEnd   = childSetUsedStart + childSetUsedSize

	childSetCountStart = childSetUsedEnd
	childSetCountSize  = 4
	childSetCountEnd   = childSetCountStart + childSetCountSize

	childSetIDsStart Byte = childSetCountEnd
)
