package encode

import (
	"fmt"
	"time"

	"github.com/weberc2/blockfs/pkg/math"
	. "github.com/weberc2/blockfs/pkg/types"
)

// EncodeRecord writes `record` into a record slot. A nil record encodes a
// free slot (all zeros).
func EncodeRecord(record *Record, b *[RecordSize]byte) {
	p := b[:]
	if record == nil {
		for i := range p {
			p[i] = 0
		}
		return
	}

	var content uint32
	switch body := record.Body.(type) {
	case *FileBody:
		content = uint32(body.Head)
	case *DirBody:
		content = uint32(body.Set)
	}

	nameLen := math.Min(len(record.Name), int(NameSize))
	putU8(p, recordKindStart, uint8(record.FileType()))
	putU8(p, recordPermStart, uint8(record.Perm))
	putU8(p, recordNameLenStart, uint8(nameLen))
	name := p[recordNameStart:recordNameEnd]
	copy(name, record.Name[:nameLen])
	for i := nameLen; i < len(name); i++ {
		name[i] = 0
	}
	putU64(p, recordSizeStart, uint64(record.Size))
	putI64(p, recordCreatedStart, record.Created.UnixNano())
	putI64(p, recordModifiedStart, record.Modified.UnixNano())
	putU32(p, recordParentStart, uint32(record.Parent))
	putU32(p, recordContentStart, content)
}

// DecodeRecord reads a record slot. It reports `false` for a free slot.
func DecodeRecord(record *Record, b *[RecordSize]byte) (bool, error) {
	p := b[:]
	// NB: kind 0 (FileTypeInvalid) is how a tombstoned slot looks, so it is
	// not an error here.
	kind := FileType(getU8(p, recordKindStart))
	if kind == FileTypeInvalid {
		return false, nil
	}
	if err := kind.Validate(); err != nil {
		return false, fmt.Errorf("decoding record: %w: %w", CorruptMetadataErr, err)
	}

	nameLen := Byte(getU8(p, recordNameLenStart))
	if nameLen == 0 || nameLen > NameSize {
		return false, fmt.Errorf(
			"decoding record: name length `%d`: %w",
			nameLen,
			CorruptMetadataErr,
		)
	}

	content := getU32(p, recordContentStart)
	var body Body
	if kind == FileTypeDir {
		body = &DirBody{Set: SetID(content)}
	} else {
		body = &FileBody{Head: Block(content)}
	}

	*record = Record{
		ID: record.ID,
		Attr: Attr{
			Name:     string(p[recordNameStart : recordNameStart+nameLen]),
			Size:     Byte(getU64(p, recordSizeStart)),
			Created:  time.Unix(0, getI64(p, recordCreatedStart)),
			Modified: time.Unix(0, getI64(p, recordModifiedStart)),
			Perm:     Perm(getU8(p, recordPermStart)) & PermAll,
			Parent:   RecordID(getU32(p, recordParentStart)),
		},
		Body: body,
	}
	return true, nil
}

const (
	recordKindStart = 0
	recordKindSize  = 1
	recordKindEnd   = recordKindStart + recordKindSize

	recordPermStart = recordKindEnd
	recordPermSize  = 1
	recordPermEnd   = recordPermStart + recordPermSize

	recordNameLenStart = recordPermEnd
	recordNameLenSize  = 1
	recordNameLenEnd   = recordNameLenStart + recordNameLenSize

	recordNameStart = recordNameLenEnd
	recordNameSize  = NameSize
	recordNameEnd   = recordNameStart + recordNameSize

	recordSizeStart = recordNameEnd
	recordSizeSize  = 8
	recordSizeEnd   = recordSizeStart + recordSizeSize

	recordCreatedStart = recordSizeEnd
	recordCreatedSize  = 8
	recordCreatedEnd   = recordCreatedStart + recordCreatedSize

	recordModifiedStart = recordCreatedEnd
	recordModifiedSize  = 8
	recordModifiedEnd   = recordModifiedStart + recordModifiedSize

	recordParentStart = recordModifiedEnd
	recordParentSize  = 4
	recordParentEnd   = recordParentStart + recordParentSize

	recordContentStart = recordParentEnd
	recordContentSize  = 4
	recordContentEnd   = recordContentStart + recordContentSize

	RecordSize Byte = recordContentEnd
)
