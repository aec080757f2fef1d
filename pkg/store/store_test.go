package store

import (
	"errors"
	"reflect"
	"testing"

	"github.com/weberc2/blockfs/pkg/encode"
	"github.com/weberc2/blockfs/pkg/io"
	. "github.com/weberc2/blockfs/pkg/types"
)

func TestVolumeMetadataStore(t *testing.T) {
	m := Metadata{
		VolumeID: [16]byte{0xde, 0xad, 0xbe, 0xef},
		Geometry: Geometry{
			BlockSize:      8,
			Blocks:         3,
			MaxRecords:     2,
			MaxDirectories: 1,
			MaxChildren:    2,
			MaxFileSize:    24,
		},
		Chain: []Block{1, BlockNil, BlockFree},
		Records: []*Record{nil, {
			ID:   2,
			Attr: Attr{Name: "a", Size: 9, Perm: PermRead},
			Body: &FileBody{Head: 0},
		}},
		Sets: [][]RecordID{{2}},
	}

	arena := make([]byte, encode.NewLayout(&m.Geometry).Size+24)
	vms := VolumeMetadataStore{Volume: io.NewBuffer(arena)}
	if err := vms.Put(&m); err != nil {
		t.Fatalf("Put(): unexpected err: %v", err)
	}

	var found Metadata
	if err := vms.Get(&found); err != nil {
		t.Fatalf("Get(): unexpected err: %v", err)
	}
	if found.Geometry != m.Geometry {
		t.Fatalf("wanted `%+v`; found `%+v`", m.Geometry, found.Geometry)
	}
	if !reflect.DeepEqual(found.Chain, m.Chain) {
		t.Fatalf("wanted `%v`; found `%v`", m.Chain, found.Chain)
	}
	if r := found.Records[1]; r == nil || r.Name != "a" || r.Size != 9 {
		t.Fatalf("wanted record `a`; found `%+v`", r)
	}
}

func TestVolumeMetadataStore_Unformatted(t *testing.T) {
	vms := VolumeMetadataStore{Volume: io.NewBuffer(make([]byte, 1024))}
	var m Metadata
	if err := vms.Get(&m); !errors.Is(err, CorruptMetadataErr) {
		t.Fatalf("wanted `%v`; found `%v`", CorruptMetadataErr, err)
	}
}

func TestNopMetadataStore(t *testing.T) {
	var m Metadata
	if err := (NopMetadataStore{}).Put(&m); err != nil {
		t.Fatalf("Put(): unexpected err: %v", err)
	}
	if err := (NopMetadataStore{}).Get(&m); !errors.Is(err, NotFoundErr) {
		t.Fatalf("wanted `%v`; found `%v`", NotFoundErr, err)
	}
}
