package store

import (
	"fmt"

	"github.com/weberc2/blockfs/pkg/encode"
	"github.com/weberc2/blockfs/pkg/io"
	. "github.com/weberc2/blockfs/pkg/types"
)

// MetadataStore persists the metadata snapshot of a volume.
type MetadataStore interface {
	Put(*Metadata) error
	Get(*Metadata) error
}

// VolumeMetadataStore keeps the metadata in the reserved region at the start
// of the volume.
type VolumeMetadataStore struct {
	Volume io.Volume
}

func (vms *VolumeMetadataStore) Put(m *Metadata) error {
	b := make([]byte, encode.NewLayout(&m.Geometry).Size)
	if err := encode.EncodeMetadata(m, b); err != nil {
		return fmt.Errorf("putting metadata: %w", err)
	}
	if err := vms.Volume.WriteAt(0, b); err != nil {
		return fmt.Errorf("putting metadata: %w", err)
	}
	return nil
}

func (vms *VolumeMetadataStore) Get(m *Metadata) error {
	var header [encode.HeaderSize]byte
	if err := vms.Volume.ReadAt(0, header[:]); err != nil {
		return fmt.Errorf("getting metadata: reading header: %w", err)
	}
	var (
		volumeID [16]byte
		g        Geometry
	)
	if err := encode.DecodeHeader(&volumeID, &g, &header); err != nil {
		return fmt.Errorf("getting metadata: %w", err)
	}

	size := encode.NewLayout(&g).Size
	if sized, ok := vms.Volume.(interface{ Len() Byte }); ok && sized.Len() < size {
		return fmt.Errorf(
			"getting metadata: %w: region needs %d bytes, volume has %d",
			CorruptMetadataErr,
			size,
			sized.Len(),
		)
	}
	b := make([]byte, size)
	if err := vms.Volume.ReadAt(0, b); err != nil {
		return fmt.Errorf("getting metadata: %w: %w", CorruptMetadataErr, err)
	}
	if err := encode.DecodeMetadata(m, b); err != nil {
		return fmt.Errorf("getting metadata: %w", err)
	}
	return nil
}

// NopMetadataStore keeps nothing; the metadata only lives in memory.
type NopMetadataStore struct{}

func (NopMetadataStore) Put(*Metadata) error { return nil }

func (NopMetadataStore) Get(*Metadata) error {
	return fmt.Errorf("getting metadata: %w", NotFoundErr)
}

var (
	_ MetadataStore = &VolumeMetadataStore{}
	_ MetadataStore = NopMetadataStore{}
)
