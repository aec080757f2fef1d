package encode

import (
	"fmt"

	. "github.com/weberc2/blockfs/pkg/types"
)

// EncodeMetadata writes the whole metadata region. `b` must be at least
// `NewLayout(&m.Geometry).Size` bytes.
func EncodeMetadata(m *Metadata, b []byte) error {
	g := &m.Geometry
	layout := NewLayout(g)
	if Byte(len(b)) < layout.Size {
		return fmt.Errorf(
			"encoding metadata: region of `%d` bytes; need `%d`: %w",
			len(b),
			layout.Size,
			ArenaTooSmallErr,
		)
	}
	if uint32(len(m.Chain)) != g.Blocks ||
		uint32(len(m.Records)) != g.MaxRecords ||
		uint32(len(m.Sets)) != g.MaxDirectories {
		return fmt.Errorf(
			"encoding metadata: tables (`%d` chain entries, `%d` records, "+
				"`%d` sets) do not match geometry: %w",
			len(m.Chain),
			len(m.Records),
			len(m.Sets),
			InvalidGeometryErr,
		)
	}

	EncodeHeader(&m.VolumeID, g, (*[HeaderSize]byte)(b[:HeaderSize]))

	for i, next := range m.Chain {
		putU32(b, layout.ChainOffset+Byte(i)*ChainEntrySize, uint32(next))
	}

	for i, record := range m.Records {
		start := layout.RecordsOffset + Byte(i)*RecordSize
		EncodeRecord(record, (*[RecordSize]byte)(b[start:start+RecordSize]))
	}

	for i, set := range m.Sets {
		start := layout.SetsOffset + Byte(i)*layout.SetSize
		if err := EncodeChildSet(
			set,
			g.MaxChildren,
			b[start:start+layout.SetSize],
		); err != nil {
			return fmt.Errorf("encoding metadata: set `%d`: %w", i, err)
		}
	}

	return nil
}

// DecodeMetadata reads a metadata region written by EncodeMetadata. `m` is
// only modified on success.
func DecodeMetadata(m *Metadata, b []byte) error {
	if Byte(len(b)) < HeaderSize {
		return fmt.Errorf(
			"decoding metadata: region of `%d` bytes is smaller than the "+
				"header: %w",
			len(b),
			CorruptMetadataErr,
		)
	}

	var tmp Metadata
	if err := DecodeHeader(
		&tmp.VolumeID,
		&tmp.Geometry,
		(*[HeaderSize]byte)(b[:HeaderSize]),
	); err != nil {
		return fmt.Errorf("decoding metadata: %w", err)
	}

	g := &tmp.Geometry
	layout := NewLayout(g)
	if Byte(len(b)) < layout.Size {
		return fmt.Errorf(
			"decoding metadata: region of `%d` bytes; geometry needs `%d`: %w",
			len(b),
			layout.Size,
			CorruptMetadataErr,
		)
	}

	tmp.Chain = make([]Block, g.Blocks)
	for i := range tmp.Chain {
		tmp.Chain[i] = Block(getU32(b, layout.ChainOffset+Byte(i)*ChainEntrySize))
	}

	tmp.Records = make([]*Record, g.MaxRecords)
	for i := range tmp.Records {
		start := layout.RecordsOffset + Byte(i)*RecordSize
		record := Record{ID: RecordID(i + 1)}
		used, err := DecodeRecord(
			&record,
			(*[RecordSize]byte)(b[start:start+RecordSize]),
		)
		if err != nil {
			return fmt.Errorf("decoding metadata: record `%d`: %w", i+1, err)
		}
		if used {
			tmp.Records[i] = &record
		}
	}

	tmp.Sets = make([][]RecordID, g.MaxDirectories)
	for i := range tmp.Sets {
		start := layout.SetsOffset + Byte(i)*layout.SetSize
		set, err := DecodeChildSet(g.MaxChildren, b[start:start+layout.SetSize])
		if err != nil {
			return fmt.Errorf("decoding metadata: set `%d`: %w", i, err)
		}
		tmp.Sets[i] = set
	}

	*m = tmp
	return nil
}
