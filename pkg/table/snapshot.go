package table

import (
	"fmt"

	. "github.com/weberc2/blockfs/pkg/types"
)

// Export copies the records and child sets into `m`. Free slots stay nil.
func (t *Table) Export(m *Metadata) {
	m.Records = make([]*Record, len(t.records))
	for i, record := range t.records {
		if record != nil {
			clone := record.Clone()
			m.Records[i] = &clone
		}
	}
	m.Sets = make([][]RecordID, len(t.sets))
	for i, set := range t.sets {
		if set != nil {
			m.Sets[i] = make([]RecordID, len(set))
			copy(m.Sets[i], set)
		}
	}
}

// Restore rebuilds a table from a decoded snapshot and verifies it.
func Restore(m *Metadata) (*Table, error) {
	g := &m.Geometry
	if uint32(len(m.Records)) != g.MaxRecords ||
		uint32(len(m.Sets)) != g.MaxDirectories {
		return nil, fmt.Errorf(
			"restoring table: `%d` records and `%d` sets for geometry "+
				"`%d`/`%d`: %w",
			len(m.Records),
			len(m.Sets),
			g.MaxRecords,
			g.MaxDirectories,
			CorruptMetadataErr,
		)
	}

	t := New(g.MaxRecords, g.MaxDirectories, g.MaxChildren)
	for i, record := range m.Records {
		if record == nil {
			continue
		}
		clone := record.Clone()
		clone.ID = RecordID(i + 1)
		t.records[i] = &clone
		t.recordAlloc.Reserve(clone.ID)
	}
	for i, set := range m.Sets {
		if set == nil {
			if SetID(i) == SetRoot {
				return nil, fmt.Errorf(
					"restoring table: root set unused: %w",
					CorruptMetadataErr,
				)
			}
			continue
		}
		t.sets[i] = make([]RecordID, len(set))
		copy(t.sets[i], set)
		t.setAlloc.Reserve(SetID(i))
	}

	if err := t.Verify(); err != nil {
		return nil, fmt.Errorf("restoring table: %w: %w", CorruptMetadataErr, err)
	}
	return t, nil
}
