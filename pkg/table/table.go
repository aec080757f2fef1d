package table

import (
	"fmt"

	"github.com/weberc2/blockfs/pkg/alloc"
	. "github.com/weberc2/blockfs/pkg/types"
)

// Table is the bounded record table plus the per-directory child sets.
// Records are addressed by RecordID (slot + 1) and directories own a child
// set addressed by SetID. Deleted slots are cleared and handed back to the
// slot allocators, so live IDs never move.
type Table struct {
	records     []*Record
	sets        [][]RecordID
	recordAlloc alloc.RecordAllocator
	setAlloc    alloc.SetAllocator
	maxChildren uint32
}

func New(maxRecords, maxDirectories, maxChildren uint32) *Table {
	t := &Table{
		records:     make([]*Record, maxRecords),
		sets:        make([][]RecordID, maxDirectories),
		recordAlloc: alloc.NewRecordAllocator(maxRecords),
		setAlloc:    alloc.NewSetAllocator(maxDirectories),
		maxChildren: maxChildren,
	}
	t.sets[SetRoot] = []RecordID{}
	return t
}

// Get returns the live record `id`. The root sentinel has no record.
func (t *Table) Get(id RecordID) (*Record, bool) {
	if id == RecordRoot || uint64(id) > uint64(len(t.records)) {
		return nil, false
	}
	record := t.records[id-1]
	return record, record != nil
}

// Parent returns the parent of `id`; the root is its own parent.
func (t *Table) Parent(id RecordID) RecordID {
	if record, ok := t.Get(id); ok {
		return record.Parent
	}
	return RecordRoot
}

func (t *Table) Children(dir RecordID) ([]RecordID, error) {
	set, err := t.setOf(dir)
	if err != nil {
		return nil, fmt.Errorf("listing children of `%d`: %w", dir, err)
	}
	out := make([]RecordID, len(t.sets[set]))
	copy(out, t.sets[set])
	return out, nil
}

// Find looks `name` up among the direct children of `dir`. Matching is exact
// and case-sensitive.
func (t *Table) Find(dir RecordID, name string) (RecordID, error) {
	set, err := t.setOf(dir)
	if err != nil {
		return RecordRoot, fmt.Errorf(
			"looking up `%s` in dir `%d`: %w",
			name,
			dir,
			err,
		)
	}
	for _, id := range t.sets[set] {
		if t.records[id-1].Name == name {
			return id, nil
		}
	}
	return RecordRoot, fmt.Errorf(
		"looking up `%s` in dir `%d`: %w",
		name,
		dir,
		NotFoundErr,
	)
}

// Insert adds a copy of `record` to `dir` and returns its new ID. The
// record's ID and Parent are assigned here and a directory body gets a fresh
// empty child set. Nothing changes on error.
func (t *Table) Insert(dir RecordID, record *Record) (RecordID, error) {
	if err := ValidateName(record.Name); err != nil {
		return RecordRoot, fmt.Errorf("inserting into dir `%d`: %w", dir, err)
	}
	if record.Body == nil {
		return RecordRoot, fmt.Errorf(
			"inserting `%s` into dir `%d`: %w",
			record.Name,
			dir,
			InvalidFileTypeErr,
		)
	}

	set, err := t.setOf(dir)
	if err != nil {
		return RecordRoot, fmt.Errorf(
			"inserting `%s` into dir `%d`: %w",
			record.Name,
			dir,
			err,
		)
	}

	if _, err := t.Find(dir, record.Name); err == nil {
		return RecordRoot, fmt.Errorf(
			"inserting `%s` into dir `%d`: %w",
			record.Name,
			dir,
			AlreadyExistsErr,
		)
	}

	if uint32(len(t.sets[set])) >= t.maxChildren {
		return RecordRoot, fmt.Errorf(
			"inserting `%s` into dir `%d`: `%d` children: %w",
			record.Name,
			dir,
			len(t.sets[set]),
			DirectoryFullErr,
		)
	}

	id, ok := t.recordAlloc.Alloc()
	if !ok {
		return RecordRoot, fmt.Errorf(
			"inserting `%s` into dir `%d`: `%d` records: %w",
			record.Name,
			dir,
			len(t.records),
			TableFullErr,
		)
	}

	stored := record.Clone()
	stored.ID = id
	stored.Parent = dir
	if body, ok := stored.Body.(*DirBody); ok {
		childSet, ok := t.setAlloc.Alloc()
		if !ok {
			t.recordAlloc.Free(id)
			return RecordRoot, fmt.Errorf(
				"inserting `%s` into dir `%d`: `%d` directories: %w",
				record.Name,
				dir,
				len(t.sets),
				TableFullErr,
			)
		}
		body.Set = childSet
		t.sets[childSet] = []RecordID{}
	}

	t.records[id-1] = &stored
	t.sets[set] = append(t.sets[set], id)
	return id, nil
}

// CheckRoom reports whether `dir` and the table have room for one more
// record, and for one more child set when `isDir` is set. Nothing changes.
func (t *Table) CheckRoom(dir RecordID, isDir bool) error {
	set, err := t.setOf(dir)
	if err != nil {
		return fmt.Errorf("checking room in dir `%d`: %w", dir, err)
	}
	if uint32(len(t.sets[set])) >= t.maxChildren {
		return fmt.Errorf(
			"checking room in dir `%d`: `%d` children: %w",
			dir,
			len(t.sets[set]),
			DirectoryFullErr,
		)
	}
	if t.recordAlloc.Used() >= t.recordAlloc.Len() {
		return fmt.Errorf(
			"checking room in dir `%d`: `%d` records: %w",
			dir,
			t.recordAlloc.Len(),
			TableFullErr,
		)
	}
	if isDir && t.setAlloc.Used() >= t.setAlloc.Len() {
		return fmt.Errorf(
			"checking room in dir `%d`: `%d` directories: %w",
			dir,
			t.setAlloc.Len(),
			TableFullErr,
		)
	}
	return nil
}

// Remove detaches `id` from `dir` and clears its slot. Directories must be
// empty. Blocks owned by the record are the caller's to release.
func (t *Table) Remove(dir, id RecordID) error {
	set, err := t.setOf(dir)
	if err != nil {
		return fmt.Errorf("removing `%d` from dir `%d`: %w", id, dir, err)
	}

	idx := -1
	for i, child := range t.sets[set] {
		if child == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf(
			"removing `%d` from dir `%d`: %w",
			id,
			dir,
			NotFoundErr,
		)
	}

	record := t.records[id-1]
	if body, ok := record.Body.(*DirBody); ok {
		if len(t.sets[body.Set]) > 0 {
			return fmt.Errorf(
				"removing `%s` from dir `%d`: %w",
				record.Name,
				dir,
				DirNotEmptyErr,
			)
		}
		t.sets[body.Set] = nil
		t.setAlloc.Free(body.Set)
	}

	children := t.sets[set]
	copy(children[idx:], children[idx+1:])
	t.sets[set] = children[:len(children)-1]
	t.records[id-1] = nil
	t.recordAlloc.Free(id)
	return nil
}

// Rename changes the name of `id`, a child of `dir`.
func (t *Table) Rename(dir, id RecordID, name string) error {
	if err := ValidateName(name); err != nil {
		return fmt.Errorf("renaming `%d` in dir `%d`: %w", id, dir, err)
	}
	record, ok := t.Get(id)
	if !ok || record.Parent != dir {
		return fmt.Errorf(
			"renaming `%d` in dir `%d`: %w",
			id,
			dir,
			NotFoundErr,
		)
	}
	if other, err := t.Find(dir, name); err == nil && other != id {
		return fmt.Errorf(
			"renaming `%s` to `%s` in dir `%d`: %w",
			record.Name,
			name,
			dir,
			AlreadyExistsErr,
		)
	}
	record.Name = name
	return nil
}

// Len is the number of live records.
func (t *Table) Len() int { return int(t.recordAlloc.Used()) }

func (t *Table) Cap() int { return int(t.recordAlloc.Len()) }

// Directories is the number of child sets in use, including the root's.
func (t *Table) Directories() int { return int(t.setAlloc.Used()) }

func (t *Table) MaxDirectories() int { return int(t.setAlloc.Len()) }

func (t *Table) MaxChildren() uint32 { return t.maxChildren }

func (t *Table) setOf(dir RecordID) (SetID, error) {
	if dir == RecordRoot {
		return SetRoot, nil
	}
	record, ok := t.Get(dir)
	if !ok {
		return SetRoot, fmt.Errorf("dir `%d`: %w", dir, NotFoundErr)
	}
	body, ok := record.Body.(*DirBody)
	if !ok {
		return SetRoot, fmt.Errorf("`%s`: %w", record.Name, NotADirErr)
	}
	return body.Set, nil
}
