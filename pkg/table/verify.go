package table

import (
	"fmt"

	. "github.com/weberc2/blockfs/pkg/types"
)

const InconsistentErr ConstError = "inconsistent table"

// Verify checks the structural invariants of the table:
//
// * every child listed in a set is a live record whose parent owns the set
// * every live record is listed exactly once, in its parent's set
// * sibling names are unique
// * each used set is owned by the root or by exactly one live directory
// * the slot bitmaps agree with the slots
func (t *Table) Verify() error {
	owners := make([]RecordID, len(t.sets))
	owned := make([]bool, len(t.sets))
	owned[SetRoot] = true
	owners[SetRoot] = RecordRoot

	for i, record := range t.records {
		id := RecordID(i + 1)
		if t.recordAlloc.IsSet(id) != (record != nil) {
			return inconsistent("record slot `%d` disagrees with its bitmap", id)
		}
		if record == nil {
			continue
		}
		if record.ID != id {
			return inconsistent("record slot `%d` holds id `%d`", id, record.ID)
		}
		if err := ValidateName(record.Name); err != nil {
			return fmt.Errorf("verifying record `%d`: %w", id, err)
		}
		body, ok := record.Body.(*DirBody)
		if !ok {
			continue
		}
		if body.Set == SetRoot || int(body.Set) >= len(t.sets) {
			return inconsistent("dir `%d` owns invalid set `%d`", id, body.Set)
		}
		if owned[body.Set] {
			return inconsistent("set `%d` has more than one owner", body.Set)
		}
		owned[body.Set] = true
		owners[body.Set] = id
	}

	listed := make([]bool, len(t.records))
	for i, set := range t.sets {
		s := SetID(i)
		if t.setAlloc.IsSet(s) != (set != nil) {
			return inconsistent("set slot `%d` disagrees with its bitmap", s)
		}
		if set == nil {
			if owned[s] {
				return inconsistent("set `%d` is owned but unused", s)
			}
			continue
		}
		if !owned[s] {
			return inconsistent("set `%d` is used but unowned", s)
		}
		if uint32(len(set)) > t.maxChildren {
			return inconsistent("set `%d` has `%d` children", s, len(set))
		}
		names := make(map[string]struct{}, len(set))
		for _, child := range set {
			record, ok := t.Get(child)
			if !ok {
				return inconsistent("set `%d` lists dead record `%d`", s, child)
			}
			if record.Parent != owners[s] {
				return inconsistent(
					"record `%d` listed in set of `%d` but parented by `%d`",
					child,
					owners[s],
					record.Parent,
				)
			}
			if listed[child-1] {
				return inconsistent("record `%d` listed twice", child)
			}
			listed[child-1] = true
			if _, dup := names[record.Name]; dup {
				return inconsistent(
					"duplicate name `%s` in set `%d`",
					record.Name,
					s,
				)
			}
			names[record.Name] = struct{}{}
		}
	}

	for i, record := range t.records {
		if record != nil && !listed[i] {
			return inconsistent("record `%d` is orphaned", record.ID)
		}
	}
	return nil
}

func inconsistent(format string, args ...interface{}) error {
	return fmt.Errorf(
		"verifying table: %s: %w",
		fmt.Sprintf(format, args...),
		InconsistentErr,
	)
}
