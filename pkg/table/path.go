package table

import (
	"fmt"
	"strings"

	. "github.com/weberc2/blockfs/pkg/types"
)

// Path renders the absolute path of `id`. The root is "/".
func (t *Table) Path(id RecordID) string {
	var segments []string
	for cur, hops := id, 0; cur != RecordRoot && hops < len(t.records); hops++ {
		record, ok := t.Get(cur)
		if !ok {
			break
		}
		segments = append(segments, "/"+record.Name)
		cur = record.Parent
	}
	if len(segments) < 1 {
		return "/"
	}

	var sb strings.Builder
	for i := len(segments) - 1; i >= 0; i-- {
		sb.WriteString(segments[i])
	}
	return sb.String()
}

// Resolve walks `path` starting from `cwd` and returns the directory it
// names. Absolute paths start at the root. `.` and empty segments are
// skipped and `..` climbs to the parent (the root's parent is the root).
func (t *Table) Resolve(cwd RecordID, path string) (RecordID, error) {
	cur := cwd
	if strings.HasPrefix(path, "/") {
		cur = RecordRoot
	}
	for _, segment := range strings.Split(path, "/") {
		switch segment {
		case "", ".":
			continue
		case "..":
			cur = t.Parent(cur)
			continue
		}
		id, err := t.Find(cur, segment)
		if err != nil {
			return cwd, fmt.Errorf("resolving `%s`: %w", path, err)
		}
		if record, _ := t.Get(id); !record.IsDir() {
			return cwd, fmt.Errorf(
				"resolving `%s`: `%s`: %w",
				path,
				segment,
				NotADirErr,
			)
		}
		cur = id
	}
	return cur, nil
}
