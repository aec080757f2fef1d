package table

import (
	"errors"
	"reflect"
	"testing"

	. "github.com/weberc2/blockfs/pkg/types"
)

func file(name string) *Record {
	return &Record{Attr: Attr{Name: name, Perm: PermAll}, Body: &FileBody{}}
}

func dir(name string) *Record {
	return &Record{Attr: Attr{Name: name, Perm: PermAll}, Body: &DirBody{}}
}

func mustInsert(t *testing.T, table *Table, parent RecordID, r *Record) RecordID {
	t.Helper()
	id, err := table.Insert(parent, r)
	if err != nil {
		t.Fatalf("inserting `%s`: unexpected err: %v", r.Name, err)
	}
	return id
}

func verify(t *testing.T, table *Table) {
	t.Helper()
	if err := table.Verify(); err != nil {
		t.Fatalf("verifying table: %v", err)
	}
}

func TestInsert(t *testing.T) {
	for _, testCase := range []struct {
		name    string
		setup   func(*Table)
		parent  RecordID
		record  *Record
		wantErr error
	}{
		{
			name:   "file-in-root",
			parent: RecordRoot,
			record: file("a"),
		},
		{
			name:    "duplicate",
			setup:   func(tb *Table) { tb.Insert(RecordRoot, dir("a")) },
			parent:  RecordRoot,
			record:  file("a"),
			wantErr: AlreadyExistsErr,
		},
		{
			name:    "name-too-long",
			parent:  RecordRoot,
			record:  file("abcdefghijklmnopqrstuvwxyz0123456"),
			wantErr: NameTooLongErr,
		},
		{
			name:    "invalid-name",
			parent:  RecordRoot,
			record:  file(".."),
			wantErr: InvalidNameErr,
		},
		{
			name: "directory-full",
			setup: func(tb *Table) {
				tb.Insert(RecordRoot, file("a"))
				tb.Insert(RecordRoot, file("b"))
			},
			parent:  RecordRoot,
			record:  file("c"),
			wantErr: DirectoryFullErr,
		},
		{
			name: "record-table-full",
			setup: func(tb *Table) {
				d, _ := tb.Insert(RecordRoot, dir("d"))
				tb.Insert(d, file("a"))
				tb.Insert(d, file("b"))
			},
			parent:  RecordRoot,
			record:  file("c"),
			wantErr: TableFullErr,
		},
		{
			name: "set-table-full",
			setup: func(tb *Table) {
				tb.Insert(RecordRoot, dir("d"))
			},
			parent:  RecordRoot,
			record:  dir("e"),
			wantErr: TableFullErr,
		},
		{
			name:    "parent-is-file",
			setup:   func(tb *Table) { tb.Insert(RecordRoot, file("f")) },
			parent:  1,
			record:  file("g"),
			wantErr: NotADirErr,
		},
		{
			name:    "parent-missing",
			parent:  2,
			record:  file("g"),
			wantErr: NotFoundErr,
		},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			table := New(3, 2, 2)
			if testCase.setup != nil {
				testCase.setup(table)
			}
			before := snapshot(table)

			id, err := table.Insert(testCase.parent, testCase.record)
			if testCase.wantErr != nil {
				if !errors.Is(err, testCase.wantErr) {
					t.Fatalf(
						"wanted error `%v`; found `%v`",
						testCase.wantErr,
						err,
					)
				}
				if after := snapshot(table); !reflect.DeepEqual(before, after) {
					t.Fatalf("failed insert modified the table")
				}
				verify(t, table)
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}

			found, err := table.Find(testCase.parent, testCase.record.Name)
			if err != nil {
				t.Fatalf("finding inserted record: %v", err)
			}
			if found != id {
				t.Fatalf("wanted id `%d`; found `%d`", id, found)
			}
			verify(t, table)
		})
	}
}

func snapshot(table *Table) Metadata {
	var m Metadata
	table.Export(&m)
	return m
}

func TestFind_IsExactAndDirect(t *testing.T) {
	table := New(8, 4, 8)
	a := mustInsert(t, table, RecordRoot, dir("a"))
	mustInsert(t, table, a, file("nested"))

	if _, err := table.Find(RecordRoot, "nested"); !errors.Is(err, NotFoundErr) {
		t.Fatalf("wanted `%v`; found `%v`", NotFoundErr, err)
	}
	if _, err := table.Find(RecordRoot, "A"); !errors.Is(err, NotFoundErr) {
		t.Fatalf("wanted `%v`; found `%v`", NotFoundErr, err)
	}
}

func TestRemove(t *testing.T) {
	table := New(4, 2, 4)
	a := mustInsert(t, table, RecordRoot, dir("a"))
	f := mustInsert(t, table, a, file("f"))

	if err := table.Remove(RecordRoot, a); !errors.Is(err, DirNotEmptyErr) {
		t.Fatalf("wanted `%v`; found `%v`", DirNotEmptyErr, err)
	}
	if err := table.Remove(RecordRoot, f); !errors.Is(err, NotFoundErr) {
		t.Fatalf("wanted `%v`; found `%v`", NotFoundErr, err)
	}
	if err := table.Remove(a, f); err != nil {
		t.Fatalf("removing file: %v", err)
	}
	if err := table.Remove(RecordRoot, a); err != nil {
		t.Fatalf("removing dir: %v", err)
	}
	verify(t, table)

	if n := table.Len(); n != 0 {
		t.Fatalf("wanted `0` records; found `%d`", n)
	}
	if n := table.Directories(); n != 1 {
		t.Fatalf("wanted `1` directory; found `%d`", n)
	}

	// freed slots are handed out again, lowest first
	if id := mustInsert(t, table, RecordRoot, dir("b")); id != a {
		t.Fatalf("wanted reused id `%d`; found `%d`", a, id)
	}
	verify(t, table)
}

func TestRemove_PreservesSiblingOrder(t *testing.T) {
	table := New(4, 1, 4)
	a := mustInsert(t, table, RecordRoot, file("a"))
	b := mustInsert(t, table, RecordRoot, file("b"))
	c := mustInsert(t, table, RecordRoot, file("c"))

	if err := table.Remove(RecordRoot, b); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	children, err := table.Children(RecordRoot)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if wanted := []RecordID{a, c}; !reflect.DeepEqual(wanted, children) {
		t.Fatalf("wanted `%v`; found `%v`", wanted, children)
	}
}

func TestRename(t *testing.T) {
	table := New(4, 1, 4)
	a := mustInsert(t, table, RecordRoot, file("a"))
	mustInsert(t, table, RecordRoot, file("b"))

	if err := table.Rename(RecordRoot, a, "b"); !errors.Is(err, AlreadyExistsErr) {
		t.Fatalf("wanted `%v`; found `%v`", AlreadyExistsErr, err)
	}
	if err := table.Rename(RecordRoot, a, "a"); err != nil {
		t.Fatalf("renaming to same name: %v", err)
	}
	if err := table.Rename(RecordRoot, a, "c"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := table.Find(RecordRoot, "c"); err != nil {
		t.Fatalf("finding renamed record: %v", err)
	}
	verify(t, table)
}

func TestPath(t *testing.T) {
	table := New(4, 4, 4)
	a := mustInsert(t, table, RecordRoot, dir("a"))
	b := mustInsert(t, table, a, dir("b"))

	for _, testCase := range []struct {
		id   RecordID
		want string
	}{
		{id: RecordRoot, want: "/"},
		{id: a, want: "/a"},
		{id: b, want: "/a/b"},
	} {
		if found := table.Path(testCase.id); found != testCase.want {
			t.Fatalf("wanted `%s`; found `%s`", testCase.want, found)
		}
	}
}

func TestResolve(t *testing.T) {
	table := New(8, 4, 4)
	a := mustInsert(t, table, RecordRoot, dir("a"))
	b := mustInsert(t, table, a, dir("b"))
	mustInsert(t, table, a, file("f"))

	for _, testCase := range []struct {
		name    string
		cwd     RecordID
		path    string
		want    RecordID
		wantErr error
	}{
		{name: "absolute", cwd: b, path: "/a", want: a},
		{name: "relative", cwd: RecordRoot, path: "a/b", want: b},
		{name: "dotdot", cwd: b, path: "..", want: a},
		{name: "root-dotdot", cwd: RecordRoot, path: "..", want: RecordRoot},
		{name: "dot", cwd: a, path: "./b/.", want: b},
		{name: "root", cwd: b, path: "/", want: RecordRoot},
		{name: "missing", cwd: a, path: "x", want: a, wantErr: NotFoundErr},
		{name: "file", cwd: a, path: "f", want: a, wantErr: NotADirErr},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			found, err := table.Resolve(testCase.cwd, testCase.path)
			if !errors.Is(err, testCase.wantErr) {
				t.Fatalf("wanted error `%v`; found `%v`", testCase.wantErr, err)
			}
			if found != testCase.want {
				t.Fatalf("wanted `%d`; found `%d`", testCase.want, found)
			}
		})
	}
}

func TestRestore(t *testing.T) {
	table := New(4, 2, 4)
	a := mustInsert(t, table, RecordRoot, dir("a"))
	mustInsert(t, table, a, file("f"))

	m := snapshot(table)
	m.Geometry = Geometry{MaxRecords: 4, MaxDirectories: 2, MaxChildren: 4}
	restored, err := Restore(&m)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if found := restored.Path(2); found != "/a/f" {
		t.Fatalf("wanted `/a/f`; found `%s`", found)
	}

	// a child whose parent does not list it is rejected
	m.Sets[1] = []RecordID{}
	if _, err := Restore(&m); !errors.Is(err, CorruptMetadataErr) {
		t.Fatalf("wanted `%v`; found `%v`", CorruptMetadataErr, err)
	}
}

func TestCheckRoom(t *testing.T) {
	table := New(3, 2, 2)
	a := mustInsert(t, table, RecordRoot, dir("a"))
	f := mustInsert(t, table, a, file("f"))

	for _, testCase := range []struct {
		name   string
		dir    RecordID
		isDir  bool
		wanted error
	}{
		{name: "file-in-root", dir: RecordRoot},
		{name: "dir-no-sets-left", dir: RecordRoot, isDir: true, wanted: TableFullErr},
		{name: "not-a-dir", dir: f, wanted: NotADirErr},
		{name: "missing", dir: 99, wanted: NotFoundErr},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			err := table.CheckRoom(testCase.dir, testCase.isDir)
			if testCase.wanted == nil {
				if err != nil {
					t.Fatalf("unexpected err: %v", err)
				}
				return
			}
			if !errors.Is(err, testCase.wanted) {
				t.Fatalf("wanted `%v`; found `%v`", testCase.wanted, err)
			}
		})
	}

	mustInsert(t, table, a, file("g"))
	if err := table.CheckRoom(a, false); !errors.Is(err, DirectoryFullErr) {
		t.Fatalf("wanted `%v`; found `%v`", DirectoryFullErr, err)
	}
	if err := table.CheckRoom(RecordRoot, false); !errors.Is(err, TableFullErr) {
		t.Fatalf("wanted `%v`; found `%v`", TableFullErr, err)
	}
}
