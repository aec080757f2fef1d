package image_test

import (
	"errors"
	"testing"
	"time"

	"github.com/weberc2/blockfs/pkg/filesystem"
	"github.com/weberc2/blockfs/pkg/image"
	"github.com/weberc2/blockfs/pkg/testsupport"
	. "github.com/weberc2/blockfs/pkg/types"
)

func newFS(t *testing.T) *filesystem.FileSystem {
	t.Helper()
	params := filesystem.DefaultParams()
	params.ArenaSize = 64 << 10
	params.Clock = func() time.Time { return time.Unix(1700000000, 0) }
	fs, err := filesystem.New(&params)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := fs.Create("docs", FileTypeDir); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := fs.ChangeDir("docs"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := fs.Create("todo", FileTypeRegular); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := fs.Write("todo", []byte("buy milk")); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	return fs
}

func TestSaveLoad(t *testing.T) {
	store := &image.GzipStore{testsupport.StoreFake{}}
	fs := newFS(t)

	key, err := image.Save(store, "My Disk", fs)
	if err != nil {
		t.Fatalf("Save(): unexpected err: %v", err)
	}
	if key != "my-disk" {
		t.Fatalf("wanted key `my-disk`; found `%s`", key)
	}

	loaded, err := image.Load(store, "my disk", &filesystem.Params{})
	if err != nil {
		t.Fatalf("Load(): unexpected err: %v", err)
	}
	if path := loaded.CurrentPath(); path != "/" {
		t.Fatalf("wanted `/`; found `%s`", path)
	}
	if err := loaded.ChangeDir("/docs"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	data, err := loaded.Read("todo")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if string(data) != "buy milk" {
		t.Fatalf("wanted `buy milk`; found `%s`", data)
	}
}

func TestLoad_NotFound(t *testing.T) {
	_, err := image.Load(testsupport.StoreFake{}, "nope", &filesystem.Params{})
	if !errors.Is(err, &image.ImageNotFoundErr{Key: "nope"}) {
		t.Fatalf("wanted `ImageNotFoundErr`; found `%v`", err)
	}
}

func TestInspect(t *testing.T) {
	store := testsupport.StoreFake{}
	fs := newFS(t)
	if _, err := image.Save(store, "disk", fs); err != nil {
		t.Fatalf("Save(): unexpected err: %v", err)
	}

	info, err := image.Inspect(store, "disk")
	if err != nil {
		t.Fatalf("Inspect(): unexpected err: %v", err)
	}
	if info.ArenaSize != 64<<10 {
		t.Fatalf("wanted arena size `%d`; found `%d`", 64<<10, info.ArenaSize)
	}
	if info.Usage.Records != 2 || info.Usage.Directories != 2 {
		t.Fatalf("wanted 2 records in 2 directories; found `%+v`", info.Usage)
	}
	if len(info.Root) != 1 || info.Root[0].Name != "docs" {
		t.Fatalf("wanted root to hold `docs`; found `%+v`", info.Root)
	}
}
