package image_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/weberc2/blockfs/pkg/image"
	"github.com/weberc2/blockfs/pkg/testsupport"
)

func TestGzipStore(t *testing.T) {
	fake := testsupport.StoreFake{}
	store := image.GzipStore{fake}
	data := strings.Repeat("\x00", 4096) + "my-data"
	if err := store.PutImage("my-key", strings.NewReader(data)); err != nil {
		t.Fatalf("Unexpected err: %v", err)
	}
	if n := len(fake["my-key"]); n >= len(data) {
		t.Fatalf("wanted compressed image; found `%d` bytes", n)
	}

	body, err := store.GetImage("my-key")
	if err != nil {
		t.Fatalf("Unexpected err: %v", err)
	}
	defer body.Close()

	found, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("Unexpected err: %v", err)
	}
	if string(found) != data {
		t.Fatalf("wanted `%d` bytes ending in 'my-data'; found `%d`", len(data), len(found))
	}
}

func TestGzipStore_NotFound(t *testing.T) {
	store := image.GzipStore{testsupport.StoreFake{}}
	_, err := store.GetImage("missing")
	var notFound *image.ImageNotFoundErr
	if !errors.As(err, &notFound) || notFound.Key != "missing" {
		t.Fatalf("wanted `ImageNotFoundErr`; found `%v`", err)
	}
}
