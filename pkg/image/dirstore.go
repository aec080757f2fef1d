package image

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const imageExt = ".img"

// DirStore keeps each image as a file in a local directory.
type DirStore struct {
	Root string
}

func (ds *DirStore) path(key string) string {
	return filepath.Join(ds.Root, key+imageExt)
}

func (ds *DirStore) PutImage(key string, data io.ReadSeeker) error {
	if err := os.MkdirAll(ds.Root, 0755); err != nil {
		return fmt.Errorf("putting image `%s`: %w", key, err)
	}

	// write to a temp file and rename it into place so a failed write never
	// clobbers an existing image
	tmp, err := os.CreateTemp(ds.Root, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("putting image `%s`: %w", key, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, data); err != nil {
		tmp.Close()
		return fmt.Errorf("putting image `%s`: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("putting image `%s`: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), ds.path(key)); err != nil {
		return fmt.Errorf("putting image `%s`: %w", key, err)
	}
	return nil
}

func (ds *DirStore) GetImage(key string) (io.ReadCloser, error) {
	f, err := os.Open(ds.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &ImageNotFoundErr{Key: key}
		}
		return nil, fmt.Errorf("getting image `%s`: %w", key, err)
	}
	return f, nil
}

func (ds *DirStore) ListImages() ([]string, error) {
	entries, err := os.ReadDir(ds.Root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing images in `%s`: %w", ds.Root, err)
	}
	var keys []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.Type().IsRegular() && strings.HasSuffix(name, imageExt) {
			keys = append(keys, strings.TrimSuffix(name, imageExt))
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (ds *DirStore) DeleteImage(key string) error {
	if err := os.Remove(ds.path(key)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &ImageNotFoundErr{Key: key}
		}
		return fmt.Errorf("deleting image `%s`: %w", key, err)
	}
	return nil
}

var _ Store = &DirStore{}
