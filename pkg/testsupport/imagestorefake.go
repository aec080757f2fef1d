package testsupport

import (
	"bytes"
	"io"
	"sort"

	"github.com/weberc2/blockfs/pkg/image"
)

type StoreFake map[string][]byte

func (sf StoreFake) PutImage(key string, data io.ReadSeeker) error {
	var b bytes.Buffer
	if _, err := io.Copy(&b, data); err != nil {
		return err
	}
	sf[key] = b.Bytes()
	return nil
}

func (sf StoreFake) GetImage(key string) (io.ReadCloser, error) {
	data, found := sf[key]
	if !found {
		return nil, &image.ImageNotFoundErr{Key: key}
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (sf StoreFake) ListImages() ([]string, error) {
	out := make([]string, 0, len(sf))
	for key := range sf {
		out = append(out, key)
	}
	sort.Strings(out)
	return out, nil
}

func (sf StoreFake) DeleteImage(key string) error {
	if _, found := sf[key]; !found {
		return &image.ImageNotFoundErr{Key: key}
	}
	delete(sf, key)
	return nil
}

var _ image.Store = StoreFake{}
