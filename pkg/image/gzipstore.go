package image

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// GzipStore compresses images on their way into the wrapped store. Arenas
// are mostly zeros so they shrink a lot.
type GzipStore struct {
	Store
}

func (gs *GzipStore) PutImage(key string, data io.ReadSeeker) error {
	var b bytes.Buffer
	w, err := gzip.NewWriterLevel(&b, gzip.BestCompression)
	if err != nil {
		return fmt.Errorf("creating gzip writer: %w", err)
	}
	if _, err := io.Copy(w, data); err != nil {
		return fmt.Errorf("compressing image: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing gzip writer: %w", err)
	}
	return gs.Store.PutImage(key, bytes.NewReader(b.Bytes()))
}

type gzipReadCloser struct {
	*gzip.Reader
	body io.ReadCloser
}

func (grc *gzipReadCloser) Close() error {
	if err := grc.Reader.Close(); err != nil {
		grc.body.Close()
		return err
	}
	return grc.body.Close()
}

func (gs *GzipStore) GetImage(key string) (io.ReadCloser, error) {
	body, err := gs.Store.GetImage(key)
	if err != nil {
		return nil, fmt.Errorf("getting image from storage: %w", err)
	}
	r, err := gzip.NewReader(body)
	if err != nil {
		body.Close()
		return nil, fmt.Errorf("creating gzip reader: %w", err)
	}
	return &gzipReadCloser{Reader: r, body: body}, nil
}
