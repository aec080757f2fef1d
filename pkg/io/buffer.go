package io

import (
	"fmt"
	"io"

	. "github.com/weberc2/blockfs/pkg/types"
)

// Buffer is a fixed-size in-memory volume. Accesses that do not fit entirely
// inside the buffer fail without copying anything.
type Buffer struct {
	data []byte
}

func NewBuffer(data []byte) *Buffer {
	return &Buffer{data: data}
}

func (b *Buffer) ReadAt(offset Byte, p []byte) error {
	if b.fits(offset, p) {
		copy(p, b.data[offset:offset+Byte(len(p))])
		return nil
	}
	return fmt.Errorf(
		"reading `%d` bytes from buffer of `%d` bytes at offset `%d`: %w",
		len(p),
		len(b.data),
		offset,
		io.EOF,
	)
}

func (b *Buffer) WriteAt(offset Byte, p []byte) error {
	if b.fits(offset, p) {
		copy(b.data[offset:offset+Byte(len(p))], p)
		return nil
	}
	return fmt.Errorf(
		"writing `%d` bytes to buffer of `%d` bytes at offset `%d`: %w",
		len(p),
		len(b.data),
		offset,
		io.EOF,
	)
}

func (b *Buffer) Len() Byte { return Byte(len(b.data)) }

// Bytes exposes the backing array; callers that keep it must copy it.
func (b *Buffer) Bytes() []byte { return b.data }

func (b *Buffer) fits(offset Byte, p []byte) bool {
	return offset >= 0 && offset+Byte(len(p)) <= Byte(len(b.data))
}
