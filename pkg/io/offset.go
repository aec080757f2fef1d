package io

import (
	"fmt"
	"io"

	. "github.com/weberc2/blockfs/pkg/types"
)

// OffsetVolume is a window of `size` bytes into `inner` starting at
// `offset`.
type OffsetVolume struct {
	inner  Volume
	offset Byte
	size   Byte
}

func NewOffsetVolume(inner Volume, offset, size Byte) *OffsetVolume {
	return &OffsetVolume{inner: inner, offset: offset, size: size}
}

func (v *OffsetVolume) ReadAt(offset Byte, b []byte) error {
	if err := v.check(offset, b); err != nil {
		return fmt.Errorf("reading region: %w", err)
	}
	if err := v.inner.ReadAt(offset+v.offset, b); err != nil {
		return fmt.Errorf(
			"reading additional offset `%d` from base offset `%d` (total "+
				"offset `%d` bytes): %w",
			offset,
			v.offset,
			offset+v.offset,
			err,
		)
	}
	return nil
}

func (v *OffsetVolume) WriteAt(offset Byte, b []byte) error {
	if err := v.check(offset, b); err != nil {
		return fmt.Errorf("writing region: %w", err)
	}
	if err := v.inner.WriteAt(offset+v.offset, b); err != nil {
		return fmt.Errorf(
			"writing additional offset `%d` from base offset `%d` (total "+
				"offset `%d` bytes): %w",
			offset,
			v.offset,
			offset+v.offset,
			err,
		)
	}
	return nil
}

func (v *OffsetVolume) Size() Byte { return v.size }

func (v *OffsetVolume) check(offset Byte, b []byte) error {
	if offset < 0 || offset+Byte(len(b)) > v.size {
		return fmt.Errorf(
			"`%d` bytes at offset `%d` exceed region size `%d`: %w",
			len(b),
			offset,
			v.size,
			io.EOF,
		)
	}
	return nil
}
