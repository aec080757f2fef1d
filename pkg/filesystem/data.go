package filesystem

import (
	"fmt"
	"log"

	"github.com/weberc2/blockfs/pkg/math"
	. "github.com/weberc2/blockfs/pkg/types"
)

// Write replaces the content of the file `name`. Content beyond the maximum
// file size is dropped. The old chain is released before any new block is
// allocated. If the blocks run out part way, the file keeps what was written
// and DiskFullErr is returned.
func (fs *FileSystem) Write(name string, content []byte) error {
	if err := fs.checkOpen("writing file"); err != nil {
		return err
	}
	record, body, err := fs.file(name)
	if err != nil {
		return fmt.Errorf("writing `%s`: %w", name, err)
	}

	content = content[:math.Min(Byte(len(content)), fs.geometry.MaxFileSize)]

	fs.chain.FreeChain(body.Head)
	body.Head = BlockNil
	record.Size = 0

	var (
		prev    = BlockNil
		written Byte
		length  = Byte(len(content))
		diskErr error
	)
	for written < length {
		block, err := fs.chain.Alloc()
		if err != nil {
			diskErr = err
			break
		}
		if prev == BlockNil {
			body.Head = block
		} else {
			fs.chain.Link(prev, block)
		}
		prev = block

		chunk := content[written:math.Min(written+fs.geometry.BlockSize, length)]
		if err := fs.data.WriteAt(
			Byte(block)*fs.geometry.BlockSize,
			chunk,
		); err != nil {
			diskErr = err
			break
		}
		written += Byte(len(chunk))
		record.Size = written
	}
	record.Modified = fs.clock()

	if err := fs.flush(); err != nil {
		return fmt.Errorf("writing `%s`: %w", name, err)
	}
	if diskErr != nil {
		log.Printf(
			"WARN writing `%s`: stopped after `%d` of `%d` bytes: %v",
			name,
			written,
			length,
			diskErr,
		)
		return fmt.Errorf(
			"writing `%s`: wrote `%d` of `%d` bytes: %w: %w",
			name,
			written,
			length,
			DiskFullErr,
			diskErr,
		)
	}
	return nil
}

// Read returns exactly Size bytes of the file `name`.
func (fs *FileSystem) Read(name string) ([]byte, error) {
	if err := fs.checkOpen("reading file"); err != nil {
		return nil, err
	}
	record, body, err := fs.file(name)
	if err != nil {
		return nil, fmt.Errorf("reading `%s`: %w", name, err)
	}

	out := make([]byte, record.Size)
	block := body.Head
	for read := Byte(0); read < record.Size; {
		if !block.Valid() || uint32(block) >= fs.chain.Len() ||
			fs.chain.IsFree(block) {
			return nil, fmt.Errorf(
				"reading `%s`: chain ends after `%d` of `%d` bytes: %w",
				name,
				read,
				record.Size,
				CorruptChainErr,
			)
		}
		n := math.Min(fs.geometry.BlockSize, record.Size-read)
		if err := fs.data.ReadAt(
			Byte(block)*fs.geometry.BlockSize,
			out[read:read+n],
		); err != nil {
			return nil, fmt.Errorf("reading `%s`: %w", name, err)
		}
		read += n
		block = fs.chain.Next(block)
	}
	return out, nil
}

func (fs *FileSystem) file(name string) (*Record, *FileBody, error) {
	id, err := fs.table.Find(fs.cwd, name)
	if err != nil {
		return nil, nil, err
	}
	record, _ := fs.table.Get(id)
	body, ok := record.Body.(*FileBody)
	if !ok {
		return nil, nil, fmt.Errorf("`%s` is a directory: %w", name, InvalidTargetErr)
	}
	return record, body, nil
}
