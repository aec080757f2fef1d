package filesystem

import (
	"errors"
	"fmt"

	. "github.com/weberc2/blockfs/pkg/types"
)

// Create adds an empty file or directory named `name` to the current
// directory. Files reserve their first block up front.
func (fs *FileSystem) Create(name string, fileType FileType) error {
	if err := fs.checkOpen("creating file"); err != nil {
		return err
	}
	if err := fileType.Validate(); err != nil {
		return fmt.Errorf("creating `%s`: %w", name, err)
	}
	if err := ValidateName(name); err != nil {
		return fmt.Errorf("creating `%s`: %w", name, err)
	}
	if _, err := fs.table.Find(fs.cwd, name); err == nil {
		return fmt.Errorf("creating `%s`: %w", name, AlreadyExistsErr)
	} else if !errors.Is(err, NotFoundErr) {
		return fmt.Errorf("creating `%s`: %w", name, err)
	}

	// a full table wins over a full disk
	if err := fs.table.CheckRoom(fs.cwd, fileType == FileTypeDir); err != nil {
		return createErr(name, err)
	}

	now := fs.clock()
	record := Record{
		Attr: Attr{
			Name:     name,
			Created:  now,
			Modified: now,
			Perm:     PermAll,
		},
		Body: &DirBody{},
	}

	head := BlockNil
	if fileType == FileTypeRegular {
		block, err := fs.chain.Alloc()
		if err != nil {
			return fmt.Errorf("creating file `%s`: %w: %w", name, NoSpaceErr, err)
		}
		head = block
		record.Body = &FileBody{Head: head}
	}

	if _, err := fs.table.Insert(fs.cwd, &record); err != nil {
		fs.chain.FreeChain(head)
		return createErr(name, err)
	}

	if err := fs.flush(); err != nil {
		return fmt.Errorf("creating `%s`: %w", name, err)
	}
	return nil
}

// createErr reports a full global table as a full directory too.
func createErr(name string, err error) error {
	if errors.Is(err, TableFullErr) {
		return fmt.Errorf("creating `%s`: %w: %w", name, DirectoryFullErr, err)
	}
	return fmt.Errorf("creating `%s`: %w", name, err)
}
