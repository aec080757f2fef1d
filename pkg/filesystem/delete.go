package filesystem

import (
	"fmt"

	. "github.com/weberc2/blockfs/pkg/types"
)

// Delete removes `name` from the current directory along with everything
// beneath it. A non-empty directory is only removed when `confirm` returns
// true; a nil `confirm` declines.
func (fs *FileSystem) Delete(name string, confirm func() bool) error {
	if err := fs.checkOpen("deleting file"); err != nil {
		return err
	}
	id, err := fs.table.Find(fs.cwd, name)
	if err != nil {
		return fmt.Errorf("deleting `%s`: %w", name, err)
	}

	record, _ := fs.table.Get(id)
	if record.IsDir() {
		children, err := fs.table.Children(id)
		if err != nil {
			return fmt.Errorf("deleting `%s`: %w", name, err)
		}
		if len(children) > 0 && (confirm == nil || !confirm()) {
			return fmt.Errorf("deleting `%s`: %w", name, DeleteDeclinedErr)
		}
	}

	if err := fs.destroy(fs.cwd, id); err != nil {
		return fmt.Errorf("deleting `%s`: %w", name, err)
	}
	if err := fs.flush(); err != nil {
		return fmt.Errorf("deleting `%s`: %w", name, err)
	}
	return nil
}

// destroy removes `id` and its descendants depth first, releasing each
// file's blocks as it goes.
func (fs *FileSystem) destroy(parent, id RecordID) error {
	record, ok := fs.table.Get(id)
	if !ok {
		return fmt.Errorf("destroying `%d`: %w", id, NotFoundErr)
	}
	switch body := record.Body.(type) {
	case *DirBody:
		children, err := fs.table.Children(id)
		if err != nil {
			return fmt.Errorf("destroying `%s`: %w", record.Name, err)
		}
		for _, child := range children {
			if err := fs.destroy(id, child); err != nil {
				return err
			}
		}
	case *FileBody:
		fs.chain.FreeChain(body.Head)
	}
	if err := fs.table.Remove(parent, id); err != nil {
		return fmt.Errorf("destroying `%s`: %w", record.Name, err)
	}
	return nil
}
