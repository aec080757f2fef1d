package filesystem

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	. "github.com/weberc2/blockfs/pkg/types"
)

type Entry struct {
	ID       RecordID  `json:"id"`
	Name     string    `json:"name"`
	Type     FileType  `json:"type"`
	Perm     Perm      `json:"perm"`
	Size     Byte      `json:"size"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`
}

func newEntry(record *Record) Entry {
	return Entry{
		ID:       record.ID,
		Name:     record.Name,
		Type:     record.FileType(),
		Perm:     record.Perm,
		Size:     record.Size,
		Created:  record.Created,
		Modified: record.Modified,
	}
}

// List returns the direct children of the current directory sorted
// byte-wise by name.
func (fs *FileSystem) List() ([]Entry, error) {
	if err := fs.checkOpen("listing directory"); err != nil {
		return nil, err
	}
	children, err := fs.table.Children(fs.cwd)
	if err != nil {
		return nil, fmt.Errorf("listing directory: %w", err)
	}
	entries := make([]Entry, len(children))
	for i, id := range children {
		record, _ := fs.table.Get(id)
		entries[i] = newEntry(record)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}

func (fs *FileSystem) Stat(name string) (Entry, error) {
	if err := fs.checkOpen("stat"); err != nil {
		return Entry{}, err
	}
	id, err := fs.table.Find(fs.cwd, name)
	if err != nil {
		return Entry{}, fmt.Errorf("stat `%s`: %w", name, err)
	}
	record, _ := fs.table.Get(id)
	return newEntry(record), nil
}

// Chmod replaces the permission bits of `name`. Permissions are recorded but
// not enforced.
func (fs *FileSystem) Chmod(name string, perm Perm) error {
	if err := fs.checkOpen("changing permissions"); err != nil {
		return err
	}
	if perm&^PermAll != 0 {
		return fmt.Errorf("changing permissions of `%s`: %w", name, InvalidPermErr)
	}
	id, err := fs.table.Find(fs.cwd, name)
	if err != nil {
		return fmt.Errorf("changing permissions of `%s`: %w", name, err)
	}
	record, _ := fs.table.Get(id)
	record.Perm = perm
	if err := fs.flush(); err != nil {
		return fmt.Errorf("changing permissions of `%s`: %w", name, err)
	}
	return nil
}

// Rename renames `name` in place within the current directory.
func (fs *FileSystem) Rename(name, newName string) error {
	if err := fs.checkOpen("renaming"); err != nil {
		return err
	}
	id, err := fs.table.Find(fs.cwd, name)
	if err != nil {
		return fmt.Errorf("renaming `%s`: %w", name, err)
	}
	if err := fs.table.Rename(fs.cwd, id, newName); err != nil {
		return fmt.Errorf("renaming `%s`: %w", name, err)
	}
	record, _ := fs.table.Get(id)
	record.Modified = fs.clock()
	if err := fs.flush(); err != nil {
		return fmt.Errorf("renaming `%s`: %w", name, err)
	}
	return nil
}

// ChangeDir moves the cursor. `path` may be absolute or relative and may
// contain `.` and `..`. The cursor does not move on error.
func (fs *FileSystem) ChangeDir(path string) error {
	if err := fs.checkOpen("changing directory"); err != nil {
		return err
	}
	id, err := fs.table.Resolve(fs.cwd, path)
	if err != nil {
		return fmt.Errorf("changing directory: %w", err)
	}
	fs.cwd = id
	return nil
}

func (fs *FileSystem) CurrentPath() string { return fs.table.Path(fs.cwd) }

type Usage struct {
	VolumeID       string `json:"volumeId"`
	BlockSize      Byte   `json:"blockSize"`
	Blocks         uint32 `json:"blocks"`
	FreeBlocks     uint32 `json:"freeBlocks"`
	DataSize       Byte   `json:"dataSize"`
	Records        int    `json:"records"`
	MaxRecords     int    `json:"maxRecords"`
	Directories    int    `json:"directories"`
	MaxDirectories int    `json:"maxDirectories"`
	MaxFileSize    Byte   `json:"maxFileSize"`
}

func (fs *FileSystem) Usage() Usage {
	return Usage{
		VolumeID:       uuid.UUID(fs.volumeID).String(),
		BlockSize:      fs.geometry.BlockSize,
		Blocks:         fs.chain.Len(),
		FreeBlocks:     fs.chain.FreeCount(),
		DataSize:       fs.data.Size(),
		Records:        fs.table.Len(),
		MaxRecords:     fs.table.Cap(),
		Directories:    fs.table.Directories(),
		MaxDirectories: fs.table.MaxDirectories(),
		MaxFileSize:    fs.geometry.MaxFileSize,
	}
}

// Verify checks the table invariants and that every block is owned by at
// most one file.
func (fs *FileSystem) Verify() error {
	if err := fs.table.Verify(); err != nil {
		return fmt.Errorf("verifying file system: %w", err)
	}
	owners := make(map[Block]RecordID)
	for id := RecordID(1); int(id) <= fs.table.Cap(); id++ {
		record, ok := fs.table.Get(id)
		if !ok {
			continue
		}
		body, ok := record.Body.(*FileBody)
		if !ok {
			continue
		}
		for _, block := range fs.chain.Chain(body.Head) {
			if owner, taken := owners[block]; taken {
				return fmt.Errorf(
					"verifying file system: block `%d` owned by `%d` and "+
						"`%d`: %w",
					block,
					owner,
					id,
					CorruptChainErr,
				)
			}
			owners[block] = id
		}
	}
	if used := uint32(len(owners)); used+fs.chain.FreeCount() != fs.chain.Len() {
		return fmt.Errorf(
			"verifying file system: `%d` owned and `%d` free of `%d` "+
				"blocks: %w",
			used,
			fs.chain.FreeCount(),
			fs.chain.Len(),
			CorruptChainErr,
		)
	}
	return nil
}
