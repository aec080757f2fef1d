package filesystem

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/weberc2/blockfs/pkg/alloc"
	"github.com/weberc2/blockfs/pkg/encode"
	"github.com/weberc2/blockfs/pkg/io"
	"github.com/weberc2/blockfs/pkg/math"
	"github.com/weberc2/blockfs/pkg/store"
	"github.com/weberc2/blockfs/pkg/table"
	. "github.com/weberc2/blockfs/pkg/types"
)

// FileSystem is a directory tree laid over a fixed-size arena. The arena
// starts with the metadata region and the rest is divided into blocks.
// FileSystem is not safe for concurrent use.
type FileSystem struct {
	volume   *io.Buffer
	data     *io.OffsetVolume
	volumeID [16]byte
	geometry Geometry
	chain    *alloc.ChainAllocator
	table    *table.Table
	store    store.MetadataStore
	cwd      RecordID
	clock    func() time.Time
	closed   bool
}

// New formats a fresh arena of `params.ArenaSize` bytes. The block count is
// whatever fits after the metadata region.
func New(params *Params) (*FileSystem, error) {
	g := params.geometry()
	if err := encode.DeriveGeometry(params.ArenaSize, &g); err != nil {
		return nil, fmt.Errorf("creating file system: %w", err)
	}

	volumeID := params.VolumeID
	if volumeID == [16]byte{} {
		volumeID = [16]byte(uuid.New())
	}

	fs := newFileSystem(make([]byte, params.ArenaSize), &g, params)
	fs.volumeID = volumeID
	fs.chain = alloc.NewChainAllocator(g.Blocks)
	fs.table = table.New(g.MaxRecords, g.MaxDirectories, g.MaxChildren)
	if err := fs.flush(); err != nil {
		return nil, fmt.Errorf("creating file system: %w", err)
	}
	return fs, nil
}

// Mount loads a file system from an arena produced by Image(). The cursor
// starts at the root. `params` only contributes Persist and Clock; the
// geometry comes from the arena's header.
func Mount(arena []byte, params *Params) (*FileSystem, error) {
	var m Metadata
	if err := (&store.VolumeMetadataStore{
		Volume: io.NewBuffer(arena),
	}).Get(&m); err != nil {
		return nil, fmt.Errorf("mounting file system: %w", err)
	}

	layout := encode.NewLayout(&m.Geometry)
	if need := layout.Size + Byte(m.Geometry.Blocks)*m.Geometry.BlockSize; Byte(len(arena)) < need {
		return nil, fmt.Errorf(
			"mounting file system: arena of `%d` bytes; geometry needs "+
				"`%d`: %w",
			len(arena),
			need,
			CorruptMetadataErr,
		)
	}

	t, err := table.Restore(&m)
	if err != nil {
		return nil, fmt.Errorf("mounting file system: %w", err)
	}
	chain := alloc.NewChainAllocator(m.Geometry.Blocks)
	if err := chain.Load(m.Chain); err != nil {
		return nil, fmt.Errorf("mounting file system: %w", err)
	}

	fs := newFileSystem(arena, &m.Geometry, params)
	fs.volumeID = m.VolumeID
	fs.chain = chain
	fs.table = t
	if err := fs.checkFiles(); err != nil {
		return nil, fmt.Errorf("mounting file system: %w: %w", CorruptMetadataErr, err)
	}
	if err := fs.Verify(); err != nil {
		return nil, fmt.Errorf("mounting file system: %w: %w", CorruptMetadataErr, err)
	}
	return fs, nil
}

// checkFiles makes sure every file's size is within the limit and backed by
// enough blocks that Read can never run past its chain or allocate an
// unbounded buffer.
func (fs *FileSystem) checkFiles() error {
	for id := RecordID(1); int(id) <= fs.table.Cap(); id++ {
		record, ok := fs.table.Get(id)
		if !ok {
			continue
		}
		body, ok := record.Body.(*FileBody)
		if !ok {
			continue
		}
		if record.Size < 0 || record.Size > fs.geometry.MaxFileSize {
			return fmt.Errorf(
				"file `%d` claims `%d` bytes; limit is `%d`",
				id,
				record.Size,
				fs.geometry.MaxFileSize,
			)
		}
		wanted := math.DivRoundUp(record.Size, fs.geometry.BlockSize)
		if found := Byte(len(fs.chain.Chain(body.Head))); found < wanted {
			return fmt.Errorf(
				"file `%d` holds `%d` bytes in `%d` blocks; wanted `%d` "+
					"blocks: %w",
				id,
				record.Size,
				found,
				wanted,
				CorruptChainErr,
			)
		}
	}
	return nil
}

func newFileSystem(arena []byte, g *Geometry, params *Params) *FileSystem {
	volume := io.NewBuffer(arena)
	fs := &FileSystem{
		volume: volume,
		data: io.NewOffsetVolume(
			volume,
			encode.NewLayout(g).Size,
			Byte(g.Blocks)*g.BlockSize,
		),
		geometry: *g,
		store:    store.NopMetadataStore{},
		cwd:      RecordRoot,
		clock:    params.clock(),
	}
	if params.Persist {
		fs.store = &store.VolumeMetadataStore{Volume: volume}
	}
	return fs
}

func (fs *FileSystem) Geometry() Geometry { return fs.geometry }

func (fs *FileSystem) ArenaSize() Byte { return fs.volume.Len() }

// Image writes the metadata into the arena and returns a copy of the whole
// arena.
func (fs *FileSystem) Image() ([]byte, error) {
	if fs.closed {
		return nil, fmt.Errorf("imaging file system: %w", ClosedErr)
	}
	m := fs.metadata()
	if err := (&store.VolumeMetadataStore{Volume: fs.volume}).Put(&m); err != nil {
		return nil, fmt.Errorf("imaging file system: %w", err)
	}
	out := make([]byte, fs.volume.Len())
	copy(out, fs.volume.Bytes())
	return out, nil
}

// Close flushes the metadata. Every later call fails with ClosedErr.
func (fs *FileSystem) Close() error {
	if fs.closed {
		return fmt.Errorf("closing file system: %w", ClosedErr)
	}
	if err := fs.flush(); err != nil {
		return fmt.Errorf("closing file system: %w", err)
	}
	fs.closed = true
	return nil
}

func (fs *FileSystem) metadata() Metadata {
	m := Metadata{
		VolumeID: fs.volumeID,
		Geometry: fs.geometry,
		Chain:    fs.chain.Entries(),
	}
	fs.table.Export(&m)
	return m
}

func (fs *FileSystem) flush() error {
	m := fs.metadata()
	if err := fs.store.Put(&m); err != nil {
		return fmt.Errorf("flushing metadata: %w", err)
	}
	return nil
}

func (fs *FileSystem) checkOpen(op string) error {
	if fs.closed {
		return fmt.Errorf("%s: %w", op, ClosedErr)
	}
	return nil
}
