package image

import (
	"bytes"
	"fmt"
	"io"

	"github.com/weberc2/blockfs/pkg/filesystem"
	. "github.com/weberc2/blockfs/pkg/types"
)

// Save stores the image of `fs` under the key derived from `name` and
// returns the key.
func Save(store Store, name string, fs *filesystem.FileSystem) (string, error) {
	key, err := Key(name)
	if err != nil {
		return "", fmt.Errorf("saving image: %w", err)
	}
	arena, err := fs.Image()
	if err != nil {
		return "", fmt.Errorf("saving image `%s`: %w", key, err)
	}
	if err := store.PutImage(key, bytes.NewReader(arena)); err != nil {
		return "", fmt.Errorf("saving image `%s`: %w", key, err)
	}
	return key, nil
}

// Load mounts the image stored under the key derived from `name`.
func Load(
	store Store,
	name string,
	params *filesystem.Params,
) (*filesystem.FileSystem, error) {
	key, err := Key(name)
	if err != nil {
		return nil, fmt.Errorf("loading image: %w", err)
	}
	body, err := store.GetImage(key)
	if err != nil {
		return nil, fmt.Errorf("loading image `%s`: %w", key, err)
	}
	defer body.Close()

	arena, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("loading image `%s`: %w", key, err)
	}
	fs, err := filesystem.Mount(arena, params)
	if err != nil {
		return nil, fmt.Errorf("loading image `%s`: %w", key, err)
	}
	return fs, nil
}

// Info summarizes a stored image.
type Info struct {
	Key       string             `json:"key"`
	ArenaSize Byte               `json:"arenaSize"`
	Geometry  Geometry           `json:"geometry"`
	Usage     filesystem.Usage   `json:"usage"`
	Root      []filesystem.Entry `json:"root"`
}

func Inspect(store Store, name string) (Info, error) {
	fs, err := Load(store, name, &filesystem.Params{})
	if err != nil {
		return Info{}, fmt.Errorf("inspecting image: %w", err)
	}
	defer fs.Close()

	key, _ := Key(name)
	entries, err := fs.List()
	if err != nil {
		return Info{}, fmt.Errorf("inspecting image `%s`: %w", key, err)
	}
	return Info{
		Key:       key,
		ArenaSize: fs.ArenaSize(),
		Geometry:  fs.Geometry(),
		Usage:     fs.Usage(),
		Root:      entries,
	}, nil
}
