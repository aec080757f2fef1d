package image

import (
	"fmt"
	"io"

	"github.com/gosimple/slug"
	. "github.com/weberc2/blockfs/pkg/types"
)

// Store keeps arena images by key.
type Store interface {
	PutImage(key string, data io.ReadSeeker) error
	GetImage(key string) (io.ReadCloser, error)
	ListImages() ([]string, error)
	DeleteImage(key string) error
}

type ImageNotFoundErr struct {
	Key string
}

func (err *ImageNotFoundErr) Error() string {
	return fmt.Sprintf("image not found: %s", err.Key)
}

func (wanted *ImageNotFoundErr) Is(other error) bool {
	found, ok := other.(*ImageNotFoundErr)
	return ok && found.Key == wanted.Key
}

const InvalidKeyErr ConstError = "invalid image name"

// Key turns a user-supplied image name into a store key.
func Key(name string) (string, error) {
	key := slug.Make(name)
	if key == "" {
		return "", fmt.Errorf("making key for `%s`: %w", name, InvalidKeyErr)
	}
	return key, nil
}
