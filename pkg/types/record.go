package types

import (
	"fmt"
	"strings"
	"time"
)

type RecordID uint32

// SetID indexes the child-set table. Set 0 belongs to the root directory.
type SetID uint32

const (
	RecordRoot RecordID = 0
	SetRoot    SetID    = 0

	NameSize Byte = 32
)

type FileType uint8

const (
	FileTypeInvalid FileType = iota
	FileTypeRegular
	FileTypeDir
)

func (ft FileType) String() string {
	switch ft {
	case FileTypeInvalid:
		return "Invalid"
	case FileTypeRegular:
		return "Regular"
	case FileTypeDir:
		return "Dir"
	default:
		panic(fmt.Sprintf("invalid file type: `%d`", ft))
	}
}

func (ft FileType) MarshalJSON() ([]byte, error) {
	s := ft.String()
	out := make([]byte, len(s)+2)
	out[0] = '"'
	out[len(out)-1] = '"'
	copy(out[1:], s)
	return out, nil
}

func (ft FileType) Validate() error {
	if ft <= FileTypeInvalid || ft > FileTypeDir {
		return fmt.Errorf(
			"validating file type `%d`: %w",
			ft,
			InvalidFileTypeErr,
		)
	}
	return nil
}

const InvalidFileTypeErr ConstError = "invalid file type"

type Perm uint8

const (
	PermRead Perm = 1 << iota
	PermWrite
	PermExecute

	PermNone Perm = 0
	PermAll       = PermRead | PermWrite | PermExecute
)

// String renders the permission bits as `rwx` with `-` for unset bits.
func (p Perm) String() string {
	out := []byte("---")
	if p&PermRead != 0 {
		out[0] = 'r'
	}
	if p&PermWrite != 0 {
		out[1] = 'w'
	}
	if p&PermExecute != 0 {
		out[2] = 'x'
	}
	return string(out)
}

func (p Perm) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

// ParsePerm accepts either the symbolic form (`rw-`) or a single octal digit
// (`6`).
func ParsePerm(s string) (Perm, error) {
	if len(s) == 1 && s[0] >= '0' && s[0] <= '7' {
		// octal digits order the bits r=4 w=2 x=1; Perm orders them r=1 w=2
		// x=4.
		d := s[0] - '0'
		var p Perm
		if d&4 != 0 {
			p |= PermRead
		}
		if d&2 != 0 {
			p |= PermWrite
		}
		if d&1 != 0 {
			p |= PermExecute
		}
		return p, nil
	}

	if len(s) == 3 {
		var p Perm
		for i, want := range "rwx" {
			switch rune(s[i]) {
			case want:
				p |= Perm(1 << i)
			case '-':
			default:
				return PermNone, fmt.Errorf(
					"parsing permissions `%s`: %w",
					s,
					InvalidPermErr,
				)
			}
		}
		return p, nil
	}

	return PermNone, fmt.Errorf("parsing permissions `%s`: %w", s, InvalidPermErr)
}

const InvalidPermErr ConstError = "invalid permissions"

type Attr struct {
	Name     string
	Size     Byte
	Created  time.Time
	Modified time.Time
	Perm     Perm
	Parent   RecordID
}

// Body is the type-specific half of a record. It is either a *FileBody or a
// *DirBody.
type Body interface {
	FileType() FileType
	isBody()
}

type FileBody struct {
	Head Block
}

func (*FileBody) FileType() FileType { return FileTypeRegular }
func (*FileBody) isBody()            {}

type DirBody struct {
	Set SetID
}

func (*DirBody) FileType() FileType { return FileTypeDir }
func (*DirBody) isBody()            {}

type Record struct {
	ID RecordID
	Attr
	Body Body
}

func (r *Record) FileType() FileType {
	if r.Body == nil {
		return FileTypeInvalid
	}
	return r.Body.FileType()
}

func (r *Record) IsDir() bool { return r.FileType() == FileTypeDir }

// Clone copies the record, including its body.
func (r *Record) Clone() Record {
	out := *r
	switch body := r.Body.(type) {
	case *FileBody:
		tmp := *body
		out.Body = &tmp
	case *DirBody:
		tmp := *body
		out.Body = &tmp
	}
	return out
}

// ValidateName checks that `name` can be stored as a single path segment.
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, "/\x00") {
		return fmt.Errorf("validating name `%s`: %w", name, InvalidNameErr)
	}
	if Byte(len(name)) > NameSize {
		return fmt.Errorf("validating name `%s`: %w", name, NameTooLongErr)
	}
	return nil
}
