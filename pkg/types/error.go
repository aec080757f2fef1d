package types

type ConstError string

func (err ConstError) Error() string { return string(err) }

const (
	AlreadyExistsErr   ConstError = "file or directory already exists"
	NotFoundErr        ConstError = "file or directory not found"
	InvalidTargetErr   ConstError = "invalid target"
	DirectoryFullErr   ConstError = "directory full"
	TableFullErr       ConstError = "record table full"
	NoSpaceErr         ConstError = "no space"
	DiskFullErr        ConstError = "disk full"
	NotADirErr         ConstError = "not a directory"
	NameTooLongErr     ConstError = "name too long"
	InvalidNameErr     ConstError = "invalid name"
	DeleteDeclinedErr  ConstError = "deletion declined"
	DirNotEmptyErr     ConstError = "directory not empty"
	CorruptChainErr    ConstError = "block chain shorter than file size"
	CorruptMetadataErr ConstError = "corrupt metadata"
	ClosedErr          ConstError = "file system is closed"
)
