package types

type Geometry struct {
	BlockSize      Byte   `json:"blockSize"      yaml:"blockSize"`
	Blocks         uint32 `json:"blocks"         yaml:"blocks"`
	MaxRecords     uint32 `json:"maxRecords"     yaml:"maxRecords"`
	MaxDirectories uint32 `json:"maxDirectories" yaml:"maxDirectories"`
	MaxChildren    uint32 `json:"maxChildren"    yaml:"maxChildren"`
	MaxFileSize    Byte   `json:"maxFileSize"    yaml:"maxFileSize"`
}

// Metadata is everything the metadata region holds. Records and Sets are
// indexed by slot; a nil record is a free slot and a nil set is an unused
// child set.
type Metadata struct {
	VolumeID [16]byte
	Geometry Geometry
	Chain    []Block
	Records  []*Record
	Sets     [][]RecordID
}
