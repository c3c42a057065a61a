package document

type StoreInterface interface {
	Open(path string) error
	IsOpen() bool
	Path() string
	Data() Document
	Persist() error
	Snapshot() ([]byte, error)
	Reset()
}

type CompressorInterface interface {
	Compress(val []byte) ([]byte, error)
	Decompress(val []byte) ([]byte, error)
	Close()
}

// SnapshotSource yields the serialized live document, or nil when there is
// nothing to snapshot.
type SnapshotSource interface {
	Snapshot() ([]byte, error)
}
