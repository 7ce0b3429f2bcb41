package source

type (
	// FileID identifies a file inside a FileSet; 0 is "no file".
	FileID uint32
	// FileFlags encodes metadata about a source file.
	FileFlags uint8
)

const NoFileID FileID = 0

func (id FileID) IsValid() bool { return id != NoFileID }

const (
	// FileVirtual marks files added from memory (tests, stdin).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
	FileNormalizedNFC
)

// File captures metadata and content for a single source file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of every '\n'
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based, in bytes
}
