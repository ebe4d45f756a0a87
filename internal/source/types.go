package source

type (
	// FileID uniquely identifies a schema file within a FileSet.
	FileID uint32
	// FileFlags encodes normalization metadata recorded at load time.
	FileFlags uint8
)

const (
	// FileVirtual marks a file added from memory (tests, generated input).
	FileVirtual FileFlags = 1 << iota
	// FileHadBOM marks a file that carried a UTF-8 BOM before normalization.
	FileHadBOM
	// FileNormalizedCRLF marks a file whose CRLF line endings were rewritten.
	FileNormalizedCRLF
)

// File holds the content and derived metadata of one loaded schema file.
// Content is always the normalized form: no BOM, \n line endings.
type File struct {
	ID         FileID
	Path       string
	Content    []byte
	LineStarts []uint32 // byte offset of the first byte of each line
	Hash       [32]byte
	Flags      FileFlags
}

// LineCol is a 1-based human-readable position.
type LineCol struct {
	Line uint32
	Col  uint32
}
