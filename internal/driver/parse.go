package driver

import (
	"fortio.org/safecast"

	"ferry/internal/ast"
	"ferry/internal/diag"
	"ferry/internal/parser"
	"ferry/internal/source"
)

// ParseResult holds a single parsed schema file.
type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	AST     *ast.File
	Bag     *diag.Bag
}

// Parse loads and parses one schema file without resolving it.
func Parse(filePath string, maxDiagnostics int) (*ParseResult, error) {
	if maxDiagnostics <= 0 {
		maxDiagnostics = 100
	}
	fs := source.NewFileSet()
	fileID, err := fs.Load(filePath)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)

	bag := diag.NewBag(maxDiagnostics)

	maxErrors, err := safecast.Conv[uint](maxDiagnostics)
	if err != nil {
		return nil, err
	}

	opts := parser.Options{
		Reporter:  diag.BagReporter{Bag: bag},
		MaxErrors: maxErrors,
	}
	parsed := parser.ParseFile(file, opts)

	return &ParseResult{
		FileSet: fs,
		File:    file,
		AST:     parsed,
		Bag:     bag,
	}, nil
}
