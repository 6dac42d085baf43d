// Package sheetpatch reads and rewrites OOXML spreadsheet workbooks (.xlsx)
// at the archive level: it recovers per-sheet headers and extents from an
// existing workbook, synthesizes replacement worksheet parts, and splices
// them into a copy of the archive, leaving every other member byte-identical.
//
// It is deliberately not a spreadsheet library. It round-trips one specific
// workbook shape — a small set of named sheets, each a flat header row
// followed by data rows of strings and numbers — and streams both the scan
// and the synthesis so large sheets never have to fit in memory. Styles,
// merged cells, formulas, and charts are out of scope.
//
// # Quick start
//
//	wb, err := sheetpatch.Open("SourceOfTruth.xlsx")
//	if err != nil { ... }
//	defer wb.Close()
//
//	desc, err := wb.Descriptor("Week Dictionary")
//	if err != nil { ... }
//	fmt.Println(desc.Header, desc.MaxRow) // ["Time" "Week"] 6
//
//	err = sheetpatch.Patch("SourceOfTruth.xlsx", "SourceOfTruth_fake.xlsx",
//	    map[string]sheetpatch.Replacement{
//	        "Week Dictionary": {
//	            Header:  desc.Header,
//	            Numeric: []bool{false, true},
//	            Rows:    [][]string{{"Week Ending 01-05-25", "1"}},
//	        },
//	    })
//
// Sheet names are resolved through the workbook's relationship indirection
// (xl/workbook.xml → xl/_rels/workbook.xml.rels → part path), never by
// filename convention.
package sheetpatch

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/TsubasaBE/go-sheetpatch/archive"
	"github.com/TsubasaBE/go-sheetpatch/cellref"
	"github.com/TsubasaBE/go-sheetpatch/sheetwriter"
	"github.com/TsubasaBE/go-sheetpatch/workbook"
)

// Version is the current version of the go-sheetpatch library.
const Version = "0.1.0"

// The error taxonomy, re-exported from the packages that produce it so
// callers can errors.Is against this package alone.
var (
	// ErrArchiveCorrupt: the source cannot be opened as a workbook archive,
	// or a mandatory structural part is missing.
	ErrArchiveCorrupt = archive.ErrArchiveCorrupt
	// ErrMissingSheet: a named sheet has no resolvable worksheet part.
	ErrMissingSheet = archive.ErrMissingSheet
	// ErrSchemaMismatch: a replacement's numeric flags do not match its
	// header length.
	ErrSchemaMismatch = sheetwriter.ErrSchemaMismatch
	// ErrInvalidAddress: malformed column-letter input.
	ErrInvalidAddress = cellref.ErrInvalidAddress
)

// Open opens the named workbook file. The caller must call Close on the
// returned Workbook when done.
func Open(name string) (*workbook.Workbook, error) {
	return workbook.Open(name)
}

// OpenReader reads a workbook from an arbitrary [io.ReaderAt].
// size must equal the total byte length of the data.
func OpenReader(r io.ReaderAt, size int64) (*workbook.Workbook, error) {
	return workbook.OpenReader(r, size)
}

// Replacement describes the new contents of one sheet.
//
// Pass-through mode supplies the finished table in Rows. Generator mode
// leaves Rows nil and supplies Generate plus RowCount; Generate is invoked
// exactly once per data row, in row order, and no row is buffered beyond
// the one being written. Numeric must match Header in length.
type Replacement struct {
	Header  []string
	Numeric []bool

	// Rows holds the data rows for pass-through mode.
	Rows [][]string

	// Generate, when non-nil, selects generator mode: a lazy, finite,
	// non-restartable row source consumed once during synthesis.
	Generate sheetwriter.RowFunc
	// RowCount is the number of data rows to pull from Generate.
	RowCount int
}

// Patch produces a new workbook at dst from the workbook at src, replacing
// the contents of the named sheets and copying every other archive member
// byte-for-byte in source order. It is all-or-nothing: any unresolvable
// sheet or schema violation fails the whole operation before dst is
// written, and a failure during writing removes the partial dst.
//
// The replacement parts are synthesized fully in memory before the copy
// pass begins; src is never mutated.
func Patch(src, dst string, sheets map[string]Replacement) error {
	wb, err := workbook.Open(src)
	if err != nil {
		return err
	}
	defer wb.Close()

	names := make([]string, 0, len(sheets))
	for name := range sheets {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make(map[string][]byte, len(sheets))
	for _, name := range names {
		path, err := wb.SheetPath(name)
		if err != nil {
			return err
		}
		data, err := synthesize(sheets[name])
		if err != nil {
			return fmt.Errorf("sheetpatch: sheet %q: %w", name, err)
		}
		parts[path] = data
	}
	return archive.Patch(src, dst, parts)
}

func synthesize(r Replacement) ([]byte, error) {
	schema := sheetwriter.Schema{Header: r.Header, Numeric: r.Numeric}
	var buf bytes.Buffer
	if r.Generate != nil {
		if err := sheetwriter.WriteGenerated(&buf, schema, r.RowCount, r.Generate); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	if err := sheetwriter.WriteRows(&buf, schema, r.Rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
