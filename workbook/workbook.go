// Package workbook opens an OOXML workbook archive and resolves its sheets
// to descriptors: header row, extent, and worksheet part path.
package workbook

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/TsubasaBE/go-sheetpatch/archive"
	"github.com/TsubasaBE/go-sheetpatch/internal/rels"
	"github.com/TsubasaBE/go-sheetpatch/stringtable"
	"github.com/TsubasaBE/go-sheetpatch/worksheet"
)

// Structural members every workbook archive must carry. Worksheet part
// paths are never assumed from these; they come from the rels indirection.
const (
	workbookPart = "xl/workbook.xml"
	relsPart     = "xl/_rels/workbook.xml.rels"
	sstPart      = "xl/sharedStrings.xml"
)

// sheetEntry holds the display name and resolved part path for one sheet.
type sheetEntry struct {
	name string
	path string // e.g. "xl/worksheets/sheet1.xml"
}

// Workbook represents an open workbook archive.
type Workbook struct {
	ar          *archive.Reader
	sheets      []sheetEntry
	stringTable *stringtable.StringTable
}

// Descriptor is the read-only snapshot of one sheet, built once per open
// archive: display name, archive part path, and the scanned metadata. The
// sheet's contents are never fully materialized.
type Descriptor struct {
	// Name is the sheet's display name from xl/workbook.xml.
	Name string
	// Path is the worksheet part's archive member path, resolved through the
	// workbook's relationship indirection.
	Path string

	worksheet.Metadata
}

// Open opens the named workbook file and parses its sheet list and shared
// strings. The caller must call Close on the returned Workbook when done.
func Open(name string) (*Workbook, error) {
	ar, err := archive.Open(name)
	if err != nil {
		return nil, err
	}
	wb := &Workbook{ar: ar}
	if err := wb.parse(); err != nil {
		_ = ar.Close()
		return nil, err
	}
	return wb, nil
}

// OpenReader parses a workbook archive from an in-memory ReaderAt.
// size must be the total byte size of the archive data.
func OpenReader(r io.ReaderAt, size int64) (*Workbook, error) {
	ar, err := archive.NewReader(r, size)
	if err != nil {
		return nil, err
	}
	wb := &Workbook{ar: ar}
	if err := wb.parse(); err != nil {
		return nil, err
	}
	return wb, nil
}

// Sheets returns the display names of all worksheets in workbook order.
func (wb *Workbook) Sheets() []string {
	names := make([]string, len(wb.sheets))
	for i, s := range wb.sheets {
		names[i] = s.name
	}
	return names
}

// SheetPath returns the archive member path of the named sheet
// (case-insensitive). Unknown names yield archive.ErrMissingSheet.
func (wb *Workbook) SheetPath(name string) (string, error) {
	for _, s := range wb.sheets {
		if strings.EqualFold(s.name, name) {
			return s.path, nil
		}
	}
	return "", fmt.Errorf("%w: sheet %q", archive.ErrMissingSheet, name)
}

// SharedStrings returns the workbook's shared-string table. It is empty,
// not nil, when the archive has no sharedStrings part.
func (wb *Workbook) SharedStrings() *stringtable.StringTable {
	return wb.stringTable
}

// Descriptor scans the named sheet's part just far enough to build its
// descriptor. Each call performs one fresh streaming scan; descriptors are
// independent snapshots, so callers may scan different sheets concurrently.
func (wb *Workbook) Descriptor(name string) (*Descriptor, error) {
	path, err := wb.SheetPath(name)
	if err != nil {
		return nil, err
	}
	rc, err := wb.ar.OpenMember(path)
	if err != nil {
		return nil, err
	}
	// The scan stops after the header row; closing abandons the rest of the
	// compressed stream without reading it.
	md, scanErr := worksheet.Scan(rc, wb.stringTable)
	_ = rc.Close()
	if scanErr != nil {
		return nil, fmt.Errorf("workbook: sheet %q: %w", name, scanErr)
	}
	return &Descriptor{Name: name, Path: path, Metadata: md}, nil
}

// Close releases the underlying archive handle.
func (wb *Workbook) Close() error {
	return wb.ar.Close()
}

// ── internal ─────────────────────────────────────────────────────────────────

// parse reads the workbook part, the workbook rels, and the optional
// shared-strings part. A missing or unparsable workbook or rels part is
// structural corruption; a missing shared-strings part is not.
func (wb *Workbook) parse() error {
	if err := wb.parseSheetList(); err != nil {
		return err
	}
	return wb.parseSharedStrings()
}

func (wb *Workbook) parseSheetList() error {
	relsData, err := wb.ar.ReadMember(relsPart)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", archive.ErrArchiveCorrupt, relsPart, err)
	}
	relMap, err := rels.Parse(relsData)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", archive.ErrArchiveCorrupt, relsPart, err)
	}

	wbData, err := wb.ar.ReadMember(workbookPart)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", archive.ErrArchiveCorrupt, workbookPart, err)
	}
	var doc xmlWorkbook
	if err := xml.Unmarshal(wbData, &doc); err != nil {
		return fmt.Errorf("%w: %s: %v", archive.ErrArchiveCorrupt, workbookPart, err)
	}

	for _, s := range doc.Sheets {
		target, ok := relMap[s.RID]
		if !ok {
			return fmt.Errorf("%w: sheet %q: no relationship for %q", archive.ErrArchiveCorrupt, s.Name, s.RID)
		}
		wb.sheets = append(wb.sheets, sheetEntry{
			name: s.Name,
			path: rels.ResolveTarget(target),
		})
	}
	return nil
}

func (wb *Workbook) parseSharedStrings() error {
	rc, err := wb.ar.OpenMember(sstPart)
	if err != nil {
		// Part is optional — no shared strings in this workbook.
		wb.stringTable = stringtable.Empty()
		return nil
	}
	st, parseErr := stringtable.New(rc)
	closeErr := rc.Close()
	if parseErr != nil {
		return fmt.Errorf("workbook: shared strings: %w", parseErr)
	}
	if closeErr != nil {
		return fmt.Errorf("workbook: shared strings: %w", closeErr)
	}
	wb.stringTable = st
	return nil
}

// ── workbook.xml parsing ─────────────────────────────────────────────────────

type xmlWorkbook struct {
	Sheets []xmlSheet `xml:"sheets>sheet"`
}

type xmlSheet struct {
	Name string `xml:"name,attr"`
	RID  string `xml:"id,attr"` // r:id — the relationship to the sheet part
}
