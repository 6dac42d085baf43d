package sheetpatch_test

// Package-level workbook fixture builders shared by the integration tests
// in sheetpatch_test.go. They assemble a small but complete .xlsx archive
// in memory: content types, package rels, workbook, workbook rels, styles,
// shared strings, and four worksheet parts.

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/TsubasaBE/go-sheetpatch/cellref"
)

const (
	contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/xl/workbook.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"/><Override PartName="/xl/worksheets/sheet1.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml"/><Override PartName="/xl/worksheets/sheet2.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml"/><Override PartName="/xl/worksheets/sheet3.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml"/><Override PartName="/xl/worksheets/sheet4.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml"/><Override PartName="/xl/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.styles+xml"/><Override PartName="/xl/sharedStrings.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.sharedStrings+xml"/></Types>`

	packageRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="xl/workbook.xml"/></Relationships>`

	workbookXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"><sheets><sheet name="Week Dictionary" sheetId="1" r:id="rId1"/><sheet name="Brand Dictionary" sheetId="2" r:id="rId2"/><sheet name="Category Dictionary" sheetId="3" r:id="rId3"/><sheet name="Source of Truth" sheetId="4" r:id="rId4"/></sheets></workbook>`

	workbookRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="worksheets/sheet1.xml"/><Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="worksheets/sheet2.xml"/><Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="worksheets/sheet3.xml"/><Relationship Id="rId4" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="worksheets/sheet4.xml"/><Relationship Id="rId5" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/><Relationship Id="rId6" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/sharedStrings" Target="sharedStrings.xml"/></Relationships>`

	stylesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<styleSheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><fonts count="1"><font/></fonts><fills count="1"><fill/></fills><borders count="1"><border/></borders><cellStyleXfs count="1"><xf/></cellStyleXfs><cellXfs count="1"><xf/></cellXfs></styleSheet>`

	// Shared strings backing the Brand Dictionary header cells (t="s").
	sharedStringsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" count="2" uniqueCount="2"><si><t>Brand</t></si><si><r><t>Na</t></r><r><t>me</t></r></si></sst>`
)

// inlineCell returns an inline-string cell element.
func inlineCell(ref, text string) string {
	return fmt.Sprintf(`<c r="%s" t="inlineStr"><is><t>%s</t></is></c>`, ref, text)
}

// numCell returns a numeric cell element with a literal value.
func numCell(ref, val string) string {
	return fmt.Sprintf(`<c r="%s"><v>%s</v></c>`, ref, val)
}

// sharedCell returns a shared-string cell element referencing index idx.
func sharedCell(ref string, idx int) string {
	return fmt.Sprintf(`<c r="%s" t="s"><v>%d</v></c>`, ref, idx)
}

// worksheetXML assembles a worksheet part from pre-rendered cell elements,
// one slice per row. Row 1 is the header.
func worksheetXML(cols int, rows ...[]string) []byte {
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	buf.WriteString("\n")
	fmt.Fprintf(&buf,
		`<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"><dimension ref="A1:%s%d"/><sheetData>`,
		cellref.IndexToLetters(cols), len(rows))
	for i, cells := range rows {
		fmt.Fprintf(&buf, `<row r="%d">`, i+1)
		for _, c := range cells {
			buf.WriteString(c)
		}
		buf.WriteString(`</row>`)
	}
	buf.WriteString(`</sheetData></worksheet>`)
	return buf.Bytes()
}

// textRows renders header plus data rows as inline-string cells, with any
// column listed in numericCols emitted as a numeric cell instead.
func textRows(rows [][]string, numericCols ...int) [][]string {
	numeric := map[int]bool{}
	for _, c := range numericCols {
		numeric[c] = true
	}
	out := make([][]string, len(rows))
	for i, row := range rows {
		cells := make([]string, len(row))
		for j, v := range row {
			ref := cellref.IndexToLetters(j+1) + fmt.Sprint(i+1)
			if i > 0 && numeric[j] {
				cells[j] = numCell(ref, v)
			} else {
				cells[j] = inlineCell(ref, v)
			}
		}
		out[i] = cells
	}
	return out
}

// weekSheetData is the Week Dictionary fixture: a header plus five data
// rows, so a scan reports a maximum row of six.
func weekSheetData() [][]string {
	return textRows([][]string{
		{"Time", "Week"},
		{"Week Ending 01-05-25", "1"},
		{"Week Ending 01-12-25", "2"},
		{"Week Ending 01-19-25", "3"},
		{"Week Ending 01-26-25", "4"},
		{"Week Ending 02-02-25", "5"},
	}, 1)
}

// brandSheetData exercises the shared-string path: its header cells are
// t="s" references, the second of which is a rich-text entry.
func brandSheetData() [][]string {
	rows := [][]string{
		{sharedCell("A1", 0), sharedCell("B1", 1)},
	}
	data := textRows([][]string{
		{"", ""}, // placeholder header, replaced above
		{"EVERGREEN FOODS", "Evergreen Foods"},
		{"SOLSTICE MARKET", "Solstice Market"},
	})
	return append(rows, data[1:]...)
}

func categorySheetData() [][]string {
	return textRows([][]string{
		{"Product", "Category", "Subcategory"},
		{"EVERGREEN FOODS Chips 8 oz - 7600000000000", "Snacks", "Chips"},
		{"SOLSTICE MARKET Juice 12 oz - 7600000000001", "Beverages", "Juice"},
	})
}

func sourceSheetData() [][]string {
	return textRows([][]string{
		{"Company", "Geography", "Time", "Week", "Dollar Sales"},
		{"Aurora Foods", "Total US - Multi Outlet+", "Week Ending 01-05-25", "1", "1042.55"},
		{"Pacific Harvest", "Northeast", "Week Ending 01-12-25", "2", "873.1"},
		{"Aurora Foods", "Midwest", "Week Ending 01-19-25", "3", "1260.4"},
	}, 3, 4)
}

// fixtureMembers returns the fixture archive's members in write order.
func fixtureMembers() []struct {
	name string
	data []byte
} {
	return []struct {
		name string
		data []byte
	}{
		{"[Content_Types].xml", []byte(contentTypesXML)},
		{"_rels/.rels", []byte(packageRelsXML)},
		{"xl/workbook.xml", []byte(workbookXML)},
		{"xl/_rels/workbook.xml.rels", []byte(workbookRelsXML)},
		{"xl/styles.xml", []byte(stylesXML)},
		{"xl/sharedStrings.xml", []byte(sharedStringsXML)},
		{"xl/worksheets/sheet1.xml", worksheetXML(2, weekSheetData()...)},
		{"xl/worksheets/sheet2.xml", worksheetXML(2, brandSheetData()...)},
		{"xl/worksheets/sheet3.xml", worksheetXML(3, categorySheetData()...)},
		{"xl/worksheets/sheet4.xml", worksheetXML(5, sourceSheetData()...)},
	}
}

// buildWorkbook assembles the fixture archive and returns its raw bytes.
func buildWorkbook(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, m := range fixtureMembers() {
		f, err := zw.Create(m.name)
		if err != nil {
			t.Fatalf("zip create %s: %v", m.name, err)
		}
		if _, err := f.Write(m.data); err != nil {
			t.Fatalf("zip write %s: %v", m.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

// writeWorkbook materializes the fixture archive as a file under the
// test's temp dir and returns its path.
func writeWorkbook(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, buildWorkbook(t), 0o644); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return path
}
