package workbook

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TsubasaBE/go-sheetpatch/archive"
)

const (
	nsMain = "http://schemas.openxmlformats.org/spreadsheetml/2006/main"
	nsRel  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsPkg  = "http://schemas.openxmlformats.org/package/2006/relationships"
)

type fixtureSheet struct {
	name   string // display name in workbook.xml
	target string // rels target, e.g. "worksheets/sheet1.xml"
	path   string // archive member path holding xml
	xml    string
}

// buildFixture assembles a minimal workbook archive in memory.
func buildFixture(t *testing.T, sheets []fixtureSheet, sharedStrings string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	add := func(name, data string) {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(data))
		require.NoError(t, err)
	}

	var wbSheets, rels bytes.Buffer
	for i, s := range sheets {
		fmt.Fprintf(&wbSheets, `<sheet name="%s" sheetId="%d" r:id="rId%d"/>`, s.name, i+1, i+1)
		fmt.Fprintf(&rels, `<Relationship Id="rId%d" Type="%s/worksheet" Target="%s"/>`, i+1, nsRel, s.target)
	}
	add("xl/workbook.xml", fmt.Sprintf(
		`<?xml version="1.0"?><workbook xmlns="%s" xmlns:r="%s"><sheets>%s</sheets></workbook>`,
		nsMain, nsRel, wbSheets.String()))
	add("xl/_rels/workbook.xml.rels", fmt.Sprintf(
		`<?xml version="1.0"?><Relationships xmlns="%s">%s</Relationships>`, nsPkg, rels.String()))
	if sharedStrings != "" {
		add("xl/sharedStrings.xml", sharedStrings)
	}
	for _, s := range sheets {
		add(s.path, s.xml)
	}

	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func openFixture(t *testing.T, data []byte) *Workbook {
	t.Helper()
	wb, err := OpenReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	return wb
}

func inlineSheet(dimension string, headers ...string) string {
	var rows bytes.Buffer
	for i, h := range headers {
		fmt.Fprintf(&rows, `<c r="%c1" t="inlineStr"><is><t>%s</t></is></c>`, 'A'+i, h)
	}
	dim := ""
	if dimension != "" {
		dim = fmt.Sprintf(`<dimension ref="%s"/>`, dimension)
	}
	return fmt.Sprintf(
		`<?xml version="1.0"?><worksheet xmlns="%s">%s<sheetData><row r="1">%s</row></sheetData></worksheet>`,
		nsMain, dim, rows.String())
}

func TestSheetsAndPaths(t *testing.T) {
	data := buildFixture(t, []fixtureSheet{
		{"Week Dictionary", "worksheets/sheet1.xml", "xl/worksheets/sheet1.xml", inlineSheet("A1:B6", "Time", "Week")},
		{"Brand Dictionary", "/xl/worksheets/sheet2.xml", "xl/worksheets/sheet2.xml", inlineSheet("A1:B11", "Brand", "Name")},
	}, "")
	wb := openFixture(t, data)
	defer wb.Close()

	assert.Equal(t, []string{"Week Dictionary", "Brand Dictionary"}, wb.Sheets())

	// Relative targets resolve against xl/, absolute targets are used as-is.
	path, err := wb.SheetPath("Week Dictionary")
	require.NoError(t, err)
	assert.Equal(t, "xl/worksheets/sheet1.xml", path)

	path, err = wb.SheetPath("Brand Dictionary")
	require.NoError(t, err)
	assert.Equal(t, "xl/worksheets/sheet2.xml", path)

	// Case-insensitive lookup.
	_, err = wb.SheetPath("week dictionary")
	assert.NoError(t, err)

	_, err = wb.SheetPath("No Such Sheet")
	assert.ErrorIs(t, err, archive.ErrMissingSheet)
}

func TestDescriptor(t *testing.T) {
	data := buildFixture(t, []fixtureSheet{
		{"Week Dictionary", "worksheets/sheet1.xml", "xl/worksheets/sheet1.xml", inlineSheet("A1:B6", "Time", "Week")},
	}, "")
	wb := openFixture(t, data)
	defer wb.Close()

	d, err := wb.Descriptor("Week Dictionary")
	require.NoError(t, err)
	assert.Equal(t, "Week Dictionary", d.Name)
	assert.Equal(t, "xl/worksheets/sheet1.xml", d.Path)
	assert.Equal(t, []string{"Time", "Week"}, d.Header)
	assert.Equal(t, 6, d.MaxRow)
	assert.Equal(t, "B", d.MaxColLetter)
}

func TestDescriptorSharedStringHeader(t *testing.T) {
	sst := fmt.Sprintf(`<?xml version="1.0"?><sst xmlns="%s"><si><t>Time</t></si><si><r><t>We</t></r><r><t>ek</t></r></si></sst>`, nsMain)
	sheet := fmt.Sprintf(
		`<?xml version="1.0"?><worksheet xmlns="%s"><dimension ref="A1:B3"/><sheetData>`+
			`<row r="1"><c r="A1" t="s"><v>0</v></c><c r="B1" t="s"><v>1</v></c></row>`+
			`</sheetData></worksheet>`, nsMain)
	data := buildFixture(t, []fixtureSheet{
		{"Datos", "worksheets/sheet1.xml", "xl/worksheets/sheet1.xml", sheet},
	}, sst)
	wb := openFixture(t, data)
	defer wb.Close()

	d, err := wb.Descriptor("Datos")
	require.NoError(t, err)
	// Rich-text shared strings are flattened before header assembly.
	assert.Equal(t, []string{"Time", "Week"}, d.Header)
}

func TestNoSharedStringsPart(t *testing.T) {
	data := buildFixture(t, []fixtureSheet{
		{"Datos", "worksheets/sheet1.xml", "xl/worksheets/sheet1.xml", inlineSheet("", "a")},
	}, "")
	wb := openFixture(t, data)
	defer wb.Close()

	assert.Equal(t, 0, wb.SharedStrings().Len())
}

func TestMissingStructuralParts(t *testing.T) {
	t.Run("no workbook part", func(t *testing.T) {
		var buf bytes.Buffer
		zw := zip.NewWriter(&buf)
		w, err := zw.Create("xl/_rels/workbook.xml.rels")
		require.NoError(t, err)
		_, _ = w.Write([]byte(`<Relationships/>`))
		require.NoError(t, zw.Close())

		_, err = OpenReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
		assert.ErrorIs(t, err, archive.ErrArchiveCorrupt)
	})

	t.Run("no rels part", func(t *testing.T) {
		var buf bytes.Buffer
		zw := zip.NewWriter(&buf)
		w, err := zw.Create("xl/workbook.xml")
		require.NoError(t, err)
		_, _ = w.Write([]byte(`<workbook><sheets/></workbook>`))
		require.NoError(t, zw.Close())

		_, err = OpenReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
		assert.ErrorIs(t, err, archive.ErrArchiveCorrupt)
	})

	t.Run("unmapped relationship id", func(t *testing.T) {
		data := buildFixture(t, []fixtureSheet{
			{"Datos", "worksheets/sheet1.xml", "xl/worksheets/sheet1.xml", inlineSheet("", "a")},
		}, "")
		// Rebuild with a rels part that lacks rId1.
		var buf bytes.Buffer
		zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
		require.NoError(t, err)
		zw := zip.NewWriter(&buf)
		for _, f := range zr.File {
			w, err := zw.Create(f.Name)
			require.NoError(t, err)
			if f.Name == "xl/_rels/workbook.xml.rels" {
				_, _ = w.Write([]byte(`<Relationships/>`))
				continue
			}
			rc, err := f.Open()
			require.NoError(t, err)
			_, err = io.Copy(w, rc)
			require.NoError(t, err)
			require.NoError(t, rc.Close())
		}
		require.NoError(t, zw.Close())

		_, err = OpenReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
		assert.ErrorIs(t, err, archive.ErrArchiveCorrupt)
	})
}
