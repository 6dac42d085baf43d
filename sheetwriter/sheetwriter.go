// Package sheetwriter synthesizes complete worksheet XML parts: a root
// element with the spreadsheet-main and relationship namespace bindings, a
// dimension declaration sized to the sheet's extent, and one dense row
// element per row.
//
// The emitted dialect is deliberately minimal. Text cells are inline
// strings (t="inlineStr"), never shared-string references, and numeric
// cells carry a bare literal value node. Every declared column produces
// exactly one cell per row, so downstream readers can reconstruct rows
// positionally.
package sheetwriter

import (
	"bufio"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/TsubasaBE/go-sheetpatch/cellref"
)

// Worksheet XML namespace bindings required on the root element.
const (
	NamespaceMain = "http://schemas.openxmlformats.org/spreadsheetml/2006/main"
	NamespaceRel  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
)

// ErrSchemaMismatch is returned when a schema's numeric-flag sequence does
// not match its header length. It is reported before any bytes are written.
var ErrSchemaMismatch = errors.New("sheetwriter: numeric flags length does not match header length")

// Schema is the fixed per-column shape of one sheet: the header texts and,
// per column, whether data values are numeric literals or inline strings.
// Flags are supplied once per sheet, not re-derived per row.
type Schema struct {
	Header  []string
	Numeric []bool
}

func (s Schema) validate() error {
	if len(s.Numeric) != len(s.Header) {
		return fmt.Errorf("%w: %d flags for %d columns", ErrSchemaMismatch, len(s.Numeric), len(s.Header))
	}
	return nil
}

// RowFunc produces the values of one data row in generator mode. row is the
// worksheet row number the values will occupy (2 for the first data row).
// The function is invoked exactly once per row, in increasing row order.
type RowFunc func(row int) []string

// WriteRows synthesizes a worksheet from an already-materialized table:
// the schema's header as row 1 followed by the given data rows in order.
func WriteRows(w io.Writer, schema Schema, rows [][]string) error {
	if err := schema.validate(); err != nil {
		return err
	}
	return writeSheet(w, schema, len(rows), func(row int) []string {
		return rows[row-2]
	})
}

// WriteGenerated synthesizes a worksheet whose data rows are pulled from
// next, one call per row. The production sequence is lazy and finite; no
// row is buffered beyond the one currently being written, so sheets of any
// length stream in constant memory.
func WriteGenerated(w io.Writer, schema Schema, dataRows int, next RowFunc) error {
	if err := schema.validate(); err != nil {
		return err
	}
	if dataRows < 0 {
		dataRows = 0
	}
	return writeSheet(w, schema, dataRows, next)
}

// writeSheet drives the row encoder across the whole document. Rows are
// numbered 1 (header) then 2..totalRows, and the dimension declaration
// spans A1 to the header width × total row count.
func writeSheet(w io.Writer, schema Schema, dataRows int, next RowFunc) error {
	letters := make([]string, len(schema.Header))
	for i := range schema.Header {
		letters[i] = cellref.IndexToLetters(i + 1)
	}
	lastCol := "A"
	if len(letters) > 0 {
		lastCol = letters[len(letters)-1]
	}
	totalRows := 1 + dataRows

	bw := bufio.NewWriter(w)
	bw.WriteString(xml.Header)
	fmt.Fprintf(bw, `<worksheet xmlns=%q xmlns:r=%q>`, NamespaceMain, NamespaceRel)
	fmt.Fprintf(bw, `<dimension ref="A1:%s%d"/>`, lastCol, totalRows)
	bw.WriteString(`<sheetData>`)

	headerFlags := make([]bool, len(schema.Header))
	encodeRow(bw, 1, letters, schema.Header, headerFlags)
	for row := 2; row <= totalRows; row++ {
		encodeRow(bw, row, letters, next(row), schema.Numeric)
	}

	bw.WriteString(`</sheetData></worksheet>`)
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("sheetwriter: write sheet: %w", err)
	}
	return nil
}

// encodeRow serializes one logical row. Cells appear in increasing column
// order, one per declared column; a value missing from a short row is
// emitted as an empty inline string, never as an omitted cell.
func encodeRow(bw *bufio.Writer, row int, letters []string, values []string, numeric []bool) {
	fmt.Fprintf(bw, `<row r="%d">`, row)
	for i, letter := range letters {
		ref := letter + strconv.Itoa(row)
		val := ""
		if i < len(values) {
			val = values[i]
		}
		if numeric[i] && val != "" {
			// Numeric literals are emitted verbatim; supplying valid numeric
			// text is the caller's contract.
			fmt.Fprintf(bw, `<c r="%s"><v>%s</v></c>`, ref, val)
			continue
		}
		fmt.Fprintf(bw, `<c r="%s" t="inlineStr"><is><t>`, ref)
		_ = xml.EscapeText(bw, []byte(val))
		bw.WriteString(`</t></is></c>`)
	}
	bw.WriteString("</row>\n")
}
