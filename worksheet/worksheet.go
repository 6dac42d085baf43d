// Package worksheet scans a worksheet XML part for its metadata: the
// declared dimension range and the header row.
//
// The scan is a forward-only, single-pass parse over the part's byte
// stream. It consumes just enough of the document to capture the header
// row and one further row boundary, then stops, so large sheets are never
// materialized. The caller abandons the remaining stream by closing the
// underlying member reader.
package worksheet

import (
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/TsubasaBE/go-sheetpatch/cellref"
	"github.com/TsubasaBE/go-sheetpatch/stringtable"
)

// Metadata is the read-only snapshot of one sheet produced by Scan: the
// header row in column order plus the sheet's declared or inferred extent.
type Metadata struct {
	// DimensionRef is the raw range reference from the <dimension> element,
	// or "" when the sheet declares none.
	DimensionRef string
	// Header holds the first row's cell texts in ascending column order.
	Header []string
	// MaxRow is the last occupied row number (1-based). The dimension
	// declaration wins when present; otherwise it is the highest row index
	// observed before the scan stopped, and 1 for an empty sheet.
	MaxRow int
	// MaxColLetter is the last occupied column in letter form. The dimension
	// declaration wins when present; otherwise it is derived from the header
	// length, and "A" for an empty sheet.
	MaxColLetter string
}

// Cell is one raw cell element as stored in worksheet XML.
type Cell struct {
	Ref  string       `xml:"r,attr"`
	Type string       `xml:"t,attr"`
	V    *string      `xml:"v"`
	Is   *inlineParts `xml:"is"`
}

// inlineParts captures the text fragments of an inline string, both direct
// <t> children and <t> nested inside rich-text <r> runs.
type inlineParts struct {
	Text []string `xml:"t"`
	Runs []struct {
		Text string `xml:"t"`
	} `xml:"r"`
}

type xmlRow struct {
	R     int    `xml:"r,attr"`
	Cells []Cell `xml:"c"`
}

// Decode resolves the cell's displayed text regardless of its storage form.
//
//   - shared-string cells (t="s") look the index up in st; out-of-range
//     indices and unparsable index values resolve to empty text
//   - inline-string cells (t="inlineStr") concatenate their text fragments
//   - any other cell returns its literal <v> content verbatim, leaving
//     numeric interpretation to the caller
//   - a cell with no value node at all is empty text
func (c *Cell) Decode(st *stringtable.StringTable) string {
	switch {
	case c.Type == "s" && c.V != nil:
		idx, err := strconv.Atoi(strings.TrimSpace(*c.V))
		if err != nil {
			return ""
		}
		return st.Lookup(idx)
	case c.Type == "inlineStr":
		if c.Is == nil {
			return ""
		}
		var sb strings.Builder
		for _, t := range c.Is.Text {
			sb.WriteString(t)
		}
		for _, r := range c.Is.Runs {
			sb.WriteString(r.Text)
		}
		return sb.String()
	case c.V != nil:
		return *c.V
	default:
		return ""
	}
}

// Scan streams the worksheet XML from r far enough to recover its metadata.
// st resolves shared-string cells; pass stringtable.Empty() when the
// workbook has no shared strings.
//
// Scan returns as soon as the header row has been read and one further row
// boundary has been seen, or at end-of-stream. An empty sheet yields the
// 1×A convention rather than an error.
func Scan(r io.Reader, st *stringtable.StringTable) (Metadata, error) {
	md := Metadata{MaxRow: 1}
	dec := xml.NewDecoder(r)
	rowsSeen := 0
	headerDone := false

scan:
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Metadata{}, fmt.Errorf("worksheet: scan: %w", err)
		}

		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch se.Name.Local {
		case "dimension":
			for _, a := range se.Attr {
				if a.Name.Local == "ref" {
					md.DimensionRef = a.Value
				}
			}
		case "row":
			rowsSeen++
			var row xmlRow
			if err := dec.DecodeElement(&row, &se); err != nil {
				return Metadata{}, fmt.Errorf("worksheet: scan row: %w", err)
			}
			idx := row.R
			if idx == 0 {
				// Unindexed row: take the position in document order.
				idx = rowsSeen
			}
			if idx > md.MaxRow {
				md.MaxRow = idx
			}
			if idx == 1 && !headerDone {
				md.Header = headerTexts(row.Cells, st)
				headerDone = true
			}
			if idx >= 2 {
				break scan
			}
		}
	}

	md.applyDimension()
	if md.MaxColLetter == "" && len(md.Header) > 0 {
		md.MaxColLetter = cellref.IndexToLetters(len(md.Header))
	}
	if md.MaxColLetter == "" {
		md.MaxColLetter = "A"
	}
	return md, nil
}

// headerTexts decodes the header row's cells in ascending column order.
// Encoders may omit empty cells and are not required to emit cells in
// column order, so each cell is keyed by its own address. A malformed cell
// reference never aborts the derivation: the cell keeps a neutral key
// (column A) and the stable sort leaves it in document order relative to
// its peers.
func headerTexts(cells []Cell, st *stringtable.StringTable) []string {
	type keyed struct {
		col  int
		text string
	}
	ordered := make([]keyed, len(cells))
	for i, c := range cells {
		col, _, err := cellref.ParseRef(c.Ref)
		if err != nil {
			col = 1
		}
		ordered[i] = keyed{col: col, text: c.Decode(st)}
	}
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].col < ordered[j].col })

	texts := make([]string, len(ordered))
	for i, k := range ordered {
		texts[i] = k.text
	}
	return texts
}

// applyDimension lets a parsable dimension declaration override the
// observed extent. An unparsable declaration is ignored rather than fatal.
func (md *Metadata) applyDimension() {
	if md.DimensionRef == "" {
		return
	}
	letters, row, err := cellref.RangeEnd(md.DimensionRef)
	if err != nil {
		return
	}
	md.MaxColLetter = letters
	md.MaxRow = row
}
