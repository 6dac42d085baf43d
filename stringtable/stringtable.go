// Package stringtable parses the xl/sharedStrings.xml part of a workbook
// and provides indexed access to the shared string values.
package stringtable

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
)

// StringTable holds the shared strings parsed from xl/sharedStrings.xml.
// It is immutable once built; cells reference entries by 0-based position.
type StringTable struct {
	strings []string
}

// New reads all shared string entries from r and returns a populated
// StringTable. Each entry's text is the concatenation of every text-run
// fragment inside its <si> element, so rich-text entries are flattened
// rather than truncated to their first run.
func New(r io.Reader) (*StringTable, error) {
	st := &StringTable{}
	dec := xml.NewDecoder(r)
	depth := 0   // element nesting depth relative to the document root
	siDepth := 0 // depth of the currently open <si>, 0 when outside one
	inText := false
	var cur bytes.Buffer

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("stringtable: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "si":
				if siDepth == 0 {
					siDepth = depth
					cur.Reset()
				}
			case "t":
				if siDepth > 0 {
					inText = true
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "si":
				if depth == siDepth {
					st.strings = append(st.strings, cur.String())
					siDepth = 0
				}
			}
			depth--
		case xml.CharData:
			if inText {
				cur.Write(t)
			}
		}
	}
	return st, nil
}

// NewFromBytes is a convenience wrapper that builds a StringTable from an
// in-memory byte slice (useful in tests).
func NewFromBytes(b []byte) (*StringTable, error) {
	return New(bytes.NewReader(b))
}

// Empty returns a StringTable with no entries, used when a workbook has no
// sharedStrings part.
func Empty() *StringTable {
	return &StringTable{}
}

// Lookup returns the shared string at index idx, or "" when idx is out of
// range. An out-of-range reference in a worksheet is a data-quality issue,
// not a structural one, so it resolves to empty text rather than failing.
func (st *StringTable) Lookup(idx int) string {
	if st == nil || idx < 0 || idx >= len(st.strings) {
		return ""
	}
	return st.strings[idx]
}

// Len returns the total number of shared strings loaded.
func (st *StringTable) Len() int {
	if st == nil {
		return 0
	}
	return len(st.strings)
}
