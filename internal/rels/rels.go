// Package rels parses OOXML relationship XML files (.rels) and resolves
// relationship targets to archive member paths.
//
// The workbook's sheet list refers to worksheet parts indirectly: each sheet
// carries a relationship ID, and xl/_rels/workbook.xml.rels maps that ID to a
// target path relative to xl/. Sheet part paths must be resolved through this
// chain rather than assumed from the sheet's display name.
package rels

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// Relationships is the root element of a .rels XML document.
type Relationships struct {
	Relationships []Relationship `xml:"Relationship"`
}

// Relationship is one entry in a .rels XML document.
type Relationship struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

// Parse parses the raw bytes of a .rels XML file and returns a map of
// relationship ID → target string.
func Parse(data []byte) (map[string]string, error) {
	var r Relationships
	if err := xml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("rels: parse: %w", err)
	}
	m := make(map[string]string, len(r.Relationships))
	for _, rel := range r.Relationships {
		m[rel.ID] = rel.Target
	}
	return m, nil
}

// ResolveTarget converts a workbook relationship target (e.g.
// "worksheets/sheet1.xml" or "/xl/worksheets/sheet1.xml") to the archive
// member path of the part. Absolute targets are used as-is after stripping
// the leading slash; relative targets are resolved against xl/.
func ResolveTarget(target string) string {
	t := strings.TrimPrefix(target, "/")
	if strings.HasPrefix(t, "xl/") {
		return t
	}
	return "xl/" + t
}
