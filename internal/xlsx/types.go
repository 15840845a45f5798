// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package xlsx

import (
	"encoding/xml"
	"strings"
)

// workbookXML represents xl/workbook.xml.
type workbookXML struct {
	XMLName xml.Name      `xml:"workbook"`
	Sheets  []sheetRefXML `xml:"sheets>sheet"`
}

type sheetRefXML struct {
	Name string `xml:"name,attr"`
	RID  string `xml:"id,attr"`
}

// worksheetXML represents xl/worksheets/sheetN.xml.
type worksheetXML struct {
	XMLName xml.Name `xml:"worksheet"`
	Rows    []rowXML `xml:"sheetData>row"`
}

type rowXML struct {
	R     int       `xml:"r,attr"`
	Cells []cellXML `xml:"c"`
}

type cellXML struct {
	R  string       `xml:"r,attr"`
	T  string       `xml:"t,attr"`
	V  string       `xml:"v"`
	Is *richTextXML `xml:"is"`
}

// richTextXML is a shared or inline string: plain <t> or rich-text runs.
type richTextXML struct {
	T string       `xml:"t"`
	R []textRunXML `xml:"r"`
}

type textRunXML struct {
	T string `xml:"t"`
}

func (s richTextXML) text() string {
	if len(s.R) == 0 {
		return s.T
	}
	var b strings.Builder
	b.WriteString(s.T)
	for _, r := range s.R {
		b.WriteString(r.T)
	}
	return b.String()
}

// sharedStringsXML represents xl/sharedStrings.xml.
type sharedStringsXML struct {
	XMLName xml.Name      `xml:"sst"`
	SI      []richTextXML `xml:"si"`
}

type relationshipsXML struct {
	XMLName       xml.Name          `xml:"Relationships"`
	Relationships []relationshipXML `xml:"Relationship"`
}

type relationshipXML struct {
	ID     string `xml:"Id,attr"`
	Target string `xml:"Target,attr"`
}
