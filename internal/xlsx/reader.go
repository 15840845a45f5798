// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package xlsx reads cell text from XLSX (Office Open XML Spreadsheet)
// workbooks. Only values are read; styles, formulas, and merges are ignored.
package xlsx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
)

const workbookPart = "xl/workbook.xml"

// Sheet is a worksheet as a dense grid of cell text. Rows[r][c] is the
// value at 0-indexed row r and column c; missing cells are "".
type Sheet struct {
	Name string
	Rows [][]string
}

// Workbook is a parsed XLSX file.
type Workbook struct {
	Sheets []*Sheet
}

// Open reads every worksheet of the workbook at filename.
func Open(filename string) (*Workbook, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}
	defer zr.Close()

	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}
	read := func(name string) ([]byte, error) {
		f, ok := files[name]
		if !ok {
			return nil, fmt.Errorf("missing required file: %s", name)
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}

	data, err := read(workbookPart)
	if err != nil {
		return nil, err
	}
	var wb workbookXML
	if err := xml.Unmarshal(data, &wb); err != nil {
		return nil, fmt.Errorf("parsing workbook: %w", err)
	}

	targets := make(map[string]string)
	if data, err := read("xl/_rels/workbook.xml.rels"); err == nil {
		var rels relationshipsXML
		if err := xml.Unmarshal(data, &rels); err != nil {
			return nil, fmt.Errorf("parsing relationships: %w", err)
		}
		for _, r := range rels.Relationships {
			targets[r.ID] = r.Target
		}
	}

	// Shared strings are optional; workbooks with only inline strings omit them.
	var shared []string
	if data, err := read("xl/sharedStrings.xml"); err == nil {
		var sst sharedStringsXML
		if err := xml.Unmarshal(data, &sst); err != nil {
			return nil, fmt.Errorf("parsing shared strings: %w", err)
		}
		shared = make([]string, len(sst.SI))
		for i, si := range sst.SI {
			shared[i] = si.text()
		}
	}

	out := &Workbook{}
	for i, ref := range wb.Sheets {
		target := targets[ref.RID]
		if target == "" {
			target = "worksheets/sheet" + strconv.Itoa(i+1) + ".xml"
		}
		if strings.HasPrefix(target, "/") {
			target = strings.TrimPrefix(target, "/")
		} else {
			target = path.Join("xl", target)
		}
		data, err := read(target)
		if err != nil {
			return nil, fmt.Errorf("reading sheet %q: %w", ref.Name, err)
		}
		sheet, err := parseSheet(data, ref.Name, shared)
		if err != nil {
			return nil, fmt.Errorf("parsing sheet %q: %w", ref.Name, err)
		}
		out.Sheets = append(out.Sheets, sheet)
	}
	if len(out.Sheets) == 0 {
		return nil, fmt.Errorf("no worksheets found")
	}
	return out, nil
}

func parseSheet(data []byte, name string, shared []string) (*Sheet, error) {
	var ws worksheetXML
	if err := xml.Unmarshal(data, &ws); err != nil {
		return nil, err
	}

	sheet := &Sheet{Name: name}
	for i, row := range ws.Rows {
		r := row.R - 1
		if row.R == 0 {
			r = i
		}
		for j, c := range row.Cells {
			col := j
			if c.R != "" {
				cc, _, err := ParseCellRef(c.R)
				if err != nil {
					continue
				}
				col = cc
			}
			sheet.set(r, col, cellText(c, shared))
		}
	}
	return sheet, nil
}

func (s *Sheet) set(row, col int, v string) {
	for len(s.Rows) <= row {
		s.Rows = append(s.Rows, nil)
	}
	for len(s.Rows[row]) <= col {
		s.Rows[row] = append(s.Rows[row], "")
	}
	s.Rows[row][col] = v
}

func cellText(c cellXML, shared []string) string {
	switch c.T {
	case "s":
		i, err := strconv.Atoi(strings.TrimSpace(c.V))
		if err != nil || i < 0 || i >= len(shared) {
			return ""
		}
		return shared[i]
	case "inlineStr":
		if c.Is != nil {
			return c.Is.text()
		}
		return ""
	case "b":
		if c.V == "1" {
			return "TRUE"
		}
		return "FALSE"
	default:
		return c.V
	}
}

// Cell returns the text at row, col (0-indexed), or "" when out of range.
func (s *Sheet) Cell(row, col int) string {
	if row < 0 || row >= len(s.Rows) || col < 0 || col >= len(s.Rows[row]) {
		return ""
	}
	return s.Rows[row][col]
}
