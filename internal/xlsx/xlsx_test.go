// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package xlsx

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCellRef(t *testing.T) {
	tests := []struct {
		ref     string
		wantCol int
		wantRow int
		wantErr bool
	}{
		{"A1", 0, 0, false},
		{"Z1", 25, 0, false},
		{"AA1", 26, 0, false},
		{"c100", 2, 99, false},
		{"XFD1048576", 16383, 1048575, false},
		{"", 0, 0, true},
		{"1", 0, 0, true},
		{"A", 0, 0, true},
		{"A0", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			col, row, err := ParseCellRef(tt.ref)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCol, col)
			assert.Equal(t, tt.wantRow, row)
		})
	}
}

func TestIndexToColumn(t *testing.T) {
	for _, i := range []int{0, 1, 25, 26, 27, 51, 52, 701, 702, 16383} {
		assert.Equal(t, i, ColumnToIndex(IndexToColumn(i)), "index %d", i)
	}
	assert.Equal(t, "AA", IndexToColumn(26))
	assert.Equal(t, "", IndexToColumn(-1))
}

func TestWriteFileThenOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.xlsx")
	rows := [][]string{
		{"keyword", "presentacion", "memoria", "ruta"},
		{"FLUIDOS", "", "fluidos.docx", `cliente\Instalaciones\Fluidos`},
		{"A & B", "<x>"},
	}
	require.NoError(t, WriteFile(path, "Mapeo", rows))

	wb, err := Open(path)
	require.NoError(t, err)
	require.Len(t, wb.Sheets, 1)
	s := wb.Sheets[0]
	assert.Equal(t, "Mapeo", s.Name)
	assert.Equal(t, rows, s.Rows)
	assert.Equal(t, "", s.Cell(2, 3))
	assert.Equal(t, "", s.Cell(10, 0))
}

func TestOpen_SharedStringsAndSparseCells(t *testing.T) {
	files := map[string]string{
		"[Content_Types].xml": `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`,
		"xl/workbook.xml": `<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">` +
			`<sheets><sheet name="Hoja1" sheetId="1" r:id="rId3"/></sheets></workbook>`,
		"xl/_rels/workbook.xml.rels": `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
			`<Relationship Id="rId3" Type="worksheet" Target="worksheets/data.xml"/></Relationships>`,
		"xl/sharedStrings.xml": `<sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">` +
			`<si><t>keyword</t></si><si><r><t>Rich </t></r><r><t>text</t></r></si></sst>`,
		"xl/worksheets/data.xml": `<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData>` +
			`<row r="1"><c r="A1" t="s"><v>0</v></c><c r="C1"><v>42</v></c></row>` +
			`<row r="3"><c r="B3" t="s"><v>1</v></c><c r="D3" t="b"><v>1</v></c></row>` +
			`</sheetData></worksheet>`,
	}
	path := filepath.Join(t.TempDir(), "shared.xlsx")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	wb, err := Open(path)
	require.NoError(t, err)
	s := wb.Sheets[0]
	assert.Equal(t, "Hoja1", s.Name)
	assert.Equal(t, "keyword", s.Cell(0, 0))
	assert.Equal(t, "", s.Cell(0, 1))
	assert.Equal(t, "42", s.Cell(0, 2))
	assert.Empty(t, s.Rows[1])
	assert.Equal(t, "Rich text", s.Cell(2, 1))
	assert.Equal(t, "TRUE", s.Cell(2, 3))
}

func TestOpen_MissingWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.xlsx")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	_, err = zw.Create("[Content_Types].xml")
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	_, err = Open(path)
	assert.Error(t, err)
}
