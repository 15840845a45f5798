// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mapping

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/memoria-engine/internal/xlsx"
	"github.com/pdiddy/memoria-engine/pkg/types"
)

func writeTable(t *testing.T, rows [][]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mapeo.xlsx")
	require.NoError(t, xlsx.WriteFile(path, "Hoja1", rows))
	return path
}

func TestLoad(t *testing.T) {
	path := writeTable(t, [][]string{
		{"Ruta", " KEYWORD ", "Memoria", "Presentacion", "notas"},
		{`cliente\Instalaciones\Fluidos`, " INSTALACIÓN DE FLUIDOS ", "fluidos.docx", "", "x"},
		{"", "", "", "", "blank keyword row"},
		{"cliente/Obra", "OBRA CIVIL", "", "obra_p.docx"},
	})

	rows, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []types.MappingRow{
		{Keyword: "INSTALACIÓN DE FLUIDOS", Memoria: "fluidos.docx", Ruta: `cliente\Instalaciones\Fluidos`},
		{Keyword: "OBRA CIVIL", Presentacion: "obra_p.docx", Ruta: "cliente/Obra"},
	}, rows)
}

func TestLoad_MissingColumn(t *testing.T) {
	path := writeTable(t, [][]string{{"keyword", "memoria"}, {"A", "a.docx"}})
	_, err := Load(path)
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestLoad_NotAWorkbook(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.Error(t, err)
}

func TestFind(t *testing.T) {
	rows := []types.MappingRow{
		{Keyword: "FLUIDOS ", Memoria: "first.docx"},
		{Keyword: "FLUIDOS", Memoria: "second.docx"},
	}

	got, ok := Find(rows, " FLUIDOS")
	require.True(t, ok)
	assert.Equal(t, "first.docx", got.Memoria)

	_, ok = Find(rows, "fluidos")
	assert.False(t, ok)
}
