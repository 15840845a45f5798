// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mapping loads the keyword mapping table that tells the template
// inserter which template receives each artifact and tells the organizer
// where each artifact is filed.
package mapping

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/memoria-engine/internal/xlsx"
	"github.com/pdiddy/memoria-engine/pkg/types"
)

// Column headers, matched case-insensitively in the first row.
const (
	ColKeyword      = "keyword"
	ColPresentacion = "presentacion"
	ColMemoria      = "memoria"
	ColRuta         = "ruta"
)

// ErrMissingColumn is returned when a required header is absent.
var ErrMissingColumn = errors.New("mapping table is missing a required column")

// Load reads the first sheet of the workbook at path. The first row is the
// header; rows whose keyword is blank are skipped. Values are trimmed.
func Load(path string) ([]types.MappingRow, error) {
	wb, err := xlsx.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading mapping table %s: %w", path, err)
	}
	return FromSheet(wb.Sheets[0])
}

// FromSheet converts a worksheet to mapping rows.
func FromSheet(s *xlsx.Sheet) ([]types.MappingRow, error) {
	if len(s.Rows) == 0 {
		return nil, fmt.Errorf("%w: %s (sheet %q is empty)", ErrMissingColumn, ColKeyword, s.Name)
	}

	cols := map[string]int{}
	for i, h := range s.Rows[0] {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, dup := cols[key]; !dup && key != "" {
			cols[key] = i
		}
	}
	for _, required := range []string{ColKeyword, ColRuta} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}

	get := func(row int, name string) string {
		col, ok := cols[name]
		if !ok {
			return ""
		}
		return strings.TrimSpace(s.Cell(row, col))
	}

	var rows []types.MappingRow
	for r := 1; r < len(s.Rows); r++ {
		kw := get(r, ColKeyword)
		if kw == "" {
			continue
		}
		rows = append(rows, types.MappingRow{
			Keyword:      kw,
			Presentacion: get(r, ColPresentacion),
			Memoria:      get(r, ColMemoria),
			Ruta:         get(r, ColRuta),
		})
	}
	return rows, nil
}

// Find returns the first row whose keyword equals keyword after trimming.
func Find(rows []types.MappingRow, keyword string) (types.MappingRow, bool) {
	keyword = strings.TrimSpace(keyword)
	for _, r := range rows {
		if strings.TrimSpace(r.Keyword) == keyword {
			return r, true
		}
	}
	return types.MappingRow{}, false
}
