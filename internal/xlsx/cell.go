// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package xlsx

import (
	"fmt"
	"strconv"
)

// ParseCellRef parses a reference like "A1" or "AA100" into 0-indexed
// column and row.
func ParseCellRef(ref string) (col, row int, err error) {
	i := 0
	for i < len(ref) && isLetter(ref[i]) {
		i++
	}
	if i == 0 {
		return 0, 0, fmt.Errorf("invalid cell reference %q: no column letters", ref)
	}
	if i == len(ref) {
		return 0, 0, fmt.Errorf("invalid cell reference %q: no row number", ref)
	}

	col = ColumnToIndex(ref[:i])
	n, err := strconv.Atoi(ref[i:])
	if err != nil || n < 1 {
		return 0, 0, fmt.Errorf("invalid cell reference %q: bad row", ref)
	}
	return col, n - 1, nil
}

// ColumnToIndex converts column letters to a 0-indexed column: A=0, Z=25,
// AA=26.
func ColumnToIndex(letters string) int {
	n := 0
	for i := 0; i < len(letters); i++ {
		c := letters[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		n = n*26 + int(c-'A') + 1
	}
	return n - 1
}

func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}
