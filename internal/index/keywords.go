// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strings"
)

// LoadKeywords reads one keyword per non-blank line from path. Surrounding
// whitespace and a UTF-8 byte order mark are ignored.
func LoadKeywords(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading keywords file %s: %w", path, err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	var keywords []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		keywords = append(keywords, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading keywords file %s: %w", path, err)
	}
	return keywords, nil
}
