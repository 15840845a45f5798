// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docmodel

import "strings"

// DefaultHeadingPrefix is the style-name prefix of the heading family used
// by the reports this tool processes.
const DefaultHeadingPrefix = "ARTICA"

// HeadingFunc reports whether a paragraph is a structural heading.
type HeadingFunc func(p *Paragraph) bool

// StylePrefix returns a HeadingFunc matching paragraphs whose style name
// starts with prefix. When the style name is unknown the style id is used.
func StylePrefix(prefix string) HeadingFunc {
	return func(p *Paragraph) bool {
		if p == nil || prefix == "" {
			return false
		}
		name := p.StyleName
		if name == "" {
			name = p.StyleID
		}
		return strings.HasPrefix(name, prefix)
	}
}
