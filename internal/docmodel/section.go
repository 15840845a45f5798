// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docmodel

import "strings"

// Element is one piece of captured section content. The set of
// implementations is closed: TextElement and ImageElement.
type Element interface {
	isElement()
}

// Span is a formatted text fragment of a TextElement.
type Span struct {
	Text      string
	Bold      Toggle
	Italic    Toggle
	Underline Toggle
}

// TextElement is one paragraph's worth of formatted text.
type TextElement struct {
	Spans []Span
}

func (TextElement) isElement() {}

// Text concatenates the span texts.
func (e TextElement) Text() string {
	var b strings.Builder
	for _, sp := range e.Spans {
		b.WriteString(sp.Text)
	}
	return b.String()
}

// ImageElement is a picture captured from the source document.
type ImageElement struct {
	Image *Image
}

func (ImageElement) isElement() {}

// Section is the content captured for one indexed title.
type Section struct {
	Title    string
	Elements []Element
}

// SpansFromRuns converts text-bearing runs to spans. Image runs are left
// out; callers emit them as ImageElements.
func SpansFromRuns(runs []Run) []Span {
	var spans []Span
	for _, r := range runs {
		if r.Image != nil && r.Text == "" {
			continue
		}
		spans = append(spans, Span{
			Text:      r.Text,
			Bold:      r.Bold,
			Italic:    r.Italic,
			Underline: r.Underline,
		})
	}
	return spans
}

// RunsFromSpans is the inverse of SpansFromRuns.
func RunsFromSpans(spans []Span) []Run {
	runs := make([]Run, len(spans))
	for i, s := range spans {
		runs[i] = Run{
			Text:      s.Text,
			Bold:      s.Bold,
			Italic:    s.Italic,
			Underline: s.Underline,
		}
	}
	return runs
}
