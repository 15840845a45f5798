// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func para(text string) *Paragraph {
	return &Paragraph{Runs: []Run{{Text: text}}}
}

func texts(d *Document) []string {
	var out []string
	for _, p := range d.Paragraphs() {
		out = append(out, p.Text())
	}
	return out
}

func TestInsertAfter_AdvancingCursorKeepsOrder(t *testing.T) {
	d := &Document{}
	d.Append(para("before"))
	anchor := d.Append(para("anchor"))
	d.Append(para("after"))

	cursor := anchor
	for _, s := range []string{"one", "two", "three"} {
		cursor = d.InsertAfter(cursor, para(s))
	}

	assert.Equal(t, []string{"before", "anchor", "one", "two", "three", "after"}, texts(d))
	assert.Equal(t, 4, cursor)
}

func TestInsertAfter_Bounds(t *testing.T) {
	tests := []struct {
		name  string
		at    int
		want  []string
		index int
	}{
		{name: "front", at: -1, want: []string{"x", "a", "b"}, index: 0},
		{name: "end", at: 1, want: []string{"a", "b", "x"}, index: 2},
		{name: "past end", at: 10, want: []string{"a", "b", "x"}, index: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &Document{}
			d.Append(para("a"))
			d.Append(para("b"))
			got := d.InsertAfter(tt.at, para("x"))
			assert.Equal(t, tt.index, got)
			assert.Equal(t, tt.want, texts(d))
		})
	}
}

func TestAllParagraphs_IncludesNested(t *testing.T) {
	d := &Document{}
	d.Append(para("first"))
	d.Append(&Opaque{Kind: "sdt", Nested: []*Paragraph{para("toc 1"), para("toc 2")}})
	d.Append(&Opaque{Kind: "tbl"})
	d.Append(para("last"))

	var got []string
	for _, p := range d.AllParagraphs() {
		got = append(got, p.Text())
	}
	assert.Equal(t, []string{"first", "toc 1", "toc 2", "last"}, got)
	assert.Len(t, d.Paragraphs(), 2)
}

func TestIndexOf(t *testing.T) {
	d := &Document{}
	a := para("a")
	b := para("b")
	d.Append(a)
	d.Append(&Opaque{Kind: "tbl"})
	d.Append(b)

	assert.Equal(t, 0, d.IndexOf(a))
	assert.Equal(t, 2, d.IndexOf(b))
	assert.Equal(t, -1, d.IndexOf(para("c")))
}

func TestStylePrefix(t *testing.T) {
	isHeading := StylePrefix(DefaultHeadingPrefix)

	tests := []struct {
		name string
		p    *Paragraph
		want bool
	}{
		{name: "style name match", p: &Paragraph{StyleName: "ARTICA 2"}, want: true},
		{name: "falls back to id", p: &Paragraph{StyleID: "ARTICA1"}, want: true},
		{name: "case sensitive", p: &Paragraph{StyleName: "artica 2"}, want: false},
		{name: "body text", p: &Paragraph{StyleName: "Normal"}, want: false},
		{name: "nil", p: nil, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isHeading(tt.p))
		})
	}

	assert.False(t, StylePrefix("")(&Paragraph{StyleName: "ARTICA"}))
}

func TestSpansRoundTrip(t *testing.T) {
	runs := []Run{
		{Text: "x", Bold: On},
		{Image: &Image{Ext: "png"}},
		{Text: "y", Italic: On, Underline: Off},
	}

	spans := SpansFromRuns(runs)
	require.Len(t, spans, 2)
	assert.Equal(t, Span{Text: "x", Bold: On}, spans[0])
	assert.Equal(t, Span{Text: "y", Italic: On, Underline: Off}, spans[1])

	back := RunsFromSpans(spans)
	assert.Equal(t, []Run{{Text: "x", Bold: On}, {Text: "y", Italic: On, Underline: Off}}, back)
	assert.Equal(t, "xy", TextElement{Spans: spans}.Text())
}

func TestToggleString(t *testing.T) {
	assert.Equal(t, "inherit", Inherit.String())
	assert.Equal(t, "on", On.String())
	assert.Equal(t, "off", Off.String())
}
