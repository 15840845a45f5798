// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package docmodel is the in-memory form of a word-processing document:
// an ordered list of blocks, each a paragraph of formatted runs or an
// opaque element carried through untouched. Every other stage reads and
// writes documents through this vocabulary.
package docmodel

import "strings"

// Block is one body element of a Document. The set of implementations is
// closed: *Paragraph and *Opaque.
type Block interface {
	isBlock()
}

// Toggle is a tri-state run property. Inherit means the run does not set
// the property and takes it from its style.
type Toggle int8

const (
	Inherit Toggle = iota
	On
	Off
)

// String returns "inherit", "on", or "off".
func (t Toggle) String() string {
	switch t {
	case On:
		return "on"
	case Off:
		return "off"
	default:
		return "inherit"
	}
}

// Image is an opaque handle to embedded picture data.
type Image struct {
	// Name is the part name the data was read from, e.g. "media/image1.png".
	Name string
	// Ext is the lower-case file extension without the dot.
	Ext string
	// Data is the raw encoded picture. Nil when the reference could not be
	// resolved.
	Data []byte
	// WidthEMU and HeightEMU are the displayed extent (914400 EMU per inch).
	WidthEMU  int64
	HeightEMU int64
	// RelID is the relationship id inside the owning package.
	RelID string
}

// Run is a stretch of text with uniform formatting, or an inline picture.
type Run struct {
	Text      string
	Bold      Toggle
	Italic    Toggle
	Underline Toggle
	Image     *Image
}

// Paragraph is a styled sequence of runs.
type Paragraph struct {
	// StyleID is the w:pStyle value; empty for the default style.
	StyleID string
	// StyleName is the human-readable style name resolved from the styles
	// part ("Normal" when the paragraph uses the default style).
	StyleName string
	Runs      []Run
	// Source is the encoded element as loaded; nil for paragraphs built in
	// memory. Persistence re-emits Source verbatim when present.
	Source []byte
}

func (*Paragraph) isBlock() {}

// Text concatenates the text of all runs.
func (p *Paragraph) Text() string {
	var b strings.Builder
	for _, r := range p.Runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// HasImages reports whether any run carries a picture.
func (p *Paragraph) HasImages() bool {
	for _, r := range p.Runs {
		if r.Image != nil {
			return true
		}
	}
	return false
}

// Opaque is a body element the model does not interpret (tables, content
// controls, bookmarks). It is persisted exactly as loaded.
type Opaque struct {
	// Kind is the local element name, e.g. "tbl" or "sdt".
	Kind   string
	Source []byte
	// Nested holds paragraphs found inside the element, for read-only
	// scanning. Edits to them are not persisted.
	Nested []*Paragraph
}

func (*Opaque) isBlock() {}

// Document is an ordered sequence of blocks in reading order.
type Document struct {
	Blocks []Block
}

// Len returns the number of blocks.
func (d *Document) Len() int {
	return len(d.Blocks)
}

// Append adds b at the end and returns its index.
func (d *Document) Append(b Block) int {
	d.Blocks = append(d.Blocks, b)
	return len(d.Blocks) - 1
}

// InsertAfter places b immediately after index i and returns the index of
// b, which is the cursor for the next insertion. i may be -1 to insert at
// the front.
func (d *Document) InsertAfter(i int, b Block) int {
	at := i + 1
	if at < 0 {
		at = 0
	}
	if at >= len(d.Blocks) {
		d.Blocks = append(d.Blocks, b)
		return len(d.Blocks) - 1
	}
	d.Blocks = append(d.Blocks, nil)
	copy(d.Blocks[at+1:], d.Blocks[at:])
	d.Blocks[at] = b
	return at
}

// Paragraphs returns the top-level paragraphs in order.
func (d *Document) Paragraphs() []*Paragraph {
	var out []*Paragraph
	for _, b := range d.Blocks {
		if p, ok := b.(*Paragraph); ok {
			out = append(out, p)
		}
	}
	return out
}

// AllParagraphs returns top-level paragraphs and paragraphs nested in
// opaque elements, in reading order.
func (d *Document) AllParagraphs() []*Paragraph {
	var out []*Paragraph
	for _, b := range d.Blocks {
		switch v := b.(type) {
		case *Paragraph:
			out = append(out, v)
		case *Opaque:
			out = append(out, v.Nested...)
		}
	}
	return out
}

// IndexOf returns the block index of p, or -1.
func (d *Document) IndexOf(p *Paragraph) int {
	for i, b := range d.Blocks {
		if b == Block(p) {
			return i
		}
	}
	return -1
}
