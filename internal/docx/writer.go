// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pdiddy/memoria-engine/internal/docmodel"
)

// Save writes the package to filename. The file is written to a temporary
// name in the same directory and renamed into place, so an existing file is
// either fully replaced or left untouched.
func (p *Package) Save(filename string) error {
	data, err := p.Bytes()
	if err != nil {
		return err
	}

	dir := filepath.Dir(filename)
	tmp, err := os.CreateTemp(dir, ".docx-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", filename, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", filename, err)
	}
	if err := os.Rename(tmpPath, filename); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// Bytes encodes the package as a DOCX archive.
func (p *Package) Bytes() ([]byte, error) {
	p.parts[p.docPart] = p.renderDocument()

	if p.relsDirty {
		if err := p.ensureDefaultContentType("rels", ctRelationships); err != nil {
			return nil, err
		}
		data, err := marshalPart(p.rels)
		if err != nil {
			return nil, fmt.Errorf("encoding relationships: %w", err)
		}
		p.setPart(p.relsPart(), data)
		p.relsDirty = false
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range p.names {
		w, err := zw.Create(name)
		if err != nil {
			return nil, fmt.Errorf("adding %s: %w", name, err)
		}
		if _, err := w.Write(p.parts[name]); err != nil {
			return nil, fmt.Errorf("adding %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing archive: %w", err)
	}
	return buf.Bytes(), nil
}

// setPart stores data under name, registering the name if it is new.
func (p *Package) setPart(name string, data []byte) {
	if _, ok := p.parts[name]; !ok {
		p.names = append(p.names, name)
	}
	p.parts[name] = data
}

func marshalPart(v any) ([]byte, error) {
	body, err := xml.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(xml.Header)+len(body))
	out = append(out, xml.Header...)
	return append(out, body...), nil
}

func (p *Package) renderDocument() []byte {
	var buf bytes.Buffer
	buf.Write(p.head)
	for _, b := range p.doc.Blocks {
		switch v := b.(type) {
		case *docmodel.Paragraph:
			if v.Source != nil {
				buf.Write(v.Source)
				continue
			}
			p.renderParagraph(&buf, v)
		case *docmodel.Opaque:
			buf.Write(v.Source)
		}
	}
	buf.Write(p.sectPr)
	buf.Write(p.tail)
	return buf.Bytes()
}

func (p *Package) renderParagraph(buf *bytes.Buffer, para *docmodel.Paragraph) {
	buf.WriteString("<w:p")
	if p.declareW {
		buf.WriteString(` xmlns:w="` + nsW + `"`)
	}
	buf.WriteString(">")
	if para.StyleID != "" {
		buf.WriteString(`<w:pPr><w:pStyle w:val="`)
		xml.EscapeText(buf, []byte(para.StyleID))
		buf.WriteString(`"/></w:pPr>`)
	}
	for _, r := range para.Runs {
		if r.Text != "" {
			buf.WriteString("<w:r>")
			writeRunProps(buf, r)
			writeRunText(buf, r.Text)
			buf.WriteString("</w:r>")
		}
		if r.Image != nil && r.Image.RelID != "" {
			buf.WriteString("<w:r>")
			p.writeDrawing(buf, r.Image)
			buf.WriteString("</w:r>")
		}
	}
	buf.WriteString("</w:p>")
}

func writeRunProps(buf *bytes.Buffer, r docmodel.Run) {
	if r.Bold == docmodel.Inherit && r.Italic == docmodel.Inherit && r.Underline == docmodel.Inherit {
		return
	}
	buf.WriteString("<w:rPr>")
	writeToggle(buf, "b", r.Bold)
	writeToggle(buf, "i", r.Italic)
	switch r.Underline {
	case docmodel.On:
		buf.WriteString(`<w:u w:val="single"/>`)
	case docmodel.Off:
		buf.WriteString(`<w:u w:val="none"/>`)
	}
	buf.WriteString("</w:rPr>")
}

func writeToggle(buf *bytes.Buffer, tag string, t docmodel.Toggle) {
	switch t {
	case docmodel.On:
		buf.WriteString("<w:" + tag + "/>")
	case docmodel.Off:
		buf.WriteString("<w:" + tag + ` w:val="0"/>`)
	}
}

// writeRunText emits text as w:t segments, turning tabs and line breaks
// into their own elements.
func writeRunText(buf *bytes.Buffer, text string) {
	flush := func(s string) {
		if s == "" {
			return
		}
		buf.WriteString(`<w:t xml:space="preserve">`)
		xml.EscapeText(buf, []byte(s))
		buf.WriteString("</w:t>")
	}
	start := 0
	for i, c := range text {
		switch c {
		case '\t':
			flush(text[start:i])
			buf.WriteString("<w:tab/>")
			start = i + 1
		case '\n':
			flush(text[start:i])
			buf.WriteString("<w:br/>")
			start = i + 1
		}
	}
	flush(text[start:])
}

// writeDrawing emits an inline picture referencing img.RelID, which must be
// a relationship of this package (see AddImage).
func (p *Package) writeDrawing(buf *bytes.Buffer, img *docmodel.Image) {
	id := strconv.Itoa(p.nextDocPr)
	p.nextDocPr++
	cx := strconv.FormatInt(img.WidthEMU, 10)
	cy := strconv.FormatInt(img.HeightEMU, 10)
	name := img.Name
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}

	buf.WriteString(`<w:drawing><wp:inline xmlns:wp="` + nsWP + `" distT="0" distB="0" distL="0" distR="0">`)
	buf.WriteString(`<wp:extent cx="` + cx + `" cy="` + cy + `"/>`)
	buf.WriteString(`<wp:docPr id="` + id + `" name="Picture ` + id + `"/>`)
	buf.WriteString(`<a:graphic xmlns:a="` + nsA + `"><a:graphicData uri="` + nsPic + `">`)
	buf.WriteString(`<pic:pic xmlns:pic="` + nsPic + `"><pic:nvPicPr><pic:cNvPr id="0" name="`)
	xml.EscapeText(buf, []byte(name))
	buf.WriteString(`"/><pic:cNvPicPr/></pic:nvPicPr>`)
	buf.WriteString(`<pic:blipFill><a:blip xmlns:r="` + nsR + `" r:embed="`)
	xml.EscapeText(buf, []byte(img.RelID))
	buf.WriteString(`"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>`)
	buf.WriteString(`<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="` + cx + `" cy="` + cy + `"/></a:xfrm>`)
	buf.WriteString(`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>`)
	buf.WriteString(`</pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing>`)
}
