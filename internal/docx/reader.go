// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package docx loads and persists DOCX (Office Open XML) packages as
// docmodel documents. Body elements the model does not interpret are kept
// byte-for-byte so a loaded package saves back unchanged apart from the
// blocks that were added.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/memoria-engine/internal/docmodel"
)

// ErrInvalidPackage is returned when a file is not a readable DOCX package.
var ErrInvalidPackage = errors.New("invalid docx package")

const (
	contentTypesPart = "[Content_Types].xml"
	rootRelsPart     = "_rels/.rels"
	defaultDocPart   = "word/document.xml"
)

// Package is a loaded DOCX file.
type Package struct {
	names []string // part names in archive order
	parts map[string][]byte

	docPart  string // main document part, normally word/document.xml
	head     []byte // document part up to and including the body start tag
	sectPr   []byte // trailing section properties of the body
	tail     []byte // document part from the body end tag on
	declareW bool   // new paragraphs must declare the w prefix themselves

	doc        *docmodel.Document
	styleNames map[string]string // style id -> name
	defaultPS  string            // default paragraph style name

	rels      *relationshipsXML
	relsDirty bool
	nextDocPr int
}

// Open reads the DOCX file at filename.
func Open(filename string) (*Package, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: opening ZIP archive: %v", ErrInvalidPackage, err)
	}
	defer zr.Close()
	return fromZip(&zr.Reader)
}

// Read parses a DOCX package held in memory.
func Read(data []byte) (*Package, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: opening ZIP archive: %v", ErrInvalidPackage, err)
	}
	return fromZip(zr)
}

func fromZip(zr *zip.Reader) (*Package, error) {
	p := &Package{parts: make(map[string][]byte)}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", ErrInvalidPackage, f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", ErrInvalidPackage, f.Name, err)
		}
		p.names = append(p.names, f.Name)
		p.parts[f.Name] = data
	}
	if err := p.parse(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Package) parse() error {
	if _, ok := p.parts[contentTypesPart]; !ok {
		return fmt.Errorf("%w: missing required file: %s", ErrInvalidPackage, contentTypesPart)
	}
	p.docPart = p.findDocumentPart()
	data, ok := p.parts[p.docPart]
	if !ok {
		return fmt.Errorf("%w: missing required file: %s", ErrInvalidPackage, p.docPart)
	}

	if err := p.parseRelationships(); err != nil {
		return fmt.Errorf("%w: parsing relationships: %v", ErrInvalidPackage, err)
	}

	// Styles are optional; without them style ids stand in for names.
	p.parseStyles()

	if err := p.parseDocument(data); err != nil {
		return fmt.Errorf("%w: parsing %s: %v", ErrInvalidPackage, p.docPart, err)
	}
	return nil
}

// findDocumentPart follows the package-level officeDocument relationship.
func (p *Package) findDocumentPart() string {
	data, ok := p.parts[rootRelsPart]
	if !ok {
		return defaultDocPart
	}
	var rels relationshipsXML
	if err := xml.Unmarshal(data, &rels); err != nil {
		return defaultDocPart
	}
	for _, r := range rels.Relationships {
		if r.Type == relOfficeDocument {
			return strings.TrimPrefix(path.Clean("/"+r.Target), "/")
		}
	}
	return defaultDocPart
}

// relsPart returns the relationships part of the main document.
func (p *Package) relsPart() string {
	dir, file := path.Split(p.docPart)
	return dir + "_rels/" + file + ".rels"
}

func (p *Package) parseRelationships() error {
	p.rels = &relationshipsXML{}
	data, ok := p.parts[p.relsPart()]
	if !ok {
		return nil
	}
	return xml.Unmarshal(data, p.rels)
}

func (p *Package) parseStyles() {
	p.styleNames = make(map[string]string)
	p.defaultPS = "Normal"
	target := p.relTarget(relStyles)
	if target == "" {
		target = path.Join(path.Dir(p.docPart), "styles.xml")
	}
	data, ok := p.parts[target]
	if !ok {
		return
	}
	var styles stylesXML
	if err := xml.Unmarshal(data, &styles); err != nil {
		return
	}
	for _, s := range styles.Styles {
		p.styleNames[s.StyleID] = s.Name.Val
		if s.Type == "paragraph" && (s.Default == "1" || s.Default == "true") && s.Name.Val != "" {
			p.defaultPS = s.Name.Val
		}
	}
}

// relTarget returns the part name of the first document relationship of
// the given type.
func (p *Package) relTarget(relType string) string {
	for _, r := range p.rels.Relationships {
		if r.Type == relType && r.TargetMode == "" {
			return p.resolveTarget(r.Target)
		}
	}
	return ""
}

// resolveTarget turns a relationship target into a part name.
func (p *Package) resolveTarget(target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(path.Clean(target), "/")
	}
	return path.Join(path.Dir(p.docPart), target)
}

var docPrID = regexp.MustCompile(`docPr\b[^>]*?\bid="(\d+)"`)

// parseDocument splits the document part into head, body blocks, section
// properties, and tail. Body children are captured by byte offset so they
// can be re-emitted unchanged.
func (p *Package) parseDocument(data []byte) error {
	d := xml.NewDecoder(bytes.NewReader(data))
	p.doc = &docmodel.Document{}
	p.declareW = true

	depth := 0
	bodyOpen, bodyClose := int64(-1), int64(-1)
	last := int64(-1) // end of the previous body child
	for {
		off := d.InputOffset()
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth == 1 {
				for _, a := range t.Attr {
					if a.Name.Space == "xmlns" && a.Name.Local == "w" && a.Value == nsW {
						p.declareW = false
					}
				}
			}
			if depth == 2 && t.Name.Local == "body" {
				bodyOpen = d.InputOffset()
				last = bodyOpen
				continue
			}
			if depth == 3 && bodyOpen >= 0 && bodyClose < 0 {
				// Whitespace between children travels with the next child.
				if err := p.readBodyElement(d, t, data, last); err != nil {
					return err
				}
				last = d.InputOffset()
				depth--
			}
		case xml.EndElement:
			if depth == 2 && t.Name.Local == "body" {
				bodyClose = off
			}
			depth--
		}
	}
	if bodyOpen < 0 || bodyClose < 0 {
		return errors.New("document has no body")
	}

	if bodyClose == bodyOpen && bytes.HasSuffix(data[:bodyOpen], []byte("/>")) {
		// Self-closing <w:body/>: reopen it so blocks can be added.
		start := bytes.LastIndexByte(data[:bodyOpen], '<')
		tag := strings.TrimSuffix(strings.Fields(string(data[start+1:bodyOpen]))[0], "/>")
		p.head = append(append([]byte{}, data[:bodyOpen-2]...), '>')
		p.tail = append([]byte("</"+tag+">"), data[bodyOpen:]...)
	} else {
		p.head = append([]byte{}, data[:bodyOpen]...)
		p.tail = append([]byte{}, data[last:]...)
	}

	for _, m := range docPrID.FindAllSubmatch(data, -1) {
		if n, err := strconv.Atoi(string(m[1])); err == nil && n >= p.nextDocPr {
			p.nextDocPr = n + 1
		}
	}
	if p.nextDocPr == 0 {
		p.nextDocPr = 1
	}
	return nil
}

// readBodyElement consumes one body child. Its Source spans data[from:] up
// to the decoder position after the element.
func (p *Package) readBodyElement(d *xml.Decoder, start xml.StartElement, data []byte, from int64) error {
	switch start.Name.Local {
	case "p":
		var px paragraphXML
		if err := d.DecodeElement(&px, &start); err != nil {
			return err
		}
		para := p.toParagraph(px)
		para.Source = data[from:d.InputOffset()]
		p.doc.Append(para)
	case "sectPr":
		if err := d.Skip(); err != nil {
			return err
		}
		p.sectPr = data[from:d.InputOffset()]
	case "sdt":
		var nested nestedParagraphsXML
		if err := d.DecodeElement(&nested, &start); err != nil {
			return err
		}
		op := &docmodel.Opaque{Kind: start.Name.Local, Source: data[from:d.InputOffset()]}
		for _, px := range nested.Paragraphs {
			op.Nested = append(op.Nested, p.toParagraph(px))
		}
		p.doc.Append(op)
	default:
		if err := d.Skip(); err != nil {
			return err
		}
		p.doc.Append(&docmodel.Opaque{Kind: start.Name.Local, Source: data[from:d.InputOffset()]})
	}
	return nil
}

// toParagraph converts a decoded paragraph to the model, resolving the
// style name and embedded pictures.
func (p *Package) toParagraph(px paragraphXML) *docmodel.Paragraph {
	para := &docmodel.Paragraph{
		StyleID:   px.Style,
		StyleName: p.StyleName(px.Style),
	}
	for _, r := range px.Runs {
		bold, italic, under := toggle(r.Props.Bold), toggle(r.Props.Italic), underline(r.Props.Underline)
		for _, seg := range r.Segments {
			run := docmodel.Run{Text: seg.Text, Bold: bold, Italic: italic, Underline: under}
			if seg.Drawing != nil {
				run.Image = p.resolveImage(seg.Drawing)
			}
			para.Runs = append(para.Runs, run)
		}
	}
	return para
}

// resolveImage follows a drawing's blip to its media part. The returned
// image has nil Data when the reference is external or dangling.
func (p *Package) resolveImage(dr *drawingXML) *docmodel.Image {
	img := &docmodel.Image{}
	h := dr.holder()
	if h == nil {
		return img
	}
	img.WidthEMU, _ = strconv.ParseInt(h.Extent.CX, 10, 64)
	img.HeightEMU, _ = strconv.ParseInt(h.Extent.CY, 10, 64)
	if h.Blip == nil || h.Blip.Embed == "" {
		return img
	}
	img.RelID = h.Blip.Embed
	for _, r := range p.rels.Relationships {
		if r.ID != h.Blip.Embed || r.TargetMode != "" {
			continue
		}
		name := p.resolveTarget(r.Target)
		img.Name = name
		img.Ext = strings.TrimPrefix(strings.ToLower(path.Ext(name)), ".")
		img.Data = p.parts[name]
		break
	}
	return img
}

// Document returns the body of the package. Changes to it are persisted by
// Save.
func (p *Package) Document() *docmodel.Document {
	return p.doc
}

// StyleName resolves a paragraph style id to its display name. An empty id
// resolves to the default paragraph style.
func (p *Package) StyleName(id string) string {
	if id == "" {
		return p.defaultPS
	}
	return p.styleNames[id]
}
