// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docx

import (
	"encoding/xml"
	"strings"

	"github.com/pdiddy/memoria-engine/internal/docmodel"
)

// XML namespaces used in DOCX packages.
const (
	nsW       = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsWP      = "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
	nsA       = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsPic     = "http://schemas.openxmlformats.org/drawingml/2006/picture"
	nsPkgRels = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsCT      = "http://schemas.openxmlformats.org/package/2006/content-types"

	relOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relStyles         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relImage          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"

	ctStyles        = "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"
	ctRelationships = "application/vnd.openxmlformats-package.relationships+xml"
)

// paragraphXML is a <w:p>. Runs nested in hyperlinks, smart tags, simple
// fields, and insertions are flattened into Runs in document order.
type paragraphXML struct {
	Style string
	Runs  []runXML
}

// paragraphPropsXML is the subset of <w:pPr> the model reads.
type paragraphPropsXML struct {
	Style valXML `xml:"pStyle"`
}

type valXML struct {
	Val string `xml:"val,attr"`
}

func (p *paragraphXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "pPr":
				var pp paragraphPropsXML
				if err := d.DecodeElement(&pp, &t); err != nil {
					return err
				}
				p.Style = pp.Style.Val
			case "r":
				var r runXML
				if err := d.DecodeElement(&r, &t); err != nil {
					return err
				}
				p.Runs = append(p.Runs, r)
			case "hyperlink", "smartTag", "fldSimple", "ins", "customXml", "sdtContent", "sdt":
				var inner paragraphXML
				if err := d.DecodeElement(&inner, &t); err != nil {
					return err
				}
				p.Runs = append(p.Runs, inner.Runs...)
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}

// runXML is a <w:r>. Segments keep text and drawings in document order.
type runXML struct {
	Props    runPropsXML
	Segments []runSegment
}

type runSegment struct {
	Text    string
	Drawing *drawingXML
}

// runPropsXML is the subset of <w:rPr> the model reads. Pointers
// distinguish an absent property (inherit) from an explicit one.
type runPropsXML struct {
	Bold      *valXML `xml:"b"`
	Italic    *valXML `xml:"i"`
	Underline *valXML `xml:"u"`
}

type textXML struct {
	Value string `xml:",chardata"`
}

func (r *runXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "rPr":
				if err := d.DecodeElement(&r.Props, &t); err != nil {
					return err
				}
			case "t":
				var tx textXML
				if err := d.DecodeElement(&tx, &t); err != nil {
					return err
				}
				r.appendText(tx.Value)
			case "tab", "ptab":
				r.appendText("\t")
				if err := d.Skip(); err != nil {
					return err
				}
			case "br", "cr":
				r.appendText("\n")
				if err := d.Skip(); err != nil {
					return err
				}
			case "noBreakHyphen":
				r.appendText("-")
				if err := d.Skip(); err != nil {
					return err
				}
			case "drawing":
				var dr drawingXML
				if err := d.DecodeElement(&dr, &t); err != nil {
					return err
				}
				r.Segments = append(r.Segments, runSegment{Drawing: &dr})
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}

func (r *runXML) appendText(s string) {
	if n := len(r.Segments); n > 0 && r.Segments[n-1].Drawing == nil {
		r.Segments[n-1].Text += s
		return
	}
	r.Segments = append(r.Segments, runSegment{Text: s})
}

// drawingXML is a <w:drawing> holding an inline or anchored picture.
type drawingXML struct {
	Inline *graphicHolderXML `xml:"inline"`
	Anchor *graphicHolderXML `xml:"anchor"`
}

type graphicHolderXML struct {
	Extent extentXML `xml:"extent"`
	Blip   *blipXML  `xml:"graphic>graphicData>pic>blipFill>blip"`
}

type extentXML struct {
	CX string `xml:"cx,attr"`
	CY string `xml:"cy,attr"`
}

type blipXML struct {
	Embed string `xml:"embed,attr"`
	Link  string `xml:"link,attr"`
}

func (d *drawingXML) holder() *graphicHolderXML {
	if d.Inline != nil {
		return d.Inline
	}
	return d.Anchor
}

// nestedParagraphsXML collects every <w:p> below an element, at any depth.
type nestedParagraphsXML struct {
	Paragraphs []paragraphXML
}

func (n *nestedParagraphsXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "p" {
				var p paragraphXML
				if err := d.DecodeElement(&p, &t); err != nil {
					return err
				}
				n.Paragraphs = append(n.Paragraphs, p)
				continue
			}
			var inner nestedParagraphsXML
			if err := d.DecodeElement(&inner, &t); err != nil {
				return err
			}
			n.Paragraphs = append(n.Paragraphs, inner.Paragraphs...)
		case xml.EndElement:
			return nil
		}
	}
}

// toggle converts an on/off property element to a tri-state.
func toggle(v *valXML) docmodel.Toggle {
	if v == nil {
		return docmodel.Inherit
	}
	switch strings.ToLower(v.Val) {
	case "false", "0", "off":
		return docmodel.Off
	default:
		return docmodel.On
	}
}

// underline converts <w:u> to a tri-state; "none" switches it off.
func underline(v *valXML) docmodel.Toggle {
	if v == nil {
		return docmodel.Inherit
	}
	if strings.EqualFold(v.Val, "none") {
		return docmodel.Off
	}
	return docmodel.On
}

// stylesXML represents word/styles.xml.
type stylesXML struct {
	XMLName xml.Name      `xml:"styles"`
	Styles  []styleDefXML `xml:"style"`
}

type styleDefXML struct {
	Type    string `xml:"type,attr"`
	StyleID string `xml:"styleId,attr"`
	Default string `xml:"default,attr"`
	Name    valXML `xml:"name"`
}

// relationshipsXML represents a .rels part.
type relationshipsXML struct {
	XMLName       xml.Name          `xml:"http://schemas.openxmlformats.org/package/2006/relationships Relationships"`
	Relationships []relationshipXML `xml:"Relationship"`
}

type relationshipXML struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}

// contentTypesXML represents [Content_Types].xml.
type contentTypesXML struct {
	XMLName   xml.Name     `xml:"http://schemas.openxmlformats.org/package/2006/content-types Types"`
	Defaults  []ctDefault  `xml:"Default"`
	Overrides []ctOverride `xml:"Override"`
}

type ctDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type ctOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}
