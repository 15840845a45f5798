// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"path"
	"strconv"
	"strings"
	"unicode"
)

// StyleDef describes a paragraph style to create.
type StyleDef struct {
	Name string
	Font string
	// SizePt is the font size in points; zero leaves it unset.
	SizePt int
	Bold   bool
}

// EnsureParagraphStyle returns the id of the paragraph style named def.Name,
// creating it when the package does not define it yet.
func (p *Package) EnsureParagraphStyle(def StyleDef) (string, error) {
	for id, name := range p.styleNames {
		if name == def.Name {
			return id, nil
		}
	}

	id := styleID(def.Name)
	for n := 2; ; n++ {
		if _, taken := p.styleNames[id]; !taken {
			break
		}
		id = styleID(def.Name) + strconv.Itoa(n)
	}

	part := p.relTarget(relStyles)
	if part == "" {
		part = path.Join(path.Dir(p.docPart), "styles.xml")
		if _, ok := p.parts[part]; !ok {
			p.setPart(part, []byte(xml.Header+`<w:styles xmlns:w="`+nsW+`"></w:styles>`))
		}
		p.addRelationship(relStyles, "styles.xml")
		if err := p.ensureOverride(part, ctStyles); err != nil {
			return "", err
		}
	}

	data := p.parts[part]
	end := bytes.LastIndex(data, []byte("</"))
	if end < 0 {
		return "", fmt.Errorf("malformed styles part %s", part)
	}
	var out bytes.Buffer
	out.Write(data[:end])
	writeStyle(&out, id, def)
	out.Write(data[end:])
	p.parts[part] = out.Bytes()

	p.styleNames[id] = def.Name
	return id, nil
}

func writeStyle(buf *bytes.Buffer, id string, def StyleDef) {
	buf.WriteString(`<w:style xmlns:w="` + nsW + `" w:type="paragraph" w:customStyle="1" w:styleId="`)
	xml.EscapeText(buf, []byte(id))
	buf.WriteString(`"><w:name w:val="`)
	xml.EscapeText(buf, []byte(def.Name))
	buf.WriteString(`"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:qFormat/><w:rPr>`)
	if def.Font != "" {
		buf.WriteString(`<w:rFonts w:ascii="`)
		xml.EscapeText(buf, []byte(def.Font))
		buf.WriteString(`" w:hAnsi="`)
		xml.EscapeText(buf, []byte(def.Font))
		buf.WriteString(`" w:cs="`)
		xml.EscapeText(buf, []byte(def.Font))
		buf.WriteString(`"/>`)
	}
	if def.Bold {
		buf.WriteString(`<w:b/><w:bCs/>`)
	}
	if def.SizePt > 0 {
		half := strconv.Itoa(def.SizePt * 2)
		buf.WriteString(`<w:sz w:val="` + half + `"/><w:szCs w:val="` + half + `"/>`)
	}
	buf.WriteString(`</w:rPr></w:style>`)
}

// styleID derives a style id from a display name the way Word does, by
// dropping characters that are not letters or digits.
func styleID(name string) string {
	id := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, name)
	if id == "" {
		return "Style"
	}
	return id
}
