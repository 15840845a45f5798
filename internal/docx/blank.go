// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docx

import "encoding/xml"

const blankContentTypes = xml.Header + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>` +
	`</Types>`

const blankRootRels = xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`</Relationships>`

const blankDocument = xml.Header + `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" ` +
	`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">` +
	`<w:body><w:sectPr><w:pgSz w:w="11906" w:h="16838"/>` +
	`<w:pgMar w:top="1417" w:right="1701" w:bottom="1417" w:left="1701" w:header="708" w:footer="708" w:gutter="0"/>` +
	`</w:sectPr></w:body></w:document>`

const blankStyles = xml.Header + `<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
	`<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/><w:qFormat/></w:style>` +
	`</w:styles>`

const blankDocumentRels = xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>` +
	`</Relationships>`

// New returns an empty A4 document with only the Normal paragraph style.
func New() *Package {
	p := &Package{
		names: []string{contentTypesPart, rootRelsPart, "word/document.xml", "word/_rels/document.xml.rels", "word/styles.xml"},
		parts: map[string][]byte{
			contentTypesPart:               []byte(blankContentTypes),
			rootRelsPart:                   []byte(blankRootRels),
			"word/document.xml":            []byte(blankDocument),
			"word/_rels/document.xml.rels": []byte(blankDocumentRels),
			"word/styles.xml":              []byte(blankStyles),
		},
	}
	if err := p.parse(); err != nil {
		// The blank parts are constants; failing to parse them is a bug.
		panic("docx: blank package: " + err.Error())
	}
	return p
}
