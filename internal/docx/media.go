// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docx

import (
	"encoding/xml"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/pdiddy/memoria-engine/internal/docmodel"
)

var imageContentTypes = map[string]string{
	"png":  "image/png",
	"jpeg": "image/jpeg",
	"jpg":  "image/jpeg",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"tiff": "image/tiff",
	"tif":  "image/tiff",
	"emf":  "image/x-emf",
	"wmf":  "image/x-wmf",
	"svg":  "image/svg+xml",
	"webp": "image/webp",
}

// AddImage stores the picture data of img as a new media part of this
// package and returns a copy whose Name and RelID refer to the new part.
// The displayed extent is carried over unchanged.
func (p *Package) AddImage(img *docmodel.Image) (*docmodel.Image, error) {
	if img == nil || len(img.Data) == 0 {
		return nil, fmt.Errorf("image has no data")
	}
	ext := strings.ToLower(strings.TrimPrefix(img.Ext, "."))
	ctype, ok := imageContentTypes[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported image type %q", img.Ext)
	}
	if err := p.ensureDefaultContentType(ext, ctype); err != nil {
		return nil, err
	}

	docDir := path.Dir(p.docPart)
	var target string
	for n := 1; ; n++ {
		target = "media/image" + strconv.Itoa(n) + "." + ext
		if _, taken := p.parts[path.Join(docDir, target)]; !taken {
			break
		}
	}
	name := path.Join(docDir, target)
	p.setPart(name, append([]byte(nil), img.Data...))

	out := *img
	out.Name = name
	out.Ext = ext
	out.RelID = p.addRelationship(relImage, target)
	out.Data = p.parts[name]
	return &out, nil
}

// addRelationship registers a document relationship and returns its id.
func (p *Package) addRelationship(relType, target string) string {
	used := make(map[string]bool, len(p.rels.Relationships))
	for _, r := range p.rels.Relationships {
		used[r.ID] = true
	}
	id := ""
	for n := len(p.rels.Relationships) + 1; ; n++ {
		id = "rId" + strconv.Itoa(n)
		if !used[id] {
			break
		}
	}
	p.rels.Relationships = append(p.rels.Relationships, relationshipXML{ID: id, Type: relType, Target: target})
	p.relsDirty = true
	return id
}

func (p *Package) contentTypes() (*contentTypesXML, error) {
	var ct contentTypesXML
	if err := xml.Unmarshal(p.parts[contentTypesPart], &ct); err != nil {
		return nil, fmt.Errorf("parsing content types: %w", err)
	}
	return &ct, nil
}

func (p *Package) ensureDefaultContentType(ext, ctype string) error {
	ct, err := p.contentTypes()
	if err != nil {
		return err
	}
	for _, d := range ct.Defaults {
		if strings.EqualFold(d.Extension, ext) {
			return nil
		}
	}
	ct.Defaults = append(ct.Defaults, ctDefault{Extension: ext, ContentType: ctype})
	return p.storeContentTypes(ct)
}

func (p *Package) ensureOverride(partName, ctype string) error {
	ct, err := p.contentTypes()
	if err != nil {
		return err
	}
	partName = "/" + strings.TrimPrefix(partName, "/")
	for _, o := range ct.Overrides {
		if o.PartName == partName {
			return nil
		}
	}
	ct.Overrides = append(ct.Overrides, ctOverride{PartName: partName, ContentType: ctype})
	return p.storeContentTypes(ct)
}

func (p *Package) storeContentTypes(ct *contentTypesXML) error {
	data, err := marshalPart(ct)
	if err != nil {
		return fmt.Errorf("encoding content types: %w", err)
	}
	p.parts[contentTypesPart] = data
	return nil
}
