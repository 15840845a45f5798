// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package compose turns extracted sections into standalone artifact
// documents and converts section elements into document blocks for the
// template inserter.
package compose

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/memoria-engine/internal/docmodel"
	"github.com/pdiddy/memoria-engine/internal/docx"
	"github.com/pdiddy/memoria-engine/internal/logging"
	"github.com/pdiddy/memoria-engine/pkg/types"
)

// Artifact heading style. The name is configurable; the look is fixed.
const (
	DefaultHeadingStyle = "ARTICA Titulo"
	HeadingFont         = "Arial"
	HeadingSizePt       = 14
)

// Config holds the recomposer's settings.
type Config struct {
	// OutputDir receives one <title>.docx per section.
	OutputDir string

	// HeadingStyle names the style given to the artifact heading.
	HeadingStyle string

	Logger logging.Reporter
}

// Recomposer builds artifact documents.
type Recomposer struct {
	outputDir    string
	headingStyle string
	log          logging.Reporter
}

// New returns a Recomposer for cfg.
func New(cfg Config) *Recomposer {
	r := &Recomposer{outputDir: cfg.OutputDir, headingStyle: cfg.HeadingStyle, log: logging.Or(cfg.Logger)}
	if r.headingStyle == "" {
		r.headingStyle = DefaultHeadingStyle
	}
	return r
}

// ExportResult summarizes an ExportAll run.
type ExportResult struct {
	Exported int
	Failed   int
	// Paths maps each exported title to its artifact path.
	Paths    map[string]string
	Outcomes []types.Outcome
}

// Total returns the number of sections attempted.
func (r ExportResult) Total() int {
	return r.Exported + r.Failed
}

// HasFailures reports whether any section failed to export.
func (r ExportResult) HasFailures() bool {
	return r.Failed > 0
}

// Document builds a new package holding the section: a heading in the
// artifact heading style, then one paragraph per element. Pictures that
// cannot be embedded are logged and left out.
func (r *Recomposer) Document(sec docmodel.Section) (*docx.Package, error) {
	pkg := docx.New()
	styleID, err := pkg.EnsureParagraphStyle(docx.StyleDef{
		Name:   r.headingStyle,
		Font:   HeadingFont,
		SizePt: HeadingSizePt,
		Bold:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("creating heading style: %w", err)
	}

	doc := pkg.Document()
	doc.Append(&docmodel.Paragraph{
		StyleID:   styleID,
		StyleName: r.headingStyle,
		Runs:      []docmodel.Run{{Text: sec.Title}},
	})

	blocks, errs := Blocks(pkg, sec.Elements)
	for _, err := range errs {
		r.log.Warn("image not embedded", "title", sec.Title,
			"reason", types.ReasonImageExtractionError, "error", err)
	}
	for _, b := range blocks {
		doc.Append(b)
	}
	return pkg, nil
}

// Export writes the section to <output>/<sanitized title>.docx and returns
// the path.
func (r *Recomposer) Export(sec docmodel.Section) (string, error) {
	name := SanitizeFileName(sec.Title)
	if name == "" {
		return "", fmt.Errorf("title %q has no usable file name characters", sec.Title)
	}
	pkg, err := r.Document(sec)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(r.outputDir, name+".docx")
	if err := pkg.Save(path); err != nil {
		return "", fmt.Errorf("saving %s: %w", path, err)
	}
	return path, nil
}

// ExportAll exports every section in title order. A failed section is
// reported and counted; the others are still attempted.
func (r *Recomposer) ExportAll(sections map[string]docmodel.Section, w io.Writer) ExportResult {
	titles := make([]string, 0, len(sections))
	for t := range sections {
		titles = append(titles, t)
	}
	sort.Strings(titles)

	res := ExportResult{Paths: make(map[string]string, len(titles))}
	for _, title := range titles {
		path, err := r.Export(sections[title])
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", title, err)
			r.log.Error("export failed", "title", title, "reason", types.ReasonPersistError, "error", err)
			res.Failed++
			res.Outcomes = append(res.Outcomes, types.Outcome{
				Stage: types.StageExport, Subject: title, Status: types.StatusFailed,
				Reason: types.ReasonPersistError, Detail: err.Error(),
			})
			continue
		}
		fmt.Fprintf(w, "exported: %s\n", path)
		r.log.Info("section exported", "title", title, "path", path)
		res.Exported++
		res.Paths[title] = path
		res.Outcomes = append(res.Outcomes, types.Outcome{
			Stage: types.StageExport, Subject: title, Status: types.StatusDone, Path: path,
		})
	}
	return res
}

// Blocks converts elements to blocks that belong to pkg. Text elements
// become unstyled paragraphs with the span formatting; image elements
// become a paragraph with one picture at the fixed display width, stored
// in pkg. Pictures that cannot be stored are skipped and their errors
// returned.
func Blocks(pkg *docx.Package, elements []docmodel.Element) ([]docmodel.Block, []error) {
	var blocks []docmodel.Block
	var errs []error
	for _, el := range elements {
		switch v := el.(type) {
		case docmodel.TextElement:
			blocks = append(blocks, &docmodel.Paragraph{Runs: docmodel.RunsFromSpans(v.Spans)})
		case docmodel.ImageElement:
			if v.Image == nil {
				errs = append(errs, fmt.Errorf("image element without image"))
				continue
			}
			sized := *v.Image
			sized.WidthEMU, sized.HeightEMU = ImageExtent(v.Image)
			img, err := pkg.AddImage(&sized)
			if err != nil {
				errs = append(errs, fmt.Errorf("embedding %s: %w", v.Image.Name, err))
				continue
			}
			blocks = append(blocks, &docmodel.Paragraph{Runs: []docmodel.Run{{Image: img}}})
		}
	}
	return blocks, errs
}

var unsafeFileChars = strings.NewReplacer(
	`\`, "", "/", "", "*", "", "?", "", ":", "", `"`, "", "<", "", ">", "", "|", "",
)

// SanitizeFileName removes the characters Windows forbids in file names.
func SanitizeFileName(title string) string {
	return strings.TrimSpace(unsafeFileChars.Replace(title))
}
