// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package insert splices artifact content into per-topic templates. Each
// artifact in the output directory is matched to a mapping row by its file
// stem; the row names a template, which is copied into the output
// directory and receives the artifact's section right after the heading
// that names it.
package insert

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"

	"github.com/pdiddy/memoria-engine/internal/compose"
	"github.com/pdiddy/memoria-engine/internal/docmodel"
	"github.com/pdiddy/memoria-engine/internal/docx"
	"github.com/pdiddy/memoria-engine/internal/extract"
	"github.com/pdiddy/memoria-engine/internal/fsutil"
	"github.com/pdiddy/memoria-engine/internal/logging"
	"github.com/pdiddy/memoria-engine/internal/mapping"
	"github.com/pdiddy/memoria-engine/pkg/types"
)

var (
	// ErrMappingRowMissing means no mapping row has the artifact's keyword.
	ErrMappingRowMissing = errors.New("no mapping row for keyword")
	// ErrTemplateFieldEmpty means the row names no template for the mode.
	ErrTemplateFieldEmpty = errors.New("mapping row names no template")
	// ErrTemplateMissing means the named template file does not exist.
	ErrTemplateMissing = errors.New("template file not found")
	// ErrAnchorNotFound means no heading in the template names the title.
	ErrAnchorNotFound = errors.New("anchor heading not found in template")
)

// Config holds the inserter's settings.
type Config struct {
	// OutputDir holds the artifacts and receives the template copies.
	OutputDir string
	// ConfigDir holds the presentaciones/ and memorias/ template folders.
	ConfigDir string

	IsHeading docmodel.HeadingFunc
	Match     types.TitleMatch
	Logger    logging.Reporter
}

// Inserter runs the template insertion stage.
type Inserter struct {
	outputDir string
	configDir string
	isHeading docmodel.HeadingFunc
	extractor *extract.Extractor
	log       logging.Reporter
}

// New returns an Inserter for cfg.
func New(cfg Config) *Inserter {
	in := &Inserter{
		outputDir: cfg.OutputDir,
		configDir: cfg.ConfigDir,
		isHeading: cfg.IsHeading,
		log:       logging.Or(cfg.Logger),
	}
	if in.isHeading == nil {
		in.isHeading = docmodel.StylePrefix(docmodel.DefaultHeadingPrefix)
	}
	in.extractor = extract.New(extract.Config{IsHeading: in.isHeading, Match: cfg.Match, Logger: in.log})
	return in
}

// Result summarizes a ProcessDir run.
type Result struct {
	Inserted int
	Skipped  int
	Failed   int
	Outcomes []types.Outcome
}

// Total returns the number of artifacts considered.
func (r Result) Total() int {
	return r.Inserted + r.Skipped + r.Failed
}

// HasFailures reports whether any artifact failed.
func (r Result) HasFailures() bool {
	return r.Failed > 0
}

// Artifacts lists the .docx files in dir in name order, leaving out Word
// lock files and the names in exclude.
func Artifacts(dir string, exclude map[string]bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading output directory %s: %w", dir, err)
	}
	var out []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.EqualFold(filepath.Ext(name), ".docx") || strings.HasPrefix(name, "~$") || exclude[name] {
			continue
		}
		out = append(out, filepath.Join(dir, name))
	}
	return out, nil
}

// ProcessDir inserts every artifact currently in the output directory into
// its template. The artifact set is fixed before the first template is
// copied; files named as templates by any row are not artifacts. A template
// is copied once per call, so artifacts sharing a template accumulate in
// the same copy.
func (in *Inserter) ProcessDir(rows []types.MappingRow, proyectoMenor bool, w io.Writer) Result {
	var res Result

	exclude := make(map[string]bool)
	for _, r := range rows {
		for _, name := range []string{r.Presentacion, r.Memoria} {
			if name = strings.TrimSpace(name); name != "" {
				exclude[name] = true
			}
		}
	}
	artifacts, err := Artifacts(in.outputDir, exclude)
	if err != nil {
		fmt.Fprintf(w, "failed  %s: %v\n", in.outputDir, err)
		in.log.Error("listing artifacts failed", "dir", in.outputDir, "error", err)
		res.Failed++
		res.Outcomes = append(res.Outcomes, types.Outcome{
			Stage: types.StageInsert, Subject: in.outputDir, Status: types.StatusFailed,
			Reason: types.ReasonLoadError, Detail: err.Error(),
		})
		return res
	}

	copied := make(map[string]string) // template name -> working copy
	for _, artifact := range artifacts {
		name := filepath.Base(artifact)
		keyword := strings.TrimSpace(strings.TrimSuffix(name, filepath.Ext(name)))

		target, err := in.prepareTemplate(rows, keyword, proyectoMenor, copied)
		if err == nil {
			err = in.InsertFile(artifact, target)
		}
		if err != nil {
			o := classify(err)
			o.Subject, o.Detail = name, err.Error()
			if o.Status == types.StatusSkipped {
				fmt.Fprintf(w, "skipped %s: %v\n", name, err)
				in.log.Warn("artifact skipped", "artifact", name, "keyword", keyword, "reason", o.Reason, "error", err)
				res.Skipped++
			} else if errors.Is(err, ErrAnchorNotFound) {
				fmt.Fprintf(w, "failed  %s: %v\n", name, err)
				in.log.Warn("anchor not found", "artifact", name, "keyword", keyword, "reason", o.Reason, "error", err)
				res.Failed++
			} else {
				fmt.Fprintf(w, "failed  %s: %v\n", name, err)
				in.log.Error("insertion failed", "artifact", name, "keyword", keyword, "reason", o.Reason, "error", err)
				res.Failed++
			}
			res.Outcomes = append(res.Outcomes, o)
			continue
		}

		fmt.Fprintf(w, "inserted: %s -> %s\n", name, filepath.Base(target))
		in.log.Info("content inserted", "artifact", name, "template", target)
		res.Inserted++
		res.Outcomes = append(res.Outcomes, types.Outcome{
			Stage: types.StageInsert, Subject: name, Status: types.StatusDone, Path: target,
		})
	}
	return res
}

// prepareTemplate resolves the template for keyword and returns the path
// of its working copy, copying it on first use.
func (in *Inserter) prepareTemplate(rows []types.MappingRow, keyword string, proyectoMenor bool, copied map[string]string) (string, error) {
	row, ok := mapping.Find(rows, keyword)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrMappingRowMissing, keyword)
	}
	name := row.Template(proyectoMenor)
	if name == "" {
		return "", fmt.Errorf("%w: %q (proyecto menor: %t)", ErrTemplateFieldEmpty, keyword, proyectoMenor)
	}
	if dst, ok := copied[name]; ok {
		return dst, nil
	}

	src := filepath.Join(in.configDir, types.TemplateFolder(proyectoMenor), name)
	if !fsutil.Exists(src) {
		return "", fmt.Errorf("%w: %s", ErrTemplateMissing, src)
	}
	dst := filepath.Join(in.outputDir, name)
	if err := fsutil.CopyFile(src, dst); err != nil {
		return "", fmt.Errorf("copying template %s: %w", src, err)
	}
	in.log.Info("template copied", "from", src, "to", dst)
	copied[name] = dst
	return dst, nil
}

// InsertFile splices the section of artifact into template after the first
// heading whose text contains the artifact title, ignoring case. The title
// is the artifact's file stem. The template is rewritten atomically and
// only when an anchor was found.
func (in *Inserter) InsertFile(artifact, template string) error {
	src, err := docx.Open(artifact)
	if err != nil {
		return fmt.Errorf("loading artifact %s: %w", artifact, err)
	}
	title := strings.TrimSuffix(filepath.Base(artifact), filepath.Ext(artifact))

	sec, err := in.extractor.Extract(src.Document(), title)
	if err != nil {
		return err
	}

	dst, err := docx.Open(template)
	if err != nil {
		return fmt.Errorf("loading template %s: %w", template, err)
	}
	doc := dst.Document()
	anchor := in.findAnchor(doc, title)
	if anchor < 0 {
		return fmt.Errorf("%w: %q in %s", ErrAnchorNotFound, title, filepath.Base(template))
	}
	in.log.Debug("anchor found", "title", title, "text", doc.Blocks[anchor].(*docmodel.Paragraph).Text())

	blocks, errs := compose.Blocks(dst, sec.Elements)
	for _, err := range errs {
		in.log.Warn("image not embedded", "title", title, "reason", types.ReasonImageExtractionError, "error", err)
	}
	cursor := anchor
	for _, b := range blocks {
		cursor = doc.InsertAfter(cursor, b)
	}

	if err := dst.Save(template); err != nil {
		return &PersistError{Path: template, Err: err}
	}
	return nil
}

// findAnchor returns the block index of the first heading paragraph whose
// text contains title under Unicode case folding, or -1.
func (in *Inserter) findAnchor(doc *docmodel.Document, title string) int {
	fold := cases.Fold()
	want := fold.String(title)
	for i, b := range doc.Blocks {
		p, ok := b.(*docmodel.Paragraph)
		if !ok || !in.isHeading(p) {
			continue
		}
		if strings.Contains(fold.String(p.Text()), want) {
			return i
		}
	}
	return -1
}

// PersistError reports a failed template write. The template on disk is
// left as it was.
type PersistError struct {
	Path string
	Err  error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("saving %s: %v", e.Path, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

// classify maps an insertion error to its outcome status and reason.
func classify(err error) types.Outcome {
	o := types.Outcome{Stage: types.StageInsert, Status: types.StatusFailed}
	var perr *PersistError
	switch {
	case errors.Is(err, ErrMappingRowMissing):
		o.Status, o.Reason = types.StatusSkipped, types.ReasonMappingRowMissing
	case errors.Is(err, ErrTemplateFieldEmpty):
		o.Status, o.Reason = types.StatusSkipped, types.ReasonTemplateFieldEmpty
	case errors.Is(err, ErrTemplateMissing):
		o.Reason = types.ReasonTemplateMissing
	case errors.Is(err, ErrAnchorNotFound):
		o.Reason = types.ReasonAnchorNotFound
	case errors.Is(err, extract.ErrSectionNotFound):
		o.Reason = types.ReasonSectionNotCaptured
	case errors.As(err, &perr):
		o.Reason = types.ReasonPersistError
	case errors.Is(err, docx.ErrInvalidPackage):
		o.Reason = types.ReasonLoadError
	default:
		o.Reason = types.ReasonPersistError
	}
	return o
}
