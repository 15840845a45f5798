// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package organize files finished artifacts into the client's folder tree.
// Each mapping row's path template is resolved against the client base
// path, and the first output file whose name contains the row's keyword is
// moved there.
package organize

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"

	"github.com/pdiddy/memoria-engine/internal/fsutil"
	"github.com/pdiddy/memoria-engine/internal/logging"
	"github.com/pdiddy/memoria-engine/pkg/types"
)

// TargetDir resolves a path template against the client base path. The
// client placeholder segment is dropped, separators are normalized to "/",
// and the result is cleaned:
//
//	TargetDir(`C:\Clientes\Acme`, `cliente\Instalaciones\Fluidos`)
//	  == "C:/Clientes/Acme/Instalaciones/Fluidos"
func TargetDir(base, ruta string) string {
	var segs []string
	for _, s := range strings.FieldsFunc(ruta, isSeparator) {
		if strings.EqualFold(strings.TrimSpace(s), types.ClientPlaceholder) {
			continue
		}
		segs = append(segs, s)
	}

	joined := strings.ReplaceAll(base, `\`, "/")
	switch {
	case len(segs) == 0:
	case joined == "":
		joined = strings.Join(segs, "/")
	default:
		joined += "/" + strings.Join(segs, "/")
	}
	if strings.HasPrefix(joined, "//") && !strings.HasPrefix(joined, "///") {
		// UNC share: keep both leading slashes.
		return "/" + path.Clean(joined)
	}
	return path.Clean(joined)
}

func isSeparator(r rune) bool {
	return r == '/' || r == '\\'
}

// Config holds the organizer's settings.
type Config struct {
	// OutputDir is searched for the files to move.
	OutputDir string
	Logger    logging.Reporter
}

// Organizer runs the filing stage.
type Organizer struct {
	outputDir string
	log       logging.Reporter
}

// New returns an Organizer for cfg.
func New(cfg Config) *Organizer {
	return &Organizer{outputDir: cfg.OutputDir, log: logging.Or(cfg.Logger)}
}

// Result summarizes an Organize run.
type Result struct {
	Moved      int
	Unresolved int
	Failed     int
	Outcomes   []types.Outcome
}

// Total returns the number of rows processed.
func (r Result) Total() int {
	return r.Moved + r.Unresolved + r.Failed
}

// HasFailures reports whether any row failed. Rows with no matching file
// are unresolved, not failed.
func (r Result) HasFailures() bool {
	return r.Failed > 0
}

// Organize processes rows in order. For each row it creates the target
// directory and moves the first output file, in name order, whose name
// contains the keyword ignoring case. Further matches stay in place and
// are reported.
func (o *Organizer) Organize(rows []types.MappingRow, clientBase string, w io.Writer) Result {
	var res Result
	fold := cases.Fold()

	for _, row := range rows {
		keyword := strings.TrimSpace(row.Keyword)
		target := TargetDir(clientBase, row.Ruta)

		fail := func(err error) {
			fmt.Fprintf(w, "failed  %s: %v\n", keyword, err)
			o.log.Error("organize failed", "keyword", keyword, "target", target, "reason", types.ReasonPersistError, "error", err)
			res.Failed++
			res.Outcomes = append(res.Outcomes, types.Outcome{
				Stage: types.StageOrganize, Subject: keyword, Status: types.StatusFailed,
				Reason: types.ReasonPersistError, Detail: err.Error(), Path: target,
			})
		}

		if err := os.MkdirAll(filepath.FromSlash(target), 0o755); err != nil {
			fail(fmt.Errorf("creating %s: %w", target, err))
			continue
		}

		matches, err := o.matching(fold.String(keyword), fold)
		if err != nil {
			fail(err)
			continue
		}
		if len(matches) == 0 {
			fmt.Fprintf(w, "skipped %s: no matching file\n", keyword)
			o.log.Warn("no file for keyword", "keyword", keyword, "reason", types.ReasonNoMatchingFile)
			res.Unresolved++
			res.Outcomes = append(res.Outcomes, types.Outcome{
				Stage: types.StageOrganize, Subject: keyword, Status: types.StatusSkipped,
				Reason: types.ReasonNoMatchingFile, Path: target,
			})
			continue
		}

		name := matches[0]
		dst := filepath.Join(filepath.FromSlash(target), name)
		if err := fsutil.MoveFile(filepath.Join(o.outputDir, name), dst); err != nil {
			fail(fmt.Errorf("moving %s: %w", name, err))
			continue
		}
		if len(matches) > 1 {
			o.log.Warn("other files match keyword and were left in place",
				"keyword", keyword, "moved", name, "left", strings.Join(matches[1:], ", "))
		}

		fmt.Fprintf(w, "moved: %s -> %s\n", name, target)
		o.log.Info("document moved", "file", name, "target", target)
		res.Moved++
		res.Outcomes = append(res.Outcomes, types.Outcome{
			Stage: types.StageOrganize, Subject: keyword, Status: types.StatusDone,
			Path: filepath.ToSlash(dst), Detail: name,
		})
	}
	return res
}

// matching lists the regular files in the output directory, in name
// order, whose folded name contains the folded keyword.
func (o *Organizer) matching(keyword string, fold cases.Caser) ([]string, error) {
	entries, err := os.ReadDir(o.outputDir)
	if err != nil {
		return nil, fmt.Errorf("reading output directory %s: %w", o.outputDir, err)
	}
	if keyword == "" {
		return nil, nil
	}
	var out []string
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), "~$") {
			continue
		}
		if strings.Contains(fold.String(e.Name()), keyword) {
			out = append(out, e.Name())
		}
	}
	return out, nil
}
