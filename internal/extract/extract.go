// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract captures the body content that belongs to an indexed
// title. A section starts at the heading whose text matches the title and
// runs up to the next heading that does not, or to the end of the document.
package extract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/memoria-engine/internal/docmodel"
	"github.com/pdiddy/memoria-engine/internal/index"
	"github.com/pdiddy/memoria-engine/internal/logging"
	"github.com/pdiddy/memoria-engine/pkg/types"
)

// ErrSectionNotFound is returned when no heading matches the title. A
// section that was found but holds only its heading is not an error.
var ErrSectionNotFound = errors.New("section not captured")

// State is the extractor's position relative to the wanted section.
type State int

const (
	// Searching has not met the section heading yet.
	Searching State = iota
	// Capturing is inside the section.
	Capturing
)

func (s State) String() string {
	if s == Capturing {
		return "capturing"
	}
	return "searching"
}

// Config holds the extractor's collaborators. Zero fields take defaults.
type Config struct {
	// IsHeading classifies structural headings. Defaults to
	// docmodel.StylePrefix(docmodel.DefaultHeadingPrefix).
	IsHeading docmodel.HeadingFunc

	// Match selects how titles are compared. Defaults to types.MatchExact.
	Match types.TitleMatch

	// Logger receives progress and warnings. Defaults to slog.Default().
	Logger logging.Reporter
}

// Extractor finds sections in documents.
type Extractor struct {
	isHeading docmodel.HeadingFunc
	match     types.TitleMatch
	log       logging.Reporter
}

// New returns an Extractor for cfg.
func New(cfg Config) *Extractor {
	e := &Extractor{isHeading: cfg.IsHeading, match: cfg.Match, log: logging.Or(cfg.Logger)}
	if e.isHeading == nil {
		e.isHeading = docmodel.StylePrefix(docmodel.DefaultHeadingPrefix)
	}
	if e.match == "" {
		e.match = types.MatchExact
	}
	return e
}

// Matches reports whether paragraph text names title under the
// configured match mode.
func (e *Extractor) Matches(text, title string) bool {
	if e.match == types.MatchSubstring {
		return strings.Contains(strings.TrimSpace(text), title)
	}
	return index.NormalizeTitle(text) == index.NormalizeTitle(title)
}

// Extract walks doc once and returns the section for title. The document
// is not modified, so repeated calls return equal sections.
func (e *Extractor) Extract(doc *docmodel.Document, title string) (docmodel.Section, error) {
	sec := docmodel.Section{Title: title}
	state := Searching

walk:
	for _, b := range doc.Blocks {
		p, ok := b.(*docmodel.Paragraph)
		if !ok {
			continue
		}
		switch state {
		case Searching:
			if e.isHeading(p) && e.Matches(p.Text(), title) {
				e.log.Debug("section heading found", "title", title, "style", p.StyleName, "text", p.Text())
				sec.Elements = append(sec.Elements, docmodel.TextElement{Spans: docmodel.SpansFromRuns(p.Runs)})
				state = Capturing
			}
		case Capturing:
			if e.isHeading(p) && !e.Matches(p.Text(), title) {
				e.log.Debug("section end", "title", title, "next", p.Text())
				break walk
			}
			sec.Elements = append(sec.Elements, e.capture(p, title)...)
		}
	}

	if state == Searching {
		return docmodel.Section{}, fmt.Errorf("%w: %q", ErrSectionNotFound, title)
	}
	return sec, nil
}

// capture converts one body paragraph: a text element for its text runs,
// then one image element per resolvable picture.
func (e *Extractor) capture(p *docmodel.Paragraph, title string) []docmodel.Element {
	if len(p.Runs) == 0 {
		return nil
	}
	var out []docmodel.Element
	if spans := docmodel.SpansFromRuns(p.Runs); len(spans) > 0 {
		out = append(out, docmodel.TextElement{Spans: spans})
	}
	for _, r := range p.Runs {
		if r.Image == nil {
			continue
		}
		if len(r.Image.Data) == 0 {
			e.log.Warn("image could not be extracted",
				"title", title, "reason", types.ReasonImageExtractionError, "ref", r.Image.RelID)
			continue
		}
		out = append(out, docmodel.ImageElement{Image: r.Image})
	}
	return out
}

// ExtractAll extracts every entry in index order. Entries sharing a title
// overwrite each other, so the last capture wins. Titles with no matching
// heading are logged and left out of the map.
func (e *Extractor) ExtractAll(doc *docmodel.Document, entries []index.Entry) map[string]docmodel.Section {
	sections := make(map[string]docmodel.Section, len(entries))
	for _, entry := range entries {
		sec, err := e.Extract(doc, entry.Title)
		if err != nil {
			e.log.Warn("section not captured", "title", entry.Title, "page", entry.Page,
				"reason", types.ReasonSectionNotCaptured)
			continue
		}
		e.log.Info("section captured", "title", entry.Title, "elements", len(sec.Elements))
		sections[entry.Title] = sec
	}
	return sections
}
