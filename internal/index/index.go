// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index scans the table-of-contents region of a report for entries
// whose title mentions one of the configured keywords.
//
// A table-of-contents line looks like "3.2 INSTALACIÓN DE FLUIDOS ..... 12":
// a title followed by whitespace and a page number. The title is normalized
// by dropping its outline number and dot leaders, so the entry above becomes
// ("INSTALACIÓN DE FLUIDOS", 12).
package index

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/memoria-engine/internal/docmodel"
)

// ErrNoKeywords is returned by NewScanner when neither keywords nor extra
// patterns are given; an empty alternation would match every line.
var ErrNoKeywords = errors.New("no index keywords configured")

// Entry is one table-of-contents line that mentions a keyword.
type Entry struct {
	Title string `json:"title" yaml:"title"`
	Page  int    `json:"page" yaml:"page"`
}

var (
	entryPattern   = regexp.MustCompile(`^(?P<title>.+?)\s+(?P<page>\d+)$`)
	outlineNumber  = regexp.MustCompile(`^\d+(\.\d+)*\s*`)
	leadingLeader  = regexp.MustCompile(`^[\p{P}\s]+`)
	trailingLeader = regexp.MustCompile(`[\s.…]+$`)
)

// Scanner matches table-of-contents lines against a keyword alternation.
type Scanner struct {
	keywords *regexp.Regexp
}

// NewScanner compiles one case-insensitive alternation from the literal
// keywords and the raw extra patterns. Blank keywords are ignored.
func NewScanner(keywords []string, patterns []string) (*Scanner, error) {
	var alts []string
	for _, k := range keywords {
		k = norm.NFC.String(strings.TrimSpace(k))
		if k != "" {
			alts = append(alts, regexp.QuoteMeta(k))
		}
	}
	for _, p := range patterns {
		if _, err := regexp.Compile(p); err != nil {
			return nil, fmt.Errorf("invalid index pattern %q: %w", p, err)
		}
		alts = append(alts, "(?:"+p+")")
	}
	if len(alts) == 0 {
		return nil, ErrNoKeywords
	}

	re, err := regexp.Compile("(?i)" + strings.Join(alts, "|"))
	if err != nil {
		return nil, fmt.Errorf("compiling index keywords: %w", err)
	}
	return &Scanner{keywords: re}, nil
}

// Scan returns the entries of doc in document order. Paragraphs nested in
// content controls are scanned too, since Word wraps generated tables of
// contents in one. Duplicate titles are kept.
func (s *Scanner) Scan(doc *docmodel.Document) []Entry {
	var entries []Entry
	for _, p := range doc.AllParagraphs() {
		if e, ok := s.Match(p.Text()); ok {
			entries = append(entries, e)
		}
	}
	return entries
}

// Match parses one line of text as an index entry.
func (s *Scanner) Match(line string) (Entry, bool) {
	m := entryPattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return Entry{}, false
	}
	title := norm.NFC.String(m[1])
	if !s.keywords.MatchString(title) {
		return Entry{}, false
	}
	page, err := strconv.Atoi(m[2])
	if err != nil || page <= 0 {
		return Entry{}, false
	}
	title = NormalizeTitle(title)
	if title == "" {
		return Entry{}, false
	}
	return Entry{Title: title, Page: page}, true
}

// NormalizeTitle strips a leading outline number ("3.2.1"), leftover
// leading punctuation and whitespace ("3.2) X", "3.2.- X"), and trailing
// dot leaders, and returns the
// result in Unicode NFC.
func NormalizeTitle(s string) string {
	s = strings.TrimSpace(s)
	s = outlineNumber.ReplaceAllString(s, "")
	s = leadingLeader.ReplaceAllString(s, "")
	s = trailingLeader.ReplaceAllString(s, "")
	return norm.NFC.String(strings.TrimSpace(s))
}
