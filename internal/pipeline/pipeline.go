// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline drives one client's batch through the stages: index
// scan, section extraction, artifact export, template insertion, and
// organization. Every per-item outcome is printed, logged, and recorded in
// the run ledger; only a source that cannot be loaded stops early, and only
// for that source.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/pdiddy/memoria-engine/internal/compose"
	"github.com/pdiddy/memoria-engine/internal/docmodel"
	"github.com/pdiddy/memoria-engine/internal/docx"
	"github.com/pdiddy/memoria-engine/internal/extract"
	"github.com/pdiddy/memoria-engine/internal/index"
	"github.com/pdiddy/memoria-engine/internal/insert"
	"github.com/pdiddy/memoria-engine/internal/logging"
	"github.com/pdiddy/memoria-engine/internal/mapping"
	"github.com/pdiddy/memoria-engine/internal/organize"
	"github.com/pdiddy/memoria-engine/pkg/types"
)

// Recorder persists a batch's outcomes. *ledger.Store satisfies it.
type Recorder interface {
	Begin(ctx context.Context, job types.Job) (string, error)
	Record(ctx context.Context, runID string, o types.Outcome) error
	Finish(ctx context.Context, runID string) error
}

// Config configures a Runner.
type Config struct {
	Pipeline types.PipelineConfig

	// Ledger records outcomes; nil disables recording.
	Ledger Recorder
	Logger logging.Reporter
}

// Runner executes batches.
type Runner struct {
	paths     types.PathsConfig
	doc       types.DocumentConfig
	isHeading docmodel.HeadingFunc
	ledger    Recorder
	log       logging.Reporter
}

// New returns a Runner for cfg. The artifact heading style must belong to
// the heading family, otherwise artifacts could not be read back.
func New(cfg Config) (*Runner, error) {
	doc := cfg.Pipeline.Document
	if doc.HeadingPrefix == "" {
		doc.HeadingPrefix = docmodel.DefaultHeadingPrefix
	}
	if doc.HeadingStyle == "" {
		doc.HeadingStyle = compose.DefaultHeadingStyle
	}
	if doc.TitleMatch == "" {
		doc.TitleMatch = types.MatchExact
	}
	if !strings.HasPrefix(doc.HeadingStyle, doc.HeadingPrefix) {
		return nil, fmt.Errorf("heading style %q does not start with heading prefix %q",
			doc.HeadingStyle, doc.HeadingPrefix)
	}
	switch doc.TitleMatch {
	case types.MatchExact, types.MatchSubstring:
	default:
		return nil, fmt.Errorf("unknown title match mode %q", doc.TitleMatch)
	}

	return &Runner{
		paths:     cfg.Pipeline.Paths,
		doc:       doc,
		isHeading: docmodel.StylePrefix(doc.HeadingPrefix),
		ledger:    cfg.Ledger,
		log:       logging.Or(cfg.Logger),
	}, nil
}

// Report summarizes a batch.
type Report struct {
	RunID    string
	Done     int
	Skipped  int
	Failed   int
	Outcomes []types.Outcome
}

// Total returns the number of outcomes recorded.
func (r Report) Total() int {
	return r.Done + r.Skipped + r.Failed
}

// HasFailures reports whether any item failed.
func (r Report) HasFailures() bool {
	return r.Failed > 0
}

// stages selects which parts of the batch execute.
type stages uint8

const (
	stageExtract stages = 1 << iota
	stageInsert
	stageOrganize

	allStages = stageExtract | stageInsert | stageOrganize
)

// Run executes the full batch: every source is scanned, extracted, and
// exported, then the output directory is inserted into templates and
// organized into the client's folders.
func (r *Runner) Run(ctx context.Context, sources []string, job types.Job, w io.Writer) (Report, error) {
	return r.execute(ctx, sources, job, allStages, w)
}

// Extract scans, extracts, and exports the sources without touching
// templates or client folders.
func (r *Runner) Extract(ctx context.Context, sources []string, job types.Job, w io.Writer) (Report, error) {
	return r.execute(ctx, sources, job, stageExtract, w)
}

// Insert splices the artifacts already in the output directory into their
// templates.
func (r *Runner) Insert(ctx context.Context, job types.Job, w io.Writer) (Report, error) {
	return r.execute(ctx, nil, job, stageInsert, w)
}

// Organize files the output directory into the client's folders.
func (r *Runner) Organize(ctx context.Context, job types.Job, w io.Writer) (Report, error) {
	return r.execute(ctx, nil, job, stageOrganize, w)
}

// ClientBase returns the client root for job: ClientBase when set,
// otherwise the client folder under clientsDir.
func ClientBase(clientsDir string, job types.Job) string {
	if job.ClientBase != "" {
		return job.ClientBase
	}
	return filepath.Join(clientsDir, job.Client)
}

// batch is the state of one execution.
type batch struct {
	ctx    context.Context
	runID  string
	ledger Recorder
	log    logging.Reporter
	report Report
}

func (b *batch) record(o types.Outcome) {
	b.report.Outcomes = append(b.report.Outcomes, o)
	switch o.Status {
	case types.StatusDone:
		b.report.Done++
	case types.StatusSkipped:
		b.report.Skipped++
	case types.StatusFailed:
		b.report.Failed++
	}
	if b.ledger == nil {
		return
	}
	if err := b.ledger.Record(b.ctx, b.runID, o); err != nil {
		b.log.Error("ledger record failed", "run", b.runID, "subject", o.Subject, "error", err)
	}
}

func (r *Runner) execute(ctx context.Context, sources []string, job types.Job, which stages, w io.Writer) (Report, error) {
	job.ClientBase = ClientBase(r.paths.ClientsDir, job)

	// Inputs shared by every source are read once, before anything is
	// written.
	var scanner *index.Scanner
	if which&stageExtract != 0 {
		keywords, err := index.LoadKeywords(r.paths.KeywordsFile)
		if err != nil {
			return Report{}, err
		}
		scanner, err = index.NewScanner(keywords, r.doc.Patterns)
		if err != nil {
			return Report{}, err
		}
	}
	var rows []types.MappingRow
	if which&(stageInsert|stageOrganize) != 0 {
		var err error
		rows, err = mapping.Load(r.paths.MappingFile)
		if err != nil {
			return Report{}, err
		}
	}

	b := &batch{ctx: ctx, ledger: r.ledger, log: r.log}
	if r.ledger != nil {
		runID, err := r.ledger.Begin(ctx, job)
		if err != nil {
			return Report{}, fmt.Errorf("starting run: %w", err)
		}
		b.runID = runID
		b.report.RunID = runID
	}
	r.log.Info("batch started", "run", b.runID, "client", job.Client,
		"client_base", job.ClientBase, "proyecto_menor", job.ProyectoMenor, "sources", len(sources))

	if which&stageExtract != 0 {
		for _, src := range sources {
			r.processSource(b, scanner, src, w)
		}
	}
	if which&stageInsert != 0 {
		in := insert.New(insert.Config{
			OutputDir: r.paths.OutputDir,
			ConfigDir: r.paths.ConfigDir,
			IsHeading: r.isHeading,
			Match:     r.doc.TitleMatch,
			Logger:    r.log,
		})
		res := in.ProcessDir(rows, job.ProyectoMenor, w)
		for _, o := range res.Outcomes {
			b.record(o)
		}
	}
	if which&stageOrganize != 0 {
		org := organize.New(organize.Config{OutputDir: r.paths.OutputDir, Logger: r.log})
		res := org.Organize(rows, job.ClientBase, w)
		for _, o := range res.Outcomes {
			b.record(o)
		}
	}

	if r.ledger != nil {
		if err := r.ledger.Finish(ctx, b.runID); err != nil {
			r.log.Error("ledger finish failed", "run", b.runID, "error", err)
		}
	}

	rep := b.report
	fmt.Fprintf(w, "\nBatch summary: %d done, %d skipped, %d failed (total: %d)\n",
		rep.Done, rep.Skipped, rep.Failed, rep.Total())
	r.log.Info("batch finished", "run", b.runID, "done", rep.Done,
		"skipped", rep.Skipped, "failed", rep.Failed)
	return rep, nil
}

// processSource runs the index, extract, and export stages for one source
// document.
func (r *Runner) processSource(b *batch, scanner *index.Scanner, src string, w io.Writer) {
	pkg, err := docx.Open(src)
	if err != nil {
		fmt.Fprintf(w, "failed  %s: %v\n", src, err)
		r.log.Error("source not loaded", "path", src, "reason", types.ReasonLoadError, "error", err)
		b.record(types.Outcome{
			Stage: types.StageLoad, Subject: src, Status: types.StatusFailed,
			Reason: types.ReasonLoadError, Detail: err.Error(),
		})
		return
	}
	b.record(types.Outcome{Stage: types.StageLoad, Subject: src, Status: types.StatusDone, Path: src})

	doc := pkg.Document()
	entries := scanner.Scan(doc)
	if len(entries) == 0 {
		fmt.Fprintf(w, "skipped %s: no index entries found\n", src)
		r.log.Warn("index not found", "path", src, "reason", types.ReasonIndexNotFound)
		b.record(types.Outcome{
			Stage: types.StageIndex, Subject: src, Status: types.StatusSkipped,
			Reason: types.ReasonIndexNotFound,
		})
		return
	}
	fmt.Fprintf(w, "indexed: %s (%d entries)\n", src, len(entries))
	r.log.Info("index scanned", "path", src, "entries", len(entries))
	b.record(types.Outcome{
		Stage: types.StageIndex, Subject: src, Status: types.StatusDone,
		Detail: fmt.Sprintf("%d entries", len(entries)),
	})

	ex := extract.New(extract.Config{IsHeading: r.isHeading, Match: r.doc.TitleMatch, Logger: r.log})
	sections := ex.ExtractAll(doc, entries)

	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if seen[e.Title] {
			continue
		}
		seen[e.Title] = true
		if _, ok := sections[e.Title]; ok {
			continue
		}
		fmt.Fprintf(w, "failed  %s: %v\n", e.Title, extract.ErrSectionNotFound)
		b.record(types.Outcome{
			Stage: types.StageExtract, Subject: e.Title, Status: types.StatusFailed,
			Reason: types.ReasonSectionNotCaptured, Detail: fmt.Sprintf("%s (page %d)", src, e.Page),
		})
	}

	rc := compose.New(compose.Config{
		OutputDir:    r.paths.OutputDir,
		HeadingStyle: r.doc.HeadingStyle,
		Logger:       r.log,
	})
	res := rc.ExportAll(sections, w)
	for _, o := range res.Outcomes {
		b.record(o)
	}
}

// Index loads src and returns its scanned index.
func (r *Runner) Index(src string) ([]index.Entry, error) {
	keywords, err := index.LoadKeywords(r.paths.KeywordsFile)
	if err != nil {
		return nil, err
	}
	scanner, err := index.NewScanner(keywords, r.doc.Patterns)
	if err != nil {
		return nil, err
	}
	pkg, err := docx.Open(src)
	if err != nil {
		return nil, err
	}
	return scanner.Scan(pkg.Document()), nil
}
