package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgallion1/docsift/internal/config"
	"github.com/dgallion1/docsift/internal/doctree"
	"github.com/dgallion1/docsift/internal/outline"
	"github.com/dgallion1/docsift/internal/parser"
	"github.com/dgallion1/docsift/internal/rank"
	"github.com/dgallion1/docsift/internal/segment"
)

// OutlineResult is the outline of one document.
type OutlineResult struct {
	Document string `json:"document"`
	doctree.Outline
}

// Worker parses documents and runs outline or rank jobs. It is also used
// directly by the CLI for batch runs.
type Worker struct {
	models    Models
	log       *slog.Logger
	parseOpts parser.Options
	segCfg    segment.Config
	rankCfg   rank.Config

	maxConcurrentParse int
}

func NewWorker(models Models, cfg config.Config, log *slog.Logger) *Worker {
	if log == nil {
		log = slog.Default()
	}
	segCfg := segment.DefaultConfig()
	segCfg.MinContentChars = cfg.MinSectionChars
	maxParse := cfg.MaxConcurrentParse
	if maxParse <= 0 {
		maxParse = 1
	}
	return &Worker{
		models:             models,
		log:                log,
		parseOpts:          parser.Options{PDFFallback: cfg.PDFFallbackReader},
		segCfg:             segCfg,
		rankCfg:            cfg.Rank(),
		maxConcurrentParse: maxParse,
	}
}

// Process runs a job to completion, recording progress and errors on it.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "kind", job.Kind)

	job.SetStatus(StatusParsing, "parsing")
	docs, failed := w.ParseAll(ctx, job.Files(), func(name string, err error) {
		job.AddError(fmt.Sprintf("%s: %s", name, err))
	}, job.IncrParsed)
	if len(docs) == 0 {
		log.Error("no documents parsed", "failed", failed)
		job.finish(nil, StatusFailed, "parsing")
		return
	}

	var (
		result any
		err    error
	)
	switch job.Kind {
	case KindOutline:
		job.SetStatus(StatusOutlining, "outlining")
		result = w.Outlines(docs)
	case KindRank:
		job.SetStatus(StatusSegmenting, "segmenting")
		sections := w.Segment(docs)
		job.SetSections(len(sections))
		job.SetStatus(StatusRanking, "ranking")
		result, err = w.Rank(ctx, job.Rank, job.Filenames, sections)
	default:
		err = fmt.Errorf("unknown job kind %q", job.Kind)
	}
	if err != nil {
		log.Error("job failed", "error", err)
		job.AddError(err.Error())
		job.finish(nil, StatusFailed, string(job.Kind))
		return
	}

	status := StatusCompleted
	if failed > 0 {
		status = StatusPartial
	}
	log.Info("job finished", "status", status, "documents", len(docs), "failed", failed)
	job.finish(result, status, "done")
}

// ParseAll parses files with bounded concurrency. Documents come back in
// input order with failures removed; onErr is called once per failed file
// and onParsed once per file attempted. Both may be nil.
func (w *Worker) ParseAll(ctx context.Context, files []File, onErr func(name string, err error), onParsed func()) ([]*doctree.Document, int) {
	type parseResult struct {
		doc *doctree.Document
		err error
	}
	results := make([]parseResult, len(files))
	sem := make(chan struct{}, w.maxConcurrentParse)
	done := make(chan struct{}, len(files))

	for i, f := range files {
		sem <- struct{}{}
		go func(i int, f File) {
			defer func() { <-sem; done <- struct{}{} }()
			if err := ctx.Err(); err != nil {
				results[i] = parseResult{err: err}
				return
			}
			doc, err := w.ParseFile(f)
			results[i] = parseResult{doc: doc, err: err}
		}(i, f)
	}
	for range files {
		<-done
		if onParsed != nil {
			onParsed()
		}
	}

	var docs []*doctree.Document
	failed := 0
	for i, r := range results {
		if r.err != nil {
			failed++
			w.log.Warn("parse failed", "document", files[i].Name, "error", r.err)
			if onErr != nil {
				onErr(files[i].Name, r.err)
			}
			continue
		}
		docs = append(docs, r.doc)
	}
	return docs, failed
}

// ParseFile parses one document with the parser for its extension.
// Parser panics are returned as errors.
func (w *Worker) ParseFile(f File) (doc *doctree.Document, err error) {
	p, err := parser.ForFile(f.Name, w.parseOpts)
	if err != nil {
		return nil, err
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("parse %s: panic: %v", f.Name, rec)
		}
	}()
	doc, err = p.Parse(bytes.NewReader(f.Data), f.Name)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	w.log.Debug("parsed document",
		"document", f.Name,
		"pages", len(doc.Pages),
		"content_hash", ContentHashHex(f.Data)[:16],
	)
	return doc, nil
}

// Outlines extracts the outline of every document.
func (w *Worker) Outlines(docs []*doctree.Document) []OutlineResult {
	out := make([]OutlineResult, len(docs))
	for i, d := range docs {
		out[i] = OutlineResult{Document: d.Name, Outline: outline.Extract(d)}
	}
	return out
}

// Segment splits every document into sections, in document order.
func (w *Worker) Segment(docs []*doctree.Document) []doctree.Section {
	var sections []doctree.Section
	for _, d := range docs {
		s := segment.Segment(d, w.segCfg)
		w.log.Debug("segmented document", "document", d.Name, "sections", len(s))
		sections = append(sections, s...)
	}
	return sections
}

// ErrNoEmbedder is returned by Rank when the worker has no embedder.
var ErrNoEmbedder = errors.New("no embedder configured")

// Rank selects and summarizes the sections that best serve params.
func (w *Worker) Rank(ctx context.Context, params RankParams, documents []string, sections []doctree.Section) (*rank.Output, error) {
	if w.models.Embedder == nil {
		return nil, ErrNoEmbedder
	}
	cfg := w.rankCfg
	if params.TopN > 0 {
		cfg.TopN = params.TopN
	}
	if params.Lambda != nil {
		cfg.Lambda = *params.Lambda
	}
	r := rank.NewRanker(w.models.Embedder, w.models.Keyphraser, w.models.Summarizer, cfg, w.log)
	return r.Rank(ctx, rank.Request{
		Persona:   params.Persona,
		Job:       params.Task,
		Documents: documents,
		Sections:  sections,
	})
}
