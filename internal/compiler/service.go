// Package compiler turns dictionary source documents into compiled simple
// dictionaries, writes them to the output directory and records them in the
// index.
package compiler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/starford/stenomix/internal/apperr"
	"github.com/starford/stenomix/internal/checksum"
	"github.com/starford/stenomix/internal/dictionary"
	"github.com/starford/stenomix/internal/index"
	"github.com/starford/stenomix/internal/models"
	"github.com/starford/stenomix/internal/sink"
	"github.com/starford/stenomix/internal/source"
	"github.com/starford/stenomix/internal/steno"
	"github.com/starford/stenomix/internal/storage"
)

// Options configures how documents are compiled.
type Options struct {
	Layout  *steno.Layout
	Policy  dictionary.ErrorPolicy
	Limits  dictionary.Limits // zero keeps dictionary.DefaultLimits
	Sink    sink.Options
	Workers int
}

func (o Options) layout() *steno.Layout {
	if o.Layout == nil {
		return steno.DefaultLayout()
	}
	return o.Layout
}

// Result is one compiled document.
type Result struct {
	Dictionary  *dictionary.Simple      `json:"dictionary"`
	Diagnostics []dictionary.Diagnostic `json:"diagnostics"`
}

// Entries flattens the dictionary into index rows for source.
func (r *Result) Entries(source string) []models.CompiledEntry {
	out := make([]models.CompiledEntry, 0, r.Dictionary.Len())
	r.Dictionary.Each(func(strokes, text string) bool {
		out = append(out, models.CompiledEntry{Source: source, Strokes: strokes, Translation: text})
		return true
	})
	return out
}

func (o Options) newDictionary() *dictionary.Dictionary {
	var dopts []dictionary.Option
	if o.Policy != "" {
		dopts = append(dopts, dictionary.WithErrorPolicy(o.Policy))
	}
	if o.Limits != (dictionary.Limits{}) {
		dopts = append(dopts, dictionary.WithLimits(o.Limits))
	}
	return dictionary.New(o.layout(), dopts...)
}

// Compile builds a fresh dictionary from entries and expands it.
func Compile(entries []models.Entry, opts Options) (*Result, error) {
	d := opts.newDictionary()
	if err := d.AddEntries(entries); err != nil {
		return nil, err
	}
	simple, err := d.ToSimple()
	if err != nil {
		return nil, err
	}
	diags := d.Diagnostics()
	if diags == nil {
		diags = []dictionary.Diagnostic{}
	}
	return &Result{Dictionary: simple, Diagnostics: diags}, nil
}

// ExpandDefinition expands a single stroke definition against the mixins
// that entries define.
func ExpandDefinition(entries []models.Entry, def string, opts Options) ([]string, error) {
	d := opts.newDictionary()
	if err := d.AddEntries(entries); err != nil {
		return nil, err
	}
	return d.Expand(def)
}

// CompileDocument decodes a JSON or YAML source (chosen by name) and
// compiles it.
func CompileDocument(name string, data []byte, opts Options) (*Result, error) {
	entries, err := source.DecodeFile(name, data)
	if err != nil {
		return nil, err
	}
	return Compile(entries, opts)
}

// OutputPath maps a source path to the path of its compiled dictionary.
func OutputPath(src string) string {
	return strings.TrimSuffix(src, path.Ext(src)) + ".json"
}

// Report summarizes a CompileAll run.
type Report struct {
	ID       string            `json:"id"`
	Compiled []string          `json:"compiled"`
	Removed  []string          `json:"removed"`
	Failed   map[string]string `json:"failed"`
}

// Service coordinates the source directory, the output directory and the
// index. It implements index.Indexer.
type Service struct {
	sources storage.Provider
	output  storage.Provider
	db      index.DictionaryIndex
	opts    Options
	logger  *slog.Logger
}

var _ index.Indexer = (*Service)(nil)

// NewService creates a new compiler service.
func NewService(sources, output storage.Provider, db index.DictionaryIndex, opts Options, logger *slog.Logger) *Service {
	if opts.Layout == nil {
		opts.Layout = steno.DefaultLayout()
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &Service{sources: sources, output: output, db: db, opts: opts, logger: logger}
}

// Options returns the compile options of the service.
func (s *Service) Options() Options { return s.opts }

// Compile compiles entries with the service options without touching disk.
func (s *Service) Compile(_ context.Context, entries []models.Entry) (*Result, error) {
	return Compile(entries, s.opts)
}

// IndexSource compiles one source document, writes its output and records
// it in the index. Unchanged documents are skipped.
func (s *Service) IndexSource(p string, data []byte) error {
	recorded, err := s.db.GetChecksum(p)
	if err != nil {
		return err
	}
	if checksum.Matches(recorded, data) {
		s.logger.Debug("compiler: unchanged", slog.String("path", p))
		return nil
	}
	res, err := CompileDocument(p, data, s.opts)
	if err != nil {
		return fmt.Errorf("compiler: %s: %w", p, err)
	}
	return s.persist(p, checksum.Sum(data), res)
}

func (s *Service) persist(p, sum string, res *Result) error {
	s.logDiagnostics(p, res.Diagnostics)

	out, err := sink.MarshalJSON(res.Dictionary, s.opts.Sink)
	if err != nil {
		return fmt.Errorf("compiler: encode %s: %w", p, err)
	}
	if err := s.output.Write(OutputPath(p), out); err != nil {
		return err
	}
	return s.db.UpsertSource(index.SourceRow{
		Path:        p,
		Checksum:    sum,
		Diagnostics: len(res.Diagnostics),
		CompiledAt:  time.Now(),
	}, res.Entries(p))
}

// RemoveSource deletes the compiled output of a source and drops it from
// the index.
func (s *Service) RemoveSource(p string) error {
	if err := s.output.Delete(OutputPath(p)); err != nil {
		return err
	}
	return s.db.DeleteSource(p)
}

// CompileAll compiles every new or changed source (every source when force
// is set) in parallel, then writes and indexes the results in path order.
// Sources that no longer exist are removed. A document that fails to
// compile is reported and does not stop the others.
func (s *Service) CompileAll(ctx context.Context, force bool) (*Report, error) {
	changed, removed, err := index.Plan(s.db, s.sources)
	if err != nil {
		return nil, err
	}
	if force {
		if changed, err = s.sources.List(""); err != nil {
			return nil, err
		}
	}

	type job struct {
		res *Result
		err error
	}
	jobs := make([]job, len(changed))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)
	for i, m := range changed {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := s.sources.Read(m.Path)
			if err != nil {
				jobs[i].err = err
				return nil
			}
			jobs[i].res, jobs[i].err = CompileDocument(m.Path, data, s.opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rep := &Report{ID: uuid.NewString(), Compiled: []string{}, Removed: []string{}, Failed: map[string]string{}}
	for i, m := range changed {
		err := jobs[i].err
		if err == nil {
			err = s.persist(m.Path, m.Checksum, jobs[i].res)
		}
		if err != nil {
			s.logger.Warn("compiler: compile failed", slog.String("build_id", rep.ID), slog.String("path", m.Path), slog.String("error", err.Error()))
			rep.Failed[m.Path] = err.Error()
			continue
		}
		s.logger.Info("compiler: compiled",
			slog.String("build_id", rep.ID),
			slog.String("path", m.Path),
			slog.Int("entries", jobs[i].res.Dictionary.Len()),
			slog.Int("diagnostics", len(jobs[i].res.Diagnostics)))
		rep.Compiled = append(rep.Compiled, m.Path)
	}
	for _, p := range removed {
		if err := s.RemoveSource(p); err != nil {
			rep.Failed[p] = err.Error()
			continue
		}
		rep.Removed = append(rep.Removed, p)
	}
	return rep, nil
}

// NormalizeStrokes rewrites a stroke sequence in the canonical form of the
// layout, so "T" becomes "T-".
func (s *Service) NormalizeStrokes(strokes string) string {
	l := s.opts.Layout
	return l.FormatSequence(l.ParseSequence(strokes))
}

// Lookup returns every compiled translation of a stroke sequence, after
// normalizing it.
func (s *Service) Lookup(_ context.Context, strokes string) ([]models.CompiledEntry, error) {
	return s.db.Lookup(s.NormalizeStrokes(strokes))
}

// Search delegates full-text search over translations to the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	return s.db.Search(query, limit)
}

// ListSources returns the indexed source documents.
func (s *Service) ListSources(_ context.Context) ([]index.SourceRow, error) {
	return s.db.ListSources()
}

// ReadOutput returns the compiled dictionary of a source.
func (s *Service) ReadOutput(_ context.Context, src string) ([]byte, error) {
	data, err := s.output.Read(OutputPath(src))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("compiler: %s: %w", src, apperr.ErrNotFound)
	}
	return data, err
}

func (s *Service) logDiagnostics(p string, diags []dictionary.Diagnostic) {
	for _, d := range diags {
		s.logger.Warn("compiler: "+string(d.Kind),
			slog.String("path", p),
			slog.String("translation", d.Translation),
			slog.String("definition", d.Definition),
			slog.String("message", d.Message))
	}
}
