package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dshills/rearrange/internal/arrange"
	"github.com/dshills/rearrange/internal/config"
	"github.com/dshills/rearrange/internal/engine"
	"github.com/dshills/rearrange/internal/lang"
	"github.com/dshills/rearrange/internal/lang/golang"
	"github.com/dshills/rearrange/internal/logging"
	"github.com/dshills/rearrange/internal/script"
)

// Outcome describes the pass over one file.
type Outcome struct {
	Path     string
	Language string

	// Original and Arranged are the file text before and after the pass.
	Original string
	Arranged string

	// Changed reports whether Arranged differs from Original.
	Changed bool

	// Written reports whether Arranged was written to Path.
	Written bool

	Result   *arrange.Result
	Document *Document
}

// Diff returns a unified diff from Original to Arranged.
func (o *Outcome) Diff() string {
	return UnifiedDiff(o.Path, o.Original, o.Arranged)
}

// Runner arranges files with the rules of a configuration.
type Runner struct {
	mu sync.Mutex

	registry    *lang.Registry
	ownRegistry bool
	scripts     *script.Engine
	engines     map[string]*arrange.Engine
	settings    map[string]*arrange.Settings
	maxUndo     int
	dryRun      bool

	log     *logging.Logger
	metrics *Metrics
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}

// WithRegistry sets the rearranger registry. Without it the built-in
// rearrangers are used with the configured parser options.
func WithRegistry(reg *lang.Registry) RunnerOption {
	return func(r *Runner) {
		if reg != nil {
			r.registry = reg
			r.ownRegistry = false
		}
	}
}

// WithDryRun computes outcomes without writing files.
func WithDryRun(on bool) RunnerOption {
	return func(r *Runner) {
		r.dryRun = on
	}
}

// NewRunner builds the rearrangers, scripts and per-language engines
// described by cfg.
func NewRunner(cfg *config.Config, opts ...RunnerOption) (*Runner, error) {
	r := &Runner{
		registry:    lang.Default(),
		ownRegistry: true,
		engines:     make(map[string]*arrange.Engine),
		settings:    make(map[string]*arrange.Settings),
		log:         logging.Nop(),
		metrics:     NewMetrics(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.WithComponent("runner")

	ec := cfg.Engine()
	r.maxUndo = ec.MaxUndo
	strategy, err := arrange.ParseStrategy(ec.Strategy)
	if err != nil {
		return nil, NewOperationError("configure", "engine.strategy", err)
	}

	r.scripts = script.New(script.WithLogger(r.log), script.WithDir(ec.ScriptDir))
	if err := r.scripts.Load(ec.Scripts...); err != nil {
		r.scripts.Close()
		return nil, NewOperationError("configure", "engine.scripts", err)
	}

	if err := r.configureLanguages(cfg); err != nil {
		r.scripts.Close()
		return nil, err
	}

	for _, name := range r.registry.Languages() {
		rr, err := r.registry.Lookup(name)
		if err != nil {
			continue
		}
		blank := rr.BlankLines
		if lc, ok := cfg.Language(name); ok {
			blank = lc.BlankLinesFunc(rr.BlankLines)
		}
		eopts := []arrange.Option{
			arrange.WithStrategy(strategy),
			arrange.WithBlankLines(blank),
			arrange.WithLogger(r.log.WithField("language", name)),
		}
		for other, s := range r.settings {
			if other != name {
				eopts = append(eopts, arrange.WithLanguageSettings(other, s))
			}
		}
		r.engines[name] = arrange.New(eopts...)
	}

	r.log.Debug("runner ready: strategy=%s languages=%s", strategy, strings.Join(r.registry.Languages(), ","))
	return r, nil
}

func (r *Runner) configureLanguages(cfg *config.Config) error {
	for _, name := range cfg.Languages() {
		lc, _ := cfg.Language(name)

		if name == golang.Language && r.ownRegistry {
			if on, ok := lc.Options["methodsAfterType"].(bool); ok {
				r.registry.Register(golang.New(golang.WithMethodsAfterType(on)))
			}
		}
		if _, err := r.registry.Lookup(name); err != nil {
			r.log.Warn("language %q is configured but has no rearranger", name)
			continue
		}
		if len(lc.Extensions) > 0 {
			if err := r.registry.Alias(name, lc.Extensions...); err != nil {
				return NewOperationError("configure", "languages."+name, err)
			}
		}

		s, err := lc.Settings(r.scripts)
		if err != nil {
			return NewOperationError("configure", "languages."+name, err)
		}
		r.settings[name] = s
	}
	return nil
}

// Metrics returns the run counters.
func (r *Runner) Metrics() *Metrics {
	return r.metrics
}

// Supports reports whether path has a rearranger.
func (r *Runner) Supports(path string) bool {
	_, err := r.registry.ForPath(path)
	return err == nil
}

// Close releases the script state.
func (r *Runner) Close() error {
	return r.scripts.Close()
}

// ArrangeSource arranges src as the content of path without touching the
// file system. A failed pass leaves the document as it was.
func (r *Runner) ArrangeSource(path string, src []byte) (*Outcome, error) {
	rr, err := r.registry.ForPath(path)
	if err != nil {
		return nil, NewOperationError("resolve", path, err)
	}
	name := rr.Language()
	eng, ok := r.engines[name]
	if !ok {
		return nil, NewOperationError("resolve", path, fmt.Errorf("%w: %s", arrange.ErrUnsupportedLanguage, name))
	}
	log := r.log.WithFields(map[string]any{"file": path, "language": name})

	doc := NewDocument(path, name, src, engine.WithMaxUndoEntries(r.maxUndo))
	entries, err := rr.Parse([]byte(doc.Content()))
	if err != nil {
		return nil, NewOperationError("parse", path, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.scripts.Reset()
	var res *arrange.Result
	err = doc.Engine.Transaction("arrange", func() error {
		var err error
		res, err = eng.Arrange(doc.Engine, entries, r.settings[name])
		if err != nil {
			return err
		}
		if serr := r.scripts.Err(); serr != nil {
			return fmt.Errorf("%w: %v", ErrScriptFailed, serr)
		}
		return nil
	})
	if err != nil {
		log.Warn("pass undone: %v", err)
		return nil, NewOperationError("arrange", path, err)
	}

	out := &Outcome{
		Path:     path,
		Language: name,
		Original: doc.Original,
		Arranged: doc.Original,
		Result:   res,
		Document: doc,
	}
	// Export rewrites every line ending, so a pass without edits keeps the
	// original bytes.
	if res.Changed() {
		out.Arranged = doc.Export()
		out.Changed = out.Arranged != out.Original
	}
	log.Debug("arranged: changed=%t frames=%d edits=%d moves=%d", out.Changed, res.Frames, res.Edits, res.Moves)
	return out, nil
}

// ArrangeFile arranges one file and writes it back when it changed,
// keeping its permissions.
func (r *Runner) ArrangeFile(ctx context.Context, path string) (*Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		r.metrics.RecordFailure()
		return nil, NewOperationError("stat", path, err)
	}
	if !info.Mode().IsRegular() {
		r.metrics.RecordFailure()
		return nil, NewOperationError("read", path, ErrNotRegular)
	}
	src, err := os.ReadFile(path)
	if err != nil {
		r.metrics.RecordFailure()
		return nil, NewOperationError("read", path, err)
	}

	start := time.Now()
	out, err := r.ArrangeSource(path, src)
	if err != nil {
		r.metrics.RecordFailure()
		return nil, err
	}
	r.metrics.RecordPass(out.Result, time.Since(start))

	if out.Changed && !r.dryRun {
		if err := os.WriteFile(path, []byte(out.Arranged), info.Mode().Perm()); err != nil {
			r.metrics.RecordWriteFailure()
			return out, NewOperationError("write", path, err)
		}
		out.Written = true
		r.log.Info("arranged %s", path)
	}
	return out, nil
}

// ArrangePaths arranges files and the supported files below directories.
// Hidden directories are skipped. Files named explicitly must have a
// rearranger. All paths are attempted; failures are collected.
func (r *Runner) ArrangePaths(ctx context.Context, paths []string) ([]*Outcome, error) {
	var outcomes []*Outcome
	errs := NewErrorList()

	for _, p := range paths {
		files, err := r.expand(p)
		if err != nil {
			errs.Add(err)
			continue
		}
		for _, f := range files {
			out, err := r.ArrangeFile(ctx, f)
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return outcomes, err
			}
			errs.Add(err)
			if out != nil {
				outcomes = append(outcomes, out)
			}
		}
	}
	return outcomes, errs.AsError()
}

func (r *Runner) expand(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, NewOperationError("stat", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != path && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if !r.Supports(p) {
			r.metrics.RecordSkip()
			return nil
		}
		files = append(files, p)
		return nil
	})
	if err != nil {
		return nil, WrapError(err, "walk %s", path)
	}
	return files, nil
}
