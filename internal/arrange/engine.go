package arrange

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dshills/rearrange/internal/logging"
)

// Strategy selects how a pass writes to the document.
type Strategy int

const (
	// StrategyAuto uses markers when the document supports them.
	StrategyAuto Strategy = iota
	// StrategySnapshot rewrites each sibling list with one replacement.
	StrategySnapshot
	// StrategyMarker moves entry text with MoveText.
	StrategyMarker
)

// String returns the configuration name of the strategy.
func (s Strategy) String() string {
	switch s {
	case StrategyAuto:
		return "auto"
	case StrategySnapshot:
		return "snapshot"
	case StrategyMarker:
		return "marker"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy parses a strategy name.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return StrategyAuto, nil
	case "snapshot":
		return StrategySnapshot, nil
	case "marker":
		return StrategyMarker, nil
	}
	return StrategyAuto, fmt.Errorf("unknown strategy %q", s)
}

// Result summarizes one pass.
type Result struct {
	// PassID identifies the pass in logs.
	PassID string

	// Strategy is the strategy the pass used.
	Strategy Strategy

	// Frames is the number of sibling lists processed.
	Frames int

	// Edits and Moves count document writes.
	Edits int
	Moves int

	// Unresolved lists dependents placed at the end of their run because
	// their dependencies could not be satisfied.
	Unresolved []*Entry
}

// Changed reports whether the pass wrote to the document.
func (r *Result) Changed() bool {
	return r.Edits+r.Moves > 0
}

// Engine runs arrangement passes.
type Engine struct {
	strategy   Strategy
	blankLines BlankLinesFunc
	logger     *logging.Logger
	languages  map[string]*Settings
}

// New creates an engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		blankLines: keepBlankLines,
		logger:     logging.Nop(),
		languages:  make(map[string]*Settings),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Strategy returns the configured strategy.
func (e *Engine) Strategy() Strategy {
	return e.strategy
}

// Arrange reorders the entry tree rooted at roots under s and rewrites doc
// to match. Sibling lists are processed innermost first; an error stops
// the pass with earlier lists already written.
//
// The entry offsets must match doc as of the call. Any change to doc not
// made by the pass itself stops it with ErrConcurrentModification before
// the next write.
//
// Arrange panics with *InvariantError if the entry tree is malformed.
func (e *Engine) Arrange(doc Document, roots []*Entry, s *Settings) (*Result, error) {
	res := &Result{PassID: uuid.NewString()}
	if doc.ReadOnly() {
		return res, ErrNonWritableDocument
	}

	ch, strategy, err := e.changerFor(doc)
	if err != nil {
		return res, err
	}
	res.Strategy = strategy

	p := &pass{
		engine:   e,
		doc:      doc,
		tree:     buildTree(roots),
		changer:  ch,
		settings: s,
		result:   res,
		rev:      doc.Revision(),
		log: e.logger.WithComponent("arrange").WithFields(map[string]any{
			"pass":     res.PassID,
			"strategy": strategy.String(),
		}),
	}

	err = p.tree.walk(p.arrangeFrame)
	res.Edits, res.Moves = ch.counts()
	if err != nil {
		p.log.Warn("pass stopped after %d frames: %v", res.Frames, err)
		return res, err
	}
	p.log.Debug("pass done: %d frames, %d edits, %d moves", res.Frames, res.Edits, res.Moves)
	return res, nil
}

func (e *Engine) changerFor(doc Document) (changer, Strategy, error) {
	md, canMove := doc.(MarkerDocument)
	switch e.strategy {
	case StrategySnapshot:
		return newSnapshotChanger(doc), StrategySnapshot, nil
	case StrategyMarker:
		if !canMove {
			return nil, StrategyMarker, ErrMoveUnsupported
		}
		return newMarkerChanger(md), StrategyMarker, nil
	}
	if canMove {
		return newMarkerChanger(md), StrategyMarker, nil
	}
	return newSnapshotChanger(doc), StrategySnapshot, nil
}

// settingsFor returns the settings of a sibling list: those registered for
// its language, else the pass settings.
func (e *Engine) settingsFor(parent *Entry, siblings []*Entry, s *Settings) *Settings {
	lang := ""
	switch {
	case parent != nil && parent.Language != "":
		lang = parent.Language
	case len(siblings) > 0:
		lang = siblings[0].Language
	}
	if ls, ok := e.languages[lang]; ok {
		return ls
	}
	return s
}

// pass is the state of one Arrange call.
type pass struct {
	engine   *Engine
	doc      Document
	tree     *wrapperTree
	changer  changer
	settings *Settings
	result   *Result
	log      *logging.Logger

	// rev is the document revision the wrapper offsets match. It is
	// advanced only by the pass's own writes.
	rev uint64
}

func (p *pass) arrangeFrame(parent wrapperID) error {
	t := p.tree
	var parentEntry *Entry
	if parent != noWrapper {
		parentEntry = t.at(parent).entry
	}

	siblings := t.entries(t.siblings(parent))
	settings := p.engine.settingsFor(parentEntry, siblings, p.settings)
	rk := Rank(siblings, settings)
	for _, u := range rk.Unresolved {
		p.log.Warn("unresolved dependencies for %q at %d, placed last", u.Name, u.Start)
	}
	p.result.Unresolved = append(p.result.Unresolved, rk.Unresolved...)

	if p.doc.Revision() != p.rev {
		return &FrameError{Parent: parentEntry, Err: ErrConcurrentModification}
	}
	plan := planFrame(p.doc, t, parent, rk, settings, p.engine.blankLines, p.rev)
	if err := p.apply(plan); err != nil {
		return &FrameError{Parent: parentEntry, Err: err}
	}
	p.rev = p.doc.Revision()

	t.relink(parent, plan.arranged)
	for i, id := range plan.arranged {
		t.at(id).blankLinesBefore = plan.blank[i]
	}
	for a := parent; ; a = t.at(a).parent {
		t.validate(a)
		if a == noWrapper {
			break
		}
	}

	p.result.Frames++
	if p.log.Enabled(logging.LevelDebug) {
		name := "<top>"
		if parentEntry != nil {
			name = parentEntry.Name
		}
		p.log.WithField("frame", name).Debug("arranged %d entries, moved=%t", len(siblings), plan.moved())
	}
	return nil
}

func (p *pass) apply(plan *framePlan) error {
	ch := p.changer
	if err := ch.prepare(plan); err != nil {
		return err
	}
	err := ch.trail()
	for i := len(plan.slots) - 1; err == nil && i >= 0; i-- {
		err = ch.replace(i)
	}
	if ferr := ch.finish(); err == nil {
		err = ferr
	}
	return err
}
