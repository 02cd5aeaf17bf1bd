package engine

import (
	"io"
	"sync"

	"github.com/dshills/rearrange/internal/engine/buffer"
	"github.com/dshills/rearrange/internal/engine/history"
	"github.com/dshills/rearrange/internal/engine/tracking"
)

// Re-export commonly used types for convenience.
type (
	// ByteOffset is a byte position in the buffer.
	ByteOffset = buffer.ByteOffset

	// Point represents a line/column position.
	Point = buffer.Point

	// Range represents a byte range in the buffer.
	Range = buffer.Range

	// Edit represents an edit operation.
	Edit = buffer.Edit

	// EditResult contains information about a completed edit.
	EditResult = buffer.EditResult

	// LineEnding specifies the line ending style.
	LineEnding = buffer.LineEnding
)

// Re-export constants.
const (
	LineEndingLF   = buffer.LineEndingLF
	LineEndingCRLF = buffer.LineEndingCRLF
	LineEndingCR   = buffer.LineEndingCR
)

// Engine is an editable document: a text buffer with range markers that
// follow edits and an undo history.
//
// All operations are thread-safe and can be called from multiple goroutines.
type Engine struct {
	mu sync.RWMutex

	buf     *buffer.Buffer
	markers *tracking.MarkerSet
	history *history.History

	lineEnding      buffer.LineEnding
	fixedLineEnding bool
	maxUndoEntries  int
	readOnly        bool

	initContent string
}

// New creates a new Engine with the given options.
func New(opts ...Option) *Engine {
	e := newEngine(opts)
	e.buf = buffer.NewBufferFromString(e.initContent, buffer.WithLineEnding(e.lineEnding))
	return e
}

// NewFromReader creates an Engine from an io.Reader.
func NewFromReader(r io.Reader, opts ...Option) (*Engine, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	e := newEngine(opts)
	if !e.fixedLineEnding {
		e.lineEnding = buffer.DetectLineEnding(string(data))
	}
	e.buf = buffer.NewBufferFromString(string(data), buffer.WithLineEnding(e.lineEnding))
	return e, nil
}

func newEngine(opts []Option) *Engine {
	e := &Engine{
		lineEnding:     buffer.LineEndingLF,
		maxUndoEntries: DefaultMaxUndoEntries,
		markers:        tracking.NewMarkerSet(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.history = history.NewHistory(e.maxUndoEntries)
	return e
}

// ============================================================================
// Read Operations
// ============================================================================

// Content returns the full document text with "\n" line endings.
func (e *Engine) Content() string {
	return e.buf.Text()
}

// Export returns the full document text with its original line endings.
func (e *Engine) Export() string {
	return e.buf.Export()
}

// Text returns the text in [start, end).
func (e *Engine) Text(start, end int) string {
	return e.buf.TextRange(start, end)
}

// Len returns the total byte length of the document.
func (e *Engine) Len() int {
	return e.buf.Len()
}

// OffsetToPoint converts a byte offset to line/column.
func (e *Engine) OffsetToPoint(offset ByteOffset) Point {
	return e.buf.OffsetToPoint(offset)
}

// Snapshot returns a read-only view of the current content.
func (e *Engine) Snapshot() *buffer.Snapshot {
	return e.buf.Snapshot()
}

// ReadOnly reports whether writes are rejected.
func (e *Engine) ReadOnly() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.readOnly
}

// SetReadOnly toggles write protection.
func (e *Engine) SetReadOnly(readOnly bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.readOnly = readOnly
}

// Revision returns a value that changes on every write.
func (e *Engine) Revision() uint64 {
	return uint64(e.buf.RevisionID())
}

// ============================================================================
// Write Operations
// ============================================================================

// Insert inserts text at offset.
func (e *Engine) Insert(offset int, text string) error {
	return e.Replace(offset, offset, text)
}

// Delete removes the text in [start, end).
func (e *Engine) Delete(start, end int) error {
	return e.Replace(start, end, "")
}

// Replace replaces [start, end) with text.
func (e *Engine) Replace(start, end int, text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.readOnly {
		return ErrReadOnly
	}
	edit := Edit{Range: Range{Start: start, End: end}, NewText: text}
	result, err := e.applyLocked(edit)
	if err != nil {
		return err
	}
	e.history.Push(history.RecordedEdit(edit, result))
	return nil
}

// MoveText cuts [srcStart, srcEnd) and inserts it at dest, where dest is an
// offset in the text before the move. Markers inside the source travel
// with the text.
func (e *Engine) MoveText(srcStart, srcEnd, dest int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.readOnly {
		return ErrReadOnly
	}
	if srcStart < 0 || srcEnd > e.buf.Len() || dest < 0 || dest > e.buf.Len() {
		return ErrOffsetOutOfRange
	}
	if srcStart > srcEnd {
		return ErrRangeInvalid
	}
	if dest > srcStart && dest < srcEnd {
		return ErrMoveOverlap
	}
	if srcStart == srcEnd || dest == srcStart || dest == srcEnd {
		return nil
	}

	text := e.buf.TextRange(srcStart, srcEnd)
	target := dest
	if dest >= srcEnd {
		target = dest - len(text)
	}

	cut := buffer.NewDelete(srcStart, srcEnd)
	cutResult, err := e.buf.ApplyEdit(cut)
	if err != nil {
		return err
	}
	paste := buffer.NewInsert(target, text)
	pasteResult, err := e.buf.ApplyEdit(paste)
	if err != nil {
		return err
	}
	e.markers.Move(srcStart, srcEnd, dest)

	e.history.Push(history.NewCompoundCommand("Move",
		history.RecordedEdit(cut, cutResult),
		history.RecordedEdit(paste, pasteResult),
	))
	return nil
}

// ApplyEdit applies an edit without recording history. History replays
// edits through this method.
func (e *Engine) ApplyEdit(edit Edit) (EditResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.readOnly {
		return EditResult{}, ErrReadOnly
	}
	return e.applyLocked(edit)
}

func (e *Engine) applyLocked(edit Edit) (EditResult, error) {
	result, err := e.buf.ApplyEdit(edit)
	if err != nil {
		return EditResult{}, err
	}
	e.markers.Replace(edit.Range.Start, edit.Range.End, len(edit.NewText))
	return result, nil
}

// ============================================================================
// Markers
// ============================================================================

// AddMarker registers a range marker that follows subsequent edits.
func (e *Engine) AddMarker(start, end int) int {
	return e.markers.Add(start, end)
}

// MarkerRange returns the current range of a marker.
func (e *Engine) MarkerRange(id int) (start, end int, ok bool) {
	return e.markers.Range(id)
}

// RemoveMarker drops a marker.
func (e *Engine) RemoveMarker(id int) {
	e.markers.Remove(id)
}

// MarkerCount returns the number of live markers.
func (e *Engine) MarkerCount() int {
	return e.markers.Len()
}

// ============================================================================
// Undo/Redo Operations
// ============================================================================

// Undo undoes the last operation.
func (e *Engine) Undo() error {
	if e.ReadOnly() {
		return ErrReadOnly
	}
	return e.history.Undo(e)
}

// Redo redoes the last undone operation.
func (e *Engine) Redo() error {
	if e.ReadOnly() {
		return ErrReadOnly
	}
	return e.history.Redo(e)
}

// CanUndo returns true if undo is available.
func (e *Engine) CanUndo() bool {
	return e.history.CanUndo()
}

// CanRedo returns true if redo is available.
func (e *Engine) CanRedo() bool {
	return e.history.CanRedo()
}

// UndoCount returns the number of available undo operations.
func (e *Engine) UndoCount() int {
	return e.history.UndoCount()
}

// BeginUndoGroup starts a new undo group.
// All operations until EndUndoGroup will be undone as a single unit.
func (e *Engine) BeginUndoGroup(name string) {
	e.history.BeginGroup(name)
}

// EndUndoGroup ends the current undo group.
func (e *Engine) EndUndoGroup() {
	e.history.EndGroup()
}

// Transaction runs fn as one undo unit. If fn fails, its edits are rolled
// back.
func (e *Engine) Transaction(name string, fn func() error) error {
	return e.history.Transaction(name, e, fn)
}

// ============================================================================
// Plain surface
// ============================================================================

// Plain is a view of an Engine without text moves or markers.
type Plain struct {
	e *Engine
}

// WithoutMove returns a view of the engine that only offers plain text
// edits, hiding MoveText and markers.
func (e *Engine) WithoutMove() *Plain {
	return &Plain{e: e}
}

func (p *Plain) Len() int                                  { return p.e.Len() }
func (p *Plain) Text(start, end int) string                { return p.e.Text(start, end) }
func (p *Plain) Replace(start, end int, text string) error { return p.e.Replace(start, end, text) }
func (p *Plain) Insert(offset int, text string) error      { return p.e.Insert(offset, text) }
func (p *Plain) ReadOnly() bool                            { return p.e.ReadOnly() }
func (p *Plain) Revision() uint64                          { return p.e.Revision() }
