package engine

import (
	"github.com/dshills/rearrange/internal/engine/buffer"
)

// DefaultMaxUndoEntries is the undo depth used when none is configured.
const DefaultMaxUndoEntries = 1000

// Option configures an Engine during creation.
type Option func(*Engine)

// WithContent sets the initial content of the engine.
// The line ending of content is detected and restored by Export.
func WithContent(content string) Option {
	return func(e *Engine) {
		e.initContent = content
		e.lineEnding = buffer.DetectLineEnding(content)
	}
}

// WithLineEnding overrides the line ending style restored by Export.
func WithLineEnding(ending buffer.LineEnding) Option {
	return func(e *Engine) {
		e.lineEnding = ending
		e.fixedLineEnding = true
	}
}

// WithMaxUndoEntries sets the maximum number of undo history entries.
func WithMaxUndoEntries(max int) Option {
	return func(e *Engine) {
		if max > 0 {
			e.maxUndoEntries = max
		}
	}
}

// WithReadOnly creates a read-only engine.
// Write operations will return ErrReadOnly.
func WithReadOnly() Option {
	return func(e *Engine) {
		e.readOnly = true
	}
}
