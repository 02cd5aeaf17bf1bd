package arrange

import (
	"errors"
	"fmt"
)

// Errors returned by an arrangement pass.
var (
	// ErrNonWritableDocument indicates the document rejects writes. The pass
	// stops before touching the text.
	ErrNonWritableDocument = errors.New("document is not writable")

	// ErrUnsupportedLanguage indicates no rearranger is registered for the
	// document's language.
	ErrUnsupportedLanguage = errors.New("unsupported language")

	// ErrConcurrentModification indicates the document changed between the
	// read used for offset math and the first write of a sibling list.
	ErrConcurrentModification = errors.New("document modified during arrangement")

	// ErrMoveUnsupported indicates the marker strategy was requested for a
	// document without MoveText.
	ErrMoveUnsupported = errors.New("document does not support moving text")
)

// InvariantError reports a broken structural invariant of the entry tree,
// such as overlapping or unsorted sibling ranges. It is raised with panic.
type InvariantError struct {
	Msg   string
	Entry *Entry
}

// Error implements error.
func (e *InvariantError) Error() string {
	if e.Entry != nil {
		return fmt.Sprintf("arrange invariant violated: %s (entry %q [%d:%d))", e.Msg, e.Entry.Name, e.Entry.Start, e.Entry.End)
	}
	return "arrange invariant violated: " + e.Msg
}

func invariant(e *Entry, format string, args ...any) {
	panic(&InvariantError{Msg: fmt.Sprintf(format, args...), Entry: e})
}

// FrameError reports the sibling list a pass stopped at.
type FrameError struct {
	Parent *Entry
	Err    error
}

// Error implements error.
func (e *FrameError) Error() string {
	if e.Parent == nil {
		return fmt.Sprintf("top level: %v", e.Err)
	}
	return fmt.Sprintf("children of %q: %v", e.Parent.Name, e.Err)
}

// Unwrap returns the underlying error.
func (e *FrameError) Unwrap() error {
	return e.Err
}
