// Package history provides undo/redo for document edits.
//
// The history system uses the Command pattern to encapsulate edit operations,
// enabling them to be executed, undone, and redone.
//
// # Commands
//
// Commands implement the Command interface with Execute and Undo methods.
// Built-in commands include:
//   - EditCommand: a single replace/insert/delete against a Target
//   - CompoundCommand: several commands undone as one unit
//
// Commands apply edits through a Target rather than a concrete buffer, so
// the engine can keep markers in step with the text while history replays
// edits.
//
// # History Stack
//
//	history := NewHistory(1000) // Max 1000 undo entries
//
//	history.Execute(cmd, target)
//	history.Undo(target)
//	history.Redo(target)
//
// # Command Grouping
//
// A whole rearrangement pass is recorded as one undo unit:
//
//	history.BeginGroup("Rearrange")
//	// ... multiple edits ...
//	history.EndGroup()
package history
