// Package engine provides the editable document used by the rearranger.
//
// The engine package serves as the main facade, combining the text buffer,
// range markers, and undo/redo into a unified, thread-safe API. An *Engine
// satisfies the document surface the arrange package writes through,
// including text moves that carry markers along.
//
// # Architecture
//
// The engine is built on several sub-packages:
//
//   - buffer: text storage with edit operations and line ending handling
//   - tracking: range markers kept valid across edits and moves
//   - history: command-based undo/redo
//
// # Basic Usage
//
//	e := engine.New(engine.WithContent("Hello, World!"))
//
//	e.Replace(7, 12, "Go") // "Hello, Go!"
//	e.Undo()               // "Hello, World!"
//
// # Markers and Moves
//
//	e := engine.New(engine.WithContent("aaa bbb "))
//	id := e.AddMarker(0, 4)
//
//	e.MoveText(0, 4, 8)      // "bbb aaa "
//	e.MarkerRange(id)        // 4, 8, true
//
// # Undo Groups
//
// A whole rearrangement pass is one undo unit:
//
//	e.BeginUndoGroup("rearrange")
//	// ... edits ...
//	e.EndUndoGroup()
//
//	e.Undo() // Undoes the whole pass
//
// # Line Endings
//
// Content is normalized to "\n" on load. Export restores the detected (or
// configured) line ending so files round-trip unchanged.
//
// # Read-Only Mode
//
//	e := engine.New(engine.WithContent("x"), engine.WithReadOnly())
//	err := e.Insert(0, "text") // err == engine.ErrReadOnly
package engine
