// Package buffer provides the thread-safe text buffer behind a document
// surface.
//
// The buffer package provides:
//
//   - Thread-safe read/write access via sync.RWMutex
//   - Byte-offset edit operations (insert, delete, replace, batched edits)
//   - Coordinate conversion from byte offsets to line/column positions
//   - Read-only snapshots for offset arithmetic against a fixed text
//   - Line ending normalization on load and restoration on export
//   - Revision tracking so writers can detect concurrent modification
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("Hello, World!")
//
//	buf.Insert(7, "Beautiful ")  // "Hello, Beautiful World!"
//	buf.Delete(0, 7)             // "Beautiful World!"
//
//	snap := buf.Snapshot()
//	text := snap.TextRange(0, 9) // "Beautiful"
//
// Line endings:
//
// Content is normalized to "\n" when it is loaded so that every offset the
// buffer hands out refers to LF text. The detected style is remembered and
// Export converts back to it. Text passed to Insert and Replace is stored
// verbatim; callers that compute offsets from the inserted text rely on that.
//
// Thread Safety:
//
// All Buffer methods are thread-safe. Read operations acquire a read lock,
// while write operations acquire an exclusive write lock. Strings are
// immutable, so a Snapshot shares the buffer's text without copying.
package buffer
