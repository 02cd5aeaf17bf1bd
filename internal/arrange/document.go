package arrange

// Document is the text surface a pass edits.
type Document interface {
	Len() int
	Text(start, end int) string
	Replace(start, end int, text string) error
	Insert(offset int, text string) error
	ReadOnly() bool

	// Revision changes whenever the text changes.
	Revision() uint64
}

// MarkerDocument is a Document that can move text while keeping range
// markers attached to it.
type MarkerDocument interface {
	Document

	// MoveText cuts [srcStart, srcEnd) and inserts it at dest, an offset
	// in the text before the move outside the source range.
	MoveText(srcStart, srcEnd, dest int) error

	AddMarker(start, end int) int
	MarkerRange(id int) (start, end int, ok bool)
	RemoveMarker(id int)
}

// BlankLinesFunc returns the number of blank lines wanted before current
// when it follows prev inside parent. prev is nil for the first entry and
// parent is nil at the top level. A negative result leaves the spacing as
// it is.
type BlankLinesFunc func(parent, prev, current *Entry) int

// Rearranger extracts entries from the source of one language.
type Rearranger interface {
	Language() string
	Extensions() []string
	Parse(src []byte) ([]*Entry, error)
	BlankLines(parent, prev, current *Entry) int
}

func keepBlankLines(parent, prev, current *Entry) int { return -1 }
