package arrange

// Entry describes one syntactic unit eligible for reordering. Entries are
// produced by a parser and are not modified by a pass; the pass tracks the
// live offsets separately.
type Entry struct {
	// Start and End are byte offsets [Start, End) in the document at parse
	// time.
	Start, End int

	// Types are the type tags of the entry, such as "method" or "field".
	Types []string

	// Modifiers are tags such as "public" or "static".
	Modifiers []string

	// Name is empty for unnamed entries.
	Name string

	// Language identifies the language of the entry in composite documents.
	Language string

	// Dependencies lists entries that must precede this one. Nil means the
	// entry is unconstrained. A single dependency on Parent pins the entry
	// in front of its siblings.
	Dependencies []*Entry

	Parent   *Entry
	Children []*Entry

	// Anchor entries are never matched by rules. They keep their position
	// and split their siblings into independently ranked runs.
	Anchor bool
}

// CanBeMatched reports whether rules may claim the entry.
func (e *Entry) CanBeMatched() bool {
	return !e.Anchor
}

// HasType reports whether the entry carries type tag t.
func (e *Entry) HasType(t string) bool {
	return contains(e.Types, t)
}

// HasModifier reports whether the entry carries modifier m.
func (e *Entry) HasModifier(m string) bool {
	return contains(e.Modifiers, m)
}

// Pinned reports whether the entry's only dependency is its parent.
func (e *Entry) Pinned() bool {
	return e.Parent != nil && len(e.Dependencies) == 1 && e.Dependencies[0] == e.Parent
}

// AddChild appends c to the children of e and sets its parent.
func (e *Entry) AddChild(c *Entry) {
	c.Parent = e
	e.Children = append(e.Children, c)
}

// DependOn appends dependencies to e.
func (e *Entry) DependOn(deps ...*Entry) {
	e.Dependencies = append(e.Dependencies, deps...)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
