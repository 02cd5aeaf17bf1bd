package arrange

// wrapperID addresses a wrapper in its tree's arena.
type wrapperID int

const noWrapper wrapperID = -1

// wrapper is the per-pass shadow of an Entry carrying live offsets.
type wrapper struct {
	entry            *Entry
	start, end       int
	blankLinesBefore int

	parent, prev, next wrapperID
	children           []wrapperID
}

// wrapperTree is an arena of wrappers mirroring the entry tree.
type wrapperTree struct {
	nodes []wrapper
	roots []wrapperID
	idOf  map[*Entry]wrapperID
}

// buildTree mirrors roots into a wrapper arena and checks that siblings
// are sorted, do not overlap, and lie inside their parent.
func buildTree(roots []*Entry) *wrapperTree {
	t := &wrapperTree{idOf: make(map[*Entry]wrapperID)}
	for _, e := range roots {
		t.roots = append(t.roots, t.add(e, noWrapper))
	}

	for id := wrapperID(0); int(id) < len(t.nodes); id++ {
		for _, c := range t.nodes[id].entry.Children {
			cid := t.add(c, id)
			t.nodes[id].children = append(t.nodes[id].children, cid)
		}
	}

	t.relink(noWrapper, t.roots)
	for id := range t.nodes {
		t.relink(wrapperID(id), t.nodes[id].children)
	}
	t.validate(noWrapper)
	for id := range t.nodes {
		t.validate(wrapperID(id))
	}
	return t
}

func (t *wrapperTree) add(e *Entry, parent wrapperID) wrapperID {
	if e == nil {
		invariant(nil, "nil entry")
	}
	if _, ok := t.idOf[e]; ok {
		invariant(e, "entry appears twice in the tree")
	}
	t.idOf[e] = wrapperID(len(t.nodes))
	t.nodes = append(t.nodes, wrapper{
		entry:  e,
		start:  e.Start,
		end:    e.End,
		parent: parent,
		prev:   noWrapper,
		next:   noWrapper,
	})
	return wrapperID(len(t.nodes) - 1)
}

func (t *wrapperTree) at(id wrapperID) *wrapper {
	return &t.nodes[id]
}

// siblings returns the child list of parent, or the roots.
func (t *wrapperTree) siblings(parent wrapperID) []wrapperID {
	if parent == noWrapper {
		return t.roots
	}
	return t.nodes[parent].children
}

// relink installs order as the child list of parent and rebuilds the
// prev/next links.
func (t *wrapperTree) relink(parent wrapperID, order []wrapperID) {
	if parent == noWrapper {
		t.roots = order
	} else {
		t.nodes[parent].children = order
	}
	for i, id := range order {
		w := t.at(id)
		w.prev, w.next = noWrapper, noWrapper
		if i > 0 {
			w.prev = order[i-1]
		}
		if i+1 < len(order) {
			w.next = order[i+1]
		}
	}
}

// validate checks the child list of parent.
func (t *wrapperTree) validate(parent wrapperID) {
	lo, hi := 0, -1
	if parent != noWrapper {
		p := t.at(parent)
		lo, hi = p.start, p.end
	}
	prevEnd := lo
	for _, id := range t.siblings(parent) {
		w := t.at(id)
		switch {
		case w.start > w.end:
			invariant(w.entry, "range end %d before start %d", w.end, w.start)
		case w.start < prevEnd:
			invariant(w.entry, "range starts at %d, before previous end %d", w.start, prevEnd)
		case hi >= 0 && w.end > hi:
			invariant(w.entry, "range ends at %d, after parent end %d", w.end, hi)
		}
		prevEnd = w.end
	}
}

// subtree returns id and all of its descendants.
func (t *wrapperTree) subtree(id wrapperID) []wrapperID {
	out := []wrapperID{id}
	for i := 0; i < len(out); i++ {
		out = append(out, t.nodes[out[i]].children...)
	}
	return out
}

func (t *wrapperTree) shiftSubtree(id wrapperID, delta int) {
	if delta == 0 {
		return
	}
	for _, d := range t.subtree(id) {
		w := t.at(d)
		w.start += delta
		w.end += delta
	}
}

// isAncestor reports whether a is a proper ancestor of b.
func (t *wrapperTree) isAncestor(a, b wrapperID) bool {
	for p := t.nodes[b].parent; p != noWrapper; p = t.nodes[p].parent {
		if p == a {
			return true
		}
	}
	return false
}

// shiftOutside applies a length change of delta at offset at to every
// wrapper outside the frame below parent: ancestors grow, wrappers
// starting at or after at move.
func (t *wrapperTree) shiftOutside(parent wrapperID, inFrame map[wrapperID]bool, at, delta int) {
	if delta == 0 {
		return
	}
	for id := range t.nodes {
		wid := wrapperID(id)
		if inFrame[wid] {
			continue
		}
		w := t.at(wid)
		switch {
		case wid == parent || (parent != noWrapper && t.isAncestor(wid, parent)):
			w.end += delta
		case w.start >= at:
			w.start += delta
			w.end += delta
		}
	}
}

// ids maps entries back to their wrappers.
func (t *wrapperTree) ids(entries []*Entry) []wrapperID {
	out := make([]wrapperID, len(entries))
	for i, e := range entries {
		out[i] = t.idOf[e]
	}
	return out
}

// entries returns the entries of ids in order.
func (t *wrapperTree) entries(ids []wrapperID) []*Entry {
	out := make([]*Entry, len(ids))
	for i, id := range ids {
		out[i] = t.nodes[id].entry
	}
	return out
}
