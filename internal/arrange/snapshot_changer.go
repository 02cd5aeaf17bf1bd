package arrange

// snapshotChanger rewrites a sibling list with one replacement computed
// from the plan's read of the document.
type snapshotChanger struct {
	doc   Document
	plan  *framePlan
	edits int
}

func newSnapshotChanger(doc Document) *snapshotChanger {
	return &snapshotChanger{doc: doc}
}

func (c *snapshotChanger) prepare(p *framePlan) error {
	c.plan = p
	return nil
}

func (c *snapshotChanger) trail() error { return nil }

func (c *snapshotChanger) replace(int) error { return nil }

func (c *snapshotChanger) counts() (int, int) { return c.edits, 0 }

func (c *snapshotChanger) finish() error {
	p := c.plan
	old := p.src[p.regionStart-p.lo : p.regionEnd-p.lo]
	text := p.render()

	if text != old {
		pre, suf := commonAffixes(old, text)
		if c.doc.Revision() != p.rev {
			return ErrConcurrentModification
		}
		start, end := p.regionStart+pre, p.regionEnd-suf
		if err := c.doc.Replace(start, end, text[pre:len(text)-suf]); err != nil {
			return err
		}
		c.edits++
	}

	// Contents are read from the plan, so compute all targets before
	// shifting anything.
	t := p.tree
	targets := make([]int, len(p.arranged))
	pos := p.regionStart
	for i, id := range p.arranged {
		pos += len(p.gaps[i].new)
		targets[i] = pos
		w := t.at(id)
		pos += w.end - w.start
	}
	for i, id := range p.arranged {
		t.shiftSubtree(id, targets[i]-t.at(id).start)
	}
	t.shiftOutside(p.parent, p.inFrame, p.regionEnd, len(text)-len(old))
	return nil
}

// commonAffixes returns the lengths of the common prefix and suffix of a
// and b. They never overlap.
func commonAffixes(a, b string) (pre, suf int) {
	n := min(len(a), len(b))
	for pre < n && a[pre] == b[pre] {
		pre++
	}
	for suf < n-pre && a[len(a)-1-suf] == b[len(b)-1-suf] {
		suf++
	}
	return pre, suf
}
