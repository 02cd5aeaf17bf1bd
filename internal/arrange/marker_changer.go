package arrange

import "sort"

// markerChanger rewrites a sibling list by moving entry text with the
// document's MoveText, so markers the host holds travel with the text.
// Wrapper offsets are read back from markers after every write.
type markerChanger struct {
	doc  MarkerDocument
	plan *framePlan

	markers   map[wrapperID]int
	occ       []wrapperID
	regionEnd int
	wrote     bool

	edits, moves int
}

func newMarkerChanger(doc MarkerDocument) *markerChanger {
	return &markerChanger{doc: doc}
}

func (c *markerChanger) prepare(p *framePlan) error {
	c.plan = p
	c.occ = append([]wrapperID(nil), p.slots...)
	c.regionEnd = p.regionEnd
	c.wrote = false
	c.markers = make(map[wrapperID]int, len(p.inFrame))

	ids := make([]wrapperID, 0, len(p.inFrame))
	for id := range p.inFrame {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		w := p.tree.at(id)
		c.markers[id] = c.doc.AddMarker(w.start, w.end)
	}
	return nil
}

func (c *markerChanger) counts() (int, int) { return c.edits, c.moves }

// checkRevision guards the first write of the frame.
func (c *markerChanger) checkRevision() error {
	if c.wrote {
		return nil
	}
	if c.doc.Revision() != c.plan.rev {
		return ErrConcurrentModification
	}
	c.wrote = true
	return nil
}

func (c *markerChanger) write(start, end int, text string) error {
	if err := c.checkRevision(); err != nil {
		return err
	}
	if err := c.doc.Replace(start, end, text); err != nil {
		return err
	}
	c.edits++
	c.regionEnd += len(text) - (end - start)
	c.sync()
	return nil
}

func (c *markerChanger) move(id wrapperID, dest int) error {
	if err := c.checkRevision(); err != nil {
		return err
	}
	w := c.plan.tree.at(id)
	if err := c.doc.MoveText(w.start, w.end, dest); err != nil {
		return err
	}
	c.moves++
	c.sync()
	return nil
}

// sync reads wrapper offsets back from markers.
func (c *markerChanger) sync() {
	t := c.plan.tree
	for id, m := range c.markers {
		start, end, ok := c.doc.MarkerRange(m)
		if !ok {
			invariant(t.at(id).entry, "marker %d vanished", m)
		}
		w := t.at(id)
		w.start, w.end = start, end
	}
}

func (c *markerChanger) trail() error {
	p := c.plan
	if !p.tail.changed() {
		return nil
	}
	last := p.tree.at(c.occ[len(c.occ)-1])
	return c.write(last.end, c.regionEnd, p.tail.new)
}

func (c *markerChanger) replace(i int) error {
	p := c.plan
	t := p.tree

	if want := p.arranged[i]; c.occ[i] != want {
		x := c.occ[i]
		j := indexOf(c.occ, want)
		if j < 0 || j > i {
			invariant(t.at(want).entry, "entry not found in front of slot %d", i)
		}

		if err := c.move(x, t.at(want).start); err != nil {
			return err
		}

		var dest int
		if i == len(c.occ)-1 {
			dest = c.regionEnd - len(p.tail.new)
		} else {
			dest = t.at(c.occ[i+1]).start - len(p.gaps[i+1].new)
		}
		if err := c.move(want, dest); err != nil {
			return err
		}
		c.occ[i], c.occ[j] = want, x
	}

	g := p.gaps[i]
	if !g.changed() {
		return nil
	}
	cur := t.at(c.occ[i])
	start := cur.start - len(g.old)
	if i > 0 {
		start = t.at(c.occ[i-1]).end
	}
	return c.write(start, cur.start, g.new)
}

func (c *markerChanger) finish() error {
	p := c.plan
	for _, m := range c.markers {
		c.doc.RemoveMarker(m)
	}
	c.markers = nil
	p.tree.shiftOutside(p.parent, p.inFrame, p.regionEnd, c.regionEnd-p.regionEnd)
	return nil
}

func indexOf(ids []wrapperID, id wrapperID) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
