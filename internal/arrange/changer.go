package arrange

import "strings"

// changer writes one sibling list's arrangement into the document.
//
// A sibling list occupies slots separated by gaps. Gaps stay with their
// slots while entry text moves between slots. The plan fixes the new text
// of every gap up front, so all changers produce the same text.
type changer interface {
	// prepare starts work on a plan.
	prepare(p *framePlan) error
	// trail rewrites the region after the last slot.
	trail() error
	// replace fills slot i with its arranged entry and rewrites the gap
	// in front of it. Slots are replaced from last to first.
	replace(i int) error
	// finish flushes pending edits and brings wrapper offsets up to date.
	finish() error
	// counts returns the writes and moves issued so far.
	counts() (edits, moves int)
}

// gapEdit is the old and new text of one gap.
type gapEdit struct {
	old, new string
}

func (g gapEdit) changed() bool { return g.old != g.new }

// framePlan is everything a changer needs to rewrite one sibling list,
// computed from a single read of the document.
type framePlan struct {
	tree   *wrapperTree
	parent wrapperID

	// slots lists the siblings in document order, arranged in target
	// order.
	slots    []wrapperID
	arranged []wrapperID

	// inFrame holds the siblings and their subtrees.
	inFrame map[wrapperID]bool

	// src is the document text from lo. rev is the revision the wrapper
	// offsets are valid for.
	src string
	lo  int
	rev uint64

	// regionStart and regionEnd bound the text the plan rewrites.
	regionStart, regionEnd int

	// gaps[i] precedes slot i; gaps[0] is the lead.
	gaps []gapEdit
	tail gapEdit

	// blank is the blank-line count before each arranged entry.
	blank []int
}

// content returns the text of a wrapper as read.
func (p *framePlan) content(id wrapperID) string {
	w := p.tree.at(id)
	return p.src[w.start-p.lo : w.end-p.lo]
}

// moved reports whether any entry changes slot.
func (p *framePlan) moved() bool {
	for i := range p.slots {
		if p.slots[i] != p.arranged[i] {
			return true
		}
	}
	return false
}

// render returns the new text of the whole region.
func (p *framePlan) render() string {
	var b strings.Builder
	for i, id := range p.arranged {
		b.WriteString(p.gaps[i].new)
		b.WriteString(p.content(id))
	}
	b.WriteString(p.tail.new)
	return b.String()
}

// planFrame reads the document once and computes the new layout of the
// children of parent. rev is the revision the wrapper offsets were last
// valid for; changers refuse to write if the document has moved past it.
func planFrame(doc Document, t *wrapperTree, parent wrapperID, rk *Ranking, s *Settings, blankLines BlankLinesFunc, rev uint64) *framePlan {
	lo, hi := 0, doc.Len()
	var parentEntry *Entry
	if parent != noWrapper {
		pw := t.at(parent)
		lo, hi = pw.start, pw.end
		parentEntry = pw.entry
	}

	p := &framePlan{
		tree:     t,
		parent:   parent,
		slots:    append([]wrapperID(nil), t.siblings(parent)...),
		arranged: t.ids(rk.Arranged),
		inFrame:  make(map[wrapperID]bool),
		lo:       lo,
		rev:      rev,
	}
	p.src = doc.Text(lo, hi)
	for _, id := range p.slots {
		for _, d := range t.subtree(id) {
			p.inFrame[d] = true
		}
	}

	n := len(p.slots)
	lay := &layout{delims: s.delimiters()}
	first, last := t.at(p.slots[0]), t.at(p.slots[n-1])

	leadStart, lineStart := lay.leadRegion(p.src, lo, first.start)
	p.regionStart = leadStart
	p.regionEnd = lay.trailRegion(p.src, lo, last.end)

	p.gaps = make([]gapEdit, n)
	p.gaps[0].old = p.src[leadStart-lo : first.start-lo]
	for i := 1; i < n; i++ {
		p.gaps[i].old = p.src[t.at(p.slots[i-1]).end-lo : t.at(p.slots[i]).start-lo]
	}
	p.tail.old = p.src[last.end-lo : p.regionEnd-lo]

	indents := make([]string, n)
	known := make([]bool, n)
	for i, id := range p.slots {
		indents[i], known[i] = slotIndent(p.src, lo, t.at(id).start)
	}
	for i := range indents {
		if known[i] {
			lay.indent = indents[i]
			break
		}
	}
	for i := range indents {
		if !known[i] {
			indents[i] = lay.indent
		}
	}

	ann := Annotate(rk.Arranged, rk.SectionOf, func(e *Entry) string {
		return p.content(t.idOf[e])
	})

	p.blank = make([]int, n)
	for i, e := range rk.Arranged {
		var prev *Entry
		if i > 0 {
			prev = rk.Arranged[i-1]
		}
		want := blankLines(parentEntry, prev, e)
		if i == 0 {
			p.gaps[0].new = lay.renderLead(p.gaps[0].old, lineStart, ann.Starts[e], want)
		} else {
			p.gaps[i].new = lay.renderMid(p.gaps[i].old, ann.Ends[prev], ann.Starts[e], want)
		}
		p.blank[i] = lay.blanksBefore(p.gaps[i].new, i == 0)
	}
	p.tail.new = lay.renderTrail(p.tail.old, ann.Ends[rk.Arranged[n-1]], indents[n-1])

	return p
}

// slotIndent returns the indentation in front of offset start and whether
// start is the first text on its line.
func slotIndent(src string, lo, start int) (string, bool) {
	j := start - lo
	k := j
	for k > 0 && (src[k-1] == ' ' || src[k-1] == '\t') {
		k--
	}
	switch {
	case k == 0:
		return src[:j], lo == 0
	case src[k-1] == '\n':
		return src[k:j], true
	}
	return "", false
}
