package arrange

import "strings"

// gap is the text between two neighboring entries: the rest of the
// previous entry's line, whole lines, and the text before the next entry
// on its line.
type gap struct {
	head    string
	lines   []string
	indent  string
	newline bool
}

func parseGap(s string) gap {
	parts := strings.Split(s, "\n")
	if len(parts) == 1 {
		return gap{head: s}
	}
	return gap{
		head:    parts[0],
		lines:   parts[1 : len(parts)-1],
		indent:  parts[len(parts)-1],
		newline: true,
	}
}

func (g gap) String() string {
	if !g.newline {
		return g.head
	}
	var b strings.Builder
	b.WriteString(g.head)
	b.WriteByte('\n')
	for _, l := range g.lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	b.WriteString(g.indent)
	return b.String()
}

// layout renders gaps for one sibling list.
type layout struct {
	delims map[string]bool
	// indent is used for comments placed where no indentation is known.
	indent string
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

func (l *layout) isDelim(line string) bool {
	return l.delims[strings.TrimSpace(line)]
}

func leadingSpace(s string) string {
	return s[:len(s)-len(strings.TrimLeft(s, " \t"))]
}

// body drops delimiter lines and splits the rest into leading lines and
// the blank run that ends them.
func (l *layout) body(lines []string) (prefix, blanks []string) {
	var kept []string
	for _, line := range lines {
		if !l.isDelim(line) {
			kept = append(kept, line)
		}
	}
	i := len(kept)
	for i > 0 && isBlank(kept[i-1]) {
		i--
	}
	return kept[:i], kept[i:]
}

// blankRun resizes a run of blank lines to n, keeping existing lines. A
// negative n keeps the run.
func blankRun(blanks []string, n int) []string {
	if n < 0 {
		return blanks
	}
	if len(blanks) >= n {
		return blanks[:n]
	}
	out := append([]string(nil), blanks...)
	for len(out) < n {
		out = append(out, "")
	}
	return out
}

// renderMid rewrites the gap between two entries: end closes the section
// of the previous entry, start opens the section of the next one, and
// blank is the wanted number of blank lines before the next entry.
func (l *layout) renderMid(old string, end, start string, blank int) string {
	g := parseGap(old)
	if !g.newline {
		if end == "" && start == "" {
			return old
		}
		g = gap{head: strings.TrimRight(g.head, " \t"), indent: l.indent, newline: true}
	}

	ind := leadingSpace(g.indent)
	prefix, blanks := l.body(g.lines)

	var lines []string
	if end != "" {
		lines = append(lines, ind+end)
	}
	lines = append(lines, prefix...)
	lines = append(lines, blankRun(blanks, blank)...)
	if start != "" {
		lines = append(lines, ind+start)
	}
	g.lines = lines
	return g.String()
}

// leadRegion locates the text before the first entry of a sibling list:
// its indentation plus the blank and delimiter lines above it. src holds
// the document from offset lo; first is the entry start. It returns the
// region start and whether the region starts at a line start.
func (l *layout) leadRegion(src string, lo, first int) (int, bool) {
	q := first - lo
	for q > 0 && (src[q-1] == ' ' || src[q-1] == '\t') {
		q--
	}
	switch {
	case q == 0:
		return lo, lo == 0
	case src[q-1] != '\n':
		return lo + q, false
	}

	r := q
	for r > 0 {
		ls := strings.LastIndexByte(src[:r-1], '\n') + 1
		if ls == 0 && lo != 0 {
			break
		}
		line := src[ls : r-1]
		if !isBlank(line) && !l.isDelim(line) {
			break
		}
		r = ls
	}
	return lo + r, true
}

// renderLead rewrites the region before the first entry.
func (l *layout) renderLead(old string, lineStart bool, start string, blank int) string {
	if !lineStart {
		if start == "" {
			return old
		}
		var b strings.Builder
		b.WriteString(strings.TrimRight(old, " \t"))
		b.WriteByte('\n')
		for range blankRun(nil, blank) {
			b.WriteByte('\n')
		}
		b.WriteString(l.indent + start + "\n" + l.indent)
		return b.String()
	}

	parts := strings.Split(old, "\n")
	indent := parts[len(parts)-1]
	prefix, blanks := l.body(parts[:len(parts)-1])

	lines := append(prefix, blankRun(blanks, blank)...)
	if start != "" {
		lines = append(lines, leadingSpace(indent)+start)
	}

	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString(indent)
	return b.String()
}

// trailRegion locates the text after the last entry of a sibling list:
// the blank rest of its line and the blank and delimiter lines below it.
// The region is empty when the rest of the line holds other text. src
// holds the document from offset lo; last is the entry end.
func (l *layout) trailRegion(src string, lo, last int) int {
	p := last - lo
	nl := strings.IndexByte(src[p:], '\n')
	if nl < 0 || !isBlank(src[p:p+nl]) {
		return last
	}
	r := p + nl + 1
	for r < len(src) {
		nl := strings.IndexByte(src[r:], '\n')
		if nl < 0 {
			break
		}
		line := src[r : r+nl]
		if !isBlank(line) && !l.isDelim(line) {
			break
		}
		r += nl + 1
	}
	return lo + r
}

// renderTrail rewrites the region after the last entry. indent is the
// indentation of the last entry.
func (l *layout) renderTrail(old string, end, indent string) string {
	if old == "" {
		if end == "" {
			return ""
		}
		return "\n" + indent + end + "\n"
	}

	g := parseGap(old)
	var lines []string
	if end != "" {
		lines = append(lines, indent+end)
	}
	for _, line := range g.lines {
		if !l.isDelim(line) {
			lines = append(lines, line)
		}
	}
	g.lines = lines
	return g.String()
}

// blanksBefore counts the blank lines directly above an entry, or above
// its start comment, in a rendered gap.
func (l *layout) blanksBefore(rendered string, lead bool) int {
	if lead {
		rendered = "\n" + rendered
	}
	g := parseGap(rendered)
	if !g.newline {
		return 0
	}
	_, blanks := l.body(g.lines)
	return len(blanks)
}
