package arrange

import "strings"

// Annotations records the delimiter comments due around entries.
type Annotations struct {
	// Starts maps the first entry of a section to its start comment.
	Starts map[*Entry]string
	// Ends maps the last entry of a section to its end comment.
	Ends map[*Entry]string
}

// Annotate scans an arranged sibling list and decides which delimiter
// comments are due. Whenever the section changes between neighbors, and
// at both ends of the list, the previous section is closed on its last
// entry and the next one opened on its first entry. An entry whose text
// already is the comment gets none. text may be nil.
func Annotate(arranged []*Entry, sectionOf map[*Entry]*SectionRule, text func(*Entry) string) Annotations {
	a := Annotations{
		Starts: make(map[*Entry]string),
		Ends:   make(map[*Entry]string),
	}

	isDelimiter := func(e *Entry, comment string) bool {
		return text != nil && strings.TrimSpace(text(e)) == strings.TrimSpace(comment)
	}
	closeSection := func(sec *SectionRule, last *Entry) {
		if sec != nil && sec.EndComment != "" && !isDelimiter(last, sec.EndComment) {
			a.Ends[last] = sec.EndComment
		}
	}

	var prev *SectionRule
	for i, e := range arranged {
		sec := sectionOf[e]
		if i > 0 && sec == prev {
			continue
		}
		if i > 0 {
			closeSection(prev, arranged[i-1])
		}
		if sec != nil && sec.StartComment != "" && !isDelimiter(e, sec.StartComment) {
			a.Starts[e] = sec.StartComment
		}
		prev = sec
	}
	if n := len(arranged); n > 0 {
		closeSection(prev, arranged[n-1])
	}

	return a
}
