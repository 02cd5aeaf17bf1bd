package arrange

import "sort"

// Ranking is the target order of one sibling list.
type Ranking struct {
	// Arranged is a permutation of the input siblings.
	Arranged []*Entry

	// SectionOf maps entries placed by a section's rule, and dependents
	// that followed them, to that section.
	SectionOf map[*Entry]*SectionRule

	// Unresolved lists dependents whose dependencies could not be placed
	// before them (cycles). They are appended at the end of their run.
	Unresolved []*Entry
}

// Rank computes the arrangement of siblings under s.
//
// Anchor entries keep their place and split the siblings into runs that
// are ranked independently. Within a run, pinned entries come first in
// encounter order, then the entries claimed by each section's rules, then
// entries no rule claimed, in original order. Dependents are inserted right
// after the entry that completes their dependencies and join its section.
// Dependencies on entries outside the run are ignored.
//
// Dependents that never resolve are placed at the end of their own run,
// before the next anchor, in original order, and listed in Unresolved.
func Rank(siblings []*Entry, s *Settings) *Ranking {
	r := &Ranking{SectionOf: make(map[*Entry]*SectionRule)}

	var run []*Entry
	flush := func() {
		if len(run) > 0 {
			rankRun(run, s, r)
			run = nil
		}
	}
	for _, e := range siblings {
		if !e.CanBeMatched() {
			flush()
			r.Arranged = append(r.Arranged, e)
			continue
		}
		run = append(run, e)
	}
	flush()

	return r
}

func rankRun(run []*Entry, s *Settings, r *Ranking) {
	index := make(map[*Entry]int, len(run))
	for i, e := range run {
		index[e] = i
	}

	var pinned, free, dependents []*Entry
	waiting := make(map[*Entry]map[*Entry]bool)
	waiters := make(map[*Entry][]*Entry)

	for _, e := range run {
		switch {
		case e.Dependencies == nil:
			free = append(free, e)
		case e.Pinned():
			pinned = append(pinned, e)
		default:
			missing := make(map[*Entry]bool)
			for _, d := range e.Dependencies {
				if _, ok := index[d]; !ok || d == e || missing[d] {
					continue
				}
				missing[d] = true
				waiters[d] = append(waiters[d], e)
			}
			if len(missing) == 0 {
				free = append(free, e)
				continue
			}
			waiting[e] = missing
			dependents = append(dependents, e)
		}
	}

	arranged := append([]*Entry(nil), pinned...)
	arranged = append(arranged, bucket(free, s, index, r.SectionOf)...)

	out := make([]*Entry, 0, len(run))
	var pending []*Entry
	for i := 0; ; {
		var x *Entry
		switch {
		case len(pending) > 0:
			x, pending = pending[0], pending[1:]
		case i < len(arranged):
			x = arranged[i]
			i++
		}
		if x == nil {
			break
		}
		out = append(out, x)

		var released []*Entry
		for _, d := range waiters[x] {
			missing := waiting[d]
			if !missing[x] {
				continue
			}
			delete(missing, x)
			if len(missing) == 0 {
				delete(waiting, d)
				released = append(released, d)
			}
		}
		if len(released) == 0 {
			continue
		}
		if sec, ok := r.SectionOf[x]; ok {
			for _, d := range released {
				r.SectionOf[d] = sec
			}
		}
		pending = append(released, pending...)
	}

	for _, d := range dependents {
		if _, ok := waiting[d]; ok {
			out = append(out, d)
			r.Unresolved = append(r.Unresolved, d)
		}
	}

	r.Arranged = append(r.Arranged, out...)
}

// bucket distributes free entries over the rules in priority order and
// concatenates the buckets section by section. Entries no emitted rule
// claimed follow in original order.
func bucket(free []*Entry, s *Settings, index map[*Entry]int, sectionOf map[*Entry]*SectionRule) []*Entry {
	if s == nil {
		return free
	}

	buckets := make(map[*MatchRule][]*Entry)
	pool := free
	for _, rule := range s.RulesByPriority {
		if len(pool) == 0 {
			break
		}
		var rest []*Entry
		for _, e := range pool {
			if rule.match(e) {
				buckets[rule] = append(buckets[rule], e)
			} else {
				rest = append(rest, e)
			}
		}
		pool = rest
	}

	var out []*Entry
	emitted := make(map[*MatchRule]bool)
	for _, sec := range s.Sections {
		for _, rule := range sec.Rules {
			if emitted[rule] {
				continue
			}
			emitted[rule] = true
			for _, e := range orderBucket(rule, buckets[rule]) {
				out = append(out, e)
				sectionOf[e] = sec
			}
		}
	}

	tail := append([]*Entry(nil), pool...)
	for rule, b := range buckets {
		if !emitted[rule] {
			tail = append(tail, b...)
		}
	}
	sort.Slice(tail, func(i, j int) bool { return index[tail[i]] < index[tail[j]] })

	return append(out, tail...)
}

func orderBucket(rule *MatchRule, b []*Entry) []*Entry {
	out := append([]*Entry(nil), b...)
	switch rule.Order {
	case ByName:
		sort.SliceStable(out, func(i, j int) bool {
			a, c := out[i], out[j]
			if a.Name == "" {
				return false
			}
			if c.Name == "" {
				return true
			}
			return a.Name < c.Name
		})
	case Custom:
		if rule.Comparator != nil {
			sort.SliceStable(out, func(i, j int) bool {
				return rule.Comparator(out[i], out[j]) < 0
			})
		}
	}
	return out
}
