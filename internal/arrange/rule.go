package arrange

import (
	"fmt"
	"sort"
)

// Order selects how the entries claimed by one rule are ordered.
type Order int

const (
	// AsMatched keeps the original relative order.
	AsMatched Order = iota
	// ByName sorts by name; unnamed entries go last.
	ByName
	// Custom sorts with the rule's Comparator.
	Custom
)

// String returns the configuration name of the order.
func (o Order) String() string {
	switch o {
	case AsMatched:
		return "as_matched"
	case ByName:
		return "by_name"
	case Custom:
		return "custom"
	default:
		return fmt.Sprintf("Order(%d)", int(o))
	}
}

// Comparator orders two entries: negative if a sorts before b, positive if
// after, zero if equal.
type Comparator func(a, b *Entry) int

// MatchRule claims the entries its Matcher accepts and orders them.
type MatchRule struct {
	Matcher    Matcher
	Order      Order
	Comparator Comparator

	// Priority decides which rule claims an entry first; higher wins.
	// Zero means the number of conditions the matcher tests, so more
	// specific rules go first. Equal priorities keep declaration order.
	Priority int
}

// RuleOption configures a MatchRule.
type RuleOption func(*MatchRule)

// WithOrder sets the rule's order.
func WithOrder(o Order) RuleOption {
	return func(r *MatchRule) { r.Order = o }
}

// WithComparator sorts the rule's entries with cmp.
func WithComparator(cmp Comparator) RuleOption {
	return func(r *MatchRule) {
		r.Order = Custom
		r.Comparator = cmp
	}
}

// WithPriority sets an explicit priority.
func WithPriority(p int) RuleOption {
	return func(r *MatchRule) { r.Priority = p }
}

// NewRule creates a rule for m.
func NewRule(m Matcher, opts ...RuleOption) *MatchRule {
	r := &MatchRule{Matcher: m}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *MatchRule) match(e *Entry) bool {
	return r.Matcher == nil || r.Matcher.Match(e)
}

func (r *MatchRule) priority() int {
	if r.Priority != 0 {
		return r.Priority
	}
	return conditionsOf(r.Matcher)
}

// SectionRule groups rules whose entries are placed together, optionally
// bracketed by delimiter comments.
type SectionRule struct {
	Name         string
	Rules        []*MatchRule
	StartComment string
	EndComment   string
}

// Section creates a section without delimiter comments.
func Section(name string, rules ...*MatchRule) *SectionRule {
	return &SectionRule{Name: name, Rules: rules}
}

// WithComments sets the delimiter comments of s and returns s.
func (s *SectionRule) WithComments(start, end string) *SectionRule {
	s.StartComment = start
	s.EndComment = end
	return s
}

// Settings is a resolved rule configuration.
type Settings struct {
	// Sections in output order.
	Sections []*SectionRule

	// RulesByPriority is the order in which rules claim entries.
	RulesByPriority []*MatchRule
}

// NewSettings builds settings from sections and derives RulesByPriority.
func NewSettings(sections ...*SectionRule) *Settings {
	s := &Settings{Sections: sections}
	for _, sec := range sections {
		s.RulesByPriority = append(s.RulesByPriority, sec.Rules...)
	}
	sort.SliceStable(s.RulesByPriority, func(i, j int) bool {
		return s.RulesByPriority[i].priority() > s.RulesByPriority[j].priority()
	})
	return s
}

// delimiters returns the set of all section comments.
func (s *Settings) delimiters() map[string]bool {
	set := make(map[string]bool)
	if s == nil {
		return set
	}
	for _, sec := range s.Sections {
		if sec.StartComment != "" {
			set[sec.StartComment] = true
		}
		if sec.EndComment != "" {
			set[sec.EndComment] = true
		}
	}
	return set
}
