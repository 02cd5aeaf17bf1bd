package arrange

import (
	"regexp"
	"strings"
)

// Matcher is a predicate over entries.
type Matcher interface {
	Match(e *Entry) bool
}

// conditioned is implemented by matchers that report how many conditions
// they test. The count is the default rule priority.
type conditioned interface {
	conditions() int
}

// MatcherFunc adapts a function to Matcher.
type MatcherFunc func(e *Entry) bool

// Match implements Matcher.
func (f MatcherFunc) Match(e *Entry) bool { return f(e) }

func (f MatcherFunc) conditions() int { return 1 }

// TypeMatcher matches entries carrying a type tag.
type TypeMatcher struct {
	Type string
}

// Type returns a matcher for entries tagged with t.
func Type(t string) TypeMatcher { return TypeMatcher{Type: t} }

// Match implements Matcher.
func (m TypeMatcher) Match(e *Entry) bool { return e.HasType(m.Type) }

func (m TypeMatcher) conditions() int { return 1 }

func (m TypeMatcher) String() string { return "type=" + m.Type }

// ModifierMatcher matches entries carrying a modifier.
type ModifierMatcher struct {
	Modifier string
}

// Modifier returns a matcher for entries with modifier m.
func Modifier(m string) ModifierMatcher { return ModifierMatcher{Modifier: m} }

// Match implements Matcher.
func (m ModifierMatcher) Match(e *Entry) bool { return e.HasModifier(m.Modifier) }

func (m ModifierMatcher) conditions() int { return 1 }

func (m ModifierMatcher) String() string { return "modifier=" + m.Modifier }

// NameMatcher matches entry names against a regular expression. The
// expression must match the whole name.
type NameMatcher struct {
	re *regexp.Regexp
}

// Name compiles pattern into a NameMatcher.
func Name(pattern string) (NameMatcher, error) {
	re, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		return NameMatcher{}, err
	}
	return NameMatcher{re: re}, nil
}

// MustName is like Name but panics on an invalid pattern.
func MustName(pattern string) NameMatcher {
	m, err := Name(pattern)
	if err != nil {
		panic(err)
	}
	return m
}

// Match implements Matcher. Unnamed entries never match.
func (m NameMatcher) Match(e *Entry) bool {
	return e.Name != "" && m.re != nil && m.re.MatchString(e.Name)
}

func (m NameMatcher) conditions() int { return 1 }

func (m NameMatcher) String() string {
	if m.re == nil {
		return "name=<nil>"
	}
	return "name=" + m.re.String()
}

// LanguageMatcher matches entries of one language.
type LanguageMatcher struct {
	Language string
}

// Language returns a matcher for entries of language lang.
func Language(lang string) LanguageMatcher { return LanguageMatcher{Language: lang} }

// Match implements Matcher.
func (m LanguageMatcher) Match(e *Entry) bool { return e.Language == m.Language }

func (m LanguageMatcher) conditions() int { return 1 }

// AllMatcher matches when every operand matches.
type AllMatcher []Matcher

// All combines matchers with logical and. All() matches everything.
func All(ms ...Matcher) AllMatcher { return AllMatcher(ms) }

// Match implements Matcher.
func (m AllMatcher) Match(e *Entry) bool {
	for _, sub := range m {
		if !sub.Match(e) {
			return false
		}
	}
	return true
}

func (m AllMatcher) conditions() int {
	n := 0
	for _, sub := range m {
		n += conditionsOf(sub)
	}
	return n
}

func (m AllMatcher) String() string { return joinMatchers("all", m) }

// AnyMatcher matches when at least one operand matches.
type AnyMatcher []Matcher

// Any combines matchers with logical or.
func Any(ms ...Matcher) AnyMatcher { return AnyMatcher(ms) }

// Match implements Matcher.
func (m AnyMatcher) Match(e *Entry) bool {
	for _, sub := range m {
		if sub.Match(e) {
			return true
		}
	}
	return false
}

func (m AnyMatcher) conditions() int {
	n := 0
	for _, sub := range m {
		if c := conditionsOf(sub); c > n {
			n = c
		}
	}
	return n
}

func (m AnyMatcher) String() string { return joinMatchers("any", m) }

// NotMatcher negates a matcher.
type NotMatcher struct {
	M Matcher
}

// Not negates m.
func Not(m Matcher) NotMatcher { return NotMatcher{M: m} }

// Match implements Matcher.
func (m NotMatcher) Match(e *Entry) bool { return !m.M.Match(e) }

func (m NotMatcher) conditions() int { return conditionsOf(m.M) }

func conditionsOf(m Matcher) int {
	if m == nil {
		return 0
	}
	if c, ok := m.(conditioned); ok {
		return c.conditions()
	}
	return 1
}

func joinMatchers(op string, ms []Matcher) string {
	parts := make([]string, len(ms))
	for i, m := range ms {
		if s, ok := m.(interface{ String() string }); ok {
			parts[i] = s.String()
		} else {
			parts[i] = "?"
		}
	}
	return op + "(" + strings.Join(parts, ", ") + ")"
}
