package config

import (
	"fmt"

	"github.com/dshills/rearrange/internal/arrange"
)

// ScriptFuncs resolves script functions named in rule configuration.
type ScriptFuncs interface {
	Comparator(name string) (arrange.Comparator, error)
	Matcher(name string) (arrange.Matcher, error)
}

// Settings builds the arrangement settings of a language. It returns nil
// settings when the language has no sections. scripts may be nil if no
// rule names a script function.
func (c *Config) Settings(lang string, scripts ScriptFuncs) (*arrange.Settings, error) {
	lc, ok := c.Language(lang)
	if !ok || len(lc.Sections) == 0 {
		return nil, nil
	}
	return lc.Settings(scripts)
}

// Settings builds the arrangement settings of the language.
func (lc LanguageConfig) Settings(scripts ScriptFuncs) (*arrange.Settings, error) {
	sections := make([]*arrange.SectionRule, 0, len(lc.Sections))
	for si, sc := range lc.Sections {
		sec := arrange.Section(sc.Name).WithComments(sc.Start, sc.End)
		for ri, rc := range sc.Rules {
			r, err := rc.rule(scripts)
			if err != nil {
				return nil, &RuleError{Language: lc.Name, Section: si, Rule: ri, Err: err}
			}
			sec.Rules = append(sec.Rules, r)
		}
		sections = append(sections, sec)
	}
	return arrange.NewSettings(sections...), nil
}

func (rc RuleConfig) rule(scripts ScriptFuncs) (*arrange.MatchRule, error) {
	var conds []arrange.Matcher
	for _, t := range rc.Types {
		conds = append(conds, arrange.Type(t))
	}
	for _, m := range rc.Modifiers {
		conds = append(conds, arrange.Modifier(m))
	}
	if rc.Name != "" {
		m, err := arrange.Name(rc.Name)
		if err != nil {
			return nil, fmt.Errorf("%w: name %q: %v", ErrInvalidRule, rc.Name, err)
		}
		conds = append(conds, m)
	}
	if rc.Language != "" {
		conds = append(conds, arrange.Language(rc.Language))
	}
	if rc.Matcher != "" {
		if scripts == nil {
			return nil, fmt.Errorf("matcher %q: %w", rc.Matcher, ErrNoScripts)
		}
		m, err := scripts.Matcher(rc.Matcher)
		if err != nil {
			return nil, err
		}
		conds = append(conds, m)
	}

	var matcher arrange.Matcher
	switch len(conds) {
	case 0:
	case 1:
		matcher = conds[0]
	default:
		matcher = arrange.All(conds...)
	}

	var opts []arrange.RuleOption
	switch rc.Order {
	case "", "as_matched":
		if rc.Comparator != "" {
			return nil, fmt.Errorf("%w: comparator %q needs order \"script\"", ErrInvalidRule, rc.Comparator)
		}
	case "by_name":
		opts = append(opts, arrange.WithOrder(arrange.ByName))
	case "script", "custom":
		if rc.Comparator == "" {
			return nil, fmt.Errorf("%w: order %q needs a comparator", ErrInvalidRule, rc.Order)
		}
		if scripts == nil {
			return nil, fmt.Errorf("comparator %q: %w", rc.Comparator, ErrNoScripts)
		}
		cmp, err := scripts.Comparator(rc.Comparator)
		if err != nil {
			return nil, err
		}
		opts = append(opts, arrange.WithComparator(cmp))
	default:
		return nil, fmt.Errorf("%w: unknown order %q", ErrInvalidRule, rc.Order)
	}
	if rc.Priority != 0 {
		opts = append(opts, arrange.WithPriority(rc.Priority))
	}

	return arrange.NewRule(matcher, opts...), nil
}

// BlankLinesFunc returns the blank-line policy of the language, falling
// back to fallback where the configuration sets nothing.
func (lc LanguageConfig) BlankLinesFunc(fallback arrange.BlankLinesFunc) arrange.BlankLinesFunc {
	b := lc.BlankLines
	if b == nil {
		return fallback
	}
	pick := func(v int, parent, prev, cur *arrange.Entry) int {
		if v < 0 && fallback != nil {
			return fallback(parent, prev, cur)
		}
		return v
	}
	return func(parent, prev, cur *arrange.Entry) int {
		switch {
		case prev == nil:
			return pick(b.First, parent, prev, cur)
		case sameKind(prev, cur):
			return pick(b.Within, parent, prev, cur)
		default:
			return pick(b.Between, parent, prev, cur)
		}
	}
}

func sameKind(a, b *arrange.Entry) bool {
	if len(a.Types) == 0 || len(b.Types) == 0 {
		return len(a.Types) == len(b.Types)
	}
	return a.Types[0] == b.Types[0]
}
