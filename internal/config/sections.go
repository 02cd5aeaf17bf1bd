package config

import (
	"sort"

	"github.com/dshills/rearrange/internal/config/layer"
)

// Section accessor methods return snapshot structs. Mutating the returned
// struct does not modify the underlying configuration. Use Config.Set()
// to update configuration values.

// LoggingConfig provides type-safe access to logging settings.
type LoggingConfig struct {
	// Level is the minimum level logged ("debug", "info", "warn", "error").
	Level string

	// JSON selects JSON output instead of console text.
	JSON bool
}

// EngineConfig provides type-safe access to arrangement engine settings.
type EngineConfig struct {
	// Strategy is "auto", "snapshot" or "marker".
	Strategy string

	// MaxUndo bounds the undo history of a document.
	MaxUndo int

	// ScriptDir is the directory relative script paths are resolved in.
	ScriptDir string

	// Scripts lists Lua files defining comparators and matchers.
	Scripts []string
}

// LanguageConfig holds the arrangement rules of one language.
type LanguageConfig struct {
	Name string

	// Extensions overrides the file extensions of the language.
	Extensions []string

	Sections []SectionConfig

	// BlankLines is nil when the language's own policy applies.
	BlankLines *BlankLinesConfig

	// Options holds language-specific parser options.
	Options map[string]any
}

// SectionConfig describes one section of rules.
type SectionConfig struct {
	Name  string
	Start string
	End   string
	Rules []RuleConfig
}

// RuleConfig describes one match rule. All given conditions must hold.
type RuleConfig struct {
	Types     []string
	Modifiers []string
	// Name is a regular expression matched against the whole entry name.
	Name     string
	Language string

	// Order is "as_matched", "by_name" or "script".
	Order string

	// Comparator and Matcher name script functions.
	Comparator string
	Matcher    string

	Priority int
}

// BlankLinesConfig sets blank lines before entries. Negative values leave
// the spacing as it is.
type BlankLinesConfig struct {
	// First applies before the first entry of a sibling list.
	First int
	// Between applies between entries of different types.
	Between int
	// Within applies between entries of the same type.
	Within int
}

// Logging returns the logging configuration.
func (c *Config) Logging() LoggingConfig {
	m := c.section("logging")
	return LoggingConfig{
		Level: getString(m, "level", "info"),
		JSON:  getBool(m, "json", false),
	}
}

// Engine returns the engine configuration.
func (c *Config) Engine() EngineConfig {
	m := c.section("engine")
	return EngineConfig{
		Strategy:  getString(m, "strategy", "auto"),
		MaxUndo:   getInt(m, "maxUndo", 1000),
		ScriptDir: getString(m, "scriptDir", ""),
		Scripts:   getStringSlice(m, "scripts"),
	}
}

// Languages returns the names of all configured languages, sorted.
func (c *Config) Languages() []string {
	m := c.section("languages")
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Language returns the configuration of a language.
func (c *Config) Language(name string) (LanguageConfig, bool) {
	m, ok := c.section("languages")[name].(map[string]any)
	if !ok {
		return LanguageConfig{}, false
	}

	lc := LanguageConfig{
		Name:       name,
		Extensions: getStringSlice(m, "extensions"),
		Options:    getMap(m, "options"),
	}
	if b, ok := m["blankLines"].(map[string]any); ok {
		lc.BlankLines = &BlankLinesConfig{
			First:   getInt(b, "first", -1),
			Between: getInt(b, "between", -1),
			Within:  getInt(b, "within", -1),
		}
	}

	sections, _ := m["sections"].([]any)
	for _, s := range sections {
		sm, ok := s.(map[string]any)
		if !ok {
			continue
		}
		sc := SectionConfig{
			Name:  getString(sm, "name", ""),
			Start: getString(sm, "start", ""),
			End:   getString(sm, "end", ""),
		}
		rules, _ := sm["rules"].([]any)
		for _, r := range rules {
			rm, ok := r.(map[string]any)
			if !ok {
				continue
			}
			sc.Rules = append(sc.Rules, RuleConfig{
				Types:      getStringSlice(rm, "types"),
				Modifiers:  getStringSlice(rm, "modifiers"),
				Name:       getString(rm, "name", ""),
				Language:   getString(rm, "language", ""),
				Order:      getString(rm, "order", ""),
				Comparator: getString(rm, "comparator", ""),
				Matcher:    getString(rm, "matcher", ""),
				Priority:   getInt(rm, "priority", 0),
			})
		}
		lc.Sections = append(lc.Sections, sc)
	}
	return lc, true
}

func (c *Config) section(name string) map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	m, _ := layer.GetByPath(c.layers.Merge(), name)
	sec, _ := m.(map[string]any)
	return sec
}

func getString(m map[string]any, key, def string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return def
}

func getBool(m map[string]any, key string, def bool) bool {
	if b, ok := m[key].(bool); ok {
		return b
	}
	return def
}

func getInt(m map[string]any, key string, def int) int {
	if n, ok := toInt(m[key]); ok {
		return n
	}
	return def
}

func getStringSlice(m map[string]any, key string) []string {
	s, _ := toStringSlice(m[key])
	return s
}

func getMap(m map[string]any, key string) map[string]any {
	sub, _ := m[key].(map[string]any)
	return sub
}

func rule(types ...string) map[string]any {
	return map[string]any{"types": toAny(types)}
}

func section(name string, rules ...map[string]any) map[string]any {
	list := make([]any, len(rules))
	for i, r := range rules {
		list[i] = r
	}
	return map[string]any{"name": name, "rules": list}
}

func toAny(s []string) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}

// defaultConfig returns the default configuration values.
func defaultConfig() map[string]any {
	staticFields := rule("field")
	staticFields["modifiers"] = []any{"static"}
	nestedClasses := rule("class")
	nestedClasses["order"] = "by_name"

	return map[string]any{
		"logging": map[string]any{
			"level": "info",
			"json":  false,
		},
		"engine": map[string]any{
			"strategy": "auto",
			"maxUndo":  1000,
		},
		"languages": map[string]any{
			"go": map[string]any{
				"blankLines": map[string]any{"between": 1},
				"options":    map[string]any{"methodsAfterType": true},
				"sections": []any{
					section("constants", rule("const")),
					section("variables", rule("var")),
					section("types", rule("type"), rule("method")),
					section("init", rule("init")),
					section("functions", rule("func")),
				},
			},
			"java": map[string]any{
				"blankLines": map[string]any{"between": 1},
				"sections": []any{
					section("static fields", staticFields),
					section("fields", rule("field")),
					section("initializers", rule("initializer")),
					section("constructors", rule("constructor")),
					section("methods", rule("method")),
					section("classes", nestedClasses, rule("interface"), rule("enum")),
				},
			},
		},
	}
}
