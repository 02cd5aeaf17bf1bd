package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/rearrange/internal/arrange"
	"github.com/dshills/rearrange/internal/config/schema"
)

type memFS map[string]string

func (m memFS) Open(string) (fs.File, error) { return nil, fs.ErrNotExist }

func (m memFS) ReadFile(path string) ([]byte, error) {
	s, ok := m[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return []byte(s), nil
}

func (m memFS) Stat(path string) (fs.FileInfo, error) {
	if _, ok := m[path]; !ok {
		return nil, fs.ErrNotExist
	}
	return fileInfo(path), nil
}

type fileInfo string

func (f fileInfo) Name() string       { return string(f) }
func (f fileInfo) Size() int64        { return 0 }
func (f fileInfo) Mode() fs.FileMode  { return 0o644 }
func (f fileInfo) ModTime() time.Time { return time.Time{} }
func (f fileInfo) IsDir() bool        { return false }
func (f fileInfo) Sys() any           { return nil }

func TestDefaults(t *testing.T) {
	cfg := New(WithFS(memFS{}), WithEnvPrefix(""))
	if err := cfg.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := cfg.Logging(); got != (LoggingConfig{Level: "info"}) {
		t.Errorf("Logging() = %+v", got)
	}
	eng := cfg.Engine()
	if eng.Strategy != "auto" || eng.MaxUndo != 1000 {
		t.Errorf("Engine() = %+v", eng)
	}
	if diff := cmp.Diff([]string{"go", "java"}, cfg.Languages()); diff != "" {
		t.Errorf("Languages() mismatch (-want +got):\n%s", diff)
	}
	if cfg.Path() != "" {
		t.Errorf("Path() = %q, want none", cfg.Path())
	}
}

func TestLayerPrecedence(t *testing.T) {
	fsys := memFS{
		"proj/.rearrange.toml": `
[engine]
strategy = "snapshot"
maxUndo = 20

[logging]
level = "debug"
`,
	}
	t.Setenv("REARRANGE_STRATEGY", "marker")

	cfg := New(WithFS(fsys), WithDir("proj"))
	if err := cfg.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Path() != "proj/.rearrange.toml" {
		t.Errorf("Path() = %q", cfg.Path())
	}

	eng := cfg.Engine()
	if eng.Strategy != "marker" {
		t.Errorf("strategy = %q, want environment value", eng.Strategy)
	}
	if eng.MaxUndo != 20 {
		t.Errorf("maxUndo = %d, want file value", eng.MaxUndo)
	}
	if lvl := cfg.Logging().Level; lvl != "debug" {
		t.Errorf("level = %q", lvl)
	}

	if err := cfg.Set("engine.strategy", "auto"); err != nil {
		t.Fatal(err)
	}
	if s, _ := cfg.GetString("engine.strategy"); s != "auto" {
		t.Errorf("strategy after Set = %q", s)
	}
}

func TestYAMLFile(t *testing.T) {
	fsys := memFS{
		"rules.yaml": `
languages:
  java:
    sections:
      - name: fields
        start: "// Fields"
        rules:
          - types: [field]
            order: by_name
`,
	}
	cfg := New(WithFS(fsys), WithPath("rules.yaml"), WithEnvPrefix(""))
	if err := cfg.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	lc, ok := cfg.Language("java")
	if !ok {
		t.Fatal("java not configured")
	}
	want := []SectionConfig{{
		Name:  "fields",
		Start: "// Fields",
		Rules: []RuleConfig{{Types: []string{"field"}, Order: "by_name"}},
	}}
	if diff := cmp.Diff(want, lc.Sections); diff != "" {
		t.Errorf("sections mismatch (-want +got):\n%s", diff)
	}
}

func TestMissingExplicitFile(t *testing.T) {
	cfg := New(WithFS(memFS{}), WithPath("nope.toml"), WithEnvPrefix(""))
	err := cfg.Load(context.Background())
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("Load = %v, want ErrFileNotFound", err)
	}
}

func TestInvalidFile(t *testing.T) {
	fsys := memFS{"rules.toml": "[engine]\nstrategy = \"fast\"\n\n[editor]\ntabs = true\n"}
	cfg := New(WithFS(fsys), WithPath("rules.toml"), WithEnvPrefix(""))
	err := cfg.Load(context.Background())
	var verrs *schema.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("Load = %v, want validation errors", err)
	}
	if verrs.Len() != 2 {
		t.Errorf("got %d errors, want 2: %v", verrs.Len(), err)
	}
}

func TestTypedGetters(t *testing.T) {
	cfg := New(WithFS(memFS{}), WithEnvPrefix(""))

	if _, err := cfg.GetString("engine.maxUndo"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("GetString(int) = %v, want type mismatch", err)
	}
	var te *TypeError
	if _, err := cfg.GetBool("engine.strategy"); !errors.As(err, &te) || te.Expected != "bool" {
		t.Errorf("GetBool(string) = %v", err)
	}
	if _, err := cfg.GetInt("engine.missing"); !IsNotFound(err) {
		t.Errorf("GetInt(missing) = %v", err)
	}
	if err := cfg.Set("", 1); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("Set(\"\") = %v", err)
	}
}

type fakeScripts struct{}

func (fakeScripts) Comparator(name string) (arrange.Comparator, error) {
	if name != "byLength" {
		return nil, fmt.Errorf("no comparator %q", name)
	}
	return func(a, b *arrange.Entry) int { return len(a.Name) - len(b.Name) }, nil
}

func (fakeScripts) Matcher(name string) (arrange.Matcher, error) {
	return arrange.MatcherFunc(func(e *arrange.Entry) bool { return e.Name == name }), nil
}

func TestSettings(t *testing.T) {
	cfg := New(WithFS(memFS{}), WithEnvPrefix(""))

	s, err := cfg.Settings("java", nil)
	if err != nil {
		t.Fatalf("Settings: %v", err)
	}
	var names []string
	for _, sec := range s.Sections {
		names = append(names, sec.Name)
	}
	want := []string{"static fields", "fields", "initializers", "constructors", "methods", "classes"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("sections mismatch (-want +got):\n%s", diff)
	}
	if first := s.RulesByPriority[0]; first != s.Sections[0].Rules[0] {
		t.Errorf("static field rule should claim first, got %+v", first)
	}
	if s.Sections[5].Rules[0].Order != arrange.ByName {
		t.Errorf("classes order = %v", s.Sections[5].Rules[0].Order)
	}

	if s, err := cfg.Settings("cobol", nil); s != nil || err != nil {
		t.Errorf("Settings(unknown) = %v, %v", s, err)
	}
}

func TestSettingsScripts(t *testing.T) {
	lc := LanguageConfig{
		Name: "java",
		Sections: []SectionConfig{{
			Name: "main",
			Rules: []RuleConfig{
				{Matcher: "main", Priority: 5},
				{Types: []string{"method"}, Order: "script", Comparator: "byLength"},
			},
		}},
	}

	s, err := lc.Settings(fakeScripts{})
	if err != nil {
		t.Fatalf("Settings: %v", err)
	}
	rules := s.Sections[0].Rules
	if !rules[0].Matcher.Match(&arrange.Entry{Name: "main"}) || rules[0].Priority != 5 {
		t.Errorf("matcher rule = %+v", rules[0])
	}
	if rules[1].Order != arrange.Custom || rules[1].Comparator == nil {
		t.Errorf("comparator rule = %+v", rules[1])
	}

	_, err = lc.Settings(nil)
	var re *RuleError
	if !errors.As(err, &re) || re.Rule != 0 || !errors.Is(err, ErrNoScripts) {
		t.Errorf("Settings(nil) = %v", err)
	}
}

func TestSettingsInvalidRules(t *testing.T) {
	tests := []struct {
		name string
		rule RuleConfig
	}{
		{"bad pattern", RuleConfig{Name: "("}},
		{"unknown order", RuleConfig{Order: "random"}},
		{"script without comparator", RuleConfig{Order: "script"}},
		{"comparator without order", RuleConfig{Comparator: "byLength"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lc := LanguageConfig{Name: "x", Sections: []SectionConfig{{Rules: []RuleConfig{tt.rule}}}}
			if _, err := lc.Settings(fakeScripts{}); !errors.Is(err, ErrInvalidRule) {
				t.Errorf("Settings = %v, want ErrInvalidRule", err)
			}
		})
	}
}

func TestBlankLinesFunc(t *testing.T) {
	fallback := func(parent, prev, cur *arrange.Entry) int { return 7 }
	lc := LanguageConfig{BlankLines: &BlankLinesConfig{First: -1, Between: 2, Within: 0}}
	f := lc.BlankLinesFunc(fallback)

	field := &arrange.Entry{Types: []string{"field"}}
	field2 := &arrange.Entry{Types: []string{"field"}}
	method := &arrange.Entry{Types: []string{"method"}}

	if got := f(nil, nil, field); got != 7 {
		t.Errorf("first = %d, want fallback", got)
	}
	if got := f(nil, field, field2); got != 0 {
		t.Errorf("within = %d", got)
	}
	if got := f(nil, field, method); got != 2 {
		t.Errorf("between = %d", got)
	}

	if got := (LanguageConfig{}).BlankLinesFunc(fallback)(nil, field, method); got != 7 {
		t.Errorf("unset = %d, want fallback", got)
	}
}
