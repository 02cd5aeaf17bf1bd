package arrange

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/rearrange/internal/engine"
)

// parseBlocks reads a toy language: each line is "<type> <name> <mods...>",
// a line ending in "{" opens a block closed by a line holding "}", and
// lines starting with "//" are comments.
func parseBlocks(src string) []*Entry {
	var roots []*Entry
	var stack []*Entry
	add := func(e *Entry) {
		if len(stack) == 0 {
			roots = append(roots, e)
			return
		}
		stack[len(stack)-1].AddChild(e)
	}

	off := 0
	for _, line := range strings.SplitAfter(src, "\n") {
		body := strings.TrimRight(line, "\n")
		trimmed := strings.TrimSpace(body)
		start := off + strings.Index(body, trimmed)
		off += len(line)

		switch {
		case trimmed == "" || strings.HasPrefix(trimmed, "//"):
			continue
		case trimmed == "}":
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			top.End = start + 1
			continue
		}

		f := strings.Fields(strings.TrimSuffix(trimmed, "{"))
		e := &Entry{Start: start, End: start + len(trimmed), Types: f[:1]}
		if len(f) > 1 {
			e.Name = f[1]
		}
		if len(f) > 2 {
			e.Modifiers = f[2:]
		}
		add(e)
		if strings.HasSuffix(trimmed, "{") {
			stack = append(stack, e)
		}
	}
	return roots
}

// countingDoc counts writes to an engine.
type countingDoc struct {
	*engine.Engine
	writes int
}

func newCountingDoc(src string) *countingDoc {
	return &countingDoc{Engine: engine.New(engine.WithContent(src))}
}

func (d *countingDoc) Replace(start, end int, text string) error {
	d.writes++
	return d.Engine.Replace(start, end, text)
}

func (d *countingDoc) Insert(offset int, text string) error {
	d.writes++
	return d.Engine.Insert(offset, text)
}

func (d *countingDoc) MoveText(srcStart, srcEnd, dest int) error {
	d.writes++
	return d.Engine.MoveText(srcStart, srcEnd, dest)
}

var strategies = []Strategy{StrategySnapshot, StrategyMarker}

func arrangeText(t *testing.T, src string, s *Settings, strategy Strategy, opts ...Option) (string, *Result, *countingDoc) {
	t.Helper()
	doc := newCountingDoc(src)
	eng := New(append([]Option{WithStrategy(strategy)}, opts...)...)
	res, err := eng.Arrange(doc, parseBlocks(src), s)
	if err != nil {
		t.Fatalf("Arrange: %v", err)
	}
	if res.Strategy != strategy {
		t.Errorf("strategy = %v, want %v", res.Strategy, strategy)
	}
	return doc.Content(), res, doc
}

func typeSections() *Settings {
	fields := Section("fields", NewRule(Type("field"), WithOrder(ByName)))
	methods := Section("methods", NewRule(Type("method"), WithOrder(ByName)))
	classes := Section("classes", NewRule(Type("class"), WithOrder(ByName)))
	return NewSettings(fields, methods, classes)
}

// groupSpacing wants one blank line between entries of different types.
func groupSpacing(parent, prev, current *Entry) int {
	if prev == nil {
		return -1
	}
	if prev.Types[0] != current.Types[0] {
		return 1
	}
	return 0
}

func TestArrange(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		s     *Settings
		opts  []Option
		want  string
		edits bool
	}{
		{
			name: "flat",
			src:  "method b\nfield a\nfield c\n",
			s:    typeSections(),
			want: "field a\nfield c\nmethod b\n",
		},
		{
			name: "blank lines",
			src:  "method b\nfield c\n\n\nfield a\n",
			s:    typeSections(),
			opts: []Option{WithBlankLines(groupSpacing)},
			want: "field a\nfield c\n\nmethod b\n",
		},
		{
			name: "nested",
			src:  "class Foo {\n    method z\n    field y\n}\nclass Bar {\n    field x\n}\n",
			s:    typeSections(),
			want: "class Bar {\n    field x\n}\nclass Foo {\n    field y\n    method z\n}\n",
		},
		{
			name: "section comments",
			src:  "method b\nfield a\n",
			s: NewSettings(
				Section("fields", NewRule(Type("field"))).WithComments("// fields", "// end fields"),
				Section("methods", NewRule(Type("method"))).WithComments("// methods", ""),
			),
			want: "// fields\nfield a\n// end fields\n// methods\nmethod b\n",
		},
		{
			name: "indented section comments",
			src:  "class Foo {\n    method z\n    field y\n}\n",
			s: NewSettings(
				Section("fields", NewRule(Type("field"))).WithComments("// fields", ""),
				Section("methods", NewRule(Type("method"))).WithComments("", "// end methods"),
			),
			want: "class Foo {\n    // fields\n    field y\n    method z\n    // end methods\n}\n",
		},
		{
			name: "stale delimiter removed",
			src:  "// methods\nmethod b\nfield a\n",
			s: NewSettings(
				Section("fields", NewRule(Type("field"))),
				Section("methods", NewRule(Type("method"))).WithComments("// methods", ""),
			),
			want: "field a\n// methods\nmethod b\n",
		},
	}

	for _, tt := range tests {
		for _, strategy := range strategies {
			t.Run(tt.name+"/"+strategy.String(), func(t *testing.T) {
				got, res, _ := arrangeText(t, tt.src, tt.s, strategy, tt.opts...)
				if diff := cmp.Diff(tt.want, got); diff != "" {
					t.Fatalf("text mismatch (-want +got):\n%s", diff)
				}
				if !res.Changed() {
					t.Error("expected the pass to report changes")
				}

				again, res, doc := arrangeText(t, got, tt.s, strategy, tt.opts...)
				if again != got {
					t.Errorf("second pass changed text:\n%s", cmp.Diff(got, again))
				}
				if doc.writes != 0 || res.Changed() {
					t.Errorf("second pass wrote %d times", doc.writes)
				}
			})
		}
	}
}

func TestArrangeAlreadyArrangedMembers(t *testing.T) {
	src := "field fieldB public static\n\nmethod methodA public\n\nfield fieldA private\n"
	publicStatic := NewRule(All(Modifier("public"), Modifier("static")))
	publicMethods := NewRule(All(Modifier("public"), Type("method")))
	privateFields := NewRule(All(Modifier("private"), Type("field")))
	s := NewSettings(Section("", publicStatic, publicMethods, privateFields))

	for _, strategy := range strategies {
		got, res, doc := arrangeText(t, src, s, strategy, WithBlankLines(groupSpacing))
		if got != src {
			t.Errorf("%v: text changed:\n%s", strategy, cmp.Diff(src, got))
		}
		if doc.writes != 0 || res.Edits != 0 || res.Moves != 0 {
			t.Errorf("%v: expected no writes, got %d", strategy, doc.writes)
		}
	}
}

func TestArrangeStrategiesAgree(t *testing.T) {
	src := strings.Join([]string{
		"class Zed {",
		"    method q",
		"",
		"    field b",
		"    class Inner {",
		"        method m2",
		"        field f2",
		"        method m1",
		"    }",
		"    field a",
		"}",
		"method top",
		"",
		"",
		"field first",
		"class Alpha {",
		"}",
		"",
	}, "\n")
	s := NewSettings(
		Section("fields", NewRule(Type("field"), WithOrder(ByName))).WithComments("// fields", "// end"),
		Section("classes", NewRule(Type("class"), WithOrder(ByName))),
		Section("methods", NewRule(Type("method"))).WithComments("// methods", ""),
	)

	snapshot, _, _ := arrangeText(t, src, s, StrategySnapshot, WithBlankLines(groupSpacing))
	marker, res, doc := arrangeText(t, src, s, StrategyMarker, WithBlankLines(groupSpacing))
	if diff := cmp.Diff(snapshot, marker); diff != "" {
		t.Fatalf("strategies disagree (-snapshot +marker):\n%s", diff)
	}
	if res.Frames != 3 {
		t.Errorf("frames = %d, want 3", res.Frames)
	}
	if doc.MarkerCount() != 0 {
		t.Errorf("%d markers left behind", doc.MarkerCount())
	}
}

func TestArrangeAutoStrategy(t *testing.T) {
	src := "method b\nfield a\n"

	doc := engine.New(engine.WithContent(src))
	res, err := New().Arrange(doc, parseBlocks(src), typeSections())
	if err != nil {
		t.Fatalf("Arrange: %v", err)
	}
	if res.Strategy != StrategyMarker {
		t.Errorf("strategy = %v, want marker", res.Strategy)
	}

	doc = engine.New(engine.WithContent(src))
	res, err = New().Arrange(doc.WithoutMove(), parseBlocks(src), typeSections())
	if err != nil {
		t.Fatalf("Arrange: %v", err)
	}
	if res.Strategy != StrategySnapshot {
		t.Errorf("strategy = %v, want snapshot", res.Strategy)
	}
	if doc.Content() != "field a\nmethod b\n" {
		t.Errorf("unexpected text %q", doc.Content())
	}

	_, err = New(WithStrategy(StrategyMarker)).Arrange(doc.WithoutMove(), parseBlocks(src), typeSections())
	if !errors.Is(err, ErrMoveUnsupported) {
		t.Errorf("expected ErrMoveUnsupported, got %v", err)
	}
}

func TestArrangeMarkersFollowText(t *testing.T) {
	src := "method b\nfield a\n"
	doc := engine.New(engine.WithContent(src))
	id := doc.AddMarker(9, 16)

	if _, err := New(WithStrategy(StrategyMarker)).Arrange(doc, parseBlocks(src), typeSections()); err != nil {
		t.Fatalf("Arrange: %v", err)
	}
	start, end, ok := doc.MarkerRange(id)
	if !ok {
		t.Fatal("host marker lost")
	}
	if got := doc.Text(start, end); got != "field a" {
		t.Errorf("marker covers %q, want %q", got, "field a")
	}
}

func TestArrangeReadOnly(t *testing.T) {
	src := "method b\nfield a\n"
	doc := engine.New(engine.WithContent(src), engine.WithReadOnly())

	res, err := New().Arrange(doc, parseBlocks(src), typeSections())
	if !errors.Is(err, ErrNonWritableDocument) {
		t.Fatalf("expected ErrNonWritableDocument, got %v", err)
	}
	if res.Changed() || doc.Content() != src {
		t.Error("read-only document was modified")
	}
}

// racingDoc changes the document the first time it is read.
type racingDoc struct {
	*engine.Engine
	raced bool
}

func (d *racingDoc) Text(start, end int) string {
	s := d.Engine.Text(start, end)
	if !d.raced {
		d.raced = true
		_ = d.Engine.Insert(d.Engine.Len(), "\n")
	}
	return s
}

func TestArrangeConcurrentModification(t *testing.T) {
	src := "method b\nfield a\n"
	for _, strategy := range strategies {
		doc := &racingDoc{Engine: engine.New(engine.WithContent(src))}
		_, err := New(WithStrategy(strategy)).Arrange(doc, parseBlocks(src), typeSections())
		if !errors.Is(err, ErrConcurrentModification) {
			t.Fatalf("%v: expected ErrConcurrentModification, got %v", strategy, err)
		}
		var fe *FrameError
		if !errors.As(err, &fe) || fe.Parent != nil {
			t.Errorf("%v: expected a top-level FrameError, got %v", strategy, err)
		}
		if got := doc.Content(); got != src+"\n" {
			t.Errorf("%v: frame was written: %q", strategy, got)
		}
	}
}

// interferingDoc inserts a line at the top of the document once, either
// just before the Nth Text read or right after the first Revision read
// that follows a write of the pass.
type interferingDoc struct {
	*engine.Engine
	textAt     int
	afterWrite bool

	texts       int
	wrote, done bool
}

func (d *interferingDoc) interfere() {
	d.done = true
	_ = d.Engine.Insert(0, "// external\n")
}

func (d *interferingDoc) Text(start, end int) string {
	d.texts++
	if d.texts == d.textAt && !d.done {
		d.interfere()
	}
	return d.Engine.Text(start, end)
}

func (d *interferingDoc) Revision() uint64 {
	rev := d.Engine.Revision()
	if d.afterWrite && d.wrote && !d.done {
		d.interfere()
	}
	return rev
}

func (d *interferingDoc) Replace(start, end int, text string) error {
	d.wrote = true
	return d.Engine.Replace(start, end, text)
}

func (d *interferingDoc) MoveText(srcStart, srcEnd, dest int) error {
	d.wrote = true
	return d.Engine.MoveText(srcStart, srcEnd, dest)
}

func TestArrangeModifiedBetweenFrames(t *testing.T) {
	src := "class Foo {\n    method z\n    field y\n}\nmethod b\nfield a\n"
	inner := "class Foo {\n    field y\n    method z\n}\nmethod b\nfield a\n"

	tests := []struct {
		name       string
		textAt     int
		afterWrite bool
		inFoo      bool
		want       string
	}{
		{name: "before first frame is read", textAt: 1, inFoo: true, want: "// external\n" + src},
		{name: "before outer frame is read", textAt: 2, want: "// external\n" + inner},
		{name: "after inner frame is written", afterWrite: true, want: "// external\n" + inner},
	}

	for _, tt := range tests {
		for _, strategy := range strategies {
			t.Run(tt.name+"/"+strategy.String(), func(t *testing.T) {
				doc := &interferingDoc{
					Engine:     engine.New(engine.WithContent(src)),
					textAt:     tt.textAt,
					afterWrite: tt.afterWrite,
				}
				roots := parseBlocks(src)
				_, err := New(WithStrategy(strategy)).Arrange(doc, roots, typeSections())
				if !errors.Is(err, ErrConcurrentModification) {
					t.Fatalf("expected ErrConcurrentModification, got %v", err)
				}
				var fe *FrameError
				if !errors.As(err, &fe) {
					t.Fatalf("expected a FrameError, got %v", err)
				}
				if tt.inFoo && fe.Parent != roots[0] {
					t.Errorf("stopped in %v, want class Foo", fe.Parent)
				}
				if !tt.inFoo && fe.Parent != nil {
					t.Errorf("stopped in %v, want the top-level list", fe.Parent)
				}
				if diff := cmp.Diff(tt.want, doc.Content()); diff != "" {
					t.Errorf("content mismatch (-want +got):\n%s", diff)
				}
			})
		}
	}
}

func TestArrangeInvalidTreePanics(t *testing.T) {
	a := &Entry{Name: "a", Start: 0, End: 5}
	b := &Entry{Name: "b", Start: 3, End: 8}

	defer func() {
		r := recover()
		ie, ok := r.(*InvariantError)
		if !ok {
			t.Fatalf("expected *InvariantError panic, got %v", r)
		}
		if ie.Entry != b {
			t.Errorf("invariant reported for %v, want b", ie.Entry)
		}
	}()
	doc := engine.New(engine.WithContent("0123456789"))
	_, _ = New().Arrange(doc, []*Entry{a, b}, nil)
}

func TestArrangeLanguageSettings(t *testing.T) {
	src := "method b\nfield a\nclass Foo {\n    method z\n    field y\n}\n"
	roots := parseBlocks(src)
	foo := roots[2]
	foo.Language = "toy"

	// Reverse names inside toy blocks only.
	desc := NewSettings(Section("", NewRule(nil, WithComparator(func(a, b *Entry) int {
		return strings.Compare(b.Name, a.Name)
	}))))

	doc := engine.New(engine.WithContent(src))
	eng := New(WithLanguageSettings("toy", desc))
	if _, err := eng.Arrange(doc, roots, typeSections()); err != nil {
		t.Fatalf("Arrange: %v", err)
	}
	want := "field a\nmethod b\nclass Foo {\n    method z\n    field y\n}\n"
	if diff := cmp.Diff(want, doc.Content()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestArrangeUndoRestores(t *testing.T) {
	src := "class Foo {\n    method z\n    field y\n}\nfield a\n"
	doc := engine.New(engine.WithContent(src))

	doc.BeginUndoGroup("arrange")
	_, err := New().Arrange(doc, parseBlocks(src), typeSections())
	doc.EndUndoGroup()
	if err != nil {
		t.Fatalf("Arrange: %v", err)
	}
	if doc.Content() == src {
		t.Fatal("expected changes")
	}
	if err := doc.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if doc.Content() != src {
		t.Errorf("undo left %q", doc.Content())
	}
}

func TestParseStrategy(t *testing.T) {
	for _, s := range []Strategy{StrategyAuto, StrategySnapshot, StrategyMarker} {
		got, err := ParseStrategy(s.String())
		if err != nil || got != s {
			t.Errorf("ParseStrategy(%q) = %v, %v", s.String(), got, err)
		}
	}
	if _, err := ParseStrategy("rope"); err == nil {
		t.Error("expected an error for an unknown strategy")
	}
}
