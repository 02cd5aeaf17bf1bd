package golang

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/rearrange/internal/arrange"
	"github.com/dshills/rearrange/internal/engine"
)

const demo = `package demo

import "fmt"

func helper() {}

// Server serves.
type Server struct{}

func (s *Server) Start() { fmt.Println("start") } // starts

var count = 1

const Max = 3
`

type entryInfo struct {
	Name      string
	Types     []string
	Modifiers []string
	Text      string
}

func describe(src string, entries []*arrange.Entry) []entryInfo {
	out := make([]entryInfo, len(entries))
	for i, e := range entries {
		out[i] = entryInfo{Name: e.Name, Types: e.Types, Modifiers: e.Modifiers, Text: src[e.Start:e.End]}
	}
	return out
}

func TestParse(t *testing.T) {
	entries, err := New().Parse([]byte(demo))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	want := []entryInfo{
		{Name: "helper", Types: []string{"func"}, Text: "func helper() {}"},
		{Name: "Server", Types: []string{"type", "struct"}, Modifiers: []string{"exported"}, Text: "// Server serves.\ntype Server struct{}"},
		{Name: "Server.Start", Types: []string{"method"}, Modifiers: []string{"exported"}, Text: `func (s *Server) Start() { fmt.Println("start") } // starts`},
		{Name: "count", Types: []string{"var"}, Text: "var count = 1"},
		{Name: "Max", Types: []string{"const"}, Modifiers: []string{"exported"}, Text: "const Max = 3"},
	}
	if diff := cmp.Diff(want, describe(demo, entries)); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}

	start := entries[2]
	if len(start.Dependencies) != 1 || start.Dependencies[0] != entries[1] {
		t.Errorf("method dependencies = %v, want the Server type", start.Dependencies)
	}
}

func TestParseWithoutMethodDependencies(t *testing.T) {
	entries, err := New(WithMethodsAfterType(false)).Parse([]byte(demo))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if e.Dependencies != nil {
			t.Errorf("%s has dependencies", e.Name)
		}
	}
}

func TestParseGroupsAndGenerics(t *testing.T) {
	src := `package p

const (
	a = iota
	B
)

type List[T any] []T

func (l List[T]) Len() int { return len(l) }

func init() {}
`
	entries, err := New().Parse([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	got := describe(src, entries)
	if got[0].Name != "a" || got[0].Modifiers == nil {
		t.Errorf("grouped const = %+v, want name a and exported", got[0])
	}
	if got[2].Name != "List.Len" || entries[2].Dependencies[0] != entries[1] {
		t.Errorf("generic receiver = %+v", got[2])
	}
	if diff := cmp.Diff([]string{"func", "init"}, got[3].Types); diff != "" {
		t.Errorf("init types mismatch (-want +got):\n%s", diff)
	}
}

func TestParseError(t *testing.T) {
	if _, err := New().Parse([]byte("package p\nfunc {")); err == nil {
		t.Error("expected parse error")
	}
}

func TestLineCommentEnd(t *testing.T) {
	tests := []struct {
		src  string
		end  int
		want int
	}{
		{"x // c\ny", 1, 6},
		{"x /* c */ y\n", 1, 9},
		{"x\n// next", 1, 1},
		{"x y", 1, 1},
		{"x // c  \r\n", 1, 6},
	}
	for _, tt := range tests {
		if got := lineCommentEnd([]byte(tt.src), tt.end); got != tt.want {
			t.Errorf("lineCommentEnd(%q) = %d, want %d", tt.src, got, tt.want)
		}
	}
}

func TestArrangeFile(t *testing.T) {
	r := New()
	s := arrange.NewSettings(
		arrange.Section("constants", arrange.NewRule(arrange.Type(TypeConst))),
		arrange.Section("variables", arrange.NewRule(arrange.Type(TypeVar))),
		arrange.Section("types", arrange.NewRule(arrange.Type(TypeType)), arrange.NewRule(arrange.Type(TypeMethod))),
		arrange.Section("functions", arrange.NewRule(arrange.Type(TypeFunc))),
	)
	want := `package demo

import "fmt"

const Max = 3

var count = 1

// Server serves.
type Server struct{}

func (s *Server) Start() { fmt.Println("start") } // starts

func helper() {}
`

	src := demo
	for pass := 0; pass < 2; pass++ {
		entries, err := r.Parse([]byte(src))
		if err != nil {
			t.Fatal(err)
		}
		doc := engine.New(engine.WithContent(src))
		res, err := arrange.New(arrange.WithBlankLines(r.BlankLines)).Arrange(doc, entries, s)
		if err != nil {
			t.Fatalf("Arrange: %v", err)
		}
		if diff := cmp.Diff(want, doc.Content()); diff != "" {
			t.Fatalf("pass %d mismatch (-want +got):\n%s", pass, diff)
		}
		if pass == 1 && res.Changed() {
			t.Error("second pass changed the file")
		}
		src = doc.Content()
	}
}
