package engine

import (
	"errors"
	"strings"
	"testing"
)

func TestEngineBasicEdits(t *testing.T) {
	e := New(WithContent("Hello, World!"))

	if err := e.Replace(7, 12, "Go"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Content() != "Hello, Go!" {
		t.Errorf("expected %q, got %q", "Hello, Go!", e.Content())
	}
	if err := e.Insert(0, ">> "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := e.Text(0, 3); got != ">> " {
		t.Errorf("expected %q, got %q", ">> ", got)
	}
	if err := e.Delete(0, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Len() != len("Hello, Go!") {
		t.Errorf("expected length %d, got %d", len("Hello, Go!"), e.Len())
	}
}

func TestEngineRevision(t *testing.T) {
	e := New(WithContent("abc"))
	rev := e.Revision()

	_ = e.Text(0, 1)
	if e.Revision() != rev {
		t.Error("reads must not change the revision")
	}
	_ = e.Insert(0, "x")
	if e.Revision() == rev {
		t.Error("writes must change the revision")
	}
}

func TestEngineReadOnly(t *testing.T) {
	e := New(WithContent("abc"), WithReadOnly())

	if !e.ReadOnly() {
		t.Fatal("expected read-only engine")
	}
	if err := e.Insert(0, "x"); !errors.Is(err, ErrReadOnly) {
		t.Errorf("expected ErrReadOnly, got %v", err)
	}
	if err := e.MoveText(0, 1, 3); !errors.Is(err, ErrReadOnly) {
		t.Errorf("expected ErrReadOnly, got %v", err)
	}
	if e.Content() != "abc" {
		t.Errorf("content changed: %q", e.Content())
	}

	e.SetReadOnly(false)
	if err := e.Insert(0, "x"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestEngineMoveText(t *testing.T) {
	tests := []struct {
		name       string
		src        [2]int
		dest       int
		want       string
		wantMarker [2]int
	}{
		{"forward", [2]int{0, 4}, 8, "bbb aaa ccc ", [2]int{4, 8}},
		{"backward", [2]int{8, 12}, 0, "ccc aaa bbb ", [2]int{0, 4}},
		{"to end", [2]int{0, 4}, 12, "bbb ccc aaa ", [2]int{8, 12}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(WithContent("aaa bbb ccc "))
			id := e.AddMarker(tt.src[0], tt.src[1])

			if err := e.MoveText(tt.src[0], tt.src[1], tt.dest); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if e.Content() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, e.Content())
			}
			start, end, ok := e.MarkerRange(id)
			if !ok || [2]int{start, end} != tt.wantMarker {
				t.Errorf("expected marker %v, got [%d %d] ok=%v", tt.wantMarker, start, end, ok)
			}
			if got := e.Text(start, end); got != e.Text(tt.wantMarker[0], tt.wantMarker[1]) {
				t.Errorf("marker text mismatch: %q", got)
			}
		})
	}
}

func TestEngineMoveTextErrors(t *testing.T) {
	e := New(WithContent("abcdef"))

	if err := e.MoveText(0, 4, 2); !errors.Is(err, ErrMoveOverlap) {
		t.Errorf("expected ErrMoveOverlap, got %v", err)
	}
	if err := e.MoveText(0, 10, 0); !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("expected ErrOffsetOutOfRange, got %v", err)
	}
	if err := e.MoveText(3, 1, 5); !errors.Is(err, ErrRangeInvalid) {
		t.Errorf("expected ErrRangeInvalid, got %v", err)
	}
}

func TestEngineMarkersFollowEdits(t *testing.T) {
	e := New(WithContent("one two three"))
	id := e.AddMarker(4, 7)

	_ = e.Insert(0, "zero ")
	start, end, _ := e.MarkerRange(id)
	if got := e.Text(start, end); got != "two" {
		t.Errorf("expected marker over %q, got %q", "two", got)
	}

	e.RemoveMarker(id)
	if e.MarkerCount() != 0 {
		t.Errorf("expected no markers, got %d", e.MarkerCount())
	}
}

func TestEngineUndoGroup(t *testing.T) {
	e := New(WithContent("aaa bbb "))

	e.BeginUndoGroup("rearrange")
	_ = e.MoveText(0, 4, 8)
	_ = e.Replace(0, 0, "// x\n")
	e.EndUndoGroup()

	if e.UndoCount() != 1 {
		t.Fatalf("expected one undo unit, got %d", e.UndoCount())
	}
	if err := e.Undo(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Content() != "aaa bbb " {
		t.Errorf("expected %q after undo, got %q", "aaa bbb ", e.Content())
	}
	if err := e.Redo(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Content() != "// x\nbbb aaa " {
		t.Errorf("expected %q after redo, got %q", "// x\nbbb aaa ", e.Content())
	}
}

func TestEngineTransactionRollback(t *testing.T) {
	e := New(WithContent("abc"))
	boom := errors.New("boom")

	err := e.Transaction("rearrange", func() error {
		_ = e.Insert(0, "x")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if e.Content() != "abc" {
		t.Errorf("expected rollback, got %q", e.Content())
	}
}

func TestEngineLineEndingsRoundTrip(t *testing.T) {
	e, err := NewFromReader(strings.NewReader("a\r\nb\r\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Content() != "a\nb\n" {
		t.Errorf("expected normalized content, got %q", e.Content())
	}
	_ = e.Insert(2, "c\n")
	if e.Export() != "a\r\nc\r\nb\r\n" {
		t.Errorf("expected CRLF export, got %q", e.Export())
	}
}

func TestPlainHidesMove(t *testing.T) {
	e := New(WithContent("abc"))
	var doc interface{} = e.WithoutMove()

	if _, ok := doc.(interface{ MoveText(int, int, int) error }); ok {
		t.Error("plain view must not expose MoveText")
	}
	p := e.WithoutMove()
	if err := p.Replace(0, 1, "A"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Text(0, p.Len()) != "Abc" || p.Revision() != e.Revision() || p.ReadOnly() {
		t.Errorf("plain view out of sync with engine")
	}
}
