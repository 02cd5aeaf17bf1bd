package arrange

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWalkBottomUp(t *testing.T) {
	a := &Entry{Name: "a", Start: 0, End: 50}
	a1 := &Entry{Name: "a1", Start: 5, End: 20}
	a1x := &Entry{Name: "a1x", Start: 6, End: 8}
	a2 := &Entry{Name: "a2", Start: 25, End: 40}
	a2x := &Entry{Name: "a2x", Start: 30, End: 35}
	b := &Entry{Name: "b", Start: 60, End: 70}
	a.AddChild(a1)
	a.AddChild(a2)
	a1.AddChild(a1x)
	a2.AddChild(a2x)

	tree := buildTree([]*Entry{a, b})
	var visited []string
	err := tree.walk(func(parent wrapperID) error {
		if parent == noWrapper {
			visited = append(visited, "<top>")
			return nil
		}
		visited = append(visited, tree.at(parent).entry.Name)
		return nil
	})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if diff := cmp.Diff([]string{"a1", "a2", "a", "<top>"}, visited); diff != "" {
		t.Errorf("visit order mismatch (-want +got):\n%s", diff)
	}
}

func TestWalkStopsOnError(t *testing.T) {
	a := &Entry{Name: "a", Start: 0, End: 10}
	a.AddChild(&Entry{Name: "c", Start: 1, End: 2})

	stop := errors.New("stop")
	calls := 0
	err := buildTree([]*Entry{a}).walk(func(wrapperID) error {
		calls++
		return stop
	})
	if !errors.Is(err, stop) || calls != 1 {
		t.Errorf("walk returned %v after %d calls", err, calls)
	}
}

func TestWalkDeepNesting(t *testing.T) {
	const depth = 10000
	root := &Entry{Name: "0", Start: 0, End: 2 * depth}
	cur := root
	for i := 1; i < depth; i++ {
		c := &Entry{Start: i, End: 2*depth - i}
		cur.AddChild(c)
		cur = c
	}

	frames := 0
	if err := buildTree([]*Entry{root}).walk(func(wrapperID) error {
		frames++
		return nil
	}); err != nil {
		t.Fatalf("walk: %v", err)
	}
	if frames != depth {
		t.Errorf("visited %d frames, want %d", frames, depth)
	}
}

func TestBuildTreeRejectsDuplicates(t *testing.T) {
	a := &Entry{Name: "a", Start: 0, End: 1}
	defer func() {
		if _, ok := recover().(*InvariantError); !ok {
			t.Error("expected *InvariantError panic")
		}
	}()
	buildTree([]*Entry{a, a})
}

func TestShiftOutside(t *testing.T) {
	p := &Entry{Name: "p", Start: 0, End: 20}
	c := &Entry{Name: "c", Start: 2, End: 5}
	after := &Entry{Name: "after", Start: 30, End: 40}
	p.AddChild(c)

	tree := buildTree([]*Entry{p, after})
	pid, cid, aid := tree.idOf[p], tree.idOf[c], tree.idOf[after]
	tree.shiftOutside(pid, map[wrapperID]bool{cid: true}, 5, 3)

	if w := tree.at(pid); w.start != 0 || w.end != 23 {
		t.Errorf("parent = [%d,%d), want [0,23)", w.start, w.end)
	}
	if w := tree.at(cid); w.start != 2 || w.end != 5 {
		t.Errorf("frame wrapper moved to [%d,%d)", w.start, w.end)
	}
	if w := tree.at(aid); w.start != 33 || w.end != 43 {
		t.Errorf("later wrapper = [%d,%d), want [33,43)", w.start, w.end)
	}
}
