package arrange

import "testing"

func TestRenderMid(t *testing.T) {
	l := &layout{delims: map[string]bool{"// a": true, "// b": true}, indent: "  "}

	tests := []struct {
		name       string
		old        string
		end, start string
		blank      int
		want       string
	}{
		{"keep", "\n\n  ", "", "", -1, "\n\n  "},
		{"grow blanks", "\n  ", "", "", 2, "\n\n\n  "},
		{"shrink blanks", "\n\n\n\n  ", "", "", 1, "\n\n  "},
		{"blank whitespace lines count", "\n \n\t\n  ", "", "", 1, "\n \n  "},
		{"comments use slot indent", "\n    ", "// a", "// b", 1, "\n    // a\n\n    // b\n    "},
		{"stale delimiter dropped", "\n  // a\n\n  ", "", "", -1, "\n\n  "},
		{"other comment kept", "\n  // note\n  ", "", "", 0, "\n  // note\n  "},
		{"same line untouched", " ", "", "", 1, " "},
		{"same line split for comment", "  ", "", "// b", -1, "\n  // b\n  "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := l.renderMid(tt.old, tt.end, tt.start, tt.blank); got != tt.want {
				t.Errorf("renderMid(%q) = %q, want %q", tt.old, got, tt.want)
			}
		})
	}
}

func TestLeadAndTrailRegions(t *testing.T) {
	l := &layout{delims: map[string]bool{"// a": true}}
	src := "{\n\n  // a\n  x\n  // a\n\n}"
	x := 12

	start, lineStart := l.leadRegion(src, 0, x)
	if !lineStart || src[start:x] != "\n  // a\n  " {
		t.Errorf("lead = %q (line start %t)", src[start:x], lineStart)
	}

	end := l.trailRegion(src, 0, x+1)
	if src[x+1:end] != "\n  // a\n\n" {
		t.Errorf("trail = %q", src[x+1:end])
	}

	if got := l.trailRegion("x }", 0, 1); got != 1 {
		t.Errorf("trail with text on the line = %d, want 1", got)
	}
}

func TestRenderTrail(t *testing.T) {
	l := &layout{delims: map[string]bool{"// end": true}}

	if got := l.renderTrail("", "// end", "  "); got != "\n  // end\n" {
		t.Errorf("empty trail = %q", got)
	}
	if got := l.renderTrail("\n  // end\n\n", "", "  "); got != "\n\n" {
		t.Errorf("stale end comment = %q", got)
	}
	if got := l.renderTrail("\n\n", "// end", "  "); got != "\n  // end\n\n" {
		t.Errorf("trail with end comment = %q", got)
	}
}
