package arrange

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAnnotate(t *testing.T) {
	fields := Section("fields").WithComments("// fields", "// end fields")
	methods := Section("methods").WithComments("// methods", "")
	plain := Section("plain")

	a, b, c, d := ent("a", "", ""), ent("b", "", ""), ent("c", "", ""), ent("d", "", "")

	tests := []struct {
		name      string
		arranged  []*Entry
		sectionOf map[*Entry]*SectionRule
		starts    map[string]string
		ends      map[string]string
	}{
		{
			name:      "two sections",
			arranged:  []*Entry{a, b, c},
			sectionOf: map[*Entry]*SectionRule{a: fields, b: fields, c: methods},
			starts:    map[string]string{"a": "// fields", "c": "// methods"},
			ends:      map[string]string{"b": "// end fields"},
		},
		{
			name:      "unsectioned tail",
			arranged:  []*Entry{a, b, c},
			sectionOf: map[*Entry]*SectionRule{a: fields},
			starts:    map[string]string{"a": "// fields"},
			ends:      map[string]string{"a": "// end fields"},
		},
		{
			name:      "section without comments",
			arranged:  []*Entry{a, b, c, d},
			sectionOf: map[*Entry]*SectionRule{a: plain, b: plain, c: methods, d: plain},
			starts:    map[string]string{"c": "// methods"},
			ends:      map[string]string{},
		},
		{
			name:      "reopened section",
			arranged:  []*Entry{a, b, c},
			sectionOf: map[*Entry]*SectionRule{a: fields, b: methods, c: fields},
			starts:    map[string]string{"a": "// fields", "b": "// methods", "c": "// fields"},
			ends:      map[string]string{"a": "// end fields", "c": "// end fields"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Annotate(tt.arranged, tt.sectionOf, nil)
			if diff := cmp.Diff(tt.starts, byName(got.Starts)); diff != "" {
				t.Errorf("starts mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.ends, byName(got.Ends)); diff != "" {
				t.Errorf("ends mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAnnotateSkipsExistingDelimiter(t *testing.T) {
	fields := Section("fields").WithComments("// fields", "// end")
	open, f, closing := ent("open", "", ""), ent("f", "", ""), ent("close", "", "")
	text := map[*Entry]string{open: "// fields", f: "int f;", closing: "  // end  "}

	got := Annotate([]*Entry{open, f, closing},
		map[*Entry]*SectionRule{open: fields, f: fields, closing: fields},
		func(e *Entry) string { return text[e] })

	if len(got.Starts) != 0 || len(got.Ends) != 0 {
		t.Errorf("expected no comments, got starts=%v ends=%v", byName(got.Starts), byName(got.Ends))
	}
}

func byName(m map[*Entry]string) map[string]string {
	out := make(map[string]string, len(m))
	for e, s := range m {
		out[e.Name] = s
	}
	return out
}
