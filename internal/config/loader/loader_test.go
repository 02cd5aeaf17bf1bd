package loader

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// MemFS is an in-memory file system for testing.
type MemFS struct {
	files map[string][]byte
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

func (m *MemFS) AddFile(path string, content string) {
	m.files[path] = []byte(content)
}

func (m *MemFS) Open(name string) (fs.File, error) {
	return nil, fs.ErrNotExist
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func (m *MemFS) Stat(path string) (fs.FileInfo, error) {
	if _, ok := m.files[path]; ok {
		return &memFileInfo{name: path}, nil
	}
	return nil, fs.ErrNotExist
}

type memFileInfo struct {
	name string
}

func (f *memFileInfo) Name() string       { return f.name }
func (f *memFileInfo) Size() int64        { return 0 }
func (f *memFileInfo) Mode() fs.FileMode  { return 0644 }
func (f *memFileInfo) ModTime() time.Time { return time.Now() }
func (f *memFileInfo) IsDir() bool        { return false }
func (f *memFileInfo) Sys() any           { return nil }

func TestTOMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/rearrange.toml", `
[engine]
strategy = "marker"

[[languages.go.sections]]
name = "types"
start = "// types"
rules = [{ types = ["type"], order = "by_name" }]
`)

	config, err := NewTOMLLoaderWithFS(memfs, "/rearrange.toml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	engine, ok := config["engine"].(map[string]any)
	if !ok {
		t.Fatal("expected engine to be a map")
	}
	if engine["strategy"] != "marker" {
		t.Errorf("strategy = %v, want marker", engine["strategy"])
	}

	langs := config["languages"].(map[string]any)
	sections, ok := langs["go"].(map[string]any)["sections"].([]any)
	if !ok || len(sections) != 1 {
		t.Fatalf("sections = %#v", langs["go"])
	}
}

func TestTOMLLoader_Missing(t *testing.T) {
	config, err := NewTOMLLoaderWithFS(NewMemFS(), "/none.toml").Load()
	if err != nil || config != nil {
		t.Errorf("Load = %v, %v; want nil, nil", config, err)
	}
}

func TestTOMLLoader_ParseError(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/bad.toml", "[engine\nstrategy = 1\n")

	_, err := NewTOMLLoaderWithFS(memfs, "/bad.toml").Load()
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if perr.Path != "/bad.toml" || perr.Line == 0 {
		t.Errorf("error at %s:%d, want a line in /bad.toml", perr.Path, perr.Line)
	}
}

func TestLoadWithIncludes(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/cfg/main.toml", `
"@include" = ["base.yaml", "/shared/log.toml"]

[engine]
strategy = "snapshot"
`)
	memfs.AddFile("/cfg/base.yaml", `
engine:
  strategy: marker
  maxUndo: 10
`)
	memfs.AddFile("/shared/log.toml", `
[logging]
level = "debug"
`)

	config, err := NewTOMLLoaderWithFS(memfs, "/cfg/main.toml").LoadWithIncludes("/cfg/main.toml", 4)
	if err != nil {
		t.Fatalf("LoadWithIncludes failed: %v", err)
	}

	want := map[string]any{
		"engine":  map[string]any{"strategy": "snapshot", "maxUndo": int64(10)},
		"logging": map[string]any{"level": "debug"},
	}
	if diff := cmp.Diff(want, config); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadWithIncludes_Cycle(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/a.toml", `"@include" = "b.toml"`)
	memfs.AddFile("/b.toml", `"@include" = "a.toml"`)

	_, err := NewTOMLLoaderWithFS(memfs, "/a.toml").LoadWithIncludes("/a.toml", 5)
	if !errors.Is(err, ErrIncludeDepth) {
		t.Errorf("expected ErrIncludeDepth, got %v", err)
	}
}

func TestYAMLLoader_LoadFromReader(t *testing.T) {
	config, err := NewYAMLLoader("").LoadFromReader(strings.NewReader(`
languages:
  java:
    blankLines:
      betweenGroups: 1
    sections:
      - name: fields
        rules:
          - types: [field]
            modifiers: [static]
`))
	if err != nil {
		t.Fatalf("LoadFromReader failed: %v", err)
	}

	java := config["languages"].(map[string]any)["java"].(map[string]any)
	blank := java["blankLines"].(map[string]any)
	if blank["betweenGroups"] != int64(1) {
		t.Errorf("betweenGroups = %#v, want int64(1)", blank["betweenGroups"])
	}
}

func TestForPath(t *testing.T) {
	if _, ok := ForPath(NewMemFS(), "x.yml").(*YAMLLoader); !ok {
		t.Error("expected a YAML loader for .yml")
	}
	if _, ok := ForPath(NewMemFS(), "x.toml").(*TOMLLoader); !ok {
		t.Error("expected a TOML loader for .toml")
	}
}

func TestEnvLoader(t *testing.T) {
	l := NewEnvLoader(EnvPrefix)
	l.environ = func() []string {
		return []string{
			"REARRANGE_LOG_LEVEL=debug",
			"REARRANGE_STRATEGY=snapshot",
			"REARRANGE_ENGINE_MAX_UNDO=50",
			"REARRANGE_LOG_JSON=yes",
			"OTHER_VAR=1",
		}
	}

	config, err := l.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := map[string]any{
		"logging": map[string]any{"level": "debug", "json": true},
		"engine":  map[string]any{"strategy": "snapshot", "maxUndo": int64(50)},
	}
	if diff := cmp.Diff(want, config); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestDeepMergeAndClone(t *testing.T) {
	base := map[string]any{"a": map[string]any{"x": 1, "y": 2}, "list": []any{"p"}}
	clone := Clone(base)
	merged := DeepMerge(clone, map[string]any{"a": map[string]any{"y": 3}, "b": true})

	want := map[string]any{"a": map[string]any{"x": 1, "y": 3}, "b": true, "list": []any{"p"}}
	if diff := cmp.Diff(want, merged); diff != "" {
		t.Errorf("merge mismatch (-want +got):\n%s", diff)
	}
	if base["a"].(map[string]any)["y"] != 2 {
		t.Error("merge into clone changed the original")
	}
}
