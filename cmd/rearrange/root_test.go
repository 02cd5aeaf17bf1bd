package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/rearrange/internal/watcher"
)

const unordered = `package demo

func helper() {}

const Max = 3
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func setup(t *testing.T) (cfgPath, file string) {
	t.Helper()
	dir := t.TempDir()
	cfgPath = filepath.Join(dir, "rules.toml")
	if err := os.WriteFile(cfgPath, []byte("[logging]\nlevel = \"error\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	file = filepath.Join(dir, "demo.go")
	if err := os.WriteFile(file, []byte(unordered), 0o644); err != nil {
		t.Fatal(err)
	}
	return cfgPath, file
}

func TestDryRunListsChangedFiles(t *testing.T) {
	cfg, file := setup(t)

	out, err := execute(t, "--config", cfg, "--dry-run", file)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if strings.TrimSpace(out) != file {
		t.Errorf("output = %q, want %q", out, file)
	}
	data, _ := os.ReadFile(file)
	if string(data) != unordered {
		t.Error("dry run wrote the file")
	}
}

func TestDiffAndWrite(t *testing.T) {
	cfg, file := setup(t)

	out, err := execute(t, "-c", cfg, "--diff", "--strategy", "snapshot", file)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.HasPrefix(out, "--- a/"+file+"\n") || !strings.Contains(out, "@@ -1,5 +1,5 @@\n") {
		t.Errorf("diff output:\n%s", out)
	}
	data, _ := os.ReadFile(file)
	if !strings.HasPrefix(string(data), "package demo\n\nconst Max = 3\n") {
		t.Errorf("file not arranged:\n%s", data)
	}
}

func TestErrors(t *testing.T) {
	cfg, file := setup(t)

	if _, err := execute(t); err == nil {
		t.Error("missing path accepted")
	}
	if _, err := execute(t, "-c", filepath.Join(t.TempDir(), "none.toml"), file); err == nil {
		t.Error("missing config accepted")
	}
	if _, err := execute(t, "-c", cfg, "--strategy", "sideways", file); err == nil {
		t.Error("unknown strategy accepted")
	}
}

func TestPresent(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "demo.go")
	if err := os.WriteFile(file, []byte(unordered), 0o644); err != nil {
		t.Fatal(err)
	}
	gone := filepath.Join(dir, "gone.go")

	tests := []struct {
		name string
		ev   watcher.Event
		want bool
	}{
		{"write", watcher.Event{Path: file, Op: watcher.OpWrite}, true},
		{"renamed over", watcher.Event{Path: file, Op: watcher.OpRename | watcher.OpCreate}, true},
		{"removed and recreated", watcher.Event{Path: file, Op: watcher.OpRemove}, true},
		{"removed", watcher.Event{Path: gone, Op: watcher.OpRemove}, false},
		{"renamed away", watcher.Event{Path: gone, Op: watcher.OpRename}, false},
		{"directory", watcher.Event{Path: dir, Op: watcher.OpRename}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := present(tt.ev); got != tt.want {
				t.Errorf("present(%v) = %t, want %t", tt.ev.Op, got, tt.want)
			}
		})
	}
}
