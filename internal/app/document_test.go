package app

import (
	"testing"

	"github.com/dshills/rearrange/internal/engine"
)

func TestNewDocument(t *testing.T) {
	doc := NewDocument("/src/demo.go", "go", []byte("a\r\nb\r\n"), engine.WithMaxUndoEntries(5))

	if doc.Name != "demo.go" || doc.Language != "go" {
		t.Errorf("name %q language %q", doc.Name, doc.Language)
	}
	if doc.Content() != "a\nb\n" {
		t.Errorf("Content() = %q, want normalized text", doc.Content())
	}
	if doc.Export() != "a\r\nb\r\n" {
		t.Errorf("Export() = %q, want original line endings", doc.Export())
	}
	if doc.IsModified() {
		t.Error("new document is modified")
	}
}

func TestDocument_Modified(t *testing.T) {
	doc := NewDocument("demo.go", "go", []byte("a\nb\n"))

	if err := doc.Engine.Insert(0, "x"); err != nil {
		t.Fatal(err)
	}
	if !doc.IsModified() {
		t.Error("edit not reported")
	}
	if err := doc.Engine.Undo(); err != nil {
		t.Fatal(err)
	}
	if doc.IsModified() {
		t.Error("undo did not restore the original")
	}
}
