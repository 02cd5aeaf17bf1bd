package app

import (
	"path/filepath"

	"github.com/dshills/rearrange/internal/engine"
)

// Document is a source file loaded into an editable engine.
type Document struct {
	// Path is the file path as given.
	Path string

	// Name is the base name of Path.
	Name string

	// Language is the language of the rearranger that parses the file.
	Language string

	// Original is the file content before the pass.
	Original string

	// Engine holds the text being arranged.
	Engine *engine.Engine
}

// NewDocument creates a document from file content. Line endings are
// normalized in the engine and restored by Export.
func NewDocument(path, language string, content []byte, opts ...engine.Option) *Document {
	opts = append([]engine.Option{engine.WithContent(string(content))}, opts...)
	return &Document{
		Path:     path,
		Name:     filepath.Base(path),
		Language: language,
		Original: string(content),
		Engine:   engine.New(opts...),
	}
}

// Content returns the normalized text the rearranger parses.
func (d *Document) Content() string {
	return d.Engine.Content()
}

// Export returns the text with the file's own line endings.
func (d *Document) Export() string {
	return d.Engine.Export()
}

// IsModified reports whether the text differs from the file content.
func (d *Document) IsModified() bool {
	return d.Export() != d.Original
}
