// Package lang maps languages and file extensions to the rearrangers that
// extract their entries.
package lang

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/dshills/rearrange/internal/arrange"
	"github.com/dshills/rearrange/internal/lang/golang"
	"github.com/dshills/rearrange/internal/lang/java"
)

// Registry routes languages and file extensions to rearrangers.
type Registry struct {
	mu     sync.RWMutex
	byLang map[string]arrange.Rearranger
	byExt  map[string]arrange.Rearranger
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byLang: make(map[string]arrange.Rearranger),
		byExt:  make(map[string]arrange.Rearranger),
	}
}

// Default creates a registry with the built-in rearrangers.
func Default() *Registry {
	r := NewRegistry()
	r.Register(golang.New())
	r.Register(java.New())
	return r
}

// Register adds a rearranger for its language and extensions, replacing
// any earlier one.
func (r *Registry) Register(rr arrange.Rearranger) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byLang[rr.Language()] = rr
	for _, ext := range rr.Extensions() {
		r.byExt[normalizeExtension(ext)] = rr
	}
}

// Alias routes additional extensions to a registered language.
func (r *Registry) Alias(lang string, exts ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rr, ok := r.byLang[lang]
	if !ok {
		return fmt.Errorf("%w: %s", arrange.ErrUnsupportedLanguage, lang)
	}
	for _, ext := range exts {
		r.byExt[normalizeExtension(ext)] = rr
	}
	return nil
}

// Lookup returns the rearranger of a language.
func (r *Registry) Lookup(lang string) (arrange.Rearranger, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rr, ok := r.byLang[lang]
	if !ok {
		return nil, fmt.Errorf("%w: %s", arrange.ErrUnsupportedLanguage, lang)
	}
	return rr, nil
}

// ForPath returns the rearranger for the extension of path.
func (r *Registry) ForPath(path string) (arrange.Rearranger, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ext := normalizeExtension(filepath.Ext(path))
	rr, ok := r.byExt[ext]
	if !ok {
		return nil, fmt.Errorf("%w: no rearranger for %q files", arrange.ErrUnsupportedLanguage, ext)
	}
	return rr, nil
}

// Languages returns the registered languages, sorted.
func (r *Registry) Languages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	langs := make([]string, 0, len(r.byLang))
	for lang := range r.byLang {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// normalizeExtension ensures extensions are lowercase with leading dot.
func normalizeExtension(ext string) string {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
