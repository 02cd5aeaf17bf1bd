// Package java extracts class members of Java source files as arrangement
// entries using tree-sitter.
package java

import (
	"context"
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"

	"github.com/dshills/rearrange/internal/arrange"
)

// Language is the language name of Java entries.
const Language = "java"

// Entry types.
const (
	TypeField       = "field"
	TypeMethod      = "method"
	TypeConstructor = "constructor"
	TypeInitializer = "initializer"
	TypeClass       = "class"
	TypeInterface   = "interface"
	TypeEnum        = "enum"
	TypeRecord      = "record"
	TypeAnnotation  = "annotation"
)

// ErrSyntax is returned for source the parser could not read completely.
var ErrSyntax = errors.New("java syntax error")

var memberTypes = map[string]string{
	"field_declaration":               TypeField,
	"constant_declaration":            TypeField,
	"method_declaration":              TypeMethod,
	"constructor_declaration":         TypeConstructor,
	"compact_constructor_declaration": TypeConstructor,
	"static_initializer":              TypeInitializer,
	"block":                           TypeInitializer,
	"class_declaration":               TypeClass,
	"interface_declaration":           TypeInterface,
	"enum_declaration":                TypeEnum,
	"record_declaration":              TypeRecord,
	"annotation_type_declaration":     TypeAnnotation,
}

// Rearranger parses Java source with the tree-sitter Java grammar.
type Rearranger struct{}

// New creates a Java rearranger.
func New() *Rearranger {
	return &Rearranger{}
}

// Language returns "java".
func (r *Rearranger) Language() string { return Language }

// Extensions returns [".java"].
func (r *Rearranger) Extensions() []string { return []string{".java"} }

// Parse returns the top-level type declarations with their members as
// children. A member covers the comments directly above it and a comment
// that follows it on its last line.
func (r *Rearranger) Parse(src []byte) ([]*arrange.Entry, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(java.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse java source: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, fmt.Errorf("%w: %s", ErrSyntax, firstError(root))
	}

	p := &walker{src: src}
	return p.members(root, nil), nil
}

// BlankLines wants one blank line between members of different kinds and
// keeps the spacing otherwise.
func (r *Rearranger) BlankLines(parent, prev, current *arrange.Entry) int {
	if prev == nil || prev.Types[0] == current.Types[0] {
		return -1
	}
	return 1
}

type walker struct {
	src []byte
}

type member struct {
	entry *arrange.Entry
	node  *sitter.Node
}

// members extracts the entries declared directly in body.
func (w *walker) members(body *sitter.Node, parent *arrange.Entry) []*arrange.Entry {
	var (
		found []member
		last  *arrange.Entry
		// [docStart, docEnd) spans the comments above the next member.
		docStart, docEnd = -1, -1
	)
	for i := 0; i < int(body.NamedChildCount()); i++ {
		n := body.NamedChild(i)
		typ := n.Type()
		start, end := int(n.StartByte()), int(n.EndByte())

		if typ == "line_comment" || typ == "block_comment" {
			switch {
			case last != nil && w.sameLine(last.End, start):
				last.End = end
			case docStart >= 0 && w.adjacent(docEnd, start):
				docEnd = end
			default:
				docStart, docEnd = start, end
			}
			last = nil
			continue
		}
		if typ == "enum_body_declarations" {
			for _, e := range w.members(n, parent) {
				found = append(found, member{entry: e})
			}
			last, docStart = nil, -1
			continue
		}

		kind, ok := memberTypes[typ]
		if !ok {
			last, docStart = nil, -1
			continue
		}

		e := &arrange.Entry{
			Start:    start,
			End:      end,
			Types:    []string{kind},
			Language: Language,
			Parent:   parent,
		}
		if docStart >= 0 && w.adjacent(docEnd, start) {
			e.Start = docStart
		}
		if typ == "static_initializer" {
			e.Modifiers = []string{"static"}
		}
		if mods := childOfType(n, "modifiers"); mods != nil {
			e.Modifiers = w.modifiers(mods)
		}
		e.Name = w.name(n)

		if b := n.ChildByFieldName("body"); b != nil && isTypeDecl(kind) {
			e.Children = w.members(b, e)
		}

		found = append(found, member{entry: e, node: n})
		last, docStart = e, -1
	}

	w.fieldDependencies(found)

	entries := make([]*arrange.Entry, len(found))
	for i, m := range found {
		entries[i] = m.entry
	}
	return entries
}

// fieldDependencies makes fields and initializers depend on the sibling
// fields their code reads.
func (w *walker) fieldDependencies(found []member) {
	fields := make(map[string]*arrange.Entry)
	for _, m := range found {
		if m.node == nil || !m.entry.HasType(TypeField) {
			continue
		}
		for _, name := range w.declarators(m.node) {
			fields[name] = m.entry
		}
	}
	if len(fields) == 0 {
		return
	}

	for _, m := range found {
		if m.node == nil {
			continue
		}
		var code []*sitter.Node
		switch {
		case m.entry.HasType(TypeField):
			for i := 0; i < int(m.node.NamedChildCount()); i++ {
				d := m.node.NamedChild(i)
				if d.Type() == "variable_declarator" {
					if v := d.ChildByFieldName("value"); v != nil {
						code = append(code, v)
					}
				}
			}
		case m.entry.HasType(TypeInitializer):
			code = append(code, m.node)
		}

		seen := make(map[*arrange.Entry]bool)
		for _, c := range code {
			w.identifiers(c, func(name string) {
				dep := fields[name]
				if dep != nil && dep != m.entry && !seen[dep] {
					seen[dep] = true
					m.entry.DependOn(dep)
				}
			})
		}
	}
}

func (w *walker) declarators(n *sitter.Node) []string {
	var names []string
	for i := 0; i < int(n.NamedChildCount()); i++ {
		d := n.NamedChild(i)
		if d.Type() != "variable_declarator" {
			continue
		}
		if name := d.ChildByFieldName("name"); name != nil {
			names = append(names, name.Content(w.src))
		}
	}
	return names
}

// identifiers calls fn for every identifier below n, skipping the bodies
// of nested classes and lambdas.
func (w *walker) identifiers(n *sitter.Node, fn func(string)) {
	switch n.Type() {
	case "identifier":
		fn(n.Content(w.src))
		return
	case "class_body", "lambda_expression":
		return
	case "field_access", "method_invocation":
		// Only the receiver can name a field of this class.
		if obj := n.ChildByFieldName("object"); obj != nil {
			if obj.Type() == "this" {
				if f := n.ChildByFieldName("field"); f != nil {
					fn(f.Content(w.src))
				}
			} else {
				w.identifiers(obj, fn)
			}
		}
		if args := n.ChildByFieldName("arguments"); args != nil {
			w.identifiers(args, fn)
		}
		return
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		w.identifiers(n.NamedChild(i), fn)
	}
}

func (w *walker) modifiers(mods *sitter.Node) []string {
	var out []string
	for i := 0; i < int(mods.ChildCount()); i++ {
		c := mods.Child(i)
		switch c.Type() {
		case "marker_annotation", "annotation":
			if name := c.ChildByFieldName("name"); name != nil {
				out = append(out, "@"+name.Content(w.src))
			}
		default:
			if !c.IsNamed() {
				out = append(out, c.Type())
			}
		}
	}
	return out
}

func (w *walker) name(n *sitter.Node) string {
	if name := n.ChildByFieldName("name"); name != nil {
		return name.Content(w.src)
	}
	if names := w.declarators(n); len(names) > 0 {
		return names[0]
	}
	return ""
}

// sameLine reports whether no line break lies between offsets a and b.
func (w *walker) sameLine(a, b int) bool {
	for _, c := range w.src[a:b] {
		if c == '\n' {
			return false
		}
	}
	return true
}

// adjacent reports whether only whitespace without a blank line lies
// between offsets a and b.
func (w *walker) adjacent(a, b int) bool {
	newlines := 0
	for _, c := range w.src[a:b] {
		switch c {
		case '\n':
			newlines++
		case ' ', '\t', '\r':
		default:
			return false
		}
	}
	return newlines <= 1
}

func isTypeDecl(kind string) bool {
	switch kind {
	case TypeClass, TypeInterface, TypeEnum, TypeRecord, TypeAnnotation:
		return true
	}
	return false
}

func childOfType(n *sitter.Node, typ string) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := n.NamedChild(i); c.Type() == typ {
			return c
		}
	}
	return nil
}

// firstError describes the first error node below n.
func firstError(n *sitter.Node) string {
	if n.IsError() || n.IsMissing() {
		p := n.StartPoint()
		return fmt.Sprintf("line %d, column %d", p.Row+1, p.Column+1)
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c.HasError() {
			return firstError(c)
		}
	}
	return "unknown position"
}
