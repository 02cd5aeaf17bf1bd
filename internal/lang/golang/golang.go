// Package golang extracts the top-level declarations of Go source files
// as arrangement entries.
package golang

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"

	"github.com/dshills/rearrange/internal/arrange"
)

// Language is the language name of Go entries.
const Language = "go"

// Entry types and modifiers.
const (
	TypeConst  = "const"
	TypeVar    = "var"
	TypeType   = "type"
	TypeFunc   = "func"
	TypeMethod = "method"
	TypeInit   = "init"

	ModExported = "exported"
)

// Rearranger parses Go source with go/parser.
type Rearranger struct {
	methodsAfterType bool
}

// Option configures a Rearranger.
type Option func(*Rearranger)

// WithMethodsAfterType makes methods depend on the declaration of their
// receiver type in the same file. It is on by default.
func WithMethodsAfterType(on bool) Option {
	return func(r *Rearranger) {
		r.methodsAfterType = on
	}
}

// New creates a Go rearranger.
func New(opts ...Option) *Rearranger {
	r := &Rearranger{methodsAfterType: true}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Language returns "go".
func (r *Rearranger) Language() string { return Language }

// Extensions returns [".go"].
func (r *Rearranger) Extensions() []string { return []string{".go"} }

// Parse returns one entry per top-level declaration other than imports.
// An entry covers the declaration's doc comment and a line comment that
// follows it on its last line.
func (r *Rearranger) Parse(src []byte) ([]*arrange.Entry, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "", src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parse go source: %w", err)
	}
	tf := fset.File(file.Pos())

	var entries []*arrange.Entry
	typeDecls := make(map[string]*arrange.Entry)
	receivers := make(map[*arrange.Entry]string)

	for _, decl := range file.Decls {
		e := &arrange.Entry{Language: Language}
		var doc *ast.CommentGroup

		switch d := decl.(type) {
		case *ast.GenDecl:
			if d.Tok == token.IMPORT {
				continue
			}
			doc = d.Doc
			e.Types = []string{d.Tok.String()}
			names := specNames(d)
			if len(names) > 0 {
				e.Name = names[0]
			}
			if d.Tok == token.TYPE {
				if kind := typeKind(d); kind != "" {
					e.Types = append(e.Types, kind)
				}
				for _, n := range names {
					typeDecls[n] = e
				}
			}
			if exported(names) {
				e.Modifiers = append(e.Modifiers, ModExported)
			}

		case *ast.FuncDecl:
			doc = d.Doc
			name := d.Name.Name
			switch {
			case d.Recv != nil:
				e.Types = []string{TypeMethod}
				recv := receiverType(d.Recv)
				receivers[e] = recv
				e.Name = recv + "." + name
			case name == "init":
				e.Types = []string{TypeFunc, TypeInit}
				e.Name = name
			default:
				e.Types = []string{TypeFunc}
				e.Name = name
			}
			if ast.IsExported(name) {
				e.Modifiers = append(e.Modifiers, ModExported)
			}

		default:
			continue
		}

		start := decl.Pos()
		if doc != nil {
			start = doc.Pos()
		}
		e.Start = tf.Offset(start)
		e.End = lineCommentEnd(src, tf.Offset(decl.End()))
		entries = append(entries, e)
	}

	if r.methodsAfterType {
		for _, e := range entries {
			if recv, ok := receivers[e]; ok {
				if t := typeDecls[recv]; t != nil {
					e.DependOn(t)
				}
			}
		}
	}
	return entries, nil
}

// BlankLines wants one blank line between declarations of different
// kinds and keeps the spacing otherwise.
func (r *Rearranger) BlankLines(parent, prev, current *arrange.Entry) int {
	if prev == nil || prev.Types[0] == current.Types[0] {
		return -1
	}
	return 1
}

func specNames(d *ast.GenDecl) []string {
	var names []string
	for _, spec := range d.Specs {
		switch s := spec.(type) {
		case *ast.ValueSpec:
			for _, n := range s.Names {
				names = append(names, n.Name)
			}
		case *ast.TypeSpec:
			names = append(names, s.Name.Name)
		}
	}
	return names
}

// typeKind returns "struct" or "interface" for a single type spec.
func typeKind(d *ast.GenDecl) string {
	if len(d.Specs) != 1 {
		return ""
	}
	ts, ok := d.Specs[0].(*ast.TypeSpec)
	if !ok {
		return ""
	}
	switch ts.Type.(type) {
	case *ast.StructType:
		return "struct"
	case *ast.InterfaceType:
		return "interface"
	}
	return ""
}

func exported(names []string) bool {
	for _, n := range names {
		if ast.IsExported(n) {
			return true
		}
	}
	return false
}

// receiverType returns the base type name of a method receiver.
func receiverType(recv *ast.FieldList) string {
	if recv == nil || len(recv.List) == 0 {
		return ""
	}
	expr := recv.List[0].Type
	for {
		switch t := expr.(type) {
		case *ast.StarExpr:
			expr = t.X
		case *ast.ParenExpr:
			expr = t.X
		case *ast.IndexExpr:
			expr = t.X
		case *ast.IndexListExpr:
			expr = t.X
		case *ast.Ident:
			return t.Name
		default:
			return ""
		}
	}
}

// lineCommentEnd extends end over a comment that follows on the same line.
func lineCommentEnd(src []byte, end int) int {
	p := end
	for p < len(src) && (src[p] == ' ' || src[p] == '\t') {
		p++
	}
	if p+1 >= len(src) || src[p] != '/' {
		return end
	}
	switch src[p+1] {
	case '/':
		for p < len(src) && src[p] != '\n' {
			p++
		}
		for p > end && (src[p-1] == ' ' || src[p-1] == '\t' || src[p-1] == '\r') {
			p--
		}
		return p
	case '*':
		for q := p + 2; q+1 < len(src) && src[q] != '\n'; q++ {
			if src[q] == '*' && src[q+1] == '/' {
				return q + 2
			}
		}
	}
	return end
}
