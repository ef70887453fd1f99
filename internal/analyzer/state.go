package analyzer

import (
	"go/ast"
	"go/types"

	"github.com/Zachacious/go-routedoc/internal/model"
	"github.com/hashicorp/go-set/v3"
)

// scope is what a router value carries with it as it flows through variables
// and call chains: the path prefix of the groups it was derived from, the
// documentation of those groups and the variable it started from.
type scope struct {
	prefix string
	fields []model.Field
	root   types.Object
}

func (sc *scope) derive(segment string, fields []model.Field) *scope {
	return &scope{
		prefix: model.JoinPath(sc.prefix, segment),
		fields: model.Merge(fields, sc.fields),
		root:   sc.root,
	}
}

// scopeFields returns the scope's documentation plus its path prefix, for nodes
// whose own path does not include it.
func (sc *scope) scopeFields() []model.Field {
	if sc.prefix == "" {
		return sc.fields
	}
	return append([]model.Field{model.Path{Segment: sc.prefix}}, sc.fields...)
}

// fileScan holds the state of the first pass over a single file. Nothing in it
// is shared with other files.
type fileScan struct {
	a    *Analyzer
	file *sourceFile
	info *types.Info
	src  []byte

	nodes []model.Node

	// enclosing top-level declaration and its parameters
	fn     *ast.FuncDecl
	params *set.Set[types.Object]

	// router variables and what they carry
	vars map[types.Object]*scope
	// last status code written per enclosing function
	status map[ast.Node]int
	// parsed comments by statement offset
	docs map[int][]model.Field
}

func newFileScan(a *Analyzer, f *sourceFile, src []byte) *fileScan {
	return &fileScan{
		a:      a,
		file:   f,
		info:   f.info(),
		src:    src,
		params: set.New[types.Object](0),
		vars:   make(map[types.Object]*scope),
		status: make(map[ast.Node]int),
		docs:   make(map[int][]model.Field),
	}
}

func (s *fileScan) emit(n model.Node) {
	s.nodes = append(s.nodes, n)
}

// enterFunc records the parameters of a top-level declaration. Router calls on
// them are detached: they only reach a root through whoever calls the function.
func (s *fileScan) enterFunc(fn *ast.FuncDecl) {
	s.fn = fn
	s.params = set.New[types.Object](4)
	if fn.Type.Params == nil {
		return
	}
	for _, field := range fn.Type.Params.List {
		for _, name := range field.Names {
			if obj := s.info.Defs[name]; obj != nil {
				s.params.Insert(obj)
			}
		}
	}
}

// detached reports whether sc starts at a router parameter of the enclosing
// declaration.
func (s *fileScan) detached(sc *scope) bool {
	return sc.root != nil && s.params.Contains(sc.root) && s.a.routerDef(sc.root.Type()) != nil
}

// docsAt parses the comment above the statement enclosing the innermost node of
// stack. Only simple statements carry documentation.
func (s *fileScan) docsAt(stack []ast.Node) []model.Field {
	for i := len(stack) - 1; i >= 0; i-- {
		switch st := stack[i].(type) {
		case *ast.ExprStmt, *ast.AssignStmt, *ast.ReturnStmt, *ast.DeclStmt, *ast.DeferStmt, *ast.GoStmt:
			offset := s.file.fset().Position(st.Pos()).Offset
			if fields, ok := s.docs[offset]; ok {
				return fields
			}
			fields := s.a.parser.ParseAt(s.src, offset, s.file.pkg.PkgPath)
			s.docs[offset] = fields
			return fields
		case ast.Stmt, *ast.FuncLit, ast.Decl:
			return nil
		}
	}
	return nil
}

// enclosingFunc returns the innermost function literal or declaration.
func enclosingFunc(stack []ast.Node) ast.Node {
	for i := len(stack) - 1; i >= 0; i-- {
		switch stack[i].(type) {
		case *ast.FuncLit, *ast.FuncDecl:
			return stack[i]
		}
	}
	return nil
}
