package analyzer

import (
	"go/ast"

	"github.com/Zachacious/go-routedoc/internal/model"
	"github.com/samber/lo"
)

// trackAssign records router variables assigned in stmt, such as
// api := r.Group("/api"). The comment above the statement documents the new
// scope.
func (s *fileScan) trackAssign(stmt *ast.AssignStmt, stack []ast.Node) {
	if len(stmt.Lhs) != len(stmt.Rhs) {
		return
	}
	for i, rhs := range stmt.Rhs {
		s.track(stmt.Lhs[i], rhs, stack)
	}
}

// trackValueSpec is trackAssign for var declarations.
func (s *fileScan) trackValueSpec(spec *ast.ValueSpec, stack []ast.Node) {
	if len(spec.Names) != len(spec.Values) {
		return
	}
	for i, value := range spec.Values {
		s.track(spec.Names[i], value, stack)
	}
}

func (s *fileScan) track(lhs, rhs ast.Expr, stack []ast.Node) {
	if !s.isRouterValue(rhs) {
		return
	}
	obj := objectOf(s.info, lhs)
	if obj == nil {
		return
	}
	sc := s.scopeOf(rhs)
	if _, ok := ast.Unparen(rhs).(*ast.CallExpr); ok {
		if docs := structured(s.docsAt(stack)); len(docs) > 0 {
			sc = sc.derive("", docs)
		}
	}
	s.vars[obj] = sc
}

// scopeOf follows a router expression back to the variable it came from,
// accumulating group prefixes and wrapped middleware on the way.
func (s *fileScan) scopeOf(expr ast.Expr) *scope {
	switch e := ast.Unparen(expr).(type) {
	case *ast.Ident, *ast.SelectorExpr:
		obj := objectOf(s.info, e)
		if sc, ok := s.vars[obj]; ok {
			return sc
		}
		return &scope{root: rootObject(s.info, e)}
	case *ast.StarExpr:
		return s.scopeOf(e.X)
	case *ast.CallExpr:
		sel, _, kind := s.routerMethod(e)
		if sel == nil {
			return &scope{}
		}
		parent := s.scopeOf(sel.X)
		switch kind {
		case methodGroup:
			if _, ok := s.groupBody(e); ok {
				return parent
			}
			path, rest := s.splitPath(e.Args)
			return parent.derive(path, s.a.inferSecurity(s.info, rest))
		case methodWrapper:
			return parent.derive("", s.a.inferSecurity(s.info, e.Args))
		}
		return parent
	}
	return &scope{root: rootObject(s.info, expr)}
}

// use applies middleware registered on a router variable to its scope. It
// reports false when the receiver is not a tracked variable.
func (s *fileScan) use(recv ast.Expr, fields []model.Field) bool {
	switch recv := ast.Unparen(recv).(type) {
	case *ast.Ident, *ast.SelectorExpr:
		obj := objectOf(s.info, recv)
		sc, ok := s.vars[obj]
		if !ok {
			return false
		}
		s.vars[obj] = sc.derive("", fields)
		return true
	}
	return false
}

// splitPath separates a leading constant path argument from the rest.
func (s *fileScan) splitPath(args []ast.Expr) (string, []ast.Expr) {
	if len(args) == 0 {
		return "", nil
	}
	if path, ok := resolveStringValue(s.info, args[0]); ok {
		return path, args[1:]
	}
	return "", args
}

// structured drops prose, which only documents the statement itself.
func structured(fields []model.Field) []model.Field {
	return lo.Filter(fields, func(f model.Field, _ int) bool {
		switch f.(type) {
		case model.Summary, model.Description:
			return false
		}
		return true
	})
}
