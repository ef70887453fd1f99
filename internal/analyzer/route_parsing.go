package analyzer

import (
	"go/ast"
	"go/types"
	"strings"

	"github.com/Zachacious/go-routedoc/internal/model"
	"github.com/samber/lo"
)

// processRouteCall is the dispatcher for method calls on a router value.
func (s *fileScan) processRouteCall(call *ast.CallExpr, sel *ast.SelectorExpr, kind methodKind, stack []ast.Node) {
	sc := s.scopeOf(sel.X)

	switch kind {
	case methodEndpoint:
		if len(call.Args) < 2 {
			return
		}
		s.parseEndpoint(call, sc, call.Args[0], strings.ToUpper(sel.Sel.Name), call.Args[1:], stack)
	case methodMethodArg:
		if len(call.Args) < 3 {
			return
		}
		method, ok := resolveStringValue(s.info, call.Args[0])
		if !ok {
			s.a.logger.Debug("skipping route with a non-constant method", "at", s.file.coords(call))
			return
		}
		s.parseEndpoint(call, sc, call.Args[1], strings.ToUpper(method), call.Args[2:], stack)
	case methodGroup:
		s.parseGroup(call, sc, stack)
	case methodMount:
		s.parseMount(call, sc, stack)
	case methodMiddleware:
		s.parseMiddleware(call, sel, stack)
	}
}

// parseEndpoint emits a Route for r.Get("/path", h) and friends. Every handler
// argument but the last is treated as inline middleware.
func (s *fileScan) parseEndpoint(call *ast.CallExpr, sc *scope, pathExpr ast.Expr, method string, handlers []ast.Expr, stack []ast.Node) {
	segment, ok := resolveStringValue(s.info, pathExpr)
	if !ok {
		s.a.logger.Debug("skipping route with a non-constant path", "at", s.file.coords(call))
		return
	}
	path := model.JoinPath(sc.prefix, segment)

	route := &model.Route{
		At:       s.file.coords(call),
		Path:     &path,
		Method:   method,
		Detached: s.detached(sc),
	}

	handler := handlers[len(handlers)-1]
	var handlerDocs []model.Field
	if fd, ok := s.a.lookupFunc(objectOf(s.info, handler)); ok {
		decl := fd.coords
		route.Handler = &decl
		handlerDocs = s.a.funcDocs(fd)
	}

	security := s.a.inferSecurity(s.info, handlers[:len(handlers)-1])
	route.Docs = model.Merge(
		model.Combine(s.docsAt(stack), handlerDocs),
		model.Merge(security, sc.fields),
	)
	s.emit(route)
}

// parseGroup emits a Route for groups with a body, r.Route("/p", fn) or
// r.Group(fn). Groups returning a router are scopes, handled by scopeOf.
func (s *fileScan) parseGroup(call *ast.CallExpr, sc *scope, stack []ast.Node) {
	body, ok := s.groupBody(call)
	if !ok {
		return
	}
	segment, rest := s.splitPath(call.Args)

	route := &model.Route{
		At:       s.file.coords(call),
		Detached: s.detached(sc),
	}
	if path := model.JoinPath(sc.prefix, segment); path != "" {
		route.Path = &path
	}
	if fd, ok := s.a.lookupFunc(objectOf(s.info, body)); ok {
		decl := fd.coords
		route.Handler = &decl
	}

	security := s.a.inferSecurity(s.info, lo.Without(rest, body))
	route.Docs = model.Merge(s.docsAt(stack), model.Merge(security, sc.fields))
	s.emit(route)
}

// parseMount emits a Route for r.Mount("/p", sub()) whose body is the
// declaration building the sub-router.
func (s *fileScan) parseMount(call *ast.CallExpr, sc *scope, stack []ast.Node) {
	if len(call.Args) < 2 {
		return
	}
	segment, ok := resolveStringValue(s.info, call.Args[0])
	if !ok {
		s.a.logger.Debug("skipping mount with a non-constant path", "at", s.file.coords(call))
		return
	}
	path := model.JoinPath(sc.prefix, segment)

	route := &model.Route{
		At:       s.file.coords(call),
		Path:     &path,
		Detached: s.detached(sc),
		Docs:     model.Merge(s.docsAt(stack), sc.fields),
	}
	fd, ok := s.a.lookupFunc(objectOf(s.info, call.Args[1]))
	if !ok {
		s.a.logger.Debug("mounted handler is not declared in the loaded packages", "at", route.At)
	} else {
		decl := fd.coords
		route.Handler = &decl
	}
	s.emit(route)
}

// parseMiddleware handles r.Use(mw...). On a tracked variable the middleware
// joins the variable's scope; otherwise it becomes a scoped feature of the
// enclosing group.
func (s *fileScan) parseMiddleware(call *ast.CallExpr, sel *ast.SelectorExpr, stack []ast.Node) {
	fields := model.Merge(structured(s.docsAt(stack)), s.a.inferSecurity(s.info, call.Args))
	if len(fields) == 0 {
		return
	}
	if s.use(sel.X, fields) {
		return
	}
	s.emit(&model.CallFeature{
		At:     s.file.coords(call),
		Docs:   fields,
		Scoped: true,
	})
}

// groupBody returns the argument of a group call that receives the sub-router:
// a function literal or a reference to a function taking a router.
func (s *fileScan) groupBody(call *ast.CallExpr) (ast.Expr, bool) {
	for i := len(call.Args) - 1; i >= 0; i-- {
		arg := call.Args[i]
		t := s.info.TypeOf(arg)
		if t == nil {
			continue
		}
		sig, ok := t.Underlying().(*types.Signature)
		if !ok {
			continue
		}
		for j := 0; j < sig.Params().Len(); j++ {
			if s.a.routerDef(sig.Params().At(j).Type()) != nil {
				return arg, true
			}
		}
	}
	return nil, false
}
