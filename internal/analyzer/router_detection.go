package analyzer

import (
	"go/ast"

	"github.com/Zachacious/go-routedoc/internal/config"
	"github.com/samber/lo"
)

// methodKind classifies a method called on a router.
type methodKind int

const (
	methodUnknown methodKind = iota
	methodEndpoint
	methodMethodArg
	methodGroup
	methodMount
	methodMiddleware
	methodWrapper
)

// getRouteMethodType determines what a router method does.
func getRouteMethodType(def *config.RouterDefinition, methodName string) methodKind {
	switch {
	case lo.Contains(def.EndpointMethods, methodName):
		return methodEndpoint
	case lo.Contains(def.MethodArgMethods, methodName):
		return methodMethodArg
	case lo.Contains(def.GroupMethods, methodName):
		return methodGroup
	case lo.Contains(def.MountMethods, methodName):
		return methodMount
	case lo.Contains(def.MiddlewareMethods, methodName):
		return methodMiddleware
	case lo.Contains(def.MiddlewareWrapperMethods, methodName):
		return methodWrapper
	}
	return methodUnknown
}

// routerMethod returns the definition and kind of a call on a router value.
func (s *fileScan) routerMethod(call *ast.CallExpr) (*ast.SelectorExpr, *config.RouterDefinition, methodKind) {
	sel, ok := ast.Unparen(call.Fun).(*ast.SelectorExpr)
	if !ok {
		return nil, nil, methodUnknown
	}
	def := s.a.routerDef(s.info.TypeOf(sel.X))
	if def == nil {
		return nil, nil, methodUnknown
	}
	return sel, def, getRouteMethodType(def, sel.Sel.Name)
}

// hasRouterArg reports whether any argument of call is a router value.
func (s *fileScan) hasRouterArg(call *ast.CallExpr) (ast.Expr, bool) {
	for _, arg := range call.Args {
		if s.a.routerDef(s.info.TypeOf(arg)) != nil {
			return arg, true
		}
	}
	return nil, false
}

// isRouterValue reports whether expr evaluates to a router.
func (s *fileScan) isRouterValue(expr ast.Expr) bool {
	return s.a.routerDef(s.info.TypeOf(expr)) != nil
}
