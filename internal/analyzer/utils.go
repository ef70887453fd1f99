package analyzer

import (
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"
	"strconv"
	"strings"
)

// objectOf finds the types.Object an expression refers to. Calls resolve to
// their callee, and conversions such as http.HandlerFunc(h) to the converted
// value.
func objectOf(info *types.Info, expr ast.Expr) types.Object {
	switch e := ast.Unparen(expr).(type) {
	case *ast.Ident:
		if obj := info.Uses[e]; obj != nil {
			return origin(obj)
		}
		return info.Defs[e]
	case *ast.SelectorExpr:
		return origin(info.Uses[e.Sel])
	case *ast.IndexExpr:
		return objectOf(info, e.X)
	case *ast.IndexListExpr:
		return objectOf(info, e.X)
	case *ast.CallExpr:
		if tv, ok := info.Types[e.Fun]; ok && tv.IsType() {
			if len(e.Args) == 1 {
				return objectOf(info, e.Args[0])
			}
			return nil
		}
		return objectOf(info, e.Fun)
	}
	return nil
}

func origin(obj types.Object) types.Object {
	if fn, ok := obj.(*types.Func); ok {
		return fn.Origin()
	}
	return obj
}

// getFuncPath constructs a fully qualified path for a function object, such as
// "net/http.ResponseWriter.WriteHeader" or "strconv.Atoi". Pointer receivers
// are written without the star.
func getFuncPath(obj types.Object) string {
	fn, ok := obj.(*types.Func)
	if !ok {
		return ""
	}

	if sig := fn.Signature(); sig.Recv() != nil {
		return strings.TrimPrefix(typeName(sig.Recv().Type()), "*") + "." + fn.Name()
	}

	if fn.Pkg() == nil {
		return ""
	}
	return fn.Pkg().Path() + "." + fn.Name()
}

// typeName renders a receiver type by its qualified name, dropping type
// arguments.
func typeName(t types.Type) string {
	prefix := ""
	if p, ok := t.(*types.Pointer); ok {
		prefix, t = "*", p.Elem()
	}
	if n, ok := types.Unalias(t).(*types.Named); ok {
		obj := n.Origin().Obj()
		if obj.Pkg() != nil {
			return prefix + obj.Pkg().Path() + "." + obj.Name()
		}
		return prefix + obj.Name()
	}
	return prefix + t.String()
}

// resolveIntValue resolves literals and constant expressions such as
// http.StatusCreated to an int.
func resolveIntValue(info *types.Info, expr ast.Expr) (int, bool) {
	if lit, ok := expr.(*ast.BasicLit); ok && lit.Kind == token.INT {
		if val, err := strconv.Atoi(lit.Value); err == nil {
			return val, true
		}
	}
	if tv, ok := info.Types[expr]; ok && tv.Value != nil {
		if val, exact := constant.Int64Val(constant.ToInt(tv.Value)); exact {
			return int(val), true
		}
	}
	return 0, false
}

// resolveStringValue resolves literals, constants and concatenations of them to
// a string.
func resolveStringValue(info *types.Info, expr ast.Expr) (string, bool) {
	switch e := ast.Unparen(expr).(type) {
	case *ast.BasicLit:
		if e.Kind == token.STRING {
			val, err := strconv.Unquote(e.Value)
			if err == nil {
				return val, true
			}
		}
	case *ast.BinaryExpr:
		if e.Op == token.ADD {
			left, lok := resolveStringValue(info, e.X)
			right, rok := resolveStringValue(info, e.Y)
			if lok && rok {
				return left + right, true
			}
		}
	}
	if tv, ok := info.Types[expr]; ok && tv.Value != nil && tv.Value.Kind() == constant.String {
		return constant.StringVal(tv.Value), true
	}
	return "", false
}

// rootObject returns the variable at the start of a selector or call chain,
// e.g. r in r.With(mw).Route(...).
func rootObject(info *types.Info, expr ast.Expr) types.Object {
	for {
		switch e := ast.Unparen(expr).(type) {
		case *ast.Ident:
			return objectOf(info, e)
		case *ast.SelectorExpr:
			expr = e.X
		case *ast.CallExpr:
			expr = e.Fun
		case *ast.StarExpr:
			expr = e.X
		default:
			return nil
		}
	}
}
