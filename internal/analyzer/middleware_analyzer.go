package analyzer

import (
	"go/ast"
	"go/types"

	"github.com/Zachacious/go-routedoc/internal/config"
	"github.com/Zachacious/go-routedoc/internal/model"
	"github.com/samber/lo"
)

// inferSecurity derives security requirements from middleware arguments. A
// middleware matches when it is itself a configured security function, or when
// its declaration calls one.
func (a *Analyzer) inferSecurity(info *types.Info, args []ast.Expr) []model.Field {
	var fields []model.Field
	for _, arg := range args {
		obj := objectOf(info, arg)
		if obj == nil {
			continue
		}
		fields = model.Merge(fields, a.analyzeMiddleware(obj))
	}
	return fields
}

// analyzeMiddleware inspects a middleware function and the calls in its body
// for configured security patterns.
func (a *Analyzer) analyzeMiddleware(obj types.Object) []model.Field {
	if f, ok := a.securityField(getFuncPath(obj)); ok {
		return []model.Field{f}
	}

	fd, ok := a.lookupFunc(obj)
	if !ok {
		return nil
	}
	info := fd.file.info()
	var fields []model.Field
	ast.Inspect(fd.decl.Body, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		if f, ok := a.securityField(getFuncPath(objectOf(info, call.Fun))); ok {
			fields = model.Merge(fields, []model.Field{f})
		}
		return true
	})
	return fields
}

func (a *Analyzer) securityField(funcPath string) (model.Field, bool) {
	if funcPath == "" {
		return nil, false
	}
	p, ok := lo.Find(a.cfg.SecurityPatterns, func(p config.SecurityPattern) bool {
		return p.FunctionPath == funcPath
	})
	if !ok {
		return nil, false
	}
	return model.Security{Scheme: model.SchemePtr(p.SchemeName), Scopes: p.Scopes}, true
}
