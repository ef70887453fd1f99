package analyzer

import (
	"go/ast"
	"go/types"
	"net/http"

	"github.com/Zachacious/go-routedoc/internal/config"
	"github.com/Zachacious/go-routedoc/internal/model"
	"github.com/samber/lo"
)

var stringType = model.Primitive{Name: "string", Kind: model.JSONString}

// processHandlerCall matches call against the configured handler patterns and
// emits a CallFeature for what it learns. It reports whether call matched.
func (s *fileScan) processHandlerCall(call *ast.CallExpr, stack []ast.Node) bool {
	funcPath := getFuncPath(objectOf(s.info, call.Fun))
	if funcPath == "" {
		return false
	}
	hp := s.a.cfg.HandlerPatterns

	var inferred []model.Field
	switch {
	case s.matchRequestBody(hp.RequestBody, funcPath, call, &inferred):
	case s.matchStatusCode(hp.StatusCode, funcPath, call, stack, &inferred):
	case s.matchResponseBody(hp.ResponseBody, funcPath, call, stack, &inferred):
	case s.matchParameter(hp.QueryParameter, model.InQuery, funcPath, call, &inferred):
	case s.matchParameter(hp.HeaderParameter, model.InHeader, funcPath, call, &inferred):
	case s.matchParameter(hp.PathParameter, model.InPath, funcPath, call, &inferred):
	case s.matchParameter(hp.CookieParameter, model.InCookie, funcPath, call, &inferred):
	case s.matchResponseHeader(hp.ResponseHeader, funcPath, call, &inferred):
	default:
		return false
	}
	if len(inferred) == 0 {
		return true
	}

	s.emit(&model.CallFeature{
		At:   s.file.coords(call),
		Docs: model.Merge(structured(s.docsAt(stack)), inferred),
	})
	return true
}

func (s *fileScan) matchRequestBody(patterns []config.RequestBodyPattern, funcPath string, call *ast.CallExpr, out *[]model.Field) bool {
	p, ok := lo.Find(patterns, func(p config.RequestBodyPattern) bool { return p.FunctionPath == funcPath })
	if !ok {
		return false
	}
	if t := s.argType(call, p.ArgIndex); t != nil {
		if ptr, isPtr := t.(*types.Pointer); isPtr {
			t = ptr.Elem()
		}
		*out = append(*out, model.Body{ContentType: p.ContentType, Type: model.Resolved{Type: t}})
	}
	return true
}

// matchStatusCode records the status written by w.WriteHeader and friends for
// the next response body of the same function. A 204 has no body and is
// documented straight away.
func (s *fileScan) matchStatusCode(patterns []config.StatusCodePattern, funcPath string, call *ast.CallExpr, stack []ast.Node, out *[]model.Field) bool {
	p, ok := lo.Find(patterns, func(p config.StatusCodePattern) bool { return p.FunctionPath == funcPath })
	if !ok {
		return false
	}
	if p.StatusCodeIndex >= len(call.Args) {
		return true
	}
	code, ok := resolveIntValue(s.info, call.Args[p.StatusCodeIndex])
	if !ok {
		return true
	}
	if code == http.StatusNoContent {
		*out = append(*out, model.Response{Status: model.StatusPtr(code), Description: http.StatusText(code)})
		return true
	}
	s.status[enclosingFunc(stack)] = code
	return true
}

func (s *fileScan) matchResponseBody(patterns []config.ResponseBodyPattern, funcPath string, call *ast.CallExpr, stack []ast.Node, out *[]model.Field) bool {
	p, ok := lo.Find(patterns, func(p config.ResponseBodyPattern) bool { return p.FunctionPath == funcPath })
	if !ok {
		return false
	}

	fn := enclosingFunc(stack)
	code, explicit := 0, false
	if p.StatusCodeIndex != nil && *p.StatusCodeIndex < len(call.Args) {
		code, explicit = resolveIntValue(s.info, call.Args[*p.StatusCodeIndex])
	}
	if !explicit {
		if code, explicit = s.status[fn]; !explicit {
			code = http.StatusOK
		}
	}
	delete(s.status, fn)

	resp := model.Response{Status: model.StatusPtr(code), ContentType: p.ContentType}
	if p.DataIndex >= 0 {
		if t := s.argType(call, p.DataIndex); t != nil {
			resp.Type = model.Resolved{Type: t}
		}
	}
	if p.DescriptionIndex != nil && *p.DescriptionIndex < len(call.Args) {
		resp.Description, _ = resolveStringValue(s.info, call.Args[*p.DescriptionIndex])
	}
	if resp.Description == "" {
		resp.Description = http.StatusText(code)
	}
	*out = append(*out, resp)
	return true
}

func (s *fileScan) matchParameter(patterns []config.ParameterPattern, in, funcPath string, call *ast.CallExpr, out *[]model.Field) bool {
	name, ok := s.matchName(patterns, funcPath, call)
	if !ok {
		return false
	}
	if name != "" {
		*out = append(*out, model.Parameter{In: in, Name: name, Type: stringType})
	}
	return true
}

func (s *fileScan) matchResponseHeader(patterns []config.ParameterPattern, funcPath string, call *ast.CallExpr, out *[]model.Field) bool {
	name, ok := s.matchName(patterns, funcPath, call)
	if !ok {
		return false
	}
	if name != "" {
		*out = append(*out, model.ResponseHeader{Name: name, Type: stringType})
	}
	return true
}

// matchName returns the constant name argument of a matching call, or "" when
// it is not a constant.
func (s *fileScan) matchName(patterns []config.ParameterPattern, funcPath string, call *ast.CallExpr) (string, bool) {
	p, ok := lo.Find(patterns, func(p config.ParameterPattern) bool { return p.FunctionPath == funcPath })
	if !ok {
		return "", false
	}
	if p.NameIndex >= len(call.Args) {
		return "", true
	}
	name, _ := resolveStringValue(s.info, call.Args[p.NameIndex])
	return name, true
}

// argType returns the static type of argument i, or nil for untyped nil and
// out of range indexes.
func (s *fileScan) argType(call *ast.CallExpr, i int) types.Type {
	if i < 0 || i >= len(call.Args) {
		return nil
	}
	t := s.info.TypeOf(call.Args[i])
	if b, ok := t.(*types.Basic); ok && b.Kind() == types.UntypedNil {
		return nil
	}
	return t
}
