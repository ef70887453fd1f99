// Package router is a small nested router in the style of chi.
package router

import (
	"net/http"
	"strings"
)

type Middleware func(http.Handler) http.Handler

type Router struct {
	mux    *http.ServeMux
	prefix string
	mws    []Middleware
}

func New() *Router {
	return &Router{mux: http.NewServeMux()}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func (r *Router) Get(pattern string, h http.HandlerFunc)    { r.handle(http.MethodGet, pattern, h) }
func (r *Router) Post(pattern string, h http.HandlerFunc)   { r.handle(http.MethodPost, pattern, h) }
func (r *Router) Delete(pattern string, h http.HandlerFunc) { r.handle(http.MethodDelete, pattern, h) }

func (r *Router) Route(pattern string, fn func(r *Router)) {
	fn(r.sub(pattern))
}

func (r *Router) Group(fn func(r *Router)) {
	fn(r.sub(""))
}

func (r *Router) Mount(pattern string, h http.Handler) {
	r.mux.Handle(r.prefix+pattern+"/", http.StripPrefix(r.prefix+pattern, h))
}

func (r *Router) Use(mws ...Middleware) {
	r.mws = append(r.mws, mws...)
}

func (r *Router) With(mws ...Middleware) *Router {
	sub := r.sub("")
	sub.mws = append(sub.mws, mws...)
	return sub
}

func (r *Router) sub(pattern string) *Router {
	return &Router{mux: r.mux, prefix: r.prefix + pattern, mws: append([]Middleware(nil), r.mws...)}
}

func (r *Router) handle(method, pattern string, h http.Handler) {
	for i := len(r.mws) - 1; i >= 0; i-- {
		h = r.mws[i](h)
	}
	r.mux.Handle(method+" "+r.prefix+pattern, h)
}

// URLParam returns the value of a path parameter.
func URLParam(req *http.Request, key string) string {
	return strings.TrimSpace(req.PathValue(key))
}
