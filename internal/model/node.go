package model

import (
	"fmt"
	"regexp"
)

// Coords locate a call site or declaration: a file plus a byte offset range.
// They identify nodes and decide containment.
type Coords struct {
	File  string
	Start int
	End   int
}

// Contains reports whether o lies fully inside c.
func (c Coords) Contains(o Coords) bool {
	return c.File == o.File && c.Start <= o.Start && o.End <= c.End
}

// Position is the (file, offset) key of a coordinate.
func (c Coords) Position() Position {
	return Position{File: c.File, Offset: c.Start}
}

func (c Coords) String() string {
	return fmt.Sprintf("%s:%d-%d", c.File, c.Start, c.End)
}

// Position is a single point in a file.
type Position struct {
	File   string
	Offset int
}

// Node is one routing related call site. The variant set is closed: Route,
// CallFeature and Function.
type Node interface {
	// Coords returns the invocation range of the call.
	Coords() Coords
	// Fields returns the documentation this node contributes. The result is
	// computed on each call and is only meaningful merged with its ancestors.
	Fields() []Field
	node()
}

// Route is an HTTP route or route scope declaration. Groups have no Method and
// may have no Path.
type Route struct {
	At Coords
	// Handler is the declaration range of a handler or sub-router defined
	// outside the call, if any.
	Handler *Coords
	Path    *string
	Method  string
	Docs    []Field
	// Detached routes sit inside a function that only receives its router as a
	// parameter; they reach a root only through a Function edge.
	Detached bool
}

// CallFeature is a leaf call contributing documentation without a path or
// method of its own, such as decoding a request body.
type CallFeature struct {
	At   Coords
	Docs []Field
	// Scoped features (middleware registration) apply to every route of the
	// enclosing scope rather than to a handler.
	Scoped bool
}

// Function is a call to a helper whose declaration registers further routes or
// features.
type Function struct {
	At       Coords
	Decl     Coords
	Name     string
	Docs     []Field
	Detached bool
}

func (r *Route) Coords() Coords       { return r.At }
func (c *CallFeature) Coords() Coords { return c.At }
func (f *Function) Coords() Coords    { return f.At }

func (*Route) node()       {}
func (*CallFeature) node() {}
func (*Function) node()    {}

var pathParamPattern = regexp.MustCompile(`\{([^}:]+)(?::[^}]*)?\}|:(\w+)`)

// PathParams returns the parameter names in a route segment, both `{id}` and
// `:id` styles.
func PathParams(segment string) []string {
	var names []string
	for _, m := range pathParamPattern.FindAllStringSubmatch(segment, -1) {
		name := m[1]
		if name == "" {
			name = m[2]
		}
		names = append(names, name)
	}
	return names
}

// Fields returns the route's documentation followed by its transient path and
// method fields and the path parameters its own segment declares.
func (r *Route) Fields() []Field {
	own := make([]Field, 0, len(r.Docs)+2)
	own = append(own, r.Docs...)
	var derived []Field
	if r.Path != nil {
		derived = append(derived, Path{Segment: *r.Path})
		for _, name := range PathParams(*r.Path) {
			derived = append(derived, Parameter{In: InPath, Name: name})
		}
	}
	if r.Method != "" {
		derived = append(derived, Method{Name: r.Method})
	}
	return Merge(own, derived)
}

func (c *CallFeature) Fields() []Field { return c.Docs }

func (f *Function) Fields() []Field { return f.Docs }

// ResolvedRoute is the final merged documentation of one (path, method) pair.
type ResolvedRoute struct {
	Path   string
	Method string
	Fields []Field
}
