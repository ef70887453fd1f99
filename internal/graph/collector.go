package graph

import (
	"regexp"
	"strings"

	"github.com/Zachacious/go-routedoc/internal/model"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-set/v3"
)

// Collector turns a linked Graph into resolved routes.
type Collector struct {
	graph  *Graph
	logger hclog.Logger
}

// NewCollector returns a Collector over g.
func NewCollector(g *Graph, logger hclog.Logger) *Collector {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Collector{graph: g, logger: logger}
}

// Collect resolves every Route node once per path from it to a root. Paths that
// end at a detached root are discarded, as are routes that end up without a
// path or method and routes marked ignored. The result may contain several
// entries for the same path and method.
func (c *Collector) Collect() []model.ResolvedRoute {
	var routes []model.ResolvedRoute
	for id := range c.graph.nodes {
		if _, ok := c.graph.nodes[id].(*model.Route); !ok {
			continue
		}
		for _, path := range c.pathsToRoot(NodeID(id)) {
			root := c.graph.nodes[path[len(path)-1]]
			if detached(root) {
				c.logger.Debug("discarding path ending at a detached root",
					"route", c.graph.nodes[id].Coords(), "root", root.Coords())
				continue
			}
			if r, ok := c.resolve(c.fold(path)); ok {
				routes = append(routes, r)
			}
		}
	}
	return routes
}

// pathsToRoot enumerates every parent chain from id, leaf first.
func (c *Collector) pathsToRoot(id NodeID) [][]NodeID {
	var out [][]NodeID
	var walk func(id NodeID, path []NodeID)
	walk = func(id NodeID, path []NodeID) {
		path = append(path, id)
		parents := c.graph.parents[id]
		if len(parents) == 0 {
			out = append(out, append([]NodeID(nil), path...))
			return
		}
		for _, p := range parents {
			if onPath(path, p) {
				continue
			}
			walk(p, path)
		}
	}
	walk(id, nil)
	return out
}

// fold merges documentation root to leaf so that nodes closer to the leaf win.
// Scoped features of each node apply at lower priority than the node itself,
// followed by the features found in the leaf's handler.
func (c *Collector) fold(path []NodeID) []model.Field {
	var acc []model.Field
	for i := len(path) - 1; i >= 0; i-- {
		id := path[i]
		acc = model.Merge(c.graph.nodes[id].Fields(), acc)
		for _, child := range c.graph.children[id] {
			if f, ok := c.graph.nodes[child].(*model.CallFeature); ok && f.Scoped {
				acc = model.Merge(acc, f.Fields())
			}
		}
	}
	for _, fields := range c.handlerFeatures(path[0]) {
		acc = model.Merge(acc, fields)
	}
	return acc
}

// handlerFeatures returns the fields of non-scoped features under id, following
// Function children into the helpers they call.
func (c *Collector) handlerFeatures(id NodeID) [][]model.Field {
	var out [][]model.Field
	seen := set.New[NodeID](8)
	var walk func(id NodeID)
	walk = func(id NodeID) {
		if !seen.Insert(id) {
			return
		}
		for _, child := range c.graph.children[id] {
			switch n := c.graph.nodes[child].(type) {
			case *model.CallFeature:
				if !n.Scoped {
					out = append(out, n.Fields())
				}
			case *model.Function:
				walk(child)
			}
		}
	}
	walk(id)
	return out
}

func (c *Collector) resolve(fields []model.Field) (model.ResolvedRoute, bool) {
	var (
		path, method         string
		havePath, haveMethod bool
		rest                 = make([]model.Field, 0, len(fields))
	)
	for _, f := range fields {
		switch v := f.(type) {
		case model.Path:
			path, havePath = v.Segment, true
		case model.Method:
			method, haveMethod = v.Name, v.Name != ""
		default:
			rest = append(rest, f)
		}
	}
	if !havePath || !haveMethod {
		return model.ResolvedRoute{}, false
	}
	if model.HasIgnore(rest) {
		c.logger.Debug("route ignored", "method", method, "path", path)
		return model.ResolvedRoute{}, false
	}
	return model.ResolvedRoute{
		Path:   NormalizePath(path),
		Method: strings.ToUpper(method),
		Fields: rest,
	}, true
}

var (
	colonParam   = regexp.MustCompile(`:(\w+)`)
	patternParam = regexp.MustCompile(`\{([^}:]+):[^}]*\}`)
)

// NormalizePath rewrites router specific parameter syntax to OpenAPI braces and
// cleans up separators. The root path stays "/".
func NormalizePath(p string) string {
	p = patternParam.ReplaceAllString(p, "{$1}")
	p = colonParam.ReplaceAllString(p, "{$1}")
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimSuffix(p, "/")
	}
	return p
}

func detached(n model.Node) bool {
	switch v := n.(type) {
	case *model.Route:
		return v.Detached
	case *model.Function:
		return v.Detached
	}
	return false
}

func onPath(path []NodeID, id NodeID) bool {
	for _, p := range path {
		if p == id {
			return true
		}
	}
	return false
}
