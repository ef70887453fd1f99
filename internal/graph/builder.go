package graph

import (
	"errors"
	"sort"

	"github.com/Zachacious/go-routedoc/internal/model"
	"github.com/hashicorp/go-hclog"
)

// ErrLinked is returned when nodes are added after the graph was linked.
var ErrLinked = errors.New("graph already linked")

// FileGraph is the result of the first pass over one file: its nodes in source
// order and the index of each node's enclosing route, or -1.
type FileGraph struct {
	File   string
	Nodes  []model.Node
	Parent []int
}

// BuildFile runs the first pass over the nodes of a single file. It touches no
// shared state, so files may be processed concurrently.
//
// Each node is attached to the most recent earlier Route whose range contains
// it. The backward scan stops at a parentless Route that does not contain the
// node: ranges nest, so nothing before it can be an ancestor.
func BuildFile(file string, nodes []model.Node) *FileGraph {
	sorted := make([]model.Node, len(nodes))
	copy(sorted, nodes)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Coords(), sorted[j].Coords()
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.End > b.End
	})

	fg := &FileGraph{File: file, Nodes: sorted, Parent: make([]int, len(sorted))}
	for i, n := range sorted {
		fg.Parent[i] = -1
		at := n.Coords()
		for j := i - 1; j >= 0; j-- {
			r, ok := sorted[j].(*model.Route)
			if !ok {
				continue
			}
			if r.At.Contains(at) {
				fg.Parent[i] = j
				break
			}
			if fg.Parent[j] < 0 {
				break
			}
		}
	}
	return fg
}

// Builder assembles per-file results into one Graph and then links
// declarations across files. All files must be added before Link.
type Builder struct {
	logger hclog.Logger
	graph  *Graph
	linked bool
}

// NewBuilder returns an empty Builder.
func NewBuilder(logger hclog.Logger) *Builder {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Builder{logger: logger, graph: newGraph()}
}

// Add registers the nodes and first-pass edges of one file.
func (b *Builder) Add(fg *FileGraph) error {
	if b.linked {
		return ErrLinked
	}
	ids := make([]NodeID, len(fg.Nodes))
	for i, n := range fg.Nodes {
		ids[i] = b.graph.add(n)
		pos := n.Coords().Position()
		if prev, ok := b.graph.index[pos]; ok {
			b.logger.Debug("two call sites share a position", "at", n.Coords(), "first", prev)
			continue
		}
		b.graph.index[pos] = ids[i]
	}
	for i, p := range fg.Parent {
		if p >= 0 {
			b.graph.addEdge(ids[p], ids[i])
		}
	}
	return nil
}

// Link runs the second pass: every Function declaration and out-of-line route
// handler adopts the nodes inside it that the first pass left without a parent.
// These are the only edges that cross files, and the source of multiple
// parents. Edges that would close a cycle are skipped.
func (b *Builder) Link() *Graph {
	g := b.graph
	if b.linked {
		return g
	}
	b.linked = true

	topLevel := make([]bool, len(g.nodes))
	for id := range g.nodes {
		topLevel[id] = len(g.parents[id]) == 0
	}

	for id, n := range g.nodes {
		for _, decl := range declarations(n) {
			for _, cid := range g.byFile[decl.File] {
				if cid == NodeID(id) || !topLevel[cid] || !decl.Contains(g.nodes[cid].Coords()) {
					continue
				}
				if g.reaches(cid, NodeID(id)) {
					b.logger.Warn("skipping edge that would form a cycle",
						"parent", n.Coords(), "child", g.nodes[cid].Coords())
					continue
				}
				g.addEdge(NodeID(id), cid)
			}
		}
	}
	return g
}

// declarations returns the bodies of n that live outside its own call.
func declarations(n model.Node) []model.Coords {
	switch v := n.(type) {
	case *model.Route:
		if v.Handler != nil {
			return []model.Coords{*v.Handler}
		}
	case *model.Function:
		return []model.Coords{v.Decl}
	}
	return nil
}
