// Package graph wires routing call sites into a multi-parent call graph and
// folds documentation along its root-to-leaf paths.
package graph

import (
	"github.com/Zachacious/go-routedoc/internal/model"
	"github.com/hashicorp/go-set/v3"
)

// NodeID indexes a node in a Graph.
type NodeID int

// Graph is an arena of call-site nodes with explicit adjacency lists. A node may
// have several parents when a shared helper is invoked from several routes.
type Graph struct {
	nodes    []model.Node
	parents  [][]NodeID
	children [][]NodeID
	byFile   map[string][]NodeID
	index    map[model.Position]NodeID
}

func newGraph() *Graph {
	return &Graph{
		byFile: make(map[string][]NodeID),
		index:  make(map[model.Position]NodeID),
	}
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// Node returns the node with the given id.
func (g *Graph) Node(id NodeID) model.Node { return g.nodes[id] }

// Parents returns the parents of id.
func (g *Graph) Parents(id NodeID) []NodeID { return g.parents[id] }

// Children returns the children of id in insertion order.
func (g *Graph) Children(id NodeID) []NodeID { return g.children[id] }

// Lookup finds the node whose call starts at pos.
func (g *Graph) Lookup(pos model.Position) (NodeID, bool) {
	id, ok := g.index[pos]
	return id, ok
}

// Roots returns the nodes without parents.
func (g *Graph) Roots() []NodeID {
	var roots []NodeID
	for id := range g.nodes {
		if len(g.parents[id]) == 0 {
			roots = append(roots, NodeID(id))
		}
	}
	return roots
}

func (g *Graph) add(n model.Node) NodeID {
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, n)
	g.parents = append(g.parents, nil)
	g.children = append(g.children, nil)
	at := n.Coords()
	g.byFile[at.File] = append(g.byFile[at.File], id)
	return id
}

func (g *Graph) addEdge(parent, child NodeID) bool {
	for _, p := range g.parents[child] {
		if p == parent {
			return false
		}
	}
	g.parents[child] = append(g.parents[child], parent)
	g.children[parent] = append(g.children[parent], child)
	return true
}

// reaches reports whether to is reachable from from along child edges.
func (g *Graph) reaches(from, to NodeID) bool {
	seen := set.New[NodeID](8)
	stack := []NodeID{from}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id == to {
			return true
		}
		if !seen.Insert(id) {
			continue
		}
		stack = append(stack, g.children[id]...)
	}
	return false
}
