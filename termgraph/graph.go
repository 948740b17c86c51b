// Package termgraph implements a directed multigraph whose nodes carry a
// payload and whose edges carry no payload. It tracks both successor and
// predecessor adjacency so callers can walk a node's outgoing structure
// (its successors) as well as discover who points at it (its
// predecessors) — the latter is what the congruence closure algorithm
// needs to find candidate merges.
//
// Nodes and edges are append-only; the graph never removes either. Node
// indices are dense, zero-based, and assigned in allocation order, which
// lets a caller use the same dense index space for the graph and for a
// companion union-find table (see package cc).
package termgraph

import "iter"

// NodeIndex identifies a node in a Graph.
type NodeIndex uint32

// Graph is a directed multigraph with node payloads of type K and
// unpayloaded edges. The zero value is an empty, usable Graph.
//
// A Graph is not safe for concurrent use.
type Graph[K any] struct {
	nodes []node[K]
}

type node[K any] struct {
	data K
	succ []NodeIndex
	pred []NodeIndex
}

// AddNode appends a new node with the given payload and returns its
// index.
func (g *Graph[K]) AddNode(payload K) NodeIndex {
	idx := NodeIndex(len(g.nodes))
	g.nodes = append(g.nodes, node[K]{data: payload})
	return idx
}

// AddEdge records a directed edge from u to v. Duplicate edges between the
// same pair of nodes are permitted; the graph does not deduplicate.
func (g *Graph[K]) AddEdge(u, v NodeIndex) {
	g.nodes[u].succ = append(g.nodes[u].succ, v)
	g.nodes[v].pred = append(g.nodes[v].pred, u)
}

// SuccessorNodes returns an iterator, in insertion order, over the targets
// of u's outgoing edges. The set of edges is fixed at the moment
// SuccessorNodes is called: edges added to u afterwards are not reflected
// by a not-yet-exhausted iterator already in hand.
func (g *Graph[K]) SuccessorNodes(u NodeIndex) iter.Seq[NodeIndex] {
	edges := g.nodes[u].succ
	return func(yield func(NodeIndex) bool) {
		for _, v := range edges {
			if !yield(v) {
				return
			}
		}
	}
}

// PredecessorNodes returns an iterator, in insertion order, over the
// sources of u's incoming edges. As with SuccessorNodes, the set of edges
// is fixed at the moment PredecessorNodes is called.
func (g *Graph[K]) PredecessorNodes(u NodeIndex) iter.Seq[NodeIndex] {
	edges := g.nodes[u].pred
	return func(yield func(NodeIndex) bool) {
		for _, v := range edges {
			if !yield(v) {
				return
			}
		}
	}
}

// NodeData returns the payload stored at node u.
func (g *Graph[K]) NodeData(u NodeIndex) K {
	return g.nodes[u].data
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph[K]) NodeCount() int {
	return len(g.nodes)
}
