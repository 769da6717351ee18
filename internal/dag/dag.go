// SPDX-License-Identifier: MPL-2.0

// Package dag provides directed graph layering and cycle extraction. It is
// used to describe bundle include graphs: which bundles become resolvable in
// which layer, and which concrete cycle blocks resolution when one exists.
package dag

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrCycle is the sentinel error wrapped by CycleError.
var ErrCycle = errors.New("dependency cycle detected")

type (
	// CycleError indicates that the graph contains a cycle, preventing topological ordering.
	CycleError struct {
		// Cycle is one concrete cycle, first node repeated at the end
		// (e.g. [a b a]).
		Cycle []string
		// Blocked lists every node that could not be ordered, in insertion order.
		Blocked []string
	}

	// Graph is a directed graph with deterministic iteration.
	// An edge from A to B means A must be settled before B.
	Graph struct {
		// adjacency maps each node to its outgoing neighbors.
		adjacency map[string][]string
		// reverse maps each node to its incoming neighbors.
		reverse map[string][]string
		// nodes tracks all nodes in insertion order for deterministic output.
		nodes []string
		// nodeSet provides O(1) lookup for node existence.
		nodeSet map[string]bool
	}
)

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(e.Cycle, " -> "))
}

// Unwrap returns ErrCycle for errors.Is() compatibility.
func (e *CycleError) Unwrap() error { return ErrCycle }

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		adjacency: make(map[string][]string),
		reverse:   make(map[string][]string),
		nodeSet:   make(map[string]bool),
	}
}

// AddNode adds a node to the graph. If the node already exists, this is a no-op.
func (g *Graph) AddNode(name string) {
	if g.nodeSet[name] {
		return
	}
	g.nodeSet[name] = true
	g.nodes = append(g.nodes, name)
}

// AddEdge adds a directed edge from -> to. Both nodes are implicitly added.
// Repeated edges are ignored.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	if slices.Contains(g.adjacency[from], to) {
		return
	}
	g.adjacency[from] = append(g.adjacency[from], to)
	g.reverse[to] = append(g.reverse[to], from)
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []string { return slices.Clone(g.nodes) }

// Layers groups nodes by Kahn level: layer 0 holds nodes without incoming
// edges, layer n holds nodes whose predecessors all sit in earlier layers.
// Nodes inside a layer keep insertion order. Returns CycleError if the graph
// contains a cycle.
func (g *Graph) Layers() ([][]string, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	inDegree := g.inDegrees()
	var current []string
	for _, node := range g.nodes {
		if inDegree[node] == 0 {
			current = append(current, node)
		}
	}

	var layers [][]string
	placed := 0
	for len(current) > 0 {
		layers = append(layers, current)
		placed += len(current)

		ready := make(map[string]bool)
		for _, node := range current {
			for _, neighbor := range g.adjacency[node] {
				inDegree[neighbor]--
				if inDegree[neighbor] == 0 {
					ready[neighbor] = true
				}
			}
		}
		var next []string
		for _, node := range g.nodes {
			if ready[node] {
				next = append(next, node)
			}
		}
		current = next
	}

	if placed != len(g.nodes) {
		return layers, g.cycleError(inDegree)
	}
	return layers, nil
}

// FindCycle returns one cycle reachable among the given nodes, or nil if the
// subgraph they induce is acyclic.
func (g *Graph) FindCycle(within []string) []string {
	set := make(map[string]bool, len(within))
	for _, n := range within {
		set[n] = true
	}

	// DFS with colors: 0 unvisited, 1 on stack, 2 done.
	color := make(map[string]int, len(within))
	var stack []string
	var found []string
	var visit func(string) bool
	visit = func(node string) bool {
		color[node] = 1
		stack = append(stack, node)
		for _, next := range g.adjacency[node] {
			if !set[next] {
				continue
			}
			switch color[next] {
			case 1:
				start := slices.Index(stack, next)
				found = append(slices.Clone(stack[start:]), next)
				return true
			case 0:
				if visit(next) {
					return true
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[node] = 2
		return false
	}

	for _, n := range g.nodes {
		if set[n] && color[n] == 0 && visit(n) {
			return found
		}
	}
	return nil
}

func (g *Graph) inDegrees() map[string]int {
	inDegree := make(map[string]int, len(g.nodes))
	for _, node := range g.nodes {
		inDegree[node] = len(g.reverse[node])
	}
	return inDegree
}

func (g *Graph) cycleError(inDegree map[string]int) *CycleError {
	var blocked []string
	for _, node := range g.nodes {
		if inDegree[node] > 0 {
			blocked = append(blocked, node)
		}
	}
	cycle := g.FindCycle(blocked)
	if cycle == nil {
		cycle = blocked
	}
	return &CycleError{Cycle: cycle, Blocked: blocked}
}
