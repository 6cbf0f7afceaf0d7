package scheduling

import (
	"github.com/andrescamacho/industry-planner/internal/domain/production"
)

// DependencyGraph has one vertex per distinct template and an edge from each
// template to every prerequisite it declares.
type DependencyGraph struct {
	vertices []*production.JobTemplate
	index    map[production.TemplateID]int
}

// BuildDependencyGraph builds the graph for the given templates, pulling in
// prerequisites transitively even when they are not part of the input list.
// Vertices keep first-seen order: input order, then discovery order.
func BuildDependencyGraph(templates []*production.JobTemplate) *DependencyGraph {
	g := &DependencyGraph{
		vertices: make([]*production.JobTemplate, 0, len(templates)),
		index:    make(map[production.TemplateID]int),
	}

	queue := make([]*production.JobTemplate, 0, len(templates))
	for _, t := range templates {
		if g.add(t) {
			queue = append(queue, t)
		}
	}
	for len(queue) > 0 {
		t := queue[0]
		queue = queue[1:]
		for _, prereq := range t.Prerequisites() {
			if g.add(prereq) {
				queue = append(queue, prereq)
			}
		}
	}
	return g
}

func (g *DependencyGraph) add(t *production.JobTemplate) bool {
	if t == nil {
		return false
	}
	if _, exists := g.index[t.ID()]; exists {
		return false
	}
	g.index[t.ID()] = len(g.vertices)
	g.vertices = append(g.vertices, t)
	return true
}

// Vertices returns the templates in the graph in first-seen order
func (g *DependencyGraph) Vertices() []*production.JobTemplate {
	out := make([]*production.JobTemplate, len(g.vertices))
	copy(out, g.vertices)
	return out
}

// Len returns the number of vertices
func (g *DependencyGraph) Len() int {
	return len(g.vertices)
}

// Contains returns true if the template is a vertex of the graph
func (g *DependencyGraph) Contains(id production.TemplateID) bool {
	_, ok := g.index[id]
	return ok
}

// EdgeCount returns the number of dependency edges
func (g *DependencyGraph) EdgeCount() int {
	n := 0
	for _, v := range g.vertices {
		n += len(v.Prerequisites())
	}
	return n
}

type visitState int

const (
	unvisited visitState = iota
	visiting
	visited
)

// TopologicalOrder returns the templates so that every template appears after all of its
// prerequisites. Templates without prerequisites come first.
//
// Algorithm:
// 1. Depth-first search from each vertex in first-seen order
// 2. A vertex is emitted after all its prerequisites (post-order)
// 3. Reaching a vertex that is still on the DFS path means a cycle
//
// The order is deterministic for a given input order.
func (g *DependencyGraph) TopologicalOrder() ([]*production.JobTemplate, error) {
	state := make([]visitState, len(g.vertices))
	order := make([]*production.JobTemplate, 0, len(g.vertices))
	path := make([]int, 0)

	var visit func(i int) error
	visit = func(i int) error {
		switch state[i] {
		case visited:
			return nil
		case visiting:
			return &ErrCyclicDependency{Cycle: g.cycleFrom(path, i)}
		}

		state[i] = visiting
		path = append(path, i)
		for _, prereq := range g.vertices[i].Prerequisites() {
			if err := visit(g.index[prereq.ID()]); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		state[i] = visited
		order = append(order, g.vertices[i])
		return nil
	}

	for i := range g.vertices {
		if err := visit(i); err != nil {
			return nil, err
		}
	}
	return order, nil
}

func (g *DependencyGraph) cycleFrom(path []int, start int) []string {
	names := make([]string, 0, len(path)+1)
	found := false
	for _, i := range path {
		if i == start {
			found = true
		}
		if found {
			names = append(names, g.vertices[i].Name())
		}
	}
	return append(names, g.vertices[start].Name())
}
