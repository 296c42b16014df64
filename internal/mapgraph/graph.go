// Package mapgraph implements the road graph and cross-tick travel
// progress described in spec.md Section 4.2. The graph itself is a plain
// undirected multigraph; intra-settlement movement uses each site's own
// worldmodel.LocalGraph with Dijkstra shortest paths.
package mapgraph

import (
	"sort"

	"github.com/talgya/hollowreach/internal/worldmodel"
)

// EdgeQuality is the closed enumeration of road surface quality.
type EdgeQuality string

const (
	QualityRoad  EdgeQuality = "road"
	QualityRough EdgeQuality = "rough"
)

// Edge is one road-graph edge between two sites.
type Edge struct {
	A       worldmodel.SiteID
	B       worldmodel.SiteID
	KM      float64
	Quality EdgeQuality
}

// Graph is an undirected multigraph over site ids.
type Graph struct {
	edges     []Edge
	adjacency map[worldmodel.SiteID][]int // site id -> indices into edges
}

// NewGraph builds a Graph from a flat edge list. Edges are stored as given;
// KM is not validated here, so a negative KM is kept as is.
func NewGraph(edges []Edge) *Graph {
	g := &Graph{
		edges:     edges,
		adjacency: make(map[worldmodel.SiteID][]int),
	}
	for i, e := range edges {
		g.adjacency[e.A] = append(g.adjacency[e.A], i)
		g.adjacency[e.B] = append(g.adjacency[e.B], i)
	}
	return g
}

// Neighbors iterates edges touching site in both directions, returning the
// far endpoint of each, in deterministic (sorted) order.
func (g *Graph) Neighbors(site worldmodel.SiteID) []worldmodel.SiteID {
	var out []worldmodel.SiteID
	for _, idx := range g.adjacency[site] {
		e := g.edges[idx]
		if e.A == site {
			out = append(out, e.B)
		} else {
			out = append(out, e.A)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Edge returns the first matching edge between a and b (in either
// direction), or false if none exists.
func (g *Graph) Edge(a, b worldmodel.SiteID) (Edge, bool) {
	for _, idx := range g.adjacency[a] {
		e := g.edges[idx]
		if (e.A == a && e.B == b) || (e.A == b && e.B == a) {
			return e, true
		}
	}
	return Edge{}, false
}

// AllEdges returns every edge, in insertion order.
func (g *Graph) AllEdges() []Edge {
	return g.edges
}
