package mapgraph

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/talgya/hollowreach/internal/worldmodel"
)

func testEdges() []Edge {
	return []Edge{
		{A: "A", B: "B", KM: 10, Quality: QualityRoad},
		{A: "B", B: "C", KM: 5, Quality: QualityRough},
		{A: "A", B: "C", KM: 20, Quality: QualityRoad},
	}
}

func TestNeighbors_SortedBothDirections(t *testing.T) {
	g := NewGraph(testEdges())
	require.Equal(t, []worldmodel.SiteID{"B", "C"}, g.Neighbors("A"))
	require.Equal(t, []worldmodel.SiteID{"A", "B"}, g.Neighbors("C"))
}

func TestEdge_FindsEitherDirection(t *testing.T) {
	g := NewGraph(testEdges())
	e, ok := g.Edge("A", "B")
	require.True(t, ok)
	require.Equal(t, 10.0, e.KM)

	e2, ok2 := g.Edge("B", "A")
	require.True(t, ok2)
	require.Equal(t, 10.0, e2.KM)
}

func TestEdge_MissingReturnsFalse(t *testing.T) {
	g := NewGraph(testEdges())
	_, ok := g.Edge("A", "ZZZ")
	require.False(t, ok)
}

func TestAllEdges_PreservesInsertionOrder(t *testing.T) {
	edges := testEdges()
	g := NewGraph(edges)
	require.Equal(t, edges, g.AllEdges())
}

func TestNeighbors_EmptyForUnknownSite(t *testing.T) {
	g := NewGraph(testEdges())
	require.Empty(t, g.Neighbors("NOWHERE"))
}
