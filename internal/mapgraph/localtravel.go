package mapgraph

import (
	"container/heap"

	"github.com/talgya/hollowreach/internal/config"
	"github.com/talgya/hollowreach/internal/worldmodel"
)

// ShortestPath runs Dijkstra over a settlement's LocalGraph and returns the
// node-id path from start to goal, inclusive of both endpoints, breaking
// ties lexicographically by node id for determinism.
func ShortestPath(g *worldmodel.LocalGraph, start, goal string) []string {
	if g == nil || start == goal {
		return []string{start}
	}

	adjacency := make(map[string][]worldmodel.LocalEdge)
	for _, e := range g.Edges {
		adjacency[e.A] = append(adjacency[e.A], e)
		adjacency[e.B] = append(adjacency[e.B], worldmodel.LocalEdge{A: e.B, B: e.A, Meters: e.Meters})
	}

	dist := map[string]float64{start: 0}
	prev := map[string]string{}
	visited := map[string]bool{}

	pq := &nodeHeap{{id: start, priority: 0}}
	heap.Init(pq)

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(nodeItem)
		if visited[cur.id] {
			continue
		}
		visited[cur.id] = true
		if cur.id == goal {
			break
		}
		for _, e := range adjacency[cur.id] {
			next := e.B
			nd := dist[cur.id] + e.Meters
			if existing, ok := dist[next]; !ok || nd < existing || (nd == existing && cur.id < prev[next]) {
				dist[next] = nd
				prev[next] = cur.id
				heap.Push(pq, nodeItem{id: next, priority: nd})
			}
		}
	}

	if _, ok := dist[goal]; !ok {
		return nil
	}

	var path []string
	for at := goal; ; {
		path = append([]string{at}, path...)
		if at == start {
			break
		}
		at = prev[at]
	}
	return path
}

type nodeItem struct {
	id       string
	priority float64
}

type nodeHeap []nodeItem

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	if h[i].priority == h[j].priority {
		return h[i].id < h[j].id
	}
	return h[i].priority < h[j].priority
}
func (h nodeHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x any)        { *h = append(*h, x.(nodeItem)) }
func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// StartLocalTravel builds the LocalTravelState for an NPC walking from its
// current location to a destination node within the same settlement.
func StartLocalTravel(g *worldmodel.LocalGraph, from, to string) *worldmodel.LocalTravelState {
	path := ShortestPath(g, from, to)
	if len(path) == 0 {
		return nil
	}
	return &worldmodel.LocalTravelState{Path: path, NextIndex: 1}
}

// ProgressLocalTravelHourly advances every NPC's intra-settlement walk by
// the fixed per-hour meter rate, in deterministic (sorted) NPC order. It
// runs after inter-site travel in the orchestrator's movement step.
func ProgressLocalTravelHourly(w *worldmodel.World, cfg config.Config, sink *worldmodel.EventSink) {
	for _, id := range w.SortedNPCIDs() {
		npc := w.NPCs[id]
		if !npc.Alive || npc.LocalTravel == nil {
			continue
		}
		lt := npc.LocalTravel
		if lt.LastProgressTick == w.Tick {
			continue
		}
		lt.LastProgressTick = w.Tick

		site := w.Sites[npc.SiteID]
		remainingStep := cfg.LocalTravelMetersPerHour

		for remainingStep > 0 && lt.NextIndex < len(lt.Path) {
			curNode := lt.Path[lt.NextIndex-1]
			nextNode := lt.Path[lt.NextIndex]
			edgeMeters := localEdgeMeters(site.Graph, curNode, nextNode)
			if lt.RemainingMeters <= 0 {
				lt.RemainingMeters = edgeMeters
			}
			if remainingStep >= lt.RemainingMeters {
				remainingStep -= lt.RemainingMeters
				lt.NextIndex++
				lt.RemainingMeters = 0
			} else {
				lt.RemainingMeters -= remainingStep
				remainingStep = 0
			}
		}

		if lt.NextIndex >= len(lt.Path) {
			npc.LocalTravel = nil
			sink.Emit(worldmodel.EventTravelArrived, worldmodel.VisibilityPrivate, npc.SiteID,
				string(npc.ID)+" reaches its destination within the settlement",
				map[string]any{"npcId": npc.ID, "nodeId": lt.Path[len(lt.Path)-1]})
		} else {
			npc.LocalTravel = lt
		}
		w.NPCs[id] = npc
	}
}

func localEdgeMeters(g *worldmodel.LocalGraph, a, b string) float64 {
	if g == nil {
		return 0
	}
	for _, e := range g.Edges {
		if (e.A == a && e.B == b) || (e.A == b && e.B == a) {
			return e.Meters
		}
	}
	return 0
}
