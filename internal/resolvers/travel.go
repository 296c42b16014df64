package resolvers

import (
	"github.com/talgya/hollowreach/internal/config"
	"github.com/talgya/hollowreach/internal/mapgraph"
	"github.com/talgya/hollowreach/internal/rng"
	"github.com/talgya/hollowreach/internal/worldmodel"
)

func resolveTravel(w *worldmodel.World, at worldmodel.Attempt, cfg config.Config, graph *mapgraph.Graph, stream *rng.Stream, sink *worldmodel.EventSink) error {
	return startTravelToBestNeighbor(w, at, graph, stream, sink)
}

// startTravelToBestNeighbor picks a destination from the attempt's
// resources (if supplied) or scores every road-graph neighbor by
// `200 − danger + rng×0.01`, blocks hidden hideouts, and begins travel.
func startTravelToBestNeighbor(w *worldmodel.World, at worldmodel.Attempt, graph *mapgraph.Graph, stream *rng.Stream, sink *worldmodel.EventSink) error {
	npc := w.NPCs[at.ActorID]

	var destID worldmodel.SiteID
	if at.Resources != nil {
		if d, ok := at.Resources["destination"]; ok {
			destID = worldmodel.SiteID(d)
		}
	}

	if destID == "" {
		best, err := pickBestNeighbor(w, graph, npc.SiteID, stream)
		if err != nil {
			return err
		}
		destID = best
	}

	if destID == "" {
		recordAttempt(sink, at, false, map[string]any{"reason": "no_reachable_destination"})
		return nil
	}

	dest := w.Sites[destID]
	if dest.Kind == worldmodel.SiteHideout && dest.Hidden {
		recordAttempt(sink, at, false, map[string]any{"reason": "destination_hidden"})
		return nil
	}

	edge, ok := graph.Edge(npc.SiteID, destID)
	if !ok {
		recordAttempt(sink, at, false, map[string]any{"reason": "no_edge"})
		return nil
	}

	npc.Travel = &worldmodel.TravelState{
		From: npc.SiteID, To: destID, TotalKm: edge.KM, RemainingKm: edge.KM,
		EdgeQuality: string(edge.Quality), StartedTick: w.Tick, LastProgressTick: w.Tick,
	}
	w.NPCs[at.ActorID] = npc

	sink.Emit(worldmodel.EventStartedTraveling, worldmodel.VisibilityPublic, at.SiteID,
		string(at.ActorID)+" sets out for "+string(destID),
		map[string]any{"npcId": at.ActorID, "destination": destID})
	recordAttempt(sink, at, true, map[string]any{"destination": destID})
	return nil
}

func pickBestNeighbor(w *worldmodel.World, graph *mapgraph.Graph, from worldmodel.SiteID, stream *rng.Stream) (worldmodel.SiteID, error) {
	var best worldmodel.SiteID
	bestScore := -1e18
	for _, neighborID := range graph.Neighbors(from) {
		site := w.Sites[neighborID]
		roll, err := stream.Float(0, 1)
		if err != nil {
			return "", err
		}
		score := 200 - site.Danger() + roll*0.01
		if score > bestScore {
			bestScore = score
			best = neighborID
		}
	}
	return best, nil
}
